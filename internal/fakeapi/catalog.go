package fakeapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/Alturino/storefront/internal/constants"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/middleware"
	"github.com/Alturino/storefront/internal/types"
	productResponse "github.com/Alturino/storefront/product/pkg/response"
)

const maxRecentSearches = 10

// SeedProducts appends products to the catalog, assigning ids to those without one.
func (s *Server) SeedProducts(products ...productResponse.Product) []productResponse.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	seeded := make([]productResponse.Product, 0, len(products))
	for _, p := range products {
		if p.ID.IsZero() {
			p.ID = s.newIDLocked()
		}
		s.products = append(s.products, p)
		seeded = append(seeded, p)
	}
	return seeded
}

// GenerateProducts builds n products in category priced 10, 11, 12 and so on.
func GenerateProducts(n int, category string, subcategory string) []productResponse.Product {
	products := make([]productResponse.Product, 0, n)
	for i := 0; i < n; i++ {
		stock := 10
		products = append(products, productResponse.Product{
			Name:        fmt.Sprintf("%s product %d", category, i+1),
			Description: fmt.Sprintf("%s %s number %d", category, subcategory, i+1),
			Price:       decimal.NewFromInt(int64(10 + i)),
			ImageURL:    fmt.Sprintf("https://img.example.com/%s/%d.png", strings.ToLower(category), i+1),
			Rating:      float64(i%5) + 0.5,
			Category:    category,
			Subcategory: subcategory,
			Stock:       &stock,
		})
	}
	return products
}

func (s *Server) findProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	category := query.Get(inHttp.QUERY_CATEGORY)
	subcategory := query.Get(inHttp.QUERY_SUBCATEGORY)

	s.mu.Lock()
	matched := make([]productResponse.Product, 0, len(s.products))
	for _, p := range s.products {
		if category != "" && category != constants.DEFAULT_CATEGORY_ALL && !strings.EqualFold(p.Category, category) {
			continue
		}
		if subcategory != "" && !strings.EqualFold(p.Subcategory, subcategory) {
			continue
		}
		matched = append(matched, p)
	}
	s.mu.Unlock()

	writePage(w, r, matched)
}

func (s *Server) findProduct(w http.ResponseWriter, r *http.Request) {
	id := types.ID(mux.Vars(r)["id"])

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.ID == id {
			inHttp.WriteJsonResponse(r.Context(), w, http.StatusOK, nil, p)
			return
		}
	}
	writeFailure(r.Context(), w, http.StatusNotFound, "Product not found")
}

func (s *Server) searchProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	term := strings.ToLower(strings.TrimSpace(query.Get(inHttp.QUERY_SEARCH)))
	minPrice, minErr := optionalDecimal(query.Get(inHttp.QUERY_MIN_PRICE))
	maxPrice, maxErr := optionalDecimal(query.Get(inHttp.QUERY_MAX_PRICE))
	if minErr != nil || maxErr != nil {
		writeFailure(r.Context(), w, http.StatusBadRequest, "Invalid price filter")
		return
	}
	minRating, _ := strconv.ParseFloat(query.Get(inHttp.QUERY_MIN_RATING), 64)
	inStock := query.Get(inHttp.QUERY_IN_STOCK) == "true"

	if token := middleware.BearerToken(r); token != "" && term != "" {
		if subject, err := s.verify(r.Context(), token); err == nil {
			s.remember(subject, query.Get(inHttp.QUERY_SEARCH))
		}
	}

	s.mu.Lock()
	matched := make([]productResponse.Product, 0, len(s.products))
	for _, p := range s.products {
		text := strings.ToLower(p.Name + " " + p.Description + " " + p.Category + " " + p.Subcategory)
		switch {
		case term != "" && !strings.Contains(text, term):
		case minPrice != nil && p.Price.LessThan(*minPrice):
		case maxPrice != nil && p.Price.GreaterThan(*maxPrice):
		case p.Rating < minRating:
		case inStock && !p.InStock(1):
		default:
			matched = append(matched, p)
		}
	}
	s.mu.Unlock()

	writePage(w, r, matched)
}

func (s *Server) remember(subject string, term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recent := []string{term}
	for _, previous := range s.recent[subject] {
		if previous != term && len(recent) < maxRecentSearches {
			recent = append(recent, previous)
		}
	}
	s.recent[subject] = recent
}

func (s *Server) recentSearches(w http.ResponseWriter, r *http.Request) {
	subject := middleware.SubjectFromContext(r.Context())

	s.mu.Lock()
	recent := append([]string{}, s.recent[subject]...)
	s.mu.Unlock()

	inHttp.WriteJsonResponse(r.Context(), w, http.StatusOK, nil, recent)
}

func writePage(w http.ResponseWriter, r *http.Request, products []productResponse.Product) {
	query := r.URL.Query()
	page, err := strconv.Atoi(query.Get(inHttp.QUERY_PAGE))
	if err != nil || page < 0 {
		page = 0
	}
	size, err := strconv.Atoi(query.Get(inHttp.QUERY_SIZE))
	if err != nil || size <= 0 {
		size = constants.DEFAULT_PAGE_SIZE
	}

	start := min(page*size, len(products))
	end := min(start+size, len(products))
	totalPages := (len(products) + size - 1) / size

	inHttp.WriteJsonResponse(r.Context(), w, http.StatusOK, nil, map[string]any{
		"content":       products[start:end],
		"last":          end >= len(products),
		"number":        page,
		"size":          size,
		"totalPages":    totalPages,
		"totalElements": len(products),
	})
}

func optionalDecimal(value string) (*decimal.Decimal, error) {
	if value == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
