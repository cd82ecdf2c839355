package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/constants"
	"github.com/Alturino/storefront/internal/feed"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/metrics"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/validate"
	"github.com/Alturino/storefront/product/internal/otel"
	"github.com/Alturino/storefront/product/internal/repository"
	"github.com/Alturino/storefront/product/pkg/request"
	"github.com/Alturino/storefront/product/pkg/response"
)

const (
	FEED_HOME     = "home"
	FEED_CATEGORY = "category"
)

type ProductService struct {
	repository repository.ProductRepository
	metrics    *metrics.Metrics
	pageSize   int
	sort       string
}

func NewProductService(
	client *inHttp.Client,
	metrics *metrics.Metrics,
	pageSize int,
	sort string,
) *ProductService {
	if pageSize <= 0 {
		pageSize = constants.DEFAULT_PAGE_SIZE
	}
	if sort == "" {
		sort = constants.DEFAULT_SORT
	}
	return &ProductService{
		repository: repository.NewProductRepository(client),
		metrics:    metrics,
		pageSize:   pageSize,
		sort:       sort,
	}
}

func (svc *ProductService) FindProducts(
	c context.Context,
	param request.FindProducts,
) (feed.Page[response.Product], error) {
	c, span := otel.Tracer.Start(c, "ProductService FindProducts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductService FindProducts").
		Object(constants.KEY_REQUEST, param).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "validating request").Logger()
	logger.Trace().Msg("validating request")
	if err := validate.Struct(param); err != nil {
		err = fmt.Errorf("failed validating find products request with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return feed.Page[response.Product]{}, err
	}
	logger.Trace().Msg("validated request")

	logger = logger.With().Str(constants.KEY_PROCESS, "finding products").Logger()
	logger.Info().Msg("finding products")
	span.AddEvent("finding products")
	page, err := svc.repository.FindProducts(logger.WithContext(c), param)
	if err != nil {
		err = fmt.Errorf("failed finding products with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return feed.Page[response.Product]{}, err
	}
	logger.Info().Int(constants.KEY_PRODUCTS_COUNT, len(page.Items())).Msg("found products")

	return feed.Page[response.Product]{Items: page.Items(), Last: page.IsLast()}, nil
}

func (svc *ProductService) FindProductById(c context.Context, id string) (response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService FindProductById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductService FindProductById").
		Str(constants.KEY_PRODUCT_ID, id).
		Logger()

	param := request.FindProductById{ID: strings.TrimSpace(id)}
	if err := validate.Struct(param); err != nil {
		err = fmt.Errorf("failed validating productId=%s with error=%w", id, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "finding product").Logger()
	logger.Info().Msgf("finding product by id=%s", param.ID)
	product, err := svc.repository.FindProductById(logger.WithContext(c), param.ID)
	if err != nil {
		err = fmt.Errorf("failed finding product by id=%s with error=%w", param.ID, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	logger.Info().Object(constants.KEY_PRODUCT, product).Msgf("found product by id=%s", param.ID)

	return product, nil
}

// NewFeed returns a product feed. Configure it with CategoryParams, zero params for the home feed.
func (svc *ProductService) NewFeed(name string, opts ...feed.Option) *feed.Feed[response.Product] {
	options := append([]feed.Option{
		feed.WithName(name),
		feed.WithPageSize(svc.pageSize),
		feed.WithSort(svc.sort),
		feed.WithMetrics(svc.metrics),
	}, opts...)
	return feed.New(svc.fetchPage, options...)
}

func (svc *ProductService) fetchPage(c context.Context, req feed.PageRequest) (feed.Page[response.Product], error) {
	return svc.FindProducts(c, request.FindProducts{
		Page:        req.Page,
		Size:        req.Size,
		Sort:        req.Sort,
		Category:    req.Category,
		Subcategory: req.Subcategory,
	})
}

// CategoryParams normalizes a category selection. "All" selects the unfiltered catalog.
func CategoryParams(category string, subcategory string) feed.Params {
	category = strings.TrimSpace(category)
	if category == constants.DEFAULT_CATEGORY_ALL {
		category = ""
	}
	return feed.Params{Category: category, Subcategory: strings.TrimSpace(subcategory)}
}
