package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/constants"
	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/feed"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/metrics"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/validate"
	"github.com/Alturino/storefront/product/pkg/response"
	"github.com/Alturino/storefront/search/internal/otel"
	"github.com/Alturino/storefront/search/internal/repository"
	"github.com/Alturino/storefront/search/pkg/request"
)

const FEED_SEARCH = "search"

// TokenProvider returns the stored auth token, "" when nobody is logged in.
type TokenProvider interface {
	Token(c context.Context) (string, error)
}

type SearchService struct {
	repository repository.SearchRepository
	tokens     TokenProvider
	metrics    *metrics.Metrics
	pageSize   int
	sort       string
}

func NewSearchService(
	client *inHttp.Client,
	tokens TokenProvider,
	metrics *metrics.Metrics,
	pageSize int,
	sort string,
) *SearchService {
	if pageSize <= 0 {
		pageSize = constants.DEFAULT_PAGE_SIZE
	}
	if sort == "" {
		sort = constants.DEFAULT_SORT
	}
	return &SearchService{
		repository: repository.NewSearchRepository(client),
		tokens:     tokens,
		metrics:    metrics,
		pageSize:   pageSize,
		sort:       sort,
	}
}

// SearchProducts fetches one page of results. The token is attached when one is stored.
func (svc *SearchService) SearchProducts(
	c context.Context,
	param request.SearchProducts,
) (feed.Page[response.Product], error) {
	c, span := otel.Tracer.Start(c, "SearchService SearchProducts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "SearchService SearchProducts").
		Str(constants.KEY_SEARCH_QUERY, param.Query).
		Object(constants.KEY_REQUEST, param).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "validating request").Logger()
	logger.Trace().Msg("validating request")
	if err := validate.Struct(param); err != nil {
		err = fmt.Errorf("failed validating search request with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return feed.Page[response.Product]{}, err
	}
	logger.Trace().Msg("validated request")

	logger = logger.With().Str(constants.KEY_PROCESS, "reading token").Logger()
	token, err := svc.tokens.Token(c)
	if err != nil {
		logger.Warn().Err(err).Msg("failed reading token searching anonymously")
		token = ""
	}

	logger = logger.With().
		Str(constants.KEY_PROCESS, "searching products").
		Bool(constants.KEY_TOKEN_PRESENT, token != "").
		Logger()
	logger.Info().Msg("searching products")
	span.AddEvent("searching products")
	page, err := svc.repository.SearchProducts(logger.WithContext(c), param, token)
	if err != nil {
		err = fmt.Errorf("failed searching products with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return feed.Page[response.Product]{}, err
	}
	logger.Info().Int(constants.KEY_PRODUCTS_COUNT, len(page.Items())).Msg("searched products")

	return feed.Page[response.Product]{Items: page.Items(), Last: page.IsLast()}, nil
}

func (svc *SearchService) NewFeed(opts ...feed.Option) *feed.Feed[response.Product] {
	options := append([]feed.Option{
		feed.WithName(FEED_SEARCH),
		feed.WithPageSize(svc.pageSize),
		feed.WithSort(svc.sort),
		feed.WithMetrics(svc.metrics),
	}, opts...)
	return feed.New(svc.fetchPage, options...)
}

func (svc *SearchService) fetchPage(c context.Context, req feed.PageRequest) (feed.Page[response.Product], error) {
	return svc.SearchProducts(c, request.SearchProducts{
		Query:   req.Query,
		Page:    req.Page,
		Size:    req.Size,
		Sort:    req.Sort,
		Filters: req.Filters,
	})
}

// Search points f at query and filters. A blank query clears f without any request.
func (svc *SearchService) Search(
	c context.Context,
	f *feed.Feed[response.Product],
	query string,
	filters request.Filters,
) error {
	c, span := otel.Tracer.Start(c, "SearchService Search")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "SearchService Search").
		Str(constants.KEY_SEARCH_QUERY, query).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "validating filters").Logger()
	if err := validate.Struct(filters); err != nil {
		err = fmt.Errorf("failed validating filters with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	if err := filters.Validate(); err != nil {
		err = fmt.Errorf("failed validating filters with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	params := feed.Params{Query: strings.TrimSpace(query), Filters: filters.Map()}
	if params.Query == "" {
		logger.Info().Msg("blank query clearing results")
		span.AddEvent("blank query clearing results")
		f.Clear(params)
		return nil
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "configuring feed").Logger()
	logger.Info().Msg("configuring feed")
	if err := f.Configure(logger.WithContext(c), params); err != nil {
		err = fmt.Errorf("failed searching query=%s with error=%w", params.Query, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("configured feed")

	return nil
}

// RecentSearches returns the logged in user's recent search terms.
func (svc *SearchService) RecentSearches(c context.Context) ([]string, error) {
	c, span := otel.Tracer.Start(c, "SearchService RecentSearches")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "SearchService RecentSearches").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "reading token").Logger()
	token, err := svc.tokens.Token(c)
	if err != nil {
		err = fmt.Errorf("failed reading token with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	if token == "" {
		err = fmt.Errorf("failed finding recent searches with error=%w", inErrors.ErrUnauthenticated)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "finding recent searches").Logger()
	logger.Info().Msg("finding recent searches")
	recent, err := svc.repository.FindRecentSearches(logger.WithContext(c), token)
	if err != nil {
		err = fmt.Errorf("failed finding recent searches with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Int("count", len(recent)).Msg("found recent searches")

	return recent, nil
}
