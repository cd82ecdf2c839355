package http

const (
	KEY_HEADER_CONTENT_TYPE  = "Content-Type"
	KEY_HEADER_ACCEPT        = "Accept"
	KEY_HEADER_AUTHORIZATION = "Authorization"
	KEY_HEADER_REQUEST_ID    = "X-Request-Id"

	VALUE_HEADER_APPLICATION_JSON = "application/json"
	VALUE_BEARER_PREFIX           = "Bearer "
)

const (
	PATH_API_PREFIX        = "/api"
	PATH_PRODUCTS          = "/products"
	PATH_SEARCH_PRODUCTS   = "/search/products"
	PATH_SEARCH_RECENT     = "/search/recent"
	PATH_CARTS             = "/carts"
	PATH_CART_ITEMS        = "/carts/items"
	PATH_AUTH_LOGIN        = "/auth/login"
	PATH_AUTH_SIGNUP       = "/auth/signup"
	PATH_USERS             = "/users"
	PATH_ORDERS            = "/orders"
	PATH_PAYMENTS_MOMO     = "/payments/mobile-money/initiate"
	QUERY_PAGE             = "page"
	QUERY_SIZE             = "size"
	QUERY_SORT             = "sort"
	QUERY_CATEGORY         = "category"
	QUERY_SUBCATEGORY      = "subcategory"
	QUERY_SEARCH           = "query"
	QUERY_MIN_PRICE        = "minPrice"
	QUERY_MAX_PRICE        = "maxPrice"
	QUERY_MIN_RATING       = "minRating"
	QUERY_IN_STOCK         = "inStock"
	OUTCOME_SUCCESS        = "success"
	OUTCOME_NETWORK        = "network_failure"
	OUTCOME_REJECTED       = "server_rejected"
	OUTCOME_UNEXPECTED     = "unexpected_shape"
	OUTCOME_BREAKER_OPENED = "breaker_open"
)
