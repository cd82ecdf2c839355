package constants

const (
	APP_STOREFRONT       = "storefront"
	APP_CART_SERVICE     = "cart-service"
	APP_PRODUCT_SERVICE  = "product-service"
	APP_SEARCH_SERVICE   = "search-service"
	APP_USER_SERVICE     = "user-service"
	APP_ORDER_SERVICE    = "order-service"
	APP_PAYMENT_SERVICE  = "payment-service"
	APP_THEME_SERVICE    = "theme-service"
	APP_FEED             = "feed"
	APP_HTTP_CLIENT      = "http-client"
	APP_FAKE_API         = "fake-api"
	AUDIENCE_USER        = "audience-user"
	DEFAULT_SORT         = "id,asc"
	DEFAULT_PAGE_SIZE    = 10
	DEFAULT_CATEGORY_ALL = "All"
)

const (
	KEY_APP_NAME           = "app"
	KEY_TAG                = "tag"
	KEY_PROCESS            = "process"
	KEY_CONFIG             = "config"
	KEY_REQUEST_ID         = "requestId"
	KEY_TRACE_ID           = "traceId"
	KEY_SPAN_ID            = "spanId"
	KEY_REQUEST            = "request"
	KEY_REQUEST_METHOD     = "requestMethod"
	KEY_REQUEST_URL        = "requestURL"
	KEY_REQUEST_PATH       = "requestPath"
	KEY_RESPONSE_STATUS    = "responseStatus"
	KEY_ELAPSED            = "elapsed"
	KEY_HEADER             = "header"
	KEY_BODY               = "body"
	KEY_EMAIL              = "email"
	KEY_USER_ID            = "userId"
	KEY_TOKEN_PRESENT      = "tokenPresent"
	KEY_STORAGE_KEY        = "storageKey"
	KEY_STORAGE_DRIVER     = "storageDriver"
	KEY_CART_ITEMS         = "cartItems"
	KEY_CART_ITEMS_COUNT   = "cartItemsCount"
	KEY_CART_ITEM_QUANTITY = "cartItemQuantity"
	KEY_CART_GENERATION    = "cartGeneration"
	KEY_PRODUCT_ID         = "productId"
	KEY_PRODUCT            = "product"
	KEY_PRODUCTS_COUNT     = "productsCount"
	KEY_FEED_NAME          = "feed"
	KEY_FEED_PAGE          = "feedPage"
	KEY_FEED_GENERATION    = "feedGeneration"
	KEY_FEED_PARAMS        = "feedParams"
	KEY_SEARCH_QUERY       = "searchQuery"
	KEY_ORDER_ID           = "orderId"
	KEY_AMOUNT             = "amount"
	KEY_PAYMENT_STATUS     = "paymentStatus"
	KEY_PAYMENT_REFERENCE  = "paymentReference"
	KEY_DARK_THEME         = "darkTheme"
	KEY_BASE_URL           = "baseURL"
)
