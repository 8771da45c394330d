package constants

const (
	APP_PRODUCT_SERVICE = "product-service"
	APP_MAIN            = "product-proxy"
)
