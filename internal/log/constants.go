package log

const (
	KeyAppName            = "app"
	KeyRequestID          = "requestId"
	KeyTraceID            = "traceId"
	KeySpanID             = "spanId"
	KeyProcess            = "process"
	KeyTag                = "tag"
	KeyRequest            = "request"
	KeyRequestBody        = "requestBody"
	KeyRequestHeader      = "requestHeader"
	KeyRequestHost        = "host"
	KeyRequestIp          = "requesterIP"
	KeyRequestMethod      = "requestMethod"
	KeyRequestURI         = "requestURI"
	KeyRequestURL         = "requestURL"
	KeyConfig             = "config"
	KeyFilename           = "filename"
	KeyField              = "field"
	KeyValue              = "value"
	KeyProductID          = "productId"
	KeyProduct            = "product"
	KeyProducts           = "products"
	KeyProductsCount      = "productsCount"
	KeyTotalQuantity      = "totalQuantity"
	KeyTotalValue         = "totalValue"
	KeyRemoteURL          = "remoteURL"
	KeyRemoteMethod       = "remoteMethod"
	KeyRemoteStatusCode   = "remoteStatusCode"
	KeyRemoteResponseSize = "remoteResponseSize"
)
