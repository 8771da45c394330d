package otel

import (
	"go.opentelemetry.io/otel"

	"github.com/Alturino/productproxy/internal/common/constants"
)

var Tracer = otel.Tracer(constants.APP_MAIN)
