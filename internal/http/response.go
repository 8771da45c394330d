package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Alturino/productproxy/internal/otel"
)

func WriteJsonResponse(
	c context.Context,
	w http.ResponseWriter,
	header map[string]string,
	body map[string]interface{},
) {
	c, span := otel.Tracer.Start(c, "WriteJsonResponse")
	defer span.End()

	logger := zerolog.Ctx(c).With().Ctx(c).Str("tag", "WriteJsonResponse").Logger()

	w.Header().Set(KEY_HEADER_CONTENT_TYPE, VALUE_HEADER_APPLICATION_JSON)
	for k, v := range header {
		w.Header().Add(k, v)
	}

	if v, ok := body["statusCode"].(int); ok {
		w.WriteHeader(v)
	}

	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
}

// WriteRawResponse writes body untouched, used for documents proxied from the remote store.
func WriteRawResponse(
	c context.Context,
	w http.ResponseWriter,
	statusCode int,
	contentType string,
	body []byte,
) {
	c, span := otel.Tracer.Start(c, "WriteRawResponse")
	defer span.End()

	logger := zerolog.Ctx(c).With().Ctx(c).Str("tag", "WriteRawResponse").Logger()

	w.Header().Set(KEY_HEADER_CONTENT_TYPE, contentType)
	w.WriteHeader(statusCode)
	if _, err := w.Write(body); err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
	}
}
