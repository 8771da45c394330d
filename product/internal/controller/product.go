package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	inHttp "github.com/Alturino/productproxy/internal/http"
	"github.com/Alturino/productproxy/internal/log"
	inOtel "github.com/Alturino/productproxy/internal/otel"
	inErrors "github.com/Alturino/productproxy/product/internal/errors"
	"github.com/Alturino/productproxy/product/internal/otel"
	"github.com/Alturino/productproxy/product/internal/service"
	"github.com/Alturino/productproxy/product/pkg/request"
)

type ProductController struct {
	service *service.ProductService
}

func AttachProductController(mux *mux.Router, service *service.ProductService) {
	controller := ProductController{service}

	router := mux.PathPrefix("/products").Subrouter()
	router.HandleFunc("", controller.ListAll).Methods(http.MethodGet)
	router.HandleFunc("", controller.Create).Methods(http.MethodPost)
	router.HandleFunc("", controller.Delete).Methods(http.MethodDelete)
	router.HandleFunc("/GetTotalQty", controller.GetTotalQty).Methods(http.MethodGet)
	router.HandleFunc("/GetTotalValue", controller.GetTotalValue).Methods(http.MethodGet)
	router.HandleFunc("/{field}/{value}", controller.FindByField).Methods(http.MethodGet)
}

func (p ProductController) FindByField(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController FindByField")
	defer span.End()

	pathValues := mux.Vars(r)
	field, value := pathValues["field"], pathValues["value"]
	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(log.KeyTag, "ProductController FindByField").
		Str(log.KeyField, field).
		Str(log.KeyValue, value).
		Logger()
	span.SetAttributes(attribute.String(log.KeyField, field), attribute.String(log.KeyValue, value))

	logger = logger.With().Str(log.KeyProcess, "finding product").Logger()
	logger.Trace().Msg("finding product")
	c = logger.WithContext(c)
	body, err := p.service.FindByField(c, field, value)
	if err != nil {
		err = fmt.Errorf("failed finding product by %s=%s with error=%w", field, value, err)
		inOtel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		writeFailure(c, w, err)
		return
	}
	logger.Info().Msg("found product")

	inHttp.WriteRawResponse(c, w, http.StatusOK, inHttp.VALUE_HEADER_APPLICATION_JSON, body)
}

func (p ProductController) ListAll(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController ListAll")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(log.KeyTag, "ProductController ListAll").
		Str(log.KeyProcess, "get products").
		Logger()

	logger.Trace().Msg("get products")
	span.AddEvent("get products")
	c = logger.WithContext(c)
	body, err := p.service.ListAll(c)
	if err != nil {
		err = fmt.Errorf("failed get products with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailure(c, w, err)
		return
	}
	span.AddEvent("got products")
	logger.Info().Msg("got products")

	inHttp.WriteRawResponse(c, w, http.StatusOK, inHttp.VALUE_HEADER_APPLICATION_JSON, body)
}

func (p ProductController) Create(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController Create")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(log.KeyTag, "ProductController Create").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Trace().Msg("decoding request body")
	span.AddEvent("decoding request body")
	reqBody := request.Product{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	span.AddEvent("decoded request body")
	logger.Trace().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "inserting product").Logger()
	logger.Info().Msg("inserting product")
	c = logger.WithContext(c)
	body, err := p.service.Create(c, reqBody)
	if err != nil {
		err = fmt.Errorf("failed inserting product with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailure(c, w, err)
		return
	}
	logger.Info().Msg("inserted product")

	inHttp.WriteRawResponse(c, w, http.StatusOK, inHttp.VALUE_HEADER_APPLICATION_JSON, body)
}

func (p ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController Delete")
	defer span.End()

	id := r.URL.Query().Get("id")
	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(log.KeyTag, "ProductController Delete").
		Str(log.KeyProductID, id).
		Str(log.KeyProcess, "remove product").
		Logger()
	span.SetAttributes(attribute.String(log.KeyProductID, id))

	logger.Trace().Msg("remove product")
	span.AddEvent("remove product")
	c = logger.WithContext(c)
	body, err := p.service.Delete(c, id)
	if err != nil {
		err = fmt.Errorf("failed remove product with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailure(c, w, err)
		return
	}
	span.AddEvent("removed product")
	logger.Info().Msg("removed product")

	inHttp.WriteRawResponse(c, w, http.StatusOK, inHttp.VALUE_HEADER_APPLICATION_JSON, body)
}

func (p ProductController) GetTotalQty(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController GetTotalQty")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(log.KeyTag, "ProductController GetTotalQty").
		Str(log.KeyProcess, "summing quantity of products").
		Logger()

	logger.Trace().Msg("summing quantity of products")
	c = logger.WithContext(c)
	total, err := p.service.TotalQuantity(c)
	if err != nil {
		err = fmt.Errorf("failed summing quantity of products with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		writeFailure(c, w, err)
		return
	}
	logger.Info().Int(log.KeyTotalQuantity, total).Msg("summed quantity of products")

	inHttp.WriteRawResponse(
		c,
		w,
		http.StatusOK,
		inHttp.VALUE_HEADER_TEXT_PLAIN,
		[]byte(fmt.Sprintf("Total Qty of All Products: %d", total)),
	)
}

func (p ProductController) GetTotalValue(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController GetTotalValue")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(log.KeyTag, "ProductController GetTotalValue").
		Str(log.KeyProcess, "summing price of products").
		Logger()

	logger.Trace().Msg("summing price of products")
	c = logger.WithContext(c)
	total, err := p.service.TotalValue(c)
	if err != nil {
		err = fmt.Errorf("failed summing price of products with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		writeFailure(c, w, err)
		return
	}
	logger.Info().Str(log.KeyTotalValue, total.String()).Msg("summed price of products")

	inHttp.WriteRawResponse(
		c,
		w,
		http.StatusOK,
		inHttp.VALUE_HEADER_TEXT_PLAIN,
		[]byte("Total Value of All Products: "+total.String()),
	)
}

func statusCode(err error) int {
	if errors.Is(err, inErrors.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}

func writeFailure(c context.Context, w http.ResponseWriter, err error) {
	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "failed",
		"statusCode": statusCode(err),
		"message":    err.Error(),
	})
}
