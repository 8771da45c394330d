package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Alturino/productproxy/internal/log"
	inOtel "github.com/Alturino/productproxy/internal/otel"
	"github.com/Alturino/productproxy/internal/restdb"
	"github.com/Alturino/productproxy/product/internal/errors"
	"github.com/Alturino/productproxy/product/internal/otel"
	"github.com/Alturino/productproxy/product/pkg/request"
	"github.com/Alturino/productproxy/product/pkg/response"
)

type Store interface {
	Do(c context.Context, method string, id string, query url.Values, body []byte) (restdb.Response, error)
}

type ProductService struct {
	store      Store
	classifier restdb.Classifier
}

func NewProductService(store Store, classifier restdb.Classifier) ProductService {
	if classifier == nil {
		classifier = restdb.MarkerClassifier{Marker: restdb.DefaultMarker}
	}
	return ProductService{store: store, classifier: classifier}
}

func (svc ProductService) FindByField(c context.Context, field string, value string) ([]byte, error) {
	c, span := otel.Tracer.Start(c, "ProductService FindByField")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(log.KeyTag, "ProductService FindByField").
		Str(log.KeyField, field).
		Str(log.KeyValue, value).
		Logger()
	span.SetAttributes(attribute.String(log.KeyField, field), attribute.String(log.KeyValue, value))

	logger = logger.With().Str(log.KeyProcess, "building query").Logger()
	logger.Trace().Msg("building query")
	query, err := FieldQuery(field, value)
	if err != nil {
		err = fmt.Errorf("%w: failed building query with error=%w", errors.ErrNotFound, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Trace().Msg("built query")

	logger = logger.With().Str(log.KeyProcess, "finding product in remote store").Logger()
	logger.Trace().Msg("finding product in remote store")
	span.AddEvent("finding product in remote store")
	c = logger.WithContext(c)
	body, err := svc.send(c, http.MethodGet, "", url.Values{restdb.QueryFilter: []string{query}}, nil)
	if err != nil {
		err = fmt.Errorf("%w: failed finding product by %s=%s with error=%w", errors.ErrNotFound, field, value, err)
		inOtel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return nil, err
	}
	span.AddEvent("found product in remote store")
	logger.Info().Msg("found product in remote store")

	return body, nil
}

func (svc ProductService) ListAll(c context.Context) ([]byte, error) {
	c, span := otel.Tracer.Start(c, "ProductService ListAll")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(log.KeyTag, "ProductService ListAll").
		Str(log.KeyProcess, "finding products in remote store").
		Logger()

	logger.Trace().Msg("finding products in remote store")
	span.AddEvent("finding products in remote store")
	c = logger.WithContext(c)
	body, err := svc.send(c, http.MethodGet, "", nil, nil)
	if err != nil {
		err = fmt.Errorf("%w: failed listing products with error=%w", errors.ErrRequestFailed, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	span.AddEvent("found products in remote store")
	logger.Info().Msg("found products in remote store")

	return body, nil
}

func (svc ProductService) Create(c context.Context, param request.Product) ([]byte, error) {
	c, span := otel.Tracer.Start(c, "ProductService Create")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(log.KeyTag, "ProductService Create").
		Any(log.KeyProduct, param).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "marshaling product").Logger()
	logger.Trace().Msg("marshaling product")
	body, err := json.Marshal(param)
	if err != nil {
		err = fmt.Errorf("%w: failed marshaling product with error=%w", errors.ErrRequestFailed, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Trace().Msg("marshaled product")

	logger = logger.With().Str(log.KeyProcess, "inserting product to remote store").Logger()
	logger.Trace().Msg("inserting product to remote store")
	span.AddEvent("inserting product to remote store")
	c = logger.WithContext(c)
	created, err := svc.send(c, http.MethodPost, "", nil, body)
	if err != nil {
		err = fmt.Errorf("%w: failed inserting product with error=%w", errors.ErrRequestFailed, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	span.AddEvent("inserted product to remote store")
	logger.Info().Msg("inserted product to remote store")

	return created, nil
}

// Delete removes the document addressed by id. The id is sent as the last path segment.
func (svc ProductService) Delete(c context.Context, id string) ([]byte, error) {
	c, span := otel.Tracer.Start(c, "ProductService Delete")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(log.KeyTag, "ProductService Delete").
		Str(log.KeyProductID, id).
		Str(log.KeyProcess, "removing product in remote store").
		Logger()
	span.SetAttributes(attribute.String(log.KeyProductID, id))

	if id == "" {
		err := fmt.Errorf("%w: %w", errors.ErrRequestFailed, errors.ErrMissingID)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	if id == "." || id == ".." {
		err := fmt.Errorf("%w: %w: id=%s", errors.ErrRequestFailed, errors.ErrInvalidID, id)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	logger.Trace().Msg("removing product in remote store")
	span.AddEvent("removing product in remote store")
	c = logger.WithContext(c)
	body, err := svc.send(c, http.MethodDelete, id, nil, nil)
	if err != nil {
		err = fmt.Errorf("%w: failed removing product id=%s with error=%w", errors.ErrRequestFailed, id, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	span.AddEvent("removed product in remote store")
	logger.Info().Msg("removed product in remote store")

	return body, nil
}

func (svc ProductService) TotalQuantity(c context.Context) (int, error) {
	c, span := otel.Tracer.Start(c, "ProductService TotalQuantity")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(log.KeyTag, "ProductService TotalQuantity").
		Logger()

	c = logger.WithContext(c)
	products, err := svc.products(c)
	if err != nil {
		inOtel.RecordError(err, span)
		return 0, err
	}

	total := products.TotalQuantity()
	span.SetAttributes(attribute.Int(log.KeyTotalQuantity, total))
	logger.Info().Int(log.KeyTotalQuantity, total).Msg("summed quantity of products")

	return total, nil
}

func (svc ProductService) TotalValue(c context.Context) (decimal.Decimal, error) {
	c, span := otel.Tracer.Start(c, "ProductService TotalValue")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(log.KeyTag, "ProductService TotalValue").
		Logger()

	c = logger.WithContext(c)
	products, err := svc.products(c)
	if err != nil {
		inOtel.RecordError(err, span)
		return decimal.Zero, err
	}

	total := products.TotalValue()
	span.SetAttributes(attribute.String(log.KeyTotalValue, total.String()))
	logger.Info().Str(log.KeyTotalValue, total.String()).Msg("summed price of products")

	return total, nil
}

// products fetches the whole collection for aggregation. Every failure is reported as not found.
func (svc ProductService) products(c context.Context) (response.Products, error) {
	c, span := otel.Tracer.Start(c, "ProductService products")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(log.KeyTag, "ProductService products").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding products in remote store").Logger()
	logger.Trace().Msg("finding products in remote store")
	span.AddEvent("finding products in remote store")
	c = logger.WithContext(c)
	body, err := svc.send(c, http.MethodGet, "", nil, nil)
	if err != nil {
		err = fmt.Errorf("%w: failed finding products with error=%w", errors.ErrNotFound, err)
		inOtel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return nil, err
	}
	span.AddEvent("found products in remote store")

	logger = logger.With().Str(log.KeyProcess, "unmarshaling products").Logger()
	logger.Trace().Msg("unmarshaling products")
	products := response.Products{}
	err = json.Unmarshal(body, &products)
	if err != nil {
		err = fmt.Errorf("%w: failed unmarshaling products with error=%w", errors.ErrNotFound, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Debug().Int(log.KeyProductsCount, len(products)).Msg("unmarshaled products")

	return products, nil
}

func (svc ProductService) send(
	c context.Context,
	method string,
	id string,
	query url.Values,
	body []byte,
) ([]byte, error) {
	resp, err := svc.store.Do(c, method, id, query, body)
	if err != nil {
		return nil, err
	}
	if !svc.classifier.Succeeded(resp) {
		return nil, fmt.Errorf("%w: status=%d", errors.ErrUnrecognizedResponse, resp.StatusCode)
	}
	return resp.Body, nil
}

// FieldQuery renders the single-key equality filter {"<field>":"<value>"}.
// Quotes, backslashes and control characters in field and value are JSON escaped.
func FieldQuery(field string, value string) (string, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(map[string]string{field: value}); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
