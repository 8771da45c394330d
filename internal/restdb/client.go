package restdb

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Alturino/productproxy/internal/config"
	inHttp "github.com/Alturino/productproxy/internal/http"
	"github.com/Alturino/productproxy/internal/log"
	"github.com/Alturino/productproxy/internal/metrics"
	"github.com/Alturino/productproxy/internal/otel"
)

const (
	HeaderCacheControl = "cache-control"
	HeaderAPIKey       = "x-apikey"
	HeaderContentType  = "content-type"
	QueryFilter        = "q"

	defaultTimeout = 10 * time.Second
)

var (
	ErrMissingBaseURL   = errors.New("missing remote store base url")
	ErrMissingAccessKey = errors.New("missing remote store access key")
	ErrTransport        = errors.New("remote store unreachable")
)

type Response struct {
	StatusCode int
	Body       []byte
}

type Client struct {
	baseURL   *url.URL
	accessKey string
	http      *http.Client
}

func NewClient(cfg config.Remote) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, ErrMissingBaseURL
	}
	if cfg.AccessKey == "" {
		return nil, ErrMissingAccessKey
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed parsing remote store base url=%s with error=%w", cfg.BaseURL, err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:   u,
		accessKey: cfg.AccessKey,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}, nil
}

// Do sends one request to the collection endpoint. A non-empty id addresses a single document.
func (cl *Client) Do(
	c context.Context,
	method string,
	id string,
	query url.Values,
	body []byte,
) (Response, error) {
	c, span := otel.Tracer.Start(c, "restdb Client Do")
	defer span.End()

	u := *cl.baseURL
	if id != "" {
		// JoinPath would clean "." and ".." out of the id and leave the collection.
		escaped := strings.TrimSuffix(cl.baseURL.EscapedPath(), "/")
		u.Path = strings.TrimSuffix(cl.baseURL.Path, "/") + "/" + id
		u.RawPath = escaped + "/" + url.PathEscape(id)
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(log.KeyTag, "restdb Client Do").
		Str(log.KeyRemoteMethod, method).
		Str(log.KeyRemoteURL, u.String()).
		Logger()
	span.SetAttributes(
		attribute.String(log.KeyRemoteMethod, method),
		attribute.String(log.KeyRemoteURL, u.String()),
	)

	logger = logger.With().Str(log.KeyProcess, "creating request").Logger()
	logger.Trace().Msg("creating request")
	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(c, method, u.String(), reqBody)
	if err != nil {
		err = fmt.Errorf("failed creating request with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Response{}, err
	}
	req.Header.Set(HeaderCacheControl, "no-cache")
	req.Header.Set(HeaderAPIKey, cl.accessKey)
	req.Header.Set(HeaderContentType, inHttp.VALUE_HEADER_APPLICATION_JSON)
	if requestID := log.RequestIDFromContext(c); requestID != "" {
		req.Header.Set(inHttp.KEY_HEADER_REQUEST_ID, requestID)
	}
	logger.Trace().Msg("created request")

	logger = logger.With().Str(log.KeyProcess, "sending request").Logger()
	logger.Trace().Msg("sending request")
	start := time.Now()
	resp, err := cl.http.Do(req)
	if err != nil {
		metrics.ObserveRemote(method, "error", time.Since(start))
		err = fmt.Errorf("%w: %w", ErrTransport, err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Response{}, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	metrics.ObserveRemote(method, strconv.Itoa(resp.StatusCode), time.Since(start))
	if err != nil {
		err = fmt.Errorf("%w: failed reading response body with error=%w", ErrTransport, err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Response{}, err
	}
	span.SetAttributes(attribute.Int(log.KeyRemoteStatusCode, resp.StatusCode))
	logger.Debug().
		Int(log.KeyRemoteStatusCode, resp.StatusCode).
		Int(log.KeyRemoteResponseSize, len(respBody)).
		Msg("sent request")

	return Response{StatusCode: resp.StatusCode, Body: respBody}, nil
}
