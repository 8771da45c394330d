package restdb

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/productproxy/internal/config"
	inHttp "github.com/Alturino/productproxy/internal/http"
	"github.com/Alturino/productproxy/internal/log"
)

type recordedRequest struct {
	Method      string
	Path        string
	EscapedPath string
	RawQuery    string
	Query    url.Values
	Header   http.Header
	Body     string
}

func newStubServer(t *testing.T, status int, body string) (*httptest.Server, <-chan recordedRequest) {
	t.Helper()
	ch := make(chan recordedRequest, 10)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		ch <- recordedRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			EscapedPath: r.URL.EscapedPath(),
			RawQuery:    r.URL.RawQuery,
			Query:       r.URL.Query(),
			Header:      r.Header.Clone(),
			Body:        string(b),
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, ch
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name        string
		cfg         config.Remote
		expectedErr error
	}{
		{
			name:        "given empty base url should fail",
			cfg:         config.Remote{AccessKey: "key"},
			expectedErr: ErrMissingBaseURL,
		},
		{
			name:        "given empty access key should fail",
			cfg:         config.Remote{BaseURL: "http://example.com/rest/products"},
			expectedErr: ErrMissingAccessKey,
		},
		{
			name: "given base url and access key should succeed",
			cfg:  config.Remote{BaseURL: "http://example.com/rest/products", AccessKey: "key"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			client, err := NewClient(test.cfg)
			if test.expectedErr != nil {
				assert.ErrorIs(t, err, test.expectedErr)
				assert.Nil(t, client)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, defaultTimeout, client.http.Timeout)
		})
	}
}

func TestDoSendsStoreHeaders(t *testing.T) {
	srv, ch := newStubServer(t, http.StatusOK, `[{"_id":"1"}]`)
	client, err := NewClient(config.Remote{BaseURL: srv.URL + "/rest/products", AccessKey: "secret", Timeout: time.Second})
	require.NoError(t, err)

	c := log.AttachRequestIDToContext(context.Background(), "req-1")
	resp, err := client.Do(c, http.MethodGet, "", url.Values{QueryFilter: []string{`{"name":"Widget"}`}}, nil)
	require.NoError(t, err)

	got := <-ch
	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "/rest/products", got.Path)
	assert.Equal(t, `{"name":"Widget"}`, got.Query.Get(QueryFilter))
	assert.Equal(t, "no-cache", got.Header.Get(HeaderCacheControl))
	assert.Equal(t, "secret", got.Header.Get(HeaderAPIKey))
	assert.Equal(t, "application/json", got.Header.Get(HeaderContentType))
	assert.Equal(t, "req-1", got.Header.Get(inHttp.KEY_HEADER_REQUEST_ID))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `[{"_id":"1"}]`, string(resp.Body))
}

func TestDoAppendsEscapedID(t *testing.T) {
	tests := []struct {
		name            string
		baseURL         string
		id              string
		expectedPath    string
		expectedEscaped string
	}{
		{
			name:            "given id with space should escape it",
			id:              "a b",
			expectedPath:    "/rest/products/a b",
			expectedEscaped: "/rest/products/a%20b",
		},
		{
			name:            "given id with slash should keep it in one segment",
			id:              "a/b",
			expectedPath:    "/rest/products/a/b",
			expectedEscaped: "/rest/products/a%2Fb",
		},
		{
			name:            "given dot id should stay under the collection",
			id:              ".",
			expectedPath:    "/rest/products/.",
			expectedEscaped: "/rest/products/.",
		},
		{
			name:            "given dot dot id should stay under the collection",
			id:              "..",
			expectedPath:    "/rest/products/..",
			expectedEscaped: "/rest/products/..",
		},
		{
			name:            "given base url with trailing slash should not double it",
			baseURL:         "/rest/products/",
			id:              "5f1",
			expectedPath:    "/rest/products/5f1",
			expectedEscaped: "/rest/products/5f1",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			srv, ch := newStubServer(t, http.StatusOK, `{"result":["1"]}`)
			basePath := test.baseURL
			if basePath == "" {
				basePath = "/rest/products"
			}
			client, err := NewClient(config.Remote{BaseURL: srv.URL + basePath, AccessKey: "secret"})
			require.NoError(t, err)

			_, err = client.Do(context.Background(), http.MethodDelete, test.id, nil, nil)
			require.NoError(t, err)

			got := <-ch
			assert.Equal(t, http.MethodDelete, got.Method)
			assert.Equal(t, test.expectedPath, got.Path)
			assert.Equal(t, test.expectedEscaped, got.EscapedPath)
			assert.Empty(t, got.RawQuery)
		})
	}
}

func TestDoSendsBody(t *testing.T) {
	srv, ch := newStubServer(t, http.StatusCreated, `{"_id":"1"}`)
	client, err := NewClient(config.Remote{BaseURL: srv.URL, AccessKey: "secret"})
	require.NoError(t, err)

	resp, err := client.Do(context.Background(), http.MethodPost, "", nil, []byte(`{"name":"Widget"}`))
	require.NoError(t, err)

	got := <-ch
	assert.Equal(t, `{"name":"Widget"}`, got.Body)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestDoTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	client, err := NewClient(config.Remote{BaseURL: baseURL, AccessKey: "secret", Timeout: time.Second})
	require.NoError(t, err)

	_, err = client.Do(context.Background(), http.MethodGet, "", nil, nil)
	assert.ErrorIs(t, err, ErrTransport)
}
