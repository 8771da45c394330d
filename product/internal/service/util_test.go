package service

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Alturino/productproxy/internal/config"
	"github.com/Alturino/productproxy/internal/restdb"
)

const testAccessKey = "test-access-key"

type recordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   string
}

// memStore is an in-memory stand-in for the remote document store.
type memStore struct {
	mu       sync.Mutex
	docs     []map[string]any
	nextID   int
	requests []recordedRequest
}

func (m *memStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, recordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
		Body:   string(body),
	})

	w.Header().Set("Content-Type", "application/json")
	switch r.Method {
	case http.MethodGet:
		filter := map[string]any{}
		if q := r.URL.Query().Get(restdb.QueryFilter); q != "" {
			if err := json.Unmarshal([]byte(q), &filter); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				_ = json.NewEncoder(w).Encode(map[string]string{"message": "invalid query"})
				return
			}
		}
		matches := []map[string]any{}
		for _, doc := range m.docs {
			if matchDoc(doc, filter) {
				matches = append(matches, doc)
			}
		}
		_ = json.NewEncoder(w).Encode(matches)
	case http.MethodPost:
		doc := map[string]any{}
		if err := json.Unmarshal(body, &doc); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "invalid body"})
			return
		}
		m.nextID++
		doc["_id"] = fmt.Sprintf("doc-%d", m.nextID)
		m.docs = append(m.docs, doc)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(doc)
	case http.MethodDelete:
		id := path.Base(r.URL.Path)
		for i, doc := range m.docs {
			if doc["_id"] == id {
				m.docs = append(m.docs[:i], m.docs[i+1:]...)
				_ = json.NewEncoder(w).Encode(doc)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "not found"})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (m *memStore) seed(docs ...map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, doc := range docs {
		m.nextID++
		doc["_id"] = fmt.Sprintf("doc-%d", m.nextID)
		m.docs = append(m.docs, doc)
	}
}

func (m *memStore) recorded() []recordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]recordedRequest(nil), m.requests...)
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.docs)
}

func matchDoc(doc map[string]any, filter map[string]any) bool {
	for k, v := range filter {
		if fmt.Sprint(doc[k]) != fmt.Sprint(v) {
			return false
		}
	}
	return true
}

func newTestService(t *testing.T, handler http.Handler, classifier restdb.Classifier) ProductService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return newServiceForURL(t, srv.URL+"/rest/products", classifier)
}

func newServiceForURL(t *testing.T, baseURL string, classifier restdb.Classifier) ProductService {
	t.Helper()
	client, err := restdb.NewClient(config.Remote{
		BaseURL:   baseURL,
		AccessKey: testAccessKey,
		Timeout:   2 * time.Second,
	})
	require.NoError(t, err)
	return NewProductService(client, classifier)
}

func stubHandler(status int, body string, requests chan<- recordedRequest) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		if requests != nil {
			requests <- recordedRequest{
				Method: r.Method,
				Path:   r.URL.Path,
				Query:  r.URL.Query(),
				Header: r.Header.Clone(),
				Body:   string(b),
			}
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
}

func unreachableURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	u := srv.URL
	srv.Close()
	return u + "/rest/products"
}
