package restdb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

const (
	ClassifierMarker = "marker"
	ClassifierStatus = "status"

	DefaultMarker = "_id"

	resultKey = "result"
)

// Classifier decides whether a remote store response represents a successful call.
type Classifier interface {
	Succeeded(Response) bool
}

// MarkerClassifier accepts any response whose body contains Marker, whatever its status.
type MarkerClassifier struct {
	Marker string
}

func (m MarkerClassifier) Succeeded(r Response) bool {
	marker := m.Marker
	if marker == "" {
		marker = DefaultMarker
	}
	return bytes.Contains(r.Body, []byte(marker))
}

// StatusClassifier requires a 2xx status and a JSON document, or list of
// documents, carrying a non-empty identifier. A non-empty delete
// acknowledgement {"result":[...]} also counts as success.
type StatusClassifier struct{}

func (StatusClassifier) Succeeded(r Response) bool {
	if r.StatusCode < http.StatusOK || r.StatusCode >= http.StatusMultipleChoices {
		return false
	}

	body := bytes.TrimSpace(r.Body)
	if len(body) == 0 {
		return false
	}

	var docs []map[string]json.RawMessage
	if body[0] == '[' {
		if err := json.Unmarshal(body, &docs); err != nil {
			return false
		}
	} else {
		doc := map[string]json.RawMessage{}
		if err := json.Unmarshal(body, &doc); err != nil {
			return false
		}
		docs = append(docs, doc)
	}

	for _, doc := range docs {
		var id string
		if err := json.Unmarshal(doc[DefaultMarker], &id); err == nil && id != "" {
			return true
		}
		var result []json.RawMessage
		if err := json.Unmarshal(doc[resultKey], &result); err == nil && len(result) > 0 {
			return true
		}
	}
	return false
}

func NewClassifier(name string, marker string) (Classifier, error) {
	switch name {
	case "", ClassifierMarker:
		return MarkerClassifier{Marker: marker}, nil
	case ClassifierStatus:
		return StatusClassifier{}, nil
	default:
		return nil, fmt.Errorf("unknown response classifier=%s", name)
	}
}
