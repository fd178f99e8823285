package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// fakeBurp is a minimal GraphQL server that walks a scan through a list
// of statuses.
type fakeBurp struct {
	mu       sync.Mutex
	statuses []string
	polls    int
	issues   string
	apiKey   string
	// failOn makes the named operation return HTTP 500.
	failOn string
	// emptyScans makes the scan lookup return no scans.
	emptyScans bool

	sites []map[string]any
}

func newFakeBurp(t *testing.T, statuses ...string) (*fakeBurp, *httptest.Server) {
	t.Helper()

	f := &fakeBurp{
		statuses: statuses,
		apiKey:   "test-key",
		issues:   `[]`,
	}
	server := httptest.NewServer(f)
	t.Cleanup(server.Close)
	return f, server
}

func (f *fakeBurp) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.URL.Path != "/graphql/v1" {
		http.NotFound(w, r)
		return
	}
	if r.Header.Get("Authorization") != "Bearer "+f.apiKey {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"message":"Unauthorized"}]}`))
		return
	}

	var req struct {
		Query     string         `json:"query"`
		Variables map[string]any `json:"variables"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	op := operation(req.Query)
	if op == f.failOn {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"errors":[{"message":"internal error"}]}`))
		return
	}

	switch op {
	case "create_site":
		if input, ok := req.Variables["input"].(map[string]any); ok {
			f.sites = append(f.sites, input)
		}
		_, _ = w.Write([]byte(`{"data":{"create_site":{"site":{"id":"42","name":"shop"}}}}`))
	case "create_schedule_item":
		_, _ = w.Write([]byte(`{"data":{"create_schedule_item":{"schedule_item":{"id":"s1"}}}}`))
	case "scans":
		if f.emptyScans {
			_, _ = w.Write([]byte(`{"data":{"scans":[]}}`))
			return
		}
		_, _ = w.Write([]byte(`{"data":{"scans":[{"id":"900"}]}}`))
	case "status":
		i := f.polls
		if i >= len(f.statuses) {
			i = len(f.statuses) - 1
		}
		f.polls++
		_, _ = w.Write([]byte(`{"data":{"scan":{"status":"` + f.statuses[i] + `"}}}`))
	case "issues":
		_, _ = w.Write([]byte(`{"data":{"scan":{"issues":` + f.issues + `}}}`))
	default:
		w.WriteHeader(http.StatusBadRequest)
	}
}

// operation identifies which request a query document represents.
func operation(query string) string {
	switch {
	case strings.Contains(query, "create_site"):
		return "create_site"
	case strings.Contains(query, "create_schedule_item"):
		return "create_schedule_item"
	case strings.Contains(query, "scans(limit"):
		return "scans"
	case strings.Contains(query, "issues("):
		return "issues"
	case strings.Contains(query, "status"):
		return "status"
	default:
		return ""
	}
}

func (f *fakeBurp) pollCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.polls
}
