package suggest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHTTPSourceFetch(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		json.NewEncoder(w).Encode(map[string][]string{
			"suggestions": {"建築工事", "建設工事"},
		})
	}))
	defer ts.Close()

	src := &HTTPSource{BaseURL: ts.URL, Client: ts.Client()}
	got, err := src.Fetch(context.Background(), Query{
		Endpoint: "/api/suggest/workType",
		Text:     "建",
		Limit:    10,
		Params:   map[string]string{"majorCategory": "躯体", "minorCategory": ""},
	})
	if err != nil {
		t.Fatalf("Fetch: unexpected error %v", err)
	}

	if diff := cmp.Diff([]string{"建築工事", "建設工事"}, got); diff != "" {
		t.Errorf("suggestions mismatch (-want +got):\n%s", diff)
	}
	if gotPath != "/api/suggest/workType" {
		t.Errorf("expected the endpoint path, got %q", gotPath)
	}
	if q := gotQuery["q"]; len(q) != 1 || q[0] != "建" {
		t.Errorf("expected q=建, got %v", gotQuery["q"])
	}
	if l := gotQuery["limit"]; len(l) != 1 || l[0] != "10" {
		t.Errorf("expected limit=10, got %v", gotQuery["limit"])
	}
	if mc := gotQuery["majorCategory"]; len(mc) != 1 || mc[0] != "躯体" {
		t.Errorf("expected the extra param, got %v", gotQuery["majorCategory"])
	}
	if _, there := gotQuery["minorCategory"]; there {
		t.Error("empty extras must not be sent")
	}
}

func TestHTTPSourceStatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer ts.Close()

	src := &HTTPSource{BaseURL: ts.URL, Client: ts.Client()}
	if _, err := src.Fetch(context.Background(), Query{Endpoint: "/x", Text: "a", Limit: 5}); err == nil {
		t.Fatal("expected an error for a 500 response")
	}
}

func TestHTTPSourceBadBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer ts.Close()

	src := &HTTPSource{BaseURL: ts.URL, Client: ts.Client()}
	if _, err := src.Fetch(context.Background(), Query{Endpoint: "/x", Text: "a", Limit: 5}); err == nil {
		t.Fatal("expected an error for a malformed body")
	}
}

func TestHTTPSourceAbsoluteEndpoint(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string][]string{"suggestions": {}})
	}))
	defer ts.Close()

	// No BaseURL: the query endpoint is used as-is.
	src := &HTTPSource{Client: ts.Client()}
	if _, err := src.Fetch(context.Background(), Query{Endpoint: ts.URL + "/y", Text: "a", Limit: 5}); err != nil {
		t.Fatalf("Fetch: unexpected error %v", err)
	}
}

func TestHTTPSourceHonorsContext(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &HTTPSource{BaseURL: ts.URL, Client: ts.Client()}
	if _, err := src.Fetch(ctx, Query{Endpoint: "/x", Text: "a", Limit: 5}); err == nil {
		t.Fatal("expected a context cancellation error")
	}
}
