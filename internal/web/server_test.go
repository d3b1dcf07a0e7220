package web

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bvogt/anncat/internal/config"
	"github.com/bvogt/anncat/internal/testutil"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	r := testutil.LoadRepo(t, testutil.MinimalCatalog())
	s, err := NewServer(ServerOptions{Addr: "localhost:0", Version: "test"}, r, config.UIConfig{
		HelpLink: &config.HelpLink{Title: "Help", URL: "https://example.com/help"},
	})
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	return s
}

func get(t *testing.T, handler http.Handler, path string, headers map[string]string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	resp := w.Result()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}
	return resp, string(body)
}

func TestServeEquivalences(t *testing.T) {
	s := newTestServer(t)
	handler := s.Handler()

	t.Run("full page", func(t *testing.T) {
		resp, body := get(t, handler, "/ui/equivalences", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
		for _, want := range []string{"@Autowired", "[Inject]", "@RestController", "<html"} {
			if !strings.Contains(body, want) {
				t.Errorf("body does not contain %q", want)
			}
		}
	})

	t.Run("filtered", func(t *testing.T) {
		_, body := get(t, handler, "/ui/equivalences?q=category:web", nil)
		if !strings.Contains(body, "@RestController") {
			t.Error("body does not contain @RestController")
		}
		if strings.Contains(body, "@Autowired") {
			t.Error("body contains @Autowired, should be filtered out")
		}
	})

	t.Run("htmx rows only", func(t *testing.T) {
		resp, body := get(t, handler, "/ui/equivalences", map[string]string{"HX-Request": "true"})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
		if strings.Contains(body, "<html") {
			t.Error("htmx response contains full page, want rows only")
		}
		if !strings.Contains(body, "@Autowired") {
			t.Error("htmx response does not contain @Autowired")
		}
	})
}

func TestServeEquivalenceDetail(t *testing.T) {
	s := newTestServer(t)
	handler := s.Handler()

	t.Run("found", func(t *testing.T) {
		resp, body := get(t, handler, "/ui/equivalences/autowired", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
		for _, want := range []string{"@Autowired", "[Inject]", "Microsoft.AspNetCore.Components"} {
			if !strings.Contains(body, want) {
				t.Errorf("body does not contain %q", want)
			}
		}
	})

	t.Run("served from cache", func(t *testing.T) {
		// Second request for the same page must yield the identical document.
		_, first := get(t, handler, "/ui/equivalences/rest-controller", nil)
		_, second := get(t, handler, "/ui/equivalences/rest-controller", nil)
		if first != second {
			t.Error("cached response differs from first response")
		}
	})

	t.Run("not found", func(t *testing.T) {
		resp, _ := get(t, handler, "/ui/equivalences/nosuchrecord", nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want 404", resp.StatusCode)
		}
	})

	t.Run("invalid id", func(t *testing.T) {
		resp, _ := get(t, handler, "/ui/equivalences/not%20a%20name", nil)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})
}

func TestServeCategories(t *testing.T) {
	s := newTestServer(t)
	handler := s.Handler()

	t.Run("list", func(t *testing.T) {
		resp, body := get(t, handler, "/ui/categories", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
		// Rank order: dependency-injection before web.
		di := strings.Index(body, "dependency-injection")
		web := strings.Index(body, `/ui/categories/web`)
		if di == -1 || web == -1 {
			t.Fatal("body does not contain both categories")
		}
		if di > web {
			t.Error("categories are not in rank order")
		}
	})

	t.Run("detail", func(t *testing.T) {
		resp, body := get(t, handler, "/ui/categories/web", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
		if !strings.Contains(body, "@RestController") {
			t.Error("body does not contain the category's record")
		}
	})

	t.Run("not found", func(t *testing.T) {
		resp, _ := get(t, handler, "/ui/categories/nosuchcategory", nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want 404", resp.StatusCode)
		}
	})
}

func TestDefaultRoutes(t *testing.T) {
	s := newTestServer(t)
	handler := s.Handler()

	t.Run("health", func(t *testing.T) {
		resp, body := get(t, handler, "/health", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
		if !strings.Contains(body, "OK") {
			t.Errorf("body = %q, want OK", body)
		}
	})

	t.Run("root redirects to UI", func(t *testing.T) {
		resp, _ := get(t, handler, "/", nil)
		if resp.StatusCode != http.StatusTemporaryRedirect {
			t.Fatalf("status = %d, want 307", resp.StatusCode)
		}
		if loc := resp.Header.Get("Location"); loc != "/ui/equivalences" {
			t.Errorf("Location = %q, want /ui/equivalences", loc)
		}
	})

	t.Run("htmx request for unknown path", func(t *testing.T) {
		resp, _ := get(t, handler, "/nosuchpage", map[string]string{"Hx-Request": "true"})
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want 404", resp.StatusCode)
		}
	})
}

func TestToURL(t *testing.T) {
	r := testutil.LoadRepo(t, testutil.MinimalCatalog())

	var gotURLs []string
	for e := range r.Records() {
		u, err := toURL(e)
		if err != nil {
			t.Fatalf("toURL(%s) error = %v", e.GetName(), err)
		}
		gotURLs = append(gotURLs, u)
	}
	wantURLs := []string{"/ui/equivalences/autowired", "/ui/equivalences/rest-controller"}
	if len(gotURLs) != len(wantURLs) {
		t.Fatalf("got %d URLs, want %d", len(gotURLs), len(wantURLs))
	}
	for i, want := range wantURLs {
		if gotURLs[i] != want {
			t.Errorf("toURL[%d] = %q, want %q", i, gotURLs[i], want)
		}
	}
}
