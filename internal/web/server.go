package web

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/bvogt/anncat"
	"github.com/bvogt/anncat/internal/catalog"
	"github.com/bvogt/anncat/internal/config"
	"github.com/bvogt/anncat/internal/repo"
	lru "github.com/hashicorp/golang-lru/v2"
)

type ServerOptions struct {
	Addr      string // E.g., "localhost:8080"
	BaseDir   string // Directory from which resources (templates etc.) are read.
	CacheSize int    // Max number of rendered detail pages kept in memory.
	Version   string // Version string shown in the footer.
}

type Server struct {
	opts      ServerOptions
	template  *template.Template
	repo      *repo.Repository
	finder    *repo.Finder
	uiConfig  config.UIConfig
	pageCache *lru.Cache[string, []byte]
}

func NewServer(opts ServerOptions, rep *repo.Repository, uiConfig config.UIConfig) (*Server, error) {
	if opts.CacheSize <= 0 {
		opts.CacheSize = 128
	}
	cache, err := lru.New[string, []byte](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create page cache: %w", err)
	}
	s := &Server{
		opts:      opts,
		repo:      rep,
		finder:    repo.NewFinder(),
		uiConfig:  uiConfig,
		pageCache: cache,
	}
	if err := s.reloadTemplates(); err != nil {
		return nil, err
	}
	return s, nil
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	if lrw.statusCode == 0 { // no explicit status yet => implies 200
		lrw.WriteHeader(http.StatusOK)
	}
	return lrw.ResponseWriter.Write(b)
}

// withRequestLogging wraps a handler and logs each request.
// Logs include method, path, remote address, and duration.
func (s *Server) withRequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap ResponseWriter to capture status code
		lrw := &loggingResponseWriter{ResponseWriter: w}

		next.ServeHTTP(lrw, r)

		duration := time.Since(start)
		log.Printf("%s %s %d %dms (remote=%s)",
			r.Method,
			r.URL.Path,
			lrw.statusCode,
			duration.Milliseconds(),
			r.RemoteAddr,
		)
	})
}

func (s *Server) reloadTemplates() error {
	tmpl := template.New("root")
	tmpl = tmpl.Funcs(map[string]any{
		"toURL":     toURL,
		"refEncode": refEncode,
		"urlencode": urlencode,
		"markdown":  markdown,
	})
	var err error
	if s.opts.BaseDir == "" {
		s.template, err = tmpl.ParseFS(anncat.Files, "templates/*.html")
	} else {
		s.template, err = tmpl.ParseGlob(path.Join(s.opts.BaseDir, "templates/*.html"))
	}
	return err
}

func (s *Server) serveEquivalences(w http.ResponseWriter, r *http.Request) {
	params := map[string]any{}
	q := r.URL.Query()
	equivalences := s.finder.FindEquivalences(s.repo, q.Get("q"))
	params["Equivalences"] = equivalences

	if r.Header.Get("HX-Request") == "true" {
		// htmx request: only render rows
		s.serveHTMLPage(w, r, "equivalences_rows.html", params)
		return
	}
	// full page
	s.serveHTMLPage(w, r, "equivalences.html", params)
}

func (s *Server) serveEquivalence(w http.ResponseWriter, r *http.Request, equivalenceID string) {
	ref, err := catalog.ParseRefAs(catalog.KindEquivalence, equivalenceID)
	if err != nil {
		http.Error(w, "Invalid equivalenceID", http.StatusBadRequest)
		return
	}
	// Detail pages are immutable after loading, so they are served
	// from the page cache when possible.
	cacheKey := r.URL.RequestURI()
	if page, ok := s.pageCache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "text/html; charset=UTF-8")
		w.Write(page)
		return
	}
	equivalence := s.repo.Equivalence(ref)
	if equivalence == nil {
		http.Error(w, "Invalid equivalence", http.StatusNotFound)
		return
	}
	params := map[string]any{
		"Equivalence": equivalence,
	}
	if equivalence.Spec.Category != nil {
		params["Category"] = s.repo.Category(equivalence.Spec.Category)
	}
	page, err := s.renderHTMLPage(r, "equivalence_detail.html", params)
	if err != nil {
		log.Printf("Failed to render template %q: %v", "equivalence_detail.html", err)
		http.Error(w, "Template rendering error", http.StatusInternalServerError)
		return
	}
	s.pageCache.Add(cacheKey, page)
	w.Header().Set("Content-Type", "text/html; charset=UTF-8")
	w.Write(page)
}

func (s *Server) serveCategories(w http.ResponseWriter, r *http.Request) {
	params := map[string]any{}
	q := r.URL.Query()
	categories := s.finder.FindCategories(s.repo, q.Get("q"))
	params["Categories"] = categories

	if r.Header.Get("HX-Request") == "true" {
		// htmx request: only render rows
		s.serveHTMLPage(w, r, "categories_rows.html", params)
		return
	}
	// full page
	s.serveHTMLPage(w, r, "categories.html", params)
}

func (s *Server) serveCategory(w http.ResponseWriter, r *http.Request, categoryID string) {
	ref, err := catalog.ParseRefAs(catalog.KindCategory, categoryID)
	if err != nil {
		http.Error(w, "Invalid categoryID", http.StatusBadRequest)
		return
	}
	category := s.repo.Category(ref)
	if category == nil {
		http.Error(w, "Invalid category", http.StatusNotFound)
		return
	}
	var equivalences []*catalog.Equivalence
	for _, eqRef := range category.GetEquivalences() {
		if eq := s.repo.Equivalence(eqRef); eq != nil {
			equivalences = append(equivalences, eq)
		}
	}
	params := map[string]any{
		"Category":     category,
		"Equivalences": equivalences,
	}
	s.serveHTMLPage(w, r, "category_detail.html", params)
}

func (s *Server) renderHTMLPage(r *http.Request, templateFile string, params map[string]any) ([]byte, error) {
	var output bytes.Buffer

	nav := NewNavBar(
		NavItem("/ui/equivalences", "Annotations").Params("q"),
		NavItem("/ui/categories", "Categories").Params("q"),
	).SetActive(r.URL.Path).SetParams(r.URL.Query())

	templateParams := map[string]any{
		"Now":      time.Now().Format("2006-01-02 15:04:05"),
		"NavBar":   nav,
		"Version":  s.opts.Version,
		"HelpLink": s.uiConfig.HelpLink,
	}
	// Copy template params
	for k, v := range params {
		templateParams[k] = v
	}

	if err := s.template.ExecuteTemplate(&output, templateFile, templateParams); err != nil {
		return nil, err
	}
	return output.Bytes(), nil
}

func (s *Server) serveHTMLPage(w http.ResponseWriter, r *http.Request, templateFile string, params map[string]any) {
	page, err := s.renderHTMLPage(r, templateFile, params)
	if err != nil {
		log.Printf("Failed to render template %q: %v", templateFile, err)
		http.Error(w, "Template rendering error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=UTF-8")
	w.Write(page)
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /ui/equivalences", func(w http.ResponseWriter, r *http.Request) {
		s.serveEquivalences(w, r)
	})
	mux.HandleFunc("GET /ui/equivalences/{equivalenceID}", func(w http.ResponseWriter, r *http.Request) {
		equivalenceID := r.PathValue("equivalenceID")
		s.serveEquivalence(w, r, equivalenceID)
	})
	mux.HandleFunc("GET /ui/categories", func(w http.ResponseWriter, r *http.Request) {
		s.serveCategories(w, r)
	})
	mux.HandleFunc("GET /ui/categories/{categoryID}", func(w http.ResponseWriter, r *http.Request) {
		categoryID := r.PathValue("categoryID")
		s.serveCategory(w, r, categoryID)
	})

	// Health check. Useful for cloud deployments.
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "OK")
	})

	// Static resources (JavaScript, CSS, etc.)
	if s.opts.BaseDir == "" {
		mux.Handle("GET /static/", http.FileServer(http.FS(anncat.Files)))
	} else {
		staticFS := http.Dir(path.Join(s.opts.BaseDir, "static"))
		mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(staticFS)))
	}

	// Default route (all other paths): redirect to the UI home page
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "", http.StatusBadRequest)
			return
		}
		if r.Header.Get("Hx-Request") != "" {
			// Do not redirect htmx requests, those should only request valid paths.
			http.Error(w, "", http.StatusNotFound)
			return
		}
		refererURL, err := url.Parse(r.Header.Get("Referer"))
		if err == nil && refererURL.Host == r.Host {
			// Request is coming from our own domain: this indicates an internal broken link.
			http.Error(w, "Broken link", http.StatusNotFound)
			return
		}
		// Redirect GET to the UI home page.
		http.Redirect(w, r, "/ui/equivalences", http.StatusTemporaryRedirect)
	})

	return mux
}

// Serve starts the HTTP server on s.opts.Addr using the wrapped handler.
func (s *Server) Serve() error {
	handler := s.Handler()
	log.Printf("Go server listening on http://%s", s.opts.Addr)
	return http.ListenAndServe(s.opts.Addr, handler)
}

func (s *Server) Handler() http.Handler {
	return s.withRequestLogging(s.routes())
}
