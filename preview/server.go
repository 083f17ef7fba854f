package preview

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"cfimages/cfimage"
	"cfimages/config"
	"cfimages/site"
)

// PageData is the dot value of a rendered page template
type PageData struct {
	Page   *site.Page
	Host   string
	UseCDN bool
}

// Server renders page bundles through a template with the image functions
// bound to each request's host.
type Server struct {
	store    *config.Store
	tmplPath string
	logger   *slog.Logger
}

// NewServer creates a preview server. The template file is read per
// request so edits show up on reload.
func NewServer(store *config.Store, tmplPath string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{store: store, tmplPath: tmplPath, logger: logger}
}

// Handler returns the HTTP handler serving GET /{page route}
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	mux.HandleFunc("/", s.handlePage)
	return mux
}

// ListenAndServe starts the HTTP server on addr
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("preview server starting", "addr", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handlePage renders one page bundle
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	cfg := s.store.Current()
	st := site.New(cfg.Site)
	route := strings.Trim(r.URL.Path, "/")

	page, err := st.LoadPage(route)
	if errors.Is(err, site.ErrNoPage) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.logger.Error("failed to load page", "route", route, "error", err)
		http.Error(w, "Failed to load page", http.StatusInternalServerError)
		return
	}

	out, err := render(cfg, s.tmplPath, r.Host, page, s.logger)
	if err != nil {
		s.logger.Error("failed to render page", "route", route, "error", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(out)
}

// Render executes the template at tmplPath for one page outside of HTTP
func Render(cfg *config.Config, tmplPath, host, route string, logger *slog.Logger) ([]byte, error) {
	st := site.New(cfg.Site)

	var page *site.Page
	if route != "" {
		p, err := st.LoadPage(route)
		if err != nil {
			return nil, fmt.Errorf("failed to load page: %w", err)
		}
		page = p
	}

	return render(cfg, tmplPath, host, page, logger)
}

// render executes the template with the resolver bound to host and page
func render(cfg *config.Config, tmplPath, host string, page *site.Page, logger *slog.Logger) ([]byte, error) {
	st := site.New(cfg.Site)
	req := site.NewRequest(host)

	var opts []cfimage.Option
	if logger != nil {
		opts = append(opts, cfimage.WithLogger(logger))
	}
	resolver := cfimage.New(st.Host(cfimage.StaticConfig(cfg.Images), req, page), opts...)

	src, err := os.ReadFile(tmplPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}
	tmpl, err := template.New(filepath.Base(tmplPath)).Funcs(resolver.FuncMap()).Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	data := PageData{Page: page, Host: req.Host(), UseCDN: cfimage.UseCDN(cfg.Images, req.Host())}
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render template: %w", err)
	}
	return buf.Bytes(), nil
}
