// Package preview serves a rendered document and re-renders it when its
// sources change. Connected browsers reload through server-sent events.
package preview

import (
	"context"
	stderrors "errors"
	"fmt"
	"html"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"git.home.luguber.info/inful/kirlent/internal/foundation/errors"
	"git.home.luguber.info/inful/kirlent/internal/frontmatter"
	"git.home.luguber.info/inful/kirlent/internal/logfields"
	"git.home.luguber.info/inful/kirlent/internal/markdown"
	"git.home.luguber.info/inful/kirlent/internal/metrics"
	"git.home.luguber.info/inful/kirlent/internal/reader"
	"git.home.luguber.info/inful/kirlent/internal/settings"
	"git.home.luguber.info/inful/kirlent/internal/writer"
)

const shutdownTimeout = 5 * time.Second

// Config configures a preview Server.
type Config struct {
	Addr     string
	Debounce time.Duration
	Source   string
	Writer   *writer.Writer
	Values   settings.Values
	Logger   *slog.Logger
}

// Server renders one source document on demand.
type Server struct {
	cfg       Config
	dir       string
	log       *slog.Logger
	registry  *prom.Registry
	publisher *writer.Publisher
	hub       *Hub
	errs      *errors.HTTPErrorAdapter
	router    chi.Router

	mu         sync.RWMutex
	page       []byte
	lastErr    error
	generation int64
}

// New validates cfg and prepares a server. Nothing is rendered until
// Rebuild or Run is called.
func New(cfg Config) (*Server, error) {
	if cfg.Writer == nil {
		return nil, errors.InternalError("preview needs a writer").Build()
	}
	if cfg.Source == "" || cfg.Source == "-" {
		return nil, errors.ValidationError("preview needs a source file, not standard input").Build()
	}
	if cfg.Addr == "" {
		return nil, errors.ValidationError("preview needs a listen address").Build()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	values := cfg.Values
	if values == nil {
		values = cfg.Writer.Defaults()
	}
	values = values.Clone()
	// linked stylesheets would resolve against the working directory, not the server root
	values["embed_stylesheet"] = true
	cfg.Values = values

	abs, err := filepath.Abs(cfg.Source)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "cannot resolve "+cfg.Source).Build()
	}
	cfg.Source = abs

	log := cfg.Logger.With(logfields.Writer(cfg.Writer.Name))
	registry := prom.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewPrometheusRecorder(registry)
	s := &Server{
		cfg:      cfg,
		dir:      filepath.Dir(abs),
		log:      log,
		registry: registry,
		publisher: writer.NewPublisher(
			writer.WithRecorder(recorder),
			writer.WithLogger(log),
		),
		hub:  NewHub(recorder, log),
		errs: errors.NewHTTPErrorAdapter(log),
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.log))

	r.Get("/", s.handlePage)
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", metrics.HTTPHandler(s.registry))
	r.Handle("/livereload", s.hub)
	r.Get(scriptPath, s.handleScript)
	r.Handle("/*", http.FileServer(http.Dir(s.dir)))
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Rebuild renders the source and notifies connected browsers. A failed render
// keeps the error for display; the browsers reload either way.
func (s *Server) Rebuild(ctx context.Context) error {
	res, err := s.publisher.Render(ctx, writer.Request{
		Writer: s.cfg.Writer,
		Values: s.cfg.Values,
		Source: s.cfg.Source,
	})

	s.mu.Lock()
	s.generation++
	gen := s.generation
	if err != nil {
		s.lastErr = err
	} else {
		s.lastErr = nil
		s.page = res.Output
	}
	s.mu.Unlock()

	if err != nil {
		s.log.Warn("Render failed", logfields.Source(s.cfg.Source), logfields.Error(err))
	} else {
		s.log.Info("Rendered", logfields.Source(s.cfg.Source), slog.Int64("generation", gen))
	}
	s.hub.Broadcast(gen)
	return err
}

func (s *Server) snapshot() (page []byte, gen int64, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.page, s.generation, s.lastErr
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	page, gen, lastErr := s.snapshot()
	if lastErr != nil {
		s.writeError(w, r, lastErr, gen)
		return
	}
	if page == nil {
		s.writeError(w, r, errors.RuntimeError("document has not been rendered yet").Build(), gen)
		return
	}
	out, err := injectReload(page, gen)
	if err != nil {
		s.writeError(w, r, err, gen)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(out)
}

// writeError answers browsers with a page that still reloads; other clients
// get the JSON error payload.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, gen int64) {
	if !acceptsHTML(r) {
		s.errs.WriteErrorResponse(w, r, err)
		return
	}
	status := s.errs.StatusCodeFor(err)
	page := fmt.Sprintf("<!DOCTYPE html>\n<html><head><title>kirlent: render failed</title></head>"+
		"<body><h1>Render failed</h1>\n<pre>%s</pre>\n</body></html>\n", html.EscapeString(err.Error()))
	out, ierr := injectReload([]byte(page), gen)
	if ierr != nil {
		out = []byte(page)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write(out)
}

func acceptsHTML(r *http.Request) bool {
	for _, v := range r.Header.Values("Accept") {
		if strings.Contains(strings.ToLower(v), "text/html") {
			return true
		}
	}
	return false
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	_, gen, lastErr := s.snapshot()
	status := "ok"
	if lastErr != nil {
		status = "render_failed"
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = fmt.Fprintf(w, `{"status":%q,"generation":%d}`, status, gen)
}

func (s *Server) handleScript(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/javascript")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write([]byte(reloadScript))
}

// Run renders once, then serves and re-renders on change until ctx is done.
// The initial render may fail; the error page is served until a change fixes it.
func (s *Server) Run(ctx context.Context) error {
	_ = s.Rebuild(ctx)

	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return errors.WrapError(err, errors.CategoryRuntime, "cannot listen on "+s.cfg.Addr).
			WithContext("addr", s.cfg.Addr).
			Build()
	}
	srv := &http.Server{Handler: s, ReadHeaderTimeout: 10 * time.Second}

	debouncer, err := NewDebouncer(s.cfg.Debounce, 0)
	if err != nil {
		_ = ln.Close()
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	var wg sync.WaitGroup
	errCh := make(chan error, 2)

	wg.Add(3)
	go func() {
		defer wg.Done()
		_ = debouncer.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		if err := watchDirs(ctx, s.watchedDirs(), debouncer.Trigger, s.log); err != nil {
			errCh <- err
		}
	}()
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-debouncer.C():
				_ = s.Rebuild(ctx)
			}
		}
	}()

	go func() {
		if err := srv.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errCh <- errors.WrapError(err, errors.CategoryRuntime, "preview server failed").Build()
		}
	}()
	s.log.Info("Preview server listening", logfields.Addr(ln.Addr().String()),
		slog.String("url", "http://"+ln.Addr().String()+"/"))

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}

	s.log.Info("Shutting down preview server")
	s.hub.Shutdown()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.log.Warn("HTTP server shutdown error", logfields.Error(err))
	}
	cancel()
	wg.Wait()
	return runErr
}

// watchedDirs are the source directory, the configured stylesheet
// directories and, for Markdown sources, the existing directories of
// referenced local files.
func (s *Server) watchedDirs() []string {
	dirs := []string{s.dir}
	seen := map[string]bool{s.dir: true}
	add := func(d string) {
		abs, err := filepath.Abs(d)
		if err != nil || seen[abs] {
			return
		}
		if fi, err := os.Stat(abs); err != nil || !fi.IsDir() {
			return
		}
		seen[abs] = true
		dirs = append(dirs, abs)
	}
	for _, d := range s.cfg.Values.List("stylesheet_dirs") {
		add(d)
	}
	for _, asset := range s.assetPaths() {
		add(filepath.Join(s.dir, filepath.Dir(filepath.FromSlash(asset))))
	}
	return dirs
}

func (s *Server) assetPaths() []string {
	content, err := os.ReadFile(s.cfg.Source)
	if err != nil {
		return nil
	}
	if reader.Detect(s.cfg.Source, content) != reader.FormatMarkdown {
		return nil
	}
	_, body, _, err := frontmatter.Split(content)
	if err != nil {
		return nil
	}
	return markdown.LocalAssets(body)
}
