package cli

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/fumen-tools/fumetree/pkg/cache"
	apperrors "github.com/fumen-tools/fumetree/pkg/errors"
	"github.com/fumen-tools/fumetree/pkg/observability"
	"github.com/fumen-tools/fumetree/pkg/pagetree"
	"github.com/fumen-tools/fumetree/pkg/pagetree/codec"
	"github.com/fumen-tools/fumetree/pkg/pagetree/layout"
	"github.com/fumen-tools/fumetree/pkg/render"
	"github.com/fumen-tools/fumetree/pkg/store"
)

// serveCommand creates the serve command that exposes tree operations over
// HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve tree operations over HTTP",
		Long: `Start an HTTP server exposing decode, layout, validate, and render as
JSON endpoints, plus named-tree storage.

With redis_addr configured, derived artifacts are cached in Redis so
multiple instances share one cache; otherwise a local file cache is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Serve.Addr
			}
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	logger := c.Logger

	cacheStore, err := c.newServerCache(ctx, noCache)
	if err != nil {
		return err
	}
	defer cacheStore.Close()

	treeStore, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer treeStore.Close(ctx)

	srv := &server{
		cli:    c,
		cache:  cacheStore,
		store:  treeStore,
		logger: logger,
	}

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// newServerCache picks Redis when configured, otherwise the file cache.
func (c *CLI) newServerCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if addr := c.Config.Serve.RedisAddr; addr != "" {
		rc, err := cache.NewRedisCache(ctx, addr)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeStoreUnreached, err, "connect redis at %s", addr)
		}
		c.Logger.Info("using redis cache", "addr", addr)
		return rc, nil
	}
	return c.newCache(false), nil
}

// server bundles the shared state behind the HTTP handlers.
type server struct {
	cli    *CLI
	cache  cache.Cache
	store  store.Store
	logger *log.Logger
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(withLogger(req.Context(), s.logger)))
		})
	})

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/tree/decode", s.handleDecode)
		r.Post("/tree/layout", s.handleLayout)
		r.Post("/tree/validate", s.handleValidate)
		r.Post("/tree/render", s.handleRender)

		r.Get("/trees", s.handleListTrees)
		r.Get("/trees/{name}", s.handleGetTree)
		r.Put("/trees/{name}", s.handlePutTree)
		r.Delete("/trees/{name}", s.handleDeleteTree)
	})

	return r
}

// commentRequest is the shared request body for tree operations.
type commentRequest struct {
	Comment string `json:"comment"`
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleDecode(w http.ResponseWriter, r *http.Request) {
	tree, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Tree    pagetree.Tree `json:"tree"`
		Flatten []int         `json:"flatten"`
	}{tree, tree.Flatten()})
}

func (s *server) handleLayout(w http.ResponseWriter, r *http.Request) {
	tree, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, layout.Calculate(tree))
}

func (s *server) handleValidate(w http.ResponseWriter, r *http.Request) {
	tree, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, tree.Validate())
}

func (s *server) handleRender(w http.ResponseWriter, r *http.Request) {
	tree, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}

	treeHash := cache.Hash([]byte(codec.Encode(tree)))
	key := cache.ArtifactKey(treeHash, "svg")

	if data, ok, err := s.cache.Get(r.Context(), key); err == nil && ok {
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write(data)
		return
	}

	start := time.Now()
	observability.Tree().OnRenderStart(r.Context(), "svg")
	lay := layout.Calculate(tree)
	dot := render.ToDOT(tree, lay, render.Options{})
	svg, err := render.RenderSVG(dot)
	observability.Tree().OnRenderComplete(r.Context(), "svg", time.Since(start), err)
	if err != nil {
		s.writeError(w, apperrors.Wrap(apperrors.ErrCodeInternal, err, "render svg"))
		return
	}
	if err := s.cache.Set(r.Context(), key, svg, s.cli.cacheTTL()); err != nil {
		loggerFromContext(r.Context()).Error("artifact cache write failed", "err", err)
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

func (s *server) handleListTrees(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"names": names})
}

func (s *server) handleGetTree(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	rec, err := s.store.Load(r.Context(), name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *server) handlePutTree(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid JSON body"))
		return
	}
	tree, ok := codec.Decode(req.Comment)
	if !ok {
		s.writeError(w, apperrors.New(apperrors.ErrCodeInvalidComment, "no decodable tree data in comment"))
		return
	}

	rec := store.Record{Name: name, Tree: tree, Comment: codec.Strip(req.Comment)}
	if err := s.store.Save(r.Context(), rec); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"name": name})
}

func (s *server) handleDeleteTree(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := s.store.Delete(r.Context(), name); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeRequest parses the request body and decodes the embedded tree,
// writing the error response on failure.
func (s *server) decodeRequest(w http.ResponseWriter, r *http.Request) (pagetree.Tree, bool) {
	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid JSON body"))
		return pagetree.Tree{}, false
	}

	tree, _, err := s.cli.decodeTree(r.Context(), s.cache, req.Comment)
	if err != nil {
		s.writeError(w, err)
		return pagetree.Tree{}, false
	}
	return tree, true
}

// writeError maps structured error codes onto HTTP status codes.
func (s *server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeInvalidInput, apperrors.ErrCodeInvalidComment,
		apperrors.ErrCodeInvalidTree, apperrors.ErrCodeInvalidName,
		apperrors.ErrCodeInvalidFormat:
		status = http.StatusBadRequest
	case apperrors.ErrCodeNotFound, apperrors.ErrCodeTreeNotFound,
		apperrors.ErrCodePageNotFound:
		status = http.StatusNotFound
	case apperrors.ErrCodeStoreUnreached:
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorResponse{
		Code:    string(apperrors.GetCode(err)),
		Message: apperrors.UserMessage(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
