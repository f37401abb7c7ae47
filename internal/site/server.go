package site

import (
	"context"
	"fmt"
	"log"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func init() {
	// Needed for WebAssembly.instantiateStreaming
	mime.AddExtensionType(".wasm", "application/wasm")
}

// ServerConfig holds preview server configuration
type ServerConfig struct {
	Port     int
	Dir      string // built site to serve
	AllowAll bool   // allow all CORS origins
}

// Server serves a built gallery for local preview
type Server struct {
	cfg        ServerConfig
	router     chi.Router
	httpServer *http.Server
}

// NewServer creates a preview server for cfg.Dir
func NewServer(cfg ServerConfig) *Server {
	s := &Server{cfg: cfg}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	corsOpts := cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
		MaxAge:         300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	files := http.FileServer(http.Dir(s.cfg.Dir))
	r.Handle("/*", files)

	return r
}

// Handler returns the router, for tests and embedding
func (s *Server) Handler() http.Handler { return s.router }

// Start listens on the configured port until Shutdown
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("gallery preview of %s listening on http://localhost%s", s.cfg.Dir, addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
