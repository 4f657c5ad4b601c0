package httpserver

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"
)

// Server mounts the API handler and the static frontend behind one http.Server.
type Server struct {
	h      *Handler
	webDir string

	srvMu sync.Mutex
	srv   *http.Server
}

func NewServer(h *Handler, webDir string) *Server {
	return &Server{h: h, webDir: webDir}
}

func (s *Server) Handler() http.Handler { return s.routes() }

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/", s.h)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if s.webDir != "" {
		RegisterStaticRoutes(mux, s.webDir)
	}
	return mux
}

// Listen serves until Close is called.
func (s *Server) Listen(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      botWaitLimit + 10*time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	s.srvMu.Lock()
	s.srv = srv
	s.srvMu.Unlock()
	defer func() {
		s.srvMu.Lock()
		s.srv = nil
		s.srvMu.Unlock()
	}()

	log.Printf("HTTP listening on %s", addr)
	err := srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close shuts the server down gracefully.
func (s *Server) Close(ctx context.Context) error {
	s.srvMu.Lock()
	srv := s.srv
	s.srvMu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
