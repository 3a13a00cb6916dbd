package httpserver

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"
)

// Server 把 /api/*、/healthz 和静态页面挂到同一个 mux 上
type Server struct {
	h      *Handler
	webDir string

	srvMu sync.Mutex
	srv   *http.Server
}

func NewServer(h *Handler, webDir string) *Server {
	return &Server{h: h, webDir: webDir}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/", s.h)
	mux.Handle("/healthz", s.h)
	RegisterStaticRoutes(mux, s.webDir)
	return mux
}

// Listen 阻塞直到 Close 或出错
func (s *Server) Listen(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// ai_move 最多思考 30s，写超时要比它长
		WriteTimeout:   45 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
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

func (s *Server) Close(ctx context.Context) error {
	s.srvMu.Lock()
	srv := s.srv
	s.srvMu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
