// Package server はHTTPサーバーの生成と起動・停止を管理する。
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/nobita2041/beauty-salon-cms/internal/middleware"
)

// Config はHTTPサーバーの設定。ゼロ値の項目は既定値を使う。
type Config struct {
	Port           string // 空の場合は "8080"。"0" の場合は空きポートを割り当てる
	AllowedOrigins []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
}

const (
	defaultReadTimeout  = 15 * time.Second
	defaultWriteTimeout = 15 * time.Second
	defaultIdleTimeout  = 60 * time.Second
)

// Server はCORSを最外周に適用したHTTPサーバー。
// プロセスごとに複数生成でき、グローバルな状態を持たない。
type Server struct {
	httpServer *http.Server
	port       string

	mu       sync.Mutex
	listener net.Listener
	done     chan error
}

// New はServerを生成する。Startを呼ぶまでリッスンしない。
func New(cfg Config, handler http.Handler) *Server {
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	return &Server{
		httpServer: &http.Server{
			Handler:      middleware.NewCORSMiddleware(cfg.AllowedOrigins)(handler),
			ReadTimeout:  durationOr(cfg.ReadTimeout, defaultReadTimeout),
			WriteTimeout: durationOr(cfg.WriteTimeout, defaultWriteTimeout),
			IdleTimeout:  durationOr(cfg.IdleTimeout, defaultIdleTimeout),
		},
		port: port,
	}
}

// Start はポートをリッスンし、バックグラウンドでリクエストの処理を開始する。
// リッスンに失敗した場合はエラーを返す。
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return errors.New("server already started")
	}

	ln, err := net.Listen("tcp", ":"+s.port)
	if err != nil {
		return fmt.Errorf("failed to listen on port %s: %w", s.port, err)
	}
	s.listener = ln
	s.done = make(chan error, 1)

	go func() {
		slog.Info("API server starting", slog.String("addr", ln.Addr().String()))
		err := s.httpServer.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		if err != nil {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
		s.done <- err
	}()

	return nil
}

// Done はサーバーが停止したときにServeのエラー（正常停止時はnil）を受け取るチャネルを返す。
// Start前はnilを返す。
func (s *Server) Done() <-chan error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Addr はリッスン中のアドレスを返す。Start前は空文字を返す。
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown は新規接続の受け付けを止め、処理中のリクエストの完了を待って停止する。
// ctxの期限を過ぎた場合はエラーを返す。
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

func durationOr(d, fallback time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return fallback
}
