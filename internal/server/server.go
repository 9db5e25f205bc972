// Package server 把 app.Explorer 暴露为 JSON HTTP API（可选 HTML 卡片片段）。
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/SagarThayat/movie-explorer-app/internal/domain"
)

// Explorer 是 HTTP 层依赖的用例集合（app.Explorer 满足该接口）。
type Explorer interface {
	Trending(ctx context.Context) (domain.ListResult, error)
	Search(ctx context.Context, term string, page int) (domain.ListResult, error)
	Details(ctx context.Context, ref string) (domain.MovieDetails, error)
	RecentSearches() []string
	ClearHistory(ctx context.Context)
}

type Server struct {
	explorer  Explorer
	logger    *slog.Logger
	validator *validator.Validate
}

func New(e Explorer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{explorer: e, logger: logger, validator: validator.New()}
}

// Handler 返回挂好路由与中间件的 http.Handler。
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.Use(s.requestID, s.accessLog, s.recoverPanic)

	api := router.PathPrefix("/api").Subrouter()

	movies := api.PathPrefix("/movies").Subrouter()
	movies.HandleFunc("/trending", s.handleTrending).Methods(http.MethodGet)
	movies.HandleFunc("/search", s.handleSearch).Methods(http.MethodGet)
	movies.HandleFunc("/{id}", s.handleDetails).Methods(http.MethodGet)

	api.HandleFunc("/history", s.handleHistory).Methods(http.MethodGet)
	api.HandleFunc("/history", s.handleClearHistory).Methods(http.MethodDelete)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.respondError(w, r, http.StatusNotFound, "未知的路径")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.respondError(w, r, http.StatusMethodNotAllowed, "不支持的方法")
	})
	return router
}

// ShutdownTimeout 是收到退出信号后等待在途请求的上限。
const ShutdownTimeout = 10 * time.Second

// Run 在 addr 上提供服务，直到 ctx 结束后优雅关闭。
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http 服务已启动", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("http 服务正在关闭")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
