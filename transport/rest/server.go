package rest

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rocketscienceinc/gomoku-backend/internal/usecase"
)

func Start(port string, uGame usecase.GameUseCase) error {
	router := chi.NewRouter()

	h := newHandlers(uGame)
	router.Get("/ping", h.ping)
	router.Get("/games/{id}", h.gameSnapshot)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
