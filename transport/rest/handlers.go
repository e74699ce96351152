package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/repository"
	"github.com/rocketscienceinc/gomoku-backend/internal/usecase"
)

type handlers struct {
	uGame usecase.GameUseCase
}

func newHandlers(uGame usecase.GameUseCase) *handlers {
	return &handlers{uGame: uGame}
}

func (that *handlers) ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// gameSnapshotResponse is the full-board state a client fetches when it needs
// a complete redraw instead of replaying incremental events.
type gameSnapshotResponse struct {
	ID     string     `json:"id"`
	Size   int        `json:"size"`
	Board  [][]string `json:"board"`
	Turn   string     `json:"turn,omitempty"`
	Winner string     `json:"winner,omitempty"`
	Status string     `json:"status"`
	Type   string     `json:"type,omitempty"`
}

func (that *handlers) gameSnapshot(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")

	game, err := that.uGame.GetGameByID(r.Context(), gameID)
	if errors.Is(err, repository.ErrGameNotFound) {
		http.Error(w, "game not found", http.StatusNotFound)
		return
	}

	if err != nil {
		http.Error(w, "failed to get game", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err = json.NewEncoder(w).Encode(snapshotFromGame(game)); err != nil {
		http.Error(w, "failed to encode game", http.StatusInternalServerError)
	}
}

func snapshotFromGame(game *entity.Game) gameSnapshotResponse {
	return gameSnapshotResponse{
		ID:     game.ID,
		Size:   game.Board.Size,
		Board:  game.Board.Cells,
		Turn:   game.Turn,
		Winner: game.Winner,
		Status: game.Status,
		Type:   game.Type,
	}
}
