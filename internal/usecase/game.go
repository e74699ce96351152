package usecase

import (
	"context"
	"fmt"

	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/events"
)

// GameUseCase is the surface the transports talk to.
type GameUseCase interface {
	GetOrCreatePlayer(ctx context.Context, playerID string) (*entity.Player, error)
	GetGameByPlayerID(ctx context.Context, playerID string) (*entity.Game, error)
	GetGameByID(ctx context.Context, gameID string) (*entity.Game, error)

	StartGame(ctx context.Context, playerID, gameType string) (*entity.Game, error)
	MakeTurn(ctx context.Context, playerID string, pos entity.Position) (*entity.Game, error)
	RestartGame(ctx context.Context, playerID string) (*entity.Game, error)
	ResetToSelection(ctx context.Context, playerID string) (*entity.Game, error)
	LeaveGame(ctx context.Context, playerID string) error

	Subscribe(gameID string) *events.Subscription
}

type playerService interface {
	CreatePlayer(ctx context.Context) (*entity.Player, error)
	GetPlayerByID(ctx context.Context, id string) (*entity.Player, error)
	UpdatePlayer(ctx context.Context, player *entity.Player) error
}

type gameService interface {
	GetGameByID(ctx context.Context, id string) (*entity.Game, error)
}

type gamePlayService interface {
	GetOrCreateGame(ctx context.Context, player *entity.Player) (*entity.Game, error)
	StartGame(ctx context.Context, playerID, gameType string) (*entity.Game, error)
	MakeTurn(ctx context.Context, playerID string, pos entity.Position) (*entity.Game, error)
	RestartGame(ctx context.Context, playerID string) (*entity.Game, error)
	ResetToSelection(ctx context.Context, playerID string) (*entity.Game, error)
	CleanupGame(ctx context.Context, game *entity.Game)
}

type gameUseCase struct {
	playerService   playerService
	gameService     gameService
	gamePlayService gamePlayService
	broker          *events.Broker
}

func NewGameUseCase(playerService playerService, gameService gameService, gamePlayService gamePlayService, broker *events.Broker) GameUseCase {
	return &gameUseCase{
		playerService:   playerService,
		gameService:     gameService,
		gamePlayService: gamePlayService,
		broker:          broker,
	}
}

func (that *gameUseCase) GetOrCreatePlayer(ctx context.Context, playerID string) (*entity.Player, error) {
	if playerID == "" {
		player, err := that.playerService.CreatePlayer(ctx)
		if err != nil {
			return nil, fmt.Errorf("could not create player: %w", err)
		}

		return player, nil
	}

	player, err := that.playerService.GetPlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	return player, nil
}

func (that *gameUseCase) GetGameByPlayerID(ctx context.Context, playerID string) (*entity.Game, error) {
	player, err := that.playerService.GetPlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	game, err := that.gamePlayService.GetOrCreateGame(ctx, player)
	if err != nil {
		return nil, fmt.Errorf("failed to get game state: %w", err)
	}

	return game, nil
}

// GetGameByID - a direct session lookup, used by presentation for full redraws.
func (that *gameUseCase) GetGameByID(ctx context.Context, gameID string) (*entity.Game, error) {
	game, err := that.gameService.GetGameByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	return game, nil
}

func (that *gameUseCase) StartGame(ctx context.Context, playerID, gameType string) (*entity.Game, error) {
	game, err := that.gamePlayService.StartGame(ctx, playerID, gameType)
	if err != nil {
		return game, fmt.Errorf("failed to start game: %w", err)
	}

	return game, nil
}

func (that *gameUseCase) MakeTurn(ctx context.Context, playerID string, pos entity.Position) (*entity.Game, error) {
	game, err := that.gamePlayService.MakeTurn(ctx, playerID, pos)
	if err != nil {
		return game, fmt.Errorf("failed to make turn: %w", err)
	}

	return game, nil
}

func (that *gameUseCase) RestartGame(ctx context.Context, playerID string) (*entity.Game, error) {
	game, err := that.gamePlayService.RestartGame(ctx, playerID)
	if err != nil {
		return game, fmt.Errorf("failed to restart game: %w", err)
	}

	return game, nil
}

func (that *gameUseCase) ResetToSelection(ctx context.Context, playerID string) (*entity.Game, error) {
	game, err := that.gamePlayService.ResetToSelection(ctx, playerID)
	if err != nil {
		return game, fmt.Errorf("failed to reset game: %w", err)
	}

	return game, nil
}

// LeaveGame - drops the player's session entirely.
func (that *gameUseCase) LeaveGame(ctx context.Context, playerID string) error {
	player, err := that.playerService.GetPlayerByID(ctx, playerID)
	if err != nil {
		return fmt.Errorf("failed to get player: %w", err)
	}

	if player.GameID == "" {
		return nil
	}

	game, err := that.gamePlayService.GetOrCreateGame(ctx, player)
	if err != nil {
		return fmt.Errorf("failed to get game: %w", err)
	}

	that.gamePlayService.CleanupGame(ctx, game)

	return nil
}

func (that *gameUseCase) Subscribe(gameID string) *events.Subscription {
	return that.broker.Subscribe(gameID)
}
