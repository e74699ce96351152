package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/events"
	"github.com/rocketscienceinc/gomoku-backend/internal/gomoku"
)

type GamePlayService interface {
	GetOrCreateGame(ctx context.Context, player *entity.Player) (*entity.Game, error)
	StartGame(ctx context.Context, playerID, gameType string) (*entity.Game, error)
	MakeTurn(ctx context.Context, playerID string, pos entity.Position) (*entity.Game, error)
	RestartGame(ctx context.Context, playerID string) (*entity.Game, error)
	ResetToSelection(ctx context.Context, playerID string) (*entity.Game, error)
	CleanupGame(ctx context.Context, game *entity.Game)
}

type gamePlayService struct {
	logger *slog.Logger

	playerService PlayerService
	gameService   GameService
	botService    BotService
	broker        *events.Broker

	// botDelay lets the presentation layer show a "thinking" state before the
	// bot's stone lands; zero applies the bot move synchronously.
	botDelay time.Duration

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex

	timersMu sync.Mutex
	timers   map[string]*time.Timer
}

func NewGamePlayService(
	logger *slog.Logger,
	playerService PlayerService,
	gameService GameService,
	botService BotService,
	broker *events.Broker,
	botDelay time.Duration,
) GamePlayService {
	return &gamePlayService{
		logger:        logger,
		playerService: playerService,
		gameService:   gameService,
		botService:    botService,
		broker:        broker,
		botDelay:      botDelay,
		locks:         make(map[string]*sync.Mutex),
		timers:        make(map[string]*time.Timer),
	}
}

// GetOrCreateGame - returns the player's current session, creating a fresh
// waiting one when the player has none.
func (that *gamePlayService) GetOrCreateGame(ctx context.Context, player *entity.Player) (*entity.Game, error) {
	if player.GameID == "" {
		game, err := that.gameService.CreateGame(ctx, player, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to create game: %w", err)
		}

		if err = that.playerService.UpdatePlayer(ctx, player); err != nil {
			return nil, fmt.Errorf("failed to update player: %w", err)
		}

		return game, nil
	}

	game, err := that.gameService.GetGameByID(ctx, player.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

// StartGame - selects the game mode and begins play (mode selection screen →
// board). In bot mode the automated seat is registered before the first move.
func (that *gamePlayService) StartGame(ctx context.Context, playerID, gameType string) (*entity.Game, error) {
	player, err := that.playerService.GetPlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	game, err := that.GetOrCreateGame(ctx, player)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create game: %w", err)
	}

	unlock := that.lockGame(game.ID)
	defer unlock()

	if err = game.Start(gameType); err != nil {
		return game, fmt.Errorf("failed to start game: %w", err)
	}

	if game.IsWithBot() && game.BotPlayer() == nil {
		botPlayer := entity.NewBotPlayer(game.ID)
		game.Players = append(game.Players, botPlayer)

		if err = that.playerService.UpdatePlayer(ctx, botPlayer); err != nil {
			return nil, fmt.Errorf("failed to update bot player: %w", err)
		}
	}

	if err = that.gameService.UpdateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	that.broker.Publish(events.Event{GameID: game.ID, Type: events.TypePhaseChanged, Phase: game.Status})
	that.broker.Publish(events.Event{GameID: game.ID, Type: events.TypeTurnChanged, Turn: game.Turn})

	return game, nil
}

// MakeTurn - applies one externally submitted move. When the move hands the
// turn to the bot, the bot's reply is scheduled after the configured delay.
func (that *gamePlayService) MakeTurn(ctx context.Context, playerID string, pos entity.Position) (*entity.Game, error) {
	player, err := that.playerService.GetPlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	if player.GameID == "" {
		return nil, apperror.ErrNoActiveGames
	}

	game, err := that.submitTurn(ctx, player, pos)
	if err != nil {
		return game, err
	}

	if botPlayer := game.BotPlayer(); botPlayer != nil && game.IsOngoing() && game.Turn == botPlayer.Mark {
		that.scheduleBotTurn(game.ID)
	}

	return game, nil
}

func (that *gamePlayService) submitTurn(ctx context.Context, player *entity.Player, pos entity.Position) (*entity.Game, error) {
	unlock := that.lockGame(player.GameID)
	defer unlock()

	game, err := that.gameService.GetGameByID(ctx, player.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	mark := player.Mark
	if game.Type == entity.LocalType {
		// One client plays both seats in a local game, so the submitted move
		// always belongs to whichever mark is up.
		mark = game.Turn
	}

	if botPlayer := game.BotPlayer(); botPlayer != nil && game.Turn == botPlayer.Mark {
		// The bot only moves through its own scheduled path.
		return game, apperror.ErrNotYourTurn
	}

	if err = gomoku.MakeTurn(game, mark, pos); err != nil {
		return game, fmt.Errorf("failed to make turn: %w", err)
	}

	if err = that.gameService.UpdateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	that.publishTurnEvents(game, pos, mark)

	return game, nil
}

// scheduleBotTurn - arms the bot's reply. Any previously pending reply for the
// game is cancelled first; a zero delay plays the reply before returning.
func (that *gamePlayService) scheduleBotTurn(gameID string) {
	that.cancelBotTurn(gameID)

	if that.botDelay == 0 {
		if _, err := that.makeBotTurn(context.Background(), gameID); err != nil {
			that.logger.Error("bot turn failed", "gameID", gameID, "error", err)
		}
		return
	}

	that.timersMu.Lock()
	defer that.timersMu.Unlock()

	that.timers[gameID] = time.AfterFunc(that.botDelay, func() {
		if _, err := that.makeBotTurn(context.Background(), gameID); err != nil {
			that.logger.Error("bot turn discarded", "gameID", gameID, "error", err)
		}
	})
}

// cancelBotTurn - drops a pending bot reply, if any.
func (that *gamePlayService) cancelBotTurn(gameID string) {
	that.timersMu.Lock()
	defer that.timersMu.Unlock()

	if timer, ok := that.timers[gameID]; ok {
		timer.Stop()
		delete(that.timers, gameID)
	}
}

// makeBotTurn - plays the bot's move. The game is reloaded and its phase and
// turn re-validated first, so a reply left over from a game that was reset,
// restarted or concluded in the meantime is rejected instead of applied.
func (that *gamePlayService) makeBotTurn(ctx context.Context, gameID string) (*entity.Game, error) {
	unlock := that.lockGame(gameID)
	defer unlock()

	game, err := that.gameService.GetGameByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	if err = game.ConfirmOngoingState(); err != nil {
		return game, fmt.Errorf("stale bot turn: %w", err)
	}

	botPlayer := game.BotPlayer()
	if botPlayer == nil {
		return game, ErrBotNotFound
	}

	if game.Turn != botPlayer.Mark {
		return game, fmt.Errorf("stale bot turn: %w", apperror.ErrNotYourTurn)
	}

	pos, err := that.botService.MakeTurn(game)
	if err != nil {
		return game, fmt.Errorf("bot failed to make turn: %w", err)
	}

	if err = that.gameService.UpdateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	that.publishTurnEvents(game, pos, botPlayer.Mark)

	return game, nil
}

func (that *gamePlayService) publishTurnEvents(game *entity.Game, pos entity.Position, mark string) {
	that.broker.Publish(events.Event{
		GameID:   game.ID,
		Type:     events.TypeBoardChanged,
		Position: &pos,
		Cell:     mark,
	})

	if game.IsFinished() {
		that.broker.Publish(events.Event{GameID: game.ID, Type: events.TypePhaseChanged, Phase: game.Status})
		that.broker.Publish(events.Event{GameID: game.ID, Type: events.TypeGameConcluded, Winner: game.Winner})
		return
	}

	that.broker.Publish(events.Event{GameID: game.ID, Type: events.TypeTurnChanged, Turn: game.Turn})
}

// RestartGame - starts a fresh game in the same mode on a new board. A bot
// reply still pending for the old board is cancelled.
func (that *gamePlayService) RestartGame(ctx context.Context, playerID string) (*entity.Game, error) {
	player, err := that.playerService.GetPlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	if player.GameID == "" {
		return nil, apperror.ErrNoActiveGames
	}

	that.cancelBotTurn(player.GameID)

	unlock := that.lockGame(player.GameID)
	defer unlock()

	game, err := that.gameService.GetGameByID(ctx, player.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	if err = game.Restart(); err != nil {
		return game, fmt.Errorf("failed to restart game: %w", err)
	}

	if err = that.gameService.UpdateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	that.broker.Publish(events.Event{GameID: game.ID, Type: events.TypePhaseChanged, Phase: game.Status})
	that.broker.Publish(events.Event{GameID: game.ID, Type: events.TypeTurnChanged, Turn: game.Turn})

	return game, nil
}

// ResetToSelection - abandons the current game and returns to the mode
// selection screen. The bot seat is released along with the mode.
func (that *gamePlayService) ResetToSelection(ctx context.Context, playerID string) (*entity.Game, error) {
	player, err := that.playerService.GetPlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	if player.GameID == "" {
		return nil, apperror.ErrNoActiveGames
	}

	that.cancelBotTurn(player.GameID)

	unlock := that.lockGame(player.GameID)
	defer unlock()

	game, err := that.gameService.GetGameByID(ctx, player.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	if err = game.ResetToSelection(); err != nil {
		return game, fmt.Errorf("failed to reset game: %w", err)
	}

	humans := make([]*entity.Player, 0, len(game.Players))
	for _, gamePlayer := range game.Players {
		if !gamePlayer.IsBot() {
			humans = append(humans, gamePlayer)
		}
	}
	game.Players = humans

	if err = that.gameService.UpdateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	that.broker.Publish(events.Event{GameID: game.ID, Type: events.TypePhaseChanged, Phase: game.Status})

	return game, nil
}

// CleanupGame - deletes the session and detaches its human players.
func (that *gamePlayService) CleanupGame(ctx context.Context, game *entity.Game) {
	log := that.logger.With("method", "cleanupGame", "gameID", game.ID)

	that.cancelBotTurn(game.ID)

	if err := that.gameService.DeleteGame(ctx, game.ID); err != nil {
		log.Error("failed to delete game", "error", err)
	}

	for _, player := range game.Players {
		if player.IsBot() {
			continue
		}

		player.GameID = ""
		player.Mark = ""
		if err := that.playerService.UpdatePlayer(ctx, player); err != nil {
			log.Error("failed to update player", "player", player.ID, "error", err)
		}
	}
}

func (that *gamePlayService) lockGame(gameID string) func() {
	that.locksMu.Lock()
	lock, ok := that.locks[gameID]
	if !ok {
		lock = &sync.Mutex{}
		that.locks[gameID] = lock
	}
	that.locksMu.Unlock()

	lock.Lock()

	return lock.Unlock
}
