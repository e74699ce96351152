package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

func (that *Server) handleConnect(ctx context.Context, sess *session, msg *Message) error {
	log := that.logger.With("method", "handleConnect")

	var payloadReq Payload

	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
			return fmt.Errorf("failed to unmarshal payload: %w", err)
		}
	}

	var requestedID string
	if payloadReq.Player != nil {
		requestedID = payloadReq.Player.ID
	}

	player, err := that.uGame.GetOrCreatePlayer(ctx, requestedID)
	if err != nil {
		log.Error("failed to create or get player", "error", err)
		return that.sendErrorResponse(sess, msg.Action, "failed to create a new player")
	}

	sess.playerID = player.ID

	game, err := that.uGame.GetGameByPlayerID(ctx, player.ID)
	if err != nil {
		log.Error("failed to get game", "error", err)
		return that.sendErrorResponse(sess, msg.Action, "failed to get the game")
	}

	that.listenGame(sess, game.ID)

	payloadResp := Payload{
		Player: player,
		Game:   NewGameView(game),
	}

	if err = that.sendMessage(sess, msg.Action, payloadResp); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	log.Info("player connected", "playerID", player.ID, "gameID", game.ID)

	return nil
}

func (that *Server) handleStartGame(ctx context.Context, sess *session, msg *Message) error {
	log := that.logger.With("method", "handleStartGame")

	var payloadReq StartPayload

	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	playerID := that.resolvePlayerID(sess, payloadReq.Player.ID)
	if playerID == "" {
		log.Error("player is missing in payload")
		return that.sendErrorResponse(sess, msg.Action, "player is required")
	}

	game, err := that.uGame.StartGame(ctx, playerID, payloadReq.Mode)
	if err != nil {
		log.Error("failed to start game", "mode", payloadReq.Mode, "error", err)
		return that.sendErrorResponse(sess, msg.Action, err.Error())
	}

	that.listenGame(sess, game.ID)

	log.Info("game started", "gameID", game.ID, "mode", game.Type)

	return that.sendMessage(sess, msg.Action, Payload{Game: NewGameView(game)})
}

func (that *Server) handleGameTurn(ctx context.Context, sess *session, msg *Message) error {
	log := that.logger.With("method", "handleGameTurn")

	var payloadReq TurnPayload

	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	playerID := that.resolvePlayerID(sess, payloadReq.Player.ID)
	if playerID == "" {
		log.Error("player is missing in payload")
		return that.sendErrorResponse(sess, msg.Action, "player is required")
	}

	pos := entity.Position{Row: payloadReq.Row, Col: payloadReq.Col}

	game, err := that.uGame.MakeTurn(ctx, playerID, pos)
	if err != nil {
		log.Error("failed to make turn", "row", pos.Row, "col", pos.Col, "error", err)

		resp := Payload{Error: err.Error()}
		if game != nil {
			resp.Game = NewGameView(game)
		}

		return that.sendMessage(sess, msg.Action, resp)
	}

	return that.sendMessage(sess, msg.Action, Payload{Game: NewGameView(game)})
}

func (that *Server) handleRestartGame(ctx context.Context, sess *session, msg *Message) error {
	log := that.logger.With("method", "handleRestartGame")

	playerID := that.requestPlayerID(sess, msg)
	if playerID == "" {
		log.Error("player is missing in payload")
		return that.sendErrorResponse(sess, msg.Action, "player is required")
	}

	game, err := that.uGame.RestartGame(ctx, playerID)
	if err != nil {
		log.Error("failed to restart game", "error", err)
		return that.sendErrorResponse(sess, msg.Action, err.Error())
	}

	log.Info("game restarted", "gameID", game.ID)

	return that.sendMessage(sess, msg.Action, Payload{Game: NewGameView(game)})
}

func (that *Server) handleResetToSelection(ctx context.Context, sess *session, msg *Message) error {
	log := that.logger.With("method", "handleResetToSelection")

	playerID := that.requestPlayerID(sess, msg)
	if playerID == "" {
		log.Error("player is missing in payload")
		return that.sendErrorResponse(sess, msg.Action, "player is required")
	}

	game, err := that.uGame.ResetToSelection(ctx, playerID)
	if err != nil {
		log.Error("failed to reset game", "error", err)
		return that.sendErrorResponse(sess, msg.Action, err.Error())
	}

	log.Info("game reset to mode selection", "gameID", game.ID)

	return that.sendMessage(sess, msg.Action, Payload{Game: NewGameView(game)})
}

func (that *Server) handleLeaveGame(ctx context.Context, sess *session, msg *Message) error {
	log := that.logger.With("method", "handleLeaveGame")

	playerID := that.requestPlayerID(sess, msg)
	if playerID == "" {
		log.Error("player is missing in payload")
		return that.sendErrorResponse(sess, msg.Action, "player is required")
	}

	if err := that.uGame.LeaveGame(ctx, playerID); err != nil {
		log.Error("failed to leave game", "error", err)
		return that.sendErrorResponse(sess, msg.Action, err.Error())
	}

	sess.detach()

	log.Info("player left game", "playerID", playerID)

	return that.sendMessage(sess, msg.Action, Payload{})
}

// requestPlayerID - extracts the player ID from a generic payload, falling
// back to the session's connected player.
func (that *Server) requestPlayerID(sess *session, msg *Message) string {
	var payloadReq Payload
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
			return sess.playerID
		}
	}

	var requestedID string
	if payloadReq.Player != nil {
		requestedID = payloadReq.Player.ID
	}

	return that.resolvePlayerID(sess, requestedID)
}

func (that *Server) resolvePlayerID(sess *session, requestedID string) string {
	if requestedID != "" {
		return requestedID
	}

	return sess.playerID
}
