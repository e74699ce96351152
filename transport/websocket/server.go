package websocket

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/rocketscienceinc/gomoku-backend/internal/events"
	"github.com/rocketscienceinc/gomoku-backend/internal/pkg"
	"github.com/rocketscienceinc/gomoku-backend/internal/usecase"
)

type handlerFunc func(ctx context.Context, sess *session, message *Message) error

type Server struct {
	logger *slog.Logger
	uGame  usecase.GameUseCase

	handlers map[string]handlerFunc
}

// session is one client connection: its writer, the player bound to it and
// the engine event stream it currently listens to.
type session struct {
	bufrw    *bufio.ReadWriter
	writeMu  sync.Mutex
	playerID string

	subMu sync.Mutex
	sub   *events.Subscription
}

func New(logger *slog.Logger, uGame usecase.GameUseCase) *Server {
	server := &Server{
		logger: logger,
		uGame:  uGame,

		handlers: make(map[string]handlerFunc),
	}

	server.handlers["connect"] = server.handleConnect
	server.handlers["game:start"] = server.handleStartGame
	server.handlers["game:turn"] = server.handleGameTurn
	server.handlers["game:restart"] = server.handleRestartGame
	server.handlers["game:menu"] = server.handleResetToSelection
	server.handlers["game:leave"] = server.handleLeaveGame

	return server
}

// Start - starts the WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  0, // connections are long-lived; reads block on client input
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// upgradeToWebSocket - upgrades the connection to WebSocket.
func (that *Server) upgradeToWebSocket(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeConnection")

	if req.Header.Get("Upgrade") != "websocket" {
		http.Error(writer, "not a websocket upgrade", http.StatusBadRequest)
		return
	}

	key := req.Header.Get("Sec-WebSocket-Key")
	acceptKey := pkg.GenerateAcceptKey(key)

	writer.Header().Set("Upgrade", "websocket")
	writer.Header().Set("Connection", "Upgrade")
	writer.Header().Set("Sec-WebSocket-Accept", acceptKey)
	writer.WriteHeader(http.StatusSwitchingProtocols)

	hijacker, ok := writer.(http.Hijacker)
	if !ok {
		log.Error("web server does not support hijacking", "error", http.StatusText(http.StatusInternalServerError))
		return
	}

	conn, bufrw, err := hijacker.Hijack()
	if err != nil {
		log.Error("failed to hijack connection", "error", err)
		return
	}

	defer conn.Close()

	log.Info("WebSocket connection established")

	sess := &session{bufrw: bufrw}
	defer sess.detach()

	if err = that.handleMessages(ctx, sess); err != nil {
		log.Error("error handling messages", "error", err)
	}
}

// handleMessages - processes messages from the client.
func (that *Server) handleMessages(ctx context.Context, sess *session) error {
	log := that.logger.With("method", "handleMessages")

	for {
		reqBody, err := that.readRequest(sess.bufrw)
		if err != nil {
			log.Error("error reading message", "error", err)
			return err
		}

		var message Message
		if err = json.Unmarshal(reqBody, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Error("unknown action", "action", message.Action)
			continue
		}

		if err = handler(ctx, sess, &message); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

// listenGame - redirects the engine's event stream for one game to the
// client, replacing whatever stream the session followed before.
func (that *Server) listenGame(sess *session, gameID string) {
	sub := that.uGame.Subscribe(gameID)

	sess.subMu.Lock()
	old := sess.sub
	sess.sub = sub
	sess.subMu.Unlock()

	if old != nil {
		old.Close()
	}

	go that.pumpEvents(sess, sub)
}

// pumpEvents - forwards engine events to the client until the subscription
// closes. This is how a delayed bot move reaches the board.
func (that *Server) pumpEvents(sess *session, sub *events.Subscription) {
	log := that.logger.With("method", "pumpEvents")

	for event := range sub.Events() {
		payload, err := json.Marshal(event)
		if err != nil {
			log.Error("failed to marshal event", "error", err)
			continue
		}

		message := Message{Action: "game:event", Payload: payload}
		if err = that.writeMessage(sess, &message); err != nil {
			log.Error("failed to push event", "error", err)
			sub.Close()
			return
		}
	}
}

func (that *session) detach() {
	that.subMu.Lock()
	defer that.subMu.Unlock()

	if that.sub != nil {
		that.sub.Close()
		that.sub = nil
	}
}
