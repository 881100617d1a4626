package server

import (
	"errors"
	"io"
	"net/http"
	"time"

	apperrors "github.com/Digital-Creators-Team/stakes-engine/errors"
	"github.com/Digital-Creators-Team/stakes-engine/game"
	"github.com/Digital-Creators-Team/stakes-engine/logging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Socket message types
const (
	MessageTypeConnected = "connected"
	MessageTypeResult    = "result"
	MessageTypeError     = "error"
)

// SocketMessage is one frame sent to a chat socket
type SocketMessage struct {
	Type      string       `json:"type"`
	Timestamp int64        `json:"timestamp"`
	TraceID   string       `json:"traceId,omitempty"`
	Command   string       `json:"command,omitempty"`
	Result    *game.Result `json:"result,omitempty"`
	Error     string       `json:"error,omitempty"`
}

// SocketHandler runs a line-in, result-out chat session over WebSocket.
// Each text frame is one command line for the session user.
type SocketHandler struct {
	app           *App
	logger        zerolog.Logger
	pingPeriod    time.Duration
	readTimeout   time.Duration
	writeDeadline time.Duration
	upgrader      websocket.Upgrader
}

// NewSocketHandler creates a socket handler
func NewSocketHandler(app *App) *SocketHandler {
	return &SocketHandler{
		app:           app,
		logger:        app.logger.With().Str("handler", "socket").Logger(),
		pingPeriod:    30 * time.Second,
		readTimeout:   10 * time.Minute,
		writeDeadline: 10 * time.Second,
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Serve upgrades the request and executes commands until the peer disconnects.
// Route: GET /api/commands/ws?username=alice
func (h *SocketHandler) Serve(c *gin.Context) {
	cc := game.MustFromContext(c.Request.Context())

	// reject unknown users before upgrading so they get a normal HTTP error
	if _, err := h.app.dispatcher.Account(cc.Username); err != nil {
		HandleAppError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		cc.Logger.Error().Err(err).Msg("Failed to upgrade to WebSocket")
		return
	}
	defer conn.Close() //nolint:errcheck

	sender := &socketSender{conn: conn, writeDeadline: h.writeDeadline}
	done := make(chan struct{})
	defer close(done)

	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(h.readTimeout))
	})
	go h.keepAlive(sender, done)

	if err := sender.Send(&SocketMessage{Type: MessageTypeConnected, TraceID: cc.TraceID}); err != nil {
		return
	}
	cc.Logger.Info().Msg("Chat socket opened")

	for {
		conn.SetReadDeadline(time.Now().Add(h.readTimeout)) //nolint:errcheck
		msgType, payload, err := conn.ReadMessage()
		if err != nil {
			h.logClose(cc.Logger, err)
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		msg := h.execute(c, cc, string(payload))
		if err := sender.Send(msg); err != nil {
			cc.Logger.Warn().Err(err).Msg("Failed to write command result")
			return
		}
	}
}

func (h *SocketHandler) execute(c *gin.Context, parent *game.CommandContext, line string) *SocketMessage {
	// every frame is its own command with its own trace id
	traceID := uuid.New().String()
	logger := logging.WithTraceID(parent.Logger, traceID)
	cc := game.NewCommandContext(logger, traceID, parent.Username, game.SourceWebSocket)
	ctx := game.WithContext(c.Request.Context(), cc)

	msg := &SocketMessage{TraceID: traceID, Command: line}
	result, err := h.app.dispatcher.Execute(ctx, parent.Username, line)
	switch {
	case err == nil:
		msg.Type = MessageTypeResult
		msg.Result = &result
	case apperrors.HasCode(err, apperrors.ErrStoreError):
		// the command ran; only the save failed
		msg.Type = MessageTypeResult
		msg.Result = &result
		msg.Error = "state could not be saved"
	default:
		msg.Type = MessageTypeError
		var appErr *apperrors.AppError
		if apperrors.As(err, &appErr) {
			msg.Error = appErr.Message
		} else {
			msg.Error = err.Error()
		}
	}
	return msg
}

func (h *SocketHandler) keepAlive(sender *socketSender, done <-chan struct{}) {
	ticker := time.NewTicker(h.pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := sender.Ping(); err != nil {
				h.logger.Debug().Err(err).Msg("Failed to send ping")
				return
			}
		}
	}
}

func (h *SocketHandler) logClose(logger zerolog.Logger, err error) {
	if !websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		logger.Debug().Err(err).Msg("Chat socket closed")
		return
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		logger.Warn().Err(err).Msg("Chat socket closed unexpectedly (EOF)")
		return
	}
	logger.Warn().Err(err).Msg("Chat socket closed unexpectedly")
}
