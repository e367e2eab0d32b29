package controller

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"skintech-consultant-be/internal/dto"
	"skintech-consultant-be/internal/pkg/logger"
	"skintech-consultant-be/internal/pkg/serverutils"
	"skintech-consultant-be/internal/service"
	"skintech-consultant-be/pkg/rag/chat"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// maxFrameSize bounds one inbound websocket frame; it covers the largest valid ChatRequest.
const maxFrameSize = 16 * 1024

type IChatController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	Stream(ctx *fiber.Ctx) error
	ServeWs(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
	logger  logger.ILogger
}

func NewChatController(service service.IChatService, logger logger.ILogger) IChatController {
	return &chatController{service: service, logger: logger}
}

func (c *chatController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/chat")
	h.Use(auth)
	h.Post("", c.Stream)
	h.Get("/ws", c.ServeWs)
}

// writeFrame writes one server-sent event and flushes it to the client.
func writeFrame(w *bufio.Writer, event chat.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		return err
	}
	return w.Flush()
}

// Stream answers with text/event-stream frames of the form `data: {json}`.
func (c *chatController) Stream(ctx *fiber.Ctx) error {
	userID, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	ctx.Set("Content-Type", "text/event-stream")
	ctx.Set("Cache-Control", "no-cache")
	ctx.Set("Connection", "keep-alive")
	ctx.Set("X-Accel-Buffering", "no")

	// The fiber ctx is recycled once the handler returns; keep what the stream needs.
	parent := context.WithoutCancel(ctx.UserContext())

	ctx.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		streamCtx, cancel := context.WithCancel(parent)
		defer cancel()

		emit := func(event chat.Event) error {
			if err := writeFrame(w, event); err != nil {
				cancel()
				return err
			}
			return nil
		}

		if err := c.service.Chat(streamCtx, userID, &req, emit); err != nil {
			c.logger.Debug("CHAT", "Turn ended with error", map[string]interface{}{
				"user_id": userID.String(),
				"error":   err.Error(),
			})
		}
	})
	return nil
}

// ServeWs runs turns over a websocket. Each inbound frame is a ChatRequest;
// outbound frames are the same events the SSE endpoint emits.
func (c *chatController) ServeWs(ctx *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(ctx) {
		return fiber.ErrUpgradeRequired
	}
	userID, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	parent := context.WithoutCancel(ctx.UserContext())

	return websocket.New(func(conn *websocket.Conn) {
		c.logger.Info("CHAT", "WebSocket session started", map[string]interface{}{"user_id": userID.String()})
		defer c.logger.Info("CHAT", "WebSocket session ended", map[string]interface{}{"user_id": userID.String()})
		conn.SetReadLimit(maxFrameSize)

		for {
			var req dto.ChatRequest
			if err := conn.ReadJSON(&req); err != nil {
				return
			}
			if err := serverutils.ValidateRequest(req); err != nil {
				if conn.WriteJSON(chat.Event{Error: err.Error()}) != nil {
					return
				}
				continue
			}
			if !c.runTurn(parent, conn, userID, &req) {
				return
			}
		}
	})(ctx)
}

// runTurn reports false when the socket is gone.
func (c *chatController) runTurn(parent context.Context, conn *websocket.Conn, userID uuid.UUID, req *dto.ChatRequest) bool {
	turnCtx, cancel := context.WithCancel(parent)
	defer cancel()

	alive := true
	emit := func(event chat.Event) error {
		if err := conn.WriteJSON(event); err != nil {
			alive = false
			cancel()
			return err
		}
		return nil
	}

	if err := c.service.Chat(turnCtx, userID, req, emit); err != nil {
		c.logger.Debug("CHAT", "Turn ended with error", map[string]interface{}{
			"user_id": userID.String(),
			"error":   err.Error(),
		})
	}
	return alive
}
