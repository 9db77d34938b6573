package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/stemsi/ailit-assessment/internal/middleware"
	"github.com/stemsi/ailit-assessment/internal/response"
	"github.com/stemsi/ailit-assessment/internal/service"
	"github.com/stemsi/ailit-assessment/internal/session"
	ws "github.com/stemsi/ailit-assessment/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler handles realtime answering over WebSocket.
type WSHandler struct {
	runService *service.RunService
	log        zerolog.Logger
	upgrader   websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(runService *service.RunService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		runService: runService,
		log:        log.With().Str("component", "ws_handler").Logger(),
		upgrader:   buildUpgrader(allowedOrigins),
	}
}

// RunStream godoc
// WS /ws/v1/runs/me/stream?token=...
// Accepts open, answer, next, prev, exit and ping actions for the token's run.
func (h *WSHandler) RunStream(c *gin.Context) {
	runID := middleware.GetRunID(c)
	if runID == "" {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	// The run must exist before we hold a connection open for it.
	if _, err := h.runService.View(c.Request.Context(), runID); err != nil {
		failWithError(c, h.log, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Str("run_id", runID).Logger()
	wsLog.Info().Msg("Participant connected")

	ctx := c.Request.Context()
	for {
		var msg ws.RequestPayload
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			return
		}

		if err := h.dispatch(ctx, conn, runID, &msg); err != nil {
			wsLog.Debug().Err(err).Msg("Write failed, closing")
			return
		}
	}
}

// dispatch runs one action and writes its reply. Only write errors are returned.
func (h *WSHandler) dispatch(ctx context.Context, conn *websocket.Conn, runID string, msg *ws.RequestPayload) error {
	var (
		pos session.Position
		err error
	)

	switch msg.Action {
	case ws.ActionPing:
		return ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
	case ws.ActionOpen:
		pos, err = h.runService.Open(ctx, runID, msg.DimensionID)
	case ws.ActionAnswer:
		if msg.QuestionID == "" || msg.Value == nil {
			return ws.WriteError(conn, string(response.ErrValidation), "question_id and value are required")
		}
		pos, err = h.runService.Answer(ctx, runID, msg.DimensionID, msg.QuestionID, *msg.Value)
	case ws.ActionNext:
		pos, err = h.runService.Next(ctx, runID, msg.DimensionID)
	case ws.ActionPrev:
		pos, err = h.runService.Prev(ctx, runID, msg.DimensionID)
	case ws.ActionExit:
		pos, err = h.runService.Exit(ctx, runID, msg.DimensionID)
	default:
		h.log.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
		return ws.WriteError(conn, string(response.ErrInvalidPayload), "unknown action: "+string(msg.Action))
	}

	if err != nil {
		m := mapError(err)
		if m.Status >= http.StatusInternalServerError {
			h.log.Error().Err(err).Str("run_id", runID).Str("action", string(msg.Action)).Msg("Action failed")
		}
		return ws.WriteError(conn, string(m.Code), response.GetMessage(m.Code))
	}

	return ws.WriteTyped(conn, ws.PositionResponse{
		Event:    ws.EventPosition,
		Action:   msg.Action,
		Position: pos,
	})
}
