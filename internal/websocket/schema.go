package websocket

import "github.com/stemsi/ailit-assessment/internal/session"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionOpen   Action = "open"
	ActionAnswer Action = "answer"
	ActionNext   Action = "next"
	ActionPrev   Action = "prev"
	ActionExit   Action = "exit"
	ActionPing   Action = "ping"
)

// RequestPayload carries every run action; fields unused by an action are ignored.
type RequestPayload struct {
	Action      Action `json:"action"`
	DimensionID string `json:"dimension_id"`
	QuestionID  string `json:"question_id,omitempty"`
	Value       *int   `json:"value,omitempty"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError    Event = "error"
	EventPosition Event = "position"
	EventPong     Event = "pong"
)

// PositionResponse reports the cursor after a successful action.
type PositionResponse struct {
	Event    Event            `json:"event"`
	Action   Action           `json:"action"`
	Position session.Position `json:"position"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Code  string `json:"code,omitempty"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
