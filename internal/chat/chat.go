// Package chat serves the farmer conversation over a WebSocket. Each message
// is stored as a user turn, run through the lens pipeline and answered with
// a stored bot turn.
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/lexziconAI/eco-dairy-bot/internal/lens"
)

// Message types.
const (
	TypeMessage  = "message"
	TypeResponse = "response"
	TypeError    = "error"
)

// ErrConversationNotFound is returned for an unknown conversation id.
var ErrConversationNotFound = errors.New("conversation not found")

// TurnError reports a failure after the user turn was stored. The turn stays
// in the conversation unanswered.
type TurnError struct {
	ConversationID string
	Err            error
}

func (e *TurnError) Error() string { return e.Err.Error() }

func (e *TurnError) Unwrap() error { return e.Err }

const defaultTurnTimeout = 2 * time.Minute

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Request is the incoming WebSocket message format.
type Request struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversation_id"` // empty starts a new conversation
	Content        string `json:"content"`
}

// Response is the outgoing WebSocket message format.
type Response struct {
	Type           string          `json:"type"`
	ConversationID string          `json:"conversation_id"`
	Content        string          `json:"content"`
	Orientation    string          `json:"orientation,omitempty"`
	NextQuestion   string          `json:"next_question,omitempty"`
	Lenses         json.RawMessage `json:"lenses,omitempty"`
	Offline        bool            `json:"offline,omitempty"`
}

// Handler answers chat messages.
type Handler struct {
	engine      *lens.Engine
	logger      *zap.Logger
	turnTimeout time.Duration
}

// NewHandler creates a chat handler. The engine must have a store.
func NewHandler(engine *lens.Engine, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{engine: engine, logger: logger, turnTimeout: defaultTurnTimeout}
}

// RegisterRoutes mounts the chat socket at /ws/chat when the engine has a
// store to keep conversations in.
func RegisterRoutes(r chi.Router, engine *lens.Engine, logger *zap.Logger) {
	if engine.Store() == nil {
		return
	}
	r.Get("/ws/chat", NewHandler(engine, logger).ServeHTTP)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade", zap.Error(err))
		return
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read", zap.Error(err))
			}
			return
		}

		var req Request
		if err := json.Unmarshal(msg, &req); err != nil {
			h.send(conn, errorResponse("", "invalid message format"))
			continue
		}
		if strings.TrimSpace(req.Content) == "" {
			h.send(conn, errorResponse(req.ConversationID, "content is required"))
			continue
		}
		if req.Type != TypeMessage {
			h.send(conn, errorResponse(req.ConversationID, "unknown message type: "+req.Type))
			continue
		}

		ctx, cancel := context.WithTimeout(r.Context(), h.turnTimeout)
		resp, err := h.Respond(ctx, req.ConversationID, req.Content)
		cancel()
		if err != nil {
			id := req.ConversationID
			var te *TurnError
			if errors.As(err, &te) {
				id = te.ConversationID
			}
			h.send(conn, errorResponse(id, err.Error()))
			continue
		}
		h.send(conn, *resp)
	}
}

// Respond stores content as a user turn, answers it and stores the answer
// as a bot turn. Without a model the templated reply is used. A model
// failure is returned as a *TurnError; the stored user turn is kept and is
// part of the transcript the next message is analyzed with.
func (h *Handler) Respond(ctx context.Context, conversationID, content string) (*Response, error) {
	store := h.engine.Store()

	if conversationID == "" {
		conv, err := store.CreateConversation(ctx, "chat")
		if err != nil {
			return nil, fmt.Errorf("failed to create conversation: %w", err)
		}
		conversationID = conv.ID
	} else {
		conv, err := store.GetConversation(ctx, conversationID)
		if err != nil {
			return nil, fmt.Errorf("failed to load conversation: %w", err)
		}
		if conv == nil {
			return nil, ErrConversationNotFound
		}
	}

	if _, err := store.AddTurn(ctx, conversationID, lens.Turn{Role: lens.RoleUser, Text: content}); err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}
	conv, err := store.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}

	resp, err := h.answer(ctx, conv)
	if err != nil {
		return nil, &TurnError{ConversationID: conversationID, Err: err}
	}
	return resp, nil
}

func (h *Handler) answer(ctx context.Context, conv *lens.Conversation) (*Response, error) {
	store := h.engine.Store()
	conversationID := conv.ID
	resp := Response{Type: TypeResponse, ConversationID: conversationID}
	var (
		kind   string
		l      *lens.Lens
		result any
	)
	res, err := h.engine.Analyze(ctx, *conv)
	switch {
	case errors.Is(err, lens.ErrNoProvider):
		l, err = h.engine.Lens(*conv)
		if err != nil {
			return nil, fmt.Errorf("processing failed: %w", err)
		}
		kind, result = lens.KindLens, l
		resp.Content = l.Reply.Full
		resp.Offline = true
	case err != nil:
		return nil, fmt.Errorf("processing failed: %w", err)
	default:
		kind, l, result = lens.KindLLM, &res.Lens, res
		resp.Content = res.Response
		resp.Lenses = res.Lenses
	}
	resp.Orientation = l.Metadata.Orientation
	resp.NextQuestion = l.Reply.NextQuestion

	if _, err := store.AddTurn(ctx, conversationID, lens.Turn{Role: lens.RoleBot, Text: resp.Content}); err != nil {
		return nil, fmt.Errorf("failed to store reply: %w", err)
	}
	if _, err := store.SaveAnalysis(ctx, conversationID, kind, len(conv.Turns), l, result); err != nil {
		h.logger.Error("saving analysis", zap.String("conversation_id", conversationID), zap.Error(err))
	}
	return &resp, nil
}

func errorResponse(conversationID, message string) Response {
	return Response{Type: TypeError, ConversationID: conversationID, Content: message}
}

func (h *Handler) send(conn *websocket.Conn, resp Response) {
	if err := conn.WriteJSON(resp); err != nil {
		h.logger.Warn("websocket write", zap.Error(err))
	}
}
