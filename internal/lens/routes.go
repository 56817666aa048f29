package lens

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/lexziconAI/eco-dairy-bot/internal/response"
)

// RegisterRoutes mounts the lens API routes. The conversation routes are
// only mounted when the engine has a store.
func RegisterRoutes(r chi.Router, engine *Engine) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/lens", handleLens(engine))
		r.Post("/analyze", handleAnalyze(engine))

		if engine.store == nil {
			return
		}
		r.Get("/stats", handleStats(engine))
		r.Route("/conversations", func(r chi.Router) {
			r.Get("/", handleListConversations(engine))
			r.Post("/", handleCreateConversation(engine))
			r.Get("/{id}", handleGetConversation(engine))
			r.Post("/{id}/turns", handleAddTurn(engine))
			r.Post("/{id}/analyze", handleAnalyzeConversation(engine))
			r.Get("/{id}/analyses", handleListAnalyses(engine))
			r.Get("/{id}/reply", handleReply(engine))
		})
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// statusFor maps pipeline errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrNoUserTurn), errors.Is(err, ErrOutOfOrder):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrNoProvider):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrInvalidRole):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

func handleLens(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var conv Conversation
		if err := json.NewDecoder(r.Body).Decode(&conv); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		l, err := engine.Lens(conv)
		if err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, l)
	}
}

func handleAnalyze(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var conv Conversation
		if err := json.NewDecoder(r.Body).Decode(&conv); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		res, err := engine.Analyze(r.Context(), conv)
		if err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func handleListConversations(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 50
		if l := r.URL.Query().Get("limit"); l != "" {
			if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
				limit = parsed
			}
		}
		convs, err := engine.store.ListConversations(r.Context(), limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if convs == nil {
			convs = []Conversation{}
		}
		writeJSON(w, http.StatusOK, convs)
	}
}

// statsResponse is the JSON response for the stats endpoint.
type statsResponse struct {
	TotalConversations int            `json:"total_conversations"`
	Recent             []Conversation `json:"recent"`
}

func handleStats(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		total, err := engine.store.CountConversations(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		recent, err := engine.store.ListConversations(r.Context(), 5)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if recent == nil {
			recent = []Conversation{}
		}
		writeJSON(w, http.StatusOK, statsResponse{TotalConversations: total, Recent: recent})
	}
}

type createConversationRequest struct {
	Title string `json:"title"`
}

func handleCreateConversation(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createConversationRequest
		// An empty body creates an untitled conversation.
		_ = json.NewDecoder(r.Body).Decode(&req)

		conv, err := engine.store.CreateConversation(r.Context(), req.Title)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, conv)
	}
}

// loadConversation writes a 404 or 500 and returns nil when the
// conversation in the URL cannot be loaded.
func loadConversation(engine *Engine, w http.ResponseWriter, r *http.Request) *Conversation {
	conv, err := engine.store.GetConversation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil
	}
	if conv == nil {
		writeError(w, http.StatusNotFound, "conversation not found")
		return nil
	}
	return conv
}

func handleGetConversation(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if conv := loadConversation(engine, w, r); conv != nil {
			writeJSON(w, http.StatusOK, conv)
		}
	}
}

func handleAddTurn(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var t Turn
		if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if strings.TrimSpace(t.Text) == "" {
			writeError(w, http.StatusBadRequest, "text is required")
			return
		}
		conv := loadConversation(engine, w, r)
		if conv == nil {
			return
		}

		saved, err := engine.store.AddTurn(r.Context(), conv.ID, t)
		if err != nil {
			status := http.StatusInternalServerError
			switch {
			case errors.Is(err, ErrInvalidRole):
				status = http.StatusBadRequest
			case errors.Is(err, ErrOutOfOrder):
				status = http.StatusUnprocessableEntity
			}
			writeError(w, status, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, saved)
	}
}

func handleAnalyzeConversation(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conv := loadConversation(engine, w, r)
		if conv == nil {
			return
		}

		var (
			kind   string
			l      *Lens
			result any
		)
		if offline, _ := strconv.ParseBool(r.URL.Query().Get("offline")); offline {
			got, err := engine.Lens(*conv)
			if err != nil {
				writeError(w, statusFor(err), err.Error())
				return
			}
			kind, l, result = KindLens, got, got
		} else {
			res, err := engine.Analyze(r.Context(), *conv)
			if err != nil {
				writeError(w, statusFor(err), err.Error())
				return
			}
			kind, l, result = KindLLM, &res.Lens, res
		}

		if _, err := engine.store.SaveAnalysis(r.Context(), conv.ID, kind, len(conv.Turns), l, result); err != nil {
			// The caller still gets the analysis.
			engine.logger.Error("saving analysis", zap.String("conversation_id", conv.ID), zap.Error(err))
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func handleListAnalyses(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conv := loadConversation(engine, w, r)
		if conv == nil {
			return
		}
		analyses, err := engine.store.ListAnalyses(r.Context(), conv.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if analyses == nil {
			analyses = []SavedAnalysis{}
		}
		writeJSON(w, http.StatusOK, analyses)
	}
}

// handleReply serves the templated reply as HTML when asked for it via
// ?format=html or an Accept header, and as JSON otherwise.
func handleReply(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conv := loadConversation(engine, w, r)
		if conv == nil {
			return
		}
		l, err := engine.Lens(*conv)
		if err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}

		if r.URL.Query().Get("format") == "html" || strings.Contains(r.Header.Get("Accept"), "text/html") {
			html, err := response.RenderHTML(l.Reply)
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write([]byte(html))
			return
		}
		writeJSON(w, http.StatusOK, l.Reply)
	}
}
