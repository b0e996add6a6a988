package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"

	"github.com/empathia-lab/therabot/pkg/domain/types"
	"github.com/empathia-lab/therabot/pkg/usecase"
	"github.com/empathia-lab/therabot/pkg/utils/errutil"
	"github.com/empathia-lab/therabot/pkg/utils/logging"
)

// Identity headers. The chat API has no account system; callers identify
// themselves per request, and absent headers fall back to an anonymous user.
const (
	headerUserID      = "X-Therabot-User"
	headerDisplayName = "X-Therabot-Name"

	anonymousUserID = "anonymous"
	defaultHistory  = 20
)

type Server struct {
	router *chi.Mux
	chat   *usecase.ChatUseCase
}

func New(chat *usecase.ChatUseCase) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		chat:   chat,
	}

	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", s.handleChat)
		r.Get("/greeting", s.handleGreeting)
		r.Get("/history", s.handleHistory)
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	BotReply string `json:"bot_reply"`
	Tone     string `json:"tone"`
	Distress bool   `json:"distress"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	userID, displayName := identity(r)

	reply, err := s.chat.HandleMessage(ctx, userID, displayName, req.Message)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, usecase.ErrEmptyInput) {
			status = http.StatusBadRequest
		}
		errutil.HandleHTTP(ctx, w, err, status)
		return
	}

	respondJSON(ctx, w, http.StatusOK, chatResponse{
		BotReply: reply.Text,
		Tone:     reply.Tone.String(),
		Distress: reply.Distress,
	})
}

func (s *Server) handleGreeting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, displayName := identity(r)

	reply, err := s.chat.Greeting(ctx, userID, displayName)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
		return
	}

	respondJSON(ctx, w, http.StatusOK, chatResponse{
		BotReply: reply.Text,
		Tone:     reply.Tone.String(),
		Distress: reply.Distress,
	})
}

type historyTurn struct {
	ID        string  `json:"id"`
	Sender    string  `json:"sender"`
	Message   string  `json:"message"`
	Tone      *string `json:"tone,omitempty"`
	CreatedAt string  `json:"created_at"`
}

type historyResponse struct {
	Turns []historyTurn `json:"turns"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := identity(r)

	limit := defaultHistory
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			errutil.HandleHTTP(ctx, w, goerr.New("limit must be a positive integer", goerr.V("limit", raw)), http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	turns, err := s.chat.RecentTurns(ctx, userID, limit)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
		return
	}

	resp := historyResponse{Turns: make([]historyTurn, len(turns))}
	for i, turn := range turns {
		resp.Turns[i] = historyTurn{
			ID:        string(turn.ID),
			Sender:    turn.Sender.String(),
			Message:   turn.Message,
			CreatedAt: turn.CreatedAt.Format(time.RFC3339Nano),
		}
		if turn.Tone != nil {
			tone := turn.Tone.String()
			resp.Turns[i].Tone = &tone
		}
	}

	respondJSON(ctx, w, http.StatusOK, resp)
}

func identity(r *http.Request) (types.UserID, string) {
	userID := strings.TrimSpace(r.Header.Get(headerUserID))
	if userID == "" {
		userID = anonymousUserID
	}
	return types.UserID(userID), strings.TrimSpace(r.Header.Get(headerDisplayName))
}

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.From(ctx).Error("failed to encode response", "error", err.Error())
	}
}
