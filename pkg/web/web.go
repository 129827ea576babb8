// Package web serves the chat page and its JSON API.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	loggerpkg "github.com/ryan-griego/career-chatbot-go/pkg/logger"
)

// maxRequestBytes caps chat request bodies.
const maxRequestBytes = 64 << 10

// ChatService is the conversation surface the web handler drives.
type ChatService interface {
	Reply(ctx context.Context, sessionID, input string) (string, error)
	Reset(sessionID string)
}

// Handler serves the chat UI.
type Handler struct {
	chat   ChatService
	name   string
	page   *template.Template
	logger loggerpkg.Logger
}

// NewHandler builds a Handler for the persona called name.
func NewHandler(chat ChatService, name string, logger loggerpkg.Logger) *Handler {
	if logger == nil {
		logger = loggerpkg.NopLogger{}
	}
	return &Handler{
		chat:   chat,
		name:   name,
		page:   template.Must(template.ParseFS(TemplateFS, "templates/index.html")),
		logger: logger,
	}
}

// Routes returns the router with every endpoint and middleware attached.
func (h *Handler) Routes() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	router.Get("/", h.index)
	router.Get("/healthz", h.health)
	router.Route("/api", func(r chi.Router) {
		r.Post("/chat", h.sendMessage)
		r.Post("/reset", h.reset)
	})

	return router
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type chatResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
	HTML      string `json:"html"`
}

type resetRequest struct {
	SessionID string `json:"session_id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := struct{ Name string }{Name: h.name}
	if err := h.page.Execute(w, data); err != nil {
		loggerpkg.Error(loggerpkg.FromContext(r.Context()), "render page failed", map[string]any{
			"error": err.Error(),
		})
	}
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) sendMessage(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "message is required"})
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	reply, err := h.chat.Reply(r.Context(), req.SessionID, req.Message)
	if err != nil {
		loggerpkg.Error(loggerpkg.FromContext(r.Context()), "chat reply failed", map[string]any{
			"session_id": req.SessionID,
			"error":      err.Error(),
		})
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "the assistant is unavailable right now, please try again"})
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		SessionID: req.SessionID,
		Reply:     reply,
		HTML:      RenderMarkdown(reply),
	})
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if req.SessionID != "" {
		h.chat.Reset(req.SessionID)
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errors.New("request body too large")
		}
		return errors.New("invalid JSON body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
