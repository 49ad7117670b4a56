package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/driverhub/driverhub/internal/models"
	"github.com/driverhub/driverhub/internal/storage"
)

type MessageHandler struct {
	store     storage.Storage
	listLimit int
}

func NewMessageHandler(store storage.Storage, listLimit int) *MessageHandler {
	return &MessageHandler{store: store, listLimit: listLimit}
}

type sendMessageRequest struct {
	DriverID     string `json:"driver_id"`
	CustomerName string `json:"customer_name"`
	Text         string `json:"text"`
	Sender       string `json:"sender"`
}

func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DriverID == "" {
		writeError(w, http.StatusBadRequest, "driver_id is required")
		return
	}
	if req.CustomerName == "" {
		writeError(w, http.StatusBadRequest, "customer_name is required")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	if req.Sender == "" {
		writeError(w, http.StatusBadRequest, "sender is required")
		return
	}

	m := &models.Message{
		ID:           models.NewID("msg"),
		DriverID:     req.DriverID,
		CustomerName: req.CustomerName,
		Text:         req.Text,
		Sender:       req.Sender,
		Timestamp:    time.Now().UTC(),
	}

	if err := h.store.CreateMessage(r.Context(), m); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create message")
		return
	}

	writeJSON(w, http.StatusCreated, m)
}

func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	driverID := chi.URLParam(r, "driverId")
	msgs, err := h.store.ListMessagesByDriver(r.Context(), driverID, h.listLimit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list messages")
		return
	}
	if msgs == nil {
		msgs = []models.Message{}
	}
	writeJSON(w, http.StatusOK, msgs)
}

// Conversation matches driver and customer name exactly, case-sensitive.
func (h *MessageHandler) Conversation(w http.ResponseWriter, r *http.Request) {
	driverID := chi.URLParam(r, "driverId")
	customerName := chi.URLParam(r, "customerName")
	msgs, err := h.store.ListConversation(r.Context(), driverID, customerName, h.listLimit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list conversation")
		return
	}
	if msgs == nil {
		msgs = []models.Message{}
	}
	writeJSON(w, http.StatusOK, msgs)
}
