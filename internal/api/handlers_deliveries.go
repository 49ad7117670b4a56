package api

import (
	"encoding/json"
	"math"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/driverhub/driverhub/internal/models"
	"github.com/driverhub/driverhub/internal/storage"
)

type DeliveryHandler struct {
	store     storage.Storage
	listLimit int
}

func NewDeliveryHandler(store storage.Storage, listLimit int) *DeliveryHandler {
	return &DeliveryHandler{store: store, listLimit: listLimit}
}

type createDeliveryRequest struct {
	DriverID      string   `json:"driver_id"`
	CustomerName  string   `json:"customer_name"`
	CustomerPhone string   `json:"customer_phone"`
	Address       string   `json:"address"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	OrderDetails  string   `json:"order_details"`
}

const maxBodySize = 64 * 1024 // 64KB

func (h *DeliveryHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	var req createDeliveryRequest
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
	if req.CustomerPhone == "" {
		writeError(w, http.StatusBadRequest, "customer_phone is required")
		return
	}
	if req.Address == "" {
		writeError(w, http.StatusBadRequest, "address is required")
		return
	}
	if req.Latitude == nil || math.IsNaN(*req.Latitude) || math.IsInf(*req.Latitude, 0) {
		writeError(w, http.StatusBadRequest, "latitude is required")
		return
	}
	if req.Longitude == nil || math.IsNaN(*req.Longitude) || math.IsInf(*req.Longitude, 0) {
		writeError(w, http.StatusBadRequest, "longitude is required")
		return
	}
	if req.OrderDetails == "" {
		writeError(w, http.StatusBadRequest, "order_details is required")
		return
	}

	d := &models.Delivery{
		ID:            models.NewID("del"),
		DriverID:      req.DriverID,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Address:       req.Address,
		Latitude:      *req.Latitude,
		Longitude:     *req.Longitude,
		OrderDetails:  req.OrderDetails,
		Status:        string(models.DeliveryPending),
		CreatedAt:     time.Now().UTC(),
	}

	if err := h.store.CreateDelivery(r.Context(), d); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create delivery")
		return
	}

	writeJSON(w, http.StatusCreated, d)
}

func (h *DeliveryHandler) List(w http.ResponseWriter, r *http.Request) {
	driverID := chi.URLParam(r, "driverId")
	deliveries, err := h.store.ListDeliveriesByDriver(r.Context(), driverID, h.listLimit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list deliveries")
		return
	}
	if deliveries == nil {
		deliveries = []models.Delivery{}
	}
	writeJSON(w, http.StatusOK, deliveries)
}

// UpdateStatus stores the status query parameter verbatim. Values outside
// the pending/in_progress/delivered set are accepted, and an unknown
// delivery ID still reports success; both behaviors match the original
// API contract.
func (h *DeliveryHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "deliveryId")
	status := r.URL.Query().Get("status")
	if status == "" {
		writeError(w, http.StatusBadRequest, "status is required")
		return
	}

	if err := h.store.UpdateDeliveryStatus(r.Context(), id, status); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update status")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Status updated successfully"})
}

func (h *DeliveryHandler) ActiveCustomers(w http.ResponseWriter, r *http.Request) {
	driverID := chi.URLParam(r, "driverId")
	customers, err := h.store.ActiveCustomers(r.Context(), driverID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list active customers")
		return
	}
	if customers == nil {
		customers = []models.ActiveCustomer{}
	}
	writeJSON(w, http.StatusOK, customers)
}
