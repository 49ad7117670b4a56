package models

import "time"

type DeliveryStatus string

const (
	DeliveryPending    DeliveryStatus = "pending"
	DeliveryInProgress DeliveryStatus = "in_progress"
	DeliveryDelivered  DeliveryStatus = "delivered"
)

// Delivery is one drop-off task for a driver. Status is stored as a free
// string: the update endpoint accepts any value verbatim, matching the
// original API contract. The constants above cover the server-assigned
// default and the active-customer filter only.
type Delivery struct {
	ID            string    `json:"id"`
	DriverID      string    `json:"driver_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerPhone string    `json:"customer_phone"`
	Address       string    `json:"address"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	OrderDetails  string    `json:"order_details"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// ActiveCustomer is one distinct customer with at least one pending or
// in-progress delivery for a driver. Representative fields come from the
// qualifying delivery with the lexicographically smallest ID, which for
// ULIDs is the oldest one.
type ActiveCustomer struct {
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	LatestOrder   string `json:"latest_order"`
	DeliveryID    string `json:"delivery_id"`
}
