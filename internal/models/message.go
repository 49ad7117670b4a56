package models

import "time"

const (
	SenderDriver   = "driver"
	SenderCustomer = "customer"
)

// Message is one chat message between a driver and a named customer.
// Sender is "driver" or "customer" by convention but is not validated
// beyond presence.
type Message struct {
	ID           string    `json:"id"`
	DriverID     string    `json:"driver_id"`
	CustomerName string    `json:"customer_name"`
	Text         string    `json:"text"`
	Sender       string    `json:"sender"`
	Timestamp    time.Time `json:"timestamp"`
}
