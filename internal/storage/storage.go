package storage

import (
	"context"

	"github.com/driverhub/driverhub/internal/models"
)

type Storage interface {
	// Deliveries
	CreateDelivery(ctx context.Context, d *models.Delivery) error
	ListDeliveriesByDriver(ctx context.Context, driverID string, limit int) ([]models.Delivery, error)
	UpdateDeliveryStatus(ctx context.Context, id, status string) error
	ActiveCustomers(ctx context.Context, driverID string) ([]models.ActiveCustomer, error)

	// Messages
	CreateMessage(ctx context.Context, m *models.Message) error
	ListMessagesByDriver(ctx context.Context, driverID string, limit int) ([]models.Message, error)
	ListConversation(ctx context.Context, driverID, customerName string, limit int) ([]models.Message, error)

	// Stats
	GetDriverStats(ctx context.Context, driverID string) (*DriverStats, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

type DriverStats struct {
	TotalDeliveries int64 `json:"total_deliveries"`
	PendingCount    int64 `json:"pending_count"`
	InProgressCount int64 `json:"in_progress_count"`
	DeliveredCount  int64 `json:"delivered_count"`
	ActiveCustomers int64 `json:"active_customers"`
	TotalMessages   int64 `json:"total_messages"`
}
