package storage

import (
	"context"
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"github.com/driverhub/driverhub/internal/models"
)

type SQLiteStorage struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return &SQLiteStorage{db: db}, nil
}

func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS deliveries (
			id TEXT PRIMARY KEY,
			driver_id TEXT NOT NULL,
			customer_name TEXT NOT NULL,
			customer_phone TEXT NOT NULL,
			address TEXT NOT NULL,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL,
			order_details TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id TEXT PRIMARY KEY,
			driver_id TEXT NOT NULL,
			customer_name TEXT NOT NULL,
			text TEXT NOT NULL,
			sender TEXT NOT NULL,
			timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_deliveries_driver ON deliveries(driver_id)`,
		`CREATE INDEX IF NOT EXISTS idx_deliveries_driver_status ON deliveries(driver_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_driver ON messages(driver_id)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(driver_id, customer_name)`,
	}

	for _, q := range queries {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// --- Deliveries ---

func (s *SQLiteStorage) CreateDelivery(ctx context.Context, d *models.Delivery) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO deliveries (id, driver_id, customer_name, customer_phone, address, latitude, longitude, order_details, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.DriverID, d.CustomerName, d.CustomerPhone, d.Address, d.Latitude, d.Longitude, d.OrderDetails, d.Status, d.CreatedAt,
	)
	return err
}

func (s *SQLiteStorage) ListDeliveriesByDriver(ctx context.Context, driverID string, limit int) ([]models.Delivery, error) {
	if limit <= 0 {
		limit = 1000
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, driver_id, customer_name, customer_phone, address, latitude, longitude, order_details, status, created_at
		 FROM deliveries WHERE driver_id = ? ORDER BY created_at DESC LIMIT ?`,
		driverID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deliveries []models.Delivery
	for rows.Next() {
		var d models.Delivery
		if err := rows.Scan(&d.ID, &d.DriverID, &d.CustomerName, &d.CustomerPhone, &d.Address, &d.Latitude, &d.Longitude, &d.OrderDetails, &d.Status, &d.CreatedAt); err != nil {
			return nil, err
		}
		deliveries = append(deliveries, d)
	}
	return deliveries, rows.Err()
}

// UpdateDeliveryStatus stores the status verbatim. An unknown ID is a no-op,
// not an error: the UPDATE matches zero rows and the caller still sees
// success.
func (s *SQLiteStorage) UpdateDeliveryStatus(ctx context.Context, id, status string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE deliveries SET status = ? WHERE id = ?`,
		status, id,
	)
	return err
}

// ActiveCustomers groups a driver's pending and in-progress deliveries by
// customer name. Each customer appears once; the representative record is
// the qualifying delivery with the smallest ID, so the result is
// deterministic regardless of scan order.
func (s *SQLiteStorage) ActiveCustomers(ctx context.Context, driverID string) ([]models.ActiveCustomer, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT d.customer_name, d.customer_phone, d.order_details, d.id
		 FROM deliveries d
		 JOIN (
			SELECT MIN(id) AS id FROM deliveries
			WHERE driver_id = ? AND status IN (?, ?)
			GROUP BY customer_name
		 ) pick ON pick.id = d.id
		 ORDER BY d.customer_name`,
		driverID, models.DeliveryPending, models.DeliveryInProgress)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []models.ActiveCustomer
	for rows.Next() {
		var c models.ActiveCustomer
		if err := rows.Scan(&c.CustomerName, &c.CustomerPhone, &c.LatestOrder, &c.DeliveryID); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// --- Messages ---

func (s *SQLiteStorage) CreateMessage(ctx context.Context, m *models.Message) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (id, driver_id, customer_name, text, sender, timestamp) VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID, m.DriverID, m.CustomerName, m.Text, m.Sender, m.Timestamp,
	)
	return err
}

func (s *SQLiteStorage) ListMessagesByDriver(ctx context.Context, driverID string, limit int) ([]models.Message, error) {
	if limit <= 0 {
		limit = 1000
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, driver_id, customer_name, text, sender, timestamp
		 FROM messages WHERE driver_id = ? ORDER BY timestamp ASC LIMIT ?`,
		driverID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessages(rows)
}

func (s *SQLiteStorage) ListConversation(ctx context.Context, driverID, customerName string, limit int) ([]models.Message, error) {
	if limit <= 0 {
		limit = 1000
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, driver_id, customer_name, text, sender, timestamp
		 FROM messages WHERE driver_id = ? AND customer_name = ? ORDER BY timestamp ASC LIMIT ?`,
		driverID, customerName, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessages(rows)
}

func scanMessages(rows *sql.Rows) ([]models.Message, error) {
	var msgs []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.DriverID, &m.CustomerName, &m.Text, &m.Sender, &m.Timestamp); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// --- Stats ---

func (s *SQLiteStorage) GetDriverStats(ctx context.Context, driverID string) (*DriverStats, error) {
	stats := &DriverStats{}

	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM deliveries WHERE driver_id = ?`, driverID).Scan(&stats.TotalDeliveries)
	s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM deliveries WHERE driver_id = ? AND status = ?`, driverID, models.DeliveryPending).Scan(&stats.PendingCount)
	s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM deliveries WHERE driver_id = ? AND status = ?`, driverID, models.DeliveryInProgress).Scan(&stats.InProgressCount)
	s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM deliveries WHERE driver_id = ? AND status = ?`, driverID, models.DeliveryDelivered).Scan(&stats.DeliveredCount)
	s.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT customer_name) FROM deliveries WHERE driver_id = ? AND status IN (?, ?)`,
		driverID, models.DeliveryPending, models.DeliveryInProgress).Scan(&stats.ActiveCustomers)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages WHERE driver_id = ?`, driverID).Scan(&stats.TotalMessages)

	return stats, nil
}
