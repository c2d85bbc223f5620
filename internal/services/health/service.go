package health

import (
	"context"
	"database/sql"
	"time"
)

const pingTimeout = 2 * time.Second

// Service encapsulates health-related checks.
type Service struct {
	DB *sql.DB
}

// NewService constructs a new health service. DB may be nil when running on
// in-memory storage.
func NewService(db *sql.DB) *Service {
	return &Service{DB: db}
}

// Status returns the health payload, including backing-store reachability.
func (s *Service) Status(ctx context.Context) map[string]any {
	database := "memory"
	if s.DB != nil {
		database = "connected"
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := s.DB.PingContext(pingCtx); err != nil {
			database = "unreachable"
		}
	}
	return map[string]any{
		"status":   "ok",
		"message":  "resume store is running",
		"database": database,
	}
}
