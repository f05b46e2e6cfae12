package health

import (
	"context"
	"time"
)

const pingTimeout = 2 * time.Second

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Service encapsulates health-related checks.
type Service struct {
	DB  Pinger
	LLM bool
}

// Status is the /health payload.
type Status struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	LLM      string `json:"llm"`
}

// NewService constructs a new health service. A nil db reports in-memory storage.
func NewService(db Pinger, llmAvailable bool) *Service {
	return &Service{DB: db, LLM: llmAvailable}
}

// Check reports "ok" unless the database is configured and unreachable.
func (s *Service) Check(ctx context.Context) Status {
	st := Status{Status: "ok", Database: "memory", LLM: "unavailable"}
	if s == nil {
		return st
	}
	if s.LLM {
		st.LLM = "available"
	}
	if s.DB != nil {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := s.DB.PingContext(pingCtx); err != nil {
			st.Status = "degraded"
			st.Database = "down"
		} else {
			st.Database = "up"
		}
	}
	return st
}
