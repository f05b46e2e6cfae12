package health

import (
	"context"
	"errors"
	"testing"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestCheck(t *testing.T) {
	tests := []struct {
		name string
		svc  *Service
		want Status
	}{
		{"nil service", nil, Status{Status: "ok", Database: "memory", LLM: "unavailable"}},
		{"memory with llm", NewService(nil, true), Status{Status: "ok", Database: "memory", LLM: "available"}},
		{"db up", NewService(pingFunc(func(context.Context) error { return nil }), false), Status{Status: "ok", Database: "up", LLM: "unavailable"}},
		{"db down", NewService(pingFunc(func(context.Context) error { return errors.New("refused") }), true), Status{Status: "degraded", Database: "down", LLM: "available"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.svc.Check(context.Background()); got != tt.want {
				t.Fatalf("Check() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
