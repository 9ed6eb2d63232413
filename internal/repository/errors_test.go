package repository

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	assert.ErrorIs(t, mapError(pgx.ErrNoRows), ErrNotFound)
	assert.ErrorIs(t, mapError(&pgconn.PgError{Code: "23505"}), ErrDuplicate)

	other := errors.New("boom")
	assert.Same(t, other, mapError(other))
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"deadline", fmt.Errorf("create proposal: %w", context.DeadlineExceeded), true},
		{"cancelled", context.Canceled, true},
		{"connection failure", &pgconn.PgError{Code: "08006", Message: "connection failure"}, true},
		{"admin shutdown", &pgconn.PgError{Code: "57P01", Message: "terminating connection"}, true},
		{"deadlock", &pgconn.PgError{Code: "40P01", Message: "deadlock detected"}, true},
		{"network", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, true},
		{"value too long", fmt.Errorf("create proposal: %w", &pgconn.PgError{Code: "22001", Message: "value too long for type character varying(255)"}), false},
		{"check violation", &pgconn.PgError{Code: "23514", Message: "violates check constraint"}, false},
		{"unique violation", ErrDuplicate, false},
		{"plain error", errors.New("value too long for type character varying(255)"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}
