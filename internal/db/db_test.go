package db

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatgridhq/chatgrid/internal/config"
)

func TestDSN(t *testing.T) {
	t.Parallel()

	cfg := config.PostgresConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "grid",
		Password: "pw",
		Database: "chatgrid",
		SSLMode:  "disable",
	}
	assert.Equal(t, "postgres://grid:pw@db.internal:5433/chatgrid?sslmode=disable", DSN(cfg))
}

func TestParseUUID(t *testing.T) {
	t.Parallel()

	id, err := ParseUUID("99999999-9999-9999-9999-999999999999")
	require.NoError(t, err)
	assert.True(t, id.Valid)

	_, err = ParseUUID("not-a-uuid")
	require.Error(t, err)
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("plain")))
	assert.False(t, IsUniqueViolation(nil))
}

func TestNullableHelpers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", TextToString(pgtype.Text{}))
	assert.Equal(t, "x", TextToString(pgtype.Text{String: "x", Valid: true}))

	now := time.Now()
	assert.True(t, TimeFromPg(pgtype.Timestamptz{}).IsZero())
	assert.Equal(t, now, TimeFromPg(pgtype.Timestamptz{Time: now, Valid: true}))

	assert.Nil(t, TimePtrFromPg(pgtype.Timestamptz{}))
	got := TimePtrFromPg(pgtype.Timestamptz{Time: now, Valid: true})
	require.NotNil(t, got)
	assert.Equal(t, now, *got)
}
