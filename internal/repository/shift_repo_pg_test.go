package repository

import (
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
)

func TestNewShiftRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewShiftRepository(pool)
	assert.NotNil(t, repo)
}
