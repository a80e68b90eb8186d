package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestReconcileExpiry_ViewedPastExpiry(t *testing.T) {
	now := time.Now()
	viewed := now.Add(-49 * time.Hour)
	expires := viewed.Add(48 * time.Hour)

	quote := Quote{Status: QuoteStatusViewed, FirstViewedAt: &viewed, ExpiresAt: &expires}
	reconciled, changed := ReconcileExpiry(quote, now)

	assert.True(t, changed)
	assert.Equal(t, QuoteStatusExpired, reconciled.Status)
}

func TestReconcileExpiry_ViewedWithinWindow(t *testing.T) {
	now := time.Now()
	viewed := now.Add(-time.Hour)
	expires := viewed.Add(48 * time.Hour)

	quote := Quote{Status: QuoteStatusViewed, FirstViewedAt: &viewed, ExpiresAt: &expires}
	reconciled, changed := ReconcileExpiry(quote, now)

	assert.False(t, changed)
	assert.Equal(t, QuoteStatusViewed, reconciled.Status)
}

// A quote never viewed does not expire through the view window, only through
// its absolute valid-until.
func TestReconcileExpiry_NeverViewed(t *testing.T) {
	now := time.Now()

	t.Run("no valid until", func(t *testing.T) {
		quote := Quote{Status: QuoteStatusPending}
		_, changed := ReconcileExpiry(quote, now)
		assert.False(t, changed)
	})

	t.Run("valid until in future", func(t *testing.T) {
		until := now.Add(time.Hour)
		quote := Quote{Status: QuoteStatusPending, ValidUntil: &until}
		_, changed := ReconcileExpiry(quote, now)
		assert.False(t, changed)
	})

	t.Run("valid until passed", func(t *testing.T) {
		until := now.Add(-time.Minute)
		quote := Quote{Status: QuoteStatusPending, ValidUntil: &until}
		reconciled, changed := ReconcileExpiry(quote, now)
		assert.True(t, changed)
		assert.Equal(t, QuoteStatusExpired, reconciled.Status)
	})
}

func TestReconcileExpiry_TerminalStatusesUntouched(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)

	for _, status := range []QuoteStatus{QuoteStatusExpired, QuoteStatusCancelled} {
		quote := Quote{Status: status, FirstViewedAt: &past, ExpiresAt: &past, ValidUntil: &past}
		reconciled, changed := ReconcileExpiry(quote, now)
		assert.False(t, changed)
		assert.Equal(t, status, reconciled.Status)
	}
}

func TestQuoteRequest_OwnerMatches(t *testing.T) {
	ownerID := uuid.New()
	request := QuoteRequest{CustomerID: ownerID, Email: "owner@example.com"}

	assert.True(t, request.OwnerMatches(ownerID, ""))
	assert.True(t, request.OwnerMatches(uuid.Nil, "Owner@Example.com"))
	assert.False(t, request.OwnerMatches(uuid.New(), "someone@example.com"))
	assert.False(t, request.OwnerMatches(uuid.Nil, ""))
}
