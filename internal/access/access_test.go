package access_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"nagoyameshi/internal/access"
	"nagoyameshi/internal/models"
)

func TestCanModify(t *testing.T) {
	review := &models.Review{ID: 10, UserID: 1}
	reservation := &models.Reservation{ID: 20, UserID: 2}

	tests := []struct {
		name   string
		userID int
		res    access.Owned
		want   bool
	}{
		{"owner can modify review", 1, review, true},
		{"other member cannot modify review", 2, review, false},
		{"owner can cancel reservation", 2, reservation, true},
		{"other member cannot cancel reservation", 1, reservation, false},
		{"guest is rejected", 0, review, false},
		{"nil resource is rejected", 1, nil, false},
		{"self profile", 5, &models.User{ID: 5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, access.CanModify(tt.userID, tt.res))
		})
	}
}

func TestAuthorize(t *testing.T) {
	review := &models.Review{UserID: 3}

	assert.NoError(t, access.Authorize(3, review))
	err := access.Authorize(4, review)
	assert.True(t, errors.Is(err, access.ErrNotOwner))
}

func TestTierOf(t *testing.T) {
	assert.Equal(t, access.TierGuest, access.TierOf(false, true))
	assert.Equal(t, access.TierFree, access.TierOf(true, false))
	assert.Equal(t, access.TierPremium, access.TierOf(true, true))
	assert.Equal(t, "premium", access.TierPremium.String())
	assert.Equal(t, "guest", access.TierGuest.String())
}
