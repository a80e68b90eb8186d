package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestManager_GenerateAndValidate(t *testing.T) {
	manager := NewManager("test-secret", time.Hour)

	userID := uuid.New()
	token, err := manager.Generate(userID, RoleDriver, "jo@example.com")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := manager.Validate("Bearer " + token)
	assert.NoError(t, err)
	assert.Equal(t, userID, claims.UID())
	assert.Equal(t, RoleDriver, claims.Role)
	assert.Equal(t, "jo@example.com", claims.Email)
}

func TestManager_Validate_WrongSecret(t *testing.T) {
	manager := NewManager("test-secret", time.Hour)
	other := NewManager("other-secret", time.Hour)

	token, err := manager.Generate(uuid.New(), RoleCustomer, "")
	assert.NoError(t, err)

	claims, err := other.Validate(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestManager_Validate_Expired(t *testing.T) {
	manager := NewManager("test-secret", -time.Minute)

	token, err := manager.Generate(uuid.New(), RoleCustomer, "")
	assert.NoError(t, err)

	claims, err := manager.Validate(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestClaims_UID_Invalid(t *testing.T) {
	claims := &Claims{UserID: "not-a-uuid"}
	assert.Equal(t, uuid.Nil, claims.UID())
}
