package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDashboardForRoleCoversAllRoles(t *testing.T) {
	for _, role := range []Role{Citizen, Staff, Admin, Head} {
		require.True(t, ValidRole(role))
		assert.NotEmpty(t, DashboardForRole[role])
	}
	assert.False(t, ValidRole("Mayor"))
}

func TestUserSnapshot(t *testing.T) {
	u := &User{
		ID:    primitive.NewObjectID(),
		Name:  "Asha",
		Email: "asha@example.org",
		Role:  Citizen,
	}

	snap := u.Snapshot()
	assert.Equal(t, u.ID.Hex(), snap.UID)
	assert.Equal(t, "Asha", snap.Name)

	// snapshot is frozen, later profile edits do not follow
	u.Name = "Asha K"
	assert.Equal(t, "Asha", snap.Name)
}

func TestPasswordHashing(t *testing.T) {
	u := &User{Password: "s3cret-pass"}
	require.NoError(t, u.HashPassword())
	assert.NotEqual(t, "s3cret-pass", u.Password)
	assert.True(t, u.ComparePassword("s3cret-pass"))
	assert.False(t, u.ComparePassword("wrong"))
}
