package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wikid82/phishwatch/internal/database"
	"github.com/Wikid82/phishwatch/internal/models"
)

func TestUserService_ListNewestFirst(t *testing.T) {
	db := database.OpenTestDB(t)
	svc := NewUserService(db)

	base := time.Now().Add(-time.Hour)
	require.NoError(t, db.Create(&models.User{ID: "old", Name: "Old", Role: models.RoleUser, CreatedAt: base}).Error)
	require.NoError(t, db.Create(&models.User{ID: "admin", Name: "Admin", Role: models.RoleAdmin, CreatedAt: base.Add(time.Minute)}).Error)
	require.NoError(t, db.Create(&models.User{ID: "new", Name: "New", Role: models.RoleUser, CreatedAt: base.Add(2 * time.Minute)}).Error)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list.Users, 3)
	assert.Equal(t, "new", list.Users[0].ID)
	assert.Equal(t, "admin", list.Users[1].ID)
	assert.Equal(t, "old", list.Users[2].ID)
	assert.Equal(t, 3, list.TotalUsers)
	assert.Equal(t, 1, list.AdminCount)
}

func TestUserService_ListEmpty(t *testing.T) {
	db := database.OpenTestDB(t)

	list, err := NewUserService(db).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list.Users)
	assert.Empty(t, list.Users)
	assert.Zero(t, list.AdminCount)
}
