package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/etec-programacion-3/programacion-3-2025-serrano-JuliSerraaa/internal/database"
	"github.com/etec-programacion-3/programacion-3-2025-serrano-JuliSerraaa/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := database.Connect("sqlite", ":memory:")
	require.NoError(t, err)

	// In-memory sqlite is per connection; keep the pool at one so every
	// query sees the same database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Conversation{},
		&models.Message{},
		&models.Purchase{},
	))
	return New(db)
}

func seedUser(t *testing.T, s *Store, username string) *models.User {
	t.Helper()
	u := &models.User{
		Username:     username,
		Email:        fmt.Sprintf("%s@example.com", username),
		PasswordHash: "not-a-real-hash",
	}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func seedProduct(t *testing.T, s *Store, ownerID uint, name string, price float64) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, Type: "misc", Price: price, OwnerID: ownerID}
	require.NoError(t, s.CreateProduct(context.Background(), p))
	return p
}
