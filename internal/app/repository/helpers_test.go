package repository

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/valeriy167/paint-store/internal/app/model"
	"github.com/valeriy167/paint-store/internal/db"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

func createTestUser(t *testing.T, testDB *gorm.DB, username string) *model.User {
	t.Helper()
	user := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func createTestProduct(t *testing.T, testDB *gorm.DB, name, price string) *model.Product {
	t.Helper()
	product := &model.Product{
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Stock:    10,
		Category: "enamel",
	}
	require.NoError(t, testDB.Create(product).Error)
	return product
}
