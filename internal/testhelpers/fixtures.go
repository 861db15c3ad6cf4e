package testhelpers

import (
	"testing"
	"time"

	"github.com/pageza/foodflow/backend/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// CreateUser inserts a user and its stats row directly.
func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hashed_password",
	}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Create(&models.UserStats{UserID: user.ID, Level: 1}).Error)
	return user
}

// CreateProduct inserts a pantry product for the user.
func CreateProduct(t *testing.T, db *gorm.DB, userID uint, name string, quantity float64, unit string, expiresIn time.Duration) *models.Product {
	t.Helper()

	product := &models.Product{
		UserID:      userID,
		Name:        name,
		Quantity:    quantity,
		Unit:        unit,
		Category:    "Altro",
		MinQuantity: 1,
		ExpiryDate:  models.DateOf(time.Now().Add(expiresIn)),
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

// BadgeByCondition loads a seeded badge by its unlock condition.
func BadgeByCondition(t *testing.T, db *gorm.DB, condition string) *models.Badge {
	t.Helper()

	var badge models.Badge
	require.NoError(t, db.Where("condition = ?", condition).First(&badge).Error)
	return &badge
}
