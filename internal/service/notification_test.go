package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/pageza/foodflow/backend/internal/service"
	"github.com/pageza/foodflow/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifications(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewNotificationService(db)
	nutrition := service.NewNutritionService(db)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, db, "oscar")
	day := 24 * time.Hour

	only, err := svc.Notifications(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, only, 1)
	assert.Equal(t, "nutritional_profile", only[0].Action)

	testhelpers.CreateProduct(t, db, user.ID, "Mozzarella", 2, "pz", day)
	testhelpers.CreateProduct(t, db, user.ID, "Ricotta", 2, "pz", 3*day)
	testhelpers.CreateProduct(t, db, user.ID, "Prosciutto", 2, "pz", 6*day)
	testhelpers.CreateProduct(t, db, user.ID, "Farina", 0.5, "kg", 200*day)

	_, err = nutrition.UpsertProfile(ctx, user.ID, service.ProfileInput{Gender: "female"})
	require.NoError(t, err)

	got, err := svc.Notifications(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, got, 4)

	assert.Equal(t, "danger", got[0].Type)
	assert.Equal(t, service.PriorityHigh, got[0].Priority)
	assert.Equal(t, 2, got[0].Count)

	assert.Equal(t, "warning", got[1].Type)
	assert.Equal(t, 1, got[1].Count)

	assert.Equal(t, "view_low_stock", got[2].Action)
	assert.Equal(t, 1, got[2].Count)

	assert.Equal(t, "calculate_goals", got[3].Action)
	assert.Equal(t, service.PriorityLow, got[3].Priority)
}
