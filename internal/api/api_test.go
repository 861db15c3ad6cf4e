package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pageza/foodflow/backend/internal/api"
	"github.com/pageza/foodflow/backend/internal/models"
	"github.com/pageza/foodflow/backend/internal/service"
	"github.com/pageza/foodflow/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testPassword = "Segreto123!"

type offlineCompleter struct{}

func (offlineCompleter) Complete(ctx context.Context, messages []service.Message) (string, error) {
	return "", errors.New("offline")
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Field   string          `json:"field"`
}

type testAPI struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDatabase(t)
	analytics := service.NewAnalyticsService(db)
	svc := api.Services{
		Users:         service.NewUserService(db),
		Auth:          service.NewAuthService(db, "test-secret"),
		Families:      service.NewFamilyService(db),
		Products:      service.NewProductService(db),
		Shopping:      service.NewShoppingService(db),
		Gamification:  service.NewGamificationService(db),
		Nutrition:     service.NewNutritionService(db),
		Analytics:     analytics,
		Notifications: service.NewNotificationService(db),
		Recipes:       service.NewRecipeService(db, offlineCompleter{}, nil),
		Reports:       service.NewReportService(analytics, nil),
	}

	router := gin.New()
	api.RegisterRoutes(router, svc, nil, nil)
	return &testAPI{t: t, db: db, router: router}
}

func (a *testAPI) do(method, path, token string, body interface{}) (int, envelope) {
	a.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

// register creates an account over HTTP and returns its token.
func (a *testAPI) register(username string) string {
	a.t.Helper()
	status, env := a.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": testPassword,
	})
	require.Equal(a.t, http.StatusCreated, status, env.Error)

	var auth struct {
		Token string `json:"token"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &auth))
	require.NotEmpty(a.t, auth.Token)
	return auth.Token
}

func decode(t *testing.T, env envelope, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, dst))
}

func TestHealth(t *testing.T) {
	a := newTestAPI(t)
	for _, path := range []string{"/health", "/api/health"} {
		w := httptest.NewRecorder()
		a.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "healthy")
	}
}

func TestHealthReportsDatabaseFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", api.HealthCheck(func(ctx context.Context) error { return errors.New("down") }))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAuthEndpoints(t *testing.T) {
	a := newTestAPI(t)
	token := a.register("luigi")

	t.Run("duplicate registration", func(t *testing.T) {
		status, env := a.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
			"username": "luigi", "email": "luigi@example.com", "password": testPassword,
		})
		assert.Equal(t, http.StatusConflict, status)
		assert.False(t, env.Success)
	})

	t.Run("weak password", func(t *testing.T) {
		status, env := a.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
			"username": "peach", "email": "peach@example.com", "password": "password",
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "password", env.Field)
	})

	t.Run("login", func(t *testing.T) {
		status, env := a.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"email": "LUIGI@example.com", "password": testPassword,
		})
		assert.Equal(t, http.StatusOK, status)
		assert.True(t, env.Success)

		status, _ = a.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"email": "luigi@example.com", "password": "Sbagliata123!",
		})
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("account requires a token", func(t *testing.T) {
		status, _ := a.do(http.MethodGet, "/api/v1/account", "", nil)
		assert.Equal(t, http.StatusUnauthorized, status)

		status, env := a.do(http.MethodGet, "/api/v1/account", token, nil)
		require.Equal(t, http.StatusOK, status)
		var user models.User
		decode(t, env, &user)
		assert.Equal(t, "luigi", user.Username)
	})
}

func TestProductEndpoints(t *testing.T) {
	a := newTestAPI(t)
	token := a.register("mario")
	other := a.register("wario")
	expiry := time.Now().AddDate(0, 0, 3).Format("2006-01-02")

	status, env := a.do(http.MethodPost, "/api/v1/products", token, map[string]interface{}{
		"name": "Latte", "quantity": 2, "unit": "l", "category": "Latticini", "expiry_date": expiry,
	})
	require.Equal(t, http.StatusCreated, status, env.Error)
	var product models.Product
	decode(t, env, &product)
	productPath := fmt.Sprintf("/api/v1/products/%d", product.ID)

	t.Run("validation error names the field", func(t *testing.T) {
		status, env := a.do(http.MethodPost, "/api/v1/products", token, map[string]interface{}{
			"name": "Pane", "quantity": 0, "unit": "pz", "category": "Forno", "expiry_date": expiry,
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "quantity", env.Field)
	})

	t.Run("malformed date", func(t *testing.T) {
		status, _ := a.do(http.MethodPost, "/api/v1/products", token, map[string]interface{}{
			"name": "Pane", "quantity": 1, "unit": "pz", "category": "Forno", "expiry_date": "domani",
		})
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("other users cannot read it", func(t *testing.T) {
		status, _ := a.do(http.MethodGet, productPath, other, nil)
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("expiring", func(t *testing.T) {
		status, env := a.do(http.MethodGet, "/api/v1/products/expiring?days=7", token, nil)
		require.Equal(t, http.StatusOK, status)
		var products []models.Product
		decode(t, env, &products)
		assert.Len(t, products, 1)

		status, _ = a.do(http.MethodGet, "/api/v1/products/expiring?days=abc", token, nil)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("update", func(t *testing.T) {
		status, env := a.do(http.MethodPut, productPath, token, map[string]interface{}{"quantity": 5})
		require.Equal(t, http.StatusOK, status, env.Error)
		var updated models.Product
		decode(t, env, &updated)
		assert.Equal(t, 5.0, updated.Quantity)
		assert.Equal(t, "Latte", updated.Name)
	})

	t.Run("waste defaults to the whole product", func(t *testing.T) {
		status, env := a.do(http.MethodPost, productPath+"/waste", token, nil)
		require.Equal(t, http.StatusOK, status, env.Error)

		status, _ = a.do(http.MethodPost, productPath+"/waste", token, nil)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("delete", func(t *testing.T) {
		status, _ := a.do(http.MethodDelete, productPath, token, nil)
		assert.Equal(t, http.StatusOK, status)
		status, _ = a.do(http.MethodGet, productPath, token, nil)
		assert.Equal(t, http.StatusNotFound, status)
	})

	status, _ = a.do(http.MethodGet, "/api/v1/products/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestShoppingEndpoints(t *testing.T) {
	a := newTestAPI(t)
	token := a.register("toad")

	status, env := a.do(http.MethodPost, "/api/v1/shopping-lists", token, map[string]interface{}{"name": "Spesa"})
	require.Equal(t, http.StatusCreated, status, env.Error)
	var list models.ShoppingList
	decode(t, env, &list)
	listPath := fmt.Sprintf("/api/v1/shopping-lists/%d", list.ID)

	status, env = a.do(http.MethodPost, listPath+"/items", token, map[string]interface{}{
		"name": "Mele", "quantity": 1, "unit": "kg", "category": "Frutta",
	})
	require.Equal(t, http.StatusCreated, status, env.Error)
	var item models.ShoppingItem
	decode(t, env, &item)

	status, _ = a.do(http.MethodPost, listPath+"/complete", token, nil)
	assert.Equal(t, http.StatusBadRequest, status, "nothing is checked yet")

	status, _ = a.do(http.MethodPost, fmt.Sprintf("/api/v1/shopping-items/%d/toggle", item.ID), token, nil)
	require.Equal(t, http.StatusOK, status)

	status, env = a.do(http.MethodPost, listPath+"/complete", token, map[string]interface{}{"actual_spent": 3.5})
	require.Equal(t, http.StatusOK, status, env.Error)
	var result service.CompletionResult
	decode(t, env, &result)
	assert.Equal(t, 1, result.ProductsAdded)

	status, env = a.do(http.MethodGet, "/api/v1/shopping-lists", token, nil)
	require.Equal(t, http.StatusOK, status)
	var open []models.ShoppingList
	decode(t, env, &open)
	assert.Empty(t, open)

	status, env = a.do(http.MethodGet, "/api/v1/shopping-lists?include_completed=true", token, nil)
	require.Equal(t, http.StatusOK, status)
	var all []models.ShoppingList
	decode(t, env, &all)
	assert.Len(t, all, 1)
}

func TestFamilyEndpoints(t *testing.T) {
	a := newTestAPI(t)
	owner := a.register("anna")
	member := a.register("bruno")

	status, env := a.do(http.MethodPost, "/api/v1/families", owner, map[string]string{"name": "Rossi"})
	require.Equal(t, http.StatusCreated, status, env.Error)
	var family models.Family
	decode(t, env, &family)

	status, _ = a.do(http.MethodPost, "/api/v1/families/join", member, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = a.do(http.MethodPost, "/api/v1/families/join", member, map[string]string{"family_code": family.FamilyCode})
	require.Equal(t, http.StatusOK, status)
	status, _ = a.do(http.MethodPost, "/api/v1/families/join", member, map[string]string{"family_code": family.FamilyCode})
	assert.Equal(t, http.StatusConflict, status)

	membersPath := fmt.Sprintf("/api/v1/families/%d/members", family.ID)
	status, env = a.do(http.MethodGet, membersPath, member, nil)
	require.Equal(t, http.StatusOK, status)
	var members []service.FamilyMemberView
	decode(t, env, &members)
	assert.Len(t, members, 2)

	outsider := a.register("carla")
	status, _ = a.do(http.MethodGet, membersPath, outsider, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = a.do(http.MethodDelete, fmt.Sprintf("/api/v1/families/%d/membership", family.ID), member, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestNutritionEndpoints(t *testing.T) {
	a := newTestAPI(t)
	token := a.register("dario")

	status, env := a.do(http.MethodPut, "/api/v1/nutrition/profile", token, map[string]interface{}{
		"age": 30, "weight": 80, "height": 180, "gender": "male",
	})
	require.Equal(t, http.StatusOK, status, env.Error)
	var profile service.ProfileResult
	decode(t, env, &profile)
	require.NotNil(t, profile.Goals)
	assert.Equal(t, 2759.0, profile.Goals.DailyCalories)

	status, env = a.do(http.MethodPost, "/api/v1/nutrition/daily", token, map[string]interface{}{
		"date": "2024-06-01", "calories": 600,
	})
	require.Equal(t, http.StatusOK, status, env.Error)

	status, env = a.do(http.MethodGet, "/api/v1/nutrition/daily?date=2024-06-01", token, nil)
	require.Equal(t, http.StatusOK, status)
	var daily models.DailyNutrition
	decode(t, env, &daily)
	assert.Equal(t, 600.0, daily.CaloriesConsumed)
	assert.Equal(t, 2759.0, daily.CaloriesGoal)

	status, _ = a.do(http.MethodGet, "/api/v1/nutrition/daily?date=01/06/2024", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = a.do(http.MethodPost, "/api/v1/meal-plans", token, map[string]interface{}{
		"date": "2024-06-02", "meal_type": "lunch", "custom_meal": "Insalata", "calories": 400,
	})
	require.Equal(t, http.StatusCreated, status, env.Error)
	var plan models.MealPlan
	decode(t, env, &plan)

	status, env = a.do(http.MethodGet, "/api/v1/meal-plans?from=2024-06-01&to=2024-06-03", token, nil)
	require.Equal(t, http.StatusOK, status)
	var plans []models.MealPlan
	decode(t, env, &plans)
	assert.Len(t, plans, 1)

	status, env = a.do(http.MethodGet, fmt.Sprintf("/api/v1/meal-plans/%d/analysis", plan.ID), token, nil)
	require.Equal(t, http.StatusOK, status)
	var analysis service.MealPlanAnalysis
	decode(t, env, &analysis)
	assert.True(t, analysis.Nutrition.Estimated)

	status, env = a.do(http.MethodGet, "/api/v1/meal-plans/suggestions?days=3", token, nil)
	require.Equal(t, http.StatusOK, status, env.Error)
	var week []service.PlannedDay
	decode(t, env, &week)
	require.Len(t, week, 3)
	assert.Equal(t, "monday", week[0].Day)

	status, _ = a.do(http.MethodGet, "/api/v1/meal-plans/suggestions?days=many", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = a.do(http.MethodPost, fmt.Sprintf("/api/v1/meal-plans/%d/consume", plan.ID), token, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = a.do(http.MethodDelete, fmt.Sprintf("/api/v1/meal-plans/%d", plan.ID), token, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestGamificationEndpoints(t *testing.T) {
	a := newTestAPI(t)
	token := a.register("elena")
	a.register("fabio")

	status, env := a.do(http.MethodPost, "/api/v1/recipes/cooked", token, nil)
	require.Equal(t, http.StatusOK, status, env.Error)
	var points service.PointsResult
	decode(t, env, &points)
	assert.Equal(t, service.PointsTable[service.ActionCreateRecipe], points.PointsAwarded)

	status, env = a.do(http.MethodGet, "/api/v1/gamification/leaderboard?limit=1", token, nil)
	require.Equal(t, http.StatusOK, status)
	var board []service.LeaderboardEntry
	decode(t, env, &board)
	assert.Len(t, board, 1)

	status, _ = a.do(http.MethodGet, "/api/v1/gamification/badges", token, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = a.do(http.MethodGet, "/api/v1/gamification/stats", token, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestRecipeEndpointsFallBackWithoutLLM(t *testing.T) {
	a := newTestAPI(t)
	token := a.register("gino")

	status, env := a.do(http.MethodGet, "/api/v1/recipes/suggestions", token, nil)
	require.Equal(t, http.StatusOK, status)
	var recipes []service.Recipe
	decode(t, env, &recipes)
	assert.Empty(t, recipes, "an empty pantry yields no suggestions")

	status, env = a.do(http.MethodPost, "/api/v1/products", token, map[string]interface{}{
		"name": "Zucchine", "quantity": 3, "unit": "pz", "category": "Verdura",
		"expiry_date": time.Now().AddDate(0, 0, 2).Format("2006-01-02"),
	})
	require.Equal(t, http.StatusCreated, status, env.Error)

	status, env = a.do(http.MethodGet, "/api/v1/recipes/expiring", token, nil)
	require.Equal(t, http.StatusOK, status)
	decode(t, env, &recipes)
	assert.NotEmpty(t, recipes)

	status, _ = a.do(http.MethodGet, "/api/v1/recipes/suggestions?servings=50", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = a.do(http.MethodGet, "/api/v1/recipes/rate-limit", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"enabled":false}`, string(env.Data))
}

func TestAnalyticsEndpoints(t *testing.T) {
	a := newTestAPI(t)
	token := a.register("ivo")

	status, env := a.do(http.MethodGet, "/api/v1/analytics/waste-score", token, nil)
	require.Equal(t, http.StatusOK, status)
	var score service.WasteScore
	decode(t, env, &score)
	assert.Equal(t, "A", score.Grade)

	status, _ = a.do(http.MethodGet, "/api/v1/analytics?days=7", token, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = a.do(http.MethodGet, "/api/v1/analytics/weekly-report?end=2024-06-09", token, nil)
	assert.Equal(t, http.StatusOK, status)

	status, env = a.do(http.MethodPost, "/api/v1/analytics/weekly-report/export", token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.False(t, env.Success)

	status, _ = a.do(http.MethodGet, "/api/v1/notifications", token, nil)
	assert.Equal(t, http.StatusOK, status)
}
