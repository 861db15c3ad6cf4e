package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// Date decodes either a calendar date ("2024-01-31") or an RFC 3339 timestamp.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(d.Format(DateLayout))
}

// ParseDate parses a YYYY-MM-DD query parameter. Empty input yields the zero time.
func ParseDate(s string) (time.Time, error) {
	if s = strings.TrimSpace(s); s == "" {
		return time.Time{}, nil
	}
	return time.Parse(DateLayout, s)
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  interface{} `json:"user"`
}

type CreateProductRequest struct {
	Name        string   `json:"name"`
	Quantity    float64  `json:"quantity"`
	Unit        string   `json:"unit"`
	Category    string   `json:"category"`
	ExpiryDate  Date     `json:"expiry_date"`
	MinQuantity *float64 `json:"min_quantity"`
	IsShared    bool     `json:"is_shared"`
	Allergens   string   `json:"allergens"`
	Notes       string   `json:"notes"`
}

type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	Quantity    *float64 `json:"quantity"`
	Unit        *string  `json:"unit"`
	Category    *string  `json:"category"`
	ExpiryDate  *Date    `json:"expiry_date"`
	MinQuantity *float64 `json:"min_quantity"`
	IsShared    *bool    `json:"is_shared"`
	Allergens   *string  `json:"allergens"`
	Notes       *string  `json:"notes"`
}

type WasteProductRequest struct {
	WastePercentage float64 `json:"waste_percentage"`
}

type CreateShoppingListRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	StoreName   string   `json:"store_name"`
	Budget      *float64 `json:"budget"`
	IsSmart     bool     `json:"is_smart"`
	IsTemplate  bool     `json:"is_template"`
}

type AddShoppingItemRequest struct {
	Name           string   `json:"name"`
	Quantity       float64  `json:"quantity"`
	Unit           string   `json:"unit"`
	Category       string   `json:"category"`
	Priority       int      `json:"priority"`
	EstimatedPrice *float64 `json:"estimated_price"`
	Notes          string   `json:"notes"`
}

type CompleteShoppingListRequest struct {
	ActualSpent *float64 `json:"actual_spent"`
}

type CreateFamilyRequest struct {
	Name string `json:"name"`
}

type JoinFamilyRequest struct {
	FamilyCode string `json:"family_code" binding:"required"`
}

type NutritionalProfileRequest struct {
	Age                 *int     `json:"age"`
	Weight              *float64 `json:"weight"`
	Height              *float64 `json:"height"`
	Gender              string   `json:"gender"`
	ActivityLevel       string   `json:"activity_level"`
	Goal                string   `json:"goal"`
	DietaryRestrictions []string `json:"dietary_restrictions"`
	Allergies           []string `json:"allergies"`
}

type DailyNutritionRequest struct {
	Date     Date    `json:"date"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
}

type CreateMealPlanRequest struct {
	Date       Date     `json:"date"`
	MealType   string   `json:"meal_type"`
	CustomMeal string   `json:"custom_meal"`
	IsShared   bool     `json:"is_shared"`
	Calories   *float64 `json:"calories"`
	Protein    *float64 `json:"protein"`
	Carbs      *float64 `json:"carbs"`
	Fat        *float64 `json:"fat"`
	Fiber      *float64 `json:"fiber"`
	Servings   int      `json:"servings"`
}
