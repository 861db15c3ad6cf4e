package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/foodflow/backend/internal/models"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	recipeCacheTTL      = 6 * time.Hour
	maxFallbackRecipes  = 3
	expiringRecipeDays  = 7
	expiringRecipeLimit = 3
)

const recipeSystemPrompt = `You are an expert chef. Reply with valid JSON only, in this format:
{
  "recipes": [
    {
      "name": "Recipe name",
      "ingredients": [{"item": "ingredient", "quantity": 100, "unit": "g"}],
      "instructions": ["step 1", "step 2"],
      "prep_time": 15,
      "cooking_time": 30,
      "difficulty": "easy",
      "servings": 2,
      "nutritional_info": {"per_serving": {"calories": 350, "protein": 20, "carbs": 40, "fat": 12, "fiber": 8}},
      "dietary_tags": ["vegetarian"],
      "tips": ["useful tip"]
    }
  ]
}`

// Number accepts JSON numbers as well as numeric strings such as "15" or "2.5".
// Anything else decodes to zero.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*n = Number(num)
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		fields := strings.Fields(str)
		if len(fields) > 0 {
			if v, err := strconv.ParseFloat(strings.ReplaceAll(fields[0], ",", "."), 64); err == nil {
				*n = Number(v)
				return nil
			}
		}
	}
	*n = 0
	return nil
}

type RecipeIngredient struct {
	Item     string `json:"item"`
	Quantity Number `json:"quantity"`
	Unit     string `json:"unit"`
}

type RecipeMacros struct {
	Calories Number `json:"calories"`
	Protein  Number `json:"protein"`
	Carbs    Number `json:"carbs"`
	Fat      Number `json:"fat"`
	Fiber    Number `json:"fiber"`
}

type RecipeNutrition struct {
	PerServing RecipeMacros `json:"per_serving"`
}

type Recipe struct {
	Name            string             `json:"name"`
	Ingredients     []RecipeIngredient `json:"ingredients"`
	Instructions    []string           `json:"instructions"`
	PrepTime        Number             `json:"prep_time"`
	CookingTime     Number             `json:"cooking_time"`
	Difficulty      string             `json:"difficulty"`
	Servings        Number             `json:"servings"`
	NutritionalInfo *RecipeNutrition   `json:"nutritional_info,omitempty"`
	DietaryTags     []string           `json:"dietary_tags"`
	Tips            []string           `json:"tips"`
}

// RecipeService suggests recipes from the pantry through the LLM. The cache
// is optional; without it every call reaches the API.
type RecipeService struct {
	db    *gorm.DB
	llm   ChatCompleter
	cache *redis.Client
	now   func() time.Time
}

var _ IRecipeService = (*RecipeService)(nil)

func NewRecipeService(db *gorm.DB, llm ChatCompleter, cache *redis.Client) *RecipeService {
	return &RecipeService{db: db, llm: llm, cache: cache, now: time.Now}
}

// SuggestRecipes proposes up to maxRecipes recipes built on the user's pantry.
// A nil servings keeps the quantities the model returned.
func (s *RecipeService) SuggestRecipes(ctx context.Context, userID uint, maxRecipes int, servings *int) ([]Recipe, error) {
	if maxRecipes <= 0 || maxRecipes > 10 {
		maxRecipes = 5
	}
	if servings != nil && (*servings < 1 || *servings > 20) {
		return nil, invalid("servings", "must be between 1 and 20")
	}

	var products []models.Product
	if err := s.db.WithContext(ctx).Where("user_id = ? AND wasted = ?", userID, false).
		Order("expiry_date, id").Find(&products).Error; err != nil {
		return nil, err
	}
	return s.suggest(ctx, userID, products, maxRecipes, servings)
}

// ExpiringRecipes suggests recipes that use products expiring within a week.
func (s *RecipeService) ExpiringRecipes(ctx context.Context, userID uint) ([]Recipe, error) {
	limit := models.DateOf(s.now()).AddDate(0, 0, expiringRecipeDays)
	var products []models.Product
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND wasted = ? AND expiry_date <= ?", userID, false, limit).
		Order("expiry_date, id").Find(&products).Error; err != nil {
		return nil, err
	}
	return s.suggest(ctx, userID, products, expiringRecipeLimit, nil)
}

func (s *RecipeService) suggest(ctx context.Context, userID uint, products []models.Product, maxRecipes int, servings *int) ([]Recipe, error) {
	if len(products) == 0 {
		return []Recipe{}, nil
	}

	var profile models.NutritionalProfile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Limit(1).Find(&profile).Error; err != nil {
		return nil, err
	}
	restrictions := normalizeTokens(profile.DietaryRestrictions)
	allergies := normalizeTokens(profile.Allergies)

	key := recipeCacheKey(userID, products, maxRecipes, servings, restrictions, allergies)
	if cached, ok := s.cached(ctx, key); ok {
		return cached, nil
	}

	content, err := s.llm.Complete(ctx, []Message{
		{Role: "system", Content: recipeSystemPrompt},
		{Role: "user", Content: recipePrompt(products, &profile, maxRecipes, restrictions, allergies)},
	})
	if err != nil {
		log.Printf("[RecipeService] LLM call failed, using fallback recipes: %v", err)
		return fallbackRecipes(products, maxRecipes), nil
	}

	recipes, err := ParseRecipes(content)
	if err != nil || len(recipes) == 0 {
		log.Printf("[RecipeService] unusable LLM response, using fallback recipes: %v", err)
		return fallbackRecipes(products, maxRecipes), nil
	}

	filtered := make([]Recipe, 0, len(recipes))
	for _, r := range recipes {
		if ViolatesPreferences(r, restrictions, allergies) {
			continue
		}
		completeRecipe(&r)
		if servings != nil {
			ScaleServings(&r, *servings)
		}
		filtered = append(filtered, r)
		if len(filtered) == maxRecipes {
			break
		}
	}
	RemapToPantry(filtered, products)

	s.store(ctx, key, filtered)
	return filtered, nil
}

func (s *RecipeService) cached(ctx context.Context, key string) ([]Recipe, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("[RecipeService] cache read failed: %v", err)
		}
		return nil, false
	}
	var recipes []Recipe
	if err := json.Unmarshal(data, &recipes); err != nil {
		return nil, false
	}
	return recipes, true
}

func (s *RecipeService) store(ctx context.Context, key string, recipes []Recipe) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(recipes)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, recipeCacheTTL).Err(); err != nil {
		log.Printf("[RecipeService] cache write failed: %v", err)
	}
}

// recipeCacheKey fingerprints everything the prompt depends on.
func recipeCacheKey(userID uint, products []models.Product, maxRecipes int, servings *int, restrictions, allergies []string) string {
	var b strings.Builder
	for _, p := range products {
		fmt.Fprintf(&b, "%s|%g|%s;", strings.ToLower(p.Name), p.Quantity, p.Unit)
	}
	fmt.Fprintf(&b, "max=%d;", maxRecipes)
	if servings != nil {
		fmt.Fprintf(&b, "servings=%d;", *servings)
	}
	b.WriteString(strings.Join(restrictions, ",") + ";" + strings.Join(allergies, ","))
	return fmt.Sprintf("recipes:%d:%s", userID, uuid.NewSHA1(uuid.NameSpaceOID, []byte(b.String())))
}

func recipePrompt(products []models.Product, profile *models.NutritionalProfile, maxRecipes int, restrictions, allergies []string) string {
	var b strings.Builder
	b.WriteString("Available ingredients:\n")
	for _, p := range products {
		fmt.Fprintf(&b, "- %g %s of %s\n", p.Quantity, p.Unit, p.Name)
	}

	b.WriteString("\nUser preferences:\n")
	if profile.ID == 0 {
		b.WriteString("No preferences specified\n")
	} else {
		fmt.Fprintf(&b, "Goal: %s\nActivity: %s\n", profile.Goal, profile.ActivityLevel)
	}

	fmt.Fprintf(&b, "\nGenerate %d creative recipes that mainly use these ingredients, respect the dietary preferences, are nutritionally balanced and have clear instructions.\n", maxRecipes)
	fmt.Fprintf(&b, "Avoid ANY ingredient matching these allergies: %s\n", orNone(allergies))
	fmt.Fprintf(&b, "Respect these dietary restrictions and list them in dietary_tags: %s\n", orNone(restrictions))
	b.WriteString("Reply with valid JSON only.")
	return b.String()
}

// ParseRecipes extracts the recipe list from a model reply. It accepts a bare
// array or an object with a "recipes" key, optionally wrapped in a code fence
// or surrounded by prose.
func ParseRecipes(content string) ([]Recipe, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	if recipes, err := decodeRecipes(content); err == nil {
		return recipes, nil
	}

	start, end := strings.Index(content, "{"), strings.LastIndex(content, "}")
	if start == -1 || end <= start {
		return nil, fmt.Errorf("no JSON object in response")
	}
	return decodeRecipes(content[start : end+1])
}

func decodeRecipes(content string) ([]Recipe, error) {
	var wrapper struct {
		Recipes []Recipe `json:"recipes"`
	}
	if err := json.Unmarshal([]byte(content), &wrapper); err == nil && wrapper.Recipes != nil {
		return wrapper.Recipes, nil
	}
	var list []Recipe
	if err := json.Unmarshal([]byte(content), &list); err != nil {
		return nil, fmt.Errorf("failed to parse recipes: %w", err)
	}
	return list, nil
}

// ViolatesPreferences reports whether an ingredient names an allergen, or the
// recipe is tagged but misses one of the restrictions. Untagged recipes pass
// the restriction check.
func ViolatesPreferences(r Recipe, restrictions, allergies []string) bool {
	for _, ing := range r.Ingredients {
		item := strings.ToLower(strings.TrimSpace(ing.Item))
		if item == "" {
			continue
		}
		for _, allergen := range allergies {
			if strings.Contains(item, allergen) {
				return true
			}
		}
	}

	if len(restrictions) == 0 || len(r.DietaryTags) == 0 {
		return false
	}
	tags := make(map[string]bool, len(r.DietaryTags))
	for _, t := range r.DietaryTags {
		tags[strings.ToLower(strings.TrimSpace(t))] = true
	}
	for _, restriction := range restrictions {
		if !tags[restriction] {
			return true
		}
	}
	return false
}

// ScaleServings rescales ingredient quantities to the requested servings.
func ScaleServings(r *Recipe, servings int) {
	base := float64(r.Servings)
	if base <= 0 {
		base = 2
	}
	factor := float64(servings) / base
	for i := range r.Ingredients {
		r.Ingredients[i].Quantity = Number(round2(float64(r.Ingredients[i].Quantity) * factor))
	}
	r.Servings = Number(servings)
}

func completeRecipe(r *Recipe) {
	if r.NutritionalInfo == nil {
		r.NutritionalInfo = estimatedNutrition()
	}
	if r.Tips == nil {
		r.Tips = []string{"Follow the instructions carefully"}
	}
	if r.DietaryTags == nil {
		r.DietaryTags = []string{}
	}
}

func estimatedNutrition() *RecipeNutrition {
	return &RecipeNutrition{PerServing: RecipeMacros{Calories: 350, Protein: 20, Carbs: 45, Fat: 12, Fiber: 8}}
}

// fallbackRecipes builds simple recipes around the first pantry products.
func fallbackRecipes(products []models.Product, maxRecipes int) []Recipe {
	if len(products) > 5 {
		products = products[:5]
	}
	n := len(products)
	if maxRecipes < n {
		n = maxRecipes
	}
	if n > maxFallbackRecipes {
		n = maxFallbackRecipes
	}

	recipes := make([]Recipe, 0, n)
	for i := 0; i < n; i++ {
		end := i + 3
		if end > len(products) {
			end = len(products)
		}
		var ingredients []RecipeIngredient
		for _, p := range products[i:end] {
			ingredients = append(ingredients, RecipeIngredient{Item: p.Name, Quantity: Number(p.Quantity), Unit: p.Unit})
		}
		recipes = append(recipes, Recipe{
			Name:        "Ricetta con " + products[i].Name,
			Ingredients: ingredients,
			Instructions: []string{
				"Prepare the ingredients",
				"Combine them to taste",
				"Cook over medium heat",
				"Serve hot",
			},
			PrepTime:        15,
			CookingTime:     30,
			Difficulty:      "easy",
			Servings:        2,
			NutritionalInfo: estimatedNutrition(),
			DietaryTags:     []string{},
			Tips:            []string{"Automatically generated recipe"},
		})
	}
	return recipes
}

func normalizeTokens(values []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

func orNone(values []string) string {
	if len(values) == 0 {
		return "none"
	}
	return strings.Join(values, ", ")
}
