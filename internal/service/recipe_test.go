package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pageza/foodflow/backend/internal/service"
	"github.com/pageza/foodflow/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	mu       sync.Mutex
	reply    string
	err      error
	calls    int
	messages []service.Message
}

func (f *fakeCompleter) Complete(ctx context.Context, messages []service.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.messages = messages
	return f.reply, f.err
}

const twoRecipes = `Here you go!
` + "```json" + `
{"recipes":[
  {"name":"Frittata","ingredients":[{"item":"Uova","quantity":"4","unit":"pz"},{"item":"Zucchine","quantity":200,"unit":"g"}],
   "instructions":["Beat","Cook"],"prep_time":"10 min","cooking_time":15,"difficulty":"easy","servings":2,"dietary_tags":["vegetarian"]},
  {"name":"Pesto","ingredients":[{"item":"Basilico","quantity":50,"unit":"g"},{"item":"Pinoli tostati","quantity":30,"unit":"g"}],
   "instructions":["Blend"],"prep_time":5,"cooking_time":0,"difficulty":"easy","servings":2,"dietary_tags":["vegetarian"]}
]}
` + "```"

func TestParseRecipes(t *testing.T) {
	recipes, err := service.ParseRecipes(twoRecipes)
	require.NoError(t, err)
	require.Len(t, recipes, 2)
	assert.Equal(t, "Frittata", recipes[0].Name)
	assert.Equal(t, service.Number(4), recipes[0].Ingredients[0].Quantity)
	assert.Equal(t, service.Number(10), recipes[0].PrepTime)

	bare, err := service.ParseRecipes(`[{"name":"Insalata","servings":1}]`)
	require.NoError(t, err)
	require.Len(t, bare, 1)
	assert.Equal(t, service.Number(1), bare[0].Servings)

	_, err = service.ParseRecipes("I cannot help with that")
	assert.Error(t, err)
}

func TestNumberUnmarshal(t *testing.T) {
	var v struct {
		A service.Number `json:"a"`
		B service.Number `json:"b"`
		C service.Number `json:"c"`
		D service.Number `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":2.5,"b":"1,5 kg","c":"a pinch","d":null}`), &v))
	assert.Equal(t, service.Number(2.5), v.A)
	assert.Equal(t, service.Number(1.5), v.B)
	assert.Zero(t, v.C)
	assert.Zero(t, v.D)
}

func TestViolatesPreferences(t *testing.T) {
	recipe := service.Recipe{
		Ingredients: []service.RecipeIngredient{{Item: "Pinoli tostati"}},
		DietaryTags: []string{"Vegetarian"},
	}
	assert.True(t, service.ViolatesPreferences(recipe, nil, []string{"pinoli"}))
	assert.False(t, service.ViolatesPreferences(recipe, []string{"vegetarian"}, []string{"arachidi"}))
	assert.True(t, service.ViolatesPreferences(recipe, []string{"vegan"}, nil))

	untagged := service.Recipe{Ingredients: []service.RecipeIngredient{{Item: "Pane"}}}
	assert.False(t, service.ViolatesPreferences(untagged, []string{"vegan"}, nil))
}

func TestScaleServings(t *testing.T) {
	recipe := service.Recipe{
		Servings:    2,
		Ingredients: []service.RecipeIngredient{{Item: "Riso", Quantity: 150}, {Item: "Brodo", Quantity: 0.5}},
	}
	service.ScaleServings(&recipe, 3)
	assert.Equal(t, service.Number(3), recipe.Servings)
	assert.Equal(t, service.Number(225), recipe.Ingredients[0].Quantity)
	assert.Equal(t, service.Number(0.75), recipe.Ingredients[1].Quantity)
}

func TestSuggestRecipes(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, db, "sofia")

	t.Run("empty pantry skips the model", func(t *testing.T) {
		llm := &fakeCompleter{reply: twoRecipes}
		recipes, err := service.NewRecipeService(db, llm, nil).SuggestRecipes(ctx, user.ID, 3, nil)
		require.NoError(t, err)
		assert.Empty(t, recipes)
		assert.Zero(t, llm.calls)
	})

	testhelpers.CreateProduct(t, db, user.ID, "Uova", 6, "pz", 5*24*time.Hour)
	testhelpers.CreateProduct(t, db, user.ID, "Zucchine", 400, "g", 3*24*time.Hour)
	_, err := service.NewNutritionService(db).UpsertProfile(ctx, user.ID, service.ProfileInput{Allergies: []string{"Pinoli"}})
	require.NoError(t, err)

	t.Run("allergens are filtered and servings scaled", func(t *testing.T) {
		llm := &fakeCompleter{reply: twoRecipes}
		servings := 4
		recipes, err := service.NewRecipeService(db, llm, nil).SuggestRecipes(ctx, user.ID, 5, &servings)
		require.NoError(t, err)
		require.Len(t, recipes, 1)
		assert.Equal(t, "Frittata", recipes[0].Name)
		assert.Equal(t, service.Number(8), recipes[0].Ingredients[0].Quantity)
		require.NotNil(t, recipes[0].NutritionalInfo)
		assert.NotEmpty(t, recipes[0].Tips)

		require.Len(t, llm.messages, 2)
		assert.Contains(t, llm.messages[1].Content, "Zucchine")
		assert.Contains(t, llm.messages[1].Content, "pinoli")
	})

	t.Run("model failure falls back", func(t *testing.T) {
		llm := &fakeCompleter{err: errors.New("rate limited")}
		recipes, err := service.NewRecipeService(db, llm, nil).SuggestRecipes(ctx, user.ID, 5, nil)
		require.NoError(t, err)
		require.Len(t, recipes, 2)
		assert.True(t, strings.HasPrefix(recipes[0].Name, "Ricetta con "))
	})

	t.Run("unparseable reply falls back", func(t *testing.T) {
		llm := &fakeCompleter{reply: "Sorry, no recipes today."}
		recipes, err := service.NewRecipeService(db, llm, nil).SuggestRecipes(ctx, user.ID, 1, nil)
		require.NoError(t, err)
		assert.Len(t, recipes, 1)
	})

	t.Run("invalid servings", func(t *testing.T) {
		servings := 50
		_, err := service.NewRecipeService(db, &fakeCompleter{}, nil).SuggestRecipes(ctx, user.ID, 3, &servings)
		assert.ErrorIs(t, err, service.ErrValidation)
	})
}

func TestExpiringRecipesUsesOnlyExpiringProducts(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	user := testhelpers.CreateUser(t, db, "teo")
	testhelpers.CreateProduct(t, db, user.ID, "Spinaci", 1, "kg", 2*24*time.Hour)
	testhelpers.CreateProduct(t, db, user.ID, "Lenticchie", 1, "kg", 200*24*time.Hour)

	llm := &fakeCompleter{err: errors.New("offline")}
	recipes, err := service.NewRecipeService(db, llm, nil).ExpiringRecipes(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Ricetta con Spinaci", recipes[0].Name)
}

func TestSuggestRecipesCache(t *testing.T) {
	cache := testhelpers.SetupRedis(t)
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, db, "ugo")
	testhelpers.CreateProduct(t, db, user.ID, "Uova", 6, "pz", 5*24*time.Hour)

	llm := &fakeCompleter{reply: twoRecipes}
	svc := service.NewRecipeService(db, llm, cache)

	first, err := svc.SuggestRecipes(ctx, user.ID, 5, nil)
	require.NoError(t, err)
	second, err := svc.SuggestRecipes(ctx, user.ID, 5, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, llm.calls)
	assert.Equal(t, first, second)

	_, err = svc.SuggestRecipes(ctx, user.ID, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, llm.calls, "a different request misses the cache")
}

func TestSuggestRecipesAlignsUnitsWithPantry(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	user := testhelpers.CreateUser(t, db, "vera")
	testhelpers.CreateProduct(t, db, user.ID, "Latte", 1000, "ml", 4*24*time.Hour)

	llm := &fakeCompleter{reply: `{"recipes":[{"name":"Besciamella","servings":2,
	  "ingredients":[{"item":"Latte","quantity":0.5,"unit":"l"},{"item":"Burro","quantity":"2","unit":"cucchiai"}]}]}`}
	recipes, err := service.NewRecipeService(db, llm, nil).SuggestRecipes(context.Background(), user.ID, 3, nil)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, service.RecipeIngredient{Item: "Latte", Quantity: 500, Unit: "ml"}, recipes[0].Ingredients[0])
	assert.Equal(t, service.RecipeIngredient{Item: "Burro", Quantity: 30, Unit: "ml"}, recipes[0].Ingredients[1])
}
