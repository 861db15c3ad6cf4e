package models

// All lists every persisted model in dependency order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Family{},
		&FamilyMember{},
		&Product{},
		&ShoppingList{},
		&ShoppingItem{},
		&UserStats{},
		&Badge{},
		&UserBadge{},
		&RewardHistory{},
		&NutritionalProfile{},
		&NutritionalGoal{},
		&MealPlan{},
		&DailyNutrition{},
		&WasteAnalytics{},
		&ShoppingAnalytics{},
	}
}
