package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/pageza/foodflow/backend/internal/models"
	"gorm.io/gorm"
)

type ShoppingListInput struct {
	Name        string
	Description string
	StoreName   string
	Budget      *float64
	IsSmart     bool
	IsTemplate  bool
}

type ShoppingItemInput struct {
	Name           string
	Quantity       float64
	Unit           string
	Category       string
	Priority       int
	EstimatedPrice *float64
	Notes          string
}

type CompletionResult struct {
	List            *models.ShoppingList `json:"list"`
	ProductsAdded   int                  `json:"products_added"`
	ProductsUpdated int                  `json:"products_updated"`
	PointsEarned    int                  `json:"points_earned"`
}

type Suggestion struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Category string  `json:"category"`
	Priority int     `json:"priority"`
	Source   string  `json:"source"`
	Reason   string  `json:"reason"`
}

// ShoppingService manages shopping lists and their conversion into pantry stock.
type ShoppingService struct {
	db  *gorm.DB
	now func() time.Time
}

var _ IShoppingService = (*ShoppingService)(nil)

func NewShoppingService(db *gorm.DB) *ShoppingService {
	return &ShoppingService{db: db, now: time.Now}
}

func (s *ShoppingService) CreateList(ctx context.Context, userID uint, in ShoppingListInput) (*models.ShoppingList, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("name", "is required")
	}
	if len(name) > 100 {
		return nil, invalid("name", "must be at most 100 characters")
	}
	if in.Budget != nil && *in.Budget < 0 {
		return nil, invalid("budget", "must not be negative")
	}

	list := &models.ShoppingList{
		UserID:      userID,
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		StoreName:   strings.TrimSpace(in.StoreName),
		Budget:      in.Budget,
		IsSmart:     in.IsSmart,
		IsTemplate:  in.IsTemplate,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireUser(tx, userID); err != nil {
			return err
		}
		if err := tx.Create(list).Error; err != nil {
			return translateError(err)
		}
		if err := incrementStat(tx, userID, "total_shopping_lists", 1); err != nil {
			return err
		}
		if _, err := awardPoints(tx, userID, ActionShoppingListCreated, PointsTable[ActionShoppingListCreated]); err != nil {
			return err
		}
		_, err := evaluateBadges(tx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (s *ShoppingService) ListLists(ctx context.Context, userID uint, includeCompleted bool) ([]models.ShoppingList, error) {
	q := s.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("user_id = ?", userID)
	if !includeCompleted {
		q = q.Where("completed = ?", false)
	}
	var lists []models.ShoppingList
	err := q.Order("created_at DESC, id DESC").Find(&lists).Error
	return lists, err
}

func (s *ShoppingService) GetList(ctx context.Context, userID, listID uint) (*models.ShoppingList, error) {
	return loadOwnedList(s.db.WithContext(ctx), userID, listID)
}

func (s *ShoppingService) DeleteList(ctx context.Context, userID, listID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		list, err := loadOwnedList(tx, userID, listID)
		if err != nil {
			return err
		}
		if err := tx.Where("shopping_list_id = ?", list.ID).Delete(&models.ShoppingItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.ShoppingList{}, list.ID).Error
	})
}

// AddItem appends an item to an open list. An incomplete item with the same
// name and unit absorbs the quantity instead.
func (s *ShoppingService) AddItem(ctx context.Context, userID, listID uint, in ShoppingItemInput) (*models.ShoppingItem, error) {
	name := strings.TrimSpace(in.Name)
	unit := strings.TrimSpace(in.Unit)
	switch {
	case name == "":
		return nil, invalid("name", "is required")
	case in.Quantity <= 0:
		return nil, invalid("quantity", "must be greater than zero")
	case unit == "":
		return nil, invalid("unit", "is required")
	case in.Priority < models.PriorityNormal || in.Priority > models.PriorityHigh:
		return nil, invalid("priority", "must be between %d and %d", models.PriorityNormal, models.PriorityHigh)
	case in.EstimatedPrice != nil && *in.EstimatedPrice < 0:
		return nil, invalid("estimated_price", "must not be negative")
	}

	var item *models.ShoppingItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		list, err := loadOwnedList(tx, userID, listID)
		if err != nil {
			return err
		}
		if list.Completed {
			return invalid("list", "is already completed")
		}
		item, err = mergeItem(tx, list, models.ShoppingItem{
			Name:           name,
			Quantity:       in.Quantity,
			Unit:           unit,
			Category:       strings.TrimSpace(in.Category),
			Priority:       in.Priority,
			EstimatedPrice: in.EstimatedPrice,
			Notes:          strings.TrimSpace(in.Notes),
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *ShoppingService) ToggleItem(ctx context.Context, userID, itemID uint) (*models.ShoppingItem, error) {
	var item models.ShoppingItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&item, itemID).Error; err != nil {
			return fmt.Errorf("shopping item %d: %w", itemID, translateError(err))
		}
		if _, err := loadOwnedList(tx, userID, item.ShoppingListID); err != nil {
			return err
		}
		item.Completed = !item.Completed
		return tx.Model(&item).Update("completed", item.Completed).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *ShoppingService) DeleteItem(ctx context.Context, userID, itemID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.ShoppingItem
		if err := tx.First(&item, itemID).Error; err != nil {
			return fmt.Errorf("shopping item %d: %w", itemID, translateError(err))
		}
		if _, err := loadOwnedList(tx, userID, item.ShoppingListID); err != nil {
			return err
		}
		return tx.Delete(&item).Error
	})
}

// CompleteList moves the checked items into the pantry and closes the list.
func (s *ShoppingService) CompleteList(ctx context.Context, userID, listID uint, actualSpent *float64) (*CompletionResult, error) {
	if actualSpent != nil && *actualSpent < 0 {
		return nil, invalid("actual_spent", "must not be negative")
	}

	result := &CompletionResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		list, err := loadOwnedList(tx, userID, listID)
		if err != nil {
			return err
		}
		if list.Completed {
			return invalid("list", "is already completed")
		}
		if list.CompletedItems() == 0 {
			return invalid("list", "has no completed items")
		}

		now := s.now()
		today := models.DateOf(now)
		for _, item := range list.Items {
			if !item.Completed {
				continue
			}
			var product models.Product
			err := tx.Where("user_id = ? AND LOWER(name) = LOWER(?) AND wasted = ?", userID, item.Name, false).
				Order("id").Limit(1).Find(&product).Error
			if err != nil {
				return err
			}
			if product.ID != 0 {
				if err := tx.Model(&product).Update("quantity", gorm.Expr("quantity + ?", item.Quantity)).Error; err != nil {
					return err
				}
				result.ProductsUpdated++
				continue
			}
			if err := tx.Create(&models.Product{
				UserID:      userID,
				Name:        NormalizeProductName(item.Name),
				Quantity:    item.Quantity,
				Unit:        item.Unit,
				Category:    categoryOrDefault(item.Category),
				ExpiryDate:  today.AddDate(0, 0, 30),
				MinQuantity: item.Quantity * 0.2,
			}).Error; err != nil {
				return err
			}
			result.ProductsAdded++
		}

		changes := map[string]interface{}{"completed": true, "completed_at": now}
		if actualSpent != nil {
			changes["actual_spent"] = *actualSpent
		}
		if err := tx.Model(&models.ShoppingList{}).Where("id = ?", list.ID).Updates(changes).Error; err != nil {
			return err
		}

		result.PointsEarned = (result.ProductsAdded + result.ProductsUpdated) * 2
		if _, err := awardPoints(tx, userID, ActionShoppingCompleted, result.PointsEarned); err != nil {
			return err
		}
		if _, err := recomputeShoppingAnalytics(tx, userID, today); err != nil {
			return err
		}
		if _, err := evaluateBadges(tx, userID); err != nil {
			return err
		}

		result.List, err = loadOwnedList(tx, userID, list.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[ShoppingService] list %d completed: %d added, %d updated", listID, result.ProductsAdded, result.ProductsUpdated)
	return result, nil
}

// SmartSuggestions proposes restocking low-stock products and replacing those
// about to expire.
func (s *ShoppingService) SmartSuggestions(ctx context.Context, userID uint) ([]Suggestion, error) {
	db := s.db.WithContext(ctx)
	today := models.DateOf(s.now())

	var products []models.Product
	if err := db.Where("user_id = ? AND wasted = ?", userID, false).Order("id").Find(&products).Error; err != nil {
		return nil, err
	}

	byName := map[string]*Suggestion{}
	for _, p := range products {
		if !p.IsLowStock() {
			continue
		}
		byName[strings.ToLower(p.Name)] = &Suggestion{
			Name:     p.Name,
			Quantity: p.MinQuantity * 2,
			Unit:     p.Unit,
			Category: p.Category,
			Priority: models.PriorityHigh,
			Source:   "low_stock",
			Reason:   fmt.Sprintf("Low stock: %g %s left", p.Quantity, p.Unit),
		}
	}
	for _, p := range products {
		key := strings.ToLower(p.Name)
		if _, ok := byName[key]; ok || p.DaysUntilExpiry(today) > 3 {
			continue
		}
		byName[key] = &Suggestion{
			Name:     p.Name,
			Quantity: p.Quantity,
			Unit:     p.Unit,
			Category: p.Category,
			Priority: models.PriorityMedium,
			Source:   "expiring",
			Reason:   "Expires on " + p.ExpiryDate.Format("02/01/2006"),
		}
	}

	suggestions := make([]Suggestion, 0, len(byName))
	for _, sg := range byName {
		suggestions = append(suggestions, *sg)
	}
	sort.Slice(suggestions, func(i, j int) bool {
		if suggestions[i].Priority != suggestions[j].Priority {
			return suggestions[i].Priority > suggestions[j].Priority
		}
		return suggestions[i].Name < suggestions[j].Name
	})
	return suggestions, nil
}

// mergeItem adds item to list, folding it into an open item with the same
// lower-cased name and unit.
func mergeItem(tx *gorm.DB, list *models.ShoppingList, item models.ShoppingItem) (*models.ShoppingItem, error) {
	for i := range list.Items {
		existing := &list.Items[i]
		if existing.Completed || existing.Unit != item.Unit || !strings.EqualFold(existing.Name, item.Name) {
			continue
		}
		existing.Quantity += item.Quantity
		if err := tx.Model(existing).Update("quantity", existing.Quantity).Error; err != nil {
			return nil, err
		}
		return existing, nil
	}

	item.ShoppingListID = list.ID
	if err := tx.Create(&item).Error; err != nil {
		return nil, translateError(err)
	}
	list.Items = append(list.Items, item)
	return &item, nil
}

func loadOwnedList(tx *gorm.DB, userID, listID uint) (*models.ShoppingList, error) {
	var list models.ShoppingList
	err := tx.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).First(&list, listID).Error
	if err != nil {
		return nil, fmt.Errorf("shopping list %d: %w", listID, translateError(err))
	}
	if list.UserID != userID {
		return nil, ErrForbidden
	}
	return &list, nil
}
