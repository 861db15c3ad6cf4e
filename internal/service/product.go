package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pageza/foodflow/backend/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

const defaultCategory = "Altro"

type ProductInput struct {
	Name        string
	Quantity    float64
	Unit        string
	Category    string
	ExpiryDate  time.Time
	MinQuantity *float64
	IsShared    bool
	Allergens   string
	Notes       string
}

// ProductUpdate carries the fields to change; nil means unchanged.
type ProductUpdate struct {
	Name        *string
	Quantity    *float64
	Unit        *string
	Category    *string
	ExpiryDate  *time.Time
	MinQuantity *float64
	IsShared    *bool
	Allergens   *string
	Notes       *string
}

type ProductFilter struct {
	Category      string
	IncludeWasted bool
}

type WasteResult struct {
	Product *models.Product `json:"product"`
	Points  *PointsResult   `json:"points"`
}

// ProductService manages the pantry.
type ProductService struct {
	db  *gorm.DB
	now func() time.Time
}

var _ IProductService = (*ProductService)(nil)

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db, now: time.Now}
}

var titleCaser = cases.Title(language.Italian)

// NormalizeProductName trims and title-cases a product name.
func NormalizeProductName(name string) string {
	return titleCaser.String(strings.Join(strings.Fields(name), " "))
}

// AddProduct stores a new product for an existing user and rewards it.
func (s *ProductService) AddProduct(ctx context.Context, userID uint, in ProductInput) (*models.Product, error) {
	today := models.DateOf(s.now())
	if err := validateProductInput(in, today); err != nil {
		return nil, err
	}

	product := &models.Product{
		UserID:      userID,
		Name:        NormalizeProductName(in.Name),
		Quantity:    in.Quantity,
		Unit:        strings.TrimSpace(in.Unit),
		Category:    strings.TrimSpace(in.Category),
		ExpiryDate:  models.DateOf(in.ExpiryDate),
		MinQuantity: 1,
		IsShared:    in.IsShared,
		Allergens:   strings.TrimSpace(in.Allergens),
		Notes:       strings.TrimSpace(in.Notes),
	}
	if in.MinQuantity != nil {
		product.MinQuantity = *in.MinQuantity
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireUser(tx, userID); err != nil {
			return err
		}
		if err := tx.Create(product).Error; err != nil {
			return translateError(err)
		}
		if err := incrementStat(tx, userID, "total_products_added", 1); err != nil {
			return err
		}
		if _, err := awardPoints(tx, userID, ActionProductAdded, PointsTable[ActionProductAdded]); err != nil {
			return err
		}
		_, err := evaluateBadges(tx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func validateProductInput(in ProductInput, today time.Time) error {
	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		return invalid("name", "is required")
	case len(name) > 100:
		return invalid("name", "must be at most 100 characters")
	case in.Quantity <= 0:
		return invalid("quantity", "must be greater than zero")
	case strings.TrimSpace(in.Unit) == "":
		return invalid("unit", "is required")
	case strings.TrimSpace(in.Category) == "":
		return invalid("category", "is required")
	case in.ExpiryDate.IsZero():
		return invalid("expiry_date", "is required")
	case models.DateOf(in.ExpiryDate).Before(today):
		return invalid("expiry_date", "must not be in the past")
	case in.MinQuantity != nil && *in.MinQuantity < 0:
		return invalid("min_quantity", "must not be negative")
	}
	return nil
}

// ListProducts returns the user's products plus those shared by family peers.
func (s *ProductService) ListProducts(ctx context.Context, userID uint, filter ProductFilter) ([]models.Product, error) {
	db := s.db.WithContext(ctx)
	q := visibleTo(db.Model(&models.Product{}), "product", userID)
	if !filter.IncludeWasted {
		q = q.Where("product.wasted = ?", false)
	}
	if filter.Category != "" {
		q = q.Where("product.category = ?", filter.Category)
	}

	var products []models.Product
	if err := q.Order("product.expiry_date, product.id").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (s *ProductService) GetProduct(ctx context.Context, userID, productID uint) (*models.Product, error) {
	db := s.db.WithContext(ctx)
	var product models.Product
	err := visibleTo(db.Model(&models.Product{}), "product", userID).
		Where("product.id = ?", productID).First(&product).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &product, nil
}

// UpdateProduct changes the given fields of a product the user owns.
func (s *ProductService) UpdateProduct(ctx context.Context, userID, productID uint, upd ProductUpdate) (*models.Product, error) {
	changes := map[string]interface{}{}
	if upd.Name != nil {
		name := NormalizeProductName(*upd.Name)
		if name == "" {
			return nil, invalid("name", "is required")
		}
		changes["name"] = name
	}
	if upd.Quantity != nil {
		if *upd.Quantity < 0 {
			return nil, invalid("quantity", "must not be negative")
		}
		changes["quantity"] = *upd.Quantity
	}
	if upd.Unit != nil {
		if strings.TrimSpace(*upd.Unit) == "" {
			return nil, invalid("unit", "is required")
		}
		changes["unit"] = strings.TrimSpace(*upd.Unit)
	}
	if upd.Category != nil {
		if strings.TrimSpace(*upd.Category) == "" {
			return nil, invalid("category", "is required")
		}
		changes["category"] = strings.TrimSpace(*upd.Category)
	}
	if upd.ExpiryDate != nil {
		changes["expiry_date"] = models.DateOf(*upd.ExpiryDate)
	}
	if upd.MinQuantity != nil {
		if *upd.MinQuantity < 0 {
			return nil, invalid("min_quantity", "must not be negative")
		}
		changes["min_quantity"] = *upd.MinQuantity
	}
	if upd.IsShared != nil {
		changes["is_shared"] = *upd.IsShared
	}
	if upd.Allergens != nil {
		changes["allergens"] = strings.TrimSpace(*upd.Allergens)
	}
	if upd.Notes != nil {
		changes["notes"] = strings.TrimSpace(*upd.Notes)
	}

	var product *models.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if product, err = loadOwnedProduct(tx, userID, productID); err != nil {
			return err
		}
		if len(changes) == 0 {
			return nil
		}
		if err := tx.Model(product).Updates(changes).Error; err != nil {
			return err
		}
		return tx.First(product, productID).Error
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, userID, productID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, err := loadOwnedProduct(tx, userID, productID)
		if err != nil {
			return err
		}
		return tx.Delete(product).Error
	})
}

// WasteProduct records that percentage of a product was thrown away. At 100%
// the product is flagged wasted; below that its quantity shrinks.
func (s *ProductService) WasteProduct(ctx context.Context, userID, productID uint, percentage float64) (*WasteResult, error) {
	if percentage <= 0 || percentage > 100 {
		return nil, invalid("waste_percentage", "must be in (0, 100]")
	}

	result := &WasteResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, err := loadOwnedProduct(tx, userID, productID)
		if err != nil {
			return err
		}
		if product.Wasted {
			return invalid("product", "is already marked as wasted")
		}

		changes := map[string]interface{}{}
		if percentage >= 100 {
			changes["wasted"] = true
		} else {
			changes["quantity"] = product.Quantity * (1 - percentage/100)
		}
		if err := tx.Model(product).Updates(changes).Error; err != nil {
			return err
		}
		if err := tx.First(product, productID).Error; err != nil {
			return err
		}
		result.Product = product

		if err := incrementStat(tx, userID, "total_products_wasted", 1); err != nil {
			return err
		}
		if result.Points, err = awardPoints(tx, userID, ActionWasteReduction, int(5*percentage/100)); err != nil {
			return err
		}

		now := s.now()
		if _, err := recomputeWasteAnalytics(tx, userID, models.DateOf(now)); err != nil {
			return err
		}
		score, err := wasteScore(tx, userID, now, 30)
		if err != nil {
			return err
		}
		return tx.Model(&models.UserStats{}).Where("user_id = ?", userID).
			Update("waste_reduction_score", score.Score).Error
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ExpiringProducts lists visible, unwasted products expiring within days.
func (s *ProductService) ExpiringProducts(ctx context.Context, userID uint, days int) ([]models.Product, error) {
	if days < 0 {
		return nil, invalid("days", "must not be negative")
	}
	limit := models.DateOf(s.now()).AddDate(0, 0, days)

	db := s.db.WithContext(ctx)
	var products []models.Product
	err := visibleTo(db.Model(&models.Product{}), "product", userID).
		Where("product.wasted = ? AND product.expiry_date <= ?", false, limit).
		Order("product.expiry_date, product.id").
		Find(&products).Error
	return products, err
}

// LowStockProducts lists the user's unwasted products at or below their minimum.
func (s *ProductService) LowStockProducts(ctx context.Context, userID uint) ([]models.Product, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND wasted = ? AND quantity <= min_quantity", userID, false).
		Order("name").Find(&products).Error
	return products, err
}

func loadOwnedProduct(tx *gorm.DB, userID, productID uint) (*models.Product, error) {
	var product models.Product
	if err := tx.First(&product, productID).Error; err != nil {
		return nil, fmt.Errorf("product %d: %w", productID, translateError(err))
	}
	if product.UserID != userID {
		return nil, ErrForbidden
	}
	return &product, nil
}
