package models

import (
	"time"

	"gorm.io/datatypes"
)

// WasteAnalytics is a per-day rollup recomputed from product rows.
type WasteAnalytics struct {
	ID                 uint                                   `gorm:"primarykey" json:"id"`
	UserID             uint                                   `gorm:"not null;uniqueIndex:idx_user_date_waste" json:"user_id"`
	User               *User                                  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Date               time.Time                              `gorm:"type:date;not null;uniqueIndex:idx_user_date_waste" json:"date"`
	ProductsWasted     int                                    `gorm:"not null;default:0" json:"products_wasted"`
	KgWasted           float64                                `gorm:"not null;default:0" json:"kg_wasted"`
	EstimatedCost      float64                                `gorm:"not null;default:0" json:"estimated_cost"`
	CategoryBreakdown  datatypes.JSONType[map[string]float64] `gorm:"type:json" json:"category_breakdown"`
	WasteTrend         float64                                `gorm:"not null;default:0" json:"waste_trend"`
	MostWastedCategory *string                                `gorm:"size:50" json:"most_wasted_category,omitempty"`
	CreatedAt          time.Time                              `json:"created_at"`
}

func (WasteAnalytics) TableName() string { return "waste_analytics" }

// ShoppingAnalytics is a per-day rollup recomputed from completed lists.
type ShoppingAnalytics struct {
	ID                    uint                                   `gorm:"primarykey" json:"id"`
	UserID                uint                                   `gorm:"not null;uniqueIndex:idx_user_date_shopping" json:"user_id"`
	User                  *User                                  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Date                  time.Time                              `gorm:"type:date;not null;uniqueIndex:idx_user_date_shopping" json:"date"`
	ItemsPurchased        int                                    `gorm:"not null;default:0" json:"items_purchased"`
	EstimatedCost         float64                                `gorm:"not null;default:0" json:"estimated_cost"`
	CategoryBreakdown     datatypes.JSONType[map[string]float64] `gorm:"type:json" json:"category_breakdown"`
	AISuggestionsUsed     int                                    `gorm:"column:ai_suggestions_used;not null;default:0" json:"ai_suggestions_used"`
	MostPurchasedCategory *string                                `gorm:"size:50" json:"most_purchased_category,omitempty"`
	ShoppingFrequencyDays *float64                               `json:"shopping_frequency_days,omitempty"`
	CreatedAt             time.Time                              `json:"created_at"`
}

func (ShoppingAnalytics) TableName() string { return "shopping_analytics" }
