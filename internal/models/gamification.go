package models

import "time"

// Reward types recorded in reward_history.
const (
	RewardTypePoints = "points"
	RewardTypeBadge  = "badge"
)

type UserStats struct {
	ID                  uint      `gorm:"primarykey" json:"id"`
	UserID              uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	User                *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Points              int       `gorm:"not null;default:0" json:"points"`
	Level               int       `gorm:"not null;default:1" json:"level"`
	TotalProductsAdded  int       `gorm:"not null;default:0" json:"total_products_added"`
	TotalProductsWasted int       `gorm:"not null;default:0" json:"total_products_wasted"`
	TotalShoppingLists  int       `gorm:"not null;default:0" json:"total_shopping_lists"`
	TotalRecipesCreated int       `gorm:"not null;default:0" json:"total_recipes_created"`
	GoalsAchieved       int       `gorm:"not null;default:0" json:"goals_achieved"`
	WasteReductionScore float64   `gorm:"not null;default:0" json:"waste_reduction_score"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func (UserStats) TableName() string { return "user_stats" }

// Badge is a global catalog entry.
type Badge struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	Name           string    `gorm:"size:50;not null;uniqueIndex" json:"name" yaml:"name"`
	Description    string    `gorm:"type:text" json:"description" yaml:"description"`
	Icon           string    `gorm:"size:50" json:"icon" yaml:"icon"`
	PointsRequired int       `gorm:"not null;default:0" json:"points_required" yaml:"points_required"`
	Condition      string    `gorm:"size:100" json:"condition" yaml:"condition"`
	Category       string    `gorm:"size:30;not null;default:'general'" json:"category" yaml:"category"`
	CreatedAt      time.Time `json:"created_at" yaml:"-"`
}

func (Badge) TableName() string { return "badge" }

// UserBadge is unique per (user, badge).
type UserBadge struct {
	ID       uint      `gorm:"primarykey" json:"id"`
	UserID   uint      `gorm:"not null;uniqueIndex:unique_user_badge" json:"user_id"`
	BadgeID  uint      `gorm:"not null;uniqueIndex:unique_user_badge" json:"badge_id"`
	EarnedAt time.Time `gorm:"autoCreateTime" json:"earned_at"`
	User     *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Badge    *Badge    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"badge,omitempty"`
}

func (UserBadge) TableName() string { return "user_badge" }

// RewardHistory is append-only.
type RewardHistory struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	User        *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	RewardType  string    `gorm:"size:20;not null" json:"reward_type"`
	Value       int       `gorm:"not null" json:"value"`
	BadgeID     *uint     `json:"badge_id,omitempty"`
	Badge       *Badge    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
	Description string    `gorm:"size:200" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func (RewardHistory) TableName() string { return "reward_history" }
