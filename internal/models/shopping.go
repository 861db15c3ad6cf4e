package models

import "time"

// Shopping item priorities.
const (
	PriorityNormal = 0
	PriorityMedium = 1
	PriorityHigh   = 2
)

type ShoppingList struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	User        *User          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Name        string         `gorm:"size:100;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description,omitempty"`
	StoreName   string         `gorm:"size:100" json:"store_name,omitempty"`
	Budget      *float64       `json:"budget,omitempty"`
	ActualSpent float64        `gorm:"not null;default:0" json:"actual_spent"`
	Completed   bool           `gorm:"not null" json:"completed"`
	IsSmart     bool           `gorm:"not null" json:"is_smart"`
	IsTemplate  bool           `gorm:"not null" json:"is_template"`
	CreatedAt   time.Time      `json:"created_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	Items       []ShoppingItem `gorm:"foreignKey:ShoppingListID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"items,omitempty"`
}

func (ShoppingList) TableName() string { return "shopping_list" }

func (l *ShoppingList) TotalItems() int { return len(l.Items) }

func (l *ShoppingList) CompletedItems() int {
	n := 0
	for _, item := range l.Items {
		if item.Completed {
			n++
		}
	}
	return n
}

func (l *ShoppingList) ProgressPercentage() float64 {
	if len(l.Items) == 0 {
		return 0
	}
	return float64(l.CompletedItems()) / float64(len(l.Items)) * 100
}

// EstimatedTotal sums price times quantity over priced items.
func (l *ShoppingList) EstimatedTotal() float64 {
	total := 0.0
	for _, item := range l.Items {
		if item.EstimatedPrice != nil {
			total += *item.EstimatedPrice * item.Quantity
		}
	}
	return total
}

func (l *ShoppingList) IsOverBudget() bool {
	return l.Budget != nil && l.EstimatedTotal() > *l.Budget
}

type ShoppingItem struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	ShoppingListID uint      `gorm:"not null;index" json:"shopping_list_id"`
	Name           string    `gorm:"size:100;not null" json:"name"`
	Quantity       float64   `gorm:"not null" json:"quantity"`
	Unit           string    `gorm:"size:20;not null" json:"unit"`
	Category       string    `gorm:"size:50" json:"category,omitempty"`
	Completed      bool      `gorm:"not null" json:"completed"`
	Priority       int       `gorm:"not null;default:0" json:"priority"`
	EstimatedPrice *float64  `json:"estimated_price,omitempty"`
	Notes          string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func (ShoppingItem) TableName() string { return "shopping_item" }
