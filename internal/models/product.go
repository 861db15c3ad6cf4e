package models

import "time"

// Product is a pantry item owned by one user.
type Product struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	User        *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Quantity    float64   `gorm:"not null" json:"quantity"`
	Unit        string    `gorm:"size:20;not null" json:"unit"`
	ExpiryDate  time.Time `gorm:"type:date;not null" json:"expiry_date"`
	Category    string    `gorm:"size:50;not null" json:"category"`
	MinQuantity float64   `gorm:"not null" json:"min_quantity"`
	Wasted      bool      `gorm:"not null" json:"wasted"`
	IsShared    bool      `gorm:"not null" json:"is_shared"`
	Allergens   string    `gorm:"type:text" json:"allergens,omitempty"`
	Notes       string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Product) TableName() string { return "product" }

// DaysUntilExpiry counts whole days from the date of now to the expiry date.
func (p *Product) DaysUntilExpiry(now time.Time) int {
	return int(DateOf(p.ExpiryDate).Sub(DateOf(now)).Hours() / 24)
}

func (p *Product) IsExpiringSoon(now time.Time) bool {
	return p.DaysUntilExpiry(now) <= 7
}

func (p *Product) IsLowStock() bool {
	return p.Quantity <= p.MinQuantity
}

// DateOf truncates t to midnight UTC of its calendar day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
