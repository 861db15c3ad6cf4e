package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/pageza/foodflow/backend/internal/models"
	"gorm.io/gorm"
)

const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

var priorityRank = map[string]int{PriorityHigh: 0, PriorityMedium: 1, PriorityLow: 2}

type Notification struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	Action   string `json:"action"`
	Priority string `json:"priority"`
	Count    int    `json:"count,omitempty"`
}

// NotificationService builds the contextual notices shown to a user. Nothing
// is stored; they are derived from the pantry and profile on each request.
type NotificationService struct {
	db  *gorm.DB
	now func() time.Time
}

var _ INotificationService = (*NotificationService)(nil)

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db, now: time.Now}
}

func (s *NotificationService) Notifications(ctx context.Context, userID uint) ([]Notification, error) {
	db := s.db.WithContext(ctx)
	today := models.DateOf(s.now())

	var products []models.Product
	if err := db.Where("user_id = ? AND wasted = ?", userID, false).Find(&products).Error; err != nil {
		return nil, err
	}

	var critical, soon, low int
	for _, p := range products {
		switch days := p.DaysUntilExpiry(today); {
		case days <= 3:
			critical++
		case days <= 7:
			soon++
		}
		if p.IsLowStock() {
			low++
		}
	}

	notifications := []Notification{}
	if critical > 0 {
		notifications = append(notifications, Notification{
			Type:     "danger",
			Title:    "Products expiring now",
			Message:  fmt.Sprintf("%d products expire in the next 3 days", critical),
			Action:   "view_expiring",
			Priority: PriorityHigh,
			Count:    critical,
		})
	}
	if soon > 0 {
		notifications = append(notifications, Notification{
			Type:     "warning",
			Title:    "Products expiring",
			Message:  fmt.Sprintf("%d products expire this week", soon),
			Action:   "view_expiring",
			Priority: PriorityMedium,
			Count:    soon,
		})
	}
	if low > 0 {
		notifications = append(notifications, Notification{
			Type:     "info",
			Title:    "Running low",
			Message:  fmt.Sprintf("%d products are below their minimum quantity", low),
			Action:   "view_low_stock",
			Priority: PriorityMedium,
			Count:    low,
		})
	}

	var profiles, goals int64
	if err := db.Model(&models.NutritionalProfile{}).Where("user_id = ?", userID).Count(&profiles).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.NutritionalGoal{}).Where("user_id = ?", userID).Count(&goals).Error; err != nil {
		return nil, err
	}
	switch {
	case profiles == 0:
		notifications = append(notifications, Notification{
			Type:     "info",
			Title:    "Complete your nutritional profile",
			Message:  "Fill in your profile to get personalised suggestions",
			Action:   "nutritional_profile",
			Priority: PriorityLow,
		})
	case goals == 0:
		notifications = append(notifications, Notification{
			Type:     "info",
			Title:    "Calculate your nutrition goals",
			Message:  "Set your daily goals to track your progress",
			Action:   "calculate_goals",
			Priority: PriorityLow,
		})
	}

	sort.SliceStable(notifications, func(i, j int) bool {
		return priorityRank[notifications[i].Priority] < priorityRank[notifications[j].Priority]
	})
	return notifications, nil
}
