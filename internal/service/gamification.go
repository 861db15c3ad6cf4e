package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/pageza/foodflow/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Point-earning actions.
const (
	ActionProductAdded         = "product_added"
	ActionShoppingListCreated  = "shopping_list_created"
	ActionShoppingCompleted    = "shopping_completed"
	ActionWasteReduction       = "waste_reduction"
	ActionAchieveNutritionGoal = "achieve_nutrition_goal"
	ActionCreateRecipe         = "create_recipe"
	ActionFirstProduct         = "first_product"
)

// PointsTable is the default reward per action.
var PointsTable = map[string]int{
	ActionProductAdded:         10,
	ActionShoppingListCreated:  5,
	ActionShoppingCompleted:    20,
	ActionWasteReduction:       15,
	ActionAchieveNutritionGoal: 20,
	ActionCreateRecipe:         5,
	ActionFirstProduct:         50,
}

// Leaderboard metrics.
const (
	MetricPoints         = "points"
	MetricWasteReduction = "waste_reduction"
	MetricProductsAdded  = "products_added"
)

type PointsResult struct {
	Action        string `json:"action"`
	PointsAwarded int    `json:"points_awarded"`
	TotalPoints   int    `json:"total_points"`
	Level         int    `json:"level"`
	LevelUp       bool   `json:"level_up"`
}

type LevelProgress struct {
	Level             int     `json:"level"`
	CurrentPoints     int     `json:"current_points"`
	LevelStartPoints  int     `json:"level_start_points"`
	NextLevelPoints   int     `json:"next_level_points"`
	PointsToNextLevel int     `json:"points_to_next_level"`
	ProgressPercent   float64 `json:"progress_percentage"`
}

type StatsOverview struct {
	Stats    *models.UserStats      `json:"stats"`
	Progress LevelProgress          `json:"progress"`
	Badges   []models.UserBadge     `json:"badges"`
	History  []models.RewardHistory `json:"recent_rewards"`
}

type LeaderboardEntry struct {
	Rank     int     `json:"rank"`
	UserID   uint    `json:"user_id"`
	Username string  `json:"username"`
	Value    float64 `json:"value"`
	Level    int     `json:"level"`
}

// GamificationService manages points, levels and badges.
type GamificationService struct {
	db *gorm.DB
}

var _ IGamificationService = (*GamificationService)(nil)

func NewGamificationService(db *gorm.DB) *GamificationService {
	return &GamificationService{db: db}
}

// LevelForPoints is max(1, floor(sqrt(points/100)) + 1).
func LevelForPoints(points int) int {
	if points <= 0 {
		return 1
	}
	return int(math.Sqrt(float64(points)/100)) + 1
}

// ProgressForLevel reports how far points are between the start of level and the next.
func ProgressForLevel(level, points int) LevelProgress {
	if level < 1 {
		level = 1
	}
	start := (level - 1) * (level - 1) * 100
	next := level * level * 100

	pct := 0.0
	if next > start {
		pct = float64(points-start) / float64(next-start) * 100
	}
	pct = math.Max(0, math.Min(100, pct))

	toNext := next - points
	if toNext < 0 {
		toNext = 0
	}
	return LevelProgress{
		Level:             level,
		CurrentPoints:     points,
		LevelStartPoints:  start,
		NextLevelPoints:   next,
		PointsToNextLevel: toNext,
		ProgressPercent:   math.Round(pct*10) / 10,
	}
}

// AwardPoints grants points for an action. A nil amount uses PointsTable.
func (s *GamificationService) AwardPoints(ctx context.Context, userID uint, action string, amount *int) (*PointsResult, error) {
	points, ok := PointsTable[action]
	if amount != nil {
		points = *amount
	} else if !ok {
		return nil, invalid("action", "unknown action %q", action)
	}
	if points < 0 {
		return nil, invalid("amount", "must not be negative")
	}

	var result *PointsResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireUser(tx, userID); err != nil {
			return err
		}
		var err error
		result, err = awardPoints(tx, userID, action, points)
		if err != nil {
			return err
		}
		_, err = evaluateBadges(tx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// AwardBadge grants a badge once. It reports created=false when the user
// already holds the badge; concurrent duplicates collapse on unique_user_badge.
func (s *GamificationService) AwardBadge(ctx context.Context, userID, badgeID uint) (bool, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireUser(tx, userID); err != nil {
			return err
		}
		var badge models.Badge
		if err := tx.First(&badge, badgeID).Error; err != nil {
			return fmt.Errorf("badge %d: %w", badgeID, translateError(err))
		}
		return insertUserBadge(tx, userID, &badge)
	})
	if errors.Is(err, ErrAlreadyAwarded) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// EvaluateBadges awards every badge whose condition currently holds and
// returns the newly earned ones.
func (s *GamificationService) EvaluateBadges(ctx context.Context, userID uint) ([]models.Badge, error) {
	var earned []models.Badge
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireUser(tx, userID); err != nil {
			return err
		}
		var err error
		earned, err = evaluateBadges(tx, userID)
		return err
	})
	return earned, err
}

// RecordRecipeCooked counts a cooked recipe and rewards it.
func (s *GamificationService) RecordRecipeCooked(ctx context.Context, userID uint) (*PointsResult, error) {
	var result *PointsResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireUser(tx, userID); err != nil {
			return err
		}
		if err := incrementStat(tx, userID, "total_recipes_created", 1); err != nil {
			return err
		}
		var err error
		if result, err = awardPoints(tx, userID, ActionCreateRecipe, PointsTable[ActionCreateRecipe]); err != nil {
			return err
		}
		_, err = evaluateBadges(tx, userID)
		return err
	})
	return result, err
}

func (s *GamificationService) GetStats(ctx context.Context, userID uint) (*StatsOverview, error) {
	overview := &StatsOverview{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireUser(tx, userID); err != nil {
			return err
		}
		stats, err := ensureStats(tx, userID)
		if err != nil {
			return err
		}
		overview.Stats = stats
		overview.Progress = ProgressForLevel(stats.Level, stats.Points)

		if err := tx.Preload("Badge").Where("user_id = ?", userID).
			Order("earned_at DESC").Find(&overview.Badges).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", userID).Order("created_at DESC, id DESC").
			Limit(10).Find(&overview.History).Error
	})
	if err != nil {
		return nil, err
	}
	return overview, nil
}

func (s *GamificationService) ListBadges(ctx context.Context) ([]models.Badge, error) {
	var badges []models.Badge
	err := s.db.WithContext(ctx).Order("points_required, id").Find(&badges).Error
	return badges, err
}

// Leaderboard ranks users by metric. timeframe may be "week", "month" or
// empty for all time, filtering on the last stats update.
func (s *GamificationService) Leaderboard(ctx context.Context, metric string, topN int, timeframe string) ([]LeaderboardEntry, error) {
	var column string
	switch metric {
	case MetricPoints, "":
		column = "user_stats.points"
	case MetricWasteReduction:
		column = "user_stats.waste_reduction_score"
	case MetricProductsAdded:
		column = "user_stats.total_products_added"
	default:
		return nil, invalid("metric", "unsupported metric %q", metric)
	}
	if topN <= 0 || topN > 100 {
		topN = 10
	}

	q := s.db.WithContext(ctx).Table("user_stats").
		Select("user_stats.user_id, " + `"user".username AS username, ` + column + " AS value, user_stats.level").
		Joins(`JOIN "user" ON "user".id = user_stats.user_id`)

	switch timeframe {
	case "week":
		q = q.Where("user_stats.updated_at >= ?", time.Now().AddDate(0, 0, -7))
	case "month":
		q = q.Where("user_stats.updated_at >= ?", time.Now().AddDate(0, 0, -30))
	case "", "all":
	default:
		return nil, invalid("timeframe", "unsupported timeframe %q", timeframe)
	}

	var rows []struct {
		UserID   uint
		Username string
		Value    float64
		Level    int
	}
	if err := q.Order(column + " DESC").Order("user_stats.user_id").Limit(topN).Scan(&rows).Error; err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, len(rows))
	for i, r := range rows {
		entries[i] = LeaderboardEntry{Rank: i + 1, UserID: r.UserID, Username: r.Username, Value: r.Value, Level: r.Level}
	}
	return entries, nil
}

// ensureStats loads the stats row, creating it when missing.
func ensureStats(tx *gorm.DB, userID uint) (*models.UserStats, error) {
	stats := models.UserStats{UserID: userID, Level: 1}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&stats).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("user_id = ?", userID).First(&stats).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

func incrementStat(tx *gorm.DB, userID uint, column string, delta int) error {
	if _, err := ensureStats(tx, userID); err != nil {
		return err
	}
	return tx.Model(&models.UserStats{}).Where("user_id = ?", userID).
		Update(column, gorm.Expr(column+" + ?", delta)).Error
}

func awardPoints(tx *gorm.DB, userID uint, action string, points int) (*PointsResult, error) {
	if _, err := ensureStats(tx, userID); err != nil {
		return nil, err
	}

	// The increment runs in SQL so concurrent awards never overwrite each
	// other. The row stays locked until commit, so the re-read is ours.
	if err := tx.Model(&models.UserStats{}).Where("user_id = ?", userID).
		Update("points", gorm.Expr("points + ?", points)).Error; err != nil {
		return nil, err
	}
	var stats models.UserStats
	if err := tx.Where("user_id = ?", userID).First(&stats).Error; err != nil {
		return nil, err
	}

	oldLevel := stats.Level
	total := stats.Points
	level := LevelForPoints(total)

	if err := tx.Model(&models.UserStats{}).Where("user_id = ?", userID).Updates(map[string]interface{}{
		"level":      level,
		"updated_at": time.Now(),
	}).Error; err != nil {
		return nil, err
	}

	if points > 0 {
		if err := tx.Create(&models.RewardHistory{
			UserID:      userID,
			RewardType:  models.RewardTypePoints,
			Value:       points,
			Description: "Azione: " + action,
		}).Error; err != nil {
			return nil, err
		}
	}

	if level > oldLevel {
		log.Printf("[GamificationService] user %d reached level %d", userID, level)
	}
	return &PointsResult{
		Action:        action,
		PointsAwarded: points,
		TotalPoints:   total,
		Level:         level,
		LevelUp:       level > oldLevel,
	}, nil
}

func insertUserBadge(tx *gorm.DB, userID uint, badge *models.Badge) error {
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.UserBadge{UserID: userID, BadgeID: badge.ID})
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrAlreadyAwarded
	}

	badgeID := badge.ID
	return tx.Create(&models.RewardHistory{
		UserID:      userID,
		RewardType:  models.RewardTypeBadge,
		Value:       0,
		BadgeID:     &badgeID,
		Description: "Badge: " + badge.Name,
	}).Error
}

// badgeFacts is the per-user state badge conditions are checked against.
type badgeFacts struct {
	stats          *models.UserStats
	completedLists int64
	trackedDays    int64
}

func (f badgeFacts) satisfies(condition string) bool {
	switch condition {
	case "registration":
		return true
	case "first_product":
		return f.stats.TotalProductsAdded >= 1
	case "shopping_lists_5":
		return f.completedLists >= 5
	case "recipes_10":
		return f.stats.TotalRecipesCreated >= 10
	case "waste_reduction_50":
		return f.stats.WasteReductionScore >= 50
	case "nutrition_30_days":
		return f.trackedDays >= 30
	default:
		// recycle badges are granted explicitly through AwardBadge (migrate award-badge)
		return false
	}
}

func evaluateBadges(tx *gorm.DB, userID uint) ([]models.Badge, error) {
	stats, err := ensureStats(tx, userID)
	if err != nil {
		return nil, err
	}

	facts := badgeFacts{stats: stats}
	if err := tx.Model(&models.ShoppingList{}).
		Where("user_id = ? AND completed = ?", userID, true).
		Count(&facts.completedLists).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&models.DailyNutrition{}).
		Where("user_id = ?", userID).
		Count(&facts.trackedDays).Error; err != nil {
		return nil, err
	}

	var candidates []models.Badge
	if err := tx.Where("id NOT IN (?)", tx.Model(&models.UserBadge{}).Select("badge_id").Where("user_id = ?", userID)).
		Where("points_required <= ?", stats.Points).
		Order("id").Find(&candidates).Error; err != nil {
		return nil, err
	}

	var earned []models.Badge
	for i := range candidates {
		if !facts.satisfies(candidates[i].Condition) {
			continue
		}
		err := insertUserBadge(tx, userID, &candidates[i])
		if errors.Is(err, ErrAlreadyAwarded) {
			continue
		}
		if err != nil {
			return nil, err
		}
		earned = append(earned, candidates[i])
		log.Printf("[GamificationService] user %d earned badge %q", userID, candidates[i].Name)
	}
	return earned, nil
}
