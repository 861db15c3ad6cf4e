package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/pageza/foodflow/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	familyCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	familyCodeAttempts = 10
)

type FamilyMemberView struct {
	UserID   uint      `json:"user_id"`
	Username string    `json:"username"`
	IsAdmin  bool      `json:"is_admin"`
	JoinedAt time.Time `json:"joined_at"`
}

// FamilyService manages families and their memberships.
type FamilyService struct {
	db *gorm.DB
}

var _ IFamilyService = (*FamilyService)(nil)

func NewFamilyService(db *gorm.DB) *FamilyService {
	return &FamilyService{db: db}
}

// GenerateFamilyCode returns a random code of uppercase letters and digits.
func GenerateFamilyCode() (string, error) {
	max := big.NewInt(int64(len(familyCodeAlphabet)))
	var b strings.Builder
	b.Grow(models.FamilyCodeLength)
	for i := 0; i < models.FamilyCodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(familyCodeAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// CreateFamily creates an active family with the creator as its admin.
func (s *FamilyService) CreateFamily(ctx context.Context, userID uint, name string) (*models.Family, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("name", "is required")
	}
	if len(name) > 100 {
		return nil, invalid("name", "must be at most 100 characters")
	}

	var family *models.Family
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireUser(tx, userID); err != nil {
			return err
		}

		for attempt := 0; attempt < familyCodeAttempts; attempt++ {
			code, err := GenerateFamilyCode()
			if err != nil {
				return err
			}
			candidate := &models.Family{Name: name, FamilyCode: code, CreatedBy: userID, IsActive: true}
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(candidate)
			if res.Error != nil {
				return translateError(res.Error)
			}
			if res.RowsAffected == 1 {
				family = candidate
				break
			}
		}
		if family == nil {
			return fmt.Errorf("could not allocate a unique family code: %w", ErrDuplicateKey)
		}

		return tx.Create(&models.FamilyMember{FamilyID: family.ID, UserID: userID, IsAdmin: true}).Error
	})
	if err != nil {
		return nil, err
	}
	return family, nil
}

// JoinFamily adds the user to the active family with the given code.
func (s *FamilyService) JoinFamily(ctx context.Context, userID uint, familyCode string) (*models.Family, error) {
	code := strings.ToUpper(strings.TrimSpace(familyCode))

	var family models.Family
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireUser(tx, userID); err != nil {
			return err
		}
		if err := tx.Where("family_code = ? AND is_active = ?", code, true).First(&family).Error; err != nil {
			return fmt.Errorf("family code %q: %w", code, translateError(err))
		}

		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.FamilyMember{FamilyID: family.ID, UserID: userID})
		if res.Error != nil {
			return translateError(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyMember
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &family, nil
}

// LeaveFamily removes the membership. The family is deactivated once empty.
func (s *FamilyService) LeaveFamily(ctx context.Context, userID, familyID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("family_id = ? AND user_id = ?", familyID, userID).Delete(&models.FamilyMember{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		var remaining int64
		if err := tx.Model(&models.FamilyMember{}).Where("family_id = ?", familyID).Count(&remaining).Error; err != nil {
			return err
		}
		if remaining == 0 {
			return tx.Model(&models.Family{}).Where("id = ?", familyID).Update("is_active", false).Error
		}
		return nil
	})
}

func (s *FamilyService) ListFamilies(ctx context.Context, userID uint) ([]models.Family, error) {
	var families []models.Family
	err := s.db.WithContext(ctx).
		Where("id IN (?)", s.db.Model(&models.FamilyMember{}).Select("family_id").Where("user_id = ?", userID)).
		Where("is_active = ?", true).
		Order("id").Find(&families).Error
	return families, err
}

// Members lists the members of a family the requesting user belongs to.
func (s *FamilyService) Members(ctx context.Context, userID, familyID uint) ([]FamilyMemberView, error) {
	db := s.db.WithContext(ctx)

	var membership models.FamilyMember
	if err := db.Where("family_id = ? AND user_id = ?", familyID, userID).First(&membership).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrForbidden
		}
		return nil, err
	}

	var rows []struct {
		UserID   uint
		Username string
		IsAdmin  bool
		JoinedAt time.Time
	}
	err := db.Table("family_member").
		Select(`family_member.user_id, "user".username, family_member.is_admin, family_member.joined_at`).
		Joins(`JOIN "user" ON "user".id = family_member.user_id`).
		Where("family_member.family_id = ?", familyID).
		Order("family_member.joined_at, family_member.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	members := make([]FamilyMemberView, len(rows))
	for i, r := range rows {
		members[i] = FamilyMemberView(r)
	}
	return members, nil
}

// familyPeers selects the users sharing an active family with userID, the
// user included.
func familyPeers(tx *gorm.DB, userID uint) *gorm.DB {
	return tx.Table("family_member AS fm1").
		Select("fm2.user_id").
		Joins("JOIN family_member AS fm2 ON fm2.family_id = fm1.family_id").
		Joins("JOIN family AS f ON f.id = fm1.family_id").
		Where("fm1.user_id = ? AND f.is_active = ?", userID, true)
}

// visibleTo restricts a query on a table with user_id and is_shared columns to
// the user's own rows and the shared rows of family peers.
func visibleTo(tx *gorm.DB, table string, userID uint) *gorm.DB {
	return tx.Where(
		fmt.Sprintf("%[1]s.user_id = ? OR (%[1]s.is_shared = ? AND %[1]s.user_id IN (?))", table),
		userID, true, familyPeers(tx.Session(&gorm.Session{NewDB: true}), userID),
	)
}
