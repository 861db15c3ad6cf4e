package models

import "time"

// FamilyCodeLength is the fixed length of a family join code.
const FamilyCodeLength = 12

type Family struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	Name       string    `gorm:"size:100;not null" json:"name"`
	FamilyCode string    `gorm:"size:12;not null;uniqueIndex" json:"family_code"`
	CreatedBy  uint      `gorm:"not null;index" json:"created_by"`
	Creator    *User     `gorm:"foreignKey:CreatedBy;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	IsActive   bool      `gorm:"not null" json:"is_active"`
}

func (Family) TableName() string { return "family" }

// FamilyMember is unique per (family, user).
type FamilyMember struct {
	ID       uint      `gorm:"primarykey" json:"id"`
	FamilyID uint      `gorm:"not null;uniqueIndex:unique_family_member" json:"family_id"`
	UserID   uint      `gorm:"not null;uniqueIndex:unique_family_member;index" json:"user_id"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`
	IsAdmin  bool      `gorm:"not null" json:"is_admin"`
	Family   *Family   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	User     *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (FamilyMember) TableName() string { return "family_member" }
