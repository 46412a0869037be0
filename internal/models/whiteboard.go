package models

import (
	"strings"
	"time"

	"collabBoard/internal/enums"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Whiteboard struct {
	ID            uint                   `gorm:"primaryKey" json:"id"`
	Name          string                 `gorm:"size:255;not null" json:"name"`
	OwnerID       uint                   `gorm:"not null;index" json:"owner_id"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
	IsArchived    bool                   `gorm:"default:false" json:"is_archived"`
	IsPublic      bool                   `gorm:"default:false" json:"is_public"`
	ShareCode     *string                `gorm:"size:20;uniqueIndex" json:"share_code"`
	Permissions   []WhiteboardPermission `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CanvasObjects []CanvasObject         `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// BeforeCreate fills in a share code when the caller did not provide one.
func (w *Whiteboard) BeforeCreate(tx *gorm.DB) error {
	if w.ShareCode == nil || *w.ShareCode == "" {
		code := GenerateShareCode()
		w.ShareCode = &code
	}
	return nil
}

func GenerateShareCode() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// WhiteboardPermission is unique per (whiteboard, user); granting again overwrites the level.
type WhiteboardPermission struct {
	ID              uint                  `gorm:"primaryKey" json:"id"`
	WhiteboardID    uint                  `gorm:"not null;uniqueIndex:idx_whiteboard_user" json:"whiteboard"`
	UserID          uint                  `gorm:"not null;uniqueIndex:idx_whiteboard_user" json:"user_id"`
	PermissionLevel enums.PermissionLevel `gorm:"size:10;not null;default:view" json:"permission_level"`
	GrantedAt       time.Time             `gorm:"autoCreateTime" json:"granted_at"`
}
