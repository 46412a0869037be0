package models

import (
	"time"

	"collabBoard/internal/enums"

	"gorm.io/datatypes"
)

type CanvasObject struct {
	ID           uint             `gorm:"primaryKey" json:"id"`
	WhiteboardID uint             `gorm:"not null;index" json:"whiteboard"`
	ObjectType   enums.ObjectType `gorm:"size:20;not null" json:"object_type"`

	X      float64  `gorm:"not null" json:"x"`
	Y      float64  `gorm:"not null" json:"y"`
	Width  *float64 `json:"width"`
	Height *float64 `json:"height"`

	Color       string `gorm:"size:7;not null" json:"color"`
	StrokeWidth int    `gorm:"not null" json:"stroke_width"`
	ZIndex      int    `gorm:"not null;index" json:"z_index"`

	// Data depends on ObjectType: freehand carries points, text carries content and font.
	Data datatypes.JSON `json:"data"`

	CreatedBy uint      `gorm:"not null" json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Advisory lock. LockedBy and LockedAt are always set and cleared together.
	LockedBy *uint      `json:"locked_by"`
	LockedAt *time.Time `json:"locked_at"`
}

func (co *CanvasObject) IsLockedByOther(userID uint) bool {
	return co.LockedBy != nil && *co.LockedBy != userID
}
