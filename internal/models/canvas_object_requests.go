package models

import (
	"encoding/json"
	"fmt"

	"collabBoard/internal/enums"

	"gorm.io/datatypes"
)

type CreateCanvasObjectRequest struct {
	WhiteboardID uint             `json:"whiteboard" validate:"required"`
	ObjectType   enums.ObjectType `json:"object_type" validate:"required,objecttype"`
	X            *float64         `json:"x" validate:"required"`
	Y            *float64         `json:"y" validate:"required"`
	Width        *float64         `json:"width" validate:"omitempty,gte=0"`
	Height       *float64         `json:"height" validate:"omitempty,gte=0"`
	Color        string           `json:"color" validate:"omitempty,hexrgb"`
	StrokeWidth  *int             `json:"stroke_width" validate:"omitempty,gte=0"`
	ZIndex       *int             `json:"z_index"`
	Data         datatypes.JSON   `json:"data"`
}

// UpdateCanvasObjectRequest is used for PUT, PATCH and bulk updates. Nil fields are
// left untouched. The object type cannot change after creation.
type UpdateCanvasObjectRequest struct {
	X           *float64        `json:"x"`
	Y           *float64        `json:"y"`
	Width       *float64        `json:"width" validate:"omitempty,gte=0"`
	Height      *float64        `json:"height" validate:"omitempty,gte=0"`
	Color       *string         `json:"color" validate:"omitempty,hexrgb"`
	StrokeWidth *int            `json:"stroke_width" validate:"omitempty,gte=0"`
	ZIndex      *int            `json:"z_index"`
	Data        *datatypes.JSON `json:"data"`
}

type BulkCreateRequest struct {
	WhiteboardID uint                        `json:"whiteboard"`
	Objects      []CreateCanvasObjectRequest `json:"objects"`
}

type BulkUpdateItem struct {
	ID *uint `json:"id"`
	UpdateCanvasObjectRequest
}

type BulkUpdateRequest struct {
	Updates []BulkUpdateItem `json:"updates"`
}

type BulkUpdateResponse struct {
	Updated []CanvasObject  `json:"updated"`
	Skipped []BulkItemError `json:"skipped"`
}

type BulkDeleteRequest struct {
	IDs []uint `json:"ids"`
}

type BulkDeleteResponse struct {
	Deleted int             `json:"deleted"`
	Skipped []BulkItemError `json:"skipped,omitempty"`
}

// BulkItemError reports why one item of a bulk request was rejected.
type BulkItemError struct {
	Index  int    `json:"index"`
	ID     *uint  `json:"id,omitempty"`
	Reason string `json:"error"`
	cause  error
}

func NewBulkItemError(index int, id *uint, cause error) BulkItemError {
	return BulkItemError{Index: index, ID: id, Reason: cause.Error(), cause: cause}
}

func (e BulkItemError) Error() string {
	if e.ID != nil {
		return fmt.Sprintf("item %d (id %d): %s", e.Index, *e.ID, e.Reason)
	}
	return fmt.Sprintf("item %d: %s", e.Index, e.Reason)
}

func (e BulkItemError) Unwrap() error { return e.cause }

func (e BulkItemError) MarshalJSON() ([]byte, error) {
	type plain BulkItemError
	return json.Marshal(plain(e))
}
