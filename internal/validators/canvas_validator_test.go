package validators

import (
	"testing"

	"collabBoard/internal/errs"
	"collabBoard/internal/models"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func validCreate() models.CreateCanvasObjectRequest {
	return models.CreateCanvasObjectRequest{
		WhiteboardID: 1,
		ObjectType:   "rectangle",
		X:            ptr(10.0),
		Y:            ptr(20.0),
		Width:        ptr(100.0),
		Color:        "#FF00aa",
	}
}

func TestValidateCreateCanvasObject(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *models.CreateCanvasObjectRequest)
		want   []error
	}{
		{"valid", func(r *models.CreateCanvasObjectRequest) {}, nil},
		{"zero position is fine", func(r *models.CreateCanvasObjectRequest) { r.X = ptr(0.0); r.Y = ptr(0.0) }, nil},
		{"missing whiteboard", func(r *models.CreateCanvasObjectRequest) { r.WhiteboardID = 0 }, []error{errs.ErrWhiteboardRequired}},
		{"unknown type", func(r *models.CreateCanvasObjectRequest) { r.ObjectType = "hexagon" }, []error{errs.ErrInvalidObjectType}},
		{"missing x and y", func(r *models.CreateCanvasObjectRequest) { r.X = nil; r.Y = nil }, []error{errs.ErrMissingPosition}},
		{"short color", func(r *models.CreateCanvasObjectRequest) { r.Color = "#FFF" }, []error{errs.ErrInvalidColor}},
		{"color without hash", func(r *models.CreateCanvasObjectRequest) { r.Color = "FF0000" }, []error{errs.ErrInvalidColor}},
		{"negative width", func(r *models.CreateCanvasObjectRequest) { r.Width = ptr(-1.0) }, []error{errs.ErrInvalidDimensions}},
		{"negative stroke", func(r *models.CreateCanvasObjectRequest) { r.StrokeWidth = ptr(-2) }, []error{errs.ErrInvalidDimensions}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreate()
			tt.mutate(&req)
			assert.Equal(t, tt.want, ValidateCreateCanvasObject(&req))
		})
	}
}

func TestValidateUpdateCanvasObject(t *testing.T) {
	assert.Nil(t, ValidateUpdateCanvasObject(&models.UpdateCanvasObjectRequest{}))
	assert.Nil(t, ValidateUpdateCanvasObject(&models.UpdateCanvasObjectRequest{Color: ptr("#00FF00")}))
	assert.Equal(t,
		[]error{errs.ErrInvalidColor},
		ValidateUpdateCanvasObject(&models.UpdateCanvasObjectRequest{Color: ptr("green")}),
	)
	assert.Equal(t,
		[]error{errs.ErrInvalidDimensions},
		ValidateUpdateCanvasObject(&models.UpdateCanvasObjectRequest{Height: ptr(-5.0)}),
	)
}
