package services

import (
	"errors"
	"testing"

	"collabBoard/internal/enums"
	"collabBoard/internal/errs"
	"collabBoard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestCanvasService_CreateAppliesDefaults(t *testing.T) {
	f := newFixture(t)
	wb := f.whiteboard(t, 1, false)

	obj := f.object(t, wb.ID, 1)

	assert.Equal(t, "#000000", obj.Color)
	assert.Equal(t, 2, obj.StrokeWidth)
	assert.Equal(t, 0, obj.ZIndex)
	assert.JSONEq(t, `{}`, string(obj.Data))
	assert.Equal(t, uint(1), obj.CreatedBy)
	assert.Nil(t, obj.LockedBy)
}

func TestCanvasService_CreateKeepsExplicitZeroStroke(t *testing.T) {
	f := newFixture(t)
	wb := f.whiteboard(t, 1, false)

	obj, err := f.canvas.Create(f.ctx, as(1), &models.CreateCanvasObjectRequest{
		WhiteboardID: wb.ID,
		ObjectType:   enums.OBJECT_TYPE_FREEHAND,
		X:            ptr(0.0),
		Y:            ptr(0.0),
		StrokeWidth:  ptr(0),
		Data:         datatypes.JSON(`{"points":[[0,0],[1,1]]}`),
	})
	require.NoError(t, err)

	stored, err := f.objects.FindByID(f.ctx, obj.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.StrokeWidth)
	assert.JSONEq(t, `{"points":[[0,0],[1,1]]}`, string(stored.Data))
}

func TestCanvasService_CreateChecks(t *testing.T) {
	f := newFixture(t)
	wb := f.whiteboard(t, 1, false)
	f.grant(t, wb.ID, 2, enums.PERMISSION_VIEW)

	valid := models.CreateCanvasObjectRequest{WhiteboardID: wb.ID, ObjectType: "circle", X: ptr(1.0), Y: ptr(1.0)}

	_, err := f.canvas.Create(f.ctx, as(2), &valid)
	assert.ErrorIs(t, err, errs.ErrPermissionDenied)

	noBoard := valid
	noBoard.WhiteboardID = 0
	_, err = f.canvas.Create(f.ctx, as(1), &noBoard)
	assert.ErrorIs(t, err, errs.ErrWhiteboardRequired)

	badColor := valid
	badColor.Color = "red"
	_, err = f.canvas.Create(f.ctx, as(1), &badColor)
	var verrs errs.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.ErrorIs(t, err, errs.ErrInvalidColor)

	assert.Zero(t, f.countObjects(t, wb.ID))
}

func TestCanvasService_ListOrdersByZIndex(t *testing.T) {
	f := newFixture(t)
	wb := f.whiteboard(t, 1, true)

	for _, z := range []int{3, 1, 2} {
		_, err := f.canvas.Create(f.ctx, as(1), &models.CreateCanvasObjectRequest{
			WhiteboardID: wb.ID, ObjectType: "text", X: ptr(0.0), Y: ptr(0.0), ZIndex: ptr(z),
		})
		require.NoError(t, err)
	}
	_, err := f.canvas.Create(f.ctx, as(1), &models.CreateCanvasObjectRequest{
		WhiteboardID: wb.ID, ObjectType: "line", X: ptr(0.0), Y: ptr(0.0), ZIndex: ptr(0),
	})
	require.NoError(t, err)

	// Public board: anyone may list.
	objects, err := f.canvas.List(f.ctx, as(7), wb.ID, "")
	require.NoError(t, err)
	require.Len(t, objects, 4)
	for i, want := range []int{0, 1, 2, 3} {
		assert.Equal(t, want, objects[i].ZIndex)
	}

	texts, err := f.canvas.List(f.ctx, as(7), wb.ID, enums.OBJECT_TYPE_TEXT)
	require.NoError(t, err)
	assert.Len(t, texts, 3)

	_, err = f.canvas.List(f.ctx, as(7), 0, "")
	assert.ErrorIs(t, err, errs.ErrWhiteboardRequired)
}

func TestCanvasService_UpdateRejectedWhileLockedByOther(t *testing.T) {
	f := newFixture(t)
	wb := f.whiteboard(t, 1, false)
	f.grant(t, wb.ID, 2, enums.PERMISSION_EDIT)
	obj := f.object(t, wb.ID, 1)

	_, err := f.locks.Lock(f.ctx, as(1), obj.ID)
	require.NoError(t, err)

	_, err = f.canvas.Update(f.ctx, as(2), obj.ID, &models.UpdateCanvasObjectRequest{X: ptr(50.0)})
	assert.ErrorIs(t, err, errs.ErrObjectLocked)

	// The holder may still update.
	updated, err := f.canvas.Update(f.ctx, as(1), obj.ID, &models.UpdateCanvasObjectRequest{X: ptr(50.0), Color: ptr("#123456")})
	require.NoError(t, err)
	assert.Equal(t, 50.0, updated.X)
	assert.Equal(t, 2.0, updated.Y)
	assert.Equal(t, "#123456", updated.Color)
	assert.Equal(t, uint(1), *updated.LockedBy)
}

// Delete does not consult the lock. This is a known gap kept on purpose: an
// editor can delete an object another user has locked.
func TestCanvasService_DeleteIgnoresLock(t *testing.T) {
	f := newFixture(t)
	wb := f.whiteboard(t, 1, false)
	f.grant(t, wb.ID, 2, enums.PERMISSION_EDIT)
	obj := f.object(t, wb.ID, 1)

	_, err := f.locks.Lock(f.ctx, as(1), obj.ID)
	require.NoError(t, err)

	require.NoError(t, f.canvas.Delete(f.ctx, as(2), obj.ID))

	_, err = f.objects.FindByID(f.ctx, obj.ID)
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestCanvasService_DeleteRequiresEdit(t *testing.T) {
	f := newFixture(t)
	wb := f.whiteboard(t, 1, true)
	obj := f.object(t, wb.ID, 1)

	assert.ErrorIs(t, f.canvas.Delete(f.ctx, as(5), obj.ID), errs.ErrPermissionDenied)
	assert.ErrorIs(t, f.canvas.Delete(f.ctx, as(1), 4040), errs.ErrObjectNotFound)
}

func TestCanvasService_BulkCreateIsAllOrNothing(t *testing.T) {
	f := newFixture(t)
	wb := f.whiteboard(t, 1, false)

	req := &models.BulkCreateRequest{
		WhiteboardID: wb.ID,
		Objects: []models.CreateCanvasObjectRequest{
			{ObjectType: "rectangle", X: ptr(1.0), Y: ptr(1.0)},
			{ObjectType: "circle", X: ptr(2.0), Y: ptr(2.0)},
			{ObjectType: "arrow", X: ptr(3.0), Y: ptr(3.0)},
			{ObjectType: "triangle", X: ptr(4.0)},
		},
	}

	created, err := f.canvas.BulkCreate(f.ctx, as(1), req)
	require.Error(t, err)
	assert.Nil(t, created)
	assert.Zero(t, f.countObjects(t, wb.ID))

	var itemErr models.BulkItemError
	require.True(t, errors.As(err, &itemErr))
	assert.Equal(t, 3, itemErr.Index)
	assert.ErrorIs(t, err, errs.ErrMissingPosition)

	req.Objects = req.Objects[:3]
	created, err = f.canvas.BulkCreate(f.ctx, as(1), req)
	require.NoError(t, err)
	assert.Len(t, created, 3)
	assert.EqualValues(t, 3, f.countObjects(t, wb.ID))
}

func TestCanvasService_BulkUpdateSkipsAndReports(t *testing.T) {
	f := newFixture(t)
	mine := f.whiteboard(t, 1, false)
	theirs := f.whiteboard(t, 9, false)
	f.grant(t, mine.ID, 2, enums.PERMISSION_EDIT)

	free := f.object(t, mine.ID, 1)
	lockedByOwner := f.object(t, mine.ID, 1)
	forbidden := f.object(t, theirs.ID, 9)
	_, err := f.locks.Lock(f.ctx, as(1), lockedByOwner.ID)
	require.NoError(t, err)

	resp, err := f.canvas.BulkUpdate(f.ctx, as(2), &models.BulkUpdateRequest{
		Updates: []models.BulkUpdateItem{
			{ID: &free.ID, UpdateCanvasObjectRequest: models.UpdateCanvasObjectRequest{X: ptr(99.0)}},
			{UpdateCanvasObjectRequest: models.UpdateCanvasObjectRequest{X: ptr(1.0)}},
			{ID: ptr(uint(777)), UpdateCanvasObjectRequest: models.UpdateCanvasObjectRequest{X: ptr(1.0)}},
			{ID: &forbidden.ID, UpdateCanvasObjectRequest: models.UpdateCanvasObjectRequest{X: ptr(1.0)}},
			{ID: &lockedByOwner.ID, UpdateCanvasObjectRequest: models.UpdateCanvasObjectRequest{X: ptr(1.0)}},
			{ID: &free.ID, UpdateCanvasObjectRequest: models.UpdateCanvasObjectRequest{Color: ptr("nope")}},
		},
	})
	require.NoError(t, err)

	require.Len(t, resp.Updated, 1)
	assert.Equal(t, free.ID, resp.Updated[0].ID)
	assert.Equal(t, 99.0, resp.Updated[0].X)

	require.Len(t, resp.Skipped, 5)
	reasons := map[int]error{1: errs.ErrMissingId, 2: errs.ErrObjectNotFound, 3: errs.ErrPermissionDenied, 4: errs.ErrObjectLocked, 5: errs.ErrInvalidColor}
	for _, skipped := range resp.Skipped {
		assert.ErrorIs(t, skipped, reasons[skipped.Index], "item %d", skipped.Index)
	}

	untouched, err := f.objects.FindByID(f.ctx, lockedByOwner.ID)
	require.NoError(t, err)
	assert.Equal(t, 1.0, untouched.X)
}

func TestCanvasService_BulkDelete(t *testing.T) {
	f := newFixture(t)
	mine := f.whiteboard(t, 1, false)
	theirs := f.whiteboard(t, 9, false)

	a := f.object(t, mine.ID, 1)
	b := f.object(t, mine.ID, 1)
	c := f.object(t, theirs.ID, 9)
	_, err := f.locks.Lock(f.ctx, as(1), b.ID)
	require.NoError(t, err)

	resp, err := f.canvas.BulkDelete(f.ctx, as(1), &models.BulkDeleteRequest{IDs: []uint{a.ID, b.ID, c.ID, 5000}})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Deleted)
	require.Len(t, resp.Skipped, 2)
	assert.ErrorIs(t, resp.Skipped[0], errs.ErrPermissionDenied)
	assert.ErrorIs(t, resp.Skipped[1], errs.ErrObjectNotFound)
	assert.Zero(t, f.countObjects(t, mine.ID))
	assert.EqualValues(t, 1, f.countObjects(t, theirs.ID))
}
