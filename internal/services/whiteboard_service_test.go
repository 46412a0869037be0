package services

import (
	"testing"

	"collabBoard/internal/enums"
	"collabBoard/internal/errs"
	"collabBoard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhiteboardService_CreateGeneratesShareCode(t *testing.T) {
	f := newFixture(t)

	wb, err := f.whiteboards.Create(f.ctx, as(1), &models.CreateWhiteboardRequest{Name: "  Sprint plan "})
	require.NoError(t, err)
	assert.Equal(t, "Sprint plan", wb.Name)
	assert.Equal(t, uint(1), wb.OwnerID)
	require.NotNil(t, wb.ShareCode)
	assert.Len(t, *wb.ShareCode, 12)

	custom := "team-code"
	wb2, err := f.whiteboards.Create(f.ctx, as(1), &models.CreateWhiteboardRequest{Name: "b", ShareCode: &custom})
	require.NoError(t, err)
	assert.Equal(t, "team-code", *wb2.ShareCode)

	_, err = f.whiteboards.Create(f.ctx, as(1), &models.CreateWhiteboardRequest{Name: " "})
	assert.ErrorIs(t, err, errs.ErrNameRequired)
}

func TestWhiteboardService_ListOwnedAndShared(t *testing.T) {
	f := newFixture(t)
	owned := f.whiteboard(t, 1, false)
	shared := f.whiteboard(t, 2, false)
	f.whiteboard(t, 3, true)
	f.grant(t, shared.ID, 1, enums.PERMISSION_VIEW)
	// A grant on an owned board must not duplicate it.
	f.grant(t, owned.ID, 1, enums.PERMISSION_ADMIN)

	list, err := f.whiteboards.List(f.ctx, as(1))
	require.NoError(t, err)

	var ids []uint
	for _, wb := range list {
		ids = append(ids, wb.ID)
	}
	assert.ElementsMatch(t, []uint{owned.ID, shared.ID}, ids)
}

func TestWhiteboardService_ShareUpserts(t *testing.T) {
	f := newFixture(t)
	wb := f.whiteboard(t, 1, false)

	resp, err := f.whiteboards.Share(f.ctx, as(1), wb.ID, &models.ShareWhiteboardRequest{UserID: 2})
	require.NoError(t, err)
	assert.True(t, resp.Created)
	assert.Equal(t, enums.PERMISSION_VIEW, resp.Permission.PermissionLevel)

	resp, err = f.whiteboards.Share(f.ctx, as(1), wb.ID, &models.ShareWhiteboardRequest{UserID: 2, PermissionLevel: enums.PERMISSION_EDIT})
	require.NoError(t, err)
	assert.False(t, resp.Created)
	assert.Equal(t, enums.PERMISSION_EDIT, resp.Permission.PermissionLevel)

	var count int64
	require.NoError(t, f.db.Model(&models.WhiteboardPermission{}).Where("whiteboard_id = ?", wb.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	_, err = f.whiteboards.Share(f.ctx, as(2), wb.ID, &models.ShareWhiteboardRequest{UserID: 3})
	assert.ErrorIs(t, err, errs.ErrOnlyOwnerCanShare)

	_, err = f.whiteboards.Share(f.ctx, as(1), wb.ID, &models.ShareWhiteboardRequest{UserID: 3, PermissionLevel: "owner"})
	assert.ErrorIs(t, err, errs.ErrInvalidPermissionLevel)
}

func TestWhiteboardService_UpdateNeedsAdmin(t *testing.T) {
	f := newFixture(t)
	wb := f.whiteboard(t, 1, false)
	f.grant(t, wb.ID, 2, enums.PERMISSION_EDIT)
	f.grant(t, wb.ID, 3, enums.PERMISSION_ADMIN)

	_, err := f.whiteboards.Update(f.ctx, as(2), wb.ID, &models.UpdateWhiteboardRequest{Name: ptr("x")})
	assert.ErrorIs(t, err, errs.ErrPermissionDenied)

	updated, err := f.whiteboards.Update(f.ctx, as(3), wb.ID, &models.UpdateWhiteboardRequest{Name: ptr("renamed"), IsPublic: ptr(true)})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)
	assert.True(t, updated.IsPublic)
	assert.False(t, updated.IsArchived)
}

func TestWhiteboardService_DeleteCascades(t *testing.T) {
	f := newFixture(t)
	wb := f.whiteboard(t, 1, false)
	f.grant(t, wb.ID, 2, enums.PERMISSION_ADMIN)
	f.object(t, wb.ID, 1)
	f.object(t, wb.ID, 2)

	assert.ErrorIs(t, f.whiteboards.Delete(f.ctx, as(2), wb.ID), errs.ErrOnlyOwnerCanDelete)
	require.NoError(t, f.whiteboards.Delete(f.ctx, as(1), wb.ID))

	assert.Zero(t, f.countObjects(t, wb.ID))
	grant, err := f.perms.FindGrant(f.ctx, wb.ID, 2)
	require.NoError(t, err)
	assert.Nil(t, grant)

	_, err = f.whiteboards.Get(f.ctx, as(1), wb.ID)
	assert.ErrorIs(t, err, errs.ErrWhiteboardNotFound)
}
