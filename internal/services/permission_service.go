package services

import (
	"context"

	"collabBoard/internal/enums"
	"collabBoard/internal/errs"
	"collabBoard/internal/models"
	"collabBoard/internal/repositories"
)

type PermissionService struct {
	whiteboardRepo *repositories.WhiteboardRepository
	permissionRepo *repositories.PermissionRepository
}

func NewPermissionService(
	whiteboardRepo *repositories.WhiteboardRepository,
	permissionRepo *repositories.PermissionRepository,
) *PermissionService {
	return &PermissionService{
		whiteboardRepo: whiteboardRepo,
		permissionRepo: permissionRepo,
	}
}

// Resolve decides whether userID may act on whiteboard at level. The owner passes
// everything, a public whiteboard passes view for anyone, and otherwise the
// user's explicit grant decides: view needs any grant, edit needs edit or admin,
// admin needs admin.
func (ps *PermissionService) Resolve(
	ctx context.Context,
	whiteboard *models.Whiteboard,
	userID uint,
	level enums.PermissionLevel,
) (bool, error) {
	if whiteboard.OwnerID == userID {
		return true, nil
	}

	if whiteboard.IsPublic && level == enums.PERMISSION_VIEW {
		return true, nil
	}

	grant, err := ps.permissionRepo.FindGrant(ctx, whiteboard.ID, userID)
	if err != nil {
		return false, err
	}
	if grant == nil {
		return false, nil
	}

	switch level {
	case enums.PERMISSION_VIEW:
		return true, nil
	case enums.PERMISSION_EDIT:
		return grant.PermissionLevel == enums.PERMISSION_EDIT || grant.PermissionLevel == enums.PERMISSION_ADMIN, nil
	case enums.PERMISSION_ADMIN:
		return grant.PermissionLevel == enums.PERMISSION_ADMIN, nil
	}
	return false, nil
}

// Require loads the whiteboard and fails with errs.ErrWhiteboardNotFound or
// errs.ErrPermissionDenied unless identity holds level on it.
func (ps *PermissionService) Require(
	ctx context.Context,
	identity models.Identity,
	whiteboardID uint,
	level enums.PermissionLevel,
) (*models.Whiteboard, error) {
	whiteboard, err := ps.whiteboardRepo.FindByID(ctx, whiteboardID)
	if err != nil {
		return nil, err
	}

	allowed, err := ps.Resolve(ctx, whiteboard, identity.UserID, level)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, errs.ErrPermissionDenied
	}
	return whiteboard, nil
}
