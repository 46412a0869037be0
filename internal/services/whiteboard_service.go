package services

import (
	"context"
	"strings"

	"collabBoard/internal/enums"
	"collabBoard/internal/errs"
	"collabBoard/internal/models"
	"collabBoard/internal/repositories"
)

type WhiteboardService struct {
	whiteboardRepo *repositories.WhiteboardRepository
	permissionRepo *repositories.PermissionRepository
	permissions    *PermissionService
}

func NewWhiteboardService(
	whiteboardRepo *repositories.WhiteboardRepository,
	permissionRepo *repositories.PermissionRepository,
	permissions *PermissionService,
) *WhiteboardService {
	return &WhiteboardService{
		whiteboardRepo: whiteboardRepo,
		permissionRepo: permissionRepo,
		permissions:    permissions,
	}
}

func (ws *WhiteboardService) List(ctx context.Context, identity models.Identity) ([]models.Whiteboard, error) {
	return ws.whiteboardRepo.ListForUser(ctx, identity.UserID)
}

func (ws *WhiteboardService) Create(ctx context.Context, identity models.Identity, req *models.CreateWhiteboardRequest) (*models.Whiteboard, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errs.ValidationErrors{errs.ErrNameRequired}
	}

	whiteboard := &models.Whiteboard{
		Name:      name,
		OwnerID:   identity.UserID,
		IsPublic:  req.IsPublic,
		ShareCode: req.ShareCode,
	}
	if err := ws.whiteboardRepo.Create(ctx, whiteboard); err != nil {
		return nil, err
	}
	return whiteboard, nil
}

func (ws *WhiteboardService) Get(ctx context.Context, identity models.Identity, id uint) (*models.Whiteboard, error) {
	return ws.permissions.Require(ctx, identity, id, enums.PERMISSION_VIEW)
}

func (ws *WhiteboardService) Update(
	ctx context.Context,
	identity models.Identity,
	id uint,
	req *models.UpdateWhiteboardRequest,
) (*models.Whiteboard, error) {
	whiteboard, err := ws.permissions.Require(ctx, identity, id, enums.PERMISSION_ADMIN)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]any)
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, errs.ValidationErrors{errs.ErrNameRequired}
		}
		fields["name"] = name
	}
	if req.IsArchived != nil {
		fields["is_archived"] = *req.IsArchived
	}
	if req.IsPublic != nil {
		fields["is_public"] = *req.IsPublic
	}

	if err := ws.whiteboardRepo.Update(ctx, whiteboard, fields); err != nil {
		return nil, err
	}
	return ws.whiteboardRepo.FindByID(ctx, id)
}

// Delete is reserved to the owner and removes every object and grant with it.
func (ws *WhiteboardService) Delete(ctx context.Context, identity models.Identity, id uint) error {
	whiteboard, err := ws.whiteboardRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if whiteboard.OwnerID != identity.UserID {
		return errs.ErrOnlyOwnerCanDelete
	}
	return ws.whiteboardRepo.Delete(ctx, id)
}

// Share grants a user a permission level. Only the owner may share; sharing
// again with the same user overwrites the previous level.
func (ws *WhiteboardService) Share(
	ctx context.Context,
	identity models.Identity,
	id uint,
	req *models.ShareWhiteboardRequest,
) (*models.ShareWhiteboardResponse, error) {
	whiteboard, err := ws.whiteboardRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if whiteboard.OwnerID != identity.UserID {
		return nil, errs.ErrOnlyOwnerCanShare
	}

	level := req.PermissionLevel
	if level == "" {
		level = enums.PERMISSION_VIEW
	}

	var validationErrs errs.ValidationErrors
	if req.UserID == 0 {
		validationErrs = append(validationErrs, errs.ErrInvalidUserId)
	}
	if !level.IsValid() {
		validationErrs = append(validationErrs, errs.ErrInvalidPermissionLevel)
	}
	if len(validationErrs) > 0 {
		return nil, validationErrs
	}

	permission, created, err := ws.permissionRepo.Upsert(ctx, id, req.UserID, level)
	if err != nil {
		return nil, err
	}
	return &models.ShareWhiteboardResponse{
		Permission: *permission,
		Created:    created,
	}, nil
}
