package services

import (
	"context"
	"errors"

	"collabBoard/internal/enums"
	"collabBoard/internal/errs"
	"collabBoard/internal/models"
	"collabBoard/internal/repositories"
	"collabBoard/internal/validators"

	"gorm.io/datatypes"
)

const (
	defaultColor       = "#000000"
	defaultStrokeWidth = 2
)

type CanvasService struct {
	objectRepo  *repositories.CanvasObjectRepository
	permissions *PermissionService
	locks       *LockCoordinator
}

func NewCanvasService(
	objectRepo *repositories.CanvasObjectRepository,
	permissions *PermissionService,
	locks *LockCoordinator,
) *CanvasService {
	return &CanvasService{
		objectRepo:  objectRepo,
		permissions: permissions,
		locks:       locks,
	}
}

// List returns a whiteboard's objects ordered by z_index then creation time,
// optionally filtered by type.
func (cs *CanvasService) List(
	ctx context.Context,
	identity models.Identity,
	whiteboardID uint,
	objectType enums.ObjectType,
) ([]models.CanvasObject, error) {
	if whiteboardID == 0 {
		return nil, errs.ValidationErrors{errs.ErrWhiteboardRequired}
	}
	if _, err := cs.permissions.Require(ctx, identity, whiteboardID, enums.PERMISSION_VIEW); err != nil {
		return nil, err
	}
	return cs.objectRepo.List(ctx, whiteboardID, objectType)
}

func (cs *CanvasService) Create(ctx context.Context, identity models.Identity, req *models.CreateCanvasObjectRequest) (*models.CanvasObject, error) {
	if req.WhiteboardID == 0 {
		return nil, errs.ValidationErrors{errs.ErrWhiteboardRequired}
	}
	if _, err := cs.permissions.Require(ctx, identity, req.WhiteboardID, enums.PERMISSION_EDIT); err != nil {
		return nil, err
	}
	if validationErrs := validators.ValidateCreateCanvasObject(req); len(validationErrs) > 0 {
		return nil, errs.ValidationErrors(validationErrs)
	}

	object := newCanvasObject(req, identity.UserID)
	if err := cs.objectRepo.Create(ctx, object); err != nil {
		return nil, err
	}
	return object, nil
}

func (cs *CanvasService) Get(ctx context.Context, identity models.Identity, id uint) (*models.CanvasObject, error) {
	object, err := cs.objectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := cs.permissions.Require(ctx, identity, object.WhiteboardID, enums.PERMISSION_VIEW); err != nil {
		return nil, err
	}
	return object, nil
}

// Update applies a partial update. The caller needs edit permission, and the
// object must not be locked by another user.
func (cs *CanvasService) Update(
	ctx context.Context,
	identity models.Identity,
	id uint,
	req *models.UpdateCanvasObjectRequest,
) (*models.CanvasObject, error) {
	object, err := cs.objectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := cs.permissions.Require(ctx, identity, object.WhiteboardID, enums.PERMISSION_EDIT); err != nil {
		return nil, err
	}
	if err := cs.locks.CheckMutationAllowed(object, identity.UserID); err != nil {
		return nil, err
	}
	if validationErrs := validators.ValidateUpdateCanvasObject(req); len(validationErrs) > 0 {
		return nil, errs.ValidationErrors(validationErrs)
	}

	// The conditional update closes the gap between the check above and the write.
	if err := cs.objectRepo.UpdateUnlessLocked(ctx, id, identity.UserID, updateFields(req)); err != nil {
		return nil, err
	}
	return cs.objectRepo.FindByID(ctx, id)
}

// Delete needs edit permission only. It does not consult the lock, so an editor
// can delete an object someone else has locked.
func (cs *CanvasService) Delete(ctx context.Context, identity models.Identity, id uint) error {
	object, err := cs.objectRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := cs.permissions.Require(ctx, identity, object.WhiteboardID, enums.PERMISSION_EDIT); err != nil {
		return err
	}
	return cs.objectRepo.Delete(ctx, id)
}

// BulkCreate inserts every object in one transaction. The first invalid item
// rolls the whole batch back and is reported with its index.
func (cs *CanvasService) BulkCreate(ctx context.Context, identity models.Identity, req *models.BulkCreateRequest) ([]models.CanvasObject, error) {
	if req.WhiteboardID == 0 {
		return nil, errs.ValidationErrors{errs.ErrWhiteboardRequired}
	}
	if _, err := cs.permissions.Require(ctx, identity, req.WhiteboardID, enums.PERMISSION_EDIT); err != nil {
		return nil, err
	}

	created := make([]models.CanvasObject, 0, len(req.Objects))
	err := cs.objectRepo.Transaction(ctx, func(repo *repositories.CanvasObjectRepository) error {
		for i := range req.Objects {
			item := req.Objects[i]
			item.WhiteboardID = req.WhiteboardID
			if validationErrs := validators.ValidateCreateCanvasObject(&item); len(validationErrs) > 0 {
				return errs.ValidationErrors{models.NewBulkItemError(i, nil, validationErrs[0])}
			}

			object := newCanvasObject(&item, identity.UserID)
			if err := repo.Create(ctx, object); err != nil {
				return err
			}
			created = append(created, *object)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// BulkUpdate applies each item independently inside one transaction. Items
// without an id, missing, forbidden, locked by someone else or invalid are
// skipped and reported; the rest commit.
func (cs *CanvasService) BulkUpdate(ctx context.Context, identity models.Identity, req *models.BulkUpdateRequest) (*models.BulkUpdateResponse, error) {
	ids := make([]uint, 0, len(req.Updates))
	for _, item := range req.Updates {
		if item.ID != nil {
			ids = append(ids, *item.ID)
		}
	}
	objects, err := cs.objectRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	access := cs.editAccess(ctx, identity, objects)

	response := &models.BulkUpdateResponse{
		Updated: []models.CanvasObject{},
		Skipped: []models.BulkItemError{},
	}
	var updatedIDs []uint

	err = cs.objectRepo.Transaction(ctx, func(repo *repositories.CanvasObjectRepository) error {
		for i, item := range req.Updates {
			if item.ID == nil {
				response.Skipped = append(response.Skipped, models.NewBulkItemError(i, nil, errs.ErrMissingId))
				continue
			}

			object, ok := objects[*item.ID]
			if !ok {
				response.Skipped = append(response.Skipped, models.NewBulkItemError(i, item.ID, errs.ErrObjectNotFound))
				continue
			}
			if err := access[object.WhiteboardID]; err != nil {
				response.Skipped = append(response.Skipped, models.NewBulkItemError(i, item.ID, err))
				continue
			}
			if validationErrs := validators.ValidateUpdateCanvasObject(&item.UpdateCanvasObjectRequest); len(validationErrs) > 0 {
				response.Skipped = append(response.Skipped, models.NewBulkItemError(i, item.ID, validationErrs[0]))
				continue
			}

			err := repo.UpdateUnlessLocked(ctx, *item.ID, identity.UserID, updateFields(&item.UpdateCanvasObjectRequest))
			switch {
			case err == nil:
				updatedIDs = append(updatedIDs, *item.ID)
			case errors.Is(err, errs.ErrObjectLocked), errors.Is(err, errs.ErrObjectNotFound):
				response.Skipped = append(response.Skipped, models.NewBulkItemError(i, item.ID, err))
			default:
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	updated, err := cs.objectRepo.FindByIDs(ctx, updatedIDs)
	if err != nil {
		return nil, err
	}
	seen := make(map[uint]bool, len(updatedIDs))
	for _, id := range updatedIDs {
		if object, ok := updated[id]; ok && !seen[id] {
			seen[id] = true
			response.Updated = append(response.Updated, object)
		}
	}
	return response, nil
}

// BulkDelete removes every permitted object in one transaction. Like Delete it
// ignores locks. Missing or forbidden ids are skipped.
func (cs *CanvasService) BulkDelete(ctx context.Context, identity models.Identity, req *models.BulkDeleteRequest) (*models.BulkDeleteResponse, error) {
	objects, err := cs.objectRepo.FindByIDs(ctx, req.IDs)
	if err != nil {
		return nil, err
	}
	access := cs.editAccess(ctx, identity, objects)

	response := &models.BulkDeleteResponse{}
	err = cs.objectRepo.Transaction(ctx, func(repo *repositories.CanvasObjectRepository) error {
		for i, id := range req.IDs {
			id := id
			object, ok := objects[id]
			if !ok {
				response.Skipped = append(response.Skipped, models.NewBulkItemError(i, &id, errs.ErrObjectNotFound))
				continue
			}
			if err := access[object.WhiteboardID]; err != nil {
				response.Skipped = append(response.Skipped, models.NewBulkItemError(i, &id, err))
				continue
			}

			err := repo.Delete(ctx, id)
			switch {
			case err == nil:
				response.Deleted++
			case errors.Is(err, errs.ErrObjectNotFound):
				response.Skipped = append(response.Skipped, models.NewBulkItemError(i, &id, err))
			default:
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// editAccess resolves edit permission once per whiteboard touched by objects.
// A nil entry means access is granted.
func (cs *CanvasService) editAccess(ctx context.Context, identity models.Identity, objects map[uint]models.CanvasObject) map[uint]error {
	access := make(map[uint]error)
	for _, object := range objects {
		if _, done := access[object.WhiteboardID]; done {
			continue
		}
		_, err := cs.permissions.Require(ctx, identity, object.WhiteboardID, enums.PERMISSION_EDIT)
		access[object.WhiteboardID] = err
	}
	return access
}

func newCanvasObject(req *models.CreateCanvasObjectRequest, createdBy uint) *models.CanvasObject {
	object := &models.CanvasObject{
		WhiteboardID: req.WhiteboardID,
		ObjectType:   req.ObjectType,
		X:            *req.X,
		Y:            *req.Y,
		Width:        req.Width,
		Height:       req.Height,
		Color:        req.Color,
		StrokeWidth:  defaultStrokeWidth,
		Data:         req.Data,
		CreatedBy:    createdBy,
	}
	if object.Color == "" {
		object.Color = defaultColor
	}
	if req.StrokeWidth != nil {
		object.StrokeWidth = *req.StrokeWidth
	}
	if req.ZIndex != nil {
		object.ZIndex = *req.ZIndex
	}
	if len(object.Data) == 0 || string(object.Data) == "null" {
		object.Data = datatypes.JSON("{}")
	}
	return object
}

func updateFields(req *models.UpdateCanvasObjectRequest) map[string]any {
	fields := make(map[string]any)
	if req.X != nil {
		fields["x"] = *req.X
	}
	if req.Y != nil {
		fields["y"] = *req.Y
	}
	if req.Width != nil {
		fields["width"] = *req.Width
	}
	if req.Height != nil {
		fields["height"] = *req.Height
	}
	if req.Color != nil {
		fields["color"] = *req.Color
	}
	if req.StrokeWidth != nil {
		fields["stroke_width"] = *req.StrokeWidth
	}
	if req.ZIndex != nil {
		fields["z_index"] = *req.ZIndex
	}
	if req.Data != nil {
		fields["data"] = *req.Data
	}
	return fields
}
