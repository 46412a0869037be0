package services

import (
	"context"

	"collabBoard/internal/enums"
	"collabBoard/internal/errs"
	"collabBoard/internal/hub"
	"collabBoard/internal/logging"
	"collabBoard/internal/models"
	"collabBoard/internal/models/socket"
	"collabBoard/internal/repositories"
)

// LockCoordinator grants and releases advisory edit locks on canvas objects.
// The lock is cooperative: delete ignores it, updates honour it.
type LockCoordinator struct {
	objectRepo  *repositories.CanvasObjectRepository
	permissions *PermissionService
	broadcaster hub.Broadcaster
}

// NewLockCoordinator announces lock changes to the whiteboard room when
// broadcaster is non-nil.
func NewLockCoordinator(
	objectRepo *repositories.CanvasObjectRepository,
	permissions *PermissionService,
	broadcaster hub.Broadcaster,
) *LockCoordinator {
	return &LockCoordinator{
		objectRepo:  objectRepo,
		permissions: permissions,
		broadcaster: broadcaster,
	}
}

// Lock succeeds when the object is unlocked or already held by the caller, in
// which case locked_at is refreshed. Otherwise it returns errs.ErrObjectLocked.
func (lc *LockCoordinator) Lock(ctx context.Context, identity models.Identity, id uint) (*models.CanvasObject, error) {
	object, err := lc.objectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := lc.permissions.Require(ctx, identity, object.WhiteboardID, enums.PERMISSION_EDIT); err != nil {
		return nil, err
	}

	if err := lc.objectRepo.Lock(ctx, id, identity.UserID); err != nil {
		return nil, err
	}

	lc.announce(ctx, object.WhiteboardID, socket.NewObjectLockedEvent(id, identity.UserID))
	return lc.objectRepo.FindByID(ctx, id)
}

// Unlock succeeds when the object is unlocked or held by the caller and returns
// errs.ErrNotLockHolder when someone else holds it.
func (lc *LockCoordinator) Unlock(ctx context.Context, identity models.Identity, id uint) (*models.CanvasObject, error) {
	object, err := lc.objectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := lc.permissions.Require(ctx, identity, object.WhiteboardID, enums.PERMISSION_EDIT); err != nil {
		return nil, err
	}

	if err := lc.objectRepo.Unlock(ctx, id, identity.UserID); err != nil {
		return nil, err
	}

	lc.announce(ctx, object.WhiteboardID, socket.NewObjectUnlockedEvent(id, identity.UserID))
	return lc.objectRepo.FindByID(ctx, id)
}

// CheckMutationAllowed rejects a mutation by userID while another user holds
// the lock.
func (lc *LockCoordinator) CheckMutationAllowed(object *models.CanvasObject, userID uint) error {
	if object.IsLockedByOther(userID) {
		return errs.ErrObjectLocked
	}
	return nil
}

func (lc *LockCoordinator) announce(ctx context.Context, whiteboardID uint, event socket.Event) {
	if lc.broadcaster == nil {
		return
	}
	if err := lc.broadcaster.Broadcast(ctx, whiteboardID, event, hub.Exclude{}); err != nil {
		logging.Warn().Err(err).Uint("whiteboard_id", whiteboardID).Str("event", event.Type()).Msg("failed to announce lock change")
	}
}
