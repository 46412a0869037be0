package repositories

import (
	"context"
	"errors"
	"time"

	"collabBoard/internal/enums"
	"collabBoard/internal/errs"
	"collabBoard/internal/models"

	"gorm.io/gorm"
)

const unlockedOrHeldBy = "id = ? AND (locked_by IS NULL OR locked_by = ?)"

type CanvasObjectRepository struct {
	db *gorm.DB
}

func NewCanvasObjectRepository(db *gorm.DB) *CanvasObjectRepository {
	return &CanvasObjectRepository{
		db: db,
	}
}

// Transaction runs fn with a repository bound to one database transaction.
// Returning an error from fn rolls everything back.
func (cr *CanvasObjectRepository) Transaction(ctx context.Context, fn func(repo *CanvasObjectRepository) error) error {
	return cr.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&CanvasObjectRepository{db: tx})
	})
}

func (cr *CanvasObjectRepository) List(ctx context.Context, whiteboardID uint, objectType enums.ObjectType) ([]models.CanvasObject, error) {
	query := cr.db.WithContext(ctx).Where("whiteboard_id = ?", whiteboardID)
	if objectType != "" {
		query = query.Where("object_type = ?", objectType)
	}

	var objects []models.CanvasObject
	if err := query.Order("z_index ASC").Order("created_at ASC").Order("id ASC").Find(&objects).Error; err != nil {
		return nil, err
	}
	return objects, nil
}

func (cr *CanvasObjectRepository) FindByID(ctx context.Context, id uint) (*models.CanvasObject, error) {
	var object models.CanvasObject
	err := cr.db.WithContext(ctx).First(&object, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.ErrObjectNotFound
	}
	if err != nil {
		return nil, err
	}
	return &object, nil
}

func (cr *CanvasObjectRepository) FindByIDs(ctx context.Context, ids []uint) (map[uint]models.CanvasObject, error) {
	var objects []models.CanvasObject
	if len(ids) > 0 {
		if err := cr.db.WithContext(ctx).Where("id IN ?", ids).Find(&objects).Error; err != nil {
			return nil, err
		}
	}
	found := make(map[uint]models.CanvasObject, len(objects))
	for _, object := range objects {
		found[object.ID] = object
	}
	return found, nil
}

func (cr *CanvasObjectRepository) Create(ctx context.Context, object *models.CanvasObject) error {
	return cr.db.WithContext(ctx).Create(object).Error
}

// UpdateUnlessLocked applies fields only while the object is unlocked or locked by
// userID. It returns errs.ErrObjectLocked when another user holds the lock.
func (cr *CanvasObjectRepository) UpdateUnlessLocked(ctx context.Context, id, userID uint, fields map[string]any) error {
	if len(fields) == 0 {
		fields = map[string]any{}
	}
	fields["updated_at"] = time.Now()
	return cr.conditionalUpdate(ctx, id, userID, fields, errs.ErrObjectLocked)
}

// Lock records userID as holder. Locking an object already held by userID
// refreshes locked_at.
func (cr *CanvasObjectRepository) Lock(ctx context.Context, id, userID uint) error {
	return cr.conditionalUpdate(ctx, id, userID, map[string]any{
		"locked_by": userID,
		"locked_at": time.Now(),
	}, errs.ErrObjectLocked)
}

// Unlock clears locked_by and locked_at in one statement.
func (cr *CanvasObjectRepository) Unlock(ctx context.Context, id, userID uint) error {
	return cr.conditionalUpdate(ctx, id, userID, map[string]any{
		"locked_by": nil,
		"locked_at": nil,
	}, errs.ErrNotLockHolder)
}

func (cr *CanvasObjectRepository) Delete(ctx context.Context, id uint) error {
	result := cr.db.WithContext(ctx).Delete(&models.CanvasObject{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.ErrObjectNotFound
	}
	return nil
}

func (cr *CanvasObjectRepository) conditionalUpdate(ctx context.Context, id, userID uint, fields map[string]any, heldErr error) error {
	result := cr.db.WithContext(ctx).
		Model(&models.CanvasObject{}).
		Where(unlockedOrHeldBy, id, userID).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// Nothing matched: either the object is gone or someone else holds it.
	if _, err := cr.FindByID(ctx, id); err != nil {
		return err
	}
	return heldErr
}
