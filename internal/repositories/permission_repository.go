package repositories

import (
	"context"
	"errors"

	"collabBoard/internal/enums"
	"collabBoard/internal/models"

	"gorm.io/gorm"
)

type PermissionRepository struct {
	db *gorm.DB
}

func NewPermissionRepository(db *gorm.DB) *PermissionRepository {
	return &PermissionRepository{
		db: db,
	}
}

// FindGrant returns nil without error when the user holds no grant.
func (pr *PermissionRepository) FindGrant(ctx context.Context, whiteboardID, userID uint) (*models.WhiteboardPermission, error) {
	var permission models.WhiteboardPermission
	err := pr.db.WithContext(ctx).
		Where("whiteboard_id = ? AND user_id = ?", whiteboardID, userID).
		First(&permission).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &permission, nil
}

// Upsert grants level to the user, overwriting an existing grant. created reports
// whether a new row was inserted.
func (pr *PermissionRepository) Upsert(
	ctx context.Context,
	whiteboardID, userID uint,
	level enums.PermissionLevel,
) (permission *models.WhiteboardPermission, created bool, err error) {
	err = pr.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.WhiteboardPermission
		findErr := tx.Where("whiteboard_id = ? AND user_id = ?", whiteboardID, userID).First(&existing).Error
		switch {
		case findErr == nil:
			existing.PermissionLevel = level
			if err := tx.Model(&existing).Update("permission_level", level).Error; err != nil {
				return err
			}
			permission = &existing
			return nil
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			permission = &models.WhiteboardPermission{
				WhiteboardID:    whiteboardID,
				UserID:          userID,
				PermissionLevel: level,
			}
			created = true
			return tx.Create(permission).Error
		default:
			return findErr
		}
	})
	if err != nil {
		return nil, false, err
	}
	return permission, created, nil
}
