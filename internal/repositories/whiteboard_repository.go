package repositories

import (
	"context"
	"errors"

	"collabBoard/internal/errs"
	"collabBoard/internal/models"

	"gorm.io/gorm"
)

type WhiteboardRepository struct {
	db *gorm.DB
}

func NewWhiteboardRepository(db *gorm.DB) *WhiteboardRepository {
	return &WhiteboardRepository{
		db: db,
	}
}

func (wr *WhiteboardRepository) Create(ctx context.Context, whiteboard *models.Whiteboard) error {
	return wr.db.WithContext(ctx).Create(whiteboard).Error
}

func (wr *WhiteboardRepository) FindByID(ctx context.Context, id uint) (*models.Whiteboard, error) {
	var whiteboard models.Whiteboard
	err := wr.db.WithContext(ctx).First(&whiteboard, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.ErrWhiteboardNotFound
	}
	if err != nil {
		return nil, err
	}
	return &whiteboard, nil
}

// ListForUser returns whiteboards the user owns or holds any grant on, most
// recently updated first.
func (wr *WhiteboardRepository) ListForUser(ctx context.Context, userID uint) ([]models.Whiteboard, error) {
	var whiteboards []models.Whiteboard
	shared := wr.db.Model(&models.WhiteboardPermission{}).Select("whiteboard_id").Where("user_id = ?", userID)
	err := wr.db.WithContext(ctx).
		Where("owner_id = ?", userID).
		Or("id IN (?)", shared).
		Order("updated_at DESC").
		Find(&whiteboards).Error
	if err != nil {
		return nil, err
	}
	return whiteboards, nil
}

func (wr *WhiteboardRepository) Update(ctx context.Context, whiteboard *models.Whiteboard, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return wr.db.WithContext(ctx).Model(whiteboard).Updates(fields).Error
}

// Delete removes the whiteboard together with its canvas objects and grants.
func (wr *WhiteboardRepository) Delete(ctx context.Context, id uint) error {
	return wr.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("whiteboard_id = ?", id).Delete(&models.CanvasObject{}).Error; err != nil {
			return err
		}
		if err := tx.Where("whiteboard_id = ?", id).Delete(&models.WhiteboardPermission{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Whiteboard{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errs.ErrWhiteboardNotFound
		}
		return nil
	})
}
