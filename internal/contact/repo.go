package contact

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/daghlis/gallery-backend/internal/repo"
	"github.com/daghlis/gallery-backend/pkg/db/models"
	"github.com/daghlis/gallery-backend/pkg/pagination"
)

// Repository persists contact form submissions.
type Repository interface {
	Create(ctx context.Context, msg *models.ContactMessage) (*models.ContactMessage, error)
	List(ctx context.Context, params pagination.Params) ([]models.ContactMessage, string, error)
}

type repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) Create(ctx context.Context, msg *models.ContactMessage) (*models.ContactMessage, error) {
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)
	}
	if err := r.DB(ctx).Create(msg).Error; err != nil {
		return nil, err
	}
	return msg, nil
}

// List returns newest messages first using keyset pagination on (created_at, id).
func (r *repository) List(ctx context.Context, params pagination.Params) ([]models.ContactMessage, string, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}

	query := r.DB(ctx).Model(&models.ContactMessage{})
	if cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.ContactMessage
	err = query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, "", err
	}

	page, next := pagination.Trim(rows, params.Limit, func(m models.ContactMessage) pagination.Cursor {
		return pagination.Cursor{CreatedAt: m.CreatedAt, ID: m.ID}
	})
	return page, next, nil
}
