package shows

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrShowNotFound      = errors.New("show not found")
	ErrShowAlreadyExists = errors.New("show with this title already exists")
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&Show{})
}

func (r *Repository) Create(ctx context.Context, show *Show) error {
	now := time.Now().UTC()
	show.CreatedAt = now
	show.UpdatedAt = now
	return r.db.WithContext(ctx).Create(show).Error
}

func (r *Repository) CreateBatch(ctx context.Context, batch []*Show) error {
	if len(batch) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for _, show := range batch {
		show.CreatedAt = now
		show.UpdatedAt = now
	}
	return r.db.WithContext(ctx).CreateInBatches(batch, 100).Error
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*Show, error) {
	var show Show
	result := r.db.WithContext(ctx).First(&show, "id = ?", id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrShowNotFound
	}
	return &show, result.Error
}

func (r *Repository) List(ctx context.Context, showType, language string, limit, offset int) ([]Show, error) {
	query := r.db.WithContext(ctx).Model(&Show{}).Order("created_at DESC")
	if showType != "" {
		query = query.Where("type = ?", showType)
	}
	if language != "" {
		query = query.Where("language = ?", language)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var result []Show
	return result, query.Find(&result).Error
}

func (r *Repository) Update(ctx context.Context, show *Show) error {
	show.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Save(show).Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Show{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrShowNotFound
	}
	return nil
}

func (r *Repository) TitleExists(ctx context.Context, title string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Show{}).Where("title = ?", title).Count(&count).Error
	return count > 0, err
}

// ExistingTitles returns which of the given titles are already stored.
func (r *Repository) ExistingTitles(ctx context.Context, titles []string) (map[string]bool, error) {
	existing := make(map[string]bool)
	if len(titles) == 0 {
		return existing, nil
	}
	var found []string
	err := r.db.WithContext(ctx).Model(&Show{}).
		Where("title IN ?", titles).
		Pluck("title", &found).Error
	if err != nil {
		return nil, err
	}
	for _, title := range found {
		existing[title] = true
	}
	return existing, nil
}
