package storage

import (
	"context"

	"github.com/jam7519/bugtracker-api/internal/domain"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// --- Bug ---

func (r *Repository) CreateBug(ctx context.Context, bug *domain.Bug) error {
	// Create выполняется в собственной автокоммит-транзакции gorm
	return r.db.WithContext(ctx).Create(bug).Error
}

func (r *Repository) ListBugs(ctx context.Context) ([]domain.Bug, error) {
	var bugs []domain.Bug
	// Новые баги первыми
	err := r.db.WithContext(ctx).Order("bug_id DESC").Find(&bugs).Error
	return bugs, err
}

func (r *Repository) GetBugByID(ctx context.Context, id int64) (*domain.Bug, error) {
	var bug domain.Bug
	err := r.db.WithContext(ctx).Where("bug_id = ?", id).First(&bug).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrBugNotFound
		}
		return nil, err
	}
	return &bug, nil
}

func (r *Repository) UpdateBugFields(ctx context.Context, id int64, fields map[string]interface{}) (*domain.Bug, error) {
	// Ключи map приходят только из фиксированного списка в сервисе,
	// значения передаются через параметры - конкатенации SQL здесь нет
	result := r.db.WithContext(ctx).Model(&domain.Bug{}).Where("bug_id = ?", id).Updates(fields)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, domain.ErrBugNotFound
	}

	// Перечитываем строку, чтобы вернуть актуальное состояние (аналог RETURNING)
	return r.GetBugByID(ctx, id)
}

func (r *Repository) BugExists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Bug{}).Where("bug_id = ?", id).Count(&count).Error
	return count > 0, err
}

// --- Comment ---

func (r *Repository) CreateComment(ctx context.Context, comment *domain.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *Repository) ListCommentsByBug(ctx context.Context, bugID int64) ([]domain.Comment, error) {
	var comments []domain.Comment
	// Комментарии отдаем в порядке создания
	err := r.db.WithContext(ctx).Where("bug_id = ?", bugID).Order("created_at ASC").Find(&comments).Error
	return comments, err
}
