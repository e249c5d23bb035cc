package service

import (
	"context"
	"time"

	"github.com/jam7519/bugtracker-api/internal/domain"
	"go.uber.org/zap"
)

type Manager struct {
	repo   domain.Repository
	logger *zap.Logger
}

func NewManager(repo domain.Repository, logger *zap.Logger) *Manager {
	return &Manager{repo: repo, logger: logger}
}

// --- Bug Logic ---

func (s *Manager) CreateBug(ctx context.Context, title, description string, priority domain.Priority, status domain.Status) (*domain.Bug, error) {
	// Статус по умолчанию - open (поле в запросе можно не передавать)
	if status == "" {
		status = domain.StatusOpen
	}

	now := time.Now().UTC()
	bug := &domain.Bug{
		Title:       title,
		Description: description,
		Priority:    priority,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
		// Баг, созданный сразу закрытым, считается разрешенным в момент создания
		ResolvedAt: resolvedAtFor(status, now),
	}

	if err := s.repo.CreateBug(ctx, bug); err != nil {
		return nil, err
	}

	s.logger.Info("Bug created",
		zap.Int64("bug_id", bug.BugID),
		zap.String("priority", string(bug.Priority)),
		zap.String("status", string(bug.Status)))
	return bug, nil
}

func (s *Manager) ListBugs(ctx context.Context) ([]domain.Bug, error) {
	return s.repo.ListBugs(ctx)
}

func (s *Manager) GetBug(ctx context.Context, id int64) (*domain.Bug, error) {
	return s.repo.GetBugByID(ctx, id)
}

func (s *Manager) UpdateBug(ctx context.Context, id int64, upd domain.BugUpdate) (*domain.Bug, error) {
	if upd.IsEmpty() {
		return nil, domain.ErrEmptyUpdate
	}

	now := time.Now().UTC()

	// Собираем только переданные поля. Имена колонок заданы здесь
	// фиксированным списком и никогда не приходят из запроса.
	fields := make(map[string]interface{})
	if upd.Title != nil {
		fields["title"] = *upd.Title
	}
	if upd.Description != nil {
		fields["description"] = *upd.Description
	}
	if upd.Priority != nil {
		fields["priority"] = *upd.Priority
	}
	if upd.Status != nil {
		fields["status"] = *upd.Status
		// Смена статуса пересчитывает resolved_at: closed проставляет метку,
		// любой другой статус сбрасывает ее в NULL
		fields["resolved_at"] = resolvedAtFor(*upd.Status, now)
	}
	// updated_at двигаем при каждом обновлении
	fields["updated_at"] = now

	bug, err := s.repo.UpdateBugFields(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Bug updated", zap.Int64("bug_id", id), zap.String("status", string(bug.Status)))
	return bug, nil
}

// --- Comment Logic ---

func (s *Manager) AddComment(ctx context.Context, bugID int64, author, text string) (*domain.Comment, error) {
	// Проверяем родительский баг до вставки: комментарий к несуществующему
	// багу не должен оставить строку в базе
	exists, err := s.repo.BugExists(ctx, bugID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrBugNotFound
	}

	comment := &domain.Comment{
		BugID:     bugID,
		Author:    author,
		Comment:   text,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	s.logger.Info("Comment added", zap.Int64("bug_id", bugID), zap.Int64("comment_id", comment.CommentID))
	return comment, nil
}

func (s *Manager) ListComments(ctx context.Context, bugID int64) ([]domain.Comment, error) {
	return s.repo.ListCommentsByBug(ctx, bugID)
}

// --- Helpers ---

// resolvedAtFor реализует инвариант: resolved_at заполнен тогда и только
// тогда, когда баг закрыт
func resolvedAtFor(status domain.Status, now time.Time) *time.Time {
	if status == domain.StatusClosed {
		return &now
	}
	return nil
}
