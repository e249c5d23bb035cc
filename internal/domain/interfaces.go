package domain

import "context"

// Repository описывает методы работы с базой данных
type Repository interface {
	// Bug methods
	CreateBug(ctx context.Context, bug *Bug) error
	ListBugs(ctx context.Context) ([]Bug, error) // Сортировка: bug_id DESC (новые первыми)
	GetBugByID(ctx context.Context, id int64) (*Bug, error)
	// Обновляет только переданные колонки; ключи map - фиксированный набор из сервиса
	UpdateBugFields(ctx context.Context, id int64, fields map[string]interface{}) (*Bug, error)
	BugExists(ctx context.Context, id int64) (bool, error)

	// Comment methods
	CreateComment(ctx context.Context, comment *Comment) error
	ListCommentsByBug(ctx context.Context, bugID int64) ([]Comment, error) // created_at ASC
}

// Service описывает бизнес-логику (то, что вызывается из HTTP хендлеров)
type Service interface {
	// Баги
	CreateBug(ctx context.Context, title, description string, priority Priority, status Status) (*Bug, error)
	ListBugs(ctx context.Context) ([]Bug, error)
	GetBug(ctx context.Context, id int64) (*Bug, error)
	UpdateBug(ctx context.Context, id int64, upd BugUpdate) (*Bug, error)

	// Комментарии
	AddComment(ctx context.Context, bugID int64, author, text string) (*Comment, error)
	ListComments(ctx context.Context, bugID int64) ([]Comment, error)
}
