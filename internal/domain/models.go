package domain

import "time"

// Приоритеты бага
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Статусы жизненного цикла бага
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusClosed     Status = "closed"
)

// Bug - основная сущность трекера.
// Инвариант: ResolvedAt заполнен тогда и только тогда, когда Status == closed.
type Bug struct {
	BugID       int64      `json:"bug_id" gorm:"column:bug_id;primaryKey;autoIncrement"`
	Title       string     `json:"title" gorm:"type:varchar(200);not null"`
	Description string     `json:"description" gorm:"type:text;not null"`
	Priority    Priority   `json:"priority" gorm:"type:varchar(16);not null"`
	Status      Status     `json:"status" gorm:"type:varchar(16);not null;default:'open'"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ResolvedAt  *time.Time `json:"resolved_at"`
}

func (Bug) TableName() string { return "bugs" }

// Comment - комментарий к багу. После создания не изменяется.
type Comment struct {
	CommentID int64     `json:"comment_id" gorm:"column:comment_id;primaryKey;autoIncrement"`
	BugID     int64     `json:"bug_id" gorm:"column:bug_id;not null;index"`
	Author    string    `json:"author" gorm:"type:varchar(100);not null"`
	Comment   string    `json:"comment" gorm:"column:comment;type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
	// Связь нужна только для внешнего ключа в схеме, в JSON не отдается
	Bug *Bug `json:"-" gorm:"foreignKey:BugID;references:BugID;constraint:OnDelete:CASCADE"`
}

func (Comment) TableName() string { return "bug_comments" }

// BugUpdate - частичное обновление бага: nil означает "поле не передано".
// Набор полей фиксированный, имена колонок никогда не берутся из запроса.
type BugUpdate struct {
	Title       *string
	Description *string
	Priority    *Priority
	Status      *Status
}

// IsEmpty сообщает, что в запросе не передано ни одного поля
func (u BugUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Priority == nil && u.Status == nil
}
