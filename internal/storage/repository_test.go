package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/jam7519/bugtracker-api/internal/domain"
	"github.com/jam7519/bugtracker-api/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestRepository(t *testing.T) *storage.Repository {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(&domain.Bug{}, &domain.Comment{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return storage.NewRepository(db)
}

// seedBug вставляет баг с заданным статусом и возвращает его
func seedBug(t *testing.T, repo *storage.Repository, title string, status domain.Status) *domain.Bug {
	now := time.Now().UTC()
	bug := &domain.Bug{
		Title:       title,
		Description: "seeded by test",
		Priority:    domain.PriorityMedium,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if status == domain.StatusClosed {
		bug.ResolvedAt = &now
	}
	require.NoError(t, repo.CreateBug(context.Background(), bug))
	require.NotZero(t, bug.BugID, "insert must assign bug_id")
	return bug
}

func TestGetBugByID(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	seeded := seedBug(t, repo, "Stored bug", domain.StatusOpen)

	got, err := repo.GetBugByID(ctx, seeded.BugID)
	require.NoError(t, err)
	assert.Equal(t, seeded.BugID, got.BugID)
	assert.Equal(t, "Stored bug", got.Title)
	assert.Nil(t, got.ResolvedAt)
}

func TestGetBugByIDNotFound(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.GetBugByID(context.Background(), 12345)
	assert.ErrorIs(t, err, domain.ErrBugNotFound)
}

func TestListBugsOrderedByIDDesc(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	b1 := seedBug(t, repo, "oldest", domain.StatusOpen)
	b2 := seedBug(t, repo, "middle", domain.StatusOpen)
	b3 := seedBug(t, repo, "newest", domain.StatusOpen)

	bugs, err := repo.ListBugs(ctx)
	require.NoError(t, err)
	require.Len(t, bugs, 3)
	assert.Equal(t, []int64{b3.BugID, b2.BugID, b1.BugID}, []int64{bugs[0].BugID, bugs[1].BugID, bugs[2].BugID})
}

func TestUpdateBugFieldsPartial(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	seeded := seedBug(t, repo, "Before update", domain.StatusOpen)

	// Обновляем только title и updated_at, остальные колонки не трогаем
	now := time.Now().UTC()
	updated, err := repo.UpdateBugFields(ctx, seeded.BugID, map[string]interface{}{
		"title":      "After update",
		"updated_at": now,
	})
	require.NoError(t, err)
	assert.Equal(t, "After update", updated.Title)
	assert.Equal(t, seeded.Description, updated.Description)
	assert.Equal(t, seeded.Priority, updated.Priority)
	assert.Equal(t, seeded.Status, updated.Status)
}

func TestUpdateBugFieldsResolvedAt(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	seeded := seedBug(t, repo, "Closable", domain.StatusOpen)

	// Проставление resolved_at вместе со сменой статуса
	now := time.Now().UTC()
	updated, err := repo.UpdateBugFields(ctx, seeded.BugID, map[string]interface{}{
		"status":      domain.StatusClosed,
		"resolved_at": &now,
		"updated_at":  now,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusClosed, updated.Status)
	require.NotNil(t, updated.ResolvedAt)

	// Сброс resolved_at в NULL через nil-указатель
	later := time.Now().UTC()
	updated, err = repo.UpdateBugFields(ctx, seeded.BugID, map[string]interface{}{
		"status":      domain.StatusOpen,
		"resolved_at": (*time.Time)(nil),
		"updated_at":  later,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOpen, updated.Status)
	assert.Nil(t, updated.ResolvedAt)
}

func TestUpdateBugFieldsNotFound(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.UpdateBugFields(context.Background(), 9999, map[string]interface{}{
		"title":      "ghost",
		"updated_at": time.Now().UTC(),
	})
	assert.ErrorIs(t, err, domain.ErrBugNotFound)
}

func TestBugExists(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	seeded := seedBug(t, repo, "Exists", domain.StatusOpen)

	exists, err := repo.BugExists(ctx, seeded.BugID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.BugExists(ctx, seeded.BugID+1000)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCommentsScopedToBugAndOrdered(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	bugA := seedBug(t, repo, "Bug A", domain.StatusOpen)
	bugB := seedBug(t, repo, "Bug B", domain.StatusOpen)

	// Комментарии с заданными временами, вставленные не по порядку
	base := time.Now().UTC()
	mkComment := func(bugID int64, author string, offset time.Duration) {
		c := &domain.Comment{
			BugID:     bugID,
			Author:    author,
			Comment:   "comment by " + author,
			CreatedAt: base.Add(offset),
		}
		require.NoError(t, repo.CreateComment(ctx, c))
	}

	mkComment(bugA.BugID, "second", 2*time.Second)
	mkComment(bugA.BugID, "first", 1*time.Second)
	mkComment(bugB.BugID, "other-bug", 0)
	mkComment(bugA.BugID, "third", 3*time.Second)

	comments, err := repo.ListCommentsByBug(ctx, bugA.BugID)
	require.NoError(t, err)
	require.Len(t, comments, 3, "must only return comments of the requested bug")

	// created_at ASC независимо от порядка вставки
	assert.Equal(t, "first", comments[0].Author)
	assert.Equal(t, "second", comments[1].Author)
	assert.Equal(t, "third", comments[2].Author)
	for _, c := range comments {
		assert.Equal(t, bugA.BugID, c.BugID)
	}
}

func TestListCommentsEmptyForUnknownBug(t *testing.T) {
	repo := newTestRepository(t)

	comments, err := repo.ListCommentsByBug(context.Background(), 555)
	require.NoError(t, err)
	assert.Empty(t, comments)
}
