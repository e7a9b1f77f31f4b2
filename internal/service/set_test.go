package service

import (
	"testing"
	"time"

	"flashcards/internal/apperr"
	"flashcards/internal/models"
	"flashcards/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSetRepo struct {
	sets   []models.FlashcardSet
	nextID int64
	now    func() time.Time
}

func (f *fakeSetRepo) clock() time.Time {
	if f.now != nil {
		return f.now()
	}
	return time.Now()
}

func (f *fakeSetRepo) CreateCapped(userID int64, name string, start, end time.Time, limit int) (*models.FlashcardSet, error) {
	count := 0
	for _, set := range f.sets {
		if set.UserID == userID && !set.CreatedAt.Before(start) && set.CreatedAt.Before(end) {
			count++
		}
	}
	if count >= limit {
		return nil, repository.ErrLimitReached
	}
	f.nextID++
	set := models.FlashcardSet{ID: f.nextID, Name: name, UserID: userID, CreatedAt: f.clock()}
	f.sets = append(f.sets, set)
	return &set, nil
}

func (f *fakeSetRepo) ListAll() ([]models.FlashcardSet, error) { return f.sets, nil }

func (f *fakeSetRepo) GetByID(id int64) (*models.FlashcardSet, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeSetRepo) ListByUser(userID int64) ([]models.FlashcardSet, error) { return nil, nil }

func (f *fakeSetRepo) Replace(id int64, name string, cards []models.Flashcard) (*models.FlashcardSet, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeSetRepo) Delete(id int64) error { return repository.ErrNotFound }

func (f *fakeSetRepo) Count() (int, error) { return len(f.sets), nil }

func (f *fakeSetRepo) CountByIDs(ids []int64) (int, error) { return 0, nil }

func (f *fakeSetRepo) AddComment(comment *models.Comment) error { return nil }

func (f *fakeSetRepo) ListComments(setID int64) ([]models.Comment, error) { return nil, nil }

type fakeSettingsRepo struct {
	limit int
	found bool
}

func (f *fakeSettingsRepo) GetDailyLimit() (int, bool, error) { return f.limit, f.found, nil }
func (f *fakeSettingsRepo) UpsertDailyLimit(limit int) error {
	f.limit = limit
	f.found = true
	return nil
}

func TestCreateUsesDefaultWhenNoSettings(t *testing.T) {
	t.Parallel()

	svc := NewSetService(&fakeSetRepo{}, &fakeSettingsRepo{}, 2, zap.NewNop())

	_, err := svc.Create(1, "Biology")
	require.NoError(t, err)
	_, err = svc.Create(1, "Chemistry")
	require.NoError(t, err)

	_, err = svc.Create(1, "Physics")
	assert.True(t, apperr.IsKind(err, apperr.RateLimited), "expected rate limit error, got %v", err)
}

func TestCreateRejectsAtConfiguredLimit(t *testing.T) {
	t.Parallel()

	svc := NewSetService(&fakeSetRepo{}, &fakeSettingsRepo{limit: 1, found: true}, 20, zap.NewNop())

	_, err := svc.Create(1, "Biology")
	require.NoError(t, err)

	_, err = svc.Create(1, "Chemistry")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.RateLimited))

	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Contains(t, ae.Message(), "maximum number of flashcard sets")
}

func TestCreateZeroLimitRejectsEverything(t *testing.T) {
	t.Parallel()

	svc := NewSetService(&fakeSetRepo{}, &fakeSettingsRepo{limit: 0, found: true}, 20, zap.NewNop())

	_, err := svc.Create(1, "Biology")
	assert.True(t, apperr.IsKind(err, apperr.RateLimited))
}

func TestCreateLimitIsPerUser(t *testing.T) {
	t.Parallel()

	svc := NewSetService(&fakeSetRepo{}, &fakeSettingsRepo{limit: 1, found: true}, 20, zap.NewNop())

	_, err := svc.Create(1, "Biology")
	require.NoError(t, err)
	_, err = svc.Create(2, "Biology")
	require.NoError(t, err)
}

func TestCreateAllowedAgainNextDay(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 10, 23, 50, 0, 0, time.Local)
	clock := func() time.Time { return now }

	repo := &fakeSetRepo{now: clock}
	svc := NewSetService(repo, &fakeSettingsRepo{limit: 1, found: true}, 20, zap.NewNop())
	svc.now = clock

	_, err := svc.Create(1, "Biology")
	require.NoError(t, err)
	_, err = svc.Create(1, "Chemistry")
	require.Error(t, err)

	// Clock rolls past midnight; the window moves and creation succeeds.
	now = now.Add(20 * time.Minute)
	_, err = svc.Create(1, "Chemistry")
	assert.NoError(t, err)
}

func TestDayWindow(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 3, 10, 15, 4, 5, 0, time.Local)
	start, end := dayWindow(at)

	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.Local), start)
	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.Local), end)
}
