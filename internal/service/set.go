package service

import (
	"errors"
	"fmt"
	"time"

	"flashcards/internal/apperr"
	"flashcards/internal/models"
	"flashcards/internal/repository"

	"go.uber.org/zap"
)

const quotaExceededMessage = "You have reached the maximum number of flashcard sets allowed today. Please try again tomorrow."

// SetService wraps flashcard-set creation with the per-user daily quota.
// The limit comes from the settings record; when no record exists the
// configured default applies. A limit of zero rejects every creation.
type SetService struct {
	sets         repository.SetRepository
	settings     repository.SettingsRepository
	defaultLimit int
	now          func() time.Time
	logger       *zap.Logger
}

func NewSetService(sets repository.SetRepository, settings repository.SettingsRepository, defaultLimit int, logger *zap.Logger) *SetService {
	return &SetService{
		sets:         sets,
		settings:     settings,
		defaultLimit: defaultLimit,
		now:          time.Now,
		logger:       logger,
	}
}

// Create inserts a new set for userID unless the user has already hit the
// daily limit. The window is the current calendar day in server local time.
func (s *SetService) Create(userID int64, name string) (*models.FlashcardSet, error) {
	limit, found, err := s.settings.GetDailyLimit()
	if err != nil {
		s.logger.Error("Failed to read daily limit", zap.Error(err))
		return nil, fmt.Errorf("failed to read daily limit: %w", err)
	}
	if !found {
		limit = s.defaultLimit
	}

	start, end := dayWindow(s.now())
	set, err := s.sets.CreateCapped(userID, name, start, end, limit)
	if err != nil {
		if errors.Is(err, repository.ErrLimitReached) {
			s.logger.Info("Daily set limit reached",
				zap.Int64("user_id", userID), zap.Int("limit", limit))
			return nil, apperr.New(apperr.RateLimited, quotaExceededMessage)
		}
		s.logger.Error("Failed to create flashcard set", zap.Error(err))
		return nil, fmt.Errorf("failed to create flashcard set: %w", err)
	}
	return set, nil
}

// dayWindow returns [midnight, next midnight) for t in t's location.
func dayWindow(t time.Time) (time.Time, time.Time) {
	year, month, day := t.Date()
	start := time.Date(year, month, day, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}
