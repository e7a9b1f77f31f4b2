package repository

import (
	"flashcards/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// SettingsRepository manages the single settings row. The row may be absent,
// in which case callers fall back to the configured default limit.
type SettingsRepository interface {
	GetDailyLimit() (limit int, found bool, err error)
	UpsertDailyLimit(limit int) error
}

type settingsRepository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewSettingsRepository(db *sqlx.DB, log *zap.Logger) SettingsRepository {
	return &settingsRepository{db: db, log: log}
}

func (r *settingsRepository) GetDailyLimit() (int, bool, error) {
	var settings models.Settings
	query := `SELECT id, daily_limit FROM settings ORDER BY id LIMIT 1`
	if err := r.db.Get(&settings, query); err != nil {
		if isNoRows(err) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return settings.DailyLimit, true, nil
}

func (r *settingsRepository) UpsertDailyLimit(limit int) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var id int64
	err = tx.Get(&id, `SELECT id FROM settings ORDER BY id LIMIT 1`)
	switch {
	case isNoRows(err):
		if _, err := tx.Exec(`INSERT INTO settings (daily_limit) VALUES ($1)`, limit); err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		if _, err := tx.Exec(`UPDATE settings SET daily_limit = $1 WHERE id = $2`, limit, id); err != nil {
			return err
		}
	}

	return tx.Commit()
}
