package repository

import (
	"flashcards/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type FlashcardRepository interface {
	List() ([]models.Flashcard, error)
	Create(card *models.Flashcard) error
	Update(card *models.Flashcard) error
	Delete(id int64) error
}

type flashcardRepository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewFlashcardRepository(db *sqlx.DB, log *zap.Logger) FlashcardRepository {
	return &flashcardRepository{db: db, log: log}
}

func (r *flashcardRepository) List() ([]models.Flashcard, error) {
	cards := []models.Flashcard{}
	query := `SELECT id, set_id, question, answer, difficulty FROM flashcards ORDER BY id`
	if err := r.db.Select(&cards, query); err != nil {
		return nil, err
	}
	return cards, nil
}

func (r *flashcardRepository) Create(card *models.Flashcard) error {
	query := `INSERT INTO flashcards (set_id, question, answer, difficulty) VALUES ($1, $2, $3, $4) RETURNING id`
	return r.db.QueryRowx(query, card.SetID, card.Question, card.Answer, card.Difficulty).Scan(&card.ID)
}

func (r *flashcardRepository) Update(card *models.Flashcard) error {
	query := `UPDATE flashcards SET question = $1, answer = $2, difficulty = $3 WHERE id = $4 RETURNING set_id`
	err := r.db.QueryRowx(query, card.Question, card.Answer, card.Difficulty, card.ID).Scan(&card.SetID)
	if isNoRows(err) {
		return ErrNotFound
	}
	return err
}

func (r *flashcardRepository) Delete(id int64) error {
	res, err := r.db.Exec(`DELETE FROM flashcards WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
