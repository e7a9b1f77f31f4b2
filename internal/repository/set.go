package repository

import (
	"errors"
	"fmt"
	"time"

	"flashcards/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// ErrLimitReached is returned by CreateCapped when the owner already has
// `limit` sets created inside the given window.
var ErrLimitReached = errors.New("daily set limit reached")

type SetRepository interface {
	ListAll() ([]models.FlashcardSet, error)
	GetByID(id int64) (*models.FlashcardSet, error)
	ListByUser(userID int64) ([]models.FlashcardSet, error)
	CreateCapped(userID int64, name string, start, end time.Time, limit int) (*models.FlashcardSet, error)
	Replace(id int64, name string, cards []models.Flashcard) (*models.FlashcardSet, error)
	Delete(id int64) error
	Count() (int, error)
	CountByIDs(ids []int64) (int, error)
	AddComment(comment *models.Comment) error
	ListComments(setID int64) ([]models.Comment, error)
}

type setRepository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewSetRepository(db *sqlx.DB, log *zap.Logger) SetRepository {
	return &setRepository{db: db, log: log}
}

func (r *setRepository) ListAll() ([]models.FlashcardSet, error) {
	sets := []models.FlashcardSet{}
	query := `SELECT id, name, user_id, created_at FROM flashcard_sets ORDER BY id`
	if err := r.db.Select(&sets, query); err != nil {
		return nil, err
	}
	if err := r.attachCards(sets); err != nil {
		return nil, err
	}
	if err := r.attachComments(sets); err != nil {
		return nil, err
	}
	return sets, nil
}

func (r *setRepository) GetByID(id int64) (*models.FlashcardSet, error) {
	var set models.FlashcardSet
	query := `SELECT id, name, user_id, created_at FROM flashcard_sets WHERE id = $1`
	if err := r.db.Get(&set, query, id); err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	sets := []models.FlashcardSet{set}
	if err := r.attachCards(sets); err != nil {
		return nil, err
	}
	if err := r.attachComments(sets); err != nil {
		return nil, err
	}
	return &sets[0], nil
}

func (r *setRepository) ListByUser(userID int64) ([]models.FlashcardSet, error) {
	sets := []models.FlashcardSet{}
	query := `SELECT id, name, user_id, created_at FROM flashcard_sets WHERE user_id = $1 ORDER BY id`
	if err := r.db.Select(&sets, query, userID); err != nil {
		return nil, err
	}
	if err := r.attachCards(sets); err != nil {
		return nil, err
	}
	return sets, nil
}

// CreateCapped inserts a set only if the owner has created fewer than limit
// sets within [start, end). The count and insert run inside one transaction
// serialized per user with an advisory lock, so two concurrent requests from
// the same user cannot both pass the count with count == limit-1.
func (r *setRepository) CreateCapped(userID int64, name string, start, end time.Time, limit int) (*models.FlashcardSet, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`SELECT pg_advisory_xact_lock($1)`, userID); err != nil {
		return nil, fmt.Errorf("failed to take creation lock: %w", err)
	}

	var count int
	countQuery := `SELECT COUNT(*) FROM flashcard_sets WHERE user_id = $1 AND created_at >= $2 AND created_at < $3`
	if err := tx.Get(&count, countQuery, userID, start, end); err != nil {
		return nil, err
	}
	if count >= limit {
		return nil, ErrLimitReached
	}

	set := &models.FlashcardSet{Name: name, UserID: userID, Cards: []models.Flashcard{}}
	insert := `INSERT INTO flashcard_sets (name, user_id) VALUES ($1, $2) RETURNING id, created_at`
	if err := tx.QueryRowx(insert, name, userID).Scan(&set.ID, &set.CreatedAt); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return set, nil
}

// Replace renames a set and swaps out its cards wholesale.
func (r *setRepository) Replace(id int64, name string, cards []models.Flashcard) (*models.FlashcardSet, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var set models.FlashcardSet
	update := `UPDATE flashcard_sets SET name = $1 WHERE id = $2 RETURNING id, name, user_id, created_at`
	if err := tx.QueryRowx(update, name, id).StructScan(&set); err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if _, err := tx.Exec(`DELETE FROM flashcards WHERE set_id = $1`, id); err != nil {
		return nil, err
	}

	set.Cards = make([]models.Flashcard, 0, len(cards))
	for _, card := range cards {
		card.SetID = id
		if card.Difficulty == "" {
			card.Difficulty = models.DifficultyMedium
		}
		insert := `INSERT INTO flashcards (set_id, question, answer, difficulty) VALUES ($1, $2, $3, $4) RETURNING id`
		if err := tx.QueryRowx(insert, card.SetID, card.Question, card.Answer, card.Difficulty).Scan(&card.ID); err != nil {
			return nil, err
		}
		set.Cards = append(set.Cards, card)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &set, nil
}

func (r *setRepository) Delete(id int64) error {
	res, err := r.db.Exec(`DELETE FROM flashcard_sets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *setRepository) Count() (int, error) {
	var count int
	if err := r.db.Get(&count, `SELECT COUNT(*) FROM flashcard_sets`); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *setRepository) CountByIDs(ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`SELECT COUNT(*) FROM flashcard_sets WHERE id IN (?)`, ids)
	if err != nil {
		return 0, err
	}
	var count int
	if err := r.db.Get(&count, r.db.Rebind(query), args...); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *setRepository) AddComment(comment *models.Comment) error {
	query := `INSERT INTO comments (set_id, user_id, comment, rating) VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	err := r.db.QueryRowx(query, comment.SetID, comment.UserID, comment.Comment, comment.Rating).Scan(&comment.ID, &comment.CreatedAt)
	if err != nil {
		return err
	}
	var user models.User
	if err := r.db.Get(&user, `SELECT id, username, password_hash, admin, created_at FROM users WHERE id = $1`, comment.UserID); err != nil {
		return err
	}
	comment.User = &user
	return nil
}

func (r *setRepository) ListComments(setID int64) ([]models.Comment, error) {
	type commentRow struct {
		models.Comment
		AuthorUsername string `db:"author_username"`
		AuthorAdmin    bool   `db:"author_admin"`
	}
	rows := []commentRow{}
	query := `
		SELECT c.id, c.set_id, c.user_id, c.comment, c.rating, c.created_at,
		       u.username AS author_username, u.admin AS author_admin
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.set_id = $1
		ORDER BY c.created_at DESC`
	if err := r.db.Select(&rows, query, setID); err != nil {
		return nil, err
	}
	comments := make([]models.Comment, 0, len(rows))
	for _, row := range rows {
		c := row.Comment
		c.User = &models.User{ID: c.UserID, Username: row.AuthorUsername, Admin: row.AuthorAdmin}
		comments = append(comments, c)
	}
	return comments, nil
}

func (r *setRepository) attachCards(sets []models.FlashcardSet) error {
	if len(sets) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(sets))
	index := make(map[int64]*models.FlashcardSet, len(sets))
	for i := range sets {
		sets[i].Cards = []models.Flashcard{}
		ids = append(ids, sets[i].ID)
		index[sets[i].ID] = &sets[i]
	}
	query, args, err := sqlx.In(`SELECT id, set_id, question, answer, difficulty FROM flashcards WHERE set_id IN (?) ORDER BY id`, ids)
	if err != nil {
		return err
	}
	cards := []models.Flashcard{}
	if err := r.db.Select(&cards, r.db.Rebind(query), args...); err != nil {
		return err
	}
	for _, card := range cards {
		set := index[card.SetID]
		set.Cards = append(set.Cards, card)
	}
	return nil
}

func (r *setRepository) attachComments(sets []models.FlashcardSet) error {
	if len(sets) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(sets))
	index := make(map[int64]*models.FlashcardSet, len(sets))
	for i := range sets {
		sets[i].Comments = []models.Comment{}
		ids = append(ids, sets[i].ID)
		index[sets[i].ID] = &sets[i]
	}
	query, args, err := sqlx.In(`SELECT id, set_id, user_id, comment, rating, created_at FROM comments WHERE set_id IN (?) ORDER BY created_at DESC`, ids)
	if err != nil {
		return err
	}
	comments := []models.Comment{}
	if err := r.db.Select(&comments, r.db.Rebind(query), args...); err != nil {
		return err
	}
	for _, comment := range comments {
		set := index[comment.SetID]
		set.Comments = append(set.Comments, comment)
	}
	return nil
}
