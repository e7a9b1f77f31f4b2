package repository

import (
	"flashcards/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type CollectionRepository interface {
	ListByUser(userID int64) ([]models.Collection, error)
	GetByID(id int64) (*models.Collection, error)
	Create(collection *models.Collection, setIDs []int64) error
	Update(collection *models.Collection, setIDs []int64) error
	Delete(id int64) error
}

type collectionRepository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewCollectionRepository(db *sqlx.DB, log *zap.Logger) CollectionRepository {
	return &collectionRepository{db: db, log: log}
}

func (r *collectionRepository) ListByUser(userID int64) ([]models.Collection, error) {
	collections := []models.Collection{}
	query := `SELECT id, user_id, comment FROM collections WHERE user_id = $1 ORDER BY id`
	if err := r.db.Select(&collections, query, userID); err != nil {
		return nil, err
	}
	for i := range collections {
		sets, err := r.memberSets(collections[i].ID)
		if err != nil {
			return nil, err
		}
		collections[i].Sets = sets
	}
	return collections, nil
}

func (r *collectionRepository) GetByID(id int64) (*models.Collection, error) {
	var collection models.Collection
	query := `SELECT id, user_id, comment FROM collections WHERE id = $1`
	if err := r.db.Get(&collection, query, id); err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	sets, err := r.memberSets(id)
	if err != nil {
		return nil, err
	}
	collection.Sets = sets
	return &collection, nil
}

func (r *collectionRepository) Create(collection *models.Collection, setIDs []int64) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	insert := `INSERT INTO collections (user_id, comment) VALUES ($1, $2) RETURNING id`
	if err := tx.QueryRowx(insert, collection.UserID, collection.Comment).Scan(&collection.ID); err != nil {
		return err
	}
	if err := linkSets(tx, collection.ID, setIDs); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	sets, err := r.memberSets(collection.ID)
	if err != nil {
		return err
	}
	collection.Sets = sets
	return nil
}

func (r *collectionRepository) Update(collection *models.Collection, setIDs []int64) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	update := `UPDATE collections SET comment = $1 WHERE id = $2`
	res, err := tx.Exec(update, collection.Comment, collection.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	if err := linkSets(tx, collection.ID, setIDs); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	sets, err := r.memberSets(collection.ID)
	if err != nil {
		return err
	}
	collection.Sets = sets
	return nil
}

func (r *collectionRepository) Delete(id int64) error {
	res, err := r.db.Exec(`DELETE FROM collections WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *collectionRepository) memberSets(collectionID int64) ([]models.FlashcardSet, error) {
	sets := []models.FlashcardSet{}
	query := `
		SELECT s.id, s.name, s.user_id, s.created_at
		FROM flashcard_sets s
		JOIN collection_sets cs ON cs.set_id = s.id
		WHERE cs.collection_id = $1
		ORDER BY s.id`
	if err := r.db.Select(&sets, query, collectionID); err != nil {
		return nil, err
	}
	return sets, nil
}

func linkSets(tx *sqlx.Tx, collectionID int64, setIDs []int64) error {
	for _, setID := range setIDs {
		insert := `INSERT INTO collection_sets (collection_id, set_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
		if _, err := tx.Exec(insert, collectionID, setID); err != nil {
			return err
		}
	}
	return nil
}
