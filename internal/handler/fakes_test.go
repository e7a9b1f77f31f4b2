package handler

import (
	"sort"
	"time"

	"flashcards/internal/models"
	"flashcards/internal/repository"
)

// In-memory repository fakes shared by the handler tests.

type fakeUsers struct {
	byID   map[int64]*models.User
	nextID int64
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[int64]*models.User{}}
}

func (f *fakeUsers) Create(user *models.User) error {
	for _, existing := range f.byID {
		if existing.Username == user.Username {
			return repository.ErrDuplicate
		}
	}
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	clone := *user
	f.byID[user.ID] = &clone
	return nil
}

func (f *fakeUsers) GetByUsername(username string) (*models.User, error) {
	for _, user := range f.byID {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) GetByID(id int64) (*models.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUsers) List() ([]models.User, error) {
	ids := make([]int64, 0, len(f.byID))
	for id := range f.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]models.User, 0, len(ids))
	for _, id := range ids {
		out = append(out, *f.byID[id])
	}
	return out, nil
}

func (f *fakeUsers) Update(user *models.User) error {
	if _, ok := f.byID[user.ID]; !ok {
		return repository.ErrNotFound
	}
	clone := *user
	f.byID[user.ID] = &clone
	return nil
}

func (f *fakeUsers) UpdatePassword(id int64, passwordHash string) error {
	user, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.PasswordHash = passwordHash
	return nil
}

func (f *fakeUsers) Delete(id int64) error {
	if _, ok := f.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeUsers) Count() (int, error) { return len(f.byID), nil }

type fakeSets struct {
	byID     map[int64]*models.FlashcardSet
	comments map[int64][]models.Comment
	users    *fakeUsers
	nextID   int64
}

func newFakeSets(users *fakeUsers) *fakeSets {
	return &fakeSets{
		byID:     map[int64]*models.FlashcardSet{},
		comments: map[int64][]models.Comment{},
		users:    users,
	}
}

func (f *fakeSets) sorted() []models.FlashcardSet {
	ids := make([]int64, 0, len(f.byID))
	for id := range f.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]models.FlashcardSet, 0, len(ids))
	for _, id := range ids {
		out = append(out, *f.byID[id])
	}
	return out
}

func (f *fakeSets) ListAll() ([]models.FlashcardSet, error) { return f.sorted(), nil }

func (f *fakeSets) GetByID(id int64) (*models.FlashcardSet, error) {
	set, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *set
	return &clone, nil
}

func (f *fakeSets) ListByUser(userID int64) ([]models.FlashcardSet, error) {
	out := []models.FlashcardSet{}
	for _, set := range f.sorted() {
		if set.UserID == userID {
			out = append(out, set)
		}
	}
	return out, nil
}

func (f *fakeSets) CreateCapped(userID int64, name string, start, end time.Time, limit int) (*models.FlashcardSet, error) {
	count := 0
	for _, set := range f.byID {
		if set.UserID == userID && !set.CreatedAt.Before(start) && set.CreatedAt.Before(end) {
			count++
		}
	}
	if count >= limit {
		return nil, repository.ErrLimitReached
	}
	f.nextID++
	set := &models.FlashcardSet{
		ID:        f.nextID,
		Name:      name,
		UserID:    userID,
		CreatedAt: time.Now(),
		Cards:     []models.Flashcard{},
	}
	f.byID[set.ID] = set
	clone := *set
	return &clone, nil
}

func (f *fakeSets) Replace(id int64, name string, cards []models.Flashcard) (*models.FlashcardSet, error) {
	set, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	set.Name = name
	set.Cards = make([]models.Flashcard, 0, len(cards))
	for i, card := range cards {
		card.ID = int64(i + 1)
		card.SetID = id
		if card.Difficulty == "" {
			card.Difficulty = models.DifficultyMedium
		}
		set.Cards = append(set.Cards, card)
	}
	clone := *set
	return &clone, nil
}

func (f *fakeSets) Delete(id int64) error {
	if _, ok := f.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeSets) Count() (int, error) { return len(f.byID), nil }

func (f *fakeSets) CountByIDs(ids []int64) (int, error) {
	count := 0
	for _, id := range ids {
		if _, ok := f.byID[id]; ok {
			count++
		}
	}
	return count, nil
}

func (f *fakeSets) AddComment(comment *models.Comment) error {
	comment.ID = int64(len(f.comments[comment.SetID]) + 1)
	comment.CreatedAt = time.Now()
	if f.users != nil {
		if user, err := f.users.GetByID(comment.UserID); err == nil {
			comment.User = user
		}
	}
	f.comments[comment.SetID] = append(f.comments[comment.SetID], *comment)
	return nil
}

func (f *fakeSets) ListComments(setID int64) ([]models.Comment, error) {
	out := make([]models.Comment, len(f.comments[setID]))
	copy(out, f.comments[setID])
	// Newest first.
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type fakeCards struct {
	byID   map[int64]*models.Flashcard
	nextID int64
}

func newFakeCards() *fakeCards {
	return &fakeCards{byID: map[int64]*models.Flashcard{}}
}

func (f *fakeCards) List() ([]models.Flashcard, error) {
	ids := make([]int64, 0, len(f.byID))
	for id := range f.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]models.Flashcard, 0, len(ids))
	for _, id := range ids {
		out = append(out, *f.byID[id])
	}
	return out, nil
}

func (f *fakeCards) Create(card *models.Flashcard) error {
	f.nextID++
	card.ID = f.nextID
	clone := *card
	f.byID[card.ID] = &clone
	return nil
}

func (f *fakeCards) Update(card *models.Flashcard) error {
	existing, ok := f.byID[card.ID]
	if !ok {
		return repository.ErrNotFound
	}
	card.SetID = existing.SetID
	clone := *card
	f.byID[card.ID] = &clone
	return nil
}

func (f *fakeCards) Delete(id int64) error {
	if _, ok := f.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeSettings struct {
	limit int
	found bool
}

func (f *fakeSettings) GetDailyLimit() (int, bool, error) { return f.limit, f.found, nil }

func (f *fakeSettings) UpsertDailyLimit(limit int) error {
	f.limit = limit
	f.found = true
	return nil
}

type fakeCollections struct {
	byID   map[int64]*models.Collection
	nextID int64
}

func newFakeCollections() *fakeCollections {
	return &fakeCollections{byID: map[int64]*models.Collection{}}
}

func (f *fakeCollections) ListByUser(userID int64) ([]models.Collection, error) {
	out := []models.Collection{}
	for _, collection := range f.byID {
		if collection.UserID == userID {
			out = append(out, *collection)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCollections) GetByID(id int64) (*models.Collection, error) {
	collection, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *collection
	return &clone, nil
}

func (f *fakeCollections) Create(collection *models.Collection, setIDs []int64) error {
	f.nextID++
	collection.ID = f.nextID
	collection.Sets = make([]models.FlashcardSet, 0, len(setIDs))
	for _, id := range setIDs {
		collection.Sets = append(collection.Sets, models.FlashcardSet{ID: id})
	}
	clone := *collection
	f.byID[collection.ID] = &clone
	return nil
}

func (f *fakeCollections) Update(collection *models.Collection, setIDs []int64) error {
	if _, ok := f.byID[collection.ID]; !ok {
		return repository.ErrNotFound
	}
	clone := *collection
	f.byID[collection.ID] = &clone
	return nil
}

func (f *fakeCollections) Delete(id int64) error {
	if _, ok := f.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}
