package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Flashcard difficulty levels.
const (
	DifficultyEasy   = "EASY"
	DifficultyMedium = "MEDIUM"
	DifficultyHard   = "HARD"
)

// ValidDifficulty reports whether s is one of the known difficulty levels.
func ValidDifficulty(s string) bool {
	return s == DifficultyEasy || s == DifficultyMedium || s == DifficultyHard
}

type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Admin        bool      `db:"admin" json:"admin"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

type FlashcardSet struct {
	ID        int64       `db:"id" json:"id"`
	Name      string      `db:"name" json:"name"`
	UserID    int64       `db:"user_id" json:"userId"`
	CreatedAt time.Time   `db:"created_at" json:"createdAt"`
	Cards     []Flashcard `db:"-" json:"cards,omitempty"`
	Comments  []Comment   `db:"-" json:"comments,omitempty"`
}

type Flashcard struct {
	ID         int64  `db:"id" json:"id"`
	SetID      int64  `db:"set_id" json:"setId"`
	Question   string `db:"question" json:"question"`
	Answer     string `db:"answer" json:"answer"`
	Difficulty string `db:"difficulty" json:"difficulty"`
}

type Comment struct {
	ID        int64     `db:"id" json:"id"`
	SetID     int64     `db:"set_id" json:"setId"`
	UserID    int64     `db:"user_id" json:"userId"`
	Comment   string    `db:"comment" json:"comment"`
	Rating    int       `db:"rating" json:"rating"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	User      *User     `db:"-" json:"user,omitempty"`
}

type Collection struct {
	ID      int64          `db:"id" json:"id"`
	UserID  int64          `db:"user_id" json:"userId"`
	Comment string         `db:"comment" json:"comment"`
	Sets    []FlashcardSet `db:"-" json:"flashcardSets,omitempty"`
}

// Settings is the single mutable settings record holding the daily
// flashcard-set creation limit. Absence of the row means the default applies.
type Settings struct {
	ID         int64 `db:"id" json:"-"`
	DailyLimit int   `db:"daily_limit" json:"dailyLimit"`
}

// Claims defines the structure of the JWT claims. IsAdmin is a plain bool so
// a token carrying anything other than a JSON boolean fails to decode and is
// rejected at verification time.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"admin"`
	jwt.RegisteredClaims
}
