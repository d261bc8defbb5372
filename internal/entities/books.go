package entities

import (
	"time"

	"gorm.io/gorm"
)

// ReadingStatus tracks where a book sits in a user's library.
type ReadingStatus string

const (
	StatusToRead   ReadingStatus = "to_read"
	StatusReading  ReadingStatus = "reading"
	StatusRead     ReadingStatus = "read"
	StatusWishlist ReadingStatus = "wishlist"
	StatusPAL      ReadingStatus = "pal" // "pile à lire" - owned but unread
)

type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"uniqueIndex;size:100" json:"username"`
	Email     string         `gorm:"uniqueIndex;size:255" json:"email"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// Book is a shared bibliographic record. It is created on first reference
// and is never owned by a single user; per-user state lives on UserBook.
type Book struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Title           string    `gorm:"index;size:512" json:"title"`
	Author          string    `gorm:"index;size:256" json:"author"`
	ISBN            string    `gorm:"index;size:20" json:"isbn,omitempty"`
	CoverURL        string    `gorm:"size:2048" json:"cover_url,omitempty"`
	Description     string    `gorm:"type:text" json:"description,omitempty"`
	PageCount       int       `json:"page_count,omitempty"`
	PublicationYear int       `json:"publication_year,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// UserBook joins a user to a book and carries the user's reading state.
// At most one row may exist per (user_id, book_id) pair.
type UserBook struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	UserID         uint          `gorm:"uniqueIndex:idx_user_book" json:"user_id"`
	BookID         uint          `gorm:"uniqueIndex:idx_user_book" json:"book_id"`
	Status         ReadingStatus `gorm:"size:20;default:'to_read'" json:"status"`
	Rating         *int          `json:"rating,omitempty"` // 0-20 scale
	Review         string        `gorm:"type:text" json:"review,omitempty"`
	Notes          string        `gorm:"type:text" json:"notes,omitempty"`
	FavoriteQuotes string        `gorm:"type:text" json:"favorite_quotes,omitempty"`
	DateRead       *time.Time    `json:"date_read,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
	Book Book `gorm:"foreignKey:BookID" json:"-"`
}

// BookPatch is a partial update to a book's metadata fields. Nil fields
// are left untouched.
type BookPatch struct {
	CoverURL        *string
	Description     *string
	PageCount       *int
	PublicationYear *int
}

// IsEmpty reports whether the patch carries no updates.
func (p BookPatch) IsEmpty() bool {
	return p.CoverURL == nil && p.Description == nil && p.PageCount == nil && p.PublicationYear == nil
}

// UserBookPatch is a partial update to a user's reading record. Nil fields
// are left untouched.
type UserBookPatch struct {
	Status         *ReadingStatus
	Rating         *int
	Review         *string
	Notes          *string
	FavoriteQuotes *string
	DateRead       *time.Time
}

// IsEmpty reports whether the patch carries no updates.
func (p UserBookPatch) IsEmpty() bool {
	return p.Status == nil && p.Rating == nil && p.Review == nil &&
		p.Notes == nil && p.FavoriteQuotes == nil && p.DateRead == nil
}

func (User) TableName() string {
	return "users"
}

func (Book) TableName() string {
	return "books"
}

func (UserBook) TableName() string {
	return "user_books"
}
