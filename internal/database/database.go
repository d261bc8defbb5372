// Package database owns the durable record store for books and per-user
// reading records. It exposes the narrow repository surface the dedup and
// enrichment engines consume; schema migration is handled via AutoMigrate
// at startup.
package database

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/RC170373/bookie-melissa-sub001/internal/entities"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = gorm.ErrRecordNotFound

type Database struct {
	DB *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Book{},
		&entities.UserBook{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Transaction runs fn against a transaction-scoped Database. Used by the
// merge executor so a whole merge group commits or rolls back as one unit.
func (d *Database) Transaction(fn func(tx *Database) error) error {
	return d.DB.Transaction(func(tx *gorm.DB) error {
		return fn(&Database{DB: tx})
	})
}

func (d *Database) CreateUser(user *entities.User) error {
	return d.DB.Create(user).Error
}

func (d *Database) CreateBook(book *entities.Book) error {
	return d.DB.Create(book).Error
}

func (d *Database) CreateUserBook(userBook *entities.UserBook) error {
	return d.DB.Create(userBook).Error
}

func (d *Database) GetBookByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := d.DB.First(&book, id).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// FindAllBooks returns every book record, oldest first.
func (d *Database) FindAllBooks() ([]entities.Book, error) {
	var books []entities.Book
	err := d.DB.Order("created_at ASC, id ASC").Find(&books).Error
	return books, err
}

// FindBooksMissingMetadata returns up to limit books without a cover or
// description, in creation order. A limit <= 0 means no cap.
func (d *Database) FindBooksMissingMetadata(limit int) ([]entities.Book, error) {
	var books []entities.Book
	query := d.DB.Where(
		"cover_url = '' OR cover_url IS NULL OR description = '' OR description IS NULL",
	).Order("created_at ASC, id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&books).Error
	return books, err
}

// UpdateBookMetadata applies the non-nil fields of patch to a book.
func (d *Database) UpdateBookMetadata(id uint, patch entities.BookPatch) error {
	fields := make(map[string]any)
	if patch.CoverURL != nil {
		fields["cover_url"] = *patch.CoverURL
	}
	if patch.Description != nil {
		fields["description"] = *patch.Description
	}
	if patch.PageCount != nil {
		fields["page_count"] = *patch.PageCount
	}
	if patch.PublicationYear != nil {
		fields["publication_year"] = *patch.PublicationYear
	}
	if len(fields) == 0 {
		return nil
	}
	return d.DB.Model(&entities.Book{}).Where("id = ?", id).Updates(fields).Error
}

// DeleteBook removes a book record permanently.
func (d *Database) DeleteBook(id uint) error {
	return d.DB.Delete(&entities.Book{}, id).Error
}

func (d *Database) GetUserBookByID(id uint) (*entities.UserBook, error) {
	var userBook entities.UserBook
	err := d.DB.First(&userBook, id).Error
	if err != nil {
		return nil, err
	}
	return &userBook, nil
}

// FindUserBooksByBook returns all reading records referencing a book.
func (d *Database) FindUserBooksByBook(bookID uint) ([]entities.UserBook, error) {
	var userBooks []entities.UserBook
	err := d.DB.Where("book_id = ?", bookID).Order("id ASC").Find(&userBooks).Error
	return userBooks, err
}

// FindUserBookByUserAndBook returns the single reading record for a
// (user, book) pair, or (nil, nil) when none exists.
func (d *Database) FindUserBookByUserAndBook(userID, bookID uint) (*entities.UserBook, error) {
	var userBook entities.UserBook
	err := d.DB.Where("user_id = ? AND book_id = ?", userID, bookID).First(&userBook).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &userBook, nil
}

// UpdateUserBook applies the non-nil fields of patch to a reading record.
func (d *Database) UpdateUserBook(id uint, patch entities.UserBookPatch) error {
	fields := make(map[string]any)
	if patch.Status != nil {
		fields["status"] = *patch.Status
	}
	if patch.Rating != nil {
		fields["rating"] = *patch.Rating
	}
	if patch.Review != nil {
		fields["review"] = *patch.Review
	}
	if patch.Notes != nil {
		fields["notes"] = *patch.Notes
	}
	if patch.FavoriteQuotes != nil {
		fields["favorite_quotes"] = *patch.FavoriteQuotes
	}
	if patch.DateRead != nil {
		fields["date_read"] = *patch.DateRead
	}
	if len(fields) == 0 {
		return nil
	}
	return d.DB.Model(&entities.UserBook{}).Where("id = ?", id).Updates(fields).Error
}

// ReassignUserBook repoints a reading record at a different book.
func (d *Database) ReassignUserBook(userBookID, newBookID uint) error {
	return d.DB.Model(&entities.UserBook{}).
		Where("id = ?", userBookID).
		Update("book_id", newBookID).Error
}

// DeleteUserBook removes a reading record permanently.
func (d *Database) DeleteUserBook(id uint) error {
	return d.DB.Delete(&entities.UserBook{}, id).Error
}

// GetStats returns total book and reading-record counts.
func (d *Database) GetStats() (totalBooks int64, totalUserBooks int64, err error) {
	err = d.DB.Model(&entities.Book{}).Count(&totalBooks).Error
	if err != nil {
		return
	}
	err = d.DB.Model(&entities.UserBook{}).Count(&totalUserBooks).Error
	return
}
