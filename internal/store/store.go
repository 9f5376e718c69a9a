// Package store wraps gorm access to the relational entities. Every
// lookup reports a missing row as ErrNotFound so callers never branch on
// driver errors.
package store

import (
	"errors"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not found")

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// notFound maps gorm's record-not-found sentinel onto the package error.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
