// Package store implements the persistence operations behind the API
// handlers. All methods run against gorm; domain failures come back as
// pkg/errors AppErrors, everything else is wrapped with its call site.
package store

import (
	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// withTx returns a Store bound to an open transaction so the regular methods
// can be reused inside it.
func (s *Store) withTx(tx *gorm.DB) *Store {
	return &Store{db: tx}
}
