package service

import (
	"context"
	"io"
	"strings"

	"github.com/google/uuid"
)

type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

// Transactor scopes a function to one database transaction. Services use it
// to commit a mutation and its activity ledger entry atomically.
type Transactor interface {
	Transact(ctx context.Context, fn func(ctx context.Context) error) error
}

// FileStore is the document-store surface the services need. Implemented by
// filestore.Store.
type FileStore interface {
	ResolvePath(patientID uuid.UUID, originalName string) string
	Store(relPath string, r io.Reader) (int64, error)
	Delete(relPath string) (bool, error)
	RemovePatientDir(patientID uuid.UUID) error
}
