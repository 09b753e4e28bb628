package interfaces

import "moneyprint/internal/models"

// StoreInterface persists whole collection documents.
// Update is the only atomic read-modify-write; Load followed by Save is not.
type StoreInterface interface {
	Init() error
	Load(key models.Collection) (*models.Document, error)
	Save(key models.Collection, doc *models.Document) error
	Update(key models.Collection, fn func(doc *models.Document) error) error
	Peek(key models.Collection) (*models.Document, error)
}
