package registry

import (
	"fmt"
	"moneyprint/internal/models"
	"moneyprint/internal/providers"
	"moneyprint/internal/storage/interfaces"

	"github.com/google/uuid"
)

type ProductRegistryInterface interface {
	List() ([]*models.Product, error)
	Create(fields models.ProductFields) (*models.Product, error)
	Remove(id string) error
	FindByID(id string) (*models.Product, error)
}

// ProductRegistry owns the affiliate collection. The linked account is
// checked on creation only; removing the account later leaves the product.
type ProductRegistry struct {
	store    interfaces.StoreInterface
	accounts AccountRegistryInterface
	logger   providers.Logger
}

func NewProductRegistry(store interfaces.StoreInterface, accounts AccountRegistryInterface, logger providers.Logger) ProductRegistryInterface {
	return &ProductRegistry{
		store:    store,
		accounts: accounts,
		logger:   logger,
	}
}

func (r *ProductRegistry) List() ([]*models.Product, error) {
	doc, err := r.store.Peek(models.CollectionAffiliate)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Product, 0, len(doc.Products))
	for _, p := range doc.Products {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *ProductRegistry) Create(fields models.ProductFields) (*models.Product, error) {
	if err := validateFields(&fields); err != nil {
		return nil, err
	}
	if _, err := r.accounts.FindByID(models.CollectionTwitter, fields.LinkedAccountID); err != nil {
		return nil, err
	}

	product := &models.Product{
		ID:              uuid.NewString(),
		AffiliateLink:   fields.AffiliateLink,
		LinkedAccountID: fields.LinkedAccountID,
	}
	err := r.store.Update(models.CollectionAffiliate, func(doc *models.Document) error {
		doc.Products = append(doc.Products, product)
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Infof(providers.TypeStore, "Created product %s linked to %s", product.ID, product.LinkedAccountID)
	cp := *product
	return &cp, nil
}

func (r *ProductRegistry) Remove(id string) error {
	return r.store.Update(models.CollectionAffiliate, func(doc *models.Document) error {
		if _, idx := doc.FindProduct(id); idx >= 0 {
			doc.Products = append(doc.Products[:idx], doc.Products[idx+1:]...)
		}
		return nil
	})
}

func (r *ProductRegistry) FindByID(id string) (*models.Product, error) {
	doc, err := r.store.Peek(models.CollectionAffiliate)
	if err != nil {
		return nil, err
	}
	p, _ := doc.FindProduct(id)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", models.ErrProductNotFound, id)
	}
	cp := *p
	return &cp, nil
}
