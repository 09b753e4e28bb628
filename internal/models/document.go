package models

// Document is the in-memory shape of one collection. Only the slice matching
// the collection is meaningful; the codec guarantees it is never nil after a load.
type Document struct {
	Accounts  []*Account
	Products  []*Product
	Schedules []*ScheduleSpec
}

// NewDocument returns the default (empty) shape for a collection.
func NewDocument(c Collection) *Document {
	doc := &Document{}
	switch {
	case c.HoldsAccounts():
		doc.Accounts = []*Account{}
	case c == CollectionAffiliate:
		doc.Products = []*Product{}
	case c == CollectionSchedules:
		doc.Schedules = []*ScheduleSpec{}
	}
	return doc
}

func (d *Document) FindAccount(id string) (*Account, int) {
	for i, acc := range d.Accounts {
		if acc.ID == id {
			return acc, i
		}
	}
	return nil, -1
}

func (d *Document) FindProduct(id string) (*Product, int) {
	for i, p := range d.Products {
		if p.ID == id {
			return p, i
		}
	}
	return nil, -1
}
