package repo

import (
	"github.com/ResetToBasics/M-Ecosmeticos/internal/revision"
	"github.com/ResetToBasics/M-Ecosmeticos/internal/shop"
)

// ProductRepository owns the admin product catalog. Every mutation
// recomputes the derived unit price, persists the whole collection and
// bumps the revision clock; reads return point-in-time copies.
type ProductRepository struct {
	col *Collection[[]shop.Product]
	ids shop.IDGenerator
}

func NewProductRepository(store shop.KVStore, rev *revision.Clock, wall shop.Clock, ids shop.IDGenerator, logger shop.Logger) *ProductRepository {
	return &ProductRepository{
		col: NewCollection(shop.KeyProducts, store, rev, wall, logger, shop.DefaultProducts),
		ids: ids,
	}
}

// List returns the current catalog, seeding defaults when nothing
// usable is stored.
func (r *ProductRepository) List() []shop.Product {
	return r.col.Load()
}

// Get returns the product with the given id, if present.
func (r *ProductRepository) Get(id shop.RecordID) (shop.Product, bool) {
	for _, p := range r.col.Load() {
		if p.ID == id {
			return p, true
		}
	}
	return shop.Product{}, false
}

// Create assigns a fresh id, recomputes the unit price, appends the
// product and returns the new catalog snapshot.
func (r *ProductRepository) Create(p shop.Product) []shop.Product {
	return r.col.Mutate(func(products []shop.Product) ([]shop.Product, bool) {
		p.ID = shop.RecordID(r.ids.New())
		p.RecomputeUnitPrice()
		return append(products, p), true
	})
}

// Update replaces the product with the given id. A missing id is a
// silent no-op: the unchanged catalog comes back and nothing bumps.
func (r *ProductRepository) Update(id shop.RecordID, p shop.Product) []shop.Product {
	return r.col.Mutate(func(products []shop.Product) ([]shop.Product, bool) {
		for i := range products {
			if products[i].ID == id {
				p.ID = id
				p.RecomputeUnitPrice()
				products[i] = p
				return products, true
			}
		}
		return products, false
	})
}

// Delete removes the product with the given id. Deleting an absent id
// is not an error and does not bump the revision.
func (r *ProductRepository) Delete(id shop.RecordID) []shop.Product {
	return r.col.Mutate(func(products []shop.Product) ([]shop.Product, bool) {
		kept := products[:0]
		for _, p := range products {
			if p.ID != id {
				kept = append(kept, p)
			}
		}
		return kept, len(kept) != len(products)
	})
}
