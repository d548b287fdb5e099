// Package catalog expose la liste statique des produits de la boutique.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"boutique_back_end/internal/models"
)

//go:embed products.json
var defaultProducts []byte

// Catalog est immuable après construction.
type Catalog struct {
	products []models.Product
	byID     map[int]models.Product
}

// New construit un catalogue en refusant les ids nuls ou dupliqués.
func New(products []models.Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]models.Product, 0, len(products)),
		byID:     make(map[int]models.Product, len(products)),
	}
	for _, p := range products {
		if p.ID <= 0 {
			return nil, fmt.Errorf("produit %q: id invalide %d", p.ProductName, p.ID)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("produit %d dupliqué", p.ID)
		}
		if p.Quanty < 1 {
			p.Quanty = 1
		}
		c.products = append(c.products, p)
		c.byID[p.ID] = p
	}
	return c, nil
}

// Default charge le catalogue embarqué dans le binaire.
func Default() (*Catalog, error) {
	var products []models.Product
	if err := json.Unmarshal(defaultProducts, &products); err != nil {
		return nil, fmt.Errorf("lecture catalogue: %w", err)
	}
	return New(products)
}

// All retourne une copie de la liste, dans l'ordre d'affichage.
func (c *Catalog) All() []models.Product {
	out := make([]models.Product, len(c.products))
	copy(out, c.products)
	return out
}

func (c *Catalog) Find(id int) (models.Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}
