// Package cart contient les règles de mutation du panier.
//
// Les fonctions de ce fichier sont pures : elles ne modifient jamais la slice
// reçue et retournent un nouveau panier. La persistance est gérée par Service.
package cart

import (
	"errors"

	"boutique_back_end/internal/models"
)

const (
	ActionIncrease = "increase"
	ActionDecrease = "decrease"

	// MaxLineQuantity borne la quantité d'une ligne.
	MaxLineQuantity = 999
)

var (
	ErrItemNotFound    = errors.New("produit absent du panier")
	ErrUnknownProduct  = errors.New("produit inconnu")
	ErrInvalidAction   = errors.New("action invalide")
	ErrInvalidQuantity = errors.New("quantité invalide")
)

// Add ajoute une unité du produit : incrémente la ligne existante ou en crée une.
func Add(items []models.CartItem, p models.Product) []models.CartItem {
	return addQuantity(items, lineFor(p), 1)
}

// Update applique "increase" ou "decrease". La diminution s'arrête à 1 et ne
// retire jamais la ligne ; l'augmentation s'arrête à MaxLineQuantity.
func Update(items []models.CartItem, productID int, action string) ([]models.CartItem, error) {
	if action != ActionIncrease && action != ActionDecrease {
		return nil, ErrInvalidAction
	}

	i := indexOf(items, productID)
	if i < 0 {
		return nil, ErrItemNotFound
	}

	out := clone(items)
	switch action {
	case ActionIncrease:
		if out[i].Quanty < MaxLineQuantity {
			out[i].Quanty++
		}
	case ActionDecrease:
		if out[i].Quanty > 1 {
			out[i].Quanty--
		}
	}
	return out, nil
}

// Remove retire la ligne si elle existe ; sinon le panier est inchangé.
func Remove(items []models.CartItem, productID int) []models.CartItem {
	out := make([]models.CartItem, 0, len(items))
	for _, it := range items {
		if it.ID != productID {
			out = append(out, it)
		}
	}
	return out
}

// Merge fusionne un panier invité : chaque ligne entrante ajoute sa quantité
// (au moins 1) à la ligne existante ou est ajoutée en fin de panier. Une
// quantité entrante au-delà de MaxLineQuantity rejette toute la fusion.
func Merge(items, incoming []models.CartItem) ([]models.CartItem, error) {
	out := clone(items)
	for _, in := range incoming {
		n := in.Quanty
		if n > MaxLineQuantity {
			return nil, ErrInvalidQuantity
		}
		if n < 1 {
			n = 1
		}
		out = addQuantity(out, in, n)
	}
	return out, nil
}

// Total calcule le montant du panier.
func Total(items []models.CartItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Price * float64(it.Quanty)
	}
	return total
}

func addQuantity(items []models.CartItem, line models.CartItem, n int) []models.CartItem {
	out := clone(items)
	if i := indexOf(out, line.ID); i >= 0 {
		// Saturation : la somme ne dépasse jamais MaxLineQuantity
		if n >= MaxLineQuantity-out[i].Quanty {
			out[i].Quanty = MaxLineQuantity
		} else {
			out[i].Quanty += n
		}
		return out
	}
	line.Quanty = min(n, MaxLineQuantity)
	return append(out, line)
}

func lineFor(p models.Product) models.CartItem {
	return models.CartItem{
		ID:          p.ID,
		ProductName: p.ProductName,
		Price:       p.Price,
		Img:         p.Img,
	}
}

func indexOf(items []models.CartItem, productID int) int {
	for i := range items {
		if items[i].ID == productID {
			return i
		}
	}
	return -1
}

func clone(items []models.CartItem) []models.CartItem {
	out := make([]models.CartItem, len(items), len(items)+1)
	copy(out, items)
	return out
}
