package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"boutique_back_end/internal/models"
	"boutique_back_end/internal/repository"
)

const (
	defaultMaxAttempts = 5
	storeTimeout       = 5 * time.Second
)

// Repository est la frontière de persistance du panier.
type Repository interface {
	LoadCart(ctx context.Context, userID string) ([]models.CartItem, int64, error)
	SaveCart(ctx context.Context, userID string, items []models.CartItem, version int64) error
}

type Catalog interface {
	Find(id int) (models.Product, bool)
}

// Notifier est prévenu après chaque mutation réussie.
type Notifier interface {
	CartUpdated(ctx context.Context, userID string, items []models.CartItem)
}

// Service est l'unique point d'entrée pour lire et modifier un panier.
type Service struct {
	repo        Repository
	catalog     Catalog
	notifier    Notifier
	maxAttempts int
}

type Option func(*Service)

func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithMaxAttempts borne le nombre de relectures après un conflit de version.
func WithMaxAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

func NewService(repo Repository, catalog Catalog, opts ...Option) *Service {
	s := &Service{repo: repo, catalog: catalog, maxAttempts: defaultMaxAttempts}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get retourne le panier ; un panier absent est un panier vide.
func (s *Service) Get(ctx context.Context, userID string) ([]models.CartItem, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	items, _, err := s.repo.LoadCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.CartItem{}
	}
	return items, nil
}

func (s *Service) Add(ctx context.Context, userID string, productID int) ([]models.CartItem, error) {
	p, ok := s.catalog.Find(productID)
	if !ok {
		return nil, fmt.Errorf("produit %d: %w", productID, ErrUnknownProduct)
	}
	return s.mutate(ctx, userID, func(items []models.CartItem) ([]models.CartItem, error) {
		return Add(items, p), nil
	})
}

func (s *Service) Update(ctx context.Context, userID string, productID int, action string) ([]models.CartItem, error) {
	return s.mutate(ctx, userID, func(items []models.CartItem) ([]models.CartItem, error) {
		return Update(items, productID, action)
	})
}

func (s *Service) Remove(ctx context.Context, userID string, productID int) ([]models.CartItem, error) {
	return s.mutate(ctx, userID, func(items []models.CartItem) ([]models.CartItem, error) {
		return Remove(items, productID), nil
	})
}

// GuestLine est une ligne du panier construit côté navigateur avant connexion.
type GuestLine struct {
	ID     int `json:"id"`
	Quanty int `json:"quanty"`
}

// Merge ajoute un panier invité au panier serveur. Les produits inconnus du
// catalogue sont ignorés ; nom et prix viennent toujours du catalogue.
func (s *Service) Merge(ctx context.Context, userID string, lines []GuestLine) ([]models.CartItem, error) {
	incoming := make([]models.CartItem, 0, len(lines))
	for _, l := range lines {
		if l.Quanty > MaxLineQuantity {
			return nil, fmt.Errorf("produit %d, quantité %d: %w", l.ID, l.Quanty, ErrInvalidQuantity)
		}
		p, ok := s.catalog.Find(l.ID)
		if !ok {
			continue
		}
		line := lineFor(p)
		line.Quanty = l.Quanty
		incoming = append(incoming, line)
	}
	return s.mutate(ctx, userID, func(items []models.CartItem) ([]models.CartItem, error) {
		return Merge(items, incoming)
	})
}

// mutate fait lecture, application puis écriture conditionnelle, et relit en
// cas de conflit de version.
func (s *Service) mutate(ctx context.Context, userID string, apply func([]models.CartItem) ([]models.CartItem, error)) ([]models.CartItem, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		items, version, err := s.repo.LoadCart(ctx, userID)
		if err != nil {
			return nil, err
		}

		next, err := apply(items)
		if err != nil {
			return nil, err
		}

		err = s.repo.SaveCart(ctx, userID, next, version)
		if errors.Is(err, repository.ErrConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}

		if s.notifier != nil {
			s.notifier.CartUpdated(ctx, userID, next)
		}
		return next, nil
	}
	return nil, fmt.Errorf("panier %s après %d tentatives: %w", userID, s.maxAttempts, repository.ErrConflict)
}
