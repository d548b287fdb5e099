package repository

import (
	"context"
	"sync"
	"time"

	"boutique_back_end/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Memory garde les utilisateurs en mémoire (STORAGE_DRIVER=memory et tests).
type Memory struct {
	mu      sync.Mutex
	byID    map[string]*models.User
	byEmail map[string]string
}

func NewMemory() *Memory {
	return &Memory{
		byID:    make(map[string]*models.User),
		byEmail: make(map[string]string),
	}
}

func (m *Memory) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.byEmail[user.Email]; taken {
		return ErrDuplicateEmail
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	if user.Cart == nil {
		user.Cart = []models.CartItem{}
	}

	stored := cloneUser(user)
	m.byID[user.ID.Hex()] = stored
	m.byEmail[user.Email] = user.ID.Hex()
	return nil
}

func (m *Memory) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneUser(m.byID[id]), nil
}

func (m *Memory) LoadCart(_ context.Context, userID string) ([]models.CartItem, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.byID[userID]
	if !ok {
		return nil, 0, ErrNotFound
	}
	return cloneItems(u.Cart), u.Version, nil
}

func (m *Memory) SaveCart(_ context.Context, userID string, items []models.CartItem, version int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.byID[userID]
	if !ok {
		return ErrNotFound
	}
	if u.Version != version {
		return ErrConflict
	}
	u.Cart = cloneItems(items)
	u.Version++
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *Memory) Ping(context.Context) error { return nil }

func cloneUser(u *models.User) *models.User {
	c := *u
	c.Cart = cloneItems(u.Cart)
	return &c
}

func cloneItems(items []models.CartItem) []models.CartItem {
	out := make([]models.CartItem, len(items))
	copy(out, items)
	return out
}
