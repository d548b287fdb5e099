package repository

import (
	"context"
	"errors"
	"testing"

	"boutique_back_end/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMemoryCreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory()

	u := &models.User{Email: "a@b.com", Password: "hash"}
	if err := repo.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.ID.IsZero() {
		t.Fatal("l'id devrait être attribué")
	}

	got, err := repo.FindUserByEmail(ctx, "a@b.com")
	if err != nil {
		t.Fatalf("FindUserByEmail: %v", err)
	}
	if got.ID != u.ID || got.Password != "hash" {
		t.Errorf("utilisateur inattendu: %+v", got)
	}

	if err := repo.CreateUser(ctx, &models.User{Email: "a@b.com"}); !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("second CreateUser = %v, want ErrDuplicateEmail", err)
	}
	if _, err := repo.FindUserByEmail(ctx, "x@y.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindUserByEmail(inconnu) = %v, want ErrNotFound", err)
	}
}

func TestMemoryCartVersioning(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory()
	u := &models.User{Email: "a@b.com"}
	if err := repo.CreateUser(ctx, u); err != nil {
		t.Fatal(err)
	}
	id := u.ID.Hex()

	items, v, err := repo.LoadCart(ctx, id)
	if err != nil || len(items) != 0 || v != 0 {
		t.Fatalf("LoadCart = %v, %d, %v", items, v, err)
	}

	line := []models.CartItem{{ID: 1, ProductName: "Mate", Price: 10, Quanty: 1}}
	if err := repo.SaveCart(ctx, id, line, v); err != nil {
		t.Fatalf("SaveCart: %v", err)
	}
	if err := repo.SaveCart(ctx, id, nil, v); !errors.Is(err, ErrConflict) {
		t.Errorf("SaveCart avec version périmée = %v, want ErrConflict", err)
	}

	line[0].Quanty = 99
	items, v, _ = repo.LoadCart(ctx, id)
	if v != 1 || len(items) != 1 || items[0].Quanty != 1 {
		t.Errorf("panier stocké modifié par l'appelant: %+v (v=%d)", items, v)
	}

	if _, _, err := repo.LoadCart(ctx, "inconnu"); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadCart(inconnu) = %v, want ErrNotFound", err)
	}
	if err := repo.SaveCart(ctx, "inconnu", nil, 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("SaveCart(inconnu) = %v, want ErrNotFound", err)
	}
}

func TestVersionFilter(t *testing.T) {
	id := primitive.NewObjectID()

	f := versionFilter(id, 0)
	if _, ok := f["$or"].(bson.A); !ok {
		t.Errorf("version 0 doit accepter un champ absent: %v", f)
	}

	f = versionFilter(id, 3)
	if f["version"] != int64(3) {
		t.Errorf("filtre version = %v", f)
	}
}
