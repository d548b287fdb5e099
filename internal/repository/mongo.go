package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"boutique_back_end/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const usersCollection = "users"

// Mongo stocke les utilisateurs dans la collection "users".
type Mongo struct {
	users *mongo.Collection
}

// Connect ouvre le client MongoDB et vérifie la connexion.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connexion MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}
	log.Println("✅ Connecté à MongoDB")
	return client, nil
}

func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{users: db.Collection(usersCollection)}
}

// EnsureIndexes crée l'index unique sur l'email.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	_, err := m.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	if err != nil {
		return fmt.Errorf("création index email: %w", err)
	}
	return nil
}

func (m *Mongo) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	if user.Cart == nil {
		user.Cart = []models.CartItem{}
	}

	if _, err := m.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("insertion utilisateur: %w", err)
	}
	return nil
}

func (m *Mongo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := m.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("recherche utilisateur: %w", err)
	}
	return &user, nil
}

type cartDocument struct {
	Cart    []models.CartItem `bson:"cart"`
	Version int64             `bson:"version"`
}

func (m *Mongo) LoadCart(ctx context.Context, userID string) ([]models.CartItem, int64, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, 0, ErrNotFound
	}

	var doc cartDocument
	err = m.users.FindOne(ctx, bson.M{"_id": oid},
		options.FindOne().SetProjection(bson.M{"cart": 1, "version": 1})).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, 0, ErrNotFound
	}
	if err != nil {
		return nil, 0, fmt.Errorf("lecture panier: %w", err)
	}
	if doc.Cart == nil {
		doc.Cart = []models.CartItem{}
	}
	return doc.Cart, doc.Version, nil
}

func (m *Mongo) SaveCart(ctx context.Context, userID string, items []models.CartItem, version int64) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return ErrNotFound
	}
	if items == nil {
		items = []models.CartItem{}
	}

	res, err := m.users.UpdateOne(ctx, versionFilter(oid, version), bson.M{
		"$set": bson.M{"cart": items, "updatedAt": time.Now().UTC()},
		"$inc": bson.M{"version": 1},
	})
	if err != nil {
		return fmt.Errorf("écriture panier: %w", err)
	}
	if res.MatchedCount == 1 {
		return nil
	}

	n, err := m.users.CountDocuments(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("vérification utilisateur: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return ErrConflict
}

func (m *Mongo) Ping(ctx context.Context) error {
	return m.users.Database().Client().Ping(ctx, nil)
}

// versionFilter tient compte des documents créés avant l'apparition du champ
// "version" : ils sont traités comme étant à la version 0.
func versionFilter(id primitive.ObjectID, version int64) bson.M {
	if version == 0 {
		return bson.M{"_id": id, "$or": bson.A{
			bson.M{"version": 0},
			bson.M{"version": bson.M{"$exists": false}},
		}}
	}
	return bson.M{"_id": id, "version": version}
}
