// Package auth gère l'inscription et la vérification des identifiants.
// L'ouverture de session elle-même est faite par les handlers.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"boutique_back_end/internal/models"
	"boutique_back_end/internal/repository"

	"github.com/go-playground/validator/v10"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 32

	storeTimeout = 5 * time.Second
)

// ValidationError porte un message lisible destiné au client.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ErrInvalidCredentials ne distingue volontairement pas email inconnu et mauvais mot de passe.
var ErrInvalidCredentials = errors.New("Email ou mot de passe incorrect.")

var (
	errMissingFields = &ValidationError{"Email et mot de passe sont requis."}
	errInvalidEmail  = &ValidationError{"Adresse email invalide."}
	errEmailTaken    = &ValidationError{"Cet email est déjà utilisé."}
	errPasswordLen   = &ValidationError{fmt.Sprintf(
		"Le mot de passe doit contenir entre %d et %d caractères.", MinPasswordLength, MaxPasswordLength)}
)

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type Service struct {
	users    UserStore
	validate *validator.Validate
}

func NewService(users UserStore) *Service {
	return &Service{users: users, validate: validator.New()}
}

// NormalizeEmail retire les espaces et passe l'adresse en minuscules.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidatePassword compte les caractères, pas les octets.
func ValidatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < MinPasswordLength || n > MaxPasswordLength {
		return errPasswordLen
	}
	return nil
}

// Register crée le compte. L'utilisateur n'est pas connecté automatiquement.
func (s *Service) Register(ctx context.Context, email, password string) (*models.User, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, errMissingFields
	}
	if err := s.validate.Var(email, "email"); err != nil {
		return nil, errInvalidEmail
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	if _, err := s.users.FindUserByEmail(ctx, email); err == nil {
		return nil, errEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash mot de passe: %w", err)
	}

	user := &models.User{Email: email, Password: hash, Cart: []models.CartItem{}}
	if err := s.users.CreateUser(ctx, user); err != nil {
		// Deux inscriptions simultanées : l'index unique tranche.
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, errEmailTaken
		}
		return nil, err
	}
	return user, nil
}

// Login retourne l'utilisateur si les identifiants sont valides.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, errMissingFields
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	user, err := s.users.FindUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	ok, err := VerifyPassword(password, user.Password)
	if err != nil {
		return nil, fmt.Errorf("vérification mot de passe %s: %w", email, err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
