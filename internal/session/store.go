// Package session fournit un sessions.Store gorilla dont les données vivent
// dans Redis ; le cookie ne transporte qu'un identifiant signé.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
)

// Clés stockées dans la session
const (
	UserIDKey    = "userId"
	UserEmailKey = "userEmail"
)

const (
	keyPrefix    = "session:"
	redisTimeout = 3 * time.Second
)

type RedisStore struct {
	client  redis.Cmdable
	Codecs  []securecookie.Codec
	Options *sessions.Options
}

var _ sessions.Store = (*RedisStore)(nil)

// NewRedisStore crée le store. keyPairs suit la convention de securecookie :
// clé d'authentification, puis clé de chiffrement optionnelle.
func NewRedisStore(client redis.Cmdable, maxAge time.Duration, keyPairs ...[]byte) *RedisStore {
	return &RedisStore{
		client: client,
		Codecs: securecookie.CodecsFromPairs(keyPairs...),
		Options: &sessions.Options{
			Path:     "/",
			MaxAge:   int(maxAge.Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		},
	}
}

func (s *RedisStore) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

// New charge la session désignée par le cookie. Un cookie illisible ou
// pointant vers une session expirée donne une session neuve, sans erreur.
func (s *RedisStore) New(r *http.Request, name string) (*sessions.Session, error) {
	sess := sessions.NewSession(s, name)
	opts := *s.Options
	sess.Options = &opts
	sess.IsNew = true

	c, err := r.Cookie(name)
	if err != nil {
		return sess, nil
	}
	if err := securecookie.DecodeMulti(name, c.Value, &sess.ID, s.Codecs...); err != nil {
		sess.ID = ""
		return sess, nil
	}

	found, err := s.load(r.Context(), sess)
	if err != nil {
		return sess, err
	}
	if !found {
		// Jamais réutiliser un identifiant inconnu : un nouvel id sera attribué.
		sess.ID = ""
		return sess, nil
	}
	sess.IsNew = false
	return sess, nil
}

// Save écrit la session dans Redis et pose le cookie. MaxAge < 0 supprime la
// session et expire le cookie.
func (s *RedisStore) Save(r *http.Request, w http.ResponseWriter, sess *sessions.Session) error {
	ctx, cancel := context.WithTimeout(r.Context(), redisTimeout)
	defer cancel()

	if sess.Options.MaxAge < 0 {
		if sess.ID != "" {
			if err := s.client.Del(ctx, keyPrefix+sess.ID).Err(); err != nil {
				return fmt.Errorf("suppression session: %w", err)
			}
		}
		http.SetCookie(w, sessions.NewCookie(sess.Name(), "", sess.Options))
		return nil
	}

	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}

	data, err := securecookie.GobEncoder{}.Serialize(sess.Values)
	if err != nil {
		return fmt.Errorf("encodage session: %w", err)
	}
	ttl := time.Duration(sess.Options.MaxAge) * time.Second
	if err := s.client.Set(ctx, keyPrefix+sess.ID, data, ttl).Err(); err != nil {
		return fmt.Errorf("écriture session: %w", err)
	}

	encoded, err := securecookie.EncodeMulti(sess.Name(), sess.ID, s.Codecs...)
	if err != nil {
		return fmt.Errorf("signature cookie: %w", err)
	}
	http.SetCookie(w, sessions.NewCookie(sess.Name(), encoded, sess.Options))
	return nil
}

// Destroy supprime l'enregistrement d'une session, sans toucher au cookie.
func (s *RedisStore) Destroy(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()
	if err := s.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("suppression session: %w", err)
	}
	return nil
}

func (s *RedisStore) load(ctx context.Context, sess *sessions.Session) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()

	data, err := s.client.Get(ctx, keyPrefix+sess.ID).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lecture session: %w", err)
	}
	if err := (securecookie.GobEncoder{}).Deserialize(data, &sess.Values); err != nil {
		return false, nil
	}
	return true, nil
}

// User retourne l'utilisateur attaché à la session, s'il y en a un.
func User(sess *sessions.Session) (userID, email string, ok bool) {
	userID, _ = sess.Values[UserIDKey].(string)
	email, _ = sess.Values[UserEmailKey].(string)
	return userID, email, userID != ""
}
