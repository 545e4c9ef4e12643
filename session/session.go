// Package session resolves browser session tokens to user identities and
// carries one-shot notices between requests.
package session

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/go-watchlist/watchlist/storage/model"
)

const sessionKeyPrefix = "session:"

// DefaultLifetime is used when a Manager is created with a zero lifetime
const DefaultLifetime = 24 * time.Hour

// Identity is the result of resolving a session token
type Identity struct {
	UserID uint
}

// Anonymous is the identity of a request without a valid session
var Anonymous = Identity{}

// Authenticated reports whether the identity belongs to a logged-in user
func (i Identity) Authenticated() bool {
	return i.UserID != 0
}

type record struct {
	UserID   uint  `msgpack:"uid"`
	IssuedAt int64 `msgpack:"iat"`
}

// Manager maps opaque session tokens to users. Session records are kept in a
// fiber.Storage so any of the storage backends can hold them.
type Manager struct {
	store    fiber.Storage
	users    model.UsersStore
	lifetime time.Duration
}

// NewManager creates a new Manager
func NewManager(store fiber.Storage, users model.UsersStore, lifetime time.Duration) *Manager {
	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}
	return &Manager{
		store:    store,
		users:    users,
		lifetime: lifetime,
	}
}

// Lifetime returns how long a session stays valid after it was created
func (m *Manager) Lifetime() time.Duration {
	return m.lifetime
}

// Resolve returns the Identity for token. It never fails: missing, malformed
// and expired tokens as well as tokens of users that no longer exist all
// resolve to Anonymous.
func (m *Manager) Resolve(token string) Identity {
	if !validToken(token) {
		return Anonymous
	}
	raw, err := m.store.Get(sessionKeyPrefix + token)
	if err != nil {
		log.WithError(err).Error("could not read session")
		return Anonymous
	}
	if raw == nil {
		return Anonymous
	}
	var rec record
	if err = msgpack.Unmarshal(raw, &rec); err != nil {
		log.WithError(err).Warn("discarding undecodable session record")
		return Anonymous
	}
	if rec.UserID == 0 {
		return Anonymous
	}
	if _, err = m.users.Get(rec.UserID); err != nil {
		return Anonymous
	}
	return Identity{UserID: rec.UserID}
}

// Create issues a new session for userID and returns its token
func (m *Manager) Create(userID uint) (string, error) {
	if userID == 0 {
		return "", model.ErrUnknownUser
	}
	if _, err := m.users.Get(userID); err != nil {
		var notFound model.NotFoundError
		if errors.As(err, &notFound) {
			return "", model.ErrUnknownUser
		}
		return "", err
	}
	data, err := msgpack.Marshal(
		record{
			UserID:   userID,
			IssuedAt: time.Now().Unix(),
		},
	)
	if err != nil {
		return "", errors.WithStack(err)
	}
	token := uuid.NewString()
	if err = m.store.Set(sessionKeyPrefix+token, data, m.lifetime); err != nil {
		return "", errors.Wrap(err, "could not store session")
	}
	log.WithField("user", userID).Debug("session created")
	return token, nil
}

// Destroy removes the session for token. Destroying an unknown session is
// not an error.
func (m *Manager) Destroy(token string) error {
	if !validToken(token) {
		return nil
	}
	return errors.Wrap(m.store.Delete(sessionKeyPrefix+token), "could not delete session")
}

func validToken(token string) bool {
	if token == "" {
		return false
	}
	_, err := uuid.Parse(token)
	return err == nil
}
