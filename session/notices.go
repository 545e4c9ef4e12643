package session

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/vmihailenco/msgpack/v5"
)

const noticesKeyPrefix = "notices:"

// DefaultNoticeLifetime is used when Notices is created with a zero lifetime
const DefaultNoticeLifetime = 10 * time.Minute

// Notices is a read-once message queue per client. Messages pushed during one
// request are returned by the first Pop of the following request and are
// gone afterwards.
type Notices struct {
	store    fiber.Storage
	lifetime time.Duration
}

// NewNotices creates a new Notices queue on top of store
func NewNotices(store fiber.Storage, lifetime time.Duration) *Notices {
	if lifetime <= 0 {
		lifetime = DefaultNoticeLifetime
	}
	return &Notices{
		store:    store,
		lifetime: lifetime,
	}
}

// Lifetime returns how long undelivered notices are kept
func (n *Notices) Lifetime() time.Duration {
	return n.lifetime
}

// Push appends msgs to the queue identified by id. If id is empty or not a
// valid queue id a new queue is started. The id of the queue is returned.
func (n *Notices) Push(id string, msgs ...string) (string, error) {
	if !validToken(id) {
		id = uuid.NewString()
	}
	if len(msgs) == 0 {
		return id, nil
	}
	queue, err := n.read(id)
	if err != nil {
		return "", err
	}
	queue = append(queue, msgs...)
	data, err := msgpack.Marshal(queue)
	if err != nil {
		return "", errors.WithStack(err)
	}
	if err = n.store.Set(noticesKeyPrefix+id, data, n.lifetime); err != nil {
		return "", errors.Wrap(err, "could not store notices")
	}
	return id, nil
}

// Pop returns all queued messages for id and empties the queue
func (n *Notices) Pop(id string) []string {
	if !validToken(id) {
		return nil
	}
	queue, err := n.read(id)
	if err != nil {
		log.WithError(err).Error("could not read notices")
		return nil
	}
	if len(queue) == 0 {
		return nil
	}
	if err = n.store.Delete(noticesKeyPrefix + id); err != nil {
		log.WithError(err).Error("could not delete notices")
	}
	return queue
}

func (n *Notices) read(id string) ([]string, error) {
	raw, err := n.store.Get(noticesKeyPrefix + id)
	if err != nil {
		return nil, errors.Wrap(err, "could not read notices")
	}
	if raw == nil {
		return nil, nil
	}
	var queue []string
	if err = msgpack.Unmarshal(raw, &queue); err != nil {
		log.WithError(err).Warn("discarding undecodable notices")
		return nil, nil
	}
	return queue, nil
}
