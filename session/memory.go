package session

import (
	"time"

	"github.com/TwiN/gocache/v2"
)

// MemoryStorage is an in-process fiber.Storage backed by gocache. Values are
// lost when the process exits.
type MemoryStorage struct {
	cache *gocache.Cache
}

// NewMemoryStorage creates a new MemoryStorage and starts its expiry janitor
func NewMemoryStorage() (*MemoryStorage, error) {
	c := gocache.NewCache().WithEvictionPolicy(gocache.LeastRecentlyUsed)
	if err := c.StartJanitor(); err != nil {
		return nil, err
	}
	return &MemoryStorage{cache: c}, nil
}

// Get implements the fiber.Storage interface
func (s *MemoryStorage) Get(key string) ([]byte, error) {
	v, found := s.cache.Get(key)
	if !found {
		return nil, nil
	}
	b, ok := v.([]byte)
	if !ok {
		return nil, nil
	}
	return b, nil
}

// Set implements the fiber.Storage interface
func (s *MemoryStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	v := make([]byte, len(val))
	copy(v, val)
	if exp <= 0 {
		s.cache.Set(key, v)
		return nil
	}
	s.cache.SetWithTTL(key, v, exp)
	return nil
}

// Delete implements the fiber.Storage interface
func (s *MemoryStorage) Delete(key string) error {
	s.cache.Delete(key)
	return nil
}

// Reset implements the fiber.Storage interface
func (s *MemoryStorage) Reset() error {
	s.cache.Clear()
	return nil
}

// Close implements the fiber.Storage interface
func (s *MemoryStorage) Close() error {
	s.cache.StopJanitor()
	return nil
}
