package socialflow

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const StateTTL = 10 * time.Minute

var ErrInvalidState = errors.New("state inválido ou expirado")

// NewState builds an OAuth state of the form hex(16 random bytes)|user|network.
func NewState(userID, network string) (string, error) {
	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return hex.EncodeToString(nonce) + "|" + userID + "|" + network, nil
}

// ParseState splits a state into user and network. The user part may itself
// contain separators; the nonce is the first field and the network the last.
func ParseState(state string) (userID, network string, err error) {
	first := strings.Index(state, "|")
	last := strings.LastIndex(state, "|")
	if first != 32 || last <= first {
		return "", "", ErrInvalidState
	}
	if _, err := hex.DecodeString(state[:first]); err != nil {
		return "", "", ErrInvalidState
	}
	userID, network = state[first+1:last], state[last+1:]
	if userID == "" || network == "" {
		return "", "", ErrInvalidState
	}
	return userID, network, nil
}

// StateStore keeps issued states until they are consumed once or expire.
type StateStore interface {
	Save(ctx context.Context, state string, ttl time.Duration) error
	Consume(ctx context.Context, state string) (bool, error)
}

type MemoryStateStore struct {
	mu      sync.Mutex
	expires map[string]time.Time
	now     func() time.Time
}

func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{expires: map[string]time.Time{}, now: time.Now}
}

func (s *MemoryStateStore) Save(_ context.Context, state string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, exp := range s.expires {
		if now.After(exp) {
			delete(s.expires, k)
		}
	}
	if _, ok := s.expires[state]; ok {
		return fmt.Errorf("state already issued")
	}
	s.expires[state] = now.Add(ttl)
	return nil
}

func (s *MemoryStateStore) Consume(_ context.Context, state string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.expires[state]
	if !ok {
		return false, nil
	}
	delete(s.expires, state)
	return !s.now().After(exp), nil
}

// RedisStateStore shares states across API instances.
type RedisStateStore struct {
	client    redis.Cmdable
	keyPrefix string
}

func NewRedisStateStore(client redis.Cmdable, keyPrefix string) *RedisStateStore {
	if keyPrefix == "" {
		keyPrefix = "socialflow:oauth:"
	}
	return &RedisStateStore{client: client, keyPrefix: keyPrefix}
}

func (s *RedisStateStore) Save(ctx context.Context, state string, ttl time.Duration) error {
	ok, err := s.client.SetNX(ctx, s.keyPrefix+state, "1", ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to save oauth state: %w", err)
	}
	if !ok {
		return fmt.Errorf("state already issued")
	}
	return nil
}

func (s *RedisStateStore) Consume(ctx context.Context, state string) (bool, error) {
	_, err := s.client.GetDel(ctx, s.keyPrefix+state).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to consume oauth state: %w", err)
	}
	return true, nil
}
