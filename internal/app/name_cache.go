package app

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"quizhost-service/internal/domain"
)

// NameCache answers the public quiz-name lookup from a TTL cache so the
// hottest participant endpoint stays off the store. Staleness is bounded by
// the TTL and only ever affects the displayed name.
type NameCache struct {
	quizzes QuizStore
	ttl     time.Duration
	clock   func() time.Time
	sf      singleflight.Group
	rnd     *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedName
}

type cachedName struct {
	name      string
	expiresAt time.Time
}

func NewNameCache(quizzes QuizStore, ttl time.Duration) *NameCache {
	return &NameCache{
		quizzes: quizzes,
		ttl:     ttl,
		clock:   time.Now,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:   make(map[string]cachedName),
	}
}

// QuizName returns the session's display name, loading through on cache miss.
func (c *NameCache) QuizName(ctx context.Context, sessionCode string) (string, error) {
	if sessionCode == "" {
		return "", domain.Validationf("session code is required")
	}
	now := c.clock()

	c.mu.RLock()
	if entry, ok := c.cache[sessionCode]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return entry.name, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do(sessionCode, func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if entry, ok := c.cache[sessionCode]; ok && entry.expiresAt.After(now) {
			c.mu.RUnlock()
			return entry.name, nil
		}
		c.mu.RUnlock()

		quiz, err := c.quizzes.GetQuiz(ctx, sessionCode)
		if err != nil {
			return "", err
		}

		c.mu.Lock()
		c.cache[sessionCode] = cachedName{
			name:      quiz.QuizName,
			expiresAt: now.Add(c.ttlWithJitter()),
		}
		c.mu.Unlock()
		return quiz.QuizName, nil
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (c *NameCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
