package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"storefront-service/events"
	"storefront-service/model"
)

// Store loads, mutates and re-persists carts. Each mutation rewrites the full line
// sequence; concurrent writers on different instances are last-write-wins.
type Store struct {
	kv   KV
	feed *events.Feed[events.CartChanged]
	now  func() time.Time

	mu sync.Mutex
}

func NewStore(kv KV, feed *events.Feed[events.CartChanged]) *Store {
	return &Store{kv: kv, feed: feed, now: time.Now}
}

func cartKey(owner int) string {
	return fmt.Sprintf("cart:%d", owner)
}

// Load returns the owner's cart. Missing or malformed data yields an empty cart.
func (s *Store) Load(ctx context.Context, owner int) (*Cart, error) {
	b, err := s.kv.Get(ctx, cartKey(owner))
	if errors.Is(err, ErrNotFound) {
		return &Cart{}, nil
	}
	if err != nil {
		return nil, err
	}

	var lines []model.CartLine
	if err := json.Unmarshal(b, &lines); err != nil {
		log.Printf("[cart] malformed cart for owner %d, starting empty: %v", owner, err)
		return &Cart{}, nil
	}
	c := &Cart{Lines: lines}
	if c.normalize() {
		log.Printf("[cart] stored cart for owner %d broke line invariants, normalized to %d line(s)", owner, len(c.Lines))
	}
	return c, nil
}

func (s *Store) save(ctx context.Context, owner int, c *Cart) error {
	if len(c.Lines) == 0 {
		if err := s.kv.Del(ctx, cartKey(owner)); err != nil {
			return err
		}
	} else {
		b, err := json.Marshal(c.Lines)
		if err != nil {
			return fmt.Errorf("marshal cart failed: %w", err)
		}
		if err := s.kv.Set(ctx, cartKey(owner), b); err != nil {
			return err
		}
	}

	s.feed.Publish(events.CartChanged{
		Owner:      owner,
		TotalLines: c.TotalLines(),
		TotalPrice: c.TotalPrice(),
		Cleared:    len(c.Lines) == 0,
	})
	return nil
}

// update runs fn against the loaded cart and persists the result when fn succeeds.
func (s *Store) update(ctx context.Context, owner int, fn func(c *Cart) error) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.Load(ctx, owner)
	if err != nil {
		return nil, err
	}
	if err := fn(c); err != nil {
		return nil, err
	}
	if err := s.save(ctx, owner, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Store) Add(ctx context.Context, owner int, item model.CartLine) (*Cart, error) {
	return s.update(ctx, owner, func(c *Cart) error {
		return c.Add(item, s.now())
	})
}

func (s *Store) Remove(ctx context.Context, owner int, lineID string) (*Cart, error) {
	return s.update(ctx, owner, func(c *Cart) error {
		return c.Remove(lineID)
	})
}

func (s *Store) SetQuantity(ctx context.Context, owner int, lineID string, n int) (*Cart, error) {
	return s.update(ctx, owner, func(c *Cart) error {
		return c.SetQuantity(lineID, n)
	})
}

func (s *Store) Clear(ctx context.Context, owner int) error {
	_, err := s.update(ctx, owner, func(c *Cart) error {
		c.Clear()
		return nil
	})
	return err
}

func (s *Store) TotalLines(ctx context.Context, owner int) (int, error) {
	c, err := s.Load(ctx, owner)
	if err != nil {
		return 0, err
	}
	return c.TotalLines(), nil
}

func (s *Store) TotalPrice(ctx context.Context, owner int) (int64, error) {
	c, err := s.Load(ctx, owner)
	if err != nil {
		return 0, err
	}
	return c.TotalPrice(), nil
}

func (s *Store) Contains(ctx context.Context, owner int, productID int, size, color string) (bool, error) {
	c, err := s.Load(ctx, owner)
	if err != nil {
		return false, err
	}
	return c.Contains(productID, size, color), nil
}
