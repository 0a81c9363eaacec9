package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"
)

// Config configures a Service.
type Config struct {
	Capacity        int
	TTL             time.Duration
	CleanupInterval time.Duration
}

// Service wraps an LRU and sweeps expired entries in the background.
type Service struct {
	lru *LRU

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewService starts a cache service. Close stops the sweeper.
func NewService(cfg Config) *Service {
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = time.Minute
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Service{
		lru:    NewLRU(cfg.Capacity, cfg.TTL),
		cancel: cancel,
	}

	s.wg.Add(1)
	go s.sweep(ctx, cfg.CleanupInterval)
	return s
}

// Get returns a cached value.
func (s *Service) Get(_ context.Context, key string) ([]byte, bool) {
	return s.lru.Get(key)
}

// Set stores a value with the default TTL.
func (s *Service) Set(_ context.Context, key string, value []byte) {
	s.lru.Set(key, value, 0)
}

// Invalidate removes entries matching pattern, see LRU.Invalidate.
func (s *Service) Invalidate(_ context.Context, pattern string) int {
	return s.lru.Invalidate(pattern)
}

// Stats returns usage counters.
func (s *Service) Stats() Stats {
	return s.lru.Stats()
}

// Close stops the background sweeper.
func (s *Service) Close() {
	s.cancel()
	s.wg.Wait()
}

func (s *Service) sweep(ctx context.Context, interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.lru.RemoveExpired()
		}
	}
}

// Key derives a cache key from a namespace and the request parts. The
// namespace is kept in clear so a "<namespace>:*" pattern can invalidate it.
func Key(namespace string, parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return namespace + ":" + hex.EncodeToString(h.Sum(nil))
}

// Namespace joins segments into a key namespace.
func Namespace(segments ...string) string {
	return strings.Join(segments, ":")
}
