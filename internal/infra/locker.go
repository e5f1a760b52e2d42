package infra

import (
	"context"
	"errors"
	"sync"
	"time"

	"gasagua/internal/apierror"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const prefixoLock = "lock:"

// RedisLocker serializes critical sections across server processes.
type RedisLocker struct {
	client *redislock.Client
	ttl    time.Duration
	retry  redislock.RetryStrategy
}

func NewRedisLocker(rdb *redis.Client, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &RedisLocker{
		client: redislock.New(rdb),
		ttl:    ttl,
		// waits up to ~3s for the holder to finish
		retry: redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), 30),
	}
}

// Obter acquires chave and returns its release func.
func (l *RedisLocker) Obter(ctx context.Context, chave string) (func(), error) {
	lock, err := l.client.Obtain(ctx, prefixoLock+chave, l.ttl, &redislock.Options{RetryStrategy: l.retry})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, apierror.ErrOperacaoEmAndamento
	}
	if err != nil {
		return nil, err
	}
	return func() {
		// the caller's ctx may already be done
		if err := lock.Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			log.Warn().Err(err).Str("chave", chave).Msg("falha ao liberar lock")
		}
	}, nil
}

// LocalLocker is the single-process fallback used when Redis is not configured.
type LocalLocker struct {
	mu     sync.Mutex
	chaves map[string]chan struct{}
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{chaves: make(map[string]chan struct{})}
}

func (l *LocalLocker) Obter(ctx context.Context, chave string) (func(), error) {
	l.mu.Lock()
	sem, ok := l.chaves[chave]
	if !ok {
		sem = make(chan struct{}, 1)
		l.chaves[chave] = sem
	}
	l.mu.Unlock()

	select {
	case sem <- struct{}{}:
		var once sync.Once
		return func() { once.Do(func() { <-sem }) }, nil
	case <-ctx.Done():
		return nil, apierror.ErrOperacaoEmAndamento
	}
}
