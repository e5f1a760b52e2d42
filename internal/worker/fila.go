package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrFilaVazia is returned by Pop when nothing arrived before the timeout.
var ErrFilaVazia = errors.New("fila vazia")

// Fila is a set of named FIFO lists. Push adds to the head, Pop takes from the tail.
type Fila interface {
	Push(ctx context.Context, queue string, data []byte) error
	Pop(ctx context.Context, timeout time.Duration, queues ...string) (queue string, data []byte, err error)
	Len(ctx context.Context, queue string) (int64, error)
}

// RedisFila backs the queues with Redis lists (LPUSH / BRPOP).
type RedisFila struct {
	rdb *redis.Client
}

func NewRedisFila(rdb *redis.Client) *RedisFila {
	return &RedisFila{rdb: rdb}
}

func (f *RedisFila) Push(ctx context.Context, queue string, data []byte) error {
	return f.rdb.LPush(ctx, queue, data).Err()
}

// Pop blocks on BRPOP, so idle workers cost nothing.
func (f *RedisFila) Pop(ctx context.Context, timeout time.Duration, queues ...string) (string, []byte, error) {
	res, err := f.rdb.BRPop(ctx, timeout, queues...).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil, ErrFilaVazia
	}
	if err != nil {
		return "", nil, err
	}
	if len(res) < 2 {
		return "", nil, ErrFilaVazia
	}
	return res[0], []byte(res[1]), nil
}

func (f *RedisFila) Len(ctx context.Context, queue string) (int64, error) {
	return f.rdb.LLen(ctx, queue).Result()
}

// MemoriaFila keeps the queues in process. Used when Redis is not configured;
// pending jobs are lost on restart.
type MemoriaFila struct {
	mu     sync.Mutex
	listas map[string][][]byte
	aviso  chan struct{}
}

func NewMemoriaFila() *MemoriaFila {
	return &MemoriaFila{listas: make(map[string][][]byte), aviso: make(chan struct{})}
}

func (f *MemoriaFila) Push(_ context.Context, queue string, data []byte) error {
	cp := append([]byte(nil), data...)
	f.mu.Lock()
	f.listas[queue] = append([][]byte{cp}, f.listas[queue]...)
	// wake every waiting Pop
	close(f.aviso)
	f.aviso = make(chan struct{})
	f.mu.Unlock()
	return nil
}

func (f *MemoriaFila) Pop(ctx context.Context, timeout time.Duration, queues ...string) (string, []byte, error) {
	limite := time.NewTimer(timeout)
	defer limite.Stop()
	for {
		f.mu.Lock()
		for _, q := range queues {
			if l := f.listas[q]; len(l) > 0 {
				data := l[len(l)-1]
				f.listas[q] = l[:len(l)-1]
				f.mu.Unlock()
				return q, data, nil
			}
		}
		aviso := f.aviso
		f.mu.Unlock()

		select {
		case <-aviso:
		case <-limite.C:
			return "", nil, ErrFilaVazia
		case <-ctx.Done():
			return "", nil, ctx.Err()
		}
	}
}

func (f *MemoriaFila) Len(_ context.Context, queue string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.listas[queue])), nil
}
