package worker

// retry_cron.go
// Background goroutine that periodically moves transient failures from the
// DLQ back to their queue. E-mail jobs wait while the SMTP breaker is open.

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gasagua/internal/infra"

	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 5 * time.Minute
	retryBatchSize    = 10
	maxReprocessos    = 3
	dlqPopTimeout     = 100 * time.Millisecond
)

// RetryCronConfig holds all dependencies for the retry goroutine.
type RetryCronConfig struct {
	Fila Fila
	// SMTPBreaker may be nil when e-mail is not configured.
	SMTPBreaker *infra.CircuitBreaker
	Intervalo   time.Duration
}

// StartRetryCron launches the retry goroutine. It stops with ctx.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	if cfg.Intervalo <= 0 {
		cfg.Intervalo = retryTickInterval
	}
	go func() {
		ticker := time.NewTicker(cfg.Intervalo)
		defer ticker.Stop()

		log.Info().Dur("intervalo", cfg.Intervalo).Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				if n := reprocessarDLQ(ctx, cfg); n > 0 {
					log.Info().Int("count", n).Msg("retry_cron: jobs reenfileirados")
				}
			}
		}
	}()
}

// reprocessarDLQ visits at most retryBatchSize entries per queue and returns
// how many went back to their original queue. Entries that stay are pushed
// back onto the DLQ.
func reprocessarDLQ(ctx context.Context, cfg RetryCronConfig) int {
	total := 0
	for _, queue := range []string{QueueRecibo, QueueEmail} {
		if queue == QueueEmail && cfg.SMTPBreaker != nil && cfg.SMTPBreaker.State() == infra.CBOpen {
			log.Debug().Msg("retry_cron: circuit breaker is open, skipping e-mail DLQ")
			continue
		}
		n, err := DLQLength(ctx, cfg.Fila, queue)
		if err != nil {
			log.Error().Err(err).Str("queue", queue).Msg("retry_cron: failed to read DLQ length")
			continue
		}
		if n > retryBatchSize {
			n = retryBatchSize
		}
		for i := int64(0); i < n; i++ {
			ok, err := reprocessarEntrada(ctx, cfg.Fila, queue)
			if err != nil {
				if !errors.Is(err, ErrFilaVazia) {
					log.Error().Err(err).Str("queue", queue).Msg("retry_cron: failed to reprocess entry")
				}
				break
			}
			if ok {
				total++
			}
		}
	}
	return total
}

func reprocessarEntrada(ctx context.Context, fila Fila, queue string) (bool, error) {
	_, raw, err := fila.Pop(ctx, dlqPopTimeout, DLQPrefix+queue)
	if err != nil {
		return false, err
	}
	var entry DLQEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		// not ours to fix; put it back untouched
		return false, fila.Push(ctx, DLQPrefix+queue, raw)
	}
	if !entry.Reprocessavel || entry.Reprocessos >= maxReprocessos {
		return false, pushDLQ(ctx, fila, entry)
	}
	job := Job{Type: entry.JobType, Payload: entry.Payload, Reprocessos: entry.Reprocessos + 1}
	if err := push(ctx, fila, queue, job); err != nil {
		// keep the entry so it is not lost
		_ = pushDLQ(ctx, fila, entry)
		return false, err
	}
	return true, nil
}
