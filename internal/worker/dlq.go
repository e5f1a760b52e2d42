package worker

// Jobs that exhaust their attempts land in dlq:{original_queue} for manual inspection.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
)

const DLQPrefix = "dlq:"

type DLQEntry struct {
	OriginalQueue string          `json:"original_queue"`
	JobType       string          `json:"job_type"`
	Payload       json.RawMessage `json:"payload"`
	Reason        string          `json:"reason"`
	FailedAt      string          `json:"failed_at"` // RFC 3339
	Tentativas    int             `json:"tentativas"`
	// Reprocessavel marks transient failures the retry cron may requeue.
	Reprocessavel bool `json:"reprocessavel"`
	Reprocessos   int  `json:"reprocessos,omitempty"`
}

// SendToDLQ parks a job that must not be retried automatically.
func SendToDLQ(ctx context.Context, fila Fila, queue, jobType string, payload json.RawMessage, reason string, tentativas int) {
	enviarDLQ(ctx, fila, DLQEntry{
		OriginalQueue: queue,
		JobType:       jobType,
		Payload:       payload,
		Reason:        reason,
		Tentativas:    tentativas,
	})
}

func enviarDLQ(ctx context.Context, fila Fila, entry DLQEntry) {
	if !json.Valid(entry.Payload) {
		// keep the entry decodable
		entry.Payload, _ = json.Marshal(string(entry.Payload))
	}
	if entry.FailedAt == "" {
		entry.FailedAt = time.Now().UTC().Format(time.RFC3339)
	}
	if err := pushDLQ(ctx, fila, entry); err != nil {
		log.Error().Err(err).Str("dlq_key", DLQPrefix+entry.OriginalQueue).Msg("dlq: failed to push to DLQ")
		return
	}
	log.Warn().
		Str("queue", entry.OriginalQueue).
		Str("job_type", entry.JobType).
		Str("reason", entry.Reason).
		Int("tentativas", entry.Tentativas).
		Bool("reprocessavel", entry.Reprocessavel).
		Msg("dlq: job moved to dead letter queue")
}

func pushDLQ(ctx context.Context, fila Fila, entry DLQEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return fila.Push(ctx, DLQPrefix+entry.OriginalQueue, data)
}

// DLQLength is the number of entries parked for queue.
func DLQLength(ctx context.Context, fila Fila, queue string) (int64, error) {
	return fila.Len(ctx, DLQPrefix+queue)
}
