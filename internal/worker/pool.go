package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	QueueRecibo = "jobs:recibo"
	QueueEmail  = "jobs:email"

	TipoRecibo = "recibo"
	TipoEmail  = "email"

	maxTentativas = 3
	popTimeout    = 5 * time.Second
)

// Job is the envelope for every async task.
type Job struct {
	Type       string          `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	Tentativas int             `json:"tentativas"`
	// Reprocessos counts trips back from the DLQ.
	Reprocessos int `json:"reprocessos,omitempty"`
}

// Handler processes one job payload. A returned error schedules a retry;
// after maxTentativas the job goes to the dead-letter queue.
type Handler func(ctx context.Context, payload json.RawMessage) error

// ErrDescartar marks a job that can never succeed; it goes straight to the DLQ.
var ErrDescartar = errors.New("job descartado")

type ReciboJobPayload struct {
	VendaID      string  `json:"venda_id"`
	ClienteEmail *string `json:"cliente_email,omitempty"`
}

// Dispatcher enqueues async jobs; the worker pool dequeues them.
type Dispatcher struct {
	fila Fila
}

func NewDispatcher(fila Fila) *Dispatcher {
	return &Dispatcher{fila: fila}
}

// EnqueueRecibo schedules the receipt PDF for a sale and, when an address is
// given, the e-mail that carries it.
func (d *Dispatcher) EnqueueRecibo(ctx context.Context, vendaID uuid.UUID, clienteEmail *string) error {
	return d.enqueue(ctx, QueueRecibo, TipoRecibo, ReciboJobPayload{VendaID: vendaID.String(), ClienteEmail: clienteEmail})
}

func (d *Dispatcher) EnqueueEmail(ctx context.Context, payload EmailJobPayload) error {
	return d.enqueue(ctx, QueueEmail, TipoEmail, payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return push(ctx, d.fila, queue, Job{Type: jobType, Payload: data})
}

func push(ctx context.Context, fila Fila, queue string, job Job) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return fila.Push(ctx, queue, encoded)
}

// StartWorkerPool launches numWorkers goroutines consuming both queues.
// The returned WaitGroup is done once every worker saw ctx cancelled.
func StartWorkerPool(ctx context.Context, fila Fila, numWorkers int, handlers map[string]Handler) *sync.WaitGroup {
	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			runWorker(ctx, fila, id, handlers)
		}(i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
	return &wg
}

func runWorker(ctx context.Context, fila Fila, id int, handlers map[string]Handler) {
	queues := []string{QueueRecibo, QueueEmail}
	for {
		if ctx.Err() != nil {
			log.Info().Msgf("worker %d shutting down", id)
			return
		}
		queue, raw, err := fila.Pop(ctx, popTimeout, queues...)
		if err != nil {
			if !errors.Is(err, ErrFilaVazia) && ctx.Err() == nil {
				log.Warn().Err(err).Int("worker", id).Msg("falha ao ler fila")
				// avoid a hot loop while the broker is down
				select {
				case <-ctx.Done():
				case <-time.After(time.Second):
				}
			}
			continue
		}
		processJob(ctx, fila, queue, raw, handlers)
	}
}

func processJob(ctx context.Context, fila Fila, queue string, raw []byte, handlers map[string]Handler) {
	var job Job
	if err := json.Unmarshal(raw, &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		SendToDLQ(ctx, fila, queue, "desconhecido", raw, "envelope inválido: "+err.Error(), 0)
		return
	}
	handler, ok := handlers[job.Type]
	if !ok {
		SendToDLQ(ctx, fila, queue, job.Type, job.Payload, "sem handler para o tipo", job.Tentativas)
		return
	}

	err := handler(ctx, job.Payload)
	if err == nil {
		return
	}
	job.Tentativas++
	if errors.Is(err, ErrDescartar) {
		SendToDLQ(ctx, fila, queue, job.Type, job.Payload, err.Error(), job.Tentativas)
		return
	}
	if job.Tentativas >= maxTentativas {
		enviarDLQ(ctx, fila, DLQEntry{
			OriginalQueue: queue,
			JobType:       job.Type,
			Payload:       job.Payload,
			Reason:        err.Error(),
			Tentativas:    job.Tentativas,
			Reprocessavel: true,
			Reprocessos:   job.Reprocessos,
		})
		return
	}
	log.Warn().Err(err).
		Str("queue", queue).
		Str("type", job.Type).
		Int("tentativa", job.Tentativas).
		Msg("job falhou, reenfileirando")
	if err := push(ctx, fila, queue, job); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("falha ao reenfileirar job")
	}
}
