package service

import (
	"context"

	"github.com/google/uuid"
)

// Locker serializes critical sections across processes. Obter returns the
// release func, or apierror.ErrOperacaoEmAndamento when the lock is held.
type Locker interface {
	Obter(ctx context.Context, chave string) (func(), error)
}

// ReciboDispatcher hands a committed sale to the receipt worker.
type ReciboDispatcher interface {
	EnqueueRecibo(ctx context.Context, vendaID uuid.UUID, clienteEmail *string) error
}

const chaveAberturaCaixa = "caixa:abertura"
