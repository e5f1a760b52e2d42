// Package memoria keeps every repository in process memory. It backs the
// service tests and STORAGE_DRIVER=memoria for local runs without Postgres.
package memoria

import (
	"context"
	"sync"

	"gasagua/internal/model"
	"gasagua/internal/repository"

	"github.com/google/uuid"
)

// Store implements repository.TxManager and hands out repositories sharing
// the same maps. Transactions are serialized; a failed one restores the
// snapshot taken when it started.
type Store struct {
	txMu sync.Mutex

	mu       sync.RWMutex
	caixas   map[uuid.UUID]model.Caixa
	vendas   map[uuid.UUID]model.Venda
	contas   map[string]model.ContaFiado
	despesas map[uuid.UUID]model.Despesa
	estoques map[string]model.EstoqueProduto
	// movEstoque is append-only, oldest first.
	movEstoque []model.MovimentacaoEstoque
}

func New() *Store {
	return &Store{
		caixas:   make(map[uuid.UUID]model.Caixa),
		vendas:   make(map[uuid.UUID]model.Venda),
		contas:   make(map[string]model.ContaFiado),
		despesas: make(map[uuid.UUID]model.Despesa),
		estoques: make(map[string]model.EstoqueProduto),
	}
}

var _ repository.TxManager = (*Store)(nil)

type txKey struct{}

func emTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(bool)
	return ok
}

func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if emTx(ctx) {
		return fn(ctx)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.restaurar(snap)
		return err
	}
	return nil
}

func (s *Store) Caixas() repository.CaixaRepository     { return &caixaRepo{s: s} }
func (s *Store) Vendas() repository.VendaRepository     { return &vendaRepo{s: s} }
func (s *Store) Fiado() repository.FiadoRepository      { return &fiadoRepo{s: s} }
func (s *Store) Despesas() repository.DespesaRepository { return &despesaRepo{s: s} }
func (s *Store) Estoque() repository.EstoqueRepository  { return &estoqueRepo{s: s} }

// escrever runs f under the write lock. Outside a transaction it also takes
// txMu so it cannot interleave with a running transaction.
func (s *Store) escrever(ctx context.Context, f func() error) error {
	if !emTx(ctx) {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return f()
}

func (s *Store) ler(f func()) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f()
}

type snapshot struct {
	caixas   map[uuid.UUID]model.Caixa
	vendas   map[uuid.UUID]model.Venda
	contas   map[string]model.ContaFiado
	despesas map[uuid.UUID]model.Despesa
	estoques map[string]model.EstoqueProduto
	movs     []model.MovimentacaoEstoque
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := snapshot{
		caixas:   make(map[uuid.UUID]model.Caixa, len(s.caixas)),
		vendas:   make(map[uuid.UUID]model.Venda, len(s.vendas)),
		contas:   make(map[string]model.ContaFiado, len(s.contas)),
		despesas: make(map[uuid.UUID]model.Despesa, len(s.despesas)),
		estoques: make(map[string]model.EstoqueProduto, len(s.estoques)),
		movs:     append([]model.MovimentacaoEstoque(nil), s.movEstoque...),
	}
	// Stored values are already private copies and never mutated in place.
	for k, v := range s.caixas {
		snap.caixas[k] = v
	}
	for k, v := range s.vendas {
		snap.vendas[k] = v
	}
	for k, v := range s.contas {
		snap.contas[k] = v
	}
	for k, v := range s.despesas {
		snap.despesas[k] = v
	}
	for k, v := range s.estoques {
		snap.estoques[k] = v
	}
	return snap
}

func (s *Store) restaurar(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.caixas = snap.caixas
	s.vendas = snap.vendas
	s.contas = snap.contas
	s.despesas = snap.despesas
	s.estoques = snap.estoques
	s.movEstoque = snap.movs
}

func copiarCaixa(c *model.Caixa) model.Caixa {
	return *c.Clone()
}

func copiarVenda(v *model.Venda) model.Venda {
	cp := *v
	cp.Itens = append([]model.ItemVenda(nil), v.Itens...)
	cp.PagamentosParciais = append([]model.PagamentoParcial(nil), v.PagamentosParciais...)
	cp.DevolucoesEmbalagem = append([]model.DevolucaoEmbalagem(nil), v.DevolucoesEmbalagem...)
	return cp
}

func copiarConta(c *model.ContaFiado) model.ContaFiado {
	cp := *c
	if c.LimiteCredito != nil {
		l := *c.LimiteCredito
		cp.LimiteCredito = &l
	}
	return cp
}
