package service

import (
	"context"
	"sync"
	"testing"

	"gasagua/internal/dto"
	"gasagua/internal/repository/memoria"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// ── fixtures ─────────────────────────────────────────────────────────────────

type reciboFake struct {
	mu     sync.Mutex
	vendas []uuid.UUID
	err    error
}

func (r *reciboFake) EnqueueRecibo(_ context.Context, vendaID uuid.UUID, _ *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vendas = append(r.vendas, vendaID)
	return r.err
}

type ambiente struct {
	store    *memoria.Store
	caixa    CaixaService
	vendas   VendaService
	fiado    FiadoService
	despesas DespesaService
	estoque  EstoqueService
	recibos  *reciboFake
}

// minimoTeste is the low-stock minimum of products first seen in a test.
const minimoTeste = 2

func novoAmbiente(t *testing.T, politica PoliticaCancelamento) *ambiente {
	t.Helper()
	store := memoria.New()
	recibos := &reciboFake{}
	vendas := NewVendaService(store.Vendas(), VendaDeps{
		Caixas:              store.Caixas(),
		Fiado:               store.Fiado(),
		Estoque:             store.Estoque(),
		EstoqueMinimoPadrao: minimoTeste,
		Tx:                  store,
		Dispatcher:          recibos,
		Politica:            politica,
	})
	return &ambiente{
		store:    store,
		caixa:    NewCaixaService(store.Caixas(), store, nil),
		vendas:   vendas,
		fiado:    NewFiadoService(store.Fiado(), store.Caixas(), store),
		despesas: NewDespesaService(store.Despesas(), store.Caixas(), store),
		estoque:  NewEstoqueService(store.Estoque(), store, minimoTeste),
		recibos:  recibos,
	}
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr[T any](v T) *T { return &v }

func (a *ambiente) abrir(t *testing.T, valor string) *dto.CaixaResponse {
	t.Helper()
	c, err := a.caixa.Abrir(context.Background(), dto.AbrirCaixaRequest{Usuario: "maria", ValorAbertura: d(valor)})
	require.NoError(t, err)
	return c
}

func (a *ambiente) caixaAtual(t *testing.T) *dto.CaixaResponse {
	t.Helper()
	c, err := a.caixa.Aberto(context.Background())
	require.NoError(t, err)
	return c
}

// vendaSimples prices one item at preco and pays it with forma.
func vendaSimples(preco, forma string) dto.RegistrarVendaRequest {
	return dto.RegistrarVendaRequest{
		Itens: []dto.ItemVendaRequest{
			{ProdutoID: "gas-p13", ProdutoNome: "Gás P13", Quantidade: 1, PrecoUnitario: d(preco)},
		},
		FormaPagamento: forma,
		Usuario:        "maria",
	}
}
