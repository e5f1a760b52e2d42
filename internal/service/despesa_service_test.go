package service

import (
	"context"
	"testing"
	"time"

	"gasagua/internal/apierror"
	"gasagua/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrarDespesaComCaixaAberto(t *testing.T) {
	a := novoAmbiente(t, CancelamentoNenhum)
	ctx := context.Background()
	c := a.abrir(t, "200")

	desp, err := a.despesas.Registrar(ctx, dto.RegistrarDespesaRequest{
		Valor: d("60"), Motivo: "gasolina da moto", Categoria: "combustivel", Usuario: "joao",
	})
	require.NoError(t, err)
	require.NotNil(t, desp.CaixaID)
	assert.Equal(t, c.ID, *desp.CaixaID)

	atual := a.caixaAtual(t)
	require.Len(t, atual.Movimentacoes, 2)
	mov := atual.Movimentacoes[1]
	assert.Equal(t, "despesa", mov.Tipo)
	assert.Equal(t, "Despesa: gasolina da moto", mov.Descricao)
	require.NotNil(t, mov.ReferenciaID)
	assert.Equal(t, desp.ID, *mov.ReferenciaID)
	assert.True(t, atual.SaldoEsperado.Equal(d("200")), atual.SaldoEsperado.String())
}

func TestRegistrarDespesaSemCaixa(t *testing.T) {
	a := novoAmbiente(t, CancelamentoNenhum)

	desp, err := a.despesas.Registrar(context.Background(), dto.RegistrarDespesaRequest{
		Valor: d("15"), Motivo: "café", Usuario: "joao",
	})
	require.NoError(t, err)
	assert.Nil(t, desp.CaixaID)
	assert.Equal(t, "despesa", desp.Categoria)
}

func TestRegistrarDespesaValorInvalido(t *testing.T) {
	a := novoAmbiente(t, CancelamentoNenhum)

	_, err := a.despesas.Registrar(context.Background(), dto.RegistrarDespesaRequest{
		Valor: d("0"), Motivo: "nada", Usuario: "joao",
	})
	assert.ErrorIs(t, err, apierror.ErrValorInvalido)
}

func TestListarEExcluirDespesas(t *testing.T) {
	a := novoAmbiente(t, CancelamentoNenhum)
	ctx := context.Background()
	a.abrir(t, "100")

	var ids []string
	for _, v := range []string{"10", "25.50"} {
		desp, err := a.despesas.Registrar(ctx, dto.RegistrarDespesaRequest{Valor: d(v), Motivo: "material", Usuario: "joao"})
		require.NoError(t, err)
		ids = append(ids, desp.ID)
	}

	lista, err := a.despesas.Listar(ctx, dto.DespesaFilter{})
	require.NoError(t, err)
	assert.Len(t, lista.Data, 2)
	assert.True(t, lista.Total.Equal(d("35.50")))

	require.NoError(t, a.despesas.Excluir(ctx, uuid.MustParse(ids[0])))
	assert.ErrorIs(t, a.despesas.Excluir(ctx, uuid.MustParse(ids[0])), apierror.ErrNaoEncontrado)

	lista, err = a.despesas.Listar(ctx, dto.DespesaFilter{})
	require.NoError(t, err)
	assert.Len(t, lista.Data, 1)

	// the ledger entry stays
	assert.Len(t, a.caixaAtual(t).Movimentacoes, 3)
}

func TestListarDespesasPeriodo(t *testing.T) {
	a := novoAmbiente(t, CancelamentoNenhum)
	ctx := context.Background()

	_, err := a.despesas.Registrar(ctx, dto.RegistrarDespesaRequest{Valor: d("10"), Motivo: "material", Usuario: "joao"})
	require.NoError(t, err)

	ontem := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	lista, err := a.despesas.Listar(ctx, dto.DespesaFilter{DataInicio: ontem, DataFim: ontem})
	require.NoError(t, err)
	assert.Empty(t, lista.Data)
	assert.True(t, lista.Total.IsZero())

	lista, err = a.despesas.Listar(ctx, dto.DespesaFilter{DataInicio: ontem})
	require.NoError(t, err)
	assert.Empty(t, lista.Data)

	lista, err = a.despesas.Listar(ctx, dto.DespesaFilter{DataInicio: ontem, DataFim: time.Now().Format("2006-01-02")})
	require.NoError(t, err)
	assert.Len(t, lista.Data, 1)

	_, err = a.despesas.Listar(ctx, dto.DespesaFilter{DataInicio: "18/10/2026"})
	assert.ErrorIs(t, err, apierror.ErrDataInvalida)
}
