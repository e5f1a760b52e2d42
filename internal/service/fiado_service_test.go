package service

import (
	"context"
	"testing"

	"gasagua/internal/apierror"
	"gasagua/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAumentarCriaContaNaPrimeiraVez(t *testing.T) {
	a := novoAmbiente(t, CancelamentoNenhum)
	ctx := context.Background()

	_, err := a.fiado.Obter(ctx, "C1")
	assert.ErrorIs(t, err, apierror.ErrNaoEncontrado)

	resp, err := a.fiado.Aumentar(ctx, "C1", dto.DebitoFiadoRequest{Nome: "Seu Zé", Valor: d("45"), Usuario: "maria"})
	require.NoError(t, err)
	assert.Equal(t, "Seu Zé", resp.Conta.Nome)
	assert.True(t, resp.Conta.Saldo.Equal(d("45")))
	assert.Nil(t, resp.Aviso)
	assert.Nil(t, resp.CaixaID)

	resp, err = a.fiado.Aumentar(ctx, "C1", dto.DebitoFiadoRequest{Valor: d("5"), Usuario: "maria"})
	require.NoError(t, err)
	assert.Equal(t, "Seu Zé", resp.Conta.Nome)
	assert.True(t, resp.Conta.Saldo.Equal(d("50")))
}

func TestAumentarValorInvalido(t *testing.T) {
	a := novoAmbiente(t, CancelamentoNenhum)

	_, err := a.fiado.Aumentar(context.Background(), "C1", dto.DebitoFiadoRequest{Valor: d("0"), Usuario: "maria"})
	assert.ErrorIs(t, err, apierror.ErrValorInvalido)

	_, err = a.fiado.Obter(context.Background(), "C1")
	assert.ErrorIs(t, err, apierror.ErrNaoEncontrado)
}

func TestAumentarAcimaDoLimiteAvisa(t *testing.T) {
	a := novoAmbiente(t, CancelamentoNenhum)
	ctx := context.Background()

	_, err := a.fiado.DefinirLimite(ctx, "C1", dto.DefinirLimiteRequest{Nome: "Ana", Limite: ptr(d("100"))})
	require.NoError(t, err)

	resp, err := a.fiado.Aumentar(ctx, "C1", dto.DebitoFiadoRequest{Valor: d("100"), Usuario: "maria"})
	require.NoError(t, err)
	assert.Nil(t, resp.Aviso, "no limite ainda não excede")

	resp, err = a.fiado.Aumentar(ctx, "C1", dto.DebitoFiadoRequest{Valor: d("0.01"), Usuario: "maria"})
	require.NoError(t, err)
	require.NotNil(t, resp.Aviso)
	assert.True(t, resp.Conta.ExcedeLimite)

	// removing the limit clears the flag
	conta, err := a.fiado.DefinirLimite(ctx, "C1", dto.DefinirLimiteRequest{})
	require.NoError(t, err)
	assert.Nil(t, conta.LimiteCredito)
	assert.False(t, conta.ExcedeLimite)
	assert.Equal(t, "Ana", conta.Nome)
}

func TestDefinirLimiteNegativo(t *testing.T) {
	a := novoAmbiente(t, CancelamentoNenhum)

	_, err := a.fiado.DefinirLimite(context.Background(), "C1", dto.DefinirLimiteRequest{Limite: ptr(d("-1"))})
	assert.ErrorIs(t, err, apierror.ErrValorInvalido)
}

func TestDiminuirNaoTocaCaixa(t *testing.T) {
	a := novoAmbiente(t, CancelamentoNenhum)
	ctx := context.Background()
	a.abrir(t, "0")

	_, err := a.fiado.Aumentar(ctx, "C1", dto.DebitoFiadoRequest{Valor: d("30"), Usuario: "maria"})
	require.NoError(t, err)

	conta, err := a.fiado.Diminuir(ctx, "C1", d("10"))
	require.NoError(t, err)
	assert.True(t, conta.Saldo.Equal(d("20")))

	_, err = a.fiado.Diminuir(ctx, "C1", d("21"))
	assert.ErrorIs(t, err, apierror.ErrPagamentoExcedeSaldo)

	_, err = a.fiado.Diminuir(ctx, "X", d("1"))
	assert.ErrorIs(t, err, apierror.ErrNaoEncontrado)

	c := a.caixaAtual(t)
	assert.Len(t, c.Movimentacoes, 1)
	assert.True(t, c.Totais.PagamentosFiado.IsZero())
}

func TestReceberPagamentoExcedeSaldo(t *testing.T) {
	a := novoAmbiente(t, CancelamentoNenhum)
	ctx := context.Background()
	a.abrir(t, "0")

	_, err := a.fiado.Aumentar(ctx, "C1", dto.DebitoFiadoRequest{Valor: d("30"), Usuario: "maria"})
	require.NoError(t, err)

	_, err = a.fiado.ReceberPagamento(ctx, "C1", dto.PagamentoFiadoRequest{Valor: d("50"), FormaPagamento: "pix", Usuario: "maria"})
	assert.ErrorIs(t, err, apierror.ErrPagamentoExcedeSaldo)

	conta, err := a.fiado.Obter(ctx, "C1")
	require.NoError(t, err)
	assert.True(t, conta.Saldo.Equal(d("30")))
	assert.Len(t, a.caixaAtual(t).Movimentacoes, 1)
}

func TestReceberPagamentoSemCaixa(t *testing.T) {
	a := novoAmbiente(t, CancelamentoNenhum)
	ctx := context.Background()

	_, err := a.fiado.Aumentar(ctx, "C1", dto.DebitoFiadoRequest{Valor: d("30"), Usuario: "maria"})
	require.NoError(t, err)

	resp, err := a.fiado.ReceberPagamento(ctx, "C1", dto.PagamentoFiadoRequest{Valor: d("30"), FormaPagamento: "dinheiro", Usuario: "maria"})
	require.NoError(t, err)
	assert.True(t, resp.Conta.Saldo.IsZero())
	assert.Nil(t, resp.CaixaID)
	require.NotNil(t, resp.Aviso)
	assert.Equal(t, avisoSemCaixa, *resp.Aviso)
}

func TestReceberPagamentoFormaFiado(t *testing.T) {
	a := novoAmbiente(t, CancelamentoNenhum)

	_, err := a.fiado.ReceberPagamento(context.Background(), "C1", dto.PagamentoFiadoRequest{Valor: d("1"), FormaPagamento: "fiado", Usuario: "maria"})
	assert.ErrorIs(t, err, apierror.ErrFormaPagamentoInvalida)
}

func TestReceberPagamentoClienteInexistente(t *testing.T) {
	a := novoAmbiente(t, CancelamentoNenhum)

	_, err := a.fiado.ReceberPagamento(context.Background(), "X", dto.PagamentoFiadoRequest{Valor: d("1"), FormaPagamento: "pix", Usuario: "maria"})
	assert.ErrorIs(t, err, apierror.ErrNaoEncontrado)
}

func TestListarDevedores(t *testing.T) {
	a := novoAmbiente(t, CancelamentoNenhum)
	ctx := context.Background()

	for id, valor := range map[string]string{"A": "10", "B": "70", "C": "5"} {
		_, err := a.fiado.Aumentar(ctx, id, dto.DebitoFiadoRequest{Valor: d(valor), Usuario: "maria"})
		require.NoError(t, err)
	}
	_, err := a.fiado.Diminuir(ctx, "C", d("5"))
	require.NoError(t, err)

	devedores, err := a.fiado.ListarDevedores(ctx)
	require.NoError(t, err)
	require.Len(t, devedores, 2)
	assert.Equal(t, "B", devedores[0].ClienteID)
	assert.Equal(t, "A", devedores[1].ClienteID)
}
