package service

import (
	"context"
	"errors"
	"testing"

	"gasagua/internal/apierror"
	"gasagua/internal/dto"
	"gasagua/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVendaDinheiroSaldoEsperado(t *testing.T) {
	a := novoAmbiente(t, CancelamentoNenhum)
	a.abrir(t, "50.00")

	venda, err := a.vendas.Registrar(context.Background(), vendaSimples("95.00", "dinheiro"))
	require.NoError(t, err)
	assert.True(t, venda.Pago)
	assert.Equal(t, "concluida", venda.Status)
	assert.Regexp(t, `^V[0-9A-Z]+$`, venda.Codigo)

	c := a.caixaAtual(t)
	assert.True(t, c.SaldoEsperado.Equal(d("145")), c.SaldoEsperado.String())
	assert.True(t, c.Totais.Vendas.Equal(d("95")))
	assert.True(t, c.Totais.Dinheiro.Equal(d("95")))
	assert.Len(t, a.recibos.vendas, 1)
}

func TestVendaFiadoIgnoraLimiteEPagamentoZeraSaldo(t *testing.T) {
	a := novoAmbiente(t, CancelamentoNenhum)
	ctx := context.Background()
	a.abrir(t, "0")

	_, err := a.fiado.DefinirLimite(ctx, "A", dto.DefinirLimiteRequest{Nome: "Ana", Limite: ptr(d("100"))})
	require.NoError(t, err)

	req := vendaSimples("320.00", "fiado")
	req.ClienteID = ptr("A")
	venda, err := a.vendas.Registrar(ctx, req)
	require.NoError(t, err)
	assert.False(t, venda.Pago)
	require.Len(t, venda.Avisos, 1)

	conta, err := a.fiado.Obter(ctx, "A")
	require.NoError(t, err)
	assert.True(t, conta.Saldo.Equal(d("320")))
	assert.True(t, conta.ExcedeLimite)
	assert.True(t, a.caixaAtual(t).Totais.Fiado.Equal(d("320")))

	// customer pays it all off
	pag, err := a.fiado.ReceberPagamento(ctx, "A", dto.PagamentoFiadoRequest{
		Valor: d("320.00"), FormaPagamento: "dinheiro", Usuario: "maria",
	})
	require.NoError(t, err)
	assert.Nil(t, pag.Aviso)
	require.NotNil(t, pag.CaixaID)
	assert.True(t, pag.Conta.Saldo.IsZero())

	c := a.caixaAtual(t)
	assert.True(t, c.Totais.PagamentosFiado.Equal(d("320")))
	ultima := c.Movimentacoes[len(c.Movimentacoes)-1]
	assert.Equal(t, "pagamento_fiado", ultima.Tipo)
	assert.Equal(t, "Pagamento de fiado - Ana (dinheiro)", ultima.Descricao)

	// nothing left to pay
	_, err = a.fiado.ReceberPagamento(ctx, "A", dto.PagamentoFiadoRequest{
		Valor: d("50.00"), FormaPagamento: "dinheiro", Usuario: "maria",
	})
	assert.ErrorIs(t, err, apierror.ErrPagamentoExcedeSaldo)
	conta, err = a.fiado.Obter(ctx, "A")
	require.NoError(t, err)
	assert.True(t, conta.Saldo.IsZero())
	assert.True(t, a.caixaAtual(t).Totais.PagamentosFiado.Equal(d("320")))
}

func TestVendaDivididaExata(t *testing.T) {
	a := novoAmbiente(t, CancelamentoNenhum)
	a.abrir(t, "0")

	req := vendaSimples("100.00", "dinheiro")
	req.PagamentosParciais = []dto.PagamentoParcialRequest{
		{Forma: "dinheiro", Valor: d("40.00")},
		{Forma: "pix", Valor: d("60.00")},
	}
	venda, err := a.vendas.Registrar(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, venda.Troco.IsZero())

	c := a.caixaAtual(t)
	var vendas []dto.MovimentacaoResponse
	soma := decimal.Zero
	for _, m := range c.Movimentacoes {
		if m.Tipo == "venda" {
			vendas = append(vendas, m)
			soma = soma.Add(m.Valor)
		}
	}
	require.Len(t, vendas, 2)
	assert.Equal(t, "dinheiro", *vendas[0].FormaPagamento)
	assert.True(t, vendas[0].Valor.Equal(d("40")))
	assert.Equal(t, "pix", *vendas[1].FormaPagamento)
	assert.True(t, vendas[1].Valor.Equal(d("60")))
	assert.True(t, soma.Equal(venda.ValorTotal))

	assert.True(t, c.Totais.Vendas.Equal(d("100")))
	assert.True(t, c.Totais.Dinheiro.Equal(d("40")))
	assert.True(t, c.Totais.Pix.Equal(d("60")))
}

func TestVendaDivididaInsuficienteNaoAltera(t *testing.T) {
	a := novoAmbiente(t, CancelamentoNenhum)
	a.abrir(t, "0")
	antes := a.caixaAtual(t)

	req := vendaSimples("100.00", "dinheiro")
	req.ClienteID = ptr("A")
	req.PagamentosParciais = []dto.PagamentoParcialRequest{
		{Forma: "dinheiro", Valor: d("30.00")},
		{Forma: "fiado", Valor: d("50.00")},
	}
	_, err := a.vendas.Registrar(context.Background(), req)
	assert.ErrorIs(t, err, apierror.ErrPagamentoInsuficiente)

	depois := a.caixaAtual(t)
	assert.Equal(t, len(antes.Movimentacoes), len(depois.Movimentacoes))
	assert.True(t, depois.Totais.Vendas.IsZero())
	_, err = a.fiado.Obter(context.Background(), "A")
	assert.ErrorIs(t, err, apierror.ErrNaoEncontrado)

	lista, err := a.vendas.Listar(context.Background(), dto.VendaFilter{Status: "all"})
	require.NoError(t, err)
	assert.Zero(t, lista.Total)
}

func TestVendaPagamentosMesmaFormaAcumulam(t *testing.T) {
	a := novoAmbiente(t, CancelamentoNenhum)
	a.abrir(t, "0")

	req := vendaSimples("50", "pix")
	req.PagamentosParciais = []dto.PagamentoParcialRequest{
		{Forma: "pix", Valor: d("20")},
		{Forma: "cartao", Valor: d("10")},
		{Forma: "pix", Valor: d("20")},
	}
	venda, err := a.vendas.Registrar(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, venda.PagamentosParciais, 2)
	assert.Equal(t, "cartao", venda.PagamentosParciais[0].Forma)
	assert.Equal(t, "pix", venda.PagamentosParciais[1].Forma)
	assert.True(t, venda.PagamentosParciais[1].Valor.Equal(d("40")))
}

func TestVendaComTroco(t *testing.T) {
	a := novoAmbiente(t, CancelamentoNenhum)
	a.abrir(t, "0")

	req := vendaSimples("90", "dinheiro")
	req.PagamentosParciais = []dto.PagamentoParcialRequest{{Forma: "dinheiro", Valor: d("100")}}
	venda, err := a.vendas.Registrar(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, venda.Troco.Equal(d("10")))

	// slices are posted as given
	c := a.caixaAtual(t)
	assert.True(t, c.Totais.Vendas.Equal(d("90")))
	assert.True(t, c.Totais.Dinheiro.Equal(d("100")))
}

func TestVendaSemCaixaAberto(t *testing.T) {
	a := novoAmbiente(t, CancelamentoNenhum)

	_, err := a.vendas.Registrar(context.Background(), vendaSimples("10", "dinheiro"))
	assert.ErrorIs(t, err, apierror.ErrSemCaixaAberto)
	assert.Empty(t, a.recibos.vendas)
}

// No open session is reported before a bad split.
func TestVendaSemCaixaAntesDeDivisao(t *testing.T) {
	a := novoAmbiente(t, CancelamentoNenhum)

	req := vendaSimples("100", "dinheiro")
	req.PagamentosParciais = []dto.PagamentoParcialRequest{{Forma: "dinheiro", Valor: d("1")}}
	_, err := a.vendas.Registrar(context.Background(), req)
	assert.ErrorIs(t, err, apierror.ErrSemCaixaAberto)
}

func TestVendaFiadoSemCliente(t *testing.T) {
	a := novoAmbiente(t, CancelamentoNenhum)
	a.abrir(t, "0")

	_, err := a.vendas.Registrar(context.Background(), vendaSimples("10", "fiado"))
	assert.ErrorIs(t, err, apierror.ErrFiadoSemCliente)

	req := vendaSimples("10", "dinheiro")
	req.PagamentosParciais = []dto.PagamentoParcialRequest{
		{Forma: "dinheiro", Valor: d("5")}, {Forma: "fiado", Valor: d("5")},
	}
	_, err = a.vendas.Registrar(context.Background(), req)
	assert.ErrorIs(t, err, apierror.ErrFiadoSemCliente)
	assert.Len(t, a.caixaAtual(t).Movimentacoes, 1)
}

func TestVendaTotalComDescontoEntregaEDevolucao(t *testing.T) {
	a := novoAmbiente(t, CancelamentoNenhum)
	a.abrir(t, "0")

	req := dto.RegistrarVendaRequest{
		Itens: []dto.ItemVendaRequest{
			{ProdutoID: "gas", ProdutoNome: "Gás P13", Quantidade: 2, PrecoUnitario: d("110"), RetornaVazio: true},
			{ProdutoID: "agua", ProdutoNome: "Água 20L", Quantidade: 3, PrecoUnitario: d("12.50")},
		},
		Desconto:    d("10"),
		TaxaEntrega: d("5"),
		DevolucoesEmbalagem: []dto.DevolucaoEmbalagemRequest{
			{ProdutoID: "agua", ProdutoNome: "Galão 20L", Quantidade: 1, ValorCredito: d("7.50")},
		},
		FormaPagamento: "cartao",
		Usuario:        "maria",
	}
	venda, err := a.vendas.Registrar(context.Background(), req)
	require.NoError(t, err)

	// 220 + 37.50 - 10 + 5 - 7.50
	assert.True(t, venda.Subtotal.Equal(d("257.50")))
	assert.True(t, venda.ValorTotal.Equal(d("245")), venda.ValorTotal.String())
	assert.True(t, venda.TotalCreditoDevolucoes.Equal(d("7.50")))
	require.Len(t, venda.Itens, 2)
	assert.True(t, venda.Itens[0].Subtotal.Equal(d("220")))
	assert.True(t, a.caixaAtual(t).Totais.Cartao.Equal(d("245")))
}

func TestVendaTotalNegativo(t *testing.T) {
	a := novoAmbiente(t, CancelamentoNenhum)
	a.abrir(t, "0")

	req := vendaSimples("10", "dinheiro")
	req.Desconto = d("11")
	_, err := a.vendas.Registrar(context.Background(), req)
	assert.ErrorIs(t, err, apierror.ErrValorInvalido)
}

func TestVendaSemItens(t *testing.T) {
	a := novoAmbiente(t, CancelamentoNenhum)
	a.abrir(t, "0")

	_, err := a.vendas.Registrar(context.Background(), dto.RegistrarVendaRequest{FormaPagamento: "dinheiro", Usuario: "maria"})
	assert.ErrorIs(t, err, apierror.ErrVendaSemItens)
}

func TestVendaReciboFalhaNaoDesfaz(t *testing.T) {
	a := novoAmbiente(t, CancelamentoNenhum)
	a.recibos.err = errors.New("redis fora")
	a.abrir(t, "0")

	venda, err := a.vendas.Registrar(context.Background(), vendaSimples("10", "pix"))
	require.NoError(t, err)
	_, err = a.vendas.Obter(context.Background(), uuid.MustParse(venda.ID))
	require.NoError(t, err)
}

func TestCodigosUnicos(t *testing.T) {
	vistos := map[string]bool{}
	for i := 0; i < 500; i++ {
		c := gerarCodigo()
		require.False(t, vistos[c], c)
		vistos[c] = true
	}
}

// ── Cancelar ─────────────────────────────────────────────────────────────────

func TestCancelarVendaSemEstorno(t *testing.T) {
	a := novoAmbiente(t, CancelamentoNenhum)
	ctx := context.Background()
	a.abrir(t, "0")

	req := vendaSimples("80", "fiado")
	req.ClienteID = ptr("B")
	venda, err := a.vendas.Registrar(ctx, req)
	require.NoError(t, err)
	id := uuid.MustParse(venda.ID)

	cancelada, err := a.vendas.Cancelar(ctx, id, dto.CancelarVendaRequest{Motivo: "desistiu", Usuario: "joao"})
	require.NoError(t, err)
	assert.Equal(t, "cancelada", cancelada.Status)
	assert.Equal(t, "joao", *cancelada.UsuarioCancelamento)
	require.NotNil(t, cancelada.DataCancelamento)

	conta, err := a.fiado.Obter(ctx, "B")
	require.NoError(t, err)
	assert.True(t, conta.Saldo.Equal(d("80")), "política nenhum não mexe no fiado")
	assert.True(t, a.caixaAtual(t).Totais.Vendas.Equal(d("80")))

	_, err = a.vendas.Cancelar(ctx, id, dto.CancelarVendaRequest{Motivo: "de novo", Usuario: "joao"})
	assert.ErrorIs(t, err, apierror.ErrVendaJaCancelada)

	_, err = a.vendas.Cancelar(ctx, uuid.New(), dto.CancelarVendaRequest{Motivo: "nada", Usuario: "joao"})
	assert.ErrorIs(t, err, apierror.ErrNaoEncontrado)
}

func TestCancelarVendaEstornaFiado(t *testing.T) {
	a := novoAmbiente(t, CancelamentoEstornarFiado)
	ctx := context.Background()
	a.abrir(t, "0")

	req := vendaSimples("100", "dinheiro")
	req.ClienteID = ptr("C")
	req.PagamentosParciais = []dto.PagamentoParcialRequest{
		{Forma: "dinheiro", Valor: d("40")}, {Forma: "fiado", Valor: d("60")},
	}
	venda, err := a.vendas.Registrar(ctx, req)
	require.NoError(t, err)

	// part of the debt was already paid
	_, err = a.fiado.ReceberPagamento(ctx, "C", dto.PagamentoFiadoRequest{Valor: d("20"), FormaPagamento: "pix", Usuario: "maria"})
	require.NoError(t, err)

	_, err = a.vendas.Cancelar(ctx, uuid.MustParse(venda.ID), dto.CancelarVendaRequest{Motivo: "erro", Usuario: "maria"})
	require.NoError(t, err)

	conta, err := a.fiado.Obter(ctx, "C")
	require.NoError(t, err)
	assert.True(t, conta.Saldo.IsZero(), conta.Saldo.String())
	assert.True(t, a.caixaAtual(t).Totais.Fiado.Equal(d("60")), "totais do caixa não são estornados")
}

func TestListarVendasPorCliente(t *testing.T) {
	a := novoAmbiente(t, CancelamentoNenhum)
	ctx := context.Background()
	a.abrir(t, "0")

	for _, cliente := range []string{"A", "B", "A"} {
		req := vendaSimples("10", "dinheiro")
		req.ClienteID = ptr(cliente)
		_, err := a.vendas.Registrar(ctx, req)
		require.NoError(t, err)
	}

	lista, err := a.vendas.Listar(ctx, dto.VendaFilter{ClienteID: "A"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, lista.Total)
	assert.Equal(t, model.VendaConcluida, lista.Data[0].Status)
}
