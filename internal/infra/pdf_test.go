package infra

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gasagua/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vendaRecibo() *model.Venda {
	nome := "Dona Lúcia"
	id := uuid.New()
	return &model.Venda{
		ID:          id,
		Codigo:      "VABC123",
		Data:        time.Date(2026, 10, 18, 9, 30, 0, 0, time.Local),
		ClienteNome: &nome,
		Itens: []model.ItemVenda{
			{ProdutoNome: "Gás de cozinha P13 com entrega expressa", Quantidade: 1,
				PrecoUnitario: decimal.NewFromInt(110), Subtotal: decimal.NewFromInt(110)},
		},
		DevolucoesEmbalagem: []model.DevolucaoEmbalagem{
			{ProdutoNome: "Galão 20L", Quantidade: 1, ValorCredito: decimal.NewFromInt(10)},
		},
		Subtotal:       decimal.NewFromInt(110),
		ValorTotal:     decimal.NewFromInt(100),
		FormaPagamento: model.Dinheiro,
		PagamentosParciais: []model.PagamentoParcial{
			{Forma: model.Dinheiro, Valor: decimal.NewFromInt(40)},
			{Forma: model.Fiado, Valor: decimal.NewFromInt(60)},
		},
	}
}

func TestGerarReciboPDF(t *testing.T) {
	conteudo, err := GerarReciboPDF(vendaRecibo(), Cabecalho{NomeEmpresa: "Depósito São João", Mensagem: "Obrigado pela preferência!"})
	require.NoError(t, err)
	assert.True(t, len(conteudo) > 100)
	assert.Equal(t, "%PDF", string(conteudo[:4]))

	dir := t.TempDir()
	path, err := SalvarRecibo(filepath.Join(dir, "recibos"), "VABC123", conteudo)
	require.NoError(t, err)
	assert.Equal(t, "recibo_VABC123.pdf", filepath.Base(path))

	gravado, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, conteudo, gravado)
}

func TestTruncar(t *testing.T) {
	assert.Equal(t, "Água", truncar("Água", 10))
	assert.Equal(t, "Ág.", truncar("Água 20L", 3))
}
