package dto

import "github.com/shopspring/decimal"

type VendasPorForma struct {
	Dinheiro decimal.Decimal `json:"dinheiro"`
	Cartao   decimal.Decimal `json:"cartao"`
	Pix      decimal.Decimal `json:"pix"`
	Fiado    decimal.Decimal `json:"fiado"`
}

type VendasPorUsuario struct {
	Usuario    string          `json:"usuario"`
	Quantidade int             `json:"quantidade"`
	Total      decimal.Decimal `json:"total"`
}

type FiadoDoDia struct {
	ClienteID string          `json:"cliente_id"`
	Nome      string          `json:"nome"`
	Valor     decimal.Decimal `json:"valor"`
}

type DevolucaoResumo struct {
	ProdutoNome string          `json:"produto_nome"`
	Quantidade  int             `json:"quantidade"`
	Credito     decimal.Decimal `json:"credito"`
}

type RelatorioDiarioResponse struct {
	Data                string             `json:"data"`
	QuantidadeVendas    int                `json:"quantidade_vendas"`
	VendasCanceladas    int                `json:"vendas_canceladas"`
	TotalVendas         decimal.Decimal    `json:"total_vendas"`
	PorForma            VendasPorForma     `json:"por_forma"`
	PorUsuario          []VendasPorUsuario `json:"por_usuario"`
	Fiado               []FiadoDoDia       `json:"fiado"`
	TotalDespesas       decimal.Decimal    `json:"total_despesas"`
	Despesas            []DespesaResponse  `json:"despesas"`
	DevolucoesEmbalagem []DevolucaoResumo  `json:"devolucoes_embalagem"`
	Caixas              []CaixaResponse    `json:"caixas"`
}
