package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbrirCaixaRequest struct {
	Usuario       string          `json:"usuario"        validate:"required"`
	ValorAbertura decimal.Decimal `json:"valor_abertura" validate:"min=0"`
}

// MovimentacaoRequest covers the manual entries posted from the till screen.
type MovimentacaoRequest struct {
	Tipo      string          `json:"tipo"      validate:"required,oneof=reforco sangria"`
	Valor     decimal.Decimal `json:"valor"     validate:"gt=0"`
	Descricao string          `json:"descricao" validate:"required,min=3"`
	Usuario   string          `json:"usuario"   validate:"required"`
}

type FecharCaixaRequest struct {
	Usuario      string          `json:"usuario"       validate:"required"`
	ValorContado decimal.Decimal `json:"valor_contado" validate:"min=0"`
	Observacoes  *string         `json:"observacoes"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MovimentacaoResponse struct {
	ID             string          `json:"id"`
	Seq            int             `json:"seq"`
	Tipo           string          `json:"tipo"`
	FormaPagamento *string         `json:"forma_pagamento"`
	Valor          decimal.Decimal `json:"valor"`
	Descricao      string          `json:"descricao"`
	Usuario        string          `json:"usuario"`
	ReferenciaID   *string         `json:"referencia_id"`
	Data           string          `json:"data"`
}

type TotaisCaixa struct {
	Vendas          decimal.Decimal `json:"vendas"`
	Dinheiro        decimal.Decimal `json:"dinheiro"`
	Cartao          decimal.Decimal `json:"cartao"`
	Pix             decimal.Decimal `json:"pix"`
	Fiado           decimal.Decimal `json:"fiado"`
	PagamentosFiado decimal.Decimal `json:"pagamentos_fiado"`
	Reforcos        decimal.Decimal `json:"reforcos"`
	Sangrias        decimal.Decimal `json:"sangrias"`
}

type CaixaResponse struct {
	ID                string                 `json:"id"`
	Status            string                 `json:"status"`
	DataAbertura      string                 `json:"data_abertura"`
	DataFechamento    *string                `json:"data_fechamento"`
	UsuarioAbertura   string                 `json:"usuario_abertura"`
	UsuarioFechamento *string                `json:"usuario_fechamento"`
	ValorAbertura     decimal.Decimal        `json:"valor_abertura"`
	ValorFechamento   *decimal.Decimal       `json:"valor_fechamento"`
	SaldoEsperado     decimal.Decimal        `json:"saldo_esperado"`
	Diferenca         *decimal.Decimal       `json:"diferenca"`
	Totais            TotaisCaixa            `json:"totais"`
	Observacoes       *string                `json:"observacoes"`
	Movimentacoes     []MovimentacaoResponse `json:"movimentacoes,omitempty"`
}

type DesvioResponse struct {
	Valor         decimal.Decimal `json:"valor"`
	Porcentagem   decimal.Decimal `json:"porcentagem"`
	Classificacao string          `json:"classificacao"` // normal | advertencia | critico
}

type FechamentoResponse struct {
	CaixaID       string          `json:"caixa_id"`
	SaldoEsperado decimal.Decimal `json:"saldo_esperado"`
	ValorContado  decimal.Decimal `json:"valor_contado"`
	Desvio        DesvioResponse  `json:"desvio"`
	Status        string          `json:"status"`
}

type CaixaListResponse struct {
	Data  []CaixaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
