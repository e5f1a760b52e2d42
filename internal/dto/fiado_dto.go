package dto

import "github.com/shopspring/decimal"

type DebitoFiadoRequest struct {
	// Nome is used when the account does not exist yet.
	Nome    string          `json:"nome"`
	Valor   decimal.Decimal `json:"valor"   validate:"gt=0"`
	Usuario string          `json:"usuario" validate:"required"`
}

type PagamentoFiadoRequest struct {
	Valor          decimal.Decimal `json:"valor"           validate:"gt=0"`
	FormaPagamento string          `json:"forma_pagamento" validate:"required,oneof=dinheiro cartao pix"`
	Usuario        string          `json:"usuario"         validate:"required"`
}

// DefinirLimiteRequest: a null limite removes the limit.
type DefinirLimiteRequest struct {
	Nome   string           `json:"nome"`
	Limite *decimal.Decimal `json:"limite"`
}

type ContaFiadoResponse struct {
	ClienteID     string           `json:"cliente_id"`
	Nome          string           `json:"nome"`
	Saldo         decimal.Decimal  `json:"saldo"`
	LimiteCredito *decimal.Decimal `json:"limite_credito"`
	ExcedeLimite  bool             `json:"excede_limite"`
	AtualizadoEm  string           `json:"atualizado_em"`
}

// OperacaoFiadoResponse is returned by debit and payment operations.
type OperacaoFiadoResponse struct {
	Conta   ContaFiadoResponse `json:"conta"`
	CaixaID *string            `json:"caixa_id,omitempty"`
	Aviso   *string            `json:"aviso,omitempty"`
}

// AbatimentoFiadoRequest lowers a balance without a till entry (manual correction).
type AbatimentoFiadoRequest struct {
	Valor   decimal.Decimal `json:"valor"   validate:"gt=0"`
	Usuario string          `json:"usuario" validate:"required"`
}
