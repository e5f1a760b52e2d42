package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// VendaFilter is bound from query string of GET /v1/vendas.
type VendaFilter struct {
	Data      string `form:"data"`                     // YYYY-MM-DD; empty = today
	Status    string `form:"status,default=concluida"` // concluida | cancelada | pendente | all
	ClienteID string `form:"cliente_id"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type VendaListResponse struct {
	Data  []VendaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemVendaRequest struct {
	ProdutoID     string          `json:"produto_id"     validate:"required,max=64"`
	ProdutoNome   string          `json:"produto_nome"   validate:"required"`
	Quantidade    int             `json:"quantidade"     validate:"required,min=1"`
	PrecoUnitario decimal.Decimal `json:"preco_unitario" validate:"min=0"`
	RetornaVazio  bool            `json:"retorna_vazio"`
	VendeCompleta bool            `json:"vende_completa"`
}

type PagamentoParcialRequest struct {
	Forma string          `json:"forma" validate:"required,oneof=dinheiro cartao pix fiado"`
	Valor decimal.Decimal `json:"valor" validate:"min=0"`
}

type DevolucaoEmbalagemRequest struct {
	ProdutoID    string          `json:"produto_id"    validate:"required,max=64"`
	ProdutoNome  string          `json:"produto_nome"  validate:"required"`
	Quantidade   int             `json:"quantidade"    validate:"required,min=1"`
	ValorCredito decimal.Decimal `json:"valor_credito" validate:"min=0"`
}

type RegistrarVendaRequest struct {
	ClienteID   *string `json:"cliente_id"   validate:"omitempty,max=64"`
	ClienteNome *string `json:"cliente_nome"`
	// ClienteEmail: optional; when present the recibo worker mails the PDF receipt.
	ClienteEmail        *string                     `json:"cliente_email"        validate:"omitempty,email"`
	Itens               []ItemVendaRequest          `json:"itens"                validate:"required,min=1,dive"`
	Desconto            decimal.Decimal             `json:"desconto"             validate:"min=0"`
	TaxaEntrega         decimal.Decimal             `json:"taxa_entrega"         validate:"min=0"`
	DevolucoesEmbalagem []DevolucaoEmbalagemRequest `json:"devolucoes_embalagem" validate:"omitempty,dive"`
	FormaPagamento      string                      `json:"forma_pagamento"      validate:"required,oneof=dinheiro cartao pix fiado"`
	PagamentosParciais  []PagamentoParcialRequest   `json:"pagamentos_parciais"  validate:"omitempty,dive"`
	Usuario             string                      `json:"usuario"              validate:"required"`
	EnderecoEntrega     *string                     `json:"endereco_entrega"`
	Observacoes         *string                     `json:"observacoes"`
}

type CancelarVendaRequest struct {
	Motivo  string `json:"motivo"  validate:"required,min=3"`
	Usuario string `json:"usuario" validate:"required"`
	// RestaurarEstoque undoes the sale's stock movements.
	RestaurarEstoque bool `json:"restaurar_estoque"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemVendaResponse struct {
	ProdutoID     string          `json:"produto_id"`
	ProdutoNome   string          `json:"produto_nome"`
	Quantidade    int             `json:"quantidade"`
	PrecoUnitario decimal.Decimal `json:"preco_unitario"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	RetornaVazio  bool            `json:"retorna_vazio"`
	VendeCompleta bool            `json:"vende_completa"`
}

type PagamentoResponse struct {
	Forma string          `json:"forma"`
	Valor decimal.Decimal `json:"valor"`
}

type DevolucaoEmbalagemResponse struct {
	ProdutoNome  string          `json:"produto_nome"`
	Quantidade   int             `json:"quantidade"`
	ValorCredito decimal.Decimal `json:"valor_credito"`
}

type VendaResponse struct {
	ID                     string                       `json:"id"`
	Codigo                 string                       `json:"codigo"`
	Data                   string                       `json:"data"`
	ClienteID              *string                      `json:"cliente_id"`
	ClienteNome            *string                      `json:"cliente_nome"`
	Itens                  []ItemVendaResponse          `json:"itens"`
	Subtotal               decimal.Decimal              `json:"subtotal"`
	Desconto               decimal.Decimal              `json:"desconto"`
	TaxaEntrega            decimal.Decimal              `json:"taxa_entrega"`
	TotalCreditoDevolucoes decimal.Decimal              `json:"total_credito_devolucoes"`
	ValorTotal             decimal.Decimal              `json:"valor_total"`
	Troco                  decimal.Decimal              `json:"troco"`
	FormaPagamento         string                       `json:"forma_pagamento"`
	PagamentosParciais     []PagamentoResponse          `json:"pagamentos_parciais,omitempty"`
	DevolucoesEmbalagem    []DevolucaoEmbalagemResponse `json:"devolucoes_embalagem,omitempty"`
	Status                 string                       `json:"status"`
	Pago                   bool                         `json:"pago"`
	CaixaID                string                       `json:"caixa_id"`
	Usuario                string                       `json:"usuario"`
	DataCancelamento       *string                      `json:"data_cancelamento,omitempty"`
	MotivoCancelamento     *string                      `json:"motivo_cancelamento,omitempty"`
	UsuarioCancelamento    *string                      `json:"usuario_cancelamento,omitempty"`
	// Avisos carries non-blocking notices, e.g. a customer over the credit limit.
	Avisos []string `json:"avisos,omitempty"`
}
