package dto

import "github.com/shopspring/decimal"

type RegistrarDespesaRequest struct {
	Valor     decimal.Decimal `json:"valor"     validate:"gt=0"`
	Motivo    string          `json:"motivo"    validate:"required,min=3"`
	Descricao *string         `json:"descricao"`
	Categoria string          `json:"categoria" validate:"omitempty,oneof=despesa manutencao combustivel salario outros"`
	Usuario   string          `json:"usuario"   validate:"required"`
}

// DespesaFilter is bound from query string of GET /v1/despesas.
type DespesaFilter struct {
	DataInicio string `form:"data_inicio"` // YYYY-MM-DD; empty = today
	DataFim    string `form:"data_fim"`    // YYYY-MM-DD; empty = data_inicio
}

type DespesaResponse struct {
	ID        string          `json:"id"`
	Data      string          `json:"data"`
	Valor     decimal.Decimal `json:"valor"`
	Motivo    string          `json:"motivo"`
	Descricao *string         `json:"descricao"`
	Categoria string          `json:"categoria"`
	Usuario   string          `json:"usuario"`
	CaixaID   *string         `json:"caixa_id"`
}

type DespesaListResponse struct {
	Data  []DespesaResponse `json:"data"`
	Total decimal.Decimal   `json:"total"`
}
