package dto

// DefinirEstoqueRequest registers a product's stock record or changes its
// name and low-stock minimum. Counts only change through movements.
type DefinirEstoqueRequest struct {
	ProdutoNome string `json:"produto_nome" validate:"required"`
	Minimo      int    `json:"minimo"       validate:"min=0"`
}

// MovimentarEstoqueRequest: "ajuste" takes signed cheio/vazio deltas; troca,
// resto_gas and devolucao_embalagem take a positive quantidade.
type MovimentarEstoqueRequest struct {
	ProdutoNome string `json:"produto_nome"`
	Tipo        string `json:"tipo"       validate:"required,oneof=ajuste troca resto_gas devolucao_embalagem"`
	Quantidade  int    `json:"quantidade" validate:"min=0"`
	Cheio       int    `json:"cheio"`
	Vazio       int    `json:"vazio"`
	Motivo      string `json:"motivo"     validate:"required,min=3"`
	Usuario     string `json:"usuario"    validate:"required"`
}

// MovimentacaoEstoqueFilter is bound from query string of GET /v1/estoque/movimentacoes.
type MovimentacaoEstoqueFilter struct {
	ProdutoID string `form:"produto_id"`
	Tipo      string `form:"tipo"`
	Data      string `form:"data"` // YYYY-MM-DD; empty = every day
	Page      int    `form:"page,default=1"    validate:"min=1"`
	Limit     int    `form:"limit,default=100" validate:"min=1,max=500"`
}

type EstoqueResponse struct {
	ProdutoID    string `json:"produto_id"`
	ProdutoNome  string `json:"produto_nome"`
	Cheio        int    `json:"cheio"`
	Vazio        int    `json:"vazio"`
	Minimo       int    `json:"minimo"`
	Baixo        bool   `json:"baixo"`
	AtualizadoEm string `json:"atualizado_em"`
}

type MovimentacaoEstoqueResponse struct {
	ID              string  `json:"id"`
	ProdutoID       string  `json:"produto_id"`
	ProdutoNome     string  `json:"produto_nome"`
	Tipo            string  `json:"tipo"`
	QuantidadeCheio int     `json:"quantidade_cheio"`
	QuantidadeVazio int     `json:"quantidade_vazio"`
	CheioAnterior   int     `json:"cheio_anterior"`
	CheioNovo       int     `json:"cheio_novo"`
	VazioAnterior   int     `json:"vazio_anterior"`
	VazioNovo       int     `json:"vazio_novo"`
	Motivo          string  `json:"motivo"`
	VendaID         *string `json:"venda_id,omitempty"`
	Usuario         string  `json:"usuario"`
	Data            string  `json:"data"`
}

type MovimentacaoEstoqueListResponse struct {
	Data  []MovimentacaoEstoqueResponse `json:"data"`
	Total int64                         `json:"total"`
	Page  int                           `json:"page"`
	Limit int                           `json:"limit"`
}

// MovimentacaoEstoqueResultado is returned by a manual movement.
type MovimentacaoEstoqueResultado struct {
	Estoque      EstoqueResponse             `json:"estoque"`
	Movimentacao MovimentacaoEstoqueResponse `json:"movimentacao"`
	Aviso        *string                     `json:"aviso,omitempty"`
}
