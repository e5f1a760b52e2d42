package model

import (
	"time"

	"gasagua/internal/apierror"

	"github.com/google/uuid"
)

// TipoMovimentacaoEstoque: "venda" | "devolucao_embalagem" | "estorno_venda" | "ajuste" | "troca" | "resto_gas"
type TipoMovimentacaoEstoque string

const (
	EstoqueVenda     TipoMovimentacaoEstoque = "venda"
	EstoqueDevolucao TipoMovimentacaoEstoque = "devolucao_embalagem"
	EstoqueEstorno   TipoMovimentacaoEstoque = "estorno_venda"
	EstoqueAjuste    TipoMovimentacaoEstoque = "ajuste"
	EstoqueTroca     TipoMovimentacaoEstoque = "troca"
	EstoqueRestoGas  TipoMovimentacaoEstoque = "resto_gas"
)

func (t TipoMovimentacaoEstoque) Valido() bool {
	switch t {
	case EstoqueVenda, EstoqueDevolucao, EstoqueEstorno, EstoqueAjuste, EstoqueTroca, EstoqueRestoGas:
		return true
	}
	return false
}

// EstoqueProduto holds the full and empty container counts of one product.
// Products are front-office records, so a row appears on its first movement.
// Neither count goes below zero.
type EstoqueProduto struct {
	ProdutoID    string `gorm:"type:varchar(64);primaryKey"`
	ProdutoNome  string `gorm:"not null"`
	Cheio        int    `gorm:"not null;default:0"`
	Vazio        int    `gorm:"not null;default:0"`
	Minimo       int    `gorm:"not null;default:0"`
	Versao       int    `gorm:"not null;default:0"`
	AtualizadoEm time.Time
}

func (EstoqueProduto) TableName() string { return "estoques" }

// Baixo reports the low-stock condition: full containers at or below the minimum.
func (e *EstoqueProduto) Baixo() bool { return e.Cheio <= e.Minimo }

// MovimentacaoEstoque is one append-only change to a product's counts.
// QuantidadeCheio and QuantidadeVazio are the deltas actually applied, after
// clamping at zero.
type MovimentacaoEstoque struct {
	ID              uuid.UUID               `gorm:"type:uuid;primaryKey"`
	ProdutoID       string                  `gorm:"type:varchar(64);not null;index"`
	ProdutoNome     string                  `gorm:"not null"`
	Tipo            TipoMovimentacaoEstoque `gorm:"type:varchar(20);not null;index"`
	QuantidadeCheio int                     `gorm:"not null"`
	QuantidadeVazio int                     `gorm:"not null"`
	CheioAnterior   int                     `gorm:"not null"`
	CheioNovo       int                     `gorm:"not null"`
	VazioAnterior   int                     `gorm:"not null"`
	VazioNovo       int                     `gorm:"not null"`
	Motivo          string
	VendaID         *uuid.UUID `gorm:"type:uuid;index"`
	Usuario         string     `gorm:"not null"`
	Data            time.Time  `gorm:"not null;index"`
}

func (MovimentacaoEstoque) TableName() string { return "movimentacoes_estoque" }

// Movimentar applies the deltas and returns the entry describing the change.
// Both deltas zero is rejected; a delta that would take a count below zero
// stops at zero.
func (e *EstoqueProduto) Movimentar(tipo TipoMovimentacaoEstoque, cheio, vazio int, motivo, usuario string, vendaID *uuid.UUID) (MovimentacaoEstoque, error) {
	if !tipo.Valido() {
		return MovimentacaoEstoque{}, apierror.ErrTipoMovimentacaoInvalido
	}
	if cheio == 0 && vazio == 0 {
		return MovimentacaoEstoque{}, apierror.ErrQuantidadeInvalida
	}

	agora := time.Now()
	m := MovimentacaoEstoque{
		ID:            uuid.New(),
		ProdutoID:     e.ProdutoID,
		ProdutoNome:   e.ProdutoNome,
		Tipo:          tipo,
		CheioAnterior: e.Cheio,
		VazioAnterior: e.Vazio,
		Motivo:        motivo,
		VendaID:       vendaID,
		Usuario:       usuario,
		Data:          agora,
	}
	e.Cheio = max(0, e.Cheio+cheio)
	e.Vazio = max(0, e.Vazio+vazio)
	e.AtualizadoEm = agora

	m.CheioNovo, m.VazioNovo = e.Cheio, e.Vazio
	m.QuantidadeCheio = m.CheioNovo - m.CheioAnterior
	m.QuantidadeVazio = m.VazioNovo - m.VazioAnterior
	return m, nil
}

// DeltasItemVenda is what selling one item does to the counts: full
// containers leave, and the empties come back unless the container was sold
// with its contents.
func DeltasItemVenda(it ItemVenda) (cheio, vazio int) {
	cheio = -it.Quantidade
	if it.RetornaVazio && !it.VendeCompleta {
		vazio = it.Quantidade
	}
	return cheio, vazio
}
