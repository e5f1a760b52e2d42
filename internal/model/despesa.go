package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Categoria: "despesa" | "manutencao" | "combustivel" | "salario" | "outros"
var CategoriasDespesa = []string{"despesa", "manutencao", "combustivel", "salario", "outros"}

// Despesa is an operating expense. When a caixa was open at registration time
// CaixaID points to it and a "despesa" entry was posted there.
type Despesa struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Data      time.Time       `gorm:"not null;index"`
	Valor     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Motivo    string          `gorm:"not null"`
	Descricao *string
	Categoria string     `gorm:"type:varchar(20);not null;default:'despesa'"`
	Usuario   string     `gorm:"not null"`
	CaixaID   *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt time.Time
}

func (Despesa) TableName() string { return "despesas" }
