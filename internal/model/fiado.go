package model

import (
	"time"

	"gasagua/internal/apierror"

	"github.com/shopspring/decimal"
)

// ContaFiado is a customer's running store-credit debt.
// Saldo never goes below zero.
type ContaFiado struct {
	ClienteID     string           `gorm:"type:varchar(64);primaryKey"`
	Nome          string           `gorm:"not null"`
	Saldo         decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`
	LimiteCredito *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Versao        int              `gorm:"not null;default:0"`
	AtualizadoEm  time.Time
}

func (ContaFiado) TableName() string { return "contas_fiado" }

// Aumentar adds debt. The credit limit is never enforced here; see ExcedeLimite.
func (c *ContaFiado) Aumentar(valor decimal.Decimal) error {
	if !valor.IsPositive() || !ValorValido(valor) {
		return apierror.ErrValorInvalido
	}
	c.Saldo = c.Saldo.Add(valor)
	c.AtualizadoEm = time.Now()
	return nil
}

func (c *ContaFiado) Diminuir(valor decimal.Decimal) error {
	if !valor.IsPositive() || !ValorValido(valor) {
		return apierror.ErrValorInvalido
	}
	if valor.GreaterThan(c.Saldo) {
		return apierror.ErrPagamentoExcedeSaldo
	}
	c.Saldo = c.Saldo.Sub(valor)
	c.AtualizadoEm = time.Now()
	return nil
}

func (c *ContaFiado) ExcedeLimite() bool {
	return c.LimiteCredito != nil && c.Saldo.GreaterThan(*c.LimiteCredito)
}
