package model

import (
	"testing"
	"time"

	"gasagua/internal/apierror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContaFiadoAumentarIgnoraLimite(t *testing.T) {
	limite := dec("100")
	c := &ContaFiado{ClienteID: "A", LimiteCredito: &limite}

	require.NoError(t, c.Aumentar(dec("320")))
	assert.True(t, c.Saldo.Equal(dec("320")))
	assert.True(t, c.ExcedeLimite())
}

func TestContaFiadoAumentarValorInvalido(t *testing.T) {
	c := &ContaFiado{ClienteID: "A"}
	assert.ErrorIs(t, c.Aumentar(dec("0")), apierror.ErrValorInvalido)
	assert.ErrorIs(t, c.Aumentar(dec("-3")), apierror.ErrValorInvalido)
	assert.ErrorIs(t, c.Aumentar(dec("0.001")), apierror.ErrValorInvalido)
	assert.True(t, c.Saldo.IsZero())
}

func TestContaFiadoDiminuir(t *testing.T) {
	c := &ContaFiado{ClienteID: "A", Saldo: dec("320")}

	require.NoError(t, c.Diminuir(dec("320")))
	assert.True(t, c.Saldo.IsZero())

	err := c.Diminuir(dec("50"))
	assert.ErrorIs(t, err, apierror.ErrPagamentoExcedeSaldo)
	assert.True(t, c.Saldo.IsZero())
}

// The balance stays non-negative across any mix of increases and decreases.
func TestContaFiadoSaldoNuncaNegativo(t *testing.T) {
	c := &ContaFiado{ClienteID: "B"}
	ops := []struct {
		aumentar bool
		valor    string
	}{
		{true, "10"}, {false, "4"}, {false, "7"}, {true, "2.5"}, {false, "8.5"},
		{false, "0.01"}, {true, "1"}, {false, "1"}, {false, "-1"}, {true, "0"},
	}
	for _, op := range ops {
		antes := c.Saldo
		var err error
		if op.aumentar {
			err = c.Aumentar(dec(op.valor))
		} else {
			err = c.Diminuir(dec(op.valor))
			if dec(op.valor).GreaterThan(antes) {
				assert.Error(t, err)
			}
		}
		if err != nil {
			assert.True(t, c.Saldo.Equal(antes))
		}
		assert.False(t, c.Saldo.IsNegative())
	}
	assert.True(t, c.Saldo.IsZero(), c.Saldo.String())
}

func TestVendaCancelar(t *testing.T) {
	v := &Venda{Status: VendaConcluida}
	require.NoError(t, v.Cancelar("cliente desistiu", "maria", time.Now()))
	assert.Equal(t, VendaCancelada, v.Status)
	assert.Equal(t, "cliente desistiu", *v.MotivoCancelamento)

	assert.ErrorIs(t, v.Cancelar("de novo", "maria", time.Now()), apierror.ErrVendaJaCancelada)

	p := &Venda{Status: VendaPendente}
	assert.ErrorIs(t, p.Cancelar("x", "maria", time.Now()), apierror.ErrVendaNaoConcluida)
}

func TestVendaParteFiado(t *testing.T) {
	v := &Venda{FormaPagamento: Fiado, ValorTotal: dec("80")}
	assert.True(t, v.ParteFiado().Equal(dec("80")))

	v = &Venda{FormaPagamento: Dinheiro, ValorTotal: dec("80"), PagamentosParciais: []PagamentoParcial{
		{Forma: Dinheiro, Valor: dec("30")}, {Forma: Fiado, Valor: dec("50")},
	}}
	assert.True(t, v.ParteFiado().Equal(dec("50")))

	v = &Venda{FormaPagamento: Pix, ValorTotal: dec("80")}
	assert.True(t, v.ParteFiado().IsZero())
}
