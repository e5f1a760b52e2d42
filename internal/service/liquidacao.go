package service

import (
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"gasagua/internal/apierror"
	"gasagua/internal/dto"
	"gasagua/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// totaisVenda is the priced draft of a sale, computed before anything is written.
type totaisVenda struct {
	itens      []model.ItemVenda
	devolucoes []model.DevolucaoEmbalagem
	subtotal   decimal.Decimal
	creditos   decimal.Decimal
	total      decimal.Decimal
}

// calcularTotais prices the draft:
// total = subtotal - desconto + taxa_entrega - créditos de devolução.
// Every term must be non-negative; a negative total is rejected.
func calcularTotais(req dto.RegistrarVendaRequest) (*totaisVenda, error) {
	if len(req.Itens) == 0 {
		return nil, apierror.ErrVendaSemItens
	}
	if !model.ValorValido(req.Desconto) || !model.ValorValido(req.TaxaEntrega) {
		return nil, apierror.ErrValorInvalido
	}

	t := &totaisVenda{subtotal: decimal.Zero, creditos: decimal.Zero}
	for _, it := range req.Itens {
		if it.Quantidade < 1 || !model.ValorValido(it.PrecoUnitario) {
			return nil, apierror.ErrValorInvalido
		}
		linha := it.PrecoUnitario.Mul(decimal.NewFromInt(int64(it.Quantidade)))
		t.subtotal = t.subtotal.Add(linha)
		t.itens = append(t.itens, model.ItemVenda{
			ID:            uuid.New(),
			ProdutoID:     it.ProdutoID,
			ProdutoNome:   it.ProdutoNome,
			Quantidade:    it.Quantidade,
			PrecoUnitario: it.PrecoUnitario,
			Subtotal:      linha,
			RetornaVazio:  it.RetornaVazio,
			VendeCompleta: it.VendeCompleta,
		})
	}
	for _, d := range req.DevolucoesEmbalagem {
		if d.Quantidade < 1 || !model.ValorValido(d.ValorCredito) {
			return nil, apierror.ErrValorInvalido
		}
		t.creditos = t.creditos.Add(d.ValorCredito)
		t.devolucoes = append(t.devolucoes, model.DevolucaoEmbalagem{
			ID:           uuid.New(),
			ProdutoID:    d.ProdutoID,
			ProdutoNome:  d.ProdutoNome,
			Quantidade:   d.Quantidade,
			ValorCredito: d.ValorCredito,
		})
	}

	t.total = t.subtotal.Sub(req.Desconto).Add(req.TaxaEntrega).Sub(t.creditos)
	if t.total.IsNegative() {
		return nil, apierror.ErrValorInvalido
	}
	return t, nil
}

// repartirPagamentos returns the amount settled per method, one entry per
// method in model.FormasPagamento order, plus the change owed.
// Slices are posted as given; the surplus is only recorded on the sale.
// Without partial payments the whole total goes to forma.
func repartirPagamentos(total decimal.Decimal, forma model.FormaPagamento, parciais []dto.PagamentoParcialRequest) ([]model.ParteVenda, decimal.Decimal, error) {
	if !forma.Valida() {
		return nil, decimal.Zero, apierror.ErrFormaPagamentoInvalida
	}
	if len(parciais) == 0 {
		return []model.ParteVenda{{Forma: forma, Valor: total}}, decimal.Zero, nil
	}

	acumulado := make(map[model.FormaPagamento]decimal.Decimal, len(model.FormasPagamento))
	soma := decimal.Zero
	for _, p := range parciais {
		f := model.FormaPagamento(p.Forma)
		if !f.Valida() {
			return nil, decimal.Zero, apierror.ErrFormaPagamentoInvalida
		}
		if !model.ValorValido(p.Valor) {
			return nil, decimal.Zero, apierror.ErrValorInvalido
		}
		acumulado[f] = acumulado[f].Add(p.Valor)
		soma = soma.Add(p.Valor)
	}
	if soma.LessThan(total) {
		return nil, decimal.Zero, apierror.ErrPagamentoInsuficiente
	}

	partes := make([]model.ParteVenda, 0, len(acumulado))
	for _, f := range model.FormasPagamento {
		if v, ok := acumulado[f]; ok {
			partes = append(partes, model.ParteVenda{Forma: f, Valor: v})
		}
	}
	return partes, soma.Sub(total), nil
}

func parteFiado(partes []model.ParteVenda) decimal.Decimal {
	for _, p := range partes {
		if p.Forma == model.Fiado {
			return p.Valor
		}
	}
	return decimal.Zero
}

var ultimoCodigo atomic.Int64

// gerarCodigo returns "V" + base-36 epoch millis, bumped when two sales land
// in the same millisecond.
func gerarCodigo() string {
	for {
		agora := time.Now().UnixMilli()
		ultimo := ultimoCodigo.Load()
		if agora <= ultimo {
			agora = ultimo + 1
		}
		if ultimoCodigo.CompareAndSwap(ultimo, agora) {
			return "V" + strings.ToUpper(strconv.FormatInt(agora, 36))
		}
	}
}
