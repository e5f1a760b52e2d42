package model

import (
	"time"

	"gasagua/internal/apierror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TipoMovimentacao is the kind of a cash ledger entry.
type TipoMovimentacao string

const (
	MovAbertura       TipoMovimentacao = "abertura"
	MovFechamento     TipoMovimentacao = "fechamento"
	MovReforco        TipoMovimentacao = "reforco"
	MovSangria        TipoMovimentacao = "sangria"
	MovPagamentoFiado TipoMovimentacao = "pagamento_fiado"
	MovDespesa        TipoMovimentacao = "despesa"
	MovVenda          TipoMovimentacao = "venda"
)

func (t TipoMovimentacao) Valido() bool {
	switch t {
	case MovAbertura, MovFechamento, MovReforco, MovSangria, MovPagamentoFiado, MovDespesa, MovVenda:
		return true
	}
	return false
}

// Estado: "aberto" | "fechado"
const (
	CaixaAberto  = "aberto"
	CaixaFechado = "fechado"
)

// Caixa is one open-to-close session of the cash register.
// Totals are derived from Movimentacoes and only change through the methods
// below; nothing outside this file writes them.
type Caixa struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	DataAbertura      time.Time `gorm:"not null;index"`
	DataFechamento    *time.Time
	UsuarioAbertura   string `gorm:"not null"`
	UsuarioFechamento *string

	ValorAbertura   decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	ValorFechamento *decimal.Decimal `gorm:"type:decimal(12,2)"`
	// Diferenca = ValorFechamento - SaldoEsperado at close time. Informational only.
	Diferenca *decimal.Decimal `gorm:"type:decimal(12,2)"`

	TotalVendas          decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalDinheiro        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalCartao          decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalPix             decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalFiado           decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalPagamentosFiado decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalReforcos        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalSangrias        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	Status      string `gorm:"type:varchar(10);not null;default:'aberto'"`
	Observacoes *string
	// Versao is bumped by the repository on every successful write.
	Versao int `gorm:"not null;default:0"`

	Movimentacoes []MovimentacaoCaixa `gorm:"foreignKey:CaixaID"`
}

func (Caixa) TableName() string { return "caixas" }

// MovimentacaoCaixa is an immutable entry in the cash register ledger.
// Entries are appended, never updated or deleted.
type MovimentacaoCaixa struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	CaixaID uuid.UUID `gorm:"type:uuid;index;not null"`
	// Seq keeps insertion order inside the session.
	Seq            int              `gorm:"not null"`
	Tipo           TipoMovimentacao `gorm:"type:varchar(20);not null"`
	FormaPagamento *FormaPagamento  `gorm:"type:varchar(10)"`
	Valor          decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	Descricao      string           `gorm:"not null"`
	Usuario        string           `gorm:"not null"`
	// ReferenciaID links to the originating Venda, Despesa or ContaFiado payment.
	ReferenciaID *uuid.UUID `gorm:"type:uuid"`
	Data         time.Time  `gorm:"not null"`
}

func (MovimentacaoCaixa) TableName() string { return "movimentacoes_caixa" }

// ValorValido reports whether v fits a money column: not negative and at most
// two decimal places.
func ValorValido(v decimal.Decimal) bool {
	return !v.IsNegative() && v.Equal(v.Truncate(2))
}

// NovaMovimentacao builds a ledger entry stamped with a fresh id and the current time.
func NovaMovimentacao(tipo TipoMovimentacao, valor decimal.Decimal, descricao, usuario string) (MovimentacaoCaixa, error) {
	if !tipo.Valido() {
		return MovimentacaoCaixa{}, apierror.ErrTipoMovimentacaoInvalido
	}
	if !ValorValido(valor) {
		return MovimentacaoCaixa{}, apierror.ErrValorInvalido
	}
	return MovimentacaoCaixa{
		ID:        uuid.New(),
		Tipo:      tipo,
		Valor:     valor,
		Descricao: descricao,
		Usuario:   usuario,
		Data:      time.Now(),
	}, nil
}

// ParteVenda is the share of a sale settled with one payment method.
type ParteVenda struct {
	Forma FormaPagamento
	Valor decimal.Decimal
}

// AbrirCaixa creates a session in the open state with its "abertura" entry.
// Whether another session is already open is checked by the caller against the store.
func AbrirCaixa(usuario string, valorAbertura decimal.Decimal, agora time.Time) (*Caixa, error) {
	abertura, err := NovaMovimentacao(MovAbertura, valorAbertura, "Abertura de caixa", usuario)
	if err != nil {
		return nil, err
	}
	abertura.Data = agora

	c := &Caixa{
		ID:              uuid.New(),
		DataAbertura:    agora,
		UsuarioAbertura: usuario,
		ValorAbertura:   valorAbertura,
		Status:          CaixaAberto,
	}
	c.aplicar(abertura)
	return c, nil
}

func (c *Caixa) Aberto() bool { return c.Status == CaixaAberto }

// Lancar appends a single entry and feeds the total matching its kind.
// A "venda" entry only feeds TotalVendas; use RegistrarVenda to settle a sale.
func (c *Caixa) Lancar(m MovimentacaoCaixa) error {
	if !c.Aberto() {
		return apierror.ErrCaixaNaoAberto
	}
	if !m.Tipo.Valido() {
		return apierror.ErrTipoMovimentacaoInvalido
	}
	if !ValorValido(m.Valor) {
		return apierror.ErrValorInvalido
	}
	c.aplicar(m)
	return nil
}

// RegistrarVenda posts one "venda" entry per payment method with a positive
// share, feeds the method sub-totals with each share and TotalVendas once with
// the grand total. Either every entry is posted or none is.
func (c *Caixa) RegistrarVenda(vendaID uuid.UUID, codigo, usuario string, valorTotal decimal.Decimal, partes []ParteVenda) error {
	if !c.Aberto() {
		return apierror.ErrCaixaNaoAberto
	}
	if !ValorValido(valorTotal) {
		return apierror.ErrValorInvalido
	}
	for _, p := range partes {
		if !p.Forma.Valida() {
			return apierror.ErrFormaPagamentoInvalida
		}
		if !ValorValido(p.Valor) {
			return apierror.ErrValorInvalido
		}
	}

	agora := time.Now()
	for _, p := range partes {
		if !p.Valor.IsPositive() {
			continue
		}
		forma := p.Forma
		ref := vendaID
		c.Movimentacoes = append(c.Movimentacoes, MovimentacaoCaixa{
			ID:             uuid.New(),
			CaixaID:        c.ID,
			Seq:            len(c.Movimentacoes) + 1,
			Tipo:           MovVenda,
			FormaPagamento: &forma,
			Valor:          p.Valor,
			Descricao:      "Venda " + codigo + " (" + string(forma) + ")",
			Usuario:        usuario,
			ReferenciaID:   &ref,
			Data:           agora,
		})
		c.somarForma(forma, p.Valor)
	}
	c.TotalVendas = c.TotalVendas.Add(valorTotal)
	return nil
}

// Fechar closes the session. A mismatch between the counted cash and
// SaldoEsperado never blocks closing; it is recorded in Diferenca.
func (c *Caixa) Fechar(usuario string, valorContado decimal.Decimal, observacoes *string, agora time.Time) (decimal.Decimal, error) {
	if !c.Aberto() {
		return decimal.Zero, apierror.ErrCaixaNaoAberto
	}
	fechamento, err := NovaMovimentacao(MovFechamento, valorContado, "Fechamento de caixa", usuario)
	if err != nil {
		return decimal.Zero, err
	}
	fechamento.Data = agora

	diferenca := valorContado.Sub(c.SaldoEsperado())
	c.aplicar(fechamento)

	contado := valorContado
	c.ValorFechamento = &contado
	c.Diferenca = &diferenca
	c.DataFechamento = &agora
	c.UsuarioFechamento = &usuario
	c.Observacoes = observacoes
	c.Status = CaixaFechado
	return diferenca, nil
}

// SaldoEsperado is the cash that should be in the drawer:
// abertura + vendas em dinheiro + pagamentos de fiado + reforços - sangrias.
func (c *Caixa) SaldoEsperado() decimal.Decimal {
	return c.ValorAbertura.
		Add(c.TotalDinheiro).
		Add(c.TotalPagamentosFiado).
		Add(c.TotalReforcos).
		Sub(c.TotalSangrias)
}

// Clone returns a deep copy, so callers can mutate a session and discard it on failure.
func (c *Caixa) Clone() *Caixa {
	cp := *c
	cp.Movimentacoes = append([]MovimentacaoCaixa(nil), c.Movimentacoes...)
	return &cp
}

func (c *Caixa) aplicar(m MovimentacaoCaixa) {
	m.CaixaID = c.ID
	m.Seq = len(c.Movimentacoes) + 1
	switch m.Tipo {
	case MovReforco:
		c.TotalReforcos = c.TotalReforcos.Add(m.Valor)
	case MovSangria:
		c.TotalSangrias = c.TotalSangrias.Add(m.Valor)
	case MovPagamentoFiado:
		c.TotalPagamentosFiado = c.TotalPagamentosFiado.Add(m.Valor)
	case MovVenda:
		c.TotalVendas = c.TotalVendas.Add(m.Valor)
	}
	c.Movimentacoes = append(c.Movimentacoes, m)
}

func (c *Caixa) somarForma(f FormaPagamento, valor decimal.Decimal) {
	switch f {
	case Dinheiro:
		c.TotalDinheiro = c.TotalDinheiro.Add(valor)
	case Cartao:
		c.TotalCartao = c.TotalCartao.Add(valor)
	case Pix:
		c.TotalPix = c.TotalPix.Add(valor)
	case Fiado:
		c.TotalFiado = c.TotalFiado.Add(valor)
	}
}
