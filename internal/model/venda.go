package model

import (
	"time"

	"gasagua/internal/apierror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FormaPagamento: "dinheiro" | "cartao" | "pix" | "fiado"
type FormaPagamento string

const (
	Dinheiro FormaPagamento = "dinheiro"
	Cartao   FormaPagamento = "cartao"
	Pix      FormaPagamento = "pix"
	Fiado    FormaPagamento = "fiado"
)

// FormasPagamento lists the methods in the order their ledger entries are posted.
var FormasPagamento = []FormaPagamento{Dinheiro, Cartao, Pix, Fiado}

func (f FormaPagamento) Valida() bool {
	switch f {
	case Dinheiro, Cartao, Pix, Fiado:
		return true
	}
	return false
}

// Status: "concluida" | "cancelada" | "pendente"
const (
	VendaConcluida = "concluida"
	VendaCancelada = "cancelada"
	VendaPendente  = "pendente"
)

// Venda is a committed sale. Once concluded only the cancellation fields change.
type Venda struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	Codigo string    `gorm:"type:varchar(20);uniqueIndex;not null"`
	Data   time.Time `gorm:"not null;index"`
	// ClienteID references a customer record owned by the front office.
	ClienteID    *string `gorm:"type:varchar(64);index"`
	ClienteNome  *string
	ClienteEmail *string

	Subtotal               decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Desconto               decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TaxaEntrega            decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalCreditoDevolucoes decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ValorTotal             decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// Troco is what was paid above ValorTotal.
	Troco decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	// FormaPagamento is nominal when PagamentosParciais is not empty.
	FormaPagamento FormaPagamento `gorm:"type:varchar(10);not null"`
	Status         string         `gorm:"type:varchar(10);not null;default:'concluida';index"`
	Pago           bool           `gorm:"not null"`
	CaixaID        uuid.UUID      `gorm:"type:uuid;index;not null"`
	Usuario        string         `gorm:"not null"`

	EnderecoEntrega *string
	Observacoes     *string

	DataCancelamento    *time.Time
	MotivoCancelamento  *string
	UsuarioCancelamento *string

	Itens               []ItemVenda          `gorm:"foreignKey:VendaID"`
	PagamentosParciais  []PagamentoParcial   `gorm:"foreignKey:VendaID"`
	DevolucoesEmbalagem []DevolucaoEmbalagem `gorm:"foreignKey:VendaID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Venda) TableName() string { return "vendas" }

type ItemVenda struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	VendaID       uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProdutoID     string          `gorm:"type:varchar(64);not null"`
	ProdutoNome   string          `gorm:"not null"`
	Quantidade    int             `gorm:"not null"`
	PrecoUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// RetornaVazio: the customer hands back the empty container.
	RetornaVazio bool `gorm:"not null;default:false"`
	// VendeCompleta: container sold together with its contents.
	VendeCompleta bool `gorm:"not null;default:false"`
}

func (ItemVenda) TableName() string { return "itens_venda" }

// PagamentoParcial holds at most one entry per method within a sale.
type PagamentoParcial struct {
	ID      uuid.UUID       `gorm:"type:uuid;primaryKey"`
	VendaID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Forma   FormaPagamento  `gorm:"type:varchar(10);not null"`
	Valor   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

func (PagamentoParcial) TableName() string { return "pagamentos_parciais" }

// DevolucaoEmbalagem is an empty container returned by the customer; ValorCredito
// is deducted from the sale total.
type DevolucaoEmbalagem struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	VendaID      uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProdutoID    string          `gorm:"type:varchar(64);not null"`
	ProdutoNome  string          `gorm:"not null"`
	Quantidade   int             `gorm:"not null"`
	ValorCredito decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

func (DevolucaoEmbalagem) TableName() string { return "devolucoes_embalagem" }

// ParteFiado returns the share of the sale left on the customer's credit account.
func (v *Venda) ParteFiado() decimal.Decimal {
	if len(v.PagamentosParciais) == 0 {
		if v.FormaPagamento == Fiado {
			return v.ValorTotal
		}
		return decimal.Zero
	}
	total := decimal.Zero
	for _, p := range v.PagamentosParciais {
		if p.Forma == Fiado {
			total = total.Add(p.Valor)
		}
	}
	return total
}

// Cancelar marks a concluded sale as cancelled. Reversal of balances is the
// caller's decision.
func (v *Venda) Cancelar(motivo, usuario string, agora time.Time) error {
	switch v.Status {
	case VendaCancelada:
		return apierror.ErrVendaJaCancelada
	case VendaConcluida:
	default:
		return apierror.ErrVendaNaoConcluida
	}
	v.Status = VendaCancelada
	v.DataCancelamento = &agora
	v.MotivoCancelamento = &motivo
	v.UsuarioCancelamento = &usuario
	return nil
}
