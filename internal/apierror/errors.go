package apierror

import (
	"errors"
	"net/http"
)

// Domain errors. Services return these (possibly wrapped with fmt.Errorf %w);
// handlers translate them with StatusCode.
var (
	ErrValorInvalido            = errors.New("valor inválido: use um número não negativo com até duas casas decimais")
	ErrTipoMovimentacaoInvalido = errors.New("tipo de movimentação inválido")
	ErrFormaPagamentoInvalida   = errors.New("forma de pagamento inválida")
	ErrVendaSemItens            = errors.New("a venda precisa de ao menos um item")
	ErrDataInvalida             = errors.New("data inválida: use AAAA-MM-DD")
	ErrQuantidadeInvalida       = errors.New("quantidade inválida: a movimentação de estoque não altera nada")

	ErrCaixaJaAberto  = errors.New("já existe um caixa aberto")
	ErrCaixaNaoAberto = errors.New("o caixa não está aberto")
	ErrSemCaixaAberto = errors.New("não há caixa aberto para registrar a operação")

	ErrPagamentoInsuficiente = errors.New("o valor pago é menor que o total da venda")
	ErrFiadoSemCliente       = errors.New("venda fiado exige um cliente")
	ErrPagamentoExcedeSaldo  = errors.New("o pagamento excede o saldo devedor do cliente")

	ErrNaoEncontrado     = errors.New("registro não encontrado")
	ErrVendaJaCancelada  = errors.New("a venda já está cancelada")
	ErrVendaNaoConcluida = errors.New("somente vendas concluídas podem ser canceladas")

	// ErrConflito signals a lost optimistic-concurrency race (stale Versao).
	ErrConflito = errors.New("o registro foi alterado por outra operação, tente novamente")
	// ErrOperacaoEmAndamento is returned when a distributed lock cannot be obtained.
	ErrOperacaoEmAndamento = errors.New("outra operação de caixa está em andamento")
)

// StatusCode maps a domain error to the HTTP status returned to clients.
// Unknown errors map to 500.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrNaoEncontrado):
		return http.StatusNotFound
	case errors.Is(err, ErrCaixaJaAberto),
		errors.Is(err, ErrCaixaNaoAberto),
		errors.Is(err, ErrSemCaixaAberto),
		errors.Is(err, ErrVendaJaCancelada),
		errors.Is(err, ErrVendaNaoConcluida),
		errors.Is(err, ErrConflito),
		errors.Is(err, ErrOperacaoEmAndamento):
		return http.StatusConflict
	case errors.Is(err, ErrValorInvalido),
		errors.Is(err, ErrTipoMovimentacaoInvalido),
		errors.Is(err, ErrFormaPagamentoInvalida),
		errors.Is(err, ErrVendaSemItens),
		errors.Is(err, ErrDataInvalida),
		errors.Is(err, ErrQuantidadeInvalida),
		errors.Is(err, ErrPagamentoInsuficiente),
		errors.Is(err, ErrFiadoSemCliente),
		errors.Is(err, ErrPagamentoExcedeSaldo):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// IsDomain reports whether err is one of the errors declared above.
func IsDomain(err error) bool {
	return StatusCode(err) != http.StatusInternalServerError
}
