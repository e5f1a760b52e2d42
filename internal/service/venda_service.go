package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gasagua/internal/apierror"
	"gasagua/internal/dto"
	"gasagua/internal/model"
	"gasagua/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// PoliticaCancelamento decides what a cancellation reverses.
type PoliticaCancelamento string

const (
	// CancelamentoNenhum only marks the sale; balances are reconciled by hand.
	CancelamentoNenhum PoliticaCancelamento = "nenhum"
	// CancelamentoEstornarFiado also removes the credit share from the
	// customer's balance, capped at the current balance.
	CancelamentoEstornarFiado PoliticaCancelamento = "estornar_fiado"
)

func (p PoliticaCancelamento) Valida() bool {
	return p == CancelamentoNenhum || p == CancelamentoEstornarFiado
}

type VendaService interface {
	Registrar(ctx context.Context, req dto.RegistrarVendaRequest) (*dto.VendaResponse, error)
	Cancelar(ctx context.Context, id uuid.UUID, req dto.CancelarVendaRequest) (*dto.VendaResponse, error)
	Obter(ctx context.Context, id uuid.UUID) (*dto.VendaResponse, error)
	Listar(ctx context.Context, filter dto.VendaFilter) (*dto.VendaListResponse, error)
}

type vendaService struct {
	repo       repository.VendaRepository
	caixas     repository.CaixaRepository
	fiado      repository.FiadoRepository
	estoque    contadorEstoque
	tx         repository.TxManager
	dispatcher ReciboDispatcher
	politica   PoliticaCancelamento
}

// VendaDeps groups what a sale touches besides its own table.
type VendaDeps struct {
	Caixas  repository.CaixaRepository
	Fiado   repository.FiadoRepository
	Estoque repository.EstoqueRepository
	// EstoqueMinimoPadrao is the minimum given to products first seen in a sale.
	EstoqueMinimoPadrao int
	Tx                  repository.TxManager
	// Dispatcher may be nil; receipts are then skipped.
	Dispatcher ReciboDispatcher
	Politica   PoliticaCancelamento
}

func NewVendaService(repo repository.VendaRepository, deps VendaDeps) VendaService {
	politica := deps.Politica
	if !politica.Valida() {
		politica = CancelamentoNenhum
	}
	return &vendaService{
		repo:       repo,
		caixas:     deps.Caixas,
		fiado:      deps.Fiado,
		estoque:    contadorEstoque{repo: deps.Estoque, minimoPadrao: deps.EstoqueMinimoPadrao},
		tx:         deps.Tx,
		dispatcher: deps.Dispatcher,
		politica:   politica,
	}
}

// ── Registrar ─────────────────────────────────────────────────────────────────
// Checks run in this order and nothing is written until all pass:
//   1. draft totals
//   2. open caixa
//   3. payment split
//   4. credit share needs a customer
// Then, in one transaction: venda, caixa entries, fiado increase, stock movements.
// The receipt job is enqueued after commit.

func (s *vendaService) Registrar(ctx context.Context, req dto.RegistrarVendaRequest) (*dto.VendaResponse, error) {
	totais, err := calcularTotais(req)
	if err != nil {
		return nil, err
	}
	forma := model.FormaPagamento(req.FormaPagamento)

	var (
		venda  *model.Venda
		avisos []string
	)
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		avisos = nil
		caixa, err := s.caixas.BuscarAberto(ctx)
		if err != nil {
			return err
		}
		if caixa == nil {
			return apierror.ErrSemCaixaAberto
		}

		partes, troco, err := repartirPagamentos(totais.total, forma, req.PagamentosParciais)
		if err != nil {
			return err
		}
		fiado := parteFiado(partes)
		if fiado.IsPositive() && (req.ClienteID == nil || *req.ClienteID == "") {
			return apierror.ErrFiadoSemCliente
		}

		venda = novaVenda(req, totais, partes, troco, caixa.ID)
		if err := s.repo.Criar(ctx, venda); err != nil {
			return err
		}

		if err := atualizarCaixa(ctx, s.caixas, caixa, func(c *model.Caixa) error {
			return c.RegistrarVenda(venda.ID, venda.Codigo, req.Usuario, venda.ValorTotal, partes)
		}); err != nil {
			return err
		}

		if fiado.IsPositive() {
			conta, err := s.contaOuNova(ctx, *req.ClienteID, req.ClienteNome)
			if err != nil {
				return err
			}
			if err := conta.Aumentar(fiado); err != nil {
				return err
			}
			if err := s.fiado.Salvar(ctx, conta); err != nil {
				return err
			}
			if conta.ExcedeLimite() {
				avisos = append(avisos, fmt.Sprintf(
					"cliente %s ultrapassou o limite de crédito (saldo %s, limite %s)",
					conta.Nome, conta.Saldo.StringFixed(2), conta.LimiteCredito.StringFixed(2)))
			}
		}

		baixos, err := s.estoque.baixarVenda(ctx, venda)
		if err != nil {
			return err
		}
		avisos = append(avisos, baixos...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("venda_id", venda.ID.String()).
		Str("codigo", venda.Codigo).
		Str("total", venda.ValorTotal.StringFixed(2)).
		Bool("pago", venda.Pago).
		Msg("venda registrada")
	for _, a := range avisos {
		log.Warn().Str("venda_id", venda.ID.String()).Msg(a)
	}

	// Best effort: a missing receipt never undoes a sale.
	if s.dispatcher != nil {
		if err := s.dispatcher.EnqueueRecibo(ctx, venda.ID, req.ClienteEmail); err != nil {
			log.Warn().Err(err).Str("venda_id", venda.ID.String()).Msg("falha ao enfileirar recibo")
		}
	}

	resp := vendaToResponse(venda)
	resp.Avisos = avisos
	return resp, nil
}

func novaVenda(req dto.RegistrarVendaRequest, t *totaisVenda, partes []model.ParteVenda, troco decimal.Decimal, caixaID uuid.UUID) *model.Venda {
	v := &model.Venda{
		ID:                     uuid.New(),
		Codigo:                 gerarCodigo(),
		Data:                   time.Now(),
		ClienteID:              req.ClienteID,
		ClienteNome:            req.ClienteNome,
		ClienteEmail:           req.ClienteEmail,
		Subtotal:               t.subtotal,
		Desconto:               req.Desconto,
		TaxaEntrega:            req.TaxaEntrega,
		TotalCreditoDevolucoes: t.creditos,
		ValorTotal:             t.total,
		Troco:                  troco,
		FormaPagamento:         model.FormaPagamento(req.FormaPagamento),
		Status:                 model.VendaConcluida,
		Pago:                   parteFiado(partes).IsZero(),
		CaixaID:                caixaID,
		Usuario:                req.Usuario,
		EnderecoEntrega:        req.EnderecoEntrega,
		Observacoes:            req.Observacoes,
	}
	for _, it := range t.itens {
		it.VendaID = v.ID
		v.Itens = append(v.Itens, it)
	}
	for _, d := range t.devolucoes {
		d.VendaID = v.ID
		v.DevolucoesEmbalagem = append(v.DevolucoesEmbalagem, d)
	}
	if len(req.PagamentosParciais) > 0 {
		for _, p := range partes {
			v.PagamentosParciais = append(v.PagamentosParciais, model.PagamentoParcial{
				ID:      uuid.New(),
				VendaID: v.ID,
				Forma:   p.Forma,
				Valor:   p.Valor,
			})
		}
	}
	return v
}

// contaOuNova loads the customer's account or starts an empty one; customers
// live in the front office so accounts are created on first credit.
func (s *vendaService) contaOuNova(ctx context.Context, clienteID string, nome *string) (*model.ContaFiado, error) {
	conta, err := s.fiado.Buscar(ctx, clienteID)
	if err == nil {
		return conta, nil
	}
	if !errors.Is(err, apierror.ErrNaoEncontrado) {
		return nil, err
	}
	conta = &model.ContaFiado{ClienteID: clienteID, Nome: clienteID, Saldo: decimal.Zero}
	if nome != nil && *nome != "" {
		conta.Nome = *nome
	}
	return conta, nil
}

// ── Cancelar ──────────────────────────────────────────────────────────────────
// Till totals are never reversed: the ledger is append-only and the session
// may already be closed. Stock is put back only when the request asks for it.

func (s *vendaService) Cancelar(ctx context.Context, id uuid.UUID, req dto.CancelarVendaRequest) (*dto.VendaResponse, error) {
	var venda *model.Venda
	var estornado decimal.Decimal
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		venda, err = s.repo.BuscarPorID(ctx, id)
		if err != nil {
			return err
		}
		if err := venda.Cancelar(req.Motivo, req.Usuario, time.Now()); err != nil {
			return err
		}
		if err := s.repo.AtualizarCancelamento(ctx, venda); err != nil {
			return err
		}
		if req.RestaurarEstoque {
			if err := s.estoque.estornarVenda(ctx, venda, req.Usuario); err != nil {
				return err
			}
		}
		if s.politica != CancelamentoEstornarFiado {
			return nil
		}
		estornado, err = s.estornarFiado(ctx, venda)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("venda_id", id.String()).
		Str("usuario", req.Usuario).
		Str("politica", string(s.politica)).
		Bool("estoque_restaurado", req.RestaurarEstoque).
		Str("fiado_estornado", estornado.StringFixed(2)).
		Msg("venda cancelada")
	return vendaToResponse(venda), nil
}

func (s *vendaService) estornarFiado(ctx context.Context, v *model.Venda) (decimal.Decimal, error) {
	parte := v.ParteFiado()
	if !parte.IsPositive() || v.ClienteID == nil {
		return decimal.Zero, nil
	}
	conta, err := s.fiado.Buscar(ctx, *v.ClienteID)
	if errors.Is(err, apierror.ErrNaoEncontrado) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	valor := decimal.Min(parte, conta.Saldo)
	if !valor.IsPositive() {
		return decimal.Zero, nil
	}
	if err := conta.Diminuir(valor); err != nil {
		return decimal.Zero, err
	}
	return valor, s.fiado.Salvar(ctx, conta)
}

func (s *vendaService) Obter(ctx context.Context, id uuid.UUID) (*dto.VendaResponse, error) {
	venda, err := s.repo.BuscarPorID(ctx, id)
	if err != nil {
		return nil, err
	}
	return vendaToResponse(venda), nil
}

// Listar returns a page of sales for one day. Default filter: today's concluded sales.
func (s *vendaService) Listar(ctx context.Context, filter dto.VendaFilter) (*dto.VendaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	if filter.Status == "" {
		filter.Status = model.VendaConcluida
	}
	vendas, total, err := s.repo.Listar(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.VendaResponse, 0, len(vendas))
	for i := range vendas {
		data = append(data, *vendaToResponse(&vendas[i]))
	}
	return &dto.VendaListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}
