package service

import (
	"context"
	"errors"
	"fmt"

	"gasagua/internal/apierror"
	"gasagua/internal/dto"
	"gasagua/internal/model"
	"gasagua/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const avisoSemCaixa = "nenhum caixa aberto: o pagamento não entra no fechamento do caixa"

type FiadoService interface {
	Obter(ctx context.Context, clienteID string) (*dto.ContaFiadoResponse, error)
	ListarDevedores(ctx context.Context) ([]dto.ContaFiadoResponse, error)
	DefinirLimite(ctx context.Context, clienteID string, req dto.DefinirLimiteRequest) (*dto.ContaFiadoResponse, error)
	// Aumentar adds debt without touching the till. The limit only produces a warning.
	Aumentar(ctx context.Context, clienteID string, req dto.DebitoFiadoRequest) (*dto.OperacaoFiadoResponse, error)
	// Diminuir lowers the balance without touching the till.
	Diminuir(ctx context.Context, clienteID string, valor decimal.Decimal) (*dto.ContaFiadoResponse, error)
	// ReceberPagamento lowers the balance and posts a pagamento_fiado entry to
	// the open caixa. Without an open caixa the payment still goes through and
	// the response carries a warning.
	ReceberPagamento(ctx context.Context, clienteID string, req dto.PagamentoFiadoRequest) (*dto.OperacaoFiadoResponse, error)
}

type fiadoService struct {
	repo   repository.FiadoRepository
	caixas repository.CaixaRepository
	tx     repository.TxManager
}

func NewFiadoService(repo repository.FiadoRepository, caixas repository.CaixaRepository, tx repository.TxManager) FiadoService {
	return &fiadoService{repo: repo, caixas: caixas, tx: tx}
}

func (s *fiadoService) Obter(ctx context.Context, clienteID string) (*dto.ContaFiadoResponse, error) {
	conta, err := s.repo.Buscar(ctx, clienteID)
	if err != nil {
		return nil, err
	}
	resp := contaToResponse(conta)
	return &resp, nil
}

func (s *fiadoService) ListarDevedores(ctx context.Context) ([]dto.ContaFiadoResponse, error) {
	contas, err := s.repo.ListarDevedores(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ContaFiadoResponse, 0, len(contas))
	for i := range contas {
		resp = append(resp, contaToResponse(&contas[i]))
	}
	return resp, nil
}

func (s *fiadoService) DefinirLimite(ctx context.Context, clienteID string, req dto.DefinirLimiteRequest) (*dto.ContaFiadoResponse, error) {
	if req.Limite != nil && !model.ValorValido(*req.Limite) {
		return nil, apierror.ErrValorInvalido
	}
	var conta *model.ContaFiado
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		conta, err = s.buscarOuNova(ctx, clienteID, req.Nome)
		if err != nil {
			return err
		}
		conta.LimiteCredito = req.Limite
		return s.repo.Salvar(ctx, conta)
	})
	if err != nil {
		return nil, err
	}
	resp := contaToResponse(conta)
	return &resp, nil
}

func (s *fiadoService) Aumentar(ctx context.Context, clienteID string, req dto.DebitoFiadoRequest) (*dto.OperacaoFiadoResponse, error) {
	var conta *model.ContaFiado
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		conta, err = s.buscarOuNova(ctx, clienteID, req.Nome)
		if err != nil {
			return err
		}
		if err := conta.Aumentar(req.Valor); err != nil {
			return err
		}
		return s.repo.Salvar(ctx, conta)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("cliente_id", clienteID).
		Str("valor", req.Valor.StringFixed(2)).
		Str("usuario", req.Usuario).
		Msg("débito de fiado lançado")

	resp := &dto.OperacaoFiadoResponse{Conta: contaToResponse(conta)}
	if conta.ExcedeLimite() {
		aviso := fmt.Sprintf("saldo %s acima do limite de crédito %s",
			conta.Saldo.StringFixed(2), conta.LimiteCredito.StringFixed(2))
		log.Warn().Str("cliente_id", clienteID).Msg(aviso)
		resp.Aviso = &aviso
	}
	return resp, nil
}

func (s *fiadoService) Diminuir(ctx context.Context, clienteID string, valor decimal.Decimal) (*dto.ContaFiadoResponse, error) {
	var conta *model.ContaFiado
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		conta, err = s.repo.Buscar(ctx, clienteID)
		if err != nil {
			return err
		}
		if err := conta.Diminuir(valor); err != nil {
			return err
		}
		return s.repo.Salvar(ctx, conta)
	})
	if err != nil {
		return nil, err
	}
	resp := contaToResponse(conta)
	return &resp, nil
}

func (s *fiadoService) ReceberPagamento(ctx context.Context, clienteID string, req dto.PagamentoFiadoRequest) (*dto.OperacaoFiadoResponse, error) {
	forma := model.FormaPagamento(req.FormaPagamento)
	if !forma.Valida() || forma == model.Fiado {
		return nil, apierror.ErrFormaPagamentoInvalida
	}

	var (
		conta   *model.ContaFiado
		caixaID *string
	)
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		caixaID = nil
		var err error
		conta, err = s.repo.Buscar(ctx, clienteID)
		if err != nil {
			return err
		}
		if err := conta.Diminuir(req.Valor); err != nil {
			return err
		}
		if err := s.repo.Salvar(ctx, conta); err != nil {
			return err
		}

		caixa, err := s.caixas.BuscarAberto(ctx)
		if err != nil || caixa == nil {
			return err
		}
		mov, err := model.NovaMovimentacao(model.MovPagamentoFiado, req.Valor,
			fmt.Sprintf("Pagamento de fiado - %s (%s)", conta.Nome, forma), req.Usuario)
		if err != nil {
			return err
		}
		mov.FormaPagamento = &forma
		if err := atualizarCaixa(ctx, s.caixas, caixa, func(c *model.Caixa) error {
			return c.Lancar(mov)
		}); err != nil {
			return err
		}
		id := caixa.ID.String()
		caixaID = &id
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := &dto.OperacaoFiadoResponse{Conta: contaToResponse(conta), CaixaID: caixaID}
	evt := log.Info()
	if caixaID == nil {
		aviso := avisoSemCaixa
		resp.Aviso = &aviso
		evt = log.Warn()
	}
	evt.Str("cliente_id", clienteID).
		Str("valor", req.Valor.StringFixed(2)).
		Str("forma", string(forma)).
		Bool("lancado_no_caixa", caixaID != nil).
		Msg("pagamento de fiado recebido")
	return resp, nil
}

func (s *fiadoService) buscarOuNova(ctx context.Context, clienteID, nome string) (*model.ContaFiado, error) {
	conta, err := s.repo.Buscar(ctx, clienteID)
	if err == nil {
		if nome != "" {
			conta.Nome = nome
		}
		return conta, nil
	}
	if !errors.Is(err, apierror.ErrNaoEncontrado) {
		return nil, err
	}
	if nome == "" {
		nome = clienteID
	}
	return &model.ContaFiado{ClienteID: clienteID, Nome: nome, Saldo: decimal.Zero}, nil
}
