package service

import (
	"context"
	"errors"
	"time"

	"gasagua/internal/apierror"
	"gasagua/internal/dto"
	"gasagua/internal/model"
	"gasagua/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type CaixaService interface {
	Abrir(ctx context.Context, req dto.AbrirCaixaRequest) (*dto.CaixaResponse, error)
	Lancar(ctx context.Context, caixaID uuid.UUID, req dto.MovimentacaoRequest) (*dto.MovimentacaoResponse, error)
	Fechar(ctx context.Context, caixaID uuid.UUID, req dto.FecharCaixaRequest) (*dto.FechamentoResponse, error)
	Obter(ctx context.Context, id uuid.UUID) (*dto.CaixaResponse, error)
	// Aberto returns apierror.ErrSemCaixaAberto when no session is open.
	Aberto(ctx context.Context) (*dto.CaixaResponse, error)
	Historico(ctx context.Context, page, limit int) (*dto.CaixaListResponse, error)
}

type caixaService struct {
	repo   repository.CaixaRepository
	tx     repository.TxManager
	locker Locker
}

// NewCaixaService builds the till service. locker may be nil when a single
// process owns the database.
func NewCaixaService(repo repository.CaixaRepository, tx repository.TxManager, locker Locker) CaixaService {
	return &caixaService{repo: repo, tx: tx, locker: locker}
}

// ── Abrir ─────────────────────────────────────────────────────────────────────
// At most one open session system-wide: lock, then check the store, then the
// partial unique index as the last line.

func (s *caixaService) Abrir(ctx context.Context, req dto.AbrirCaixaRequest) (*dto.CaixaResponse, error) {
	if s.locker != nil {
		liberar, err := s.locker.Obter(ctx, chaveAberturaCaixa)
		if err != nil {
			return nil, err
		}
		defer liberar()
	}

	var caixa *model.Caixa
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		aberto, err := s.repo.BuscarAberto(ctx)
		if err != nil {
			return err
		}
		if aberto != nil {
			return apierror.ErrCaixaJaAberto
		}
		caixa, err = model.AbrirCaixa(req.Usuario, req.ValorAbertura, time.Now())
		if err != nil {
			return err
		}
		return s.repo.Criar(ctx, caixa)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("caixa_id", caixa.ID.String()).
		Str("usuario", req.Usuario).
		Str("valor_abertura", req.ValorAbertura.StringFixed(2)).
		Msg("caixa aberto")
	return caixaToResponse(caixa, true), nil
}

// ── Lancar ────────────────────────────────────────────────────────────────────
// Manual reforço / sangria. Entries are immutable; there is no update path.

func (s *caixaService) Lancar(ctx context.Context, caixaID uuid.UUID, req dto.MovimentacaoRequest) (*dto.MovimentacaoResponse, error) {
	mov, err := model.NovaMovimentacao(model.TipoMovimentacao(req.Tipo), req.Valor, req.Descricao, req.Usuario)
	if err != nil {
		return nil, err
	}

	var lancada model.MovimentacaoCaixa
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		caixa, err := s.repo.BuscarPorID(ctx, caixaID)
		if errors.Is(err, apierror.ErrNaoEncontrado) {
			return apierror.ErrCaixaNaoAberto
		}
		if err != nil {
			return err
		}
		return atualizarCaixa(ctx, s.repo, caixa, func(c *model.Caixa) error {
			if err := c.Lancar(mov); err != nil {
				return err
			}
			lancada = c.Movimentacoes[len(c.Movimentacoes)-1]
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("caixa_id", caixaID.String()).
		Str("tipo", req.Tipo).
		Str("valor", req.Valor.StringFixed(2)).
		Msg("movimentação lançada")
	resp := movimentacaoToResponse(lancada)
	return &resp, nil
}

// ── Fechar ────────────────────────────────────────────────────────────────────
// The difference is reported, never enforced.

func (s *caixaService) Fechar(ctx context.Context, caixaID uuid.UUID, req dto.FecharCaixaRequest) (*dto.FechamentoResponse, error) {
	var (
		esperado  decimal.Decimal
		diferenca decimal.Decimal
	)
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		caixa, err := s.repo.BuscarPorID(ctx, caixaID)
		if errors.Is(err, apierror.ErrNaoEncontrado) {
			return apierror.ErrCaixaNaoAberto
		}
		if err != nil {
			return err
		}
		return atualizarCaixa(ctx, s.repo, caixa, func(c *model.Caixa) error {
			esperado = c.SaldoEsperado()
			diferenca, err = c.Fechar(req.Usuario, req.ValorContado, req.Observacoes, time.Now())
			return err
		})
	})
	if err != nil {
		return nil, err
	}

	var pct decimal.Decimal
	if !esperado.IsZero() {
		pct = diferenca.Div(esperado).Mul(decimal.NewFromInt(100)).Round(2)
	}
	classificacao := classificarDesvio(pct)

	evt := log.Info()
	if classificacao == "critico" {
		evt = log.Warn()
	}
	evt.Str("caixa_id", caixaID.String()).
		Str("esperado", esperado.StringFixed(2)).
		Str("contado", req.ValorContado.StringFixed(2)).
		Str("classificacao", classificacao).
		Msg("caixa fechado")

	return &dto.FechamentoResponse{
		CaixaID:       caixaID.String(),
		SaldoEsperado: esperado,
		ValorContado:  req.ValorContado,
		Desvio: dto.DesvioResponse{
			Valor:         diferenca,
			Porcentagem:   pct,
			Classificacao: classificacao,
		},
		Status: model.CaixaFechado,
	}, nil
}

func (s *caixaService) Obter(ctx context.Context, id uuid.UUID) (*dto.CaixaResponse, error) {
	caixa, err := s.repo.BuscarPorID(ctx, id)
	if err != nil {
		return nil, err
	}
	return caixaToResponse(caixa, true), nil
}

func (s *caixaService) Aberto(ctx context.Context) (*dto.CaixaResponse, error) {
	caixa, err := s.repo.BuscarAberto(ctx)
	if err != nil {
		return nil, err
	}
	if caixa == nil {
		return nil, apierror.ErrSemCaixaAberto
	}
	return caixaToResponse(caixa, true), nil
}

func (s *caixaService) Historico(ctx context.Context, page, limit int) (*dto.CaixaListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	caixas, total, err := s.repo.Listar(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	data := make([]dto.CaixaResponse, 0, len(caixas))
	for i := range caixas {
		data = append(data, *caixaToResponse(&caixas[i], false))
	}
	return &dto.CaixaListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// atualizarCaixa applies fn to the session and persists the entries it appended.
// Must run inside a transaction.
func atualizarCaixa(ctx context.Context, repo repository.CaixaRepository, c *model.Caixa, fn func(c *model.Caixa) error) error {
	antes := len(c.Movimentacoes)
	if err := fn(c); err != nil {
		return err
	}
	return repo.Salvar(ctx, c, c.Movimentacoes[antes:])
}

// classificarDesvio returns "normal" | "advertencia" | "critico"
// normal: |desvio| <= 1%, advertencia: <= 5%, critico: > 5%
func classificarDesvio(pct decimal.Decimal) string {
	abs := pct.Abs()
	switch {
	case abs.LessThanOrEqual(decimal.NewFromInt(1)):
		return "normal"
	case abs.LessThanOrEqual(decimal.NewFromInt(5)):
		return "advertencia"
	default:
		return "critico"
	}
}
