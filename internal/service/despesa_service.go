package service

import (
	"context"
	"time"

	"gasagua/internal/apierror"
	"gasagua/internal/dto"
	"gasagua/internal/model"
	"gasagua/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type DespesaService interface {
	// Registrar stores the expense and, when a caixa is open, posts a
	// "despesa" entry to it.
	Registrar(ctx context.Context, req dto.RegistrarDespesaRequest) (*dto.DespesaResponse, error)
	Listar(ctx context.Context, filter dto.DespesaFilter) (*dto.DespesaListResponse, error)
	// Excluir removes the expense record only; a posted ledger entry stays.
	Excluir(ctx context.Context, id uuid.UUID) error
}

type despesaService struct {
	repo   repository.DespesaRepository
	caixas repository.CaixaRepository
	tx     repository.TxManager
}

func NewDespesaService(repo repository.DespesaRepository, caixas repository.CaixaRepository, tx repository.TxManager) DespesaService {
	return &despesaService{repo: repo, caixas: caixas, tx: tx}
}

func (s *despesaService) Registrar(ctx context.Context, req dto.RegistrarDespesaRequest) (*dto.DespesaResponse, error) {
	if !req.Valor.IsPositive() || !model.ValorValido(req.Valor) {
		return nil, apierror.ErrValorInvalido
	}
	categoria := req.Categoria
	if categoria == "" {
		categoria = model.CategoriasDespesa[0]
	}

	despesa := &model.Despesa{
		ID:        uuid.New(),
		Data:      time.Now(),
		Valor:     req.Valor,
		Motivo:    req.Motivo,
		Descricao: req.Descricao,
		Categoria: categoria,
		Usuario:   req.Usuario,
	}
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		despesa.CaixaID = nil
		caixa, err := s.caixas.BuscarAberto(ctx)
		if err != nil {
			return err
		}
		if caixa != nil {
			mov, err := model.NovaMovimentacao(model.MovDespesa, req.Valor, "Despesa: "+req.Motivo, req.Usuario)
			if err != nil {
				return err
			}
			ref := despesa.ID
			mov.ReferenciaID = &ref
			if err := atualizarCaixa(ctx, s.caixas, caixa, func(c *model.Caixa) error {
				return c.Lancar(mov)
			}); err != nil {
				return err
			}
			despesa.CaixaID = &caixa.ID
		}
		return s.repo.Criar(ctx, despesa)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("despesa_id", despesa.ID.String()).
		Str("categoria", categoria).
		Str("valor", req.Valor.StringFixed(2)).
		Bool("lancada_no_caixa", despesa.CaixaID != nil).
		Msg("despesa registrada")
	resp := despesaToResponse(despesa)
	return &resp, nil
}

func (s *despesaService) Listar(ctx context.Context, filter dto.DespesaFilter) (*dto.DespesaListResponse, error) {
	inicio, _, err := repository.IntervaloDia(filter.DataInicio)
	if err != nil {
		return nil, err
	}
	fimData := filter.DataFim
	if fimData == "" {
		fimData = inicio.Format("2006-01-02")
	}
	_, fim, err := repository.IntervaloDia(fimData)
	if err != nil {
		return nil, err
	}

	despesas, err := s.repo.ListarPorPeriodo(ctx, inicio, fim)
	if err != nil {
		return nil, err
	}
	resp := &dto.DespesaListResponse{Data: make([]dto.DespesaResponse, 0, len(despesas)), Total: decimal.Zero}
	for i := range despesas {
		resp.Data = append(resp.Data, despesaToResponse(&despesas[i]))
		resp.Total = resp.Total.Add(despesas[i].Valor)
	}
	return resp, nil
}

func (s *despesaService) Excluir(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Excluir(ctx, id); err != nil {
		return err
	}
	log.Info().Str("despesa_id", id.String()).Msg("despesa excluída")
	return nil
}
