package repository

import (
	"context"
	"time"

	"gasagua/internal/apierror"
	"gasagua/internal/dto"
	"gasagua/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VendaRepository interface {
	Criar(ctx context.Context, v *model.Venda) error
	BuscarPorID(ctx context.Context, id uuid.UUID) (*model.Venda, error)
	// AtualizarCancelamento writes status and cancellation fields only.
	AtualizarCancelamento(ctx context.Context, v *model.Venda) error
	Listar(ctx context.Context, filter dto.VendaFilter) ([]model.Venda, int64, error)
	ListarPorPeriodo(ctx context.Context, inicio, fim time.Time) ([]model.Venda, error)
}

type vendaRepo struct{ db *gorm.DB }

func NewVendaRepository(db *gorm.DB) VendaRepository { return &vendaRepo{db: db} }

func comDetalhes(db *gorm.DB) *gorm.DB {
	return db.Preload("Itens").Preload("PagamentosParciais").Preload("DevolucoesEmbalagem")
}

func (r *vendaRepo) Criar(ctx context.Context, v *model.Venda) error {
	return traduzir(conn(ctx, r.db).Create(v).Error)
}

func (r *vendaRepo) BuscarPorID(ctx context.Context, id uuid.UUID) (*model.Venda, error) {
	var v model.Venda
	if err := comDetalhes(conn(ctx, r.db)).First(&v, "id = ?", id).Error; err != nil {
		return nil, traduzir(err)
	}
	return &v, nil
}

func (r *vendaRepo) AtualizarCancelamento(ctx context.Context, v *model.Venda) error {
	res := conn(ctx, r.db).Model(&model.Venda{}).
		Where("id = ? AND status = ?", v.ID, model.VendaConcluida).
		Updates(map[string]interface{}{
			"status":               v.Status,
			"data_cancelamento":    v.DataCancelamento,
			"motivo_cancelamento":  v.MotivoCancelamento,
			"usuario_cancelamento": v.UsuarioCancelamento,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apierror.ErrConflito
	}
	return nil
}

func (r *vendaRepo) Listar(ctx context.Context, filter dto.VendaFilter) ([]model.Venda, int64, error) {
	var vendas []model.Venda
	var total int64

	inicio, fim, err := IntervaloDia(filter.Data)
	if err != nil {
		return nil, 0, err
	}
	q := conn(ctx, r.db).Model(&model.Venda{}).Where("data >= ? AND data < ?", inicio, fim)
	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.ClienteID != "" {
		q = q.Where("cliente_id = ?", filter.ClienteID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err = comDetalhes(q).
		Order("data DESC").
		Offset((filter.Page - 1) * filter.Limit).Limit(filter.Limit).
		Find(&vendas).Error
	return vendas, total, err
}

func (r *vendaRepo) ListarPorPeriodo(ctx context.Context, inicio, fim time.Time) ([]model.Venda, error) {
	var vendas []model.Venda
	err := comDetalhes(conn(ctx, r.db)).
		Where("data >= ? AND data < ?", inicio, fim).
		Order("data ASC").
		Find(&vendas).Error
	return vendas, err
}
