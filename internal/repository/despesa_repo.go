package repository

import (
	"context"
	"time"

	"gasagua/internal/apierror"
	"gasagua/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DespesaRepository interface {
	Criar(ctx context.Context, d *model.Despesa) error
	Excluir(ctx context.Context, id uuid.UUID) error
	ListarPorPeriodo(ctx context.Context, inicio, fim time.Time) ([]model.Despesa, error)
}

type despesaRepo struct{ db *gorm.DB }

func NewDespesaRepository(db *gorm.DB) DespesaRepository { return &despesaRepo{db: db} }

func (r *despesaRepo) Criar(ctx context.Context, d *model.Despesa) error {
	return conn(ctx, r.db).Create(d).Error
}

func (r *despesaRepo) Excluir(ctx context.Context, id uuid.UUID) error {
	res := conn(ctx, r.db).Delete(&model.Despesa{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apierror.ErrNaoEncontrado
	}
	return nil
}

func (r *despesaRepo) ListarPorPeriodo(ctx context.Context, inicio, fim time.Time) ([]model.Despesa, error) {
	var despesas []model.Despesa
	err := conn(ctx, r.db).
		Where("data >= ? AND data < ?", inicio, fim).
		Order("data ASC").
		Find(&despesas).Error
	return despesas, err
}
