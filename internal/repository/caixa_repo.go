package repository

import (
	"context"
	"errors"
	"time"

	"gasagua/internal/apierror"
	"gasagua/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CaixaRepository interface {
	// Criar inserts a new session with its entries. A second open session is
	// rejected with apierror.ErrCaixaJaAberto.
	Criar(ctx context.Context, c *model.Caixa) error
	// BuscarAberto returns nil, nil when no session is open.
	BuscarAberto(ctx context.Context) (*model.Caixa, error)
	BuscarPorID(ctx context.Context, id uuid.UUID) (*model.Caixa, error)
	// Salvar persists the session fields and appends novas. It fails with
	// apierror.ErrConflito when c.Versao is stale and bumps it otherwise.
	Salvar(ctx context.Context, c *model.Caixa, novas []model.MovimentacaoCaixa) error
	Listar(ctx context.Context, page, limit int) ([]model.Caixa, int64, error)
	// ListarPorPeriodo returns sessions opened in [inicio, fim), entries included.
	ListarPorPeriodo(ctx context.Context, inicio, fim time.Time) ([]model.Caixa, error)
}

type caixaRepo struct{ db *gorm.DB }

func NewCaixaRepository(db *gorm.DB) CaixaRepository { return &caixaRepo{db: db} }

func porSeq(db *gorm.DB) *gorm.DB { return db.Order("seq ASC") }

func (r *caixaRepo) Criar(ctx context.Context, c *model.Caixa) error {
	c.Versao = 1
	err := conn(ctx, r.db).Create(c).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// idx_caixas_unico_aberto
		return apierror.ErrCaixaJaAberto
	}
	return err
}

func (r *caixaRepo) BuscarAberto(ctx context.Context) (*model.Caixa, error) {
	var c model.Caixa
	err := conn(ctx, r.db).
		Preload("Movimentacoes", porSeq).
		Where("status = ?", model.CaixaAberto).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *caixaRepo) BuscarPorID(ctx context.Context, id uuid.UUID) (*model.Caixa, error) {
	var c model.Caixa
	err := conn(ctx, r.db).Preload("Movimentacoes", porSeq).First(&c, "id = ?", id).Error
	if err != nil {
		return nil, traduzir(err)
	}
	return &c, nil
}

func (r *caixaRepo) Salvar(ctx context.Context, c *model.Caixa, novas []model.MovimentacaoCaixa) error {
	db := conn(ctx, r.db)
	anterior := c.Versao
	c.Versao++

	res := db.Model(c).
		Where("versao = ?", anterior).
		Select("*").
		Omit(clause.Associations).
		Updates(c)
	if res.Error != nil {
		c.Versao = anterior
		return res.Error
	}
	if res.RowsAffected == 0 {
		c.Versao = anterior
		return apierror.ErrConflito
	}
	if len(novas) == 0 {
		return nil
	}
	return db.Create(&novas).Error
}

func (r *caixaRepo) Listar(ctx context.Context, page, limit int) ([]model.Caixa, int64, error) {
	var caixas []model.Caixa
	var total int64
	q := conn(ctx, r.db).Model(&model.Caixa{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("data_abertura DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&caixas).Error
	return caixas, total, err
}

func (r *caixaRepo) ListarPorPeriodo(ctx context.Context, inicio, fim time.Time) ([]model.Caixa, error) {
	var caixas []model.Caixa
	err := conn(ctx, r.db).
		Preload("Movimentacoes", porSeq).
		Where("data_abertura >= ? AND data_abertura < ?", inicio, fim).
		Order("data_abertura ASC").
		Find(&caixas).Error
	return caixas, err
}
