package repository

import (
	"context"

	"gasagua/internal/apierror"
	"gasagua/internal/dto"
	"gasagua/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EstoqueRepository interface {
	// Buscar returns ErrNaoEncontrado for products without a stock record.
	// Inside a transaction the row stays locked until commit.
	Buscar(ctx context.Context, produtoID string) (*model.EstoqueProduto, error)
	// Salvar inserts when e.Versao is 0, otherwise updates with a version check.
	Salvar(ctx context.Context, e *model.EstoqueProduto) error
	Listar(ctx context.Context) ([]model.EstoqueProduto, error)
	// ListarBaixo returns products whose full count is at or below the minimum.
	ListarBaixo(ctx context.Context) ([]model.EstoqueProduto, error)
	RegistrarMovimentacoes(ctx context.Context, movs []model.MovimentacaoEstoque) error
	ListarMovimentacoes(ctx context.Context, filter dto.MovimentacaoEstoqueFilter) ([]model.MovimentacaoEstoque, int64, error)
}

type estoqueRepo struct{ db *gorm.DB }

func NewEstoqueRepository(db *gorm.DB) EstoqueRepository { return &estoqueRepo{db: db} }

func (r *estoqueRepo) Buscar(ctx context.Context, produtoID string) (*model.EstoqueProduto, error) {
	q := conn(ctx, r.db)
	if emTx(ctx) {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var e model.EstoqueProduto
	if err := q.First(&e, "produto_id = ?", produtoID).Error; err != nil {
		return nil, traduzir(err)
	}
	return &e, nil
}

func (r *estoqueRepo) Salvar(ctx context.Context, e *model.EstoqueProduto) error {
	db := conn(ctx, r.db)
	anterior := e.Versao
	e.Versao++

	if anterior == 0 {
		if err := db.Create(e).Error; err != nil {
			e.Versao = anterior
			return traduzir(err)
		}
		return nil
	}

	res := db.Model(e).Where("versao = ?", anterior).Select("*").Updates(e)
	if res.Error != nil {
		e.Versao = anterior
		return res.Error
	}
	if res.RowsAffected == 0 {
		e.Versao = anterior
		return apierror.ErrConflito
	}
	return nil
}

func (r *estoqueRepo) Listar(ctx context.Context) ([]model.EstoqueProduto, error) {
	var estoques []model.EstoqueProduto
	err := conn(ctx, r.db).Order("produto_nome ASC").Find(&estoques).Error
	return estoques, err
}

func (r *estoqueRepo) ListarBaixo(ctx context.Context) ([]model.EstoqueProduto, error) {
	var estoques []model.EstoqueProduto
	err := conn(ctx, r.db).
		Where("cheio <= minimo").
		Order("cheio ASC, produto_nome ASC").
		Find(&estoques).Error
	return estoques, err
}

func (r *estoqueRepo) RegistrarMovimentacoes(ctx context.Context, movs []model.MovimentacaoEstoque) error {
	if len(movs) == 0 {
		return nil
	}
	return conn(ctx, r.db).Create(&movs).Error
}

func (r *estoqueRepo) ListarMovimentacoes(ctx context.Context, filter dto.MovimentacaoEstoqueFilter) ([]model.MovimentacaoEstoque, int64, error) {
	q := conn(ctx, r.db).Model(&model.MovimentacaoEstoque{})
	if filter.ProdutoID != "" {
		q = q.Where("produto_id = ?", filter.ProdutoID)
	}
	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
	}
	if filter.Data != "" {
		inicio, fim, err := IntervaloDia(filter.Data)
		if err != nil {
			return nil, 0, err
		}
		q = q.Where("data >= ? AND data < ?", inicio, fim)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var movs []model.MovimentacaoEstoque
	err := q.Order("data DESC").
		Offset((filter.Page - 1) * filter.Limit).Limit(filter.Limit).
		Find(&movs).Error
	return movs, total, err
}
