package repository

import (
	"context"

	"gasagua/internal/apierror"
	"gasagua/internal/model"

	"gorm.io/gorm"
)

type FiadoRepository interface {
	Buscar(ctx context.Context, clienteID string) (*model.ContaFiado, error)
	// Salvar inserts when c.Versao is 0, otherwise updates with a version check.
	Salvar(ctx context.Context, c *model.ContaFiado) error
	// ListarDevedores returns accounts with a positive balance, largest first.
	ListarDevedores(ctx context.Context) ([]model.ContaFiado, error)
}

type fiadoRepo struct{ db *gorm.DB }

func NewFiadoRepository(db *gorm.DB) FiadoRepository { return &fiadoRepo{db: db} }

func (r *fiadoRepo) Buscar(ctx context.Context, clienteID string) (*model.ContaFiado, error) {
	var c model.ContaFiado
	if err := conn(ctx, r.db).First(&c, "cliente_id = ?", clienteID).Error; err != nil {
		return nil, traduzir(err)
	}
	return &c, nil
}

func (r *fiadoRepo) Salvar(ctx context.Context, c *model.ContaFiado) error {
	db := conn(ctx, r.db)
	anterior := c.Versao
	c.Versao++

	if anterior == 0 {
		if err := db.Create(c).Error; err != nil {
			c.Versao = anterior
			return traduzir(err)
		}
		return nil
	}

	res := db.Model(c).Where("versao = ?", anterior).Select("*").Updates(c)
	if res.Error != nil {
		c.Versao = anterior
		return res.Error
	}
	if res.RowsAffected == 0 {
		c.Versao = anterior
		return apierror.ErrConflito
	}
	return nil
}

func (r *fiadoRepo) ListarDevedores(ctx context.Context) ([]model.ContaFiado, error) {
	var contas []model.ContaFiado
	err := conn(ctx, r.db).Where("saldo > 0").Order("saldo DESC").Find(&contas).Error
	return contas, err
}
