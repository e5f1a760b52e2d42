package infra

import (
	"fmt"

	"gasagua/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the Postgres connection, runs AutoMigrate for every table
// and then applies the idempotent SQL patches GORM cannot express.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates or updates the schema. Integration tests call it
// directly against a throwaway container.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Caixa{},
		&model.MovimentacaoCaixa{},
		&model.Venda{},
		&model.ItemVenda{},
		&model.PagamentoParcial{},
		&model.DevolucaoEmbalagem{},
		&model.ContaFiado{},
		&model.Despesa{},
		&model.EstoqueProduto{},
		&model.MovimentacaoEstoque{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs DDL that AutoMigrate cannot express. Every statement
// is guarded so re-running on a patched database is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// At most one open caixa at any time.
		{"idx_caixas_unico_aberto", `
CREATE UNIQUE INDEX IF NOT EXISTS idx_caixas_unico_aberto
    ON caixas (status)
    WHERE status = 'aberto'`},
		{"ck_movimentacoes_valor", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'ck_movimentacoes_valor_nao_negativo') THEN
    ALTER TABLE movimentacoes_caixa
      ADD CONSTRAINT ck_movimentacoes_valor_nao_negativo CHECK (valor >= 0);
  END IF;
END $$`},
		{"ck_contas_fiado_saldo", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'ck_contas_fiado_saldo_nao_negativo') THEN
    ALTER TABLE contas_fiado
      ADD CONSTRAINT ck_contas_fiado_saldo_nao_negativo CHECK (saldo >= 0);
  END IF;
END $$`},
		{"ck_estoques_nao_negativo", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'ck_estoques_nao_negativo') THEN
    ALTER TABLE estoques
      ADD CONSTRAINT ck_estoques_nao_negativo CHECK (cheio >= 0 AND vazio >= 0 AND minimo >= 0);
  END IF;
END $$`},
		{"idx_movimentacoes_caixa_seq", `
CREATE UNIQUE INDEX IF NOT EXISTS idx_movimentacoes_caixa_seq
    ON movimentacoes_caixa (caixa_id, seq)`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
