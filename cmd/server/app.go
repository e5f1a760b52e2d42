package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gasagua/internal/config"
	"gasagua/internal/handler"
	"gasagua/internal/infra"
	"gasagua/internal/middleware"
	"gasagua/internal/repository"
	"gasagua/internal/repository/memoria"
	"gasagua/internal/router"
	"gasagua/internal/service"
	"gasagua/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// aplicacao is the composition root: storage, locks, job queue, workers and
// the HTTP engine, all built from one Config.
type aplicacao struct {
	engine  *gin.Engine
	db      *gorm.DB
	rdb     *redis.Client
	workers *sync.WaitGroup
}

type repositorios struct {
	caixas   repository.CaixaRepository
	vendas   repository.VendaRepository
	fiado    repository.FiadoRepository
	despesas repository.DespesaRepository
	estoque  repository.EstoqueRepository
	tx       repository.TxManager
}

// montar wires every dependency. Workers and the rate-limit purge loop stop
// when ctx is cancelled.
func montar(ctx context.Context, cfg *config.Config) (*aplicacao, error) {
	app := &aplicacao{}

	// ── Storage ──────────────────────────────────────────────────────────────
	var repos repositorios
	switch cfg.StorageDriver {
	case config.StorageMemoria:
		store := memoria.New()
		repos = repositorios{store.Caixas(), store.Vendas(), store.Fiado(), store.Despesas(), store.Estoque(), store}
		log.Warn().Msg("armazenamento em memória: os dados se perdem ao reiniciar")
	default:
		db, err := infra.NewDatabase(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		app.db = db
		repos = repositorios{
			caixas:   repository.NewCaixaRepository(db),
			vendas:   repository.NewVendaRepository(db),
			fiado:    repository.NewFiadoRepository(db),
			despesas: repository.NewDespesaRepository(db),
			estoque:  repository.NewEstoqueRepository(db),
			tx:       repository.NewTxManager(db),
		}
	}

	// ── Locks and job queue ──────────────────────────────────────────────────
	var (
		locker service.Locker
		fila   worker.Fila
	)
	if cfg.RedisURL != "" {
		rdb, err := infra.NewRedis(cfg.RedisURL)
		if err != nil {
			app.Fechar()
			return nil, fmt.Errorf("redis: %w", err)
		}
		app.rdb = rdb
		locker = infra.NewRedisLocker(rdb, cfg.LockTTL())
		fila = worker.NewRedisFila(rdb)
	} else {
		log.Warn().Msg("REDIS_URL vazio: travas e fila de jobs ficam neste processo")
		locker = infra.NewLocalLocker()
		fila = worker.NewMemoriaFila()
	}
	dispatcher := worker.NewDispatcher(fila)

	// ── Workers ──────────────────────────────────────────────────────────────
	cabecalho := infra.Cabecalho{NomeEmpresa: cfg.NomeEmpresa, Mensagem: cfg.MensagemRecibo}
	handlers := map[string]worker.Handler{}
	var smtpCB *infra.CircuitBreaker

	mailer := infra.NewMailer(cfg)
	if mailer.Configurado() {
		smtpCB = infra.NewCircuitBreaker(infra.SMTPBreakerConfig())
		emailWorker := worker.NewEmailWorker(mailer, smtpCB)
		handlers[worker.TipoEmail] = emailWorker.Process
		handlers[worker.TipoRecibo] = worker.NewReciboWorker(repos.vendas, dispatcher, cabecalho, cfg.ReciboStoragePath).Process
	} else {
		log.Info().Msg("SMTP não configurado: recibos só são gravados em disco")
		handlers[worker.TipoRecibo] = worker.NewReciboWorker(repos.vendas, nil, cabecalho, cfg.ReciboStoragePath).Process
	}
	app.workers = worker.StartWorkerPool(ctx, fila, cfg.WorkerPoolSize, handlers)
	worker.StartRetryCron(ctx, worker.RetryCronConfig{Fila: fila, SMTPBreaker: smtpCB})

	// ── Services ─────────────────────────────────────────────────────────────
	vendas := service.NewVendaService(repos.vendas, service.VendaDeps{
		Caixas:              repos.caixas,
		Fiado:               repos.fiado,
		Estoque:             repos.estoque,
		EstoqueMinimoPadrao: cfg.EstoqueMinimoPadrao,
		Tx:                  repos.tx,
		Dispatcher:          dispatcher,
		Politica:            service.PoliticaCancelamento(cfg.PoliticaCancelamento),
	})
	svc := router.Servicos{
		Caixa:      service.NewCaixaService(repos.caixas, repos.tx, locker),
		Vendas:     vendas,
		Fiado:      service.NewFiadoService(repos.fiado, repos.caixas, repos.tx),
		Despesas:   service.NewDespesaService(repos.despesas, repos.caixas, repos.tx),
		Estoque:    service.NewEstoqueService(repos.estoque, repos.tx, cfg.EstoqueMinimoPadrao),
		Relatorios: service.NewRelatorioService(repos.vendas, repos.despesas, repos.caixas),
	}

	limiter := middleware.NewIPRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.RunPurge(ctx, time.Minute)

	app.engine = router.New(cfg, svc, handler.Health(app.db, app.rdb), limiter)
	return app, nil
}

// Fechar releases connections. Call it after the workers have stopped.
func (a *aplicacao) Fechar() {
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
