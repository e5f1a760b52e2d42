package router

import (
	"gasagua/internal/config"
	"gasagua/internal/handler"
	"gasagua/internal/middleware"
	"gasagua/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
)

// Servicos is the set of services the HTTP layer needs. The composition
// root (cmd/server) builds them against Postgres or the in-memory store.
type Servicos struct {
	Caixa      service.CaixaService
	Vendas     service.VendaService
	Fiado      service.FiadoService
	Despesas   service.DespesaService
	Estoque    service.EstoqueService
	Relatorios service.RelatorioService
}

// New returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/memória
func New(cfg *config.Config, svc Servicos, health gin.HandlerFunc, limiter *middleware.IPRateLimiter) *gin.Engine {
	if cfg.Producao() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	if limiter != nil {
		r.Use(limiter.Middleware())
	}

	// ── Handlers ─────────────────────────────────────────────────────────────
	caixaH := handler.NewCaixaHandler(svc.Caixa)
	vendasH := handler.NewVendasHandler(svc.Vendas)
	fiadoH := handler.NewFiadoHandler(svc.Fiado)
	despesasH := handler.NewDespesasHandler(svc.Despesas)
	estoqueH := handler.NewEstoqueHandler(svc.Estoque)
	relatoriosH := handler.NewRelatoriosHandler(svc.Relatorios)

	// ── Routes ───────────────────────────────────────────────────────────────
	if health != nil {
		r.GET("/health", health)
	}

	v1 := r.Group("/v1")
	{
		caixa := v1.Group("/caixa")
		{
			caixa.POST("/abrir", caixaH.Abrir)
			caixa.GET("/aberto", caixaH.Aberto)
			caixa.GET("/historico", caixaH.Historico)
			caixa.GET("/:id", caixaH.Obter)
			caixa.POST("/:id/movimentacoes", caixaH.Lancar)
			caixa.POST("/:id/fechar", caixaH.Fechar)
		}

		vendas := v1.Group("/vendas")
		{
			vendas.POST("", vendasH.Registrar)
			vendas.GET("", vendasH.Listar)
			vendas.GET("/:id", vendasH.Obter)
			vendas.POST("/:id/cancelar", vendasH.Cancelar)
		}

		fiado := v1.Group("/fiado")
		{
			fiado.GET("", fiadoH.ListarDevedores)
			fiado.GET("/:cliente_id", fiadoH.Obter)
			fiado.PUT("/:cliente_id/limite", fiadoH.DefinirLimite)
			fiado.POST("/:cliente_id/debito", fiadoH.Debito)
			fiado.POST("/:cliente_id/pagamento", fiadoH.Pagamento)
			fiado.POST("/:cliente_id/abatimento", fiadoH.Abatimento)
		}

		despesas := v1.Group("/despesas")
		{
			despesas.POST("", despesasH.Registrar)
			despesas.GET("", despesasH.Listar)
			despesas.DELETE("/:id", despesasH.Excluir)
		}

		estoque := v1.Group("/estoque")
		{
			estoque.GET("", estoqueH.Listar)
			estoque.GET("/alertas", estoqueH.Alertas)
			estoque.GET("/movimentacoes", estoqueH.ListarMovimentacoes)
			estoque.GET("/:produto_id", estoqueH.Obter)
			estoque.PUT("/:produto_id", estoqueH.Definir)
			estoque.POST("/:produto_id/movimentacoes", estoqueH.Movimentar)
		}

		relatorios := v1.Group("/relatorios")
		{
			relatorios.GET("/diario", relatoriosH.Diario)
			relatorios.GET("/diario/xlsx", relatoriosH.DiarioXLSX)
		}
	}

	// Swagger UI, only outside production
	if !cfg.Producao() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
