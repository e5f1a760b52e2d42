//go:build integration

package main

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./cmd/server/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"gasagua/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body any) *http.Response {
	t.Helper()
	var buf *bytes.Buffer
	if body != nil {
		buf = jsonBody(t, body)
	} else {
		buf = &bytes.Buffer{}
	}
	req, err := http.NewRequest(method, srv.URL+path, buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server    *httptest.Server
	recibosEm string
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.Run(ctx, "postgres:15-alpine",
		tcPostgres.WithDatabase("gasagua_test"),
		tcPostgres.WithUsername("gasagua"),
		tcPostgres.WithPassword("gasagua"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:                 8000,
		Env:                  "test",
		WorkerPoolSize:       1,
		StorageDriver:        config.StoragePostgres,
		DatabaseURL:          pgURL,
		RedisURL:             rdURL,
		LockTTLSeconds:       5,
		RateLimitRPS:         1000,
		RateLimitBurst:       1000,
		PoliticaCancelamento: "estornar_fiado",
		NomeEmpresa:          "Gás & Água Teste",
		ReciboStoragePath:    t.TempDir(),
	}

	appCtx, cancel := context.WithCancel(ctx)
	app, err := montar(appCtx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		cancel()
		app.workers.Wait()
		app.Fechar()
	})

	srv := httptest.NewServer(app.engine)
	t.Cleanup(srv.Close)
	return &testEnv{server: srv, recibosEm: cfg.ReciboStoragePath}
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_CicloCompleto(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, http.MethodGet, "/health", nil)
	var health map[string]any
	decodeJSON(t, resp, &health)
	assert.Equal(t, "connected", health["db"])
	assert.Equal(t, "connected", health["redis"])

	resp = do(t, env.server, http.MethodPost, "/v1/caixa/abrir", map[string]any{"usuario": "maria", "valor_abertura": "100"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var caixa struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &caixa)

	// split 50 dinheiro + 95 fiado
	resp = do(t, env.server, http.MethodPost, "/v1/vendas", map[string]any{
		"cliente_id":   "c-ana",
		"cliente_nome": "Ana",
		"itens": []map[string]any{
			{"produto_id": "gas-p13", "produto_nome": "Gás P13", "quantidade": 1, "preco_unitario": "125"},
			{"produto_id": "agua-20", "produto_nome": "Água 20L", "quantidade": 1, "preco_unitario": "20"},
		},
		"forma_pagamento": "dinheiro",
		"pagamentos_parciais": []map[string]any{
			{"forma": "dinheiro", "valor": "50"},
			{"forma": "fiado", "valor": "95"},
		},
		"usuario": "maria",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var venda struct {
		ID         string `json:"id"`
		Codigo     string `json:"codigo"`
		ValorTotal string `json:"valor_total"`
	}
	decodeJSON(t, resp, &venda)
	assert.Equal(t, "145", venda.ValorTotal)

	// both products are first seen in this sale
	resp = do(t, env.server, http.MethodGet, "/v1/estoque/movimentacoes?tipo=venda", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var movs struct {
		Total int64 `json:"total"`
		Data  []struct {
			VendaID *string `json:"venda_id"`
		} `json:"data"`
	}
	decodeJSON(t, resp, &movs)
	require.EqualValues(t, 2, movs.Total)
	assert.Equal(t, venda.ID, *movs.Data[0].VendaID)

	resp = do(t, env.server, http.MethodGet, "/v1/estoque/alertas", nil)
	var alertas []map[string]any
	decodeJSON(t, resp, &alertas)
	assert.Len(t, alertas, 2)

	// the receipt worker picks the job from Redis and writes the PDF
	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(env.recibosEm, "recibo_"+venda.Codigo+".pdf"))
		return err == nil
	}, 10*time.Second, 100*time.Millisecond)

	resp = do(t, env.server, http.MethodGet, "/v1/fiado/c-ana", nil)
	var conta struct {
		Saldo string `json:"saldo"`
	}
	decodeJSON(t, resp, &conta)
	assert.Equal(t, "95", conta.Saldo)

	resp = do(t, env.server, http.MethodPost, "/v1/fiado/c-ana/pagamento",
		map[string]any{"valor": "95", "forma_pagamento": "dinheiro", "usuario": "maria"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, env.server, http.MethodPost, "/v1/fiado/c-ana/pagamento",
		map[string]any{"valor": "1", "forma_pagamento": "dinheiro", "usuario": "maria"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, env.server, http.MethodGet, "/v1/caixa/"+caixa.ID, nil)
	var atual struct {
		SaldoEsperado string `json:"saldo_esperado"`
		Totais        struct {
			Vendas string `json:"vendas"`
			Fiado  string `json:"fiado"`
		} `json:"totais"`
		Movimentacoes []struct {
			Seq int `json:"seq"`
		} `json:"movimentacoes"`
	}
	decodeJSON(t, resp, &atual)
	assert.Equal(t, "145", atual.Totais.Vendas)
	assert.Equal(t, "95", atual.Totais.Fiado)
	// 100 + 50 dinheiro + 95 pagamento
	assert.Equal(t, "245", atual.SaldoEsperado)
	require.Len(t, atual.Movimentacoes, 3)

	resp = do(t, env.server, http.MethodPost, "/v1/caixa/"+caixa.ID+"/fechar",
		map[string]any{"usuario": "maria", "valor_contado": "240"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var fechamento struct {
		Desvio struct {
			Valor string `json:"valor"`
		} `json:"desvio"`
	}
	decodeJSON(t, resp, &fechamento)
	assert.Equal(t, "-5", fechamento.Desvio.Valor)

	resp = do(t, env.server, http.MethodGet, "/v1/relatorios/diario/xlsx", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestE2E_AberturaConcorrente(t *testing.T) {
	env := setupTestEnv(t)

	const n = 8
	status := make([]int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp := do(t, env.server, http.MethodPost, "/v1/caixa/abrir", map[string]any{"usuario": "maria", "valor_abertura": "10"})
			status[i] = resp.StatusCode
			resp.Body.Close()
		}(i)
	}
	wg.Wait()

	criados := 0
	for _, s := range status {
		if s == http.StatusCreated {
			criados++
		} else {
			assert.Equal(t, http.StatusConflict, s)
		}
	}
	assert.Equal(t, 1, criados)
}
