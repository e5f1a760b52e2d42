package service

import (
	"context"
	"sync"
	"testing"

	"gasagua/internal/apierror"
	"gasagua/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAbrirCaixa(t *testing.T) {
	a := novoAmbiente(t, CancelamentoNenhum)

	resp := a.abrir(t, "50.00")

	assert.Equal(t, "aberto", resp.Status)
	assert.Equal(t, "maria", resp.UsuarioAbertura)
	assert.True(t, resp.ValorAbertura.Equal(d("50")))
	require.Len(t, resp.Movimentacoes, 1)
	assert.Equal(t, "abertura", resp.Movimentacoes[0].Tipo)
}

func TestAbrirCaixaDuplicado(t *testing.T) {
	a := novoAmbiente(t, CancelamentoNenhum)
	a.abrir(t, "50")

	_, err := a.caixa.Abrir(context.Background(), dto.AbrirCaixaRequest{Usuario: "joao", ValorAbertura: d("10")})
	assert.ErrorIs(t, err, apierror.ErrCaixaJaAberto)
}

func TestAbrirCaixaValorNegativo(t *testing.T) {
	a := novoAmbiente(t, CancelamentoNenhum)

	_, err := a.caixa.Abrir(context.Background(), dto.AbrirCaixaRequest{Usuario: "maria", ValorAbertura: d("-5")})
	assert.ErrorIs(t, err, apierror.ErrValorInvalido)

	_, err = a.caixa.Aberto(context.Background())
	assert.ErrorIs(t, err, apierror.ErrSemCaixaAberto)
}

// Concurrent opens never leave more than one session open.
func TestAbrirCaixaConcorrente(t *testing.T) {
	a := novoAmbiente(t, CancelamentoNenhum)
	const n = 16

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		sucessos int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := a.caixa.Abrir(context.Background(), dto.AbrirCaixaRequest{Usuario: "maria", ValorAbertura: d("1")})
			if err == nil {
				mu.Lock()
				sucessos++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, apierror.ErrCaixaJaAberto)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, sucessos)

	hist, err := a.caixa.Historico(context.Background(), 1, 50)
	require.NoError(t, err)
	assert.EqualValues(t, 1, hist.Total)
}

func TestAbrirFecharAbrir(t *testing.T) {
	a := novoAmbiente(t, CancelamentoNenhum)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		c := a.abrir(t, "10")
		id := uuid.MustParse(c.ID)
		_, err := a.caixa.Fechar(ctx, id, dto.FecharCaixaRequest{Usuario: "maria", ValorContado: d("10")})
		require.NoError(t, err)
	}

	hist, err := a.caixa.Historico(ctx, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, hist.Total)
	for _, c := range hist.Data {
		assert.Equal(t, "fechado", c.Status)
	}
}

func TestLancarReforcoESangria(t *testing.T) {
	a := novoAmbiente(t, CancelamentoNenhum)
	c := a.abrir(t, "100")
	id := uuid.MustParse(c.ID)
	ctx := context.Background()

	mov, err := a.caixa.Lancar(ctx, id, dto.MovimentacaoRequest{Tipo: "reforco", Valor: d("30"), Descricao: "troco extra", Usuario: "maria"})
	require.NoError(t, err)
	assert.Equal(t, 2, mov.Seq)

	_, err = a.caixa.Lancar(ctx, id, dto.MovimentacaoRequest{Tipo: "sangria", Valor: d("80"), Descricao: "depósito", Usuario: "maria"})
	require.NoError(t, err)

	atual, err := a.caixa.Obter(ctx, id)
	require.NoError(t, err)
	assert.True(t, atual.Totais.Reforcos.Equal(d("30")))
	assert.True(t, atual.Totais.Sangrias.Equal(d("80")))
	assert.True(t, atual.SaldoEsperado.Equal(d("50")), atual.SaldoEsperado.String())
	assert.Len(t, atual.Movimentacoes, 3)
}

func TestLancarRejeitaFracaoDeCentavo(t *testing.T) {
	a := novoAmbiente(t, CancelamentoNenhum)
	c := a.abrir(t, "0")
	id := uuid.MustParse(c.ID)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := a.caixa.Lancar(ctx, id, dto.MovimentacaoRequest{Tipo: "reforco", Valor: d("0.005"), Descricao: "moedas", Usuario: "maria"})
		assert.ErrorIs(t, err, apierror.ErrValorInvalido)
	}

	atual, err := a.caixa.Obter(ctx, id)
	require.NoError(t, err)
	assert.True(t, atual.Totais.Reforcos.IsZero(), atual.Totais.Reforcos.String())
	assert.Len(t, atual.Movimentacoes, 1)

	_, err = a.caixa.Fechar(ctx, id, dto.FecharCaixaRequest{Usuario: "maria", ValorContado: d("10.001")})
	assert.ErrorIs(t, err, apierror.ErrValorInvalido)
}

func TestLancarCaixaInexistenteOuFechado(t *testing.T) {
	a := novoAmbiente(t, CancelamentoNenhum)
	ctx := context.Background()
	req := dto.MovimentacaoRequest{Tipo: "reforco", Valor: d("1"), Descricao: "x", Usuario: "maria"}

	_, err := a.caixa.Lancar(ctx, uuid.New(), req)
	assert.ErrorIs(t, err, apierror.ErrCaixaNaoAberto)

	c := a.abrir(t, "0")
	id := uuid.MustParse(c.ID)
	_, err = a.caixa.Fechar(ctx, id, dto.FecharCaixaRequest{Usuario: "maria", ValorContado: d("0")})
	require.NoError(t, err)

	_, err = a.caixa.Lancar(ctx, id, req)
	assert.ErrorIs(t, err, apierror.ErrCaixaNaoAberto)

	fechado, err := a.caixa.Obter(ctx, id)
	require.NoError(t, err)
	assert.Len(t, fechado.Movimentacoes, 2)
}

func TestFecharComDiferencaNaoBloqueia(t *testing.T) {
	a := novoAmbiente(t, CancelamentoNenhum)
	c := a.abrir(t, "100")
	id := uuid.MustParse(c.ID)

	resp, err := a.caixa.Fechar(context.Background(), id, dto.FecharCaixaRequest{
		Usuario:      "joao",
		ValorContado: d("90"),
		Observacoes:  ptr("faltaram 10"),
	})
	require.NoError(t, err)

	assert.True(t, resp.SaldoEsperado.Equal(d("100")))
	assert.True(t, resp.Desvio.Valor.Equal(d("-10")))
	assert.True(t, resp.Desvio.Porcentagem.Equal(d("-10")))
	assert.Equal(t, "critico", resp.Desvio.Classificacao)
	assert.Equal(t, "fechado", resp.Status)

	_, err = a.caixa.Fechar(context.Background(), id, dto.FecharCaixaRequest{Usuario: "joao", ValorContado: d("90")})
	assert.ErrorIs(t, err, apierror.ErrCaixaNaoAberto)
}

func TestClassificarDesvio(t *testing.T) {
	assert.Equal(t, "normal", classificarDesvio(d("0")))
	assert.Equal(t, "normal", classificarDesvio(d("-1")))
	assert.Equal(t, "advertencia", classificarDesvio(d("1.01")))
	assert.Equal(t, "advertencia", classificarDesvio(d("-5")))
	assert.Equal(t, "critico", classificarDesvio(d("5.01")))
}

type lockerOcupado struct{}

func (lockerOcupado) Obter(context.Context, string) (func(), error) {
	return nil, apierror.ErrOperacaoEmAndamento
}

func TestAbrirCaixaComTravaOcupada(t *testing.T) {
	a := novoAmbiente(t, CancelamentoNenhum)
	svc := NewCaixaService(a.store.Caixas(), a.store, lockerOcupado{})

	_, err := svc.Abrir(context.Background(), dto.AbrirCaixaRequest{Usuario: "maria", ValorAbertura: d("1")})
	assert.ErrorIs(t, err, apierror.ErrOperacaoEmAndamento)
}
