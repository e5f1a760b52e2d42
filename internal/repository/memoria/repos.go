package memoria

import (
	"context"
	"sort"
	"time"

	"gasagua/internal/apierror"
	"gasagua/internal/dto"
	"gasagua/internal/model"
	"gasagua/internal/repository"

	"github.com/google/uuid"
)

// ── caixas ───────────────────────────────────────────────────────────────────

type caixaRepo struct{ s *Store }

func (r *caixaRepo) Criar(ctx context.Context, c *model.Caixa) error {
	return r.s.escrever(ctx, func() error {
		if c.Aberto() {
			for _, outro := range r.s.caixas {
				if outro.Aberto() {
					return apierror.ErrCaixaJaAberto
				}
			}
		}
		if _, ok := r.s.caixas[c.ID]; ok {
			return apierror.ErrConflito
		}
		c.Versao = 1
		r.s.caixas[c.ID] = copiarCaixa(c)
		return nil
	})
}

func (r *caixaRepo) BuscarAberto(_ context.Context) (*model.Caixa, error) {
	var achado *model.Caixa
	r.s.ler(func() {
		for _, c := range r.s.caixas {
			if c.Aberto() {
				cp := copiarCaixa(&c)
				achado = &cp
				return
			}
		}
	})
	return achado, nil
}

func (r *caixaRepo) BuscarPorID(_ context.Context, id uuid.UUID) (*model.Caixa, error) {
	var achado *model.Caixa
	r.s.ler(func() {
		if c, ok := r.s.caixas[id]; ok {
			cp := copiarCaixa(&c)
			achado = &cp
		}
	})
	if achado == nil {
		return nil, apierror.ErrNaoEncontrado
	}
	return achado, nil
}

func (r *caixaRepo) Salvar(ctx context.Context, c *model.Caixa, _ []model.MovimentacaoCaixa) error {
	return r.s.escrever(ctx, func() error {
		atual, ok := r.s.caixas[c.ID]
		if !ok {
			return apierror.ErrNaoEncontrado
		}
		if atual.Versao != c.Versao {
			return apierror.ErrConflito
		}
		c.Versao++
		r.s.caixas[c.ID] = copiarCaixa(c)
		return nil
	})
}

func (r *caixaRepo) Listar(_ context.Context, page, limit int) ([]model.Caixa, int64, error) {
	var todas []model.Caixa
	r.s.ler(func() {
		for _, c := range r.s.caixas {
			cp := copiarCaixa(&c)
			cp.Movimentacoes = nil
			todas = append(todas, cp)
		}
	})
	sort.Slice(todas, func(i, j int) bool { return todas[i].DataAbertura.After(todas[j].DataAbertura) })
	return paginar(todas, page, limit), int64(len(todas)), nil
}

func (r *caixaRepo) ListarPorPeriodo(_ context.Context, inicio, fim time.Time) ([]model.Caixa, error) {
	var caixas []model.Caixa
	r.s.ler(func() {
		for _, c := range r.s.caixas {
			if noPeriodo(c.DataAbertura, inicio, fim) {
				caixas = append(caixas, copiarCaixa(&c))
			}
		}
	})
	sort.Slice(caixas, func(i, j int) bool { return caixas[i].DataAbertura.Before(caixas[j].DataAbertura) })
	return caixas, nil
}

// ── vendas ───────────────────────────────────────────────────────────────────

type vendaRepo struct{ s *Store }

func (r *vendaRepo) Criar(ctx context.Context, v *model.Venda) error {
	return r.s.escrever(ctx, func() error {
		for _, outra := range r.s.vendas {
			if outra.ID == v.ID || outra.Codigo == v.Codigo {
				return apierror.ErrConflito
			}
		}
		agora := time.Now()
		v.CreatedAt, v.UpdatedAt = agora, agora
		r.s.vendas[v.ID] = copiarVenda(v)
		return nil
	})
}

func (r *vendaRepo) BuscarPorID(_ context.Context, id uuid.UUID) (*model.Venda, error) {
	var achada *model.Venda
	r.s.ler(func() {
		if v, ok := r.s.vendas[id]; ok {
			cp := copiarVenda(&v)
			achada = &cp
		}
	})
	if achada == nil {
		return nil, apierror.ErrNaoEncontrado
	}
	return achada, nil
}

func (r *vendaRepo) AtualizarCancelamento(ctx context.Context, v *model.Venda) error {
	return r.s.escrever(ctx, func() error {
		atual, ok := r.s.vendas[v.ID]
		if !ok {
			return apierror.ErrNaoEncontrado
		}
		if atual.Status != model.VendaConcluida {
			return apierror.ErrConflito
		}
		atual.Status = v.Status
		atual.DataCancelamento = v.DataCancelamento
		atual.MotivoCancelamento = v.MotivoCancelamento
		atual.UsuarioCancelamento = v.UsuarioCancelamento
		atual.UpdatedAt = time.Now()
		r.s.vendas[v.ID] = atual
		return nil
	})
}

func (r *vendaRepo) Listar(_ context.Context, filter dto.VendaFilter) ([]model.Venda, int64, error) {
	inicio, fim, err := repository.IntervaloDia(filter.Data)
	if err != nil {
		return nil, 0, err
	}
	var vendas []model.Venda
	r.s.ler(func() {
		for _, v := range r.s.vendas {
			if !noPeriodo(v.Data, inicio, fim) {
				continue
			}
			if filter.Status != "" && filter.Status != "all" && v.Status != filter.Status {
				continue
			}
			if filter.ClienteID != "" && (v.ClienteID == nil || *v.ClienteID != filter.ClienteID) {
				continue
			}
			vendas = append(vendas, copiarVenda(&v))
		}
	})
	sort.Slice(vendas, func(i, j int) bool { return vendas[i].Data.After(vendas[j].Data) })
	return paginar(vendas, filter.Page, filter.Limit), int64(len(vendas)), nil
}

func (r *vendaRepo) ListarPorPeriodo(_ context.Context, inicio, fim time.Time) ([]model.Venda, error) {
	var vendas []model.Venda
	r.s.ler(func() {
		for _, v := range r.s.vendas {
			if noPeriodo(v.Data, inicio, fim) {
				vendas = append(vendas, copiarVenda(&v))
			}
		}
	})
	sort.Slice(vendas, func(i, j int) bool { return vendas[i].Data.Before(vendas[j].Data) })
	return vendas, nil
}

// ── fiado ────────────────────────────────────────────────────────────────────

type fiadoRepo struct{ s *Store }

func (r *fiadoRepo) Buscar(_ context.Context, clienteID string) (*model.ContaFiado, error) {
	var achada *model.ContaFiado
	r.s.ler(func() {
		if c, ok := r.s.contas[clienteID]; ok {
			cp := copiarConta(&c)
			achada = &cp
		}
	})
	if achada == nil {
		return nil, apierror.ErrNaoEncontrado
	}
	return achada, nil
}

func (r *fiadoRepo) Salvar(ctx context.Context, c *model.ContaFiado) error {
	return r.s.escrever(ctx, func() error {
		atual, existe := r.s.contas[c.ClienteID]
		switch {
		case c.Versao == 0 && existe:
			return apierror.ErrConflito
		case c.Versao != 0 && (!existe || atual.Versao != c.Versao):
			return apierror.ErrConflito
		}
		c.Versao++
		r.s.contas[c.ClienteID] = copiarConta(c)
		return nil
	})
}

func (r *fiadoRepo) ListarDevedores(_ context.Context) ([]model.ContaFiado, error) {
	var contas []model.ContaFiado
	r.s.ler(func() {
		for _, c := range r.s.contas {
			if c.Saldo.IsPositive() {
				contas = append(contas, copiarConta(&c))
			}
		}
	})
	sort.Slice(contas, func(i, j int) bool { return contas[i].Saldo.GreaterThan(contas[j].Saldo) })
	return contas, nil
}

// ── despesas ─────────────────────────────────────────────────────────────────

type despesaRepo struct{ s *Store }

func (r *despesaRepo) Criar(ctx context.Context, d *model.Despesa) error {
	return r.s.escrever(ctx, func() error {
		d.CreatedAt = time.Now()
		r.s.despesas[d.ID] = *d
		return nil
	})
}

func (r *despesaRepo) Excluir(ctx context.Context, id uuid.UUID) error {
	return r.s.escrever(ctx, func() error {
		if _, ok := r.s.despesas[id]; !ok {
			return apierror.ErrNaoEncontrado
		}
		delete(r.s.despesas, id)
		return nil
	})
}

func (r *despesaRepo) ListarPorPeriodo(_ context.Context, inicio, fim time.Time) ([]model.Despesa, error) {
	var despesas []model.Despesa
	r.s.ler(func() {
		for _, d := range r.s.despesas {
			if noPeriodo(d.Data, inicio, fim) {
				despesas = append(despesas, d)
			}
		}
	})
	sort.Slice(despesas, func(i, j int) bool { return despesas[i].Data.Before(despesas[j].Data) })
	return despesas, nil
}

// ── estoque ──────────────────────────────────────────────────────────────────

type estoqueRepo struct{ s *Store }

func (r *estoqueRepo) Buscar(_ context.Context, produtoID string) (*model.EstoqueProduto, error) {
	var achado *model.EstoqueProduto
	r.s.ler(func() {
		if e, ok := r.s.estoques[produtoID]; ok {
			achado = &e
		}
	})
	if achado == nil {
		return nil, apierror.ErrNaoEncontrado
	}
	return achado, nil
}

func (r *estoqueRepo) Salvar(ctx context.Context, e *model.EstoqueProduto) error {
	return r.s.escrever(ctx, func() error {
		atual, existe := r.s.estoques[e.ProdutoID]
		switch {
		case e.Versao == 0 && existe:
			return apierror.ErrConflito
		case e.Versao != 0 && (!existe || atual.Versao != e.Versao):
			return apierror.ErrConflito
		}
		e.Versao++
		r.s.estoques[e.ProdutoID] = *e
		return nil
	})
}

func (r *estoqueRepo) Listar(_ context.Context) ([]model.EstoqueProduto, error) {
	return r.filtrar(func(model.EstoqueProduto) bool { return true }, func(a, b model.EstoqueProduto) bool {
		return a.ProdutoNome < b.ProdutoNome
	}), nil
}

func (r *estoqueRepo) ListarBaixo(_ context.Context) ([]model.EstoqueProduto, error) {
	return r.filtrar(func(e model.EstoqueProduto) bool { return e.Baixo() }, func(a, b model.EstoqueProduto) bool {
		if a.Cheio != b.Cheio {
			return a.Cheio < b.Cheio
		}
		return a.ProdutoNome < b.ProdutoNome
	}), nil
}

func (r *estoqueRepo) filtrar(incluir func(model.EstoqueProduto) bool, menor func(a, b model.EstoqueProduto) bool) []model.EstoqueProduto {
	var estoques []model.EstoqueProduto
	r.s.ler(func() {
		for _, e := range r.s.estoques {
			if incluir(e) {
				estoques = append(estoques, e)
			}
		}
	})
	sort.Slice(estoques, func(i, j int) bool { return menor(estoques[i], estoques[j]) })
	return estoques
}

func (r *estoqueRepo) RegistrarMovimentacoes(ctx context.Context, movs []model.MovimentacaoEstoque) error {
	return r.s.escrever(ctx, func() error {
		r.s.movEstoque = append(r.s.movEstoque, movs...)
		return nil
	})
}

func (r *estoqueRepo) ListarMovimentacoes(_ context.Context, filter dto.MovimentacaoEstoqueFilter) ([]model.MovimentacaoEstoque, int64, error) {
	var inicio, fim time.Time
	if filter.Data != "" {
		var err error
		if inicio, fim, err = repository.IntervaloDia(filter.Data); err != nil {
			return nil, 0, err
		}
	}
	var movs []model.MovimentacaoEstoque
	r.s.ler(func() {
		// newest first
		for i := len(r.s.movEstoque) - 1; i >= 0; i-- {
			m := r.s.movEstoque[i]
			if filter.ProdutoID != "" && m.ProdutoID != filter.ProdutoID {
				continue
			}
			if filter.Tipo != "" && string(m.Tipo) != filter.Tipo {
				continue
			}
			if filter.Data != "" && !noPeriodo(m.Data, inicio, fim) {
				continue
			}
			movs = append(movs, m)
		}
	})
	return paginar(movs, filter.Page, filter.Limit), int64(len(movs)), nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

func noPeriodo(t, inicio, fim time.Time) bool {
	return !t.Before(inicio) && t.Before(fim)
}

func paginar[T any](itens []T, page, limit int) []T {
	if page < 1 || limit < 1 {
		return itens
	}
	inicio := (page - 1) * limit
	if inicio >= len(itens) {
		return nil
	}
	fim := inicio + limit
	if fim > len(itens) {
		fim = len(itens)
	}
	return itens[inicio:fim]
}
