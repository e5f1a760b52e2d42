package service

import (
	"context"
	"errors"
	"fmt"

	"gasagua/internal/apierror"
	"gasagua/internal/dto"
	"gasagua/internal/model"
	"gasagua/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type EstoqueService interface {
	Listar(ctx context.Context) ([]dto.EstoqueResponse, error)
	Obter(ctx context.Context, produtoID string) (*dto.EstoqueResponse, error)
	Definir(ctx context.Context, produtoID string, req dto.DefinirEstoqueRequest) (*dto.EstoqueResponse, error)
	Movimentar(ctx context.Context, produtoID string, req dto.MovimentarEstoqueRequest) (*dto.MovimentacaoEstoqueResultado, error)
	// Alertas lists products at or below their minimum.
	Alertas(ctx context.Context) ([]dto.EstoqueResponse, error)
	ListarMovimentacoes(ctx context.Context, filter dto.MovimentacaoEstoqueFilter) (*dto.MovimentacaoEstoqueListResponse, error)
}

type estoqueService struct {
	repo   repository.EstoqueRepository
	tx     repository.TxManager
	contas contadorEstoque
}

// NewEstoqueService: minimoPadrao is the low-stock minimum given to products
// whose record is created by a movement.
func NewEstoqueService(repo repository.EstoqueRepository, tx repository.TxManager, minimoPadrao int) EstoqueService {
	return &estoqueService{repo: repo, tx: tx, contas: contadorEstoque{repo: repo, minimoPadrao: minimoPadrao}}
}

func (s *estoqueService) Listar(ctx context.Context) ([]dto.EstoqueResponse, error) {
	estoques, err := s.repo.Listar(ctx)
	if err != nil {
		return nil, err
	}
	return estoquesToResponse(estoques), nil
}

func (s *estoqueService) Obter(ctx context.Context, produtoID string) (*dto.EstoqueResponse, error) {
	e, err := s.repo.Buscar(ctx, produtoID)
	if err != nil {
		return nil, err
	}
	resp := estoqueToResponse(e)
	return &resp, nil
}

func (s *estoqueService) Definir(ctx context.Context, produtoID string, req dto.DefinirEstoqueRequest) (*dto.EstoqueResponse, error) {
	if req.Minimo < 0 {
		return nil, apierror.ErrQuantidadeInvalida
	}
	var e *model.EstoqueProduto
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		e, _, err = s.contas.carregar(ctx, produtoID, req.ProdutoNome)
		if err != nil {
			return err
		}
		e.ProdutoNome = req.ProdutoNome
		e.Minimo = req.Minimo
		return s.repo.Salvar(ctx, e)
	})
	if err != nil {
		return nil, err
	}
	resp := estoqueToResponse(e)
	return &resp, nil
}

// deltasManuais turns a manual request into count deltas:
//   - ajuste: the signed cheio/vazio given
//   - troca: a defective full container swapped, full -q and empty +q
//   - resto_gas: containers returned with leftover gas count as full, +q
//   - devolucao_embalagem: empties handed in outside a sale, +q
func deltasManuais(req dto.MovimentarEstoqueRequest) (model.TipoMovimentacaoEstoque, int, int, error) {
	tipo := model.TipoMovimentacaoEstoque(req.Tipo)
	if tipo == model.EstoqueAjuste {
		return tipo, req.Cheio, req.Vazio, nil
	}
	if req.Quantidade < 1 {
		return "", 0, 0, apierror.ErrQuantidadeInvalida
	}
	switch tipo {
	case model.EstoqueTroca:
		return tipo, -req.Quantidade, req.Quantidade, nil
	case model.EstoqueRestoGas:
		return tipo, req.Quantidade, 0, nil
	case model.EstoqueDevolucao:
		return tipo, 0, req.Quantidade, nil
	}
	// venda and estorno_venda only come from sales
	return "", 0, 0, apierror.ErrTipoMovimentacaoInvalido
}

func (s *estoqueService) Movimentar(ctx context.Context, produtoID string, req dto.MovimentarEstoqueRequest) (*dto.MovimentacaoEstoqueResultado, error) {
	tipo, cheio, vazio, err := deltasManuais(req)
	if err != nil {
		return nil, err
	}

	var (
		e   *model.EstoqueProduto
		mov model.MovimentacaoEstoque
	)
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		e, mov, err = s.contas.aplicar(ctx, produtoID, req.ProdutoNome, tipo, cheio, vazio, req.Motivo, req.Usuario, nil)
		if err != nil {
			return err
		}
		return s.repo.RegistrarMovimentacoes(ctx, []model.MovimentacaoEstoque{mov})
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("produto_id", produtoID).
		Str("tipo", string(tipo)).
		Int("cheio", mov.QuantidadeCheio).
		Int("vazio", mov.QuantidadeVazio).
		Str("usuario", req.Usuario).
		Msg("estoque movimentado")

	resp := &dto.MovimentacaoEstoqueResultado{
		Estoque:      estoqueToResponse(e),
		Movimentacao: movEstoqueToResponse(mov),
	}
	if e.Baixo() {
		aviso := avisoEstoqueBaixo(e)
		resp.Aviso = &aviso
	}
	return resp, nil
}

func (s *estoqueService) Alertas(ctx context.Context) ([]dto.EstoqueResponse, error) {
	estoques, err := s.repo.ListarBaixo(ctx)
	if err != nil {
		return nil, err
	}
	return estoquesToResponse(estoques), nil
}

func (s *estoqueService) ListarMovimentacoes(ctx context.Context, filter dto.MovimentacaoEstoqueFilter) (*dto.MovimentacaoEstoqueListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 100
	}
	movs, total, err := s.repo.ListarMovimentacoes(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.MovimentacaoEstoqueResponse, 0, len(movs))
	for _, m := range movs {
		data = append(data, movEstoqueToResponse(m))
	}
	return &dto.MovimentacaoEstoqueListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// ── Shared with the sale path ─────────────────────────────────────────────────

// contadorEstoque applies movements inside the caller's transaction.
type contadorEstoque struct {
	repo         repository.EstoqueRepository
	minimoPadrao int
}

// carregar loads the product's record or starts an empty one; novo tells
// which.
func (c contadorEstoque) carregar(ctx context.Context, produtoID, nome string) (e *model.EstoqueProduto, novo bool, err error) {
	e, err = c.repo.Buscar(ctx, produtoID)
	if err == nil {
		return e, false, nil
	}
	if !errors.Is(err, apierror.ErrNaoEncontrado) {
		return nil, false, err
	}
	if nome == "" {
		nome = produtoID
	}
	return &model.EstoqueProduto{ProdutoID: produtoID, ProdutoNome: nome, Minimo: c.minimoPadrao}, true, nil
}

func (c contadorEstoque) aplicar(ctx context.Context, produtoID, nome string, tipo model.TipoMovimentacaoEstoque, cheio, vazio int, motivo, usuario string, vendaID *uuid.UUID) (*model.EstoqueProduto, model.MovimentacaoEstoque, error) {
	e, _, err := c.carregar(ctx, produtoID, nome)
	if err != nil {
		return nil, model.MovimentacaoEstoque{}, err
	}
	mov, err := e.Movimentar(tipo, cheio, vazio, motivo, usuario, vendaID)
	if err != nil {
		return nil, model.MovimentacaoEstoque{}, err
	}
	if err := c.repo.Salvar(ctx, e); err != nil {
		return nil, model.MovimentacaoEstoque{}, err
	}
	return e, mov, nil
}

// baixarVenda posts one movement per item and per packaging return of v and
// returns a warning for every sold product left at or below its minimum.
// Products first seen in this sale have no count to warn about.
func (c contadorEstoque) baixarVenda(ctx context.Context, v *model.Venda) ([]string, error) {
	motivo := fmt.Sprintf("Venda %s (%s)", v.Codigo, v.FormaPagamento)
	var movs []model.MovimentacaoEstoque
	vendidos := map[string]*model.EstoqueProduto{}
	var ordem []string

	for _, it := range v.Itens {
		if _, visto := vendidos[it.ProdutoID]; !visto {
			_, novo, err := c.carregar(ctx, it.ProdutoID, it.ProdutoNome)
			if err != nil {
				return nil, err
			}
			if !novo {
				ordem = append(ordem, it.ProdutoID)
			}
		}
		cheio, vazio := model.DeltasItemVenda(it)
		e, mov, err := c.aplicar(ctx, it.ProdutoID, it.ProdutoNome, model.EstoqueVenda, cheio, vazio, motivo, v.Usuario, &v.ID)
		if err != nil {
			return nil, err
		}
		movs = append(movs, mov)
		vendidos[it.ProdutoID] = e
	}
	for _, d := range v.DevolucoesEmbalagem {
		_, mov, err := c.aplicar(ctx, d.ProdutoID, d.ProdutoNome, model.EstoqueDevolucao, 0, d.Quantidade,
			"Devolução de embalagem na venda "+v.Codigo, v.Usuario, &v.ID)
		if err != nil {
			return nil, err
		}
		movs = append(movs, mov)
	}
	if err := c.repo.RegistrarMovimentacoes(ctx, movs); err != nil {
		return nil, err
	}

	var avisos []string
	for _, id := range ordem {
		if e := vendidos[id]; e.Baixo() {
			avisos = append(avisos, avisoEstoqueBaixo(e))
		}
	}
	return avisos, nil
}

// estornarVenda puts back what baixarVenda took: full containers return and
// the empties received with the sale leave again.
func (c contadorEstoque) estornarVenda(ctx context.Context, v *model.Venda, usuario string) error {
	motivo := "Cancelamento da venda " + v.Codigo
	var movs []model.MovimentacaoEstoque
	estornar := func(produtoID, nome string, cheio, vazio int) error {
		if cheio == 0 && vazio == 0 {
			return nil
		}
		_, mov, err := c.aplicar(ctx, produtoID, nome, model.EstoqueEstorno, cheio, vazio, motivo, usuario, &v.ID)
		if err != nil {
			return err
		}
		movs = append(movs, mov)
		return nil
	}

	for _, it := range v.Itens {
		cheio, vazio := model.DeltasItemVenda(it)
		if err := estornar(it.ProdutoID, it.ProdutoNome, -cheio, -vazio); err != nil {
			return err
		}
	}
	for _, d := range v.DevolucoesEmbalagem {
		if err := estornar(d.ProdutoID, d.ProdutoNome, 0, -d.Quantidade); err != nil {
			return err
		}
	}
	return c.repo.RegistrarMovimentacoes(ctx, movs)
}

func avisoEstoqueBaixo(e *model.EstoqueProduto) string {
	return fmt.Sprintf("estoque baixo: %s (cheio %d, mínimo %d)", e.ProdutoNome, e.Cheio, e.Minimo)
}
