package service

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"gasagua/internal/dto"
	"gasagua/internal/model"
	"gasagua/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"
)

// RelatorioService builds read-only daily summaries. It never mutates state.
type RelatorioService interface {
	Diario(ctx context.Context, data string) (*dto.RelatorioDiarioResponse, error)
	ExportarXLSX(ctx context.Context, data string) ([]byte, error)
}

type relatorioService struct {
	vendas   repository.VendaRepository
	despesas repository.DespesaRepository
	caixas   repository.CaixaRepository
}

func NewRelatorioService(vendas repository.VendaRepository, despesas repository.DespesaRepository, caixas repository.CaixaRepository) RelatorioService {
	return &relatorioService{vendas: vendas, despesas: despesas, caixas: caixas}
}

type dadosDiarios struct {
	vendas   []model.Venda
	despesas []model.Despesa
	caixas   []model.Caixa
}

func (s *relatorioService) carregar(ctx context.Context, data string) (*dadosDiarios, error) {
	inicio, fim, err := repository.IntervaloDia(data)
	if err != nil {
		return nil, err
	}

	var d dadosDiarios
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		d.vendas, err = s.vendas.ListarPorPeriodo(gctx, inicio, fim)
		return err
	})
	g.Go(func() error {
		var err error
		d.despesas, err = s.despesas.ListarPorPeriodo(gctx, inicio, fim)
		return err
	})
	g.Go(func() error {
		var err error
		d.caixas, err = s.caixas.ListarPorPeriodo(gctx, inicio, fim)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *relatorioService) Diario(ctx context.Context, data string) (*dto.RelatorioDiarioResponse, error) {
	d, err := s.carregar(ctx, data)
	if err != nil {
		return nil, err
	}
	inicio, _, _ := repository.IntervaloDia(data)
	return montarRelatorio(inicio.Format("2006-01-02"), d), nil
}

// montarRelatorio aggregates concluded sales only; split payments are counted per slice.
func montarRelatorio(data string, d *dadosDiarios) *dto.RelatorioDiarioResponse {
	r := &dto.RelatorioDiarioResponse{
		Data:          data,
		TotalVendas:   decimal.Zero,
		TotalDespesas: decimal.Zero,
		PorForma: dto.VendasPorForma{
			Dinheiro: decimal.Zero, Cartao: decimal.Zero, Pix: decimal.Zero, Fiado: decimal.Zero,
		},
		PorUsuario:          []dto.VendasPorUsuario{},
		Fiado:               []dto.FiadoDoDia{},
		Despesas:            []dto.DespesaResponse{},
		DevolucoesEmbalagem: []dto.DevolucaoResumo{},
		Caixas:              []dto.CaixaResponse{},
	}

	porUsuario := map[string]*dto.VendasPorUsuario{}
	porCliente := map[string]*dto.FiadoDoDia{}
	porProduto := map[string]*dto.DevolucaoResumo{}

	for i := range d.vendas {
		v := &d.vendas[i]
		if v.Status == model.VendaCancelada {
			r.VendasCanceladas++
			continue
		}
		if v.Status != model.VendaConcluida {
			continue
		}
		r.QuantidadeVendas++
		r.TotalVendas = r.TotalVendas.Add(v.ValorTotal)

		if len(v.PagamentosParciais) == 0 {
			somarPorForma(&r.PorForma, v.FormaPagamento, v.ValorTotal)
		}
		for _, p := range v.PagamentosParciais {
			somarPorForma(&r.PorForma, p.Forma, p.Valor)
		}

		u, ok := porUsuario[v.Usuario]
		if !ok {
			u = &dto.VendasPorUsuario{Usuario: v.Usuario, Total: decimal.Zero}
			porUsuario[v.Usuario] = u
		}
		u.Quantidade++
		u.Total = u.Total.Add(v.ValorTotal)

		if fiado := v.ParteFiado(); fiado.IsPositive() && v.ClienteID != nil {
			c, ok := porCliente[*v.ClienteID]
			if !ok {
				nome := *v.ClienteID
				if v.ClienteNome != nil {
					nome = *v.ClienteNome
				}
				c = &dto.FiadoDoDia{ClienteID: *v.ClienteID, Nome: nome, Valor: decimal.Zero}
				porCliente[*v.ClienteID] = c
			}
			c.Valor = c.Valor.Add(fiado)
		}

		for _, dev := range v.DevolucoesEmbalagem {
			p, ok := porProduto[dev.ProdutoNome]
			if !ok {
				p = &dto.DevolucaoResumo{ProdutoNome: dev.ProdutoNome, Credito: decimal.Zero}
				porProduto[dev.ProdutoNome] = p
			}
			p.Quantidade += dev.Quantidade
			p.Credito = p.Credito.Add(dev.ValorCredito)
		}
	}

	for _, u := range porUsuario {
		r.PorUsuario = append(r.PorUsuario, *u)
	}
	sort.Slice(r.PorUsuario, func(i, j int) bool { return r.PorUsuario[i].Usuario < r.PorUsuario[j].Usuario })
	for _, c := range porCliente {
		r.Fiado = append(r.Fiado, *c)
	}
	sort.Slice(r.Fiado, func(i, j int) bool { return r.Fiado[i].Valor.GreaterThan(r.Fiado[j].Valor) })
	for _, p := range porProduto {
		r.DevolucoesEmbalagem = append(r.DevolucoesEmbalagem, *p)
	}
	sort.Slice(r.DevolucoesEmbalagem, func(i, j int) bool {
		return r.DevolucoesEmbalagem[i].ProdutoNome < r.DevolucoesEmbalagem[j].ProdutoNome
	})

	for i := range d.despesas {
		r.Despesas = append(r.Despesas, despesaToResponse(&d.despesas[i]))
		r.TotalDespesas = r.TotalDespesas.Add(d.despesas[i].Valor)
	}
	for i := range d.caixas {
		r.Caixas = append(r.Caixas, *caixaToResponse(&d.caixas[i], false))
	}
	return r
}

func somarPorForma(pf *dto.VendasPorForma, f model.FormaPagamento, valor decimal.Decimal) {
	switch f {
	case model.Dinheiro:
		pf.Dinheiro = pf.Dinheiro.Add(valor)
	case model.Cartao:
		pf.Cartao = pf.Cartao.Add(valor)
	case model.Pix:
		pf.Pix = pf.Pix.Add(valor)
	case model.Fiado:
		pf.Fiado = pf.Fiado.Add(valor)
	}
}

// ── XLSX ──────────────────────────────────────────────────────────────────────

const (
	abaResumo   = "Resumo"
	abaVendas   = "Vendas"
	abaDespesas = "Despesas"
)

func (s *relatorioService) ExportarXLSX(ctx context.Context, data string) ([]byte, error) {
	d, err := s.carregar(ctx, data)
	if err != nil {
		return nil, err
	}
	inicio, _, _ := repository.IntervaloDia(data)
	r := montarRelatorio(inicio.Format("2006-01-02"), d)

	f := excelize.NewFile()
	defer f.Close()

	// The default sheet becomes the summary.
	if err := f.SetSheetName("Sheet1", abaResumo); err != nil {
		return nil, err
	}
	resumo := [][]interface{}{
		{"Data", r.Data},
		{"Vendas", r.QuantidadeVendas},
		{"Vendas canceladas", r.VendasCanceladas},
		{"Total vendido", r.TotalVendas.InexactFloat64()},
		{"Dinheiro", r.PorForma.Dinheiro.InexactFloat64()},
		{"Cartão", r.PorForma.Cartao.InexactFloat64()},
		{"PIX", r.PorForma.Pix.InexactFloat64()},
		{"Fiado", r.PorForma.Fiado.InexactFloat64()},
		{"Despesas", r.TotalDespesas.InexactFloat64()},
	}
	if err := escreverLinhas(f, abaResumo, resumo); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(abaVendas); err != nil {
		return nil, err
	}
	linhas := [][]interface{}{{"Código", "Hora", "Cliente", "Forma", "Total", "Status", "Usuário"}}
	for _, v := range d.vendas {
		cliente := ""
		if v.ClienteNome != nil {
			cliente = *v.ClienteNome
		} else if v.ClienteID != nil {
			cliente = *v.ClienteID
		}
		forma := string(v.FormaPagamento)
		if len(v.PagamentosParciais) > 0 {
			forma = "dividido"
		}
		linhas = append(linhas, []interface{}{
			v.Codigo, v.Data.Format("15:04"), cliente, forma, v.ValorTotal.InexactFloat64(), v.Status, v.Usuario,
		})
	}
	if err := escreverLinhas(f, abaVendas, linhas); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(abaDespesas); err != nil {
		return nil, err
	}
	linhas = [][]interface{}{{"Hora", "Categoria", "Motivo", "Valor", "Usuário"}}
	for _, desp := range d.despesas {
		linhas = append(linhas, []interface{}{
			desp.Data.Format("15:04"), desp.Categoria, desp.Motivo, desp.Valor.InexactFloat64(), desp.Usuario,
		})
	}
	if err := escreverLinhas(f, abaDespesas, linhas); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func escreverLinhas(f *excelize.File, aba string, linhas [][]interface{}) error {
	for i, linha := range linhas {
		celula, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(aba, celula, &linha); err != nil {
			return err
		}
	}
	return nil
}
