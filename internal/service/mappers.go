package service

import (
	"time"

	"gasagua/internal/dto"
	"gasagua/internal/model"
)

const layoutDataHora = time.RFC3339

func formatarData(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(layoutDataHora)
	return &s
}

func movimentacaoToResponse(m model.MovimentacaoCaixa) dto.MovimentacaoResponse {
	resp := dto.MovimentacaoResponse{
		ID:        m.ID.String(),
		Seq:       m.Seq,
		Tipo:      string(m.Tipo),
		Valor:     m.Valor,
		Descricao: m.Descricao,
		Usuario:   m.Usuario,
		Data:      m.Data.Format(layoutDataHora),
	}
	if m.FormaPagamento != nil {
		f := string(*m.FormaPagamento)
		resp.FormaPagamento = &f
	}
	if m.ReferenciaID != nil {
		r := m.ReferenciaID.String()
		resp.ReferenciaID = &r
	}
	return resp
}

func caixaToResponse(c *model.Caixa, comMovimentacoes bool) *dto.CaixaResponse {
	resp := &dto.CaixaResponse{
		ID:                c.ID.String(),
		Status:            c.Status,
		DataAbertura:      c.DataAbertura.Format(layoutDataHora),
		DataFechamento:    formatarData(c.DataFechamento),
		UsuarioAbertura:   c.UsuarioAbertura,
		UsuarioFechamento: c.UsuarioFechamento,
		ValorAbertura:     c.ValorAbertura,
		ValorFechamento:   c.ValorFechamento,
		SaldoEsperado:     c.SaldoEsperado(),
		Diferenca:         c.Diferenca,
		Observacoes:       c.Observacoes,
		Totais: dto.TotaisCaixa{
			Vendas:          c.TotalVendas,
			Dinheiro:        c.TotalDinheiro,
			Cartao:          c.TotalCartao,
			Pix:             c.TotalPix,
			Fiado:           c.TotalFiado,
			PagamentosFiado: c.TotalPagamentosFiado,
			Reforcos:        c.TotalReforcos,
			Sangrias:        c.TotalSangrias,
		},
	}
	if comMovimentacoes {
		resp.Movimentacoes = make([]dto.MovimentacaoResponse, 0, len(c.Movimentacoes))
		for _, m := range c.Movimentacoes {
			resp.Movimentacoes = append(resp.Movimentacoes, movimentacaoToResponse(m))
		}
	}
	return resp
}

func vendaToResponse(v *model.Venda) *dto.VendaResponse {
	resp := &dto.VendaResponse{
		ID:                     v.ID.String(),
		Codigo:                 v.Codigo,
		Data:                   v.Data.Format(layoutDataHora),
		ClienteID:              v.ClienteID,
		ClienteNome:            v.ClienteNome,
		Subtotal:               v.Subtotal,
		Desconto:               v.Desconto,
		TaxaEntrega:            v.TaxaEntrega,
		TotalCreditoDevolucoes: v.TotalCreditoDevolucoes,
		ValorTotal:             v.ValorTotal,
		Troco:                  v.Troco,
		FormaPagamento:         string(v.FormaPagamento),
		Status:                 v.Status,
		Pago:                   v.Pago,
		CaixaID:                v.CaixaID.String(),
		Usuario:                v.Usuario,
		DataCancelamento:       formatarData(v.DataCancelamento),
		MotivoCancelamento:     v.MotivoCancelamento,
		UsuarioCancelamento:    v.UsuarioCancelamento,
	}
	resp.Itens = make([]dto.ItemVendaResponse, 0, len(v.Itens))
	for _, it := range v.Itens {
		resp.Itens = append(resp.Itens, dto.ItemVendaResponse{
			ProdutoID:     it.ProdutoID,
			ProdutoNome:   it.ProdutoNome,
			Quantidade:    it.Quantidade,
			PrecoUnitario: it.PrecoUnitario,
			Subtotal:      it.Subtotal,
			RetornaVazio:  it.RetornaVazio,
			VendeCompleta: it.VendeCompleta,
		})
	}
	for _, p := range v.PagamentosParciais {
		resp.PagamentosParciais = append(resp.PagamentosParciais, dto.PagamentoResponse{
			Forma: string(p.Forma),
			Valor: p.Valor,
		})
	}
	for _, d := range v.DevolucoesEmbalagem {
		resp.DevolucoesEmbalagem = append(resp.DevolucoesEmbalagem, dto.DevolucaoEmbalagemResponse{
			ProdutoNome:  d.ProdutoNome,
			Quantidade:   d.Quantidade,
			ValorCredito: d.ValorCredito,
		})
	}
	return resp
}

func contaToResponse(c *model.ContaFiado) dto.ContaFiadoResponse {
	return dto.ContaFiadoResponse{
		ClienteID:     c.ClienteID,
		Nome:          c.Nome,
		Saldo:         c.Saldo,
		LimiteCredito: c.LimiteCredito,
		ExcedeLimite:  c.ExcedeLimite(),
		AtualizadoEm:  c.AtualizadoEm.Format(layoutDataHora),
	}
}

func despesaToResponse(d *model.Despesa) dto.DespesaResponse {
	resp := dto.DespesaResponse{
		ID:        d.ID.String(),
		Data:      d.Data.Format(layoutDataHora),
		Valor:     d.Valor,
		Motivo:    d.Motivo,
		Descricao: d.Descricao,
		Categoria: d.Categoria,
		Usuario:   d.Usuario,
	}
	if d.CaixaID != nil {
		id := d.CaixaID.String()
		resp.CaixaID = &id
	}
	return resp
}

func estoqueToResponse(e *model.EstoqueProduto) dto.EstoqueResponse {
	return dto.EstoqueResponse{
		ProdutoID:    e.ProdutoID,
		ProdutoNome:  e.ProdutoNome,
		Cheio:        e.Cheio,
		Vazio:        e.Vazio,
		Minimo:       e.Minimo,
		Baixo:        e.Baixo(),
		AtualizadoEm: e.AtualizadoEm.Format(layoutDataHora),
	}
}

func estoquesToResponse(estoques []model.EstoqueProduto) []dto.EstoqueResponse {
	resp := make([]dto.EstoqueResponse, 0, len(estoques))
	for i := range estoques {
		resp = append(resp, estoqueToResponse(&estoques[i]))
	}
	return resp
}

func movEstoqueToResponse(m model.MovimentacaoEstoque) dto.MovimentacaoEstoqueResponse {
	resp := dto.MovimentacaoEstoqueResponse{
		ID:              m.ID.String(),
		ProdutoID:       m.ProdutoID,
		ProdutoNome:     m.ProdutoNome,
		Tipo:            string(m.Tipo),
		QuantidadeCheio: m.QuantidadeCheio,
		QuantidadeVazio: m.QuantidadeVazio,
		CheioAnterior:   m.CheioAnterior,
		CheioNovo:       m.CheioNovo,
		VazioAnterior:   m.VazioAnterior,
		VazioNovo:       m.VazioNovo,
		Motivo:          m.Motivo,
		Usuario:         m.Usuario,
		Data:            m.Data.Format(layoutDataHora),
	}
	if m.VendaID != nil {
		id := m.VendaID.String()
		resp.VendaID = &id
	}
	return resp
}
