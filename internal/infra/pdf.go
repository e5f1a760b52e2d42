package infra

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"gasagua/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// Cabecalho is the shop identification printed on every receipt.
type Cabecalho struct {
	NomeEmpresa string
	Mensagem    string
}

var nomesForma = map[model.FormaPagamento]string{
	model.Dinheiro: "Dinheiro",
	model.Cartao:   "Cartão",
	model.Pix:      "PIX",
	model.Fiado:    "Fiado",
}

// GerarReciboPDF renders an 80mm thermal-style receipt for a sale.
func GerarReciboPDF(v *model.Venda, cab Cabecalho) ([]byte, error) {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 80, Ht: alturaRecibo(v)},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.SetAutoPageBreak(false, 4)
	pdf.AddPage()
	// core fonts are cp1252
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	w := pageW - 8
	separador := func() {
		pdf.Ln(1)
		pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
		pdf.Ln(2)
	}

	// ── Cabeçalho ────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(w, 6, tr(cab.NomeEmpresa), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(w, 4, tr("Recibo de venda "+v.Codigo), "", 1, "C", false, 0, "")
	pdf.CellFormat(w, 4, v.Data.Format("02/01/2006 15:04"), "", 1, "C", false, 0, "")
	if v.ClienteNome != nil {
		pdf.CellFormat(w, 4, tr("Cliente: "+*v.ClienteNome), "", 1, "L", false, 0, "")
	}
	if v.EnderecoEntrega != nil {
		pdf.MultiCell(w, 4, tr("Entrega: "+*v.EnderecoEntrega), "", "L", false)
	}
	separador()

	// ── Itens ────────────────────────────────────────────────────────────────
	c1, c2, c3 := w*0.56, w*0.14, w*0.30
	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(c1, 4, "Produto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(c2, 4, "Qtd", "B", 0, "C", false, 0, "")
	pdf.CellFormat(c3, 4, "Subtotal", "B", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	for _, it := range v.Itens {
		pdf.CellFormat(c1, 4, tr(truncar(it.ProdutoNome, 26)), "", 0, "L", false, 0, "")
		pdf.CellFormat(c2, 4, fmt.Sprintf("%d", it.Quantidade), "", 0, "C", false, 0, "")
		pdf.CellFormat(c3, 4, moeda(it.Subtotal), "", 1, "R", false, 0, "")
	}
	separador()

	// ── Totais ───────────────────────────────────────────────────────────────
	linha := func(rotulo string, valor decimal.Decimal, prefixo string) {
		pdf.CellFormat(c1+c2, 4, tr(rotulo), "", 0, "L", false, 0, "")
		pdf.CellFormat(c3, 4, prefixo+moeda(valor), "", 1, "R", false, 0, "")
	}
	linha("Subtotal", v.Subtotal, "")
	if v.Desconto.IsPositive() {
		linha("Desconto", v.Desconto, "-")
	}
	if v.TaxaEntrega.IsPositive() {
		linha("Taxa de entrega", v.TaxaEntrega, "")
	}
	for _, d := range v.DevolucoesEmbalagem {
		linha(fmt.Sprintf("Devolução %dx %s", d.Quantidade, truncar(d.ProdutoNome, 14)), d.ValorCredito, "-")
	}
	pdf.SetFont("Helvetica", "B", 9)
	linha("TOTAL", v.ValorTotal, "")
	pdf.SetFont("Helvetica", "", 7)

	if len(v.PagamentosParciais) == 0 {
		linha("Pago em "+nomesForma[v.FormaPagamento], v.ValorTotal, "")
	}
	for _, p := range v.PagamentosParciais {
		linha("Pago em "+nomesForma[p.Forma], p.Valor, "")
	}
	if v.Troco.IsPositive() {
		linha("Troco", v.Troco, "")
	}
	if f := v.ParteFiado(); f.IsPositive() {
		pdf.Ln(1)
		pdf.SetFont("Helvetica", "B", 7)
		pdf.CellFormat(w, 4, tr("Valor em fiado: "+moeda(f)), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 7)
	}

	if cab.Mensagem != "" {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "I", 7)
		pdf.MultiCell(w, 4, tr(cab.Mensagem), "", "C", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// SalvarRecibo writes the receipt under dir as recibo_<codigo>.pdf.
func SalvarRecibo(dir, codigo string, conteudo []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	path := filepath.Join(dir, "recibo_"+codigo+".pdf")
	if err := os.WriteFile(path, conteudo, 0o644); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return path, nil
}

func alturaRecibo(v *model.Venda) float64 {
	linhas := len(v.Itens) + len(v.DevolucoesEmbalagem) + len(v.PagamentosParciais)
	return 90 + float64(linhas)*4
}

func moeda(d decimal.Decimal) string {
	return "R$ " + d.StringFixed(2)
}

func truncar(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "."
}
