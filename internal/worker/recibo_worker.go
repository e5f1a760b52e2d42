package worker

// Renders the receipt PDF of a sale, stores it under RECIBO_STORAGE_PATH and,
// when the customer left an e-mail, schedules the mail that carries it.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gasagua/internal/apierror"
	"gasagua/internal/infra"
	"gasagua/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// VendaLoader is the slice of the sale repository the worker needs.
type VendaLoader interface {
	BuscarPorID(ctx context.Context, id uuid.UUID) (*model.Venda, error)
}

type ReciboWorker struct {
	vendas     VendaLoader
	dispatcher *Dispatcher
	cabecalho  infra.Cabecalho
	storage    string
}

func NewReciboWorker(vendas VendaLoader, dispatcher *Dispatcher, cabecalho infra.Cabecalho, storagePath string) *ReciboWorker {
	return &ReciboWorker{vendas: vendas, dispatcher: dispatcher, cabecalho: cabecalho, storage: storagePath}
}

func (w *ReciboWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ReciboJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("%w: payload inválido: %v", ErrDescartar, err)
	}
	vendaID, err := uuid.Parse(payload.VendaID)
	if err != nil {
		return fmt.Errorf("%w: venda_id inválido %q", ErrDescartar, payload.VendaID)
	}

	venda, err := w.vendas.BuscarPorID(ctx, vendaID)
	if errors.Is(err, apierror.ErrNaoEncontrado) {
		return fmt.Errorf("%w: venda %s não encontrada", ErrDescartar, vendaID)
	}
	if err != nil {
		return err
	}

	pdf, err := infra.GerarReciboPDF(venda, w.cabecalho)
	if err != nil {
		return err
	}
	path, err := infra.SalvarRecibo(w.storage, venda.Codigo, pdf)
	if err != nil {
		return err
	}
	log.Info().Str("pdf", path).Str("venda_id", payload.VendaID).Msg("recibo gerado")

	if payload.ClienteEmail == nil || *payload.ClienteEmail == "" || w.dispatcher == nil {
		return nil
	}
	job := EmailJobPayload{
		To:      *payload.ClienteEmail,
		Assunto: fmt.Sprintf("%s - recibo da venda %s", w.cabecalho.NomeEmpresa, venda.Codigo),
		Corpo: fmt.Sprintf("Olá!\n\nSegue em anexo o recibo da sua compra.\nTotal: R$ %s\n\n%s",
			venda.ValorTotal.StringFixed(2), w.cabecalho.Mensagem),
		PDFPath: path,
	}
	// the PDF is already on disk; a lost e-mail is not worth regenerating it
	if err := w.dispatcher.EnqueueEmail(ctx, job); err != nil {
		log.Warn().Err(err).Str("venda_id", payload.VendaID).Msg("falha ao enfileirar e-mail do recibo")
	}
	return nil
}
