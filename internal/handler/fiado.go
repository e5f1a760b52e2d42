package handler

import (
	"net/http"

	"gasagua/internal/apierror"
	"gasagua/internal/dto"
	"gasagua/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type FiadoHandler struct{ svc service.FiadoService }

func NewFiadoHandler(svc service.FiadoService) *FiadoHandler { return &FiadoHandler{svc: svc} }

func clienteID(c *gin.Context) (string, bool) {
	id := c.Param("cliente_id")
	if id == "" || len(id) > 64 {
		c.JSON(http.StatusBadRequest, apierror.New("cliente_id inválido"))
		return "", false
	}
	return id, true
}

// ListarDevedores godoc
// @Summary Lista clientes com saldo fiado, maior saldo primeiro
// @Tags fiado
// @Produce json
// @Success 200 {array} dto.ContaFiadoResponse
// @Router /v1/fiado [get]
func (h *FiadoHandler) ListarDevedores(c *gin.Context) {
	resp, err := h.svc.ListarDevedores(c.Request.Context())
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obter godoc
// @Summary Retorna a conta fiado de um cliente
// @Tags fiado
// @Produce json
// @Param cliente_id path string true "Cliente"
// @Success 200 {object} dto.ContaFiadoResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/fiado/{cliente_id} [get]
func (h *FiadoHandler) Obter(c *gin.Context) {
	id, ok := clienteID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Obter(c.Request.Context(), id)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DefinirLimite godoc
// @Summary Define ou remove o limite de crédito
// @Tags fiado
// @Accept json
// @Produce json
// @Param cliente_id path string true "Cliente"
// @Param body body dto.DefinirLimiteRequest true "Limite (null remove)"
// @Success 200 {object} dto.ContaFiadoResponse
// @Router /v1/fiado/{cliente_id}/limite [put]
func (h *FiadoHandler) DefinirLimite(c *gin.Context) {
	id, ok := clienteID(c)
	if !ok {
		return
	}
	var req dto.DefinirLimiteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.DefinirLimite(c.Request.Context(), id, req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Debito godoc
// @Summary Lança um débito manual no fiado
// @Description Nunca é bloqueado pelo limite; o excesso vem como aviso.
// @Tags fiado
// @Accept json
// @Produce json
// @Param cliente_id path string true "Cliente"
// @Param body body dto.DebitoFiadoRequest true "Débito"
// @Success 200 {object} dto.OperacaoFiadoResponse
// @Router /v1/fiado/{cliente_id}/debito [post]
func (h *FiadoHandler) Debito(c *gin.Context) {
	id, ok := clienteID(c)
	if !ok {
		return
	}
	var req dto.DebitoFiadoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Aumentar(c.Request.Context(), id, req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Abatimento godoc
// @Summary Abate saldo fiado sem lançamento no caixa
// @Tags fiado
// @Accept json
// @Produce json
// @Param cliente_id path string true "Cliente"
// @Param body body dto.AbatimentoFiadoRequest true "Abatimento"
// @Success 200 {object} dto.ContaFiadoResponse
// @Failure 422 {object} apierror.APIError "Valor maior que o saldo"
// @Router /v1/fiado/{cliente_id}/abatimento [post]
func (h *FiadoHandler) Abatimento(c *gin.Context) {
	id, ok := clienteID(c)
	if !ok {
		return
	}
	var req dto.AbatimentoFiadoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Diminuir(c.Request.Context(), id, req.Valor)
	if err != nil {
		responderErro(c, err)
		return
	}
	log.Info().Str("cliente_id", id).Str("usuario", req.Usuario).Str("valor", req.Valor.StringFixed(2)).Msg("abatimento de fiado")
	c.JSON(http.StatusOK, resp)
}

// Pagamento godoc
// @Summary Recebe pagamento de fiado
// @Description Lança pagamento_fiado no caixa aberto; sem caixa o pagamento vale e a resposta traz um aviso.
// @Tags fiado
// @Accept json
// @Produce json
// @Param cliente_id path string true "Cliente"
// @Param body body dto.PagamentoFiadoRequest true "Pagamento"
// @Success 200 {object} dto.OperacaoFiadoResponse
// @Failure 422 {object} apierror.APIError "Valor maior que o saldo"
// @Router /v1/fiado/{cliente_id}/pagamento [post]
func (h *FiadoHandler) Pagamento(c *gin.Context) {
	id, ok := clienteID(c)
	if !ok {
		return
	}
	var req dto.PagamentoFiadoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ReceberPagamento(c.Request.Context(), id, req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
