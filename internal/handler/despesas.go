package handler

import (
	"net/http"

	"gasagua/internal/dto"
	"gasagua/internal/service"

	"github.com/gin-gonic/gin"
)

type DespesasHandler struct{ svc service.DespesaService }

func NewDespesasHandler(svc service.DespesaService) *DespesasHandler {
	return &DespesasHandler{svc: svc}
}

// Registrar godoc
// @Summary Registra uma despesa
// @Tags despesas
// @Accept json
// @Produce json
// @Param body body dto.RegistrarDespesaRequest true "Despesa"
// @Success 201 {object} dto.DespesaResponse
// @Router /v1/despesas [post]
func (h *DespesasHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarDespesaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Registrar(c.Request.Context(), req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary Lista despesas de um período
// @Tags despesas
// @Produce json
// @Param data_inicio query string false "AAAA-MM-DD (padrão: hoje)"
// @Param data_fim query string false "AAAA-MM-DD (padrão: data_inicio)"
// @Success 200 {object} dto.DespesaListResponse
// @Router /v1/despesas [get]
func (h *DespesasHandler) Listar(c *gin.Context) {
	var filter dto.DespesaFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Excluir godoc
// @Summary Exclui uma despesa
// @Description O lançamento no caixa permanece.
// @Tags despesas
// @Param id path string true "ID da despesa"
// @Success 204
// @Failure 404 {object} apierror.APIError
// @Router /v1/despesas/{id} [delete]
func (h *DespesasHandler) Excluir(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Excluir(c.Request.Context(), id); err != nil {
		responderErro(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
