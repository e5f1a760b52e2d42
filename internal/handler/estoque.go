package handler

import (
	"net/http"

	"gasagua/internal/apierror"
	"gasagua/internal/dto"
	"gasagua/internal/service"

	"github.com/gin-gonic/gin"
)

type EstoqueHandler struct{ svc service.EstoqueService }

func NewEstoqueHandler(svc service.EstoqueService) *EstoqueHandler {
	return &EstoqueHandler{svc: svc}
}

func produtoID(c *gin.Context) (string, bool) {
	id := c.Param("produto_id")
	if id == "" || len(id) > 64 {
		c.JSON(http.StatusBadRequest, apierror.New("produto_id inválido"))
		return "", false
	}
	return id, true
}

// Listar godoc
// @Summary Lista o estoque de cheios e vazios por produto
// @Tags estoque
// @Produce json
// @Success 200 {array} dto.EstoqueResponse
// @Router /v1/estoque [get]
func (h *EstoqueHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Alertas godoc
// @Summary Produtos com cheios no mínimo ou abaixo dele
// @Tags estoque
// @Produce json
// @Success 200 {array} dto.EstoqueResponse
// @Router /v1/estoque/alertas [get]
func (h *EstoqueHandler) Alertas(c *gin.Context) {
	resp, err := h.svc.Alertas(c.Request.Context())
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarMovimentacoes godoc
// @Summary Histórico de movimentações de estoque, mais recentes primeiro
// @Tags estoque
// @Produce json
// @Param produto_id query string false "Produto"
// @Param tipo query string false "venda | devolucao_embalagem | estorno_venda | ajuste | troca | resto_gas"
// @Param data query string false "AAAA-MM-DD"
// @Param page query int false "Página"
// @Param limit query int false "Itens por página (máx. 500)"
// @Success 200 {object} dto.MovimentacaoEstoqueListResponse
// @Router /v1/estoque/movimentacoes [get]
func (h *EstoqueHandler) ListarMovimentacoes(c *gin.Context) {
	var filter dto.MovimentacaoEstoqueFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListarMovimentacoes(c.Request.Context(), filter)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *EstoqueHandler) Obter(c *gin.Context) {
	id, ok := produtoID(c)
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

// Definir godoc
// @Summary Cadastra o produto no estoque ou altera nome e mínimo
// @Tags estoque
// @Accept json
// @Produce json
// @Param produto_id path string true "Produto"
// @Param body body dto.DefinirEstoqueRequest true "Nome e mínimo"
// @Success 200 {object} dto.EstoqueResponse
// @Router /v1/estoque/{produto_id} [put]
func (h *EstoqueHandler) Definir(c *gin.Context) {
	id, ok := produtoID(c)
	if !ok {
		return
	}
	var req dto.DefinirEstoqueRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Definir(c.Request.Context(), id, req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Movimentar godoc
// @Summary Registra ajuste, troca, resto de gás ou devolução de embalagem
// @Tags estoque
// @Accept json
// @Produce json
// @Param produto_id path string true "Produto"
// @Param body body dto.MovimentarEstoqueRequest true "Movimentação"
// @Success 201 {object} dto.MovimentacaoEstoqueResultado
// @Failure 422 {object} apierror.APIError
// @Router /v1/estoque/{produto_id}/movimentacoes [post]
func (h *EstoqueHandler) Movimentar(c *gin.Context) {
	id, ok := produtoID(c)
	if !ok {
		return
	}
	var req dto.MovimentarEstoqueRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Movimentar(c.Request.Context(), id, req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
