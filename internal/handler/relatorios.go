package handler

import (
	"fmt"
	"net/http"
	"time"

	"gasagua/internal/service"

	"github.com/gin-gonic/gin"
)

const mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type RelatoriosHandler struct{ svc service.RelatorioService }

func NewRelatoriosHandler(svc service.RelatorioService) *RelatoriosHandler {
	return &RelatoriosHandler{svc: svc}
}

// Diario godoc
// @Summary Resumo do dia
// @Tags relatorios
// @Produce json
// @Param data query string false "AAAA-MM-DD (padrão: hoje)"
// @Success 200 {object} dto.RelatorioDiarioResponse
// @Failure 422 {object} apierror.APIError
// @Router /v1/relatorios/diario [get]
func (h *RelatoriosHandler) Diario(c *gin.Context) {
	resp, err := h.svc.Diario(c.Request.Context(), c.Query("data"))
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DiarioXLSX godoc
// @Summary Exporta o resumo do dia em planilha
// @Tags relatorios
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param data query string false "AAAA-MM-DD (padrão: hoje)"
// @Success 200 {file} file
// @Router /v1/relatorios/diario/xlsx [get]
func (h *RelatoriosHandler) DiarioXLSX(c *gin.Context) {
	data := c.Query("data")
	conteudo, err := h.svc.ExportarXLSX(c.Request.Context(), data)
	if err != nil {
		responderErro(c, err)
		return
	}
	if data == "" {
		data = time.Now().Format("2006-01-02")
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="relatorio_%s.xlsx"`, data))
	c.Data(http.StatusOK, mimeXLSX, conteudo)
}
