package handler

import (
	"net/http"

	"commet/internal/apierror"
	"commet/internal/dto"
	"commet/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct{ svc service.DashboardService }

func NewDashboardHandler(svc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Resumen godoc
// @Summary      Resumen general del negocio
// @Description  Totales de contratos, cobros y comisiones. Respuesta cacheada brevemente en Redis.
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.ResumenResponse
// @Router       /v1/dashboard/resumen [get]
func (h *DashboardHandler) Resumen(c *gin.Context) {
	resp, err := h.svc.Resumen(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ConsolidadoEmpleados godoc
// @Summary      Consolidado de comisiones por empleado
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.ConsolidadoEmpleadosResponse
// @Router       /v1/dashboard/consolidado-empleados [get]
func (h *DashboardHandler) ConsolidadoEmpleados(c *gin.Context) {
	resp, err := h.svc.ConsolidadoEmpleados(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ConsolidadoContratos godoc
// @Summary      Consolidado de contratos por estado
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.ConsolidadoContratosResponse
// @Router       /v1/dashboard/consolidado-contratos [get]
func (h *DashboardHandler) ConsolidadoContratos(c *gin.Context) {
	resp, err := h.svc.ConsolidadoContratos(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HistorialLiquidaciones godoc
// @Summary      Historial de liquidaciones emitidas
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        estado   query string false "activa | anulada | all (default all)"
// @Param        empleado query string false "UUID del empleado"
// @Param        desde    query string false "Fecha YYYY-MM-DD"
// @Param        hasta    query string false "Fecha YYYY-MM-DD"
// @Param        page     query int    false "Página (default 1)"
// @Param        limit    query int    false "Registros por página (default 50)"
// @Success      200      {object} dto.HistorialLiquidacionesResponse
// @Router       /v1/dashboard/historial-liquidaciones [get]
func (h *DashboardHandler) HistorialLiquidaciones(c *gin.Context) {
	var filter dto.LiquidacionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.HistorialLiquidaciones(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
