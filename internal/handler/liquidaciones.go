package handler

import (
	"fmt"
	"net/http"

	"commet/internal/apierror"
	"commet/internal/dto"
	"commet/internal/infra"
	"commet/internal/service"

	"github.com/gin-gonic/gin"
)

type LiquidacionesHandler struct{ svc service.LiquidacionService }

func NewLiquidacionesHandler(svc service.LiquidacionService) *LiquidacionesHandler {
	return &LiquidacionesHandler{svc: svc}
}

// Crear godoc
// @Summary      Crear una liquidación
// @Description  Paga comisiones de un empleado en una transacción ACID: admite pagos parciales por línea, cierra contratos totalmente pagados y despacha el comprobante PDF asíncrono.
// @Tags         liquidaciones
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearLiquidacionRequest true "Empleado y líneas a liquidar"
// @Success      201  {object} dto.LiquidacionResponse
// @Failure      400  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/liquidaciones [post]
func (h *LiquidacionesHandler) Crear(c *gin.Context) {
	var req dto.CrearLiquidacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary      Listar liquidaciones
// @Tags         liquidaciones
// @Produce      json
// @Security     BearerAuth
// @Param        estado   query string false "activa | anulada | all (default all)"
// @Param        empleado query string false "UUID del empleado"
// @Param        desde    query string false "Fecha YYYY-MM-DD"
// @Param        hasta    query string false "Fecha YYYY-MM-DD"
// @Param        page     query int    false "Página (default 1)"
// @Param        limit    query int    false "Registros por página (default 50)"
// @Success      200      {object} dto.LiquidacionListResponse
// @Router       /v1/liquidaciones [get]
func (h *LiquidacionesHandler) Listar(c *gin.Context) {
	var filter dto.LiquidacionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Pendientes godoc
// @Summary      Comisiones pendientes agrupadas por empleado
// @Description  Base de trabajo para armar una liquidación: solo contratos en estado pagado con saldo de comisión.
// @Tags         liquidaciones
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.PendientesResponse
// @Router       /v1/liquidaciones/pendientes [get]
func (h *LiquidacionesHandler) Pendientes(c *gin.Context) {
	resp, err := h.svc.PendientesPorEmpleado(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RecalcularEstadisticas godoc
// @Summary      Reconciliar estadísticas de empleados
// @Description  Reconstruye los acumulados de cada empleado desde los contratos. Idempotente.
// @Tags         liquidaciones
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.RecalcularEstadisticasResponse
// @Router       /v1/liquidaciones/recalcular-estadisticas [post]
func (h *LiquidacionesHandler) RecalcularEstadisticas(c *gin.Context) {
	resp, err := h.svc.RecalcularEstadisticas(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener godoc
// @Summary      Obtener liquidación por ID
// @Tags         liquidaciones
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la liquidación"
// @Success      200 {object} dto.LiquidacionResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/liquidaciones/{id} [get]
func (h *LiquidacionesHandler) Obtener(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Comprobante godoc
// @Summary      Descargar el comprobante PDF
// @Description  Genera el comprobante bajo demanda y lo transmite directamente en la respuesta.
// @Tags         liquidaciones
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id path string true "UUID de la liquidación"
// @Success      200
// @Failure      404 {object} apierror.APIError
// @Router       /v1/liquidaciones/{id}/comprobante [get]
func (h *LiquidacionesHandler) Comprobante(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	liquidacion, err := h.svc.Comprobante(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	pdf := infra.BuildComprobantePDF(liquidacion)
	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition",
		fmt.Sprintf(`inline; filename="liquidacion_%s.pdf"`, liquidacion.Codigo))
	if err := pdf.Output(c.Writer); err != nil {
		_ = c.Error(err)
	}
}

// Anular godoc
// @Summary      Anular una liquidación
// @Description  Revierte el pago: las comisiones vuelven a pendiente, los contratos liquidados regresan a pagado y los acumulados del empleado se restauran.
// @Tags         liquidaciones
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID de la liquidación"
// @Param        body body dto.AnularLiquidacionRequest true "Motivo de anulación"
// @Success      200  {object} dto.LiquidacionResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/liquidaciones/{id} [delete]
func (h *LiquidacionesHandler) Anular(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.AnularLiquidacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Anular(c.Request.Context(), id, req.Motivo)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
