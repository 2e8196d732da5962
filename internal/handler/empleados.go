package handler

import (
	"net/http"

	"commet/internal/apierror"
	"commet/internal/dto"
	"commet/internal/service"

	"github.com/gin-gonic/gin"
)

type EmpleadosHandler struct{ svc service.EmpleadoService }

func NewEmpleadosHandler(svc service.EmpleadoService) *EmpleadosHandler {
	return &EmpleadosHandler{svc: svc}
}

// Crear godoc
// @Summary      Registrar un empleado
// @Tags         empleados
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearEmpleadoRequest true "Datos del empleado"
// @Success      201  {object} dto.EmpleadoResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/empleados [post]
func (h *EmpleadosHandler) Crear(c *gin.Context) {
	var req dto.CrearEmpleadoRequest
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
// @Summary      Listar empleados
// @Tags         empleados
// @Produce      json
// @Security     BearerAuth
// @Param        activo query string false "true | false | all (default true)"
// @Param        buscar query string false "Nombre, código o email"
// @Param        page   query int    false "Página (default 1)"
// @Param        limit  query int    false "Registros por página (default 100)"
// @Success      200    {object} dto.EmpleadoListResponse
// @Router       /v1/empleados [get]
func (h *EmpleadosHandler) Listar(c *gin.Context) {
	var filter dto.EmpleadoFilter
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

// Obtener godoc
// @Summary      Obtener empleado por ID
// @Tags         empleados
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del empleado"
// @Success      200 {object} dto.EmpleadoResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/empleados/{id} [get]
func (h *EmpleadosHandler) Obtener(c *gin.Context) {
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

// Actualizar godoc
// @Summary      Actualizar un empleado
// @Tags         empleados
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID del empleado"
// @Param        body body dto.ActualizarEmpleadoRequest true "Campos a modificar"
// @Success      200  {object} dto.EmpleadoResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/empleados/{id} [put]
func (h *EmpleadosHandler) Actualizar(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarEmpleadoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Comisiones godoc
// @Summary      Detalle de comisiones de un empleado
// @Description  Libro de comisiones: una fila por participación con montos calculados, pagados y pendientes.
// @Tags         empleados
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del empleado"
// @Success      200 {object} dto.ComisionesEmpleadoResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/empleados/{id}/comisiones [get]
func (h *EmpleadosHandler) Comisiones(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Comisiones(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary      Eliminar un empleado
// @Description  Bloqueado si participa en contratos liquidados o tiene comisiones pagadas.
// @Tags         empleados
// @Security     BearerAuth
// @Param        id path string true "UUID del empleado"
// @Success      204
// @Failure      409 {object} apierror.APIError
// @Router       /v1/empleados/{id} [delete]
func (h *EmpleadosHandler) Eliminar(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
