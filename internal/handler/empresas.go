package handler

import (
	"net/http"

	"commet/internal/dto"
	"commet/internal/service"

	"github.com/gin-gonic/gin"
)

type EmpresasHandler struct{ svc service.EmpresaService }

func NewEmpresasHandler(svc service.EmpresaService) *EmpresasHandler {
	return &EmpresasHandler{svc: svc}
}

// Crear godoc
// @Summary      Registrar una empresa emisora
// @Tags         empresas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearEmpresaRequest true "Datos de la empresa"
// @Success      201  {object} dto.EmpresaResponse
// @Router       /v1/empresas [post]
func (h *EmpresasHandler) Crear(c *gin.Context) {
	var req dto.CrearEmpresaRequest
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
// @Summary      Listar empresas
// @Tags         empresas
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.EmpresaResponse
// @Router       /v1/empresas [get]
func (h *EmpresasHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener godoc
// @Summary      Obtener empresa por ID
// @Tags         empresas
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la empresa"
// @Success      200 {object} dto.EmpresaResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/empresas/{id} [get]
func (h *EmpresasHandler) Obtener(c *gin.Context) {
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
// @Summary      Actualizar una empresa
// @Description  Marcar una empresa como predeterminada desmarca la anterior. Los comprobantes emitidos conservan su snapshot.
// @Tags         empresas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID de la empresa"
// @Param        body body dto.ActualizarEmpresaRequest true "Campos a modificar"
// @Success      200  {object} dto.EmpresaResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/empresas/{id} [put]
func (h *EmpresasHandler) Actualizar(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarEmpresaRequest
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

// Eliminar godoc
// @Summary      Eliminar una empresa
// @Tags         empresas
// @Security     BearerAuth
// @Param        id path string true "UUID de la empresa"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/empresas/{id} [delete]
func (h *EmpresasHandler) Eliminar(c *gin.Context) {
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
