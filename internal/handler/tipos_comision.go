package handler

import (
	"net/http"

	"commet/internal/dto"
	"commet/internal/service"

	"github.com/gin-gonic/gin"
)

type TiposComisionHandler struct{ svc service.TipoComisionService }

func NewTiposComisionHandler(svc service.TipoComisionService) *TiposComisionHandler {
	return &TiposComisionHandler{svc: svc}
}

// Crear godoc
// @Summary      Crear una plantilla de comisión
// @Tags         tipos-comision
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearTipoComisionRequest true "Plantilla"
// @Success      201  {object} dto.TipoComisionResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/tipos-comision [post]
func (h *TiposComisionHandler) Crear(c *gin.Context) {
	var req dto.CrearTipoComisionRequest
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
// @Summary      Listar plantillas de comisión
// @Tags         tipos-comision
// @Produce      json
// @Security     BearerAuth
// @Param        incluir_inactivos query bool false "Incluir plantillas desactivadas"
// @Success      200 {array} dto.TipoComisionResponse
// @Router       /v1/tipos-comision [get]
func (h *TiposComisionHandler) Listar(c *gin.Context) {
	incluirInactivos := c.Query("incluir_inactivos") == "true"
	resp, err := h.svc.Listar(c.Request.Context(), incluirInactivos)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Reordenar godoc
// @Summary      Reordenar plantillas
// @Description  Las plantillas listadas toman las primeras posiciones en el orden dado; las no listadas conservan su orden relativo a continuación.
// @Tags         tipos-comision
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.ReordenarTiposRequest true "IDs en el orden deseado"
// @Success      200 {array} dto.TipoComisionResponse
// @Router       /v1/tipos-comision/reordenar [put]
func (h *TiposComisionHandler) Reordenar(c *gin.Context) {
	var req dto.ReordenarTiposRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Reordenar(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener godoc
// @Summary      Obtener plantilla por ID
// @Tags         tipos-comision
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la plantilla"
// @Success      200 {object} dto.TipoComisionResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/tipos-comision/{id} [get]
func (h *TiposComisionHandler) Obtener(c *gin.Context) {
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
// @Summary      Actualizar una plantilla
// @Description  Los contratos existentes conservan los valores copiados al momento de su creación.
// @Tags         tipos-comision
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID de la plantilla"
// @Param        body body dto.ActualizarTipoComisionRequest true "Campos a modificar"
// @Success      200  {object} dto.TipoComisionResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/tipos-comision/{id} [put]
func (h *TiposComisionHandler) Actualizar(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarTipoComisionRequest
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
// @Summary      Eliminar una plantilla
// @Description  Bloqueado si la referencia algún contrato liquidado; en los demás contratos la referencia se desvincula conservando los valores copiados.
// @Tags         tipos-comision
// @Security     BearerAuth
// @Param        id path string true "UUID de la plantilla"
// @Success      204
// @Failure      409 {object} apierror.APIError
// @Router       /v1/tipos-comision/{id} [delete]
func (h *TiposComisionHandler) Eliminar(c *gin.Context) {
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
