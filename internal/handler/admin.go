package handler

import (
	"net/http"

	"commet/internal/dto"
	"commet/internal/middleware"
	"commet/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type AdminHandler struct{ svc service.AdminService }

func NewAdminHandler(svc service.AdminService) *AdminHandler { return &AdminHandler{svc: svc} }

// ResetDatos godoc
// @Summary      Reiniciar todos los datos del negocio
// @Description  Borra contratos, liquidaciones, empleados, plantillas y empresas. Las cuentas de usuario se conservan. Requiere la frase de confirmación exacta.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.ResetDatosRequest true "Frase de confirmación: REINICIAR DATOS"
// @Success      200  {object} dto.ResetDatosResponse
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/admin/reset-datos [post]
func (h *AdminHandler) ResetDatos(c *gin.Context) {
	var req dto.ResetDatosRequest
	if !bindAndValidate(c, &req) {
		return
	}

	claims := middleware.GetClaims(c)
	resp, err := h.svc.ResetDatos(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	log.Warn().
		Str("usuario", claims.Username).
		Int64("contratos", resp.Contratos).
		Int64("liquidaciones", resp.Liquidaciones).
		Msg("datos del negocio reiniciados")
	c.JSON(http.StatusOK, resp)
}
