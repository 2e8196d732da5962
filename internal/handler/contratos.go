package handler

import (
	"net/http"

	"commet/internal/apierror"
	"commet/internal/dto"
	"commet/internal/service"

	"github.com/gin-gonic/gin"
)

type ContratosHandler struct{ svc service.ContratoService }

func NewContratosHandler(svc service.ContratoService) *ContratosHandler {
	return &ContratosHandler{svc: svc}
}

// Crear godoc
// @Summary      Registrar un nuevo contrato
// @Description  Crea un contrato con sus participantes y calcula las comisiones estimadas.
// @Tags         contratos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearContratoRequest true "Datos del contrato"
// @Success      201  {object} dto.ContratoResponse
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/contratos [post]
func (h *ContratosHandler) Crear(c *gin.Context) {
	var req dto.CrearContratoRequest
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
// @Summary      Listar contratos
// @Description  Lista paginada con filtros por estado, tipo, empleado participante y búsqueda por código o cliente.
// @Tags         contratos
// @Produce      json
// @Security     BearerAuth
// @Param        estado   query string false "registrado | pago_parcial | pagado | liquidado | cancelado | all"
// @Param        tipo     query string false "venta_directa | contrato | proyecto"
// @Param        empleado query string false "UUID del empleado participante"
// @Param        buscar   query string false "Código o nombre del cliente"
// @Param        page     query int    false "Página (default 1)"
// @Param        limit    query int    false "Registros por página (default 50)"
// @Success      200      {object} dto.ContratoListResponse
// @Router       /v1/contratos [get]
func (h *ContratosHandler) Listar(c *gin.Context) {
	var filter dto.ContratoFilter
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

// GenerarCodigo godoc
// @Summary      Previsualizar el próximo código de contrato
// @Tags         contratos
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.CodigoResponse
// @Router       /v1/contratos/generar-codigo [get]
func (h *ContratosHandler) GenerarCodigo(c *gin.Context) {
	resp, err := h.svc.GenerarCodigo(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// VerificarCodigo godoc
// @Summary      Verificar disponibilidad de un código
// @Tags         contratos
// @Produce      json
// @Security     BearerAuth
// @Param        codigo path string true "Código a verificar"
// @Success      200 {object} dto.VerificarCodigoResponse
// @Router       /v1/contratos/verificar-codigo/{codigo} [get]
func (h *ContratosHandler) VerificarCodigo(c *gin.Context) {
	resp, err := h.svc.VerificarCodigo(c.Request.Context(), c.Param("codigo"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener godoc
// @Summary      Obtener contrato por ID
// @Tags         contratos
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del contrato"
// @Success      200 {object} dto.ContratoResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/contratos/{id} [get]
func (h *ContratosHandler) Obtener(c *gin.Context) {
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
// @Summary      Actualizar datos de un contrato
// @Description  Solo contratos abiertos. Cambios de montos o participantes recalculan comisiones.
// @Tags         contratos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID del contrato"
// @Param        body body dto.ActualizarContratoRequest true "Campos a modificar"
// @Success      200  {object} dto.ContratoResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/contratos/{id} [put]
func (h *ContratosHandler) Actualizar(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarContratoRequest
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
// @Summary      Eliminar un contrato
// @Description  Bloqueado para contratos liquidados o con comisiones pagadas.
// @Tags         contratos
// @Security     BearerAuth
// @Param        id path string true "UUID del contrato"
// @Success      204
// @Failure      409 {object} apierror.APIError
// @Router       /v1/contratos/{id} [delete]
func (h *ContratosHandler) Eliminar(c *gin.Context) {
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

// CambiarEstado godoc
// @Summary      Transicionar el estado de un contrato
// @Description  Aplica la máquina de estados. "liquidado" no es alcanzable por esta vía: se llega únicamente creando una liquidación.
// @Tags         contratos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID del contrato"
// @Param        body body dto.CambiarEstadoRequest true "Nuevo estado"
// @Success      200  {object} dto.ContratoResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/contratos/{id}/estado [patch]
func (h *ContratosHandler) CambiarEstado(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.CambiarEstadoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CambiarEstado(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RegistrarPago godoc
// @Summary      Registrar un pago del cliente
// @Description  Acumula el pago, ajusta comisiones proporcionales y transiciona a pago_parcial o pagado según el saldo.
// @Tags         contratos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID del contrato"
// @Param        body body dto.RegistrarPagoContratoRequest true "Monto y método"
// @Success      200  {object} dto.ContratoResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/contratos/{id}/pagos [post]
func (h *ContratosHandler) RegistrarPago(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.RegistrarPagoContratoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarPago(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AgregarParticipante godoc
// @Summary      Agregar un participante al contrato
// @Tags         contratos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID del contrato"
// @Param        body body dto.ParticipanteRequest true "Empleado y comisión"
// @Success      200  {object} dto.ContratoResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/contratos/{id}/participantes [post]
func (h *ContratosHandler) AgregarParticipante(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ParticipanteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AgregarParticipante(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// EliminarParticipante godoc
// @Summary      Quitar un participante del contrato
// @Description  Bloqueado si la comisión del participante ya fue pagada.
// @Tags         contratos
// @Produce      json
// @Security     BearerAuth
// @Param        id            path string true "UUID del contrato"
// @Param        participante  path string true "UUID del participante"
// @Success      200 {object} dto.ContratoResponse
// @Failure      409 {object} apierror.APIError
// @Router       /v1/contratos/{id}/participantes/{participante} [delete]
func (h *ContratosHandler) EliminarParticipante(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	participanteID, ok := pathID(c, "participante")
	if !ok {
		return
	}
	resp, err := h.svc.EliminarParticipante(c.Request.Context(), id, participanteID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
