package service

import (
	"time"

	"commet/internal/dto"
	"commet/internal/model"

	"github.com/google/uuid"
)

const fechaISO = "2006-01-02T15:04:05Z"

func strPtr(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func fechaPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(fechaISO)
	return &s
}

func contratoToResponse(c *model.Contrato) *dto.ContratoResponse {
	participantes := make([]dto.ParticipanteResponse, 0, len(c.Participantes))
	for i := range c.Participantes {
		participantes = append(participantes, *participanteToResponse(&c.Participantes[i]))
	}

	pagos := make([]dto.PagoContratoResponse, 0, len(c.HistorialPagos))
	for _, p := range c.HistorialPagos {
		pagos = append(pagos, dto.PagoContratoResponse{
			ID:          p.ID.String(),
			Monto:       p.Monto,
			Metodo:      p.Metodo,
			Referencia:  p.Referencia,
			Observacion: p.Observacion,
			Fecha:       p.Fecha.Format(fechaISO),
		})
	}

	estados := make([]dto.CambioEstadoResponse, 0, len(c.HistorialEstados))
	for _, h := range c.HistorialEstados {
		estados = append(estados, dto.CambioEstadoResponse{
			Estado:      h.Estado,
			Observacion: h.Observacion,
			Fecha:       h.Fecha.Format(fechaISO),
		})
	}

	return &dto.ContratoResponse{
		ID:        c.ID.String(),
		Codigo:    c.Codigo,
		EmpresaID: strPtr(c.EmpresaID),
		Tipo:      c.Tipo,
		Cliente: dto.ClienteResponse{
			Nombre:         c.ClienteNombre,
			Identificacion: c.ClienteIdentificacion,
			Telefono:       c.ClienteTelefono,
			Email:          c.ClienteEmail,
		},
		Fecha:            c.Fecha.Format(fechaISO),
		FechaVencimiento: fechaPtr(c.FechaVencimiento),
		Descripcion:      c.Descripcion,
		Observaciones:    c.Observaciones,
		MontoTotal:       c.MontoTotal,
		Deducciones:      c.Deducciones,
		MontoNeto:        c.MontoNeto,
		MontoPagado:      c.MontoPagado,
		SaldoPendiente:   c.MontoNeto.Sub(c.MontoPagado),
		Estado:           c.Estado,
		TotalComisiones:  c.TotalComisiones,
		MargenNeto:       c.MargenNeto,
		Participantes:    participantes,
		HistorialPagos:   pagos,
		HistorialEstados: estados,
		CreatedAt:        c.CreatedAt.Format(fechaISO),
		UpdatedAt:        c.UpdatedAt.Format(fechaISO),
	}
}

func participanteToResponse(p *model.Participante) *dto.ParticipanteResponse {
	nombre := ""
	if p.Empleado != nil {
		nombre = p.Empleado.Nombre
	}
	historial := make([]dto.PagoComisionResponse, 0, len(p.HistorialPagos))
	for _, pc := range p.HistorialPagos {
		historial = append(historial, dto.PagoComisionResponse{
			LiquidacionID:     pc.LiquidacionID.String(),
			LiquidacionCodigo: pc.LiquidacionCodigo,
			Monto:             pc.Monto,
			Fecha:             pc.Fecha.Format(fechaISO),
		})
	}
	return &dto.ParticipanteResponse{
		ID:                 p.ID.String(),
		EmpleadoID:         p.EmpleadoID.String(),
		EmpleadoNombre:     nombre,
		TipoComisionID:     strPtr(p.TipoComisionID),
		TipoComisionNombre: p.TipoComisionNombre,
		Comision: dto.ComisionResponse{
			Tipo:  p.Comision.Tipo,
			Valor: p.Comision.Valor,
		},
		ComisionEstimada:  p.ComisionEstimada,
		ComisionCalculada: p.ComisionCalculada,
		ComisionPagada:    p.ComisionPagada,
		ComisionPendiente: p.ComisionPendiente,
		EstadoComision:    p.EstadoComision,
		FechaPago:         fechaPtr(p.FechaPago),
		LiquidacionID:     strPtr(p.LiquidacionID),
		HistorialPagos:    historial,
	}
}

func empleadoToResponse(e *model.Empleado) *dto.EmpleadoResponse {
	base := e.ComisionPorDefecto()
	return &dto.EmpleadoResponse{
		ID:             e.ID.String(),
		Codigo:         e.Codigo,
		Nombre:         e.Nombre,
		Identificacion: e.Identificacion,
		Cargo:          e.Cargo,
		Email:          e.Email,
		Telefono:       e.Telefono,
		Activo:         e.Activo,
		ComisionBase:   dto.ComisionResponse{Tipo: base.Tipo, Valor: base.Valor},
		Estadisticas: dto.EstadisticasResponse{
			TotalGeneradas:     e.Estadisticas.TotalGeneradas,
			TotalPagadas:       e.Estadisticas.TotalPagadas,
			TotalPendientes:    e.Estadisticas.TotalPendientes,
			ContratosAsociados: e.Estadisticas.ContratosAsociados,
		},
		CreatedAt: e.CreatedAt.Format(fechaISO),
	}
}

func liquidacionToResponse(l *model.Liquidacion) *dto.LiquidacionResponse {
	nombre := ""
	if l.Empleado != nil {
		nombre = l.Empleado.Nombre
	}
	detalles := make([]dto.DetalleLiquidacionResponse, 0, len(l.Detalles))
	for _, d := range l.Detalles {
		previos := make([]dto.PagoPrevioResponse, 0, len(d.PagosPrevios))
		for _, pp := range d.PagosPrevios {
			previos = append(previos, dto.PagoPrevioResponse{
				LiquidacionCodigo: pp.LiquidacionCodigo,
				Monto:             pp.Monto,
				Fecha:             pp.Fecha.Format(fechaISO),
			})
		}
		detalles = append(detalles, dto.DetalleLiquidacionResponse{
			ContratoID:     d.ContratoID.String(),
			ParticipanteID: d.ParticipanteID.String(),
			ContratoCodigo: d.ContratoCodigo,
			ClienteNombre:  d.ClienteNombre,
			TipoComision:   d.TipoComision,
			ComisionTotal:  d.ComisionTotal,
			MontoPagado:    d.MontoPagado,
			SaldoPendiente: d.SaldoPendiente,
			PagoParcial:    d.PagoParcial,
			PagosPrevios:   previos,
		})
	}
	return &dto.LiquidacionResponse{
		ID:             l.ID.String(),
		Codigo:         l.Codigo,
		EmpleadoID:     l.EmpleadoID.String(),
		EmpleadoNombre: nombre,
		Fecha:          l.Fecha.Format(fechaISO),
		Total:          l.Total,
		Metodo:         l.Pago.Metodo,
		Referencia:     l.Pago.Referencia,
		Notas:          l.Pago.Notas,
		Empresa: dto.EmpresaSnapshotResponse{
			Nombre:         l.Empresa.Nombre,
			Identificacion: l.Empresa.Identificacion,
			Telefono:       l.Empresa.Telefono,
			Direccion:      l.Empresa.Direccion,
		},
		Estado:          l.Estado,
		AnulacionFecha:  fechaPtr(l.AnulacionFecha),
		AnulacionMotivo: l.AnulacionMotivo,
		Detalles:        detalles,
		CreatedAt:       l.CreatedAt.Format(fechaISO),
	}
}

func tipoComisionToResponse(t *model.TipoComision) *dto.TipoComisionResponse {
	return &dto.TipoComisionResponse{
		ID:          t.ID.String(),
		Nombre:      t.Nombre,
		Descripcion: t.Descripcion,
		Tipo:        t.Tipo,
		Valor:       t.Valor,
		AplicaA:     []string(t.AplicaA),
		Color:       t.Color,
		Activo:      t.Activo,
		Orden:       t.Orden,
	}
}

func empresaToResponse(e *model.Empresa) *dto.EmpresaResponse {
	return &dto.EmpresaResponse{
		ID:             e.ID.String(),
		Nombre:         e.Nombre,
		Identificacion: e.Identificacion,
		Telefono:       e.Telefono,
		Email:          e.Email,
		Direccion:      e.Direccion,
		Predeterminada: e.Predeterminada,
		Activa:         e.Activa,
	}
}

func usuarioToResponse(u *model.Usuario) dto.UsuarioResponse {
	return dto.UsuarioResponse{
		ID:       u.ID.String(),
		Username: u.Username,
		Nombre:   u.Nombre,
		Email:    u.Email,
		Rol:      u.Rol,
		Activo:   u.Activo,
	}
}
