package tests

import (
	"context"
	"strings"
	"testing"

	"commet/internal/apierror"
	"commet/internal/dto"
	"commet/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// liquidar builds a one-line settlement request for a participation.
func liquidar(t *testing.T, ts *testServices, empleadoID uuid.UUID, c *dto.ContratoResponse, monto *decimal.Decimal) (*dto.LiquidacionResponse, error) {
	t.Helper()
	return ts.liquidaciones.Crear(context.Background(), dto.CrearLiquidacionRequest{
		EmpleadoID: empleadoID.String(),
		Lineas: []dto.LineaLiquidacionRequest{
			{ContratoID: c.ID, ParticipanteID: c.Participantes[0].ID, Monto: monto},
		},
		Pago: dto.PagoLiquidacionRequest{Metodo: model.MetodoTransferencia},
	})
}

// ── Crear ─────────────────────────────────────────────────────────────────────

func TestCrearLiquidacion_PagoCompleto(t *testing.T) {
	ts := buildServices()
	emp := seedEmpleado(ts.empleadoRepo, "Laura Méndez")
	c := crearContrato(t, ts, emp.ID, 10000000,
		dto.ComisionRequest{Tipo: model.ComisionPorcentaje, Valor: decimal.NewFromInt(10)})
	c = marcarPagado(t, ts, c.ID)

	liq, err := liquidar(t, ts, emp.ID, c, nil)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(liq.Codigo, "LIQ-"))
	assert.Equal(t, model.LiquidacionActiva, liq.Estado)
	assert.Equal(t, "1000000", liq.Total.String())
	require.Len(t, liq.Detalles, 1)
	d := liq.Detalles[0]
	assert.Equal(t, c.Codigo, d.ContratoCodigo)
	assert.Equal(t, "1000000", d.MontoPagado.String())
	assert.Equal(t, "0", d.SaldoPendiente.String())
	assert.False(t, d.PagoParcial)
	assert.Empty(t, d.PagosPrevios)

	// el contrato pasa a liquidado y la participación queda pagada
	contrato := ts.contratoRepo.contratos[uuid.MustParse(c.ID)]
	assert.Equal(t, model.EstadoLiquidado, contrato.Estado)
	p := contrato.Participantes[0]
	assert.Equal(t, model.ComisionPagada, p.EstadoComision)
	require.NotNil(t, p.LiquidacionID)
	assert.Equal(t, liq.ID, p.LiquidacionID.String())
	require.Len(t, p.HistorialPagos, 1)
	assert.Equal(t, liq.Codigo, p.HistorialPagos[0].LiquidacionCodigo)

	stats := ts.empleadoRepo.empleados[emp.ID].Estadisticas
	assert.Equal(t, "1000000", stats.TotalPagadas.String())
	assert.Equal(t, "0", stats.TotalPendientes.String())
	assert.Equal(t, "1000000", stats.TotalGeneradas.String())
}

func TestCrearLiquidacion_PagoParcialYCompletado(t *testing.T) {
	ts := buildServices()
	emp := seedEmpleado(ts.empleadoRepo, "Laura Méndez")
	c := crearContrato(t, ts, emp.ID, 10000000,
		dto.ComisionRequest{Tipo: model.ComisionPorcentaje, Valor: decimal.NewFromInt(10)})
	c = marcarPagado(t, ts, c.ID)

	parcial := decimal.NewFromInt(400000)
	primera, err := liquidar(t, ts, emp.ID, c, &parcial)
	require.NoError(t, err)

	assert.Equal(t, "400000", primera.Total.String())
	d := primera.Detalles[0]
	assert.True(t, d.PagoParcial)
	assert.Equal(t, "600000", d.SaldoPendiente.String())

	// el contrato sigue pagado (no liquidado) mientras quede saldo
	contrato := ts.contratoRepo.contratos[uuid.MustParse(c.ID)]
	assert.Equal(t, model.EstadoPagado, contrato.Estado)
	assert.Equal(t, model.ComisionParcial, contrato.Participantes[0].EstadoComision)

	// la segunda liquidación paga el resto y arrastra el historial
	segunda, err := liquidar(t, ts, emp.ID, c, nil)
	require.NoError(t, err)
	assert.Equal(t, "600000", segunda.Total.String())
	require.Len(t, segunda.Detalles[0].PagosPrevios, 1)
	assert.Equal(t, primera.Codigo, segunda.Detalles[0].PagosPrevios[0].LiquidacionCodigo)
	assert.Equal(t, "400000", segunda.Detalles[0].PagosPrevios[0].Monto.String())

	assert.Equal(t, model.EstadoLiquidado, contrato.Estado)
	stats := ts.empleadoRepo.empleados[emp.ID].Estadisticas
	assert.Equal(t, "1000000", stats.TotalPagadas.String())
	assert.Equal(t, "0", stats.TotalPendientes.String())
}

func TestCrearLiquidacion_MontoMayorQueSaldoPagaElSaldo(t *testing.T) {
	ts := buildServices()
	emp := seedEmpleado(ts.empleadoRepo, "Laura Méndez")
	c := crearContrato(t, ts, emp.ID, 10000000,
		dto.ComisionRequest{Tipo: model.ComisionPorcentaje, Valor: decimal.NewFromInt(10)})
	c = marcarPagado(t, ts, c.ID)

	exceso := decimal.NewFromInt(2000000)
	liq, err := liquidar(t, ts, emp.ID, c, &exceso)
	require.NoError(t, err)
	assert.Equal(t, "1000000", liq.Total.String())
	assert.False(t, liq.Detalles[0].PagoParcial)
}

func TestCrearLiquidacion_ContratoNoPagado(t *testing.T) {
	ts := buildServices()
	emp := seedEmpleado(ts.empleadoRepo, "Laura Méndez")
	c := crearContrato(t, ts, emp.ID, 10000000,
		dto.ComisionRequest{Tipo: model.ComisionPorcentaje, Valor: decimal.NewFromInt(10)})

	_, err := liquidar(t, ts, emp.ID, c, nil)
	assert.Equal(t, apierror.KindContratoNoPagado, apierror.KindOf(err))
}

func TestCrearLiquidacion_ComisionYaPagada(t *testing.T) {
	ts := buildServices()
	emp := seedEmpleado(ts.empleadoRepo, "Laura Méndez")
	c := crearContrato(t, ts, emp.ID, 10000000,
		dto.ComisionRequest{Tipo: model.ComisionPorcentaje, Valor: decimal.NewFromInt(10)})
	c = marcarPagado(t, ts, c.ID)

	_, err := liquidar(t, ts, emp.ID, c, nil)
	require.NoError(t, err)

	// el contrato quedó liquidado, ni siquiera llega al chequeo de saldo
	_, err = liquidar(t, ts, emp.ID, c, nil)
	assert.Equal(t, apierror.KindContratoNoPagado, apierror.KindOf(err))
}

func TestCrearLiquidacion_SaldoCeroEnLinea(t *testing.T) {
	ts := buildServices()
	emp := seedEmpleado(ts.empleadoRepo, "Laura Méndez")
	otro := seedEmpleado(ts.empleadoRepo, "Jorge Paredes")

	fija := dto.ComisionRequest{Tipo: model.ComisionFija, Valor: decimal.NewFromInt(100)}
	otra := dto.ComisionRequest{Tipo: model.ComisionFija, Valor: decimal.NewFromInt(50)}
	c, err := ts.contratos.Crear(context.Background(), dto.CrearContratoRequest{
		Tipo:       model.TipoVentaDirecta,
		Cliente:    dto.ClienteRequest{Nombre: "Constructora Andina"},
		MontoTotal: decimal.NewFromInt(10000),
		Participantes: []dto.ParticipanteRequest{
			{EmpleadoID: emp.ID.String(), Comision: &fija},
			{EmpleadoID: otro.ID.String(), Comision: &otra},
		},
	})
	require.NoError(t, err)
	c = marcarPagado(t, ts, c.ID)

	// liquidar la participación de emp por completo
	_, err = liquidar(t, ts, emp.ID, c, nil)
	require.NoError(t, err)

	// volver a liquidarla: la línea sin saldo se omite y no queda nada
	_, err = liquidar(t, ts, emp.ID, c, nil)
	assert.Equal(t, apierror.KindNadaPorLiquidar, apierror.KindOf(err))
}

func TestCrearLiquidacion_LineaYaPagadaSeOmite(t *testing.T) {
	ts := buildServices()
	emp := seedEmpleado(ts.empleadoRepo, "Laura Méndez")

	// el mismo empleado con dos comisiones fijas distintas en un contrato
	alta := dto.ComisionRequest{Tipo: model.ComisionFija, Valor: decimal.NewFromInt(100)}
	baja := dto.ComisionRequest{Tipo: model.ComisionFija, Valor: decimal.NewFromInt(50)}
	c, err := ts.contratos.Crear(context.Background(), dto.CrearContratoRequest{
		Tipo:       model.TipoVentaDirecta,
		Cliente:    dto.ClienteRequest{Nombre: "Constructora Andina"},
		MontoTotal: decimal.NewFromInt(10000),
		Participantes: []dto.ParticipanteRequest{
			{EmpleadoID: emp.ID.String(), Comision: &alta},
			{EmpleadoID: emp.ID.String(), Comision: &baja},
		},
	})
	require.NoError(t, err)
	c = marcarPagado(t, ts, c.ID)

	// primera liquidación: solo la participación de 100
	_, err = ts.liquidaciones.Crear(context.Background(), dto.CrearLiquidacionRequest{
		EmpleadoID: emp.ID.String(),
		Lineas: []dto.LineaLiquidacionRequest{
			{ContratoID: c.ID, ParticipanteID: c.Participantes[0].ID},
		},
		Pago: dto.PagoLiquidacionRequest{Metodo: model.MetodoTransferencia},
	})
	require.NoError(t, err)

	// segunda liquidación pide ambas líneas: la ya pagada se filtra en
	// silencio y se liquida el saldo restante de la otra
	liq, err := ts.liquidaciones.Crear(context.Background(), dto.CrearLiquidacionRequest{
		EmpleadoID: emp.ID.String(),
		Lineas: []dto.LineaLiquidacionRequest{
			{ContratoID: c.ID, ParticipanteID: c.Participantes[0].ID},
			{ContratoID: c.ID, ParticipanteID: c.Participantes[1].ID},
		},
		Pago: dto.PagoLiquidacionRequest{Metodo: model.MetodoTransferencia},
	})
	require.NoError(t, err)
	assert.Equal(t, "50", liq.Total.String())
	require.Len(t, liq.Detalles, 1)
	assert.Equal(t, "50", liq.Detalles[0].MontoPagado.String())

	contrato := ts.contratoRepo.contratos[uuid.MustParse(c.ID)]
	assert.Equal(t, model.EstadoLiquidado, contrato.Estado)
}

func TestCrearLiquidacion_ParticipanteInexistenteSeOmite(t *testing.T) {
	ts := buildServices()
	emp := seedEmpleado(ts.empleadoRepo, "Laura Méndez")
	c := crearContrato(t, ts, emp.ID, 10000,
		dto.ComisionRequest{Tipo: model.ComisionPorcentaje, Valor: decimal.NewFromInt(10)})
	c = marcarPagado(t, ts, c.ID)

	liq, err := ts.liquidaciones.Crear(context.Background(), dto.CrearLiquidacionRequest{
		EmpleadoID: emp.ID.String(),
		Lineas: []dto.LineaLiquidacionRequest{
			{ContratoID: c.ID, ParticipanteID: uuid.New().String()},
			{ContratoID: c.ID, ParticipanteID: c.Participantes[0].ID},
		},
		Pago: dto.PagoLiquidacionRequest{Metodo: model.MetodoTransferencia},
	})
	require.NoError(t, err)
	assert.Equal(t, "1000", liq.Total.String())
	require.Len(t, liq.Detalles, 1)
}

func TestCrearLiquidacion_ParticipanteDeOtroEmpleado(t *testing.T) {
	ts := buildServices()
	emp := seedEmpleado(ts.empleadoRepo, "Laura Méndez")
	otro := seedEmpleado(ts.empleadoRepo, "Jorge Paredes")
	c := crearContrato(t, ts, emp.ID, 10000,
		dto.ComisionRequest{Tipo: model.ComisionFija, Valor: decimal.NewFromInt(100)})
	c = marcarPagado(t, ts, c.ID)

	// la línea pertenece a emp, pero la liquidación es para otro
	_, err := liquidar(t, ts, otro.ID, c, nil)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
	assert.ErrorContains(t, err, "otro empleado")
}

func TestCrearLiquidacion_EmpleadoInexistente(t *testing.T) {
	ts := buildServices()
	_, err := ts.liquidaciones.Crear(context.Background(), dto.CrearLiquidacionRequest{
		EmpleadoID: uuid.NewString(),
		Lineas: []dto.LineaLiquidacionRequest{
			{ContratoID: uuid.NewString(), ParticipanteID: uuid.NewString()},
		},
		Pago: dto.PagoLiquidacionRequest{Metodo: model.MetodoEfectivo},
	})
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
}

func TestCrearLiquidacion_EmpresaPredeterminadaEnSnapshot(t *testing.T) {
	ts := buildServices()
	nombre := "COMMET SAS"
	ident := "900123456-7"
	empresa := &model.Empresa{
		ID:             uuid.New(),
		Nombre:         nombre,
		Identificacion: &ident,
		Predeterminada: true,
		Activa:         true,
	}
	ts.empresaRepo.empresas[empresa.ID] = empresa
	emp := seedEmpleado(ts.empleadoRepo, "Laura Méndez")
	c := crearContrato(t, ts, emp.ID, 10000,
		dto.ComisionRequest{Tipo: model.ComisionFija, Valor: decimal.NewFromInt(100)})
	c = marcarPagado(t, ts, c.ID)

	liq, err := liquidar(t, ts, emp.ID, c, nil)
	require.NoError(t, err)
	require.NotNil(t, liq.Empresa.Nombre)
	assert.Equal(t, nombre, *liq.Empresa.Nombre)
	require.NotNil(t, liq.Empresa.Identificacion)
	assert.Equal(t, ident, *liq.Empresa.Identificacion)
}

// ── Anular ────────────────────────────────────────────────────────────────────

func TestAnularLiquidacion_RestauraTodo(t *testing.T) {
	ts := buildServices()
	emp := seedEmpleado(ts.empleadoRepo, "Laura Méndez")
	c := crearContrato(t, ts, emp.ID, 10000000,
		dto.ComisionRequest{Tipo: model.ComisionPorcentaje, Valor: decimal.NewFromInt(10)})
	c = marcarPagado(t, ts, c.ID)

	liq, err := liquidar(t, ts, emp.ID, c, nil)
	require.NoError(t, err)

	resp, err := ts.liquidaciones.Anular(context.Background(), uuid.MustParse(liq.ID),
		"monto equivocado en la carga")
	require.NoError(t, err)
	assert.Equal(t, model.LiquidacionAnulada, resp.Estado)
	require.NotNil(t, resp.AnulacionMotivo)
	assert.Equal(t, "monto equivocado en la carga", *resp.AnulacionMotivo)
	assert.NotNil(t, resp.AnulacionFecha)

	// el contrato vuelve a pagado y la participación a pendiente
	contrato := ts.contratoRepo.contratos[uuid.MustParse(c.ID)]
	assert.Equal(t, model.EstadoPagado, contrato.Estado)
	p := contrato.Participantes[0]
	assert.Equal(t, model.ComisionPendiente, p.EstadoComision)
	assert.Equal(t, "0", p.ComisionPagada.String())
	assert.Equal(t, "1000000", p.ComisionPendiente.String())
	assert.Nil(t, p.LiquidacionID)
	assert.Nil(t, p.FechaPago)
	assert.Empty(t, p.HistorialPagos)

	stats := ts.empleadoRepo.empleados[emp.ID].Estadisticas
	assert.Equal(t, "0", stats.TotalPagadas.String())
	assert.Equal(t, "1000000", stats.TotalPendientes.String())
}

func TestAnularLiquidacion_ParcialDejaParcial(t *testing.T) {
	ts := buildServices()
	emp := seedEmpleado(ts.empleadoRepo, "Laura Méndez")
	c := crearContrato(t, ts, emp.ID, 10000000,
		dto.ComisionRequest{Tipo: model.ComisionPorcentaje, Valor: decimal.NewFromInt(10)})
	c = marcarPagado(t, ts, c.ID)

	parcial := decimal.NewFromInt(400000)
	_, err := liquidar(t, ts, emp.ID, c, &parcial)
	require.NoError(t, err)
	segunda, err := liquidar(t, ts, emp.ID, c, nil)
	require.NoError(t, err)

	// anular solo la segunda: la primera sigue pagada, el resto vuelve a deberse
	_, err = ts.liquidaciones.Anular(context.Background(), uuid.MustParse(segunda.ID),
		"se liquidó dos veces")
	require.NoError(t, err)

	contrato := ts.contratoRepo.contratos[uuid.MustParse(c.ID)]
	assert.Equal(t, model.EstadoPagado, contrato.Estado)
	p := contrato.Participantes[0]
	assert.Equal(t, model.ComisionParcial, p.EstadoComision)
	assert.Equal(t, "400000", p.ComisionPagada.String())
	assert.Equal(t, "600000", p.ComisionPendiente.String())
	require.Len(t, p.HistorialPagos, 1)

	stats := ts.empleadoRepo.empleados[emp.ID].Estadisticas
	assert.Equal(t, "400000", stats.TotalPagadas.String())
	assert.Equal(t, "600000", stats.TotalPendientes.String())
}

func TestAnularLiquidacion_MotivoRequerido(t *testing.T) {
	ts := buildServices()
	_, err := ts.liquidaciones.Anular(context.Background(), uuid.New(), "")
	assert.Equal(t, apierror.KindMotivoRequerido, apierror.KindOf(err))
}

func TestAnularLiquidacion_DobleAnulacion(t *testing.T) {
	ts := buildServices()
	emp := seedEmpleado(ts.empleadoRepo, "Laura Méndez")
	c := crearContrato(t, ts, emp.ID, 10000,
		dto.ComisionRequest{Tipo: model.ComisionFija, Valor: decimal.NewFromInt(100)})
	c = marcarPagado(t, ts, c.ID)
	liq, err := liquidar(t, ts, emp.ID, c, nil)
	require.NoError(t, err)

	_, err = ts.liquidaciones.Anular(context.Background(), uuid.MustParse(liq.ID), "motivo uno")
	require.NoError(t, err)
	_, err = ts.liquidaciones.Anular(context.Background(), uuid.MustParse(liq.ID), "motivo dos")
	assert.Equal(t, apierror.KindYaAnulada, apierror.KindOf(err))
}

// ── Pendientes / estadísticas ─────────────────────────────────────────────────

func TestPendientesPorEmpleado(t *testing.T) {
	ts := buildServices()
	emp := seedEmpleado(ts.empleadoRepo, "Laura Méndez")
	sinDeuda := seedEmpleado(ts.empleadoRepo, "Jorge Paredes")
	_ = sinDeuda

	c := crearContrato(t, ts, emp.ID, 10000000,
		dto.ComisionRequest{Tipo: model.ComisionPorcentaje, Valor: decimal.NewFromInt(10)})
	marcarPagado(t, ts, c.ID)

	resp, err := ts.liquidaciones.PendientesPorEmpleado(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	item := resp.Data[0]
	assert.Equal(t, emp.ID.String(), item.Empleado.ID)
	assert.Equal(t, "1000000", item.TotalPendiente.String())
	require.Len(t, item.Comisiones, 1)
	assert.Equal(t, c.Codigo, item.Comisiones[0].ContratoCodigo)
}

func TestRecalcularEstadisticas_ReparaDrift(t *testing.T) {
	ts := buildServices()
	emp := seedEmpleado(ts.empleadoRepo, "Laura Méndez")
	c := crearContrato(t, ts, emp.ID, 10000000,
		dto.ComisionRequest{Tipo: model.ComisionPorcentaje, Valor: decimal.NewFromInt(10)})
	c = marcarPagado(t, ts, c.ID)

	parcial := decimal.NewFromInt(400000)
	_, err := liquidar(t, ts, emp.ID, c, &parcial)
	require.NoError(t, err)

	// corromper los contadores a propósito
	ts.empleadoRepo.empleados[emp.ID].Estadisticas = model.Estadisticas{
		TotalGeneradas:     decimal.NewFromInt(99),
		TotalPagadas:       decimal.NewFromInt(99),
		TotalPendientes:    decimal.NewFromInt(99),
		ContratosAsociados: 7,
	}

	resp, err := ts.liquidaciones.RecalcularEstadisticas(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, resp.EmpleadosActualizados)

	stats := ts.empleadoRepo.empleados[emp.ID].Estadisticas
	assert.Equal(t, "400000", stats.TotalPagadas.String())
	assert.Equal(t, "600000", stats.TotalPendientes.String())
	assert.Equal(t, "1000000", stats.TotalGeneradas.String())
	assert.Equal(t, 1, stats.ContratosAsociados)

	// la pasada es idempotente: repetirla no mueve los contadores
	_, err = ts.liquidaciones.RecalcularEstadisticas(context.Background())
	require.NoError(t, err)
	repetida := ts.empleadoRepo.empleados[emp.ID].Estadisticas
	assert.True(t, stats.TotalPagadas.Equal(repetida.TotalPagadas))
	assert.True(t, stats.TotalPendientes.Equal(repetida.TotalPendientes))
	assert.True(t, stats.TotalGeneradas.Equal(repetida.TotalGeneradas))
	assert.Equal(t, stats.ContratosAsociados, repetida.ContratosAsociados)
}
