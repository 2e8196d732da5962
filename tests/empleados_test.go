package tests

import (
	"context"
	"testing"

	"commet/internal/apierror"
	"commet/internal/dto"
	"commet/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrearEmpleado_CodigoSecuencial(t *testing.T) {
	ts := buildServices()

	primero, err := ts.empleados.Crear(context.Background(),
		dto.CrearEmpleadoRequest{Nombre: "Laura Méndez", Identificacion: "CC-1000001"})
	require.NoError(t, err)
	assert.Equal(t, "EMP-0001", primero.Codigo)
	assert.True(t, primero.Activo)

	segundo, err := ts.empleados.Crear(context.Background(),
		dto.CrearEmpleadoRequest{Nombre: "Jorge Paredes", Identificacion: "CC-1000002"})
	require.NoError(t, err)
	assert.Equal(t, "EMP-0002", segundo.Codigo)
}

func TestCrearEmpleado_CodigoDuplicado(t *testing.T) {
	ts := buildServices()
	seedEmpleado(ts.empleadoRepo, "Laura Méndez") // toma EMP-0001

	codigo := "EMP-0001"
	_, err := ts.empleados.Crear(context.Background(), dto.CrearEmpleadoRequest{
		Codigo:         &codigo,
		Nombre:         "Jorge Paredes",
		Identificacion: "CC-2000001",
	})
	assert.Equal(t, apierror.KindDuplicateKey, apierror.KindOf(err))
}

func TestCrearEmpleado_IdentificacionDuplicada(t *testing.T) {
	ts := buildServices()
	emp := seedEmpleado(ts.empleadoRepo, "Laura Méndez")

	_, err := ts.empleados.Crear(context.Background(), dto.CrearEmpleadoRequest{
		Nombre:         "Jorge Paredes",
		Identificacion: emp.Identificacion,
	})
	assert.Equal(t, apierror.KindDuplicateKey, apierror.KindOf(err))
	assert.ErrorContains(t, err, "identificación")

	// actualizar hacia una identificación ajena también rebota
	otro, err := ts.empleados.Crear(context.Background(), dto.CrearEmpleadoRequest{
		Nombre:         "Jorge Paredes",
		Identificacion: "CC-3000001",
	})
	require.NoError(t, err)
	_, err = ts.empleados.Actualizar(context.Background(), uuid.MustParse(otro.ID),
		dto.ActualizarEmpleadoRequest{Identificacion: &emp.Identificacion})
	assert.Equal(t, apierror.KindDuplicateKey, apierror.KindOf(err))
}

func TestActualizarEmpleado_Desactivar(t *testing.T) {
	ts := buildServices()
	emp := seedEmpleado(ts.empleadoRepo, "Laura Méndez")

	inactivo := false
	resp, err := ts.empleados.Actualizar(context.Background(), emp.ID,
		dto.ActualizarEmpleadoRequest{Activo: &inactivo})
	require.NoError(t, err)
	assert.False(t, resp.Activo)

	// un inactivo ya no puede entrar a contratos nuevos
	comision := dto.ComisionRequest{Tipo: model.ComisionFija, Valor: decimal.NewFromInt(100)}
	_, err = ts.contratos.Crear(context.Background(), dto.CrearContratoRequest{
		Tipo:       model.TipoVentaDirecta,
		Cliente:    dto.ClienteRequest{Nombre: "Constructora Andina"},
		MontoTotal: decimal.NewFromInt(1000),
		Participantes: []dto.ParticipanteRequest{
			{EmpleadoID: emp.ID.String(), Comision: &comision},
		},
	})
	assert.ErrorContains(t, err, "inactivo")
}

func TestEliminarEmpleado_ContratoLiquidadoBloquea(t *testing.T) {
	ts := buildServices()
	emp := seedEmpleado(ts.empleadoRepo, "Laura Méndez")
	c := crearContrato(t, ts, emp.ID, 10000,
		dto.ComisionRequest{Tipo: model.ComisionFija, Valor: decimal.NewFromInt(100)})
	c = marcarPagado(t, ts, c.ID)
	_, err := liquidar(t, ts, emp.ID, c, nil)
	require.NoError(t, err)

	err = ts.empleados.Eliminar(context.Background(), emp.ID)
	assert.Equal(t, apierror.KindReferenciadoLiquidado, apierror.KindOf(err))
}

func TestEliminarEmpleado_ComisionPagadaBloquea(t *testing.T) {
	ts := buildServices()
	emp := seedEmpleado(ts.empleadoRepo, "Laura Méndez")
	c := crearContrato(t, ts, emp.ID, 10000000,
		dto.ComisionRequest{Tipo: model.ComisionPorcentaje, Valor: decimal.NewFromInt(10)})
	c = marcarPagado(t, ts, c.ID)

	// liquidación parcial: el contrato sigue pagado pero ya hay plata entregada
	parcial := decimal.NewFromInt(300000)
	_, err := liquidar(t, ts, emp.ID, c, &parcial)
	require.NoError(t, err)

	err = ts.empleados.Eliminar(context.Background(), emp.ID)
	assert.Equal(t, apierror.KindComisionYaPagada, apierror.KindOf(err))
}

func TestEliminarEmpleado_QuitaParticipaciones(t *testing.T) {
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
	require.Equal(t, "150", c.TotalComisiones.String())

	err = ts.empleados.Eliminar(context.Background(), otro.ID)
	require.NoError(t, err)

	_, existe := ts.empleadoRepo.empleados[otro.ID]
	assert.False(t, existe)

	contrato := ts.contratoRepo.contratos[uuid.MustParse(c.ID)]
	require.Len(t, contrato.Participantes, 1)
	assert.Equal(t, emp.ID, contrato.Participantes[0].EmpleadoID)
	assert.Equal(t, "100", contrato.TotalComisiones.String())
}

func TestComisionesEmpleado_Ledger(t *testing.T) {
	ts := buildServices()
	emp := seedEmpleado(ts.empleadoRepo, "Laura Méndez")

	registrado := crearContrato(t, ts, emp.ID, 10000,
		dto.ComisionRequest{Tipo: model.ComisionFija, Valor: decimal.NewFromInt(100)})
	pagado := crearContrato(t, ts, emp.ID, 20000,
		dto.ComisionRequest{Tipo: model.ComisionPorcentaje, Valor: decimal.NewFromInt(5)})
	marcarPagado(t, ts, pagado.ID)

	resp, err := ts.empleados.Comisiones(context.Background(), emp.ID)
	require.NoError(t, err)
	assert.Equal(t, emp.ID.String(), resp.Empleado.ID)
	require.Len(t, resp.Comisiones, 2)

	porContrato := make(map[string]dto.ComisionEmpleadoItem)
	for _, item := range resp.Comisiones {
		porContrato[item.ContratoCodigo] = item
	}
	assert.Equal(t, "0", porContrato[registrado.Codigo].ComisionCalculada.String())
	assert.Equal(t, "1000", porContrato[pagado.Codigo].ComisionCalculada.String())
}

func TestObtenerEmpleado_NoEncontrado(t *testing.T) {
	ts := buildServices()
	_, err := ts.empleados.Obtener(context.Background(), uuid.New())
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
}

func TestListarEmpleados_FiltroActivo(t *testing.T) {
	ts := buildServices()
	seedEmpleado(ts.empleadoRepo, "Laura Méndez")
	inactivo := seedEmpleado(ts.empleadoRepo, "Jorge Paredes")
	inactivo.Activo = false

	resp, err := ts.empleados.Listar(context.Background(), dto.EmpleadoFilter{Activo: "true"})
	require.NoError(t, err)
	assert.Len(t, resp.Data, 1)

	resp, err = ts.empleados.Listar(context.Background(), dto.EmpleadoFilter{Activo: "all"})
	require.NoError(t, err)
	assert.Len(t, resp.Data, 2)
}
