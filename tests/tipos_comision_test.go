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

func TestCrearTipoComision_AsignaOrden(t *testing.T) {
	ts := buildServices()

	primero, err := ts.tipos.Crear(context.Background(), dto.CrearTipoComisionRequest{
		Nombre: "Comisión Venta",
		Tipo:   model.ComisionPorcentaje,
		Valor:  decimal.NewFromInt(5),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, primero.Orden)
	assert.True(t, primero.Activo)

	color := "#2563eb"
	segundo, err := ts.tipos.Crear(context.Background(), dto.CrearTipoComisionRequest{
		Nombre:  "Bono Cierre",
		Tipo:    model.ComisionFija,
		Valor:   decimal.NewFromInt(100000),
		Color:   &color,
		AplicaA: []string{model.TipoProyecto},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, segundo.Orden)
	require.NotNil(t, segundo.Color)
	assert.Equal(t, "#2563eb", *segundo.Color)
	assert.Equal(t, []string{model.TipoProyecto}, segundo.AplicaA)
}

func TestReordenarTipos(t *testing.T) {
	ts := buildServices()
	a := seedTipoComision(ts.tipoRepo, "A Venta", model.ComisionPorcentaje, 5)
	b := seedTipoComision(ts.tipoRepo, "B Bono", model.ComisionFija, 1000)
	c := seedTipoComision(ts.tipoRepo, "C Referido", model.ComisionPorcentaje, 2)

	// los listados toman posiciones 1..n, el resto conserva su orden relativo
	resp, err := ts.tipos.Reordenar(context.Background(), dto.ReordenarTiposRequest{
		IDs: []string{c.ID.String(), a.ID.String()},
	})
	require.NoError(t, err)
	require.Len(t, resp, 3)
	assert.Equal(t, "C Referido", resp[0].Nombre)
	assert.Equal(t, "A Venta", resp[1].Nombre)
	assert.Equal(t, "B Bono", resp[2].Nombre)
	assert.Equal(t, 1, resp[0].Orden)
	assert.Equal(t, 2, resp[1].Orden)
	assert.Equal(t, 3, resp[2].Orden)
	_ = b
}

func TestReordenarTipos_IDDesconocido(t *testing.T) {
	ts := buildServices()
	seedTipoComision(ts.tipoRepo, "A Venta", model.ComisionPorcentaje, 5)

	_, err := ts.tipos.Reordenar(context.Background(), dto.ReordenarTiposRequest{
		IDs: []string{uuid.NewString()},
	})
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
}

func TestActualizarTipo_NoTocaContratosExistentes(t *testing.T) {
	ts := buildServices()
	emp := seedEmpleado(ts.empleadoRepo, "Laura Méndez")
	tipo := seedTipoComision(ts.tipoRepo, "Comisión Venta", model.ComisionPorcentaje, 10)
	tipoID := tipo.ID.String()

	c, err := ts.contratos.Crear(context.Background(), dto.CrearContratoRequest{
		Tipo:       model.TipoVentaDirecta,
		Cliente:    dto.ClienteRequest{Nombre: "Constructora Andina"},
		MontoTotal: decimal.NewFromInt(10000),
		Participantes: []dto.ParticipanteRequest{
			{EmpleadoID: emp.ID.String(), TipoComisionID: &tipoID},
		},
	})
	require.NoError(t, err)

	nuevoValor := decimal.NewFromInt(20)
	_, err = ts.tipos.Actualizar(context.Background(), tipo.ID,
		dto.ActualizarTipoComisionRequest{Valor: &nuevoValor})
	require.NoError(t, err)

	// la participación conserva el valor copiado al crear el contrato
	contrato := ts.contratoRepo.contratos[uuid.MustParse(c.ID)]
	assert.Equal(t, "10", contrato.Participantes[0].Comision.Valor.String())
}

func TestEliminarTipo_ContratoLiquidadoBloquea(t *testing.T) {
	ts := buildServices()
	emp := seedEmpleado(ts.empleadoRepo, "Laura Méndez")
	tipo := seedTipoComision(ts.tipoRepo, "Comisión Venta", model.ComisionPorcentaje, 10)
	tipoID := tipo.ID.String()

	c, err := ts.contratos.Crear(context.Background(), dto.CrearContratoRequest{
		Tipo:       model.TipoVentaDirecta,
		Cliente:    dto.ClienteRequest{Nombre: "Constructora Andina"},
		MontoTotal: decimal.NewFromInt(10000),
		Participantes: []dto.ParticipanteRequest{
			{EmpleadoID: emp.ID.String(), TipoComisionID: &tipoID},
		},
	})
	require.NoError(t, err)
	c = marcarPagado(t, ts, c.ID)
	_, err = liquidar(t, ts, emp.ID, c, nil)
	require.NoError(t, err)

	err = ts.tipos.Eliminar(context.Background(), tipo.ID)
	assert.Equal(t, apierror.KindReferenciadoLiquidado, apierror.KindOf(err))
}

func TestEliminarTipo_LimpiaReferencias(t *testing.T) {
	ts := buildServices()
	emp := seedEmpleado(ts.empleadoRepo, "Laura Méndez")
	tipo := seedTipoComision(ts.tipoRepo, "Comisión Venta", model.ComisionPorcentaje, 10)
	tipoID := tipo.ID.String()

	c, err := ts.contratos.Crear(context.Background(), dto.CrearContratoRequest{
		Tipo:       model.TipoVentaDirecta,
		Cliente:    dto.ClienteRequest{Nombre: "Constructora Andina"},
		MontoTotal: decimal.NewFromInt(10000),
		Participantes: []dto.ParticipanteRequest{
			{EmpleadoID: emp.ID.String(), TipoComisionID: &tipoID},
		},
	})
	require.NoError(t, err)

	err = ts.tipos.Eliminar(context.Background(), tipo.ID)
	require.NoError(t, err)

	_, existe := ts.tipoRepo.tipos[tipo.ID]
	assert.False(t, existe)

	// el snapshot de nombre y valores sobrevive, la referencia no
	p := ts.contratoRepo.contratos[uuid.MustParse(c.ID)].Participantes[0]
	assert.Nil(t, p.TipoComisionID)
	assert.False(t, p.UsaTipoPredefinido)
	assert.Equal(t, "Comisión Venta", p.TipoComisionNombre)
	assert.Equal(t, "10", p.Comision.Valor.String())
}

func TestListarTipos_ExcluyeInactivosPorDefecto(t *testing.T) {
	ts := buildServices()
	seedTipoComision(ts.tipoRepo, "Comisión Venta", model.ComisionPorcentaje, 10)
	inactivo := seedTipoComision(ts.tipoRepo, "Bono Viejo", model.ComisionFija, 500)
	inactivo.Activo = false

	activos, err := ts.tipos.Listar(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, activos, 1)

	todos, err := ts.tipos.Listar(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, todos, 2)
}
