package tests

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"commet/internal/dto"
	"commet/internal/model"
	"commet/internal/repository"
	"commet/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubContratoRepo is an in-memory ContratoRepository for testing.
type stubContratoRepo struct {
	contratos map[uuid.UUID]*model.Contrato
	seq       int
}

func newStubContratoRepo() *stubContratoRepo {
	return &stubContratoRepo{contratos: make(map[uuid.UUID]*model.Contrato)}
}

// asignarIDs fills in the IDs the database default would generate.
func asignarIDs(c *model.Contrato) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	for i := range c.Participantes {
		p := &c.Participantes[i]
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		p.ContratoID = c.ID
	}
	for i := range c.HistorialPagos {
		if c.HistorialPagos[i].ID == uuid.Nil {
			c.HistorialPagos[i].ID = uuid.New()
		}
	}
}

func (r *stubContratoRepo) Create(_ context.Context, _ *gorm.DB, c *model.Contrato) error {
	asignarIDs(c)
	r.contratos[c.ID] = c
	return nil
}

func (r *stubContratoRepo) Save(_ context.Context, _ *gorm.DB, c *model.Contrato) error {
	asignarIDs(c)
	r.contratos[c.ID] = c
	return nil
}

func (r *stubContratoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Contrato, error) {
	c, ok := r.contratos[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return c, nil
}

func (r *stubContratoRepo) FindByIDTx(ctx context.Context, _ *gorm.DB, id uuid.UUID) (*model.Contrato, error) {
	return r.FindByID(ctx, id)
}

func (r *stubContratoRepo) List(_ context.Context, filter dto.ContratoFilter) ([]model.Contrato, int64, error) {
	out := make([]model.Contrato, 0, len(r.contratos))
	for _, c := range r.contratos {
		if filter.Estado != "" && filter.Estado != "all" && c.Estado != filter.Estado {
			continue
		}
		if filter.Buscar != "" &&
			!strings.Contains(c.Codigo, filter.Buscar) &&
			!strings.Contains(c.ClienteNombre, filter.Buscar) {
			continue
		}
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *stubContratoRepo) ListAll(_ context.Context) ([]model.Contrato, error) {
	out := make([]model.Contrato, 0, len(r.contratos))
	for _, c := range r.contratos {
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubContratoRepo) ListByEmpleado(_ context.Context, empleadoID uuid.UUID) ([]model.Contrato, error) {
	var out []model.Contrato
	for _, c := range r.contratos {
		for i := range c.Participantes {
			if c.Participantes[i].EmpleadoID == empleadoID {
				out = append(out, *c)
				break
			}
		}
	}
	return out, nil
}

func (r *stubContratoRepo) NextCodigo(_ context.Context, _ *gorm.DB) (string, error) {
	r.seq++
	return fmt.Sprintf("CTR-%d-%05d", time.Now().Year(), r.seq), nil
}

func (r *stubContratoRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.contratos)), nil
}

func (r *stubContratoRepo) ExisteCodigo(_ context.Context, codigo string) (bool, error) {
	for _, c := range r.contratos {
		if c.Codigo == codigo {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubContratoRepo) Delete(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	delete(r.contratos, id)
	return nil
}

func (r *stubContratoRepo) DeleteParticipante(_ context.Context, _ *gorm.DB, _ uuid.UUID) error {
	return nil // the service trims the aggregate's slice and saves it
}

func (r *stubContratoRepo) DeleteParticipantesByEmpleado(_ context.Context, _ *gorm.DB, _ uuid.UUID) error {
	return nil
}

func (r *stubContratoRepo) DeletePagosComision(_ context.Context, _ *gorm.DB, liquidacionID uuid.UUID) error {
	for _, c := range r.contratos {
		for i := range c.Participantes {
			p := &c.Participantes[i]
			restantes := p.HistorialPagos[:0]
			for _, pago := range p.HistorialPagos {
				if pago.LiquidacionID != liquidacionID {
					restantes = append(restantes, pago)
				}
			}
			p.HistorialPagos = restantes
		}
	}
	return nil
}

func (r *stubContratoRepo) CountLiquidadosConTipo(_ context.Context, tipoComisionID uuid.UUID) (int64, error) {
	var total int64
	for _, c := range r.contratos {
		if c.Estado != model.EstadoLiquidado {
			continue
		}
		for i := range c.Participantes {
			if tid := c.Participantes[i].TipoComisionID; tid != nil && *tid == tipoComisionID {
				total++
			}
		}
	}
	return total, nil
}

func (r *stubContratoRepo) DB() *gorm.DB { return nil }

var _ repository.ContratoRepository = (*stubContratoRepo)(nil)

// stubEmpleadoRepo is an in-memory EmpleadoRepository.
type stubEmpleadoRepo struct {
	empleados map[uuid.UUID]*model.Empleado
	seq       int
}

func newStubEmpleadoRepo() *stubEmpleadoRepo {
	return &stubEmpleadoRepo{empleados: make(map[uuid.UUID]*model.Empleado)}
}

func (r *stubEmpleadoRepo) Create(_ context.Context, _ *gorm.DB, e *model.Empleado) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.empleados[e.ID] = e
	return nil
}

func (r *stubEmpleadoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Empleado, error) {
	e, ok := r.empleados[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return e, nil
}

func (r *stubEmpleadoRepo) FindByIDTx(ctx context.Context, _ *gorm.DB, id uuid.UUID) (*model.Empleado, error) {
	return r.FindByID(ctx, id)
}

func (r *stubEmpleadoRepo) List(_ context.Context, filter dto.EmpleadoFilter) ([]model.Empleado, int64, error) {
	out := make([]model.Empleado, 0, len(r.empleados))
	for _, e := range r.empleados {
		switch filter.Activo {
		case "all":
		case "false":
			if e.Activo {
				continue
			}
		default:
			if !e.Activo {
				continue
			}
		}
		out = append(out, *e)
	}
	return out, int64(len(out)), nil
}

func (r *stubEmpleadoRepo) ListAll(_ context.Context) ([]model.Empleado, error) {
	out := make([]model.Empleado, 0, len(r.empleados))
	for _, e := range r.empleados {
		out = append(out, *e)
	}
	return out, nil
}

// Save writes through the stored pointer so aggregates the test already holds
// observe the update.
func (r *stubEmpleadoRepo) Save(_ context.Context, _ *gorm.DB, e *model.Empleado) error {
	if existente, ok := r.empleados[e.ID]; ok {
		*existente = *e
		return nil
	}
	r.empleados[e.ID] = e
	return nil
}

func (r *stubEmpleadoRepo) NextCodigo(_ context.Context, _ *gorm.DB) (string, error) {
	r.seq++
	return fmt.Sprintf("EMP-%04d", r.seq), nil
}

func (r *stubEmpleadoRepo) ExisteCodigo(_ context.Context, codigo string) (bool, error) {
	for _, e := range r.empleados {
		if e.Codigo == codigo {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubEmpleadoRepo) ExisteIdentificacion(_ context.Context, identificacion string, excluirID *uuid.UUID) (bool, error) {
	for _, e := range r.empleados {
		if excluirID != nil && e.ID == *excluirID {
			continue
		}
		if e.Identificacion == identificacion {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubEmpleadoRepo) Delete(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	delete(r.empleados, id)
	return nil
}

func (r *stubEmpleadoRepo) DB() *gorm.DB { return nil }

var _ repository.EmpleadoRepository = (*stubEmpleadoRepo)(nil)

// stubLiquidacionRepo is an in-memory LiquidacionRepository.
type stubLiquidacionRepo struct {
	liquidaciones map[uuid.UUID]*model.Liquidacion
	seq           int
}

func newStubLiquidacionRepo() *stubLiquidacionRepo {
	return &stubLiquidacionRepo{liquidaciones: make(map[uuid.UUID]*model.Liquidacion)}
}

func (r *stubLiquidacionRepo) Create(_ context.Context, _ *gorm.DB, l *model.Liquidacion) error {
	r.liquidaciones[l.ID] = l
	return nil
}

func (r *stubLiquidacionRepo) Save(_ context.Context, _ *gorm.DB, l *model.Liquidacion) error {
	r.liquidaciones[l.ID] = l
	return nil
}

func (r *stubLiquidacionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Liquidacion, error) {
	l, ok := r.liquidaciones[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return l, nil
}

func (r *stubLiquidacionRepo) FindByIDTx(ctx context.Context, _ *gorm.DB, id uuid.UUID) (*model.Liquidacion, error) {
	return r.FindByID(ctx, id)
}

func (r *stubLiquidacionRepo) List(_ context.Context, filter dto.LiquidacionFilter) ([]model.Liquidacion, int64, error) {
	out := make([]model.Liquidacion, 0, len(r.liquidaciones))
	for _, l := range r.liquidaciones {
		if filter.Estado != "" && filter.Estado != "all" && l.Estado != filter.Estado {
			continue
		}
		if filter.Empleado != "" && l.EmpleadoID.String() != filter.Empleado {
			continue
		}
		out = append(out, *l)
	}
	return out, int64(len(out)), nil
}

func (r *stubLiquidacionRepo) ListByEmpleado(_ context.Context, empleadoID uuid.UUID) ([]model.Liquidacion, error) {
	var out []model.Liquidacion
	for _, l := range r.liquidaciones {
		if l.EmpleadoID == empleadoID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *stubLiquidacionRepo) NextCodigo(_ context.Context, _ *gorm.DB) (string, error) {
	r.seq++
	now := time.Now()
	return fmt.Sprintf("LIQ-%d%02d-%05d", now.Year(), int(now.Month()), r.seq), nil
}

func (r *stubLiquidacionRepo) DB() *gorm.DB { return nil }

var _ repository.LiquidacionRepository = (*stubLiquidacionRepo)(nil)

// stubTipoComisionRepo holds templates; it keeps a reference to the contract
// stub so ClearReferencias can strip participants the way the SQL does.
type stubTipoComisionRepo struct {
	tipos     map[uuid.UUID]*model.TipoComision
	contratos *stubContratoRepo
}

func newStubTipoComisionRepo(contratos *stubContratoRepo) *stubTipoComisionRepo {
	return &stubTipoComisionRepo{
		tipos:     make(map[uuid.UUID]*model.TipoComision),
		contratos: contratos,
	}
}

func (r *stubTipoComisionRepo) Create(_ context.Context, t *model.TipoComision) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.tipos[t.ID] = t
	return nil
}

func (r *stubTipoComisionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.TipoComision, error) {
	t, ok := r.tipos[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return t, nil
}

func (r *stubTipoComisionRepo) List(_ context.Context, incluirInactivos bool) ([]model.TipoComision, error) {
	out := make([]model.TipoComision, 0, len(r.tipos))
	for _, t := range r.tipos {
		if !incluirInactivos && !t.Activo {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Orden != out[j].Orden {
			return out[i].Orden < out[j].Orden
		}
		return out[i].Nombre < out[j].Nombre
	})
	return out, nil
}

func (r *stubTipoComisionRepo) Save(_ context.Context, t *model.TipoComision) error {
	r.tipos[t.ID] = t
	return nil
}

func (r *stubTipoComisionRepo) UpdateOrden(_ context.Context, _ *gorm.DB, id uuid.UUID, orden int) error {
	t, ok := r.tipos[id]
	if !ok {
		return errors.New("not found")
	}
	t.Orden = orden
	return nil
}

func (r *stubTipoComisionRepo) MaxOrden(_ context.Context) (int, error) {
	max := 0
	for _, t := range r.tipos {
		if t.Orden > max {
			max = t.Orden
		}
	}
	return max, nil
}

func (r *stubTipoComisionRepo) Delete(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	delete(r.tipos, id)
	return nil
}

func (r *stubTipoComisionRepo) ClearReferencias(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	if r.contratos == nil {
		return nil
	}
	for _, c := range r.contratos.contratos {
		for i := range c.Participantes {
			p := &c.Participantes[i]
			if p.TipoComisionID != nil && *p.TipoComisionID == id {
				p.TipoComisionID = nil
				p.UsaTipoPredefinido = false
			}
		}
	}
	return nil
}

func (r *stubTipoComisionRepo) DB() *gorm.DB { return nil }

var _ repository.TipoComisionRepository = (*stubTipoComisionRepo)(nil)

// stubEmpresaRepo is an in-memory EmpresaRepository.
type stubEmpresaRepo struct {
	empresas map[uuid.UUID]*model.Empresa
}

func newStubEmpresaRepo() *stubEmpresaRepo {
	return &stubEmpresaRepo{empresas: make(map[uuid.UUID]*model.Empresa)}
}

func (r *stubEmpresaRepo) Create(_ context.Context, _ *gorm.DB, e *model.Empresa) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.empresas[e.ID] = e
	return nil
}

func (r *stubEmpresaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Empresa, error) {
	e, ok := r.empresas[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return e, nil
}

func (r *stubEmpresaRepo) FindPredeterminada(_ context.Context) (*model.Empresa, error) {
	for _, e := range r.empresas {
		if e.Predeterminada && e.Activa {
			return e, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubEmpresaRepo) List(_ context.Context) ([]model.Empresa, error) {
	out := make([]model.Empresa, 0, len(r.empresas))
	for _, e := range r.empresas {
		out = append(out, *e)
	}
	return out, nil
}

func (r *stubEmpresaRepo) Save(_ context.Context, _ *gorm.DB, e *model.Empresa) error {
	r.empresas[e.ID] = e
	return nil
}

func (r *stubEmpresaRepo) ClearPredeterminada(_ context.Context, _ *gorm.DB) error {
	for _, e := range r.empresas {
		e.Predeterminada = false
	}
	return nil
}

func (r *stubEmpresaRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.empresas, id)
	return nil
}

func (r *stubEmpresaRepo) DB() *gorm.DB { return nil }

var _ repository.EmpresaRepository = (*stubEmpresaRepo)(nil)

// ── Service factory for tests ────────────────────────────────────────────────

type testServices struct {
	contratos     service.ContratoService
	empleados     service.EmpleadoService
	liquidaciones service.LiquidacionService
	tipos         service.TipoComisionService

	contratoRepo    *stubContratoRepo
	empleadoRepo    *stubEmpleadoRepo
	liquidacionRepo *stubLiquidacionRepo
	tipoRepo        *stubTipoComisionRepo
	empresaRepo     *stubEmpresaRepo
}

func buildServices() *testServices {
	contratoRepo := newStubContratoRepo()
	empleadoRepo := newStubEmpleadoRepo()
	liquidacionRepo := newStubLiquidacionRepo()
	tipoRepo := newStubTipoComisionRepo(contratoRepo)
	empresaRepo := newStubEmpresaRepo()

	return &testServices{
		contratos:     service.NewContratoService(contratoRepo, empleadoRepo, tipoRepo, empresaRepo),
		empleados:     service.NewEmpleadoService(empleadoRepo, contratoRepo),
		liquidaciones: service.NewLiquidacionService(liquidacionRepo, contratoRepo, empleadoRepo, empresaRepo, nil),
		tipos:         service.NewTipoComisionService(tipoRepo, contratoRepo),

		contratoRepo:    contratoRepo,
		empleadoRepo:    empleadoRepo,
		liquidacionRepo: liquidacionRepo,
		tipoRepo:        tipoRepo,
		empresaRepo:     empresaRepo,
	}
}

// ── Seed helpers ─────────────────────────────────────────────────────────────

func seedEmpleado(r *stubEmpleadoRepo, nombre string) *model.Empleado {
	n := len(r.empleados) + 1
	e := &model.Empleado{
		ID:             uuid.New(),
		Codigo:         fmt.Sprintf("EMP-%04d", n),
		Nombre:         nombre,
		Identificacion: fmt.Sprintf("CC-%07d", n),
		Activo:         true,
		ComisionBase:   model.Comision{Tipo: model.ComisionPorcentaje},
	}
	r.empleados[e.ID] = e
	return e
}

func seedTipoComision(r *stubTipoComisionRepo, nombre, tipo string, valor int64) *model.TipoComision {
	t := &model.TipoComision{
		ID:     uuid.New(),
		Nombre: nombre,
		Tipo:   tipo,
		Valor:  decimal.NewFromInt(valor),
		Activo: true,
		Orden:  len(r.tipos) + 1,
	}
	r.tipos[t.ID] = t
	return t
}

// crearContrato registers a contract through the service with one manual
// commission participant.
func crearContrato(t *testing.T, ts *testServices, empleadoID uuid.UUID, total int64, comision dto.ComisionRequest) *dto.ContratoResponse {
	t.Helper()
	resp, err := ts.contratos.Crear(context.Background(), dto.CrearContratoRequest{
		Tipo:       model.TipoVentaDirecta,
		Cliente:    dto.ClienteRequest{Nombre: "Constructora Andina"},
		MontoTotal: decimal.NewFromInt(total),
		Participantes: []dto.ParticipanteRequest{
			{EmpleadoID: empleadoID.String(), Comision: &comision},
		},
	})
	require.NoError(t, err)
	return resp
}

func marcarPagado(t *testing.T, ts *testServices, contratoID string) *dto.ContratoResponse {
	t.Helper()
	resp, err := ts.contratos.CambiarEstado(context.Background(), uuid.MustParse(contratoID),
		dto.CambiarEstadoRequest{Estado: model.EstadoPagado})
	require.NoError(t, err)
	return resp
}
