package service

import (
	"context"
	"encoding/json"
	"time"

	"commet/internal/dto"
	"commet/internal/model"
	"commet/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	resumenCacheKey = "dashboard:resumen"
	resumenCacheTTL = 30 * time.Second
)

type DashboardService interface {
	Resumen(ctx context.Context) (*dto.ResumenResponse, error)
	ConsolidadoEmpleados(ctx context.Context) (*dto.ConsolidadoEmpleadosResponse, error)
	ConsolidadoContratos(ctx context.Context) (*dto.ConsolidadoContratosResponse, error)
	HistorialLiquidaciones(ctx context.Context, filter dto.LiquidacionFilter) (*dto.HistorialLiquidacionesResponse, error)
}

type dashboardService struct {
	contratoRepo    repository.ContratoRepository
	empleadoRepo    repository.EmpleadoRepository
	liquidacionRepo repository.LiquidacionRepository
	rdb             *redis.Client
}

func NewDashboardService(
	contratoRepo repository.ContratoRepository,
	empleadoRepo repository.EmpleadoRepository,
	liquidacionRepo repository.LiquidacionRepository,
	rdb *redis.Client,
) DashboardService {
	return &dashboardService{
		contratoRepo:    contratoRepo,
		empleadoRepo:    empleadoRepo,
		liquidacionRepo: liquidacionRepo,
		rdb:             rdb,
	}
}

// Resumen aggregates the global totals over every contract. The result is
// cached briefly in Redis because the dashboard polls it.
func (s *dashboardService) Resumen(ctx context.Context) (*dto.ResumenResponse, error) {
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, resumenCacheKey).Result(); err == nil {
			var cached dto.ResumenResponse
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return &cached, nil
			}
		}
	}

	contratos, err := s.contratoRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	resumen := dto.ResumenResponse{
		MontoTotal:           decimal.Zero,
		MontoPagado:          decimal.Zero,
		MontoPendiente:       decimal.Zero,
		ComisionesGeneradas:  decimal.Zero,
		ComisionesPagadas:    decimal.Zero,
		ComisionesPendientes: decimal.Zero,
		MargenNeto:           decimal.Zero,
	}

	for i := range contratos {
		c := &contratos[i]
		resumen.TotalContratos++
		switch c.Estado {
		case model.EstadoLiquidado:
			resumen.ContratosLiquidados++
		case model.EstadoCancelado:
			resumen.ContratosCancelados++
			continue // cancelled contracts stay out of the money totals
		default:
			resumen.ContratosActivos++
		}

		resumen.MontoTotal = resumen.MontoTotal.Add(c.MontoNeto)
		resumen.MontoPagado = resumen.MontoPagado.Add(c.MontoPagado)
		resumen.MontoPendiente = resumen.MontoPendiente.Add(c.MontoNeto.Sub(c.MontoPagado))
		resumen.ComisionesGeneradas = resumen.ComisionesGeneradas.Add(c.TotalComisiones)
		resumen.MargenNeto = resumen.MargenNeto.Add(c.MargenNeto)

		for j := range c.Participantes {
			p := &c.Participantes[j]
			resumen.ComisionesPagadas = resumen.ComisionesPagadas.Add(p.ComisionPagada)
			resumen.ComisionesPendientes = resumen.ComisionesPendientes.Add(
				p.ComisionCalculada.Sub(p.ComisionPagada))
		}
	}

	if s.rdb != nil {
		if data, err := json.Marshal(resumen); err == nil {
			if err := s.rdb.Set(ctx, resumenCacheKey, data, resumenCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("dashboard: no se pudo cachear el resumen")
			}
		}
	}
	return &resumen, nil
}

func (s *dashboardService) ConsolidadoEmpleados(ctx context.Context) (*dto.ConsolidadoEmpleadosResponse, error) {
	empleados, err := s.empleadoRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	resp := &dto.ConsolidadoEmpleadosResponse{Data: make([]dto.ConsolidadoEmpleadoItem, 0, len(empleados))}
	for i := range empleados {
		e := &empleados[i]
		resp.Data = append(resp.Data, dto.ConsolidadoEmpleadoItem{
			EmpleadoID:           e.ID.String(),
			Codigo:               e.Codigo,
			Nombre:               e.Nombre,
			Cargo:                e.Cargo,
			ContratosAsociados:   e.Estadisticas.ContratosAsociados,
			ComisionesGeneradas:  e.Estadisticas.TotalGeneradas,
			ComisionesPagadas:    e.Estadisticas.TotalPagadas,
			ComisionesPendientes: e.Estadisticas.TotalPendientes,
		})
	}
	return resp, nil
}

func (s *dashboardService) ConsolidadoContratos(ctx context.Context) (*dto.ConsolidadoContratosResponse, error) {
	contratos, err := s.contratoRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	resp := &dto.ConsolidadoContratosResponse{Data: make([]dto.ConsolidadoContratoItem, 0, len(contratos))}
	for i := range contratos {
		c := &contratos[i]
		resp.Data = append(resp.Data, dto.ConsolidadoContratoItem{
			ContratoID:      c.ID.String(),
			Codigo:          c.Codigo,
			ClienteNombre:   c.ClienteNombre,
			Estado:          c.Estado,
			MontoTotal:      c.MontoTotal,
			MontoNeto:       c.MontoNeto,
			MontoPagado:     c.MontoPagado,
			TotalComisiones: c.TotalComisiones,
			MargenNeto:      c.MargenNeto,
		})
	}
	return resp, nil
}

func (s *dashboardService) HistorialLiquidaciones(ctx context.Context, filter dto.LiquidacionFilter) (*dto.HistorialLiquidacionesResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 100
	}
	liquidaciones, _, err := s.liquidacionRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.HistorialLiquidacionesResponse{Data: make([]dto.HistorialLiquidacionItem, 0, len(liquidaciones))}
	for i := range liquidaciones {
		l := &liquidaciones[i]
		nombre := ""
		if l.Empleado != nil {
			nombre = l.Empleado.Nombre
		}
		contratos := make(map[string]bool)
		for _, d := range l.Detalles {
			contratos[d.ContratoID.String()] = true
		}
		resp.Data = append(resp.Data, dto.HistorialLiquidacionItem{
			LiquidacionID:  l.ID.String(),
			Codigo:         l.Codigo,
			EmpleadoNombre: nombre,
			Fecha:          l.Fecha.Format(fechaISO),
			Total:          l.Total,
			Estado:         l.Estado,
			Contratos:      len(contratos),
		})
	}
	return resp, nil
}
