package router

import (
	"time"

	"commet/internal/config"
	"commet/internal/handler"
	"commet/internal/middleware"
	"commet/internal/repository"
	"commet/internal/service"
	"commet/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	contratoRepo := repository.NewContratoRepository(db)
	empleadoRepo := repository.NewEmpleadoRepository(db)
	liquidacionRepo := repository.NewLiquidacionRepository(db)
	tipoComisionRepo := repository.NewTipoComisionRepository(db)
	empresaRepo := repository.NewEmpresaRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	contratoSvc := service.NewContratoService(contratoRepo, empleadoRepo, tipoComisionRepo, empresaRepo)
	empleadoSvc := service.NewEmpleadoService(empleadoRepo, contratoRepo)
	liquidacionSvc := service.NewLiquidacionService(liquidacionRepo, contratoRepo, empleadoRepo, empresaRepo, dispatcher)
	tipoComisionSvc := service.NewTipoComisionService(tipoComisionRepo, contratoRepo)
	empresaSvc := service.NewEmpresaService(empresaRepo)
	dashboardSvc := service.NewDashboardService(contratoRepo, empleadoRepo, liquidacionRepo, rdb)
	adminSvc := service.NewAdminService(contratoRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	contratosH := handler.NewContratosHandler(contratoSvc)
	empleadosH := handler.NewEmpleadosHandler(empleadoSvc)
	liquidacionesH := handler.NewLiquidacionesHandler(liquidacionSvc)
	tiposH := handler.NewTiposComisionHandler(tipoComisionSvc)
	empresasH := handler.NewEmpresasHandler(empresaSvc)
	dashboardH := handler.NewDashboardHandler(dashboardSvc)
	adminH := handler.NewAdminHandler(adminSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes. Roles: lector can read everything, editor can also
	// create and modify, administrador can also delete and administrate.
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	lector := middleware.RequireRole("lector", "editor", "administrador")
	editor := middleware.RequireRole("editor", "administrador")
	admin := middleware.RequireRole("administrador")

	v1 := r.Group("/v1", jwtMW)
	{
		contratos := v1.Group("/contratos")
		{
			contratos.GET("", lector, contratosH.Listar)
			contratos.GET("/generar-codigo", lector, contratosH.GenerarCodigo)
			contratos.GET("/verificar-codigo/:codigo", lector, contratosH.VerificarCodigo)
			contratos.GET("/:id", lector, contratosH.Obtener)
			contratos.POST("", editor, contratosH.Crear)
			contratos.PUT("/:id", editor, contratosH.Actualizar)
			contratos.PATCH("/:id/estado", editor, contratosH.CambiarEstado)
			contratos.POST("/:id/pagos", editor, contratosH.RegistrarPago)
			contratos.POST("/:id/participantes", editor, contratosH.AgregarParticipante)
			contratos.DELETE("/:id/participantes/:participante", editor, contratosH.EliminarParticipante)
			contratos.DELETE("/:id", admin, contratosH.Eliminar)
		}

		empleados := v1.Group("/empleados")
		{
			empleados.GET("", lector, empleadosH.Listar)
			empleados.GET("/:id", lector, empleadosH.Obtener)
			empleados.GET("/:id/comisiones", lector, empleadosH.Comisiones)
			empleados.POST("", editor, empleadosH.Crear)
			empleados.PUT("/:id", editor, empleadosH.Actualizar)
			empleados.DELETE("/:id", admin, empleadosH.Eliminar)
		}

		liquidaciones := v1.Group("/liquidaciones")
		{
			liquidaciones.GET("", lector, liquidacionesH.Listar)
			liquidaciones.GET("/pendientes", lector, liquidacionesH.Pendientes)
			liquidaciones.GET("/:id", lector, liquidacionesH.Obtener)
			liquidaciones.GET("/:id/comprobante", lector, liquidacionesH.Comprobante)
			liquidaciones.POST("", editor, liquidacionesH.Crear)
			liquidaciones.POST("/recalcular-estadisticas", editor, liquidacionesH.RecalcularEstadisticas)
			liquidaciones.DELETE("/:id", admin, liquidacionesH.Anular)
		}

		tipos := v1.Group("/tipos-comision")
		{
			tipos.GET("", lector, tiposH.Listar)
			tipos.GET("/:id", lector, tiposH.Obtener)
			tipos.POST("", editor, tiposH.Crear)
			tipos.PUT("/reordenar", editor, tiposH.Reordenar)
			tipos.PUT("/:id", editor, tiposH.Actualizar)
			tipos.DELETE("/:id", admin, tiposH.Eliminar)
		}

		empresas := v1.Group("/empresas")
		{
			empresas.GET("", lector, empresasH.Listar)
			empresas.GET("/:id", lector, empresasH.Obtener)
			empresas.POST("", editor, empresasH.Crear)
			empresas.PUT("/:id", editor, empresasH.Actualizar)
			empresas.DELETE("/:id", admin, empresasH.Eliminar)
		}

		dashboard := v1.Group("/dashboard", lector)
		{
			dashboard.GET("/resumen", dashboardH.Resumen)
			dashboard.GET("/consolidado-empleados", dashboardH.ConsolidadoEmpleados)
			dashboard.GET("/consolidado-contratos", dashboardH.ConsolidadoContratos)
			dashboard.GET("/historial-liquidaciones", dashboardH.HistorialLiquidaciones)
		}

		usuarios := v1.Group("/usuarios", admin)
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
			usuarios.PATCH("/:id/reactivar", usuariosH.Reactivar)
		}

		v1.POST("/admin/reset-datos", admin, adminH.ResetDatos)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
