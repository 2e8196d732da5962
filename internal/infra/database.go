package infra

import (
	"fmt"

	"commet/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate
// for the full schema and creates the sequences behind the human-readable
// codes (AutoMigrate cannot express sequences).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations applies the schema. Also used by integration tests against a
// throwaway container.
func RunMigrations(db *gorm.DB) error {
	// gen_random_uuid() needs pgcrypto on Postgres < 13
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("pgcrypto: %w", err)
	}

	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Empresa{},
		&model.Empleado{},
		&model.TipoComision{},
		&model.Contrato{},
		&model.Participante{},
		&model.PagoContrato{},
		&model.CambioEstado{},
		&model.PagoComision{},
		&model.Liquidacion{},
		&model.LiquidacionDetalle{},
		&model.PagoPrevio{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}

	// Sequences behind the human-readable codes. nextval is atomic, so
	// concurrent creations never produce duplicate codes.
	sequences := []string{
		`CREATE SEQUENCE IF NOT EXISTS contratos_codigo_seq START 1`,
		`CREATE SEQUENCE IF NOT EXISTS empleados_codigo_seq START 1`,
		`CREATE SEQUENCE IF NOT EXISTS liquidaciones_codigo_seq START 1`,
	}
	for _, s := range sequences {
		if err := db.Exec(s).Error; err != nil {
			return fmt.Errorf("sequence: %w", err)
		}
	}
	return nil
}
