package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// RunMigrations aplica las migraciones pendientes con golang-migrate.
// Abre una conexión database/sql temporal (driver pgx stdlib) solo para esto;
// el pool de la aplicación no participa. Devuelve (aplicadas, error).
func RunMigrations(dsn, sourceURL string) (bool, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return false, fmt.Errorf("abrir conexión para migraciones: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return false, fmt.Errorf("ping para migraciones: %w", err)
	}

	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return false, fmt.Errorf("driver de migraciones: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(sourceURL, "postgres", driver)
	if err != nil {
		return false, fmt.Errorf("instancia de migraciones: %w", err)
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return false, fmt.Errorf("aplicar migraciones: %w", err)
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return false, fmt.Errorf("cerrar fuente de migraciones: %w", sourceErr)
	}
	if dbErr != nil {
		return false, fmt.Errorf("cerrar BD de migraciones: %w", dbErr)
	}
	return !errors.Is(err, migrate.ErrNoChange), nil
}
