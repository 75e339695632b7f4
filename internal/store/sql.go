package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ecowatch/ecoscore-service/internal/domain"

	_ "github.com/jackc/pgx/v5/stdlib" // postgres driver
	_ "modernc.org/sqlite"             // sqlite driver
)

// Driver names accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// timestampLayout is how timestamps are stored. A text column keeps the
// two drivers byte-compatible.
const timestampLayout = time.RFC3339Nano

// SQLStore persists predictions in sqlite or postgres. Statements stick to
// $1 placeholders, which both drivers accept, so one implementation serves
// both backends.
type SQLStore struct {
	db     *sql.DB
	driver string
}

// Open connects to the configured database and ensures the predictions
// table exists.
func Open(driver, dsn string) (*SQLStore, error) {
	name := driver
	switch driver {
	case DriverPostgres:
		name = "pgx"
	case DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}

	db, err := sql.Open(name, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	s := &SQLStore{db: db, driver: driver}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

func (s *SQLStore) ensureSchema() error {
	idColumn := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if s.driver == DriverPostgres {
		idColumn = "BIGSERIAL PRIMARY KEY"
	}
	_, err := s.db.Exec(fmt.Sprintf(`CREATE TABLE IF NOT EXISTS predicciones (
		id %s,
		ha_verdes_km2 DOUBLE PRECISION NOT NULL,
		cobertura_arbolado_pct DOUBLE PRECISION NOT NULL,
		pm25 DOUBLE PRECISION NOT NULL,
		pm10 DOUBLE PRECISION NOT NULL,
		residuos_no_gestionados DOUBLE PRECISION NOT NULL,
		porcentaje_reciclaje DOUBLE PRECISION NOT NULL,
		porcentaje_transporte_limpio DOUBLE PRECISION NOT NULL,
		ecoscore DOUBLE PRECISION NOT NULL,
		creado_en TEXT NOT NULL
	)`, idColumn))
	return err
}

func (s *SQLStore) Save(ctx context.Context, p domain.Prediction) (domain.Prediction, error) {
	const columns = `ha_verdes_km2, cobertura_arbolado_pct, pm25, pm10,
		residuos_no_gestionados, porcentaje_reciclaje, porcentaje_transporte_limpio,
		ecoscore, creado_en`

	args := []any{
		p.Inputs.GreenAreaKm2,
		p.Inputs.TreeCoverPct,
		p.Inputs.PM25,
		p.Inputs.PM10,
		p.Inputs.UnmanagedWaste,
		p.Inputs.RecyclingPct,
		p.Inputs.CleanTransportPct,
		p.Ecoscore,
		p.Timestamp.UTC().Format(timestampLayout),
	}

	if s.driver == DriverPostgres {
		err := s.db.QueryRowContext(ctx, `INSERT INTO predicciones (`+columns+`)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9) RETURNING id`, args...).Scan(&p.ID)
		if err != nil {
			return domain.Prediction{}, fmt.Errorf("insert prediction: %w", err)
		}
		return p, nil
	}

	res, err := s.db.ExecContext(ctx, `INSERT INTO predicciones (`+columns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`, args...)
	if err != nil {
		return domain.Prediction{}, fmt.Errorf("insert prediction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Prediction{}, fmt.Errorf("insert prediction: %w", err)
	}
	p.ID = id
	return p, nil
}

func (s *SQLStore) Latest(ctx context.Context, limit int) ([]domain.Prediction, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, ha_verdes_km2, cobertura_arbolado_pct,
		pm25, pm10, residuos_no_gestionados, porcentaje_reciclaje,
		porcentaje_transporte_limpio, ecoscore, creado_en
		FROM predicciones ORDER BY id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query predictions: %w", err)
	}
	defer rows.Close()

	var out []domain.Prediction
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query predictions: %w", err)
	}
	return out, nil
}

func (s *SQLStore) Last(ctx context.Context) (domain.Prediction, bool, error) {
	rows, err := s.Latest(ctx, 1)
	if err != nil {
		return domain.Prediction{}, false, err
	}
	if len(rows) == 0 {
		return domain.Prediction{}, false, nil
	}
	return rows[0], true, nil
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func scanPrediction(rows *sql.Rows) (domain.Prediction, error) {
	var p domain.Prediction
	var ts string
	err := rows.Scan(
		&p.ID,
		&p.Inputs.GreenAreaKm2,
		&p.Inputs.TreeCoverPct,
		&p.Inputs.PM25,
		&p.Inputs.PM10,
		&p.Inputs.UnmanagedWaste,
		&p.Inputs.RecyclingPct,
		&p.Inputs.CleanTransportPct,
		&p.Ecoscore,
		&ts,
	)
	if err != nil {
		return domain.Prediction{}, fmt.Errorf("scan prediction: %w", err)
	}
	p.Timestamp, err = time.Parse(timestampLayout, ts)
	if err != nil {
		return domain.Prediction{}, fmt.Errorf("parse prediction timestamp: %w", err)
	}
	return p, nil
}
