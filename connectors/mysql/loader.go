package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	gomysql "github.com/go-sql-driver/mysql"

	"room-stats/domain/booking"
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,63}$`)

// NormalizeDSN parses dsn and turns on the options the loader relies on.
func NormalizeDSN(dsn string) (string, error) {
	cfg, err := gomysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse MYSQL_DSN: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.Local
	if !strings.Contains(dsn, "charset=") {
		if err := cfg.Apply(gomysql.Charset("utf8mb4", "")); err != nil {
			return "", err
		}
	}
	return cfg.FormatDSN(), nil
}

// Open connects to the database named by dsn and checks the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	norm, err := NormalizeDSN(dsn)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("mysql", norm)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	return db, nil
}

func createSQL(table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id          CHAR(36)      NOT NULL PRIMARY KEY,
	start       DATETIME      NOT NULL,
	loc         VARCHAR(32)   NOT NULL,
	duration    DOUBLE        NOT NULL,
	rate        DOUBLE        NULL,
	charge      DOUBLE        NULL,
	rate_rule   VARCHAR(32)   NOT NULL,
	charge_rule VARCHAR(32)   NOT NULL,
	title       VARCHAR(512)  NOT NULL,
	description TEXT          NOT NULL,
	calendar    VARCHAR(128)  NOT NULL,
	loaded_at   TIMESTAMP     NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
) DEFAULT CHARSET=utf8mb4`, table)
}

func upsertSQL(table string) string {
	return fmt.Sprintf(`INSERT INTO %s
	(id, start, loc, duration, rate, charge, rate_rule, charge_rule, title, description, calendar)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON DUPLICATE KEY UPDATE
		start = VALUES(start),
		loc = VALUES(loc),
		duration = VALUES(duration),
		rate = VALUES(rate),
		charge = VALUES(charge),
		rate_rule = VALUES(rate_rule),
		charge_rule = VALUES(charge_rule),
		title = VALUES(title),
		description = VALUES(description),
		calendar = VALUES(calendar)`, table)
}

func nullable(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func chargeArgs(c booking.Charge) []any {
	return []any{
		c.ID, c.Start, string(c.Loc), c.Duration, nullable(c.Rate), nullable(c.Charge),
		c.RateRule, c.ChargeRule, c.Title, c.Description, c.Calendar,
	}
}

// Load creates table if needed and upserts every charge keyed by event id,
// all inside one transaction.
func Load(ctx context.Context, db *sql.DB, table string, charges []booking.Charge) error {
	if !tableName.MatchString(table) {
		return fmt.Errorf("invalid table name %q", table)
	}
	if _, err := db.ExecContext(ctx, createSQL(table)); err != nil {
		return fmt.Errorf("create table %s: %w", table, err)
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx error: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, upsertSQL(table))
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()
	for _, c := range charges {
		if c.ID == "" {
			_ = tx.Rollback()
			return fmt.Errorf("charge %q at %s has no id", c.Title, booking.FormatTime(c.Start))
		}
		if _, err := stmt.ExecContext(ctx, chargeArgs(c)...); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("upsert %s: %w", c.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit error: %w", err)
	}
	slog.Info("export.mysql.done", "table", table, "rows", len(charges))
	return nil
}
