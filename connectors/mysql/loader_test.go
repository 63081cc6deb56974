package mysql

import (
	"context"
	"database/sql"
	"testing"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"room-stats/domain/booking"
)

func TestNormalizeDSN(t *testing.T) {
	out, err := NormalizeDSN("user:pw@tcp(db:3306)/rooms")
	require.NoError(t, err)

	cfg, err := gomysql.ParseDSN(out)
	require.NoError(t, err)
	assert.True(t, cfg.ParseTime)
	assert.Equal(t, "rooms", cfg.DBName)
	assert.Equal(t, "db:3306", cfg.Addr)
	assert.Contains(t, out, "charset=utf8mb4")
	assert.Contains(t, out, "parseTime=true")

	_, err = NormalizeDSN("not a dsn")
	require.Error(t, err)
}

func TestStatements(t *testing.T) {
	assert.Contains(t, createSQL("room_charges"), "CREATE TABLE IF NOT EXISTS room_charges")
	up := upsertSQL("room_charges")
	assert.Contains(t, up, "INSERT INTO room_charges")
	assert.Contains(t, up, "ON DUPLICATE KEY UPDATE")
}

func TestChargeArgs(t *testing.T) {
	rate := 25.0
	c := booking.Charge{ID: "abc", Start: time.Date(2014, 3, 4, 10, 0, 0, 0, time.UTC), Loc: booking.Uptown, Duration: 2, Rate: &rate}
	args := chargeArgs(c)
	require.Len(t, args, 11)
	assert.Equal(t, "UPTOWN", args[2])
	assert.Equal(t, sql.NullFloat64{Float64: 25, Valid: true}, args[4])
	assert.Equal(t, sql.NullFloat64{}, args[5])
}

func TestLoad_RejectsTableName(t *testing.T) {
	err := Load(context.Background(), nil, "charges; DROP TABLE x", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid table name")
}
