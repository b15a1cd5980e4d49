package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"walletVolumeApp/internal/domain/model"
	"walletVolumeApp/internal/domain/repository"
)

// ClickHouseRepository implements the VolumePersistence interface using
// ClickHouse as the backend database. Rows are keyed by bucket start
// timestamp; the ReplacingMergeTree engine makes repeated full-range
// writes converge on the latest values, which is all the pipeline needs
// (it never reads its own writes within a run).
type ClickHouseRepository struct {
	conn driver.Conn
}

type ClickHouseConfig struct {
	Addr     string
	Username string
	Password string
	Timeout  int
}

func NewClickHouseRepository(cfg ClickHouseConfig) (*ClickHouseRepository, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{cfg.Addr},
		Auth: clickhouse.Auth{
			Database: "default",
			Username: cfg.Username,
			Password: cfg.Password,
		},
		DialTimeout: time.Duration(cfg.Timeout) * time.Second,
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})
	if err != nil {
		return nil, err
	}

	// Check the connection
	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	// Ensure tables exist
	if err := createTablesIfNotExist(conn); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &ClickHouseRepository{conn: conn}, nil
}

// Ensure ClickHouseRepository implements the required interface
var _ repository.VolumePersistence = (*ClickHouseRepository)(nil)

func createTablesIfNotExist(conn driver.Conn) error {
	return conn.Exec(context.Background(), `
		CREATE TABLE IF NOT EXISTS usd_volume (
			date Int64,
			daily Float64,
			weekly Float64,
			monthly Float64,
			updated_at DateTime DEFAULT now()
		) ENGINE = ReplacingMergeTree(updated_at)
		ORDER BY date
	`)
}

// SaveVolume bulk-writes all rows of a run in one batch.
func (r *ClickHouseRepository) SaveVolume(ctx context.Context, rows []model.VolumeRow) error {
	if len(rows) == 0 {
		return nil
	}

	batch, err := r.conn.PrepareBatch(ctx, `
		INSERT INTO usd_volume (date, daily, weekly, monthly)
	`)
	if err != nil {
		return err
	}

	for _, row := range rows {
		if err := batch.Append(row.Date, row.Daily, row.Weekly, row.Monthly); err != nil {
			return err
		}
	}

	return batch.Send()
}

// GetAllVolume returns every stored bucket row, latest version of each,
// ordered by date.
func (r *ClickHouseRepository) GetAllVolume(ctx context.Context) ([]model.VolumeRow, error) {
	query := `
		SELECT date, daily, weekly, monthly
		FROM usd_volume FINAL
		ORDER BY date
	`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []model.VolumeRow
	for rows.Next() {
		var row model.VolumeRow
		if err := rows.Scan(
			&row.Date,
			&row.Daily,
			&row.Weekly,
			&row.Monthly,
		); err != nil {
			return nil, err
		}
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

// Close terminates the ClickHouse connection.
func (r *ClickHouseRepository) Close() error {
	return r.conn.Close()
}
