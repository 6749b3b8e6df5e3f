package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"device-inspector/internal/domain/entity"
	"device-inspector/internal/domain/port"
)

const createResultsTable = `
CREATE TABLE IF NOT EXISTS analysis_results (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	filename VARCHAR(255) NOT NULL,
	status VARCHAR(10) NOT NULL,
	reason TEXT,
	confidence DECIMAL(5,2) NOT NULL DEFAULT 0,
	details JSON,
	timestamp DATETIME(3) NOT NULL,
	INDEX idx_status (status),
	INDEX idx_timestamp (timestamp)
)`

// MySQLVerdictRepository хранилище результатов в MySQL
type MySQLVerdictRepository struct {
	db *sql.DB
}

// OpenMySQL открывает пул соединений. parseTime включается принудительно,
// чтобы DATETIME читался в time.Time.
func OpenMySQL(ctx context.Context, dsn string) (*sql.DB, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	return db, nil
}

// NewMySQLVerdictRepository создаёт хранилище поверх открытого пула
func NewMySQLVerdictRepository(db *sql.DB) *MySQLVerdictRepository {
	return &MySQLVerdictRepository{db: db}
}

// Migrate создаёт таблицу, если её нет
func (r *MySQLVerdictRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createResultsTable); err != nil {
		return fmt.Errorf("create analysis_results: %w", err)
	}
	return nil
}

func (r *MySQLVerdictRepository) Save(ctx context.Context, record *entity.AnalysisRecord) error {
	details, err := json.Marshal(record.Details)
	if err != nil {
		return fmt.Errorf("encode details: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO analysis_results (filename, status, reason, confidence, details, timestamp) VALUES (?, ?, ?, ?, ?, ?)`,
		record.Filename, string(record.Status), record.Reason, record.Confidence, string(details), record.Timestamp.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert analysis result: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	record.ID = id
	return nil
}

func (r *MySQLVerdictRepository) List(ctx context.Context, filter entity.ResultFilter) ([]entity.AnalysisRecord, error) {
	query, args := buildListQuery(filter)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query analysis results: %w", err)
	}
	defer rows.Close()

	out := []entity.AnalysisRecord{}
	for rows.Next() {
		var (
			rec     entity.AnalysisRecord
			status  string
			reason  sql.NullString
			details []byte
		)
		if err := rows.Scan(&rec.ID, &rec.Filename, &status, &reason, &rec.Confidence, &details, &rec.Timestamp); err != nil {
			return nil, fmt.Errorf("scan analysis result: %w", err)
		}
		rec.Status = entity.Status(status)
		if reason.Valid {
			s := reason.String
			rec.Reason = &s
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &rec.Details); err != nil {
				return nil, fmt.Errorf("decode details of #%d: %w", rec.ID, err)
			}
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *MySQLVerdictRepository) Statistics(ctx context.Context, from, to time.Time) (entity.Statistics, error) {
	where, args := rangeClause(entity.ResultFilter{From: from, To: to})

	var total int
	var pass, fail sql.NullInt64
	row := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), SUM(status = 'PASS'), SUM(status = 'FAIL') FROM analysis_results`+where, args...)
	if err := row.Scan(&total, &pass, &fail); err != nil {
		return entity.Statistics{}, fmt.Errorf("count results: %w", err)
	}

	reasonWhere := " WHERE status = 'FAIL' AND reason IS NOT NULL"
	if where != "" {
		reasonWhere += " AND " + strings.TrimPrefix(where, " WHERE ")
	}
	rows, err := r.db.QueryContext(ctx, `SELECT reason FROM analysis_results`+reasonWhere, args...)
	if err != nil {
		return entity.Statistics{}, fmt.Errorf("query fail reasons: %w", err)
	}
	defer rows.Close()

	reasons := make(map[string]int)
	for rows.Next() {
		var reason string
		if err := rows.Scan(&reason); err != nil {
			return entity.Statistics{}, fmt.Errorf("scan reason: %w", err)
		}
		countReasons(reasons, reason)
	}
	if err := rows.Err(); err != nil {
		return entity.Statistics{}, err
	}

	return entity.NewStatistics(total, int(pass.Int64), int(fail.Int64), reasons), nil
}

// rangeClause условие WHERE по статусу и времени. Пустая строка без условий.
func rangeClause(f entity.ResultFilter) (string, []any) {
	var conds []string
	var args []any
	if f.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(f.Status))
	}
	if !f.From.IsZero() {
		conds = append(conds, "timestamp >= ?")
		args = append(args, f.From.UTC())
	}
	if !f.To.IsZero() {
		conds = append(conds, "timestamp <= ?")
		args = append(args, f.To.UTC())
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func buildListQuery(f entity.ResultFilter) (string, []any) {
	where, args := rangeClause(f)
	query := `SELECT id, filename, status, reason, confidence, details, timestamp FROM analysis_results` +
		where + ` ORDER BY timestamp DESC, id DESC`

	switch {
	case f.Limit > 0:
		query += " LIMIT ? OFFSET ?"
		args = append(args, f.Limit, f.Offset)
	case f.Offset > 0:
		// MySQL не допускает OFFSET без LIMIT
		query += " LIMIT 18446744073709551615 OFFSET ?"
		args = append(args, f.Offset)
	}
	return query, args
}

var _ port.VerdictRepository = (*MySQLVerdictRepository)(nil)
