package postgres

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/utafrali/fashly/pkg/database"
	apperrors "github.com/utafrali/fashly/pkg/errors"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrations returns the schema migrations for database.RunMigrations.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// DB is the part of a pgx pool the repository uses. *pgxpool.Pool and
// pgxmock pools both satisfy it.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	getRecordSQL    = `SELECT data FROM store_records WHERE key = $1`
	saveRecordSQL   = `INSERT INTO store_records (key, data, updated_at) VALUES ($1, $2, NOW()) ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`
	deleteRecordSQL = `DELETE FROM store_records WHERE key = $1`
	purgeRecordsSQL = `DELETE FROM store_records WHERE updated_at < $1`
)

// RecordRepository implements repository.RecordRepository on the
// store_records table.
type RecordRepository struct {
	db DB
}

// NewRecordRepository creates a PostgreSQL-backed repository.
func NewRecordRepository(db DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// Get retrieves the record under key.
func (r *RecordRepository) Get(ctx context.Context, key string) (data []byte, err error) {
	ctx, end := database.TraceQuery(ctx, database.SystemPostgres, "GetRecord", getRecordSQL)
	defer func() { end(err) }()

	if err = r.db.QueryRow(ctx, getRecordSQL, key).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("record", key)
		}
		return nil, apperrors.Wrap(err, "select record "+key)
	}
	return data, nil
}

// Save upserts the record under key.
func (r *RecordRepository) Save(ctx context.Context, key string, data []byte) (err error) {
	ctx, end := database.TraceQuery(ctx, database.SystemPostgres, "SaveRecord", saveRecordSQL)
	defer func() { end(err) }()

	if _, err = r.db.Exec(ctx, saveRecordSQL, key, data); err != nil {
		return apperrors.Wrap(err, "upsert record "+key)
	}
	return nil
}

// Delete removes the record under key.
func (r *RecordRepository) Delete(ctx context.Context, key string) (err error) {
	ctx, end := database.TraceQuery(ctx, database.SystemPostgres, "DeleteRecord", deleteRecordSQL)
	defer func() { end(err) }()

	if _, err = r.db.Exec(ctx, deleteRecordSQL, key); err != nil {
		return apperrors.Wrap(err, "delete record "+key)
	}
	return nil
}

// PurgeOlderThan deletes records not written since cutoff and reports how
// many were removed. It gives PostgreSQL the expiry Redis gets from TTLs.
func (r *RecordRepository) PurgeOlderThan(ctx context.Context, cutoff time.Time) (n int64, err error) {
	ctx, end := database.TraceQuery(ctx, database.SystemPostgres, "PurgeRecords", purgeRecordsSQL)
	defer func() { end(err) }()

	tag, err := r.db.Exec(ctx, purgeRecordsSQL, cutoff)
	if err != nil {
		return 0, apperrors.Wrap(err, "purge records")
	}
	return tag.RowsAffected(), nil
}
