package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/kanso-health/internal/core/domain"
)

// recordTable describes how one record kind maps onto its table. Every table
// shares id, user_id, datetime, created_at and updated_at; fields lists the
// kind-specific columns, all of which are writable on update.
type recordTable struct {
	name   string
	fields []string
	// fkErr is returned when an insert references a missing parent row.
	fkErr error
}

var (
	waterTable = recordTable{
		name:   "water_records",
		fields: []string{"amount_ml"},
		fkErr:  domain.ErrUserNotFound,
	}
	sleepTable = recordTable{
		name:   "sleep_records",
		fields: []string{"hours"},
		fkErr:  domain.ErrUserNotFound,
	}
	activityTable = recordTable{
		name:   "activity_records",
		fields: []string{"minutes", "intensity"},
		fkErr:  domain.ErrUserNotFound,
	}
	customItemTable = recordTable{
		name:   "custom_items",
		fields: []string{"category_id", "note"},
		fkErr:  domain.ErrCategoryNotFound,
	}
)

func (t recordTable) columns() []string {
	cols := append([]string{"id", "user_id", "datetime"}, t.fields...)
	return append(cols, "created_at", "updated_at")
}

type recordQueries struct {
	insert, selectByID, listByUser, listInRange, update, delete string
}

func (t recordTable) queries() recordQueries {
	cols := t.columns()
	named := make([]string, len(cols))
	for i, c := range cols {
		named[i] = ":" + c
	}

	sets := []string{"datetime = :datetime"}
	for _, f := range t.fields {
		sets = append(sets, f+" = :"+f)
	}
	sets = append(sets, "updated_at = :updated_at")

	selectCols := strings.Join(cols, ", ")

	return recordQueries{
		insert: fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
			t.name, selectCols, strings.Join(named, ", ")),
		selectByID: fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, selectCols, t.name),
		listByUser: fmt.Sprintf(`SELECT %s FROM %s WHERE user_id = $1 ORDER BY datetime DESC`,
			selectCols, t.name),
		listInRange: fmt.Sprintf(`SELECT %s FROM %s
			WHERE user_id = $1 AND datetime >= $2 AND datetime < $3
			ORDER BY datetime DESC`, selectCols, t.name),
		update: fmt.Sprintf(`UPDATE %s SET %s WHERE id = :id AND user_id = :user_id`,
			t.name, strings.Join(sets, ", ")),
		delete: fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND user_id = $2`, t.name),
	}
}

// PostgresRecordRepository stores one record kind. T is the struct type and
// P its pointer, which is what the domain layer passes around.
type PostgresRecordRepository[T any, P interface {
	*T
	domain.Record
}] struct {
	db    *sqlx.DB
	table recordTable
	q     recordQueries
}

func newPostgresRecordRepository[T any, P interface {
	*T
	domain.Record
}](db *sqlx.DB, table recordTable) *PostgresRecordRepository[T, P] {
	return &PostgresRecordRepository[T, P]{
		db:    db,
		table: table,
		q:     table.queries(),
	}
}

func NewPostgresWaterRepository(db *sqlx.DB) *PostgresRecordRepository[domain.WaterRecord, *domain.WaterRecord] {
	return newPostgresRecordRepository[domain.WaterRecord, *domain.WaterRecord](db, waterTable)
}

func NewPostgresSleepRepository(db *sqlx.DB) *PostgresRecordRepository[domain.SleepRecord, *domain.SleepRecord] {
	return newPostgresRecordRepository[domain.SleepRecord, *domain.SleepRecord](db, sleepTable)
}

func NewPostgresActivityRepository(db *sqlx.DB) *PostgresRecordRepository[domain.ActivityRecord, *domain.ActivityRecord] {
	return newPostgresRecordRepository[domain.ActivityRecord, *domain.ActivityRecord](db, activityTable)
}

func NewPostgresCustomItemRepository(db *sqlx.DB) *PostgresRecordRepository[domain.CustomItem, *domain.CustomItem] {
	return newPostgresRecordRepository[domain.CustomItem, *domain.CustomItem](db, customItemTable)
}

func (r *PostgresRecordRepository[T, P]) Create(ctx context.Context, record P) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := r.db.NamedExecContext(ctx, r.q.insert, record); err != nil {
		switch pgCode(err) {
		case pgForeignKeyViolation:
			return r.table.fkErr
		case pgUniqueViolation:
			return fmt.Errorf("repository: duplicate id in %s: %w", r.table.name, domain.ErrInvalidRecord)
		}
		return fmt.Errorf("repository: insert into %s failed: %w", r.table.name, err)
	}

	return nil
}

func (r *PostgresRecordRepository[T, P]) GetByID(ctx context.Context, id string) (P, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var rec T
	if err := r.db.GetContext(ctx, &rec, r.q.selectByID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, fmt.Errorf("repository: get from %s failed: %w", r.table.name, err)
	}

	return P(&rec), nil
}

func (r *PostgresRecordRepository[T, P]) ListByUserID(ctx context.Context, userID string) ([]P, error) {
	return r.list(ctx, r.q.listByUser, userID)
}

func (r *PostgresRecordRepository[T, P]) ListByUserIDInRange(ctx context.Context, userID string, from, to time.Time) ([]P, error) {
	return r.list(ctx, r.q.listInRange, userID, from, to)
}

func (r *PostgresRecordRepository[T, P]) list(ctx context.Context, query string, args ...any) ([]P, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	records := []P{}
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("repository: list %s failed: %w", r.table.name, err)
	}

	return records, nil
}

func (r *PostgresRecordRepository[T, P]) Update(ctx context.Context, record P) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.db.NamedExecContext(ctx, r.q.update, record)
	if err != nil {
		return fmt.Errorf("repository: update %s failed: %w", r.table.name, err)
	}

	return expectOneRow(result, domain.ErrRecordNotFound)
}

func (r *PostgresRecordRepository[T, P]) Delete(ctx context.Context, id string, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx, r.q.delete, id, userID)
	if err != nil {
		return fmt.Errorf("repository: delete from %s failed: %w", r.table.name, err)
	}

	return expectOneRow(result, domain.ErrRecordNotFound)
}

func expectOneRow(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return notFound
	}
	return nil
}
