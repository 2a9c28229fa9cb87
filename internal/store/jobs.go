package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"jobsync-engine/internal/domain"
)

const jobCols = `id, company_id, company_name, title, link, posting_date, discovery_date,
category, description, requirements_summary, location, salary_info, is_active, is_new`

// Filter composes the lookup paths the UI offers: a category filter, the
// derived "new" flag, and a case-insensitive substring search over title,
// company, description and requirements.
type Filter struct {
	Category domain.Category
	OnlyNew  bool
	Search   string
}

func (s *Store) GetAll(ctx context.Context) ([]domain.Job, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+jobCols+` FROM jobs;`)
	if err != nil {
		return nil, storeErr("get all", err)
	}
	return collectJobs(rows, "get all")
}

func (s *Store) GetByID(ctx context.Context, id int64) (domain.Job, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+jobCols+` FROM jobs WHERE id = ?;`, id)
	j, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Job{}, ErrNotFound
	}
	if err != nil {
		return domain.Job{}, storeErr("get by id", err)
	}
	return j, nil
}

func (s *Store) GetByCategory(ctx context.Context, c domain.Category) ([]domain.Job, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+jobCols+` FROM jobs WHERE category = ?;`, string(c))
	if err != nil {
		return nil, storeErr("get by category", err)
	}
	return collectJobs(rows, "get by category")
}

// Put inserts or replaces one job by identifier. Last write wins, no merge.
func (s *Store) Put(ctx context.Context, j domain.Job) error {
	if _, err := s.db.ExecContext(ctx, upsertSQL, upsertArgs(j)...); err != nil {
		return storeErr("put", err)
	}
	return nil
}

// PutMany upserts a batch inside one transaction: either every record lands
// or readers keep seeing the pre-batch state.
func (s *Store) PutMany(ctx context.Context, jobs []domain.Job) error {
	if len(jobs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("put many", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, upsertSQL)
	if err != nil {
		return storeErr("put many", err)
	}
	defer stmt.Close()

	for _, j := range jobs {
		if _, err := stmt.ExecContext(ctx, upsertArgs(j)...); err != nil {
			return storeErr("put many", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storeErr("put many", err)
	}
	return nil
}

func (s *Store) DeleteByID(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = ?;`, id)
	if err != nil {
		return storeErr("delete", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Clear wipes all cached jobs and the sync cursor, so the next sync refetches
// the entire remote history.
func (s *Store) Clear(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("clear", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM jobs;`); err != nil {
		return storeErr("clear", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sync_cursor;`); err != nil {
		return storeErr("clear", err)
	}
	if err := tx.Commit(); err != nil {
		return storeErr("clear", err)
	}
	return nil
}

// QueryFiltered returns jobs newest-first by posting date; equal dates fall
// back to id order so results are stable across calls.
func (s *Store) QueryFiltered(ctx context.Context, f Filter) ([]domain.Job, error) {
	var (
		conds []string
		args  []any
	)

	if f.Category != "" && f.Category != "all" {
		conds = append(conds, `category = ?`)
		args = append(args, string(f.Category))
	}
	if f.OnlyNew {
		conds = append(conds, `is_new = 1`)
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		needle := "%" + strings.ToLower(q) + "%"
		conds = append(conds, `(lower(title) LIKE ? OR lower(company_name) LIKE ?
			OR lower(description) LIKE ? OR lower(requirements_summary) LIKE ?)`)
		args = append(args, needle, needle, needle, needle)
	}

	query := `SELECT ` + jobCols + ` FROM jobs`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	query += ` ORDER BY posting_date DESC, id ASC;`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr("query filtered", err)
	}
	return collectJobs(rows, "query filtered")
}

const upsertSQL = `
INSERT INTO jobs (id, company_id, company_name, title, link, posting_date, discovery_date,
  category, description, requirements_summary, location, salary_info, is_active, is_new)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  company_id = excluded.company_id,
  company_name = excluded.company_name,
  title = excluded.title,
  link = excluded.link,
  posting_date = excluded.posting_date,
  discovery_date = excluded.discovery_date,
  category = excluded.category,
  description = excluded.description,
  requirements_summary = excluded.requirements_summary,
  location = excluded.location,
  salary_info = excluded.salary_info,
  is_active = excluded.is_active,
  is_new = excluded.is_new;`

func upsertArgs(j domain.Job) []any {
	return []any{
		j.ID, j.CompanyID, j.CompanyName, j.Title, j.Link,
		fmtTime(j.PostingDate), fmtTime(j.DiscoveryDate),
		string(j.Category), j.Description, j.RequirementsSummary,
		j.Location, j.SalaryInfo, boolInt(j.IsActive), boolInt(j.IsNew),
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(r rowScanner) (domain.Job, error) {
	var (
		j                  domain.Job
		posting, discovery string
		category           string
		active, isNew      int
	)
	if err := r.Scan(
		&j.ID, &j.CompanyID, &j.CompanyName, &j.Title, &j.Link,
		&posting, &discovery, &category, &j.Description,
		&j.RequirementsSummary, &j.Location, &j.SalaryInfo, &active, &isNew,
	); err != nil {
		return domain.Job{}, err
	}
	j.PostingDate = parseTime(posting)
	j.DiscoveryDate = parseTime(discovery)
	j.Category = domain.Category(category)
	j.IsActive = active != 0
	j.IsNew = isNew != 0
	return j, nil
}

func collectJobs(rows *sql.Rows, op string) ([]domain.Job, error) {
	defer rows.Close()

	var out []domain.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, storeErr(op, err)
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(op, err)
	}
	return out, nil
}

// Times are stored as UTC RFC3339 text so lexicographic ORDER BY matches
// chronological order.
func fmtTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
