package store

func (s *Store) Migrate() error {
	tx, err := s.db.Begin()
	if err != nil {
		return storeErr("migrate", err)
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return storeErr("migrate", err)
	}

	if v >= 1 {
		return tx.Commit()
	}

	// ---- Schema v1: tables ----

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS jobs (
  id INTEGER PRIMARY KEY,
  company_id INTEGER NOT NULL,
  company_name TEXT NOT NULL DEFAULT '',
  title TEXT NOT NULL,
  link TEXT NOT NULL,
  posting_date TEXT NOT NULL,
  discovery_date TEXT NOT NULL,
  category TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  requirements_summary TEXT NOT NULL DEFAULT '',
  location TEXT NOT NULL DEFAULT '',
  salary_info TEXT NOT NULL DEFAULT '',
  is_active INTEGER NOT NULL DEFAULT 1,
  is_new INTEGER NOT NULL DEFAULT 0
);
`); err != nil {
		return storeErr("migrate", err)
	}

	// Singleton sync cursor; the CHECK keeps it a single row.
	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS sync_cursor (
  id INTEGER PRIMARY KEY CHECK (id = 1),
  last_sync TEXT NOT NULL
);
`); err != nil {
		return storeErr("migrate", err)
	}

	// ---- Schema v1: indexes ----

	for _, stmt := range []string{
		`CREATE INDEX IF NOT EXISTS idx_jobs_company ON jobs(company_id);`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_category ON jobs(category);`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_posting_date ON jobs(posting_date DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_is_new ON jobs(is_new) WHERE is_new = 1;`,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return storeErr("migrate", err)
		}
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return storeErr("migrate", err)
	}

	if err := tx.Commit(); err != nil {
		return storeErr("migrate", err)
	}
	return nil
}
