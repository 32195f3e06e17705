package app

import (
	"database/sql"
	"fmt"

	"github.com/NERSC/lustre-design-analysis/models"
	_ "modernc.org/sqlite"
)

// schemaLayout identifies how inode types and sizes are laid out in a
// source database.
type schemaLayout int

const (
	// layoutEntriesType: a single 'entries' table with a Robinhood-style
	// 'type' column (Lustre dumps).
	layoutEntriesType schemaLayout = iota

	// layoutEntriesMode: a single 'entries' table encoding the inode
	// type in the first character of the 'mode' column (GPFS
	// mmapplypolicy dumps).
	layoutEntriesMode

	// layoutSizeTables: one size table per inode type ('files', 'dirs',
	// ...), the output of the sizetables demultiplexer.
	layoutSizeTables
)

// Analyzer reads a reference inode population out of a SQLite dump. It
// autodetects which of the three supported schemas the database uses and
// implements InodeSource on top of server-side aggregate queries.
type Analyzer struct {
	db     *sql.DB
	layout schemaLayout
}

func NewAnalyzer(dbPath string) (*Analyzer, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open db %s: %w", dbPath, err)
	}
	db.Exec(`PRAGMA journal_mode = WAL`)
	db.Exec(`PRAGMA busy_timeout = 5000`)

	layout, err := detectLayout(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("detecting schema of %s: %w", dbPath, err)
	}

	return &Analyzer{db: db, layout: layout}, nil
}

func (a *Analyzer) Close() {
	a.db.Close()
}

func detectLayout(db *sql.DB) (schemaLayout, error) {
	columns, err := tableColumns(db, "entries")
	if err != nil {
		return 0, err
	}

	if len(columns) > 0 {
		if columns["type"] {
			return layoutEntriesType, nil
		}
		if columns["mode"] || columns["snapshot"] {
			return layoutEntriesMode, nil
		}
		return 0, fmt.Errorf("entries table has neither a type nor a mode column")
	}

	// No entries table; look for per-type size tables.
	var name string
	err = db.QueryRow(
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`,
		models.TypeFile.TableName()).Scan(&name)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("no entries table and no per-type size tables found")
	}
	if err != nil {
		return 0, err
	}
	return layoutSizeTables, nil
}

func tableColumns(db *sql.DB, table string) (map[string]bool, error) {
	rows, err := db.Query(fmt.Sprintf(`PRAGMA table_info(%q)`, table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns := make(map[string]bool)
	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notnull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return nil, err
		}
		columns[name] = true
	}
	return columns, rows.Err()
}

// Types returns the inode types the database can answer for. For the
// sizetables layout this is the set of tables actually present; the entries
// layouts can be queried for every type.
func (a *Analyzer) Types() []models.InodeType {
	if a.layout != layoutSizeTables {
		return models.AllInodeTypes
	}

	var types []models.InodeType
	for _, typ := range models.AllInodeTypes {
		var name string
		err := a.db.QueryRow(
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`,
			typ.TableName()).Scan(&name)
		if err == nil {
			types = append(types, typ)
		}
	}
	return types
}

// CountRange counts inodes of one type with lo < size <= hi, aggregated
// inside SQLite. Negative hi drops the upper bound.
func (a *Analyzer) CountRange(typ models.InodeType, lo, hi int64) (int64, error) {
	var (
		query string
		args  []any
	)
	switch a.layout {
	case layoutEntriesType:
		query = `SELECT COUNT(*) FROM entries WHERE type = ? AND size > ?`
		args = []any{string(typ), lo}
	case layoutEntriesMode:
		query = `SELECT COUNT(*) FROM entries WHERE mode LIKE ? AND size > ?`
		args = []any{typ.ModePrefix() + "%", lo}
	case layoutSizeTables:
		// Table name comes from the InodeType enum, never from input.
		query = fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE size > ?`, typ.TableName())
		args = []any{lo}
	}
	if hi >= 0 {
		query += ` AND size <= ?`
		args = append(args, hi)
	}

	var n int64
	if err := a.db.QueryRow(query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// ChildCountHistogram bins directories by their number of children,
// aggregated server-side with a double group-by over parent_id. Only the
// entries layouts carry parentage; the counts land in the dirs column of
// the returned histogram.
func (a *Analyzer) ChildCountHistogram(index *BinIndex) (*Histogram, error) {
	if a.layout == layoutSizeTables {
		return nil, fmt.Errorf("child counts need an entries table with parent_id")
	}

	rows, err := a.db.Query(`
		SELECT cnt, COUNT(*)
		FROM (
			SELECT COUNT(*) AS cnt
			FROM entries
			WHERE parent_id IS NOT NULL AND parent_id != ''
			GROUP BY parent_id
		)
		GROUP BY cnt
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	h := NewHistogram(index)
	for rows.Next() {
		var children, parents int64
		if err := rows.Scan(&children, &parents); err != nil {
			return nil, err
		}
		h.Add(models.TypeDir, children, parents)
	}
	return h, rows.Err()
}
