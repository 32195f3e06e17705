package app

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/NERSC/lustre-design-analysis/models"
	_ "modernc.org/sqlite"
)

// MakeSizeTables demultiplexes an entries table into one size table per
// inode type in a separate output database, each with a size index so the
// histogram range counts stay cheap. fast disables journaling, synchronous
// writes and locking for a one-shot bulk copy; verbose logs each step.
func MakeSizeTables(inputPath, outputPath string, fast, verbose bool) error {
	db, err := sql.Open("sqlite", inputPath)
	if err != nil {
		return fmt.Errorf("failed to open db %s: %w", inputPath, err)
	}
	defer db.Close()

	layout, err := detectLayout(db)
	if err != nil {
		return fmt.Errorf("detecting schema of %s: %w", inputPath, err)
	}
	if layout == layoutSizeTables {
		return fmt.Errorf("%s already contains per-type size tables", inputPath)
	}

	if _, err := db.Exec(`ATTACH DATABASE ? AS outputdb`, outputPath); err != nil {
		return fmt.Errorf("attaching %s: %w", outputPath, err)
	}

	if fast {
		db.Exec(`PRAGMA journal_mode = off`)
		db.Exec(`PRAGMA synchronous = off`)
		db.Exec(`PRAGMA locking_mode = exclusive`)
	}

	for _, typ := range models.AllInodeTypes {
		table := typ.TableName()
		if verbose {
			log.Printf("Demultiplexing %s", table)
		}

		if _, err := db.Exec(fmt.Sprintf(`CREATE TABLE outputdb.%s (size integer)`, table)); err != nil {
			return fmt.Errorf("creating table %s: %w", table, err)
		}

		var insert string
		var arg any
		switch layout {
		case layoutEntriesType:
			insert = fmt.Sprintf(`INSERT INTO outputdb.%s SELECT size FROM main.entries WHERE entries.type = ?`, table)
			arg = string(typ)
		case layoutEntriesMode:
			insert = fmt.Sprintf(`INSERT INTO outputdb.%s SELECT size FROM main.entries WHERE entries.mode LIKE ?`, table)
			arg = typ.ModePrefix() + "%"
		}
		res, err := db.Exec(insert, arg)
		if err != nil {
			return fmt.Errorf("populating table %s: %w", table, err)
		}
		if verbose {
			n, _ := res.RowsAffected()
			log.Printf("  Copied %d %s sizes", n, typ)
		}

		idx := fmt.Sprintf(`CREATE INDEX outputdb.%s_size_idx ON %s (size)`, string(typ), table)
		if _, err := db.Exec(idx); err != nil {
			return fmt.Errorf("indexing table %s: %w", table, err)
		}
	}

	return nil
}
