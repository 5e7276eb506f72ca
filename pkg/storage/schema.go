package storage

import (
	"context"
	"fmt"
)

// Category table DDL. Each table keeps the shape of the upstream scraper
// output; there is deliberately no shared schema across categories.
var schemas = map[string]string{
	"books": `CREATE TABLE IF NOT EXISTS books (
		id INTEGER PRIMARY KEY,
		name TEXT,
		author TEXT,
		open_file TEXT,
		pages TEXT,
		files TEXT,
		parts TEXT,
		researcher_supervisor TEXT,
		publisher TEXT,
		publication_country TEXT,
		city TEXT,
		main_category TEXT,
		sub_category TEXT,
		topics TEXT,
		download_link TEXT,
		alternative_link TEXT,
		section_books_count TEXT,
		parts_count TEXT,
		size_bytes TEXT,
		format TEXT
	)`,
	"fatwa": `CREATE TABLE IF NOT EXISTS fatwa (
		id INTEGER PRIMARY KEY,
		title TEXT,
		question TEXT,
		answer TEXT,
		audio TEXT
	)`,
	"articles": genericSchema("articles"),
	"audios":   genericSchema("audios"),
	"videos":   genericSchema("videos"),
}

func genericSchema(table string) string {
	return `CREATE TABLE IF NOT EXISTS ` + table + ` (
		id INTEGER PRIMARY KEY,
		title TEXT,
		localized_name TEXT,
		description TEXT,
		prepared_by TEXT,
		translators TEXT,
		attachments TEXT,
		add_date TEXT,
		pub_date TEXT,
		created_at TEXT,
		extracted_at TEXT
	)`
}

// InitSchema creates every category table that does not exist yet.
func (s *Store) InitSchema(ctx context.Context) error {
	for table, ddl := range schemas {
		if _, err := s.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("creating table %s: %w", table, err)
		}
	}
	return nil
}
