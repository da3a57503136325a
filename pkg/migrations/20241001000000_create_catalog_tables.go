package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec(`
			CREATE TABLE authors (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				first_name TEXT NOT NULL,
				last_name TEXT NOT NULL,
				date_of_birth TEXT,
				date_of_death TEXT
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE genres (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE languages (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE books (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				title TEXT NOT NULL,
				summary TEXT NOT NULL,
				isbn TEXT NOT NULL,
				author_id INTEGER REFERENCES authors (id) ON DELETE SET NULL,
				language_id INTEGER REFERENCES languages (id) ON DELETE SET NULL
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_books_author_id ON books (author_id)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE book_genres (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				book_id INTEGER REFERENCES books (id) ON DELETE CASCADE NOT NULL,
				genre_id INTEGER REFERENCES genres (id) ON DELETE CASCADE NOT NULL
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE UNIQUE INDEX ux_book_genres ON book_genres (book_id, genre_id)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE users (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				username TEXT NOT NULL UNIQUE COLLATE NOCASE,
				password_hash TEXT NOT NULL
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE roles (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL UNIQUE
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE user_roles (
				user_id INTEGER REFERENCES users (id) ON DELETE CASCADE NOT NULL,
				role_id INTEGER REFERENCES roles (id) ON DELETE CASCADE NOT NULL,
				PRIMARY KEY (user_id, role_id)
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		// A borrower cannot be deleted while they hold a copy.
		_, err = db.Exec(`
			CREATE TABLE book_instances (
				id TEXT PRIMARY KEY,
				book_id INTEGER REFERENCES books (id) ON DELETE CASCADE NOT NULL,
				imprint TEXT NOT NULL,
				due_back TEXT,
				borrower_id INTEGER REFERENCES users (id) ON DELETE RESTRICT,
				status TEXT NOT NULL DEFAULT 'available'
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_book_instances_book_id ON book_instances (book_id)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_book_instances_borrower_id ON book_instances (borrower_id)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_book_instances_due_back ON book_instances (status, due_back)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE outstanding_tokens (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				jti TEXT NOT NULL UNIQUE,
				user_id INTEGER REFERENCES users (id) ON DELETE CASCADE NOT NULL,
				token TEXT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL,
				expires_at TIMESTAMPTZ NOT NULL
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_outstanding_tokens_expires_at ON outstanding_tokens (expires_at)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE blacklisted_tokens (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				token_id INTEGER REFERENCES outstanding_tokens (id) ON DELETE CASCADE NOT NULL UNIQUE,
				blacklisted_at TIMESTAMPTZ NOT NULL
			)
`)
		return errors.WithStack(err)
	}

	down := func(_ context.Context, db *bun.DB) error {
		tables := []string{
			"blacklisted_tokens",
			"outstanding_tokens",
			"book_instances",
			"user_roles",
			"roles",
			"users",
			"book_genres",
			"books",
			"languages",
			"genres",
			"authors",
		}
		for _, table := range tables {
			if _, err := db.Exec("DROP TABLE IF EXISTS " + table); err != nil {
				return errors.WithStack(err)
			}
		}
		return nil
	}

	Migrations.MustRegister(up, down)
}
