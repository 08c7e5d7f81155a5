package storage

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"sales-dashboard/models"
	"sales-dashboard/utils"
)

type dialect struct {
	name     string
	idColumn string
	bind     func(n int) string
}

var dialects = map[string]dialect{
	"postgres": {
		name:     "postgres",
		idColumn: "id SERIAL PRIMARY KEY",
		bind:     func(n int) string { return fmt.Sprintf("$%d", n) },
	},
	"sqlite": {
		name:     "sqlite",
		idColumn: "id INTEGER PRIMARY KEY AUTOINCREMENT",
		bind:     func(int) string { return "?" },
	},
}

// SQLStore keeps the catalog in a SQL database (PostgreSQL or SQLite).
type SQLStore struct {
	db      *sql.DB
	dialect dialect
	logger  *utils.Logger
}

// NewSQLStore opens the database, waits for it to answer, and creates the
// schema if needed.
func NewSQLStore(driver, dsn string, retry *utils.RetryConfig) (*SQLStore, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("sql: unsupported driver %q", driver)
	}

	db, err := sql.Open(d.name, dsn)
	if err != nil {
		return nil, fmt.Errorf("sql: open: %w", err)
	}
	if d.name == "sqlite" {
		db.SetMaxOpenConns(1)
	}

	if err := retry.Do(d.name+" ping", db.Ping); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sql: %w", err)
	}

	s := &SQLStore{db: db, dialect: d, logger: retry.Logger}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sql: migrate: %w", err)
	}
	return s, nil
}

func (s *SQLStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS products (
			` + s.dialect.idColumn + `,
			category            TEXT,
			product_name        TEXT NOT NULL DEFAULT '',
			user_name           TEXT NOT NULL DEFAULT '',
			rating              DOUBLE PRECISION,
			discounted_price    DOUBLE PRECISION,
			actual_price        DOUBLE PRECISION,
			discount_percentage DOUBLE PRECISION
		)`,
		`CREATE INDEX IF NOT EXISTS idx_products_category ON products(category)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Write replaces the stored catalog with ds, in batches, inside one transaction.
func (s *SQLStore) Write(ds models.Dataset) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("sql: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec("DELETE FROM products"); err != nil {
		return fmt.Errorf("sql: clear: %w", err)
	}

	const batchSize = 50
	for i := 0; i < len(ds); i += batchSize {
		end := i + batchSize
		if end > len(ds) {
			end = len(ds)
		}
		if err := s.insertBatch(tx, ds[i:end]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sql: commit: %w", err)
	}
	if s.logger != nil {
		s.logger.Info("[sql] Stored %d products", len(ds))
	}
	return nil
}

func (s *SQLStore) insertBatch(tx *sql.Tx, batch models.Dataset) error {
	const cols = 7
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]any, 0, len(batch)*cols)

	for idx, p := range batch {
		ph := make([]string, cols)
		for c := range ph {
			ph[c] = s.dialect.bind(idx*cols + c + 1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(ph, ",")+")")
		valueArgs = append(valueArgs,
			sql.NullString{String: p.Category, Valid: p.Category != ""},
			p.ProductName, p.UserName,
			p.Rating, p.DiscountedPrice, p.ActualPrice, p.DiscountPercentage)
	}

	query := fmt.Sprintf(`
		INSERT INTO products (category, product_name, user_name, rating, discounted_price, actual_price, discount_percentage)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	if _, err := tx.Exec(query, valueArgs...); err != nil {
		return fmt.Errorf("sql: insert batch: %w", err)
	}
	return nil
}

// FetchAll returns the stored catalog in insertion order. NULL numbers come
// back as empty strings, which the normalizer maps to the missing marker.
func (s *SQLStore) FetchAll() ([]*models.RawProduct, error) {
	rows, err := s.db.Query(`
		SELECT category, product_name, user_name, rating, discounted_price, actual_price, discount_percentage
		FROM products
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("sql: fetch all: %w", err)
	}
	defer rows.Close()

	var products []*models.RawProduct
	for rows.Next() {
		var category sql.NullString
		p := &models.Product{}
		if err := rows.Scan(
			&category, &p.ProductName, &p.UserName,
			&p.Rating, &p.DiscountedPrice, &p.ActualPrice, &p.DiscountPercentage,
		); err != nil {
			return nil, fmt.Errorf("sql: scan row: %w", err)
		}
		p.Category = category.String
		products = append(products, p.Raw())
	}
	return products, rows.Err()
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
