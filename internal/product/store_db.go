package product

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"MiniAdmin/internal/ident"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
	pgUniqueCode = "23505"
)

// PostgresStore backs the product contract with Postgres. The pos column
// preserves insertion order; id keeps the same opaque string the memory
// store uses, so clients see no difference between backings.
type PostgresStore struct {
	db       *sql.DB
	fallback bool
}

func NewPostgresStore(db *sql.DB, legacyFallback bool) *PostgresStore {
	return &PostgresStore{db: db, fallback: legacyFallback}
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS products (
				pos         BIGSERIAL PRIMARY KEY,
				id          TEXT UNIQUE NOT NULL,
				name        TEXT NOT NULL,
				description TEXT NOT NULL,
				price       DOUBLE PRECISION NOT NULL,
				old_price   DOUBLE PRECISION,
				is_new      BOOLEAN NOT NULL DEFAULT FALSE,
				tags        JSONB NOT NULL DEFAULT '[]',
				image_path  TEXT NOT NULL DEFAULT '',
				created_at  TIMESTAMPTZ NOT NULL,
				updated_at  TIMESTAMPTZ
			)
		`)
		return err
	})
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

const productColumns = `id, name, description, price, old_price, is_new, tags, image_path, created_at, updated_at`

func (s *PostgresStore) List(ctx context.Context) ([]Product, error) {
	var out []Product

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT `+productColumns+`
			FROM products
			ORDER BY pos ASC
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]Product, 0, 16)
		for rows.Next() {
			p, err := scanProduct(rows)
			if err != nil {
				return err
			}
			out = append(out, p)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (Product, bool, error) {
	var (
		p     Product
		found bool
	)

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		var err error
		p, found, err = s.queryByID(ctx, s.db.QueryRowContext, id)
		return err
	})
	if err != nil {
		return Product{}, false, err
	}
	return p, found, nil
}

func (s *PostgresStore) Insert(ctx context.Context, p Product) error {
	tags, err := json.Marshal(p.Tags)
	if err != nil {
		return err
	}

	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO products (id, name, description, price, old_price, is_new, tags, image_path, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, p.ID, p.Name, p.Description, p.Price, p.OldPrice, p.IsNew, tags, p.ImagePath, p.CreatedAt, p.UpdatedAt)
		if isUniqueViolation(err) {
			return ErrDuplicateID
		}
		return err
	})
}

func (s *PostgresStore) Update(ctx context.Context, id string, patch Patch) (Product, bool, error) {
	var (
		p     Product
		found bool
	)

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		p, found, err = s.queryByID(ctx, tx.QueryRowContext, id)
		if err != nil || !found {
			return err
		}

		applyPatch(&p, patch)
		now := time.Now().UTC()
		p.UpdatedAt = &now

		tags, err := json.Marshal(p.Tags)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE products
			SET name = $2, description = $3, price = $4, old_price = $5,
			    is_new = $6, tags = $7, image_path = $8, updated_at = $9
			WHERE id = $1
		`, p.ID, p.Name, p.Description, p.Price, p.OldPrice, p.IsNew, tags, p.ImagePath, p.UpdatedAt)
		if err != nil {
			return err
		}
		return tx.Commit()
	})

	if err != nil || !found {
		return Product{}, false, err
	}
	return p, true, nil
}

func (s *PostgresStore) Remove(ctx context.Context, id string) (Product, bool, error) {
	var (
		p     Product
		found bool
	)

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		p, found, err = s.queryByID(ctx, tx.QueryRowContext, id)
		if err != nil || !found {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, p.ID); err != nil {
			return err
		}
		return tx.Commit()
	})

	if err != nil || !found {
		return Product{}, false, err
	}
	return p, true, nil
}

type rowQuerier func(ctx context.Context, query string, args ...any) *sql.Row

// queryByID runs the two-phase resolution against whichever querier the
// caller supplies (plain connection or open transaction).
func (s *PostgresStore) queryByID(ctx context.Context, q rowQuerier, id string) (Product, bool, error) {
	p, err := scanProduct(q(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE id = $1
	`, id))
	if err == nil {
		return p, true, nil
	}
	if err != sql.ErrNoRows {
		return Product{}, false, err
	}

	if !s.fallback || !ident.LooksLikeObjectID(id) {
		return Product{}, false, nil
	}

	p, err = scanProduct(q(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE id = $1
		ORDER BY pos ASC
		LIMIT 1
	`, ident.FallbackKey(id)))
	if err == sql.ErrNoRows {
		return Product{}, false, nil
	}
	if err != nil {
		return Product{}, false, err
	}
	return p, true, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (Product, error) {
	var (
		p    Product
		tags []byte
	)

	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.OldPrice,
		&p.IsNew, &tags, &p.ImagePath, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Product{}, err
	}

	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &p.Tags); err != nil {
			return Product{}, err
		}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return p, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueCode
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
