package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"phonestore/internal/model"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

// productColumns is the shared select list. Promotions and features are
// derived: store-wide promotions (product_id IS NULL) apply to every product.
const productColumns = `
	p.product_id, p.name, p.brand, p.description, p.price, p.colors, p.storage,
	p.release_date, p.warranty_period, p.image_url, p.created_at, p.updated_at,
	(SELECT string_agg(promotion_name, '; ')
	   FROM promotions
	  WHERE product_id = p.product_id OR product_id IS NULL) AS promotion_names,
	(SELECT string_agg(feature_name, '; ')
	   FROM features
	  WHERE product_id = p.product_id) AS features`

// PostgresRepository handles database operations
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	// Disable prepared statement caching to avoid "unnamed prepared statement does not exist" errors
	if !strings.Contains(dsn, "?") {
		dsn += "?prefer_simple_protocol=true"
	} else {
		dsn += "&prefer_simple_protocol=true"
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{db: db}, nil
}

// NewWithDB wraps an existing connection; used by tests.
func NewWithDB(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// GetProductByName retrieves the first product whose name contains the given
// text, case-insensitively. Returns (nil, nil) on no match.
func (r *PostgresRepository) GetProductByName(ctx context.Context, name string) (*model.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products p
		WHERE p.name ILIKE $1
		ORDER BY p.product_id
		LIMIT 1
	`, productColumns)

	var product model.Product
	err := r.db.GetContext(ctx, &product, query, "%"+name+"%")
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &product, nil
}

// GetProductByID retrieves a single product by its ID.
func (r *PostgresRepository) GetProductByID(ctx context.Context, productID int64) (*model.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products p
		WHERE p.product_id = $1
	`, productColumns)

	var product model.Product
	err := r.db.GetContext(ctx, &product, query, productID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &product, nil
}

// FindByPriceRange returns products priced within [minPrice, maxPrice].
func (r *PostgresRepository) FindByPriceRange(ctx context.Context, minPrice, maxPrice int64) ([]model.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products p
		WHERE p.price BETWEEN $1 AND $2
		ORDER BY p.price
	`, productColumns)

	var products []model.Product
	err := r.db.SelectContext(ctx, &products, query, minPrice, maxPrice)
	if err != nil {
		return nil, fmt.Errorf("failed to find products by price: %w", err)
	}
	return products, nil
}

// FindByBrand returns a brand's products, optionally narrowed by a feature
// and a color, both matched case-insensitively.
func (r *PostgresRepository) FindByBrand(ctx context.Context, brand, feature, color string) ([]model.Product, error) {
	whereClauses := []string{"p.brand = $1"}
	args := []interface{}{brand}
	argIndex := 2

	if feature != "" {
		whereClauses = append(whereClauses, fmt.Sprintf(`EXISTS (
			SELECT 1 FROM features f
			WHERE f.product_id = p.product_id AND f.feature_name ILIKE $%d
		)`, argIndex))
		args = append(args, "%"+feature+"%")
		argIndex++
	}
	if color != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("p.colors ILIKE $%d", argIndex))
		args = append(args, "%"+color+"%")
		argIndex++
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM products p
		WHERE %s
		ORDER BY p.price
	`, productColumns, strings.Join(whereClauses, " AND "))

	var products []model.Product
	err := r.db.SelectContext(ctx, &products, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to find products by brand: %w", err)
	}
	return products, nil
}

// SuggestSimilar returns up to three products of the same brand, excluding
// any whose name contains excludeName.
func (r *PostgresRepository) SuggestSimilar(ctx context.Context, brand, excludeName string) ([]model.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products p
		WHERE p.brand = $1 AND p.name NOT ILIKE $2
		ORDER BY p.product_id
		LIMIT 3
	`, productColumns)

	var products []model.Product
	err := r.db.SelectContext(ctx, &products, query, brand, "%"+excludeName+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to suggest similar products: %w", err)
	}
	return products, nil
}

// SuggestByEmbedding returns the products whose description embeddings are
// nearest to the given vector, excluding one product id. Products without an
// embedding are skipped.
func (r *PostgresRepository) SuggestByEmbedding(ctx context.Context, embedding []float32, excludeID int64, limit int) ([]model.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products p
		WHERE p.embedding IS NOT NULL AND p.product_id <> $2
		ORDER BY p.embedding <-> $1
		LIMIT $3
	`, productColumns)

	vec := pgvector.NewVector(embedding)
	var products []model.Product
	err := r.db.SelectContext(ctx, &products, query, vec, excludeID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest products by embedding: %w", err)
	}
	return products, nil
}

// ListProducts performs the paginated catalog listing with optional search,
// brand, and price filters.
func (r *PostgresRepository) ListProducts(ctx context.Context, filter *model.ProductFilter, limit, offset int) ([]model.Product, int, error) {
	whereClauses := []string{"1=1"}
	args := []interface{}{}
	argIndex := 1

	if filter != nil {
		if filter.Search != "" {
			whereClauses = append(whereClauses, fmt.Sprintf("(p.name ILIKE $%d OR p.brand ILIKE $%d)", argIndex, argIndex+1))
			args = append(args, "%"+filter.Search+"%", "%"+filter.Search+"%")
			argIndex += 2
		}
		if filter.Brand != "" {
			whereClauses = append(whereClauses, fmt.Sprintf("p.brand = $%d", argIndex))
			args = append(args, filter.Brand)
			argIndex++
		}
		if filter.PriceMin > 0 || filter.PriceMax > 0 {
			maxPrice := filter.PriceMax
			if maxPrice <= 0 {
				maxPrice = 999_999_999
			}
			whereClauses = append(whereClauses, fmt.Sprintf("p.price BETWEEN $%d AND $%d", argIndex, argIndex+1))
			args = append(args, filter.PriceMin, maxPrice)
			argIndex += 2
		}
	}

	whereClause := strings.Join(whereClauses, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM products p WHERE %s", whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT %s
		FROM products p
		WHERE %s
		ORDER BY p.product_id
		LIMIT $%d OFFSET $%d
	`, productColumns, whereClause, argIndex, argIndex+1)
	args = append(args, limit, offset)

	var products []model.Product
	if err := r.db.SelectContext(ctx, &products, selectQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	return products, total, nil
}

// ProductsForEmbedding returns the products selected for an embedding
// rebuild; all products when ids is empty.
func (r *PostgresRepository) ProductsForEmbedding(ctx context.Context, ids []int64) ([]model.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products p
		ORDER BY p.product_id
	`, productColumns)
	args := []interface{}{}

	if len(ids) > 0 {
		var err error
		query, args, err = sqlx.In(fmt.Sprintf(`
			SELECT %s
			FROM products p
			WHERE p.product_id IN (?)
			ORDER BY p.product_id
		`, productColumns), ids)
		if err != nil {
			return nil, fmt.Errorf("failed to build embedding query: %w", err)
		}
		query = r.db.Rebind(query)
	}

	var products []model.Product
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch products for embedding: %w", err)
	}
	return products, nil
}

// UpdateEmbedding updates the description embedding for one product.
func (r *PostgresRepository) UpdateEmbedding(ctx context.Context, productID int64, embedding []float32) error {
	vec := pgvector.NewVector(embedding)
	query := `UPDATE products SET embedding = $1, updated_at = NOW() WHERE product_id = $2`
	_, err := r.db.ExecContext(ctx, query, vec, productID)
	if err != nil {
		return fmt.Errorf("failed to update embedding: %w", err)
	}
	return nil
}

// BatchUpdateEmbeddings updates embeddings for multiple products inside one
// transaction. Per-product failures are collected, not fatal.
func (r *PostgresRepository) BatchUpdateEmbeddings(ctx context.Context, ids []int64, embeddings [][]float32) (int, []string) {
	success := 0
	var errors []string

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		errors = append(errors, fmt.Sprintf("failed to start transaction: %v", err))
		return success, errors
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, `UPDATE products SET embedding = $1, updated_at = NOW() WHERE product_id = $2`)
	if err != nil {
		errors = append(errors, fmt.Sprintf("failed to prepare statement: %v", err))
		return success, errors
	}
	defer stmt.Close()

	for i, id := range ids {
		vec := pgvector.NewVector(embeddings[i])
		if _, err := stmt.ExecContext(ctx, vec, id); err != nil {
			errors = append(errors, fmt.Sprintf("product_id %d: %v", id, err))
			continue
		}
		success++
	}

	if err := tx.Commit(); err != nil {
		errors = append(errors, fmt.Sprintf("failed to commit transaction: %v", err))
		return 0, errors
	}

	return success, errors
}

// LogChatTurn logs one completed chatbot exchange
func (r *PostgresRepository) LogChatTurn(ctx context.Context, sessionID, message, intent, reply string, responseTimeMs int) error {
	query := `
		INSERT INTO chat_logs (session_id, message, intent, reply, response_time_ms)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query, sessionID, message, intent, reply, responseTimeMs)
	if err != nil {
		return fmt.Errorf("failed to log chat turn: %w", err)
	}
	return nil
}

// LogFeedback logs a user action on a shown product
func (r *PostgresRepository) LogFeedback(ctx context.Context, sessionID string, productID int64, action string) error {
	query := `
		INSERT INTO product_feedback (session_id, product_id, action)
		VALUES ($1, $2, $3)
	`
	_, err := r.db.ExecContext(ctx, query, sessionID, productID, action)
	if err != nil {
		return fmt.Errorf("failed to log feedback: %w", err)
	}
	return nil
}
