package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"pos/src/pos/domain/entity"
	"pos/src/pos/domain/port"
	"pos/src/shared/domain/criteria"
	sqlCriteria "pos/src/shared/infrastructure/criteria"
)

// CheckoutPostgresRepository implementa CheckoutJournal usando PostgreSQL
// Sin lógica de negocio, solo insert y select
type CheckoutPostgresRepository struct {
	db        *sql.DB
	converter *sqlCriteria.SQLCriteriaConverter
}

// checkoutColumns columnas de pos_checkouts que aceptan filtros y orden
var checkoutColumns = sqlCriteria.Columns{
	"sale_id":         sqlCriteria.TextColumn,
	"operator_id":     sqlCriteria.TextColumn,
	"customer_id":     sqlCriteria.TextColumn,
	"coupon_code":     sqlCriteria.TextColumn,
	"payment_method":  sqlCriteria.TextColumn,
	"subtotal":        sqlCriteria.DecimalColumn,
	"discount":        sqlCriteria.DecimalColumn,
	"final":           sqlCriteria.DecimalColumn,
	"item_count":      sqlCriteria.IntColumn,
	"receipt_emailed": sqlCriteria.BoolColumn,
	"created_at":      sqlCriteria.TimeColumn,
}

// NewCheckoutPostgresRepository crea una nueva instancia del repositorio
func NewCheckoutPostgresRepository(db *sql.DB) port.CheckoutJournal {
	return &CheckoutPostgresRepository{
		db:        db,
		converter: sqlCriteria.NewSQLCriteriaConverter(checkoutColumns),
	}
}

const checkoutSchema = `
	CREATE TABLE IF NOT EXISTS pos_checkouts (
		id UUID PRIMARY KEY,
		sale_id VARCHAR(64) NOT NULL,
		operator_id VARCHAR(64) NOT NULL,
		customer_id VARCHAR(64) NOT NULL,
		coupon_code VARCHAR(64),
		payment_method VARCHAR(16) NOT NULL,
		subtotal NUMERIC(14,2) NOT NULL,
		discount NUMERIC(14,2) NOT NULL,
		final NUMERIC(14,2) NOT NULL,
		item_count INTEGER NOT NULL,
		receipt_emailed BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_pos_checkouts_created_at ON pos_checkouts (created_at);
	CREATE TABLE IF NOT EXISTS pos_checkout_items (
		id UUID PRIMARY KEY,
		checkout_id UUID NOT NULL REFERENCES pos_checkouts(id),
		product_id VARCHAR(64) NOT NULL,
		product_name VARCHAR(255) NOT NULL,
		quantity INTEGER NOT NULL,
		unit_price NUMERIC(14,2) NOT NULL,
		subtotal NUMERIC(14,2) NOT NULL
	);
`

// EnsureSchema crea las tablas del journal si no existen
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, checkoutSchema); err != nil {
		return fmt.Errorf("error creating pos_checkouts schema: %w", err)
	}
	return nil
}

// Create persiste una venta finalizada con sus líneas (atomically)
func (r *CheckoutPostgresRepository) Create(ctx context.Context, record *entity.CheckoutRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	// 1. Insertar pos_checkouts
	queryCheckout := `
		INSERT INTO pos_checkouts (
			id, sale_id, operator_id, customer_id, coupon_code, payment_method,
			subtotal, discount, final, item_count, receipt_emailed, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)
	`

	_, err = tx.ExecContext(ctx, queryCheckout,
		record.ID,
		record.SaleID,
		record.OperatorID,
		record.CustomerID,
		sql.NullString{String: record.CouponCode, Valid: record.CouponCode != ""},
		string(record.Tender),
		record.Subtotal,
		record.Discount,
		record.Final,
		record.ItemCount,
		record.ReceiptEmailed,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error creating pos_checkout: %w", err)
	}

	// 2. Insertar pos_checkout_items
	queryItem := `
		INSERT INTO pos_checkout_items (
			id, checkout_id, product_id, product_name, quantity, unit_price, subtotal
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
	`

	for _, item := range record.Items {
		_, err = tx.ExecContext(ctx, queryItem,
			item.ID,
			item.CheckoutID,
			item.ProductID,
			item.ProductName,
			item.Quantity,
			item.UnitPrice,
			item.Subtotal,
		)
		if err != nil {
			return fmt.Errorf("error creating pos_checkout_item for product %s: %w", item.ProductID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}

	return nil
}

// Search retorna las ventas que cumplen el criteria (sin líneas)
func (r *CheckoutPostgresRepository) Search(ctx context.Context, c criteria.Criteria) ([]*entity.CheckoutRecord, error) {
	baseQuery := `
		SELECT
			id, sale_id, operator_id, customer_id, coupon_code, payment_method,
			subtotal, discount, final, item_count, receipt_emailed, created_at
		FROM pos_checkouts`

	query, err := r.converter.Select(baseQuery, c)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query.SQL, query.Args...)
	if err != nil {
		return nil, fmt.Errorf("error querying pos_checkouts: %w", err)
	}
	defer rows.Close()

	var records []*entity.CheckoutRecord

	for rows.Next() {
		record := &entity.CheckoutRecord{}
		var couponCode sql.NullString
		var tender string
		err := rows.Scan(
			&record.ID,
			&record.SaleID,
			&record.OperatorID,
			&record.CustomerID,
			&couponCode,
			&tender,
			&record.Subtotal,
			&record.Discount,
			&record.Final,
			&record.ItemCount,
			&record.ReceiptEmailed,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning pos_checkout: %w", err)
		}
		record.CouponCode = couponCode.String
		record.Tender = entity.Tender(tender)
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pos_checkouts: %w", err)
	}

	return records, nil
}

// Count total de ventas que cumplen los filtros del criteria (ignora orden y paginación)
func (r *CheckoutPostgresRepository) Count(ctx context.Context, c criteria.Criteria) (int, error) {
	query, err := r.converter.Count("SELECT COUNT(*) FROM pos_checkouts", c)
	if err != nil {
		return 0, err
	}

	var total int
	if err := r.db.QueryRowContext(ctx, query.SQL, query.Args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("error counting pos_checkouts: %w", err)
	}
	return total, nil
}
