package usecase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pos/src/pos/application/response"
)

// DailyReportUseCase caso de uso para el reporte diario del journal del POS
type DailyReportUseCase struct {
	db *sql.DB
}

// NewDailyReportUseCase crea una nueva instancia del caso de uso
func NewDailyReportUseCase(db *sql.DB) *DailyReportUseCase {
	return &DailyReportUseCase{
		db: db,
	}
}

// ErrInvalidDate fecha con formato distinto de YYYY-MM-DD
var ErrInvalidDate = errors.New("invalid date format, expected YYYY-MM-DD")

// Execute genera el reporte diario; operatorID vacío = todos los operadores
func (uc *DailyReportUseCase) Execute(ctx context.Context, date, operatorID string) (*response.DailyReportResponse, error) {
	// ========================================================================
	// PASO 1: VALIDAR FECHA Y CALCULAR RANGO [from, to)
	// ========================================================================
	from, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	to := from.AddDate(0, 0, 1)

	where := "WHERE created_at >= $1 AND created_at < $2"
	args := []interface{}{from, to}
	if operatorID != "" {
		where += " AND operator_id = $3"
		args = append(args, operatorID)
	}

	// ========================================================================
	// PASO 2: AGREGADOS DEL DÍA
	// ========================================================================
	queryTotals := `
		SELECT
			COUNT(*) as sales_count,
			COUNT(coupon_code) as coupon_sales_count,
			COALESCE(SUM(item_count), 0) as items_sold,
			COALESCE(SUM(subtotal), 0) as gross_total,
			COALESCE(SUM(discount), 0) as total_discounts,
			COALESCE(SUM(final), 0) as net_total,
			MIN(created_at) as first_sale,
			MAX(created_at) as last_sale
		FROM pos_checkouts
		` + where

	resp := &response.DailyReportResponse{
		Date:            date,
		OperatorID:      operatorID,
		ByPaymentMethod: []response.TenderTotal{},
	}
	var firstSale, lastSale sql.NullTime

	err = uc.db.QueryRowContext(ctx, queryTotals, args...).Scan(
		&resp.SalesCount,
		&resp.CouponSalesCount,
		&resp.ItemsSold,
		&resp.GrossTotal,
		&resp.Discounts,
		&resp.NetTotal,
		&firstSale,
		&lastSale,
	)
	if err != nil {
		return nil, fmt.Errorf("error querying pos_checkouts: %w", err)
	}

	if firstSale.Valid {
		resp.FirstTransactionAt = &firstSale.Time
	}
	if lastSale.Valid {
		resp.LastTransactionAt = &lastSale.Time
	}

	// ========================================================================
	// PASO 3: DESGLOSE POR MEDIO DE PAGO
	// ========================================================================
	queryTenders := `
		SELECT payment_method, COUNT(*), COALESCE(SUM(final), 0)
		FROM pos_checkouts
		` + where + `
		GROUP BY payment_method
		ORDER BY payment_method`

	rows, err := uc.db.QueryContext(ctx, queryTenders, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying pos_checkouts by payment method: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var total response.TenderTotal
		if err := rows.Scan(&total.PaymentMethod, &total.SalesCount, &total.NetTotal); err != nil {
			return nil, fmt.Errorf("error scanning payment method totals: %w", err)
		}
		resp.ByPaymentMethod = append(resp.ByPaymentMethod, total)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment method totals: %w", err)
	}

	return resp, nil
}
