package criteria

import (
	"net/url"
	"strings"
	"testing"
	"time"

	domainCriteria "pos/src/shared/domain/criteria"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func normalize(sql string) string {
	return strings.Join(strings.Fields(sql), " ")
}

var journalColumns = Columns{
	"operator_id":     TextColumn,
	"customer_id":     TextColumn,
	"coupon_code":     TextColumn,
	"item_count":      IntColumn,
	"final":           DecimalColumn,
	"receipt_emailed": BoolColumn,
	"created_at":      TimeColumn,
}

func TestSQLCriteriaConverter_Select(t *testing.T) {
	values := url.Values{}
	values.Set("operator_id", "7")
	values.Set("created_at_from", "2026-10-01")
	values.Set("created_at_to", "2026-10-02T12:00:00Z")
	values.Set("final_from", "100.50")
	values.Set("order_by", "created_at")
	values.Set("order", "asc")
	values.Set("limit", "10")

	c := domainCriteria.NewCriteriaBuilder().FromURLValues(values).Build()
	query, err := NewSQLCriteriaConverter(journalColumns).Select("SELECT id FROM pos_checkouts", c)
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT id FROM pos_checkouts WHERE created_at >= $1 AND created_at < $2 AND final >= $3 AND operator_id = $4 ORDER BY created_at ASC LIMIT 10 OFFSET 0",
		normalize(query.SQL))
	require.Len(t, query.Args, 4)
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), query.Args[0])
	assert.Equal(t, time.Date(2026, 10, 2, 12, 0, 0, 0, time.UTC), query.Args[1])
	assert.True(t, decimal.RequireFromString("100.50").Equal(query.Args[2].(decimal.Decimal)))
	assert.Equal(t, "7", query.Args[3])
}

func TestSQLCriteriaConverter_CountWithNullAndLike(t *testing.T) {
	c := domainCriteria.NewCriteriaBuilder().
		Where("coupon_code", domainCriteria.OpIsNotNull, nil).
		Where("customer_id", domainCriteria.OpLike, "42").
		Where("receipt_emailed", domainCriteria.OpEqual, "true").
		Where("item_count", domainCriteria.OpGreaterThan, "2").
		OrderBy("created_at", domainCriteria.DESC).
		Build()

	query, err := NewSQLCriteriaConverter(journalColumns).Count("SELECT COUNT(*) FROM pos_checkouts", c)
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT COUNT(*) FROM pos_checkouts WHERE coupon_code IS NOT NULL AND customer_id LIKE $1 AND receipt_emailed = $2 AND item_count > $3",
		normalize(query.SQL))
	assert.Equal(t, []interface{}{"%42%", true, 2}, query.Args)
}

func TestSQLCriteriaConverter_Rejects(t *testing.T) {
	converter := NewSQLCriteriaConverter(journalColumns)
	cases := []struct {
		name     string
		criteria domainCriteria.Criteria
		err      error
	}{
		{"unknown filter column", domainCriteria.NewCriteriaBuilder().Where("password", domainCriteria.OpEqual, "x").Build(), ErrUnknownColumn},
		{"unknown order column", domainCriteria.NewCriteriaBuilder().OrderBy("1; DROP TABLE pos_checkouts", domainCriteria.ASC).Build(), ErrUnknownColumn},
		{"bad date", domainCriteria.NewCriteriaBuilder().Where("created_at", domainCriteria.OpGreaterThanOrEqual, "yesterday").Build(), ErrInvalidFilterValue},
		{"bad amount", domainCriteria.NewCriteriaBuilder().Where("final", domainCriteria.OpEqual, "abc").Build(), ErrInvalidFilterValue},
		{"like on number", domainCriteria.NewCriteriaBuilder().Where("final", domainCriteria.OpLike, "1").Build(), ErrInvalidFilterValue},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := converter.Select("SELECT id FROM pos_checkouts", tc.criteria)
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestControllerHelper_DropsUnknownFields(t *testing.T) {
	c := domainCriteria.NewCriteriaBuilder().
		Where("operator_id", domainCriteria.OpEqual, "7").
		Where("1=1; DROP TABLE pos_checkouts; --", domainCriteria.OpEqual, "x").
		OrderBy("password", domainCriteria.ASC).
		Build()

	defaultOrder := domainCriteria.NewOrder("created_at", domainCriteria.DESC)
	sanitized := NewControllerHelper().ValidateAndSanitizeCriteria(c, []string{"operator_id", "created_at"}, defaultOrder)

	assert.Len(t, sanitized.Filters.Items, 1)
	assert.Equal(t, "operator_id", sanitized.Filters.Items[0].Field)
	assert.Equal(t, defaultOrder, sanitized.Order)
}
