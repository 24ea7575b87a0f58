package order

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

const numberSuffixLen = 4

// DayPrefix renders the DDMMYYYY prefix shared by all order numbers created
// on the same calendar day.
func DayPrefix(day time.Time) string {
	return day.Format("02012006")
}

// NextNumber computes the successor of lastNumber within day's sequence.
// An empty or foreign-day lastNumber starts the day at 0001.
func NextNumber(lastNumber string, day time.Time) string {
	prefix := DayPrefix(day)
	seq := 1
	if strings.HasPrefix(lastNumber, prefix) && len(lastNumber) == len(prefix)+numberSuffixLen {
		if parsed, err := strconv.Atoi(lastNumber[len(prefix):]); err == nil {
			seq = parsed + 1
		}
	}
	return fmt.Sprintf("%s%0*d", prefix, numberSuffixLen, seq)
}

// GenerateNumber reads the highest order number issued today and returns the
// next one. Uniqueness is enforced by the index on orders.order_number; the
// caller retries on conflict because two creations can still read the same
// last number concurrently.
func GenerateNumber(ctx context.Context, q Querier, now time.Time) (string, error) {
	prefix := DayPrefix(now)

	var last string
	err := q.QueryRow(ctx, `
		select order_number from orders
		where order_number like $1 || '%'
		order by order_number desc
		limit 1
	`, prefix).Scan(&last)
	if err != nil && err != pgx.ErrNoRows {
		return "", err
	}

	return NextNumber(last, now), nil
}
