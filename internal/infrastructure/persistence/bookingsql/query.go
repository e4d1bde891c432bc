// Package bookingsql renders port.BookingQuery as SQL for the relational stores.
package bookingsql

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/garyjia/shareit/internal/application/port"
)

// ErrUnscoped is returned for a query that names neither a booker nor items
var ErrUnscoped = errors.New("booking query has no booker or item scope")

// Columns lists the booking columns in the order ScanBooking-style readers expect
const Columns = "id, start_at, end_at, item_id, booker_id, status, created_at"

// Dialect captures what differs between the SQL engines
type Dialect struct {
	// Placeholder renders the n-th (1-based) bind parameter
	Placeholder func(n int) string
	// Time converts a timestamp into the engine's stored representation
	Time func(t time.Time) interface{}
}

// SQLite binds with ? and stores times as Unix milliseconds
var SQLite = Dialect{
	Placeholder: func(int) string { return "?" },
	Time:        func(t time.Time) interface{} { return t.UnixMilli() },
}

// Postgres binds with $n and stores times as timestamptz
var Postgres = Dialect{
	Placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
	Time:        func(t time.Time) interface{} { return t.UTC() },
}

type builder struct {
	d     Dialect
	conds []string
	args  []interface{}
}

func (b *builder) bind(v interface{}) string {
	b.args = append(b.args, v)
	return b.d.Placeholder(len(b.args))
}

func (b *builder) where(cond string) {
	b.conds = append(b.conds, cond)
}

// Select renders the query as a SELECT over the bookings table, newest start
// first unless the query asks for ascending order
func Select(q port.BookingQuery, d Dialect) (string, []interface{}, error) {
	if q.BookerID == 0 && len(q.ItemIDs) == 0 {
		return "", nil, ErrUnscoped
	}

	b := &builder{d: d}

	if q.BookerID != 0 {
		b.where("booker_id = " + b.bind(q.BookerID))
	}
	if len(q.ItemIDs) > 0 {
		ph := make([]string, len(q.ItemIDs))
		for i, id := range q.ItemIDs {
			ph[i] = b.bind(id)
		}
		b.where("item_id IN (" + strings.Join(ph, ", ") + ")")
	}
	if len(q.Statuses) > 0 {
		ph := make([]string, len(q.Statuses))
		for i, s := range q.Statuses {
			ph[i] = b.bind(string(s))
		}
		b.where("status IN (" + strings.Join(ph, ", ") + ")")
	}
	if q.EndBefore != nil {
		b.where("end_at < " + b.bind(d.Time(*q.EndBefore)))
	}
	if q.StartAfter != nil {
		b.where("start_at > " + b.bind(d.Time(*q.StartAfter)))
	}
	if q.StartBefore != nil {
		b.where("start_at < " + b.bind(d.Time(*q.StartBefore)))
	}
	if q.ActiveAt != nil {
		at := d.Time(*q.ActiveAt)
		b.where("start_at < " + b.bind(at))
		b.where("end_at > " + b.bind(at))
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(Columns)
	sb.WriteString(" FROM bookings WHERE ")
	sb.WriteString(strings.Join(b.conds, " AND "))
	if q.Ascending {
		sb.WriteString(" ORDER BY start_at ASC, id ASC")
	} else {
		sb.WriteString(" ORDER BY start_at DESC, id DESC")
	}
	if q.Limit > 0 {
		sb.WriteString(" LIMIT " + b.bind(q.Limit))
		sb.WriteString(" OFFSET " + b.bind(q.Offset))
	}

	return sb.String(), b.args, nil
}
