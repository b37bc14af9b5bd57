package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TimestampLayout renders ISO-8601 timestamps with a fixed width so the string
// ordering of stored values matches their chronological ordering.
const TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// DateLayout renders calendar dates (due dates, start/end dates).
const DateLayout = "2006-01-02"

// Clock abstracts time retrieval for deterministic testing.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID creation.
type IDGenerator interface {
	UUID() uuid.UUID
}

// Logger captures basic logging hooks used by the service.
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Error(msg string, err error, fields ...any)
}

// Pagination carries the skip/limit pair accepted by every list query.
type Pagination struct {
	Limit  int
	Offset int
}

// Page builds a Pagination from the skip/limit convention used by callers.
func Page(skip, limit int) Pagination {
	return Pagination{Limit: limit, Offset: skip}
}

// NormalizePagination clamps the limit to (0, max] falling back to def and
// rejects negative offsets.
func NormalizePagination(p Pagination, def, max int) Pagination {
	if p.Limit <= 0 {
		p.Limit = def
	}
	if max > 0 && p.Limit > max {
		p.Limit = max
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// Principal is the authenticated identity attributed to a write. It is
// supplied by the host application; this module never verifies credentials.
type Principal struct {
	ID     uuid.UUID
	Name   string
	Role   string
	Active bool
}

// IsZero reports whether the principal carries no identity.
func (p Principal) IsZero() bool {
	return p.ID == uuid.Nil && strings.TrimSpace(p.Name) == ""
}

// DateRange bounds ISO string columns inclusively. Empty bounds are open.
type DateRange struct {
	From string
	To   string
}

// IsZero reports whether neither bound was supplied.
func (r DateRange) IsZero() bool {
	return strings.TrimSpace(r.From) == "" && strings.TrimSpace(r.To) == ""
}

// FloatRange bounds numeric columns inclusively. Nil bounds are open.
type FloatRange struct {
	Min *float64
	Max *float64
}

// IntRange bounds integer columns inclusively. Nil bounds are open.
type IntRange struct {
	Min *int64
	Max *int64
}

// FormatTimestamp renders t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// FormatDate renders the UTC calendar date of t.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// SystemClock defers to time.Now for production usage.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// FixedClock always returns the wrapped instant.
type FixedClock struct {
	T time.Time
}

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time { return c.T }

// UUIDGenerator produces UUIDv4 identifiers.
type UUIDGenerator struct{}

// UUID returns a randomly generated UUID.
func (UUIDGenerator) UUID() uuid.UUID { return uuid.New() }

// NopLogger discards all log lines.
type NopLogger struct{}

// Debug implements Logger.
func (NopLogger) Debug(string, ...any) {}

// Info implements Logger.
func (NopLogger) Info(string, ...any) {}

// Error implements Logger.
func (NopLogger) Error(string, error, ...any) {}

// Float returns a pointer to v, handy for ranges and patches.
func Float(v float64) *float64 { return &v }

// Int64 returns a pointer to v.
func Int64(v int64) *int64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }

// UUID returns a pointer to v.
func UUID(v uuid.UUID) *uuid.UUID { return &v }
