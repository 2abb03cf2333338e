package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/websters-shivaji/registration-system/sheets"
)

// Registration row column indexes shared by both sheets.
const (
	colEmail = 1
	colPhone = 6
	colEvent = 7
)

const (
	dedupCacheTTL     = 5 * time.Minute
	dedupCacheCleanup = 10 * time.Minute
)

// DuplicateDetector decides whether a submission repeats a prior registration
// for the same event. A prior row counts as a duplicate iff its email or
// phone matches and its event matches; the same email under a different event
// is allowed.
//
// A process-local TTL cache of seen (value, event) pairs short-circuits the
// remote scan. The cache is a latency optimization only: on a cache miss the
// sheet is read and scanned, and that scan is the source of truth.
type DuplicateDetector struct {
	store  sheets.RowStore
	cache  *gocache.Cache
	logger *slog.Logger
}

// NewDuplicateDetector builds a detector over the given row store.
func NewDuplicateDetector(store sheets.RowStore, logger *slog.Logger) *DuplicateDetector {
	if logger == nil {
		logger = slog.Default()
	}
	return &DuplicateDetector{
		store:  store,
		cache:  gocache.New(dedupCacheTTL, dedupCacheCleanup),
		logger: logger,
	}
}

// Check returns ErrDuplicateEmail or ErrDuplicatePhone when the submission
// repeats a prior registration for the event, nil when it is new. An
// unreadable store is reported as ErrBackendReadWrite, never as "no
// duplicates".
func (d *DuplicateDetector) Check(ctx context.Context, email, phone, event string) error {
	email = normalizeEmail(email)

	if _, hit := d.cache.Get(dedupKey("email", email, event)); hit {
		return ErrDuplicateEmail
	}
	if _, hit := d.cache.Get(dedupKey("phone", phone, event)); hit {
		return ErrDuplicatePhone
	}

	rows, err := d.store.ReadRange(ctx, sheets.RegistrationRange)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBackendReadWrite, err)
	}

	var duplicate error
	for i, row := range rows {
		if i == 0 {
			continue // header row
		}
		if len(row) <= colEvent {
			continue
		}
		rowEmail := normalizeEmail(cell(row, colEmail))
		rowPhone := cell(row, colPhone)
		rowEvent := cell(row, colEvent)
		if rowEmail != "" {
			d.cache.SetDefault(dedupKey("email", rowEmail, rowEvent), struct{}{})
		}
		if rowPhone != "" {
			d.cache.SetDefault(dedupKey("phone", rowPhone, rowEvent), struct{}{})
		}
		if duplicate != nil || rowEvent != event {
			continue
		}
		switch {
		case rowEmail == email:
			duplicate = ErrDuplicateEmail
		case rowPhone != "" && rowPhone == phone:
			duplicate = ErrDuplicatePhone
		}
	}
	return duplicate
}

// Remember records a freshly appended registration so an immediate repeat is
// caught without a remote read.
func (d *DuplicateDetector) Remember(email, phone, event string) {
	d.cache.SetDefault(dedupKey("email", normalizeEmail(email), event), struct{}{})
	d.cache.SetDefault(dedupKey("phone", phone, event), struct{}{})
}

func dedupKey(kind, value, event string) string {
	return kind + "|" + event + "|" + value
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func cell(row []interface{}, idx int) string {
	if idx < 0 || idx >= len(row) || row[idx] == nil {
		return ""
	}
	return fmt.Sprint(row[idx])
}
