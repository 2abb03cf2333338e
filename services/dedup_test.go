package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/websters-shivaji/registration-system/models"
)

func seededEventStore(rows ...[]interface{}) *fakeRowStore {
	store := eventStore()
	store.rows = append(store.rows, rows...)
	return store
}

func registrationRow(email, phone, event string) []interface{} {
	return models.NewEventRow(models.EventRegistration{
		Name:    "Someone",
		College: models.HomeCollege,
		Event:   event,
		Email:   email,
		Phone:   phone,
		RollNo:  "100",
		Course:  "BSc",
		Year:    "1st Year",
	}, "", nil, time.Now()).Values()
}

func TestCheckNoRows(t *testing.T) {
	d := NewDuplicateDetector(eventStore(), testLogger())
	require.NoError(t, d.Check(context.Background(), "a@du.ac.in", "9876543210", "debug-code"))
}

func TestCheckMatchesEmailWithinEvent(t *testing.T) {
	store := seededEventStore(registrationRow("a@du.ac.in", "9876543210", "debug-code"))
	d := NewDuplicateDetector(store, testLogger())

	err := d.Check(context.Background(), "a@du.ac.in", "9000000000", "debug-code")
	require.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestCheckEmailComparisonIsCaseInsensitive(t *testing.T) {
	store := seededEventStore(registrationRow("a@du.ac.in", "9876543210", "debug-code"))
	d := NewDuplicateDetector(store, testLogger())

	err := d.Check(context.Background(), "A@DU.AC.IN", "9000000000", "debug-code")
	require.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestCheckMatchesPhoneWithinEvent(t *testing.T) {
	store := seededEventStore(registrationRow("a@du.ac.in", "9876543210", "debug-code"))
	d := NewDuplicateDetector(store, testLogger())

	err := d.Check(context.Background(), "b@du.ac.in", "9876543210", "debug-code")
	require.ErrorIs(t, err, ErrDuplicatePhone)
}

func TestCheckAllowsCrossEventReRegistration(t *testing.T) {
	store := seededEventStore(registrationRow("a@du.ac.in", "9876543210", "debug-code"))
	d := NewDuplicateDetector(store, testLogger())

	require.NoError(t, d.Check(context.Background(), "a@du.ac.in", "9876543210", "gaming"))
}

func TestCheckUnreadableStoreIsAnError(t *testing.T) {
	store := eventStore()
	store.readErr = errors.New("permission denied")
	d := NewDuplicateDetector(store, testLogger())

	err := d.Check(context.Background(), "a@du.ac.in", "9876543210", "debug-code")
	require.ErrorIs(t, err, ErrBackendReadWrite)
	require.NotErrorIs(t, err, ErrDuplicateEmail)
}

func TestCheckSkipsShortRows(t *testing.T) {
	store := seededEventStore([]interface{}{"2026-02-10T09:30:00Z", "a@du.ac.in"})
	d := NewDuplicateDetector(store, testLogger())

	require.NoError(t, d.Check(context.Background(), "a@du.ac.in", "9876543210", "debug-code"))
}

func TestRememberShortCircuitsRemoteRead(t *testing.T) {
	store := eventStore()
	d := NewDuplicateDetector(store, testLogger())

	d.Remember("a@du.ac.in", "9876543210", "debug-code")

	err := d.Check(context.Background(), "a@du.ac.in", "9876543210", "debug-code")
	require.ErrorIs(t, err, ErrDuplicateEmail)
	require.Zero(t, store.readCalls)
}

func TestScanPopulatesCacheForLaterChecks(t *testing.T) {
	store := seededEventStore(
		registrationRow("a@du.ac.in", "9000000001", "debug-code"),
		registrationRow("b@du.ac.in", "9000000002", "gaming"),
	)
	d := NewDuplicateDetector(store, testLogger())

	// First check scans the sheet and fills the cache with every row.
	require.NoError(t, d.Check(context.Background(), "c@du.ac.in", "9000000003", "debug-code"))
	reads := store.readCalls

	// A later duplicate against a cached row needs no new read.
	err := d.Check(context.Background(), "b@du.ac.in", "9111111111", "gaming")
	require.ErrorIs(t, err, ErrDuplicateEmail)
	require.Equal(t, reads, store.readCalls)
}
