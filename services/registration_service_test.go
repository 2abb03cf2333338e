package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/websters-shivaji/registration-system/models"
	"github.com/websters-shivaji/registration-system/storage"
)

// fakeRowStore is an in-memory sheets.RowStore. rows includes the header row,
// matching what the remote sheet returns.
type fakeRowStore struct {
	mu        sync.Mutex
	rows      [][]interface{}
	initCalls int
	readCalls int
	initErr   error
	readErr   error
	appendErr error
}

func (s *fakeRowStore) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initCalls++
	return s.initErr
}

func (s *fakeRowStore) Append(ctx context.Context, row []interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.appendErr != nil {
		return s.appendErr
	}
	s.rows = append(s.rows, row)
	return nil
}

func (s *fakeRowStore) ReadRange(ctx context.Context, readRange string) ([][]interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readCalls++
	if s.readErr != nil {
		return nil, s.readErr
	}
	return s.rows, nil
}

func (s *fakeRowStore) dataRows() [][]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.rows) <= 1 {
		return nil
	}
	return s.rows[1:]
}

// fakeUploader records upload names and hands back predictable URLs.
type fakeUploader struct {
	mu      sync.Mutex
	uploads []string
	err     error
}

func (u *fakeUploader) Upload(ctx context.Context, name, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.err != nil {
		return nil, u.err
	}
	u.uploads = append(u.uploads, name)
	return &storage.UploadResult{ID: name, Name: name, URL: "https://files.example/" + name}, nil
}

func (u *fakeUploader) Delete(ctx context.Context, id string) error { return nil }

func (u *fakeUploader) count() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.uploads)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func workshopStore() *fakeRowStore {
	header := make([]interface{}, len(models.WorkshopHeader))
	for i, h := range models.WorkshopHeader {
		header[i] = h
	}
	return &fakeRowStore{rows: [][]interface{}{header}}
}

func eventStore() *fakeRowStore {
	header := make([]interface{}, len(models.EventHeader))
	for i, h := range models.EventHeader {
		header[i] = h
	}
	return &fakeRowStore{rows: [][]interface{}{header}}
}

func validWorkshopInput() models.WorkshopRegistration {
	return models.WorkshopRegistration{
		Email:  "priya.sharma@du.ac.in",
		Name:   "Priya Sharma",
		RollNo: "2023101",
		Course: "BSc CS",
		Year:   "2nd Year",
		Phone:  "9876543210",
	}
}

func newWorkshopService(store *fakeRowStore) *WorkshopService {
	return NewWorkshopService(store, NewDuplicateDetector(store, testLogger()), testLogger())
}

func TestWorkshopRegisterAppendsOneRow(t *testing.T) {
	store := workshopStore()
	svc := newWorkshopService(store)

	ts, err := svc.Register(context.Background(), validWorkshopInput())
	require.NoError(t, err)
	require.False(t, ts.IsZero())

	rows := store.dataRows()
	require.Len(t, rows, 1)
	require.Len(t, rows[0], len(models.WorkshopHeader))
	require.Equal(t, "priya.sharma@du.ac.in", rows[0][1])
	require.Equal(t, models.WorkshopEventName, rows[0][7])
	require.GreaterOrEqual(t, store.initCalls, 1)
}

func TestWorkshopRegisterMissingFieldsBeforeAnyIO(t *testing.T) {
	store := workshopStore()
	svc := newWorkshopService(store)

	input := validWorkshopInput()
	input.Email = ""
	_, err := svc.Register(context.Background(), input)
	require.ErrorIs(t, err, ErrMissingRequiredFields)
	require.Contains(t, err.Error(), "email")
	require.Zero(t, store.initCalls)
	require.Zero(t, store.readCalls)
	require.Empty(t, store.dataRows())
}

func TestWorkshopRegisterDuplicateAppendsNothing(t *testing.T) {
	store := workshopStore()
	svc := newWorkshopService(store)

	_, err := svc.Register(context.Background(), validWorkshopInput())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), validWorkshopInput())
	require.ErrorIs(t, err, ErrDuplicateEmail)
	require.Len(t, store.dataRows(), 1)
}

func TestWorkshopRegisterImmediateRepeatHitsCache(t *testing.T) {
	store := workshopStore()
	svc := newWorkshopService(store)

	_, err := svc.Register(context.Background(), validWorkshopInput())
	require.NoError(t, err)
	readsAfterFirst := store.readCalls

	_, err = svc.Register(context.Background(), validWorkshopInput())
	require.ErrorIs(t, err, ErrDuplicateEmail)
	require.Equal(t, readsAfterFirst, store.readCalls, "repeat submission must not re-read the sheet")
}

func TestWorkshopRegisterDuplicatePhone(t *testing.T) {
	store := workshopStore()
	svc := newWorkshopService(store)

	_, err := svc.Register(context.Background(), validWorkshopInput())
	require.NoError(t, err)

	input := validWorkshopInput()
	input.Email = "someone.else@du.ac.in"
	_, err = svc.Register(context.Background(), input)
	require.ErrorIs(t, err, ErrDuplicatePhone)
	require.Len(t, store.dataRows(), 1)
}

func TestWorkshopRegisterAppendFailure(t *testing.T) {
	store := workshopStore()
	store.appendErr = errors.New("quota exceeded")
	svc := newWorkshopService(store)

	_, err := svc.Register(context.Background(), validWorkshopInput())
	require.ErrorIs(t, err, ErrBackendReadWrite)
}

func validEventInput() models.EventRegistration {
	return models.EventRegistration{
		Name:      "Priya Sharma",
		College:   models.HomeCollege,
		Event:     "debug-code",
		Email:     "priya.sharma@du.ac.in",
		Phone:     "9876543210",
		RollNo:    "2023101",
		Course:    "BSc CS",
		Year:      "2nd Year",
		CollegeID: testAttachment("lead.jpg"),
	}
}

func testAttachment(name string) models.Attachment {
	return models.Attachment{
		Filename:    name,
		ContentType: "image/jpeg",
		Size:        1024,
		Content:     strings.NewReader("fake jpeg bytes"),
	}
}

func testTeamMember(n int) models.TeamMember {
	digits := []string{"9111111111", "9222222222", "9333333333"}
	return models.TeamMember{
		Name:      []string{"Zara Khan", "Amit Verma", "Mira Das"}[n],
		Email:     []string{"zara@du.ac.in", "amit@du.ac.in", "mira@du.ac.in"}[n],
		Phone:     digits[n],
		RollNo:    []string{"301", "302", "303"}[n],
		College:   models.HomeCollege,
		CollegeID: testAttachment("member.jpg"),
	}
}

func newEventService(store *fakeRowStore, uploader *fakeUploader) *EventService {
	return NewEventService(store, uploader, NewDuplicateDetector(store, testLogger()), testLogger())
}

func TestEventRegisterSoloAppendsOneRow(t *testing.T) {
	store := eventStore()
	uploader := &fakeUploader{}
	svc := newEventService(store, uploader)

	require.NoError(t, svc.Register(context.Background(), validEventInput()))

	rows := store.dataRows()
	require.Len(t, rows, 1)
	require.Len(t, rows[0], len(models.EventHeader))
	require.Equal(t, "debug-code", rows[0][7])
	require.Equal(t, 1, uploader.count())
	require.Contains(t, rows[0][10], "https://files.example/")
}

func TestEventRegisterTeamUploadsAllAttachments(t *testing.T) {
	store := eventStore()
	uploader := &fakeUploader{}
	svc := newEventService(store, uploader)

	input := validEventInput()
	input.Event = "gaming"
	input.TeamMembers = []models.TeamMember{testTeamMember(0), testTeamMember(1), testTeamMember(2)}

	require.NoError(t, svc.Register(context.Background(), input))
	require.Equal(t, 4, uploader.count())

	rows := store.dataRows()
	require.Len(t, rows, 1)
	// Team slots keep submission order.
	require.Equal(t, "Zara Khan", rows[0][11])
	require.Equal(t, "Amit Verma", rows[0][17])
	require.Equal(t, "Mira Das", rows[0][23])
	for _, idx := range []int{16, 22, 28} {
		require.Contains(t, rows[0][idx], "https://files.example/")
	}
}

func TestEventRegisterTeamTooSmall(t *testing.T) {
	store := eventStore()
	uploader := &fakeUploader{}
	svc := newEventService(store, uploader)

	input := validEventInput()
	input.Event = "ai-artistry" // requires exactly two participants

	err := svc.Register(context.Background(), input)
	require.Error(t, err)
	require.Contains(t, err.Error(), "at least 2")
	require.Zero(t, uploader.count())
	require.Empty(t, store.dataRows())
}

func TestEventRegisterOversizeFileNeverUploads(t *testing.T) {
	store := eventStore()
	uploader := &fakeUploader{}
	svc := newEventService(store, uploader)

	input := validEventInput()
	input.CollegeID.Size = 6 << 20

	err := svc.Register(context.Background(), input)
	require.Error(t, err)
	require.Contains(t, err.Error(), "5MB")
	require.Zero(t, uploader.count())
	require.Empty(t, store.dataRows())
}

func TestEventRegisterDuplicateScopedPerEvent(t *testing.T) {
	store := eventStore()
	uploader := &fakeUploader{}
	svc := newEventService(store, uploader)

	require.NoError(t, svc.Register(context.Background(), validEventInput()))

	// Same email and phone, same event: rejected before any upload.
	uploadsAfterFirst := uploader.count()
	err := svc.Register(context.Background(), validEventInput())
	require.ErrorIs(t, err, ErrDuplicateEmail)
	require.Equal(t, uploadsAfterFirst, uploader.count())
	require.Len(t, store.dataRows(), 1)

	// Same email under a different event: allowed.
	input := validEventInput()
	input.Event = "poster-making"
	input.CollegeID = testAttachment("lead2.jpg")
	require.NoError(t, svc.Register(context.Background(), input))
	require.Len(t, store.dataRows(), 2)
}

func TestEventRegisterUploadFailureAbortsAppend(t *testing.T) {
	store := eventStore()
	uploader := &fakeUploader{err: errors.New("drive unavailable")}
	svc := newEventService(store, uploader)

	err := svc.Register(context.Background(), validEventInput())
	require.ErrorIs(t, err, ErrUploadFailed)
	require.Empty(t, store.dataRows())
}

func TestEventRegisterUnknownEvent(t *testing.T) {
	store := eventStore()
	svc := newEventService(store, &fakeUploader{})

	input := validEventInput()
	input.Event = "no-such-event"
	err := svc.Register(context.Background(), input)
	require.ErrorIs(t, err, ErrEventNotFound)
}
