package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/websters-shivaji/registration-system/models"
	"github.com/websters-shivaji/registration-system/sheets"
	"github.com/websters-shivaji/registration-system/storage"
	"github.com/websters-shivaji/registration-system/validation"
)

// WorkshopService handles the single-event workshop flow: validate, check
// duplicates, append one row.
type WorkshopService struct {
	store    sheets.RowStore
	detector *DuplicateDetector
	logger   *slog.Logger
	now      func() time.Time
}

// NewWorkshopService builds the workshop registration service.
func NewWorkshopService(store sheets.RowStore, detector *DuplicateDetector, logger *slog.Logger) *WorkshopService {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkshopService{
		store:    store,
		detector: detector,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Register runs one workshop submission end to end and returns the persisted
// timestamp on success. Each step short-circuits on failure; nothing is
// written before the duplicate check passes.
func (s *WorkshopService) Register(ctx context.Context, reg models.WorkshopRegistration) (time.Time, error) {
	if missing := validation.MissingWorkshopFields(reg); len(missing) > 0 {
		return time.Time{}, fmt.Errorf("%w: %s", ErrMissingRequiredFields, strings.Join(missing, ", "))
	}
	if errs := validation.Workshop(reg); len(errs) > 0 {
		return time.Time{}, errs
	}

	if err := s.store.Initialize(ctx); err != nil {
		return time.Time{}, err
	}

	if err := s.detector.Check(ctx, reg.Email, reg.Phone, models.WorkshopEventName); err != nil {
		return time.Time{}, err
	}

	row := models.NewWorkshopRow(reg, s.now())
	if err := s.store.Append(ctx, row.Values()); err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrBackendReadWrite, err)
	}

	s.detector.Remember(reg.Email, reg.Phone, models.WorkshopEventName)
	s.logger.Info("workshop registration stored", slog.String("email", reg.Email))
	return row.Timestamp, nil
}

// EventService handles the multi-event fest flow: validate, check duplicates,
// upload every attachment concurrently, append one fixed-width row.
type EventService struct {
	store    sheets.RowStore
	uploader storage.FileUploader
	detector *DuplicateDetector
	logger   *slog.Logger
	now      func() time.Time
}

// NewEventService builds the fest registration service.
func NewEventService(store sheets.RowStore, uploader storage.FileUploader, detector *DuplicateDetector, logger *slog.Logger) *EventService {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventService{
		store:    store,
		uploader: uploader,
		detector: detector,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Register runs one fest submission end to end. Attachment uploads fan out
// concurrently and are all joined before the row is assembled; an upload or
// append failure aborts the pipeline without deleting files already uploaded
// for this request.
func (s *EventService) Register(ctx context.Context, reg models.EventRegistration) error {
	if missing := validation.MissingEventFields(reg); len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingRequiredFields, strings.Join(missing, ", "))
	}
	event, ok := models.FindEvent(reg.Event)
	if !ok {
		return ErrEventNotFound
	}
	if errs := validation.EventRegistration(reg); len(errs) > 0 {
		return errs
	}

	if err := s.store.Initialize(ctx); err != nil {
		return err
	}

	if err := s.detector.Check(ctx, reg.Email, reg.Phone, reg.Event); err != nil {
		return err
	}

	now := s.now()
	var leadURL string
	memberURLs := make([]string, len(reg.TeamMembers))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		name := storage.AttachmentName(event.Name, storage.RoleMainParticipant,
			reg.Name, reg.CollegeName(), reg.CollegeID.Filename, now)
		res, err := s.uploader.Upload(gctx, name, reg.CollegeID.ContentType, reg.CollegeID.Content)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrUploadFailed, err)
		}
		leadURL = res.URL
		return nil
	})
	for i, member := range reg.TeamMembers {
		g.Go(func() error {
			name := storage.AttachmentName(event.Name, storage.TeamMemberRole(i),
				member.Name, member.CollegeName(), member.CollegeID.Filename, now)
			res, err := s.uploader.Upload(gctx, name, member.CollegeID.ContentType, member.CollegeID.Content)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrUploadFailed, err)
			}
			memberURLs[i] = res.URL
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	row := models.NewEventRow(reg, leadURL, memberURLs, now)
	if err := s.store.Append(ctx, row.Values()); err != nil {
		return fmt.Errorf("%w: %w", ErrBackendReadWrite, err)
	}

	s.detector.Remember(reg.Email, reg.Phone, reg.Event)
	s.logger.Info("event registration stored",
		slog.String("event", reg.Event),
		slog.String("email", reg.Email),
		slog.Int("team_members", len(reg.TeamMembers)))
	return nil
}
