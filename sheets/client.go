// Package sheets provides the append-only spreadsheet store backing the
// registration flows.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsv4 "google.golang.org/api/sheets/v4"
)

const (
	// Tab is the sheet tab every flow writes to.
	Tab = "Sheet1"

	// RegistrationRange covers every column of a registration row.
	RegistrationRange = Tab + "!A:AC"
)

var (
	ErrMissingCredentials   = errors.New("missing Google service account credentials")
	ErrMissingSpreadsheetID = errors.New("missing Google spreadsheet ID")
	ErrAuthenticationFailed = errors.New("google authentication failed")
)

// RowStore is the persistence contract the registration services depend on.
// Initialize must be idempotent; Append adds one row at the end of the tab;
// ReadRange returns every row of the given range, nil when there is no data.
type RowStore interface {
	Initialize(ctx context.Context) error
	Append(ctx context.Context, row []interface{}) error
	ReadRange(ctx context.Context, readRange string) ([][]interface{}, error)
}

// ClientConfig configures one spreadsheet-backed store.
type ClientConfig struct {
	ClientEmail   string
	PrivateKey    string
	SpreadsheetID string
	// Header is written to row 1 when the tab has to be created.
	Header []string
	Logger *slog.Logger
}

// Client is a lazily initialized, authenticated handle to one spreadsheet.
// The zero state is uninitialized; the first successful Initialize authorizes
// the service account and bootstraps the tab, later calls are no-ops.
type Client struct {
	cfg    ClientConfig
	logger *slog.Logger

	mu          sync.Mutex
	srv         *sheetsv4.Service
	initialized bool
}

// NewClient validates the configuration and returns an uninitialized client.
// No remote call happens until Initialize.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.ClientEmail == "" || cfg.PrivateKey == "" {
		return nil, ErrMissingCredentials
	}
	if cfg.SpreadsheetID == "" {
		return nil, ErrMissingSpreadsheetID
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{cfg: cfg, logger: logger}, nil
}

// Initialize authorizes the service account and ensures the destination tab
// exists with the header row. Safe to call concurrently and repeatedly; the
// bootstrap runs once per process lifetime.
func (c *Client) Initialize(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}

	conf := &jwt.Config{
		Email:      c.cfg.ClientEmail,
		PrivateKey: []byte(c.cfg.PrivateKey),
		Scopes:     []string{sheetsv4.SpreadsheetsScope},
		TokenURL:   google.JWTTokenURL,
	}

	ts := conf.TokenSource(ctx)
	if _, err := ts.Token(); err != nil {
		return fmt.Errorf("%w: %w", ErrAuthenticationFailed, err)
	}

	srv, err := sheetsv4.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAuthenticationFailed, err)
	}
	c.srv = srv

	if err := c.ensureSheetExists(ctx); err != nil {
		c.srv = nil
		return err
	}

	c.initialized = true
	c.logger.Info("spreadsheet client initialized", slog.String("spreadsheet_id", c.cfg.SpreadsheetID))
	return nil
}

// ensureSheetExists probes the tab and, when it is absent, creates it and
// writes the header row.
func (c *Client) ensureSheetExists(ctx context.Context) error {
	_, err := c.srv.Spreadsheets.Values.Get(c.cfg.SpreadsheetID, Tab+"!A1").Context(ctx).Do()
	if err == nil {
		return nil
	}

	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) || apiErr.Code != 404 {
		return fmt.Errorf("probe sheet %s: %w", Tab, err)
	}

	addSheet := &sheetsv4.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsv4.Request{{
			AddSheet: &sheetsv4.AddSheetRequest{
				Properties: &sheetsv4.SheetProperties{Title: Tab},
			},
		}},
	}
	if _, err := c.srv.Spreadsheets.BatchUpdate(c.cfg.SpreadsheetID, addSheet).Context(ctx).Do(); err != nil {
		return fmt.Errorf("create sheet %s: %w", Tab, err)
	}

	header := make([]interface{}, len(c.cfg.Header))
	for i, col := range c.cfg.Header {
		header[i] = col
	}
	vr := &sheetsv4.ValueRange{Values: [][]interface{}{header}}
	_, err = c.srv.Spreadsheets.Values.Update(c.cfg.SpreadsheetID, Tab+"!A1", vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("write header row: %w", err)
	}

	c.logger.Info("created registration sheet",
		slog.String("spreadsheet_id", c.cfg.SpreadsheetID),
		slog.Int("columns", len(c.cfg.Header)))
	return nil
}

// Append adds one row at the end of the tab in a single remote call.
func (c *Client) Append(ctx context.Context, row []interface{}) error {
	srv, err := c.service()
	if err != nil {
		return err
	}
	vr := &sheetsv4.ValueRange{Values: [][]interface{}{row}}
	_, err = srv.Spreadsheets.Values.Append(c.cfg.SpreadsheetID, RegistrationRange, vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append row: %w", err)
	}
	return nil
}

// ReadRange returns every row of the given A1 range; nil when empty.
func (c *Client) ReadRange(ctx context.Context, readRange string) ([][]interface{}, error) {
	srv, err := c.service()
	if err != nil {
		return nil, err
	}
	if !strings.Contains(readRange, "!") {
		readRange = Tab + "!" + readRange
	}
	resp, err := srv.Spreadsheets.Values.Get(c.cfg.SpreadsheetID, readRange).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("read range %s: %w", readRange, err)
	}
	return resp.Values, nil
}

func (c *Client) service() (*sheetsv4.Service, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initialized || c.srv == nil {
		return nil, errors.New("spreadsheet client not initialized")
	}
	return c.srv, nil
}
