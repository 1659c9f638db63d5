package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/Veraticus/trendscout/internal/common"
	"github.com/Veraticus/trendscout/internal/googleauth"
	"github.com/Veraticus/trendscout/internal/model"
	"github.com/Veraticus/trendscout/internal/service"
)

const valueInputRaw = "RAW"

// Store implements service.ProductStore over the Products tab of a spreadsheet.
// Row position is the only key the sheet offers, so updates read the tab
// first and address the row holding the identity.
type Store struct {
	service    *sheets.Service
	logger     *slog.Logger
	retryOpts  service.RetryOptions
	config     Config
	headerOnce sync.Once
	headerErr  error
}

// NewStore creates a store authenticated with the configured credentials.
func NewStore(ctx context.Context, config Config, logger *slog.Logger) (*Store, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	httpClient, err := googleauth.HTTPClient(ctx, config.Credentials(), sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}
	return NewStoreWithClient(ctx, config, httpClient, logger)
}

// NewStoreWithClient creates a store that sends requests through httpClient.
// Config.Endpoint overrides the API base URL.
func NewStoreWithClient(ctx context.Context, config Config, httpClient *http.Client, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if config.SheetName == "" {
		config.SheetName = DefaultConfig().SheetName
	}
	if config.MaxRows <= 0 {
		config.MaxRows = DefaultConfig().MaxRows
	}

	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if config.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(config.Endpoint))
	}

	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return &Store{
		service: srv,
		logger:  logger,
		config:  config,
		retryOpts: service.RetryOptions{
			MaxAttempts:  max(config.RetryAttempts, 1),
			InitialDelay: config.RetryDelay,
			MaxDelay:     30 * time.Second,
			Multiplier:   2.0,
		},
	}, nil
}

// SaveProducts appends records whose identity is not already in the tab.
func (s *Store) SaveProducts(ctx context.Context, products []model.ProductRecord) (int, error) {
	if len(products) == 0 {
		return 0, nil
	}
	if err := s.ensureHeader(ctx); err != nil {
		return 0, err
	}

	existing, err := s.loadRows(ctx)
	if err != nil {
		return 0, err
	}
	seen := make(map[string]bool, len(existing))
	for _, p := range existing {
		if p.HasIdentity() {
			seen[model.NormalizeIdentity(p.Identity)] = true
		}
	}

	var rows [][]any
	for _, p := range products {
		id := model.NormalizeIdentity(p.Identity)
		if id != "" {
			if seen[id] {
				continue
			}
			seen[id] = true
		}
		rows = append(rows, ProductToRow(p))
	}
	if len(rows) == 0 {
		return 0, nil
	}

	err = common.WithRetry(ctx, func() error {
		_, appendErr := s.service.Spreadsheets.Values.
			Append(s.config.SpreadsheetID, s.rangeA1("A:P"), &sheets.ValueRange{Values: rows}).
			ValueInputOption(valueInputRaw).
			Context(ctx).
			Do()
		return appendErr
	}, s.retryOpts)
	if err != nil {
		return 0, fmt.Errorf("failed to append products: %w", err)
	}

	s.logger.Info("appended products to sheet", "spreadsheet_id", s.config.SpreadsheetID, "rows", len(rows))
	return len(rows), nil
}

// ListProducts reads the tab and returns the records matching filter in sheet order.
func (s *Store) ListProducts(ctx context.Context, filter service.ProductFilter) ([]model.ProductRecord, error) {
	all, err := s.loadRows(ctx)
	if err != nil {
		return nil, err
	}

	var out []model.ProductRecord
	skipped := 0
	for _, p := range all {
		if !filter.Matches(p) {
			continue
		}
		if skipped < filter.Offset {
			skipped++
			continue
		}
		out = append(out, p)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

// SetStatus writes the status and notes cells of the row holding identity.
// A nil notes keeps the notes already in the sheet.
func (s *Store) SetStatus(ctx context.Context, identity string, status model.ReviewStatus, notes *string) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", model.ErrInvalidStatus, status)
	}

	idx, current, err := s.find(ctx, identity)
	if err != nil {
		return err
	}

	newNotes := current.Notes
	if notes != nil {
		newNotes = *notes
	}
	return s.updateReview(ctx, idx, status, newNotes)
}

// SetNotes writes only the notes of the row holding identity.
func (s *Store) SetNotes(ctx context.Context, identity, notes string) error {
	idx, current, err := s.find(ctx, identity)
	if err != nil {
		return err
	}
	return s.updateReview(ctx, idx, current.Status, notes)
}

func (s *Store) find(ctx context.Context, identity string) (int, model.ProductRecord, error) {
	id := model.NormalizeIdentity(identity)
	if id == "" {
		return 0, model.ProductRecord{}, fmt.Errorf("product %q: %w", identity, common.ErrNotFound)
	}

	all, err := s.loadRows(ctx)
	if err != nil {
		return 0, model.ProductRecord{}, err
	}
	for i, p := range all {
		if model.NormalizeIdentity(p.Identity) == id {
			return i, p, nil
		}
	}
	return 0, model.ProductRecord{}, fmt.Errorf("product %q: %w", identity, common.ErrNotFound)
}

func (s *Store) updateReview(ctx context.Context, idx int, status model.ReviewStatus, notes string) error {
	row := rowNumber(idx)
	rng := s.rangeA1(fmt.Sprintf("O%d:P%d", row, row))

	err := common.WithRetry(ctx, func() error {
		_, updateErr := s.service.Spreadsheets.Values.
			Update(s.config.SpreadsheetID, rng, &sheets.ValueRange{Values: [][]any{{string(status), notes}}}).
			ValueInputOption(valueInputRaw).
			Context(ctx).
			Do()
		return updateErr
	}, s.retryOpts)
	if err != nil {
		return fmt.Errorf("failed to update row %d: %w", row, err)
	}

	s.logger.Debug("updated review cells", "row", row, "status", status)
	return nil
}

func (s *Store) loadRows(ctx context.Context) ([]model.ProductRecord, error) {
	rng := s.rangeA1(fmt.Sprintf("A%d:P%d", headerRows+1, s.config.MaxRows))

	var resp *sheets.ValueRange
	err := common.WithRetry(ctx, func() error {
		var getErr error
		resp, getErr = s.service.Spreadsheets.Values.Get(s.config.SpreadsheetID, rng).Context(ctx).Do()
		return getErr
	}, s.retryOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to read products: %w", err)
	}

	products := make([]model.ProductRecord, 0, len(resp.Values))
	for _, row := range resp.Values {
		products = append(products, RowToProduct(row))
	}
	return products, nil
}

// ensureHeader writes the header row once when the tab is empty.
func (s *Store) ensureHeader(ctx context.Context) error {
	s.headerOnce.Do(func() {
		rng := s.rangeA1("A1:P1")
		resp, err := s.service.Spreadsheets.Values.Get(s.config.SpreadsheetID, rng).Context(ctx).Do()
		if err != nil {
			s.headerErr = fmt.Errorf("unable to access spreadsheet %s: %w", s.config.SpreadsheetID, err)
			return
		}
		if len(resp.Values) > 0 {
			return
		}
		_, err = s.service.Spreadsheets.Values.
			Update(s.config.SpreadsheetID, rng, &sheets.ValueRange{Values: [][]any{Header}}).
			ValueInputOption(valueInputRaw).
			Context(ctx).
			Do()
		if err != nil {
			s.headerErr = fmt.Errorf("failed to write header: %w", err)
		}
	})
	return s.headerErr
}

func (s *Store) rangeA1(cells string) string {
	return s.config.SheetName + "!" + cells
}
