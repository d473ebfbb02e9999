package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/ToolSpend/internal/logging"
)

// DefaultMaxFileSize is the upload ceiling when none is configured (10 MB).
const DefaultMaxFileSize = 10 << 20

// DefaultImportTimeout bounds a whole import, fetch included.
const DefaultImportTimeout = 2 * time.Minute

// ServiceConfig holds the tunables of a Service. Zero values fall back to
// the package defaults.
type ServiceConfig struct {
	Options Options
	Budget  BudgetPolicy

	MaxFileSize   int64
	ImportTimeout time.Duration
	MaxConcurrent int
	MaxWait       time.Duration

	// AllowPartial accepts the valid records of an import whose other rows
	// failed. When false, any row error rejects the whole import.
	AllowPartial bool
}

// Service runs imports and serves the current record set.
type Service struct {
	store   Store
	fetcher SheetFetcher
	limiter *ImportLimiter

	opts          Options
	budget        BudgetPolicy
	maxFileSize   int64
	importTimeout time.Duration
	allowPartial  bool

	// commitMu orders store writes with the in-memory swap so the stored
	// and served snapshots always name the same import.
	commitMu sync.Mutex

	mu      sync.RWMutex
	current *Snapshot
}

// NewService creates a Service and loads the current snapshot from store.
func NewService(ctx context.Context, store Store, fetcher SheetFetcher, cfg ServiceConfig) (*Service, error) {
	if store == nil {
		return nil, errors.New("core: nil store")
	}
	if fetcher == nil {
		fetcher = NewHTTPSheetFetcher(0)
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = DefaultMaxFileSize
	}
	if cfg.ImportTimeout <= 0 {
		cfg.ImportTimeout = DefaultImportTimeout
	}
	if cfg.Budget == (BudgetPolicy{}) {
		cfg.Budget = DefaultBudgetPolicy()
	}

	snap, err := store.CurrentSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load current snapshot: %w", err)
	}

	return &Service{
		store:         store,
		fetcher:       fetcher,
		limiter:       NewImportLimiter(cfg.MaxConcurrent, cfg.MaxWait),
		opts:          cfg.Options.withDefaults(),
		budget:        cfg.Budget,
		maxFileSize:   cfg.MaxFileSize,
		importTimeout: cfg.ImportTimeout,
		allowPartial:  cfg.AllowPartial,
		current:       snap,
	}, nil
}

// Options returns the pipeline options in effect.
func (s *Service) Options() Options {
	return s.opts
}

// BudgetPolicy returns the alert thresholds in effect.
func (s *Service) BudgetPolicy() BudgetPolicy {
	return s.budget
}

// MaxFileSize returns the upload ceiling in bytes.
func (s *Service) MaxFileSize() int64 {
	return s.maxFileSize
}

// CheckFile runs the transport pre-checks on an upload before any byte is
// decoded. size may be -1 when unknown.
func (s *Service) CheckFile(fileName string, size int64) error {
	if strings.TrimSpace(fileName) == "" {
		return ErrNoFile
	}
	if !strings.EqualFold(filepath.Ext(fileName), ".csv") {
		return fmt.Errorf("%w: %s", ErrInvalidFileType, fileName)
	}
	if size > s.maxFileSize {
		return fileTooLarge(size, s.maxFileSize)
	}
	return nil
}

// ImportFile imports an uploaded CSV file. On success the current record
// set is replaced whole. An *ImportRejectedError is returned, together with
// the result, when rows or records fail and partial imports are disabled.
func (s *Service) ImportFile(ctx context.Context, fileName string, size int64, r io.Reader) (*ImportResult, error) {
	if err := s.CheckFile(fileName, size); err != nil {
		return nil, err
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	ctx, cancel := context.WithTimeout(ctx, s.importTimeout)
	defer cancel()

	raw, err := readLimited(r, s.maxFileSize)
	if err != nil {
		return nil, err
	}

	return s.run(ctx, importSource{kind: SourceCSV, fileName: filepath.Base(fileName)}, raw)
}

// ImportSheet fetches the CSV export of a Google Sheets link and imports it.
// The link is remembered on the snapshot so Refresh can repeat it.
func (s *Service) ImportSheet(ctx context.Context, sheetURL string) (*ImportResult, error) {
	sheetURL = strings.TrimSpace(sheetURL)
	ref, err := ParseSheetURL(sheetURL)
	if err != nil {
		return nil, err
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	ctx, cancel := context.WithTimeout(ctx, s.importTimeout)
	defer cancel()

	raw, err := s.fetcher.Fetch(ctx, ref.ExportURL(), s.maxFileSize)
	if err != nil {
		return nil, err
	}

	return s.run(ctx, importSource{
		kind:     SourceGoogleSheets,
		fileName: fmt.Sprintf("google-sheet-%s.csv", ref.ID),
		sheetURL: sheetURL,
	}, raw)
}

// Refresh re-imports the linked sheet as a full new pipeline run.
func (s *Service) Refresh(ctx context.Context) (*ImportResult, error) {
	url := s.LinkedSheet()
	if url == "" {
		return nil, ErrNoSheetLinked
	}
	return s.ImportSheet(ctx, url)
}

// LinkedSheet returns the sheet link of the current snapshot, if any.
func (s *Service) LinkedSheet() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.SheetURL
}

type importSource struct {
	kind     ImportSource
	fileName string
	sheetURL string
}

// run is the pipeline proper: decode, process, validate, then accept or
// reject. Decode failures are returned without touching the store.
func (s *Service) run(ctx context.Context, src importSource, raw []byte) (*ImportResult, error) {
	start := time.Now()
	result := &ImportResult{
		ImportID:   uuid.New().String(),
		Source:     src.kind,
		FileName:   src.fileName,
		SheetURL:   src.sheetURL,
		Phase:      PhaseDecoding,
		ImportedAt: s.opts.Now().UTC(),
	}

	logger := logging.WithFields(ctx,
		"import_id", result.ImportID,
		"source", src.kind,
		"file", src.fileName,
	)

	dec, err := DecodeBytes(raw)
	if err != nil {
		logger.Warn("import decode failed", "error", err, "bytes", len(raw))
		return nil, err
	}
	result.Encoding = dec.Encoding
	result.TotalRows = len(dec.Rows)

	result.Phase = PhaseProcessing
	result.Parse = ProcessDecoded(dec, s.opts)

	result.Phase = PhaseValidating
	result.Validation = Validate(result.Parse.Records)

	result.Accepted = result.Validation.IsValid && (s.allowPartial || len(result.Parse.Errors) == 0)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	summary := result.Summary(int64(len(raw)))
	summary.ClientIP = GetIPAddressFromContext(ctx)
	summary.UserAgent = GetUserAgentFromContext(ctx)

	if !result.Accepted {
		result.Phase = PhaseRejected
		result.Duration = time.Since(start)
		if err := s.store.SaveImport(ctx, summary, raw, nil); err != nil {
			logger.Error("record rejected import", "error", err)
		}
		logger.Info("import rejected",
			"rows", result.TotalRows,
			"row_errors", len(result.Parse.Errors),
			"validation_errors", len(result.Validation.Errors),
		)
		return result, &ImportRejectedError{Result: result}
	}

	result.Phase = PhaseStoring
	snap := Snapshot{
		ImportID:   result.ImportID,
		Source:     result.Source,
		FileName:   result.FileName,
		SheetURL:   result.SheetURL,
		ImportedAt: result.ImportedAt,
		Records:    result.Parse.Records,
	}
	if err := s.commit(ctx, summary, raw, snap); err != nil {
		logger.Error("store import", "error", err)
		return nil, fmt.Errorf("store import: %w", err)
	}

	result.Phase = PhaseComplete
	result.Duration = time.Since(start)
	logger.Info("import complete",
		"records", len(result.Parse.Records),
		"row_errors", len(result.Parse.Errors),
		"warnings", len(result.Parse.Warnings),
		"encoding", result.Encoding,
		"duration_ms", result.Duration.Milliseconds(),
	)
	return result, nil
}

// commit stores an accepted import and makes it current. Concurrent
// imports commit one at a time, so the last one stored is the one served.
func (s *Service) commit(ctx context.Context, summary ImportSummary, raw []byte, snap Snapshot) error {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	if err := s.store.SaveImport(ctx, summary, raw, &snap); err != nil {
		return err
	}

	c := cloneSnapshot(snap)
	s.mu.Lock()
	s.current = &c
	s.mu.Unlock()
	return nil
}

// Current returns a copy of the current snapshot, or nil before the first import.
func (s *Service) Current() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	c := cloneSnapshot(*s.current)
	return &c
}

// Records returns the current records with over-budget flags computed.
func (s *Service) Records() []ToolRecord {
	snap := s.Current()
	if snap == nil {
		return []ToolRecord{}
	}
	return MarkOverBudget(snap.Records, s.budget.PerToolBudget)
}

// Dashboard is everything the dashboard renders for one snapshot.
type Dashboard struct {
	Snapshot *Snapshot    `json:"snapshot,omitempty"`
	Records  []ToolRecord `json:"records"`
	KPIs     KPIs         `json:"kpis"`
	Charts   ChartGroups  `json:"charts"`
	Alerts   []Alert      `json:"alerts"`
	Budget   BudgetPolicy `json:"-"`
}

// Dashboard computes KPIs, chart groups and alerts over the current set.
// Money values are unrounded.
func (s *Service) Dashboard() Dashboard {
	records := s.Records()
	return Dashboard{
		Snapshot: s.Current(),
		Records:  records,
		KPIs:     ComputeKPIs(records),
		Charts:   ComputeChartGroups(records, s.opts.People),
		Alerts:   BudgetAlerts(records, s.budget, s.opts.Now()),
		Budget:   s.budget,
	}
}

// History returns up to limit recent imports, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]ImportSummary, error) {
	return s.store.ListImports(ctx, limit)
}

// RawFile returns the original bytes of an import.
func (s *Service) RawFile(ctx context.Context, importID string) (ImportSummary, []byte, error) {
	return s.store.RawFile(ctx, importID)
}

// DryRun decodes, processes and validates without storing anything.
func (s *Service) DryRun(raw []byte) (*ImportResult, error) {
	dec, err := DecodeBytes(raw)
	if err != nil {
		return nil, err
	}
	result := &ImportResult{
		Source:     SourceCSV,
		Encoding:   dec.Encoding,
		TotalRows:  len(dec.Rows),
		Parse:      ProcessDecoded(dec, s.opts),
		ImportedAt: s.opts.Now().UTC(),
	}
	result.Validation = Validate(result.Parse.Records)
	result.Accepted = result.Validation.IsValid && (s.allowPartial || len(result.Parse.Errors) == 0)
	result.Phase = PhaseComplete
	if !result.Accepted {
		result.Phase = PhaseRejected
	}
	return result, nil
}

// LimiterStatus reports import slot usage.
func (s *Service) LimiterStatus() ImportLimiterStatus {
	return s.limiter.Status()
}

// WaitForImports blocks until in-flight imports finish or ctx ends.
func (s *Service) WaitForImports(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}
