package core

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

type fakeFetcher struct {
	mu   sync.Mutex
	body string
	err  error
	urls []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string, limit int64) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.urls = append(f.urls, url)
	if f.err != nil {
		return nil, f.err
	}
	return []byte(f.body), nil
}

func newTestService(t *testing.T, cfg ServiceConfig) (*Service, *MemoryStore, *fakeFetcher) {
	t.Helper()
	if cfg.Options.Now == nil {
		cfg.Options = testOptions()
	}
	store := NewMemoryStore(0)
	fetcher := &fakeFetcher{}
	svc, err := NewService(context.Background(), store, fetcher, cfg)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return svc, store, fetcher
}

const goodCSV = "Tool Name,Monthly Cost,Assigned Person,Category,Guna Honesty Meter\n" +
	"Figma,45,Alice,Need,8\n" +
	"Netflix,15.50,Bob,Want,2\n"

const mixedCSV = "Tool Name,Monthly Cost\n" +
	"Figma,45\n" +
	",10\n"

func TestService_CheckFile(t *testing.T) {
	svc, _, _ := newTestService(t, ServiceConfig{MaxFileSize: 100})

	tests := []struct {
		name    string
		file    string
		size    int64
		wantErr error
	}{
		{"ok", "tools.csv", 10, nil},
		{"upper case extension", "TOOLS.CSV", 10, nil},
		{"unknown size", "tools.csv", -1, nil},
		{"no file", "  ", 10, ErrNoFile},
		{"wrong type", "tools.xlsx", 10, ErrInvalidFileType},
		{"too large", "tools.csv", 101, ErrFileTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.CheckFile(tt.file, tt.size)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("CheckFile() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CheckFile() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestService_ImportFile(t *testing.T) {
	svc, store, _ := newTestService(t, ServiceConfig{})
	ctx := ContextWithIPAddress(context.Background(), "10.0.0.1")

	result, err := svc.ImportFile(ctx, "tools.csv", int64(len(goodCSV)), strings.NewReader(goodCSV))
	if err != nil {
		t.Fatalf("ImportFile() error = %v", err)
	}
	if !result.Accepted || result.Phase != PhaseComplete {
		t.Errorf("result = %+v, want accepted and complete", result)
	}
	if result.TotalRows != 2 || len(result.Parse.Records) != 2 {
		t.Errorf("rows/records = %d/%d, want 2/2", result.TotalRows, len(result.Parse.Records))
	}

	records := svc.Records()
	if len(records) != 2 || records[0].Name != "Figma" {
		t.Fatalf("Records() = %+v", records)
	}

	history, _ := store.ListImports(context.Background(), 0)
	if len(history) != 1 || !history[0].Accepted || history[0].ClientIP != "10.0.0.1" {
		t.Errorf("history = %+v", history)
	}
	if history[0].ImportID != result.ImportID || history[0].FileName != "tools.csv" {
		t.Errorf("history entry = %+v, want import %s", history[0], result.ImportID)
	}
}

func TestService_StrictRejectionKeepsCurrentSet(t *testing.T) {
	svc, store, _ := newTestService(t, ServiceConfig{})
	ctx := context.Background()

	if _, err := svc.ImportFile(ctx, "good.csv", -1, strings.NewReader(goodCSV)); err != nil {
		t.Fatal(err)
	}
	before := svc.Current()

	result, err := svc.ImportFile(ctx, "mixed.csv", -1, strings.NewReader(mixedCSV))
	var rejected *ImportRejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("error = %v, want *ImportRejectedError", err)
	}
	if result == nil || result.Accepted || result.Phase != PhaseRejected {
		t.Errorf("result = %+v, want rejected", result)
	}
	if msgs := rejected.Messages(); len(msgs) != 1 || msgs[0] != "Row 2: Tool name is required" {
		t.Errorf("Messages() = %v", msgs)
	}

	after := svc.Current()
	if after.ImportID != before.ImportID || len(after.Records) != 2 {
		t.Errorf("current set changed after rejection: %+v", after)
	}

	history, _ := store.ListImports(ctx, 0)
	if len(history) != 2 || history[0].Accepted || history[0].ErrorCount != 1 {
		t.Errorf("history = %+v, want rejected import recorded first", history)
	}
	if _, raw, err := svc.RawFile(ctx, history[0].ImportID); err != nil || string(raw) != mixedCSV {
		t.Errorf("RawFile() = %q, %v", raw, err)
	}
}

func TestService_AllowPartial(t *testing.T) {
	svc, _, _ := newTestService(t, ServiceConfig{AllowPartial: true})

	result, err := svc.ImportFile(context.Background(), "mixed.csv", -1, strings.NewReader(mixedCSV))
	if err != nil {
		t.Fatalf("ImportFile() error = %v", err)
	}
	if !result.Accepted || len(result.Parse.Errors) != 1 {
		t.Errorf("result = %+v, want accepted with one row error", result)
	}
	if records := svc.Records(); len(records) != 1 || records[0].Name != "Figma" {
		t.Errorf("Records() = %+v", records)
	}
}

func TestService_NoData(t *testing.T) {
	svc, _, _ := newTestService(t, ServiceConfig{})

	_, err := svc.ImportFile(context.Background(), "empty.csv", -1, strings.NewReader("Tool Name,Monthly Cost\n"))
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("error = %v, want ErrNoData", err)
	}
	if msg := MapError(err); msg.Code != "VAL001" {
		t.Errorf("MapError code = %s, want VAL001", msg.Code)
	}
}

func TestService_DecodeFailureIsNotRecorded(t *testing.T) {
	svc, store, _ := newTestService(t, ServiceConfig{})
	ctx := context.Background()

	_, err := svc.ImportFile(ctx, "bad.csv", -1, strings.NewReader("Name\n\"oops\n"))
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("error = %v, want ErrDecode", err)
	}
	if history, _ := store.ListImports(ctx, 0); len(history) != 0 {
		t.Errorf("history = %+v, want nothing recorded", history)
	}
}

func TestService_SheetImportAndRefresh(t *testing.T) {
	svc, _, fetcher := newTestService(t, ServiceConfig{})
	ctx := context.Background()

	if _, err := svc.Refresh(ctx); !errors.Is(err, ErrNoSheetLinked) {
		t.Fatalf("Refresh() before link error = %v, want ErrNoSheetLinked", err)
	}

	if _, err := svc.ImportSheet(ctx, "https://example.com/nope"); !errors.Is(err, ErrInvalidSheetURL) {
		t.Errorf("ImportSheet(bad) error = %v, want ErrInvalidSheetURL", err)
	}

	fetcher.body = goodCSV
	link := "https://docs.google.com/spreadsheets/d/sheet123/edit#gid=5"
	result, err := svc.ImportSheet(ctx, link)
	if err != nil {
		t.Fatalf("ImportSheet() error = %v", err)
	}
	if result.Source != SourceGoogleSheets || result.FileName != "google-sheet-sheet123.csv" {
		t.Errorf("result = %+v", result)
	}
	if got := svc.LinkedSheet(); got != link {
		t.Errorf("LinkedSheet() = %q, want %q", got, link)
	}

	fetcher.body = "Tool Name,Monthly Cost\nSlack,8\n"
	if _, err := svc.Refresh(ctx); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if records := svc.Records(); len(records) != 1 || records[0].Name != "Slack" {
		t.Errorf("Records() after refresh = %+v", records)
	}

	want := "https://docs.google.com/spreadsheets/d/sheet123/export?format=csv&gid=5"
	if len(fetcher.urls) != 2 || fetcher.urls[1] != want {
		t.Errorf("fetched %v, want export url %q twice", fetcher.urls, want)
	}
}

func TestService_FileImportClearsSheetLink(t *testing.T) {
	svc, _, fetcher := newTestService(t, ServiceConfig{})
	ctx := context.Background()

	fetcher.body = goodCSV
	if _, err := svc.ImportSheet(ctx, "https://docs.google.com/spreadsheets/d/abc/edit"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ImportFile(ctx, "tools.csv", -1, strings.NewReader(goodCSV)); err != nil {
		t.Fatal(err)
	}
	if got := svc.LinkedSheet(); got != "" {
		t.Errorf("LinkedSheet() = %q, want empty after a file import", got)
	}
}

func TestService_Dashboard(t *testing.T) {
	svc, _, _ := newTestService(t, ServiceConfig{})

	empty := svc.Dashboard()
	if empty.Snapshot != nil || len(empty.Records) != 0 || empty.Alerts == nil {
		t.Errorf("empty dashboard = %+v", empty)
	}

	csv := "Tool Name,Monthly Cost,Guna Honesty Meter\nAdobe,60,3\nSlack,8,7\n"
	if _, err := svc.ImportFile(context.Background(), "t.csv", -1, strings.NewReader(csv)); err != nil {
		t.Fatal(err)
	}

	d := svc.Dashboard()
	if d.KPIs.TotalMonthly != 68 || d.KPIs.OverBudgetCount != 1 {
		t.Errorf("KPIs = %+v", d.KPIs)
	}
	if !d.Records[0].IsOverBudget || d.Records[1].IsOverBudget {
		t.Errorf("over budget flags = %v/%v", d.Records[0].IsOverBudget, d.Records[1].IsOverBudget)
	}
	if findAlert(d.Alerts, AlertOverBudget) == nil || findAlert(d.Alerts, AlertUtility) == nil {
		t.Errorf("alerts = %+v", d.Alerts)
	}
}

func TestService_DryRun(t *testing.T) {
	svc, store, _ := newTestService(t, ServiceConfig{})

	result, err := svc.DryRun([]byte(mixedCSV))
	if err != nil {
		t.Fatalf("DryRun() error = %v", err)
	}
	if result.Accepted || result.Phase != PhaseRejected {
		t.Errorf("result = %+v, want rejected", result)
	}
	if history, _ := store.ListImports(context.Background(), 0); len(history) != 0 {
		t.Error("DryRun must not record history")
	}
	if svc.Current() != nil {
		t.Error("DryRun must not replace the current set")
	}
}

func TestService_LoadsExistingSnapshot(t *testing.T) {
	store := NewMemoryStore(0)
	snap := Snapshot{ImportID: "prev", Records: []ToolRecord{validRecord("Figma", 45)}}
	if err := store.SaveImport(context.Background(), ImportSummary{ImportID: "prev", Accepted: true}, nil, &snap); err != nil {
		t.Fatal(err)
	}

	svc, err := NewService(context.Background(), store, &fakeFetcher{}, ServiceConfig{Options: testOptions()})
	if err != nil {
		t.Fatal(err)
	}
	if cur := svc.Current(); cur == nil || cur.ImportID != "prev" {
		t.Errorf("Current() = %+v, want snapshot loaded from store", cur)
	}
}

// gatedStore holds the first accepted save open until release is closed.
type gatedStore struct {
	*MemoryStore
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (g *gatedStore) SaveImport(ctx context.Context, summary ImportSummary, raw []byte, snap *Snapshot) error {
	if err := g.MemoryStore.SaveImport(ctx, summary, raw, snap); err != nil {
		return err
	}
	if snap == nil {
		return nil
	}
	first := false
	g.once.Do(func() { first = true })
	if first {
		close(g.entered)
		<-g.release
	}
	return nil
}

func TestService_ConcurrentImportsStayInStep(t *testing.T) {
	store := &gatedStore{
		MemoryStore: NewMemoryStore(0),
		entered:     make(chan struct{}),
		release:     make(chan struct{}),
	}
	svc, err := NewService(context.Background(), store, &fakeFetcher{}, ServiceConfig{
		Options:       testOptions(),
		MaxConcurrent: 2,
	})
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	importCSV := func(name string) error {
		body := "Tool Name,Monthly Cost\n" + name + ",10\n"
		_, err := svc.ImportFile(context.Background(), name+".csv", int64(len(body)), strings.NewReader(body))
		return err
	}

	errs := make(chan error, 2)
	go func() { errs <- importCSV("AAA") }()
	<-store.entered

	done := make(chan struct{})
	go func() {
		errs <- importCSV("BBB")
		close(done)
	}()

	// BBB must not finish while AAA is still mid-commit. Release AAA once
	// BBB is done or has had ample time to overtake it.
	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
	}
	close(store.release)

	for range 2 {
		if err := <-errs; err != nil {
			t.Fatalf("import error = %v", err)
		}
	}

	stored, err := store.CurrentSnapshot(context.Background())
	if err != nil || stored == nil {
		t.Fatalf("CurrentSnapshot() = %v, %v", stored, err)
	}
	served := svc.Current()
	if served == nil || served.ImportID != stored.ImportID {
		t.Fatalf("served %v, stored %s (%s): snapshots diverged",
			served, stored.ImportID, stored.Records[0].Name)
	}
	if got := served.Records[0].Name; got != "BBB" {
		t.Errorf("current = %s, want the later commit BBB", got)
	}
}
