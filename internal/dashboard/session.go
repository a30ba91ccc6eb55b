// =============================================================================
// Comparativo - Dashboard Session
// =============================================================================
//
// This module holds the state of one comparison session and runs the
// pipeline for it. It replaces the page-global state of the dashboard UI
// with an explicit object that any host (CLI, HTTP handler, test) can drive.
//
// SESSION LIFECYCLE:
//   1. Upload the "before" and "after" files, in any order
//   2. Process: reconcile both periods into comparison records
//   3. Read the chart and table views; change filters and sort
//   4. Export the table view, or Reset to start over
//
// STATE RULES:
//   - A failed upload clears its own slot only
//   - Process discards both datasets and resets filters and sort
//   - The table always keeps at least one indicator active
//
// CONCURRENCY:
//   Every method locks the session, so one Session may be shared by
//   concurrent request handlers.
//
// =============================================================================

package dashboard

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/Vitorkla/comparativo/internal/config"
	"github.com/Vitorkla/comparativo/internal/csvparser"
	"github.com/Vitorkla/comparativo/internal/export"
	"github.com/Vitorkla/comparativo/internal/format"
	"github.com/Vitorkla/comparativo/internal/logging"
	"github.com/Vitorkla/comparativo/internal/query"
	"github.com/Vitorkla/comparativo/internal/reconcile"
	"github.com/Vitorkla/comparativo/internal/stats"
	"github.com/Vitorkla/comparativo/internal/table"
	"github.com/Vitorkla/comparativo/internal/types"
	"github.com/Vitorkla/comparativo/internal/validation"
	"github.com/Vitorkla/comparativo/internal/xlsxparser"
	"github.com/Vitorkla/comparativo/pkg/utils"
)

// =============================================================================
// SLOTS
// =============================================================================

// Slot names one of the two compared periods.
type Slot int

const (
	// Before is the earlier period.
	Before Slot = iota
	// After is the later period.
	After
)

// String returns the slot name used in logs.
func (s Slot) String() string {
	if s == After {
		return "after"
	}
	return "before"
}

// =============================================================================
// VIEWS
// =============================================================================

// ChartView is the data behind the chart panel.
type ChartView struct {
	// Records are the chart-filtered records.
	Records []types.ComparisonRecord `json:"records"`

	// Series is the per-manager aggregate, labels already shortened.
	Series []query.ChartPoint `json:"series"`

	// Summary holds the headline figures.
	Summary stats.Summary `json:"summary"`
}

// TableView is the data behind the comparison table.
type TableView struct {
	Columns     []table.Column     `json:"columns"`
	Indicators  []string           `json:"indicators"`
	Rows        []types.GroupedRow `json:"rows"`
	Placeholder table.Placeholder  `json:"placeholder"`
	Sort        types.SortState    `json:"sort"`
}

// =============================================================================
// SESSION
// =============================================================================

// Session is one comparison workspace.
type Session struct {
	// ID identifies the session in logs and export names.
	ID string

	mu      sync.Mutex
	cfg     *config.Config
	logger  *slog.Logger
	decoder *csvparser.Decoder
	engine  *reconcile.Engine
	checker *validation.Checker

	datasets    [2]*types.Dataset
	issues      [2][]*validation.Issue
	records     []types.ComparisonRecord
	chartFilter types.FilterState
	tableFilter types.FilterState
	sort        types.SortState
}

// NewSession creates an empty session.
//
// PARAMETERS:
//   - cfg: the loaded configuration. Nil uses config.Default().
//   - logger: the base logger. Nil uses the default logger.
func NewSession(cfg *config.Config, logger *slog.Logger) *Session {
	if cfg == nil {
		cfg = config.Default()
	}
	id := uuid.New().String()
	if logger == nil {
		logger = logging.WithFields("session_id", id)
	} else {
		logger = logger.With("session_id", id)
	}

	s := &Session{
		ID:      id,
		cfg:     cfg,
		logger:  logger,
		decoder: csvparser.NewDecoder(cfg.Indicators, logger),
		engine:  reconcile.New(cfg.Columns.Branch, cfg.Columns.Manager, logger),
		checker: validation.NewChecker(cfg.Columns.Branch, cfg.Columns.Manager),
	}
	s.resetViewState()
	return s
}

// resetViewState activates every indicator in both views and clears the sort.
func (s *Session) resetViewState() {
	s.chartFilter = types.NewFilterState(s.cfg.Indicators)
	s.tableFilter = types.NewFilterState(s.cfg.Indicators)
	s.sort = types.DefaultSort()
}

// materialize replaces a nil indicator set, which means "all", with an
// explicit one so single indicators can be toggled.
func (s *Session) materialize(f *types.FilterState) {
	if f.ActiveIndicators == nil {
		f.ActiveIndicators = types.NewFilterState(s.cfg.Indicators).ActiveIndicators
	}
}

// =============================================================================
// UPLOADS
// =============================================================================

// Upload decodes one period from r and stores it in slot.
//
// PARAMETERS:
//   - slot: Before or After.
//   - name: the file name; its extension selects the decoder.
//   - r: the file content.
//
// RETURNS:
//   - nil when the file is accepted.
//   - types.ErrUnsupportedFile for anything but .csv and .xlsx, or the
//     decoding error (*types.SchemaError, *types.EmptyDataError,
//     *types.ReadError). On error the slot is cleared; the other slot keeps
//     its data.
func (s *Session) Upload(slot Slot, name string, r io.Reader) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.logger.With("slot", slot.String(), "file", name)

	dataset, err := s.decode(name, r)
	if err != nil {
		s.datasets[slot] = nil
		s.issues[slot] = nil
		log.Warn("upload rejected", "error", err)
		return err
	}

	issues := s.checker.Check(dataset)
	s.datasets[slot] = dataset
	s.issues[slot] = issues
	log.Info("upload accepted", "rows", len(dataset.Rows), "issues", len(issues))
	for _, issue := range issues {
		log.Debug("dataset issue", "rule", issue.Rule, "detail", issue.Error())
	}
	return nil
}

// UploadFile opens path and uploads it under its base name.
func (s *Session) UploadFile(slot Slot, path string) error {
	name := filepath.Base(path)
	if utils.DetectKind(name) == utils.KindUnsupported {
		return s.Upload(slot, name, nil)
	}

	f, err := os.Open(path)
	if err != nil {
		readErr := &types.ReadError{Source: name, Err: err}
		s.mu.Lock()
		s.datasets[slot] = nil
		s.issues[slot] = nil
		s.mu.Unlock()
		s.logger.Warn("upload rejected", "slot", slot.String(), "file", name, "error", readErr)
		return readErr
	}
	defer f.Close()

	return s.Upload(slot, name, f)
}

func (s *Session) decode(name string, r io.Reader) (*types.Dataset, error) {
	expected := s.cfg.ExpectedColumns()

	switch utils.DetectKind(name) {
	case utils.KindCSV:
		return s.decoder.DecodeReader(r, name, expected)
	case utils.KindXLSX:
		return xlsxparser.Parse(r, name, s.decoder, expected)
	default:
		return nil, fmt.Errorf("%s: %w", name, types.ErrUnsupportedFile)
	}
}

// Dataset returns the accepted dataset of slot, or nil. The dataset must not
// be modified.
func (s *Session) Dataset(slot Slot) *types.Dataset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.datasets[slot]
}

// Issues returns the data quality issues found in the accepted upload of
// slot. They are cleared with the dataset.
func (s *Session) Issues(slot Slot) []*validation.Issue {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*validation.Issue(nil), s.issues[slot]...)
}

// Ready reports whether both periods have been accepted.
func (s *Session) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready()
}

func (s *Session) ready() bool {
	return s.datasets[Before] != nil && s.datasets[After] != nil
}

// =============================================================================
// PROCESSING
// =============================================================================

// Process reconciles the two uploaded periods.
//
// RETURNS:
//   - types.ErrNotReady unless both slots hold accepted data.
//
// PROCESSING STEPS:
//   1. Reconcile before against after into comparison records
//   2. Replace the record set
//   3. Reset both filters (all indicators active) and the sort
//   4. Discard the datasets; a new comparison needs new uploads
func (s *Session) Process() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready() {
		return types.ErrNotReady
	}

	// =========================================================================
	// STEP 1: RECONCILE
	// =========================================================================

	records := s.engine.Reconcile(s.datasets[Before], s.datasets[After], s.cfg.Indicators)
	if unmatched := s.checker.CrossCheck(s.datasets[Before], s.datasets[After]); len(unmatched) > 0 {
		s.logger.Warn("entities without a counterpart were left out", "count", len(unmatched))
	}

	// =========================================================================
	// STEP 2-4: REPLACE STATE
	// =========================================================================

	s.records = records
	s.resetViewState()
	s.datasets = [2]*types.Dataset{}
	s.issues = [2][]*validation.Issue{}

	s.logger.Info("comparison processed", "records", len(records))
	return nil
}

// Records returns a copy of the full record set.
func (s *Session) Records() []types.ComparisonRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]types.ComparisonRecord(nil), s.records...)
}

// FilterOptions returns the distinct managers and branches of the records.
func (s *Session) FilterOptions() query.Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	return query.FilterOptions(s.records)
}

// Reset drops uploads, records and view state.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.datasets = [2]*types.Dataset{}
	s.issues = [2][]*validation.Issue{}
	s.records = nil
	s.resetViewState()
	s.logger.Info("session reset")
}

// =============================================================================
// CHART VIEW
// =============================================================================

// ChartFilter returns a copy of the chart filter.
func (s *Session) ChartFilter() types.FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chartFilter.Clone()
}

// SetChartFilter replaces the chart filter and returns the new view.
func (s *Session) SetChartFilter(f types.FilterState) ChartView {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.chartFilter = f.Clone()
	return s.chartView()
}

// SetChartIndicator toggles one chart indicator. The chart may end up with
// no indicator selected.
func (s *Session) SetChartIndicator(name string, on bool) ChartView {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.materialize(&s.chartFilter)
	s.chartFilter.ActiveIndicators[name] = on
	return s.chartView()
}

// ClearChartFilters selects every manager, branch and indicator.
func (s *Session) ClearChartFilters() ChartView {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.chartFilter = types.NewFilterState(s.cfg.Indicators)
	return s.chartView()
}

// ChartView returns the current chart data.
func (s *Session) ChartView() ChartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chartView()
}

func (s *Session) chartView() ChartView {
	records := query.ApplyFilters(s.records, s.chartFilter, query.ChartView)

	series := query.ChartSeries(records, s.cfg.Chart.MaxSeries)
	for i := range series {
		series[i].Label = format.TruncateLabel(series[i].Label, s.cfg.Chart.LabelMaxLen)
	}

	return ChartView{
		Records: records,
		Series:  series,
		Summary: stats.Summarize(records),
	}
}

// =============================================================================
// TABLE VIEW
// =============================================================================

// TableFilter returns a copy of the table filter.
func (s *Session) TableFilter() types.FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tableFilter.Clone()
}

// SetTableFilter replaces the table filter and returns the new view.
func (s *Session) SetTableFilter(f types.FilterState) TableView {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tableFilter = f.Clone()
	return s.tableView()
}

// SetTableIndicator toggles one table indicator. Names that are not
// declared indicators, and turning off the last active one, are refused
// and reported with false.
func (s *Session) SetTableIndicator(name string, on bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.declared(name) {
		s.logger.Debug("refused unknown table indicator", "indicator", name)
		return false
	}

	s.materialize(&s.tableFilter)
	prev := s.tableFilter.ActiveIndicators[name]
	s.tableFilter.ActiveIndicators[name] = on

	if len(query.ActiveIndicators(s.tableFilter, s.cfg.Indicators)) == 0 {
		s.tableFilter.ActiveIndicators[name] = prev
		s.logger.Debug("refused to deactivate last table indicator", "indicator", name)
		return false
	}
	return true
}

func (s *Session) declared(name string) bool {
	for _, indicator := range s.cfg.Indicators {
		if indicator == name {
			return true
		}
	}
	return false
}

// ToggleSort applies a header click on column and returns the new view.
func (s *Session) ToggleSort(column string) TableView {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sort = table.Toggle(s.sort, column)
	return s.tableView()
}

// ClearTableFilters selects every manager, branch and indicator and clears
// the sort.
func (s *Session) ClearTableFilters() TableView {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tableFilter = types.NewFilterState(s.cfg.Indicators)
	s.sort = types.DefaultSort()
	return s.tableView()
}

// TableView returns the current table data.
func (s *Session) TableView() TableView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tableView()
}

func (s *Session) tableView() TableView {
	records := query.ApplyFilters(s.records, s.tableFilter, query.TableView)
	active := query.ActiveIndicators(s.tableFilter, s.cfg.Indicators)

	proj := table.Project(records, active, s.sort)
	s.sort = proj.Sort

	return TableView{
		Columns:     table.Columns(active, s.cfg.Columns.Branch, proj.Sort),
		Indicators:  active,
		Rows:        proj.Rows,
		Placeholder: proj.Placeholder,
		Sort:        proj.Sort,
	}
}

// =============================================================================
// EXPORT
// =============================================================================

// Report assembles the export of the current table and chart summary.
func (s *Session) Report() export.Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	tv := s.tableView()
	cv := s.chartView()

	return export.Report{
		SessionID:    s.ID,
		ManagerLabel: s.cfg.Columns.Manager,
		BranchLabel:  s.cfg.Columns.Branch,
		Indicators:   tv.Indicators,
		IsMonetary:   s.cfg.IsMonetary,
		Table: table.Projection{
			Rows:        tv.Rows,
			Placeholder: tv.Placeholder,
			Sort:        tv.Sort,
		},
		Summary: cv.Summary,
	}
}

// Export writes the current report to dir under the configured file name
// and returns the file path.
func (s *Session) Export(dir string) (string, error) {
	if dir == "" {
		dir = s.cfg.Output.Dir
	}
	if err := utils.EnsureDir(dir); err != nil {
		return "", err
	}

	path := utils.OutputPath(dir, s.cfg.Output.FileNameFormat, map[string]string{"session": s.ID})
	if err := export.Save(path, s.Report()); err != nil {
		return "", err
	}

	s.logger.Info("report exported", "path", path)
	return path, nil
}
