package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/copytrade-dashboard/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Format represents the export file format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat accepts "csv" or "json" in any case.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported format: %q", s)
	}
}

// Options configures an export.
type Options struct {
	Format         Format
	OutputDir      string
	Label          string // goes into the file name, e.g. "dashboard"
	Filter         domain.ExtendedFilter
	OnlyCopyworthy bool
}

// Exporter writes wallet lists to disk.
type Exporter struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewExporter creates a new wallet exporter
func NewExporter(logger *zap.Logger) *Exporter {
	return &Exporter{
		logger: logger.Named("export"),
		now:    time.Now,
	}
}

// ExportWallets writes the wallets matching opts and returns the file path.
func (e *Exporter) ExportWallets(wallets []domain.Wallet, opts Options) (string, error) {
	filtered := e.filterWallets(wallets, opts)
	if len(filtered) == 0 {
		return "", fmt.Errorf("no wallets match the export criteria")
	}

	// best ROI first; stable keeps the backend ranking for ties
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].ROIPercentage > filtered[j].ROIPercentage
	})

	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	outputPath := filepath.Join(opts.OutputDir, e.generateFilename(opts))

	var err error
	switch opts.Format {
	case FormatCSV:
		err = e.exportToCSV(filtered, outputPath)
	case FormatJSON:
		err = e.exportToJSON(filtered, outputPath)
	default:
		err = fmt.Errorf("unsupported format: %s", opts.Format)
	}
	if err != nil {
		return "", err
	}

	e.logger.Info("Wallets exported",
		zap.String("file", outputPath),
		zap.Int("count", len(filtered)),
		zap.String("format", string(opts.Format)))

	return outputPath, nil
}

func (e *Exporter) filterWallets(wallets []domain.Wallet, opts Options) []domain.Wallet {
	out := make([]domain.Wallet, 0, len(wallets))
	for _, w := range wallets {
		if opts.OnlyCopyworthy && !w.Copyworthy() {
			continue
		}
		if !opts.Filter.Match(w) {
			continue
		}
		out = append(out, w)
	}
	return out
}

func (e *Exporter) generateFilename(opts Options) string {
	prefix := "wallets"
	if opts.Label != "" {
		prefix += "_" + opts.Label
	}
	if opts.OnlyCopyworthy {
		prefix += "_copyworthy"
	}
	return fmt.Sprintf("%s_%s.%s", prefix, e.now().Format("20060102_150405"), opts.Format)
}

// CSVHeaders is the header row of a CSV export.
func CSVHeaders() []string {
	return []string{
		"address", "roi_percentage", "winrate", "total_trades", "total_pnl_usd",
		"total_volume", "avg_trade_size", "risk_rating", "total_score",
		"copyworthy", "last_trade_time",
	}
}

func csvRow(w domain.Wallet) []string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
	lastTrade := ""
	if !w.LastTradeTime.IsZero() {
		lastTrade = w.LastTradeTime.UTC().Format(time.RFC3339)
	}
	return []string{
		w.Address,
		f(w.ROIPercentage),
		f(w.WinRate),
		strconv.Itoa(w.TotalTrades),
		f(w.TotalPnLUSD),
		f(w.TotalVolume),
		f(w.AvgTradeSize),
		string(w.EffectiveRisk()),
		f(w.Scores.Total),
		strconv.FormatBool(w.Copyworthy()),
		lastTrade,
	}
}

func (e *Exporter) exportToCSV(wallets []domain.Wallet, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(CSVHeaders()); err != nil {
		return fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, w := range wallets {
		if err := writer.Write(csvRow(w)); err != nil {
			return fmt.Errorf("failed to write wallet %s: %w", w.Address, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func (e *Exporter) exportToJSON(wallets []domain.Wallet, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	exportData := struct {
		ExportTime  time.Time       `json:"export_time"`
		WalletCount int             `json:"wallet_count"`
		Summary     Summary         `json:"summary"`
		Wallets     []domain.Wallet `json:"wallets"`
	}{
		ExportTime:  e.now().UTC(),
		WalletCount: len(wallets),
		Summary:     Summarize(wallets),
		Wallets:     wallets,
	}

	if err := encoder.Encode(exportData); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// Summary contains aggregate figures for an exported list.
type Summary struct {
	Wallets      int                       `json:"wallets"`
	Copyworthy   int                       `json:"copyworthy"`
	TotalVolume  float64                   `json:"total_volume"`
	TotalPnL     float64                   `json:"total_pnl_usd"`
	TotalTrades  int                       `json:"total_trades"`
	AvgROI       float64                   `json:"avg_roi"`
	AvgWinRate   float64                   `json:"avg_winrate"`
	BestAddress  string                    `json:"best_address,omitempty"`
	BestROI      float64                   `json:"best_roi"`
	RiskBreakout map[domain.RiskRating]int `json:"risk_breakout"`
}

// Summarize aggregates wallets.
func Summarize(wallets []domain.Wallet) Summary {
	s := Summary{
		Wallets:      len(wallets),
		RiskBreakout: make(map[domain.RiskRating]int),
	}
	if len(wallets) == 0 {
		return s
	}

	var roiSum, winSum float64
	for i, w := range wallets {
		if w.Copyworthy() {
			s.Copyworthy++
		}
		s.TotalVolume += w.TotalVolume
		s.TotalPnL += w.TotalPnLUSD
		s.TotalTrades += w.TotalTrades
		roiSum += w.ROIPercentage
		winSum += w.WinRate
		if i == 0 || w.ROIPercentage > s.BestROI {
			s.BestROI = w.ROIPercentage
			s.BestAddress = w.Address
		}
		if r := w.EffectiveRisk(); r != "" {
			s.RiskBreakout[r]++
		}
	}
	s.AvgROI = roiSum / float64(len(wallets))
	s.AvgWinRate = winSum / float64(len(wallets))
	return s
}
