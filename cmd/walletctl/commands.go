package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/copytrade-dashboard/internal/domain"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/export"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/format"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/pager"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/service"
)

// env is what every command runs against.
type env struct {
	backend   service.Backend
	lookup    *service.Lookup
	exporter  *export.Exporter
	pageSize  int
	filter    domain.FilterCriteria
	exportDir string
	links     format.Links
	out       io.Writer
	logger    *zap.Logger
	now       func() time.Time
}

// command is one walletctl subcommand.
type command struct {
	name    string
	summary string
	run     func(ctx context.Context, e *env, args []string) error
}

// commandSet dispatches subcommands by name.
type commandSet struct {
	commands map[string]command
	logger   *zap.Logger
}

func newCommandSet(logger *zap.Logger) *commandSet {
	cs := &commandSet{commands: make(map[string]command), logger: logger.Named("commands")}
	cs.register(command{"top", "list top wallets", runTop})
	cs.register(command{"lookup", "look a wallet up by address", runLookup})
	cs.register(command{"stats", "show overview statistics", runStats})
	cs.register(command{"export", "export top wallets to csv or json", runExport})
	return cs
}

func (cs *commandSet) register(c command) {
	cs.commands[c.name] = c
}

// names returns the registered command names, sorted.
func (cs *commandSet) names() []string {
	names := make([]string, 0, len(cs.commands))
	for name := range cs.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (cs *commandSet) usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: walletctl [-config file] [-debug] <command> [flags]")
	fmt.Fprintln(w, "\nCommands:")
	for _, name := range cs.names() {
		fmt.Fprintf(w, "  %-8s %s\n", name, cs.commands[name].summary)
	}
}

// dispatch runs the named command.
func (cs *commandSet) dispatch(ctx context.Context, e *env, name string, args []string) error {
	c, ok := cs.commands[name]
	if !ok {
		return fmt.Errorf("unknown command %q", name)
	}

	cs.logger.Debug("Executing command", zap.String("command", name), zap.Strings("args", args))
	if err := c.run(ctx, e, args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		cs.logger.Error("Command failed", zap.String("command", name), zap.Error(err))
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// filterFlags registers the server-side filter flags prefilled with def.
func filterFlags(fs *flag.FlagSet, def domain.FilterCriteria) *domain.FilterCriteria {
	c := def
	fs.Float64Var(&c.MinROI, "min-roi", def.MinROI, "minimum ROI %")
	fs.Float64Var(&c.MinWinRate, "min-win-rate", def.MinWinRate, "minimum win rate %")
	fs.IntVar(&c.MinTrades, "min-trades", def.MinTrades, "minimum trade count")
	return &c
}

// loadPages fetches page 1 plus up to pages-1 more.
func loadPages(ctx context.Context, e *env, criteria domain.FilterCriteria, pages int) (*service.Snapshot, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}
	dash := service.NewDashboard(e.backend, e.pageSize, e.logger)
	snap, err := dash.Load(ctx, criteria)
	if err != nil {
		return nil, err
	}
	for i := 1; i < pages; i++ {
		wallets, err := dash.LoadMore(ctx)
		if errors.Is(err, pager.ErrExhausted) {
			break
		}
		if err != nil {
			return nil, err
		}
		snap.Wallets = wallets
	}
	snap.HasMore = dash.Pager().HasMore()
	return snap, nil
}

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
)

// pnlString colors text by the sign of v.
func pnlString(v float64, text string) string {
	switch {
	case v > 0:
		return green(text)
	case v < 0:
		return red(text)
	default:
		return text
	}
}

func riskString(r domain.RiskRating) string {
	switch r {
	case domain.RiskLow:
		return green(string(r))
	case domain.RiskMedium:
		return yellow(string(r))
	case domain.RiskHigh:
		return red(string(r))
	default:
		return "Unknown"
	}
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetAutoWrapText(false)
	t.SetAutoFormatHeaders(false)
	t.SetBorder(false)
	t.SetColumnSeparator(" ")
	t.SetHeaderLine(true)
	return t
}

func runTop(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("top", flag.ContinueOnError)
	fs.SetOutput(e.out)
	criteria := filterFlags(fs, e.filter)
	pages := fs.Int("pages", 1, "number of pages to fetch")
	copyworthy := fs.Bool("copyworthy", false, "only copyworthy wallets")
	if err := fs.Parse(args); err != nil {
		return err
	}

	snap, err := loadPages(ctx, e, *criteria, *pages)
	if err != nil {
		return err
	}

	t := newTable(e.out, "#", "Wallet", "ROI", "Win Rate", "Trades", "PnL", "Risk", "Last Trade")
	shown := 0
	for _, w := range snap.Wallets {
		if *copyworthy && !w.Copyworthy() {
			continue
		}
		shown++
		addr := format.ShortAddress(w.Address)
		if w.Copyworthy() {
			addr = color.New(color.FgYellow, color.Bold).Sprint("★ " + addr)
		}
		t.Append([]string{
			fmt.Sprint(shown),
			addr,
			pnlString(w.ROIPercentage, format.Signed(w.ROIPercentage, 2)),
			format.Percent(w.WinRate, 1),
			format.Int(w.TotalTrades),
			pnlString(w.TotalPnLUSD, format.Currency(w.TotalPnLUSD)),
			riskString(w.EffectiveRisk()),
			format.TimeAgoShort(w.LastTradeTime, e.now()),
		})
	}
	if shown == 0 {
		fmt.Fprintln(e.out, yellow("No wallets match the current filters"))
		return nil
	}
	t.Render()

	more := ""
	if snap.HasMore {
		more = cyan(" (more available, use -pages)")
	}
	fmt.Fprintf(e.out, "\n%d of %s tracked wallets%s\n", shown, format.Int(snap.Stats.TotalWallets), more)
	return nil
}

func runLookup(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("lookup", flag.ContinueOnError)
	fs.SetOutput(e.out)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("expected exactly one wallet address")
	}

	res, err := e.lookup.Search(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	w := res.Wallet

	kv := func(label, value string) {
		fmt.Fprintf(e.out, "%s %s\n", cyan(fmt.Sprintf("%-14s", label+":")), value)
	}
	kv("Wallet", w.Address)
	switch {
	case res.Source == service.SourceLive:
		kv("Source", "live data (wallet not tracked yet)")
	case res.Live == nil:
		kv("Source", "stored analytics (live data unavailable)")
	default:
		kv("Source", "stored analytics")
	}
	kv("ROI", pnlString(w.ROIPercentage, format.Signed(w.ROIPercentage, 2)))
	kv("Win Rate", format.Percent(w.WinRate, 1))
	kv("Trades", format.Int(w.TotalTrades))
	kv("PnL", pnlString(w.TotalPnLUSD, format.Currency(w.TotalPnLUSD)))
	kv("Volume", format.Currency(w.TotalVolume))
	kv("Risk", riskString(w.EffectiveRisk()))
	kv("Last Trade", format.TimeAgo(w.LastTradeTime, e.now()))
	if w.Copyworthy() {
		kv("Copyworthy", green("yes"))
		for _, r := range w.Analytics.CopyworthyReasons {
			fmt.Fprintf(e.out, "%15s%s %s\n", "", green("✓"), r)
		}
	}
	kv("Explorer", e.links.Explorer(w.Address))

	if len(w.TokenMetrics) > 0 {
		fmt.Fprintln(e.out)
		t := newTable(e.out, "Token", "Swaps", "PnL", "ROI")
		for _, tok := range w.TokenMetrics {
			t.Append([]string{
				format.Placeholder(tok.Symbol),
				format.Int(tok.NumSwaps),
				pnlString(tok.TotalPnLUSD, format.Currency(tok.TotalPnLUSD)),
				format.Signed(tok.ROIPercentage, 2),
			})
		}
		t.Render()
	}
	return nil
}

func runStats(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	fs.SetOutput(e.out)
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := e.backend.Stats(ctx)
	if err != nil {
		return err
	}

	change := func(v float64) string {
		return pnlString(v, format.Signed(v, 1))
	}
	t := newTable(e.out, "Metric", "Value", "Change")
	t.Append([]string{"Total Wallets", format.Int(s.TotalWallets), change(s.Change.Wallets)})
	t.Append([]string{"Total Volume", format.Currency(s.TotalVolume), change(s.Change.Volume)})
	t.Append([]string{"Total Trades", format.Int(s.TotalTrades), change(s.Change.Trades)})
	t.Append([]string{"Average ROI", format.Percent(s.AvgROI, 2), change(s.Change.ROI)})
	t.Append([]string{"Top Performers", format.Int(s.TopPerformers), change(s.Change.TopPerformers)})
	t.Append([]string{"Avg Win Rate", format.Percent(s.AvgWinRate, 2), change(s.Change.WinRate)})
	t.Render()
	return nil
}

func runExport(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(e.out)
	criteria := filterFlags(fs, e.filter)
	pages := fs.Int("pages", 1, "number of pages to fetch")
	formatName := fs.String("format", "csv", "csv or json")
	outDir := fs.String("out", e.exportDir, "output directory")
	minVolume := fs.Float64("min-volume", 0, "minimum total volume $")
	minProfit := fs.Float64("min-profit", 0, "minimum total PnL $")
	risk := fs.String("risk", "", "Low, Medium or High")
	copyworthy := fs.Bool("copyworthy", false, "only copyworthy wallets")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ff, err := export.ParseFormat(*formatName)
	if err != nil {
		return err
	}
	rating := domain.ParseRiskRating(*risk)
	if *risk != "" && rating == "" {
		return fmt.Errorf("unknown risk level %q", *risk)
	}

	snap, err := loadPages(ctx, e, *criteria, *pages)
	if err != nil {
		return err
	}

	path, err := e.exporter.ExportWallets(snap.Wallets, export.Options{
		Format:    ff,
		OutputDir: *outDir,
		Label:     "top",
		Filter: domain.ExtendedFilter{
			Criteria:  *criteria,
			MinVolume: *minVolume,
			MinProfit: *minProfit,
			RiskLevel: rating,
		},
		OnlyCopyworthy: *copyworthy,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "%s %s\n", green("Exported to"), path)
	return nil
}
