package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"mergefix/internal/config"
	"mergefix/internal/logger"
	"mergefix/internal/model"
	"mergefix/internal/repair"
	"mergefix/internal/report"
	"mergefix/internal/ui"
	"mergefix/internal/workbook"
)

const (
	appName    = "Merge Fix"
	appVersion = "1.0.0"
	appDesc    = "Repairs cell merge formatting in generated performance report workbooks"
)

var (
	configPath  string
	verbose     bool
	showVersion bool
	dryRun      bool
	formats     string
)

func init() {
	flag.StringVar(&configPath, "config", "config.yaml", "Path to configuration file")
	flag.StringVar(&configPath, "c", "config.yaml", "Path to configuration file (shorthand)")
	flag.BoolVar(&verbose, "verbose", false, "Enable verbose logging (DEBUG level)")
	flag.BoolVar(&verbose, "v", false, "Enable verbose logging (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&dryRun, "dry-run", false, "Audit merges without modifying the workbook")
	flag.StringVar(&formats, "report", "", "Comma-separated summary formats (docx,json), overrides config")
}

func main() {
	exitCode := run()
	os.Exit(exitCode)
}

func run() int {
	flag.Parse()

	if showVersion {
		fmt.Printf("%s v%s\n%s\n", appName, appVersion, appDesc)
		return 0
	}

	if flag.NArg() != 1 {
		fmt.Println("Usage: mergefix [flags] <workbook.xlsx>")
		flag.PrintDefaults()
		return 1
	}
	workbookPath := flag.Arg(0)

	printBanner()

	logger.Info("Loading configuration...")
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("❌ Failed to load configuration: %v\n", err)
		return 1
	}

	if formats != "" {
		cfg.Report.Formats = strings.Split(formats, ",")
		if err := cfg.Validate(); err != nil {
			fmt.Printf("❌ Invalid report formats: %v\n", err)
			return 1
		}
	}

	if err := logger.Init(os.Stdout, cfg.Logging.File, verbose); err != nil {
		fmt.Printf("❌ Failed to initialize logger: %v\n", err)
		return 1
	}
	defer logger.Close()

	if _, err := os.Stat(workbookPath); err != nil {
		logger.Error("Workbook not found: %s", workbookPath)
		return 1
	}

	if err := runRepair(cfg, workbookPath); err != nil {
		logger.Error("Repair failed: %v", err)
		return 1
	}

	return 0
}

// runRepair opens the workbook, repairs every matching worksheet,
// saves in place and writes the configured summaries. The session is
// closed on every path.
func runRepair(cfg *config.Config, workbookPath string) error {
	session, err := workbook.Open(workbookPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.Warn("Failed to close workbook: %v", err)
		}
	}()

	fixer := repair.NewFixer(cfg, dryRun)
	audit := model.NewRunAudit(workbookPath, dryRun)

	matched := repair.MatchSheets(session.SheetList(), cfg.Sheets.Prefix)
	audit.TotalSheets = len(matched)

	if len(matched) == 0 {
		logger.Warn("No worksheets with prefix %q in %s. Nothing to repair.",
			cfg.Sheets.Prefix, workbookPath)
	} else {
		logger.Info("Found %d worksheet(s) with prefix %q", len(matched), cfg.Sheets.Prefix)

		phase := ui.PhaseRepairing
		if dryRun {
			phase = ui.PhaseAuditing
		}
		bar := ui.NewProgressBar(phase, len(matched))

		for _, sheet := range matched {
			bar.Describe(sheet)

			sheetAudit, err := fixer.RepairSheet(session, sheet)
			if err != nil {
				bar.Clear()
				return fmt.Errorf("worksheet %s: %w", sheet, err)
			}

			audit.AddSheet(sheetAudit)
			bar.Increment()
		}
		bar.Finish()
	}

	if dryRun {
		logger.Info("Dry run: %d block(s) across %d worksheet(s), %d merge(s) in place, %d missing",
			audit.Blocks(), audit.TotalSheets, audit.Verified(), audit.Pending())
	} else {
		if err := session.Save(); err != nil {
			return fmt.Errorf("failed to save workbook: %w", err)
		}
		logger.Info("✅ Repaired %d block(s) across %d worksheet(s): %d merge(s) applied, %d failure(s)",
			audit.Blocks(), audit.TotalSheets, audit.MergesApplied(), audit.Failures())
	}

	return writeSummaries(cfg, audit)
}

// writeSummaries renders the audit in every configured format
func writeSummaries(cfg *config.Config, audit *model.RunAudit) error {
	writers := report.GetWriters(cfg.Report.Formats)
	if len(writers) == 0 {
		return nil
	}

	logger.Info("Writing %d summary file(s)...", len(writers))

	var writeErrors []error
	for _, w := range writers {
		if err := w.Write(audit, cfg); err != nil {
			logger.Error("Summary write failed: %v", err)
			writeErrors = append(writeErrors, err)
		}
	}

	if len(writeErrors) > 0 {
		return fmt.Errorf("one or more summaries failed: %d errors", len(writeErrors))
	}
	return nil
}

func printBanner() {
	banner := `
╔═══════════════════════════════════════════════════════════╗
║                      MERGE FIX v1.0.0                     ║
║     Cell Merge Repair for Performance Report Workbooks    ║
╚═══════════════════════════════════════════════════════════╝
`
	fmt.Println(banner)
}
