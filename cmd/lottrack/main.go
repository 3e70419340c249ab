package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/vsinha/lottrack/pkg/infrastructure/config"
	"github.com/vsinha/lottrack/pkg/infrastructure/logging"
	"github.com/vsinha/lottrack/pkg/interfaces/cli/commands"
)

const usage = `lottrack - steel lot reconciliation and analytics

USAGE:
    lottrack import -production <file> [-shipping <file>]
    lottrack lookup -lot <identifier> [-exact] [-format json]
    lottrack list [-format json]
    lottrack dashboard [-grouping DAILY|WEEKLY|MONTHLY] [-format json]

GLOBAL OPTIONS (before the subcommand):
    -config <file>      Path to YAML config file (default: ./lottrack.yaml)
    -db <file>          SQLite database path (overrides config)

SUBCOMMANDS:
    import      Load production and shipping log CSVs, reconciling lot
                identifiers across spellings
    lookup      Show the consolidated view of one lot (fuzzy match by
                default)
    list        Show the consolidated view of every lot
    dashboard   Build the reporting dashboard for the current period

EXAMPLES:
    lottrack import -production production_feb.csv -shipping shipping_feb.csv
    lottrack lookup -lot "lot 001"
    lottrack dashboard -grouping MONTHLY -format json
`

func main() {
	var (
		configFile = flag.String("config", "", "Path to YAML config file")
		dbPath     = flag.String("db", "", "SQLite database path")
	)
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *dbPath != "" {
		cfg.DatabasePath = *dbPath
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()
	args := flag.Args()[1:]

	switch flag.Arg(0) {
	case "import":
		err = runImport(ctx, cfg, logger, args)
	case "lookup":
		err = runLookup(ctx, cfg, logger, args)
	case "list":
		err = runList(ctx, cfg, logger, args)
	case "dashboard":
		err = runDashboard(ctx, cfg, logger, args)
	case "help":
		flag.Usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown subcommand %q\n\n", flag.Arg(0))
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runImport(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger, args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	production := fs.String("production", "", "Path to production log CSV")
	shipping := fs.String("shipping", "", "Path to shipping log CSV")
	fs.Parse(args)

	cmd := commands.NewImportCommand(commands.ImportConfig{
		DatabasePath:   cfg.DatabasePath,
		ProductionFile: *production,
		ShippingFile:   *shipping,
	}, logger)
	return cmd.Execute(ctx)
}

func runLookup(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger, args []string) error {
	fs := flag.NewFlagSet("lookup", flag.ExitOnError)
	lot := fs.String("lot", "", "Lot identifier to look up")
	exact := fs.Bool("exact", false, "Require an exact identifier match")
	format := fs.String("format", "text", "Output format: text, json")
	fs.Parse(args)

	cmd := commands.NewLookupCommand(commands.LookupConfig{
		DatabasePath: cfg.DatabasePath,
		Identifier:   *lot,
		Exact:        *exact,
		Format:       *format,
	}, logger)
	return cmd.Execute(ctx)
}

func runList(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	format := fs.String("format", "text", "Output format: text, json")
	fs.Parse(args)

	cmd := commands.NewListCommand(commands.ListConfig{
		DatabasePath: cfg.DatabasePath,
		Format:       *format,
	}, logger)
	return cmd.Execute(ctx)
}

func runDashboard(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger, args []string) error {
	fs := flag.NewFlagSet("dashboard", flag.ExitOnError)
	grouping := fs.String("grouping", cfg.DefaultGrouping, "Time grouping: DAILY, WEEKLY, MONTHLY")
	format := fs.String("format", "text", "Output format: text, json")
	fs.Parse(args)

	cmd := commands.NewDashboardCommand(commands.DashboardConfig{
		DatabasePath: cfg.DatabasePath,
		Grouping:     *grouping,
		Format:       *format,
	}, logger)
	return cmd.Execute(ctx)
}
