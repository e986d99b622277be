package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/chriscorrea/marketsift/internal/app"
	"github.com/chriscorrea/marketsift/internal/config"
	"github.com/chriscorrea/marketsift/internal/counter"
	"github.com/chriscorrea/marketsift/internal/spinner"
	"github.com/chriscorrea/marketsift/internal/tfidf"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const (
	catalogEnv = "MARKETSIFT_CATALOG"
	limitEnv   = "MARKETSIFT_LIMIT"
	configEnv  = "MARKETSIFT_CONFIG"
)

// stdinIsTerminal reports whether reading the catalog from stdin would wait on a user
var stdinIsTerminal = func() bool {
	return spinner.IsTerminal(os.Stdin)
}

// buildConfig constructs an app.Config from command flags and arguments, falling back
// to environment variables and then the TOML config file for flags that were not given
func buildConfig(cmd *cobra.Command, args []string) (app.Config, error) {
	flags := cmd.Flags()

	configPath, _ := flags.GetString("config")
	if !flags.Changed("config") {
		configPath = os.Getenv(configEnv)
	}
	defaults, err := config.Load(configPath)
	if err != nil {
		return app.Config{}, err
	}

	source, _ := flags.GetString("catalog")
	limit, _ := flags.GetInt("limit")
	category, _ := flags.GetString("category")
	topTerms, _ := flags.GetInt("top-terms")
	stem, _ := flags.GetBool("stem")
	stopwords, _ := flags.GetBool("stopwords")
	stripHTML, _ := flags.GetBool("strip-html")
	mdFlag, _ := flags.GetBool("md")
	textFlag, _ := flags.GetBool("text")
	jsonFlag, _ := flags.GetBool("json")
	snippetWords, _ := flags.GetInt("snippet-words")
	snippetTokens, _ := flags.GetInt("snippet-tokens")
	snippetChars, _ := flags.GetInt("snippet-chars")
	showScores, _ := flags.GetBool("scores")
	quiet, _ := flags.GetBool("quiet")

	// environment only fills in flags that were not given
	if !flags.Changed("catalog") {
		source = os.Getenv(catalogEnv)
		if source == "" {
			source = defaults.Catalog
		}
	}
	if source == "" {
		source = "-"
	}
	if source == "-" && stdinIsTerminal() {
		return app.Config{}, fmt.Errorf("no catalog given: use --catalog, $%s or pipe a catalog to stdin", catalogEnv)
	}
	if !flags.Changed("limit") {
		limit = defaults.Limit
		if raw := strings.TrimSpace(os.Getenv(limitEnv)); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return app.Config{}, fmt.Errorf("invalid %s %q: %w", limitEnv, raw, err)
			}
			limit = n
		}
	}
	if !flags.Changed("top-terms") {
		topTerms = defaults.TopTerms
	}
	if !flags.Changed("stem") {
		stem = defaults.Stem
	}
	if !flags.Changed("strip-html") {
		stripHTML = defaults.StripHTML
	}
	if !flags.Changed("scores") {
		showScores = defaults.Scores
	}

	var stopwordList []string
	switch {
	case stopwords:
		stopwordList = tfidf.EnglishStopwords
	case len(defaults.Stopwords) > 0:
		stopwordList = defaults.Stopwords
	}

	// determine output format
	var outputFormat app.OutputFormat
	switch {
	case textFlag:
		outputFormat = app.Text
	case jsonFlag:
		outputFormat = app.JSON
	case mdFlag:
		outputFormat = app.Markdown
	default:
		switch defaults.Format {
		case "text", "txt":
			outputFormat = app.Text
		case "json":
			outputFormat = app.JSON
		default:
			outputFormat = app.Markdown // default if no format flag
		}
	}

	// determine snippet size, words by default
	snippetUnits := counter.Words
	snippetLimit := 0
	switch {
	case snippetTokens > 0:
		snippetUnits = counter.Tokens
		snippetLimit = snippetTokens
	case snippetChars > 0:
		snippetUnits = counter.Characters
		snippetLimit = snippetChars
	case snippetWords > 0:
		snippetLimit = snippetWords
	}

	cfg := app.Config{
		Catalog:      source,
		Limit:        limit,
		Category:     category,
		TopTerms:     topTerms,
		Stem:         stem,
		Stopwords:    stopwordList,
		StripHTML:    stripHTML,
		OutputFormat: outputFormat,
		SnippetUnits: snippetUnits,
		SnippetLimit: snippetLimit,
		ShowScores:   showScores,
		Quiet:        quiet,
	}

	switch cmd.Name() {
	case "search":
		cfg.Query = strings.Join(args, " ")
	case "recommend":
		if len(args) > 0 {
			cfg.ProductID = args[0]
		}
	}

	return cfg, nil
}

// setupLogger configures the default slog logger based on debug mode
func setupLogger(debug bool) {
	var level slog.Level
	if debug {
		level = slog.LevelDebug
	} else {
		level = slog.LevelError
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

// run builds the config, executes fn and prints the rendered listing
func run(cmd *cobra.Command, args []string, fn func(context.Context, app.Config) (app.Listing, error)) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// create context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	listing, err := fn(ctx, cfg)
	if err != nil {
		return fmt.Errorf("%s failed: %w", cmd.Name(), err)
	}

	out, err := app.Render(listing, cfg)
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}

// newRootCmd assembles the command tree with its flags
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "marketsift",
		Short: "A CLI tool for searching and recommending marketplace products",
		Long: `Marketsift ranks a JSON product catalog with TF-IDF. It finds products matching a
keyword query and recommends products similar to a given one. Catalogs may be local
files, URLs, or standard input.

Examples:
  marketsift search organic honey -c products.json
  marketsift recommend 64b1f0 -c https://shop.example.com/api/products
  cat products.json | marketsift search coffee --json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// a missing .env file is fine
			_ = godotenv.Load()

			// configure logging pending debug flag
			debug, _ := cmd.Flags().GetBool("debug")
			setupLogger(debug)
		},
	}

	searchCmd := &cobra.Command{
		Use:   "search [query...]",
		Short: "Search the catalog by keyword",
		Long: `Search ranks products by TF-IDF relevance to the query. When nothing matches, products
whose title contains the query are listed instead. Without a query the whole catalog is listed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, app.Search)
		},
	}

	recommendCmd := &cobra.Command{
		Use:   "recommend <product-id>",
		Short: "Recommend products similar to a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, app.Recommend)
		},
	}

	flags := rootCmd.PersistentFlags()

	// catalog and ranking flags
	flags.String("config", "", "TOML file with defaults (default: $"+configEnv+" or ./"+config.DefaultPath+")")
	flags.StringP("catalog", "c", "", "Catalog file, URL, or - for stdin (default: $"+catalogEnv+" or stdin)")
	flags.IntP("limit", "n", 0, "Maximum number of results (default: 10 for search, 4 for recommend)")
	flags.Bool("stem", false, "Match word variants with English stemming")
	flags.Bool("stopwords", false, "Ignore common English function words")
	flags.Bool("strip-html", false, "Strip HTML markup from descriptions before ranking")

	// output format flags
	flags.Bool("md", false, "Output in Markdown format (default)")
	flags.Bool("text", false, "Output in plain text format")
	flags.Bool("json", false, "Output in JSON format")

	// snippet flags
	flags.Int("snippet-words", 0, "Truncate descriptions to number of words")
	flags.Int("snippet-tokens", 0, "Truncate descriptions to number of tokens")
	flags.Int("snippet-chars", 0, "Truncate descriptions to number of characters")

	// other flags
	flags.Bool("scores", false, "Show relevance scores")
	flags.BoolP("quiet", "q", false, "Suppress progress messages")
	flags.BoolP("debug", "D", false, "Enable debug logging")
	_ = flags.MarkHidden("debug")

	searchCmd.Flags().String("category", "", "Only show products in this category")
	recommendCmd.Flags().Int("top-terms", 0, "Use only the product's N highest weighted terms (default: all)")

	// configure mutually exclusive flag groups
	rootCmd.MarkFlagsMutuallyExclusive("md", "text", "json")
	rootCmd.MarkFlagsMutuallyExclusive("snippet-words", "snippet-tokens", "snippet-chars")

	rootCmd.AddCommand(searchCmd, recommendCmd)
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
