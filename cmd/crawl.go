package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wheat/techdigest/internal/config"
	"github.com/wheat/techdigest/internal/content"
	"github.com/wheat/techdigest/internal/fetcher"
	"github.com/wheat/techdigest/internal/logging"
	"github.com/wheat/techdigest/internal/ratelimit"
	"github.com/wheat/techdigest/internal/spider"
)

type crawlOptions struct {
	output    string
	workspace string
	all       bool
	columns   []string
	rangeExpr string
	keyword   string
}

// newCrawlCmd creates the 'crawl' subcommand.
func newCrawlCmd() *cobra.Command {
	opts := &crawlOptions{}

	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Crawl selected columns",
		Long: `Fetches the root table of contents, selects columns per the
selection flags, and crawls each one in order: pages are cached and rendered
to Markdown, embedded images are downloaded alongside.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCrawl(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "rendered output root")
	cmd.Flags().StringVarP(&opts.workspace, "workspace", "w", "", "raw cache root")
	cmd.Flags().BoolVarP(&opts.all, "all", "a", false, "crawl all columns")
	cmd.Flags().StringArrayVarP(&opts.columns, "column", "c", nil, "crawl a specific column (repeatable)")
	cmd.Flags().StringVarP(&opts.rangeExpr, "range", "r", "", "crawl a 1-based column range, e.g. 1-3")
	cmd.Flags().StringVarP(&opts.keyword, "keyword", "k", "", "crawl columns whose title contains keyword")

	_ = cmd.MarkFlagRequired("output")
	_ = cmd.MarkFlagRequired("workspace")
	cmd.MarkFlagsMutuallyExclusive("all", "column", "range", "keyword")
	cmd.MarkFlagsOneRequired("all", "column", "range", "keyword")

	return cmd
}

func runCrawl(cmd *cobra.Command, opts *crawlOptions) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	cfg.Crawl.OutputRoot = opts.output
	cfg.Crawl.WorkRoot = opts.workspace

	logger, err := logging.New(debug || cfg.Logging.Development)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	limiter := ratelimit.New(cfg.Delay())
	client, err := fetcher.New(fetcher.Config{
		BaseURL:     cfg.Site.BaseURL,
		UserAgent:   cfg.Site.UserAgent,
		Timeout:     cfg.Timeout(),
		InsecureTLS: cfg.Site.InsecureTLS,
	}, limiter, logger)
	if err != nil {
		return fmt.Errorf("init fetcher: %w", err)
	}

	sel := spider.Selection{
		All:     opts.all,
		Columns: opts.columns,
		Range:   opts.rangeExpr,
		Keyword: opts.keyword,
	}
	if err := sel.Validate(); err != nil {
		return err
	}

	s := spider.New(client, content.NewMarkdownConverter(), spider.Config{
		OutputRoot:     cfg.Crawl.OutputRoot,
		WorkRoot:       cfg.Crawl.WorkRoot,
		Workers:        cfg.Crawl.Workers,
		ReportInterval: cfg.Delay(),
		BarWidth:       cfg.Crawl.BarWidth,
	}, os.Stdout, logger)

	logger.Info("start scraping", zap.String("site", cfg.Site.BaseURL))
	if err := s.Run(cmd.Context(), sel); err != nil {
		return fmt.Errorf("crawl: %w", err)
	}
	return nil
}
