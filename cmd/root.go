// Package cmd defines the CLI commands for the spider executable.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
)

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spider",
		Short: "Scrape columns from learn.lianglianglee.com",
		Long: `spider crawls the two-level table of contents of
learn.lianglianglee.com, extracts each page's article body into a local
raw cache, renders it to Markdown, and downloads embedded images.
Reruns resume from the cache without re-fetching.`,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (optional)")
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "debug logging")

	cmd.AddCommand(newCrawlCmd())
	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
