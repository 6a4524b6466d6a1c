package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/simp-lee/logger"
	"github.com/spf13/cobra"

	"github.com/simp-lee/advocates/internal/client"
	"github.com/simp-lee/advocates/internal/config"
	"github.com/simp-lee/advocates/internal/directory"
	"github.com/simp-lee/advocates/internal/domain"
	"github.com/simp-lee/advocates/internal/tui"
)

type rootOptions struct {
	baseURL  string
	timeout  time.Duration
	logFile  string
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "advocates",
		Short:         "Browse and seed the advocate directory",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.baseURL, "base-url", "http://localhost:8080", "directory server URL")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", client.DefaultTimeout, "per-request timeout")
	root.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "write logs to this file instead of stderr")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	root.AddCommand(newBrowseCmd(opts), newListCmd(opts), newSeedCmd(opts))
	return root
}

func (o *rootOptions) client() (*client.Client, error) {
	return client.New(o.baseURL, client.WithTimeout(o.timeout))
}

// setupLogger logs to stderr, or only to a file when one is given. The
// browser passes a default file since the terminal belongs to the UI.
func (o *rootOptions) setupLogger(defaultFile string) (*logger.Logger, error) {
	cfg := &config.LogConfig{Level: o.logLevel, Format: "text"}
	file := o.logFile
	if file == "" {
		file = defaultFile
	}
	if file != "" {
		off := false
		cfg.Console = &off
		cfg.FilePath = file
	}
	return config.SetupLogger(cfg)
}

func newBrowseCmd(opts *rootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Search the directory interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := opts.setupLogger("advocates.log")
			if err != nil {
				return fmt.Errorf("setup logger: %w", err)
			}
			defer log.Close()

			cl, err := opts.client()
			if err != nil {
				return err
			}

			feed := tui.NewFeed()
			ctrl := directory.New(cl,
				directory.WithLimit(limit),
				directory.WithLogger(log.Logger),
				directory.WithNotify(feed.Push),
			)
			defer ctrl.Close()

			p := tea.NewProgram(tui.New(ctrl, feed),
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
			)
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("run browser: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", directory.DefaultLimit, "records per page")
	return cmd
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var (
		search string
		page   int
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print one page of search results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := opts.setupLogger("")
			if err != nil {
				return fmt.Errorf("setup logger: %w", err)
			}
			defer log.Close()

			cl, err := opts.client()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			res, err := cl.List(ctx, domain.SearchRequest{Search: search, Page: page, Limit: limit})
			if err != nil {
				return err
			}
			log.Debug("listed advocates",
				"search", search, "page", page, "returned", len(res.Data), "total", res.Pagination.Total)

			return printPage(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "case-insensitive search term")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number")
	cmd.Flags().IntVarP(&limit, "limit", "l", directory.DefaultLimit, "records per page")
	return cmd
}

func newSeedCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the predefined advocate batch",
		Long:  "Insert the predefined advocate batch. Every run inserts the full batch again.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := opts.setupLogger("")
			if err != nil {
				return fmt.Errorf("setup logger: %w", err)
			}
			defer log.Close()

			cl, err := opts.client()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			records, err := cl.Seed(ctx)
			if err != nil {
				return err
			}
			log.Info("seeded advocates", "count", len(records))
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d advocates\n", len(records))
			return err
		},
	}
}

func printPage(w io.Writer, page domain.AdvocatePage) error {
	if len(page.Data) == 0 {
		_, err := fmt.Fprintln(w, "No advocates found")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCITY\tDEGREE\tYEARS\tSPECIALTIES\tPHONE")
	for _, a := range page.Data {
		fmt.Fprintf(tw, "%d\t%s %s\t%s\t%s\t%d\t%s\t%s\n",
			a.ID, a.FirstName, a.LastName, a.City, a.Degree,
			a.YearsOfExperience, strings.Join(a.Specialties, ", "), a.PhoneNumber)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	p := page.Pagination
	_, err := fmt.Fprintf(w, "\nPage %d of %d, %d total\n", p.CurrentPage, p.TotalPages, p.Total)
	return err
}
