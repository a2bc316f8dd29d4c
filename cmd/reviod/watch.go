package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/revio/revio/pkg/client"
	"github.com/revio/revio/pkg/core"
	"github.com/revio/revio/pkg/httpapi"
)

var (
	watchServer string
	watchLimit  int
	watchSort   string
	watchOrder  string
	watchSearch string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow a review server's collection live",
	Long: `Fetch the first page of reviews and keep it updated from the
server's push channel, reprinting the page on every change.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.Default()

		api, err := httpapi.NewClient(watchServer)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		view := client.NewView(client.Params{
			Page:     1,
			PageSize: watchLimit,
			Sort:     core.SortField(watchSort),
			Order:    core.SortDirection(watchOrder),
			Search:   watchSearch,
		}, client.WithRestorer(api.Restore), client.WithLogger(logger))

		// Subscribe before the snapshot fetch so no event can fall between
		// the two; the reconciler dedupes whatever overlaps.
		stream, err := httpapi.DialEvents(ctx, watchServer, logger)
		if err != nil {
			return err
		}

		tag := view.BeginFetch()
		page, err := api.List(ctx, tag.Query())
		if err != nil {
			return err
		}
		view.ApplyPage(tag, page)
		render(view)

		exit := make(chan os.Signal, 1)
		signal.Notify(exit, syscall.SIGINT, syscall.SIGTERM)

		for {
			select {
			case e, ok := <-stream.Events():
				if !ok {
					return fmt.Errorf("push channel closed")
				}
				view.ApplyEvent(e)
				render(view)
			case sig := <-exit:
				logger.Info("signal caught", "sig", sig)
				return nil
			}
		}
	},
}

func render(view *client.View) {
	items := view.Items()
	fmt.Printf("\n%d review(s) on page %d of %d\n", len(items), view.Params().Page, view.TotalPages())

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tCREATED")
	for _, r := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.ID, r.Title, r.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	}
	_ = w.Flush()
}

func init() {
	watchCmd.Flags().StringVar(&watchServer, "server", "http://localhost:6060", "Base URL of the review server")
	watchCmd.Flags().IntVar(&watchLimit, "limit", 10, "Reviews per page")
	watchCmd.Flags().StringVar(&watchSort, "sort", string(core.SortByCreatedAt), "Sort field (createdAt or title)")
	watchCmd.Flags().StringVar(&watchOrder, "order", string(core.Descending), "Sort order (asc or desc)")
	watchCmd.Flags().StringVar(&watchSearch, "search", "", "Filter titles by substring")
	rootCmd.AddCommand(watchCmd)
}
