package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vietddude/arbstats/internal/core/config"
	"github.com/vietddude/arbstats/internal/partition"
	"github.com/vietddude/arbstats/internal/service"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current block height and the registered bots",
	Run:   runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	blobs, closer, err := service.OpenBlobStore(ctx, cfg.Storage)
	if err != nil {
		slog.Error("Failed to open storage", "error", err)
		os.Exit(1)
	}
	if closer != nil {
		defer func() {
			_ = closer.Close()
		}()
	}

	manager := partition.NewManager(blobs, partition.Config{
		Variant:  partition.Variant(cfg.Storage.Variant),
		PageSize: cfg.Storage.PageSize,
	})

	height, err := manager.Index().Get(ctx)
	if err != nil {
		slog.Error("Failed to read block height", "error", err)
		os.Exit(1)
	}
	bots, err := manager.Registry().List(ctx)
	if err != nil {
		slog.Error("Failed to list bots", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Last block height: %d\n", height)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "BOT")
	for _, id := range bots {
		_, _ = fmt.Fprintf(w, "%s\n", id)
	}
	_ = w.Flush()
}
