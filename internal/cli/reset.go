package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vietddude/arbstats/internal/core/config"
	"github.com/vietddude/arbstats/internal/partition"
	"github.com/vietddude/arbstats/internal/service"
)

var resetAll bool

var resetCmd = &cobra.Command{
	Use:   "reset [bot_id]",
	Short: "Wipe one bot's partition, or all state with --all",
	Args:  cobra.MaximumNArgs(1),
	Run:   runReset,
}

func init() {
	resetCmd.Flags().BoolVar(&resetAll, "all", false, "wipe the registry, block height and every partition")
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) {
	if !resetAll && len(args) == 0 {
		fmt.Println("Provide a bot id or pass --all")
		os.Exit(1)
	}

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

	if resetAll {
		if err := manager.ResetAll(ctx); err != nil {
			slog.Error("Failed to reset", "error", err)
			os.Exit(1)
		}
		fmt.Println("Successfully wiped all state")
		return
	}

	botID := args[0]
	if err := manager.Bot(botID).Reset(ctx); err != nil {
		slog.Error("Failed to reset bot", "bot", botID, "error", err)
		os.Exit(1)
	}
	fmt.Printf("Successfully wiped partition for %s\n", botID)
}
