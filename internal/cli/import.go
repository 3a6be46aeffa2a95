package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/boxscores/internal/ingest"
	"github.com/pfrederiksen/boxscores/internal/locator"
	"github.com/pfrederiksen/boxscores/internal/storage"
	"github.com/pfrederiksen/boxscores/internal/task"
)

// progressInterval is how often import polls the running task
var progressInterval = 250 * time.Millisecond

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import every box score URL listed in a file",
		Long: `Import every box score URL found in a file (one per line, "-" reads stdin).
URLs are processed in order with a pause between them. Exits 1 if any URL failed.`,
		Args: cobra.NoArgs,
		RunE: runImport,
	}
	cmd.Flags().StringVar(&flagFile, "file", "", "File with box score URLs, or - for stdin (required)")
	cmd.Flags().StringVar(&flagUser, "user", "", "Owner of the imported games (required)")
	cmd.Flags().StringVar(&flagPace, "pace", "", "Pause between URLs, e.g. 2s (default from PACE_DELAY)")
	cmd.MarkFlagRequired("file")
	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}
	user, err := requireUser()
	if err != nil {
		return err
	}
	pace := cfg.PaceDelay
	if flagPace != "" {
		pace, err = time.ParseDuration(flagPace)
		if err != nil || pace < 0 {
			return fmt.Errorf("invalid pace: %s", flagPace)
		}
	}

	text, err := readInput(cmd.InOrStdin(), flagFile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	defer store.Close()

	pipeline := ingest.New(newFetcher(cfg), storage.NewGames(store))
	job, err := pipeline.ImportJob(user, text)
	if err != nil {
		if errors.Is(err, locator.ErrNoLocators) {
			return fmt.Errorf("no box score URLs found in %s", flagFile)
		}
		return err
	}

	registry := task.NewRegistry(pace)
	defer registry.Close()
	id, err := registry.Submit(job)
	if err != nil {
		return fmt.Errorf("starting import: %w", err)
	}

	snap, err := watchTask(ctx, registry, id, cmd.ErrOrStderr())
	if err != nil {
		// interrupted: cancel the runner so the rest is recorded as failed
		registry.Close()
		snap, _ = registry.Get(id)
	}

	if err := WriteTask(cmd.OutOrStdout(), snap, format); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	if snap.Status == task.StatusFailed {
		return fmt.Errorf("import stopped after %d of %d items", snap.CompletedItems+snap.FailedItems, snap.TotalItems)
	}
	if snap.FailedItems > 0 {
		return fmt.Errorf("%w: %d of %d", ErrItemsFailed, snap.FailedItems, snap.TotalItems)
	}
	return nil
}

func readInput(stdin io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if strings.TrimSpace(path) == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// Polls id and prints each finished item to w until the task is terminal or ctx ends.
func watchTask(ctx context.Context, registry *task.Registry, id string, w io.Writer) (task.Snapshot, error) {
	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()

	printed := 0
	for {
		snap, ok := registry.Get(id)
		if !ok {
			return task.Snapshot{}, task.ErrNotFound
		}
		for ; printed < len(snap.Results); printed++ {
			writeProgress(w, snap, snap.Results[printed], printed+1)
		}
		if snap.Status.Terminal() {
			return snap, nil
		}

		select {
		case <-ctx.Done():
			return snap, ctx.Err()
		case <-ticker.C:
		}
	}
}
