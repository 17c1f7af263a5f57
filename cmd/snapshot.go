package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mj1618/layout-inspector/internal/model"
	"github.com/mj1618/layout-inspector/internal/output"
	"github.com/spf13/cobra"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Print a snapshot of a root's component tree",
	Long: `Walk one root of the host and print its component tree with stable node ids,
frames and attributes.

Use --flat for a list with path breadcrumbs, optionally filtered by --type and
--text. Use --save to also write a compressed copy for 'diff'.

Examples:
  layout-inspector snapshot
  layout-inspector snapshot --format tree
  layout-inspector snapshot --flat --type Button,Text --text save
  layout-inspector snapshot --save ./snapshots --max-age 24h`,
	RunE: runSnapshot,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.Flags().String("root", "", "Root to walk (default: first root)")
	snapshotCmd.Flags().Bool("flat", false, "Output a flat list with path breadcrumbs")
	snapshotCmd.Flags().String("type", "", "Comma-separated node types to include (requires --flat)")
	snapshotCmd.Flags().String("text", "", "Only nodes whose type, name or text contains this (requires --flat)")
	snapshotCmd.Flags().Int("depth", 0, "Max depth to walk (0 = config value)")
	snapshotCmd.Flags().String("save", "", "Also save the snapshot to this directory")
	snapshotCmd.Flags().Duration("max-age", 0, "With --save, remove saved snapshots older than this")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	root, _ := cmd.Flags().GetString("root")
	flat, _ := cmd.Flags().GetBool("flat")
	typeFilter, _ := cmd.Flags().GetString("type")
	text, _ := cmd.Flags().GetString("text")
	depth, _ := cmd.Flags().GetInt("depth")
	saveDir, _ := cmd.Flags().GetString("save")
	maxAge, _ := cmd.Flags().GetDuration("max-age")

	if !flat && (typeFilter != "" || text != "") {
		return fmt.Errorf("--type and --text require --flat")
	}

	name, snapshot, err := takeSnapshot(cmd, root, depth)
	if err != nil {
		return err
	}

	if saveDir != "" {
		if maxAge > 0 {
			if n := model.CleanSnapshots(saveDir, name, maxAge); n > 0 {
				logger.Info("removed old snapshots", "dir", saveDir, "count", n)
			}
		}
		path, err := model.SaveSnapshot(saveDir, name, snapshot)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "saved", path)
	}

	if flat {
		nodes := model.FilterNodes(model.Flatten(snapshot), model.ParseTypes(typeFilter), nil)
		nodes = model.FilterByText(nodes, text)
		return output.Print(output.FlatResult{Root: name, TS: snapshot.TakenAt, Nodes: nodes})
	}
	return output.Print(output.NewSnapshotResult(name, snapshot))
}

// takeSnapshot walks root in a one-off session.
func takeSnapshot(cmd *cobra.Command, root string, depth int) (string, *model.Snapshot, error) {
	sess, err := openSession(cmd.Context(), sessionOptions{maxDepth: depth})
	if err != nil {
		return "", nil, err
	}
	defer sess.Close()
	return sess.snapshot(cmd.Context(), root)
}

// snapshot lets the host finish pending writes and walks root.
func (s *session) snapshot(ctx context.Context, root string) (string, *model.Snapshot, error) {
	if err := s.provider.Wait(ctx); err != nil {
		return "", nil, err
	}
	start := time.Now()
	name, snapshot, err := s.inspector.GetSnapshot(ctx, root)
	if err != nil {
		return "", nil, err
	}
	logger.Debug("snapshot taken", "root", name, "nodes", snapshot.Len(), "took", time.Since(start))
	return name, snapshot, nil
}
