package cmd

import (
	"github.com/mj1618/layout-inspector/internal/model"
	"github.com/mj1618/layout-inspector/internal/output"
	"github.com/spf13/cobra"
)

var diffCmd = &cobra.Command{
	Use:   "diff <old> [new]",
	Short: "Compare two saved snapshots",
	Long: `Compare a snapshot saved with 'snapshot --save' against another saved
snapshot, or against a live snapshot of the same root when [new] is omitted.

Nodes are matched by id. Because the demo host assigns ids in walk order,
a live walk only lines up with a saved one taken from the same tree shape.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runDiff,
}

func init() {
	rootCmd.AddCommand(diffCmd)
	diffCmd.Flags().String("root", "", "Root for the live side (default: first root)")
}

// DiffResult is the output of the diff command.
type DiffResult struct {
	From    int64          `yaml:"from"    json:"from"`
	To      int64          `yaml:"to"      json:"to"`
	Changes []model.Change `yaml:"changes" json:"changes"`
}

func runDiff(cmd *cobra.Command, args []string) error {
	prev, err := model.LoadSnapshot(args[0])
	if err != nil {
		return err
	}

	var curr *model.Snapshot
	if len(args) == 2 {
		curr, err = model.LoadSnapshot(args[1])
	} else {
		root, _ := cmd.Flags().GetString("root")
		_, curr, err = takeSnapshot(cmd, root, 0)
	}
	if err != nil {
		return err
	}

	res := DiffResult{From: prev.TakenAt, To: curr.TakenAt, Changes: []model.Change{}}
	res.Changes = append(res.Changes, model.DiffSnapshots(prev, curr)...)
	return output.Print(res)
}
