package cmd

import (
	"encoding/json"
	"os"
	"time"

	"github.com/mj1618/layout-inspector/internal/model"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch a root for changes and stream diffs as JSONL",
	Long: `Repeatedly snapshot one root and emit the changes (added, removed and
changed nodes) as JSONL to stdout.

The first line is a snapshot event with the node count; each later line is
one change. Nothing is written while the tree is stable.

Output is always JSONL regardless of the --format flag.

Use Ctrl+C or --duration to stop watching.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().String("root", "", "Root to watch (default: first root)")
	watchCmd.Flags().Int("interval", 1000, "Polling interval in milliseconds")
	watchCmd.Flags().Int("duration", 0, "Max seconds to watch (0 = until Ctrl+C)")
	watchCmd.Flags().Bool("ignore-bounds", false, "Ignore frame changes")
	watchCmd.Flags().Bool("animate", true, "Keep the demo host's tree changing")
}

// watchEvent is a non-change line of the watch stream.
type watchEvent struct {
	Type    string          `json:"type"`
	TS      int64           `json:"ts"`
	Root    string          `json:"root,omitempty"`
	Count   int             `json:"count,omitempty"`
	Events  int             `json:"events,omitempty"`
	Elapsed string          `json:"elapsed,omitempty"`
	Error   string          `json:"error,omitempty"`
	Kind    model.ErrorKind `json:"kind,omitempty"`
}

func runWatch(cmd *cobra.Command, args []string) error {
	root, _ := cmd.Flags().GetString("root")
	intervalMs, _ := cmd.Flags().GetInt("interval")
	durationSec, _ := cmd.Flags().GetInt("duration")
	ignoreBounds, _ := cmd.Flags().GetBool("ignore-bounds")
	animate, _ := cmd.Flags().GetBool("animate")

	ctx := cmd.Context()
	sess, err := openSession(ctx, sessionOptions{animate: animate})
	if err != nil {
		return err
	}
	defer sess.Close()

	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)

	var deadline <-chan time.Time
	if durationSec > 0 {
		deadline = time.After(time.Duration(durationSec) * time.Second)
	}
	ticker := time.NewTicker(time.Duration(max(intervalMs, 1)) * time.Millisecond)
	defer ticker.Stop()
	start := time.Now()

	name, prev, err := sess.snapshot(cmd.Context(), root)
	if err != nil {
		return err
	}
	enc.Encode(watchEvent{Type: "snapshot", TS: time.Now().Unix(), Root: name, Count: prev.Len()})

	eventCount := 0
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-deadline:
			break loop
		case <-ticker.C:
		}

		_, curr, err := sess.snapshot(ctx, name)
		if err != nil {
			if ctx.Err() != nil {
				break loop
			}
			enc.Encode(watchEvent{Type: "error", TS: time.Now().Unix(), Error: err.Error(), Kind: model.KindOf(err)})
			continue
		}

		for _, change := range model.DiffSnapshots(prev, curr) {
			if change.Type == model.ChangeChanged {
				if ignoreBounds {
					delete(change.Changes, "bounds")
				}
				if len(change.Changes) == 0 {
					continue
				}
			}
			enc.Encode(change)
			eventCount++
		}
		prev = curr
	}

	return enc.Encode(watchEvent{
		Type:    "done",
		TS:      time.Now().Unix(),
		Events:  eventCount,
		Elapsed: time.Since(start).Round(time.Millisecond).String(),
	})
}
