package cmd

import (
	"fmt"

	"github.com/mj1618/layout-inspector/internal/model"
	"github.com/mj1618/layout-inspector/internal/output"
	"github.com/spf13/cobra"
)

var setCmd = &cobra.Command{
	Use:   "set <attribute> <value>",
	Short: "Set one attribute of a live node",
	Long: `Write one attribute of a node and print the mutation result followed by the
node as it looks once the host has laid out again.

The node is picked by --id (from a snapshot) or --node (its instance name).
The value is read as JSON when it parses and fits the attribute, otherwise
as a plain string, so 16, true, "#ff0000" and '{"top":4}' all work, and a
text attribute can still be set to 42.

Examples:
  layout-inspector set --node card padding 16
  layout-inspector set --id 5 label "Save all"
  layout-inspector set --node card insets '{"top":4,"left":4}'`,
	Args: cobra.ExactArgs(2),
	RunE: runSet,
}

func init() {
	rootCmd.AddCommand(setCmd)
	setCmd.Flags().String("root", "", "Root the node is under (default: first root)")
	setCmd.Flags().Int("id", 0, "Node id")
	setCmd.Flags().String("node", "", "Node instance name")
}

// SetResult is the output of the set command.
type SetResult struct {
	Result model.MutationResult `yaml:"result"         json:"result"`
	Node   *model.Node          `yaml:"node,omitempty" json:"node,omitempty"`
}

func runSet(cmd *cobra.Command, args []string) error {
	root, _ := cmd.Flags().GetString("root")
	id, _ := cmd.Flags().GetInt("id")
	nodeName, _ := cmd.Flags().GetString("node")

	if (id == 0) == (nodeName == "") {
		return fmt.Errorf("exactly one of --id or --node is required")
	}
	ref := nodeName
	if id != 0 {
		ref = fmt.Sprint(id)
	}

	sess, err := openSession(cmd.Context(), sessionOptions{})
	if err != nil {
		return err
	}
	defer sess.Close()

	// A first walk assigns the ids the user refers to.
	_, before, err := sess.snapshot(cmd.Context(), root)
	if err != nil {
		return err
	}
	target, err := resolveNode(before, ref)
	if err != nil {
		return err
	}

	res := SetResult{Result: sess.inspector.SetAttributeText(cmd.Context(), target.ID, args[0], args[1])}
	logger.Debug("set attribute", "id", target.ID, "name", args[0], "result", res.Result.String())
	if res.Result.Applied {
		_, after, err := sess.snapshot(cmd.Context(), root)
		if err != nil {
			return err
		}
		res.Node = after.Node(target.ID)
	}
	if err := output.Print(res); err != nil {
		return err
	}
	if !res.Result.Applied {
		return fmt.Errorf("set %s: %s", args[0], res.Result.Error)
	}
	return nil
}
