package cmd

import (
	"github.com/mj1618/layout-inspector/internal/descriptor"
	"github.com/mj1618/layout-inspector/internal/output"
	"github.com/spf13/cobra"
)

var descriptorsCmd = &cobra.Command{
	Use:   "descriptors",
	Short: "List the registered node descriptors",
	Long:  `List every host type with a registered descriptor, its family and its declared parent.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return output.Print(descriptor.Default().Entries())
	},
}

func init() {
	rootCmd.AddCommand(descriptorsCmd)
}
