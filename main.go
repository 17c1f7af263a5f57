package main

import (
	"github.com/mj1618/layout-inspector/cmd"

	// Links the demo widget host.
	_ "github.com/mj1618/layout-inspector/internal/widget/inspect"
)

func main() {
	cmd.Execute()
}
