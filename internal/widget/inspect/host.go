package inspect

import (
	"context"

	"github.com/mj1618/layout-inspector/internal/platform"
	"github.com/mj1618/layout-inspector/internal/widget"
)

func init() {
	platform.NewProviderFunc = NewDemoProvider
}

// NewDemoProvider builds the demo widget tree with its update loop.
func NewDemoProvider(opts platform.Options) (*platform.Provider, error) {
	tree := widget.Demo()
	loopOpts := []widget.LoopOption{widget.WithLoopLogger(opts.Logger)}
	if opts.Animate {
		loopOpts = append(loopOpts, widget.WithInterval(opts.Interval), widget.WithTick(widget.AnimateDemo()))
	}
	loop := widget.NewLoop(tree, loopOpts...)
	return &platform.Provider{
		Host:  "widget-demo",
		Roots: []platform.Root{{Name: "main", Node: tree.Root()}},
		Run: func(ctx context.Context) error {
			return loop.Run(ctx)
		},
		Sync: loop.Sync,
	}, nil
}
