package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mj1618/layout-inspector/internal/descriptor"
	"github.com/mj1618/layout-inspector/internal/inspector"
	"github.com/mj1618/layout-inspector/internal/model"
	"github.com/mj1618/layout-inspector/internal/platform"
	"github.com/mj1618/layout-inspector/internal/walker"
)

// session is a running host with an inspector attached to its roots.
type session struct {
	provider  *platform.Provider
	inspector *inspector.Inspector
	stop      func()
}

// sessionOptions override config values for one command.
type sessionOptions struct {
	maxDepth int
	animate  bool
}

// openSession starts the linked host and adds its roots to a new
// inspector. Close must be called when done.
func openSession(ctx context.Context, opts sessionOptions) (*session, error) {
	provider, err := platform.NewProvider(platform.Options{
		Animate:  opts.animate || cfg.Host.Animate,
		Interval: cfg.Host.Interval(),
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}

	wcfg := walker.Config{
		MaxDepth: cfg.Inspector.MaxDepth,
		MaxNodes: cfg.Inspector.MaxNodes,
		Boundary: descriptor.TagBoundary(descriptor.Default(), cfg.Inspector.BoundaryTags...),
	}
	if opts.maxDepth > 0 {
		wcfg.MaxDepth = opts.maxDepth
	}
	in := inspector.New(
		inspector.WithRegistry(descriptor.Default()),
		inspector.WithLogger(logger),
		inspector.WithWalkerConfig(wcfg),
		inspector.WithRetireAfter(cfg.Inspector.RetireAfter),
	)
	for _, r := range provider.Roots {
		if err := in.AddRoot(r.Name, r.Node); err != nil {
			return nil, fmt.Errorf("add root %q: %w", r.Name, err)
		}
	}
	logger.Debug("session opened", "host", provider.Host, "roots", len(provider.Roots))
	return &session{provider: provider, inspector: in, stop: provider.Start(ctx)}, nil
}

func (s *session) Close() {
	s.stop()
}

// resolveNode finds a node in s by id or, failing that, by instance name.
func resolveNode(snapshot *model.Snapshot, ref string) (*model.Node, error) {
	if id, err := strconv.ParseUint(ref, 10, 64); err == nil {
		if n := snapshot.Node(model.NodeID(id)); n != nil {
			return n, nil
		}
		return nil, fmt.Errorf("node %s: %w", ref, model.ErrStaleReference)
	}
	for i := range snapshot.Nodes {
		if snapshot.Nodes[i].Name == ref {
			return &snapshot.Nodes[i], nil
		}
	}
	return nil, fmt.Errorf("no node named %q", ref)
}
