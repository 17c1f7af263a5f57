package server

import (
	"context"
	"testing"
	"time"

	"github.com/mj1618/layout-inspector/internal/inspector"
	"github.com/mj1618/layout-inspector/internal/model"
	"github.com/mj1618/layout-inspector/internal/platform"
	"github.com/mj1618/layout-inspector/internal/widget/inspect"
	"github.com/stretchr/testify/require"
)

// demo starts the demo widget host and a server over it.
func demo(t *testing.T, ttl time.Duration) (*Server, *inspector.Inspector) {
	t.Helper()
	p, err := inspect.NewDemoProvider(platform.Options{})
	require.NoError(t, err)
	t.Cleanup(p.Start(context.Background()))

	in := inspector.New()
	for _, r := range p.Roots {
		require.NoError(t, in.AddRoot(r.Name, r.Node))
	}
	return New(in, Config{Transport: "ws", CacheTTL: ttl}, WithProvider(p)), in
}

func nodeNamed(t *testing.T, s *model.Snapshot, name string) *model.Node {
	t.Helper()
	for i := range s.Nodes {
		if s.Nodes[i].Name == name {
			return &s.Nodes[i]
		}
	}
	t.Fatalf("no node named %q", name)
	return nil
}
