package cmd

import (
	"fmt"

	"github.com/mj1618/layout-inspector/internal/config"
	"github.com/mj1618/layout-inspector/internal/server"
	"github.com/mj1618/layout-inspector/internal/version"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the inspector to remote consoles",
	Long: `Start the host and expose its component tree to remote consoles.

Supported transports:
  stdio             MCP over standard I/O (default)
  streamable-http   MCP over streamable HTTP
  ws                JSON request/response frames over a WebSocket at /ws

Flags override the values from --config.

Examples:
  layout-inspector serve
  layout-inspector serve --transport ws --port 9229
  layout-inspector serve --transport streamable-http --cache-ttl 0 --animate`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", "stdio", "Transport: stdio, streamable-http, ws")
	serveCmd.Flags().Int("port", 8080, "HTTP port for the streamable-http and ws transports")
	serveCmd.Flags().Int("cache-ttl", 250, "Snapshot cache TTL in milliseconds (0 to disable)")
	serveCmd.Flags().Bool("animate", false, "Keep the demo host's tree changing")
}

func runServe(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("transport") {
		cfg.Server.Transport, _ = cmd.Flags().GetString("transport")
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port, _ = cmd.Flags().GetInt("port")
	}
	if cmd.Flags().Changed("cache-ttl") {
		cfg.Server.CacheTTLMs, _ = cmd.Flags().GetInt("cache-ttl")
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	config.Normalize(cfg)
	animate, _ := cmd.Flags().GetBool("animate")

	sess, err := openSession(cmd.Context(), sessionOptions{animate: animate})
	if err != nil {
		return err
	}
	defer sess.Close()

	scfg := server.Config{
		Transport: cfg.Server.Transport,
		Port:      cfg.Server.Port,
		CacheTTL:  cfg.Server.CacheTTL(),
	}
	srv := server.New(sess.inspector, scfg,
		server.WithProvider(sess.provider),
		server.WithLogger(logger),
		server.WithVersion(version.Version),
	)
	if err := srv.Serve(cmd.Context(), scfg); err != nil {
		return fmt.Errorf("serve %s: %w", scfg.Transport, err)
	}
	return nil
}
