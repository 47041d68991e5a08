// Command mapsmcp serves Google Maps and Open-Meteo tools to MCP clients
// over stdio.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/NERVsystems/mapsmcp/pkg/config"
	"github.com/NERVsystems/mapsmcp/pkg/server"
	"github.com/NERVsystems/mapsmcp/pkg/telemetry"
	"github.com/NERVsystems/mapsmcp/pkg/tools"
	"github.com/NERVsystems/mapsmcp/pkg/version"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sanity-io/litter"
	"github.com/spf13/cobra"
)

// clientServerName is the key written under mcpServers in client configs.
const clientServerName = "GoogleMaps"

var (
	cfgFile        string
	debug          bool
	generateConfig string
	mergeOnly      bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "mapsmcp",
		Short:         "Google Maps MCP server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if generateConfig != "" {
				logger := newLogger(cmd.ErrOrStderr(), "info")
				if err := generateClientConfig(generateConfig, mergeOnly); err != nil {
					logger.Error("failed to generate config", "error", err)
					return err
				}
				logger.Info("successfully generated Claude Desktop Client config", "path", generateConfig)
				return nil
			}
			return runServe(cmd)
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $"+config.EnvConfigPath+")")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	root.Flags().StringVar(&generateConfig, "generate-config", "", "Generate a Claude Desktop Client config file at the specified path")
	root.Flags().BoolVar(&mergeOnly, "merge-only", false, "With --generate-config, only update an existing config file")

	root.AddCommand(serveCmd())
	root.AddCommand(toolsCmd())
	root.AddCommand(callCmd())
	root.AddCommand(versionCmd())
	return root
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve MCP over stdio (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}
}

func toolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "Print the tool schemas as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(cmd.ErrOrStderr(), "warn")
			registry := tools.NewRegistry(tools.NewService("", tools.WithLogger(logger)), logger)

			var schemas []any
			for _, def := range registry.GetToolDefinitions() {
				schemas = append(schemas, def.Tool)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(schemas)
		},
	}
}

func callCmd() *cobra.Command {
	var rawArgs string
	var dump bool

	cmd := &cobra.Command{
		Use:   "call <tool>",
		Short: "Invoke one tool and print its result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			var toolArgs map[string]any
			if strings.TrimSpace(rawArgs) != "" {
				if err := json.Unmarshal([]byte(rawArgs), &toolArgs); err != nil {
					return fmt.Errorf("parse --args: %w", err)
				}
			}

			registry := tools.NewRegistry(tools.NewServiceFromConfig(cfg, logger), logger)
			res := registry.Dispatch(cmd.Context(), args[0], toolArgs)

			out := cmd.OutOrStdout()
			if dump {
				fmt.Fprintln(out, litter.Sdump(res))
			} else {
				for _, c := range res.Content {
					if tc, ok := mcp.AsTextContent(c); ok {
						fmt.Fprintln(out, tc.Text)
					}
				}
			}
			if res.IsError {
				return errors.New("tool call failed")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&rawArgs, "args", "", "tool arguments as a JSON object")
	cmd.Flags().BoolVar(&dump, "dump", false, "pretty-print the full result structure")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}

func runServe(cmd *cobra.Command) error {
	cfg, logger, err := loadConfig(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	shutdown, err := telemetry.Setup(cmd.Context(), cfg.Tracing, logger)
	if err != nil {
		logger.Error("failed to set up tracing", "error", err)
		return err
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Warn("tracer shutdown failed", "error", err)
		}
	}()

	logger.Info("starting Google Maps MCP server",
		"version", version.BuildVersion,
		"download_dir", cfg.DownloadDir)

	srv, err := server.NewServer(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", "error", err)
		return err
	}
	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		return err
	}
	return nil
}

// loadConfig loads and validates configuration and installs the default
// logger. A missing API key is fatal.
func loadConfig(stderr io.Writer) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		newLogger(stderr, "info").Error("failed to load config", "error", err)
		return nil, nil, err
	}
	logger := newLogger(stderr, cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		if errors.Is(err, config.ErrMissingAPIKey) {
			logger.Error("missing API key", "env", config.EnvAPIKey)
		}
		return nil, nil, err
	}
	return cfg, logger, nil
}

// newLogger builds the text logger on w and makes it the default. --debug
// overrides the configured level.
func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	if debug {
		lvl = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return logger
}

// generateClientConfig creates or updates a Claude Desktop Client config
// file. With mergeOnly the file must already exist.
func generateClientConfig(outputPath string, mergeOnly bool) error {
	logger := slog.Default()

	if outputPath == "" {
		return errors.New("config path is empty")
	}
	if filepath.Ext(outputPath) != ".json" {
		return fmt.Errorf("config path %q must have a .json extension", outputPath)
	}
	for _, part := range strings.Split(filepath.ToSlash(outputPath), "/") {
		if part == ".." {
			return fmt.Errorf("config path %q must not contain '..'", outputPath)
		}
	}

	execPath, err := os.Executable()
	if err != nil {
		execPath = os.Args[0]
	}
	absExecPath, err := filepath.Abs(execPath)
	if err != nil {
		absExecPath = execPath
	}

	serverConfig := map[string]any{
		"command": absExecPath,
		"args":    []string{},
	}
	if key := os.Getenv(config.EnvAPIKey); key != "" {
		serverConfig["env"] = map[string]string{config.EnvAPIKey: key}
	}

	var clientConfig map[string]any
	data, err := os.ReadFile(outputPath)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &clientConfig); err != nil {
			if mergeOnly {
				return fmt.Errorf("existing config is not valid JSON: %w", err)
			}
			logger.Warn("existing config is not valid JSON, will create new", "error", err)
			clientConfig = nil
		}
	case errors.Is(err, os.ErrNotExist):
		if mergeOnly {
			return fmt.Errorf("config %q does not exist", outputPath)
		}
	default:
		return fmt.Errorf("failed to read existing config: %w", err)
	}
	if clientConfig == nil {
		clientConfig = make(map[string]any)
	}

	mcpServers, ok := clientConfig["mcpServers"].(map[string]any)
	if !ok {
		mcpServers = make(map[string]any)
		clientConfig["mcpServers"] = mcpServers
	}
	mcpServers[clientServerName] = serverConfig

	out, err := json.MarshalIndent(clientConfig, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	out = append(out, '\n')

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	// The file may carry the API key.
	if err := os.WriteFile(outputPath, out, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return os.Chmod(outputPath, 0600)
}
