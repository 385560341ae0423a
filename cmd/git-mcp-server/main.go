package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/moor-sun/git-mcp-server/internal/compile"
	"github.com/moor-sun/git-mcp-server/internal/config"
	"github.com/moor-sun/git-mcp-server/internal/logging"
	"github.com/moor-sun/git-mcp-server/internal/mcp"
	"github.com/moor-sun/git-mcp-server/internal/server"
	"github.com/moor-sun/git-mcp-server/internal/workspace"
)

type commander struct {
	configPath string
	repoRoot   string
	listen     string
	stdio      bool
	debug      bool

	logger *zap.Logger
}

const longDesc = `git-mcp-server exposes read operations on a local Git repository
to automation clients.

Surfaces:
  git-mcp-server                 Serve the HTTP JSON API (POST /git-mcp/...)
  git-mcp-server --stdio         Serve MCP tools over stdio for agent clients

The repository root must be configured explicitly via --repo-root,
` + config.RepoRootEnv + `, or repo_root in the config file.`

func newRootCmd() *cobra.Command {
	cmder := &commander{}

	cmd := &cobra.Command{
		Use:   "git-mcp-server",
		Short: "Serve local Git repository files to automation clients",
		Long:  longDesc,
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmder.run()
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVarP(&cmder.configPath, "config", "c", "", "Path to YAML config file")
	cmd.Flags().StringVarP(&cmder.repoRoot, "repo-root", "r", "", "Repository root directory (overrides config)")
	cmd.Flags().StringVarP(&cmder.listen, "listen", "l", "", "HTTP listen address (overrides config)")
	cmd.Flags().BoolVar(&cmder.stdio, "stdio", false, "Serve MCP tools over stdio instead of HTTP")
	cmd.Flags().BoolVarP(&cmder.debug, "debug", "d", false, "Enable debug logging")

	return cmd
}

func (c *commander) run() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}

	// フラグは設定ファイル・環境変数より優先
	if c.repoRoot != "" {
		cfg.RepoRoot = c.repoRoot
	}
	if c.listen != "" {
		cfg.ListenAddr = c.listen
	}
	if c.debug {
		cfg.Debug = true
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	c.logger = logging.New(cfg.Debug)
	defer c.logger.Sync()

	// --- DI: リポジトリルートとアクセサの組み立て ---
	root, err := workspace.NewRoot(cfg.RepoRoot)
	if err != nil {
		return err
	}
	reader := workspace.NewFSReader(root, cfg.MaxFileSize)
	writer := workspace.NewFSWriter(root)
	differ := workspace.NewGitDiff(root)
	runner := compile.NewRunner(root, cfg.Compile.DefaultTimeoutSeconds, cfg.Compile.MaxTimeoutSeconds, c.logger)

	c.logger.Info("using repository root", zap.String("repo_root", root.Path()))

	if c.stdio {
		handler := mcp.NewToolHandler(reader, reader, differ)
		s := mcp.New(handler)
		c.logger.Info("serving MCP tools over stdio")
		return mcpserver.ServeStdio(s)
	}

	httpServer := server.New(
		server.Config{ListenAddr: cfg.ListenAddr},
		reader, reader, writer, differ, runner,
		c.logger,
	)

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.Run(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		return httpServer.Shutdown()
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
