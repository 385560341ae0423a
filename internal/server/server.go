// Package server はリポジトリ読み取り操作を公開する HTTP JSON API です。
// ビジネスロジックは workspace / compile に委譲し、ここではリクエストの
// 変換とエラーのHTTPステータスへの写像のみ行います。
package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	"github.com/moor-sun/git-mcp-server/internal/compile"
	"github.com/moor-sun/git-mcp-server/internal/workspace"
)

// Config is the HTTP server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g. ":8000")
	ListenAddr string
}

// Server is the HTTP API server in front of the repository accessors.
type Server struct {
	config Config
	reader workspace.FileReader
	lister workspace.FileLister
	writer workspace.FileWriter
	differ workspace.DiffProvider
	runner *compile.Runner
	logger *zap.Logger
	app    *fiber.App
}

// New creates the HTTP server and registers all routes.
func New(
	config Config,
	reader workspace.FileReader,
	lister workspace.FileLister,
	writer workspace.FileWriter,
	differ workspace.DiffProvider,
	runner *compile.Runner,
	logger *zap.Logger,
) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	// ローカル開発ツール用途のため全オリジンを許可する。
	// 認証は行わない（スコープ外）。
	app.Use(cors.New())

	s := &Server{
		config: config,
		reader: reader,
		lister: lister,
		writer: writer,
		differ: differ,
		runner: runner,
		logger: logger,
		app:    app,
	}

	app.Get("/ping", s.handlePing)

	git := app.Group("/git-mcp")
	git.Post("/file", s.handleFile)
	git.Post("/list", s.handleList)
	git.Post("/pr-diff", s.handlePRDiff)
	git.Post("/compile", s.handleCompile)
	git.Post("/write-file", s.handleWriteFile)

	return s
}

// Run starts the server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting git-mcp HTTP server",
		zap.String("listen", s.config.ListenAddr),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
