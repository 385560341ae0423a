package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/moor-sun/git-mcp-server/internal/compile"
	"github.com/moor-sun/git-mcp-server/internal/workspace"
)

// ErrorResponse is the uniform error body for all endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
}

// FileRequest asks for the content of a single file.
// Repo は将来の複数ルート対応のために受け取るが、現状は参照されない。
type FileRequest struct {
	Repo string `json:"repo"`
	Path string `json:"path"`
}

// FileResponse carries file content as UTF-8 text.
type FileResponse struct {
	Content string `json:"content"`
}

// ListRequest asks for a recursive file listing beneath BasePath.
type ListRequest struct {
	Repo     string `json:"repo"`
	BasePath string `json:"base_path"`
	Ext      string `json:"ext"`
}

// ListResponse carries root-relative file paths. Empty is a valid result.
type ListResponse struct {
	Files []string `json:"files"`
}

// PRDiffRequest asks for the diff of a pull request.
type PRDiffRequest struct {
	Repo     string `json:"repo"`
	PRNumber int    `json:"pr_number"`
}

// CompileRequest asks for a build of a project inside the repository.
type CompileRequest struct {
	Repo           string   `json:"repo"`
	Tool           string   `json:"tool"`
	Goal           string   `json:"goal"`
	ProjectPath    string   `json:"project_path"`
	TimeoutSeconds int      `json:"timeout_seconds"`
	ExtraArgs      []string `json:"extra_args"`
}

// WriteFileRequest asks for a file write inside the repository.
type WriteFileRequest struct {
	Repo      string `json:"repo"`
	Path      string `json:"path"`
	Content   string `json:"content"`
	Overwrite *bool  `json:"overwrite"`
}

// WriteFileResponse reports the root-relative path that was written.
type WriteFileResponse struct {
	OK   bool   `json:"ok"`
	Path string `json:"path"`
}

func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

func (s *Server) handleFile(c *fiber.Ctx) error {
	var req FileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	content, err := s.reader.ReadFile(req.Path)
	if err != nil {
		return s.fail(c, "file", err)
	}
	return c.JSON(FileResponse{Content: content})
}

func (s *Server) handleList(c *fiber.Ctx) error {
	var req ListRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	files, err := s.lister.ListFiles(req.BasePath, req.Ext)
	if err != nil {
		return s.fail(c, "list", err)
	}
	return c.JSON(ListResponse{Files: files})
}

func (s *Server) handlePRDiff(c *fiber.Ctx) error {
	var req PRDiffRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	// 常に未実装。暗黙の空成功は返さない。
	if _, err := s.differ.PRDiff(req.Repo, req.PRNumber); err != nil {
		return s.fail(c, "pr-diff", err)
	}
	return c.Status(fiber.StatusNotImplemented).JSON(ErrorResponse{Error: "pr-diff is not implemented"})
}

func (s *Server) handleCompile(c *fiber.Ctx) error {
	var req CompileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	result, err := s.runner.Run(c.Context(), compile.Request{
		Repo:           req.Repo,
		Tool:           compile.Tool(req.Tool),
		Goal:           compile.Goal(req.Goal),
		ProjectPath:    req.ProjectPath,
		TimeoutSeconds: req.TimeoutSeconds,
		ExtraArgs:      req.ExtraArgs,
	})
	if err != nil {
		return s.fail(c, "compile", err)
	}
	return c.JSON(result)
}

func (s *Server) handleWriteFile(c *fiber.Ctx) error {
	var req WriteFileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	// overwrite 省略時は上書き許可（元APIの既定と同じ）
	overwrite := true
	if req.Overwrite != nil {
		overwrite = *req.Overwrite
	}

	written, err := s.writer.WriteFile(req.Path, req.Content, overwrite)
	if err != nil {
		return s.fail(c, "write-file", err)
	}
	return c.JSON(WriteFileResponse{OK: true, Path: written})
}

// fail converts a domain error into a client-visible HTTP response.
// 予期しないエラーは詳細を漏らさず汎用メッセージで500を返す。
func (s *Server) fail(c *fiber.Ctx, op string, err error) error {
	var status int
	switch {
	case errors.Is(err, workspace.ErrPathTraversal),
		errors.Is(err, workspace.ErrDecode),
		errors.Is(err, workspace.ErrTooLarge),
		errors.Is(err, compile.ErrInvalidRequest):
		status = fiber.StatusBadRequest
	case errors.Is(err, workspace.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, workspace.ErrExists):
		status = fiber.StatusConflict
	case errors.Is(err, workspace.ErrNotImplemented):
		status = fiber.StatusNotImplemented
	case errors.Is(err, compile.ErrToolMissing):
		// ビルドツール不在はサーバー側の環境不備だが、原因は伝える
		status = fiber.StatusInternalServerError
	default:
		s.logger.Error("unexpected error",
			zap.String("op", op),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "internal server error"})
	}

	s.logger.Warn("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.Error(err),
	)
	return c.Status(status).JSON(ErrorResponse{Error: err.Error()})
}
