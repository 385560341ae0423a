package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/moor-sun/git-mcp-server/internal/workspace"
)

// ToolHandler は MCP のツール呼び出しを workspace のユースケースに変換する
// Adapter です。エラーはツール結果として返し、プロトコルエラーにはしません。
type ToolHandler struct {
	reader workspace.FileReader
	lister workspace.FileLister
	differ workspace.DiffProvider
}

// NewToolHandler は ToolHandler を生成します。
func NewToolHandler(reader workspace.FileReader, lister workspace.FileLister, differ workspace.DiffProvider) *ToolHandler {
	return &ToolHandler{
		reader: reader,
		lister: lister,
		differ: differ,
	}
}

// HandleReadFile は read-file ツール呼び出しを処理します。
func (h *ToolHandler) HandleReadFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	relPath, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("path is required"), nil
	}

	content, err := h.reader.ReadFile(relPath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read %q: %v", relPath, err)), nil
	}
	return mcp.NewToolResultText(content), nil
}

// HandleListFiles は list-files ツール呼び出しを処理します。
// 結果は1行1パス。該当なしは空テキスト（エラーではない）。
func (h *ToolHandler) HandleListFiles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	basePath := req.GetString("base_path", "")
	ext := req.GetString("ext", "")

	files, err := h.lister.ListFiles(basePath, ext)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list %q: %v", basePath, err)), nil
	}
	return mcp.NewToolResultText(strings.Join(files, "\n")), nil
}

// HandlePRDiff は pr-diff ツール呼び出しを処理します。常に未実装エラーです。
func (h *ToolHandler) HandlePRDiff(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	repo, err := req.RequireString("repo")
	if err != nil {
		return mcp.NewToolResultError("repo is required"), nil
	}
	prNumber, err := req.RequireInt("pr_number")
	if err != nil {
		return mcp.NewToolResultError("pr_number is required"), nil
	}

	if _, err := h.differ.PRDiff(repo, prNumber); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultError("pr-diff is not implemented"), nil
}
