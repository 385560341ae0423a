// Package mcp は MCP (Model Context Protocol) の stdio ツールサーフェスです。
// HTTP API と同じ workspace アクセサを read-file / list-files / pr-diff の
// 各ツールとして公開します。
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New は MCP サーバーを生成し、ツールを登録して返します。
// ビジネスロジックは handler に委譲し、ここではプロトコル変換のみ行います。
func New(handler *ToolHandler) *server.MCPServer {
	s := server.NewMCPServer(
		"git-mcp-server",
		"0.1.0",
		server.WithToolCapabilities(false),
	)

	readFileTool := mcp.NewTool("read-file",
		mcp.WithDescription("リポジトリルート配下のファイル内容をUTF-8テキストとして読み取ります。"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("対象ファイルのパス（リポジトリルートからの相対パス）"),
		),
	)

	listFilesTool := mcp.NewTool("list-files",
		mcp.WithDescription("指定ディレクトリ以下のファイルを再帰的に列挙し、ルートからの相対パスを1行ずつ返します。"),
		mcp.WithString("base_path",
			mcp.Description("起点ディレクトリ（省略時はリポジトリルート）"),
		),
		mcp.WithString("ext",
			mcp.Description("拡張子による絞り込み（例: \".java\"。リテラルな末尾一致）"),
		),
	)

	prDiffTool := mcp.NewTool("pr-diff",
		mcp.WithDescription("プルリクエストの差分を取得します（未実装）。"),
		mcp.WithString("repo",
			mcp.Required(),
			mcp.Description("対象リポジトリ名"),
		),
		mcp.WithNumber("pr_number",
			mcp.Required(),
			mcp.Description("プルリクエスト番号"),
		),
	)

	s.AddTool(readFileTool, handler.HandleReadFile)
	s.AddTool(listFilesTool, handler.HandleListFiles)
	s.AddTool(prDiffTool, handler.HandlePRDiff)

	return s
}
