package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
)

// 動作確認用の簡易クライアント。サーバーを --stdio で spawn し、
// read-file / list-files ツールを呼び出します。
func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "Usage: git-mcp-client read-file <path>")
		fmt.Fprintln(os.Stderr, "       git-mcp-client list-files <base_path> [ext]")
		os.Exit(1)
	}

	toolName := os.Args[1]

	serverBin := os.Getenv("GIT_MCP_SERVER_BIN")
	if serverBin == "" {
		serverBin = "git-mcp-server"
	}

	// --- MCP クライアントの起動（サーバープロセスを spawn） ---
	c, err := client.NewStdioMCPClient(
		serverBin,
		os.Environ(),
		"--stdio",
	)
	if err != nil {
		log.Fatalf("failed to create MCP client: %v", err)
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
	defer cancel()

	// --- Initialize ハンドシェイク ---
	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{
		Name:    "git-mcp-client",
		Version: "0.1.0",
	}

	initResult, err := c.Initialize(ctx, initReq)
	if err != nil {
		log.Fatalf("failed to initialize: %v", err)
	}
	fmt.Fprintf(os.Stderr, "Connected to: %s %s\n", initResult.ServerInfo.Name, initResult.ServerInfo.Version)

	// --- ツールの呼び出し ---
	toolReq := mcp.CallToolRequest{}
	toolReq.Params.Name = toolName

	switch toolName {
	case "read-file":
		toolReq.Params.Arguments = map[string]any{
			"path": os.Args[2],
		}
	case "list-files":
		args := map[string]any{
			"base_path": os.Args[2],
		}
		if len(os.Args) >= 4 {
			args["ext"] = os.Args[3]
		}
		toolReq.Params.Arguments = args
	default:
		log.Fatalf("unknown tool %q", toolName)
	}

	result, err := c.CallTool(ctx, toolReq)
	if err != nil {
		log.Fatalf("tool call failed: %v", err)
	}

	if result.IsError {
		fmt.Fprintln(os.Stderr, "Tool call failed:")
	}

	for _, content := range result.Content {
		if tc, ok := content.(mcp.TextContent); ok {
			fmt.Println(tc.Text)
		}
	}
}
