// Package config はサーバー設定の読み込みと検証を提供します。
// 設定は YAMLファイル → 環境変数 → コマンドラインフラグ の順に上書きされ、
// 検証済みの Config が起動時に一度だけ組み立てられて各コンポーネントへ
// 引き渡されます（グローバル参照はしない）。
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// 環境変数名。RepoRootEnv は元システムから引き継いだ名前。
const (
	RepoRootEnv = "GIT_LOCAL_REPO"
	ListenEnv   = "GIT_MCP_LISTEN"
)

const (
	defaultListenAddr            = ":8000"
	defaultCompileTimeoutSeconds = 300
	maxCompileTimeoutSeconds     = 1800
)

// ErrRepoRootRequired はどの設定ソースからもリポジトリルートが得られなかった
// 場合のエラーです。暗黙のフォールバックパスは存在しません。
var ErrRepoRootRequired = errors.New("repository root is required: set repo_root in the config file, " + RepoRootEnv + ", or --repo-root")

// Compile holds limits for the build runner.
type Compile struct {
	// DefaultTimeoutSeconds is applied when a request omits timeout_seconds.
	DefaultTimeoutSeconds int `yaml:"default_timeout_seconds"`
	// MaxTimeoutSeconds caps client-supplied timeouts.
	MaxTimeoutSeconds int `yaml:"max_timeout_seconds"`
}

// Config is the full server configuration.
type Config struct {
	// RepoRoot is the single absolute directory all served paths resolve against.
	RepoRoot string `yaml:"repo_root"`
	// ListenAddr is the HTTP listen address (e.g. ":8000").
	ListenAddr string `yaml:"listen_addr"`
	// MaxFileSize is the per-file read limit in bytes. 0 disables the limit.
	MaxFileSize int64   `yaml:"max_file_size"`
	Compile     Compile `yaml:"compile"`
	Debug       bool    `yaml:"debug"`
}

// Load reads an optional YAML config file and layers environment variables
// on top. path may be empty, in which case only environment and defaults
// apply. The result is not yet validated; call Validate after applying
// command-line flags.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if v := os.Getenv(RepoRootEnv); v != "" {
		cfg.RepoRoot = v
	}
	if v := os.Getenv(ListenEnv); v != "" {
		cfg.ListenAddr = v
	}

	return cfg, nil
}

// Validate fills defaults and checks required values. The repository root
// must be configured explicitly; it is resolved to an absolute path here.
// Existence on disk is deliberately not checked — it is verified lazily
// per-request by the accessors.
func (c *Config) Validate() error {
	if c.RepoRoot == "" {
		return ErrRepoRootRequired
	}
	abs, err := filepath.Abs(c.RepoRoot)
	if err != nil {
		return fmt.Errorf("invalid repository root %q: %w", c.RepoRoot, err)
	}
	c.RepoRoot = abs

	if c.ListenAddr == "" {
		c.ListenAddr = defaultListenAddr
	}
	if c.MaxFileSize < 0 {
		return fmt.Errorf("max_file_size must not be negative: %d", c.MaxFileSize)
	}
	if c.Compile.DefaultTimeoutSeconds <= 0 {
		c.Compile.DefaultTimeoutSeconds = defaultCompileTimeoutSeconds
	}
	if c.Compile.MaxTimeoutSeconds <= 0 {
		c.Compile.MaxTimeoutSeconds = maxCompileTimeoutSeconds
	}
	if c.Compile.DefaultTimeoutSeconds > c.Compile.MaxTimeoutSeconds {
		return fmt.Errorf("compile default timeout %ds exceeds max %ds",
			c.Compile.DefaultTimeoutSeconds, c.Compile.MaxTimeoutSeconds)
	}

	return nil
}
