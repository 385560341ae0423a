package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/moor-sun/git-mcp-server/internal/compile"
	"github.com/moor-sun/git-mcp-server/internal/workspace"
)

var _ = Describe("Server", func() {
	var (
		rootDir string
		srv     *Server
	)

	writeFile := func(rel, content string) {
		abs := filepath.Join(rootDir, filepath.FromSlash(rel))
		Expect(os.MkdirAll(filepath.Dir(abs), 0o755)).To(Succeed())
		Expect(os.WriteFile(abs, []byte(content), 0o644)).To(Succeed())
	}

	post := func(path string, body any) *http.Response {
		data, err := json.Marshal(body)
		Expect(err).NotTo(HaveOccurred())

		req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
		req.Header.Set("Content-Type", "application/json")

		resp, err := srv.app.Test(req, -1)
		Expect(err).NotTo(HaveOccurred())
		return resp
	}

	decode := func(resp *http.Response, out any) {
		defer resp.Body.Close()
		data, err := io.ReadAll(resp.Body)
		Expect(err).NotTo(HaveOccurred())
		Expect(json.Unmarshal(data, out)).To(Succeed())
	}

	BeforeEach(func() {
		var err error
		rootDir, err = os.MkdirTemp("", "git-mcp-server-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() {
			_ = os.RemoveAll(rootDir)
		})

		root, err := workspace.NewRoot(rootDir)
		Expect(err).NotTo(HaveOccurred())

		logger := zap.NewNop()
		reader := workspace.NewFSReader(root, 0)
		writer := workspace.NewFSWriter(root)
		differ := workspace.NewGitDiff(root)
		runner := compile.NewRunner(root, 300, 1800, logger)

		srv = New(Config{ListenAddr: ":0"}, reader, reader, writer, differ, runner, logger)
	})

	Describe("GET /ping", func() {
		It("responds with pong", func() {
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			resp, err := srv.app.Test(req, -1)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
		})

		It("allows any origin", func() {
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			req.Header.Set("Origin", "http://example.com")
			resp, err := srv.app.Test(req, -1)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Header.Get("Access-Control-Allow-Origin")).To(Equal("*"))
		})
	})

	Describe("POST /git-mcp/file", func() {
		It("returns file content", func() {
			writeFile("src/main/java/Example.java", "hello")

			resp := post("/git-mcp/file", FileRequest{Repo: "svc", Path: "src/main/java/Example.java"})
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var body FileResponse
			decode(resp, &body)
			Expect(body.Content).To(Equal("hello"))
		})

		It("returns 404 for a missing file", func() {
			resp := post("/git-mcp/file", FileRequest{Path: "missing.txt"})
			Expect(resp.StatusCode).To(Equal(http.StatusNotFound))

			var body ErrorResponse
			decode(resp, &body)
			Expect(body.Error).NotTo(BeEmpty())
		})

		It("returns 404 when the path is a directory", func() {
			writeFile("src/A.java", "a")

			resp := post("/git-mcp/file", FileRequest{Path: "src"})
			Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
		})

		It("returns 400 for a traversal attempt", func() {
			resp := post("/git-mcp/file", FileRequest{Path: "../../etc/passwd"})
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))

			var body ErrorResponse
			decode(resp, &body)
			Expect(body.Error).To(ContainSubstring("escapes repository root"))
		})

		It("returns 400 for undecodable content", func() {
			Expect(os.WriteFile(filepath.Join(rootDir, "bin.dat"), []byte{0xff, 0xfe, 0x80}, 0o644)).To(Succeed())

			resp := post("/git-mcp/file", FileRequest{Path: "bin.dat"})
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("POST /git-mcp/list", func() {
		BeforeEach(func() {
			writeFile("src/A.java", "a")
			writeFile("src/sub/B.java", "b")
			writeFile("src/C.txt", "c")
		})

		It("returns matching files relative to the root", func() {
			resp := post("/git-mcp/list", ListRequest{BasePath: "src", Ext: ".java"})
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var body ListResponse
			decode(resp, &body)
			Expect(body.Files).To(ConsistOf("src/A.java", "src/sub/B.java"))
		})

		It("returns an empty list when nothing matches", func() {
			resp := post("/git-mcp/list", ListRequest{BasePath: "src", Ext: ".kt"})
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var body ListResponse
			decode(resp, &body)
			Expect(body.Files).To(BeEmpty())
		})

		It("returns 404 for a missing base path", func() {
			resp := post("/git-mcp/list", ListRequest{BasePath: "nope"})
			Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
		})

		It("returns 400 for an escaping base path", func() {
			resp := post("/git-mcp/list", ListRequest{BasePath: "../"})
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("POST /git-mcp/pr-diff", func() {
		It("always returns 501", func() {
			resp := post("/git-mcp/pr-diff", PRDiffRequest{Repo: "svc", PRNumber: 7})
			Expect(resp.StatusCode).To(Equal(http.StatusNotImplemented))

			var body ErrorResponse
			decode(resp, &body)
			Expect(body.Error).To(ContainSubstring("not implemented"))
		})
	})

	Describe("POST /git-mcp/write-file", func() {
		It("writes a new file", func() {
			resp := post("/git-mcp/write-file", WriteFileRequest{Path: "notes/new.md", Content: "hi"})
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var body WriteFileResponse
			decode(resp, &body)
			Expect(body.OK).To(BeTrue())
			Expect(body.Path).To(Equal("notes/new.md"))

			data, err := os.ReadFile(filepath.Join(rootDir, "notes", "new.md"))
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal("hi"))
		})

		It("returns 409 when the file exists and overwrite is false", func() {
			writeFile("f.txt", "old")

			overwrite := false
			resp := post("/git-mcp/write-file", WriteFileRequest{Path: "f.txt", Content: "new", Overwrite: &overwrite})
			Expect(resp.StatusCode).To(Equal(http.StatusConflict))
		})

		It("returns 400 for an escaping path", func() {
			resp := post("/git-mcp/write-file", WriteFileRequest{Path: "../evil.txt", Content: "x"})
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("POST /git-mcp/compile", func() {
		It("returns 400 for an unknown tool", func() {
			Expect(os.MkdirAll(filepath.Join(rootDir, "svc"), 0o755)).To(Succeed())

			resp := post("/git-mcp/compile", CompileRequest{Tool: "ant", Goal: "compile", ProjectPath: "svc"})
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})

		It("returns 404 for a missing project path", func() {
			resp := post("/git-mcp/compile", CompileRequest{Tool: "gradle", Goal: "test", ProjectPath: "missing"})
			Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
		})

		It("runs a gradle wrapper build", func() {
			writeFile("svc/gradlew", "#!/bin/sh\necho ok\nexit 0\n")
			Expect(os.Chmod(filepath.Join(rootDir, "svc", "gradlew"), 0o755)).To(Succeed())

			resp := post("/git-mcp/compile", CompileRequest{Tool: "gradle", Goal: "test", ProjectPath: "svc"})
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var body compile.Result
			decode(resp, &body)
			Expect(body.OK).To(BeTrue())
			Expect(body.ReturnCode).To(BeZero())
		})
	})

	It("returns 400 for a malformed body", func() {
		req := httptest.NewRequest(http.MethodPost, "/git-mcp/file", bytes.NewReader([]byte("{not json")))
		req.Header.Set("Content-Type", "application/json")

		resp, err := srv.app.Test(req, -1)
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
	})
})
