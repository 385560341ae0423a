package workspace

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("FSReader", func() {
	var (
		rootDir string
		reader  *FSReader
	)

	writeFile := func(rel, content string) {
		abs := filepath.Join(rootDir, filepath.FromSlash(rel))
		Expect(os.MkdirAll(filepath.Dir(abs), 0o755)).To(Succeed())
		Expect(os.WriteFile(abs, []byte(content), 0o644)).To(Succeed())
	}

	BeforeEach(func() {
		var err error
		rootDir, err = os.MkdirTemp("", "git-mcp-fs-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() {
			_ = os.RemoveAll(rootDir)
		})

		root, err := NewRoot(rootDir)
		Expect(err).NotTo(HaveOccurred())
		reader = NewFSReader(root, 0)
	})

	Describe("ReadFile", func() {
		It("returns file content as text", func() {
			writeFile("src/main/java/Example.java", "hello")

			content, err := reader.ReadFile("src/main/java/Example.java")
			Expect(err).NotTo(HaveOccurred())
			Expect(content).To(Equal("hello"))
		})

		It("fails with ErrNotFound for a missing file", func() {
			_, err := reader.ReadFile("missing.txt")
			Expect(err).To(MatchError(ErrNotFound))
		})

		It("fails with ErrNotFound when the path is a directory", func() {
			writeFile("src/A.java", "a")

			_, err := reader.ReadFile("src")
			Expect(err).To(MatchError(ErrNotFound))
		})

		It("fails with ErrPathTraversal for paths escaping the root", func() {
			_, err := reader.ReadFile("../../etc/passwd")
			Expect(err).To(MatchError(ErrPathTraversal))
		})

		It("fails with ErrDecode for non-UTF-8 content", func() {
			abs := filepath.Join(rootDir, "binary.bin")
			Expect(os.WriteFile(abs, []byte{0xff, 0xfe, 0x00, 0x80}, 0o644)).To(Succeed())

			_, err := reader.ReadFile("binary.bin")
			Expect(err).To(MatchError(ErrDecode))
		})

		It("does not report a permission error as not found", func() {
			if os.Geteuid() == 0 {
				Skip("permission checks do not apply to root")
			}

			writeFile("locked/secret.txt", "s")
			locked := filepath.Join(rootDir, "locked")
			Expect(os.Chmod(locked, 0o000)).To(Succeed())
			DeferCleanup(func() {
				_ = os.Chmod(locked, 0o755)
			})

			_, err := reader.ReadFile("locked/secret.txt")
			Expect(err).To(HaveOccurred())
			Expect(err).NotTo(MatchError(ErrNotFound))
		})

		It("enforces the configured size limit", func() {
			root, err := NewRoot(rootDir)
			Expect(err).NotTo(HaveOccurred())
			limited := NewFSReader(root, 4)

			writeFile("big.txt", "more than four bytes")

			_, err = limited.ReadFile("big.txt")
			Expect(err).To(MatchError(ErrTooLarge))
		})
	})

	Describe("ListFiles", func() {
		BeforeEach(func() {
			writeFile("src/A.java", "a")
			writeFile("src/sub/B.java", "b")
			writeFile("src/C.txt", "c")
			writeFile("src/Example.javaX", "x")
		})

		It("returns only files matching the extension filter", func() {
			files, err := reader.ListFiles("src", ".java")
			Expect(err).NotTo(HaveOccurred())
			Expect(files).To(ConsistOf("src/A.java", "src/sub/B.java"))
		})

		It("excludes files whose name merely contains the suffix", func() {
			files, err := reader.ListFiles("src", ".java")
			Expect(err).NotTo(HaveOccurred())
			Expect(files).NotTo(ContainElement("src/Example.javaX"))
		})

		It("returns every regular file when the filter is empty", func() {
			files, err := reader.ListFiles("src", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(files).To(ConsistOf("src/A.java", "src/sub/B.java", "src/C.txt", "src/Example.javaX"))
		})

		It("lists from the root when basePath is empty", func() {
			files, err := reader.ListFiles("", ".java")
			Expect(err).NotTo(HaveOccurred())
			Expect(files).To(ConsistOf("src/A.java", "src/sub/B.java"))
		})

		It("returns an empty list for an empty directory", func() {
			Expect(os.MkdirAll(filepath.Join(rootDir, "empty"), 0o755)).To(Succeed())

			files, err := reader.ListFiles("empty", ".java")
			Expect(err).NotTo(HaveOccurred())
			Expect(files).To(BeEmpty())
		})

		It("fails with ErrNotFound for a missing directory", func() {
			_, err := reader.ListFiles("nope", "")
			Expect(err).To(MatchError(ErrNotFound))
		})

		It("fails with ErrNotFound when basePath is a file", func() {
			_, err := reader.ListFiles("src/A.java", "")
			Expect(err).To(MatchError(ErrNotFound))
		})

		It("does not report a permission error as not found", func() {
			if os.Geteuid() == 0 {
				Skip("permission checks do not apply to root")
			}

			writeFile("locked/inner/D.java", "d")
			locked := filepath.Join(rootDir, "locked")
			Expect(os.Chmod(locked, 0o000)).To(Succeed())
			DeferCleanup(func() {
				_ = os.Chmod(locked, 0o755)
			})

			_, err := reader.ListFiles("locked", "")
			Expect(err).To(HaveOccurred())
			Expect(err).NotTo(MatchError(ErrNotFound))
		})

		It("fails with ErrPathTraversal for escaping basePath", func() {
			_, err := reader.ListFiles("../", "")
			Expect(err).To(MatchError(ErrPathTraversal))
		})
	})
})
