package compile

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// MavenCmdEnv は mvn 実行ファイルを明示指定する環境変数です（Windows対策）。
const MavenCmdEnv = "MAVEN_CMD"

// safeExtraArgPrefixes limits client-supplied arguments to those that only
// tune an otherwise fixed build invocation.
var safeExtraArgPrefixes = []string{
	"-D",
	"--no-daemon",
	"--stacktrace",
	"--info",
	"--debug",
}

func validateExtraArgs(args []string) error {
	for _, a := range args {
		ok := false
		for _, prefix := range safeExtraArgPrefixes {
			if strings.HasPrefix(a, prefix) {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("%w: unsafe extra arg %q (allowed prefixes: %v)", ErrInvalidRequest, a, safeExtraArgPrefixes)
		}
	}
	return nil
}

// buildCommand assembles the full command line for a validated tool/goal
// pair, preferring project-local wrappers over system executables.
func buildCommand(tool Tool, goal Goal, cwd string, extraArgs []string) ([]string, error) {
	if err := validateExtraArgs(extraArgs); err != nil {
		return nil, err
	}

	switch tool {
	case ToolMaven:
		base, err := pickMavenExecutable(cwd)
		if err != nil {
			return nil, err
		}
		target, err := mavenGoal(goal)
		if err != nil {
			return nil, err
		}
		return append(append(base, "-e", target), extraArgs...), nil

	case ToolGradle:
		base, err := pickGradleExecutable(cwd)
		if err != nil {
			return nil, err
		}
		target, err := gradleTask(goal)
		if err != nil {
			return nil, err
		}
		return append(append(base, target), extraArgs...), nil
	}

	return nil, fmt.Errorf("%w: unsupported tool %q", ErrInvalidRequest, tool)
}

func mavenGoal(goal Goal) (string, error) {
	switch goal {
	case GoalTestCompile, GoalTest, GoalCompile:
		return string(goal), nil
	}
	return "", fmt.Errorf("%w: unsupported goal %q", ErrInvalidRequest, goal)
}

func gradleTask(goal Goal) (string, error) {
	switch goal {
	case GoalTestCompile:
		// test-compile 相当は testClasses
		return "testClasses", nil
	case GoalTest:
		return "test", nil
	case GoalCompile:
		return "classes", nil
	}
	return "", fmt.Errorf("%w: unsupported goal %q", ErrInvalidRequest, goal)
}

func pickMavenExecutable(cwd string) ([]string, error) {
	// プロジェクト同梱のラッパーを優先
	if _, err := os.Stat(filepath.Join(cwd, "mvnw")); err == nil {
		return []string{"./mvnw"}, nil
	}
	if _, err := os.Stat(filepath.Join(cwd, "mvnw.cmd")); err == nil {
		return []string{"mvnw.cmd"}, nil
	}
	if mavenCmd := os.Getenv(MavenCmdEnv); mavenCmd != "" {
		if _, err := os.Stat(mavenCmd); err != nil {
			return nil, fmt.Errorf("%w: %s is set but file not found: %s", ErrToolMissing, MavenCmdEnv, mavenCmd)
		}
		return []string{mavenCmd}, nil
	}
	if path, err := exec.LookPath("mvn"); err == nil {
		return []string{path}, nil
	}
	return nil, fmt.Errorf("%w: mvn not in PATH and %s unset", ErrToolMissing, MavenCmdEnv)
}

func pickGradleExecutable(cwd string) ([]string, error) {
	if _, err := os.Stat(filepath.Join(cwd, "gradlew")); err == nil {
		return []string{"./gradlew"}, nil
	}
	if _, err := os.Stat(filepath.Join(cwd, "gradlew.bat")); err == nil {
		return []string{"gradlew.bat"}, nil
	}
	if path, err := exec.LookPath("gradle"); err == nil {
		return []string{path}, nil
	}
	return nil, fmt.Errorf("%w: no gradlew wrapper and no system gradle", ErrToolMissing)
}
