// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"slices"
	"strings"

	"github.com/alnah/go-codex/internal/fileutil"
)

// Getenv reads an environment variable. os.Getenv satisfies it.
type Getenv func(string) string

// dockerEnvFile is created by Docker inside every container.
const dockerEnvFile = "/.dockerenv"

// ciVars are set by the common CI providers.
var ciVars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}

// ContainerSignal reports which signal identifies a container environment,
// or "" outside one.
func ContainerSignal(getenv Getenv) string {
	switch {
	case getenv("CODEX_CONTAINER") == "1":
		return "CODEX_CONTAINER=1"
	case fileutil.FileExists(dockerEnvFile):
		return dockerEnvFile
	case getenv("container") != "":
		return "container=" + getenv("container")
	case getenv("KUBERNETES_SERVICE_HOST") != "":
		return "KUBERNETES_SERVICE_HOST"
	}
	return ""
}

// InCI reports whether a CI provider variable is set.
func InCI(getenv Getenv) bool {
	return slices.ContainsFunc(ciVars, func(v string) bool { return getenv(v) != "" })
}

// ForBrowserConnect returns hints for browser connection errors.
// Sandboxing is the usual culprit in containers and CI.
func ForBrowserConnect(getenv Getenv) string {
	var hints []string

	if (InCI(getenv) || ContainerSignal(getenv) != "") && getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}

	return formatHints(hints)
}

// ForConfigNotFound returns a hint for a directory without codex.yml.
func ForConfigNotFound() string {
	return format("run 'codex init' to create codex.yml, or pass the project directory as argument")
}

// ForEngineNotFound returns hints for a missing PDF engine.
func ForEngineNotFound(engine string) string {
	if engine == "chrome" {
		return format("install Chrome or Chromium, or set ROD_BROWSER_BIN")
	}
	return formatHints([]string{
		"install a TeX distribution providing " + engine,
		"or use --engine chrome to print the HTML book",
	})
}

// ForUnknownComponents returns a hint listing where templates for the named
// components would be looked up.
func ForUnknownComponents(files []string) string {
	if len(files) == 0 {
		return ""
	}
	return format("create " + strings.Join(files, ", ") + " or run 'codex eject' to start from the built-in templates")
}

// ForMissingInput explains how component file attributes are resolved.
func ForMissingInput() string {
	return format("file attributes are looked up next to the document, then from the project root; a leading / always means the project root")
}

// ForUnclosedTag returns a hint for component tag mismatches.
func ForUnclosedTag() string {
	return format("close every component with </Name> or write it self-closing as <Name/>")
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check the build_path directory is writable")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
