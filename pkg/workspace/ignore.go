package workspace

import (
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// GetIgnoreRules compiles the exclusion rules for a workspace root from
// .gitignore, .recast/ignore, the always-on essential patterns and any
// extra patterns supplied by the caller.
func GetIgnoreRules(rootDir string, extraPatterns []string) *ignore.GitIgnore {
	var allLines []string

	// Essential recast patterns first; these should never be overridden.
	allLines = append(allLines, getEssentialPatterns()...)

	gitIgnorePath := filepath.Join(rootDir, ".gitignore")
	if gitIgnoreContent, err := os.ReadFile(gitIgnorePath); err == nil {
		allLines = append(allLines, strings.Split(string(gitIgnoreContent), "\n")...)
	}

	recastIgnorePath := filepath.Join(rootDir, ".recast", "ignore")
	if recastIgnoreContent, err := os.ReadFile(recastIgnorePath); err == nil {
		allLines = append(allLines, strings.Split(string(recastIgnoreContent), "\n")...)
	}

	allLines = append(allLines, getFallbackIgnorePatterns()...)
	allLines = append(allLines, extraPatterns...)

	// Filter out empty lines and comments
	var filteredLines []string
	for _, line := range allLines {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			filteredLines = append(filteredLines, line)
		}
	}

	return ignore.CompileIgnoreLines(filteredLines...)
}

// getEssentialPatterns returns patterns that must always be ignored so the
// sampler never feeds recast's own files back into a plan request.
func getEssentialPatterns() []string {
	return []string{
		".recast/",  // recast workspace directory
		".recast/*", // all contents of the recast directory
		"recast",    // recast binary (if present in workspace)
	}
}

// getFallbackIgnorePatterns covers dependency-manager directories, VCS
// metadata and build output that should never be sampled.
func getFallbackIgnorePatterns() []string {
	return []string{
		// Version control metadata
		".git/",
		".svn/",
		".hg/",

		// Dependency-manager directories
		"node_modules/",
		"vendor/",
		"venv/",
		".venv/",
		"env/",
		"__pycache__/",
		".tox/",
		"bower_components/",

		// Build and output directories
		"build/",
		"dist/",
		"target/",
		"out/",
		"bin/",
		"obj/",
		".next/",
		".nuxt/",

		// Caches
		".cache/",
		".pytest_cache/",
		".mypy_cache/",
		"coverage/",

		// Editor and OS noise
		".idea/",
		".vscode/",
		".DS_Store",
		"Thumbs.db",
		"*.swp",
		"*.bak",
		"*.tmp",
		"*.log",

		// Compiled artifacts
		"*.pyc",
		"*.pyo",
		"*.class",
		"*.o",
		"*.so",
		"*.dll",
		"*.exe",
		"*.test",

		// Local environment files
		".env",
		"*.env",
	}
}
