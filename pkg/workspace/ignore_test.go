package workspace

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetIgnoreRulesAlwaysIncludesEssentialPatterns(t *testing.T) {
	tempDir := t.TempDir()

	// Even without any ignore files, essential patterns apply.
	rules := GetIgnoreRules(tempDir, nil)

	if !rules.MatchesPath(".recast/workspace.log") {
		t.Error(".recast/workspace.log should always be ignored")
	}
	if !rules.MatchesPath(".recast/config.json") {
		t.Error(".recast/config.json should always be ignored")
	}
	if !rules.MatchesPath("node_modules/package.json") {
		t.Error("node_modules should be ignored by fallback patterns")
	}
	if !rules.MatchesPath("build/output.exe") {
		t.Error("build directory should be ignored by fallback patterns")
	}
	if !rules.MatchesPath(".git/HEAD") {
		t.Error(".git should be ignored by fallback patterns")
	}
}

func TestGetIgnoreRulesCombinesSources(t *testing.T) {
	tempDir := t.TempDir()

	gitignorePath := filepath.Join(tempDir, ".gitignore")
	if err := os.WriteFile(gitignorePath, []byte("*.gen.go\nsandbox/\n"), 0644); err != nil {
		t.Fatalf("Failed to write .gitignore: %v", err)
	}

	recastDir := filepath.Join(tempDir, ".recast")
	if err := os.MkdirAll(recastDir, 0755); err != nil {
		t.Fatalf("Failed to create .recast directory: %v", err)
	}
	if err := os.WriteFile(filepath.Join(recastDir, "ignore"), []byte("fixtures/\n"), 0644); err != nil {
		t.Fatalf("Failed to write .recast/ignore: %v", err)
	}

	rules := GetIgnoreRules(tempDir, []string{"legacy/"})

	if !rules.MatchesPath("types.gen.go") {
		t.Error("*.gen.go from .gitignore should be ignored")
	}
	if !rules.MatchesPath("sandbox/main.py") {
		t.Error("sandbox/ from .gitignore should be ignored")
	}
	if !rules.MatchesPath("fixtures/data.py") {
		t.Error("fixtures/ from .recast/ignore should be ignored")
	}
	if !rules.MatchesPath("legacy/old.py") {
		t.Error("extra patterns should be honored")
	}
	if rules.MatchesPath("pkg/service.go") {
		t.Error("ordinary source files should not be ignored")
	}
}
