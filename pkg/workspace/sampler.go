package workspace

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"recast/pkg/config"
	"recast/pkg/utils"
)

// ErrNoCandidateFiles is returned when a sampling pass matches nothing;
// the run ends before any network call is made.
var ErrNoCandidateFiles = errors.New("no candidate files found in workspace")

// FileTreeEntry describes one node of the sampled workspace tree.
type FileTreeEntry struct {
	Path string `json:"path"`
	Kind string `json:"type"` // "file" or "directory"
	Size int64  `json:"size"`
}

// FileSkeleton carries the head window of one candidate file,
// base64-encoded so arbitrary content cannot corrupt the request payload.
type FileSkeleton struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// Sample is the result of one sampling pass over a workspace.
type Sample struct {
	Root          string
	Tree          []FileTreeEntry
	Skeletons     []FileSkeleton
	SkeletonBytes int // decoded byte total across all skeletons
}

// Sampler enumerates candidate files and extracts their skeletons.
type Sampler struct {
	cfg    *config.Config
	logger *utils.Logger
}

func NewSampler(cfg *config.Config, logger *utils.Logger) *Sampler {
	return &Sampler{cfg: cfg, logger: logger}
}

// Sample walks the workspace root, builds the file tree and one skeleton
// per candidate source file. Side effects: reads only.
func (s *Sampler) Sample(root string) (*Sample, error) {
	rules := GetIgnoreRules(root, s.cfg.ExtraIgnorePatterns)
	extensions := make(map[string]bool, len(s.cfg.SourceExtensions))
	for _, ext := range s.cfg.SourceExtensions {
		extensions[ext] = true
	}

	sample := &Sample{Root: root}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rules.MatchesPath(rel + "/") {
				return filepath.SkipDir
			}
			sample.Tree = append(sample.Tree, FileTreeEntry{Path: rel, Kind: "directory"})
			return nil
		}
		if rules.MatchesPath(rel) {
			return nil
		}
		if !d.Type().IsRegular() || !extensions[filepath.Ext(rel)] {
			return nil
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			return nil
		}
		skeleton, decoded, skErr := s.buildSkeleton(path, rel)
		if skErr != nil {
			s.logger.Logf("Skipping unreadable file %s: %v", rel, skErr)
			return nil
		}
		sample.Tree = append(sample.Tree, FileTreeEntry{Path: rel, Kind: "file", Size: info.Size()})
		sample.Skeletons = append(sample.Skeletons, skeleton)
		sample.SkeletonBytes += decoded
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk workspace %s: %w", root, err)
	}

	if len(sample.Skeletons) == 0 {
		return nil, ErrNoCandidateFiles
	}
	s.logger.Logf("Sampled %d files (%d skeleton bytes) under %s",
		len(sample.Skeletons), sample.SkeletonBytes, root)
	return sample, nil
}

// buildSkeleton reads the first min(SkeletonLines, total) lines of the
// file and returns them base64-encoded alongside the decoded byte count.
func (s *Sampler) buildSkeleton(path, rel string) (FileSkeleton, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileSkeleton{}, 0, err
	}
	head := HeadLines(string(data), s.cfg.SkeletonLines)
	return FileSkeleton{
		Path:    rel,
		Content: base64.StdEncoding.EncodeToString([]byte(head)),
	}, len(head), nil
}

// HeadLines returns the first n lines of text joined with newline
// separators. A trailing newline on the input does not count as a line.
func HeadLines(text string, n int) string {
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}
