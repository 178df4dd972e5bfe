package backend

import (
	"recast/pkg/config"
	"recast/pkg/workspace"
)

// Wire types for the plan/refactor backend. Content fields are
// base64-encoded on both directions of the refactor call.

type PlanRequest struct {
	RequestID        string                    `json:"request_id"`
	Instruction      string                    `json:"instruction,omitempty"`
	WorkspaceRoot    string                    `json:"workspace_root"`
	FileTree         []workspace.FileTreeEntry `json:"file_tree"`
	Skeletons        []workspace.FileSkeleton  `json:"skeletons"`
	MaxSkeletonBytes int                       `json:"max_skeleton_bytes"`
}

// PlanTarget is one file the planner selected, with its free-text
// justification. Order as received is the diff presentation order.
type PlanTarget struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

type PlanResponse struct {
	RequestID          string       `json:"request_id"`
	TargetFiles        []PlanTarget `json:"target_files"`
	PlannerVersion     string       `json:"planner_version"`
	Seed               int64        `json:"seed"`
	EstimatedTokenCost int          `json:"estimated_token_cost"`
}

// TargetFile carries the full on-disk content of one planned file.
type TargetFile struct {
	Path    string `json:"path"`
	Content string `json:"content"` // base64-encoded
}

type RefactorRequest struct {
	RequestID           string                     `json:"request_id"`
	TargetFiles         []TargetFile               `json:"target_files"`
	ResearchConstraints config.ResearchConstraints `json:"research_constraints"`
	DryRun              bool                       `json:"dry_run"`
}

// RefactorResult is the backend's verdict on one submitted file. An empty
// Error means success; the hashes and diff are computed backend-side and
// are advisory to this client.
type RefactorResult struct {
	Path         string `json:"path"`
	OrigSHA      string `json:"orig_sha"`
	NewSHA       string `json:"new_sha"`
	Diff         string `json:"diff"`
	NewContent   string `json:"new_content"`
	FormattingOK bool   `json:"formatting_ok"`
	Error        string `json:"error,omitempty"`
}

type RefactorResponse struct {
	RequestID string           `json:"request_id"`
	Results   []RefactorResult `json:"results"`
	// Branch is present only when dry_run=false and the backend committed.
	Branch string `json:"branch,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
