package orchestration

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"recast/pkg/backend"
	"recast/pkg/config"
	"recast/pkg/utils"
	"recast/pkg/virtualdocs"
	"recast/pkg/workspace"
)

// ErrRunCancelled is returned when the operator declines a prompt; no
// network traffic happens after the cancellation point.
var ErrRunCancelled = errors.New("run cancelled by operator")

// BackendClient is the slice of the backend API the controller drives.
type BackendClient interface {
	Plan(ctx context.Context, req *backend.PlanRequest) (*backend.PlanResponse, error)
	Refactor(ctx context.Context, req *backend.RefactorRequest) (*backend.RefactorResponse, error)
}

// DiffRenderer issues one side-by-side comparison per refactored file.
// The controller observes only success or failure of the invocation.
type DiffRenderer interface {
	RenderDiff(originalPath, virtualKey, title string) error
}

// Controller runs the whole pipeline: sample, plan, select mode,
// refactor, present. One sequential flow; the virtual document store is
// its only shared mutable state.
type Controller struct {
	cfg      *config.Config
	logger   *utils.Logger
	sampler  *workspace.Sampler
	client   BackendClient
	modes    ModeSelector
	store    *virtualdocs.Store
	renderer DiffRenderer
	state    State
}

func NewController(cfg *config.Config, logger *utils.Logger, sampler *workspace.Sampler,
	client BackendClient, modes ModeSelector, store *virtualdocs.Store, renderer DiffRenderer) *Controller {
	return &Controller{
		cfg:      cfg,
		logger:   logger,
		sampler:  sampler,
		client:   client,
		modes:    modes,
		store:    store,
		renderer: renderer,
		state:    StateIdle,
	}
}

// State exposes the current pipeline phase.
func (c *Controller) State() State { return c.state }

// Store exposes the virtual document store backing the content provider.
func (c *Controller) Store() *virtualdocs.Store { return c.store }

func (c *Controller) transition(next State) {
	c.logger.Logf("State transition: %s -> %s", c.state, next)
	c.state = next
}

func (c *Controller) abort(summary *RunSummary, err error) (*RunSummary, error) {
	c.transition(StateAborted)
	summary.State = StateAborted
	c.logger.LogError(err)
	return summary, err
}

func (c *Controller) done(summary *RunSummary) (*RunSummary, error) {
	c.transition(StateDone)
	summary.State = StateDone
	return summary, nil
}

// Run executes one full pipeline pass over the workspace at root.
func (c *Controller) Run(ctx context.Context, root, instruction string) (*RunSummary, error) {
	summary := &RunSummary{State: StateIdle}

	// Sampling
	c.transition(StateSampling)
	c.logger.LogProcessStep("Sampling workspace...")
	sample, err := c.sampler.Sample(root)
	if err != nil {
		if errors.Is(err, workspace.ErrNoCandidateFiles) {
			c.logger.LogUserInteraction("Nothing to do: no candidate files in workspace.")
		}
		return c.abort(summary, err)
	}
	summary.Sampled = len(sample.Skeletons)

	// Planning
	c.transition(StatePlanning)
	requestID := backend.NewRequestID()
	summary.RequestID = requestID
	c.logger.LogProcessStep(fmt.Sprintf("Requesting plan for %d files...", summary.Sampled))
	planResp, err := c.client.Plan(ctx, &backend.PlanRequest{
		RequestID:        requestID,
		Instruction:      instruction,
		WorkspaceRoot:    root,
		FileTree:         sample.Tree,
		Skeletons:        sample.Skeletons,
		MaxSkeletonBytes: sample.SkeletonBytes,
	})
	if err != nil {
		return c.abort(summary, fmt.Errorf("planning failed: %w", err))
	}
	summary.Targeted = len(planResp.TargetFiles)
	if summary.Targeted == 0 {
		// Normal terminal state, not an error.
		c.logger.LogUserInteraction("Nothing selected: the planner proposed no files.")
		return c.done(summary)
	}
	for _, target := range planResp.TargetFiles {
		c.logger.LogProcessStep(fmt.Sprintf("  planned: %s (%s)", target.Path, target.Reason))
	}

	// AwaitingMode: the single binary decision, before any full file
	// content leaves the workspace.
	c.transition(StateAwaitingMode)
	dryRun, ok := c.modes.SelectMode()
	if !ok {
		c.logger.LogUserInteraction("Run cancelled; no changes were requested.")
		return c.abort(summary, ErrRunCancelled)
	}

	// Refactoring
	c.transition(StateRefactoring)
	targets := c.collectTargets(root, planResp.TargetFiles)
	summary.Submitted = len(targets)
	if summary.Submitted == 0 {
		c.logger.LogUserInteraction("Nothing to refactor: all planned files are gone from disk.")
		return c.done(summary)
	}
	c.logger.LogProcessStep(fmt.Sprintf("Refactoring %d files (dry_run=%v)...", summary.Submitted, dryRun))
	refResp, err := c.client.Refactor(ctx, &backend.RefactorRequest{
		RequestID:           requestID,
		TargetFiles:         targets,
		ResearchConstraints: c.cfg.Research,
		DryRun:              dryRun,
	})
	if err != nil {
		return c.abort(summary, fmt.Errorf("refactoring failed: %w", err))
	}

	// Presenting
	c.transition(StatePresenting)
	c.present(root, targets, refResp, summary)
	if !dryRun && refResp.Branch != "" {
		summary.Branch = refResp.Branch
		c.logger.LogUserInteraction(fmt.Sprintf("Changes committed on branch %s", refResp.Branch))
	}
	return c.done(summary)
}

// collectTargets reads full content for every planned path still on disk.
// Files deleted since planning are skipped silently; paths that resolve
// outside the workspace root are rejected; the submitted set is always a
// subset of the plan's target set.
func (c *Controller) collectTargets(root string, planned []backend.PlanTarget) []backend.TargetFile {
	var targets []backend.TargetFile
	for _, target := range planned {
		full, ok := resolveWithinRoot(root, target.Path)
		if !ok {
			c.logger.LogUserInteraction(fmt.Sprintf("Warning: ignoring planned path outside workspace: %s", target.Path))
			continue
		}
		data, err := os.ReadFile(full)
		if err != nil {
			c.logger.Logf("Skipping planned file %s: %v", target.Path, err)
			continue
		}
		targets = append(targets, backend.TargetFile{
			Path:    target.Path,
			Content: base64.StdEncoding.EncodeToString(data),
		})
	}
	return targets
}

// resolveWithinRoot joins a planner-returned path onto the workspace root
// and rejects absolute paths and any path that escapes the root. Only
// files inside the workspace may ever be read and uploaded.
func resolveWithinRoot(root, path string) (string, bool) {
	if path == "" || filepath.IsAbs(path) {
		return "", false
	}
	full := filepath.Join(root, path)
	rel, err := filepath.Rel(root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return full, true
}

// present reconciles results against the submitted targets, stores the
// rewrites as virtual documents and renders one diff per success, in
// response order. Per-file failures never stop the loop.
func (c *Controller) present(root string, submitted []backend.TargetFile, resp *backend.RefactorResponse, summary *RunSummary) {
	submittedPaths := make(map[string]bool, len(submitted))
	for _, t := range submitted {
		submittedPaths[t.Path] = true
	}

	seen := make(map[string]bool, len(resp.Results))
	for _, result := range resp.Results {
		if !submittedPaths[result.Path] {
			c.logger.Logf("Ignoring result for unrequested path %s", result.Path)
			continue
		}
		if seen[result.Path] {
			c.logger.LogUserInteraction(fmt.Sprintf("Warning: duplicate result for %s ignored", result.Path))
			continue
		}
		seen[result.Path] = true

		if result.Error != "" {
			summary.PerFileErrors++
			c.logger.LogUserInteraction(fmt.Sprintf("Refactor failed for %s: %s", result.Path, result.Error))
			continue
		}
		summary.Refactored++
		c.verifyIntegrity(result)

		key := virtualdocs.Key(result.Path)
		c.store.Put(key, result.NewContent)
		title := fmt.Sprintf("%s (proposed)", result.Path)
		if err := c.renderer.RenderDiff(filepath.Join(root, result.Path), key, title); err != nil {
			summary.RenderErrors++
			c.logger.LogUserInteraction(fmt.Sprintf("Could not render diff for %s: %v", result.Path, err))
			continue
		}
		summary.Rendered++
	}

	// A partial response is a per-file error for the missing entries, not
	// a fatal failure for the whole run.
	for _, t := range submitted {
		if !seen[t.Path] {
			summary.PerFileErrors++
			c.logger.LogUserInteraction(fmt.Sprintf("No result returned for %s", t.Path))
		}
	}
}

// verifyIntegrity recomputes the content hash the backend reported. The
// hash is advisory; a mismatch is surfaced but does not block rendering.
func (c *Controller) verifyIntegrity(result backend.RefactorResult) {
	if result.NewSHA == "" {
		return
	}
	sum := sha256.Sum256([]byte(result.NewContent))
	if hex.EncodeToString(sum[:]) != result.NewSHA {
		c.logger.LogUserInteraction(fmt.Sprintf("Warning: content hash mismatch for %s", result.Path))
	}
}
