package orchestration

import (
	"recast/pkg/utils"
)

// ModeSelector resolves the single binary run-mode decision. ok=false
// means the operator cancelled and the run must end with no further
// network effect.
type ModeSelector interface {
	SelectMode() (dryRun bool, ok bool)
}

// PromptModeSelector asks the operator to choose between dry run and
// apply. Non-interactive sessions fall back to the configured default.
type PromptModeSelector struct {
	Logger        *utils.Logger
	DefaultDryRun bool
}

func (m *PromptModeSelector) SelectMode() (bool, bool) {
	if !m.Logger.IsInteractive() {
		m.Logger.Logf("Non-interactive session, defaulting to dry_run=%v", m.DefaultDryRun)
		return m.DefaultDryRun, true
	}
	for {
		answer, ok := m.Logger.AskForInput("Select mode: [d]ry run, [a]pply changes, [c]ancel:")
		if !ok {
			return false, false
		}
		switch answer {
		case "d", "dry", "dry run", "dry-run":
			return true, true
		case "a", "apply":
			// Apply asks the backend to commit; one extra gate before
			// full file content leaves the workspace in commit mode.
			if m.Logger.AskForConfirmation("Apply mode asks the backend to commit changes on a new branch. Continue?", true) {
				return false, true
			}
			continue
		case "c", "cancel", "q", "":
			return false, false
		default:
			m.Logger.LogUserInteraction("Please answer 'd', 'a' or 'c'.")
		}
	}
}

// StaticModeSelector is used when --dry-run or --apply was passed on the
// command line; the prompt is skipped entirely.
type StaticModeSelector struct {
	DryRun bool
}

func (m *StaticModeSelector) SelectMode() (bool, bool) {
	return m.DryRun, true
}
