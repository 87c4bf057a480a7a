package port

import "context"

// ProgressSinkPort receives the human-readable progress lines a run emits.
// Lines follow the ✅/❌/⚠️ prefix convention the orchestration layer
// classifies by; there is no structured schema beyond "one line per event".
type ProgressSinkPort interface {
	Emit(ctx context.Context, line string)
}
