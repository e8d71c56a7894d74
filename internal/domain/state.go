package domain

// GenerationState tracks a request through the orchestration pipeline.
type GenerationState string

// Possible generation states. Pending through Finalizing are transient;
// Completed, PartiallyCompleted, and Failed are terminal.
const (
	GenerationStatePending            GenerationState = "pending"
	GenerationStateReserved           GenerationState = "reserved"
	GenerationStateTextGenerating     GenerationState = "text_generating"
	GenerationStateTextValidating     GenerationState = "text_validating"
	GenerationStateImagesGenerating   GenerationState = "images_generating"
	GenerationStateFinalizing         GenerationState = "finalizing"
	GenerationStateCompleted          GenerationState = "completed"
	GenerationStatePartiallyCompleted GenerationState = "partially_completed"
	GenerationStateFailed             GenerationState = "failed"
)

// IsTerminal reports whether the state ends the pipeline.
func (s GenerationState) IsTerminal() bool {
	switch s {
	case GenerationStateCompleted, GenerationStatePartiallyCompleted, GenerationStateFailed:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether moving from s to next is a legal step
// of the pipeline. Failed is reachable from every non-terminal state;
// every other edge follows the pipeline order.
func (s GenerationState) CanTransitionTo(next GenerationState) bool {
	if s.IsTerminal() {
		return false
	}

	if next == GenerationStateFailed {
		return true
	}

	switch s {
	case GenerationStatePending:
		return next == GenerationStateReserved
	case GenerationStateReserved:
		return next == GenerationStateTextGenerating
	case GenerationStateTextGenerating:
		return next == GenerationStateTextValidating
	case GenerationStateTextValidating:
		return next == GenerationStateImagesGenerating
	case GenerationStateImagesGenerating:
		return next == GenerationStateFinalizing
	case GenerationStateFinalizing:
		return next == GenerationStateCompleted || next == GenerationStatePartiallyCompleted
	default:
		return false
	}
}
