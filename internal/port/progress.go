package port

// ProgressSnapshot is the unit of progress observation. The same shape is
// served by the poll path and pushed on the subscribe path.
type ProgressSnapshot struct {
	Progress    int    `json:"progress_percentage"`
	CurrentStep string `json:"current_step"`
	ETASeconds  int    `json:"estimated_seconds_remaining"`
	Message     string `json:"message,omitempty"`
	// Link points at the resource the snapshot is about, when there is
	// something to navigate to (completion notifications carry one).
	Link string `json:"link,omitempty"`
}

// ProgressBroker is a topic-based pub/sub fabric for progress snapshots.
// Publish must never block on slow subscribers.
type ProgressBroker interface {
	Publish(topic string, snap ProgressSnapshot)
	// Subscribe returns a receive-only channel and an unsubscribe function.
	Subscribe(topic string) (<-chan ProgressSnapshot, func())
}
