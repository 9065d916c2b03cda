// Package queue publishes payment reconciliation events to RabbitMQ for
// operator follow-up.
package queue

// ResolutionConflictEvent is emitted when a payment webhook carries an
// outcome that contradicts the intent's terminal state (for example success
// after failed). Conflicts are never auto-corrected; an operator consumes
// this queue and reconciles against the provider's records.
type ResolutionConflictEvent struct {
	ExternalReference string `json:"external_reference"`
	AttemptedStatus   string `json:"attempted_status"`
	CurrentStatus     string `json:"current_status"`
	OccurredAt        string `json:"occurred_at"`
}
