// Package orchestrator sequences one generation request through its
// pipeline: reserve credits, generate and validate the text bundle, fan
// image variants out concurrently, and settle the reservation. It owns
// the state machine and the ledger reconciliation guarantee; providers,
// retry policy, metering, prompts, and validation are collaborators
// injected at construction.
package orchestrator
