// Package queue defines message payloads exchanged over the message broker
// and the consumer that records them.
package queue

// ThresholdQueriedQueue is the durable queue audit events are sent to.
const ThresholdQueriedQueue = "threshold.queried"

// ThresholdQueriedEvent is published after every successful threshold
// query so teachers can review which cut-offs were looked at. Threshold is
// a string because JSON cannot carry ±Inf.
type ThresholdQueriedEvent struct {
	EventID   string `json:"event_id"`
	RequestID string `json:"request_id,omitempty"`
	Threshold string `json:"threshold"`
	Count     int    `json:"count"`
	Roster    int    `json:"roster_size"`
	QueriedAt string `json:"queried_at"`
}
