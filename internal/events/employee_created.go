// Package events holds the payloads published through the outbox.
package events

import "time"

// EmployeeCreatedTopic carries employee lifecycle events. The version
// suffix changes only on an incompatible payload change.
const EmployeeCreatedTopic = "evalyze.employee.lifecycle.v1"

// EmployeeCreatedEvent announces a freshly provisioned employee account.
// RequestID ties the event back to the API call that created the user.
type EmployeeCreatedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	UserID     string    `json:"user_id"`
	CompanyID  string    `json:"company_id"`
	Email      string    `json:"email"`
	OccurredAt time.Time `json:"occurred_at"`
}
