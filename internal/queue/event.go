// Package queue defines the audit messages exchanged over RabbitMQ and the
// consumer that persists them.
package queue

import "time"

// Audit event types.
const (
    EventUserRegistered     = "user.registered"
    EventLoginFailed        = "user.login_failed"
    EventSessionCreated     = "session.created"
    EventSessionRotated     = "session.rotated"
    EventSessionRevoked     = "session.revoked"
    EventSessionsRevokedAll = "session.revoked_all"
    EventCustomerCreated    = "customer.created"
    EventCustomerUpdated    = "customer.updated"
    EventCustomerDeleted    = "customer.deleted"
    EventMeasurementAdded   = "measurement.created"
    EventMeasurementUpdated = "measurement.updated"
    EventMeasurementDeleted = "measurement.deleted"
)

// AuditEvent is published on every authentication state change and every
// resource mutation.  It carries enough context for the audit log without
// querying the primary database.  Credentials and tokens are never part of
// an event.
type AuditEvent struct {
    Type      string    `json:"type"`
    UserID    string    `json:"user_id,omitempty"`
    Email     string    `json:"email,omitempty"`
    SubjectID string    `json:"subject_id,omitempty"` // customer, measurement or session id
    At        time.Time `json:"at"`
}
