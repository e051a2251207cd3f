package domain

import "time"

// Session pairs the authenticated Identity with its upstream Credential.
// The two share one lifecycle: a session record either holds both or does
// not exist at all, so no orphaned token or token-less identity can ever be
// observed.
type Session struct {
	ID         string    `json:"id" bson:"_id"`
	Identity   Identity  `json:"identity" bson:"identity"`
	Credential string    `json:"credential" bson:"credential"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updated_at"`
}

// AuthEventKind classifies entries in the auth audit trail.
type AuthEventKind string

const (
	AuthEventLogin            AuthEventKind = "login"
	AuthEventLoginFailed      AuthEventKind = "login_failed"
	AuthEventRegister         AuthEventKind = "register"
	AuthEventLogout           AuthEventKind = "logout"
	AuthEventPermissionDenied AuthEventKind = "permission_denied"
)

// AuthEvent is a single audit trail record. Detail carries the denied
// capability or module for permission_denied events and stays empty
// otherwise.
type AuthEvent struct {
	Kind      AuthEventKind
	Email     string
	SessionID string
	Detail    string
	Timestamp time.Time
}
