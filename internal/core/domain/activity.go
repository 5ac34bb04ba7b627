package domain

import "time"

// ActivityKind names an auth event recorded in the activity trail.
type ActivityKind string

const (
	ActivityRegister ActivityKind = "register"
	ActivityLogin    ActivityKind = "login"
	ActivityRefresh  ActivityKind = "refresh"
	ActivityDelete   ActivityKind = "account_deleted"
)

// ActivityEvent is one entry of the auth activity trail.
type ActivityEvent struct {
	Kind       ActivityKind
	Username   string
	IdentityID int64 // zero when the identity is unknown
	Success    bool
	IP         string
	At         time.Time
}
