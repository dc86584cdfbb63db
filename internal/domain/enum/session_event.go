package enum

// SessionEventType is the kind of change pushed to a user's session stream
type SessionEventType string

const (
	SessionSignedIn         SessionEventType = "signed_in"
	SessionSignedOut        SessionEventType = "signed_out"
	SessionBusinessSwitched SessionEventType = "business_switched"
	SessionMilestoneReached SessionEventType = "milestone_reached"
)
