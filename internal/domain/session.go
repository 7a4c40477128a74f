package domain

// SessionMode is the coaching session lifecycle state.
type SessionMode string

const (
	SessionIdle     SessionMode = "IDLE"
	SessionWatching SessionMode = "WATCHING"
)

// String returns the string representation of SessionMode.
func (m SessionMode) String() string {
	return string(m)
}

// SessionSnapshot is the read-only view of session state handed to the API
// layer and pushed to connected clients.
type SessionSnapshot struct {
	SessionID        string       `json:"sessionId,omitempty"`
	Mode             SessionMode  `json:"mode"`
	SwingCount       int          `json:"swingCount"`
	Handedness       Handedness   `json:"handedness"`
	LockedUntilMs    int64        `json:"lockedUntilMs,omitempty"`
	LastResult       *SwingResult `json:"lastResult,omitempty"`
	ProviderDegraded bool         `json:"providerDegraded,omitempty"`
}
