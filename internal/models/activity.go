// internal/models/activity.go
package models

// Activity is the public record of one activity as returned by
// GET /activities.
type Activity struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// Directory maps activity name to its record.
type Directory map[string]Activity

// MessageResponse is the body of a successful roster change.
type MessageResponse struct {
	Message string `json:"message"`
}
