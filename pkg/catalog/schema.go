// pkg/catalog/schema.go
package catalog

import "mergington-activities/internal/common/validation"

// Catalog is the on-disk seed for the activity directory.
type Catalog struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Activities  []Activity `json:"activities"`
}

// Activity is one seeded activity. Participants is the initial roster.
type Activity struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

var catalogSchema = validation.MustCompile(`{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["activities"],
  "properties": {
    "version":     {"type": "string"},
    "lastUpdated": {"type": "string"},
    "activities": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["name", "description", "schedule", "max_participants", "participants"],
        "properties": {
          "name":             {"type": "string", "minLength": 1},
          "description":      {"type": "string"},
          "schedule":         {"type": "string"},
          "max_participants": {"type": "integer", "minimum": 1},
          "participants":     {"type": "array", "items": {"type": "string"}}
        },
        "additionalProperties": false
      }
    }
  }
}`)
