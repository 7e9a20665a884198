// pkg/catalog/catalog.go
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Load reads a seed catalog file and validates it.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse validates raw JSON against the catalog schema, decodes it and checks
// the invariants a schema cannot express.
func Parse(data []byte) (*Catalog, error) {
	res, err := catalogSchema.ValidateBytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := res.Err(); err != nil {
		return nil, err
	}

	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks name uniqueness and per-roster email uniqueness.
func (c *Catalog) Validate() error {
	if len(c.Activities) == 0 {
		return fmt.Errorf("catalog contains no activities")
	}

	names := make(map[string]bool, len(c.Activities))
	for _, a := range c.Activities {
		if a.Name == "" {
			return fmt.Errorf("activity missing required field: name")
		}
		if names[a.Name] {
			return fmt.Errorf("duplicate activity name: %s", a.Name)
		}
		names[a.Name] = true

		if a.MaxParticipants < 1 {
			return fmt.Errorf("activity %s: max_participants must be positive", a.Name)
		}

		seen := make(map[string]bool, len(a.Participants))
		for _, email := range a.Participants {
			if seen[email] {
				return fmt.Errorf("activity %s: duplicate participant %s", a.Name, email)
			}
			seen[email] = true
		}
	}
	return nil
}

// Save writes the catalog as indented JSON, creating parent directories.
func Save(path string, c *Catalog) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write catalog file: %w", err)
	}
	return nil
}

// Find returns the activity with the given name.
func (c *Catalog) Find(name string) (*Activity, bool) {
	for i := range c.Activities {
		if c.Activities[i].Name == name {
			return &c.Activities[i], true
		}
	}
	return nil, false
}
