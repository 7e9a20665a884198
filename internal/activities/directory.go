// internal/activities/directory.go
package activities

import (
	"sort"
	"sync"

	apperrors "mergington-activities/internal/common/errors"
	"mergington-activities/internal/models"
	"mergington-activities/pkg/catalog"
)

// roster is one activity plus the lock guarding its participant list.
type roster struct {
	mu              sync.Mutex
	description     string
	schedule        string
	maxParticipants int
	participants    []string
}

// Directory is the in-memory activity table. The set of names is fixed at
// construction, so the map itself is read-only and only rosters are locked.
type Directory struct {
	rosters map[string]*roster
	names   []string
}

// NewDirectory seeds a directory from a catalog. The catalog is copied;
// later changes to it do not affect the directory.
func NewDirectory(c *catalog.Catalog) *Directory {
	d := &Directory{
		rosters: make(map[string]*roster, len(c.Activities)),
		names:   make([]string, 0, len(c.Activities)),
	}
	for _, a := range c.Activities {
		participants := make([]string, len(a.Participants))
		copy(participants, a.Participants)
		d.rosters[a.Name] = &roster{
			description:     a.Description,
			schedule:        a.Schedule,
			maxParticipants: a.MaxParticipants,
			participants:    participants,
		}
		d.names = append(d.names, a.Name)
	}
	sort.Strings(d.names)
	return d
}

// Names returns the activity names in sorted order.
func (d *Directory) Names() []string {
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}

// List returns a snapshot of every activity. Each roster is copied under
// its own lock.
func (d *Directory) List() models.Directory {
	out := make(models.Directory, len(d.rosters))
	for name, r := range d.rosters {
		out[name] = r.snapshot()
	}
	return out
}

// Get returns a snapshot of one activity.
func (d *Directory) Get(name string) (models.Activity, error) {
	r, ok := d.rosters[name]
	if !ok {
		return models.Activity{}, apperrors.NewActivityNotFoundError(name)
	}
	return r.snapshot(), nil
}

// SignUp appends email to the named roster and returns the new roster size.
// Capacity is advisory: a full activity still accepts sign-ups.
func (d *Directory) SignUp(name, email string) (int, error) {
	r, ok := d.rosters[name]
	if !ok {
		return 0, apperrors.NewActivityNotFoundError(name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(email) >= 0 {
		return len(r.participants), apperrors.NewAlreadySignedUpError(name, email)
	}
	r.participants = append(r.participants, email)
	return len(r.participants), nil
}

// Unregister removes email from the named roster and returns the new size.
func (d *Directory) Unregister(name, email string) (int, error) {
	r, ok := d.rosters[name]
	if !ok {
		return 0, apperrors.NewActivityNotFoundError(name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(email)
	if i < 0 {
		return len(r.participants), apperrors.NewNotSignedUpError(name, email)
	}
	r.participants = append(r.participants[:i], r.participants[i+1:]...)
	return len(r.participants), nil
}

func (r *roster) snapshot() models.Activity {
	r.mu.Lock()
	defer r.mu.Unlock()

	participants := make([]string, len(r.participants))
	copy(participants, r.participants)
	return models.Activity{
		Description:     r.description,
		Schedule:        r.schedule,
		MaxParticipants: r.maxParticipants,
		Participants:    participants,
	}
}

// indexOf must be called with r.mu held.
func (r *roster) indexOf(email string) int {
	for i, p := range r.participants {
		if p == email {
			return i
		}
	}
	return -1
}
