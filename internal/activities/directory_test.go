// internal/activities/directory_test.go
package activities

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	apperrors "mergington-activities/internal/common/errors"
	"mergington-activities/pkg/catalog"
)

func newTestDirectory() *Directory {
	return NewDirectory(catalog.Default())
}

func participants(t *testing.T, d *Directory, name string) []string {
	t.Helper()
	a, err := d.Get(name)
	require.NoError(t, err)
	return a.Participants
}

// ==========================
// Core Functionality Tests
// ==========================

func TestDirectory_ListSeed(t *testing.T) {
	d := newTestDirectory()
	all := d.List()

	assert.Len(t, all, 9)
	assert.Contains(t, all, "Chess Club")
	assert.Contains(t, all, "Programming Class")
	assert.Equal(t, 10, all["Tennis Club"].MaxParticipants)
	assert.Len(t, d.Names(), 9)
}

func TestDirectory_ListIsSnapshot(t *testing.T) {
	d := newTestDirectory()
	snap := d.List()
	snap["Chess Club"].Participants[0] = "hacked@mergington.edu"

	assert.Equal(t, "michael@mergington.edu", participants(t, d, "Chess Club")[0])
}

func TestDirectory_SeedIsCopied(t *testing.T) {
	c := catalog.Default()
	d := NewDirectory(c)
	c.Activities[0].Participants[0] = "changed@mergington.edu"

	assert.Contains(t, participants(t, d, "Chess Club"), "michael@mergington.edu")
}

func TestDirectory_SignUp(t *testing.T) {
	d := newTestDirectory()
	before := participants(t, d, "Programming Class")

	size, err := d.SignUp("Programming Class", "alice@mergington.edu")
	require.NoError(t, err)

	after := participants(t, d, "Programming Class")
	assert.Equal(t, len(before)+1, size)
	assert.Equal(t, len(before)+1, len(after))
	assert.Equal(t, "alice@mergington.edu", after[len(after)-1])
}

func TestDirectory_SignUpDuplicate(t *testing.T) {
	d := newTestDirectory()
	before := participants(t, d, "Chess Club")

	_, err := d.SignUp("Chess Club", "michael@mergington.edu")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeAlreadySignedUp))
	assert.Contains(t, err.(*apperrors.StandardError).Message, "already signed up")
	assert.Equal(t, before, participants(t, d, "Chess Club"))
}

func TestDirectory_UnknownActivity(t *testing.T) {
	d := newTestDirectory()

	_, err := d.SignUp("Nonexistent Activity", "student@mergington.edu")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeActivityNotFound))

	_, err = d.Unregister("Fake Activity", "student@mergington.edu")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeActivityNotFound))

	_, err = d.Get("Fake Activity")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeActivityNotFound))
}

func TestDirectory_Unregister(t *testing.T) {
	d := newTestDirectory()
	before := participants(t, d, "Drama Club")

	size, err := d.Unregister("Drama Club", "noah@mergington.edu")
	require.NoError(t, err)

	after := participants(t, d, "Drama Club")
	assert.Equal(t, len(before)-1, size)
	assert.NotContains(t, after, "noah@mergington.edu")
}

func TestDirectory_UnregisterNotMember(t *testing.T) {
	d := newTestDirectory()
	before := participants(t, d, "Chess Club")

	_, err := d.Unregister("Chess Club", "notsignedupstudent@mergington.edu")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeNotSignedUp))
	assert.Equal(t, before, participants(t, d, "Chess Club"))
}

func TestDirectory_OverfillAllowed(t *testing.T) {
	d := newTestDirectory()
	tennis, err := d.Get("Tennis Club")
	require.NoError(t, err)

	for i := 0; len(participants(t, d, "Tennis Club")) < tennis.MaxParticipants; i++ {
		_, err := d.SignUp("Tennis Club", fmt.Sprintf("student%d@mergington.edu", i))
		require.NoError(t, err)
	}

	size, err := d.SignUp("Tennis Club", "overflow@mergington.edu")
	require.NoError(t, err, "capacity is advisory")
	assert.Equal(t, tennis.MaxParticipants+1, size)
}

// ==========================
// Property-Based Tests
// ==========================

func TestDirectory_SignUpThenUnregisterRestoresRoster(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		d := newTestDirectory()
		name := rapid.SampledFrom(d.Names()).Draw(rt, "activity")
		email := rapid.StringMatching(`[a-z]{1,12}@mergington\.edu`).Draw(rt, "email")

		before, _ := d.Get(name)
		if contains(before.Participants, email) {
			rt.Skip("email already seeded")
		}

		if _, err := d.SignUp(name, email); err != nil {
			rt.Fatalf("signup: %v", err)
		}
		if _, err := d.Unregister(name, email); err != nil {
			rt.Fatalf("unregister: %v", err)
		}

		after, _ := d.Get(name)
		if fmt.Sprint(before.Participants) != fmt.Sprint(after.Participants) {
			rt.Fatalf("roster changed: %v -> %v", before.Participants, after.Participants)
		}
	})
}

func TestDirectory_RosterStaysUnique(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		d := newTestDirectory()
		names := append(d.Names(), "Nonexistent Activity")
		emails := []string{"a@mergington.edu", "b@mergington.edu", "michael@mergington.edu", ""}

		steps := rapid.IntRange(1, 60).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			name := rapid.SampledFrom(names).Draw(rt, "activity")
			email := rapid.SampledFrom(emails).Draw(rt, "email")

			before, getErr := d.Get(name)
			var size int
			var err error
			signup := rapid.Bool().Draw(rt, "signup")
			if signup {
				size, err = d.SignUp(name, email)
			} else {
				size, err = d.Unregister(name, email)
			}

			if getErr != nil {
				if !apperrors.IsCode(err, apperrors.ErrCodeActivityNotFound) {
					rt.Fatalf("expected not found for %q, got %v", name, err)
				}
				continue
			}

			member := contains(before.Participants, email)
			switch {
			case signup && member:
				if !apperrors.IsCode(err, apperrors.ErrCodeAlreadySignedUp) || size != len(before.Participants) {
					rt.Fatalf("duplicate signup accepted for %q", email)
				}
			case signup:
				if err != nil || size != len(before.Participants)+1 {
					rt.Fatalf("signup failed: %v", err)
				}
			case member:
				if err != nil || size != len(before.Participants)-1 {
					rt.Fatalf("unregister failed: %v", err)
				}
			default:
				if !apperrors.IsCode(err, apperrors.ErrCodeNotSignedUp) || size != len(before.Participants) {
					rt.Fatalf("unregister of non-member accepted for %q", email)
				}
			}

			after, _ := d.Get(name)
			seen := map[string]bool{}
			for _, p := range after.Participants {
				if seen[p] {
					rt.Fatalf("duplicate %q in %s", p, name)
				}
				seen[p] = true
			}
		}
	})
}

// ==========================
// Concurrency Tests
// ==========================

func TestDirectory_ConcurrentDuplicateSignUps(t *testing.T) {
	d := newTestDirectory()
	const workers = 64

	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := d.SignUp("Art Studio", "race@mergington.edu"); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	count := 0
	for _, p := range participants(t, d, "Art Studio") {
		if p == "race@mergington.edu" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestDirectory_ConcurrentDistinctSignUpsAndReads(t *testing.T) {
	d := newTestDirectory()
	before := len(participants(t, d, "Gym Class"))
	const workers = 50

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_, err := d.SignUp("Gym Class", fmt.Sprintf("student%d@mergington.edu", i))
			assert.NoError(t, err)
		}(i)
		go func() {
			defer wg.Done()
			_ = d.List()
		}()
	}
	wg.Wait()

	assert.Len(t, participants(t, d, "Gym Class"), before+workers)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
