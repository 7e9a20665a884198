package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_NineActivities(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Len(t, c.Activities, 9)

	chess, ok := c.Find("Chess Club")
	require.True(t, ok)
	assert.Contains(t, chess.Participants, "michael@mergington.edu")

	tennis, ok := c.Find("Tennis Club")
	require.True(t, ok)
	assert.Equal(t, 10, tennis.MaxParticipants)

	drama, ok := c.Find("Drama Club")
	require.True(t, ok)
	assert.Contains(t, drama.Participants, "noah@mergington.edu")

	for _, name := range []string{"Programming Class", "Science Club", "Art Studio"} {
		_, ok := c.Find(name)
		assert.True(t, ok, name)
	}
}

func TestDefault_ReturnsFreshCopy(t *testing.T) {
	a := Default()
	a.Activities[0].Participants[0] = "mutated@mergington.edu"

	b := Default()
	assert.Equal(t, "michael@mergington.edu", b.Activities[0].Participants[0])
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "catalog.json")
	require.NoError(t, Save(path, Default()))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), loaded)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name:    "empty activities",
			doc:     `{"activities": []}`,
			wantErr: "schema validation failed",
		},
		{
			name:    "non-positive capacity",
			doc:     `{"activities": [{"name":"A","description":"","schedule":"","max_participants":0,"participants":[]}]}`,
			wantErr: "max_participants",
		},
		{
			name:    "participants not strings",
			doc:     `{"activities": [{"name":"A","description":"","schedule":"","max_participants":3,"participants":[1]}]}`,
			wantErr: "schema validation failed",
		},
		{
			name: "duplicate names",
			doc: `{"activities": [
				{"name":"A","description":"","schedule":"","max_participants":3,"participants":[]},
				{"name":"A","description":"","schedule":"","max_participants":3,"participants":[]}]}`,
			wantErr: "duplicate activity name: A",
		},
		{
			name:    "duplicate participant",
			doc:     `{"activities": [{"name":"A","description":"","schedule":"","max_participants":3,"participants":["x@m.edu","x@m.edu"]}]}`,
			wantErr: "duplicate participant x@m.edu",
		},
		{
			name:    "not json",
			doc:     `activities:`,
			wantErr: "failed to parse catalog",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.True(t, os.IsNotExist(err))
}
