package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cownect/cownect-backend/internal/modules/careers/catalog"
)

func TestParseExampleClubs(t *testing.T) {
	cat, err := catalog.Load()
	require.NoError(t, err)
	data, err := os.ReadFile("clubs.example.yaml")
	require.NoError(t, err)

	clubs, err := parseClubs(data, cat)
	require.NoError(t, err)
	require.Len(t, clubs, 4)
	assert.Equal(t, "Davis Robotics Club", clubs[0].Name)
	assert.True(t, clubs[0].Active)
	assert.Equal(t, []string{"hardware", "Robotics Engineer"}, []string(clubs[0].CareerTags))
}

func TestParseClubsRejectsBadEntries(t *testing.T) {
	cat, err := catalog.Load()
	require.NoError(t, err)

	_, err = parseClubs([]byte("clubs:\n  - name: Chess Club\n    career_tags: [Grandmaster]\n"), cat)
	assert.ErrorContains(t, err, `unknown career tag "Grandmaster"`)

	_, err = parseClubs([]byte("clubs:\n  - name: A\n  - name: a\n"), cat)
	assert.ErrorContains(t, err, "duplicate name")

	_, err = parseClubs([]byte("clubs:\n  - description: nameless\n"), cat)
	assert.ErrorContains(t, err, "name is required")
}
