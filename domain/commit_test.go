package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommitInfo(t *testing.T) {
	line := "a1b2c3d ;;;;; Fix login redirect ;;;;; Jane Doe ;;;;; 3 hours ago ;;;;; 2026-10-18 09:12:44 +0200"

	info, err := ParseCommitInfo(line)
	require.NoError(t, err)

	assert.Equal(t, "a1b2c3d", info.Hash)
	assert.Equal(t, "Fix login redirect", info.Message)
	assert.Equal(t, "Jane Doe", info.Author)
	assert.Equal(t, "3 hours ago", info.RelativeTime)
	assert.Equal(t, "2026-10-18 09:12:44 +0200", info.ISOTimestamp)
}

func TestParseCommitInfo_MessageWithSemicolons(t *testing.T) {
	line := "a1b2c3d ;;;;; one; two;; three ;;;;; Jane ;;;;; now ;;;;; 2026-10-18 09:12:44 +0200"

	info, err := ParseCommitInfo(line)
	require.NoError(t, err)
	assert.Equal(t, "one; two;; three", info.Message)
	assert.Equal(t, "Jane", info.Author)
}

func TestParseCommitInfo_MissingFields(t *testing.T) {
	info, err := ParseCommitInfo("a1b2c3d ;;;;; Initial commit")
	require.NoError(t, err)

	assert.Equal(t, "a1b2c3d", info.Hash)
	assert.Equal(t, "Initial commit", info.Message)
	assert.Empty(t, info.Author)
	assert.Empty(t, info.ISOTimestamp)
}

func TestParseCommitInfo_Empty(t *testing.T) {
	_, err := ParseCommitInfo("  \n")
	assert.Error(t, err)
}

func TestCommitInfo_FormatRoundTrip(t *testing.T) {
	original := CommitInfo{
		Hash:         "deadbee",
		Message:      "Bump version",
		Author:       "Bot",
		RelativeTime: "2 days ago",
		ISOTimestamp: "2026-10-16 10:00:00 +0000",
	}

	parsed, err := ParseCommitInfo(original.Format())
	require.NoError(t, err)
	assert.Equal(t, original, parsed)
}
