package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDictionaryEntry(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	entry, err := NewDictionaryEntry(42, 7, now)
	require.NoError(t, err)

	assert.Equal(t, int64(42), entry.UserID)
	assert.Equal(t, int64(7), entry.WordID)
	assert.Equal(t, 0, entry.Level)
	assert.Equal(t, now, entry.AddedAt)
	assert.True(t, entry.IsDue(now), "a fresh entry must be due immediately")
}

func TestNewDictionaryEntryValidation(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()

	_, err := NewDictionaryEntry(0, 7, now)
	assert.ErrorIs(t, err, ErrEntryInvalidUser)

	_, err = NewDictionaryEntry(42, 0, now)
	assert.ErrorIs(t, err, ErrEntryInvalidWord)
}

func TestDictionaryEntryIsDue(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	entry := DictionaryEntry{UserID: 1, WordID: 1, NextReviewAt: now.Add(time.Hour)}

	assert.False(t, entry.IsDue(now))
	assert.True(t, entry.IsDue(now.Add(time.Hour)), "due exactly at next_review_at")
	assert.True(t, entry.IsDue(now.Add(2*time.Hour)))
}
