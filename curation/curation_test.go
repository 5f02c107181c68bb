package curation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToggleIdempotence(t *testing.T) {
	original := NewSet("spam")

	once := original.Toggle("Lemonade")
	twice := once.Toggle("lemonade")

	require.True(t, once.IsInvalid("LEMONADE"))
	require.False(t, twice.IsInvalid("lemonade"))
	require.Equal(t, original.IsInvalid("lemonade"), twice.IsInvalid("lemonade"))
	require.Equal(t, original.Len(), twice.Len())
}

func TestToggleDoesNotMutateReceiver(t *testing.T) {
	original := NewSet()
	toggled := original.Toggle("bot")

	require.False(t, original.IsInvalid("bot"))
	require.True(t, toggled.IsInvalid("bot"))
}

func TestIsInvalidCaseInsensitive(t *testing.T) {
	s := NewSet("LeMoNaDe")

	require.True(t, s.IsInvalid("lemonade"))
	require.True(t, s.IsInvalid("LEMONADE"))
	require.False(t, s.IsInvalid("orange"))
}

func TestAnswers(t *testing.T) {
	s := NewSet("A", "b").Toggle("c")
	require.Equal(t, 3, s.Len())
	require.ElementsMatch(t, []string{"a", "b", "c"}, s.Answers())
}
