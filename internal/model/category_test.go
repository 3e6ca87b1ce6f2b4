package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCategorySetResolve(t *testing.T) {
	set := NewCategorySet(nil)

	require.Equal(t, "Health", set.Resolve("health").Label)
	require.Equal(t, "Urgent", set.Resolve(UrgentCategoryID).Label)

	// Unknown ids fall back to the default entry instead of failing.
	fallback := set.Resolve("gardening")
	require.Equal(t, "work", fallback.ID)
	require.Equal(t, fallback, set.Resolve(""))

	require.True(t, set.Known("other"))
	require.False(t, set.Known("gardening"))
}

func TestCategorySetCustomTable(t *testing.T) {
	set := NewCategorySet([]Category{
		{ID: "deep-work", Label: "Deep work", Color: "violet"},
		{ID: "errands", Label: "Errands", Color: "amber"},
	})

	require.Len(t, set.All(), 2)
	require.Equal(t, "Errands", set.Resolve("errands").Label)
	require.Equal(t, "deep-work", set.Resolve("nope").ID)
}
