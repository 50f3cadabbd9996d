package history

import (
	"context"
	"os"
	"path/filepath"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppendAndLoadRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "history.json")
	store := NewStore(path)

	first := NewEntry("https://youtu.be/abc", "gemini", "", "# Title\nbody")
	second := NewEntry("https://youtu.be/def", "openai", "foque em economia", "resumo")
	require.NoError(t, store.Append(context.Background(), first))
	require.NoError(t, store.Append(context.Background(), second))

	got, err := store.Load()
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, first.ID, got[0].ID)
	require.Equal(t, "foque em economia", got[1].PromptSupplement)
	require.NotEqual(t, got[0].ID, got[1].ID)
}

func TestConcurrentAppendsKeepEveryEntry(t *testing.T) {
	t.Parallel()

	store := NewStore(filepath.Join(t.TempDir(), "history.json"))
	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			entry := NewEntry(fmt.Sprintf("https://youtu.be/%d", i), "gemini", "", "resumo")
			errs <- store.Append(context.Background(), entry)
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := store.Load()
	require.NoError(t, err)
	require.Len(t, got, writers)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := NewStore(filepath.Join(t.TempDir(), "missing.json")).Load()
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadEmptyFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o644))
	got, err := NewStore(path).Load()
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestAppendRejectsCorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "corrupt.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	err := NewStore(path).Append(context.Background(), NewEntry("u", "gemini", "", "s"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "parse history")
}

func TestAppendWithoutPath(t *testing.T) {
	t.Parallel()

	require.Error(t, NewStore("").Append(context.Background(), Entry{}))
}

func TestEntryTitle(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Capítulo 1", Entry{Summary: "\n## Capítulo 1\ntexto"}.Title())
	require.Equal(t, "Primeira linha", Entry{Summary: "Primeira linha\nsegunda"}.Title())
	require.Equal(t, "https://youtu.be/x", Entry{URL: "https://youtu.be/x"}.Title())

	long := Entry{Summary: "# " + strings.Repeat("a", 80)}.Title()
	require.True(t, strings.HasSuffix(long, "…"))
	require.Len(t, []rune(long), 58)
}
