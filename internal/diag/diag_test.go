package diag

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	t.Run("Should retain and log entries", func(t *testing.T) {
		var buf bytes.Buffer
		c := NewCollector(zerolog.New(&buf))

		c.Report(Entry{Kind: UnreadableDir, Path: "secret", Message: "Failed to read directory", Err: errors.New("permission denied")})
		c.Report(Entry{Kind: DuplicateID, ID: "123", Message: "Duplicate translation id"})

		require.Equal(t, 2, c.Len())
		assert.Equal(t, 1, c.Count(UnreadableDir))
		assert.Equal(t, 1, c.Count(DuplicateID))
		assert.Equal(t, 0, c.Count(MultipleLocations))
		assert.Contains(t, buf.String(), `"path":"secret"`)
		assert.Contains(t, buf.String(), `"error":"permission denied"`)
		assert.Contains(t, buf.String(), `"id":"123"`)
	})

	t.Run("Should return a copy of entries", func(t *testing.T) {
		c := NewCollector(zerolog.Nop())
		c.Report(Entry{Kind: UnreadableFile, Path: "a.ts"})
		entries := c.Entries()
		entries[0].Path = "changed"
		assert.Equal(t, "a.ts", c.Entries()[0].Path)
	})

	t.Run("Should ignore reports on a nil collector", func(t *testing.T) {
		var c *Collector
		c.Report(Entry{Kind: UnreadableFile})
		assert.Equal(t, 0, c.Len())
		assert.Nil(t, c.Entries())
	})
}
