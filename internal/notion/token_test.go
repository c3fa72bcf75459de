package notion

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTokenFrom(t *testing.T) {
	root := t.TempDir()
	deep := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(deep, 0o755))

	t.Run("environment", func(t *testing.T) {
		t.Setenv("TEST_NOTION_TOKEN", " from-env ")
		token, err := LoadTokenFrom(deep, "TEST_NOTION_TOKEN", ".env")
		require.NoError(t, err)
		assert.Equal(t, "from-env", token)
	})

	t.Run("missing", func(t *testing.T) {
		t.Setenv("TEST_NOTION_TOKEN", "")
		_, err := LoadTokenFrom(deep, "TEST_NOTION_TOKEN", "nonesuch.env")
		assert.True(t, errors.Is(err, ErrNoToken), "got %v", err)
	})

	t.Run("dotenv in parent", func(t *testing.T) {
		t.Setenv("TEST_NOTION_TOKEN", "")
		require.NoError(t, os.WriteFile(filepath.Join(root, "secret.env"),
			[]byte("# integration\nTEST_NOTION_TOKEN=\"from-file\"\n"), 0o600))
		token, err := LoadTokenFrom(deep, "TEST_NOTION_TOKEN", "secret.env")
		require.NoError(t, err)
		assert.Equal(t, "from-file", token)
	})
}
