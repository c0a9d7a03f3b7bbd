package ignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestCompile(t *testing.T) {
	rules := Compile([]string{
		"# build output",
		"",
		"dist/",
		"*.spec.ts",
		"!keep.spec.ts",
		"/root-only.ts",
	})

	t.Run("Should skip comments and blank lines", func(t *testing.T) {
		assert.Equal(t, 4, rules.Len())
	})

	t.Run("Should deny directory patterns only for directories", func(t *testing.T) {
		assert.True(t, rules.Denies("dist", true))
		assert.True(t, rules.Denies(filepath.Join("packages", "dist"), true))
		assert.False(t, rules.Denies("dist", false))
	})

	t.Run("Should apply negations after denials", func(t *testing.T) {
		assert.False(t, rules.Accepts("app/main.spec.ts"))
		assert.True(t, rules.Accepts("app/keep.spec.ts"))
	})

	t.Run("Should anchor rooted patterns", func(t *testing.T) {
		assert.True(t, rules.Denies("root-only.ts", false))
		assert.False(t, rules.Denies("sub/root-only.ts", false))
	})

	t.Run("Should accept everything with empty rules", func(t *testing.T) {
		empty := Compile(nil)
		assert.True(t, empty.Accepts("anything.ts"))
		assert.False(t, empty.Denies("node_modules", true))
	})
}

func TestLoad(t *testing.T) {
	t.Run("Should return empty rules when the file is missing", func(t *testing.T) {
		rules, err := Load(t.TempDir(), ".gitignore", false)
		require.NoError(t, err)
		assert.Equal(t, 0, rules.Len())
		assert.True(t, rules.Accepts("src/app.ts"))
	})

	t.Run("Should read the root ignore file", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, ".gitignore"), "node_modules/\r\n*.gen.ts\n")
		rules, err := Load(dir, ".gitignore", false)
		require.NoError(t, err)
		assert.True(t, rules.Denies("node_modules", true))
		assert.False(t, rules.Accepts("src/api.gen.ts"))
	})

	t.Run("Should honour a custom file name", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, ".localizeignore"), "legacy/\n")
		rules, err := Load(dir, ".localizeignore", false)
		require.NoError(t, err)
		assert.True(t, rules.Denies("legacy", true))
	})

	t.Run("Should ignore nested files unless asked", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, ".gitignore"), "tmp/\n")
		writeFile(t, filepath.Join(dir, "lib", ".gitignore"), "*.ts\n")

		flat, err := Load(dir, ".gitignore", false)
		require.NoError(t, err)
		assert.True(t, flat.Accepts("lib/a.ts"))

		nested, err := Load(dir, ".gitignore", true)
		require.NoError(t, err)
		assert.True(t, nested.Denies("tmp", true))
		assert.False(t, nested.Accepts("lib/a.ts"))
		assert.True(t, nested.Accepts("app/a.ts"))
	})

	t.Run("Should report an unreadable ignore file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(dir, ".gitignore"), 0o755))
		rules, err := Load(dir, ".gitignore", false)
		require.Error(t, err)
		assert.True(t, rules.Accepts("a.ts"))
	})
}
