// Package testutil provides shared test helpers for creating config files and
// question pack fixtures.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// SetupTestConfig creates a minimal config file and all required directories
// for testing. Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	dirs := []string{"pack_cache", "reports"}
	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, d), 0755))
	}

	// question_packs stays last so SetupTestConfigWithSeedFile can extend it
	configContent := fmt.Sprintf(`database:
  host: localhost
  port: 3306
  database: trainer_test
  username: test
outputs:
  report_directory: %s
server:
  port: 8080
question_packs:
  cache_directory: %s
`,
		filepath.Join(tmpDir, "reports"),
		filepath.Join(tmpDir, "pack_cache"),
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// SetupTestConfigWithSeedFile creates a config file pointing at a generated
// seed pack for tests that exercise imports.
func SetupTestConfigWithSeedFile(t *testing.T, tmpDir string) string {
	t.Helper()

	seedPath := CreateSeedPackFile(t, tmpDir, "starter")
	cfgPath := SetupTestConfig(t, tmpDir)

	content, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	content = append(content, []byte(fmt.Sprintf("  seed_file: %s\n", seedPath))...)
	require.NoError(t, os.WriteFile(cfgPath, content, 0644))
	return cfgPath
}

// CreateSeedPackFile writes a small question pack YAML file and returns its
// path.
func CreateSeedPackFile(t *testing.T, tmpDir, name string) string {
	t.Helper()

	packContent := fmt.Sprintf(`name: %s
version: "1"
questions:
  - id: seed-q-1
    archetype: ethical_dilemma
    difficulty_base: 3
    prompt_text: A colleague asks you to cover for a mistake they made.
    tags:
      - ethics
      - peers
  - id: seed-q-2
    archetype: roleplay
    difficulty_base: 2
    prompt_text: An upset customer demands a refund your policy does not allow.
`, name)

	packPath := filepath.Join(tmpDir, name+".yml")
	require.NoError(t, os.WriteFile(packPath, []byte(packContent), 0644))
	return packPath
}
