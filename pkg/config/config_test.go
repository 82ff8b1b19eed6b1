package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

const testConfig = `
log_level: debug
projects:
  - name: app
    schema:
      - schema/server.graphql
    schema_extensions:
      - schema/client.graphql
    documents:
      - src/*.graphql
    base_documents:
      - lib/*.graphql
    parallel: true
    persist_queries: true
    features:
      enable_relay_resolvers: true
      enable_flatten: true
  - name: admin
    schema:
      - schema/admin.graphql
    documents:
      - admin/**/*.graphql
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gqlc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("projects", func(t *testing.T) {
		config, err := Load(writeConfig(t, testConfig))
		require.NoError(t, err)

		assert.Equal(t, "debug", config.LogLevel)
		require.Len(t, config.Projects, 2)
		assert.Equal(t, Project{
			Name:             "app",
			Schema:           []string{"schema/server.graphql"},
			SchemaExtensions: []string{"schema/client.graphql"},
			Documents:        []string{"src/*.graphql"},
			BaseDocuments:    []string{"lib/*.graphql"},
			Parallel:         true,
			PersistQueries:   true,
			Features: Features{
				EnableRelayResolvers: true,
				EnableFlatten:        true,
			},
		}, config.Projects[0])

		admin, ok := config.Project("admin")
		require.True(t, ok)
		assert.False(t, admin.Parallel)
		assert.Empty(t, admin.BaseDocuments)
	})
	t.Run("log level defaults to info", func(t *testing.T) {
		config, err := Load(writeConfig(t, "projects:\n  - name: app\n    schema: [schema.graphql]\n"))
		require.NoError(t, err)
		assert.Equal(t, "info", config.LogLevel)
	})
	t.Run("environment overrides the file", func(t *testing.T) {
		t.Setenv("GQLC_LOG_LEVEL", "error")
		config, err := Load(writeConfig(t, testConfig))
		require.NoError(t, err)
		assert.Equal(t, "error", config.LogLevel)
	})
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})
	t.Run("invalid config", func(t *testing.T) {
		_, err := Load(writeConfig(t, "projects:\n  - name: app\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "project app has no schema")
	})
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Default().Validate())
	assert.EqualError(t, Config{}.Validate(), "no projects configured")
	assert.EqualError(t, Config{Projects: []Project{{Schema: []string{"s"}}}}.Validate(), "project 0 has no name")

	duplicate := Config{Projects: []Project{DefaultProject("a"), DefaultProject("a")}}
	assert.EqualError(t, duplicate.Validate(), "project a is configured twice")
}

func TestYAML(t *testing.T) {
	out, err := Default().YAML()
	require.NoError(t, err)

	var decoded Config
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	assert.Equal(t, Default(), decoded)

	loaded, err := Load(writeConfig(t, string(out)))
	require.NoError(t, err)
	assert.Equal(t, Default(), loaded)
}
