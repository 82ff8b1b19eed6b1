// Package config loads the projects a compiler run builds.
package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

const EnvPrefix = "GQLC"

type Config struct {
	LogLevel string    `mapstructure:"log_level" yaml:"log_level"`
	Projects []Project `mapstructure:"projects" yaml:"projects"`
}

// Project is one schema with the documents compiled against it.
type Project struct {
	Name             string   `mapstructure:"name" yaml:"name"`
	Schema           []string `mapstructure:"schema" yaml:"schema"`
	SchemaExtensions []string `mapstructure:"schema_extensions" yaml:"schema_extensions,omitempty"`
	Documents        []string `mapstructure:"documents" yaml:"documents"`
	// BaseDocuments hold library fragments: they are referenced but compiled by their owner.
	BaseDocuments  []string `mapstructure:"base_documents" yaml:"base_documents,omitempty"`
	Parallel       bool     `mapstructure:"parallel" yaml:"parallel"`
	PersistQueries bool     `mapstructure:"persist_queries" yaml:"persist_queries"`
	Features       Features `mapstructure:"features" yaml:"features"`
}

type Features struct {
	EnableRelayResolvers       bool `mapstructure:"enable_relay_resolvers" yaml:"enable_relay_resolvers"`
	EnableFlatten              bool `mapstructure:"enable_flatten" yaml:"enable_flatten"`
	GenerateTypenameOnAllTypes bool `mapstructure:"generate_typename_on_all_types" yaml:"generate_typename_on_all_types"`
}

func Default() Config {
	return Config{
		LogLevel: "info",
		Projects: []Project{DefaultProject("default")},
	}
}

func DefaultProject(name string) Project {
	return Project{
		Name:      name,
		Schema:    []string{"schema.graphql"},
		Documents: []string{"src/*.graphql"},
		Parallel:  true,
		Features: Features{
			EnableRelayResolvers: true,
			EnableFlatten:        true,
		},
	}
}

// Load reads the config file at path. Every setting can be overridden by an environment
// variable prefixed with GQLC, e.g. GQLC_LOG_LEVEL.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("log_level", "info")

	if err := v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrapf(err, "reading config %s", path)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, errors.Wrapf(err, "decoding config %s", path)
	}
	if err := config.Validate(); err != nil {
		return Config{}, errors.WithMessagef(err, "config %s", path)
	}
	return config, nil
}

func (c Config) Validate() error {
	if len(c.Projects) == 0 {
		return errors.New("no projects configured")
	}
	names := make(map[string]struct{}, len(c.Projects))
	for i, project := range c.Projects {
		if project.Name == "" {
			return errors.Errorf("project %d has no name", i)
		}
		if _, ok := names[project.Name]; ok {
			return errors.Errorf("project %s is configured twice", project.Name)
		}
		names[project.Name] = struct{}{}
		if len(project.Schema) == 0 {
			return errors.Errorf("project %s has no schema", project.Name)
		}
	}
	return nil
}

func (c Config) Project(name string) (Project, bool) {
	for _, project := range c.Projects {
		if project.Name == name {
			return project, true
		}
	}
	return Project{}, false
}

func (c Config) YAML() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, "encoding config")
	}
	return out, nil
}
