package cmd

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/jensneuse/abstractlogger"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/wundergraph/graphql-go-compiler/pkg/compiler"
	"github.com/wundergraph/graphql-go-compiler/pkg/config"
	"github.com/wundergraph/graphql-go-compiler/pkg/schema"
)

// workspace is a loaded configuration. Paths in the configuration are relative to the
// directory of the configuration file and use filepath.Match patterns.
type workspace struct {
	dir    string
	config config.Config
	logger abstractlogger.Logger
	sync   func()
}

func loadWorkspace() (*workspace, error) {
	path := viper.GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	logger, sync, err := newLogger(level)
	if err != nil {
		return nil, err
	}
	return &workspace{
		dir:    filepath.Dir(path),
		config: cfg,
		logger: logger,
		sync:   sync,
	}, nil
}

// projects returns the project called name, or all projects when name is empty.
func (w *workspace) projects(name string) ([]config.Project, error) {
	if name == "" {
		return w.config.Projects, nil
	}
	project, ok := w.config.Project(name)
	if !ok {
		return nil, errors.Errorf("unknown project %s", name)
	}
	return []config.Project{project}, nil
}

// compiler loads the schema and documents of project. Nothing is compiled yet.
func (w *workspace) compiler(project config.Project) (*compiler.Compiler, error) {
	server, err := w.readFiles(project.Schema)
	if err != nil {
		return nil, err
	}
	if len(server) == 0 {
		return nil, errors.Errorf("project %s: no schema files found", project.Name)
	}
	extensions, err := w.readFiles(project.SchemaExtensions)
	if err != nil {
		return nil, err
	}
	s, err := schema.Load(sources(server), sources(extensions))
	if err != nil {
		return nil, errors.WithMessagef(err, "project %s", project.Name)
	}

	documents, err := w.readFiles(project.Documents)
	if err != nil {
		return nil, err
	}
	baseDocuments, err := w.readFiles(project.BaseDocuments)
	if err != nil {
		return nil, err
	}

	c, err := compiler.New(project, s, compiler.WithLogger(w.logger))
	if err != nil {
		return nil, err
	}
	c.Apply(compiler.Changes{Documents: documents, BaseDocuments: baseDocuments})
	return c, nil
}

func (w *workspace) compilers(projectName string) ([]*compiler.Compiler, error) {
	projects, err := w.projects(projectName)
	if err != nil {
		return nil, err
	}
	compilers := make([]*compiler.Compiler, 0, len(projects))
	for _, project := range projects {
		c, err := w.compiler(project)
		if err != nil {
			return nil, err
		}
		compilers = append(compilers, c)
	}
	return compilers, nil
}

// readFiles reads the files matching patterns, keyed by their path relative to the
// workspace directory.
func (w *workspace) readFiles(patterns []string) (map[string]string, error) {
	files := make(map[string]string)
	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(w.dir, pattern))
		if err != nil {
			return nil, errors.Wrapf(err, "pattern %s", pattern)
		}
		for _, match := range matches {
			content, err := os.ReadFile(match)
			if err != nil {
				return nil, errors.Wrapf(err, "reading %s", match)
			}
			name, err := filepath.Rel(w.dir, match)
			if err != nil {
				name = match
			}
			files[filepath.ToSlash(name)] = string(content)
		}
	}
	return files, nil
}

func sources(files map[string]string) []*ast.Source {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]*ast.Source, len(names))
	for i, name := range names {
		out[i] = &ast.Source{Name: name, Input: files[name]}
	}
	return out
}

func compileAll(ctx context.Context, projectName string) ([]*compiler.Result, []*compiler.Compiler, error) {
	w, err := loadWorkspace()
	if err != nil {
		return nil, nil, err
	}
	defer w.sync()

	compilers, err := w.compilers(projectName)
	if err != nil {
		return nil, nil, err
	}
	results, err := compiler.CompileAll(ctx, compilers)
	if err != nil {
		return nil, nil, err
	}
	return results, compilers, nil
}
