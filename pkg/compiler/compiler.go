// Package compiler drives incremental builds of a project.
//
// A Compiler keeps the documents of one project. Every update rebuilds the IR of all
// documents, compares it with the previous build and only runs the transform pipeline for
// the definitions affected by the change.
package compiler

import (
	"context"
	"sort"
	"sync"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru"
	"github.com/jensneuse/abstractlogger"
	"github.com/pkg/errors"
	"github.com/vektah/gqlparser/v2/ast"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/wundergraph/graphql-go-compiler/pkg/config"
	"github.com/wundergraph/graphql-go-compiler/pkg/depgraph"
	"github.com/wundergraph/graphql-go-compiler/pkg/intern"
	"github.com/wundergraph/graphql-go-compiler/pkg/ir"
	"github.com/wundergraph/graphql-go-compiler/pkg/irbuilder"
	"github.com/wundergraph/graphql-go-compiler/pkg/irprinter"
	"github.com/wundergraph/graphql-go-compiler/pkg/pipeline"
	"github.com/wundergraph/graphql-go-compiler/pkg/schema"
	"github.com/wundergraph/graphql-go-compiler/pkg/transforms"
)

const defaultParseCacheSize = 1024

type Option func(c *Compiler)

func WithLogger(logger abstractlogger.Logger) Option {
	return func(c *Compiler) {
		c.logger = logger
	}
}

// WithParseCacheSize bounds the number of parsed documents kept between builds.
func WithParseCacheSize(size int) Option {
	return func(c *Compiler) {
		c.parseCacheSize = size
	}
}

type document struct {
	input string
	base  bool
}

// Changes are applied to the documents of a compiler by Update. Paths are document names,
// they are used as source names in diagnostics.
type Changes struct {
	Documents     map[string]string
	BaseDocuments map[string]string
	Removed       []string
}

func (c Changes) empty() bool {
	return len(c.Documents) == 0 && len(c.BaseDocuments) == 0 && len(c.Removed) == 0
}

// Result is the outcome of one build.
type Result struct {
	Build int64
	// Changed are the names of the definitions that were added, removed or modified.
	Changed []intern.StringKey
	// Compiled are the names of the definitions that went through the pipeline.
	Compiled []intern.StringKey
	Programs *pipeline.Programs
}

type Compiler struct {
	project        config.Project
	schema         schema.Schema
	logger         abstractlogger.Logger
	parseCacheSize int
	parseCache     *lru.Cache
	builds         atomic.Int64

	mu        sync.Mutex
	documents map[string]document
	// hashes are the printed definitions of the last successful build.
	hashes map[intern.StringKey]uint64
	// pending are changed names not yet compiled successfully.
	pending intern.StringKeySet
}

func New(project config.Project, s schema.Schema, options ...Option) (*Compiler, error) {
	c := &Compiler{
		project:        project,
		schema:         s,
		logger:         abstractlogger.NoopLogger,
		parseCacheSize: defaultParseCacheSize,
		documents:      make(map[string]document),
		hashes:         make(map[intern.StringKey]uint64),
		pending:        intern.StringKeySet{},
	}
	for _, option := range options {
		option(c)
	}
	cache, err := lru.New(c.parseCacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "creating parse cache")
	}
	c.parseCache = cache
	return c, nil
}

func (c *Compiler) Project() config.Project {
	return c.project
}

// Builds returns the number of builds started so far.
func (c *Compiler) Builds() int64 {
	return c.builds.Load()
}

// Update applies changes and compiles what they affect. When the build fails the changes
// stay applied and the affected definitions are compiled again by the next build.
func (c *Compiler) Update(ctx context.Context, changes Changes) (*Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.apply(changes)
	if changes.empty() && c.pending.Len() == 0 && len(c.hashes) != 0 {
		return &Result{Build: c.builds.Load()}, nil
	}
	return c.build(ctx, false)
}

// Apply records changes without compiling them.
func (c *Compiler) Apply(changes Changes) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.apply(changes)
}

func (c *Compiler) apply(changes Changes) {
	for path, input := range changes.Documents {
		c.documents[path] = document{input: input}
	}
	for path, input := range changes.BaseDocuments {
		c.documents[path] = document{input: input, base: true}
	}
	for _, path := range changes.Removed {
		delete(c.documents, path)
	}
}

// Reachable returns the names of the definitions a change of names would recompile,
// without compiling them.
func (c *Compiler) Reachable(ctx context.Context, names ...string) ([]intern.StringKey, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	definitions, base, err := c.buildDefinitions(ctx)
	if err != nil {
		return nil, err
	}
	if err := transforms.ValidateNoFragmentCycles(ir.FromDefinitions(c.schema, definitions)); err != nil {
		return nil, err
	}
	reachable := depgraph.GetReachableIR(definitions, base, intern.NewSetFromStrings(names...), c.schema)
	return definitionNames(reachable), nil
}

// Build compiles all documents.
func (c *Compiler) Build(ctx context.Context) (*Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.build(ctx, true)
}

func (c *Compiler) build(ctx context.Context, full bool) (*Result, error) {
	build := c.builds.Inc()
	logger := c.logger

	definitions, base, err := c.buildDefinitions(ctx)
	if err != nil {
		logger.Debug("compiler.Compiler.build()",
			abstractlogger.String("project", c.project.Name),
			abstractlogger.Int("build", int(build)),
			abstractlogger.Error(err),
		)
		return nil, err
	}

	// reachability assumes acyclic spreads
	if err := transforms.ValidateNoFragmentCycles(ir.FromDefinitions(c.schema, definitions)); err != nil {
		return nil, err
	}

	hashes, err := hashDefinitions(definitions)
	if err != nil {
		return nil, err
	}
	changed := changedNames(c.hashes, hashes)
	for name := range c.pending {
		changed.Add(name)
	}
	if full {
		for name := range hashes {
			changed.Add(name)
		}
	}

	result := &Result{Build: build, Changed: changed.Sorted()}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reachable := depgraph.GetReachableIR(definitions, base, changed, c.schema)
	result.Compiled = definitionNames(reachable)
	if len(reachable) != 0 {
		programs, err := pipeline.ApplyTransforms(&c.project, ir.FromDefinitions(c.schema, reachable), base, logger)
		if err != nil {
			c.pending = changed
			return nil, err
		}
		result.Programs = programs
	}

	c.hashes = hashes
	c.pending = intern.StringKeySet{}

	logger.Debug("compiler.Compiler.build()",
		abstractlogger.String("project", c.project.Name),
		abstractlogger.Int("build", int(build)),
		abstractlogger.Int("changed", len(result.Changed)),
		abstractlogger.Int("compiled", len(result.Compiled)),
	)
	return result, nil
}

// buildDefinitions builds the IR of all documents. Documents are parsed in path order,
// unchanged documents come from the parse cache.
func (c *Compiler) buildDefinitions(ctx context.Context) ([]ir.ExecutableDefinition, intern.StringKeySet, error) {
	paths := make([]string, 0, len(c.documents))
	for path := range c.documents {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	parsed := make([]*ast.QueryDocument, 0, len(paths))
	baseSources := intern.StringKeySet{}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		doc := c.documents[path]
		queryDocument, err := c.parse(path, doc.input)
		if err != nil {
			return nil, nil, err
		}
		parsed = append(parsed, queryDocument)
		if doc.base {
			baseSources.Add(intern.Intern(path))
		}
	}

	definitions, err := irbuilder.Build(c.schema, parsed...)
	if err != nil {
		return nil, nil, err
	}

	base := intern.StringKeySet{}
	for _, definition := range definitions {
		if baseSources.Contains(definition.GetLocation().Source) {
			base.Add(definition.DefinitionName())
		}
	}
	return definitions, base, nil
}

func (c *Compiler) parse(path, input string) (*ast.QueryDocument, error) {
	key := xxhash.Sum64String(path + "\x00" + input)
	if cached, ok := c.parseCache.Get(key); ok {
		return cached.(*ast.QueryDocument), nil
	}
	documents, err := irbuilder.Parse(&ast.Source{Name: path, Input: input})
	if err != nil {
		return nil, err
	}
	c.parseCache.Add(key, documents[0])
	return documents[0], nil
}

func hashDefinitions(definitions []ir.ExecutableDefinition) (map[intern.StringKey]uint64, error) {
	hashes := make(map[intern.StringKey]uint64, len(definitions))
	for _, definition := range definitions {
		text, err := irprinter.PrintString(definition)
		if err != nil {
			return nil, errors.Wrapf(err, "printing %s", definition.DefinitionName())
		}
		hashes[definition.DefinitionName()] = xxhash.Sum64String(text)
	}
	return hashes, nil
}

func changedNames(previous, next map[intern.StringKey]uint64) intern.StringKeySet {
	changed := intern.StringKeySet{}
	for name, hash := range next {
		if old, ok := previous[name]; !ok || old != hash {
			changed.Add(name)
		}
	}
	for name := range previous {
		if _, ok := next[name]; !ok {
			changed.Add(name)
		}
	}
	return changed
}

func definitionNames(definitions []ir.ExecutableDefinition) []intern.StringKey {
	names := make([]intern.StringKey, len(definitions))
	for i, definition := range definitions {
		names[i] = definition.DefinitionName()
	}
	return names
}

// CompileAll runs a full build of every compiler concurrently. Results are returned in the
// order of compilers, the first error cancels the remaining builds.
func CompileAll(ctx context.Context, compilers []*Compiler) ([]*Result, error) {
	results := make([]*Result, len(compilers))
	g, ctx := errgroup.WithContext(ctx)
	for i, c := range compilers {
		i, c := i, c
		g.Go(func() error {
			result, err := c.Build(ctx)
			if err != nil {
				return errors.WithMessagef(err, "project %s", c.project.Name)
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
