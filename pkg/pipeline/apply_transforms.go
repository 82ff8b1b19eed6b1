package pipeline

import (
	"strings"

	"github.com/jensneuse/abstractlogger"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/wundergraph/graphql-go-compiler/pkg/config"
	"github.com/wundergraph/graphql-go-compiler/pkg/intern"
	"github.com/wundergraph/graphql-go-compiler/pkg/ir"
	"github.com/wundergraph/graphql-go-compiler/pkg/irprinter"
	"github.com/wundergraph/graphql-go-compiler/pkg/transforms"
)

// Programs are the outputs of a pipeline run, one program per kind of generated artifact.
type Programs struct {
	// Source is the validated program every other program is derived from.
	Source        *ir.Program
	Reader        *ir.Program
	Normalization *ir.Program
	OperationText *ir.Program
	Typegen       *ir.Program
	// OperationTexts are the documents sent to the server, by operation name.
	OperationTexts map[string]OperationText
}

type OperationText struct {
	Text string
	// ID is set when the project persists queries.
	ID string
}

// Pipelines are the pass sequences of a project. Common runs first, the other four start
// from its output and are independent of each other.
type Pipelines struct {
	Common        Pipeline
	Reader        Pipeline
	Normalization Pipeline
	OperationText Pipeline
	Typegen       Pipeline
}

// NewPipelines returns the pass sequences for a project. The order of the passes is part of
// their contract: ids are generated before selections are flattened, client extensions are
// split after resolver fields were rewritten, and typenames are generated once abstract
// client extension fields are known.
func NewPipelines(project *config.Project, baseFragmentNames intern.StringKeySet) Pipelines {
	features := project.Features

	removeBaseFragments := Transform("remove_base_fragments", func(program *ir.Program) (*ir.Program, error) {
		return transforms.RemoveBaseFragments(program, baseFragmentNames)
	})
	generateTypename := Transform("generate_typename", func(program *ir.Program) (*ir.Program, error) {
		return transforms.GenerateTypename(program, features.GenerateTypenameOnAllTypes)
	})
	readerResolvers := relayResolvers(transforms.ResolverModeReader)
	serverResolvers := relayResolvers(transforms.ResolverModeServer)
	flatten := Transform("flatten", transforms.FlattenSelections)

	common := New("common",
		Validation("validate_no_fragment_cycles", transforms.ValidateNoFragmentCycles),
		Validation("disallow_reserved_aliases", transforms.DisallowReservedAliases),
		Validation("disallow_typename_on_root", transforms.DisallowTypenameOnRoot),
		Validation("validate_global_variables", transforms.ValidateGlobalVariables),
		Validation("validate_connections", transforms.ValidateConnections),
		Validation("validate_declarative_connections", transforms.ValidateDeclarativeConnections),
	).
		When(features.EnableRelayResolvers, Validation("validate_relay_resolvers", transforms.ValidateRelayResolvers)).
		Then(
			Transform("refetchable_fragment", transforms.RefetchableFragment),
			Transform("transform_connections", transforms.TransformConnections),
		)

	reader := New("reader", Transform("mask", transforms.Mask)).
		When(features.EnableRelayResolvers, readerResolvers).
		Then(Transform("client_extensions", transforms.ClientExtensions)).
		When(features.EnableFlatten, flatten).
		Then(removeBaseFragments)

	normalization := New("normalization", Transform("apply_fragment_arguments", transforms.ApplyFragmentArguments)).
		When(features.EnableRelayResolvers, serverResolvers).
		Then(
			Transform("client_extensions", transforms.ClientExtensions),
			Transform("generate_id_field", transforms.GenerateIDField),
			generateTypename,
			Transform("inline_fragments", transforms.InlineFragments),
			Transform("skip_unreachable_nodes", transforms.SkipUnreachableNodes),
			flatten,
		)

	operationText := New("operation_text", Transform("apply_fragment_arguments", transforms.ApplyFragmentArguments)).
		When(features.EnableRelayResolvers, serverResolvers).
		Then(
			Transform("skip_client_extensions", transforms.SkipClientExtensions),
			Transform("skip_client_directives", transforms.SkipClientDirectives),
			Transform("skip_unreachable_nodes", transforms.SkipUnreachableNodes),
			Transform("generate_id_field", transforms.GenerateIDField),
			generateTypename,
			flatten,
			Transform("remove_unused_fragments", transforms.RemoveUnusedFragments),
			Transform("sort_selections", transforms.SortSelections),
		)

	typegen := New("typegen", Transform("mask", transforms.Mask)).
		When(features.EnableRelayResolvers, readerResolvers).
		When(features.EnableFlatten, flatten).
		Then(removeBaseFragments)

	return Pipelines{
		Common:        common,
		Reader:        reader,
		Normalization: normalization,
		OperationText: operationText,
		Typegen:       typegen,
	}
}

func relayResolvers(mode transforms.ResolverMode) Pass {
	return Transform("relay_resolvers", func(program *ir.Program) (*ir.Program, error) {
		return transforms.RelayResolvers(program, mode)
	})
}

// ApplyTransforms validates program and derives the programs artifacts are generated from.
// Fragments named in baseFragmentNames belong to library documents, they are validated and
// may be spread but are removed from the reader and typegen programs.
//
// With project.Parallel set the four derived pipelines run concurrently, programs are never
// modified by a pass so they can share their input. The first error wins.
func ApplyTransforms(project *config.Project, program *ir.Program, baseFragmentNames intern.StringKeySet, logger abstractlogger.Logger) (*Programs, error) {
	if logger == nil {
		logger = abstractlogger.NoopLogger
	}
	pipelines := NewPipelines(project, baseFragmentNames)

	source, err := pipelines.Common.Run(program, logger)
	if err != nil {
		return nil, err
	}

	programs := &Programs{Source: source}
	branches := []struct {
		pipeline Pipeline
		out      **ir.Program
	}{
		{pipeline: pipelines.Reader, out: &programs.Reader},
		{pipeline: pipelines.Normalization, out: &programs.Normalization},
		{pipeline: pipelines.OperationText, out: &programs.OperationText},
		{pipeline: pipelines.Typegen, out: &programs.Typegen},
	}

	if project.Parallel {
		g := errgroup.Group{}
		for _, branch := range branches {
			branch := branch
			g.Go(func() error {
				out, err := branch.pipeline.Run(source, logger)
				*branch.out = out
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for _, branch := range branches {
			out, err := branch.pipeline.Run(source, logger)
			if err != nil {
				return nil, err
			}
			*branch.out = out
		}
	}

	programs.OperationTexts, err = printOperationTexts(programs.OperationText, project.PersistQueries)
	if err != nil {
		return nil, err
	}

	logger.Debug("pipeline.ApplyTransforms()",
		abstractlogger.String("project", project.Name),
		abstractlogger.Int("operations", programs.Normalization.OperationCount()),
		abstractlogger.Int("fragments", programs.Reader.FragmentCount()),
	)
	return programs, nil
}

// printOperationTexts prints every operation followed by the fragments it uses, ordered
// by name.
func printOperationTexts(program *ir.Program, persist bool) (map[string]OperationText, error) {
	out := make(map[string]OperationText, program.OperationCount())
	for _, operation := range program.Operations() {
		definitions := []ir.ExecutableDefinition{operation}
		for _, fragment := range transforms.UsedFragments(program, operation) {
			definitions = append(definitions, fragment)
		}

		printed := make([]string, len(definitions))
		for i, definition := range definitions {
			text, err := irprinter.PrintString(definition)
			if err != nil {
				return nil, errors.Wrapf(err, "printing %s", definition.DefinitionName())
			}
			printed[i] = text
		}

		text := OperationText{Text: strings.Join(printed, "\n\n")}
		if persist {
			text.ID = transforms.OperationID(text.Text)
		}
		out[operation.Name.Item.String()] = text
	}
	return out, nil
}
