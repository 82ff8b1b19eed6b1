// Package irprinter prints IR definitions as GraphQL text.
//
// Conditions are printed as @include/@skip directives on the selections they guard, local
// fragment arguments as @argumentDefinitions and spread arguments as @arguments, so printed
// documents parse back into the same IR.
package irprinter

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/wundergraph/graphql-go-compiler/internal/pkg/quotes"
	"github.com/wundergraph/graphql-go-compiler/pkg/intern"
	"github.com/wundergraph/graphql-go-compiler/pkg/ir"
	"github.com/wundergraph/graphql-go-compiler/pkg/irvisitor"
	"github.com/wundergraph/graphql-go-compiler/pkg/literal"
)

// Print writes definition to out, indented by two spaces per level.
func Print(definition ir.ExecutableDefinition, out io.Writer) error {
	printer := Printer{Indent: "  "}
	return printer.Print(definition, out)
}

func PrintString(definition ir.ExecutableDefinition) (string, error) {
	buff := &bytes.Buffer{}
	err := Print(definition, buff)
	return buff.String(), err
}

// PrintProgram prints all operations in order followed by all fragments ordered by name,
// separated by blank lines.
func PrintProgram(program *ir.Program, out io.Writer) error {
	printer := Printer{Indent: "  "}
	for i, definition := range program.Definitions() {
		if i != 0 {
			if _, err := out.Write([]byte("\n\n")); err != nil {
				return err
			}
		}
		if err := printer.Print(definition, out); err != nil {
			return err
		}
	}
	return nil
}

func PrintProgramString(program *ir.Program) (string, error) {
	buff := &bytes.Buffer{}
	err := PrintProgram(program, buff)
	return buff.String(), err
}

// Printer prints definitions. An empty Indent prints every definition on a single line.
type Printer struct {
	Indent string
}

func (p *Printer) Print(definition ir.ExecutableDefinition, out io.Writer) error {
	v := &printVisitor{
		out:    out,
		indent: p.Indent,
	}
	v.Walker = irvisitor.NewWalker(v)
	v.WalkDefinition(definition)
	return v.err
}

type printVisitor struct {
	*irvisitor.Walker
	out    io.Writer
	indent string
	depth  int
	// conditions are the @include/@skip directives of enclosing conditions, printed on
	// every selection they guard.
	conditions []string
	err        error
}

func (p *printVisitor) write(data string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.out, data)
}

func (p *printVisitor) VisitOperation(operation *ir.Operation) {
	p.write(operation.Kind.String())
	p.write(" ")
	p.write(operation.Name.Item.String())
	if len(operation.VariableDefinitions) != 0 {
		p.write("(")
		for i, definition := range operation.VariableDefinitions {
			if i != 0 {
				p.write(", ")
			}
			p.WalkVariableDefinition(definition)
		}
		p.write(")")
	}
	p.printDirectives(operation.Directives, nil)
	p.printSelectionSet(operation.Selections)
}

func (p *printVisitor) VisitFragment(fragment *ir.Fragment) {
	p.write("fragment ")
	p.write(fragment.Name.Item.String())
	p.write(" on ")
	p.write(fragment.TypeCondition.Name.String())
	if len(fragment.VariableDefinitions) != 0 {
		p.write(" @")
		p.write(literal.ARGUMENT_DEFINITIONS.String())
		p.write("(")
		for i, definition := range fragment.VariableDefinitions {
			if i != 0 {
				p.write(", ")
			}
			p.write(definition.Name.Item.String())
			p.write(": {type: ")
			p.write(quotes.WrapString(quotes.Escape(definition.Type.String())))
			if definition.HasDefault() {
				p.write(", defaultValue: ")
				p.write(ConstantValueString(definition.DefaultValue))
			}
			p.write("}")
		}
		p.write(")")
	}
	p.printDirectives(fragment.Directives, nil)
	p.printSelectionSet(fragment.Selections)
}

func (p *printVisitor) VisitVariableDefinition(definition *ir.VariableDefinition) {
	p.write("$")
	p.write(definition.Name.Item.String())
	p.write(": ")
	p.write(definition.Type.String())
	if definition.HasDefault() {
		p.write(" = ")
		p.write(ConstantValueString(definition.DefaultValue))
	}
	p.printDirectives(definition.Directives, nil)
}

func (p *printVisitor) printSelectionSet(selections []ir.Selection) {
	p.write(" {")
	outer := p.conditions
	p.conditions = nil
	p.depth++
	p.WalkSelections(selections)
	p.depth--
	p.conditions = outer
	p.newline()
	p.write("}")
}

func (p *printVisitor) newline() {
	if p.indent == "" {
		p.write(" ")
		return
	}
	p.write("\n")
	p.write(strings.Repeat(p.indent, p.depth))
}

func (p *printVisitor) VisitScalarField(field *ir.ScalarField) {
	p.newline()
	p.printField(field.Alias, field.Definition.Name, field.Arguments)
	p.printDirectives(field.Directives, p.conditions)
}

func (p *printVisitor) VisitLinkedField(field *ir.LinkedField) {
	p.newline()
	p.printField(field.Alias, field.Definition.Name, field.Arguments)
	p.printDirectives(field.Directives, p.conditions)
	p.printSelectionSet(field.Selections)
}

func (p *printVisitor) printField(alias ir.WithLocation, name intern.StringKey, arguments ir.Arguments) {
	if !alias.Item.IsEmpty() && alias.Item != name {
		p.write(alias.Item.String())
		p.write(": ")
	}
	p.write(name.String())
	p.printArguments(arguments)
}

func (p *printVisitor) VisitInlineFragment(fragment *ir.InlineFragment) {
	p.newline()
	p.write("...")
	if fragment.TypeCondition != nil {
		p.write(" on ")
		p.write(fragment.TypeCondition.Name.String())
	}
	p.printDirectives(fragment.Directives, p.conditions)
	p.printSelectionSet(fragment.Selections)
}

func (p *printVisitor) VisitFragmentSpread(spread *ir.FragmentSpread) {
	p.newline()
	p.write("...")
	p.write(spread.Fragment.Item.String())
	if len(spread.Arguments) != 0 {
		p.write(" @")
		p.write(literal.ARGUMENTS.String())
		p.printArguments(spread.Arguments)
	}
	p.printDirectives(spread.Directives, p.conditions)
}

func (p *printVisitor) VisitCondition(condition *ir.Condition) {
	name := literal.SKIP
	if condition.PassingValue {
		name = literal.INCLUDE
	}
	directive := "@" + name.String() + "(if: " + ValueString(condition.Value) + ")"
	outer := p.conditions
	p.conditions = append(append(make([]string, 0, len(outer)+1), outer...), directive)
	p.WalkSelections(condition.Selections)
	p.conditions = outer
}

func (p *printVisitor) printArguments(arguments ir.Arguments) {
	if len(arguments) == 0 {
		return
	}
	p.write("(")
	for i, argument := range arguments {
		if i != 0 {
			p.write(", ")
		}
		p.write(argument.Name.Item.String())
		p.write(": ")
		p.write(ValueString(argument.Value))
	}
	p.write(")")
}

func (p *printVisitor) printDirectives(directives ir.Directives, conditions []string) {
	for _, directive := range directives {
		p.write(" @")
		p.write(directive.Name.Item.String())
		p.printArguments(directive.Arguments)
	}
	for _, condition := range conditions {
		p.write(" ")
		p.write(condition)
	}
}

// ValueString prints a value. The output is stable and used to key memoized values.
func ValueString(value ir.Value) string {
	var b strings.Builder
	writeValue(&b, value)
	return b.String()
}

func writeValue(b *strings.Builder, value ir.Value) {
	switch v := value.(type) {
	case *ir.Constant:
		writeConstantValue(b, v.Value)
	case *ir.Variable:
		b.WriteString("$")
		b.WriteString(v.Name.Item.String())
	case *ir.ListValue:
		b.WriteString("[")
		for i, item := range v.Items {
			if i != 0 {
				b.WriteString(", ")
			}
			writeValue(b, item)
		}
		b.WriteString("]")
	case *ir.ObjectValue:
		b.WriteString("{")
		for i, field := range v.Fields {
			if i != 0 {
				b.WriteString(", ")
			}
			b.WriteString(field.Name.Item.String())
			b.WriteString(": ")
			writeValue(b, field.Value)
		}
		b.WriteString("}")
	}
}

func ConstantValueString(value ir.ConstantValue) string {
	var b strings.Builder
	writeConstantValue(&b, value)
	return b.String()
}

func writeConstantValue(b *strings.Builder, value ir.ConstantValue) {
	switch v := value.(type) {
	case ir.ConstInt:
		b.WriteString(strconv.FormatInt(v.Value, 10))
	case ir.ConstFloat:
		formatted := strconv.FormatFloat(v.Value, 'g', -1, 64)
		if !strings.ContainsAny(formatted, ".eEI") {
			formatted += ".0"
		}
		b.WriteString(formatted)
	case ir.ConstString:
		b.WriteString(quotes.WrapString(quotes.Escape(v.Value)))
	case ir.ConstBoolean:
		b.WriteString(strconv.FormatBool(v.Value))
	case ir.ConstNull:
		b.WriteString("null")
	case ir.ConstEnum:
		b.WriteString(v.Value.String())
	case ir.ConstList:
		b.WriteString("[")
		for i, item := range v.Items {
			if i != 0 {
				b.WriteString(", ")
			}
			writeConstantValue(b, item)
		}
		b.WriteString("]")
	case ir.ConstObject:
		b.WriteString("{")
		for i, field := range v.Fields {
			if i != 0 {
				b.WriteString(", ")
			}
			b.WriteString(field.Name.Item.String())
			b.WriteString(": ")
			writeConstantValue(b, field.Value)
		}
		b.WriteString("}")
	}
}
