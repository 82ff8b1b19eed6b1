package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/wundergraph/graphql-go-compiler/pkg/pipeline"
)

var (
	compileProject string
	compileOut     string
)

var compileCmd = &cobra.Command{
	Use:     "compile",
	Short:   "compiles all documents and prints the operation texts",
	Example: `gqlc compile --config gqlc.yaml
gqlc compile --project app --out generated`,
	RunE:    func(cmd *cobra.Command, args []string) error {
		results, compilers, err := compileAll(context.Background(), compileProject)
		if err != nil {
			return err
		}
		for i, result := range results {
			project := compilers[i].Project()
			if result.Programs == nil {
				continue
			}
			if compileOut == "" {
				if err := printOperationTexts(cmd.OutOrStdout(), project.Name, result.Programs.OperationTexts); err != nil {
					return err
				}
				continue
			}
			if err := writeOperationTexts(filepath.Join(compileOut, project.Name), result.Programs.OperationTexts); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().StringVar(&compileProject, "project", "", "project compiles a single project")
	compileCmd.Flags().StringVar(&compileOut, "out", "", "out is the directory operation texts are written to, one file per operation")
}

func operationNames(texts map[string]pipeline.OperationText) []string {
	names := make([]string, 0, len(texts))
	for name := range texts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func printOperationTexts(out io.Writer, project string, texts map[string]pipeline.OperationText) error {
	for _, name := range operationNames(texts) {
		text := texts[name]
		header := fmt.Sprintf("# %s/%s", project, name)
		if text.ID != "" {
			header += " id: " + text.ID
		}
		if _, err := fmt.Fprintf(out, "%s\n%s\n\n", header, text.Text); err != nil {
			return err
		}
	}
	return nil
}

func writeOperationTexts(dir string, texts map[string]pipeline.OperationText) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating %s", dir)
	}
	for _, name := range operationNames(texts) {
		path := filepath.Join(dir, name+".graphql")
		if err := os.WriteFile(path, []byte(texts[name].Text+"\n"), 0o644); err != nil {
			return errors.Wrapf(err, "writing %s", path)
		}
	}
	return nil
}
