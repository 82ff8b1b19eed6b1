package cmd

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/wundergraph/graphql-go-compiler/pkg/intern"
)

var (
	changedProject string
	changedNames   []string
)

var changedCmd = &cobra.Command{
	Use:     "changed",
	Short:   "prints the definitions that are recompiled when the named definitions change",
	Example: `gqlc changed --names UserAvatar,ViewerQuery`,
	RunE:    func(cmd *cobra.Command, args []string) error {
		if len(changedNames) == 0 {
			return errors.New("no definition names given")
		}
		w, err := loadWorkspace()
		if err != nil {
			return err
		}
		defer w.sync()

		compilers, err := w.compilers(changedProject)
		if err != nil {
			return err
		}
		for _, c := range compilers {
			reachable, err := c.Reachable(context.Background(), changedNames...)
			if err != nil {
				return errors.WithMessagef(err, "project %s", c.Project().Name)
			}
			for _, name := range intern.Strings(reachable) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s/%s\n", c.Project().Name, name)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(changedCmd)
	changedCmd.Flags().StringVar(&changedProject, "project", "", "project limits the lookup to a single project")
	changedCmd.Flags().StringSliceVar(&changedNames, "names", nil, "names of the changed operations and fragments")
}
