package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSchemaCmd(a *app) *cobra.Command {
	var elementsOnly bool
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the effective element and attribute tables as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.loadSchema()
			if err != nil {
				return err
			}
			if elementsOnly {
				for _, tag := range s.Elements() {
					fmt.Fprintln(cmd.OutOrStdout(), tag)
				}
				return nil
			}
			data, err := s.Dump()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().BoolVar(&elementsOnly, "elements", false, "Only list element tags")
	return cmd
}
