package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Logicalshift/safas/pkg/diagnostic"
	"github.com/Logicalshift/safas/pkg/safas"
	"github.com/Logicalshift/safas/pkg/source"
)

// buildCmd implements `safas build <entry> -o <out> [--lib-root DIR]...`,
// SPEC_FULL.md §9's concrete driver surface.
var buildCmd = &cobra.Command{
	Use:   "build entry.safas",
	Short: "Assemble a SAFAS program into a binary artifact.",
	Long:  "Assemble a SAFAS program (and any modules it imports) into a binary artifact.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		entry := args[0]

		bytes, err := os.ReadFile(entry)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		libRoots := GetStringArray(cmd, "lib-root")
		out := GetString(cmd, "output")

		sink := diagnostic.NewLogrusSink()
		file := source.NewFile(entry, bytes)

		result, errs := safas.Assemble(file, safas.Options{
			Provider: safas.NewFileSourceProvider(libRoots...),
			Sink:     sink,
		})

		if len(errs) > 0 {
			for _, e := range errs {
				fmt.Fprintln(os.Stderr, e.Error())
			}

			os.Exit(1)
		}

		if err := os.WriteFile(out, result, 0o644); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringP("output", "o", "a.out", "output file path")
	buildCmd.Flags().StringArray("lib-root", nil, "directory searched for imported modules (repeatable)")
}
