// Package cmd provides the safas command-line tool, a cobra.Command tree
// grounded on the teacher's pkg/cmd/root.go shape: a package-level rootCmd,
// per-verb files each registering themselves via init().
package cmd

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version can be set at link time (-ldflags "-X ..."); when it is empty,
// --version prints the module version from the build info.
var Version string

var rootCmd = &cobra.Command{
	Use:   "safas",
	Short: "A scriptable, bit-level assembler.",
	Long:  "safas assembles SAFAS programs (S-expression assembler scripts) into binary artifacts.",
	Run: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "version") {
			fmt.Print("safas ")

			if Version != "" {
				fmt.Printf("%s", Version)
			} else if info, ok := debug.ReadBuildInfo(); ok {
				fmt.Printf("%s", info.Main.Version)
			} else {
				fmt.Printf("(unknown version)")
			}

			fmt.Println()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().Bool("version", false, "print version information and exit")
}

// Execute adds all child commands to the root command and runs it. Called
// once by cmd/safas/main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
