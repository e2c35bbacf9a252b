package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Exported RootCmd
var RootCmd = &cobra.Command{
	Use:   "soructl",
	Short: "Soru Forum admin CLI",
	Long:  "Command line interface for administering the Soru Forum database",
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// GetRoot returns the root command so subcommands can register themselves.
func GetRoot() *cobra.Command {
	return RootCmd
}
