package cli

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is stamped via -ldflags on release builds; otherwise the module
// version from build info is used when available.
var version = "dev"

func versionString() string {
	if version != "dev" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return version
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the declmem version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("declmem", versionString())
	},
}
