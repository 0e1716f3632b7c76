package cli

import (
	goversion "github.com/caarlos0/go-version"
	"github.com/spf13/cobra"
)

var versionLong bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("agenda version %s\n", version)
		if versionLong {
			cmd.Println()
			cmd.Println(buildInfo().String())
		}
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionLong, "long", false, "print full build information")
	rootCmd.AddCommand(versionCmd)
}

func buildInfo() goversion.Info {
	return goversion.GetVersionInfo(
		goversion.WithAppDetails("agenda", "A reactive address book for the terminal", "https://github.com/custodia-labs/agenda"),
		func(i *goversion.Info) {
			if version != "" {
				i.GitVersion = version
			}
			if commit != "" {
				i.GitCommit = commit
			}
			if date != "" {
				i.BuildDate = date
			}
			if builtBy != "" {
				i.BuiltBy = builtBy
			}
		},
	)
}
