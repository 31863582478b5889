// Command inkpress is the CLI for the inkpress blog engine: it serves a
// site with the default templates, exports it as static files, checks
// content for front-matter problems, and scaffolds new sites and posts.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via ldflags.
var version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "inkpress",
	Short: "inkpress - a file-based blog engine",
	Long: `inkpress serves a directory of Markdown posts with YAML front-matter
as a blog, with an admin dashboard, RSS, a sitemap, and optional
privacy-first analytics. The same content can be exported as a fully
static site.

A site is just files: run "inkpress new site myblog" to scaffold one,
then "inkpress serve" inside it.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the inkpress version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("inkpress %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "site.yaml", "path to the site config file")
	rootCmd.AddCommand(serveCmd, buildCmd, checkCmd, newCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
