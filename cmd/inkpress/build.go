package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eringen/inkpress"
	"github.com/eringen/inkpress/views"
)

var buildOut string

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Export the site as static files",
	Long: `Renders every published post, listing, feed, and sitemap into the
output directory. The result is a plain static site: host it anywhere.

The build fails if any source file fails to parse, so a broken post
never ships a silently smaller site.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := inkpress.LoadConfig(configPath)
		if err != nil {
			return err
		}

		app := inkpress.New(cfg, views.Default(cfg))
		if err := app.Export(buildOut); err != nil {
			return err
		}
		fmt.Printf("site exported to %s\n", buildOut)
		return nil
	},
}

func init() {
	buildCmd.Flags().StringVarP(&buildOut, "out", "o", "dist", "output directory")
}
