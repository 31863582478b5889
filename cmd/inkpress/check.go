package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eringen/inkpress"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the front-matter of every post",
	Long: `Parses every .md file in the content directory and reports problems:
missing or malformed front-matter is an error, content-quality findings
like a cover image without alt text are warnings.

Exits non-zero when any file has an error, so it works as a pre-commit
or CI gate.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := inkpress.LoadConfig(configPath)
		if err != nil {
			return err
		}

		lib, err := inkpress.LoadLibrary(cfg.ContentDir)
		if err != nil {
			return err
		}

		for _, fw := range lib.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s: %s\n", fw.Path, fw.Message)
		}
		for _, fe := range lib.Errors {
			fmt.Fprintf(os.Stderr, "error: %s: %v\n", fe.Path, fe.Err)
		}

		if len(lib.Errors) > 0 {
			return fmt.Errorf("%d file(s) failed to parse", len(lib.Errors))
		}
		fmt.Printf("%d post(s) ok, %d warning(s)\n", len(lib.Posts), len(lib.Warnings))
		return nil
	},
}
