package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/eringen/inkpress"
	"github.com/eringen/inkpress/frontmatter"
	"github.com/eringen/inkpress/scaffold"
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a new site or post",
}

var newSiteCmd = &cobra.Command{
	Use:   "site <name>",
	Short: "Scaffold a new site directory",
	Long: `Creates a directory with a site config, a sample post, default
styles, and a Go main package for customizing templates. The name may be
a module path; the directory takes the last segment.

  inkpress new site myblog
  inkpress new site github.com/user/myblog`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		dirName := name
		if idx := strings.LastIndex(name, "/"); idx >= 0 {
			dirName = name[idx+1:]
		}

		data := scaffold.Data{
			ProjectName: dirName,
			ModuleName:  name,
			SiteName:    scaffold.ToTitle(dirName),
		}
		if err := scaffold.Generate(dirName, data); err != nil {
			return err
		}

		fmt.Printf("created %s\n\nNext steps:\n\n", dirName)
		fmt.Printf("  cd %s\n", dirName)
		fmt.Println("  cp .env.example .env   # set ADMIN_PASSWORD and ADMIN_SESSION_SECRET")
		fmt.Println("  inkpress serve")
		return nil
	},
}

var newPostCmd = &cobra.Command{
	Use:   "post <title>",
	Short: "Create a new post file in the content directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := inkpress.LoadConfig(configPath)
		if err != nil {
			return err
		}

		title := args[0]
		slug := inkpress.Slugify(title)
		if slug == "" {
			return fmt.Errorf("title %q produces an empty slug", title)
		}

		path := filepath.Join(cfg.ContentDir, slug+".md")
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}

		meta := frontmatter.Meta{
			Title: title,
			Date:  time.Now().UTC().Truncate(time.Second),
			Slug:  slug,
			Draft: true,
		}
		doc, err := frontmatter.Serialize(meta, []byte("Write here.\n"))
		if err != nil {
			return err
		}

		if err := os.MkdirAll(cfg.ContentDir, 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, doc, 0o644); err != nil {
			return err
		}
		fmt.Printf("created %s\n", path)
		return nil
	},
}

func init() {
	newCmd.AddCommand(newSiteCmd, newPostCmd)
}
