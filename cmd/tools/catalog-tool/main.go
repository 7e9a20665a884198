// cmd/tools/catalog-tool/main.go
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	apphttp "mergington-activities/internal/common/http"
	"mergington-activities/internal/models"
	"mergington-activities/pkg/catalog"
)

const defaultCatalogPath = "configs/activities.json"

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "catalog-tool",
		Short: "Manage the activity seed catalog",
		Long: `Manage the JSON seed catalog the activity server loads at startup.

Examples:
  catalog-tool export --path configs/activities.json
  catalog-tool add --name "Robotics Club" --description "Build and program robots" --schedule "Mondays, 3:30 PM - 5:00 PM" --max 14
  catalog-tool validate --path configs/activities.json
  catalog-tool fetch --server http://localhost:8000 --path configs/activities.json`,
		SilenceUsage: true,
	}
	root.SetOut(out)

	root.AddCommand(
		newExportCmd(),
		newValidateCmd(),
		newAddCmd(),
		newListCmd(),
		newFetchCmd(),
	)
	return root
}

func newExportCmd() *cobra.Command {
	var (
		path  string
		force bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the built-in activity catalog to a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			c := catalog.Default()
			c.LastUpdated = time.Now().Format(time.RFC3339)
			if err := catalog.Save(path, c); err != nil {
				return err
			}
			cmd.Printf("Exported %d activities to %s\n", len(c.Activities), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "path", "p", defaultCatalogPath, "Destination catalog file")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")
	return cmd
}

func newValidateCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a catalog file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := catalog.Load(path)
			if err != nil {
				return fmt.Errorf("catalog validation failed: %w", err)
			}
			cmd.Printf("Catalog validation passed. Found %d activities.\n", len(c.Activities))
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "path", "p", defaultCatalogPath, "Catalog file to validate")
	return cmd
}

func newAddCmd() *cobra.Command {
	var (
		path            string
		name            string
		description     string
		schedule        string
		maxParticipants int
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new activity to a catalog file",
		Long: `Add a new activity with an empty roster. The catalog file is created
when it does not exist yet.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if maxParticipants <= 0 {
				return fmt.Errorf("--max must be positive")
			}

			c, err := catalog.Load(path)
			if err != nil {
				if !os.IsNotExist(err) {
					return fmt.Errorf("failed to load catalog: %w", err)
				}
				c = &catalog.Catalog{Version: "1.0.0"}
			}

			if _, exists := c.Find(name); exists {
				return fmt.Errorf("activity %q already exists", name)
			}

			c.Activities = append(c.Activities, catalog.Activity{
				Name:            name,
				Description:     description,
				Schedule:        schedule,
				MaxParticipants: maxParticipants,
				Participants:    []string{},
			})
			c.LastUpdated = time.Now().Format(time.RFC3339)

			if err := catalog.Save(path, c); err != nil {
				return err
			}
			cmd.Printf("Added activity: %s\n", name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "path", "p", defaultCatalogPath, "Catalog file to update")
	cmd.Flags().StringVar(&name, "name", "", "Activity name (e.g., Robotics Club)")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().StringVar(&schedule, "schedule", "", "Schedule (e.g., Mondays, 3:30 PM - 5:00 PM)")
	cmd.Flags().IntVar(&maxParticipants, "max", 0, "Maximum participants")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("description")
	_ = cmd.MarkFlagRequired("schedule")
	_ = cmd.MarkFlagRequired("max")
	return cmd
}

func newListCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print activities and roster sizes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := catalog.Default()
			if path != "" {
				var err error
				if c, err = catalog.Load(path); err != nil {
					return fmt.Errorf("failed to load catalog: %w", err)
				}
			}

			for _, a := range c.Activities {
				cmd.Printf("%-20s %3d/%-3d  %s\n", a.Name, len(a.Participants), a.MaxParticipants, a.Schedule)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "path", "p", "", "Catalog file (default: built-in catalog)")
	return cmd
}

func newFetchCmd() *cobra.Command {
	var (
		server  string
		path    string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Snapshot the rosters of a running server into a catalog file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := apphttp.NewClient(timeout)
			var dir models.Directory
			url := strings.TrimRight(server, "/") + "/activities"
			if err := client.GetJSON(context.Background(), url, &dir); err != nil {
				return err
			}

			c := fromDirectory(dir)
			c.LastUpdated = time.Now().Format(time.RFC3339)
			if err := c.Validate(); err != nil {
				return fmt.Errorf("server returned an invalid catalog: %w", err)
			}
			if err := catalog.Save(path, c); err != nil {
				return err
			}
			cmd.Printf("Fetched %d activities from %s into %s\n", len(c.Activities), server, path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&server, "server", "s", "http://localhost:8000", "Base URL of a running activity server")
	cmd.Flags().StringVarP(&path, "path", "p", defaultCatalogPath, "Destination catalog file")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	return cmd
}

// fromDirectory orders activities by name so repeated fetches diff cleanly.
func fromDirectory(dir models.Directory) *catalog.Catalog {
	names := make([]string, 0, len(dir))
	for name := range dir {
		names = append(names, name)
	}
	sort.Strings(names)

	c := &catalog.Catalog{Version: "1.0.0"}
	for _, name := range names {
		a := dir[name]
		participants := a.Participants
		if participants == nil {
			participants = []string{}
		}
		c.Activities = append(c.Activities, catalog.Activity{
			Name:            name,
			Description:     a.Description,
			Schedule:        a.Schedule,
			MaxParticipants: a.MaxParticipants,
			Participants:    participants,
		})
	}
	return c
}
