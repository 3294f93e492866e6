package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/mmrzaf/seeder/internal/infra/repos/definitions"
	"github.com/mmrzaf/seeder/internal/infra/targets"
	"github.com/mmrzaf/seeder/internal/registry"
	"github.com/mmrzaf/seeder/internal/validation"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func listCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the configured seeders in run order",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := newRunService(false)
			if err != nil {
				return err
			}
			defer closeFn()

			ws, err := svc.Load()
			if err != nil {
				return err
			}

			if format == "json" {
				return printJSON(ws.Project.Seeders)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tFACTORY\tTABLE\tCOUNT\tDUMMY\tPER")
			for _, s := range ws.Project.Seeders {
				per := "-"
				if s.Per != nil {
					per = fmt.Sprintf("%s.%s -> %s", s.Per.Table, s.Per.Column, s.Per.Field)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n", s.Name, s.Factory, s.Table, s.Count, s.DummyCount, per)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&format, "format", "table", "Output format (table|json)")
	return cmd
}

func factoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "factory",
		Short: "Inspect factory definitions",
	}

	var format string

	list := &cobra.Command{
		Use:   "list",
		Short: "List factories",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := newRunService(false)
			if err != nil {
				return err
			}
			defer closeFn()

			defs, err := svc.LoadDefinitions()
			if err != nil {
				return err
			}

			if format == "json" {
				return printJSON(defs)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tFIELDS\tDESCRIPTION")
			for _, d := range defs {
				fmt.Fprintf(w, "%s\t%d\t%s\n", d.Name, len(d.Fields), d.Description)
			}
			return w.Flush()
		},
	}
	list.Flags().StringVar(&format, "format", "table", "Output format (table|json)")

	show := &cobra.Command{
		Use:   "show <name>",
		Short: "Show a factory definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := newRunService(false)
			if err != nil {
				return err
			}
			defer closeFn()

			defs, err := svc.LoadDefinitions()
			if err != nil {
				return err
			}
			for _, d := range defs {
				if d.Name == args[0] {
					return printYAML(d)
				}
			}
			return fmt.Errorf("factory not found: %s", args[0])
		},
	}

	validate := &cobra.Command{
		Use:   "validate <path>",
		Short: "Validate a factory definition file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := factoriesDir
			if dir == "" {
				dir = "."
			}
			def, err := definitions.NewFileRepository(dir).GetByPath(args[0])
			if err != nil {
				return err
			}

			validator := validation.NewValidator(registry.DefaultGeneratorRegistry())
			if err := validator.ValidateDefinition(def); err != nil {
				fmt.Printf("Validation failed: %v\n", err)
				return err
			}

			fmt.Printf("Factory '%s' is valid\n", def.Name)
			return nil
		},
	}

	var (
		count  int
		sets   []string
		output string
	)
	generate := &cobra.Command{
		Use:   "generate <name>",
		Short: "Generate records without writing them anywhere",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides, err := parseOverrides(sets)
			if err != nil {
				return err
			}

			svc, closeFn, err := newRunService(false)
			if err != nil {
				return err
			}
			defer closeFn()

			records, err := svc.Preview(args[0], count, overrides)
			if err != nil {
				return err
			}
			if output == "yaml" {
				return printYAML(records)
			}
			return printJSON(records)
		},
	}
	generate.Flags().IntVar(&count, "count", 5, "Number of records")
	generate.Flags().StringArrayVar(&sets, "set", nil, "Override a field (key=value, repeatable)")
	generate.Flags().StringVar(&output, "format", "json", "Output format (json|yaml)")

	cmd.AddCommand(list, show, validate, generate)
	return cmd
}

// parseOverrides decodes each key=value pair, reading the value as YAML so
// numbers and booleans keep their type.
func parseOverrides(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid override format: %s", pair)
		}
		var v any
		if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
			v = raw
		}
		out[key] = v
	}
	return out, nil
}

func targetCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "target",
		Short: "Inspect the project target",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the target with credentials redacted",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := newRunService(false)
			if err != nil {
				return err
			}
			defer closeFn()

			t, err := svc.Target()
			if err != nil {
				return err
			}
			return printYAML(targets.RedactTarget(t))
		},
	}

	check := &cobra.Command{
		Use:   "check",
		Short: "Connect to the target and probe its capabilities",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := newRunService(false)
			if err != nil {
				return err
			}
			defer closeFn()

			result, err := svc.CheckTarget(ctx)
			if result != nil {
				if perr := printYAML(result); perr != nil {
					return perr
				}
			}
			return err
		},
	}

	cmd.AddCommand(show, check)
	return cmd
}

func runsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect the run journal",
	}

	var (
		limit  int
		status string
		format string
	)

	list := &cobra.Command{
		Use:   "list",
		Short: "List runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := newRunService(true)
			if err != nil {
				return err
			}
			defer closeFn()

			items, err := svc.ListRuns(limit, status)
			if err != nil {
				return err
			}

			if format == "json" {
				return printJSON(items)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tOPERATION\tPROJECT\tTARGET\tSTATUS\tSTARTED")
			for _, r := range items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					shortID(r.ID), r.Operation, r.Project, r.TargetName, r.Status, r.StartedAt.Local().Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}
	list.Flags().IntVar(&limit, "limit", 20, "Limit results")
	list.Flags().StringVar(&status, "status", "", "Filter by status")
	list.Flags().StringVar(&format, "format", "table", "Output format (table|json)")

	show := &cobra.Command{
		Use:   "show <run_id>",
		Short: "Show run details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := newRunService(true)
			if err != nil {
				return err
			}
			defer closeFn()

			run, err := svc.GetRun(args[0])
			if err != nil {
				return err
			}
			return printYAML(run)
		},
	}

	cmd.AddCommand(list, show)
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func printYAML(v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}
