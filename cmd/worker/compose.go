package main

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dappforge/dappforge-backend/internal/bootstrap"
	"github.com/dappforge/dappforge-backend/internal/deployments/composer"
	"github.com/dappforge/dappforge-backend/internal/deployments/domain"
)

func newComposeCmd() *cobra.Command {
	var (
		templatesDir string
		owner        string
		out          string
		fieldPairs   []string
	)

	cmd := &cobra.Command{
		Use:   "compose <type>",
		Short: "Write a ready-to-build package for a contract type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fsys, cat, err := bootstrap.LoadTemplates(templatesDir)
			if err != nil {
				return err
			}
			d, err := cat.Descriptor(domain.ContractType(args[0]))
			if err != nil {
				return err
			}
			fields, err := parseFields(fieldPairs)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(out, 0o755); err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			if err := composer.New(fsys, cat).Compose(d, owner, fields, out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "composed %s package in %s\n", d.Type, out)
			return nil
		},
	}

	cmd.Flags().StringVar(&templatesDir, "templates", "", "templates directory (default embedded)")
	cmd.Flags().StringVar(&owner, "owner", "", "owner account address")
	cmd.Flags().StringVarP(&out, "out", "o", "out", "destination directory")
	cmd.Flags().StringArrayVarP(&fieldPairs, "field", "f", nil, "template field as key=value (repeatable)")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}

func newComposeVisualCmd() *cobra.Command {
	var (
		templatesDir string
		owner        string
		out          string
	)

	cmd := &cobra.Command{
		Use:   "compose-visual <component>...",
		Short: "Splice components into a single module package",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fsys, cat, err := bootstrap.LoadTemplates(templatesDir)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(out, 0o755); err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			if err := composer.New(fsys, cat).ComposeVisual(owner, args, out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "composed %d components in %s\n", len(args), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&templatesDir, "templates", "", "templates directory (default embedded)")
	cmd.Flags().StringVar(&owner, "owner", "", "owner account address")
	cmd.Flags().StringVarP(&out, "out", "o", "out", "destination directory")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}

func newCatalogCmd() *cobra.Command {
	var templatesDir string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List contract types and visual components",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cat, err := bootstrap.LoadTemplates(templatesDir)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, t := range cat.Types() {
				d, _ := cat.Descriptor(t)
				fmt.Fprintf(w, "%-8s %-24s required: %s\n", t, d.Template, strings.Join(d.Required, ", "))
			}
			for _, label := range slices.Sorted(maps.Keys(cat.Visual.Components)) {
				fmt.Fprintf(w, "visual   %-24s %s\n", label, cat.Visual.Components[label].Template)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&templatesDir, "templates", "", "templates directory (default embedded)")
	return cmd
}

func parseFields(pairs []string) (domain.Fields, error) {
	fields := make(domain.Fields, len(pairs))
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("field %q: want key=value", p)
		}
		fields[key] = value
	}
	return fields, nil
}
