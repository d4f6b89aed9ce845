package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"bookmarksync/internal/rules"

	"github.com/spf13/cobra"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage sync rules",
	}
	cmd.AddCommand(rulesListCmd(), rulesAddCmd(), rulesUpdateCmd(), rulesDeleteCmd(), rulesImportCmd(), rulesExportCmd())
	return cmd
}

func rulesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(ctx context.Context, store *rules.Store) error {
				all, err := store.GetAll(ctx)
				if err != nil {
					return err
				}

				ids := make([]string, 0, len(all))
				for id := range all {
					ids = append(ids, id)
				}
				sort.Strings(ids)

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tBOOKMARK\tENABLED\tINCLUDE\tEXCLUDE")
				for _, id := range ids {
					r := all[id]
					fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\t%s\n", id, r.Name, r.BookmarkID, r.Enabled, r.IncludePattern, r.ExcludePattern)
				}
				return w.Flush()
			})
		},
	}
}

func rulesAddCmd() *cobra.Command {
	var name, include, exclude string
	cmd := &cobra.Command{
		Use:   "add BOOKMARK_ID",
		Short: "Create an enabled rule for a bookmark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(ctx context.Context, store *rules.Store) error {
				id, err := store.Add(ctx, args[0], name, include, exclude)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), id)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Display label")
	cmd.Flags().StringVar(&include, "include", "", "Include pattern (required)")
	cmd.Flags().StringVar(&exclude, "exclude", "", "Exclude pattern")
	_ = cmd.MarkFlagRequired("include")
	return cmd
}

func rulesUpdateCmd() *cobra.Command {
	var (
		bookmarkID, name, include, exclude string
		enabled                            bool
	)
	cmd := &cobra.Command{
		Use:   "update RULE_ID",
		Short: "Change the given fields of a rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch rules.Patch
			flags := cmd.Flags()
			if flags.Changed("bookmark") {
				patch.BookmarkID = &bookmarkID
			}
			if flags.Changed("name") {
				patch.Name = &name
			}
			if flags.Changed("include") {
				patch.IncludePattern = &include
			}
			if flags.Changed("exclude") {
				patch.ExcludePattern = &exclude
			}
			if flags.Changed("enabled") {
				patch.Enabled = &enabled
			}

			return withStore(cmd, func(ctx context.Context, store *rules.Store) error {
				_, err := store.Update(ctx, args[0], patch)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&bookmarkID, "bookmark", "", "Bookmark ID")
	cmd.Flags().StringVar(&name, "name", "", "Display label")
	cmd.Flags().StringVar(&include, "include", "", "Include pattern")
	cmd.Flags().StringVar(&exclude, "exclude", "", "Exclude pattern; pass an empty value to clear it")
	cmd.Flags().BoolVar(&enabled, "enabled", true, "Whether the rule is evaluated")
	return cmd
}

func rulesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete RULE_ID",
		Short: "Delete a rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(ctx context.Context, store *rules.Store) error {
				return store.Delete(ctx, args[0])
			})
		},
	}
}

func rulesImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import rules from a YAML or JSON file, overwriting rules with the same ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(ctx context.Context, store *rules.Store) error {
				n, err := store.ImportFile(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d rules\n", n)
				return nil
			})
		},
	}
}

func rulesExportCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all rules as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(ctx context.Context, store *rules.Store) error {
				if output == "" || output == "-" {
					return store.Export(ctx, cmd.OutOrStdout())
				}
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				return store.Export(ctx, f)
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "-", "Output file, - for stdout")
	return cmd
}
