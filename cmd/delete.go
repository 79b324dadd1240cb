package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"loom/internal/document"
	"loom/internal/store"
	"loom/internal/validator"
)

var deleteDryRun bool

// cliNotifier surfaces store notifications on the command's output.
type cliNotifier struct {
	cmd *cobra.Command
}

func (n *cliNotifier) Success(msg string) {
	fmt.Fprintln(n.cmd.OutOrStdout(), msg)
}

func (n *cliNotifier) Failure(msg string) {
	fmt.Fprintln(n.cmd.ErrOrStderr(), msg)
}

func newDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <type> <key>",
		Short: "Delete a component, refusing if anything still references it",
		Long: `Delete removes a component from the descriptor after validating that no
other component references it. A blocked deletion lists every blocking
reference; remove those first.

Examples:
  loom delete schema sales -f deploy.yaml
  loom delete tool lookup_order --dry-run`,
		Args: cobra.ExactArgs(2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return componentTypes(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: runDelete,
	}
	cmd.Flags().BoolVar(&deleteDryRun, "dry-run", false, "validate only; do not write the file")
	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	componentType, key := args[0], args[1]
	category := document.Category(componentType)
	if document.SectionPath(category) == nil {
		return fmt.Errorf("unknown component type %q (want one of %v)", componentType, componentTypes())
	}
	s, err := store.Load(rootDescriptorPath, &cliNotifier{cmd: cmd})
	if err != nil {
		return err
	}
	if _, ok := s.Document().Lookup(category, key); !ok {
		return fmt.Errorf("no %s named %q in %s", componentType, key, rootDescriptorPath)
	}

	if deleteDryRun {
		// Validate only; the in-memory document stays untouched.
		if diag := validator.ValidateDeletion(s.Document(), componentType, key); diag != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), diag.Error())
			return fmt.Errorf("deletion of %s %q would be blocked", componentType, key)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Dry run: %s %q can be deleted; file not modified.\n", componentType, key)
		return nil
	}

	if !s.AttemptDelete(componentType, key) {
		return fmt.Errorf("deletion of %s %q was blocked", componentType, key)
	}
	return s.Save(rootDescriptorPath)
}
