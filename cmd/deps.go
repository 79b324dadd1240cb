package cmd

import (
	"fmt"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"loom/internal/dependency"
	"loom/internal/document"
	"loom/internal/store"
)

// componentTypes lists the categories accepted by deps and delete, for
// argument validation and shell completion.
func componentTypes() []string {
	var types []string
	for _, c := range document.Categories() {
		types = append(types, string(c))
	}
	sort.Strings(types)
	return types
}

// depsCmd lists every component that references the given one.
var depsCmdLong = `List the components that reference a given component, and through which
fields. A component with dependents cannot be deleted until those
references are removed.

Component types: ` + fmt.Sprint(componentTypes()) + `

Examples:
  loom deps schema sales
  loom deps tool lookup_order -f deploy.yaml`

func newDepsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deps <type> <key>",
		Short: "List components that depend on a component",
		Long:  depsCmdLong,
		Args:  cobra.ExactArgs(2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return componentTypes(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: runDeps,
	}
}

func runDeps(cmd *cobra.Command, args []string) error {
	componentType, key := args[0], args[1]
	category := document.Category(componentType)
	if document.SectionPath(category) == nil {
		return fmt.Errorf("unknown component type %q (want one of %v)", componentType, componentTypes())
	}

	s, err := store.Load(rootDescriptorPath, nil)
	if err != nil {
		return err
	}

	records := dependency.Find(s.Document(), category, key)
	if len(records) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No components reference %s %q.\n", componentType, key)
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.AppendHeader(table.Row{"Type", "Key", "Field"})
	for _, r := range records {
		t.AppendRow(table.Row{r.Type, r.Key, r.Field})
	}
	t.Render()
	return nil
}
