package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"loom/internal/store"
	"loom/internal/template"
)

func newRenderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "render <prompt-key>",
		Short: "Render a prompt template with the descriptor's variables",
		Long: `Render executes the template of a prompt component against the variables
section of the descriptor. Sprig template functions are available.

Examples:
  loom render greeting -f deploy.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: runRender,
	}
}

func runRender(cmd *cobra.Command, args []string) error {
	s, err := store.Load(rootDescriptorPath, nil)
	if err != nil {
		return err
	}

	out, err := template.New().RenderPrompt(s.Document(), args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
