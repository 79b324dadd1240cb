package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"loom/internal/export"
	"loom/internal/store"
)

var exportOutputPath string

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the descriptor as anchored YAML",
		Long: `Export serializes the descriptor with native YAML anchors and aliases:
every component referenced elsewhere is anchored once and aliased at each
reference site, and "extends" relationships become merge keys. The output
parses back into an equivalent descriptor.

Examples:
  loom export -f deploy.yaml
  loom export -f deploy.yaml -o deploy.export.yaml`,
		Args: cobra.NoArgs,
		RunE: runExport,
	}
	cmd.Flags().StringVarP(&exportOutputPath, "output", "o", "", "write to a file instead of stdout")
	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	s, err := store.Load(rootDescriptorPath, nil)
	if err != nil {
		return err
	}

	data, err := export.Marshal(s.Document())
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	// Refuse to emit output that does not parse back: an unresolvable
	// reference must be fixed, not exported.
	if _, err := export.Parse(data); err != nil {
		if anchor := export.DanglingAnchor(err); anchor != "" {
			return fmt.Errorf("descriptor references %q, which does not exist; fix it before exporting", anchor)
		}
		return fmt.Errorf("exported document does not parse back: %w", err)
	}

	if exportOutputPath == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(exportOutputPath, data, 0644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported descriptor to %s\n", exportOutputPath)
	return nil
}
