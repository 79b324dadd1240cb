package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"loom/internal/document"
	"loom/internal/export"
	"loom/internal/schemacheck"
	"loom/internal/store"
	"loom/internal/validator"
	"loom/pkg/logging"
	loomstrings "loom/pkg/strings"
)

var checkWatch bool

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check the descriptor for dangling references and broken schemas",
		Long: `Check runs every integrity check over the descriptor:

  - the round trip: the document is serialized with anchors/aliases and
    re-parsed; any alias whose referent is gone fails here
  - reference resolution: every declared reference field must resolve to
    an existing component, whatever encoding it uses
  - embedded JSON Schemas (tool parameters) must compile

With --watch, the descriptor file is re-checked every time it changes on
disk.

Examples:
  loom check -f deploy.yaml
  loom check -f deploy.yaml --watch`,
		Args: cobra.NoArgs,
		RunE: runCheck,
	}
	cmd.Flags().BoolVar(&checkWatch, "watch", false, "re-run checks when the descriptor changes")
	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	s, err := store.Load(rootDescriptorPath, nil)
	if err != nil {
		return err
	}

	if !checkWatch {
		problems := runChecks(cmd, s.Document())
		if problems > 0 {
			return &checkFailedError{problems: problems}
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Descriptor is consistent.")
		return nil
	}

	// Watch mode: check now, then again after every reload, until
	// interrupted. Failures are reported but do not end the loop.
	var mu sync.Mutex
	recheck := func() {
		mu.Lock()
		defer mu.Unlock()
		if problems := runChecks(cmd, s.Document()); problems == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Descriptor is consistent.")
		}
	}
	recheck()

	w := store.NewWatcher(s, recheck)
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	logging.Info("Check", "Stopping watch mode")
	return nil
}

// runChecks executes the three check classes concurrently — they are all
// read-only over the same document value — and prints one table of
// findings. It returns the number of problems.
func runChecks(cmd *cobra.Command, doc document.Document) int {
	var (
		roundTripErr error
		broken       []validator.BrokenReference
		schemaProbs  []schemacheck.Problem
	)

	var g errgroup.Group
	g.Go(func() error {
		_, roundTripErr = export.RoundTrip(doc.Clone())
		return nil
	})
	g.Go(func() error {
		broken = validator.CheckReferences(doc)
		return nil
	})
	g.Go(func() error {
		schemaProbs = schemacheck.CheckDocument(doc)
		return nil
	})
	_ = g.Wait()

	problems := len(broken) + len(schemaProbs)
	if roundTripErr != nil {
		problems++
	}
	if problems == 0 {
		return 0
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.AppendHeader(table.Row{"Check", "Component", "Detail"})
	if roundTripErr != nil {
		detail := roundTripErr.Error()
		if anchor := export.DanglingAnchor(roundTripErr); anchor != "" {
			detail = fmt.Sprintf("dangling reference to %q", anchor)
		}
		t.AppendRow(table.Row{"round-trip", "-", loomstrings.Truncate(detail, loomstrings.DefaultDetailMaxLen)})
	}
	for _, b := range broken {
		t.AppendRow(table.Row{"reference", fmt.Sprintf("%s/%s", b.Type, b.Key),
			fmt.Sprintf("%s does not resolve (%v)", b.Field, b.Value)})
	}
	for _, p := range schemaProbs {
		t.AppendRow(table.Row{"schema", fmt.Sprintf("%s/%s", p.Category, p.Key),
			loomstrings.Truncate(fmt.Sprintf("%s: %v", p.Field, p.Err), loomstrings.DefaultDetailMaxLen)})
	}
	t.Render()
	return problems
}
