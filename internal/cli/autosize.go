package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/virtualzx/molpack/pkg/errors"
	"github.com/virtualzx/molpack/pkg/observability"
	"github.com/virtualzx/molpack/pkg/packer"
)

// probeRecorder collects autosize probe outcomes for the summary table.
type probeRecorder struct {
	observability.NoopRunHooks
	probes []probe
}

type probe struct {
	size           float64
	classification string
}

func (r *probeRecorder) OnAutosizeProbe(_ context.Context, size float64, classification string) {
	r.probes = append(r.probes, probe{size: size, classification: classification})
}

// autosizeCommand creates the autosize command.
func (c *CLI) autosizeCommand() *cobra.Command {
	flags := &packFlags{}
	var (
		minSize float64
		maxSize float64
		step    float64
	)

	cmd := &cobra.Command{
		Use:   "autosize <structure[=count]>...",
		Short: "Find the smallest region size that packs successfully",
		Long: `Find the smallest placement-region size that packs successfully.

The search probes sizes min, min+step, min+2*step, ... below max, running
packmol at each size. A size whose run only violates tolerance constraints
moves the search onward; the first clean run wins.

  molpack autosize water.xyz=500 --min 8 --max 30 --step 0.5`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAutosize(cmd, args, flags, packer.AutosizeOptions{
				MinSize: minSize,
				MaxSize: maxSize,
				Step:    step,
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().Float64Var(&minSize, "min", packer.DefaultDimensions, "first region size to probe")
	cmd.Flags().Float64Var(&maxSize, "max", c.Config.Autosize.MaxSize, "exclusive upper bound (default 20)")
	cmd.Flags().Float64Var(&step, "step", c.Config.Autosize.Step, "size increment between probes (default 0.2)")

	return cmd
}

// runAutosize builds the session and drives the size search.
func (c *CLI) runAutosize(cmd *cobra.Command, args []string, flags *packFlags, opts packer.AutosizeOptions) error {
	ctx := cmd.Context()

	s := c.newSession(flags.noCache)
	defer s.Close()
	flags.apply(cmd, s)

	molecules, err := addStructures(ctx, s, args, flags.format)
	if err != nil {
		return err
	}
	printPackStats(s.Len(), molecules, false)

	recorder := &probeRecorder{}
	observability.SetRunHooks(recorder)
	defer observability.Reset()

	runner := packer.NewRunner(c.Logger)

	spinner := newSpinnerWithContext(ctx, "Searching region size...")
	spinner.Start()
	size, searchErr := runner.Autosize(ctx, s, opts)
	spinner.Stop()

	printProbeTable(recorder.probes)

	if searchErr != nil {
		if errors.Is(searchErr, errors.ErrCodeSizeNotFound) {
			printError("%s", errors.UserMessage(searchErr))
			return searchErr
		}
		return searchErr
	}

	printSuccess("Packed at region size %g", size)
	result := s.LastResult()
	if result != nil {
		printFile(result.OutputPath)
		printDetail("seed %d · %s", result.Seed, result.Duration.Round(time.Millisecond))
		if result.Energy != nil {
			printDetail("energy %.4f kcal/mol", *result.Energy)
		}
	}
	return nil
}

// printProbeTable renders the per-size probe outcomes.
func printProbeTable(probes []probe) {
	if len(probes) == 0 {
		return
	}

	rows := make([][]string, 0, len(probes))
	for _, p := range probes {
		rows = append(rows, []string{fmt.Sprintf("%g", p.size), p.classification})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Size", "Outcome").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			switch probes[row].classification {
			case string(packer.ClassSuccess):
				return lipgloss.NewStyle().Foreground(colorGreen)
			case string(packer.ClassHardFailure):
				return lipgloss.NewStyle().Foreground(colorRed)
			}
			return lipgloss.NewStyle().Foreground(colorDim)
		})

	fmt.Println(t.Render())
}
