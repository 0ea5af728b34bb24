package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/virtualzx/molpack/pkg/errors"
	"github.com/virtualzx/molpack/pkg/packer"
)

// packFlags are the session options shared by pack and autosize.
type packFlags struct {
	tolerance  float64
	output     string
	executable string
	forceField string
	size       float64
	region     string
	seed       int64
	format     string
	noCache    bool
}

// register wires the shared flags onto a command.
func (f *packFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64VarP(&f.tolerance, "tolerance", "t", 0, "minimum inter-molecule distance (default from config or 3.0)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "packed geometry output path (default packed.xyz)")
	cmd.Flags().StringVar(&f.executable, "executable", "", "packmol command line (default packmol)")
	cmd.Flags().StringVar(&f.forceField, "forcefield", "", "force field for embedding and energy (default mmff94)")
	cmd.Flags().StringVar(&f.region, "region", "", "placement region shape (sphere, or empty for none)")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "random seed (0 derives one)")
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "input format for all structures (default auto-detect)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the conversion cache")
}

// apply copies set flags onto the session.
func (f *packFlags) apply(cmd *cobra.Command, s *packer.Session) {
	if cmd.Flags().Changed("tolerance") {
		s.SetOption(packer.OptTolerance, f.tolerance)
	}
	if f.output != "" {
		s.SetOption(packer.OptOutput, f.output)
	}
	if f.executable != "" {
		s.SetOption(packer.OptExecutable, f.executable)
	}
	if f.forceField != "" {
		s.SetOption(packer.OptForceField, f.forceField)
	}
	if cmd.Flags().Changed("region") {
		s.SetOption(packer.OptRegionType, f.region)
	}
	if f.seed != 0 {
		s.SetOption(packer.OptSeed, f.seed)
	}
}

// packCommand creates the pack command.
func (c *CLI) packCommand() *cobra.Command {
	flags := &packFlags{}

	cmd := &cobra.Command{
		Use:   "pack <structure[=count]>...",
		Short: "Pack molecules into a region with packmol",
		Long: `Pack molecules into a spatial region with packmol.

Each structure argument is a file path or a SMILES string, optionally
followed by "=count" for the number of copies:

  molpack pack water.xyz=500
  molpack pack CCO=20 water.xyz=480 --size 25

Files in formats other than xyz, and SMILES strings, require Open Babel
(obabel) on PATH for conversion. Converted geometries are cached so
repeated runs skip the conversion.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPack(cmd, args, flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().Float64VarP(&flags.size, "size", "s", 0, "placement region size (sphere radius, default 10.0)")

	return cmd
}

// runPack builds the session, adds structures, and executes one run.
func (c *CLI) runPack(cmd *cobra.Command, args []string, flags *packFlags) error {
	ctx := cmd.Context()

	s := c.newSession(flags.noCache)
	defer s.Close()
	flags.apply(cmd, s)
	if flags.size != 0 {
		s.SetOption(packer.OptDimensions, flags.size)
	}

	molecules, err := addStructures(ctx, s, args, flags.format)
	if err != nil {
		return err
	}
	printPackStats(s.Len(), molecules, false)

	runner := packer.NewRunner(c.Logger)

	spinner := newSpinnerWithContext(ctx, "Packing molecules...")
	spinner.Start()
	result, runErr := runner.Run(ctx, s)
	spinner.Stop()

	return c.reportRun(result, runErr)
}

// reportRun prints the outcome of a run.
func (c *CLI) reportRun(result *packer.RunResult, runErr error) error {
	if runErr != nil {
		if errors.Is(runErr, errors.ErrCodeSoftFailure) && result != nil {
			printWarning("%s", errors.UserMessage(runErr))
			printFile(result.OutputPath)
			return nil
		}
		return runErr
	}

	printSuccess("Packing finished")
	printFile(result.OutputPath)
	printDetail("seed %d · %s", result.Seed, result.Duration.Round(time.Millisecond))
	if result.Energy != nil {
		printDetail("energy %.4f kcal/mol", *result.Energy)
	}
	return nil
}
