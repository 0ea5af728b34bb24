package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/virtualzx/molpack/pkg/packer"
)

// convertCommand creates the convert command, exposing the structure
// normalizer on its own.
func (c *CLI) convertCommand() *cobra.Command {
	var (
		format     string
		forceField string
		output     string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "convert <input>",
		Short: "Convert a structure file or SMILES string to xyz",
		Long: `Convert a structure to xyz format.

The input is a file path or a SMILES string. Files already in xyz format
are copied verbatim; other formats are converted with Open Babel, and
SMILES strings are embedded in 3-D under the selected force field.

  molpack convert benzene.pdb -o benzene.xyz
  molpack convert "CCO"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConvert(cmd, args[0], format, forceField, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "input format (default auto-detect)")
	cmd.Flags().StringVar(&forceField, "forcefield", "", "force field for 3-D embedding (default mmff94)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the conversion cache")

	return cmd
}

// runConvert normalizes one input and writes the xyz text.
func (c *CLI) runConvert(cmd *cobra.Command, input, format, forceField, output string, noCache bool) error {
	ctx := cmd.Context()

	if forceField == "" {
		forceField = c.Config.ForceField.Name
	}
	if forceField == "" {
		forceField = packer.DefaultForceField
	}

	n := c.newNormalizer(noCache)
	geom, err := n.Normalize(ctx, input, format, forceField)
	if err != nil {
		return err
	}
	defer geom.Release()

	data, err := geom.Bytes()
	if err != nil {
		return err
	}

	if output == "" {
		fmt.Print(string(data))
		return nil
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	printSuccess("Converted to xyz")
	printFile(output)
	return nil
}
