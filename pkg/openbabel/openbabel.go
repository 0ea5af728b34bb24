// Package openbabel implements the molecule.Converter capability by
// shelling out to the Open Babel command-line tools.
//
// Requires openbabel: brew install open-babel (macOS), apt install
// openbabel (Linux). Availability can be probed with Available before
// constructing a session, so callers can degrade to xyz-only input
// instead of failing mid-run.
package openbabel

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/virtualzx/molpack/pkg/molecule"
)

// Tool names looked up on PATH.
const (
	obabelCmd   = "obabel"
	obenergyCmd = "obenergy"
)

// Client converts molecular formats via the obabel and obenergy binaries.
type Client struct {
	// Obabel overrides the obabel binary path. Empty means "obabel".
	Obabel string

	// Obenergy overrides the obenergy binary path. Empty means "obenergy".
	Obenergy string
}

// New creates a client using the tools found on PATH.
func New() *Client {
	return &Client{}
}

// Available reports whether the obabel binary can be found.
func Available() bool {
	_, err := exec.LookPath(obabelCmd)
	return err == nil
}

func (c *Client) obabel() string {
	if c.Obabel != "" {
		return c.Obabel
	}
	return obabelCmd
}

func (c *Client) obenergy() string {
	if c.Obenergy != "" {
		return c.Obenergy
	}
	return obenergyCmd
}

// ConvertFile reads a structure file in the given format and exports it
// as xyz bytes.
func (c *Client) ConvertFile(ctx context.Context, path, format string) ([]byte, error) {
	args := []string{"-i" + format, path, "-o" + molecule.CanonicalFormat}
	return c.run(ctx, c.obabel(), args, nil)
}

// Embed3D generates 3-D coordinates for a SMILES string under the given
// force field and exports the result as xyz bytes. The SMILES is fed on
// stdin so shell-sensitive characters never reach an argv.
func (c *Client) Embed3D(ctx context.Context, smiles, forceField string) ([]byte, error) {
	args := []string{"-ismi", "-o" + molecule.CanonicalFormat, "--gen3d"}
	if forceField != "" {
		args = append(args, "--ff", forceField)
	}
	return c.run(ctx, c.obabel(), args, strings.NewReader(smiles+"\n"))
}

// energyRegex extracts the total energy line from obenergy output, e.g.
// "TOTAL ENERGY = -15.50461 kcal/mol".
var energyRegex = regexp.MustCompile(`TOTAL ENERGY\s*=\s*(-?\d+(?:\.\d+)?(?:[eE][+-]?\d+)?)`)

// Energy computes the single-point energy of an xyz geometry under the
// given force field.
func (c *Client) Energy(ctx context.Context, path, forceField string) (float64, error) {
	args := []string{}
	if forceField != "" {
		args = append(args, "-ff", strings.ToUpper(forceField))
	}
	args = append(args, path)

	out, err := c.run(ctx, c.obenergy(), args, nil)
	if err != nil {
		return 0, err
	}

	m := energyRegex.FindSubmatch(out)
	if m == nil {
		return 0, fmt.Errorf("%s: no total energy in output", c.obenergy())
	}
	return strconv.ParseFloat(string(m[1]), 64)
}

// run executes an Open Babel tool with stdin piped and stdout captured.
func (c *Client) run(ctx context.Context, name string, args []string, stdin *strings.Reader) ([]byte, error) {
	if _, err := exec.LookPath(name); err != nil {
		return nil, fmt.Errorf("format conversion requires Open Babel. Install with:\n  macOS:  brew install open-babel\n  Linux:  apt install openbabel")
	}

	cmd := exec.CommandContext(ctx, name, args...)
	if stdin != nil {
		cmd.Stdin = stdin
	}

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %v: %s", name, err, strings.TrimSpace(errBuf.String()))
	}
	return out.Bytes(), nil
}

// Ensure Client implements molecule.Converter.
var _ molecule.Converter = (*Client)(nil)
