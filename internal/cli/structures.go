package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/virtualzx/molpack/pkg/errors"
	"github.com/virtualzx/molpack/pkg/packer"
)

// structureArg is one parsed structure argument.
type structureArg struct {
	input string
	count int
}

// parseStructureArg parses "input[=count]" arguments like "water.xyz=500"
// or "CCO=20". The count suffix is the part after the last "=" when it
// parses as an integer; otherwise the whole argument is the input (SMILES
// strings like "C=C" stay intact) with a count of 1.
func parseStructureArg(arg string) (structureArg, error) {
	if arg == "" {
		return structureArg{}, errors.New(errors.ErrCodeInvalidInput, "empty structure argument")
	}

	if i := strings.LastIndex(arg, "="); i > 0 {
		if count, err := strconv.Atoi(arg[i+1:]); err == nil {
			if count <= 0 {
				return structureArg{}, errors.New(errors.ErrCodeInvalidInput,
					"structure count must be positive in %q", arg)
			}
			return structureArg{input: arg[:i], count: count}, nil
		}
	}
	return structureArg{input: arg, count: 1}, nil
}

// addStructures parses and adds every structure argument to the session.
func addStructures(ctx context.Context, s *packer.Session, args []string, format string) (int, error) {
	molecules := 0
	for _, arg := range args {
		parsed, err := parseStructureArg(arg)
		if err != nil {
			return 0, err
		}
		if err := s.AddStructure(ctx, parsed.input, packer.StructureSpec{
			Count:  parsed.count,
			Format: format,
		}); err != nil {
			return 0, err
		}
		molecules += parsed.count
	}
	return molecules, nil
}
