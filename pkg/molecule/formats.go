package molecule

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/virtualzx/molpack/pkg/errors"
)

// FormatAuto is the sentinel that asks the normalizer to detect the input
// format itself: inputs that open as files are typed by extension, and
// anything else is treated as a SMILES string.
const FormatAuto = "auto"

// notationFormats are formats whose input is the string itself rather
// than a path to a file.
var notationFormats = map[string]bool{
	"smi":    true,
	"smiles": true,
}

// IsNotation reports whether the format denotes a chemical line notation
// (the input is the molecule, not a path).
func IsNotation(format string) bool {
	return notationFormats[strings.ToLower(format)]
}

// resolved describes an input after format detection.
type resolved struct {
	format   string // lowercased format token
	notation bool   // true when input is a SMILES string
}

// resolveFormat applies the auto-detection rule to an input and its
// declared format. For "auto", an openable path wins and its extension
// names the format; otherwise the input is taken to be SMILES.
func resolveFormat(input, declared string) (resolved, error) {
	declared = strings.ToLower(strings.TrimSpace(declared))
	if declared == "" {
		declared = FormatAuto
	}

	if declared != FormatAuto {
		if err := errors.ValidateFormat(declared); err != nil {
			return resolved{}, err
		}
		return resolved{format: declared, notation: IsNotation(declared)}, nil
	}

	if f, err := os.Open(input); err == nil {
		f.Close()
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input), "."))
		if ext == "" {
			return resolved{}, errors.New(errors.ErrCodeInvalidFormat,
				"cannot infer format of %q: no file extension", input)
		}
		return resolved{format: ext}, nil
	}

	return resolved{format: "smi", notation: true}, nil
}
