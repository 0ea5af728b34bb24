package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// KnownFormats is the set of molecular file formats molpack recognizes for
// declared inputs. "auto" is a sentinel resolved by the normalizer, not a
// format. Anything else is forwarded to the conversion capability, which
// has its own (much larger) format table, so this set is advisory for
// validation messages rather than a hard whitelist.
var KnownFormats = map[string]bool{
	"xyz":    true,
	"smi":    true,
	"smiles": true,
	"pdb":    true,
	"mol":    true,
	"mol2":   true,
	"sdf":    true,
	"cml":    true,
}

// ValidateFormat validates a declared input format token.
// Rules are intentionally loose: formats are lowercase alphanumeric tokens,
// at most 16 characters. Unknown tokens pass so that any format Open Babel
// supports can be declared.
func ValidateFormat(format string) error {
	if format == "" {
		return New(ErrCodeInvalidFormat, "format cannot be empty")
	}
	if len(format) > 16 {
		return New(ErrCodeInvalidFormat, "format token too long (max 16 characters)")
	}
	for _, r := range format {
		if !unicode.IsLower(r) && !unicode.IsDigit(r) {
			return New(ErrCodeInvalidFormat, "invalid format token: %q", format)
		}
	}
	return nil
}

// optionNameRegex matches valid packmol directive names.
var optionNameRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ValidateOptionName validates an option name destined for the packmol
// input grammar. Names become the first token of a directive line, so they
// must not contain whitespace or characters that would change line
// structure.
func ValidateOptionName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidOption, "option name cannot be empty")
	}
	if len(name) > 64 {
		return New(ErrCodeInvalidOption, "option name too long (max 64 characters)")
	}
	if !optionNameRegex.MatchString(name) {
		return New(ErrCodeInvalidOption, "invalid option name: %q", name)
	}
	return nil
}

// ValidateOptionString validates a string option value for the packmol
// grammar. Values occupy the rest of a directive line, so embedded
// newlines or control characters would corrupt the serialized program.
func ValidateOptionString(value string) error {
	for _, r := range value {
		if r == '\n' || r == '\r' || unicode.IsControl(r) {
			return New(ErrCodeInvalidOption, "option value contains control characters")
		}
	}
	return nil
}

// ValidateStructureInput validates the raw input passed to addStructure.
// The input may be a path or a SMILES string; both are rejected when empty
// or containing bytes that can never be valid in either interpretation.
func ValidateStructureInput(input string) error {
	if input == "" {
		return New(ErrCodeInvalidInput, "structure input cannot be empty")
	}
	if strings.ContainsRune(input, '\x00') {
		return New(ErrCodeInvalidInput, "structure input contains a null byte")
	}
	for _, r := range input {
		if r == '\n' || r == '\r' {
			return New(ErrCodeInvalidInput, "structure input cannot span multiple lines")
		}
	}
	return nil
}
