// Package json wraps encoding/json with error messages that point to the
// position of a syntax or type error in the input.
package json

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Marshal is a wrapper for json.Marshal
func Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// MarshalIndent is a wrapper for json.MarshalIndent
func MarshalIndent(v interface{}, prefix, indent string) ([]byte, error) {
	return json.MarshalIndent(v, prefix, indent)
}

// Unmarshal is a wrapper for json.Unmarshal that formats errors with FormatError.
func Unmarshal(data []byte, v interface{}) error {
	if err := json.Unmarshal(data, v); err != nil {
		return FormatError(data, err)
	}

	return nil
}

// FormatError takes the marshalled data and the error from Unmarshal and returns a detailed
// error message where the error was and what the error is.
func FormatError(input []byte, err error) error {
	var syntaxError *json.SyntaxError
	if errors.As(err, &syntaxError) {
		line, character, offsetError := lineAndCharacter(input, int(syntaxError.Offset))
		if offsetError != nil {
			return err
		}

		return fmt.Errorf("syntax error at line %d, character %d: %w", line, character, err)
	}

	var typeError *json.UnmarshalTypeError
	if errors.As(err, &typeError) {
		line, character, offsetError := lineAndCharacter(input, int(typeError.Offset))
		if offsetError != nil {
			return err
		}

		return fmt.Errorf("expect type '%s' for '%s' at line %d, character %d: %w", typeError.Type.String(), typeError.Field, line, character, err)
	}

	return err
}

func lineAndCharacter(input []byte, offset int) (line int, character int, err error) {
	if offset > len(input) || offset < 0 {
		return 0, 0, fmt.Errorf("couldn't find offset %d within the input", offset)
	}

	line = 1

	for i, b := range input {
		if b == '\n' {
			line++
			character = 0
		}
		character++
		if i == offset {
			break
		}
	}

	return line, character, nil
}
