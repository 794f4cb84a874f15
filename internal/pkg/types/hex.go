package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var errMissingHexPrefix = errors.New("hex string must start with 0x")

// Hex is a 0x-prefixed hexadecimal quantity such as a chain id ("0x7a69").
type Hex string

func validateHex(s string) error {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return errMissingHexPrefix
	}

	if _, err := strconv.ParseUint(s[2:], 16, 64); err != nil {
		return fmt.Errorf("invalid hexadecimal value: %w", err)
	}

	return nil
}

// MarshalJSON encodes the Hex as a JSON string.
func (h Hex) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(h))
}

// UnmarshalJSON parses and validates a JSON-encoded hexadecimal string.
func (h *Hex) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid hex string: %w", err)
	}

	return h.Decode(s)
}

// Decode implements envconfig.Decoder so Hex values can be read directly
// from the environment.
func (h *Hex) Decode(value string) error {
	if err := validateHex(value); err != nil {
		return err
	}

	*h = Hex(value)
	return nil
}
