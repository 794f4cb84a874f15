package cli

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/gabapcia/medchain/internal/txsim"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parsePayload decodes a JSON object keeping numbers as json.Number so
// integers survive unchanged into the transaction calldata.
func parsePayload(raw string) (txsim.Payload, error) {
	payload := txsim.Payload{}
	if strings.TrimSpace(raw) == "" {
		return payload, nil
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return nil, err
	}

	return payload, nil
}
