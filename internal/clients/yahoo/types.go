package yahoo

import (
	"bytes"
	"encoding/json"

	"github.com/aristath/lynchlens/internal/domain"
)

// value decodes the Yahoo number envelope. Fields arrive either as a bare
// number, a formatted string, or an object like {"raw": 1.23, "fmt": "1.23"};
// all collapse to an OptionalFloat.
type value struct {
	domain.OptionalFloat
}

func (v *value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var envelope struct {
			Raw domain.OptionalFloat `json:"raw"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			v.OptionalFloat = domain.None()
			return nil
		}
		v.OptionalFloat = envelope.Raw
		return nil
	}
	return v.OptionalFloat.UnmarshalJSON(trimmed)
}
