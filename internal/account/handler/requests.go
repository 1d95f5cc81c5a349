package handler

import (
	"bytes"
	"encoding/json"
	"slices"

	"accountd/pkg/domain"
	dErrors "accountd/pkg/domain-errors"
)

type RegisterRequest struct {
	Name string `json:"name"`
}

// VerifyRequest carries the optional address. The "address" key must be
// present; null means the account is verified without one.
type VerifyRequest struct {
	Address domain.Option[domain.Address]
}

func (v *VerifyRequest) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "request body must be a JSON object")
	}
	raw, ok := fields["address"]
	if !ok {
		return dErrors.New(dErrors.CodeValidation, "address is required (use null for none)")
	}
	delete(fields, "address")
	if len(fields) > 0 {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		return dErrors.New(dErrors.CodeValidation, "unexpected field "+keys[0])
	}

	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		v.Address = domain.None[domain.Address]()
		return nil
	}
	var addr string
	if err := json.Unmarshal(raw, &addr); err != nil {
		return dErrors.New(dErrors.CodeValidation, "address must be a string or null")
	}
	v.Address = domain.Some(domain.NewAddress(addr))
	return nil
}
