package models

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"accountd/pkg/domain"
)

const (
	fieldName    = "name"
	fieldStatus  = "status"
	fieldAddress = "address"
)

// variantFields lists the keys each variant accepts. Anything else is rejected.
var variantFields = map[Status][]string{
	StatusCreated:  {fieldName, fieldStatus},
	StatusVerified: {fieldName, fieldStatus, fieldAddress},
	StatusDeleted:  {fieldName, fieldStatus},
}

// Decode validates an untyped value and builds the matching Account variant.
//
// input is expected to be the result of unmarshalling JSON or YAML into any.
// The address key is required on Verified accounts; a null value decodes to
// None and a string to Some.
//
// Errors: always *DecodeError.
func Decode(input any) (Account, error) {
	obj, ok := input.(map[string]any)
	if !ok {
		return nil, &DecodeError{Reason: ReasonNotAnObject, Expected: "object", Actual: describe(input)}
	}

	status, err := decodeStatus(obj)
	if err != nil {
		return nil, err
	}

	name, err := decodeString(obj, fieldName)
	if err != nil {
		return nil, err
	}

	var address domain.Option[domain.Address]
	if status == StatusVerified {
		address, err = decodeNullableAddress(obj)
		if err != nil {
			return nil, err
		}
	}

	if err := rejectUnexpected(obj, variantFields[status]); err != nil {
		return nil, err
	}

	switch status {
	case StatusCreated:
		return CreatedAccount{name: domain.NewName(name)}, nil
	case StatusVerified:
		return VerifiedAccount{name: domain.NewName(name), address: address}, nil
	default:
		return DeletedAccount{name: domain.NewName(name)}, nil
	}
}

// DecodeJSON parses data as JSON and decodes it.
func DecodeJSON(data []byte) (Account, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &DecodeError{Reason: ReasonMalformed, Expected: "JSON document", Actual: err.Error()}
	}
	return Decode(raw)
}

// DecodeYAML parses data as YAML and decodes it.
func DecodeYAML(data []byte) (Account, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &DecodeError{Reason: ReasonMalformed, Expected: "YAML document", Actual: err.Error()}
	}
	return Decode(raw)
}

// Encode renders a into the untyped shape Decode accepts.
// Decode(Encode(a)) == a for every Account.
func Encode(a Account) map[string]any {
	out := map[string]any{
		fieldName:   string(a.Name()),
		fieldStatus: string(a.Status()),
	}
	if v, ok := a.(VerifiedAccount); ok {
		if addr, present := v.address.Get(); present {
			out[fieldAddress] = string(addr)
		} else {
			out[fieldAddress] = nil
		}
	}
	return out
}

// EncodeJSON is json.Marshal over Encode.
func EncodeJSON(a Account) ([]byte, error) {
	return json.Marshal(Encode(a))
}

type plainWire struct {
	Name   string `json:"name"`
	Status Status `json:"status"`
}

type verifiedWire struct {
	Name    string  `json:"name"`
	Status  Status  `json:"status"`
	Address *string `json:"address"`
}

func (a CreatedAccount) MarshalJSON() ([]byte, error) {
	return json.Marshal(plainWire{Name: string(a.name), Status: StatusCreated})
}

func (a VerifiedAccount) MarshalJSON() ([]byte, error) {
	w := verifiedWire{Name: string(a.name), Status: StatusVerified}
	if addr, ok := a.address.Get(); ok {
		s := string(addr)
		w.Address = &s
	}
	return json.Marshal(w)
}

func (a DeletedAccount) MarshalJSON() ([]byte, error) {
	return json.Marshal(plainWire{Name: string(a.name), Status: StatusDeleted})
}

func decodeStatus(obj map[string]any) (Status, error) {
	raw, ok := obj[fieldStatus]
	if !ok {
		return "", missingField(fieldStatus, statusLiterals())
	}
	s, ok := raw.(string)
	if !ok {
		return "", typeMismatch(fieldStatus, statusLiterals(), raw)
	}
	st := Status(s)
	if !st.IsValid() {
		return "", &DecodeError{
			Path:     fieldStatus,
			Reason:   ReasonInvalidLiteral,
			Expected: statusLiterals(),
			Actual:   strconv.Quote(s),
		}
	}
	return st, nil
}

func decodeString(obj map[string]any, field string) (string, error) {
	raw, ok := obj[field]
	if !ok {
		return "", missingField(field, "string")
	}
	s, ok := raw.(string)
	if !ok {
		return "", typeMismatch(field, "string", raw)
	}
	return s, nil
}

func decodeNullableAddress(obj map[string]any) (domain.Option[domain.Address], error) {
	raw, ok := obj[fieldAddress]
	if !ok {
		return domain.None[domain.Address](), missingField(fieldAddress, "string | null")
	}
	if raw == nil {
		return domain.None[domain.Address](), nil
	}
	s, ok := raw.(string)
	if !ok {
		return domain.None[domain.Address](), typeMismatch(fieldAddress, "string | null", raw)
	}
	return domain.Some(domain.NewAddress(s)), nil
}

func rejectUnexpected(obj map[string]any, allowed []string) error {
	var extra []string
	for key := range obj {
		if !slices.Contains(allowed, key) {
			extra = append(extra, key)
		}
	}
	if len(extra) == 0 {
		return nil
	}
	slices.Sort(extra)
	return unexpectedField(extra[0], obj[extra[0]])
}

func statusLiterals() string {
	quoted := make([]string, 0, len(allowedTransitions))
	for _, s := range Statuses() {
		quoted = append(quoted, strconv.Quote(string(s)))
	}
	return strings.Join(quoted, " | ")
}

// describe names the representational shape of an untyped value.
func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int64, int32, uint64, uint32, json.Number:
		return "number"
	case map[string]any, map[any]any:
		return "object"
	case []any:
		return "array"
	default:
		return fmt.Sprintf("%T", v)
	}
}
