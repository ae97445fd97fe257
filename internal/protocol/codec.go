package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"huddle/internal/core"
)

var validate = validator.New()

// Decode unmarshals an inbound frame into the given payload struct and
// checks its validate tags.
func Decode(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("bad payload: %w", err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}

// Encode marshals an outbound event into a wire frame.
// Events are plain structs; marshalling them cannot realistically fail,
// so errors degrade to a nil frame the transport will refuse to send.
func Encode(v any) (core.Frame, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode event: %w", err)
	}
	return core.Frame(b), nil
}
