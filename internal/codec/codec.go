// Package codec encodes record payloads and instruction arguments in Borsh:
// little-endian integers, fixed arrays inline, strings and slices prefixed
// with a u32 length.
package codec

import (
	"fmt"

	borsh "github.com/near/borsh-go"
)

// Marshal encodes v.
func Marshal(v any) ([]byte, error) {
	data, err := borsh.Serialize(v)
	if err != nil {
		return nil, fmt.Errorf("borsh encode %T:\n%w", v, err)
	}

	return data, nil
}

// MustMarshal encodes v and panics on failure.
// Only for fixed-shape types whose encoding cannot fail.
func MustMarshal(v any) []byte {
	data, err := Marshal(v)
	if err != nil {
		panic(err)
	}

	return data
}

// Unmarshal decodes data into the value pointed to by v.
// Malformed input returns an error instead of panicking.
func Unmarshal(data []byte, v any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("borsh decode %T: %v", v, r)
		}
	}()

	if err := borsh.Deserialize(v, data); err != nil {
		return fmt.Errorf("borsh decode %T:\n%w", v, err)
	}

	return nil
}
