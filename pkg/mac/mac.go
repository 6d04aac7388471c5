// Package mac canonicalizes MAC address text so that addresses written with
// different case or zero-padding compare equal.
package mac

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidAddress indicates that a MAC address could not be parsed.
var ErrInvalidAddress = errors.New("invalid MAC address")

// FormatError describes a MAC address that could not be normalized.
type FormatError struct {
	Err     error
	Address string
	Octet   string
}

func (e *FormatError) Error() string {
	if e.Octet != "" {
		return fmt.Sprintf("%v %q: octet %q: %v", ErrInvalidAddress, e.Address, e.Octet, e.Err)
	}

	return fmt.Sprintf("%v %q: %v", ErrInvalidAddress, e.Address, e.Err)
}

func (e *FormatError) Unwrap() []error {
	return []error{ErrInvalidAddress, e.Err}
}

// Normalize returns the canonical form of a colon-delimited MAC address:
// lowercase hex, each octet zero-padded to two digits.
//
//	Normalize("A:b:C:d:E:f") // "0a:0b:0c:0d:0e:0f"
//
// Any number of octets from two up is accepted, so EUI-64 and truncated
// addresses compare like EUI-48 ones. Normalizing an address that is already
// canonical returns it unchanged.
func Normalize(address string) (string, error) {
	parts := strings.Split(address, ":")
	if len(parts) < 2 {
		return "", &FormatError{
			Address: address,
			Err:     errors.New("not colon-delimited"),
		}
	}

	octets := make([]string, len(parts))
	for i, part := range parts {
		if part == "" {
			return "", &FormatError{
				Address: address,
				Err:     fmt.Errorf("empty octet at position %d", i),
			}
		}

		v, err := strconv.ParseUint(part, 16, 8)
		if err != nil {
			return "", &FormatError{
				Address: address,
				Octet:   part,
				Err:     numError(err),
			}
		}

		octets[i] = fmt.Sprintf("%02x", v)
	}

	return strings.Join(octets, ":"), nil
}

// MustNormalize is like [Normalize] but panics on error.
func MustNormalize(address string) string {
	n, err := Normalize(address)
	if err != nil {
		panic(err)
	}

	return n
}

// Equal reports whether two MAC addresses are the same after normalization.
func Equal(a, b string) (bool, error) {
	na, err := Normalize(a)
	if err != nil {
		return false, err
	}

	nb, err := Normalize(b)
	if err != nil {
		return false, err
	}

	return na == nb, nil
}

// numError strips the strconv function name and input from the error, since
// [FormatError] already reports the octet.
func numError(err error) error {
	var ne *strconv.NumError
	if errors.As(err, &ne) {
		return ne.Err
	}

	return err
}
