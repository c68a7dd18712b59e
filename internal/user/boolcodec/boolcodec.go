// Package boolcodec converts between canonical booleans and the textual
// two-token encoding used by text-typed storage columns.
//
// A Codec is configured with its token vocabulary; the decode/encode logic is
// shared across vocabularies. Decoding fails closed: anything outside the
// configured token sets is rejected, never defaulted.
package boolcodec

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidEncoding is returned (wrapped, naming the offending value) when
// input is outside the configured token sets.
var ErrInvalidEncoding = errors.New("invalid boolean encoding")

// Codec maps between *bool and a two-token textual encoding. The zero value
// is not usable; construct via YesNo, JaNein, or Lookup.
type Codec struct {
	name        string
	trueToken   string
	falseToken  string
	affirmative map[string]struct{}
	negative    map[string]struct{}
}

// YesNo returns the codec storing "yes"/"no", accepting the aliases
// yes/true/1 and no/false/0 case-insensitively on decode.
func YesNo() Codec {
	return newCodec("yes/no", "yes", "no",
		[]string{"yes", "true", "1"},
		[]string{"no", "false", "0"},
	)
}

// JaNein returns the codec storing "ja"/"nein".
func JaNein() Codec {
	return newCodec("ja/nein", "ja", "nein",
		[]string{"ja"},
		[]string{"nein"},
	)
}

// Lookup resolves a vocabulary by its configuration name.
func Lookup(name string) (Codec, error) {
	switch name {
	case "yes/no":
		return YesNo(), nil
	case "ja/nein":
		return JaNein(), nil
	default:
		return Codec{}, fmt.Errorf("unknown boolean vocabulary %q", name)
	}
}

func newCodec(name, trueToken, falseToken string, affirmative, negative []string) Codec {
	c := Codec{
		name:        name,
		trueToken:   trueToken,
		falseToken:  falseToken,
		affirmative: make(map[string]struct{}, len(affirmative)),
		negative:    make(map[string]struct{}, len(negative)),
	}
	for _, token := range affirmative {
		c.affirmative[token] = struct{}{}
	}
	for _, token := range negative {
		c.negative[token] = struct{}{}
	}
	return c
}

// Name returns the configuration name of the vocabulary.
func (c Codec) Name() string { return c.name }

// Decode normalizes boundary input to a canonical boolean. Native booleans
// pass through, strings are matched case-insensitively against the configured
// token sets, and nil stays nil (absence is not an error).
func (c Codec) Decode(raw any) (*bool, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case bool:
		return &v, nil
	case string:
		return c.decodeString(v)
	default:
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, raw)
	}
}

// DecodeToken decodes a stored text token. Used when reading the text-typed
// column back out of storage.
func (c Codec) DecodeToken(s *string) (*bool, error) {
	if s == nil {
		return nil, nil
	}
	return c.decodeString(*s)
}

func (c Codec) decodeString(s string) (*bool, error) {
	lowered := strings.ToLower(s)
	if _, ok := c.affirmative[lowered]; ok {
		v := true
		return &v, nil
	}
	if _, ok := c.negative[lowered]; ok {
		v := false
		return &v, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidEncoding, s)
}

// Encode renders a canonical boolean as the single canonical token per
// direction; nil stays nil. Decode(Encode(v)) == v for all v.
func (c Codec) Encode(v *bool) *string {
	if v == nil {
		return nil
	}
	token := c.falseToken
	if *v {
		token = c.trueToken
	}
	return &token
}
