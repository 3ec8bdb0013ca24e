// Copyright 2026 Teal.Finance/Fxauth contributors
// This file is part of Teal.Finance/Fxauth,
// a single-admin session server under the MIT License.
// SPDX-License-Identifier: MIT

package session

import (
	"errors"
	"fmt"

	"github.com/mailru/easyjson"
	"github.com/mailru/easyjson/jlexer"
	"github.com/mailru/easyjson/jwriter"

	"github.com/teal-finance/fxauth/aead"
)

// The easyjson generator encodes []byte as Base64.
// These marshalers are written by hand to keep the bytes as JSON numbers.

var (
	_ easyjson.Marshaler   = Envelope{}
	_ easyjson.Unmarshaler = (*Envelope)(nil)
)

var (
	errNullEnvelope   = errors.New("session: null envelope")
	errMissingNonce   = errors.New("session: missing nonce")
	errMissingPayload = errors.New("session: missing ciphertext")
)

func easyjsonDecodeEnvelope(in *jlexer.Lexer, out *Envelope) {
	isTopLevel := in.IsStart()
	if in.IsNull() {
		in.Skip()
		in.AddError(errNullEnvelope)
		return
	}

	var hasNonce, hasCiphertext bool

	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeFieldName(false)
		in.WantColon()
		switch key {
		case "nonce":
			hasNonce = decodeNonce(in, &out.Nonce)
		case "ciphertext":
			out.Ciphertext, hasCiphertext = decodeBytes(in)
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
	if isTopLevel {
		in.Consumed()
	}

	switch {
	case !in.Ok():
	case !hasNonce:
		in.AddError(errMissingNonce)
	case !hasCiphertext:
		in.AddError(errMissingPayload)
	}
}

func decodeNonce(in *jlexer.Lexer, nonce *aead.Nonce) bool {
	if in.IsNull() {
		in.Skip()
		return false
	}

	n := 0
	in.Delim('[')
	for !in.IsDelim(']') {
		if n < aead.NonceSize {
			nonce[n] = in.Uint8()
		} else {
			in.SkipRecursive()
		}
		n++
		in.WantComma()
	}
	in.Delim(']')

	if n != aead.NonceSize {
		in.AddError(fmt.Errorf("session: want %d nonce bytes but got %d", aead.NonceSize, n))
		return false
	}
	return true
}

func decodeBytes(in *jlexer.Lexer) ([]byte, bool) {
	if in.IsNull() {
		in.Skip()
		return nil, false
	}

	b := make([]byte, 0, 64)
	in.Delim('[')
	for !in.IsDelim(']') {
		b = append(b, in.Uint8())
		in.WantComma()
	}
	in.Delim(']')
	return b, true
}

func easyjsonEncodeEnvelope(out *jwriter.Writer, in Envelope) {
	out.RawString(`{"nonce":`)
	encodeBytes(out, in.Nonce[:])
	out.RawString(`,"ciphertext":`)
	encodeBytes(out, in.Ciphertext)
	out.RawByte('}')
}

func encodeBytes(out *jwriter.Writer, b []byte) {
	out.RawByte('[')
	for i, v := range b {
		if i > 0 {
			out.RawByte(',')
		}
		out.Uint8(v)
	}
	out.RawByte(']')
}

// MarshalJSON supports json.Marshaler interface.
func (v Envelope) MarshalJSON() ([]byte, error) {
	w := jwriter.Writer{}
	easyjsonEncodeEnvelope(&w, v)
	return w.Buffer.BuildBytes(), w.Error
}

// MarshalEasyJSON supports easyjson.Marshaler interface.
func (v Envelope) MarshalEasyJSON(w *jwriter.Writer) {
	easyjsonEncodeEnvelope(w, v)
}

// UnmarshalJSON supports json.Unmarshaler interface.
func (v *Envelope) UnmarshalJSON(data []byte) error {
	r := jlexer.Lexer{Data: data}
	easyjsonDecodeEnvelope(&r, v)
	return r.Error()
}

// UnmarshalEasyJSON supports easyjson.Unmarshaler interface.
func (v *Envelope) UnmarshalEasyJSON(l *jlexer.Lexer) {
	easyjsonDecodeEnvelope(l, v)
}
