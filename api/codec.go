// Copyright (c) 2026 ApiWeave and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package api

import "encoding/json"

// JSONContentType is the content type of the built-in JSON codec.
const JSONContentType = "application/json"

// Codec encodes and decodes resource instances for a single content type.
// Additional codecs live in the codec package and are registered per
// interface with [WithCodec]; only JSON is always available.
type Codec interface {
	ContentType() string
	Encode(v any) ([]byte, error)
	Decode(data []byte, v any) error
}

type jsonCodec struct{}

// JSON returns the built-in JSON codec.
func JSON() Codec {
	return jsonCodec{}
}

func (jsonCodec) ContentType() string {
	return JSONContentType
}

func (jsonCodec) Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Decode(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
