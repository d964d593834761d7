// Copyright (c) 2026 ApiWeave and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package codec

import (
	"github.com/apiweave/apiweave/api"

	"github.com/vmihailenco/msgpack/v5"
)

// MsgPackContentType is the content type served by [MsgPack].
const MsgPackContentType = "application/x-msgpack"

type msgpackCodec struct{}

// MsgPack returns a codec for application/x-msgpack.
func MsgPack() api.Codec {
	return msgpackCodec{}
}

func (msgpackCodec) ContentType() string {
	return MsgPackContentType
}

func (msgpackCodec) Encode(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

func (msgpackCodec) Decode(data []byte, v any) error {
	return msgpack.Unmarshal(data, v)
}
