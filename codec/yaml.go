// Copyright (c) 2026 ApiWeave and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package codec provides codecs beyond the always-available JSON codec.
// They are registered per interface with [api.WithCodec] rather than
// being part of the default registry.
package codec

import (
	"github.com/apiweave/apiweave/api"

	"sigs.k8s.io/yaml"
)

// YAMLContentType is the content type served by [YAML].
const YAMLContentType = "application/x-yaml"

type yamlCodec struct{}

// YAML returns a codec for application/x-yaml. Struct json tags apply,
// so resources encode identically under JSON and YAML.
func YAML() api.Codec {
	return yamlCodec{}
}

func (yamlCodec) ContentType() string {
	return YAMLContentType
}

func (yamlCodec) Encode(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

func (yamlCodec) Decode(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}
