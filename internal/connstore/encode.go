package connstore

import (
	"fmt"

	"github.com/sugawarayuuta/sonnet"

	"synapsecore/internal/manifest"
)

func encodeSpec(g manifest.GeneratorSpec) (string, error) {
	b, err := sonnet.Marshal(g)
	if err != nil {
		return "", fmt.Errorf("connstore: encode generator spec: %w", err)
	}
	return string(b), nil
}

func decodeSpec(params string, out *manifest.GeneratorSpec) error {
	kind := out.Kind
	if err := sonnet.Unmarshal([]byte(params), out); err != nil {
		return fmt.Errorf("connstore: decode generator spec: %w", err)
	}
	out.Kind = kind
	return nil
}
