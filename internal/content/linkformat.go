package content

import (
	"fmt"

	"github.com/wotscout/wotscout/internal/corelink"
)

// LinkFormatCodec decodes CoRE Link Format payloads into
// []corelink.Link.
type LinkFormatCodec struct{}

func (LinkFormatCodec) MediaTypes() []string {
	return []string{"application/link-format"}
}

func (LinkFormatCodec) Decode(data []byte, _ map[string]any) (any, error) {
	links, err := corelink.Parse(data)
	if err != nil {
		return nil, err
	}
	return links, nil
}

func (LinkFormatCodec) Encode(v any) ([]byte, error) {
	links, ok := v.([]corelink.Link)
	if !ok {
		return nil, fmt.Errorf("link-format codec: cannot encode %T", v)
	}
	return []byte(corelink.Format(links)), nil
}
