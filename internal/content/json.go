package content

import "encoding/json"

// JSONCodec decodes JSON payloads into generic decoded values:
// map[string]any for objects, []any for arrays, and the usual scalar
// mappings with numbers as float64.
type JSONCodec struct{}

// MediaTypes claims plain JSON and the Thing Description registration.
// Other +json types reach this codec through the registry's suffix
// fallback.
func (JSONCodec) MediaTypes() []string {
	return []string{"application/json", "application/td+json"}
}

func (JSONCodec) Decode(data []byte, _ map[string]any) (any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func (JSONCodec) Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}
