package td

import "github.com/wotscout/wotscout/internal/jsonval"

// SecurityScheme describes one named security configuration a Thing
// accepts, keyed under securityDefinitions and referenced by name from
// security fields.
type SecurityScheme struct {
	Scheme       string
	Description  string
	Proxy        string
	JSONLDType   []string
	Descriptions map[string]string
	Additional   map[string]any
}

// ParseSecurityScheme builds a SecurityScheme from a decoded JSON
// object. scheme is required and must be a string. "@type" accepts a
// bare string or an array and normalizes both to a list. Entries of
// descriptions whose value is not a string are dropped, not rejected;
// the leniency does not extend to "@type" array elements.
func ParseSecurityScheme(obj *jsonval.Object) (SecurityScheme, error) {
	var s SecurityScheme
	var err error

	if s.Scheme, err = obj.String("scheme"); err != nil {
		return SecurityScheme{}, err
	}
	if s.Description, _, err = obj.OptionalString("description"); err != nil {
		return SecurityScheme{}, err
	}
	if s.Proxy, _, err = obj.OptionalString("proxy"); err != nil {
		return SecurityScheme{}, err
	}
	if s.JSONLDType, _, err = obj.OptionalStringOrArray("@type"); err != nil {
		return SecurityScheme{}, err
	}
	if s.Descriptions, _, err = obj.OptionalStringMapLenient("descriptions"); err != nil {
		return SecurityScheme{}, err
	}

	s.Additional = obj.Remaining()
	return s, nil
}
