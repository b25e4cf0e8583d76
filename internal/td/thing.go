package td

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wotscout/wotscout/internal/jsonval"
)

// Link relates a Thing Description to another resource.
type Link struct {
	Href       string
	Type       string
	Rel        string
	Anchor     string
	Additional map[string]any
}

// ParseLink builds a Link from a decoded JSON object. href is
// required.
func ParseLink(obj *jsonval.Object) (Link, error) {
	var l Link
	var err error

	if l.Href, err = obj.String("href"); err != nil {
		return Link{}, err
	}
	if l.Type, _, err = obj.OptionalString("type"); err != nil {
		return Link{}, err
	}
	if l.Rel, _, err = obj.OptionalString("rel"); err != nil {
		return Link{}, err
	}
	if l.Anchor, _, err = obj.OptionalString("anchor"); err != nil {
		return Link{}, err
	}

	l.Additional = obj.Remaining()
	return l, nil
}

// VersionInfo is a Thing Description's version block.
type VersionInfo struct {
	Instance string
	Model    string
}

func parseVersionInfo(obj *jsonval.Object) (VersionInfo, error) {
	var v VersionInfo
	var err error

	if v.Instance, err = obj.String("instance"); err != nil {
		return VersionInfo{}, err
	}
	if v.Model, _, err = obj.OptionalString("model"); err != nil {
		return VersionInfo{}, err
	}
	return v, nil
}

// ThingDescription is the top-level document describing one Thing.
type ThingDescription struct {
	Context             any
	ID                  string
	Title               string
	Description         string
	Base                string
	JSONLDType          []string
	Security            []string
	Titles              map[string]string
	Descriptions        map[string]string
	Version             *VersionInfo
	Properties          map[string]Property
	Actions             map[string]Action
	Events              map[string]Event
	Links               []Link
	Forms               []Form
	SecurityDefinitions map[string]SecurityScheme
	Additional          map[string]any
}

// Parse decodes and validates a serialized Thing Description. The
// document must be a JSON object.
func Parse(data []byte) (*ThingDescription, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, &jsonval.WrongTypeError{Field: "(document)", Expected: "object", Value: v}
	}
	return ParseMap(m)
}

// ParseMap validates an already-decoded Thing Description object.
// Prefix pairs declared in @context drive recognized-field matching
// for the whole document.
func ParseMap(m map[string]any) (*ThingDescription, error) {
	obj := jsonval.NewObject(m, contextPrefixes(m["@context"]))
	t := &ThingDescription{}
	var err error

	if t.Title, err = obj.String("title"); err != nil {
		return nil, err
	}
	t.Context, _ = obj.OptionalRaw("@context")

	if t.ID, _, err = obj.OptionalString("id"); err != nil {
		return nil, err
	}
	if t.Description, _, err = obj.OptionalString("description"); err != nil {
		return nil, err
	}
	if t.Base, _, err = obj.OptionalString("base"); err != nil {
		return nil, err
	}
	if t.JSONLDType, _, err = obj.OptionalStringOrArray("@type"); err != nil {
		return nil, err
	}
	if t.Security, _, err = obj.OptionalStringOrArray("security"); err != nil {
		return nil, err
	}
	if t.Titles, _, err = obj.OptionalStringMap("titles"); err != nil {
		return nil, err
	}
	if t.Descriptions, _, err = obj.OptionalStringMap("descriptions"); err != nil {
		return nil, err
	}

	verObj, ok, err := obj.OptionalObject("version")
	if err != nil {
		return nil, err
	}
	if ok {
		ver, err := parseVersionInfo(verObj)
		if err != nil {
			return nil, fmt.Errorf("version: %w", err)
		}
		t.Version = &ver
	}

	propObjs, ok, err := obj.OptionalObjectMap("properties")
	if err != nil {
		return nil, err
	}
	if ok {
		t.Properties = make(map[string]Property, len(propObjs))
		for name, po := range propObjs {
			p, err := ParseProperty(po)
			if err != nil {
				return nil, fmt.Errorf("property %q: %w", name, err)
			}
			t.Properties[name] = p
		}
	}

	actObjs, ok, err := obj.OptionalObjectMap("actions")
	if err != nil {
		return nil, err
	}
	if ok {
		t.Actions = make(map[string]Action, len(actObjs))
		for name, ao := range actObjs {
			a, err := ParseAction(ao)
			if err != nil {
				return nil, fmt.Errorf("action %q: %w", name, err)
			}
			t.Actions[name] = a
		}
	}

	evObjs, ok, err := obj.OptionalObjectMap("events")
	if err != nil {
		return nil, err
	}
	if ok {
		t.Events = make(map[string]Event, len(evObjs))
		for name, eo := range evObjs {
			e, err := ParseEvent(eo)
			if err != nil {
				return nil, fmt.Errorf("event %q: %w", name, err)
			}
			t.Events[name] = e
		}
	}

	linkObjs, ok, err := obj.OptionalObjectArray("links", 0)
	if err != nil {
		return nil, err
	}
	if ok {
		t.Links = make([]Link, len(linkObjs))
		for i, lo := range linkObjs {
			l, err := ParseLink(lo)
			if err != nil {
				return nil, fmt.Errorf("links[%d]: %w", i, err)
			}
			t.Links[i] = l
		}
	}

	formObjs, ok, err := obj.OptionalObjectArray("forms", 0)
	if err != nil {
		return nil, err
	}
	if ok {
		t.Forms = make([]Form, len(formObjs))
		for i, fo := range formObjs {
			f, err := ParseForm(fo)
			if err != nil {
				return nil, fmt.Errorf("forms[%d]: %w", i, err)
			}
			t.Forms[i] = f
		}
	}

	secObjs, ok, err := obj.OptionalObjectMap("securityDefinitions")
	if err != nil {
		return nil, err
	}
	if ok {
		t.SecurityDefinitions = make(map[string]SecurityScheme, len(secObjs))
		for name, so := range secObjs {
			s, err := ParseSecurityScheme(so)
			if err != nil {
				return nil, fmt.Errorf("security scheme %q: %w", name, err)
			}
			t.SecurityDefinitions[name] = s
		}
	}

	t.Additional = obj.Remaining()
	return t, nil
}

// contextPrefixes collects JSON-LD prefix pairs from an @context
// value: map entries of context arrays (or a bare context map) whose
// key is not a keyword and whose value is a string. Anything else in
// the context is left to external JSON-LD tooling.
func contextPrefixes(v any) jsonval.PrefixMap {
	var entries []any
	switch c := v.(type) {
	case []any:
		entries = c
	case map[string]any:
		entries = []any{c}
	default:
		return nil
	}

	var prefixes jsonval.PrefixMap
	for _, e := range entries {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		for k, val := range m {
			s, ok := val.(string)
			if !ok || strings.HasPrefix(k, "@") {
				continue
			}
			if prefixes == nil {
				prefixes = jsonval.PrefixMap{}
			}
			prefixes[k] = s
		}
	}
	return prefixes
}
