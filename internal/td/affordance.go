package td

import (
	"fmt"

	"github.com/wotscout/wotscout/internal/jsonval"
)

// InteractionAffordance carries the fields every affordance variant
// shares. Forms is never empty after construction.
type InteractionAffordance struct {
	Forms        []Form
	Title        string
	Description  string
	Titles       map[string]string
	Descriptions map[string]string
	URIVariables map[string]any
	Additional   map[string]any
}

// parseAffordance fills the shared fields. Additional stays nil here;
// each variant sweeps remaining fields after consuming its own.
func parseAffordance(obj *jsonval.Object) (InteractionAffordance, error) {
	var a InteractionAffordance

	formObjs, err := obj.ObjectArray("forms", 1)
	if err != nil {
		return InteractionAffordance{}, err
	}
	a.Forms = make([]Form, len(formObjs))
	for i, fo := range formObjs {
		f, err := ParseForm(fo)
		if err != nil {
			return InteractionAffordance{}, fmt.Errorf("forms[%d]: %w", i, err)
		}
		a.Forms[i] = f
	}

	if a.Title, _, err = obj.OptionalString("title"); err != nil {
		return InteractionAffordance{}, err
	}
	if a.Description, _, err = obj.OptionalString("description"); err != nil {
		return InteractionAffordance{}, err
	}
	if a.Titles, _, err = obj.OptionalStringMap("titles"); err != nil {
		return InteractionAffordance{}, err
	}
	if a.Descriptions, _, err = obj.OptionalStringMap("descriptions"); err != nil {
		return InteractionAffordance{}, err
	}
	if a.URIVariables, _, err = obj.OptionalRawObject("uriVariables"); err != nil {
		return InteractionAffordance{}, err
	}
	return a, nil
}

// Property is readable or observable Thing state. Data-schema keywords
// beyond observable are preserved in Additional untouched.
type Property struct {
	InteractionAffordance
	Observable bool
}

// ParseProperty builds a Property from a decoded JSON object.
func ParseProperty(obj *jsonval.Object) (Property, error) {
	base, err := parseAffordance(obj)
	if err != nil {
		return Property{}, err
	}
	p := Property{InteractionAffordance: base}

	if p.Observable, err = obj.BoolOr("observable", false); err != nil {
		return Property{}, err
	}

	p.Additional = obj.Remaining()
	return p, nil
}

// Action is an invokable affordance. Safe and Idempotent default to
// false when the document is silent; Synchronous stays nil in that
// case rather than defaulting, a tri-state consumers must respect.
type Action struct {
	InteractionAffordance
	Input       map[string]any
	Output      map[string]any
	Safe        bool
	Idempotent  bool
	Synchronous *bool
}

// ParseAction builds an Action from a decoded JSON object.
func ParseAction(obj *jsonval.Object) (Action, error) {
	base, err := parseAffordance(obj)
	if err != nil {
		return Action{}, err
	}
	a := Action{InteractionAffordance: base}

	if a.Safe, err = obj.BoolOr("safe", false); err != nil {
		return Action{}, err
	}
	if a.Idempotent, err = obj.BoolOr("idempotent", false); err != nil {
		return Action{}, err
	}
	if a.Synchronous, err = obj.OptionalBoolPtr("synchronous"); err != nil {
		return Action{}, err
	}
	if a.Input, _, err = obj.OptionalRawObject("input"); err != nil {
		return Action{}, err
	}
	if a.Output, _, err = obj.OptionalRawObject("output"); err != nil {
		return Action{}, err
	}

	a.Additional = obj.Remaining()
	return a, nil
}

// Event is a notification source. Its schema blocks are kept opaque.
type Event struct {
	InteractionAffordance
	Subscription map[string]any
	Data         map[string]any
	Cancellation map[string]any
}

// ParseEvent builds an Event from a decoded JSON object.
func ParseEvent(obj *jsonval.Object) (Event, error) {
	base, err := parseAffordance(obj)
	if err != nil {
		return Event{}, err
	}
	e := Event{InteractionAffordance: base}

	if e.Subscription, _, err = obj.OptionalRawObject("subscription"); err != nil {
		return Event{}, err
	}
	if e.Data, _, err = obj.OptionalRawObject("data"); err != nil {
		return Event{}, err
	}
	if e.Cancellation, _, err = obj.OptionalRawObject("cancellation"); err != nil {
		return Event{}, err
	}

	e.Additional = obj.Remaining()
	return e, nil
}
