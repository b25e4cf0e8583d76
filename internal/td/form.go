package td

import (
	"fmt"

	"github.com/wotscout/wotscout/internal/jsonval"
)

// DefaultContentType is assumed for forms that do not declare one.
const DefaultContentType = "application/json"

// Form binds an affordance to a concrete network operation: the
// endpoint to hit, the payload type to expect, and the protocol
// details needed to perform it.
type Form struct {
	Href                string
	ContentType         string
	ContentCoding       string
	Subprotocol         string
	Op                  []string
	Security            []string
	Scopes              []string
	Response            *ExpectedResponse
	AdditionalResponses []AdditionalExpectedResponse
	Additional          map[string]any
}

// ExpectedResponse describes the payload of a form's primary response
// when it differs from the request's content type.
type ExpectedResponse struct {
	ContentType string
}

// AdditionalExpectedResponse describes an alternative response the
// operation may produce, error responses included.
type AdditionalExpectedResponse struct {
	Success     bool
	ContentType string
	Schema      string
}

// ParseForm builds a Form from a decoded JSON object. href is
// required; security, when present, must list at least one scheme
// name. op and scopes accept a bare string or an array of strings.
func ParseForm(obj *jsonval.Object) (Form, error) {
	var f Form
	var err error

	if f.Href, err = obj.String("href"); err != nil {
		return Form{}, err
	}
	if f.ContentType, err = obj.StringOr("contentType", DefaultContentType); err != nil {
		return Form{}, err
	}
	if f.ContentCoding, _, err = obj.OptionalString("contentCoding"); err != nil {
		return Form{}, err
	}
	if f.Subprotocol, _, err = obj.OptionalString("subprotocol"); err != nil {
		return Form{}, err
	}
	if f.Op, _, err = obj.OptionalStringOrArray("op"); err != nil {
		return Form{}, err
	}
	if f.Security, _, err = obj.OptionalStringArray("security", 1); err != nil {
		return Form{}, err
	}
	if f.Scopes, _, err = obj.OptionalStringOrArray("scopes"); err != nil {
		return Form{}, err
	}

	respObj, ok, err := obj.OptionalObject("response")
	if err != nil {
		return Form{}, err
	}
	if ok {
		resp, err := parseExpectedResponse(respObj)
		if err != nil {
			return Form{}, fmt.Errorf("response: %w", err)
		}
		f.Response = &resp
	}

	respObjs, ok, err := obj.OptionalObjectArray("additionalResponses", 0)
	if err != nil {
		return Form{}, err
	}
	if ok {
		f.AdditionalResponses = make([]AdditionalExpectedResponse, len(respObjs))
		for i, ro := range respObjs {
			ar, err := parseAdditionalExpectedResponse(ro)
			if err != nil {
				return Form{}, fmt.Errorf("additionalResponses[%d]: %w", i, err)
			}
			f.AdditionalResponses[i] = ar
		}
	}

	f.Additional = obj.Remaining()
	return f, nil
}

func parseExpectedResponse(obj *jsonval.Object) (ExpectedResponse, error) {
	ct, err := obj.String("contentType")
	if err != nil {
		return ExpectedResponse{}, err
	}
	return ExpectedResponse{ContentType: ct}, nil
}

func parseAdditionalExpectedResponse(obj *jsonval.Object) (AdditionalExpectedResponse, error) {
	var ar AdditionalExpectedResponse
	var err error

	if ar.Success, err = obj.BoolOr("success", false); err != nil {
		return AdditionalExpectedResponse{}, err
	}
	if ar.ContentType, err = obj.StringOr("contentType", DefaultContentType); err != nil {
		return AdditionalExpectedResponse{}, err
	}
	if ar.Schema, _, err = obj.OptionalString("schema"); err != nil {
		return AdditionalExpectedResponse{}, err
	}
	return ar, nil
}
