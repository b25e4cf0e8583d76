package td

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/wotscout/wotscout/internal/jsonval"
)

// objectFrom builds a jsonval.Object from a JSON literal, without
// prefixes. Shared by the package's constructor tests.
func objectFrom(t *testing.T, raw string) *jsonval.Object {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("bad test document: %v", err)
	}
	return jsonval.NewObject(m, nil)
}

func TestParseFormRequiresHref(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty object", `{}`},
		{"href absent", `{"contentType": "application/json"}`},
		{"href not a string", `{"href": 42}`},
		{"href null", `{"href": null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseForm(objectFrom(t, tt.raw))
			if err == nil {
				t.Fatal("ParseForm() error = nil, want validation error")
			}
			if !jsonval.IsValidation(err) {
				t.Errorf("IsValidation(%v) = false, want true", err)
			}
		})
	}
}

func TestParseFormContentTypeDefault(t *testing.T) {
	f, err := ParseForm(objectFrom(t, `{"href": "http://example.com/status"}`))
	if err != nil {
		t.Fatalf("ParseForm() error = %v", err)
	}
	if f.ContentType != "application/json" {
		t.Errorf("ContentType = %q, want %q", f.ContentType, "application/json")
	}

	f, err = ParseForm(objectFrom(t, `{"href": "/status", "contentType": "application/cbor"}`))
	if err != nil {
		t.Fatalf("ParseForm() error = %v", err)
	}
	if f.ContentType != "application/cbor" {
		t.Errorf("ContentType = %q, want %q", f.ContentType, "application/cbor")
	}
}

func TestParseFormFields(t *testing.T) {
	f, err := ParseForm(objectFrom(t, `{
		"href": "coaps://device.local/toggle",
		"contentType": "application/cbor",
		"contentCoding": "gzip",
		"subprotocol": "longpoll",
		"op": ["invokeaction"],
		"security": ["basic_sc", "bearer_sc"],
		"scopes": "limited",
		"response": {"contentType": "application/cbor"},
		"additionalResponses": [
			{"success": false, "contentType": "application/json", "schema": "error"},
			{}
		]
	}`))
	if err != nil {
		t.Fatalf("ParseForm() error = %v", err)
	}

	if f.Href != "coaps://device.local/toggle" {
		t.Errorf("Href = %q", f.Href)
	}
	if f.ContentCoding != "gzip" || f.Subprotocol != "longpoll" {
		t.Errorf("ContentCoding/Subprotocol = %q/%q", f.ContentCoding, f.Subprotocol)
	}
	if !reflect.DeepEqual(f.Op, []string{"invokeaction"}) {
		t.Errorf("Op = %v", f.Op)
	}
	if !reflect.DeepEqual(f.Security, []string{"basic_sc", "bearer_sc"}) {
		t.Errorf("Security = %v", f.Security)
	}
	if !reflect.DeepEqual(f.Scopes, []string{"limited"}) {
		t.Errorf("Scopes = %v, want bare string normalized to list", f.Scopes)
	}
	if f.Response == nil || f.Response.ContentType != "application/cbor" {
		t.Errorf("Response = %+v", f.Response)
	}
	if len(f.AdditionalResponses) != 2 {
		t.Fatalf("len(AdditionalResponses) = %d, want 2", len(f.AdditionalResponses))
	}
	if f.AdditionalResponses[0].Schema != "error" {
		t.Errorf("AdditionalResponses[0].Schema = %q", f.AdditionalResponses[0].Schema)
	}
	if f.AdditionalResponses[1].Success != false || f.AdditionalResponses[1].ContentType != "application/json" {
		t.Errorf("AdditionalResponses[1] defaults = %+v", f.AdditionalResponses[1])
	}
	if f.Additional != nil {
		t.Errorf("Additional = %v, want nil", f.Additional)
	}
}

func TestParseFormOpBareString(t *testing.T) {
	f, err := ParseForm(objectFrom(t, `{"href": "/status", "op": "readproperty"}`))
	if err != nil {
		t.Fatalf("ParseForm() error = %v", err)
	}
	if !reflect.DeepEqual(f.Op, []string{"readproperty"}) {
		t.Errorf("Op = %v, want [readproperty]", f.Op)
	}
}

func TestParseFormSecurityMinSize(t *testing.T) {
	_, err := ParseForm(objectFrom(t, `{"href": "/status", "security": []}`))
	if err == nil {
		t.Fatal("ParseForm() with empty security error = nil, want validation error")
	}
	if !jsonval.IsValidation(err) {
		t.Errorf("IsValidation(%v) = false, want true", err)
	}
}

func TestParseFormAdditionalRoundTrip(t *testing.T) {
	f, err := ParseForm(objectFrom(t, `{
		"href": "http://example.com/status",
		"htv:methodName": "GET",
		"x-rate-limit": 10,
		"vendor": {"tier": ["gold", "silver"]}
	}`))
	if err != nil {
		t.Fatalf("ParseForm() error = %v", err)
	}

	want := map[string]any{
		"htv:methodName": "GET",
		"x-rate-limit":   10.0,
		"vendor":         map[string]any{"tier": []any{"gold", "silver"}},
	}
	if !reflect.DeepEqual(f.Additional, want) {
		t.Errorf("Additional = %v, want %v", f.Additional, want)
	}
}

func TestParseFormBadResponse(t *testing.T) {
	_, err := ParseForm(objectFrom(t, `{"href": "/a", "response": {"contentType": 7}}`))
	if err == nil {
		t.Fatal("ParseForm() with mistyped response error = nil, want validation error")
	}
	if !jsonval.IsValidation(err) {
		t.Errorf("IsValidation(%v) = false, want true", err)
	}
}
