// Package jsonval provides validating field extraction from decoded JSON
// objects for the Thing Description model.
//
// A jsonval.Object wraps a decoded JSON object (map[string]any) together
// with a JSON-LD-style prefix mapping. Typed getters pull individual
// fields out of the object with required/optional semantics and report
// type mismatches and missing required fields as validation errors.
//
// # Consumed-Field Tracking
//
// Every successful field access marks the underlying raw key as
// consumed. After an entity constructor has extracted all recognized
// fields, Remaining returns the fields that were never consumed, with
// keys and values unchanged. The Thing Description model stores that
// map as the entity's additional-fields bag, so vocabulary extensions
// survive parsing verbatim.
//
// # Prefixed Terms
//
// Keys written as compact "prefix:term" pairs are expanded through the
// prefix mapping before they are matched against a requested field
// name. A getter therefore finds a field regardless of whether the
// document spells it with a registered prefix or with the full IRI.
// Unconsumed prefixed keys are NOT rewritten by Remaining.
//
// # Usage Example
//
//	obj := jsonval.NewObject(decoded, prefixes)
//	href, err := obj.String("href")          // required
//	if err != nil {
//	    return nil, err                      // validation error
//	}
//	ct, err := obj.StringOr("contentType", "application/json")
//	extra := obj.Remaining()                 // unrecognized fields
//
// # Error Types
//
// Getters return *MissingFieldError for absent required fields,
// *WrongTypeError for present-but-mistyped values, and
// *TooFewItemsError for arrays below a minimum size. All three satisfy
// IsValidation. Errors are returned synchronously and are fatal to the
// construction in progress; no defaults are substituted except where a
// getter's name says so (StringOr, BoolOr).
package jsonval
