// Package td models W3C Web of Things Thing Descriptions: the JSON
// documents through which devices advertise their interaction
// affordances, protocol forms, and security metadata.
//
// # Entities
//
// ThingDescription is the top-level document. It carries identity
// fields (title, id, base), three affordance maps (properties,
// actions, events), top-level forms and links, and named security
// schemes. Property, Action, and Event share the InteractionAffordance
// base: every affordance binds at least one Form, the description of a
// concrete network operation against the device.
//
// All entities are built once from decoded JSON and never mutated
// afterwards. Construction is strict about required fields and lenient
// about everything else: a field the model does not recognize is
// preserved verbatim in the entity's Additional map rather than
// discarded, so a document survives a parse round intact.
//
// # Construction discipline
//
// Every constructor reads fields through a jsonval.Object in the same
// order: required fields first, then optional scalars, then optional
// arrays, maps, and sub-objects, and finally a Remaining call that
// sweeps unconsumed fields into Additional. Required-field and
// type-mismatch failures surface as jsonval validation errors, fatal
// to the construction in progress; nested entities wrap them with the
// path to the offending object ("forms[2]: ...").
//
// # Defaults and quirks
//
// Form.ContentType defaults to "application/json". Action.Safe and
// Action.Idempotent default to false; Action.Synchronous stays nil
// when the document is silent, a tri-state the consumer must respect.
// SecurityScheme accepts "@type" as either a bare string or an array
// and normalizes both to a list, while its descriptions map silently
// drops entries whose value is not a string. The two paths are
// deliberately asymmetric; tightening either is a compatibility break.
//
// # Prefixed field names
//
// A document's @context may declare JSON-LD prefix pairs. Those
// prefixes drive recognized-field matching for the whole document: a
// key written in compact form matches its expanded spelling and vice
// versa. No other JSON-LD processing happens here.
package td
