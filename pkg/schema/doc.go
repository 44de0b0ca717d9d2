// Package schema defines the field tree that drives the JSON form widget.
//
// A Schema wraps a root object node. Every Node carries a dotted Path that is
// its parent's path plus its own Key, a FieldType tag that selects a render
// strategy, ordered Children and a type-specific Config. Trees come from a
// data sample (FromSample), from explicit JSON/YAML configuration (Load) or
// from an OpenAPI document (FromOpenAPI). Trees are rebuilt wholesale when the
// source shape changes; nothing in this package patches a tree in place.
package schema
