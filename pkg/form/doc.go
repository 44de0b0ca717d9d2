// Package form renders schema trees into HTML forms and keeps the form value
// and per-field meta state in sync with user edits.
//
// Rendering is an explicit tree walk: every node is resolved through the
// Registry to a Strategy, container strategies recurse through
// FieldData.RenderChild, and the shell wraps the result with styling, the
// empty and over-limit messages and the submit/reset controls. Callbacks into
// the owning widget travel in a RenderContext passed by pointer down the walk.
package form
