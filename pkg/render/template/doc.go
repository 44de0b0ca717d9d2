// Package template defines the engine seam widget renderers depend on. The
// concrete pongo2 engine lives in the pongo subpackage.
package template
