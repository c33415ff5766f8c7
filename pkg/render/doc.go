// Package render defines the renderer contract for resolved addon groups and a
// registry for picking renderers by name.
package render
