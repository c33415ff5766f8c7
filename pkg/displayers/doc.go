// Package displayers holds the registry of named rendering behaviours used by
// addon fields. A field's effective type falls back from its explicit type to
// the type its displayer declares and finally to string; its displayer falls
// back from the explicit name to the default table (html→wysiwyg,
// string→string, json→textarea). Registration is first-writer-wins: a second
// registration under the same name is logged and ignored, or rejected when
// the registry is strict.
package displayers
