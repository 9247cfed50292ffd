// Package theme stores the two-valued light/dark UI preference.
//
// The preference lives under the "theme" key of a per-client durable
// kv.Store. An absent or unrecognized value reads as Light. Toggle flips
// the current value and persists the result, so two toggles always return
// to the starting theme.
//
//	t, err := theme.Current(ctx, store)
//	next, err := theme.Toggle(ctx, store)
//	class := next.RootClass() // "dark-theme" or ""
package theme
