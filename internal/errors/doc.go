// Package errors provides structured, actionable errors for the scene runtime.
//
// Every error carries a registered code that maps to a short message and a
// longer explanation:
//
//   - E101: a property binding re-entered itself (binding cycle)
//   - E102: a model was asked for an index outside [0, Count())
//   - E103: an item tree failed construction-time validation
//   - E104-E105: unknown item kinds and properties in declarative scenes
//   - E106-E108: scene documents, sources and scripts
//   - E120-E122: scene.json configuration
//
// Errors compare by code, so callers can test for a kind with errors.Is:
//
//	if errors.Is(err, sceneerrors.New("E101")) { ... }
//
// Scene documents attach a location, which Format renders with the
// surrounding lines:
//
//	err := errors.New("E106").
//	    WithLocation("demo.yaml", 12, 5).
//	    WithSuggestion("use a number or a {ref: ...} mapping")
//	fmt.Println(err.Format())
package errors
