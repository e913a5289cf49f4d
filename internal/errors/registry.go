package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Explain  string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Runtime Errors (E101-E119)
	// ============================================

	"E101": {
		Category: CategoryBinding,
		Message:  "Binding cycle detected",
		Explain:  "A property binding read the property it is computing, directly or through other bindings. Binding graphs must be acyclic.",
	},
	"E102": {
		Category: CategoryModel,
		Message:  "Model index out of range",
		Explain:  "A model element was requested at an index outside [0, Count()). The model changed without the repeater being updated.",
	},
	"E103": {
		Category: CategoryTree,
		Message:  "Malformed item tree",
		Explain:  "The item tree has overlapping or out of bounds child ranges, or references an item slot or repeater that does not exist.",
	},
	"E104": {
		Category: CategoryItem,
		Message:  "Unknown item kind",
		Explain:  "The item kind is not registered. Register it with item.Registry.Register before building the scene.",
	},
	"E105": {
		Category: CategoryItem,
		Message:  "Unknown property",
		Explain:  "The item kind has no property with this name, or the value has the wrong type for it.",
	},
	"E106": {
		Category: CategoryScene,
		Message:  "Invalid scene document",
		Explain:  "The scene document could not be decoded into an item hierarchy.",
	},
	"E107": {
		Category: CategoryScene,
		Message:  "Scene source unavailable",
		Explain:  "The scene document could not be fetched from its source.",
	},
	"E108": {
		Category: CategoryScene,
		Message:  "Script expectation failed",
		Explain:  "A replayed event produced a different result than the script expected.",
	},

	// ============================================
	// Configuration Errors (E120-E139)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Failed to load configuration",
		Explain:  "The scene.json file could not be read or parsed.",
	},
	"E121": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Explain:  "No scene.json file was found in the project directory or its parents.",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Explain:  "A configuration value is outside its allowed range.",
	},

	// ============================================
	// CLI Errors (E140-E159)
	// ============================================

	"E140": {
		Category: CategoryCLI,
		Message:  "Invalid command arguments",
		Explain:  "The command was invoked with missing or conflicting arguments.",
	},
}

// GetAllCodes returns all registered error codes in sorted order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
