package html

// Class names applied to the rendered chrome.
const (
	ClassRoot  = "addons"
	ClassGroup = "addon-group"
	ClassText  = "addon-group-text"
	ClassField = "addon-field"
)

func defaultClasses() map[string]any {
	return map[string]any{
		"root":  ClassRoot,
		"group": ClassGroup,
		"text":  ClassText,
		"field": ClassField,
	}
}
