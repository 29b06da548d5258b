package scanner

import "strings"

// Keybind labels for well-known section name fragments
const (
	LabelHarness = "Harness"
	LabelBottom  = "Bottom"
	LabelTail    = "Tail"
	LabelFace    = "Face"
	LabelColor   = "Color"
)

// labelRules is checked in order; the first fragment found in the lowercased
// section name decides the label.
var labelRules = []struct {
	fragment string
	label    string
}{
	{"harness", LabelHarness},
	{"bottom", LabelBottom},
	{"tail", LabelTail},
	{"face", LabelFace},
	{"color", LabelColor},
}

// Classify maps a config section name to its keybind label. Unknown
// sections keep their raw name.
func Classify(section string) string {
	lower := strings.ToLower(section)
	for _, rule := range labelRules {
		if strings.Contains(lower, rule.fragment) {
			return rule.label
		}
	}
	return section
}
