// Package mode classifies working intent from free text and maps each
// mode to a fixed attention budget over context categories.
package mode

import "strings"

// Mode is the current working mode.
type Mode string

const (
	Coding    Mode = "coding"
	Debugging Mode = "debugging"
)

// Category names the context slots a budget is split across.
type Category string

const (
	Memories  Category = "memories"
	Artifacts Category = "artifacts"
	Session   Category = "session"
	Errors    Category = "errors"
	Goal      Category = "goal"
)

// budgets maps each mode to its attention allocation. Fractions sum to
// 1.0 per mode, checked in tests.
var budgets = map[Mode]map[Category]float64{
	Coding: {
		Memories:  0.30,
		Artifacts: 0.30,
		Session:   0.25,
		Errors:    0.10,
		Goal:      0.05,
	},
	Debugging: {
		Errors:    0.50,
		Session:   0.25,
		Memories:  0.15,
		Artifacts: 0.10,
		Goal:      0.00,
	},
}

// debugKeywords are the debugging indicators scanned for, case-insensitively.
// Any match flips the mode; order is irrelevant.
var debugKeywords = []string{
	"error", "bug", "fail", "failing", "broken", "crash", "crashes",
	"exception", "traceback", "stack trace", "fix", "debug", "debugging",
	"not working", "doesn't work", "won't work",
}

// Classify returns Debugging when the message contains any debugging
// indicator, otherwise Coding. Stateless per call.
func Classify(message string) Mode {
	lower := strings.ToLower(message)
	for _, kw := range debugKeywords {
		if strings.Contains(lower, kw) {
			return Debugging
		}
	}
	return Coding
}

// Budget returns the attention allocation for a mode. Unknown modes get
// the coding budget.
func Budget(m Mode) map[Category]float64 {
	b, ok := budgets[m]
	if !ok {
		b = budgets[Coding]
	}
	out := make(map[Category]float64, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// Parse normalizes a stored mode string, defaulting unknown values to Coding.
func Parse(s string) Mode {
	switch Mode(s) {
	case Coding, Debugging:
		return Mode(s)
	default:
		return Coding
	}
}
