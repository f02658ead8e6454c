// Package keys classifies raw terminal input into key names.
package keys

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	Escape   = "escape"
	Tab      = "tab"
	ShiftTab = "shift+tab"
	Enter    = "enter"
	Space    = "space"
)

const (
	ModifierShift = 1
	ModifierAlt   = 2
	ModifierCtrl  = 4
	LockMask      = 64 + 128
)

const (
	CodepointEscape = 27
	CodepointTab    = 9
	CodepointEnter  = 13
	CodepointSpace  = 32
)

// CSI u: ESC [ codepoint ; modifier[:event] u
var kittyPattern = regexp.MustCompile(`^\x1b\[(\d+)(?::\d*)*(?:;(\d+)(?::(\d+))?)?u$`)

var legacySequences = map[string]string{
	"\x1b":     Escape,
	"\x1b\x1b": Escape,
	"\t":       Tab,
	"\x1b[Z":   ShiftTab,
	"\r":       Enter,
	"\n":       Enter,
	"\x1bOM":   Enter,
	" ":        Space,
	"\x1b[A":   "up",
	"\x1b[B":   "down",
	"\x1b[C":   "right",
	"\x1b[D":   "left",
	"\x1bOA":   "up",
	"\x1bOB":   "down",
	"\x1bOC":   "right",
	"\x1bOD":   "left",
}

// aliases maps names used by other input layers (bubbletea, tcell) to ours.
var aliases = map[string]string{
	"esc":       Escape,
	"return":    Enter,
	"ctrl+[":    Escape,
	"backtab":   ShiftTab,
	"ctrl+i":    Tab,
	" ":         Space,
	"shift+tab": ShiftTab,
}

// Parse returns the key name for one complete input sequence, or the input
// itself when it is a single printable character, or "" when unknown.
func Parse(data string) string {
	if name, ok := legacySequences[data]; ok {
		return name
	}
	if name := parseKitty(data); name != "" {
		return name
	}
	if len([]rune(data)) == 1 && data[0] >= 0x20 && data[0] != 0x7f {
		return data
	}
	return ""
}

// Normalize maps a key name from another input layer onto the names Parse returns.
func Normalize(name string) string {
	lower := strings.ToLower(name)
	if n, ok := aliases[lower]; ok {
		return n
	}
	return lower
}

// IsEscape reports whether the input is a bare escape key press.
func IsEscape(data string) bool {
	return Parse(data) == Escape
}

func parseKitty(data string) string {
	m := kittyPattern.FindStringSubmatch(data)
	if m == nil {
		return ""
	}
	codepoint, err := strconv.Atoi(m[1])
	if err != nil {
		return ""
	}
	modifier := 0
	if m[2] != "" {
		if v, err := strconv.Atoi(m[2]); err == nil && v > 0 {
			modifier = (v - 1) &^ LockMask
		}
	}
	// release events never count as presses
	if m[3] == "3" {
		return ""
	}

	var name string
	switch codepoint {
	case CodepointEscape:
		name = Escape
	case CodepointTab:
		name = Tab
	case CodepointEnter:
		name = Enter
	case CodepointSpace:
		name = Space
	default:
		if codepoint >= 'a' && codepoint <= 'z' {
			name = string(rune(codepoint))
		}
	}
	if name == "" {
		return ""
	}

	var mods []string
	if modifier&ModifierCtrl != 0 {
		mods = append(mods, "ctrl")
	}
	if modifier&ModifierAlt != 0 {
		mods = append(mods, "alt")
	}
	if modifier&ModifierShift != 0 {
		mods = append(mods, "shift")
	}
	if len(mods) == 0 {
		return name
	}
	return strings.Join(mods, "+") + "+" + name
}
