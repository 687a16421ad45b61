package capture

import "fmt"

// keyCodes mirrors the evdev KEY_* numbering for the subset of keys a
// switch/kill chord realistically uses: modifiers, the alnum rows, function
// keys, and Delete. It exists so config.toml can name keys ("LeftCtrl")
// instead of embedding raw scancodes.
var keyCodes = map[string]uint16{
	"LeftCtrl":   29,
	"RightCtrl":  97,
	"LeftShift":  42,
	"RightShift": 54,
	"LeftAlt":    56,
	"RightAlt":   100,
	"LeftMeta":   125,
	"RightMeta":  126,
	"Delete":     111,
	"Escape":     1,
	"Tab":        15,
	"Space":      57,
	"Enter":      28,
	"F1":         59, "F2": 60, "F3": 61, "F4": 62,
	"F5": 63, "F6": 64, "F7": 65, "F8": 66,
	"F9": 67, "F10": 68, "F11": 87, "F12": 88,
	"A": 30, "B": 48, "C": 46, "D": 32, "E": 18, "F": 33, "G": 34,
	"H": 35, "I": 23, "J": 36, "K": 37, "L": 38, "M": 50, "N": 49,
	"O": 24, "P": 25, "Q": 16, "R": 19, "S": 31, "T": 20, "U": 22,
	"V": 47, "W": 17, "X": 45, "Y": 21, "Z": 44,
	"0": 11, "1": 2, "2": 3, "3": 4, "4": 5,
	"5": 6, "6": 7, "7": 8, "8": 9, "9": 10,
}

// ParseKey resolves a config key name into a Key. It fails on any name
// outside the known vocabulary so a typo in config.toml is caught at
// startup rather than silently producing an unreachable chord.
func ParseKey(name string) (Key, error) {
	code, ok := keyCodes[name]
	if !ok {
		return Key{}, fmt.Errorf("unknown key name %q", name)
	}
	return Key{Code: code}, nil
}
