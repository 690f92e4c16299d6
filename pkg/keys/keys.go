// Package keys is the catalog of known remote key codes. Collected
// from an UE40D5700 TV set and a HT-D5100 BluRay Home Theatre, other
// models may ignore some of them.
package keys

import (
	"sort"
	"strconv"
)

type Key struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

var catalog = []Key{
	{"KEY_POWEROFF", "Power Off", "power"},
	{"KEY_POWERON", "Power On", "power"},

	{"KEY_0", "0", "number"},
	{"KEY_1", "1", "number"},
	{"KEY_2", "2", "number"},
	{"KEY_3", "3", "number"},
	{"KEY_4", "4", "number"},
	{"KEY_5", "5", "number"},
	{"KEY_6", "6", "number"},
	{"KEY_7", "7", "number"},
	{"KEY_8", "8", "number"},
	{"KEY_9", "9", "number"},

	{"KEY_VOLUP", "Volume Up", "volume"},
	{"KEY_VOLDOWN", "Volume Down", "volume"},
	{"KEY_MUTE", "Mute", "volume"},

	{"KEY_CHUP", "Channel Up", "channel"},
	{"KEY_CHDOWN", "Channel Down", "channel"},
	{"KEY_PRECH", "Previous Channel", "channel"},
	{"KEY_CH_LIST", "Channel List", "channel"},

	{"KEY_UP", "Up", "navigation"},
	{"KEY_DOWN", "Down", "navigation"},
	{"KEY_LEFT", "Left", "navigation"},
	{"KEY_RIGHT", "Right", "navigation"},
	{"KEY_ENTER", "Enter", "navigation"},
	{"KEY_RETURN", "Return", "navigation"},
	{"KEY_EXIT", "Exit", "navigation"},
	{"KEY_MENU", "Menu", "navigation"},
	{"KEY_TOOLS", "Tools", "navigation"},
	{"KEY_INFO", "Info", "navigation"},
	{"KEY_GUIDE", "Guide", "navigation"},
	{"KEY_CONTENTS", "Smart Hub", "navigation"},

	{"KEY_PLAY", "Play", "playback"},
	{"KEY_PAUSE", "Pause", "playback"},
	{"KEY_STOP", "Stop", "playback"},
	{"KEY_REWIND", "Rewind", "playback"},
	{"KEY_FF", "Fast Forward", "playback"},
	{"KEY_REC", "Record", "playback"},

	{"KEY_SOURCE", "Source", "source"},
	{"KEY_TV", "TV", "source"},
	{"KEY_HDMI", "HDMI", "source"},
	{"KEY_AV1", "AV 1", "source"},
	{"KEY_COMPONENT1", "Component 1", "source"},

	{"KEY_RED", "Red (A)", "color"},
	{"KEY_GREEN", "Green (B)", "color"},
	{"KEY_YELLOW", "Yellow (C)", "color"},
	{"KEY_CYAN", "Blue (D)", "color"},

	{"KEY_TTX_MIX", "Teletext", "misc"},
	{"KEY_CAPTION", "Caption", "misc"},
	{"KEY_ASPECT", "Aspect Ratio", "misc"},
	{"KEY_PIP_ONOFF", "Picture in Picture", "misc"},
	{"KEY_SLEEP", "Sleep Timer", "misc"},
}

var index = make(map[string]Key, len(catalog))

func init() {
	for _, k := range catalog {
		index[k.Code] = k
	}
}

func Get(code string) (Key, bool) {
	k, ok := index[code]
	return k, ok
}

func Valid(code string) bool {
	_, ok := index[code]
	return ok
}

// All returns the catalog sorted by code.
func All() []Key {
	all := make([]Key, len(catalog))
	copy(all, catalog)
	sort.Slice(all, func(i, j int) bool { return all[i].Code < all[j].Code })
	return all
}

// Digit returns the key code for a single digit 0..9.
func Digit(n int) string {
	return "KEY_" + strconv.Itoa(n)
}
