package pipeline

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// variationSelector16 requests emoji presentation for the preceding rune.
const variationSelector16 = '\uFE0F'

var shortcodePattern = regexp.MustCompile(`:([a-z0-9_+\-]+):`)

// emojiShortcodes maps :name: shortcodes to glyphs. Unknown names pass through.
var emojiShortcodes = map[string]string{
	"smile":              "😄",
	"smiley":             "😃",
	"grin":               "😁",
	"laughing":           "😆",
	"joy":                "😂",
	"wink":               "😉",
	"blush":              "😊",
	"heart_eyes":         "😍",
	"thinking":           "🤔",
	"neutral_face":       "😐",
	"confused":           "😕",
	"cry":                "😢",
	"sob":                "😭",
	"angry":              "😠",
	"sweat_smile":        "😅",
	"sunglasses":         "😎",
	"scream":             "😱",
	"tada":               "🎉",
	"sparkles":           "✨",
	"star":               "⭐",
	"fire":               "🔥",
	"rocket":             "🚀",
	"heart":              "❤️",
	"broken_heart":       "💔",
	"thumbsup":           "👍",
	"+1":                 "👍",
	"thumbsdown":         "👎",
	"-1":                 "👎",
	"clap":               "👏",
	"wave":               "👋",
	"ok_hand":            "👌",
	"pray":               "🙏",
	"muscle":             "💪",
	"eyes":               "👀",
	"point_right":        "👉",
	"point_left":         "👈",
	"check":              "✔️",
	"heavy_check_mark":   "✔️",
	"white_check_mark":   "✅",
	"x":                  "❌",
	"warning":            "⚠️",
	"exclamation":        "❗",
	"question":           "❓",
	"no_entry":           "⛔",
	"stop_sign":          "🛑",
	"bulb":               "💡",
	"memo":               "📝",
	"pencil":             "📝",
	"book":               "📖",
	"books":              "📚",
	"bookmark":           "🔖",
	"link":               "🔗",
	"pushpin":            "📌",
	"paperclip":          "📎",
	"calendar":           "📅",
	"clock":              "🕒",
	"hourglass":          "⌛",
	"lock":               "🔒",
	"unlock":             "🔓",
	"key":                "🔑",
	"bell":               "🔔",
	"mag":                "🔍",
	"gear":               "⚙️",
	"wrench":             "🔧",
	"hammer":             "🔨",
	"package":            "📦",
	"computer":           "💻",
	"keyboard":           "⌨️",
	"chart":              "📈",
	"bar_chart":          "📊",
	"microscope":         "🔬",
	"telescope":          "🔭",
	"test_tube":          "🧪",
	"dna":                "🧬",
	"atom_symbol":        "⚛️",
	"abacus":             "🧮",
	"triangular_ruler":   "📐",
	"straight_ruler":     "📏",
	"globe":              "🌐",
	"earth_americas":     "🌎",
	"sun":                "☀️",
	"cloud":              "☁️",
	"zap":                "⚡",
	"snowflake":          "❄️",
	"rainbow":            "🌈",
	"coffee":             "☕",
	"pizza":              "🍕",
	"apple":              "🍎",
	"seedling":           "🌱",
	"tree":               "🌳",
	"bug":                "🐛",
	"snake":              "🐍",
	"whale":              "🐳",
	"gopher":             "🐹",
	"trophy":             "🏆",
	"medal":              "🏅",
	"dart":               "🎯",
	"art":                "🎨",
	"music":              "🎵",
	"email":              "📧",
	"phone":              "📱",
	"arrow_right":        "➡️",
	"arrow_left":         "⬅️",
	"arrow_up":           "⬆️",
	"arrow_down":         "⬇️",
	"recycle":            "♻️",
	"100":                "💯",
	"boom":               "💥",
	"construction":       "🚧",
	"information_source": "ℹ️",
	"red_circle":         "🔴",
	"green_circle":       "🟢",
	"yellow_circle":      "🟡",
	"blue_circle":        "🔵",
}

// replaceShortcodes substitutes known :name: shortcodes with their glyph.
func replaceShortcodes(text string) string {
	if !strings.Contains(text, ":") {
		return text
	}
	return shortcodePattern.ReplaceAllStringFunc(text, func(code string) string {
		if glyph, ok := emojiShortcodes[code[1:len(code)-1]]; ok {
			return glyph
		}
		return code
	})
}

// emojiRanges covers the pictographic blocks used as bullet glyphs.
var emojiRanges = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x2190, Hi: 0x21ff, Stride: 1}, // arrows
		{Lo: 0x2300, Hi: 0x23ff, Stride: 1}, // misc technical
		{Lo: 0x25a0, Hi: 0x25ff, Stride: 1}, // geometric shapes
		{Lo: 0x2600, Hi: 0x27bf, Stride: 1}, // misc symbols, dingbats
		{Lo: 0x2b00, Hi: 0x2bff, Stride: 1},
	},
	R32: []unicode.Range32{
		{Lo: 0x1f000, Hi: 0x1faff, Stride: 1},
	},
}

// leadingEmoji splits a line beginning with one emoji glyph (optionally
// followed by U+FE0F) and a space. ok is false for anything else.
func leadingEmoji(s string) (glyph, rest string, ok bool) {
	if s == "" {
		return "", "", false
	}
	cluster, after, _, _ := uniseg.FirstGraphemeClusterInString(s, -1)
	r, _ := utf8.DecodeRuneInString(cluster)
	if !unicode.Is(emojiRanges, r) {
		return "", "", false
	}
	// A bare VS16 can land in the next cluster on older segmentation tables.
	if strings.HasPrefix(after, string(variationSelector16)) {
		cluster += string(variationSelector16)
		after = after[utf8.RuneLen(variationSelector16):]
	}
	if !strings.HasPrefix(after, " ") {
		return "", "", false
	}
	return cluster, strings.TrimLeft(after, " "), true
}
