// Package language lists the languages whisper models can be told to
// transcribe. An empty code means auto-detect.
package language

import "sort"

// names maps ISO 639-1 codes to English names.
var names = map[string]string{
	"af": "Afrikaans",
	"ar": "Arabic",
	"hy": "Armenian",
	"az": "Azerbaijani",
	"be": "Belarusian",
	"bs": "Bosnian",
	"bg": "Bulgarian",
	"ca": "Catalan",
	"zh": "Chinese",
	"hr": "Croatian",
	"cs": "Czech",
	"da": "Danish",
	"nl": "Dutch",
	"en": "English",
	"et": "Estonian",
	"fi": "Finnish",
	"fr": "French",
	"gl": "Galician",
	"de": "German",
	"el": "Greek",
	"he": "Hebrew",
	"hi": "Hindi",
	"hu": "Hungarian",
	"is": "Icelandic",
	"id": "Indonesian",
	"it": "Italian",
	"ja": "Japanese",
	"kn": "Kannada",
	"kk": "Kazakh",
	"ko": "Korean",
	"lv": "Latvian",
	"lt": "Lithuanian",
	"mk": "Macedonian",
	"ms": "Malay",
	"mr": "Marathi",
	"mi": "Maori",
	"ne": "Nepali",
	"no": "Norwegian",
	"fa": "Persian",
	"pl": "Polish",
	"pt": "Portuguese",
	"ro": "Romanian",
	"ru": "Russian",
	"sr": "Serbian",
	"sk": "Slovak",
	"sl": "Slovenian",
	"es": "Spanish",
	"sw": "Swahili",
	"sv": "Swedish",
	"tl": "Tagalog",
	"ta": "Tamil",
	"th": "Thai",
	"tr": "Turkish",
	"uk": "Ukrainian",
	"ur": "Urdu",
	"vi": "Vietnamese",
	"cy": "Welsh",
}

// Auto is the label shown for the empty code.
const Auto = "Auto-detect"

// Name returns the English name for code, Auto for the empty code, and the
// code itself when it is unknown.
func Name(code string) string {
	if code == "" {
		return Auto
	}
	if n, ok := names[code]; ok {
		return n
	}
	return code
}

// IsValid reports whether code is a known language or empty.
func IsValid(code string) bool {
	if code == "" {
		return true
	}
	_, ok := names[code]
	return ok
}

// Codes returns every known code, sorted.
func Codes() []string {
	codes := make([]string, 0, len(names))
	for c := range names {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// ForWhisperCLI returns the value passed to whisper-cli's -l flag.
func ForWhisperCLI(code string) string {
	if code == "" {
		return "auto"
	}
	return code
}
