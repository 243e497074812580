package token

// keywords maps complete keyword spellings to kinds. Multi-word keywords
// are stored with single spaces between words.
var keywords = map[string]Kind{
	"HAI":         Hai,
	"KTHXBYE":     Kthxbye,
	"I HAS A":     IHasA,
	"VISIBLE":     Visible,
	"GIMMEH":      Gimmeh,
	"O RLY?":      ORly,
	"ITZ":         Itz,
	"R":           R,
	"AN":          An,
	"MKAY":        Mkay,
	"MAEK":        Maek,
	"A":           A,
	"SMOOSH":      Smoosh,
	"SUM OF":      SumOf,
	"DIFF OF":     DiffOf,
	"PRODUKT OF":  ProduktOf,
	"QUOSHUNT OF": QuoshuntOf,
	"MOD OF":      ModOf,
	"BIGGR OF":    BiggrOf,
	"SMALLR OF":   SmallrOf,
	"BOTH SAEM":   BothSaem,
	"DIFFRINT":    Diffrint,
	"BOTH OF":     BothOf,
	"EITHER OF":   EitherOf,
	"WON OF":      WonOf,
	"NOT":         Not,
	"ALL OF":      AllOf,
	"ANY OF":      AnyOf,
	"YA RLY":      YaRly,
	"NO WAI":      NoWai,
	"MEBBE":       Mebbe,
	"OIC":         Oic,
	"WTF?":        Wtf,
	"OMG":         Omg,
	"OMGWTF":      Omgwtf,
	"GTFO":        Gtfo,
	"NOOB":        Noob,
	"NUMBR":       Numbr,
	"NUMBAR":      Numbar,
	"YARN":        Yarn,
	"TROOF":       Troof,
	"IT":          It,
}

// prefixes holds every proper prefix of a multi-word keyword
var prefixes = map[string]bool{
	"I":        true,
	"I HAS":    true,
	"SUM":      true,
	"DIFF":     true,
	"PRODUKT":  true,
	"QUOSHUNT": true,
	"MOD":      true,
	"BIGGR":    true,
	"SMALLR":   true,
	"BOTH":     true,
	"EITHER":   true,
	"WON":      true,
	"ALL":      true,
	"ANY":      true,
	"O":        true,
	"YA":       true,
	"NO":       true,
}

// LookupKeyword returns the kind for a complete keyword spelling
func LookupKeyword(s string) (Kind, bool) {
	k, ok := keywords[s]
	return k, ok
}

// IsKeywordPrefix reports whether s is a proper prefix of a multi-word keyword
func IsKeywordPrefix(s string) bool {
	return prefixes[s]
}
