package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folder     = cases.Fold()
)

// Fold normalises s for matching: accents removed, case folded, apostrophes
// dropped, other punctuation turned into single spaces.
func Fold(s string) string {
	plain, _, err := transform.String(stripMarks, s)
	if err != nil {
		plain = s
	}
	plain = folder.String(plain)

	var b strings.Builder
	space := false
	for _, r := range plain {
		switch {
		case r == '\'' || r == '’':
			continue
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		default:
			space = true
		}
	}
	return b.String()
}

// compounds splits well-known series names typed without spaces.
var compounds = strings.NewReplacer(
	"metalgear", "metal gear",
	"callofduty", "call of duty",
	"grandtheft", "grand theft",
	"assassinscreed", "assassins creed",
	"farcry", "far cry",
	"finalfantasy", "final fantasy",
	"godofwar", "god of war",
	"lastofus", "last of us",
	"masseffect", "mass effect",
	"deadspace", "dead space",
	"dragonage", "dragon age",
	"elderscrolls", "elder scrolls",
	"needforspeed", "need for speed",
	"tombraider", "tomb raider",
	"streetfighter", "street fighter",
	"mortalkombat", "mortal kombat",
	"supermario", "super mario",
	"donkeykong", "donkey kong",
	"halflife", "half life",
	"counterstrike", "counter strike",
	"teamfortress", "team fortress",
)

// ExpandCompound lower-cases q and inserts spaces into known compound
// series names ("finalfantasy" -> "final fantasy").
func ExpandCompound(q string) string {
	return compounds.Replace(strings.ToLower(q))
}
