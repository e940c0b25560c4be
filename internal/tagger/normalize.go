package tagger

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/smaitlx1/Nexus-Mod-Manager/internal/modinfo"
)

// NormalizeInfo cleans every field of info: Unicode NFC form, NUL bytes
// dropped, other control characters and runs of whitespace folded to one space.
func NormalizeInfo(info modinfo.Info) modinfo.Info {
	return modinfo.Info{
		ID:          normalizeField(info.ID),
		Name:        normalizeField(info.Name),
		Version:     normalizeField(info.Version),
		Author:      normalizeField(info.Author),
		Category:    normalizeField(info.Category),
		Website:     normalizeField(info.Website),
		Description: normalizeDescription(info.Description),
	}
}

func normalizeField(s string) string {
	s = strings.Map(func(r rune) rune {
		if r == 0 {
			return -1
		}
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, norm.NFC.String(s))
	return strings.Join(strings.Fields(s), " ")
}

// normalizeDescription keeps line breaks so multi-paragraph text survives.
func normalizeDescription(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = normalizeField(line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// trimExt drops a short file extension.
func trimExt(name string) string {
	if ext := filepath.Ext(name); len(ext) > 1 && len(ext) <= 5 {
		return strings.TrimSuffix(name, ext)
	}
	return name
}

// matchKey reduces a name to a comparison form: lowercase, accents
// removed, separators collapsed.
func matchKey(s string) string {
	s = strings.ToLower(s)

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if result, _, err := transform.String(t, s); err == nil {
		s = result
	}

	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(s), " ")
}
