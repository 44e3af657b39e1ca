package font

import (
	"encoding/hex"
	"log/slog"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"

	"github.com/tsawler/ripper/contentstream"
	"github.com/tsawler/ripper/logging"
)

// UnicodeCMap maps single-byte character codes to Unicode, as read from a
// font's ToUnicode CMap.
//
// Keys are the source code in lower-case hex with leading zeros stripped
// ("0041" becomes "41", "0000" becomes "0"). A bfrange line contributes one
// entry for its first code only; the range is not expanded.
type UnicodeCMap struct {
	entries map[string]cmapEntry
}

// cmapEntry is one destination: its hex form and the decoded text.
type cmapEntry struct {
	dst  string
	text string
}

// utf16 decodes destination strings. A leading byte order mark is honoured
// and stripped.
var utf16 = unicode.UTF16(unicode.BigEndian, unicode.UseBOM)

// ParseUnicodeCMap reads every beginbfrange/endbfrange and
// beginbfchar/endbfchar section of a CMap. Lines that do not parse are
// skipped; the result is never nil.
func ParseUnicodeCMap(fragment []byte) *UnicodeCMap {
	cm := &UnicodeCMap{entries: make(map[string]cmapEntry)}
	content := string(fragment)

	for _, section := range sections(content, "beginbfrange", "endbfrange") {
		cm.parseBfRangeSection(section)
	}
	for _, section := range sections(content, "beginbfchar", "endbfchar") {
		cm.parseBfCharSection(section)
	}

	logging.Logger().Debug("parsed ToUnicode cmap",
		slog.String("func", "ParseUnicodeCMap"), slog.Int("entries", len(cm.entries)))
	return cm
}

// sections returns the text between each begin/end keyword pair.
func sections(content, begin, end string) []string {
	var out []string
	start := 0
	for {
		beginIdx := strings.Index(content[start:], begin)
		if beginIdx == -1 {
			break
		}
		beginIdx += start + len(begin)

		endIdx := strings.Index(content[beginIdx:], end)
		if endIdx == -1 {
			break
		}
		endIdx += beginIdx

		out = append(out, content[beginIdx:endIdx])
		start = endIdx + len(end)
	}
	return out
}

// parseBfRangeSection handles "<src> <srcEnd> <dst>" and the array form
// "<src> <srcEnd> [<d0> <d1> ...]", which maps consecutive codes.
func (cm *UnicodeCMap) parseBfRangeSection(section string) {
	items := cmapItems(section)
	for i := 0; i+2 < len(items); i += 3 {
		src, srcEnd, dst := items[i], items[i+1], items[i+2]
		if src.array != nil || srcEnd.array != nil {
			// out of step: resynchronize on the next item
			i -= 2
			continue
		}

		if dst.array == nil {
			cm.add(src.hex, dst.hex)
			continue
		}

		first, err1 := strconv.ParseUint(padHex(src.hex), 16, 32)
		last, err2 := strconv.ParseUint(padHex(srcEnd.hex), 16, 32)
		if err1 != nil || err2 != nil {
			continue
		}
		for j, d := range dst.array {
			code := first + uint64(j)
			if code > last {
				break
			}
			cm.add(strconv.FormatUint(code, 16), d)
		}
	}
}

// parseBfCharSection handles "<src> <dst>" pairs.
func (cm *UnicodeCMap) parseBfCharSection(section string) {
	items := cmapItems(section)
	for i := 0; i+1 < len(items); i += 2 {
		if items[i].array != nil || items[i+1].array != nil {
			i--
			continue
		}
		cm.add(items[i].hex, items[i+1].hex)
	}
}

func (cm *UnicodeCMap) add(src, dst string) {
	if _, err := hex.DecodeString(padHex(src)); err != nil {
		return
	}
	text, ok := decodeDestination(dst)
	if !ok {
		return
	}
	cm.entries[normalizeCode(src)] = cmapEntry{dst: normalizeCode(dst), text: text}
}

// cmapItem is a <hex> token or a bracketed list of them.
type cmapItem struct {
	hex   string
	array []string
}

// cmapItems tokenizes a section into hex strings and arrays of hex strings.
// Anything else is ignored, so the lines may be packed without spaces.
func cmapItems(section string) []cmapItem {
	var items []cmapItem
	var inArray *cmapItem

	for i := 0; i < len(section); i++ {
		switch section[i] {
		case '<':
			end := strings.IndexByte(section[i:], '>')
			if end == -1 {
				return items
			}
			tok := section[i+1 : i+end]
			i += end
			if inArray != nil {
				inArray.array = append(inArray.array, tok)
			} else {
				items = append(items, cmapItem{hex: tok})
			}
		case '[':
			inArray = &cmapItem{array: []string{}}
		case ']':
			if inArray != nil {
				items = append(items, *inArray)
				inArray = nil
			}
		}
	}
	return items
}

// Translate maps the run's Tj payload through the table. Bytes without an
// entry are dropped. A run without Tj yields "".
func (cm *UnicodeCMap) Translate(run contentstream.TextRun) string {
	if run.Tj == nil {
		return ""
	}
	return cm.TranslateBytes([]byte(*run.Tj))
}

// TranslateBytes maps each byte of data through the table, one byte per
// code. Bytes without an entry are dropped.
func (cm *UnicodeCMap) TranslateBytes(data []byte) string {
	if cm == nil {
		return ""
	}
	var sb strings.Builder
	for _, b := range data {
		if e, ok := cm.entries[strconv.FormatUint(uint64(b), 16)]; ok {
			sb.WriteString(e.text)
		}
	}
	return sb.String()
}

// Lookup returns the destination hex for a source code written in hex.
// Both are normalized like the table keys: Lookup("0041") and Lookup("41")
// are the same query.
func (cm *UnicodeCMap) Lookup(code string) (string, bool) {
	if cm == nil {
		return "", false
	}
	e, ok := cm.entries[normalizeCode(code)]
	return e.dst, ok
}

// Len returns the number of entries.
func (cm *UnicodeCMap) Len() int {
	if cm == nil {
		return 0
	}
	return len(cm.entries)
}

// Helper functions

// normalizeCode lower-cases a hex code and strips its leading zeros.
func normalizeCode(code string) string {
	code = strings.TrimLeft(strings.ToLower(strings.TrimSpace(code)), "0")
	if code == "" {
		return "0"
	}
	return code
}

// padHex prefixes an odd-length hex string with 0.
func padHex(s string) string {
	s = strings.Join(strings.Fields(s), "")
	if len(s)%2 != 0 {
		return "0" + s
	}
	return s
}

// decodeDestination converts destination hex into text. One byte is taken
// as a code point; longer values are UTF-16BE, which covers ligatures and
// surrogate pairs.
func decodeDestination(dst string) (string, bool) {
	data, err := hex.DecodeString(padHex(dst))
	if err != nil || len(data) == 0 {
		return "", false
	}
	if len(data) == 1 {
		return string(rune(data[0])), true
	}

	text, err := utf16.NewDecoder().Bytes(data)
	if err != nil {
		return "", false
	}
	return string(text), true
}
