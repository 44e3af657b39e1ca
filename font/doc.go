// Package font maps font-specific character codes to Unicode.
//
// A font's /ToUnicode stream holds a CMap whose bfrange and bfchar sections
// pair source codes with Unicode destinations:
//
//	cm := font.ParseUnicodeCMap(decodedToUnicode)
//	text := cm.Translate(run) // run from contentstream.ExtractText
//
// Translation walks the show-text payload one byte at a time and drops
// bytes the table does not map, so text in fonts with multi-byte codes may
// come out incomplete.
package font
