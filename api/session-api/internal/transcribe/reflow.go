// Copyright (c) 2024-2026 Delloop Lab
//
// Licensed under GPL-2.0. See LICENSE.md for details.
package internal_transcribe

import (
	"strings"
	"unicode"
)

// openingQuotes are the characters accepted as the start of a quoted
// sentence after terminal punctuation.
const openingQuotes = `"'` + "“‘" // " ' “ ‘

// ReflowParagraphs inserts paragraph breaks into a raw transcript, but only
// at sentence boundaries: after terminal punctuation (. ! ?) followed by
// whitespace and a capital letter or an opening quote. Requiring the capital
// keeps abbreviations ("e.g. this") and URLs ("example.com/page") intact.
func ReflowParagraphs(raw string) string {
	runes := []rune(strings.TrimSpace(raw))
	if len(runes) == 0 {
		return ""
	}

	var out strings.Builder
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if !isTerminal(r) {
			out.WriteRune(r)
			continue
		}
		out.WriteRune(r)

		// Look past the whitespace run following the punctuation.
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		if j == i+1 || j >= len(runes) {
			continue
		}
		if unicode.IsUpper(runes[j]) || strings.ContainsRune(openingQuotes, runes[j]) {
			out.WriteString("\n\n")
			i = j - 1
		}
	}
	return out.String()
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
