package llm

import (
	"fmt"
	"strings"
)

var langNames = map[string]string{
	"ar": "Arabic",
	"fr": "French",
	"en": "English",
	"es": "Spanish",
}

var scriptNames = map[string]string{
	"ar": "Arabic",
	"fr": "Latin",
	"en": "Latin",
	"es": "Latin",
}

func langName(code string) string {
	if n, ok := langNames[code]; ok {
		return n
	}
	return code
}

// BuildPrompt renders the system and user prompts for a request.
// The strict variant spells out the script constraint; it is the
// alternate prompting method recovery switches to when the standard
// prompt produced contaminated output
func BuildPrompt(req Request) (system, user string) {
	src, dst := langName(req.SourceLang), langName(req.TargetLang)

	var b strings.Builder
	fmt.Fprintf(&b, "You are a professional legal translator. Translate the user's text from %s to %s.", src, dst)
	b.WriteString(" Output only the translated text. No commentary, no labels, no markdown, no quotation of the source.")
	if req.DomainHint != "" {
		fmt.Fprintf(&b, " The text belongs to the %s domain; use its standard terminology.", req.DomainHint)
	}

	if req.Strategy == StrategyStrict {
		script := scriptNames[req.TargetLang]
		if script == "" {
			script = dst
		}
		fmt.Fprintf(&b, " STRICT MODE: every word of your answer must be written in the %s script.", script)
		b.WriteString(" Do not leave any source-language words untranslated.")
		b.WriteString(" Do not include interface text such as Copy to clipboard or Regenerate response.")
		b.WriteString(" If a proper noun has no conventional rendering, transliterate it.")
	}

	return b.String(), req.SourceText
}
