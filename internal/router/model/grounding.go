package model

import "strings"

// NoContentSentinel is the designated non-error grounding value meaning "the
// knowledge base holds nothing for this query". It is valid context for the
// answer generator and must not be treated as a failure: the generator is
// prompted to answer honestly that the information is missing.
const NoContentSentinel = "No relevant content was found in the knowledge base for this query."

// PassageSeparator delimits individual retrieved passages inside a single
// grounding context blob.
const PassageSeparator = "\n---\n"

// JoinPassages concatenates similarity-ranked passages into one grounding
// context, skipping blanks. Zero usable passages yield NoContentSentinel.
func JoinPassages(passages []string) string {
	kept := make([]string, 0, len(passages))
	for _, p := range passages {
		if strings.TrimSpace(p) == "" {
			continue
		}
		kept = append(kept, p)
	}
	if len(kept) == 0 {
		return NoContentSentinel
	}
	return strings.Join(kept, PassageSeparator)
}
