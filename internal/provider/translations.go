package provider

import (
	"regexp"
	"strings"

	"github.com/milonlex/milon-api/internal/domain"
)

var commentRe = regexp.MustCompile(`\((.*?)\)`)

// parseTranslations splits the raw translation line into structured
// translations. Semicolons separate meaning groups, commas separate
// variants inside a group, and a parenthesised span becomes the group's
// context comment. The first variant overall is marked primary.
func parseTranslations(raw string) []domain.Translation {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var out []domain.Translation
	for _, group := range strings.Split(raw, ";") {
		group = strings.TrimSpace(group)

		var comment string
		if m := commentRe.FindStringSubmatch(group); m != nil {
			comment = strings.TrimSpace(m[1])
		}
		group = strings.TrimSpace(commentRe.ReplaceAllString(group, ""))

		for _, item := range strings.Split(group, ",") {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			out = append(out, domain.Translation{
				Text:           item,
				ContextComment: comment,
			})
		}
	}

	if len(out) > 0 {
		out[0].IsPrimary = true
	}
	return out
}
