package provider

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/milonlex/milon-api/internal/domain"
	"github.com/milonlex/milon-api/internal/hebrew"
)

// Binyan names as the dictionary prints them, folded to their canonical
// transliteration.
var binyanNames = map[string]string{
	"пааль":    "paal",
	"пиэль":    "piel",
	"hифъиль":  "hifil",
	"нифъаль":  "nifal",
	"hитпаэль": "hitpael",
	"hуфъаль":  "hufal",
	"пуаль":    "pual",
	"paal":     "paal",
	"piel":     "piel",
	"hifil":    "hifil",
	"nifal":    "nifal",
	"hitpael":  "hitpael",
	"hufal":    "hufal",
	"pual":     "pual",
}

// Conjugation block id prefixes mapped onto tense keys. The infinitive
// block carries the lemma itself and is not stored as a conjugation.
var tensePrefixes = map[string]domain.Tense{
	"PERF": domain.TensePast,
	"AP":   domain.TensePresent,
	"IMPF": domain.TenseFuture,
	"IMP":  domain.TenseImperative,
}

// parsePage extracts a WordInfo from a single dictionary entry page.
// Returns ErrWordNotFound when the page does not look like an entry.
func parsePage(doc *html.Node) (*WordInfo, error) {
	pos := partOfSpeechFromMeta(doc)
	if pos == domain.PartOfSpeechAny {
		// Verb pages occasionally lack the meta tag; the header still says
		// what the page is.
		header := findByClass(doc, "h2", "page-header")
		if header == nil {
			return nil, ErrWordNotFound
		}
		ht := strings.ToLower(nodeText(header))
		if !strings.Contains(ht, "спряжение") && !strings.Contains(ht, "conjugation") {
			return nil, ErrWordNotFound
		}
		pos = domain.PartOfSpeechVerb
	}

	if pos == domain.PartOfSpeechVerb {
		return parseVerbPage(doc)
	}
	return parseNominalPage(doc, pos)
}

func parseVerbPage(doc *html.Node) (*WordInfo, error) {
	info := &WordInfo{PartOfSpeech: domain.PartOfSpeechVerb}

	inf := findByID(doc, "INF-L")
	if inf == nil {
		return nil, ErrWordNotFound
	}
	info.Hebrew = menukadText(inf)
	if info.Hebrew == "" {
		return nil, ErrWordNotFound
	}
	if tr := findByClass(inf, "div", "transcription"); tr != nil {
		info.Transcription = strings.TrimSpace(nodeText(tr))
	}

	lead := findByClass(doc, "div", "lead")
	if lead == nil {
		return nil, ErrWordNotFound
	}
	info.Translations = parseTranslations(nodeText(lead))
	if len(info.Translations) == 0 {
		return nil, ErrWordNotFound
	}

	info.Root, info.Binyan = parseRootAndBinyan(doc)
	info.Conjugations = parseConjugations(doc)
	return info, nil
}

func parseNominalPage(doc *html.Node, pos domain.PartOfSpeech) (*WordInfo, error) {
	info := &WordInfo{PartOfSpeech: pos}

	table := findByClass(doc, "table", "conjugation-table")
	if table == nil {
		return nil, ErrWordNotFound
	}

	switch pos {
	case domain.PartOfSpeechNoun:
		if row := rowByHeader(table, "Абсолютное состояние"); row != nil {
			cells := childElements(row, "td")
			if len(cells) >= 1 {
				info.Hebrew = menukadText(cells[0])
				info.SingularForm = info.Hebrew
			}
			if len(cells) >= 2 {
				info.PluralForm = menukadText(cells[1])
			}
		}
		info.Gender = parseGender(doc)
	case domain.PartOfSpeechAdjective:
		cells := allElements(table, "td")
		if len(cells) >= 1 {
			info.Hebrew = menukadText(cells[0])
			info.MasculineForm = info.Hebrew
		}
		if len(cells) >= 2 {
			info.FeminineForm = menukadText(cells[1])
		}
	default:
		cells := allElements(table, "td")
		if len(cells) >= 1 {
			info.Hebrew = menukadText(cells[0])
		}
	}

	if info.Hebrew == "" {
		return nil, ErrWordNotFound
	}

	lead := findByClass(doc, "div", "lead")
	if lead == nil {
		return nil, ErrWordNotFound
	}
	info.Translations = parseTranslations(nodeText(lead))
	if len(info.Translations) == 0 {
		return nil, ErrWordNotFound
	}

	if tr := findByClass(doc, "div", "transcription"); tr != nil {
		info.Transcription = strings.TrimSpace(nodeText(tr))
	}
	return info, nil
}

// partOfSpeechFromMeta reads the part of speech from the description meta
// tag, the most reliable marker on entry pages.
func partOfSpeechFromMeta(doc *html.Node) domain.PartOfSpeech {
	var content string
	walk(doc, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "meta" && attr(n, "name") == "description" {
			content = attr(n, "content")
			return false
		}
		return true
	})

	content = strings.ToLower(strings.TrimSpace(content))
	switch {
	case strings.HasPrefix(content, "глагол"), strings.HasPrefix(content, "verb"):
		return domain.PartOfSpeechVerb
	case strings.HasPrefix(content, "существительное"), strings.HasPrefix(content, "noun"):
		return domain.PartOfSpeechNoun
	case strings.HasPrefix(content, "прилагательное"), strings.HasPrefix(content, "adjective"):
		return domain.PartOfSpeechAdjective
	default:
		return domain.PartOfSpeechAny
	}
}

func parseRootAndBinyan(doc *html.Node) (root, binyan string) {
	for _, p := range allElements(doc, "p") {
		text := nodeText(p)
		lower := strings.ToLower(text)

		if strings.Contains(lower, "глагол") || strings.Contains(lower, "verb") {
			cleaned := strings.NewReplacer("Verb –", "", "Глагол –", "").Replace(text)
			fields := strings.Fields(strings.TrimSpace(cleaned))
			if len(fields) > 0 {
				if b, ok := binyanNames[strings.ToLower(fields[0])]; ok {
					binyan = b
				}
			}
		}
		if strings.Contains(lower, "корень") || strings.Contains(lower, "root") {
			if m := findByClass(p, "span", "menukad"); m != nil {
				root = strings.TrimSpace(nodeText(m))
			}
		}
	}
	return root, binyan
}

func parseConjugations(doc *html.Node) []domain.Conjugation {
	var out []domain.Conjugation
	walk(doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.Data != "div" {
			return true
		}
		id := attr(n, "id")
		prefix, person, ok := strings.Cut(id, "-")
		if !ok {
			return true
		}
		tense, known := tensePrefixes[prefix]
		if !known {
			return true
		}

		form := menukadText(n)
		if form == "" {
			return true
		}
		conj := domain.Conjugation{
			Tense:          tense,
			Person:         person,
			HebrewForm:     form,
			NormalizedForm: hebrew.Normalize(form),
		}
		if tr := findByClass(n, "div", "transcription"); tr != nil {
			conj.Transcription = strings.TrimSpace(nodeText(tr))
		}
		out = append(out, conj)
		return false
	})
	return out
}

// parseGender reads the gender line that follows the page header.
func parseGender(doc *html.Node) string {
	for _, p := range allElements(doc, "p") {
		text := strings.ToLower(nodeText(p))
		switch {
		case strings.Contains(text, "мужской род"), strings.Contains(text, "masculine"):
			return "masculine"
		case strings.Contains(text, "женский род"), strings.Contains(text, "feminine"):
			return "feminine"
		}
	}
	return ""
}

// menukadText pulls the pointed Hebrew form out of a block, dropping the
// alternate spelling after the tilde.
func menukadText(n *html.Node) string {
	m := findByClassAny(n, "menukad")
	if m == nil {
		return ""
	}
	text, _, _ := strings.Cut(nodeText(m), "~")
	return strings.TrimSpace(text)
}

// --- html tree helpers ---

// walk visits nodes depth-first; the callback returns false to skip the
// node's subtree.
func walk(n *html.Node, fn func(*html.Node) bool) {
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func findByClass(root *html.Node, tag, class string) *html.Node {
	var found *html.Node
	walk(root, func(n *html.Node) bool {
		if found != nil {
			return false
		}
		if n.Type == html.ElementNode && n.Data == tag && hasClass(n, class) {
			found = n
			return false
		}
		return true
	})
	return found
}

func findByClassAny(root *html.Node, class string) *html.Node {
	var found *html.Node
	walk(root, func(n *html.Node) bool {
		if found != nil {
			return false
		}
		if n.Type == html.ElementNode && hasClass(n, class) {
			found = n
			return false
		}
		return true
	})
	return found
}

func findByID(root *html.Node, id string) *html.Node {
	var found *html.Node
	walk(root, func(n *html.Node) bool {
		if found != nil {
			return false
		}
		if n.Type == html.ElementNode && attr(n, "id") == id {
			found = n
			return false
		}
		return true
	})
	return found
}

func allElements(root *html.Node, tag string) []*html.Node {
	var out []*html.Node
	walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
		}
		return true
	})
	return out
}

func childElements(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			out = append(out, c)
		}
	}
	return out
}

// rowByHeader finds the table row whose th matches the given text.
func rowByHeader(table *html.Node, header string) *html.Node {
	var row *html.Node
	walk(table, func(n *html.Node) bool {
		if row != nil {
			return false
		}
		if n.Type == html.ElementNode && n.Data == "th" &&
			strings.TrimSpace(nodeText(n)) == header {
			row = n.Parent
			return false
		}
		return true
	})
	return row
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		return true
	})
	return b.String()
}
