package finance

import "strings"

var nameSuffixes = []string{" jr.", " sr.", " jr", " sr", " ii", " iii", " iv"}

// NormalizeName folds a person's name into a comparable "first last" form:
// lower-cased, generational suffixes stripped, "Last, First" order flipped.
func NormalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, suffix := range nameSuffixes {
		if strings.HasSuffix(name, suffix) {
			name = strings.TrimSpace(strings.TrimSuffix(name, suffix))
		}
	}
	if idx := strings.IndexByte(name, ','); idx >= 0 {
		last := strings.TrimSpace(name[:idx])
		rest := strings.Fields(name[idx+1:])
		first := ""
		if len(rest) > 0 {
			first = rest[0]
		}
		return strings.TrimSpace(first + " " + last)
	}
	return strings.Join(strings.Fields(name), " ")
}

// NamesMatch reports whether two names plausibly refer to the same person:
// identical after normalization, or same last name with a shared first-name
// prefix (handles "Mike"/"Michael").
func NamesMatch(a, b string) bool {
	na, nb := NormalizeName(a), NormalizeName(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}
	pa, pb := strings.Fields(na), strings.Fields(nb)
	if len(pa) < 2 || len(pb) < 2 {
		return false
	}
	if pa[len(pa)-1] != pb[len(pb)-1] {
		return false
	}
	return len(pa[0]) >= 3 && len(pb[0]) >= 3 && pa[0][:3] == pb[0][:3]
}

// TitleCase renders an upstream ALL-CAPS name for display.
func TitleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
