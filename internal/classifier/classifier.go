package classifier

import (
	"regexp"
	"strings"
)

// pattern is one naming convention. Patterns are tried in order, most
// specific first; the first match wins.
type pattern struct {
	re    *regexp.Regexp
	canon func(m []string) string
}

var patterns = []pattern{
	{regexp.MustCompile(`(?i)^set[-_ ]?(\w+)$`), func(m []string) string { return "Set-" + capitalise(m[1]) }},
	{regexp.MustCompile(`(?i)^version[-_ ]?(\d+)$`), func(m []string) string { return "Version-" + m[1] }},
	{regexp.MustCompile(`(?i)^v(\d+)$`), func(m []string) string { return "v" + m[1] }},
	{regexp.MustCompile(`(?i)^test[-_ ]?(\w+)$`), func(m []string) string { return "Test-" + capitalise(m[1]) }},
	{regexp.MustCompile(`(?i)^([a-z])$`), func(m []string) string { return strings.ToUpper(m[1]) }},
	{regexp.MustCompile(`(?i)^variant[-_ ]?(\w+)$`), func(m []string) string { return "Variant-" + capitalise(m[1]) }},
	{regexp.MustCompile(`(?i)^(control|treatment)$`), func(m []string) string { return capitalise(m[1]) }},
	{regexp.MustCompile(`(?i)^(draft|final)$`), func(m []string) string { return capitalise(m[1]) }},
}

// Group is one detected creative set and the folders that landed in it.
type Group struct {
	Name    string
	Folders []string
}

// Classification is the outcome of one classifier run.
type Classification struct {
	Groups    []Group
	Unmatched []string
	// Accuracy is matched folders over total folders.
	Accuracy float64
}

// Classify groups folder paths into named creative sets by ordered pattern
// matching on the last path component. Folders matching no pattern at the
// leaf level get a second chance at the parent-path level; folders still
// unmatched are excluded rather than bucketed into a catch-all.
// Matching is deterministic regex, reproducible and explainable.
func Classify(folders []string) Classification {
	var c Classification
	byName := make(map[string]int)

	for _, folder := range folders {
		name, ok := matchComponent(leaf(folder))
		if !ok {
			if parent := parentPath(folder); parent != "" {
				name, ok = matchComponent(leaf(parent))
			}
		}
		if !ok {
			c.Unmatched = append(c.Unmatched, folder)
			continue
		}

		idx, seen := byName[name]
		if !seen {
			idx = len(c.Groups)
			c.Groups = append(c.Groups, Group{Name: name})
			byName[name] = idx
		}
		c.Groups[idx].Folders = append(c.Groups[idx].Folders, folder)
	}

	if len(folders) > 0 {
		c.Accuracy = float64(len(folders)-len(c.Unmatched)) / float64(len(folders))
	}
	return c
}

func matchComponent(component string) (string, bool) {
	for _, p := range patterns {
		if m := p.re.FindStringSubmatch(component); m != nil {
			return p.canon(m), true
		}
	}
	return "", false
}

func leaf(folder string) string {
	if i := strings.LastIndex(folder, "/"); i >= 0 {
		return folder[i+1:]
	}
	return folder
}

func parentPath(folder string) string {
	if i := strings.LastIndex(folder, "/"); i >= 0 {
		return folder[:i]
	}
	return ""
}

func capitalise(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
