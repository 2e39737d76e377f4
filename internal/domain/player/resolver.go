package player

import "strings"

var nameSuffixes = map[string]struct{}{
	"jr":  {},
	"sr":  {},
	"ii":  {},
	"iii": {},
	"iv":  {},
	"v":   {},
}

// NameKey reduces a loosely formatted display name to a stable join key of the
// form "j.burrow". Box scores print "J.Burrow" while projection feeds print
// "Joe Burrow"; both reduce to the same key. Generational suffixes are dropped
// so "Odell Beckham Jr." keys on the surname.
func NameKey(name string) string {
	cleaned := strings.ToLower(strings.TrimSpace(name))
	if cleaned == "" {
		return ""
	}

	if strings.Contains(cleaned, ".") && !strings.Contains(cleaned, " ") {
		parts := strings.SplitN(cleaned, ".", 2)
		if len(parts) == 2 && parts[0] != "" && parts[1] != "" {
			return string(parts[0][0]) + "." + strings.TrimSpace(parts[1])
		}
		return cleaned
	}

	fields := strings.Fields(cleaned)
	for len(fields) > 1 {
		last := strings.Trim(fields[len(fields)-1], ".,")
		if _, ok := nameSuffixes[last]; !ok {
			break
		}
		fields = fields[:len(fields)-1]
	}
	if len(fields) == 0 {
		return ""
	}
	if len(fields) == 1 {
		return fields[0]
	}

	return string(fields[0][0]) + "." + strings.Trim(fields[len(fields)-1], ".,")
}

// Resolver maps display names to canonical player IDs. It is built once at
// ingestion; lookups for unknown names return ok=false and the caller routes
// the actor to the league-average fallback path.
type Resolver struct {
	byKey map[string]string
}

func NewResolver(players []Player) *Resolver {
	byKey := make(map[string]string, len(players))
	for _, p := range players {
		key := NameKey(p.Name)
		if key == "" || p.ID == "" {
			continue
		}
		if _, exists := byKey[key]; exists {
			// Ambiguous key: two players collide on first-initial+surname.
			// Keep the first and let later entries fall back rather than
			// silently mismatch.
			continue
		}
		byKey[key] = p.ID
	}

	return &Resolver{byKey: byKey}
}

func (r *Resolver) Resolve(name string) (string, bool) {
	if r == nil {
		return "", false
	}
	id, ok := r.byKey[NameKey(name)]
	return id, ok
}

func (r *Resolver) Len() int {
	if r == nil {
		return 0
	}
	return len(r.byKey)
}
