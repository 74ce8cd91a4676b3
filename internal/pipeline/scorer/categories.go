package scorer

import "strings"

const minCategoryHits = 2

// categoryKeywords maps each entry of domain.Categories (minus
// "general", the fallback) to the keyword set that earns it a hit.
var categoryKeywords = map[string][]string{
	"technology": {
		"software", "hardware", "computer", "internet", "digital", "tech",
		"device", "gadget", "innovation", "startup",
	},
	"programming": {
		"code", "programming", "developer", "software engineering", "algorithm",
		"function", "variable", "compiler", "framework", "api",
	},
	"science": {
		"research", "study", "experiment", "scientist", "physics", "chemistry",
		"biology", "hypothesis", "discovery", "laboratory",
	},
	"business": {
		"company", "market", "revenue", "startup", "investment", "strategy",
		"customer", "enterprise", "finance", "economy",
	},
	"health": {
		"health", "medical", "doctor", "patient", "treatment", "disease",
		"wellness", "hospital", "medicine", "diagnosis",
	},
	"education": {
		"learn", "student", "teacher", "school", "university", "course",
		"curriculum", "lesson", "education", "classroom",
	},
	"entertainment": {
		"movie", "music", "game", "celebrity", "show", "entertainment",
		"film", "concert", "actor", "streaming",
	},
	"sports": {
		"game", "team", "player", "score", "match", "championship",
		"athlete", "tournament", "league", "coach",
	},
	"politics": {
		"government", "election", "policy", "senator", "congress", "president",
		"legislation", "political", "vote", "campaign",
	},
}

// Topics exposes the category keyword dictionary for reuse by the
// cleaner's topic-hit keyword extraction, which draws candidate
// keywords from the same vocabulary used to assign categories.
func Topics() map[string][]string {
	return categoryKeywords
}

// Categories emits each fixed-vocabulary label whose keyword set hits
// the combined title+content at least minCategoryHits times, falling
// back to ["general"] when nothing qualifies.
func Categories(content, title string) []string {
	combined := strings.ToLower(title + " " + content)

	var hits []string
	for _, category := range []string{
		"technology", "programming", "science", "business", "health",
		"education", "entertainment", "sports", "politics",
	} {
		keywords := categoryKeywords[category]
		count := 0
		for _, kw := range keywords {
			if strings.Contains(combined, kw) {
				count++
			}
		}
		if count >= minCategoryHits {
			hits = append(hits, category)
		}
	}

	if len(hits) == 0 {
		return []string{"general"}
	}
	return hits
}
