package leads

import (
	"strings"

	"github.com/ignite/outreach-crm/internal/domain"
)

// roleKeywords mark a contact's role as relevant to digitalization work.
var roleKeywords = []string{"digital", "data", "innovation", "smart", "technology", "gis"}

// Score is the deterministic scoring function. It reads only its arguments:
// no randomness, no history. Each rule is evaluated independently and the
// result is floored at zero.
//
//   - +10 per configured keyword found as a case-insensitive substring of the
//     target's name, sector, province, or notes; matches become tags
//   - +15 when any contact's role mentions a role-relevance keyword
//   - +5 with at least one contact, -5 with none
//   - +10 when some contact has an email, -10 when none do
//   - -5 extra when the only address is the target's general inbox
func Score(target domain.Target, contacts []domain.Contact, keywords []string) (int, domain.ScoreBreakdown, []string) {
	var (
		score     int
		breakdown domain.ScoreBreakdown
		tags      []string
	)

	haystack := strings.ToLower(target.Name + " " + target.Sector + " " + target.Province + " " + target.Notes)
	for _, kw := range keywords {
		k := strings.ToLower(strings.TrimSpace(kw))
		if k == "" {
			continue
		}
		if strings.Contains(haystack, k) {
			breakdown.KeywordPoints += 10
			tags = append(tags, k)
		}
	}
	score += breakdown.KeywordPoints

	for _, c := range contacts {
		role := strings.ToLower(c.Role + " " + c.RoleEN)
		for _, rk := range roleKeywords {
			if strings.Contains(role, rk) {
				breakdown.RoleMatch = true
				break
			}
		}
		if breakdown.RoleMatch {
			break
		}
	}
	if breakdown.RoleMatch {
		score += 15
	}

	if len(contacts) > 0 {
		breakdown.HasContacts = true
		score += 5
	} else {
		breakdown.MissingContacts = true
		score -= 5
	}

	hasEmail := false
	for _, c := range contacts {
		if c.Email != "" {
			hasEmail = true
			break
		}
	}
	if hasEmail {
		breakdown.HasContactEmail = true
		score += 10
	} else {
		breakdown.MissingEmail = true
		score -= 10
		if target.GeneralEmail != "" {
			breakdown.GenericEmailOnly = true
			score -= 5
		}
	}

	if score < 0 {
		score = 0
	}
	return score, breakdown, tags
}
