package directory

import (
	"sort"
	"strings"

	"auracare/internal/domain"
)

// Matches reports whether the donor's pledge map covers the receiver's
// needed organ. Used to badge compatible donors in the receiver's view.
func Matches(donor domain.RegistrationRecord, receiver domain.RegistrationRecord) bool {
	needed := strings.ToLower(receiver.OrganNeeded)
	if needed == "" {
		return false
	}
	return donor.Pledged(needed)
}

// SearchDonors filters donors whose pledged organs contain the search term.
// An empty term matches everything.
func SearchDonors(donors []domain.RegistrationRecord, term string) []domain.RegistrationRecord {
	if term == "" {
		return donors
	}
	term = strings.ToLower(term)
	var out []domain.RegistrationRecord
	for _, d := range donors {
		for organ, pledged := range d.Organs {
			if pledged && strings.Contains(strings.ToLower(organ), term) {
				out = append(out, d)
				break
			}
		}
	}
	return out
}

// SearchReceivers filters receivers by needed organ and urgency. Empty term
// or the literal "all" urgency skips that filter.
func SearchReceivers(receivers []domain.RegistrationRecord, term, urgency string) []domain.RegistrationRecord {
	var out []domain.RegistrationRecord
	term = strings.ToLower(term)
	for _, r := range receivers {
		if term != "" && !strings.Contains(strings.ToLower(r.OrganNeeded), term) {
			continue
		}
		if urgency != "" && urgency != "all" && r.Urgency != urgency {
			continue
		}
		out = append(out, r)
	}
	return out
}

// SortByDate orders records by creation time. The slice is copied; feeds
// stay in backend insertion order unless the user picks an ordering.
func SortByDate(records []domain.RegistrationRecord, newestFirst bool) []domain.RegistrationRecord {
	out := make([]domain.RegistrationRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		if newestFirst {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
