package leads

import (
	"testing"

	"github.com/ignite/outreach-crm/internal/domain"
)

func TestScore(t *testing.T) {
	keywords := []string{"gemeente", "digitalisering"}

	tests := []struct {
		name     string
		target   domain.Target
		contacts []domain.Contact
		want     int
		wantTags int
	}{
		{
			name:   "no signals floors at zero",
			target: domain.Target{Name: "Acme BV"},
			want:   0, // -5 contacts, -10 email, floored
		},
		{
			name:   "generic email only stacks the penalty but still floors",
			target: domain.Target{Name: "Acme BV", GeneralEmail: "info@acme.example"},
			want:   0, // -5 -10 -5, floored
		},
		{
			name:   "keyword match in name",
			target: domain.Target{Name: "Gemeente Westvoorne"},
			want:   0, // +10 -5 -10 = -5, floored
		},
		{
			name:   "two keywords across fields",
			target: domain.Target{Name: "Gemeente Ede", Notes: "digitalisering programma loopt"},
			contacts: []domain.Contact{
				{FullName: "Jan", Email: "jan@ede.example"},
			},
			want:     35, // +20 keywords, +5 contact, +10 email
			wantTags: 2,
		},
		{
			name:   "role relevance bonus",
			target: domain.Target{Name: "Acme BV"},
			contacts: []domain.Contact{
				{FullName: "Sam", Role: "Chief Digital Officer", Email: "sam@acme.example"},
			},
			want: 30, // +15 role, +5 contact, +10 email
		},
		{
			name:   "role match via english role field",
			target: domain.Target{Name: "Acme BV"},
			contacts: []domain.Contact{
				{FullName: "Sam", RoleEN: "GIS specialist", Email: "sam@acme.example"},
			},
			want: 30,
		},
		{
			name:   "contact without email keeps email penalty",
			target: domain.Target{Name: "Acme BV"},
			contacts: []domain.Contact{
				{FullName: "Sam", Phone: "+31 6 1234"},
			},
			want: 0, // +5 contact, -10 email = -5, floored
		},
		{
			name:   "keyword match is case-insensitive",
			target: domain.Target{Sector: "DIGITALISERING & ICT"},
			contacts: []domain.Contact{
				{FullName: "Jan", Email: "jan@x.example"},
			},
			want:     25,
			wantTags: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, breakdown, tags := Score(tt.target, tt.contacts, keywords)
			if got != tt.want {
				t.Errorf("score = %d, want %d (breakdown %+v)", got, tt.want, breakdown)
			}
			if len(tags) != tt.wantTags {
				t.Errorf("tags = %v, want %d", tags, tt.wantTags)
			}
			if got < 0 {
				t.Error("score must never be negative")
			}
		})
	}
}

func TestScore_Deterministic(t *testing.T) {
	target := domain.Target{Name: "Gemeente Ede", GeneralEmail: "info@ede.example"}
	contacts := []domain.Contact{{FullName: "Jan", Role: "data analist"}}
	keywords := []string{"gemeente"}

	a, ab, _ := Score(target, contacts, keywords)
	b, bb, _ := Score(target, contacts, keywords)
	if a != b || ab != bb {
		t.Errorf("scoring is not deterministic: %d/%+v vs %d/%+v", a, ab, b, bb)
	}
}

func TestScore_BreakdownFlags(t *testing.T) {
	target := domain.Target{Name: "City One", Type: domain.TargetMunicipality, GeneralEmail: "hello@cityone.example"}

	score, breakdown, _ := Score(target, nil, []string{"harbor"})
	if score != 0 {
		t.Errorf("score = %d, want 0", score)
	}
	if !breakdown.MissingContacts || !breakdown.MissingEmail || !breakdown.GenericEmailOnly {
		t.Errorf("breakdown = %+v, want all penalty flags set", breakdown)
	}
	if breakdown.HasContacts || breakdown.HasContactEmail || breakdown.RoleMatch {
		t.Errorf("breakdown = %+v, no bonus flags expected", breakdown)
	}
}
