package talent

import (
	"sort"
	"strings"
)

// Grade is the seniority dimension. Lower rank means more senior.
type Grade struct {
	ID    uint64
	Value string
	Rank  int
}

// MoreSeniorThan reports whether g outranks other.
func (g Grade) MoreSeniorThan(other Grade) bool {
	return g.Rank < other.Rank
}

// EligibleGrades filters grades by the scheme naming convention: the FLS
// scheme takes grades named "Grade ..."; every other scheme takes grades
// named "Deputy ...". This is business policy encoded as string matching,
// not a foreign-key relationship, and the else branch is deliberate.
func EligibleGrades(scheme string, grades []Grade) []Grade {
	prefix := "Deputy"
	if scheme == "FLS" {
		prefix = "Grade"
	}

	out := make([]Grade, 0, len(grades))
	for _, grade := range grades {
		if strings.HasPrefix(grade.Value, prefix) {
			out = append(out, grade)
		}
	}
	return out
}

// ReachableGrades returns the grades a candidate on current could move to
// next: everything at most one rank below, ordered most senior first. The
// one-rank tolerance keeps a candidate mid-way through a temporary
// promotion eligible for their substantive level.
func ReachableGrades(current Grade, grades []Grade) []Grade {
	out := make([]Grade, 0, len(grades))
	for _, grade := range grades {
		if grade.Rank <= current.Rank+1 {
			out = append(out, grade)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Rank < out[j].Rank
	})
	return out
}
