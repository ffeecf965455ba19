package talent

import "testing"

func testGrades() []Grade {
	return []Grade{
		{ID: 1, Value: "Director General", Rank: 1},
		{ID: 2, Value: "Director", Rank: 2},
		{ID: 3, Value: "Deputy Director", Rank: 3},
		{ID: 4, Value: "Grade 6", Rank: 4},
		{ID: 5, Value: "Grade 7", Rank: 5},
		{ID: 6, Value: "Faststream", Rank: 6},
	}
}

func TestMoreSeniorThan(t *testing.T) {
	grades := testGrades()
	if !grades[0].MoreSeniorThan(grades[3]) {
		t.Fatalf("rank 1 should outrank rank 4")
	}
	if grades[4].MoreSeniorThan(grades[3]) {
		t.Fatalf("rank 5 should not outrank rank 4")
	}
	if grades[3].MoreSeniorThan(grades[3]) {
		t.Fatalf("a grade should not outrank itself")
	}
}

func TestEligibleGradesFLS(t *testing.T) {
	eligible := EligibleGrades("FLS", testGrades())
	if len(eligible) != 2 {
		t.Fatalf("eligible len = %d, want 2", len(eligible))
	}
	for _, grade := range eligible {
		if grade.Value != "Grade 6" && grade.Value != "Grade 7" {
			t.Fatalf("unexpected eligible grade %q", grade.Value)
		}
	}
}

func TestEligibleGradesSLS(t *testing.T) {
	eligible := EligibleGrades("SLS", testGrades())
	if len(eligible) != 1 {
		t.Fatalf("eligible len = %d, want 1", len(eligible))
	}
	if eligible[0].Value != "Deputy Director" {
		t.Fatalf("eligible = %q, want Deputy Director", eligible[0].Value)
	}
}

func TestReachableGradesIncludesOneRankBelow(t *testing.T) {
	grades := testGrades()
	current := grades[3] // Grade 6, rank 4

	reachable := ReachableGrades(current, grades)
	if len(reachable) != 5 {
		t.Fatalf("reachable len = %d, want 5", len(reachable))
	}
	// Most senior first; a candidate coming off temporary promotion may
	// land one rank below their current grade, never lower.
	if reachable[0].Value != "Director General" {
		t.Fatalf("reachable[0] = %q, want Director General", reachable[0].Value)
	}
	if reachable[len(reachable)-1].Value != "Grade 7" {
		t.Fatalf("reachable last = %q, want Grade 7", reachable[len(reachable)-1].Value)
	}
	for _, grade := range reachable {
		if grade.Value == "Faststream" {
			t.Fatalf("Faststream is two ranks below and should not be reachable")
		}
	}
}

func TestReachableGradesFromTop(t *testing.T) {
	grades := testGrades()
	reachable := ReachableGrades(grades[0], grades)
	if len(reachable) != 2 {
		t.Fatalf("reachable len = %d, want 2", len(reachable))
	}
	if reachable[0].Value != "Director General" || reachable[1].Value != "Director" {
		t.Fatalf("reachable = %q, %q", reachable[0].Value, reachable[1].Value)
	}
}
