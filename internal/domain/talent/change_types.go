package talent

// Canonical role-change type values. These are reference data rows in the
// promotion_type table; the strings here are the seeded display values.
const (
	ChangeTemporary     = "temporary"
	ChangeSubstantive   = "substantive"
	ChangeLevelTransfer = "level transfer"
	ChangeDemotion      = "demotion"
)

// ChangeTypeValues lists every canonical change type in seed order.
func ChangeTypeValues() []string {
	return []string{ChangeTemporary, ChangeSubstantive, ChangeLevelTransfer, ChangeDemotion}
}

// PromotionKind maps the temporary flag of a promotion query onto the
// change-type value it must match exactly. Level transfers and demotions
// never satisfy either kind.
func PromotionKind(temporary bool) string {
	if temporary {
		return ChangeTemporary
	}
	return ChangeSubstantive
}
