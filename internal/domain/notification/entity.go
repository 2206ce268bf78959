package notification

// TemplateKind identifies one mail template. Each lifecycle operation
// plans a subset of these for distinct recipient groups.
type TemplateKind string

const (
	AbsenceCreatedAbsentee   TemplateKind = "absence_created_absentee"
	AbsenceCreatedTeam       TemplateKind = "absence_created_team"
	AbsenceCreatedSubstitute TemplateKind = "absence_created_substitute"

	AbsenceUpdatedAbsentee      TemplateKind = "absence_updated_absentee"
	AbsenceUpdatedTeam          TemplateKind = "absence_updated_team"
	AbsenceUpdatedSubstitute    TemplateKind = "absence_updated_substitute"
	AbsenceUpdatedOldSubstitute TemplateKind = "absence_updated_old_substitute"
	AbsenceUpdatedNewSubstitute TemplateKind = "absence_updated_new_substitute"

	AbsenceDeletedAbsentee   TemplateKind = "absence_deleted_absentee"
	AbsenceDeletedTeam       TemplateKind = "absence_deleted_team"
	AbsenceDeletedSubstitute TemplateKind = "absence_deleted_substitute"
)

// Variable names substituted into mail templates.
const (
	VarAbsentee      = "absentee"
	VarSubstitute    = "substitute"
	VarOldSubstitute = "old_substitute"
	VarStartDate     = "start_date"
	VarEndDate       = "end_date"
	VarOldStartDate  = "old_start_date"
	VarOldEndDate    = "old_end_date"
)

// PlanEntry is one planned notification: a deduplicated recipient
// address set, the template to render, and its substitution variables.
// Entries are ephemeral; they live for a single lifecycle operation.
type PlanEntry struct {
	Recipients []string
	Template   TemplateKind
	Variables  map[string]string
}
