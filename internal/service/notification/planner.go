package notification

import (
	"time"

	"github.com/kostadin12/sis-api/internal/domain/absence"
	"github.com/kostadin12/sis-api/internal/domain/notification"
	"github.com/kostadin12/sis-api/internal/domain/user"
)

const dateFormat = "02/01/2006"

// PlanInput carries everything the planner needs, pre-fetched by the
// caller. The planner itself performs no I/O.
type PlanInput struct {
	Diff     absence.Diff
	Absentee user.User

	// OldSubstitute / NewSubstitute mirror Diff.Old/Diff.New's
	// substitute ids, resolved to users.
	OldSubstitute *user.User
	NewSubstitute *user.User

	// HasProjects reports whether the absentee belongs to any project;
	// without projects there is no team to notify.
	HasProjects bool

	// TeamMembers is the union of the absentee's project co-members.
	TeamMembers []user.User

	// Subscribers holds the ids of users subscribed to the absentee.
	Subscribers map[string]struct{}
}

// Plan derives the notification entries for one lifecycle diff:
// recipient groups, template kinds, and substitution variables. Parties
// without a contact address are left out; a party's primary and
// secondary addresses end up in one recipient set, never in separate
// entries.
func Plan(in PlanInput) []notification.PlanEntry {
	switch {
	case in.Diff.Old == nil && in.Diff.New != nil:
		return planCreate(in)
	case in.Diff.Old != nil && in.Diff.New != nil:
		return planUpdate(in)
	case in.Diff.Old != nil && in.Diff.New == nil:
		return planDelete(in)
	}
	return nil
}

func planCreate(in PlanInput) []notification.PlanEntry {
	a := in.Diff.New
	vars := map[string]string{
		notification.VarAbsentee:  in.Absentee.FullName(),
		notification.VarStartDate: formatDate(a.StartDate),
		notification.VarEndDate:   formatDate(a.EndDate),
	}

	var entries []notification.PlanEntry
	entries = appendEntry(entries, in.Absentee.Addresses(), notification.AbsenceCreatedAbsentee, vars)
	entries = appendEntry(entries, teamAddresses(in), notification.AbsenceCreatedTeam, vars)

	if in.NewSubstitute != nil {
		subVars := cloneVars(vars)
		subVars[notification.VarSubstitute] = in.NewSubstitute.FullName()
		entries = appendEntry(entries, in.NewSubstitute.Addresses(), notification.AbsenceCreatedSubstitute, subVars)
	}
	return entries
}

func planUpdate(in PlanInput) []notification.PlanEntry {
	oldA, newA := in.Diff.Old, in.Diff.New
	vars := map[string]string{
		notification.VarAbsentee:     in.Absentee.FullName(),
		notification.VarStartDate:    formatDate(newA.StartDate),
		notification.VarEndDate:      formatDate(newA.EndDate),
		notification.VarOldStartDate: formatDate(oldA.StartDate),
		notification.VarOldEndDate:   formatDate(oldA.EndDate),
	}

	var entries []notification.PlanEntry
	entries = appendEntry(entries, in.Absentee.Addresses(), notification.AbsenceUpdatedAbsentee, vars)
	entries = appendEntry(entries, teamAddresses(in), notification.AbsenceUpdatedTeam, vars)

	// Substitute sub-cases compare old and new by identity: unchanged
	// and non-nil means a single "still assigned" mail; a change fires a
	// release for the old one and an assignment for the new one.
	if sameSubstitute(oldA, newA) {
		if in.NewSubstitute != nil {
			subVars := cloneVars(vars)
			subVars[notification.VarSubstitute] = in.NewSubstitute.FullName()
			entries = appendEntry(entries, in.NewSubstitute.Addresses(), notification.AbsenceUpdatedSubstitute, subVars)
		}
		return entries
	}

	if in.OldSubstitute != nil {
		oldVars := cloneVars(vars)
		oldVars[notification.VarOldSubstitute] = in.OldSubstitute.FullName()
		entries = appendEntry(entries, in.OldSubstitute.Addresses(), notification.AbsenceUpdatedOldSubstitute, oldVars)
	}
	if in.NewSubstitute != nil {
		newVars := cloneVars(vars)
		newVars[notification.VarSubstitute] = in.NewSubstitute.FullName()
		entries = appendEntry(entries, in.NewSubstitute.Addresses(), notification.AbsenceUpdatedNewSubstitute, newVars)
	}
	return entries
}

func planDelete(in PlanInput) []notification.PlanEntry {
	a := in.Diff.Old
	vars := map[string]string{
		notification.VarAbsentee:     in.Absentee.FullName(),
		notification.VarOldStartDate: formatDate(a.StartDate),
		notification.VarOldEndDate:   formatDate(a.EndDate),
	}

	var entries []notification.PlanEntry
	entries = appendEntry(entries, in.Absentee.Addresses(), notification.AbsenceDeletedAbsentee, vars)
	entries = appendEntry(entries, teamAddresses(in), notification.AbsenceDeletedTeam, vars)

	if in.OldSubstitute != nil {
		subVars := cloneVars(vars)
		subVars[notification.VarSubstitute] = in.OldSubstitute.FullName()
		entries = appendEntry(entries, in.OldSubstitute.Addresses(), notification.AbsenceDeletedSubstitute, subVars)
	}
	return entries
}

// teamAddresses collects the addresses of project co-members who are
// subscribed to the absentee, excluding the absentee, deduplicated.
func teamAddresses(in PlanInput) []string {
	if !in.HasProjects {
		return nil
	}

	var addresses []string
	seenUsers := make(map[string]struct{})
	for _, member := range in.TeamMembers {
		if member.ID == in.Absentee.ID {
			continue
		}
		if _, subscribed := in.Subscribers[member.ID]; !subscribed {
			continue
		}
		if _, seen := seenUsers[member.ID]; seen {
			continue
		}
		seenUsers[member.ID] = struct{}{}
		addresses = append(addresses, member.Addresses()...)
	}
	return dedupe(addresses)
}

func appendEntry(entries []notification.PlanEntry, recipients []string, kind notification.TemplateKind, vars map[string]string) []notification.PlanEntry {
	if len(recipients) == 0 {
		return entries
	}
	return append(entries, notification.PlanEntry{
		Recipients: recipients,
		Template:   kind,
		Variables:  vars,
	})
}

func sameSubstitute(oldA, newA *absence.Absence) bool {
	if oldA.SubstituteID == nil || newA.SubstituteID == nil {
		return oldA.SubstituteID == nil && newA.SubstituteID == nil
	}
	return *oldA.SubstituteID == *newA.SubstituteID
}

func cloneVars(vars map[string]string) map[string]string {
	out := make(map[string]string, len(vars)+1)
	for k, v := range vars {
		out[k] = v
	}
	return out
}

func dedupe(addresses []string) []string {
	seen := make(map[string]struct{}, len(addresses))
	var out []string
	for _, addr := range addresses {
		if _, ok := seen[addr]; ok {
			continue
		}
		seen[addr] = struct{}{}
		out = append(out, addr)
	}
	return out
}

func formatDate(t time.Time) string {
	return t.Format(dateFormat)
}
