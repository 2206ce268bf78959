package absence

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kostadin12/sis-api/internal/domain/absence"
	"github.com/kostadin12/sis-api/internal/domain/user"
)

// ===== IN-MEMORY FAKES =====

type fakeAbsenceRepo struct {
	absences map[string]absence.Absence
	nextID   int
	locks    int
}

func newFakeAbsenceRepo() *fakeAbsenceRepo {
	return &fakeAbsenceRepo{absences: make(map[string]absence.Absence)}
}

func (f *fakeAbsenceRepo) Create(_ context.Context, a absence.Absence) (absence.Absence, error) {
	if a.ID == "" {
		f.nextID++
		a.ID = fmt.Sprintf("absence-%d", f.nextID)
	}
	f.absences[a.ID] = a
	return a, nil
}

func (f *fakeAbsenceRepo) GetByID(_ context.Context, id string) (absence.Absence, error) {
	a, ok := f.absences[id]
	if !ok {
		return absence.Absence{}, absence.ErrAbsenceNotFound
	}
	return a, nil
}

func (f *fakeAbsenceRepo) GetByIDAndUser(_ context.Context, id, userID string) (absence.Absence, error) {
	a, ok := f.absences[id]
	if !ok || a.UserID != userID {
		return absence.Absence{}, absence.ErrAbsenceNotFound
	}
	return a, nil
}

func (f *fakeAbsenceRepo) GetByUserID(_ context.Context, userID string) ([]absence.Absence, error) {
	var out []absence.Absence
	for _, a := range f.absences {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAbsenceRepo) GetByUserWithinRange(_ context.Context, userID string, startDate, endDate time.Time) ([]absence.Absence, error) {
	var out []absence.Absence
	for _, a := range f.absences {
		if a.UserID == userID && absence.Overlaps(a.StartDate, a.EndDate, startDate, endDate) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAbsenceRepo) HasOverlapping(_ context.Context, userID string, startDate, endDate time.Time, ignoreID *string) (bool, error) {
	for _, a := range f.absences {
		if a.UserID != userID {
			continue
		}
		if ignoreID != nil && a.ID == *ignoreID {
			continue
		}
		if absence.Overlaps(a.StartDate, a.EndDate, startDate, endDate) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAbsenceRepo) Update(_ context.Context, a absence.Absence) error {
	if _, ok := f.absences[a.ID]; !ok {
		return absence.ErrAbsenceNotFound
	}
	f.absences[a.ID] = a
	return nil
}

func (f *fakeAbsenceRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.absences[id]; !ok {
		return absence.ErrAbsenceNotFound
	}
	delete(f.absences, id)
	return nil
}

func (f *fakeAbsenceRepo) LockUser(_ context.Context, _ string) error {
	f.locks++
	return nil
}

type fakeUserRepo struct {
	users []user.User
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (user.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepo) GetByEmployeeNumber(_ context.Context, employeeNumber string) (user.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.EmployeeNumber, employeeNumber) {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepo) GetByIDs(ctx context.Context, ids []string) ([]user.User, error) {
	var out []user.User
	for _, id := range ids {
		u, err := f.GetByID(ctx, id)
		if err != nil {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

type fakeMembershipRepo struct {
	// projects maps user id to the project ids they belong to
	projects map[string][]string
}

func (f *fakeMembershipRepo) ProjectsOf(_ context.Context, userID string) ([]string, error) {
	return f.projects[userID], nil
}

func (f *fakeMembershipRepo) MembersOf(_ context.Context, projectID string) ([]string, error) {
	var out []string
	for userID, projectIDs := range f.projects {
		for _, id := range projectIDs {
			if id == projectID {
				out = append(out, userID)
			}
		}
	}
	return out, nil
}

func (f *fakeMembershipRepo) SharesProject(ctx context.Context, userID, otherUserID string) (bool, error) {
	mine, _ := f.ProjectsOf(ctx, userID)
	theirs, _ := f.ProjectsOf(ctx, otherUserID)
	for _, a := range mine {
		for _, b := range theirs {
			if a == b {
				return true, nil
			}
		}
	}
	return false, nil
}

type fakeTransactor struct{}

func (fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeNotifier struct {
	diffs []absence.Diff
}

func (f *fakeNotifier) AbsenceChanged(_ context.Context, diff absence.Diff) {
	f.diffs = append(f.diffs, diff)
}

// ===== FIXTURES =====

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string { return &s }

func newTestService(t *testing.T) (*Service, *fakeAbsenceRepo, *fakeNotifier) {
	t.Helper()

	users := &fakeUserRepo{users: []user.User{
		{ID: "u1", EmployeeNumber: "EMP00001", FirstName: "Ana", LastName: "Ivanova"},
		{ID: "u2", EmployeeNumber: "EMP00002", FirstName: "Boris", LastName: "Petrov"},
		{ID: "u3", EmployeeNumber: "EMP00003", FirstName: "Carla", LastName: "Dimitrova"},
	}}
	memberships := &fakeMembershipRepo{projects: map[string][]string{
		"u1": {"p1"},
		"u2": {"p1"},
		"u3": {"p2"},
	}}
	absences := newFakeAbsenceRepo()
	notifier := &fakeNotifier{}

	svc := NewService(
		fakeTransactor{},
		absences,
		users,
		NewOverlapValidator(absences),
		NewSubstituteResolver(users, memberships),
		notifier,
	)
	svc.now = func() time.Time { return date(2024, time.June, 15) }
	return svc, absences, notifier
}

func saveCmd(start, end time.Time) absence.SaveAbsenceCommand {
	return absence.SaveAbsenceCommand{
		StartDate:      start,
		EndDate:        end,
		AbsenceType:    absence.TypeVacation,
		EmployeeNumber: "EMP00001",
	}
}

// ===== CREATE =====

func TestService_Create_Success(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _, notifier := newTestService(t)

	cmd := saveCmd(date(2024, time.July, 1), date(2024, time.July, 5))
	cmd.SubstituteEmployeeNumber = strPtr("EMP00002")

	created, err := svc.Create(ctx, cmd)

	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "u1", created.UserID)
	require.NotNil(t, created.SubstituteID)
	assert.Equal(t, "u2", *created.SubstituteID)
	assert.Equal(t, date(2024, time.June, 15), created.BookedDate)

	require.Len(t, notifier.diffs, 1)
	assert.Nil(t, notifier.diffs[0].Old)
	require.NotNil(t, notifier.diffs[0].New)
	assert.Equal(t, created.ID, notifier.diffs[0].New.ID)
}

func TestService_Create_AdjacentDayConflicts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	_, err := svc.Create(ctx, saveCmd(date(2024, time.July, 1), date(2024, time.July, 2)))
	require.NoError(t, err)

	// Shares July 2 with the stored absence
	_, err = svc.Create(ctx, saveCmd(date(2024, time.July, 2), date(2024, time.July, 3)))
	assert.ErrorIs(t, err, absence.ErrOverlappingAbsence)
}

func TestService_Create_ContainedRangeConflicts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	_, err := svc.Create(ctx, saveCmd(date(2024, time.July, 1), date(2024, time.July, 10)))
	require.NoError(t, err)

	// Fully inside the stored range, endpoints touch neither boundary
	_, err = svc.Create(ctx, saveCmd(date(2024, time.July, 3), date(2024, time.July, 5)))
	assert.ErrorIs(t, err, absence.ErrOverlappingAbsence)
}

func TestService_Create_OtherUserDoesNotConflict(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	_, err := svc.Create(ctx, saveCmd(date(2024, time.July, 1), date(2024, time.July, 5)))
	require.NoError(t, err)

	other := saveCmd(date(2024, time.July, 1), date(2024, time.July, 5))
	other.EmployeeNumber = "EMP00002"
	_, err = svc.Create(ctx, other)
	assert.NoError(t, err)
}

func TestService_Create_SelfSubstituteWinsOverDateRules(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	// Both rules are violated; the self-substitute check runs first
	cmd := saveCmd(date(2024, time.July, 5), date(2024, time.July, 1))
	cmd.SubstituteEmployeeNumber = strPtr("emp00001")

	_, err := svc.Create(ctx, cmd)
	assert.ErrorIs(t, err, absence.ErrSelfSubstitute)
}

func TestService_Create_StartAfterEnd(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	_, err := svc.Create(ctx, saveCmd(date(2024, time.July, 5), date(2024, time.July, 1)))
	assert.ErrorIs(t, err, absence.ErrStartAfterEnd)
}

func TestService_Create_PeriodLength(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	// July 1 + 30 days: accepted
	_, err := svc.Create(ctx, saveCmd(date(2024, time.July, 1), date(2024, time.July, 31)))
	assert.NoError(t, err)

	// September 1 + 31 days: rejected
	_, err = svc.Create(ctx, saveCmd(date(2024, time.September, 1), date(2024, time.October, 2)))
	assert.ErrorIs(t, err, absence.ErrPeriodTooLong)
}

func TestService_Create_WindowViolation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	// now is pinned to 2024-06-15; one year back is 2023-06-16
	_, err := svc.Create(ctx, saveCmd(date(2023, time.June, 10), date(2023, time.June, 12)))
	assert.ErrorIs(t, err, absence.ErrPeriodOutOfWindow)

	_, err = svc.Create(ctx, saveCmd(date(2025, time.June, 20), date(2025, time.June, 22)))
	assert.ErrorIs(t, err, absence.ErrPeriodOutOfWindow)

	// Exactly on the boundary: accepted
	_, err = svc.Create(ctx, saveCmd(date(2023, time.June, 16), date(2023, time.June, 18)))
	assert.NoError(t, err)
}

// ===== UPDATE =====

func TestService_Update_EmitsSnapshotDiff(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _, notifier := newTestService(t)

	cmd := saveCmd(date(2024, time.July, 1), date(2024, time.July, 5))
	cmd.SubstituteEmployeeNumber = strPtr("EMP00002")
	created, err := svc.Create(ctx, cmd)
	require.NoError(t, err)

	updateCmd := saveCmd(date(2024, time.August, 1), date(2024, time.August, 3))
	updated, err := svc.Update(ctx, created.ID, updateCmd)
	require.NoError(t, err)

	assert.Equal(t, date(2024, time.August, 1), updated.StartDate)
	assert.Nil(t, updated.SubstituteID)

	require.Len(t, notifier.diffs, 2)
	diff := notifier.diffs[1]
	require.NotNil(t, diff.Old)
	require.NotNil(t, diff.New)
	assert.Equal(t, date(2024, time.July, 1), diff.Old.StartDate)
	assert.Equal(t, date(2024, time.July, 5), diff.Old.EndDate)
	require.NotNil(t, diff.Old.SubstituteID)
	assert.Equal(t, "u2", *diff.Old.SubstituteID)
	assert.Equal(t, date(2024, time.August, 1), diff.New.StartDate)
	assert.Nil(t, diff.New.SubstituteID)
}

func TestService_Update_IgnoresItselfInOverlapCheck(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	created, err := svc.Create(ctx, saveCmd(date(2024, time.July, 1), date(2024, time.July, 5)))
	require.NoError(t, err)

	// Shifting inside its own range must not self-conflict
	_, err = svc.Update(ctx, created.ID, saveCmd(date(2024, time.July, 2), date(2024, time.July, 6)))
	assert.NoError(t, err)
}

func TestService_Update_WrongUserNotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	created, err := svc.Create(ctx, saveCmd(date(2024, time.July, 1), date(2024, time.July, 5)))
	require.NoError(t, err)

	cmd := saveCmd(date(2024, time.July, 1), date(2024, time.July, 5))
	cmd.EmployeeNumber = "EMP00002"
	_, err = svc.Update(ctx, created.ID, cmd)
	assert.ErrorIs(t, err, absence.ErrAbsenceNotFound)
}

// ===== DELETE =====

func TestService_Delete_EmitsOldDiff(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, repo, notifier := newTestService(t)

	created, err := svc.Create(ctx, saveCmd(date(2024, time.July, 1), date(2024, time.July, 5)))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID, "EMP00001"))

	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, absence.ErrAbsenceNotFound)

	require.Len(t, notifier.diffs, 2)
	diff := notifier.diffs[1]
	require.NotNil(t, diff.Old)
	assert.Nil(t, diff.New)
	assert.Equal(t, created.ID, diff.Old.ID)
}

func TestService_Delete_UnknownAbsence(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	err := svc.Delete(ctx, "missing", "EMP00001")
	assert.ErrorIs(t, err, absence.ErrAbsenceNotFound)
}

// ===== LIST =====

func TestService_ListByEmployeeNumber(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	_, err := svc.Create(ctx, saveCmd(date(2024, time.July, 1), date(2024, time.July, 5)))
	require.NoError(t, err)
	_, err = svc.Create(ctx, saveCmd(date(2024, time.August, 1), date(2024, time.August, 5)))
	require.NoError(t, err)

	absences, err := svc.ListByEmployeeNumber(ctx, "emp00001")
	require.NoError(t, err)
	assert.Len(t, absences, 2)
}
