package absence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kostadin12/sis-api/internal/domain/absence"
	"github.com/kostadin12/sis-api/internal/domain/project"
	"github.com/kostadin12/sis-api/internal/domain/user"
)

// SubstituteResolver enforces the "same project team, not self"
// invariant. Membership is read from the store on every resolve; project
// assignments can change underneath us and must not be cached. A
// substitute accepted here stays assigned even if memberships later
// diverge.
type SubstituteResolver struct {
	user.UserRepository
	project.MembershipRepository
}

func NewSubstituteResolver(userRepository user.UserRepository, membershipRepository project.MembershipRepository) *SubstituteResolver {
	return &SubstituteResolver{
		UserRepository:       userRepository,
		MembershipRepository: membershipRepository,
	}
}

// Resolve returns the substitute user for the absentee, or nil when no
// candidate was supplied.
func (r *SubstituteResolver) Resolve(ctx context.Context, absentee user.User, substituteEmployeeNumber *string) (*user.User, error) {
	if substituteEmployeeNumber == nil {
		return nil, nil
	}

	if strings.EqualFold(absentee.EmployeeNumber, *substituteEmployeeNumber) {
		return nil, absence.ErrSelfSubstitute
	}

	projects, err := r.MembershipRepository.ProjectsOf(ctx, absentee.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get projects of user %s: %w", absentee.EmployeeNumber, err)
	}
	if len(projects) == 0 {
		return nil, absence.ErrNoProjects
	}

	substitute, err := r.UserRepository.GetByEmployeeNumber(ctx, *substituteEmployeeNumber)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, user.ErrSubstituteNotFound
		}
		return nil, fmt.Errorf("failed to get substitute by employee number: %w", err)
	}

	shared, err := r.MembershipRepository.SharesProject(ctx, absentee.ID, substitute.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check shared projects: %w", err)
	}
	if !shared {
		return nil, absence.ErrSubstituteNotInTeam
	}

	return &substitute, nil
}
