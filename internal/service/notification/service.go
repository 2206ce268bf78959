package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kostadin12/sis-api/internal/domain/absence"
	"github.com/kostadin12/sis-api/internal/domain/notification"
	"github.com/kostadin12/sis-api/internal/domain/project"
	"github.com/kostadin12/sis-api/internal/domain/subscription"
	"github.com/kostadin12/sis-api/internal/domain/user"
)

// Service turns lifecycle diffs into delivered mail: it gathers the
// recipient context (absentee, substitutes, team, subscribers), runs the
// pure planner, and hands each entry to the mailer. Failures are logged
// and swallowed; notification must never fail the operation behind it.
type Service struct {
	user.UserRepository
	project.MembershipRepository
	subscription.SubscriptionRepository
	mailer notification.Mailer
}

func NewService(
	userRepository user.UserRepository,
	membershipRepository project.MembershipRepository,
	subscriptionRepository subscription.SubscriptionRepository,
	mailer notification.Mailer,
) *Service {
	return &Service{
		UserRepository:         userRepository,
		MembershipRepository:   membershipRepository,
		SubscriptionRepository: subscriptionRepository,
		mailer:                 mailer,
	}
}

// AbsenceChanged plans and sends the notifications for one diff.
func (s *Service) AbsenceChanged(ctx context.Context, diff absence.Diff) {
	input, err := s.buildPlanInput(ctx, diff)
	if err != nil {
		slog.Error("Failed to gather notification context", "error", err)
		return
	}

	entries := Plan(input)
	for _, entry := range entries {
		if err := s.mailer.Send(ctx, entry.Recipients, entry.Template, entry.Variables); err != nil {
			slog.Error("Failed to send notification",
				"template", entry.Template,
				"recipient_count", len(entry.Recipients),
				"error", err,
			)
			continue
		}
		slog.Info("Notification sent", "template", entry.Template, "recipient_count", len(entry.Recipients))
	}
}

func (s *Service) buildPlanInput(ctx context.Context, diff absence.Diff) (PlanInput, error) {
	ref := diff.New
	if ref == nil {
		ref = diff.Old
	}
	if ref == nil {
		return PlanInput{}, fmt.Errorf("empty diff")
	}

	absentee, err := s.UserRepository.GetByID(ctx, ref.UserID)
	if err != nil {
		return PlanInput{}, fmt.Errorf("failed to get absentee: %w", err)
	}

	input := PlanInput{
		Diff:     diff,
		Absentee: absentee,
	}

	if diff.Old != nil && diff.Old.SubstituteID != nil {
		sub, err := s.UserRepository.GetByID(ctx, *diff.Old.SubstituteID)
		if err != nil {
			return PlanInput{}, fmt.Errorf("failed to get old substitute: %w", err)
		}
		input.OldSubstitute = &sub
	}
	if diff.New != nil && diff.New.SubstituteID != nil {
		sub, err := s.UserRepository.GetByID(ctx, *diff.New.SubstituteID)
		if err != nil {
			return PlanInput{}, fmt.Errorf("failed to get new substitute: %w", err)
		}
		input.NewSubstitute = &sub
	}

	projects, err := s.MembershipRepository.ProjectsOf(ctx, absentee.ID)
	if err != nil {
		return PlanInput{}, fmt.Errorf("failed to get projects of absentee: %w", err)
	}
	input.HasProjects = len(projects) > 0

	if input.HasProjects {
		memberIDs := make(map[string]struct{})
		var ids []string
		for _, projectID := range projects {
			members, err := s.MembershipRepository.MembersOf(ctx, projectID)
			if err != nil {
				return PlanInput{}, fmt.Errorf("failed to get members of project %s: %w", projectID, err)
			}
			for _, id := range members {
				if _, ok := memberIDs[id]; ok {
					continue
				}
				memberIDs[id] = struct{}{}
				ids = append(ids, id)
			}
		}

		input.TeamMembers, err = s.UserRepository.GetByIDs(ctx, ids)
		if err != nil {
			return PlanInput{}, fmt.Errorf("failed to load team members: %w", err)
		}
	}

	subscribers, err := s.SubscriptionRepository.SubscribersOf(ctx, absentee.ID)
	if err != nil {
		return PlanInput{}, fmt.Errorf("failed to get subscribers: %w", err)
	}
	input.Subscribers = make(map[string]struct{}, len(subscribers))
	for _, id := range subscribers {
		input.Subscribers[id] = struct{}{}
	}

	return input, nil
}
