package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AbhignaKuchukulla/Issueflow/internal/domain"
	"github.com/AbhignaKuchukulla/Issueflow/internal/service"
)

const seedUser = "seed"

var seedForce bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load sample tickets and comments",
	Long: `Load a small set of sample tickets, comments and links. The store is
left untouched when it already holds tickets unless --force is given.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().BoolVar(&seedForce, "force", false, "Seed even when tickets already exist")
}

type seedTicket struct {
	input    service.TicketInput
	comments []seedComment
}

type seedComment struct {
	author string
	text   string
}

func dueAt(value string) *time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return &t
}

var sampleTickets = []seedTicket{
	{
		input: service.TicketInput{
			Title:       "Fix login page responsiveness",
			Description: "The login page is not displaying correctly on mobile devices. Add proper media queries and test on various screen sizes.",
			Status:      domain.TicketStatusOpen,
			Priority:    domain.TicketPriorityHigh,
			Assignee:    "Alex",
			DueDate:     dueAt("2025-11-30T23:59:59Z"),
			Tags:        []string{"bug", "ui", "mobile"},
		},
		comments: []seedComment{
			{author: "Sam", text: "Tested on a small phone and the layout is broken. @Alex can you take a look?"},
			{author: "Alex", text: "Working on the media queries now."},
		},
	},
	{
		input: service.TicketInput{
			Title:       "Add password reset functionality",
			Description: "Users cannot reset their passwords. Implement email based reset with expiring tokens.",
			Status:      domain.TicketStatusInProgress,
			Priority:    domain.TicketPriorityUrgent,
			Assignee:    "Sam",
			DueDate:     dueAt("2025-11-28T23:59:59Z"),
			Tags:        []string{"feature", "auth"},
		},
		comments: []seedComment{
			{author: "Morgan", text: "What token expiration should we use?"},
			{author: "Sam", text: "One hour. Users can always request a new link."},
		},
	},
	{
		input: service.TicketInput{
			Title:       "Update dependencies to latest versions",
			Description: "Several packages have security updates available. Review and update all dependencies.",
			Status:      domain.TicketStatusReview,
			Priority:    domain.TicketPriorityMedium,
			Assignee:    "Jordan",
			Tags:        []string{"maintenance", "security"},
		},
	},
	{
		input: service.TicketInput{
			Title:       "Implement dark mode toggle",
			Description: "Add a dark theme option and persist the user preference.",
			Status:      domain.TicketStatusClosed,
			Priority:    domain.TicketPriorityLow,
			Assignee:    "Casey",
			DueDate:     dueAt("2025-11-22T23:59:59Z"),
			Tags:        []string{"feature", "ui"},
		},
	},
	{
		input: service.TicketInput{
			Title:       "Add file upload feature",
			Description: "Users should be able to attach files to tickets, with size limits and validation.",
			Status:      domain.TicketStatusOpen,
			Priority:    domain.TicketPriorityHigh,
			DueDate:     dueAt("2025-12-10T23:59:59Z"),
			Tags:        []string{"feature", "enhancement"},
		},
	},
	{
		input: service.TicketInput{
			Title:       "Fix memory leak in dashboard",
			Description: "The dashboard leaks memory on every refresh. Investigate and add proper cleanup.",
			Status:      domain.TicketStatusReview,
			Priority:    domain.TicketPriorityUrgent,
			Assignee:    "Alex",
			DueDate:     dueAt("2025-11-27T23:59:59Z"),
			Tags:        []string{"bug", "performance"},
		},
	},
}

func runSeed(cmd *cobra.Command, _ []string) error {
	rt, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.close()

	tickets := service.NewTicketService(rt.deps)
	if existing := tickets.List(cmd.Context()); len(existing) > 0 && !seedForce {
		rt.logger.Info("store already has tickets, skipping seed", zap.Int("tickets", len(existing)))
		return nil
	}

	created, comments, err := seed(cmd.Context(), tickets, service.NewCommentService(rt.deps), service.NewLinkService(rt.deps))
	if err != nil {
		return err
	}
	rt.logger.Info("store seeded",
		zap.String("backend", rt.store.BackendName()),
		zap.Int("tickets", created),
		zap.Int("comments", comments))
	return nil
}

func seed(ctx context.Context, tickets *service.TicketService, comments *service.CommentService, links *service.LinkService) (int, int, error) {
	ids := make([]string, 0, len(sampleTickets))
	commentCount := 0
	for _, sample := range sampleTickets {
		ticket, err := tickets.Create(ctx, sample.input, seedUser)
		if err != nil {
			return len(ids), commentCount, fmt.Errorf("seed ticket %q: %w", sample.input.Title, err)
		}
		ids = append(ids, ticket.ID)
		for _, c := range sample.comments {
			if _, err := comments.Add(ctx, ticket.ID, c.text, c.author); err != nil {
				return len(ids), commentCount, fmt.Errorf("seed comment: %w", err)
			}
			commentCount++
		}
	}

	// the dashboard leak blocks the login fix
	if _, err := links.Link(ctx, ids[5], ids[0], domain.RelationshipBlocks, seedUser); err != nil {
		return len(ids), commentCount, fmt.Errorf("seed link: %w", err)
	}
	return len(ids), commentCount, nil
}
