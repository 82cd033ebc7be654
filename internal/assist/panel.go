// Package assist drives the AI-assisted content-enhancement flow: it gathers
// title, description, and tag suggestions from the backend's AI endpoints,
// runs the draft through moderation, and hands the result to the user for
// approval before anything is published.
package assist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"trailblog/internal/api"
	"trailblog/internal/core/domain"
	"trailblog/internal/core/ports"
)

// ErrSkipped is returned when the user declines the enhanced draft.
var ErrSkipped = errors.New("draft skipped by user")

// ErrFlagged is returned when moderation rejects the draft content.
type ErrFlagged struct {
	Reason string
}

func (e *ErrFlagged) Error() string {
	return "content flagged by moderation: " + e.Reason
}

// Panel coordinates the backend AI endpoints with the approval UI.
type Panel struct {
	Client *api.Client
	UI     ports.Interaction
}

func NewPanel(client *api.Client, ui ports.Interaction) *Panel {
	return &Panel{Client: client, UI: ui}
}

// Suggest collects all suggestions for a draft in one pass.
func (p *Panel) Suggest(ctx context.Context, draft domain.Draft) (*domain.Suggestions, error) {
	titles, err := p.Client.SuggestTitle(ctx, draft.Content)
	if err != nil {
		return nil, fmt.Errorf("suggest title: %w", err)
	}

	title := draft.Title
	if title == "" && len(titles) > 0 {
		title = titles[0]
	}

	description, err := p.Client.GenerateDescription(ctx, title, draft.Content)
	if err != nil {
		return nil, fmt.Errorf("generate description: %w", err)
	}

	tags, err := p.Client.GenerateTags(ctx, title, draft.Content)
	if err != nil {
		return nil, fmt.Errorf("generate tags: %w", err)
	}

	return &domain.Suggestions{
		Titles:      titles,
		Description: description,
		Tags:        tags,
	}, nil
}

// Enhance moderates the draft, applies the backend's suggestions, and asks
// the user to approve the result. A regenerate answer retries the suggestion
// pass once with improved content; a skip returns ErrSkipped.
func (p *Panel) Enhance(ctx context.Context, draft domain.Draft) (domain.Draft, error) {
	verdict, err := p.Client.ModerateContent(ctx, draft.Content)
	if err != nil {
		return draft, fmt.Errorf("moderate content: %w", err)
	}
	if verdict.Flagged {
		return draft, &ErrFlagged{Reason: verdict.Reason}
	}

	enhanced, err := p.propose(ctx, draft)
	if err != nil {
		return draft, err
	}

	action, err := p.UI.Confirm(ctx, "Review enhanced draft", describe(enhanced))
	if err != nil {
		return draft, err
	}

	if action == ports.ActionRegenerate {
		improved, err := p.Client.ImproveContent(ctx, draft.Content)
		if err != nil {
			return draft, fmt.Errorf("improve content: %w", err)
		}
		retry := draft
		retry.Content = improved
		enhanced, err = p.propose(ctx, retry)
		if err != nil {
			return draft, err
		}
		action, err = p.UI.Confirm(ctx, "Review enhanced draft (take 2)", describe(enhanced))
		if err != nil {
			return draft, err
		}
	}

	if action != ports.ActionApprove {
		return draft, ErrSkipped
	}
	return enhanced, nil
}

func (p *Panel) propose(ctx context.Context, draft domain.Draft) (domain.Draft, error) {
	suggestions, err := p.Suggest(ctx, draft)
	if err != nil {
		return draft, err
	}

	enhanced := draft
	if enhanced.Title == "" && len(suggestions.Titles) > 0 {
		enhanced.Title = suggestions.Titles[0]
	}
	if enhanced.Description == "" {
		enhanced.Description = suggestions.Description
	}
	if enhanced.Tags == "" {
		enhanced.Tags = strings.Join(suggestions.Tags, ",")
	}
	return enhanced, nil
}

func describe(d domain.Draft) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", d.Title)
	if d.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", d.Description)
	}
	if d.Tags != "" {
		fmt.Fprintf(&b, "Tags: %s\n", d.Tags)
	}
	fmt.Fprintf(&b, "\n%s", d.Content)
	return b.String()
}
