package assist_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"trailblog/internal/api"
	"trailblog/internal/assist"
	"trailblog/internal/core/domain"
	"trailblog/internal/core/ports"
)

// scriptedUI answers Confirm calls from a fixed list of actions.
type scriptedUI struct {
	actions []ports.UserAction
	calls   int
	bodies  []string
}

func (ui *scriptedUI) Confirm(ctx context.Context, title, body string) (ports.UserAction, error) {
	ui.bodies = append(ui.bodies, body)
	if ui.calls >= len(ui.actions) {
		return ports.ActionSkip, errors.New("no scripted action left")
	}
	action := ui.actions[ui.calls]
	ui.calls++
	return action, nil
}

func aiBackend(t *testing.T, flagged bool) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/ai/suggest-title", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string][]string{"titles": {"Seven Days in Patagonia"}})
	})
	mux.HandleFunc("/ai/generate-description", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"description": "A windswept trek."})
	})
	mux.HandleFunc("/ai/generate-tags", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string][]string{"tags": {"patagonia", "hiking"}})
	})
	mux.HandleFunc("/ai/improve-content", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Content string `json:"content"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(map[string]string{"improved_content": req.Content + " (polished)"})
	})
	mux.HandleFunc("/ai/moderate-content", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.Moderation{Flagged: flagged, Reason: "spam"})
	})
	return mux
}

func newPanel(t *testing.T, flagged bool, ui ports.Interaction) *assist.Panel {
	t.Helper()
	server := httptest.NewServer(aiBackend(t, flagged))
	t.Cleanup(server.Close)
	client, err := api.New(server.URL, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	return assist.NewPanel(client, ui)
}

func TestEnhanceApproved(t *testing.T) {
	ui := &scriptedUI{actions: []ports.UserAction{ports.ActionApprove}}
	panel := newPanel(t, false, ui)

	draft := domain.Draft{Content: "We walked the W circuit."}
	enhanced, err := panel.Enhance(context.Background(), draft)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if enhanced.Title != "Seven Days in Patagonia" {
		t.Errorf("Expected suggested title, got %q", enhanced.Title)
	}
	if enhanced.Description != "A windswept trek." {
		t.Errorf("Expected generated description, got %q", enhanced.Description)
	}
	if enhanced.Tags != "patagonia,hiking" {
		t.Errorf("Expected joined tags, got %q", enhanced.Tags)
	}
	if enhanced.Content != draft.Content {
		t.Errorf("Expected content untouched on approve, got %q", enhanced.Content)
	}
	if ui.calls != 1 {
		t.Errorf("Expected a single confirmation, got %d", ui.calls)
	}
}

func TestEnhanceKeepsUserFields(t *testing.T) {
	ui := &scriptedUI{actions: []ports.UserAction{ports.ActionApprove}}
	panel := newPanel(t, false, ui)

	draft := domain.Draft{
		Title:   "My Own Title",
		Content: "Content.",
		Tags:    "custom",
	}
	enhanced, err := panel.Enhance(context.Background(), draft)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if enhanced.Title != "My Own Title" {
		t.Errorf("Expected user title kept, got %q", enhanced.Title)
	}
	if enhanced.Tags != "custom" {
		t.Errorf("Expected user tags kept, got %q", enhanced.Tags)
	}
}

func TestEnhanceSkipped(t *testing.T) {
	ui := &scriptedUI{actions: []ports.UserAction{ports.ActionSkip}}
	panel := newPanel(t, false, ui)

	_, err := panel.Enhance(context.Background(), domain.Draft{Content: "meh"})
	if !errors.Is(err, assist.ErrSkipped) {
		t.Fatalf("Expected ErrSkipped, got %v", err)
	}
}

func TestEnhanceFlaggedByModeration(t *testing.T) {
	ui := &scriptedUI{actions: []ports.UserAction{ports.ActionApprove}}
	panel := newPanel(t, true, ui)

	_, err := panel.Enhance(context.Background(), domain.Draft{Content: "buy cheap followers"})
	var flagged *assist.ErrFlagged
	if !errors.As(err, &flagged) {
		t.Fatalf("Expected ErrFlagged, got %v", err)
	}
	if flagged.Reason != "spam" {
		t.Errorf("Expected reason from moderation, got %q", flagged.Reason)
	}
	if ui.calls != 0 {
		t.Error("Expected no confirmation for flagged content")
	}
}

func TestEnhanceRegenerateRetriesOnce(t *testing.T) {
	ui := &scriptedUI{actions: []ports.UserAction{ports.ActionRegenerate, ports.ActionApprove}}
	panel := newPanel(t, false, ui)

	enhanced, err := panel.Enhance(context.Background(), domain.Draft{Content: "Rough notes."})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if ui.calls != 2 {
		t.Fatalf("Expected two confirmations, got %d", ui.calls)
	}
	if enhanced.Content != "Rough notes. (polished)" {
		t.Errorf("Expected improved content after regenerate, got %q", enhanced.Content)
	}
}

func TestSuggestCollectsEverything(t *testing.T) {
	panel := newPanel(t, false, &scriptedUI{})

	s, err := panel.Suggest(context.Background(), domain.Draft{Content: "Glaciers everywhere."})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(s.Titles) != 1 || s.Titles[0] != "Seven Days in Patagonia" {
		t.Errorf("Unexpected titles: %+v", s.Titles)
	}
	if s.Description == "" || len(s.Tags) != 2 {
		t.Errorf("Expected description and tags, got %+v", s)
	}
}
