package test

import (
	"fmt"
	"slices"

	"github.com/lawnchairsociety/draftforge/internal/draft"
	"github.com/lawnchairsociety/draftforge/internal/server"
	"github.com/lawnchairsociety/draftforge/internal/testclient"
)

// =============================================================================
// Group 2: Drafting
// =============================================================================

// pickFirstJob requests a job milestone and picks its first card.
func pickFirstJob(client *testclient.TestClient) (string, error) {
	offer, err := client.Do(server.Request{Action: server.ActionJobs})
	if err != nil {
		return "", err
	}
	if offer.Type != server.TypeOffer || len(offer.Cards) == 0 {
		return "", fmt.Errorf("expected a job offer, got %+v", offer)
	}
	picked, err := client.Do(server.Request{Action: server.ActionPick, Index: 0})
	if err != nil {
		return "", err
	}
	if picked.Type != server.TypePicked || !picked.Applied {
		return "", fmt.Errorf("job pick not applied: %+v", picked)
	}
	return offer.Cards[0].Job, nil
}

// TestJobSelection tests the first job milestone offer and pick
func TestJobSelection(serverAddr string) TestResult {
	const testName = "Job Selection"

	client, err := testclient.NewTestClient(uniqueName("jobs"), serverAddr)
	if err != nil {
		return fail(testName, "Connection failed: %v", err)
	}
	defer client.Close()

	logAction(testName, "Requesting job offer")
	offer, err := client.Do(server.Request{Action: server.ActionJobs})
	if err != nil {
		return fail(testName, "%v", err)
	}
	for _, card := range offer.Cards {
		if card.Category != draft.CategoryJobSelection {
			return fail(testName, "First milestone offered %s", card)
		}
	}
	logResult(testName, len(offer.Cards) > 0, fmt.Sprintf("Offered %d jobs", len(offer.Cards)))
	if len(offer.Cards) == 0 {
		return fail(testName, "Empty job offer")
	}

	job := offer.Cards[0].Job
	logAction(testName, "Picking "+job)
	if _, err := client.Do(server.Request{Action: server.ActionPick, Index: 0}); err != nil {
		return fail(testName, "%v", err)
	}

	state, err := client.Do(server.Request{Action: server.ActionState})
	if err != nil || state.State == nil {
		return fail(testName, "State failed: %v", err)
	}
	if !slices.Contains(state.State.Jobs, job) {
		return fail(testName, "Jobs = %v, want %s", state.State.Jobs, job)
	}
	if len(state.State.Weapons) == 0 {
		return fail(testName, "Job %s granted no affinity weapon", job)
	}
	return pass(testName, "Picked %s with weapon %s", job, state.State.Weapons[0].ID)
}

// TestLevelUpOffer tests that a level up offer has distinct cards
func TestLevelUpOffer(serverAddr string) TestResult {
	const testName = "Level Up Offer"

	client, err := testclient.NewTestClient(uniqueName("levelup"), serverAddr)
	if err != nil {
		return fail(testName, "Connection failed: %v", err)
	}
	defer client.Close()

	if _, err := pickFirstJob(client); err != nil {
		return fail(testName, "%v", err)
	}

	logAction(testName, "Setting level 5")
	level, err := client.Do(server.Request{Action: server.ActionLevel, Level: 5})
	if err != nil {
		return fail(testName, "%v", err)
	}
	if level.Type != server.TypeLevel || level.Level != 5 {
		return fail(testName, "Level response %+v", level)
	}

	offer, err := client.Do(server.Request{Action: server.ActionOffer, Count: 3})
	if err != nil {
		return fail(testName, "%v", err)
	}
	if len(offer.Cards) != 3 {
		return fail(testName, "Offered %d cards, want 3", len(offer.Cards))
	}
	seen := make(map[string]bool)
	for _, card := range offer.Cards {
		if seen[card.Title] {
			return fail(testName, "Duplicate card %q in one offer", card.Title)
		}
		seen[card.Title] = true
	}
	logResult(testName, true, fmt.Sprintf("Offer %v", offer.Cards))
	return pass(testName, "Three distinct cards at level 5")
}

// TestSourceOffers tests chest and elite offers and an unknown source
func TestSourceOffers(serverAddr string) TestResult {
	const testName = "Source Offers"

	client, err := testclient.NewTestClient(uniqueName("sources"), serverAddr)
	if err != nil {
		return fail(testName, "Connection failed: %v", err)
	}
	defer client.Close()

	if _, err := pickFirstJob(client); err != nil {
		return fail(testName, "%v", err)
	}

	for _, source := range []string{"chest", "elite"} {
		logAction(testName, "Requesting "+source+" offer")
		resp, err := client.Do(server.Request{Action: server.ActionOffer, Source: source})
		if err != nil {
			return fail(testName, "%v", err)
		}
		if resp.Type != server.TypeOffer || len(resp.Cards) != server.DefaultOfferCount {
			return fail(testName, "%s offer = %+v", source, resp)
		}
	}

	resp, err := client.Do(server.Request{Action: server.ActionOffer, Source: "shrine"})
	if err != nil {
		return fail(testName, "%v", err)
	}
	if resp.Type != server.TypeError {
		return fail(testName, "Unknown source accepted: %+v", resp)
	}
	return pass(testName, "Chest and elite offers served, unknown source rejected")
}

// TestPickOnce tests that an offer can only be picked from once
func TestPickOnce(serverAddr string) TestResult {
	const testName = "Pick Once"

	client, err := testclient.NewTestClient(uniqueName("pickonce"), serverAddr)
	if err != nil {
		return fail(testName, "Connection failed: %v", err)
	}
	defer client.Close()

	if _, err := pickFirstJob(client); err != nil {
		return fail(testName, "%v", err)
	}

	logAction(testName, "Picking the same job offer again")
	resp, err := client.Do(server.Request{Action: server.ActionPick, Index: 0})
	if err != nil {
		return fail(testName, "%v", err)
	}
	logResult(testName, resp.Type == server.TypeError, resp.Error)
	if resp.Type != server.TypeError {
		return fail(testName, "Second pick accepted: %+v", resp)
	}
	return pass(testName, "Second pick rejected")
}

// TestPassiveAdvance tests double down and mastery on a single job
func TestPassiveAdvance(serverAddr string) TestResult {
	const testName = "Passive Advance"

	client, err := testclient.NewTestClient(uniqueName("passive"), serverAddr)
	if err != nil {
		return fail(testName, "Connection failed: %v", err)
	}
	defer client.Close()

	job, err := pickFirstJob(client)
	if err != nil {
		return fail(testName, "%v", err)
	}

	for tier, action := range []string{server.ActionDoubleDown, server.ActionMastery} {
		logAction(testName, "Sending "+action)
		resp, err := client.Do(server.Request{Action: action})
		if err != nil {
			return fail(testName, "%v", err)
		}
		if resp.Type != server.TypeAdvanced || !slices.Contains(resp.Advanced, job) {
			return fail(testName, "%s advanced %v, want %s", action, resp.Advanced, job)
		}
		state, err := client.Do(server.Request{Action: server.ActionState})
		if err != nil || state.State == nil {
			return fail(testName, "State failed: %v", err)
		}
		if got := state.State.PassiveTiers[job]; got != tier+1 {
			return fail(testName, "%s tier = %d after %s, want %d", job, got, action, tier+1)
		}
	}

	resp, err := client.Do(server.Request{Action: server.ActionMastery})
	if err != nil {
		return fail(testName, "%v", err)
	}
	if len(resp.Advanced) != 0 {
		return fail(testName, "Capped passive advanced again: %v", resp.Advanced)
	}
	return pass(testName, "%s reached tier 2", job)
}

// =============================================================================
// Group 3: Validation
// =============================================================================

// TestInvalidRequests tests that bad requests get errors without closing
// the session
func TestInvalidRequests(serverAddr string) TestResult {
	const testName = "Invalid Requests"

	client, err := testclient.NewTestClient(uniqueName("invalid"), serverAddr)
	if err != nil {
		return fail(testName, "Connection failed: %v", err)
	}
	defer client.Close()

	tests := []struct {
		name string
		send func() error
		want string
	}{
		{"malformed", func() error { return client.SendRaw("{not json") }, "malformed"},
		{"unknown action", func() error { return client.Send(server.Request{Action: "dance"}) }, "unknown action"},
		{"oversized offer", func() error {
			return client.Send(server.Request{Action: server.ActionOffer, Count: server.MaxOfferCount + 1})
		}, "count must be"},
	}

	for _, tt := range tests {
		logAction(testName, "Sending "+tt.name)
		client.ClearResponses()
		if err := tt.send(); err != nil {
			return fail(testName, "%s: %v", tt.name, err)
		}
		resp, ok := client.WaitForError(tt.want, testclient.DefaultTimeout)
		logResult(testName, ok, resp.Error)
		if !ok {
			return fail(testName, "%s: no %q error, got %v", tt.name, tt.want, client.GetResponses())
		}
	}

	resp, err := client.Do(server.Request{Action: server.ActionState})
	if err != nil || resp.Type != server.TypeState {
		return fail(testName, "Session unusable after errors: %+v %v", resp, err)
	}
	return pass(testName, "Rejected %d bad requests, session still usable", len(tests))
}
