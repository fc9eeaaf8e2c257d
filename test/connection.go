package test

import (
	"fmt"
	"slices"
	"sync"

	"github.com/lawnchairsociety/draftforge/internal/server"
	"github.com/lawnchairsociety/draftforge/internal/testclient"
)

// =============================================================================
// Group 1: Connection
// =============================================================================

// TestBasicConnection tests that a client connects and receives a welcome
func TestBasicConnection(serverAddr string) TestResult {
	const testName = "Basic Connection"

	name := uniqueName("connect")
	logAction(testName, fmt.Sprintf("Connecting as '%s'...", name))
	client, err := testclient.NewTestClient(name, serverAddr)
	if err != nil {
		return fail(testName, "Failed to connect: %v", err)
	}
	defer client.Close()

	logResult(testName, true, fmt.Sprintf("Welcome with seed %d", client.Seed))
	return pass(testName, "Connected with seed %d", client.Seed)
}

// TestInitialState tests that a new session starts at level 1 with nothing owned
func TestInitialState(serverAddr string) TestResult {
	const testName = "Initial State"

	client, err := testclient.NewTestClient(uniqueName("state"), serverAddr)
	if err != nil {
		return fail(testName, "Connection failed: %v", err)
	}
	defer client.Close()

	logAction(testName, "Requesting state")
	resp, err := client.Do(server.Request{Action: server.ActionState})
	if err != nil {
		return fail(testName, "%v", err)
	}
	if resp.Type != server.TypeState || resp.State == nil {
		return fail(testName, "Expected a state response, got %+v", resp)
	}

	snap := resp.State
	logResult(testName, snap.Player.Level == 1, fmt.Sprintf("Level %d", snap.Player.Level))
	if snap.Player.Level != 1 {
		return fail(testName, "Level = %d, want 1", snap.Player.Level)
	}
	if len(snap.Jobs) != 0 || len(snap.Weapons) != 0 {
		return fail(testName, "New session owns jobs %v and weapons %v", snap.Jobs, snap.Weapons)
	}
	return pass(testName, "Fresh session at level 1")
}

// TestIndependentSessions tests that two connections draft independently
func TestIndependentSessions(serverAddr string) TestResult {
	const testName = "Independent Sessions"

	clients := make([]*testclient.TestClient, 2)
	for i := range clients {
		c, err := testclient.NewTestClient(uniqueName("parallel"), serverAddr)
		if err != nil {
			return fail(testName, "Client %d failed to connect: %v", i+1, err)
		}
		defer c.Close()
		clients[i] = c
	}

	logAction(testName, "First client picks a job")
	job, err := pickFirstJob(clients[0])
	if err != nil {
		return fail(testName, "%v", err)
	}

	logAction(testName, "Both clients level up concurrently")
	var wg sync.WaitGroup
	errs := make([]error, len(clients))
	for i, c := range clients {
		wg.Add(1)
		go func(i int, c *testclient.TestClient) {
			defer wg.Done()
			_, errs[i] = c.Do(server.Request{Action: server.ActionLevel, Level: 4 + i})
		}(i, c)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			return fail(testName, "Client %d level: %v", i+1, err)
		}
	}

	states := make([]*server.Response, len(clients))
	for i, c := range clients {
		resp, err := c.Do(server.Request{Action: server.ActionState})
		if err != nil || resp.State == nil {
			return fail(testName, "Client %d state: %v", i+1, err)
		}
		states[i] = &resp
	}

	if !slices.Contains(states[0].State.Jobs, job) {
		return fail(testName, "First client lost its job %s", job)
	}
	if len(states[1].State.Jobs) != 0 {
		return fail(testName, "Second client sees jobs %v", states[1].State.Jobs)
	}
	if states[0].State.Player.Level != 4 || states[1].State.Player.Level != 5 {
		return fail(testName, "Levels = %d and %d, want 4 and 5",
			states[0].State.Player.Level, states[1].State.Player.Level)
	}
	return pass(testName, "Sessions kept separate state")
}
