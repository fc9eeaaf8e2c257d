package test

import (
	"fmt"
	"sync/atomic"
	"time"
)

// uniqueCounter provides unique IDs for test clients within a single run
var uniqueCounter uint64

// uniqueName appends a counter to base so each scenario's client is
// distinguishable in verbose output.
func uniqueName(base string) string {
	return fmt.Sprintf("%s-%d", base, atomic.AddUint64(&uniqueCounter, 1))
}

// Verbose controls whether detailed logging is shown during tests
var Verbose = false

// TestResult represents the result of a test
type TestResult struct {
	Name    string
	Passed  bool
	Message string
}

func pass(name, format string, args ...any) TestResult {
	return TestResult{Name: name, Passed: true, Message: fmt.Sprintf(format, args...)}
}

func fail(name, format string, args ...any) TestResult {
	return TestResult{Name: name, Passed: false, Message: fmt.Sprintf(format, args...)}
}

// logAction logs a test action when verbose mode is enabled
func logAction(testName, action string) {
	if Verbose {
		fmt.Printf("  [%s] %s\n", testName, action)
	}
}

// logResult logs an expected vs actual result when verbose mode is enabled
func logResult(testName string, success bool, detail string) {
	if Verbose {
		status := "OK"
		if !success {
			status = "FAIL"
		}
		fmt.Printf("  [%s] %s: %s\n", testName, status, detail)
	}
}

// RunAllTests runs all integration tests against a running draft server's
// line port. Every rejected request counts toward the server's lockout for
// this host, so the whole suite sends fewer rejected requests than the
// default rate_limit.max_attempts.
func RunAllTests(serverAddr string) []TestResult {
	scenarios := []func(string) TestResult{
		// Group 1: Connection
		TestBasicConnection,
		TestInitialState,
		TestIndependentSessions,

		// Group 2: Drafting
		TestJobSelection,
		TestLevelUpOffer,
		TestSourceOffers,
		TestPickOnce,
		TestPassiveAdvance,

		// Group 3: Validation
		TestInvalidRequests,
	}

	results := make([]TestResult, 0, len(scenarios))
	for _, scenario := range scenarios {
		results = append(results, scenario(serverAddr))
		// Let the server release the closed connections before the next
		// scenario counts against connections.max_per_ip.
		time.Sleep(settleDelay)
	}
	return results
}

const settleDelay = 200 * time.Millisecond

// PrintResults prints a summary of test results
func PrintResults(results []TestResult) {
	passed := 0
	failed := 0

	fmt.Println("============================================================")
	fmt.Println("Integration Test Results")
	fmt.Println("============================================================")
	fmt.Println()

	for _, r := range results {
		status := "PASS"
		if !r.Passed {
			status = "FAIL"
			failed++
		} else {
			passed++
		}
		fmt.Printf("[%s] %s: %s\n", status, r.Name, r.Message)
	}

	fmt.Println()
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Total: %d | Passed: %d | Failed: %d\n", len(results), passed, failed)
	fmt.Println("------------------------------------------------------------")
}
