//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "pos-api"
	ConsumerName = "pos-terminal"

	StateCashierExists = "cashier account pact-cashier exists"
	StateSessionActive = "product 101 exists and a cashier session is active"
	StateOrderMissing  = "no order with id 999 and a cashier session is active"
)

const (
	ExistingProductID int64 = 101
	MissingOrderID    int64 = 999

	CashierUsername = "pact-cashier"
	CashierPassword = "pact-pass-123"
	SessionToken    = "pact-session-token"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the terminal consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleCheckoutPayload provides stable test data for checkout interactions.
func ExampleCheckoutPayload() map[string]any {
	return map[string]any{
		"items": []map[string]any{
			{"productId": ExistingProductID, "quantity": 2},
		},
		"paymentMethod": "cash",
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
