package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestInitializeWritesJSONToFile(t *testing.T) {
	defer InitializeDefault()

	path := filepath.Join(t.TempDir(), "payout.log")
	if err := Initialize(Config{Level: "info", Format: "json", Output: path}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	Debug("hidden")
	Named("batch").Info("row not computed", Row(3, "SKU-003")...)
	Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	got := string(data)
	for _, want := range []string{`"msg":"row not computed"`, `"logger":"batch"`, `"row":3`, `"sku":"SKU-003"`} {
		if !strings.Contains(got, want) {
			t.Errorf("log missing %s:\n%s", want, got)
		}
	}
	if strings.Contains(got, "hidden") {
		t.Errorf("debug entry written at info level:\n%s", got)
	}
}

func TestRowOmitsEmptySKU(t *testing.T) {
	fields := Row(7, "")
	if len(fields) != 1 || fields[0].Key != "row" {
		t.Fatalf("Row(7, \"\") = %v, want only the row field", fields)
	}
}

func TestSetLoggerNil(t *testing.T) {
	defer InitializeDefault()
	SetLogger(nil)
	if Logger == nil || Sugar == nil {
		t.Fatal("SetLogger(nil) left a nil logger")
	}
	Logger.Info("dropped", zap.Int("n", 1))
}
