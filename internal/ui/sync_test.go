package ui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"aawo/internal/db"
)

func TestSyncStatus(t *testing.T) {
	cases := []struct {
		name       string
		connected  string
		lastImport string
		want       string
	}{
		{"never synced", "", "", "never synced"},
		{"connected without stamp", "true", "", "connected"},
		{"connected with stamp", "true", "2025-03-10T09:30:00Z", "connected, last sync "},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := syncStatus(tc.connected, tc.lastImport)
			if !strings.HasPrefix(got, tc.want) {
				t.Errorf("syncStatus(%q, %q) = %q, want prefix %q",
					tc.connected, tc.lastImport, got, tc.want)
			}
		})
	}
}

func TestRecordSyncSuccess(t *testing.T) {
	store, err := db.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("db.New failed: %v", err)
	}
	defer store.Close()

	app := &App{store: store}
	ctx := context.Background()

	if err := app.recordSyncSuccess(ctx); err != nil {
		t.Fatalf("recordSyncSuccess failed: %v", err)
	}

	connected, err := store.GetSetting(ctx, db.SettingRemoteConnected)
	if err != nil {
		t.Fatalf("GetSetting failed: %v", err)
	}
	if connected != "true" {
		t.Errorf("remote_connected = %q, want true", connected)
	}

	stamp, err := store.GetSetting(ctx, db.SettingLastImportAt)
	if err != nil {
		t.Fatalf("GetSetting failed: %v", err)
	}
	if stamp == "" {
		t.Error("last_import_at not recorded")
	}
}
