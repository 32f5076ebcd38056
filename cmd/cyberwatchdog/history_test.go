package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/cyberwatchdog/internal/config"
	"github.com/nao1215/cyberwatchdog/internal/database"
	"github.com/nao1215/cyberwatchdog/internal/model"
)

// historyConfig writes a config file whose history lives in a temp dir.
func historyConfig(t *testing.T) (configPath string, cfg *config.Config) {
	t.Helper()

	t.Setenv(config.TokenEnvVar, "")

	dir := t.TempDir()
	cfg = config.NewConfig()
	cfg.DBDir = filepath.Join(dir, "data")
	configPath = filepath.Join(dir, ".cyberwatchdog")
	if err := os.WriteFile(configPath, []byte("history:\n  dir: "+cfg.DBDir+"\n"), 0600); err != nil {
		t.Fatal(err)
	}
	return configPath, cfg
}

// seedHistory stores two results and returns the config path.
func seedHistory(t *testing.T) string {
	t.Helper()

	configPath, cfg := historyConfig(t)
	db, err := database.Open(cfg.DBPath(), database.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	for _, r := range []struct {
		target  string
		verdict model.Verdict
	}{
		{"http://a.com", model.VerdictSafe},
		{"http://b.tk", model.VerdictUnsafe},
	} {
		res := &model.AssessmentResult{Verdict: r.verdict, English: "en", Nepali: "ne", Details: []model.Detail{}}
		if _, err := db.Save(context.Background(), r.target, res); err != nil {
			t.Fatal(err)
		}
	}
	return configPath
}

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "none.env")))
	err := root.Execute()
	return out.String(), err
}

func TestHistoryCmd(t *testing.T) {
	t.Run("no database yet", func(t *testing.T) {
		configPath, _ := historyConfig(t)

		out, err := runRoot(t, "history", "-c", configPath)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out, "No history yet") {
			t.Errorf("output = %q", out)
		}
	})

	t.Run("lists newest first", func(t *testing.T) {
		configPath := seedHistory(t)

		out, err := runRoot(t, "history", "-c", configPath)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out, "VERDICT") {
			t.Errorf("missing header: %q", out)
		}
		if strings.Index(out, "http://b.tk") > strings.Index(out, "http://a.com") {
			t.Errorf("expected newest first:\n%s", out)
		}
	})

	t.Run("json by target", func(t *testing.T) {
		configPath := seedHistory(t)

		out, err := runRoot(t, "history", "-c", configPath, "--json", "http://a.com")
		if err != nil {
			t.Fatal(err)
		}
		var entries []historyEntry
		if err := json.Unmarshal([]byte(out), &entries); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, out)
		}
		if len(entries) != 1 || entries[0].Result.Verdict != model.VerdictSafe {
			t.Errorf("entries = %+v", entries)
		}
	})

	t.Run("stats", func(t *testing.T) {
		configPath := seedHistory(t)

		out, err := runRoot(t, "history", "-c", configPath, "--stats")
		if err != nil {
			t.Fatal(err)
		}
		for _, want := range []string{"unsafe:  1", "safe:    1", "total:   2"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("show by id", func(t *testing.T) {
		configPath := seedHistory(t)

		out, err := runRoot(t, "history", "-c", configPath, "--id", "2")
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out, "#2 http://b.tk") || !strings.Contains(out, "VERDICT: UNSAFE") {
			t.Errorf("output = %q", out)
		}
	})
}
