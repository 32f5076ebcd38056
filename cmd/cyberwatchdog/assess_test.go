package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/cyberwatchdog/internal/config"
	"github.com/nao1215/cyberwatchdog/internal/database"
	"github.com/nao1215/cyberwatchdog/internal/model"
	"github.com/nao1215/cyberwatchdog/internal/pipeline"
)

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"example.com", "http://example.com"},
		{"  example.com  ", "http://example.com"},
		{"https://example.com", "https://example.com"},
		{"http://example.com", "http://example.com"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := normalizeURL(tt.in); got != tt.want {
			t.Errorf("normalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestReadListFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "urls.txt")
	content := "# phishing candidates\nhttp://a.com\n\n  b.tk  \n# done\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	urls, err := readListFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(urls) != 2 || urls[0] != "http://a.com" || urls[1] != "b.tk" {
		t.Errorf("readListFile() = %q", urls)
	}

	if _, err := readListFile(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestReadTextFileDropsInvalidUTF8(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "mail.txt")
	if err := os.WriteFile(path, []byte("pass\xffword"), 0600); err != nil {
		t.Fatal(err)
	}
	text, err := readTextFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if text != "password" {
		t.Errorf("readTextFile() = %q, want %q", text, "password")
	}
}

func TestCollectInputs(t *testing.T) {
	t.Parallel()

	t.Run("targets become URLs", func(t *testing.T) {
		t.Parallel()
		cfg := config.NewConfig()
		cfg.Targets = []string{"example.com", "https://b.org"}
		inputs, err := collectInputs(cfg)
		if err != nil {
			t.Fatal(err)
		}
		want := []pipeline.Input{{URL: "http://example.com"}, {URL: "https://b.org"}}
		if len(inputs) != 2 || inputs[0] != want[0] || inputs[1] != want[1] {
			t.Errorf("collectInputs() = %+v", inputs)
		}
	})

	t.Run("text is raw", func(t *testing.T) {
		t.Parallel()
		cfg := config.NewConfig()
		cfg.Text = "http-looking text is still raw"
		inputs, err := collectInputs(cfg)
		if err != nil {
			t.Fatal(err)
		}
		if len(inputs) != 1 || inputs[0].IsURL() {
			t.Errorf("collectInputs() = %+v", inputs)
		}
	})
}

func TestRunAssess(t *testing.T) {
	t.Parallel()

	t.Run("single url as json", func(t *testing.T) {
		t.Parallel()

		srv := newPageServer(t, benignPage)
		cfg := testConfig(t)
		cfg.Targets = []string{srv.URL}
		cfg.JSONReport = true

		var out bytes.Buffer
		results, err := runAssess(context.Background(), cfg, quietLogger(), &out)
		if err != nil {
			t.Fatalf("runAssess() error = %v", err)
		}
		if len(results) != 1 {
			t.Fatalf("len(results) = %d", len(results))
		}

		var got model.AssessmentResult
		if err := json.Unmarshal(out.Bytes(), &got); err != nil {
			t.Fatalf("output is not a JSON object: %v\n%s", err, out.String())
		}
		if got.Verdict != model.VerdictSafe {
			t.Errorf("verdict = %v, want safe", got.Verdict)
		}
		if got.Meta.Title != "Hello" {
			t.Errorf("title = %q", got.Meta.Title)
		}
		if !got.HasDetail(model.CodeClassifierError) {
			t.Error("disabled classifier should be recorded in details")
		}
	})

	t.Run("raw text with credential words", func(t *testing.T) {
		t.Parallel()

		cfg := testConfig(t)
		cfg.Text = "Please confirm your password and card number"

		var out bytes.Buffer
		results, err := runAssess(context.Background(), cfg, quietLogger(), &out)
		if err != nil {
			t.Fatal(err)
		}
		if !results[0].HasDetail(model.CodeCredentialStrings) {
			t.Errorf("details = %v", results[0].DetailCodes())
		}
		if !strings.Contains(out.String(), "VERDICT:") {
			t.Errorf("text report expected:\n%s", out.String())
		}
	})

	t.Run("list with save and markdown file", func(t *testing.T) {
		t.Parallel()

		srv := newPageServer(t, benignPage)
		dir := t.TempDir()
		list := filepath.Join(dir, "urls.txt")
		if err := os.WriteFile(list, []byte(srv.URL+"\nnot a url\n"), 0600); err != nil {
			t.Fatal(err)
		}

		cfg := testConfig(t)
		cfg.ListFile = list
		cfg.MarkdownReport = true
		cfg.ReportFile = filepath.Join(dir, "out", "report.md")
		cfg.SaveToDB = true

		var out bytes.Buffer
		results, err := runAssess(context.Background(), cfg, quietLogger(), &out)
		if err != nil {
			t.Fatal(err)
		}
		if len(results) != 2 {
			t.Fatalf("len(results) = %d", len(results))
		}
		if results[1].Verdict != model.VerdictInvalid {
			t.Errorf("second verdict = %v, want invalid", results[1].Verdict)
		}
		if !strings.Contains(out.String(), "Report written to") {
			t.Errorf("stdout = %q", out.String())
		}

		md, err := os.ReadFile(cfg.ReportFile)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(md), "```mermaid") {
			t.Error("batch markdown report should include the verdict chart")
		}

		db, err := database.Open(cfg.DBPath(), database.Options{})
		if err != nil {
			t.Fatal(err)
		}
		defer db.Close()
		records, err := db.List(context.Background(), 10)
		if err != nil {
			t.Fatal(err)
		}
		if len(records) != 2 {
			t.Errorf("saved %d records, want 2", len(records))
		}
	})

	t.Run("empty list file", func(t *testing.T) {
		t.Parallel()

		list := filepath.Join(t.TempDir(), "urls.txt")
		if err := os.WriteFile(list, []byte("# nothing\n"), 0600); err != nil {
			t.Fatal(err)
		}
		cfg := testConfig(t)
		cfg.ListFile = list
		if _, err := runAssess(context.Background(), cfg, quietLogger(), &bytes.Buffer{}); err == nil {
			t.Error("expected error for empty list")
		}
	})
}

func TestAssessCmdTargetErrors(t *testing.T) {
	t.Setenv(config.TokenEnvVar, "")

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"no target", []string{"assess"}, config.ErrNoTarget},
		{"conflicting targets", []string{"assess", "--text", "hi", "example.com"}, config.ErrConflictingTargets},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := NewRootCmd()
			root.SetOut(&bytes.Buffer{})
			root.SetErr(&bytes.Buffer{})
			root.SetArgs(append(tt.args, "--env-file", filepath.Join(t.TempDir(), "none.env")))
			if err := root.Execute(); !errors.Is(err, tt.want) {
				t.Errorf("Execute() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestAssessCmdFailOnUnsafe(t *testing.T) {
	t.Setenv(config.TokenEnvVar, "")

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{
		"assess", "--fail-on-unsafe",
		"--env-file", filepath.Join(t.TempDir(), "none.env"),
		"--text", `<script>eval(atob("x"))</script> enter your password and otp <iframe src="data:text/html;base64,AA">`,
	})
	if err := root.Execute(); !errors.Is(err, errUnsafeFound) {
		t.Errorf("Execute() error = %v, want errUnsafeFound\n%s", err, out.String())
	}
}
