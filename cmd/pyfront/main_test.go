package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// run executes the CLI with a settings file holding cfg.
func run(t *testing.T, cfg, stdin string, args ...string) (string, string, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".pyfront.yaml")
	if err := os.WriteFile(path, []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", path}, args...))
	err := cmd.ExecuteContext(t.Context())
	return out.String(), errOut.String(), err
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name    string
		cfg     string
		stdin   string
		args    []string
		want    string
		wantErr string
	}{
		{
			name:  "sexp from stdin",
			stdin: "if x:\n    y\n",
			args:  []string{"parse"},
			want:  "(module (if_statement condition: (identifier) body: (expression_statement (identifier))))\n",
		},
		{
			name:  "format from settings",
			cfg:   "format: json\n",
			stdin: "x\n",
			args:  []string{"parse"},
			want:  `"kind": "module"`,
		},
		{
			name:  "flag overrides settings",
			cfg:   "format: json\n",
			stdin: "x\n",
			args:  []string{"parse", "-f", "yaml"},
			want:  "kind: module",
		},
		{
			name:    "unknown format",
			stdin:   "x\n",
			args:    []string{"parse", "-f", "jsn"},
			wantErr: "did you mean json?",
		},
		{
			name:    "syntax errors fail",
			stdin:   "x = = 1\n",
			args:    []string{"parse"},
			want:    "(ERROR)",
			wantErr: "1 of 1 files have syntax errors",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := run(t, tt.cfg, tt.stdin, tt.args...)
			if tt.wantErr == "" && err != nil {
				t.Fatalf("error = %v", err)
			}
			if tt.wantErr != "" && (err == nil || !strings.Contains(err.Error(), tt.wantErr)) {
				t.Fatalf("error = %v, want it to contain %q", err, tt.wantErr)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output %q does not contain %q", out, tt.want)
			}
		})
	}
}

func TestParseCommandDiagnostics(t *testing.T) {
	_, errOut, err := run(t, "", "print('x')\ny = = 2\n", "parse", "--ambiguities")
	if err == nil {
		t.Fatalf("expected an error for the broken line")
	}
	if !strings.Contains(errOut, "-:2:5: SyntaxError") {
		t.Errorf("stderr = %q, want the diagnostic position", errOut)
	}
	if !strings.Contains(errOut, "declared ambiguity") {
		t.Errorf("stderr = %q, want the print ambiguity", errOut)
	}
}

func TestParseCommandDirectory(t *testing.T) {
	dir := t.TempDir()
	for name, src := range map[string]string{"a.py": "a\n", "sub/b.py": "b\n", "c.txt": "c\n"} {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(src), 0644); err != nil {
			t.Fatal(err)
		}
	}
	out, _, err := run(t, "", "", "parse", dir)
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	if got := strings.Count(out, "(module"); got != 2 {
		t.Errorf("parsed %d files, want 2:\n%s", got, out)
	}
}

func TestTokensCommand(t *testing.T) {
	out, _, err := run(t, "", "x = 0x10  # c\n", "tokens", "--values", "--comments")
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	for _, want := range []string{
		"1:1\tidentifier\t\"x\"\t-",
		"1:5\tinteger\t\"0x10\"\thex",
		"# comments",
		"# values",
		"1:5\t*big.Int\t16",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestGrammarCommands(t *testing.T) {
	out, _, err := run(t, "", "", "grammar", "check")
	if err != nil {
		t.Fatalf("grammar check error = %v", err)
	}
	if !strings.HasPrefix(out, "python: ") {
		t.Errorf("grammar check output = %q", out)
	}

	out, _, err = run(t, "", "", "grammar", "show", "not_operator")
	if err != nil {
		t.Fatalf("grammar show error = %v", err)
	}
	if !strings.Contains(out, "not_operator -> ") {
		t.Errorf("grammar show output = %q", out)
	}

	_, _, err = run(t, "", "", "grammar", "show", "if_stmt")
	if err == nil || !strings.Contains(err.Error(), "did you mean") {
		t.Errorf("grammar show of an unknown rule error = %v", err)
	}

	out, _, err = run(t, "", "", "grammar", "kinds")
	if err != nil || !strings.Contains(out, "module\n") {
		t.Errorf("grammar kinds = %q, %v", out, err)
	}
}
