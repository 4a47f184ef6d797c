package corpus

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/r3d91ll/spindle/pkg/errors"
)

// writeFile creates a file with parent directories under dir.
func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

// TestLoadSingleExport tests parsing and cleaning of one export file.
func TestLoadSingleExport(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "chat_1/message_1.json", `{
		"title": "Alice and Bob",
		"participants": [{"name": "Alice"}, {"name": "Bob"}],
		"messages": [
			{"sender_name": "Alice", "content": "Hello, World!"},
			{"sender_name": "Bob", "content": "Hi there."},
			{"sender_name": "Alice"},
			{"sender_name": "Bob", "content": ""}
		]
	}`)

	got, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := []Message{
		{SenderName: "alice", Content: "hello world"},
		{SenderName: "bob", Content: "hi there"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
}

// TestLoadOrder tests that messages across files and directories come back
// in lexical walk order.
func TestLoadOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b/message_1.json", `{"messages": [{"sender_name": "B", "content": "third"}]}`)
	writeFile(t, dir, "a/message_1.json", `{"messages": [{"sender_name": "A", "content": "first"}]}`)
	writeFile(t, dir, "a/message_2.json", `{"messages": [{"sender_name": "A", "content": "second"}]}`)
	writeFile(t, dir, "b/notes.txt", "not an export")

	got, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	var contents []string
	for _, m := range got {
		contents = append(contents, m.Content)
	}
	want := []string{"first", "second", "third"}
	if !reflect.DeepEqual(contents, want) {
		t.Errorf("message order = %v, want %v", contents, want)
	}
}

// TestLoadParseFailureIsFatal tests that one broken export aborts the whole
// load with a CORPUS_PARSE_FAILED error.
func TestLoadParseFailureIsFatal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a/message_1.json", `{"messages": [{"sender_name": "A", "content": "fine"}]}`)
	writeFile(t, dir, "b/message_1.json", `{not json`)

	_, err := Load(dir)
	if err == nil {
		t.Fatal("expected error for broken export")
	}

	var perr *errors.PipelineError
	if !stderrors.As(err, &perr) {
		t.Fatalf("expected *errors.PipelineError, got %T", err)
	}
	if perr.Code != errors.ErrCorpusParseFailed {
		t.Errorf("error code = %q, want %q", perr.Code, errors.ErrCorpusParseFailed)
	}
}

// TestLoadCleaningFailureIsFatal tests that unfixable message text aborts
// the load.
func TestLoadCleaningFailureIsFatal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "chat/message_1.json", `{"messages": [{"sender_name": "A", "content": "日本語"}]}`)

	_, err := Load(dir)
	if err == nil {
		t.Fatal("expected encoding error")
	}

	var perr *errors.PipelineError
	if !stderrors.As(err, &perr) {
		t.Fatalf("expected *errors.PipelineError, got %T", err)
	}
	if perr.Category != errors.CategoryEncoding {
		t.Errorf("error category = %q, want %q", perr.Category, errors.CategoryEncoding)
	}
}

// TestLoadEmptyTree tests that a tree with no exports yields an empty corpus.
func TestLoadEmptyTree(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "readme.txt", "no exports here")

	got, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Load() = %+v, want empty", got)
	}
}

// TestLoadWithProgress tests that the report callback sees every export file.
func TestLoadWithProgress(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a/message_1.json", `{"messages": []}`)
	writeFile(t, dir, "b/message_1.json", `{"messages": []}`)

	var seen []string
	var totals []int
	_, err := LoadWithProgress(dir, func(path string, index, total int) {
		seen = append(seen, filepath.Base(filepath.Dir(path)))
		totals = append(totals, total)
	})
	if err != nil {
		t.Fatalf("LoadWithProgress: %v", err)
	}

	if !reflect.DeepEqual(seen, []string{"a", "b"}) {
		t.Errorf("reported files = %v, want [a b]", seen)
	}
	for _, total := range totals {
		if total != 2 {
			t.Errorf("reported total = %d, want 2", total)
		}
	}
}

// TestMessageValidate tests the message validation rules.
func TestMessageValidate(t *testing.T) {
	tests := []struct {
		name      string
		message   Message
		wantField string
	}{
		{"valid message", Message{SenderName: "alice", Content: "hi"}, ""},
		{"empty content is valid", Message{SenderName: "alice", Content: ""}, ""},
		{"missing sender", Message{SenderName: "", Content: "hi"}, "sender_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.message.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() expected error")
			}
			if err.Field != tt.wantField {
				t.Errorf("Validate() field = %q, want %q", err.Field, tt.wantField)
			}
		})
	}
}
