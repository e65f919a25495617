package bank

import (
	"strings"
	"testing"
	"testing/fstest"
)

func TestLoad_EmbeddedBank(t *testing.T) {
	b, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := []string{"biology", "chemistry", "math", "physics"}
	got := b.Subjects()
	if len(got) != len(want) {
		t.Fatalf("Subjects() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Subjects()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if b.Size() == 0 {
		t.Error("bank is empty")
	}
	if len(b.Subject("math")) == 0 {
		t.Error("no math entries")
	}
}

func TestBank_SubjectLookupNormalizes(t *testing.T) {
	b, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(b.Subject(" Math ")) != len(b.Subject("math")) {
		t.Error("subject lookup should normalize case and whitespace")
	}
	if got := b.Subject("astrology"); len(got) != 0 {
		t.Errorf("unknown subject returned %d entries", len(got))
	}
}

func TestLoad_UniqueIDs(t *testing.T) {
	b, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	seen := map[string]string{}
	for subject, entries := range b.All() {
		for _, e := range entries {
			if prev, ok := seen[e.ID]; ok {
				t.Errorf("id %q appears in both %s and %s", e.ID, prev, subject)
			}
			seen[e.ID] = subject
		}
	}
}

func bankYAML(body string) fstest.MapFS {
	return fstest.MapFS{
		"data/test.yaml": {Data: []byte(body)},
	}
}

func TestLoadFS_Errors(t *testing.T) {
	valid := `subject: math
questions:
  - id: q1
    text: "What is 1 + 1?"
    options: ["1", "2", "3", "4"]
    correct: B
    explanation: "Basic addition."
    difficulty: 1
`

	cases := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"missing subject", strings.Replace(valid, "subject: math\n", "", 1), "missing subject"},
		{"missing id", strings.Replace(valid, "id: q1", `id: ""`, 1), "missing id"},
		{"missing text", strings.Replace(valid, `text: "What is 1 + 1?"`, `text: ""`, 1), "missing text"},
		{"wrong option count", strings.Replace(valid, `options: ["1", "2", "3", "4"]`, `options: ["1", "2"]`, 1), "4 options"},
		{"bad correct letter", strings.Replace(valid, "correct: B", "correct: E", 1), "correct must be A-D"},
		{"unparseable yaml", "subject: [unclosed", "parse"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := loadFS(bankYAML(tc.yaml))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("err = %q, want it to mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestLoadFS_Valid(t *testing.T) {
	b, err := loadFS(bankYAML(`subject: Geography
questions:
  - id: geo-1
    text: "Which is the longest river in the world by most measurements?"
    options: ["Amazon", "Nile", "Yangtze", "Mississippi"]
    correct: B
    explanation: "The Nile is conventionally listed as the longest river."
    objective: world rivers
    difficulty: 2
`))
	if err != nil {
		t.Fatalf("loadFS: %v", err)
	}

	if b.Size() != 1 {
		t.Errorf("Size() = %d, want 1", b.Size())
	}
	entries := b.Subject("geography")
	if len(entries) != 1 {
		t.Fatalf("Subject(geography) = %d entries, want 1", len(entries))
	}
	if entries[0].ID != "geo-1" {
		t.Errorf("entry id = %q, want geo-1", entries[0].ID)
	}
}

func TestLoadFS_NoFiles(t *testing.T) {
	if _, err := loadFS(fstest.MapFS{}); err == nil {
		t.Fatal("expected an error for an empty bank")
	}
}
