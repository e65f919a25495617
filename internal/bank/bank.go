package bank

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var bankFS embed.FS

// Entry is one authored question in the offline bank.
type Entry struct {
	ID            string   `yaml:"id"`
	Text          string   `yaml:"text"`
	Options       []string `yaml:"options"`
	CorrectOption string   `yaml:"correct"`
	Explanation   string   `yaml:"explanation"`
	Objective     string   `yaml:"objective"`
	Difficulty    int      `yaml:"difficulty"`
}

// bankFile is the on-disk shape of one subject file.
type bankFile struct {
	Subject   string  `yaml:"subject"`
	Questions []Entry `yaml:"questions"`
}

// Bank is the static local question corpus, loaded once at startup and
// immutable afterwards.
type Bank struct {
	bySubject map[string][]Entry
	subjects  []string
	total     int
}

// Load parses the embedded bank files.
func Load() (*Bank, error) {
	return loadFS(bankFS)
}

func loadFS(fsys fs.FS) (*Bank, error) {
	files, err := fs.Glob(fsys, "data/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob bank files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no bank files embedded")
	}

	b := &Bank{bySubject: make(map[string][]Entry)}

	for _, name := range files {
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}

		var bf bankFile
		if err := yaml.Unmarshal(raw, &bf); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}

		subject := strings.ToLower(strings.TrimSpace(bf.Subject))
		if subject == "" {
			return nil, fmt.Errorf("%s: missing subject", name)
		}

		for i, e := range bf.Questions {
			if err := validateEntry(e); err != nil {
				return nil, fmt.Errorf("%s: question %d (%s): %w", name, i+1, e.ID, err)
			}
		}

		b.bySubject[subject] = append(b.bySubject[subject], bf.Questions...)
		b.total += len(bf.Questions)
	}

	for s := range b.bySubject {
		b.subjects = append(b.subjects, s)
	}
	sort.Strings(b.subjects)

	return b, nil
}

func validateEntry(e Entry) error {
	if e.ID == "" {
		return fmt.Errorf("missing id")
	}
	if e.Text == "" {
		return fmt.Errorf("missing text")
	}
	if len(e.Options) != 4 {
		return fmt.Errorf("expected 4 options, got %d", len(e.Options))
	}
	switch e.CorrectOption {
	case "A", "B", "C", "D":
	default:
		return fmt.Errorf("correct must be A-D, got %q", e.CorrectOption)
	}
	return nil
}

// Subjects returns the subjects present in the bank, sorted.
func (b *Bank) Subjects() []string {
	return b.subjects
}

// Subject returns the entries for one subject (empty slice if unknown).
func (b *Bank) Subject(subject string) []Entry {
	return b.bySubject[strings.ToLower(strings.TrimSpace(subject))]
}

// All returns every entry across subjects, keyed by subject.
func (b *Bank) All() map[string][]Entry {
	return b.bySubject
}

// Size returns the total number of entries in the bank.
func (b *Bank) Size() int {
	return b.total
}
