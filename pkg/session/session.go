// Package session records one markdown file per AI-assistant session.
// The recorder is invoked standalone by a tool's lifecycle hook; it is
// never part of an install or uninstall run.
package session

import (
	"bytes"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"time"
	"unicode"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/aidots/aidots/pkg/errors"
	"github.com/aidots/aidots/pkg/logging"
	"github.com/aidots/aidots/pkg/types"
)

// TimestampLayout produces filenames that sort lexicographically in
// session order.
const TimestampLayout = "2006-01-02_15-04-05"

// maxSlugLen bounds the slug portion of a record filename.
const maxSlugLen = 48

// Entry holds the metadata recorded for one session. All free-text
// fields are optional.
type Entry struct {
	Tool         string
	Slug         string
	Prompt       string
	Plan         string
	FilesChanged []string
	Outcome      string
}

// frontMatter is the YAML header of a session record.
type frontMatter struct {
	Tool string `yaml:"tool"`
	Date string `yaml:"date"`
	Slug string `yaml:"slug"`
}

var recordTemplate = template.Must(template.New("record").Parse(`---
{{.FrontMatter}}---

# {{.Title}}

## Prompt

{{if .Prompt}}{{.Prompt}}{{else}}_not recorded_{{end}}

## Plan

{{if .Plan}}{{.Plan}}{{else}}_not recorded_{{end}}

## Files changed

{{if .Files}}{{range .Files}}- {{.}}
{{end}}{{else}}_none listed_
{{end}}
## Outcome

{{if .Outcome}}{{.Outcome}}{{else}}_not recorded_{{end}}
`))

// Recorder writes session records into a single directory, creating
// it on first use.
type Recorder struct {
	fs     types.FS
	dir    string
	now    func() time.Time
	logger zerolog.Logger
}

// NewRecorder creates a Recorder writing into dir.
func NewRecorder(filesystem types.FS, dir string) *Recorder {
	return &Recorder{
		fs:     filesystem,
		dir:    dir,
		now:    time.Now,
		logger: logging.GetLogger("session"),
	}
}

// WithClock overrides the recorder's clock, for deterministic tests.
func (r *Recorder) WithClock(now func() time.Time) *Recorder {
	r.now = now
	return r
}

// Record renders the entry into a new file named
// <timestamp>_<slug>.md and returns the file's path. A filename
// collision within the same second extends the name with a counter
// rather than overwriting the earlier record.
func (r *Recorder) Record(entry Entry) (string, error) {
	if entry.Tool == "" {
		return "", errors.New(errors.ErrInvalidInput, "session entry has no tool name")
	}

	if err := r.fs.MkdirAll(r.dir, 0755); err != nil {
		return "", errors.Wrapf(err, errors.ErrSessionDir, "failed to create session directory %s", r.dir)
	}

	now := r.now()
	slug := Slugify(entry.Slug)
	if slug == "" {
		slug = Slugify(entry.Tool)
	}

	name := r.recordName(now, slug)
	path := filepath.Join(r.dir, name)

	content, err := render(entry, now, slug)
	if err != nil {
		return "", err
	}

	if err := r.fs.WriteFile(path, content, 0644); err != nil {
		return "", errors.Wrapf(err, errors.ErrSessionWrite, "failed to write session record %s", path)
	}

	r.logger.Info().Str("tool", entry.Tool).Str("record", name).Msg("Session recorded")
	return path, nil
}

// List returns the names of all session records, sorted by name and
// therefore by session time. A missing directory yields an empty list.
func (r *Recorder) List() ([]string, error) {
	entries, err := r.fs.ReadDir(r.dir)
	if err != nil {
		return nil, nil
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Read returns the content of one session record by name.
func (r *Recorder) Read(name string) ([]byte, error) {
	data, err := r.fs.ReadFile(filepath.Join(r.dir, name))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileNotFound, "no session record %q", name)
	}
	return data, nil
}

// recordName builds an unused filename for the given second and slug.
func (r *Recorder) recordName(now time.Time, slug string) string {
	base := now.Format(TimestampLayout) + "_" + slug
	name := base + ".md"
	for n := 2; ; n++ {
		if _, err := r.fs.Lstat(filepath.Join(r.dir, name)); err != nil {
			return name
		}
		name = base + "-" + strconv.Itoa(n) + ".md"
	}
}

func render(entry Entry, now time.Time, slug string) ([]byte, error) {
	fm, err := yaml.Marshal(frontMatter{
		Tool: entry.Tool,
		Date: now.Format(time.RFC3339),
		Slug: slug,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode session front matter")
	}

	title := entry.Slug
	if title == "" {
		title = entry.Tool + " session"
	}

	var buf bytes.Buffer
	err = recordTemplate.Execute(&buf, struct {
		FrontMatter string
		Title       string
		Prompt      string
		Plan        string
		Files       []string
		Outcome     string
	}{
		FrontMatter: string(fm),
		Title:       title,
		Prompt:      entry.Prompt,
		Plan:        entry.Plan,
		Files:       entry.FilesChanged,
		Outcome:     entry.Outcome,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to render session record")
	}

	return buf.Bytes(), nil
}

// Slugify lowercases s and reduces it to hyphen-separated alphanumeric
// runs, bounded to a filename-friendly length.
func Slugify(s string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteRune('-')
			lastHyphen = true
		}
		if b.Len() >= maxSlugLen {
			break
		}
	}
	return strings.Trim(b.String(), "-")
}
