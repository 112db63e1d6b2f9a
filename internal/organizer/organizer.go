package organizer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"carillon/internal/broadcast"
	"carillon/internal/config"
	"carillon/internal/interval"
	"carillon/internal/textutil"
)

// Per-category subfolders under the base directory.
const (
	dirFirstService   = "1st Service"
	dirSundaySchool   = "Sunday School"
	dirSecondService  = "2nd Service"
	dirSundayNight    = "Sunday Night"
	dirWednesdayNight = "Wednesday Night"
	dirHoliday        = "Holiday Services"
	dirMemorial       = "Memorial Services"
	dirWedding        = "Weddings"
	dirSpecial        = "Special Services"
	dirUncategorized  = "Uncategorized"
)

// Destination is a resolved output location for one recording.
type Destination struct {
	Dir      string
	Filename string
}

// Path joins the directory and filename.
func (d Destination) Path() string {
	return filepath.Join(d.Dir, d.Filename)
}

// AnnualCounter reports how many recordings of the recurring annual event
// have already been filed for a year. The ledger implements this; a zero
// result falls back to scanning the destination directory, covering ledgers
// that predate the counter.
type AnnualCounter interface {
	AnnualCount(year int) int
}

// Resolver maps a classification plus broadcast metadata to a destination
// path. Resolution is deterministic apart from the annual-event numbering
// and the optional holiday collision suffix, which consult the counter and
// the directory contents respectively.
type Resolver struct {
	baseDir          string
	ext              string
	holidayOverwrite bool
	annualLabel      string
	counter          AnnualCounter
}

// NewResolver builds a resolver from configuration. counter may be nil, in
// which case annual numbering relies on directory scanning alone.
func NewResolver(cfg *config.Config, counter AnnualCounter) *Resolver {
	label := strings.TrimSpace(cfg.Classify.AnnualEventKeyword)
	if label == "" {
		label = "annual event"
	}
	return &Resolver{
		baseDir:          cfg.Paths.BaseDir,
		ext:              cfg.Download.Extension,
		holidayOverwrite: cfg.Organizer.HolidayOverwrite,
		annualLabel:      cases.Title(language.English).String(label),
		counter:          counter,
	}
}

// Resolve computes the destination for a classified broadcast. The decision
// never errors for regular categories; only directory listing failures in
// the annual and holiday collision paths surface an error.
func (r *Resolver) Resolve(cls broadcast.Class, local interval.Interval, name string) (Destination, error) {
	date := local.Start.Format("2006-01-02")
	year := local.Start.Year()

	switch cls.Category {
	case broadcast.CategoryFirstService:
		return r.dated(dirFirstService, date), nil
	case broadcast.CategorySundaySchool:
		return r.dated(dirSundaySchool, date), nil
	case broadcast.CategorySecondService:
		return r.dated(dirSecondService, date), nil
	case broadcast.CategorySundayNight:
		return r.dated(dirSundayNight, date), nil
	case broadcast.CategoryWednesdayNight:
		return r.dated(dirWednesdayNight, date), nil
	case broadcast.CategoryMemorial:
		return r.named(dirMemorial, textutil.SanitizeFileName(name)), nil
	case broadcast.CategoryWedding:
		return r.named(dirWedding, textutil.SanitizeFileName(date+" - "+name)), nil
	case broadcast.CategorySpecialService:
		return r.named(dirSpecial, textutil.SanitizeFileName(date+" - "+name)), nil
	case broadcast.CategoryHoliday:
		return r.holiday(year, cls.Label)
	case broadcast.CategoryChristmasAnnual:
		return r.annual(year)
	default:
		return r.named(dirUncategorized, textutil.SanitizeFileName(date+" - "+name)), nil
	}
}

func (r *Resolver) dated(subdir, date string) Destination {
	return Destination{Dir: filepath.Join(r.baseDir, subdir), Filename: date + r.ext}
}

func (r *Resolver) named(subdir, base string) Destination {
	if base == "" {
		base = "untitled"
	}
	return Destination{Dir: filepath.Join(r.baseDir, subdir), Filename: base + r.ext}
}

func (r *Resolver) holiday(year int, label string) (Destination, error) {
	dir := filepath.Join(r.baseDir, dirHoliday)
	base := fmt.Sprintf("%d %s", year, label)
	dest := Destination{Dir: dir, Filename: base + r.ext}
	if r.holidayOverwrite {
		return dest, nil
	}

	// Collision handling: keep the first file, suffix later same-year
	// broadcasts with the next free number.
	if _, err := os.Stat(dest.Path()); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return dest, nil
		}
		return Destination{}, fmt.Errorf("stat %s: %w", dest.Path(), err)
	}
	for n := 2; ; n++ {
		candidate := Destination{Dir: dir, Filename: fmt.Sprintf("%s %d%s", base, n, r.ext)}
		_, err := os.Stat(candidate.Path())
		if errors.Is(err, os.ErrNotExist) {
			return candidate, nil
		}
		if err != nil {
			return Destination{}, fmt.Errorf("stat %s: %w", candidate.Path(), err)
		}
	}
}

func (r *Resolver) annual(year int) (Destination, error) {
	dir := filepath.Join(r.baseDir, r.annualLabel)
	base := fmt.Sprintf("%d %s", year, r.annualLabel)

	count := 0
	if r.counter != nil {
		count = r.counter.AnnualCount(year)
	}
	if count == 0 {
		// First occurrence is keyed on the base file; a stale numbered file
		// alone never shifts the sequence.
		first := Destination{Dir: dir, Filename: base + r.ext}
		if _, err := os.Stat(first.Path()); errors.Is(err, os.ErrNotExist) {
			return first, nil
		} else if err != nil {
			return Destination{}, fmt.Errorf("stat %s: %w", first.Path(), err)
		}
		scanned, err := r.countOnDisk(dir, base)
		if err != nil {
			return Destination{}, err
		}
		count = scanned
	}

	return Destination{Dir: dir, Filename: fmt.Sprintf("%s Service %d%s", base, count+1, r.ext)}, nil
}

func (r *Resolver) countOnDisk(dir, base string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("list %s: %w", dir, err)
	}
	count := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, base) && strings.EqualFold(filepath.Ext(name), r.ext) {
			count++
		}
	}
	return count, nil
}
