package media

import (
	"regexp"
	"strconv"
	"strings"
)

// Draft is the payload sent to the backend when creating or updating an entry.
// Optional fields are omitted when empty so an update never blanks a value the
// user left untouched.
type Draft struct {
	Title       string `json:"title" validate:"required,max=200"`
	Type        Type   `json:"type" validate:"required,oneof=MOVIE TV_SHOW"`
	Director    string `json:"director,omitempty" validate:"max=200"`
	Budget      string `json:"budget,omitempty" validate:"max=100"`
	Location    string `json:"location,omitempty" validate:"max=200"`
	Duration    string `json:"durationMin,omitempty" validate:"max=100"`
	Year        int    `json:"year,omitempty" validate:"omitempty,min=1870,max=2100"`
	PosterURL   string `json:"posterPath,omitempty" validate:"omitempty,http_url"`
	Description string `json:"details,omitempty" validate:"max=2000"`
}

// Normalize trims every field and defaults the type to movie.
func (d *Draft) Normalize() {
	d.Title = strings.TrimSpace(d.Title)
	d.Director = strings.TrimSpace(d.Director)
	d.Budget = strings.TrimSpace(d.Budget)
	d.Location = strings.TrimSpace(d.Location)
	d.Duration = strings.TrimSpace(d.Duration)
	d.PosterURL = strings.TrimSpace(d.PosterURL)
	d.Description = strings.TrimSpace(d.Description)
	if d.Type == "" {
		d.Type = TypeMovie
	} else if parsed, ok := ParseType(string(d.Type)); ok {
		d.Type = parsed
	}
}

// Validate normalizes the draft and checks it against the field rules.
func (d *Draft) Validate() error {
	d.Normalize()
	return validateStruct(d)
}

// DraftFromEntry pre-fills a draft with an existing entry's values. Remote
// poster URLs carry over; locally uploaded poster paths do not, because the
// backend keeps the existing upload when no new poster is sent.
func DraftFromEntry(e Entry) Draft {
	d := Draft{
		Title:       e.Title,
		Type:        e.Type,
		Director:    e.Director,
		Budget:      e.Budget,
		Location:    e.Location,
		Duration:    e.Duration,
		Description: e.Description,
	}
	if year, ok := ParseYear(e.Year); ok {
		d.Year = year
	}
	if strings.HasPrefix(e.Poster, "http") {
		d.PosterURL = e.Poster
	}
	d.Normalize()
	return d
}

var yearPattern = regexp.MustCompile(`\b(1[89]\d{2}|2[01]\d{2})\b`)

// ParseYear extracts the first four-digit year from values such as "2010",
// "2008-2013", or "2016-present".
func ParseYear(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	match := yearPattern.FindString(raw)
	if match == "" {
		return 0, false
	}
	year, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return year, true
}
