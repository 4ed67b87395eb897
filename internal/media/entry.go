package media

import (
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// Entry is a single movie or TV show in the collection.
type Entry struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Type        Type      `json:"type"`
	Director    string    `json:"director,omitempty"`
	Budget      string    `json:"budget,omitempty"`
	Location    string    `json:"location,omitempty"`
	Duration    string    `json:"duration,omitempty"`
	Year        string    `json:"year,omitempty"`
	Poster      string    `json:"poster,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// User is the account the session belongs to.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// DisplayName prefers the user's name and falls back to the email address.
func (u User) DisplayName() string {
	if name := strings.TrimSpace(u.Name); name != "" {
		return name
	}
	return strings.TrimSpace(u.Email)
}

// wireEntry lists every field spelling the backend has been observed to send.
type wireEntry struct {
	ID          flexString `json:"id"`
	UnderID     flexString `json:"_id"`
	Title       string     `json:"title"`
	Type        string     `json:"type"`
	Director    string     `json:"director"`
	Budget      flexString `json:"budget"`
	Location    string     `json:"location"`
	Duration    flexString `json:"duration"`
	DurationMin flexString `json:"durationMin"`
	Year        flexString `json:"year"`
	Poster      string     `json:"poster"`
	PosterPath  string     `json:"posterPath"`
	PosterURL   string     `json:"posterUrl"`
	Description string     `json:"description"`
	Details     string     `json:"details"`
	CreatedAt   string     `json:"createdAt"`
}

// UnmarshalJSON accepts the backend's legacy aliases and normalizes the type.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var w wireEntry
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	parsedType, _ := ParseType(w.Type)
	*e = Entry{
		ID:          firstNonEmpty(string(w.ID), string(w.UnderID)),
		Title:       strings.TrimSpace(w.Title),
		Type:        parsedType,
		Director:    strings.TrimSpace(w.Director),
		Budget:      strings.TrimSpace(string(w.Budget)),
		Location:    strings.TrimSpace(w.Location),
		Duration:    firstNonEmpty(string(w.Duration), string(w.DurationMin)),
		Year:        strings.TrimSpace(string(w.Year)),
		Poster:      firstNonEmpty(w.Poster, w.PosterPath, w.PosterURL),
		Description: firstNonEmpty(w.Description, w.Details),
		CreatedAt:   parseTimestamp(w.CreatedAt),
	}
	return nil
}

// flexString decodes a JSON string or number into its textual form.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == "" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(strconv.FormatFloat(n, 'f', -1, 64))
	return nil
}

func parseTimestamp(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC()
		}
	}
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC()
	}
	return time.Time{}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
