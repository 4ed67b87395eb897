package media

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Type classifies an entry as a movie or a TV show.
type Type string

const (
	TypeMovie  Type = "MOVIE"
	TypeTVShow Type = "TV_SHOW"
)

// ParseType maps the spellings used by the backend, the web client, and CLI
// flags onto a Type. Unknown values are reported with ok=false.
func ParseType(raw string) (Type, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.NewReplacer("_", " ", "-", " ").Replace(key)
	key = strings.Join(strings.Fields(key), " ")
	switch key {
	case "movie", "movies", "film":
		return TypeMovie, true
	case "tv", "tv show", "tv shows", "tvshow", "show", "series":
		return TypeTVShow, true
	default:
		return Type(strings.TrimSpace(raw)), false
	}
}

// Label returns the human-readable name of the type.
func (t Type) Label() string {
	switch t {
	case TypeMovie:
		return "Movie"
	case TypeTVShow:
		return "TV Show"
	case "":
		return ""
	default:
		words := strings.ToLower(strings.ReplaceAll(string(t), "_", " "))
		return cases.Title(language.Und).String(words)
	}
}

// IsMovie reports whether the type is a movie.
func (t Type) IsMovie() bool { return t == TypeMovie }

// Matches reports whether the type satisfies a dashboard type filter such as
// "movie" or "tv". The comparison is a case-insensitive substring match over
// both the raw value and its label, so "tv" matches TV_SHOW and "TV Show".
func (t Type) Matches(filter string) bool {
	filter = strings.ToLower(strings.TrimSpace(filter))
	if filter == "" || filter == "all" {
		return true
	}
	return strings.Contains(strings.ToLower(string(t)), filter) ||
		strings.Contains(strings.ToLower(t.Label()), filter)
}
