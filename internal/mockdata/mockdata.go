// Package mockdata builds a demo catalogue for offline use of the dashboard.
package mockdata

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"movieflix/internal/media"
)

// DefaultCount is the catalogue size used when none is requested.
const DefaultCount = 50

const createdWindow = 365 * 24 * time.Hour

type template struct {
	title, director, budget, location, duration, year, poster, description string
}

var movies = []template{
	{"Inception", "Christopher Nolan", "$160M", "Los Angeles, Paris, Tokyo", "148 min", "2010", "https://images.unsplash.com/photo-1548095115-45697e222a58?w=400", "A thief who steals corporate secrets through dream-sharing technology."},
	{"The Dark Knight", "Christopher Nolan", "$185M", "Chicago, London", "152 min", "2008", "https://images.unsplash.com/photo-1509281373149-e957c6296406?w=400", "Batman faces the Joker, a criminal mastermind wreaking havoc on Gotham."},
	{"Interstellar", "Christopher Nolan", "$165M", "Alberta, Iceland", "169 min", "2014", "https://images.unsplash.com/photo-1446776811953-b23d57bd21aa?w=400", "A team of explorers travel through a wormhole in space."},
	{"The Shawshank Redemption", "Frank Darabont", "$25M", "Ohio", "142 min", "1994", "https://images.unsplash.com/photo-1485846234645-a62644f84728?w=400", "Two imprisoned men bond over years, finding redemption."},
	{"Pulp Fiction", "Quentin Tarantino", "$8M", "Los Angeles", "154 min", "1994", "https://images.unsplash.com/photo-1489599849927-2ee91cede3ba?w=400", "Various interconnected stories of criminals in Los Angeles."},
	{"The Godfather", "Francis Ford Coppola", "$6M", "New York, Sicily", "175 min", "1972", "https://images.unsplash.com/photo-1478720568477-152d9b164e26?w=400", "The aging patriarch of an organized crime dynasty transfers control."},
	{"Fight Club", "David Fincher", "$63M", "Los Angeles", "139 min", "1999", "https://images.unsplash.com/photo-1534447677768-be436bb09401?w=400", "An insomniac office worker forms an underground fight club."},
	{"Forrest Gump", "Robert Zemeckis", "$55M", "South Carolina", "142 min", "1994", "https://images.unsplash.com/photo-1536440136628-849c177e76a1?w=400", "The presidencies of Kennedy and Johnson unfold through a slow-witted man."},
	{"The Matrix", "Lana Wachowski", "$63M", "Sydney", "136 min", "1999", "https://images.unsplash.com/photo-1626814026160-2237a95fc5a0?w=400", "A computer hacker learns about the true nature of reality."},
	{"Goodfellas", "Martin Scorsese", "$25M", "New York", "146 min", "1990", "https://images.unsplash.com/photo-1594908900066-3f47337549d8?w=400", "The story of Henry Hill and his life in the mob."},
}

var tvShows = []template{
	{"Breaking Bad", "Vince Gilligan", "$3M/episode", "Albuquerque, New Mexico", "49 min/episode", "2008-2013", "https://images.unsplash.com/photo-1558886668-e9a014c0141a?w=400", "A chemistry teacher turned methamphetamine producer."},
	{"Stranger Things", "The Duffer Brothers", "$8M/episode", "Atlanta, Georgia", "50 min/episode", "2016-present", "https://images.unsplash.com/photo-1509347528160-9a9e33742cdb?w=400", "A group of kids uncover supernatural mysteries in their town."},
	{"Game of Thrones", "David Benioff", "$6M/episode", "Belfast, Croatia", "57 min/episode", "2011-2019", "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=400", "Noble families vie for control of the Iron Throne."},
	{"The Crown", "Peter Morgan", "$13M/episode", "London, Scotland", "58 min/episode", "2016-2023", "https://images.unsplash.com/photo-1438761681033-6461ffad8d80?w=400", "The reign of Queen Elizabeth II."},
	{"The Office", "Greg Daniels", "$500K/episode", "Los Angeles", "22 min/episode", "2005-2013", "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=400", "A mockumentary on a group of office workers."},
	{"Friends", "David Crane", "$1M/episode", "Los Angeles", "22 min/episode", "1994-2004", "https://images.unsplash.com/photo-1539571696357-5a69c17a67c6?w=400", "Six friends navigate life and love in New York City."},
	{"The Witcher", "Lauren Schmidt", "$10M/episode", "Hungary, Poland", "60 min/episode", "2019-present", "https://images.unsplash.com/photo-1500648767791-00dcc994a43e?w=400", "Geralt of Rivia, a monster hunter, struggles to find his place."},
	{"The Mandalorian", "Jon Favreau", "$15M/episode", "California", "40 min/episode", "2019-present", "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=400", "A lone bounty hunter in the outer reaches of the galaxy."},
	{"Sherlock", "Mark Gatiss", "$2M/episode", "London", "90 min/episode", "2010-2017", "https://images.unsplash.com/photo-1463453091185-61582044d556?w=400", "A modern update of Sherlock Holmes mysteries."},
	{"The Boys", "Eric Kripke", "$11M/episode", "Toronto", "60 min/episode", "2019-present", "https://images.unsplash.com/photo-1506794778202-cad84cf45f1d?w=400", "A group of vigilantes combat corrupt superheroes."},
}

// Generate returns count demo entries with creation times spread over the
// past year, newest first.
func Generate(count int) []media.Entry {
	return GenerateAt(count, time.Now(), rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
}

// GenerateAt is Generate with a fixed clock and random source. Movies come
// first in the template cycle, then TV shows; after one full cycle titles get
// a numeric suffix ("Inception 2").
func GenerateAt(count int, now time.Time, rng *rand.Rand) []media.Entry {
	if count < 0 {
		count = 0
	}
	type typed struct {
		template
		kind media.Type
	}
	all := make([]typed, 0, len(movies)+len(tvShows))
	for _, m := range movies {
		all = append(all, typed{m, media.TypeMovie})
	}
	for _, s := range tvShows {
		all = append(all, typed{s, media.TypeTVShow})
	}

	entries := make([]media.Entry, 0, count)
	for i := range count {
		tpl := all[i%len(all)]
		title := tpl.title
		if i >= len(all) {
			title = fmt.Sprintf("%s %d", tpl.title, i/len(all)+1)
		}
		age := time.Duration(rng.Int64N(int64(createdWindow)))
		entries = append(entries, media.Entry{
			ID:          fmt.Sprintf("media-%d", i+1),
			Title:       title,
			Type:        tpl.kind,
			Director:    tpl.director,
			Budget:      tpl.budget,
			Location:    tpl.location,
			Duration:    tpl.duration,
			Year:        tpl.year,
			Poster:      tpl.poster,
			Description: tpl.description,
			CreatedAt:   now.Add(-age).UTC(),
		})
	}
	slices.SortStableFunc(entries, func(a, b media.Entry) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return entries
}
