package prompts

import (
	"context"
	"log"
	"math/rand"
	"strings"

	"github.com/vartanbeno/go-reddit/v2/reddit"
)

var defaultPopularAnimals = []string{
	"golden retriever", "cat", "corgi", "husky", "persian cat", "poodle",
}

var defaultTrendingAnimals = []string{
	"capybara", "axolotl", "ferret", "bunny", "hamster",
}

// knownAnimals maps keywords spotted in post titles to the prompt-ready
// animal name
var knownAnimals = map[string]string{
	"golden retriever": "golden retriever",
	"retriever":        "golden retriever",
	"corgi":            "corgi",
	"husky":            "husky",
	"poodle":           "poodle",
	"kitten":           "kitten",
	"puppy":            "puppy",
	"capybara":         "capybara",
	"axolotl":          "axolotl",
	"ferret":           "ferret",
	"bunny":            "bunny",
	"rabbit":           "bunny",
	"hamster":          "hamster",
	"parrot":           "parrot",
	"hedgehog":         "hedgehog",
	"otter":            "otter",
}

// Trends holds the animal lists the prompt generator draws from. Starts
// from built-in lists; Refresh promotes animals seen in top pet-subreddit
// posts into the trending list.
type Trends struct {
	popular  []string
	trending []string
}

// NewTrends returns trends seeded with the built-in lists
func NewTrends() *Trends {
	return &Trends{
		popular:  append([]string(nil), defaultPopularAnimals...),
		trending: append([]string(nil), defaultTrendingAnimals...),
	}
}

// PopularAnimal picks a random popular animal
func (t *Trends) PopularAnimal(rng *rand.Rand) string {
	return t.popular[rng.Intn(len(t.popular))]
}

// TrendingAnimal picks a random trending animal
func (t *Trends) TrendingAnimal(rng *rand.Rand) string {
	return t.trending[rng.Intn(len(t.trending))]
}

// Refresh scans the day's top posts of the given subreddits for known
// animals and promotes hits into the trending list. Any failure keeps the
// current lists; trends are an enrichment, never a blocker.
func (t *Trends) Refresh(ctx context.Context, subreddits []string) {
	if len(subreddits) == 0 {
		return
	}

	client, err := reddit.NewReadonlyClient()
	if err != nil {
		log.Printf("[prompts] Warning: reddit client unavailable: %v", err)
		return
	}

	seen := make(map[string]bool, len(t.trending))
	for _, animal := range t.trending {
		seen[animal] = true
	}

	hits := 0
	for _, sub := range subreddits {
		posts, _, err := client.Subreddit.TopPosts(ctx, sub, &reddit.ListPostOptions{
			ListOptions: reddit.ListOptions{Limit: 50},
			Time:        "day",
		})
		if err != nil {
			log.Printf("[prompts] Warning: could not fetch r/%s trends: %v", sub, err)
			continue
		}

		for _, post := range posts {
			title := strings.ToLower(post.Title)
			for keyword, animal := range knownAnimals {
				if strings.Contains(title, keyword) && !seen[animal] {
					t.trending = append(t.trending, animal)
					seen[animal] = true
					hits++
				}
			}
		}
	}

	if hits > 0 {
		log.Printf("[prompts] ✅ Trends refreshed: %d new trending animal(s)", hits)
	}
}
