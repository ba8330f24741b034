package prompts

import (
	"log"
	"math/rand"
	"strings"
)

// Prompt templates per style. {animal} and {action} are filled from the
// trend lists; a location is appended some of the time.
var styleTemplates = map[string][]string{
	"cute": {
		"A {animal} doing {action}",
		"An adorable {animal} {action}",
		"{animal} being cute while {action}",
		"Cutest {animal} {action}",
	},
	"funny": {
		"A funny {animal} {action}",
		"{animal} trying to {action}",
		"Hilarious {animal} {action}",
		"Silly {animal} {action}",
	},
	"active": {
		"An energetic {animal} {action}",
		"{animal} running and {action}",
		"{animal} playing and {action}",
		"Playful {animal} {action}",
	},
	"relaxing": {
		"A peaceful {animal} {action}",
		"{animal} relaxing and {action}",
		"Calm {animal} {action}",
	},
	"nature": {
		"A {animal} in nature {action}",
		"{animal} outdoors {action}",
		"Wild {animal} {action}",
	},
}

var styleActions = map[string][]string{
	"cute":     {"playing", "sleeping", "yawning", "stretching", "learning tricks"},
	"funny":    {"failing at tricks", "being jealous", "reacting to a mirror", "being confused"},
	"active":   {"running", "jumping", "fetching", "playing fetch", "swimming"},
	"relaxing": {"napping", "grooming", "watching birds", "lounging", "meditating"},
	"nature":   {"exploring", "running wild", "hunting", "adventuring", "discovering"},
}

var locations = []string{
	"in a sunny park",
	"at the beach",
	"in the snow",
	"in autumn leaves",
	"at a dog spa",
	"at home",
	"in the backyard",
	"at the dog park",
	"in the garden",
	"by a lake",
}

const uniqueAttempts = 10

// Generator produces prompts from style templates and trend lists, checking
// the history so recent prompts are not repeated
type Generator struct {
	history      *History
	trends       *Trends
	lookbackDays int
	rng          *rand.Rand
}

// NewGenerator creates a prompt generator
func NewGenerator(history *History, trends *Trends, lookbackDays int, rng *rand.Rand) *Generator {
	return &Generator{
		history:      history,
		trends:       trends,
		lookbackDays: lookbackDays,
		rng:          rng,
	}
}

// Next returns a prompt unused within the lookback window. After a bounded
// number of attempts a repeat is accepted with a warning rather than
// stalling the cycle.
func (g *Generator) Next() string {
	for attempt := 0; attempt < uniqueAttempts; attempt++ {
		prompt := g.create()
		if g.history.IsUnique(prompt, g.lookbackDays) {
			log.Printf("[prompts] Generated unique prompt: %s", prompt)
			return prompt
		}
	}

	prompt := g.create()
	log.Printf("[prompts] Warning: no unique prompt after %d attempts, reusing: %s",
		uniqueAttempts, prompt)
	return prompt
}

// Record appends a used prompt to the history log
func (g *Generator) Record(prompt string) error {
	return g.history.Append(prompt)
}

func (g *Generator) create() string {
	styles := make([]string, 0, len(styleTemplates))
	for style := range styleTemplates {
		styles = append(styles, style)
	}
	style := styles[g.rng.Intn(len(styles))]

	templates := styleTemplates[style]
	template := templates[g.rng.Intn(len(templates))]

	// 70% popular animals, 30% trending
	var animal string
	if g.rng.Float64() < 0.7 {
		animal = g.trends.PopularAnimal(g.rng)
	} else {
		animal = g.trends.TrendingAnimal(g.rng)
	}

	actions := styleActions[style]
	action := actions[g.rng.Intn(len(actions))]

	prompt := strings.ReplaceAll(template, "{animal}", animal)
	prompt = strings.ReplaceAll(prompt, "{action}", action)

	if g.rng.Float64() < 0.6 {
		prompt += " " + locations[g.rng.Intn(len(locations))]
	}
	return prompt
}
