package compile

import (
	"log"
	"math/rand"
	"strings"
)

var titleTemplates = []string{
	"🐕 {topic} Compilation | Best Pet Videos",
	"🐱 Cute {topic} - Funny Animals 😹",
	"{topic} Moments | Cutest Pet Videos 🥰",
	"🐶 {topic} Challenge | Hilarious Pets",
	"Adorable {topic} | Best of the Week 🎬",
	"🐾 {topic} Spectacular | Pet Compilation",
	"{topic} Extravaganza | Funniest Animals 😂",
	"🐕 {topic} Overload | Amazing Pet Videos",
}

var titleTopics = []string{
	"Dogs", "Cats", "Puppies", "Kittens", "Pets",
	"Animals", "Funny Moments", "Cute Scenes", "Playing",
	"Adventure", "Training", "Tricks", "Fails",
}

// TitleGenerator produces compilation titles from templates with a
// randomized topic, cycling through templates in order
type TitleGenerator struct {
	rng  *rand.Rand
	next int
}

// NewTitleGenerator creates a title generator seeded by rng
func NewTitleGenerator(rng *rand.Rand) *TitleGenerator {
	return &TitleGenerator{rng: rng}
}

// Generate returns the next compilation title
func (g *TitleGenerator) Generate() string {
	template := titleTemplates[g.next%len(titleTemplates)]
	g.next++

	topic := titleTopics[g.rng.Intn(len(titleTopics))]
	title := strings.ReplaceAll(template, "{topic}", topic)

	log.Printf("[compile] Generated title: %s", title)
	return title
}
