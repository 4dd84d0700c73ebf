package handler

import (
	"context"
	"math/rand/v2"
	"strings"

	"mealbot/pkg/dispatch"
	"mealbot/pkg/event"
)

const startText = "Hello 👋\n\n" +
	"Commands:\n" +
	"/news – News summary\n" +
	"/motivate – Motivation\n" +
	"/fact – Random fact\n" +
	"/weather – Weather\n\n" +
	"📸 Send a photo for image analysis.\n" +
	"💬 Or just write anything and I will reply.\n" +
	"🍽 If you mention food/calories, it will be saved."

var facts = []string{
	"Honey never spoils.",
	"Octopuses have three hearts.",
	"Bananas are berries.",
	"A day on Venus is longer than a year.",
	"Sharks existed before trees.",
}

var motivations = []string{
	"💪 Small steps every day add up to big results.",
	"🔥 Discipline beats motivation when motivation runs out.",
	"🌱 Progress, not perfection.",
	"🚀 The best time to start was yesterday. The second best is now.",
	"🏆 You don't have to be great to start, but you have to start to be great.",
}

var newsPool = []string{
	"🌍 Global markets show positive movement.",
	"🚀 SpaceX launched a new satellite.",
	"📱 Apple working on new AI features.",
	"🏢 Remote work expands across tech sector.",
	"🌡️ Climate experts warn about extreme heat.",
	"🎮 New gaming consoles dominate the holiday season.",
	"⚽ Top football leagues announce mid-season transfers.",
	"💼 Remote work continues to reshape office culture.",
}

const newsSampleSize = 3

// Start greets the user with the bot's capabilities.
func Start() dispatch.Handler {
	return func(_ context.Context, ev event.InboundEvent, emit func(event.OutboundMessage)) {
		emit(event.OutboundMessage{ChatID: ev.ChatID, Text: startText})
	}
}

// Fact replies with one uniformly random fact from the fixed pool.
func Fact() dispatch.Handler {
	return func(_ context.Context, ev event.InboundEvent, emit func(event.OutboundMessage)) {
		emit(event.OutboundMessage{ChatID: ev.ChatID, Text: facts[rand.IntN(len(facts))]})
	}
}

// Motivate replies with one uniformly random motivational line.
func Motivate() dispatch.Handler {
	return func(_ context.Context, ev event.InboundEvent, emit func(event.OutboundMessage)) {
		emit(event.OutboundMessage{ChatID: ev.ChatID, Text: motivations[rand.IntN(len(motivations))]})
	}
}

// News replies with three distinct headlines sampled without replacement
// from the fixed pool, rendered with an HTML header.
func News() dispatch.Handler {
	return func(_ context.Context, ev event.InboundEvent, emit func(event.OutboundMessage)) {
		emit(event.OutboundMessage{
			ChatID: ev.ChatID,
			Text:   "📰 <b>Today's News</b>\n" + strings.Join(sampleNews(), "\n"),
			HTML:   true,
		})
	}
}

func sampleNews() []string {
	picked := make([]string, 0, newsSampleSize)
	for _, i := range rand.Perm(len(newsPool))[:newsSampleSize] {
		picked = append(picked, newsPool[i])
	}
	return picked
}
