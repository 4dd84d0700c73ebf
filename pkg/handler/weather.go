package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"mealbot/pkg/dispatch"
	"mealbot/pkg/event"
	"mealbot/pkg/weather"
)

const (
	weatherMissingKeyText  = "⚠️ Weather API key is missing."
	weatherUnavailableText = "⚠️ Weather service unavailable."
	weatherNoDataText      = "❌ Could not fetch weather."
)

// WeatherService is the weather collaborator boundary.
type WeatherService interface {
	Current(ctx context.Context, city string) (weather.Observation, error)
}

// Weather builds the /weather handler for a fixed city. A nil service
// means no credential is configured: the handler short-circuits with a
// service-unavailable message and makes no network call.
//
// The three failure modes are user-distinguishable: missing credential,
// unreachable collaborator, and a response without temperature data.
func Weather(service WeatherService, city string, log *slog.Logger) dispatch.Handler {
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "handler.weather")

	return func(ctx context.Context, ev event.InboundEvent, emit func(event.OutboundMessage)) {
		if service == nil {
			emit(event.OutboundMessage{ChatID: ev.ChatID, Text: weatherMissingKeyText})
			return
		}

		observation, err := service.Current(ctx, city)
		if errors.Is(err, weather.ErrMalformed) {
			log.Warn("Weather response missing temperature", "city", city)
			emit(event.OutboundMessage{ChatID: ev.ChatID, Text: weatherNoDataText})
			return
		}
		if err != nil {
			log.Warn("Weather lookup failed", "city", city, "error", err)
			emit(event.OutboundMessage{ChatID: ev.ChatID, Text: weatherUnavailableText})
			return
		}

		emit(event.OutboundMessage{ChatID: ev.ChatID, Text: formatWeather(city, observation)})
	}
}

func formatWeather(city string, observation weather.Observation) string {
	condition := cases.Title(language.English).String(observation.Description)
	return fmt.Sprintf("🌤 Weather in %s\n🌡 Temperature: %.1f°C\n📝 Condition: %s", city, observation.TempC, condition)
}
