package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/AdamLt-GH/Fit-Logger/services"
)

// WeatherHandler proxies the outdoor-conditions lookups so API keys never
// reach the client.
type WeatherHandler struct {
	weatherService *services.WeatherService
}

func NewWeatherHandler(weatherService *services.WeatherService) *WeatherHandler {
	return &WeatherHandler{
		weatherService: weatherService,
	}
}

func (h *WeatherHandler) GetForecast(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	location := r.URL.Query().Get("location")
	if location == "" {
		respondWithError(w, http.StatusBadRequest, "location query parameter is required")
		return
	}

	forecast, err := h.weatherService.Forecast(ctx, location)
	if err != nil {
		respondWithError(w, http.StatusBadGateway, "weather lookup failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(forecast)
}

func (h *WeatherHandler) Geocode(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	location := r.URL.Query().Get("location")
	if location == "" {
		respondWithError(w, http.StatusBadRequest, "location query parameter is required")
		return
	}

	results, err := h.weatherService.Geocode(ctx, location)
	if err != nil {
		respondWithError(w, http.StatusBadGateway, "geocoding lookup failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(results)
}
