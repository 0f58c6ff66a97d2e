package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/i474232898/grow-planner/internal/common"
	"github.com/i474232898/grow-planner/internal/weather"
)

// WeatherAPIProvider implements the weather.Provider interface for WeatherAPI.com.
type WeatherAPIProvider struct {
	endpoint
	apiKey string
}

func NewWeatherAPIProvider(client *http.Client, apiKey string, opts ...Option) *WeatherAPIProvider {
	return &WeatherAPIProvider{
		endpoint: newEndpoint("weatherapi", "https://api.weatherapi.com/v1/current.json", client, opts),
		apiKey:   apiKey,
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

func (p *WeatherAPIProvider) Fetch(ctx context.Context, loc weather.Location) (weather.ProviderReading, error) {
	if p.apiKey == "" {
		return weather.ProviderReading{}, fmt.Errorf("weatherapi api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("key", p.apiKey)
		values.Set("lang", p.lang)
		// WeatherAPI uses "q" for location; it accepts "city,country".
		values.Set("q", loc.Query())

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := p.doRequestWithResilience(ctx, buildRequest)
	if err != nil {
		return weather.ProviderReading{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Current struct {
			LastUpdatedEpoch int64   `json:"last_updated_epoch"`
			TempC            float64 `json:"temp_c"`
			Humidity         float64 `json:"humidity"`
			WindKph          float64 `json:"wind_kph"`
			PressureMb       float64 `json:"pressure_mb"`
			Condition        struct {
				Text string `json:"text"`
				Code int    `json:"code"`
			} `json:"condition"`
		} `json:"current"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.ProviderReading{}, err
	}

	ts := time.Now().UTC()
	if payload.Current.LastUpdatedEpoch > 0 {
		ts = time.Unix(payload.Current.LastUpdatedEpoch, 0).UTC()
	}

	text := payload.Current.Condition.Text
	if text == "" {
		text = "unknown"
	}

	return weather.ProviderReading{
		ProviderName: p.name,
		Timestamp:    ts,
		TemperatureC: payload.Current.TempC,
		HumidityPct:  payload.Current.Humidity,
		WindSpeedMS:  payload.Current.WindKph / 3.6,
		PressureHpa:  payload.Current.PressureMb,
		Condition:    mapWeatherAPICondition(payload.Current.Condition.Code, payload.Current.Condition.Text),
		Description:  text,
	}, nil
}

// weatherAPICodes maps WeatherAPI condition codes, which do not depend on the
// requested language, to normalized conditions.
var weatherAPICodes = map[int]weather.Condition{
	1000: weather.ConditionClear,
	1003: weather.ConditionCloudy, 1006: weather.ConditionCloudy, 1009: weather.ConditionCloudy,
	1030: weather.ConditionMist, 1135: weather.ConditionMist, 1147: weather.ConditionMist,
	1063: weather.ConditionRain, 1150: weather.ConditionRain, 1153: weather.ConditionRain,
	1168: weather.ConditionRain, 1171: weather.ConditionRain, 1180: weather.ConditionRain,
	1183: weather.ConditionRain, 1186: weather.ConditionRain, 1189: weather.ConditionRain,
	1192: weather.ConditionRain, 1195: weather.ConditionRain, 1198: weather.ConditionRain,
	1201: weather.ConditionRain, 1240: weather.ConditionRain, 1243: weather.ConditionRain,
	1246: weather.ConditionRain,
	1066: weather.ConditionSnow, 1069: weather.ConditionSnow, 1072: weather.ConditionSnow,
	1114: weather.ConditionSnow, 1117: weather.ConditionSnow, 1204: weather.ConditionSnow,
	1207: weather.ConditionSnow, 1210: weather.ConditionSnow, 1213: weather.ConditionSnow,
	1216: weather.ConditionSnow, 1219: weather.ConditionSnow, 1222: weather.ConditionSnow,
	1225: weather.ConditionSnow, 1237: weather.ConditionSnow, 1249: weather.ConditionSnow,
	1252: weather.ConditionSnow, 1255: weather.ConditionSnow, 1258: weather.ConditionSnow,
	1261: weather.ConditionSnow, 1264: weather.ConditionSnow,
	1087: weather.ConditionStorm, 1273: weather.ConditionStorm, 1276: weather.ConditionStorm,
	1279: weather.ConditionStorm, 1282: weather.ConditionStorm,
}

func mapWeatherAPICondition(code int, text string) weather.Condition {
	if c, ok := weatherAPICodes[code]; ok {
		return c
	}
	switch {
	case text == "":
		return weather.ConditionUnknown
	case common.HasAnyFold(text, "thunder", "storm"):
		return weather.ConditionStorm
	case common.HasAnyFold(text, "rain", "shower", "drizzle"):
		return weather.ConditionRain
	case common.HasAnyFold(text, "snow", "sleet", "blizzard"):
		return weather.ConditionSnow
	case common.HasAnyFold(text, "mist", "fog"):
		return weather.ConditionMist
	case common.HasAnyFold(text, "cloud", "overcast"):
		return weather.ConditionCloudy
	case common.HasAnyFold(text, "sunny", "clear"):
		return weather.ConditionClear
	default:
		return weather.ConditionUnknown
	}
}
