package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/i474232898/grow-planner/internal/grow"
	"github.com/i474232898/grow-planner/internal/weather"
)

const maxCityLen = 120

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// WeatherService serves weather reports by location.
type WeatherService interface {
	Lookup(ctx context.Context, loc weather.Location) (weather.Report, error)
}

// ProfileStore persists server profiles per user.
type ProfileStore interface {
	GetOrCreate(ctx context.Context, username string) (grow.GrowProfile, error)
	Save(ctx context.Context, username string, p grow.GrowProfile) error
}

// Deps are the collaborators of the HTTP API.
type Deps struct {
	Weather  WeatherService
	Profiles ProfileStore
	Tokens   TokenParser
	Logger   *zap.Logger
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	h := &handlers{deps: deps}

	api := app.Group("/api", csrfMiddleware(), authMiddleware(deps.Tokens))

	api.Get("/session", h.session)
	api.Get("/weather", h.weather)

	prefs := api.Group("/preferences", requireUser)
	prefs.Get("/", h.getPreferences)
	prefs.Post("/", h.postPreferences)
}

type handlers struct {
	deps Deps
}

// profileBody is the wire form of a profile: {pot, watts, city}.
type profileBody struct {
	Pot   float64 `json:"pot"`
	Watts float64 `json:"watts"`
	City  string  `json:"city"`
}

func toProfileBody(p grow.GrowProfile) profileBody {
	return profileBody{Pot: p.PotLiters, Watts: p.Wattage, City: p.City}
}

// session exposes {isAuthenticated, profile}, the context a client reads once
// at startup.
func (h *handlers) session(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return c.JSON(fiber.Map{"isAuthenticated": false, "profile": fiber.Map{}})
	}

	p, err := h.deps.Profiles.GetOrCreate(c.UserContext(), user)
	if err != nil {
		h.deps.Logger.Error("loading profile failed", zap.String("user", user), zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load profile")
	}
	return c.JSON(fiber.Map{"isAuthenticated": true, "profile": toProfileBody(p)})
}

type weatherQuery struct {
	City string `validate:"required"`
}

func (h *handlers) weather(c *fiber.Ctx) error {
	q := weatherQuery{City: strings.TrimSpace(c.Query("city"))}
	if err := validate.Struct(q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, weather.ErrCityRequired.Error())
	}

	report, err := h.deps.Weather.Lookup(c.UserContext(), weather.NewLocation(q.City))
	if err == nil {
		return c.JSON(report)
	}

	var up *weather.UpstreamError
	switch {
	case errors.As(err, &up):
		code := up.StatusCode
		if code < 400 {
			code = fiber.StatusBadGateway
		}
		return c.Status(code).JSON(fiber.Map{
			"error":  up.Status(),
			"detail": up.Body,
		})
	case errors.Is(err, weather.ErrNoProviders):
		return fiber.NewError(fiber.StatusInternalServerError, "weather provider not configured on server")
	default:
		h.deps.Logger.Warn("weather lookup failed", zap.String("city", q.City), zap.Error(err))
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
}

func (h *handlers) getPreferences(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	p, err := h.deps.Profiles.GetOrCreate(c.UserContext(), user)
	if err != nil {
		h.deps.Logger.Error("loading profile failed", zap.String("user", user), zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load profile")
	}
	return c.JSON(toProfileBody(p))
}

type preferencesRequest struct {
	Pot   *float64 `json:"pot" validate:"required,gt=0"`
	Watts *float64 `json:"watts" validate:"required,gt=0"`
	City  string   `json:"city"`
}

func (h *handlers) postPreferences(c *fiber.Ctx) error {
	user, _ := currentUser(c)

	var req preferencesRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, validationMessage(err))
	}

	city := strings.TrimSpace(req.City)
	if r := []rune(city); len(r) > maxCityLen {
		city = string(r[:maxCityLen])
	}

	p := grow.GrowProfile{PotLiters: *req.Pot, Wattage: *req.Watts, City: city}
	if err := h.deps.Profiles.Save(c.UserContext(), user, p); err != nil {
		h.deps.Logger.Error("saving profile failed", zap.String("user", user), zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "failed to save profile")
	}

	h.deps.Logger.Debug("profile saved",
		zap.String("user", user),
		zap.Float64("pot", p.PotLiters),
		zap.Float64("watts", p.Wattage),
		zap.String("city", p.City))
	return c.JSON(toProfileBody(p))
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fmt.Sprintf("%s must be positive number", verrs[0].Field())
	}
	return err.Error()
}
