package planner

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/i474232898/grow-planner/internal/grow"
)

// State of the weather lookup flow.
type State int

const (
	StateIdle State = iota
	StatePromptingForCity
	StateLoading
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePromptingForCity:
		return "prompting-for-city"
	case StateLoading:
		return "loading"
	default:
		return "unknown"
	}
}

// WeatherSource looks up the weather for a free-text city.
type WeatherSource interface {
	Weather(ctx context.Context, city string) (WeatherSnapshot, error)
}

// Planner owns the active profile, the last displayed results and the weather
// flow. It is safe for concurrent use.
type Planner struct {
	prefs   *PreferenceStore
	sync    *SyncPolicy
	weather WeatherSource
	logger  *zap.Logger

	// persistMu orders profile updates with their local save and sync
	// scheduling. It is always taken before mu.
	persistMu sync.Mutex

	mu       sync.Mutex
	profile  grow.GrowProfile
	current  *grow.Recommendation
	view     WeatherView
	state    State
	fetchGen uint64
}

func New(prefs *PreferenceStore, syncPolicy *SyncPolicy, weather WeatherSource, logger *zap.Logger) *Planner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Planner{
		prefs:   prefs,
		sync:    syncPolicy,
		weather: weather,
		logger:  logger,
		profile: grow.DefaultProfile(),
		view:    NeutralView(),
	}
}

// Hydrate resolves the active profile from the preference sources.
func (p *Planner) Hydrate(ctx context.Context) grow.GrowProfile {
	profile := p.prefs.Resolve(ctx)

	p.mu.Lock()
	p.profile = profile
	p.mu.Unlock()

	p.logger.Debug("profile hydrated",
		zap.Float64("pot", profile.PotLiters),
		zap.Float64("watts", profile.Wattage),
		zap.String("city", profile.City))
	return profile
}

// Recalculate computes a recommendation for pot and watts. Invalid input
// returns a *grow.ValidationError and leaves all state untouched; otherwise
// the profile is updated, persisted locally and pushed to the server.
func (p *Planner) Recalculate(ctx context.Context, pot, watts float64) (grow.Recommendation, error) {
	rec, err := grow.Recommend(pot, watts)
	if err != nil {
		return grow.Recommendation{}, err
	}

	p.persistMu.Lock()
	defer p.persistMu.Unlock()

	p.mu.Lock()
	p.profile.PotLiters = pot
	p.profile.Wattage = watts
	p.current = &rec
	profile := p.profile
	p.mu.Unlock()

	p.persist(ctx, profile)
	return rec, nil
}

// Reset recalculates with the built-in defaults.
func (p *Planner) Reset(ctx context.Context) (grow.Recommendation, error) {
	def := grow.DefaultProfile()
	return p.Recalculate(ctx, def.PotLiters, def.Wattage)
}

// FetchWeather runs the weather flow for city. A blank city moves the flow to
// StatePromptingForCity and returns ErrCityRequired; it stays there until a
// city is supplied. A response overtaken by a newer lookup is dropped with
// ErrStaleResponse. Failures come back as *TransportError.
func (p *Planner) FetchWeather(ctx context.Context, city string) (WeatherView, error) {
	city = strings.TrimSpace(city)

	if p.weather == nil {
		return WeatherView{}, ErrNoWeatherSource
	}

	p.mu.Lock()
	if city == "" {
		p.state = StatePromptingForCity
		p.mu.Unlock()
		return WeatherView{}, ErrCityRequired
	}
	p.fetchGen++
	gen := p.fetchGen
	p.state = StateLoading
	p.view = loadingView(city)
	p.mu.Unlock()

	snap, err := p.weather.Weather(ctx, city)

	p.persistMu.Lock()
	defer p.persistMu.Unlock()

	p.mu.Lock()
	if gen != p.fetchGen {
		p.mu.Unlock()
		p.logger.Debug("discarding stale weather response",
			zap.String("city", city), zap.Uint64("generation", gen))
		return WeatherView{}, ErrStaleResponse
	}
	p.state = StateIdle
	if err != nil {
		terr := newTransportError(err)
		p.view = FailureView(terr)
		view := p.view
		p.mu.Unlock()
		p.logger.Info("weather lookup failed", zap.String("city", city), zap.Error(err))
		return view, terr
	}
	p.view = SnapshotView(snap)
	p.profile.City = city
	view, profile := p.view, p.profile
	p.mu.Unlock()

	p.persist(ctx, profile)
	return view, nil
}

// persist writes locally, then hands the profile to the sync policy. Neither
// step can fail the operation that triggered it. Callers hold persistMu.
func (p *Planner) persist(ctx context.Context, profile grow.GrowProfile) {
	if err := p.prefs.Save(ctx, profile); err != nil {
		p.logger.Warn("saving local preferences failed", zap.Error(err))
	}
	p.sync.Schedule(ctx, profile)
}

func (p *Planner) Profile() grow.GrowProfile {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.profile
}

// Recommendation returns the last successful recommendation, if any.
func (p *Planner) Recommendation() (grow.Recommendation, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return grow.Recommendation{}, false
	}
	return *p.current, true
}

func (p *Planner) WeatherView() WeatherView {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.view
}

func (p *Planner) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Wait blocks until pending preference syncs are done.
func (p *Planner) Wait() {
	p.sync.Wait()
}
