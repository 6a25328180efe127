// Package coverage estimates received signal levels over a sampled disc
// from a set of transmitters, keeping the best server at every sample.
package coverage

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/paulmach/orb"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/RMahshie/radiocov/internal/geo"
	"github.com/RMahshie/radiocov/internal/propagation"
	"github.com/RMahshie/radiocov/pkg/models"
)

const tracerName = "github.com/RMahshie/radiocov/internal/coverage"

// chunkSize is the number of points evaluated per worker task.
const chunkSize = 512

var (
	// ErrInvalidRequest wraps every request validation failure.
	ErrInvalidRequest = errors.New("invalid coverage request")
	// ErrCapacityExceeded wraps grid and evaluation limit failures.
	ErrCapacityExceeded = errors.New("coverage request exceeds capacity")
)

// Outcome labels for Recorder.
const (
	OutcomeOK       = "ok"
	OutcomeInvalid  = "invalid"
	OutcomeCapacity = "capacity"
	OutcomeCanceled = "canceled"
)

// Recorder receives one observation per calculation.
type Recorder interface {
	ObserveCalculation(model models.PropagationModel, outcome string, duration time.Duration, cells int)
}

// Config bounds the work a single calculation may do.
type Config struct {
	// MaxGridPoints caps the candidate raster (0 = geo.DefaultMaxPoints).
	MaxGridPoints int
	// MaxEvaluations caps candidate points times sites (0 = unlimited).
	MaxEvaluations int64
	// Workers is the evaluation parallelism (0 = GOMAXPROCS).
	Workers int
}

// CoverageService computes coverage rasters.
type CoverageService interface {
	Calculate(ctx context.Context, req models.CoverageRequest) (*models.CoverageResponse, error)
}

type coverageService struct {
	sampler  geo.Sampler
	maxEvals int64
	workers  int
	recorder Recorder
}

// NewCoverageService creates a coverage service. recorder may be nil.
func NewCoverageService(cfg Config, recorder Recorder) CoverageService {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &coverageService{
		sampler:  geo.Sampler{MaxPoints: cfg.MaxGridPoints},
		maxEvals: cfg.MaxEvaluations,
		workers:  workers,
		recorder: recorder,
	}
}

// Calculate validates req, samples the disc and evaluates every point against
// every site. Either the full raster is returned or an error; cells are in
// the sampler's raster order regardless of worker scheduling.
func (s *coverageService) Calculate(ctx context.Context, req models.CoverageRequest) (resp *models.CoverageResponse, err error) {
	start := time.Now()
	logger := log.Ctx(ctx)

	ctx, span := otel.Tracer(tracerName).Start(ctx, "coverage.Calculate")
	defer span.End()
	span.SetAttributes(
		attribute.Int("coverage.sites", len(req.Sites)),
		attribute.String("coverage.model", string(req.Model)),
		attribute.Float64("coverage.radius_km", req.Grid.RadiusKm),
		attribute.Float64("coverage.step_m", req.Grid.StepM),
	)

	defer func() {
		cells := 0
		if resp != nil {
			cells = len(resp.Cells)
		}
		outcome := outcomeOf(err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
		}
		if s.recorder != nil {
			s.recorder.ObserveCalculation(req.Model, outcome, time.Since(start), cells)
		}
	}()

	if err := req.Validate(); err != nil {
		logger.Warn().Err(err).Msg("Rejected coverage request")
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	model, err := propagation.Resolve(req.Model)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	center := orb.Point{req.Grid.CenterLon, req.Grid.CenterLat}
	if err := s.checkEvaluations(center, req); err != nil {
		logger.Warn().Err(err).Msg("Coverage request exceeds evaluation limit")
		return nil, err
	}

	points, err := s.sample(ctx, center, req.Grid)
	if err != nil {
		if errors.Is(err, geo.ErrGridTooLarge) {
			logger.Warn().Err(err).Msg("Coverage grid exceeds point limit")
			return nil, fmt.Errorf("%w: %w", ErrCapacityExceeded, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	logger.Info().
		Int("sites", len(req.Sites)).
		Int("points", len(points)).
		Str("model", string(req.Model)).
		Msg("Sampled coverage grid")

	cells, err := s.evaluate(ctx, model, req, points)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int("cells", len(cells)).
		Dur("duration", time.Since(start)).
		Msg("Coverage calculation complete")

	return &models.CoverageResponse{
		CRS:       models.CRS,
		GridStepM: req.Grid.StepM,
		Cells:     cells,
	}, nil
}

func (s *coverageService) checkEvaluations(center orb.Point, req models.CoverageRequest) error {
	if s.maxEvals <= 0 || len(req.Sites) == 0 {
		return nil
	}
	raster, err := geo.NewRaster(center, req.Grid.RadiusKm, req.Grid.StepM)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	evals := raster.Candidates() * float64(len(req.Sites))
	if evals > float64(s.maxEvals) {
		return fmt.Errorf("%w: about %.0f evaluations, limit %d", ErrCapacityExceeded, evals, s.maxEvals)
	}
	return nil
}

func (s *coverageService) sample(ctx context.Context, center orb.Point, grid models.GridConfig) ([]orb.Point, error) {
	_, span := otel.Tracer(tracerName).Start(ctx, "coverage.sample")
	defer span.End()

	points, err := s.sampler.Sample(center, grid.RadiusKm, grid.StepM)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("coverage.points", len(points)))
	return points, nil
}

// evaluate maps points to cells in parallel. Each task owns a disjoint index
// range of the output slice, so no locking is needed.
func (s *coverageService) evaluate(ctx context.Context, model propagation.Model, req models.CoverageRequest, points []orb.Point) ([]models.CoverageCell, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "coverage.aggregate")
	defer span.End()

	cells := make([]models.CoverageCell, len(points))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for lo := 0; lo < len(points); lo += chunkSize {
		hi := min(lo+chunkSize, len(points))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for i := lo; i < hi; i++ {
				p := points[i]
				cells[i] = models.CoverageCell{
					Lat:        p.Lat(),
					Lon:        p.Lon(),
					RxLevelDBm: BestLevel(model, req.Sites, p.Lat(), p.Lon(), req.RxHeightM),
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("coverage evaluation aborted: %w", err)
	}
	return cells, nil
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrInvalidRequest):
		return OutcomeInvalid
	case errors.Is(err, ErrCapacityExceeded):
		return OutcomeCapacity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCanceled
	default:
		return "error"
	}
}
