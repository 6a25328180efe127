package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/radiocov/internal/coverage"
	"github.com/RMahshie/radiocov/internal/export"
	"github.com/RMahshie/radiocov/pkg/models"
)

// CoverageHandler handles coverage calculation HTTP requests
type CoverageHandler struct {
	svc coverage.CoverageService
}

// NewCoverageHandler creates a new coverage handler
func NewCoverageHandler(svc coverage.CoverageService) *CoverageHandler {
	return &CoverageHandler{svc: svc}
}

// Calculate runs a coverage calculation and returns the raster cells
func (h *CoverageHandler) Calculate(ctx context.Context, req *models.CoverageCalcRequest) (*models.CoverageCalcResponse, error) {
	id, resp, err := h.run(ctx, req)
	if err != nil {
		return nil, err
	}
	return &models.CoverageCalcResponse{
		CalculationID: id,
		Body:          *resp,
	}, nil
}

// CalculateGeoJSON runs a coverage calculation and returns the cells as a
// GeoJSON FeatureCollection
func (h *CoverageHandler) CalculateGeoJSON(ctx context.Context, req *models.CoverageCalcRequest) (*models.CoverageGeoJSONResponse, error) {
	id, resp, err := h.run(ctx, req)
	if err != nil {
		return nil, err
	}

	body, err := export.MarshalGeoJSON(resp)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to encode coverage as GeoJSON", err)
	}
	return &models.CoverageGeoJSONResponse{
		ContentType:   export.GeoJSONContentType,
		CalculationID: id,
		Body:          body,
	}, nil
}

func (h *CoverageHandler) run(ctx context.Context, req *models.CoverageCalcRequest) (string, *models.CoverageResponse, error) {
	id := uuid.New().String()
	logger := log.Ctx(ctx).With().Str("calculationID", id).Logger()
	ctx = logger.WithContext(ctx)

	logger.Info().
		Int("sites", len(req.Body.Sites)).
		Float64("radiusKm", req.Body.Grid.RadiusKm).
		Float64("stepM", req.Body.Grid.StepM).
		Str("model", string(req.Body.Model)).
		Msg("Coverage calculation requested")

	resp, err := h.svc.Calculate(ctx, req.Body)
	if err != nil {
		return id, nil, toHTTPError(err)
	}
	return id, resp, nil
}

// toHTTPError maps engine errors onto HTTP status codes.
func toHTTPError(err error) error {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		details := make([]error, 0, len(verr.Problems))
		for _, p := range verr.Problems {
			details = append(details, errors.New(p))
		}
		return huma.Error400BadRequest("Invalid coverage request", details...)
	case errors.Is(err, coverage.ErrInvalidRequest):
		return huma.Error400BadRequest("Invalid coverage request", err)
	case errors.Is(err, coverage.ErrCapacityExceeded):
		return huma.NewError(http.StatusRequestEntityTooLarge, "Coverage grid too large. Increase step_m or reduce radius_km.", err)
	case errors.Is(err, context.DeadlineExceeded):
		return huma.Error504GatewayTimeout("Coverage calculation timed out", err)
	case errors.Is(err, context.Canceled):
		return huma.Error503ServiceUnavailable("Coverage calculation canceled", err)
	default:
		return huma.Error500InternalServerError("Coverage calculation failed", err)
	}
}
