package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/RMahshie/radiocov/internal/api/handlers"
	"github.com/RMahshie/radiocov/internal/coverage"
	"github.com/RMahshie/radiocov/pkg/models"
)

// Version is reported by the health endpoint and the OpenAPI document.
const Version = "1.0.0"

// RegisterRoutes sets up all API routes
func RegisterRoutes(api huma.API, coverageSvc coverage.CoverageService) {
	// Initialize handlers
	coverageHandler := handlers.NewCoverageHandler(coverageSvc)

	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns the health status of the service",
		Tags:        []string{"System"},
	}, func(ctx context.Context, input *struct{}) (*models.HealthResponse, error) {
		resp := &models.HealthResponse{}
		resp.Body.Status = "healthy"
		resp.Body.Version = Version
		resp.Body.Time = time.Now()
		return resp, nil
	})

	// Register coverage routes
	huma.Register(api, huma.Operation{
		OperationID: "calculateCoverage",
		Method:      http.MethodPost,
		Path:        "/coverage/calc",
		Summary:     "Calculate coverage",
		Description: "Estimates the best received signal level over a disc sampled around the grid center. Stateless; identical input yields identical output.",
		Tags:        []string{"Coverage"},
		Errors:      []int{http.StatusBadRequest, http.StatusRequestEntityTooLarge, http.StatusGatewayTimeout},
	}, coverageHandler.Calculate)

	huma.Register(api, huma.Operation{
		OperationID: "calculateCoverageGeoJSON",
		Method:      http.MethodPost,
		Path:        "/coverage/calc/geojson",
		Summary:     "Calculate coverage as GeoJSON",
		Description: "Same calculation as /coverage/calc, returned as a GeoJSON FeatureCollection of points.",
		Tags:        []string{"Coverage"},
		Errors:      []int{http.StatusBadRequest, http.StatusRequestEntityTooLarge, http.StatusGatewayTimeout},
	}, coverageHandler.CalculateGeoJSON)
}
