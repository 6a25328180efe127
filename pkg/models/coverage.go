package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CRS is the coordinate reference system of every coverage response.
const CRS = "EPSG:4326"

// NoCoverageDBm is the received level reported for cells when no site is supplied.
const NoCoverageDBm = -200.0

// Request defaults applied when the fields are omitted.
const (
	DefaultRxHeightM      = 1.5
	DefaultAntennaGainDBi = 0.0
	DefaultModel          = ModelHata
)

// PropagationModel names the path-loss model used for a calculation.
type PropagationModel string

const (
	ModelHata        PropagationModel = "hata"
	ModelLongleyRice PropagationModel = "longley_rice"
)

// ParsePropagationModel maps a wire value onto the closed set of models.
// An empty string selects DefaultModel.
func ParsePropagationModel(s string) (PropagationModel, error) {
	switch PropagationModel(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultModel, nil
	case ModelHata:
		return ModelHata, nil
	case ModelLongleyRice:
		return ModelLongleyRice, nil
	default:
		return "", fmt.Errorf("unknown propagation model %q", s)
	}
}

// Valid reports whether m is one of the supported models.
func (m PropagationModel) Valid() bool {
	return m == ModelHata || m == ModelLongleyRice
}

// Site describes a transmitter (base station).
type Site struct {
	ID             string  `json:"id" minLength:"1" doc:"Base station identifier"`
	Lat            float64 `json:"lat" minimum:"-90" maximum:"90" doc:"Latitude of the base station, degrees"`
	Lon            float64 `json:"lon" minimum:"-180" maximum:"180" doc:"Longitude of the base station, degrees"`
	TxPowerDBm     float64 `json:"tx_power_dbm" doc:"Transmitter power, dBm"`
	AntennaGainDBi float64 `json:"antenna_gain_dbi" required:"false" doc:"Base station antenna gain, dBi (default 0)"`
	AntennaHeightM float64 `json:"antenna_height_m" exclusiveMinimum:"0" doc:"Base station antenna height above ground, m"`
	FrequencyMHz   float64 `json:"frequency_mhz" exclusiveMinimum:"0" doc:"Carrier frequency, MHz"`
}

// GridConfig describes the sampled disc.
type GridConfig struct {
	CenterLat float64 `json:"center_lat" minimum:"-90" maximum:"90" doc:"Latitude of grid center, degrees"`
	CenterLon float64 `json:"center_lon" minimum:"-180" maximum:"180" doc:"Longitude of grid center, degrees"`
	RadiusKm  float64 `json:"radius_km" exclusiveMinimum:"0" doc:"Radius of calculation area, km"`
	StepM     float64 `json:"step_m" exclusiveMinimum:"0" doc:"Grid step over the surface, meters"`
}

// CoverageRequest is the input of a coverage calculation. Site order is
// significant: on equal levels the earlier site wins.
type CoverageRequest struct {
	Sites     []Site           `json:"sites" doc:"Base stations to evaluate, in priority order"`
	RxHeightM float64          `json:"rx_height_m" required:"false" minimum:"0" doc:"Subscriber antenna height, m (default 1.5)"`
	Grid      GridConfig       `json:"grid" doc:"Sampling region"`
	Model     PropagationModel `json:"model" required:"false" enum:"hata,longley_rice" doc:"Radio propagation model (default hata); longley_rice is evaluated with the Hata formula"`
}

// UnmarshalJSON fills in defaults for omitted optional fields.
func (r *CoverageRequest) UnmarshalJSON(data []byte) error {
	type alias CoverageRequest
	req := alias{
		RxHeightM: DefaultRxHeightM,
		Model:     DefaultModel,
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return err
	}
	*r = CoverageRequest(req)
	return nil
}

// Validate checks the request invariants and reports every violation.
func (r CoverageRequest) Validate() error {
	var problems []string

	if r.Sites == nil {
		problems = append(problems, "sites: required")
	}
	for i, s := range r.Sites {
		if strings.TrimSpace(s.ID) == "" {
			problems = append(problems, fmt.Sprintf("sites[%d].id: must not be empty", i))
		}
		if s.Lat < -90 || s.Lat > 90 {
			problems = append(problems, fmt.Sprintf("sites[%d].lat: must be within [-90, 90]", i))
		}
		if s.Lon < -180 || s.Lon > 180 {
			problems = append(problems, fmt.Sprintf("sites[%d].lon: must be within [-180, 180]", i))
		}
		if s.AntennaHeightM <= 0 {
			problems = append(problems, fmt.Sprintf("sites[%d].antenna_height_m: must be > 0", i))
		}
		if s.FrequencyMHz <= 0 {
			problems = append(problems, fmt.Sprintf("sites[%d].frequency_mhz: must be > 0", i))
		}
	}
	if r.RxHeightM < 0 {
		problems = append(problems, "rx_height_m: must be >= 0")
	}
	if r.Grid.CenterLat < -90 || r.Grid.CenterLat > 90 {
		problems = append(problems, "grid.center_lat: must be within [-90, 90]")
	}
	if r.Grid.CenterLon < -180 || r.Grid.CenterLon > 180 {
		problems = append(problems, "grid.center_lon: must be within [-180, 180]")
	}
	if !(r.Grid.RadiusKm > 0) {
		problems = append(problems, "grid.radius_km: must be > 0")
	}
	if !(r.Grid.StepM > 0) {
		problems = append(problems, "grid.step_m: must be > 0")
	}
	if !r.Model.Valid() {
		problems = append(problems, fmt.Sprintf("model: unknown value %q", r.Model))
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// ValidationError lists the invariants a request violates.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid coverage request: " + strings.Join(e.Problems, "; ")
}

// CoverageCell is one output sample.
type CoverageCell struct {
	Lat        float64 `json:"lat" doc:"Sample latitude, degrees"`
	Lon        float64 `json:"lon" doc:"Sample longitude, degrees"`
	RxLevelDBm float64 `json:"rx_level_dbm" doc:"Best received level at the sample, dBm"`
}

// CoverageResponse holds the cells in raster order.
type CoverageResponse struct {
	CRS       string         `json:"crs" example:"EPSG:4326" doc:"Coordinate reference system"`
	GridStepM float64        `json:"grid_step_m" doc:"Grid step echoed from the request, meters"`
	Cells     []CoverageCell `json:"cells" doc:"Samples ordered by ascending latitude then longitude"`
}

// CoverageCalcRequest is the huma input for the coverage endpoints.
type CoverageCalcRequest struct {
	Body CoverageRequest
}

// CoverageCalcResponse is the huma output of POST /coverage/calc.
type CoverageCalcResponse struct {
	CalculationID string `header:"X-Calculation-ID" doc:"Identifier of this calculation in server logs"`
	Body          CoverageResponse
}

// CoverageGeoJSONResponse is the huma output of POST /coverage/calc/geojson.
type CoverageGeoJSONResponse struct {
	ContentType   string `header:"Content-Type"`
	CalculationID string `header:"X-Calculation-ID" doc:"Identifier of this calculation in server logs"`
	Body          []byte
}
