// Package propagation implements the empirical path-loss models used to turn
// transmitter parameters and distance into a received signal level.
package propagation

import (
	"fmt"
	"math"

	"github.com/RMahshie/radiocov/internal/geo"
	"github.com/RMahshie/radiocov/pkg/models"
)

// MinDistanceKm is the distance substituted for co-located geometry.
const MinDistanceKm = 0.001

// Model computes path loss in dB for one transmitter/receiver geometry.
type Model interface {
	PathLoss(fMHz, dKm, hBsM, hMsM float64) float64
}

// Hata is the Okumura-Hata urban macro-cell model. It is nominally valid for
// 150-1500 MHz, base heights of 30-200 m, mobile heights of 1-10 m and
// distances of 1-20 km; outside that range the formula is extrapolated.
type Hata struct{}

// PathLoss implements Model.
func (Hata) PathLoss(fMHz, dKm, hBsM, hMsM float64) float64 {
	return HataPathLoss(fMHz, dKm, hBsM, hMsM)
}

// HataPathLoss returns the urban Okumura-Hata path loss in dB. Distances below
// MinDistanceKm are clamped.
func HataPathLoss(fMHz, dKm, hBsM, hMsM float64) float64 {
	if dKm < MinDistanceKm {
		dKm = MinDistanceKm
	}

	logF := math.Log10(fMHz)
	logHb := math.Log10(hBsM)

	// mobile antenna height correction for small/medium cities
	aHms := (1.1*logF-0.7)*hMsM - (1.56*logF - 0.8)

	return 69.55 + 26.16*logF - 13.82*logHb - aHms + (44.9-6.55*logHb)*math.Log10(dKm)
}

// Resolve returns the path-loss implementation for a model name.
// longley_rice is accepted but currently evaluated with the Hata formula.
func Resolve(m models.PropagationModel) (Model, error) {
	switch m {
	case models.ModelHata, models.ModelLongleyRice:
		return Hata{}, nil
	default:
		return nil, fmt.Errorf("unsupported propagation model %q", m)
	}
}

// ReceivedLevelDBm returns the level received at (lat, lon) from site.
func ReceivedLevelDBm(model Model, site models.Site, lat, lon, rxHeightM float64) float64 {
	dKm := geo.DistanceKm(site.Lat, site.Lon, lat, lon)
	pl := model.PathLoss(site.FrequencyMHz, dKm, site.AntennaHeightM, rxHeightM)
	return site.TxPowerDBm + site.AntennaGainDBi - pl
}
