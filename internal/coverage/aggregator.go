package coverage

import (
	"github.com/RMahshie/radiocov/internal/propagation"
	"github.com/RMahshie/radiocov/pkg/models"
)

// BestLevel returns the strongest received level at (lat, lon) over sites.
// The first site reaching the maximum wins; levels are never combined.
// With no sites it returns models.NoCoverageDBm.
func BestLevel(model propagation.Model, sites []models.Site, lat, lon, rxHeightM float64) float64 {
	best := models.NoCoverageDBm
	for i, site := range sites {
		level := propagation.ReceivedLevelDBm(model, site, lat, lon, rxHeightM)
		if i == 0 || level > best {
			best = level
		}
	}
	return best
}
