package observability

import (
	"strconv"
	"strings"
)

const costFormatPrecision = 4

// ImagePricing is the USD price of one image per quality tier
type ImagePricing struct {
	Standard map[string]float64 // keyed by pixel dimensions
	HD       map[string]float64
}

// PricingTable contains per-image pricing for supported models
var PricingTable = map[string]ImagePricing{
	"dall-e-3": {
		Standard: map[string]float64{"1024x1024": 0.040, "1024x1792": 0.080, "1792x1024": 0.080},
		HD:       map[string]float64{"1024x1024": 0.080, "1024x1792": 0.120, "1792x1024": 0.120},
	},
	"imagen-4.0-generate-001": {
		Standard: map[string]float64{"*": 0.04},
		HD:       map[string]float64{"*": 0.04},
	},
	"imagen-4.0-ultra-generate-001": {
		Standard: map[string]float64{"*": 0.06},
		HD:       map[string]float64{"*": 0.06},
	},
}

// CalculateImageCost returns the USD cost of one image, or 0 for unknown models
func CalculateImageCost(model, dimensions, quality string) float64 {
	pricing, exists := PricingTable[model]
	if !exists {
		return 0
	}

	tier := pricing.Standard
	if strings.EqualFold(quality, "hd") || strings.EqualFold(quality, "high") {
		tier = pricing.HD
	}
	if cost, ok := tier[dimensions]; ok {
		return cost
	}
	return tier["*"]
}

// FormatCost formats a cost value as a USD string
func FormatCost(cost float64) string {
	return "$" + strconv.FormatFloat(cost, 'f', costFormatPrecision, 64)
}
