package filter

// Options is the catalogue the filter dialog offers.
type Options struct {
	CarTypes      []string `json:"car_types"`
	Features      []string `json:"features"`
	MinPriceLimit float64  `json:"min_price_limit"`
	MaxPriceLimit float64  `json:"max_price_limit"`
	PriceStep     float64  `json:"price_step"`
}

// CatalogOptions returns the dialog catalogue.
func CatalogOptions() Options {
	return Options{
		CarTypes:      []string{"Sedan", "SUV", "Truck", "4x4"},
		Features:      []string{"GPS", "A/C", "Heated Seats", "Bluetooth", "Sunroof", "All-Wheel Drive"},
		MinPriceLimit: MinPriceLimit,
		MaxPriceLimit: MaxPriceLimit,
		PriceStep:     PriceStep,
	}
}
