package configs

// Simulation tunes the generated performance data.
type Simulation struct {
	// AvgSellingPrice is the revenue of a single order.
	AvgSellingPrice float64 `env:"AVG_SELLING_PRICE" envDefault:"25"`
	// ConversionRate is the probability of a click turning into an order.
	ConversionRate float64 `env:"CONVERSION_RATE" envDefault:"0.10"`
	// Seed fixes the random source. Zero seeds from the clock.
	Seed uint64 `env:"SEED" envDefault:"0"`
}
