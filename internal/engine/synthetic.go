package engine

import (
	"math"
	"math/rand"

	"github.com/yourusername/smart-starter/internal/models"
)

// Sample is one labeled training row: a fixed-order feature vector and the
// realized fantasy point outcome.
type Sample struct {
	Features []float64
	Actual   float64
}

// Dataset groups labeled rows by position category
type Dataset map[models.Position][]Sample

// DefaultSamplesPerPosition is the synthesized dataset size per position
const DefaultSamplesPerPosition = 50

// baseProjectionRanges bounds the synthesized baseline projection per position
var baseProjectionRanges = map[models.Position][2]float64{
	models.PositionQB:  {15, 30},
	models.PositionRB:  {8, 25},
	models.PositionWR:  {5, 20},
	models.PositionTE:  {3, 15},
	models.PositionK:   {5, 12},
	models.PositionDST: {3, 15},
}

// SynthesizeDataset builds an internally consistent labeled dataset. Each
// outcome equals the baseline projection adjusted by the same weather, home,
// defense, and form multipliers the predictor models, plus bounded noise and
// a zero floor, so a trained model learns a recoverable signal.
func SynthesizeDataset(samplesPerPosition int, seed int64) Dataset {
	if samplesPerPosition <= 0 {
		samplesPerPosition = DefaultSamplesPerPosition
	}

	rng := rand.New(rand.NewSource(seed))
	dataset := make(Dataset, len(models.AllPositions))

	for _, position := range models.AllPositions {
		bounds := baseProjectionRanges[position]
		rows := make([]Sample, 0, samplesPerPosition)

		for i := 0; i < samplesPerPosition; i++ {
			baseProj := bounds[0] + rng.Float64()*(bounds[1]-bounds[0])

			weather := sampleWeatherImpact(rng)
			home := sampleHomeAdvantage(rng)
			spread := -10 + rng.Float64()*20
			overUnder := 35 + rng.Float64()*20
			defRank := 1 + rng.Intn(32)
			recentForm := 0.3 + rng.Float64()*0.7
			snapShare := 0.4 + rng.Float64()*0.6

			actual := syntheticOutcome(baseProj, weather, home, defRank, recentForm, rng)

			rows = append(rows, Sample{
				Features: []float64{
					baseProj,
					weather,
					home,
					spread,
					overUnder,
					float64(defRank),
					recentForm,
					snapShare,
				},
				Actual: actual,
			})
		}

		dataset[position] = rows
	}

	return dataset
}

// syntheticOutcome derives the labeled outcome from the contextual features
func syntheticOutcome(baseProj, weather, home float64, defRank int, recentForm float64, rng *rand.Rand) float64 {
	weatherAdj := baseProj * weather
	homeAdj := baseProj * home

	defAdj := 0.0
	switch {
	case defRank > 20:
		defAdj = baseProj * 0.1
	case defRank < 8:
		defAdj = baseProj * -0.1
	}

	formAdj := baseProj * (recentForm - 0.5) * 0.2

	actual := baseProj + weatherAdj + homeAdj + defAdj + formAdj
	actual += rng.NormFloat64() * baseProj * 0.15
	return math.Max(0, actual)
}

// sampleWeatherImpact draws from {0, -0.1, -0.15, -0.2} with probabilities
// {0.6, 0.2, 0.15, 0.05}
func sampleWeatherImpact(rng *rand.Rand) float64 {
	r := rng.Float64()
	switch {
	case r < 0.6:
		return 0
	case r < 0.8:
		return -0.1
	case r < 0.95:
		return -0.15
	default:
		return -0.2
	}
}

// sampleHomeAdvantage draws +0.05 or -0.05 with equal probability
func sampleHomeAdvantage(rng *rand.Rand) float64 {
	if rng.Float64() < 0.5 {
		return 0.05
	}
	return -0.05
}
