package trading

import (
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"scrip-engine/internal/errors"
	"scrip-engine/internal/models"
)

// genDepthLevels generates a non-empty priority-ordered side of the book.
func genDepthLevels() gopter.Gen {
	level := gopter.CombineGens(
		gen.Float64Range(1, 1000),
		gen.Int64Range(1, 100),
	).Map(func(values []interface{}) models.DepthLevel {
		return models.DepthLevel{
			Price:    values[0].(float64),
			Quantity: values[1].(int64),
		}
	})
	return gen.SliceOfN(5, level).SuchThat(func(levels []models.DepthLevel) bool {
		return len(levels) > 0
	})
}

// Property: any order whose quantity fits within the aggregate quantity
// on its required side fills fully, at an average inside the price range
// of that side's levels.
func TestProperty_FullFillWithinDepth(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("full fill lies within consumed price range", prop.ForAll(
		func(levels []models.DepthLevel, quantity int64, buy bool) bool {
			var aggregate int64
			minPrice, maxPrice := levels[0].Price, levels[0].Price
			for _, l := range levels {
				aggregate += l.Quantity
				if l.Price < minPrice {
					minPrice = l.Price
				}
				if l.Price > maxPrice {
					maxPrice = l.Price
				}
			}
			quantity = 1 + quantity%aggregate

			depth := models.Depth{}
			signed := quantity
			if buy {
				depth.Ask = levels
			} else {
				depth.Bid = levels
				signed = -quantity
			}

			avg, err := AvgFillPrice(models.NewMarketOrder(testScrip(), signed), depth)
			if err != nil {
				return false
			}
			// A fill consumed at a single level computes (q*p)/q, which
			// can land one ulp outside p, so the bound is relative.
			eps := 1e-6 * math.Max(1, maxPrice)
			return avg >= minPrice-eps && avg <= maxPrice+eps
		},
		genDepthLevels(),
		gen.Int64Range(0, 1<<30),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

// Property: requesting d more than the side's aggregate quantity fails
// with InsufficientDepth reporting exactly d.
func TestProperty_PartialFillReportsShortfall(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("shortfall equals requested minus available", prop.ForAll(
		func(levels []models.DepthLevel, shortfall int64, buy bool) bool {
			var aggregate int64
			for _, l := range levels {
				aggregate += l.Quantity
			}

			depth := models.Depth{}
			signed := aggregate + shortfall
			if buy {
				depth.Ask = levels
			} else {
				depth.Bid = levels
				signed = -signed
			}

			_, err := AvgFillPrice(models.NewMarketOrder(testScrip(), signed), depth)
			var depthErr *errors.DepthError
			if !errors.As(err, &depthErr) {
				return false
			}
			return depthErr.Remaining == shortfall
		},
		genDepthLevels(),
		gen.Int64Range(1, 1000),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
