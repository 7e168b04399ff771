package nutrition

import (
	"fmt"
	"math"

	"github.com/phrazzld/nutri-api/internal/flow"
	"github.com/phrazzld/nutri-api/internal/prompt"
	"github.com/phrazzld/nutri-api/internal/schema"
)

var carbonMeal = schema.Object(
	schema.Required("name", schema.String()),
	schema.Required("date", schema.String().WithDescription("Date the meal was eaten, YYYY-MM-DD.")),
	schema.Optional("carbonFootprintKg", schema.Number().WithMin(0).
		WithDescription("Estimated footprint of the meal in kg CO2e.")),
)

var carbonInput = schema.Object(
	schema.Required("meals", schema.Array(carbonMeal)),
)

var carbonOutput = schema.Object(
	schema.Required("comparison", schema.String()),
	schema.Required("userAverageDailyCF", schema.Number().WithMin(0).
		WithDescription("The user's average daily food footprint in kg CO2e.")),
	schema.Required("generalAverageDailyCF", schema.Number().WithMin(0).
		WithDescription("A typical daily food footprint in kg CO2e.")),
)

var carbonTemplate = prompt.MustParse(FlowCompareCarbonFootprint, fmt.Sprintf(`You are a sustainability advisor helping someone understand the climate impact of their diet.

Logged meals with a carbon footprint estimate:
{{#each meals}}- {{date}}: {{name}}, {{carbonFootprintKg}} kg CO2e
{{/each}}
Compute the user's average daily food carbon footprint from these meals. A typical daily food footprint is about %s kg CO2e.
Write a short, non-judgmental comparison of the two and suggest one or two practical swaps that would lower the user's footprint.`,
	formatKg(GeneralAverageDailyCF)))

func formatKg(v float64) string {
	return fmt.Sprintf("%g", v)
}

// hasCarbonEstimate reports whether a meal carries a footprint estimate.
func hasCarbonEstimate(meal map[string]any) bool {
	return has(meal, "carbonFootprintKg")
}

// estimatedMeals narrows the prompt to meals with a footprint estimate,
// including zero estimates.
func estimatedMeals(in map[string]any) map[string]any {
	in["meals"] = filterWhere(items(in, "meals"), hasCarbonEstimate)
	return in
}

// averageDailyCF averages the per-day totals of meals with an estimate.
func averageDailyCF(meals []any) float64 {
	totals := map[string]float64{}
	for _, item := range meals {
		meal, ok := item.(map[string]any)
		if !ok || !hasCarbonEstimate(meal) {
			continue
		}
		kg, _ := meal["carbonFootprintKg"].(float64)
		date, _ := meal["date"].(string)
		totals[date] += kg
	}
	if len(totals) == 0 {
		return 0
	}

	var sum float64
	for _, kg := range totals {
		sum += kg
	}
	return math.Round(sum/float64(len(totals))*100) / 100
}

func carbonDefinition() flow.Definition {
	return flow.Definition{
		Name:        FlowCompareCarbonFootprint,
		Description: "Compare the user's food carbon footprint with a typical diet.",
		Input:       carbonInput,
		Output:      carbonOutput,
		Template:    carbonTemplate,
		PromptData:  estimatedMeals,
		Structured:  true,
		PreCheck: func(in map[string]any) (map[string]any, bool) {
			if countWhere(items(in, "meals"), hasCarbonEstimate) < MinCarbonMeals {
				return map[string]any{
					"comparison":            InsufficientCarbonData,
					"userAverageDailyCF":    0,
					"generalAverageDailyCF": GeneralAverageDailyCF,
				}, true
			}
			return nil, false
		},
		Defaults: func(in, out map[string]any) map[string]any {
			if out["userAverageDailyCF"] == nil {
				out["userAverageDailyCF"] = averageDailyCF(items(in, "meals"))
			}
			if out["generalAverageDailyCF"] == nil {
				out["generalAverageDailyCF"] = GeneralAverageDailyCF
			}
			return out
		},
	}
}
