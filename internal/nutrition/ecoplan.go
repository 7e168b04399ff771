package nutrition

import (
	"fmt"
	"maps"

	"github.com/phrazzld/nutri-api/internal/flow"
	"github.com/phrazzld/nutri-api/internal/prompt"
	"github.com/phrazzld/nutri-api/internal/schema"
)

// DietProfiles are the supported eco meal-plan diets.
var DietProfiles = []string{"omnivore", "vegetarian", "vegan", "pescatarian", "flexitarian"}

// Meal plan bounds.
const (
	MinPlanDays     = 1
	MaxPlanDays     = 7
	DefaultPlanDays = 3
	MealsPerDay     = 3
)

var ecoPlanInput = schema.Object(
	schema.Required("dietProfile", schema.Enum(DietProfiles...)),
	schema.Optional("restrictions", schema.String().
		WithDescription("Allergies, dislikes or other restrictions, free text.")),
	schema.OptionalDefault("durationDays", schema.Integer().WithRange(MinPlanDays, MaxPlanDays), DefaultPlanDays),
)

var plannedMeal = schema.Object(
	schema.Required("name", schema.String()),
	schema.Required("description", schema.String()),
	schema.Required("lowCarbonScore", schema.Integer().WithRange(1, 5).
		WithDescription("1 = high footprint, 5 = very low footprint.")),
)

var planDay = schema.Object(
	schema.Required("day", schema.Integer().WithMin(1)),
	schema.Required("meals", schema.Array(plannedMeal).WithLength(MealsPerDay, MealsPerDay)),
)

var ecoPlanOutput = schema.Object(
	schema.Optional("title", schema.String()),
	schema.Required("mealPlan", schema.Array(planDay).WithMinItems(1)),
	schema.Required("groceryList", schema.Array(schema.String())),
)

var ecoPlanTemplate = prompt.MustParse(FlowGenerateEcoMealPlan, `You are a chef who specializes in low-carbon, seasonal cooking.

Create a {{durationDays}}-day meal plan for a {{dietProfile}} diet.
Restrictions: {{restrictions | "none"}}

Every day must have exactly 3 meals: breakfast, lunch and dinner. For each meal give a name, a one-sentence description and a low-carbon score from 1 (high footprint) to 5 (very low footprint). Favour plant-rich, local and seasonal ingredients.
Finish with a consolidated grocery list for the whole plan and give the plan a short title.`)

// trimPlan keeps the first durationDays days and numbers them from 1.
func trimPlan(in, out map[string]any) (map[string]any, error) {
	days := DefaultPlanDays
	if d, ok := in["durationDays"].(float64); ok {
		days = int(d)
	}

	plan := items(out, "mealPlan")
	if len(plan) < days {
		return nil, fmt.Errorf("meal plan has %d days, want %d", len(plan), days)
	}

	trimmed := make([]any, days)
	for i := range trimmed {
		day, ok := plan[i].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("meal plan day %d is not an object", i+1)
		}
		day = maps.Clone(day)
		day["day"] = float64(i + 1)
		trimmed[i] = day
	}

	out = maps.Clone(out)
	out["mealPlan"] = trimmed
	return out, nil
}

func ecoPlanDefinition() flow.Definition {
	return flow.Definition{
		Name:        FlowGenerateEcoMealPlan,
		Description: "Generate a low-carbon meal plan with a grocery list.",
		Input:       ecoPlanInput,
		Output:      ecoPlanOutput,
		Template:    ecoPlanTemplate,
		Structured:  true,
		Defaults: func(_, out map[string]any) map[string]any {
			defaultList(out, "groceryList")
			return out
		},
		Finalize: trimPlan,
	}
}
