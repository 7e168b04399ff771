package nutrition

import (
	"github.com/phrazzld/nutri-api/internal/flow"
	"github.com/phrazzld/nutri-api/internal/prompt"
	"github.com/phrazzld/nutri-api/internal/schema"
)

// Profile enums.
var (
	Genders        = []string{"male", "female", "other"}
	ActivityLevels = []string{"sedentary", "light", "moderate", "active", "very_active"}
	Goals          = []string{"lose_weight", "maintain", "gain_muscle"}
)

var userProfile = schema.Object(
	schema.Optional("age", schema.Integer().WithRange(1, 120)),
	schema.Optional("gender", schema.Enum(Genders...)),
	schema.Optional("weightKg", schema.Number().WithMin(0)),
	schema.Optional("heightCm", schema.Number().WithMin(0)),
	schema.Optional("activityLevel", schema.Enum(ActivityLevels...)),
	schema.Required("goal", schema.Enum(Goals...)),
	schema.Optional("dietaryPreferences", schema.String()),
)

var recentMeal = schema.Object(
	schema.Required("name", schema.String()),
	schema.Optional("date", schema.String()),
	schema.Optional("calories", schema.Number().WithMin(0)),
	schema.Optional("protein", schema.Number().WithMin(0)),
	schema.Optional("carbohydrates", schema.Number().WithMin(0)),
	schema.Optional("fat", schema.Number().WithMin(0)),
)

var coachInput = schema.Object(
	schema.Required("profile", userProfile),
	schema.Optional("recentMeals", schema.Array(recentMeal)),
)

var goalAdjustment = schema.Object(
	schema.Required("nutrient", schema.String().WithDescription("Nutrient or energy target, e.g. protein.")),
	schema.Optional("currentTarget", schema.String().WithDescription("Current daily target with unit.")),
	schema.Optional("suggestedTarget", schema.String().WithDescription("Suggested daily target with unit.")),
	schema.Required("reason", schema.String()),
)

var coachOutput = schema.Object(
	schema.Required("goalAdjustments", schema.Array(goalAdjustment)),
	schema.Required("mealTimingSuggestions", schema.Array(schema.String())),
	schema.Optional("generalTips", schema.Array(schema.String())),
)

var coachTemplate = prompt.MustParse(FlowCoachRecommendations, `You are an encouraging AI nutrition coach.

User profile:
- Goal: {{profile.goal}}
- Age: {{profile.age | "not provided"}}
- Gender: {{profile.gender | "not provided"}}
- Weight: {{#if profile.weightKg}}{{profile.weightKg}} kg{{else}}not provided{{/if}}
- Height: {{#if profile.heightCm}}{{profile.heightCm}} cm{{else}}not provided{{/if}}
- Activity level: {{profile.activityLevel | "not provided"}}
- Dietary preferences: {{profile.dietaryPreferences | "none"}}

{{#if recentMeals}}Recent meals:
{{#each recentMeals}}- {{date | "recently"}}: {{name}}{{#if calories}}, {{calories}} kcal{{/if}}{{#if protein}}, {{protein}}g protein{{/if}}{{#if carbohydrates}}, {{carbohydrates}}g carbohydrates{{/if}}{{#if fat}}, {{fat}}g fat{{/if}}
{{/each}}{{else}}The user has not logged any recent meals.
{{/if}}
Recommend adjustments to the user's daily nutrition targets that support their goal, each with a short reason. Suggest when to eat meals and snacks. Optionally add a few general tips.`)

func coachDefinition() flow.Definition {
	return flow.Definition{
		Name:        FlowCoachRecommendations,
		Description: "Recommend goal adjustments and meal timing for a user profile.",
		Input:       coachInput,
		Output:      coachOutput,
		Template:    coachTemplate,
		Structured:  true,
		Defaults: func(_, out map[string]any) map[string]any {
			defaultList(out, "goalAdjustments")
			defaultList(out, "mealTimingSuggestions")
			defaultList(out, "generalTips")
			return out
		},
	}
}
