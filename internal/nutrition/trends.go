package nutrition

import (
	"github.com/phrazzld/nutri-api/internal/flow"
	"github.com/phrazzld/nutri-api/internal/prompt"
	"github.com/phrazzld/nutri-api/internal/schema"
)

var loggedNutrient = schema.Object(
	schema.Required("name", schema.String()),
	schema.Required("value", schema.Number().WithMin(0)),
	schema.Required("unit", schema.String()),
)

var loggedMeal = schema.Object(
	schema.Required("name", schema.String()),
	schema.Required("date", schema.String().WithDescription("Date the meal was eaten, YYYY-MM-DD.")),
	schema.Required("calories", schema.Number().WithMin(0)),
	schema.Required("protein", schema.Number().WithMin(0)),
	schema.Required("carbohydrates", schema.Number().WithMin(0)),
	schema.Required("fat", schema.Number().WithMin(0)),
	schema.Optional("nutrients", schema.Array(loggedNutrient)),
)

var dailyGoals = schema.Object(
	schema.Optional("calories", schema.Number().WithMin(0)),
	schema.Optional("protein", schema.Number().WithMin(0)),
	schema.Optional("carbohydrates", schema.Number().WithMin(0)),
	schema.Optional("fat", schema.Number().WithMin(0)),
)

var trendsInput = schema.Object(
	schema.Required("meals", schema.Array(loggedMeal)),
	schema.Optional("goals", dailyGoals),
)

var trendsOutput = schema.Object(
	schema.Required("insight", schema.String()),
)

var trendsTemplate = prompt.MustParse(FlowAnalyzeNutrientTrends, `You are a registered dietitian reviewing a user's food log.

Recent meals:
{{#each meals}}- {{date}}: {{name}}, {{calories}} kcal, {{protein}}g protein, {{carbohydrates}}g carbohydrates, {{fat}}g fat{{#if nutrients}} (nutrients: {{#each nutrients}}{{name}} {{value}}{{unit}}{{#unless @last}}, {{/unless}}{{/each}}){{/if}}
{{/each}}
{{#if goals}}Daily goals (kcal and grams): calories {{goals.calories | "not set"}}, protein {{goals.protein | "not set"}}, carbohydrates {{goals.carbohydrates | "not set"}}, fat {{goals.fat | "not set"}}.{{else}}The user has not set daily goals.{{/if}}

In one short paragraph, describe the most important trends in the user's nutrient intake, such as consistent shortfalls or excesses. Compare against the goals when they are set. Be encouraging and specific.`)

// hasNutrients reports whether a logged meal carries a detailed breakdown.
func hasNutrients(meal map[string]any) bool {
	return len(items(meal, "nutrients")) > 0
}

func trendsDefinition() flow.Definition {
	return flow.Definition{
		Name:        FlowAnalyzeNutrientTrends,
		Description: "Describe trends in nutrient intake across recent meals.",
		Input:       trendsInput,
		Output:      trendsOutput,
		Template:    trendsTemplate,
		PreCheck: func(in map[string]any) (map[string]any, bool) {
			if countWhere(items(in, "meals"), hasNutrients) < MinNutrientMeals {
				return map[string]any{"insight": InsufficientNutrientData}, true
			}
			return nil, false
		},
	}
}
