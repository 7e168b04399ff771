package nutrition

import (
	"github.com/phrazzld/nutri-api/internal/flow"
	"github.com/phrazzld/nutri-api/internal/prompt"
	"github.com/phrazzld/nutri-api/internal/schema"
)

// Moods a meal can be tagged with.
var Moods = []string{"happy", "neutral", "sad"}

var moodMeal = schema.Object(
	schema.Required("name", schema.String()),
	schema.Required("date", schema.String()),
	schema.Optional("mood", schema.Enum(Moods...).WithDescription("How the user felt after the meal.")),
	schema.Optional("calories", schema.Number().WithMin(0)),
)

var moodInput = schema.Object(
	schema.Required("meals", schema.Array(moodMeal).WithMinItems(MinMoodLogMeals)),
)

var moodOutput = schema.Object(
	schema.Required("insights", schema.Array(schema.String())),
	schema.Required("sufficientData", schema.Boolean()),
)

var moodTemplate = prompt.MustParse(FlowCorrelateFoodMood, `You are a supportive wellbeing coach looking for links between food and mood.

Meals and the mood the user reported afterwards:
{{#each meals}}{{#if mood}}- {{date}}: {{name}}{{#if calories}} ({{calories}} kcal){{/if}}, felt {{mood}}
{{/if}}{{/each}}
Identify up to three gentle, tentative patterns between what the user ate and how they felt. Avoid medical claims. If there is no clear pattern, return no insights and set sufficientData to false.`)

func hasMood(meal map[string]any) bool {
	return has(meal, "mood")
}

func moodDefinition() flow.Definition {
	return flow.Definition{
		Name:        FlowCorrelateFoodMood,
		Description: "Find patterns between logged meals and reported mood.",
		Input:       moodInput,
		Output:      moodOutput,
		Template:    moodTemplate,
		Structured:  true,
		PreCheck: func(in map[string]any) (map[string]any, bool) {
			if countWhere(items(in, "meals"), hasMood) < MinMoodMeals {
				return map[string]any{
					"insights":       []any{InsufficientMoodData},
					"sufficientData": false,
				}, true
			}
			return nil, false
		},
		Defaults: func(_, out map[string]any) map[string]any {
			defaultList(out, "insights")
			if out["sufficientData"] == nil {
				list, _ := out["insights"].([]any)
				out["sufficientData"] = len(list) > 0
			}
			return out
		},
	}
}
