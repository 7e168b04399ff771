package nutrition

import (
	"github.com/phrazzld/nutri-api/internal/flow"
	"github.com/phrazzld/nutri-api/internal/prompt"
	"github.com/phrazzld/nutri-api/internal/schema"
)

var photoDataURI = schema.String().WithMinLength(1).
	WithDescription("A photo of a meal, as a data URI: data:<mimetype>;base64,<encoded_data>.")

var nutrientEntry = schema.Object(
	schema.Required("name", schema.String().WithDescription("Nutrient name, e.g. Vitamin C.")),
	schema.Required("value", schema.Number().WithMin(0)),
	schema.Required("unit", schema.String().WithDescription("Unit of value, e.g. mg.")),
	schema.Optional("rdaPercent", schema.Number().WithMin(0).
		WithDescription("Share of the recommended daily allowance, in percent.")),
)

var foodPhotoInput = schema.Object(
	schema.Required("photoDataUri", photoDataURI),
)

var foodPhotoOutput = schema.Object(
	schema.Required("estimatedCalories", schema.Number().WithMin(0).
		WithDescription("Estimated total calories of the meal.")),
	schema.Required("nutritionSummary", schema.String().
		WithDescription("A short summary of the meal's nutritional profile.")),
	schema.Required("nutrients", schema.Array(nutrientEntry).
		WithDescription("Main nutrients with their estimated amounts.")),
)

var foodPhotoTemplate = prompt.MustParse(FlowAnalyzeFoodPhoto, `You are an expert nutritionist analyzing a photo of a meal.

Estimate the total calories of everything visible in the photo, then write a short summary of the meal's nutritional profile.
List the main nutrients (macronutrients, notable vitamins and minerals) with an estimated value and unit for each. Where a recommended daily allowance exists, include the percentage of it the meal provides.
If the photo does not show food, estimate 0 calories and say so in the summary.`)

func foodPhotoDefinition() flow.Definition {
	return flow.Definition{
		Name:        FlowAnalyzeFoodPhoto,
		Description: "Estimate calories and nutrients from a meal photo.",
		Input:       foodPhotoInput,
		Output:      foodPhotoOutput,
		Template:    foodPhotoTemplate,
		Structured:  true,
		Media:       photoMedia,
		Defaults: func(_, out map[string]any) map[string]any {
			defaultList(out, "nutrients")
			return out
		},
	}
}

var autoLogInput = schema.Object(
	schema.Required("photoDataUri", photoDataURI),
	schema.Optional("mealDescription", schema.String().
		WithDescription("Optional text the user added about the meal.")),
)

var autoLogOutput = schema.Object(
	schema.Required("mealName", schema.String().WithDescription("A short name for the meal.")),
	schema.Required("calories", schema.Number().WithMin(0)),
	schema.Required("protein", schema.Number().WithMin(0).WithDescription("Grams of protein.")),
	schema.Required("carbohydrates", schema.Number().WithMin(0).WithDescription("Grams of carbohydrates.")),
	schema.Required("fat", schema.Number().WithMin(0).WithDescription("Grams of fat.")),
	schema.OptionalDefault("foodItems", schema.Array(schema.String()), []any{}),
)

var autoLogTemplate = prompt.MustParse(FlowAutoLogMacros, `You are a nutrition assistant that logs meals from photos.

{{#if mealDescription}}The user describes the meal as: "{{mealDescription}}"
{{/if}}Identify the meal in the photo and give it a short name. Estimate its calories and its protein, carbohydrate and fat content in grams. List the individual food items you can see.`)

func autoLogDefinition() flow.Definition {
	return flow.Definition{
		Name:        FlowAutoLogMacros,
		Description: "Identify a meal from a photo and estimate its macros for logging.",
		Input:       autoLogInput,
		Output:      autoLogOutput,
		Template:    autoLogTemplate,
		Structured:  true,
		Media:       photoMedia,
	}
}
