package nutrition

// Flow names, as exposed over HTTP and the CLI.
const (
	FlowAnalyzeFoodPhoto       = "analyzeFoodPhoto"
	FlowAutoLogMacros          = "autoLogMacros"
	FlowAnalyzeNutrientTrends  = "analyzeNutrientTrends"
	FlowCoachRecommendations   = "coachRecommendations"
	FlowCompareCarbonFootprint = "compareCarbonFootprint"
	FlowGenerateEcoMealPlan    = "generateEcoMealPlan"
	FlowCorrelateFoodMood      = "correlateFoodMood"
	FlowChat                   = "chat"
)

// Fixed responses.
const (
	InsufficientNutrientData = "Log at least 2 meals with detailed nutrient information to see nutrient trends."
	InsufficientCarbonData   = "Log at least 3 meals with a carbon footprint estimate to compare your impact."
	InsufficientMoodData     = "Log your mood with at least 3 meals to discover food-mood patterns."
	ChatApology              = "Sorry, I encountered a problem trying to respond. Please try again."
)

// Pre-check thresholds.
const (
	MinNutrientMeals = 2
	MinCarbonMeals   = 3
	MinMoodMeals     = 3
	MinMoodLogMeals  = 5
)

// GeneralAverageDailyCF is the reference daily food carbon footprint in kg CO2e.
const GeneralAverageDailyCF = 2.5
