package nutrition

// FoodPhotoRequest is the input of analyzeFoodPhoto.
type FoodPhotoRequest struct {
	PhotoDataURI string `json:"photoDataUri"`
}

// Nutrient is one entry of a photo analysis.
type Nutrient struct {
	Name       string   `json:"name"`
	Value      float64  `json:"value"`
	Unit       string   `json:"unit"`
	RDAPercent *float64 `json:"rdaPercent,omitempty"`
}

// FoodPhotoAnalysis is the output of analyzeFoodPhoto.
type FoodPhotoAnalysis struct {
	EstimatedCalories float64    `json:"estimatedCalories"`
	NutritionSummary  string     `json:"nutritionSummary"`
	Nutrients         []Nutrient `json:"nutrients"`
}

// AutoLogRequest is the input of autoLogMacros.
type AutoLogRequest struct {
	PhotoDataURI    string `json:"photoDataUri"`
	MealDescription string `json:"mealDescription,omitempty"`
}

// MacroLog is the output of autoLogMacros.
type MacroLog struct {
	MealName      string   `json:"mealName"`
	Calories      float64  `json:"calories"`
	Protein       float64  `json:"protein"`
	Carbohydrates float64  `json:"carbohydrates"`
	Fat           float64  `json:"fat"`
	FoodItems     []string `json:"foodItems"`
}

// MealAnalysis joins the photo analysis and macro log of one meal photo.
type MealAnalysis struct {
	Photo  *FoodPhotoAnalysis `json:"photo"`
	Macros *MacroLog          `json:"macros"`
}

// LoggedNutrient is a detailed nutrient entry of a logged meal.
type LoggedNutrient struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// LoggedMeal is a meal from the user's food log.
type LoggedMeal struct {
	Name          string           `json:"name"`
	Date          string           `json:"date"`
	Calories      float64          `json:"calories"`
	Protein       float64          `json:"protein"`
	Carbohydrates float64          `json:"carbohydrates"`
	Fat           float64          `json:"fat"`
	Nutrients     []LoggedNutrient `json:"nutrients,omitempty"`
}

// DailyGoals are optional daily targets.
type DailyGoals struct {
	Calories      *float64 `json:"calories,omitempty"`
	Protein       *float64 `json:"protein,omitempty"`
	Carbohydrates *float64 `json:"carbohydrates,omitempty"`
	Fat           *float64 `json:"fat,omitempty"`
}

// NutrientTrendsRequest is the input of analyzeNutrientTrends.
type NutrientTrendsRequest struct {
	Meals []LoggedMeal `json:"meals"`
	Goals *DailyGoals  `json:"goals,omitempty"`
}

// NutrientTrends is the output of analyzeNutrientTrends.
type NutrientTrends struct {
	Insight string `json:"insight"`
}

// Profile describes the user for coaching.
type Profile struct {
	Age                int     `json:"age,omitempty"`
	Gender             string  `json:"gender,omitempty"`
	WeightKg           float64 `json:"weightKg,omitempty"`
	HeightCm           float64 `json:"heightCm,omitempty"`
	ActivityLevel      string  `json:"activityLevel,omitempty"`
	Goal               string  `json:"goal"`
	DietaryPreferences string  `json:"dietaryPreferences,omitempty"`
}

// RecentMeal is a loosely described recent meal.
type RecentMeal struct {
	Name          string   `json:"name"`
	Date          string   `json:"date,omitempty"`
	Calories      *float64 `json:"calories,omitempty"`
	Protein       *float64 `json:"protein,omitempty"`
	Carbohydrates *float64 `json:"carbohydrates,omitempty"`
	Fat           *float64 `json:"fat,omitempty"`
}

// CoachRequest is the input of coachRecommendations.
type CoachRequest struct {
	Profile     Profile      `json:"profile"`
	RecentMeals []RecentMeal `json:"recentMeals,omitempty"`
}

// GoalAdjustment is one recommended target change.
type GoalAdjustment struct {
	Nutrient        string `json:"nutrient"`
	CurrentTarget   string `json:"currentTarget,omitempty"`
	SuggestedTarget string `json:"suggestedTarget,omitempty"`
	Reason          string `json:"reason"`
}

// CoachRecommendations is the output of coachRecommendations.
type CoachRecommendations struct {
	GoalAdjustments       []GoalAdjustment `json:"goalAdjustments"`
	MealTimingSuggestions []string         `json:"mealTimingSuggestions"`
	GeneralTips           []string         `json:"generalTips"`
}

// CarbonMeal is a logged meal with an optional footprint estimate.
type CarbonMeal struct {
	Name              string   `json:"name"`
	Date              string   `json:"date"`
	CarbonFootprintKg *float64 `json:"carbonFootprintKg,omitempty"`
}

// CarbonRequest is the input of compareCarbonFootprint.
type CarbonRequest struct {
	Meals []CarbonMeal `json:"meals"`
}

// CarbonComparison is the output of compareCarbonFootprint.
type CarbonComparison struct {
	Comparison            string  `json:"comparison"`
	UserAverageDailyCF    float64 `json:"userAverageDailyCF"`
	GeneralAverageDailyCF float64 `json:"generalAverageDailyCF"`
}

// EcoPlanRequest is the input of generateEcoMealPlan. A zero DurationDays
// uses the default of three days.
type EcoPlanRequest struct {
	DietProfile  string `json:"dietProfile"`
	Restrictions string `json:"restrictions,omitempty"`
	DurationDays int    `json:"durationDays,omitempty"`
}

// PlannedMeal is one meal of an eco meal plan.
type PlannedMeal struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	LowCarbonScore int    `json:"lowCarbonScore"`
}

// PlanDay is one day of an eco meal plan.
type PlanDay struct {
	Day   int           `json:"day"`
	Meals []PlannedMeal `json:"meals"`
}

// EcoMealPlan is the output of generateEcoMealPlan.
type EcoMealPlan struct {
	Title       string    `json:"title,omitempty"`
	MealPlan    []PlanDay `json:"mealPlan"`
	GroceryList []string  `json:"groceryList"`
}

// MoodMeal is a logged meal with an optional mood tag.
type MoodMeal struct {
	Name     string   `json:"name"`
	Date     string   `json:"date"`
	Mood     string   `json:"mood,omitempty"`
	Calories *float64 `json:"calories,omitempty"`
}

// FoodMoodRequest is the input of correlateFoodMood.
type FoodMoodRequest struct {
	Meals []MoodMeal `json:"meals"`
}

// FoodMoodCorrelation is the output of correlateFoodMood.
type FoodMoodCorrelation struct {
	Insights       []string `json:"insights"`
	SufficientData bool     `json:"sufficientData"`
}

// ChatTurn is one prior chat message.
type ChatTurn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// ChatRequest is the input of chat.
type ChatRequest struct {
	UserMessage string     `json:"userMessage"`
	ChatHistory []ChatTurn `json:"chatHistory,omitempty"`
}

// ChatReply is the output of chat.
type ChatReply struct {
	AIResponse string `json:"aiResponse"`
}
