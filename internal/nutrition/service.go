package nutrition

import (
	"context"
	"fmt"

	"github.com/phrazzld/nutri-api/internal/flow"
	"golang.org/x/sync/errgroup"
)

// Service exposes the nutrition flows with typed requests and responses.
type Service struct {
	registry *flow.Registry
}

// NewService wraps a registry built by NewRegistry.
func NewService(registry *flow.Registry) *Service {
	return &Service{registry: registry}
}

// Registry returns the underlying flow registry.
func (s *Service) Registry() *flow.Registry {
	return s.registry
}

func run[In, Out any](ctx context.Context, s *Service, name string, in In) (*Out, error) {
	f, err := s.registry.Get(name)
	if err != nil {
		return nil, err
	}
	out, err := flow.Run[In, Out](ctx, f, in)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// AnalyzeFoodPhoto estimates calories and nutrients from a meal photo.
func (s *Service) AnalyzeFoodPhoto(ctx context.Context, req FoodPhotoRequest) (*FoodPhotoAnalysis, error) {
	return run[FoodPhotoRequest, FoodPhotoAnalysis](ctx, s, FlowAnalyzeFoodPhoto, req)
}

// AutoLogMacros identifies a meal from a photo and estimates its macros.
func (s *Service) AutoLogMacros(ctx context.Context, req AutoLogRequest) (*MacroLog, error) {
	return run[AutoLogRequest, MacroLog](ctx, s, FlowAutoLogMacros, req)
}

// AnalyzeNutrientTrends describes nutrient trends across logged meals.
func (s *Service) AnalyzeNutrientTrends(ctx context.Context, req NutrientTrendsRequest) (*NutrientTrends, error) {
	return run[NutrientTrendsRequest, NutrientTrends](ctx, s, FlowAnalyzeNutrientTrends, req)
}

// CoachRecommendations recommends target adjustments for a profile.
func (s *Service) CoachRecommendations(ctx context.Context, req CoachRequest) (*CoachRecommendations, error) {
	return run[CoachRequest, CoachRecommendations](ctx, s, FlowCoachRecommendations, req)
}

// CompareCarbonFootprint compares the user's footprint with a typical diet.
func (s *Service) CompareCarbonFootprint(ctx context.Context, req CarbonRequest) (*CarbonComparison, error) {
	return run[CarbonRequest, CarbonComparison](ctx, s, FlowCompareCarbonFootprint, req)
}

// GenerateEcoMealPlan builds a low-carbon meal plan.
func (s *Service) GenerateEcoMealPlan(ctx context.Context, req EcoPlanRequest) (*EcoMealPlan, error) {
	return run[EcoPlanRequest, EcoMealPlan](ctx, s, FlowGenerateEcoMealPlan, req)
}

// CorrelateFoodMood looks for patterns between meals and mood.
func (s *Service) CorrelateFoodMood(ctx context.Context, req FoodMoodRequest) (*FoodMoodCorrelation, error) {
	return run[FoodMoodRequest, FoodMoodCorrelation](ctx, s, FlowCorrelateFoodMood, req)
}

// Chat answers a chat message. Model failures yield ChatApology rather than
// an error.
func (s *Service) Chat(ctx context.Context, req ChatRequest) (*ChatReply, error) {
	return run[ChatRequest, ChatReply](ctx, s, FlowChat, req)
}

// AnalyzeMeal runs photo analysis and macro auto-logging for the same photo
// concurrently and joins the results. The first failure cancels the other
// call's context.
func (s *Service) AnalyzeMeal(ctx context.Context, photoDataURI, description string) (*MealAnalysis, error) {
	var result MealAnalysis

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		photo, err := s.AnalyzeFoodPhoto(gctx, FoodPhotoRequest{PhotoDataURI: photoDataURI})
		if err != nil {
			return fmt.Errorf("photo analysis: %w", err)
		}
		result.Photo = photo
		return nil
	})
	g.Go(func() error {
		macros, err := s.AutoLogMacros(gctx, AutoLogRequest{PhotoDataURI: photoDataURI, MealDescription: description})
		if err != nil {
			return fmt.Errorf("macro logging: %w", err)
		}
		result.Macros = macros
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &result, nil
}
