package domain

import "time"

// Result sources. Provider backed results use the provider name.
const (
	SourceLocal = "local"
)

// ProductSuggestion is a catalog piece similar to the request.
type ProductSuggestion struct {
	Name       string `json:"name"`
	BasePrice  int64  `json:"base_price"`
	Similarity int    `json:"similarity"`
}

// TechnicalProfile summarises physical characteristics of the piece.
type TechnicalProfile struct {
	VolumeM3            float64  `json:"volume_m3"`
	WeightKg            float64  `json:"weight_kg"`
	Complexity          float64  `json:"complexity"`
	CompatibleMaterials []string `json:"compatible_materials"`
	ComplementaryColors []string `json:"complementary_colors"`
}

// TextOverride carries the structured fields an external text provider
// returned. Nil or empty fields keep the local computation.
type TextOverride struct {
	Provider         string              `json:"provider"`
	Text             string              `json:"text,omitempty"`
	Cost             *CostEstimate       `json:"cost,omitempty"`
	Duration         *DurationEstimate   `json:"duration,omitempty"`
	Layout           *Layout             `json:"layout,omitempty"`
	SimilarProducts  []ProductSuggestion `json:"similar_products,omitempty"`
	FabricationSteps []string            `json:"fabrication_steps,omitempty"`
}

// RecommendationResult is the full answer to a ConfigurationRequest. It is
// not modified after construction.
type RecommendationResult struct {
	ID               string               `json:"id"`
	UserID           string               `json:"user_id,omitempty"`
	Country          string               `json:"country,omitempty"`
	Source           string               `json:"source"`
	Text             string               `json:"text"`
	Cost             CostEstimate         `json:"cost"`
	Duration         DurationEstimate     `json:"duration"`
	Layout           Layout               `json:"layout"`
	SimilarProducts  []ProductSuggestion  `json:"similar_products"`
	Technical        TechnicalProfile     `json:"technical"`
	FabricationSteps []string             `json:"fabrication_steps"`
	AdditionalTips   []string             `json:"additional_tips"`
	ImageJobID       *string              `json:"image_job_id"`
	ImagePrompt      string               `json:"image_prompt,omitempty"`
	Request          ConfigurationRequest `json:"request"`
	CreatedAt        time.Time            `json:"created_at"`
}
