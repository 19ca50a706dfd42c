package categorizelead

// Input.LeadScore is nil when the score is absent. JSON numbers decode as
// float64; a non-integral value is treated as absent.
type Input struct {
	LeadScore *float64 `json:"leadScore"`
}

type Output struct {
	Category      string `json:"category"`
	CategoryLabel string `json:"categoryLabel"`
}
