package recommendleadaction

// Input.Category accepts a bare category ("Hot") or its label ("🟢 Hot").
type Input struct {
	Category string `json:"category"`
}

type Output struct {
	Recommendation string `json:"recommendation"`
}
