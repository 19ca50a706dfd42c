package classifyleadneed

// Input.Message may hold any JSON value; only strings are classified.
type Input struct {
	Message interface{} `json:"message"`
}

type Output struct {
	Need string `json:"need"`
}
