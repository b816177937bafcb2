package model

// LabeledReview is a review text with its known star rating, used to
// evaluate rating prediction prompts.
type LabeledReview struct {
	Text  string
	Stars int
}

// Prediction is the parsed result of a single rating prediction.
// Valid is false when the model output contained no usable JSON object.
type Prediction struct {
	Stars       int
	Explanation string
	Valid       bool
}
