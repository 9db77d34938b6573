package model

// StartRunRequest is the payload for starting a new assessment run.
type StartRunRequest struct {
	Name           string `json:"name" binding:"required,notblank,max=120"`
	SelfAssessment *int   `json:"self_assessment" binding:"required,min=0,max=3"`
}

// RecordAnswerRequest is the payload for answering one question.
// A pointer keeps a scenario weight of 0 distinguishable from a missing value.
type RecordAnswerRequest struct {
	Value *int `json:"value" binding:"required"`
}

// AdminLoginRequest is the payload for exchanging the admin key for a token.
type AdminLoginRequest struct {
	Key string `json:"key" binding:"required,min=8,max=200"`
}
