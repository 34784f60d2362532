package dto

// NextNCFRequest asks the issuer for the next fiscal number of a doc type.
type NextNCFRequest struct {
	DocType string `json:"doc_type" validate:"required,len=2"`
}

type NextNCFResponse struct {
	SequenceID    string `json:"sequence_id"`
	NCF           string `json:"ncf"`
	CurrentNumber int64  `json:"current_number"`
}

type CreateSequenceRequest struct {
	DocType   string `json:"doc_type"   validate:"required,len=2"`
	Prefix    string `json:"prefix"     validate:"omitempty,max=4"`
	MaxNumber *int64 `json:"max_number" validate:"omitempty,min=1"`
}

type SequenceResponse struct {
	ID            string `json:"id"`
	DocType       string `json:"doc_type"`
	Prefix        string `json:"prefix"`
	CurrentNumber int64  `json:"current_number"`
	MaxNumber     *int64 `json:"max_number,omitempty"`
	Active        bool   `json:"active"`
}
