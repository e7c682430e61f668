// Package domain holds DTOs for the feedback http contract
package domain

// ReportInput is the contamination report body
type ReportInput struct {
	SourceLang    string `json:"source_lang" validate:"required,bcp47_language_tag" example:"fr"`
	TargetLang    string `json:"target_lang" validate:"required,bcp47_language_tag,nefield=SourceLang" example:"ar"`
	SourceText    string `json:"source_text,omitempty" validate:"omitempty,max=20000"`
	DisplayedText string `json:"displayed_text" validate:"required,min=1,max=20000"`
	Note          string `json:"note,omitempty" validate:"omitempty,max=2000" example:"english interface text in my translation"`
}

// StatusInput looks up one report by ID
type StatusInput struct {
	ReportID string `json:"report_id" validate:"required,min=4,max=64" example:"fb-5f0c4fb0-9f2a-4b6e-9f57-2f4f3a1c9d11"`
}
