// Package domain holds DTOs for the translate http contract
package domain

// TranslateInput is the translation request body
type TranslateInput struct {
	SourceText string `json:"source_text" validate:"required,min=1,max=20000" example:"Le contrat définit les conditions entre les parties"`
	SourceLang string `json:"source_lang" validate:"required,bcp47_language_tag" example:"fr"`
	TargetLang string `json:"target_lang" validate:"required,bcp47_language_tag,nefield=SourceLang" example:"ar"`
	DomainHint string `json:"domain_hint,omitempty" validate:"omitempty,min=2,max=64" example:"contracts"`
}
