package domain

import "context"

// TranslatorPort is the gateway's external surface
type TranslatorPort interface {
	Translate(ctx context.Context, req Request) (Result, error)
}
