package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound                 = errors.New("place not found")
	ErrInputMissing             = errors.New("a place name or a photo is required")
	ErrPhotoAnalysisUnavailable = errors.New("photo analysis is not available yet; enter the place name shown in the photo")
	ErrNotAnalyzed              = errors.New("session has no analyzed place")
	ErrSessionNotFound          = errors.New("session not found")
	ErrSessionChanged           = errors.New("session changed while the action was running")
	ErrInvalidPasteResponse     = errors.New("paste service returned an invalid response")
	ErrHistoryDisabled          = errors.New("history is not configured")
)

// PasteResponseError carries the body the paste service sent back instead of a link.
type PasteResponseError struct {
	Body string
}

func (e *PasteResponseError) Error() string {
	return fmt.Sprintf("%s: %q", ErrInvalidPasteResponse, e.Body)
}

func (e *PasteResponseError) Unwrap() error { return ErrInvalidPasteResponse }
