package app

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrIndexNotReady       = errors.New("vector store not initialized")
	ErrGeneratorNotReady   = errors.New("language model not initialized")
	ErrTranscriptsDisabled = errors.New("chat transcripts are disabled")
)
