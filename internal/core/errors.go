package core

import (
	"errors"
	"fmt"
)

var (
	ErrNoExtractableText = errors.New("no extractable text in any document")
	ErrUnknownRoute      = errors.New("router returned an unknown label")
	ErrSessionNotFound   = errors.New("session not found")
	ErrEmptyQuestion     = errors.New("question is empty")
)

// IngestionError is fatal to one ingestion attempt. A previously built index stays usable.
type IngestionError struct {
	Op  string
	Err error
}

func (e *IngestionError) Error() string {
	return fmt.Sprintf("ingestion failed (%s): %v", e.Op, e.Err)
}

func (e *IngestionError) Unwrap() error {
	return e.Err
}

// GenerationError marks a failed turn. Conversation memory is not touched when it is returned.
type GenerationError struct {
	Stage string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed (%s): %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

func IsIngestionError(err error) bool {
	var ie *IngestionError
	return errors.As(err, &ie)
}

func IsGenerationError(err error) bool {
	var ge *GenerationError
	return errors.As(err, &ge)
}
