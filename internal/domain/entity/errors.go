package entity

import "errors"

var (
	ErrEmptyImage       = errors.New("empty image")
	ErrUndecodableImage = errors.New("failed to decode image")
)
