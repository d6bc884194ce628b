package domain

import "errors"

var (
	ErrBadRequest = errors.New("bad request")
	ErrUpload     = errors.New("object upload failed")
	ErrStoreRead  = errors.New("record store read failed")
	ErrStoreWrite = errors.New("record store write failed")
)
