package domain

import "errors"

var (
	ErrNotFound           = errors.New("asset not found")
	ErrAlbumNotFound      = errors.New("album not found")
	ErrUnrecognizedParam  = errors.New("unrecognized parameter")
	ErrInvalidParam       = errors.New("invalid parameter")
	ErrIndexOutOfRange    = errors.New("index out of range")
	ErrEditionUnavailable = errors.New("edition data unavailable")
	ErrInvalidChange      = errors.New("invalid asset change")
	ErrDuplicateAsset     = errors.New("asset already in library")
	ErrUnsupportedMedia   = errors.New("unsupported media type")
)
