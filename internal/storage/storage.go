package storage

import "errors"

var (
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrRoomExists         = errors.New("room with this name already exists")
	ErrRoomNotFound       = errors.New("room not found")
	ErrNoImages           = errors.New("room must have at least one image")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

var (
	ErrFileTooLarge    = errors.New("file size exceeds limit")
	ErrInvalidFileType = errors.New("invalid file type")
	ErrFileNotFound    = errors.New("file not found")
)
