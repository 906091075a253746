package dto

// UploadResponse is returned by the upload endpoint; FileURL points into
// the public blob store.
type UploadResponse struct {
	FileURL string `json:"fileUrl"`
}

// DeleteFileRequest identifies a stored object by the URL the upload
// endpoint previously returned.
type DeleteFileRequest struct {
	FileURL string `json:"fileUrl" validate:"required,url"`
}

type DeleteFileResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
