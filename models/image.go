package models

import "time"

// ImageMetadata is the index record of one stored image. It is created once by an
// upload and never updated; the object it describes lives at R2Key.
type ImageMetadata struct {
	ID               string    `json:"id"`
	Filename         string    `json:"filename"`
	OriginalFilename string    `json:"originalFilename"`
	Size             int64     `json:"size"`
	ContentType      string    `json:"contentType"`
	UploadTime       time.Time `json:"uploadTime"`
	R2Key            string    `json:"r2Key"`
}

type ImageListResponse struct {
	Images []ImageMetadata `json:"images"`
	Total  int             `json:"total"`
}

type UploadResponse struct {
	Success bool           `json:"success"`
	Image   *ImageMetadata `json:"image,omitempty"`
}

type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
