package models

import "collabBoard/internal/enums"

type CreateWhiteboardRequest struct {
	Name      string  `json:"name"`
	IsPublic  bool    `json:"is_public"`
	ShareCode *string `json:"share_code"`
}

type UpdateWhiteboardRequest struct {
	Name       *string `json:"name"`
	IsArchived *bool   `json:"is_archived"`
	IsPublic   *bool   `json:"is_public"`
}

type ShareWhiteboardRequest struct {
	UserID          uint                  `json:"user_id"`
	PermissionLevel enums.PermissionLevel `json:"permission_level"`
}

type ShareWhiteboardResponse struct {
	Permission WhiteboardPermission `json:"permission"`
	Created    bool                 `json:"created"`
}

type UploadImageResponse struct {
	URL string `json:"url"`
}
