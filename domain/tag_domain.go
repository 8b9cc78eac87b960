package domain

import "errors"

var (
	MessageSuccessGetTags   = "success get tags"
	MessageSuccessGetTag    = "success get tag"
	MessageSuccessCreateTag = "tag created successfully"
	MessageSuccessUpdateTag = "tag updated successfully"
	MessageSuccessDeleteTag = "tag deleted successfully"

	MessageFailedGetTags   = "failed to get tags"
	MessageFailedGetTag    = "failed to get tag"
	MessageFailedCreateTag = "failed to create tag"
	MessageFailedUpdateTag = "failed to update tag"
	MessageFailedDeleteTag = "failed to delete tag"

	ErrTagNotFound = errors.New("tag not found")
	ErrTagExists   = errors.New("tag with this name or slug already exists")
)

type (
	CreateTagRequest struct {
		Name  string `json:"name" validate:"required,max=32"`
		Color string `json:"color" validate:"required,hex_color"`
		Slug  string `json:"slug" validate:"required,max=50,slug"`
	}

	UpdateTagRequest struct {
		Name  string `json:"name" validate:"omitempty,max=32"`
		Color string `json:"color" validate:"omitempty,hex_color"`
		Slug  string `json:"slug" validate:"omitempty,max=50,slug"`
	}

	TagResponse struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Color string `json:"color"`
		Slug  string `json:"slug"`
	}
)
