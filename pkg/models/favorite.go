package models

import (
	"encoding/json"
	"time"
)

// FavoriteRecord is the server-side record of a favorited item
type FavoriteRecord struct {
	ID              string    `json:"id"`
	ItemID          string    `json:"item_id"`
	ItemType        ItemType  `json:"item_type"`
	ItemName        string    `json:"item_name"`
	ItemDescription *string   `json:"item_description,omitempty"`
	ItemAuthor      *string   `json:"item_author,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// ToggleRequest is the payload of a favorite toggle
type ToggleRequest struct {
	ItemID          string   `json:"item_id"`
	ItemType        ItemType `json:"item_type"`
	ItemName        string   `json:"item_name"`
	ItemDescription *string  `json:"item_description,omitempty"`
	ItemAuthor      *string  `json:"item_author,omitempty"`
}

// ToggleResult is the authoritative answer to a toggle
type ToggleResult struct {
	IsFavorited bool    `json:"is_favorited"`
	Message     string  `json:"message"`
	FavoriteID  *string `json:"favorite_id,omitempty"`
}

const (
	MessageFavoriteAdded   = "Added to favorites"
	MessageFavoriteRemoved = "Removed from favorites"
)

// NewToggleRequest builds a toggle request for an item. Description and
// author are only sent when present.
func NewToggleRequest(item *CatalogItem) ToggleRequest {
	req := ToggleRequest{
		ItemID:   item.ID,
		ItemType: item.Type,
		ItemName: item.Name,
	}
	if item.Description != "" {
		d := item.Description
		req.ItemDescription = &d
	}
	if username, ok := item.Username(); ok {
		req.ItemAuthor = &username
	}
	return req
}

// NewFlow is the workspace payload for a grabbed item
type NewFlow struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Data        json.RawMessage `json:"data"`
	FolderID    *string         `json:"folder_id"`
	IsComponent bool            `json:"is_component"`
}

// Flow is an entity in the user's workspace
type Flow struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Data        json.RawMessage `json:"data,omitempty"`
	FolderID    *string         `json:"folder_id,omitempty"`
	IsComponent bool            `json:"is_component"`
	CreatedAt   time.Time       `json:"created_at"`
}
