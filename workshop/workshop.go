// Package workshop describes the Steam Workshop metadata the launcher
// consumes and how it gets requested without blocking a rescan.
package workshop

import (
	"context"
	"strconv"
	"time"
)

// Item is the published file details of one workshop item.
type Item struct {
	PublishedFileID uint64   `json:"published_file_id"`
	CreatorAppID    *uint32  `json:"creator_app_id,omitempty"`
	ConsumerAppID   *uint32  `json:"consumer_app_id,omitempty"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Owner           uint64   `json:"owner"`
	TimeCreated     uint32   `json:"time_created"`
	TimeUpdated     uint32   `json:"time_updated"`
	Banned          bool     `json:"banned"`
	Tags            []string `json:"tags"`
	FileName        string   `json:"file_name"`
	FileSize        uint32   `json:"file_size"`
	URL             string   `json:"url"`
	NumUpvotes      uint32   `json:"num_upvotes"`
	NumDownvotes    uint32   `json:"num_downvotes"`
	NumChildren     uint32   `json:"num_children"`
}

// SteamID is the published file id as stored on catalog mods.
func (i Item) SteamID() string {
	return strconv.FormatUint(i.PublishedFileID, 10)
}

// OwnerID is the creator's account id as stored on catalog mods.
func (i Item) OwnerID() string {
	if i.Owner == 0 {
		return ""
	}
	return strconv.FormatUint(i.Owner, 10)
}

// Fetcher returns the details of the given published file ids for a game.
type Fetcher interface {
	PublishedFileDetails(ctx context.Context, appID uint32, ids []string) ([]Item, error)
}

// Response is delivered once per request.
type Response struct {
	IDs   []string
	Items []Item
	Err   error
}

// DefaultTimeout bounds a single async request.
const DefaultTimeout = 30 * time.Second

// RequestAsync runs the fetch in the background. The returned channel is
// buffered, so nobody has to receive from it for the goroutine to finish.
func RequestAsync(ctx context.Context, f Fetcher, appID uint32, ids []string) <-chan Response {
	out := make(chan Response, 1)
	req := append([]string(nil), ids...)

	go func() {
		defer close(out)
		ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
		defer cancel()

		items, err := f.PublishedFileDetails(ctx, appID, req)
		out <- Response{IDs: req, Items: items, Err: err}
	}()
	return out
}
