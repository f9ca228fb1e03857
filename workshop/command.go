package workshop

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"
)

var ErrNoHelper = errors.New("workshop helper path is not configured")

// CommandFetcher asks the external workshop helper for published file
// details. The helper prints a JSON array of items on stdout.
type CommandFetcher struct {
	Path string
	Log  *zap.SugaredLogger
}

// NewCommandFetcher returns a fetcher for the helper binary at path.
func NewCommandFetcher(path string, log *zap.SugaredLogger) (*CommandFetcher, error) {
	if path == "" {
		return nil, ErrNoHelper
	}
	return &CommandFetcher{Path: path, Log: log}, nil
}

func (c *CommandFetcher) PublishedFileDetails(ctx context.Context, appID uint32, ids []string) ([]Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var items []Item
	args := []string{
		"get-published-file-details",
		"-s", strconv.FormatUint(uint64(appID), 10),
		"-p", strings.Join(ids, ","),
	}
	if err := c.run(ctx, args, &items); err != nil {
		return nil, fmt.Errorf("failed to get published file details: %w", err)
	}
	c.Log.Debugw("Received workshop data", zap.Int("requested", len(ids)), zap.Int("received", len(items)))
	return items, nil
}

func (c *CommandFetcher) run(ctx context.Context, args []string, target any) error {
	cmd := exec.CommandContext(ctx, c.Path, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("helper failed: %w, stderr: %s", err, strings.TrimSpace(stderr.String()))
	}

	if target != nil {
		if err := json.Unmarshal(stdout.Bytes(), target); err != nil {
			return fmt.Errorf("failed to decode helper output: %w", err)
		}
	}
	return nil
}
