package get_image_tags

import (
	"context"
	"slices"
	"sort"

	"jasper-launcher/internal/domain/model"
	"jasper-launcher/internal/domain/repository"
	"jasper-launcher/pkg/log"
)

// Repositories names the image repository behind each selectable service.
// An empty name skips the local lookup for that service.
type Repositories struct {
	Server   string
	Client   string
	Database string
	Ssh      string
}

// KnownTags is the fixed list offered whether or not Docker is reachable.
func KnownTags() model.ImageTags {
	return model.ImageTags{
		Server:   []string{"latest", "v1.3", "v1"},
		Client:   []string{"latest", "v1.3", "v1"},
		Database: []string{"11", "12", "13", "14", "15", "16", "17"},
		Ssh:      []string{"latest", "v1.1", "v1"},
	}
}

// GetImageTagsQueryHandler handles the GetImageTagsQuery
type GetImageTagsQueryHandler struct {
	images       repository.ContainerRepository
	repositories Repositories
}

// Handle returns the known tags, followed by any other tags already pulled locally.
func (h *GetImageTagsQueryHandler) Handle(ctx context.Context, _ GetImageTagsQuery) (model.ImageTags, error) {
	tags := KnownTags()
	if h.images == nil {
		return tags, nil
	}

	tags.Server = h.merge(ctx, tags.Server, h.repositories.Server)
	tags.Client = h.merge(ctx, tags.Client, h.repositories.Client)
	tags.Database = h.merge(ctx, tags.Database, h.repositories.Database)
	tags.Ssh = h.merge(ctx, tags.Ssh, h.repositories.Ssh)
	return tags, nil
}

func (h *GetImageTagsQueryHandler) merge(ctx context.Context, known []string, repository string) []string {
	if repository == "" {
		return known
	}
	local, err := h.images.LocalTags(ctx, repository)
	if err != nil {
		log.Warn("Failed to list local image tags", "repository", repository, "error", err)
		return known
	}

	var extra []string
	for _, tag := range local {
		if !slices.Contains(known, tag) && !slices.Contains(extra, tag) {
			extra = append(extra, tag)
		}
	}
	sort.Strings(extra)
	return append(known, extra...)
}

// NewGetImageTagsQueryHandler creates a new GetImageTagsQueryHandler. A nil
// images repository yields the known tags only.
func NewGetImageTagsQueryHandler(images repository.ContainerRepository, repositories Repositories) *GetImageTagsQueryHandler {
	return &GetImageTagsQueryHandler{images: images, repositories: repositories}
}
