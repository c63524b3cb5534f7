package service

import (
	"context"
	"strings"

	"github.com/templui/mediafaves/internal/errs"
	"github.com/templui/mediafaves/internal/model"
	"github.com/templui/mediafaves/internal/pixabay"
)

// MediaSearcher is the external media API. *pixabay.Client implements it.
type MediaSearcher interface {
	Search(ctx context.Context, req pixabay.SearchRequest) (*pixabay.Result, error)
}

type SearchService struct {
	searcher MediaSearcher
}

func NewSearchService(searcher MediaSearcher) *SearchService {
	return &SearchService{searcher: searcher}
}

func (s *SearchService) Search(ctx context.Context, query, contentType string, page, perPage int) (model.Page[model.ContentItem], error) {
	if query == "" {
		return model.Page[model.ContentItem]{}, errs.Validation("Search query is required")
	}
	if contentType == "" {
		contentType = model.ContentTypePhoto
	}
	if !model.ValidContentType(contentType) {
		return model.Page[model.ContentItem]{}, errs.Validation(`"type" must be one of [photo, video]`)
	}
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	result, err := s.searcher.Search(ctx, pixabay.SearchRequest{
		Query:   query,
		Type:    contentType,
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		return model.Page[model.ContentItem]{}, errs.Upstream("Error fetching search results", err)
	}

	items := make([]model.ContentItem, 0, len(result.Hits))
	for _, hit := range result.Hits {
		items = append(items, toContentItem(hit, contentType))
	}

	return model.NewPage(result.TotalHits, page, perPage, items), nil
}

func toContentItem(hit pixabay.Hit, contentType string) model.ContentItem {
	item := model.ContentItem{
		ID:        hit.ID,
		Type:      contentType,
		User:      hit.User,
		Tags:      splitTags(hit.Tags),
		Downloads: hit.Downloads,
		Likes:     hit.Likes,
		Comments:  hit.Comments,
		Original:  hit.Raw,
	}

	if contentType == model.ContentTypeVideo {
		if hit.Videos != nil {
			item.Thumbnail = hit.Videos.Medium.Thumbnail
			item.FullSize = hit.Videos.Medium.URL
		}
	} else {
		item.Thumbnail = hit.PreviewURL
		item.FullSize = hit.WebformatURL
	}

	return item
}

// splitTags turns "cat, pet, animal" into ["cat" "pet" "animal"].
func splitTags(tags string) []string {
	parts := strings.Split(tags, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
