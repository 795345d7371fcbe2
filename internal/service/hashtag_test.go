package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"pulsegram/internal/model"
)

func TestExtractTags(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "no tags",
			content: "just a plain post",
			want:    nil,
		},
		{
			name:    "single tag",
			content: "shipping it #golang",
			want:    []string{"golang"},
		},
		{
			name:    "case-insensitive dedup keeps first occurrence",
			content: "Hello #World and #world!",
			want:    []string{"world"},
		},
		{
			name:    "punctuation terminates the tag",
			content: "love #coffee, hate #mondays.",
			want:    []string{"coffee", "mondays"},
		},
		{
			name:    "digits and underscores are part of the tag",
			content: "#web3 #snake_case",
			want:    []string{"web3", "snake_case"},
		},
		{
			name:    "order follows first occurrence",
			content: "#b #a #B #c",
			want:    []string{"b", "a", "c"},
		},
		{
			name:    "bare hash is not a tag",
			content: "# nothing here",
			want:    nil,
		},
		{
			name:    "adjacent tags",
			content: "#one#two",
			want:    []string{"one", "two"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractTags(tt.content)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractTags(%q) = %v, want %v", tt.content, got, tt.want)
			}
		})
	}
}

func TestHashtagService_IndexPost_BumpsOnlyOnNewLink(t *testing.T) {
	adjusted := map[int64]int{}
	repo := &mockHashtagRepo{
		upsertFn: func(ctx context.Context, tag string) (*model.Hashtag, error) {
			switch tag {
			case "fresh":
				return &model.Hashtag{ID: 1, Tag: tag}, nil
			case "seen":
				return &model.Hashtag{ID: 2, Tag: tag, PostCount: 5}, nil
			}
			t.Fatalf("unexpected tag %q", tag)
			return nil, nil
		},
		linkFn: func(ctx context.Context, postID, hashtagID int64) (bool, error) {
			// hashtag 2 is already linked to this post
			return hashtagID != 2, nil
		},
		adjustPostCountFn: func(ctx context.Context, hashtagID int64, delta int) error {
			adjusted[hashtagID] += delta
			return nil
		},
	}

	svc := NewHashtagService(repo, nil, nil)
	svc.IndexPost(context.Background(), 10, "#fresh and #seen")

	if adjusted[1] != 1 {
		t.Errorf("fresh tag post_count delta = %d, want 1", adjusted[1])
	}
	if adjusted[2] != 0 {
		t.Errorf("already-linked tag post_count delta = %d, want 0", adjusted[2])
	}
}

func TestHashtagService_IndexPost_ContinuesPastFailures(t *testing.T) {
	var linked []string
	repo := &mockHashtagRepo{
		upsertFn: func(ctx context.Context, tag string) (*model.Hashtag, error) {
			if tag == "broken" {
				return nil, errors.New("db down")
			}
			return &model.Hashtag{ID: int64(len(tag)), Tag: tag}, nil
		},
		linkFn: func(ctx context.Context, postID, hashtagID int64) (bool, error) {
			linked = append(linked, "link")
			return true, nil
		},
	}

	svc := NewHashtagService(repo, nil, nil)
	svc.IndexPost(context.Background(), 10, "#broken then #ok")

	if len(linked) != 1 {
		t.Errorf("expected the surviving tag to be linked once, got %d links", len(linked))
	}
}

func TestHashtagService_Search_NormalizesQuery(t *testing.T) {
	var gotPrefix string
	repo := &mockHashtagRepo{
		searchFn: func(ctx context.Context, prefix string, limit int) ([]model.Hashtag, error) {
			gotPrefix = prefix
			return []model.Hashtag{{ID: 1, Tag: "golang", PostCount: 3}}, nil
		},
	}

	svc := NewHashtagService(repo, nil, nil)
	result, err := svc.Search(context.Background(), "  #GoLang ", 0)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}

	if gotPrefix != "golang" {
		t.Errorf("search prefix = %q, want %q", gotPrefix, "golang")
	}
	if len(result.Hashtags) != 1 {
		t.Fatalf("got %d hashtags, want 1", len(result.Hashtags))
	}
}

func TestHashtagService_Search_EmptyQuery(t *testing.T) {
	svc := NewHashtagService(&mockHashtagRepo{}, nil, nil)

	result, err := svc.Search(context.Background(), "#", 10)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(result.Hashtags) != 0 {
		t.Errorf("expected empty result for empty query, got %d", len(result.Hashtags))
	}
}
