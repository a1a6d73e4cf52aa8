package youtube

import (
	"context"
	"fmt"

	"github.com/gauthierbraillon/tubedata/internal/jsonval"
)

// PageInfo is the pagination metadata of a feed.
type PageInfo struct {
	// TotalResults is the server's count of results matching the query,
	// across all pages.
	TotalResults int64
	// ResultsPerPage is the page size the server applied.
	ResultsPerPage int64
}

// feedMeta holds the members common to every list response.
type feedMeta struct {
	etag          string
	pageInfo      PageInfo
	nextPageToken string
	prevPageToken string
}

// ETag returns the feed's entity tag, or "".
func (f *feedMeta) ETag() string { return f.etag }

// PageInfo returns the feed's pagination metadata.
func (f *feedMeta) PageInfo() PageInfo { return f.pageInfo }

// NextPageToken returns the token addressing the next page, or "" on the
// last page.
func (f *feedMeta) NextPageToken() string { return f.nextPageToken }

// PrevPageToken returns the token addressing the previous page, or "" on
// the first page.
func (f *feedMeta) PrevPageToken() string { return f.prevPageToken }

// parseMeta dispatches the non-item members of a list response.
func (f *feedMeta) parseMeta(obj jsonval.Object) error {
	etag, _, err := obj.String("etag", jsonval.NonEmpty)
	if err != nil {
		return err
	}
	f.etag = etag

	if page, ok, err := obj.Object("pageInfo", jsonval.Default); err != nil {
		return err
	} else if ok {
		total, _, err := page.Int("totalResults", jsonval.Default)
		if err != nil {
			return err
		}
		perPage, _, err := page.Int("resultsPerPage", jsonval.Default)
		if err != nil {
			return err
		}
		f.pageInfo = PageInfo{TotalResults: total, ResultsPerPage: perPage}
	}

	next, _, err := obj.String("nextPageToken", jsonval.Default)
	if err != nil {
		return err
	}
	f.nextPageToken = next

	prev, _, err := obj.String("prevPageToken", jsonval.Default)
	if err != nil {
		return err
	}
	f.prevPageToken = prev

	return nil
}

// VideoFeed is a page of video entries with pagination metadata. The feed
// owns its entries.
type VideoFeed struct {
	feedMeta
	videos []*Video
}

// Videos returns the feed's entries in server order.
func (f *VideoFeed) Videos() []*Video { return f.videos }

// ParseVideoFeed parses a video or search list response into a VideoFeed.
// ctx is checked once per item; on cancellation the partially built feed is
// abandoned and the context's error is returned.
func ParseVideoFeed(ctx context.Context, data []byte) (*VideoFeed, error) {
	obj, err := jsonval.Decode(data)
	if err != nil {
		return nil, err
	}

	feed := &VideoFeed{}
	if err := feed.parseMeta(obj); err != nil {
		return nil, err
	}

	items, ok, err := obj.Array("items", jsonval.Default)
	if err != nil {
		return nil, err
	}
	if !ok {
		return feed, nil
	}

	feed.videos = make([]*Video, 0, len(items))
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("parsing feed cancelled: %w", err)
		}

		entry, err := jsonval.Decode(item)
		if err != nil {
			return nil, fmt.Errorf("items[%d]: %w", i, err)
		}

		v := NewVideo("")
		if err := v.parseResource(entry); err != nil {
			return nil, fmt.Errorf("items[%d]: %w", i, err)
		}
		feed.videos = append(feed.videos, v)
	}

	return feed, nil
}

// CommentFeed is a page of comment entries with pagination metadata. The
// feed owns its entries.
type CommentFeed struct {
	feedMeta
	comments []*Comment
}

// Comments returns the feed's entries in server order.
func (f *CommentFeed) Comments() []*Comment { return f.comments }

// ParseCommentFeed parses a commentThread list response into a CommentFeed.
// ctx is checked once per item, as in ParseVideoFeed.
func ParseCommentFeed(ctx context.Context, data []byte) (*CommentFeed, error) {
	obj, err := jsonval.Decode(data)
	if err != nil {
		return nil, err
	}

	feed := &CommentFeed{}
	if err := feed.parseMeta(obj); err != nil {
		return nil, err
	}

	items, ok, err := obj.Array("items", jsonval.Default)
	if err != nil {
		return nil, err
	}
	if !ok {
		return feed, nil
	}

	feed.comments = make([]*Comment, 0, len(items))
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("parsing feed cancelled: %w", err)
		}

		entry, err := jsonval.Decode(item)
		if err != nil {
			return nil, fmt.Errorf("items[%d]: %w", i, err)
		}

		c := NewComment("")
		if err := c.parseObject(entry); err != nil {
			return nil, fmt.Errorf("items[%d]: %w", i, err)
		}
		feed.comments = append(feed.comments, c)
	}

	return feed, nil
}
