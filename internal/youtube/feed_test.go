package youtube

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVideoFeed(t *testing.T) {
	doc := `{
		"kind": "youtube#searchListResponse",
		"etag": "\"feed-tag\"",
		"nextPageToken": "NEXT",
		"pageInfo": {"totalResults": 42, "resultsPerPage": 2},
		"items": [
			{"kind": "youtube#searchResult", "id": {"videoId": "a"}, "snippet": {"title": "A"}},
			{"kind": "youtube#video", "id": "b", "snippet": {"title": "B"}}
		]
	}`

	feed, err := ParseVideoFeed(context.Background(), []byte(doc))
	require.NoError(t, err)

	assert.Equal(t, `"feed-tag"`, feed.ETag())
	assert.Equal(t, "NEXT", feed.NextPageToken())
	assert.Equal(t, "", feed.PrevPageToken())
	assert.Equal(t, PageInfo{TotalResults: 42, ResultsPerPage: 2}, feed.PageInfo())

	videos := feed.Videos()
	require.Len(t, videos, 2)
	assert.Equal(t, "a", videos[0].ID())
	assert.Equal(t, "A", videos[0].Title())
	assert.Equal(t, "b", videos[1].ID())
}

func TestParseVideoFeedEmpty(t *testing.T) {
	feed, err := ParseVideoFeed(context.Background(), []byte(`{"kind":"youtube#searchListResponse"}`))
	require.NoError(t, err)
	assert.Empty(t, feed.Videos())
}

func TestParseVideoFeedBadItem(t *testing.T) {
	doc := `{"items":[{"kind":"youtube#video","snippet":{"title":"no id"}}]}`
	_, err := ParseVideoFeed(context.Background(), []byte(doc))
	assert.ErrorIs(t, err, ErrMissingRequired)
}

func TestParseVideoFeedCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	doc := `{"items":[{"kind":"youtube#video","id":"a"}]}`
	_, err := ParseVideoFeed(ctx, []byte(doc))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseCommentFeed(t *testing.T) {
	doc := `{
		"kind": "youtube#commentThreadListResponse",
		"pageInfo": {"totalResults": 1, "resultsPerPage": 20},
		"items": [
			{
				"kind": "youtube#commentThread",
				"id": "thread",
				"snippet": {
					"videoId": "v",
					"canReply": false,
					"topLevelComment": {
						"kind": "youtube#comment",
						"id": "c1",
						"snippet": {"textDisplay": "hello"}
					}
				}
			}
		]
	}`

	feed, err := ParseCommentFeed(context.Background(), []byte(doc))
	require.NoError(t, err)

	comments := feed.Comments()
	require.Len(t, comments, 1)
	assert.Equal(t, "c1", comments[0].ID())
	assert.Equal(t, "hello", comments[0].Content())
	assert.False(t, comments[0].CanReply())
}

func TestParseCommentFeedCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	doc := `{"items":[{"kind":"youtube#comment","id":"c","snippet":{}}]}`
	_, err := ParseCommentFeed(ctx, []byte(doc))
	assert.ErrorIs(t, err, context.Canceled)
}
