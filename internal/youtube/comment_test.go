package youtube

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommentThread(t *testing.T) {
	doc := `{
		"kind": "youtube#commentThread",
		"etag": "\"thread-tag\"",
		"id": "thread-id",
		"snippet": {
			"channelId": "UCabc",
			"videoId": "v-id",
			"canReply": true,
			"topLevelComment": {
				"kind": "youtube#comment",
				"etag": "\"comment-tag\"",
				"id": "comment-id",
				"snippet": {
					"textDisplay": "Nice video",
					"authorDisplayName": "Someone",
					"authorChannelUrl": "http://www.youtube.com/channel/UCxyz",
					"publishedAt": "2020-01-02T03:04:05Z",
					"updatedAt": "2020-01-03T03:04:05Z"
				}
			}
		}
	}`

	c, err := ParseComment([]byte(doc))
	require.NoError(t, err)

	// The top-level comment's identity wins over the thread's.
	assert.Equal(t, "comment-id", c.ID())
	assert.Equal(t, `"comment-tag"`, c.ETag())

	assert.Equal(t, "Nice video", c.Content())
	assert.Equal(t, "UCabc", c.ChannelID())
	assert.Equal(t, "v-id", c.VideoID())
	assert.True(t, c.CanReply())
	assert.False(t, c.IsReply())

	require.NotNil(t, c.Author())
	assert.Equal(t, "Someone", c.Author().Name())
	assert.Equal(t, "http://www.youtube.com/channel/UCxyz", c.Author().URI())

	assert.Equal(t, int64(1577934245), c.Published().Unix())
	assert.True(t, c.Updated().After(c.Published()))
}

func TestParseBareComment(t *testing.T) {
	doc := `{
		"kind": "youtube#comment",
		"id": "reply-id",
		"snippet": {
			"textDisplay": "I agree",
			"parentId": "parent-id"
		}
	}`

	c, err := ParseComment([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, "reply-id", c.ID())
	assert.Equal(t, "I agree", c.Content())
	assert.True(t, c.IsReply())
	assert.Equal(t,
		"https://www.googleapis.com/youtube/v3/comments?part=snippet&id=parent-id",
		c.ParentCommentURI())
}

func TestParseCommentMissingID(t *testing.T) {
	_, err := ParseComment([]byte(`{"kind":"youtube#comment","snippet":{"textDisplay":"x"}}`))
	assert.ErrorIs(t, err, ErrMissingRequired)
}

func TestParseCommentMissingSnippet(t *testing.T) {
	_, err := ParseComment([]byte(`{"kind":"youtube#comment","id":"c"}`))
	assert.ErrorIs(t, err, ErrMissingRequired)
}

func TestSetParentCommentURI(t *testing.T) {
	c := NewComment("c")

	var notifications int
	c.OnChange(func(field string) {
		if field == "parent-comment-uri" {
			notifications++
		}
	})

	// Unsetting an unset parent is a no-op.
	c.SetParentCommentURI("")
	assert.Equal(t, 0, notifications)

	c.SetParentCommentURI("https://example.com/parent")
	assert.True(t, c.IsReply())
	assert.Equal(t, 1, notifications)

	// Setting the current value notifies nobody and keeps a single link.
	c.SetParentCommentURI("https://example.com/parent")
	assert.Equal(t, 1, notifications)
	assert.Len(t, c.links, 1)

	c.SetParentCommentURI("")
	assert.False(t, c.IsReply())
	assert.Equal(t, "", c.ParentCommentURI())
	assert.Equal(t, 2, notifications)
}

func TestCommentMarshalResource(t *testing.T) {
	v := NewVideo("v-id")
	c := NewComment("")
	c.SetContent("First!")
	v.InsertCommentURI(c)

	data, err := c.MarshalResource()
	require.NoError(t, err)

	var got struct {
		Kind    string `json:"kind"`
		Snippet struct {
			VideoID         string `json:"videoId"`
			TopLevelComment struct {
				Kind    string `json:"kind"`
				Snippet struct {
					VideoID      string `json:"videoId"`
					TextOriginal string `json:"textOriginal"`
				} `json:"snippet"`
			} `json:"topLevelComment"`
		} `json:"snippet"`
	}
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, KindCommentThread, got.Kind)
	assert.Equal(t, "v-id", got.Snippet.VideoID)
	assert.Equal(t, KindComment, got.Snippet.TopLevelComment.Kind)
	assert.Equal(t, "First!", got.Snippet.TopLevelComment.Snippet.TextOriginal)

	assert.Equal(t, "application/json", c.ContentType())
}

func TestCommentMarshalReplyCarriesParentID(t *testing.T) {
	c := NewComment("")
	c.SetContent("I agree")
	c.SetParentCommentURI(commentURI("parent-id"))

	data, err := c.MarshalResource()
	require.NoError(t, err)

	var got struct {
		Snippet struct {
			TopLevelComment struct {
				Snippet struct {
					ParentID string `json:"parentId"`
				} `json:"snippet"`
			} `json:"topLevelComment"`
		} `json:"snippet"`
	}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "parent-id", got.Snippet.TopLevelComment.Snippet.ParentID)
}
