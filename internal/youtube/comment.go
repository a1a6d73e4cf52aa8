package youtube

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/gauthierbraillon/tubedata/internal/jsonval"
	"github.com/gauthierbraillon/tubedata/pkg/auth"
)

// commentURI returns the canonical lookup URI for the comment with the given
// ID.
func commentURI(id string) string {
	return apiBase + "/youtube/v3/comments?part=snippet&id=" + url.QueryEscape(id)
}

// Comment is a comment on a video.
//
// Comments are arranged in a hierarchy by their parent comment URIs: a
// comment whose parent URI is set is a reply, and the URI should match the
// self link of another comment on the same video. Comments with no parent
// URI are top-level comments.
//
// The service does not support deleting video comments; see
// Video.IsCommentDeletable.
type Comment struct {
	id    string
	etag  string
	links links

	content   string
	author    *Author
	published time.Time
	updated   time.Time

	channelID string
	videoID   string
	canReply  bool

	watch notifier
}

// NewComment creates a comment with the given ID and default properties. The
// ID may be empty for a comment that has not been inserted yet.
func NewComment(id string) *Comment {
	return &Comment{id: id}
}

// OnChange subscribes fn to field-change notifications on the comment. The
// returned function unsubscribes it.
func (c *Comment) OnChange(fn func(field string)) func() {
	return c.watch.subscribe(fn)
}

// ID returns the comment's identifier, or "".
func (c *Comment) ID() string { return c.id }

// ETag returns the entity tag from the last fetch, or "".
func (c *Comment) ETag() string { return c.etag }

// Content returns the comment's text.
func (c *Comment) Content() string { return c.content }

// SetContent sets the comment's text.
func (c *Comment) SetContent(content string) {
	if c.content == content {
		return
	}
	c.content = content
	c.watch.notify("content")
}

// Author returns who wrote the comment, or nil.
func (c *Comment) Author() *Author { return c.author }

// Published returns the time the comment was posted, or the zero time.
func (c *Comment) Published() time.Time { return c.published }

// Updated returns the time the comment was last edited, or the zero time.
func (c *Comment) Updated() time.Time { return c.updated }

// ChannelID returns the ID of the channel the comment is attached to, or
// "". It is set by parsing, or back-annotated on insert.
func (c *Comment) ChannelID() string { return c.channelID }

// VideoID returns the ID of the video the comment is attached to, or "".
func (c *Comment) VideoID() string { return c.videoID }

// CanReply reports whether replies to the comment are accepted.
func (c *Comment) CanReply() bool { return c.canReply }

// IsReply reports whether the comment is a reply to another comment.
func (c *Comment) IsReply() bool {
	return c.ParentCommentURI() != ""
}

// ParentCommentURI returns the URI of the comment this one replies to, or ""
// for a top-level comment.
func (c *Comment) ParentCommentURI() string {
	if l, ok := c.links.lookUp(RelParentComment); ok {
		return l.URI()
	}
	return ""
}

// SetParentCommentURI sets the parent comment URI, registering it under the
// parent-comment link relation. Setting "" removes the link and makes the
// comment top-level again. Setting the current value is a no-op and
// observers are not notified.
func (c *Comment) SetParentCommentURI(uri string) {
	cur, present := c.links.lookUp(RelParentComment)

	switch {
	case !present && uri == "":
		return
	case present && cur.URI() == uri:
		return
	case uri == "":
		c.links = c.links.remove(RelParentComment)
	default:
		c.links = c.links.set(NewLink(uri, RelParentComment))
	}

	c.watch.notify("parent-comment-uri")
}

// AuthorizationDomain returns the credential domain comment insertion
// requires.
func (c *Comment) AuthorizationDomain() auth.Domain {
	return auth.DomainYouTube
}

func (c *Comment) setVideoID(videoID string) { c.videoID = videoID }

func (c *Comment) setChannelID(channelID string) { c.channelID = channelID }

// ParseComment parses a v3 JSON document into a Comment. The document may be
// a youtube#commentThread, whose topLevelComment is flattened into the
// entity, or a bare youtube#comment.
func ParseComment(data []byte) (*Comment, error) {
	obj, err := jsonval.Decode(data)
	if err != nil {
		return nil, err
	}

	c := NewComment("")
	if err := c.parseObject(obj); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Comment) parseObject(obj jsonval.Object) error {
	kind, _, err := obj.String("kind", jsonval.Default)
	if err != nil {
		return err
	}

	if err := c.parseIdentity(obj); err != nil {
		return err
	}

	snippet, ok, err := obj.Object("snippet", jsonval.Default)
	if err != nil {
		return err
	}
	if !ok {
		return jsonval.Missing("snippet")
	}

	if kind == KindComment {
		return c.parseCommentSnippet(snippet)
	}
	return c.parseThreadSnippet(snippet)
}

// parseThreadSnippet reads the snippet of a commentThread wrapper.
func (c *Comment) parseThreadSnippet(snippet jsonval.Object) error {
	channelID, _, err := snippet.String("channelId", jsonval.Default)
	if err != nil {
		return err
	}
	c.channelID = channelID

	videoID, _, err := snippet.String("videoId", jsonval.Default)
	if err != nil {
		return err
	}
	c.videoID = videoID

	canReply, _, err := snippet.Bool("canReply", jsonval.Default)
	if err != nil {
		return err
	}
	c.canReply = canReply

	top, ok, err := snippet.Object("topLevelComment", jsonval.Default)
	if err != nil {
		return err
	}
	if !ok {
		return jsonval.Missing("topLevelComment")
	}

	if err := c.parseIdentity(top); err != nil {
		return err
	}

	topSnippet, ok, err := top.Object("snippet", jsonval.Default)
	if err != nil {
		return err
	}
	if !ok {
		return jsonval.Missing("snippet")
	}
	return c.parseCommentSnippet(topSnippet)
}

// parseIdentity reads the required id and the optional etag of a comment or
// thread object.
func (c *Comment) parseIdentity(obj jsonval.Object) error {
	id, _, err := obj.String("id", jsonval.Required|jsonval.NonEmpty)
	if err != nil {
		return err
	}
	c.id = id

	etag, _, err := obj.String("etag", jsonval.NonEmpty)
	if err != nil {
		return err
	}
	if etag != "" {
		c.etag = etag
	}
	return nil
}

// parseCommentSnippet reads the snippet of a comment object.
func (c *Comment) parseCommentSnippet(snippet jsonval.Object) error {
	content, _, err := snippet.String("textDisplay", jsonval.Default)
	if err != nil {
		return err
	}
	c.content = content

	// A reply carries the parent comment's ID; it is registered as the
	// canonical lookup URI under the parent-comment link relation.
	parentID, _, err := snippet.String("parentId", jsonval.NonEmpty)
	if err != nil {
		return err
	}
	if parentID != "" {
		c.SetParentCommentURI(commentURI(parentID))
	}

	authorName, _, err := snippet.String("authorDisplayName", jsonval.Default)
	if err != nil {
		return err
	}
	authorURI, _, err := snippet.String("authorChannelUrl", jsonval.Default)
	if err != nil {
		return err
	}
	if authorName != "" {
		a := NewAuthor(authorName, authorURI)
		c.author = &a
	}

	if published, ok, err := snippet.Time("publishedAt", jsonval.Default); err != nil {
		return err
	} else if ok {
		c.published = published
	}

	if updated, ok, err := snippet.Time("updatedAt", jsonval.Default); err != nil {
		return err
	} else if ok {
		c.updated = updated
	}

	return nil
}

// Wire shapes for serialization. Inserting a top-level comment creates a
// commentThread wrapping the comment.

type commentSnippetJSON struct {
	ChannelID    string `json:"channelId,omitempty"`
	VideoID      string `json:"videoId,omitempty"`
	TextOriginal string `json:"textOriginal,omitempty"`
	ParentID     string `json:"parentId,omitempty"`
}

type commentJSON struct {
	Kind    string             `json:"kind"`
	ETag    string             `json:"etag,omitempty"`
	ID      string             `json:"id,omitempty"`
	Snippet commentSnippetJSON `json:"snippet"`
}

type threadSnippetJSON struct {
	ChannelID       string      `json:"channelId,omitempty"`
	VideoID         string      `json:"videoId,omitempty"`
	TopLevelComment commentJSON `json:"topLevelComment"`
}

type threadJSON struct {
	Kind    string            `json:"kind"`
	ETag    string            `json:"etag,omitempty"`
	ID      string            `json:"id,omitempty"`
	Snippet threadSnippetJSON `json:"snippet"`
}

// parentID recovers the parent comment's ID from the parent-comment link.
// URIs built by this package carry the ID in the id query parameter; other
// URIs pass through verbatim.
func (c *Comment) parentID() string {
	uri := c.ParentCommentURI()
	if uri == "" {
		return ""
	}
	if u, err := url.Parse(uri); err == nil {
		if id := u.Query().Get("id"); id != "" {
			return id
		}
	}
	return uri
}

// MarshalResource serializes the comment as the commentThread document the
// insert endpoint accepts.
func (c *Comment) MarshalResource() ([]byte, error) {
	thread := threadJSON{
		Kind: KindCommentThread,
		ETag: c.etag,
		ID:   c.id,
		Snippet: threadSnippetJSON{
			ChannelID: c.channelID,
			VideoID:   c.videoID,
			TopLevelComment: commentJSON{
				Kind: KindComment,
				ETag: c.etag,
				ID:   c.id,
				Snippet: commentSnippetJSON{
					ChannelID:    c.channelID,
					VideoID:      c.videoID,
					TextOriginal: c.content,
					ParentID:     c.parentID(),
				},
			},
		},
	}

	data, err := json.Marshal(thread)
	if err != nil {
		return nil, fmt.Errorf("serializing comment: %w", err)
	}
	return data, nil
}

// ContentType returns the media type of MarshalResource's output.
func (c *Comment) ContentType() string { return "application/json" }
