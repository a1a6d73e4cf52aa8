// Package youtube implements the resource model of the YouTube Data API:
// parsing and serialization of video, comment and feed resources, the
// translation tables between the current and legacy wire vocabularies, and a
// typed service client.
//
// This package enables tubedata to:
// - Parse v3 JSON resources (and a legacy Atom subset) into typed entities
// - Serialize entities back into the documents the service accepts
// - Query, insert, update and delete resources over HTTP
package youtube

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"time"

	"github.com/gauthierbraillon/tubedata/internal/jsonval"
	"github.com/gauthierbraillon/tubedata/pkg/auth"
)

// Kind discriminators observed at the top of a document.
const (
	KindVideo             = "youtube#video"
	KindSearchResult      = "youtube#searchResult"
	KindCommentThread     = "youtube#commentThread"
	KindComment           = "youtube#comment"
	KindVideoListResponse = "youtube#videoListResponse"
)

const (
	apiBase  = "https://www.googleapis.com"
	watchURI = "https://www.youtube.com/watch?v="
)

// Rating is the aggregate of user ratings on a video. The v3 API reports
// likes and dislikes; they are projected onto a binary rating scale.
type Rating struct {
	Min     int
	Max     int
	Count   uint64
	Average float64
}

// Video is a single video resource.
//
// A Video is built either by ParseVideo from a received document, or by
// NewVideo for upload. Entities are not internally synchronized; concurrent
// mutation of one Video is a caller error.
type Video struct {
	id    string
	etag  string
	links links

	title       string
	description string
	published   time.Time
	updated     time.Time
	keywords    []string
	category    *Category
	channelID   string

	duration   int64
	thumbnails []Thumbnail
	playerURI  string

	viewCount     uint64
	favoriteCount uint64
	rating        Rating

	isPrivate      bool
	accessControls map[Action]Permission

	contentRatings map[string]string
	regionAllowed  []string
	regionBlocked  []string

	recorded  time.Time
	location  string
	latitude  float64
	longitude float64
	coordsSet bool

	uploadStatus     string
	processingStatus string
	failureReason    string
	rejectionReason  string
	stateHelpURI     string
	stateMessage     string
	uploadState      *UploadState

	watch notifier
}

// NewVideo creates a video with the given ID and default properties. The ID
// may be empty for a video that has not been uploaded yet.
func NewVideo(id string) *Video {
	return &Video{
		id:             id,
		accessControls: make(map[Action]Permission),
	}
}

// OnChange subscribes fn to field-change notifications on the video. The
// returned function unsubscribes it.
func (v *Video) OnChange(fn func(field string)) func() {
	return v.watch.subscribe(fn)
}

// ID returns the video's opaque identifier, or "".
func (v *Video) ID() string { return v.id }

// ETag returns the entity tag from the last fetch, or "".
func (v *Video) ETag() string { return v.etag }

// SelfLink returns the URI addressing this video for refresh and deletion,
// or "" for a video that has not been parsed from the service.
func (v *Video) SelfLink() string {
	if l, ok := v.links.lookUp(RelSelf); ok {
		return l.URI()
	}
	return ""
}

// Title returns the video's title, or "".
func (v *Video) Title() string { return v.title }

// SetTitle sets the video's title. An empty title unsets it.
func (v *Video) SetTitle(title string) {
	if v.title == title {
		return
	}
	v.title = title
	v.watch.notify("title")
}

// Description returns the video's long text description, or "".
func (v *Video) Description() string { return v.description }

// SetDescription sets the video's description. Empty unsets it.
func (v *Video) SetDescription(description string) {
	if v.description == description {
		return
	}
	v.description = description
	v.watch.notify("description")
}

// Published returns the time the video was uploaded, or the zero time.
func (v *Video) Published() time.Time { return v.published }

// Updated returns the time the video's metadata last changed, or the zero
// time.
func (v *Video) Updated() time.Time { return v.updated }

// Keywords returns the keyword list associated with the video. The returned
// slice must not be mutated.
func (v *Video) Keywords() []string { return v.keywords }

// SetKeywords replaces the keyword list. The slice is copied.
func (v *Video) SetKeywords(keywords []string) {
	v.keywords = append([]string(nil), keywords...)
	v.watch.notify("keywords")
}

// Category returns the video's single category. It is non-nil after a
// successful parse of a full video resource.
func (v *Video) Category() *Category { return v.category }

// SetCategory sets the video's category. The category ID must be non-empty.
func (v *Video) SetCategory(category Category) error {
	if category.ID() == "" {
		return invalidArgErr("category must have an ID")
	}
	v.category = &category
	v.watch.notify("category")
	return nil
}

// ChannelID returns the ID of the channel the video belongs to, or "".
func (v *Video) ChannelID() string { return v.channelID }

// Duration returns the video duration in whole seconds, or 0 if unknown.
func (v *Video) Duration() int64 { return v.duration }

// Thumbnails returns the image renditions available for the video.
func (v *Video) Thumbnails() []Thumbnail { return v.thumbnails }

// ViewCount returns the number of times the video has been viewed.
func (v *Video) ViewCount() uint64 { return v.viewCount }

// FavoriteCount returns the number of users who favourited the video.
func (v *Video) FavoriteCount() uint64 { return v.favoriteCount }

// Rating returns the video's rating aggregate.
func (v *Video) Rating() Rating { return v.rating }

// IsPrivate reports whether the video is viewable only by its owner.
func (v *Video) IsPrivate() bool { return v.isPrivate }

// SetPrivate sets whether the video is private.
func (v *Video) SetPrivate(private bool) {
	if v.isPrivate == private {
		return
	}
	v.isPrivate = private
	v.watch.notify("is-private")
}

// AccessControl returns the permission for action. Actions with no entry
// report PermissionDenied.
func (v *Video) AccessControl(action Action) Permission {
	return v.accessControls[action]
}

// SetAccessControl sets the permission for action. Only the rate and comment
// actions may be moderated; other assignments of PermissionModerated fail
// with ErrInvalidArgument and leave the map unchanged.
func (v *Video) SetAccessControl(action Action, permission Permission) error {
	if err := checkAccessControl(action, permission); err != nil {
		return err
	}
	if cur, ok := v.accessControls[action]; ok && cur == permission {
		return nil
	}
	v.accessControls[action] = permission
	v.watch.notify("access-control")
	return nil
}

// MediaRating returns the video's rating under the given scheme, or "".
// The legacy scheme tokens "mpaa" and "v-chip" are translated through the
// content-rating tables; unknown scheme tokens look up the content-rating
// map verbatim.
func (v *Video) MediaRating(scheme string) string {
	if len(v.contentRatings) == 0 {
		return ""
	}
	switch scheme {
	case "simple":
		// Not supported by the current wire version.
		return ""
	case "mpaa":
		return mpaaRating(v.contentRatings["mpaaRating"])
	case "v-chip":
		return tvpgRating(v.contentRatings["tvpgRating"])
	}
	return v.contentRatings[scheme]
}

// AspectRatio returns the video's aspect ratio. The current wire version
// carries no aspect-ratio information, so this is always "".
func (v *Video) AspectRatio() string {
	return aspectRatio("")
}

// IsRestrictedInCountry reports whether viewing is restricted in the country
// with the given ISO 3166 code, from the video's region restriction lists.
func (v *Video) IsRestrictedInCountry(country string) bool {
	if country == "" {
		return false
	}
	allowedPresent := v.regionAllowed != nil
	allowedEmpty := allowedPresent && len(v.regionAllowed) == 0
	inAllowed := contains(v.regionAllowed, country)
	inBlocked := contains(v.regionBlocked, country)

	return (allowedPresent && !inAllowed) ||
		allowedEmpty ||
		(inBlocked && !inAllowed)
}

func contains(list []string, s string) bool {
	for _, e := range list {
		if e == s {
			return true
		}
	}
	return false
}

// Recorded returns the day the video was recorded, or the zero time.
func (v *Video) Recorded() time.Time { return v.recorded }

// SetRecorded sets the day the video was recorded. The time of day is
// discarded. The zero time unsets it.
func (v *Video) SetRecorded(recorded time.Time) {
	if !recorded.IsZero() {
		recorded = recorded.UTC()
		recorded = time.Date(recorded.Year(), recorded.Month(), recorded.Day(), 0, 0, 0, 0, time.UTC)
	}
	if v.recorded.Equal(recorded) {
		return
	}
	v.recorded = recorded
	v.watch.notify("recorded")
}

// Location returns the video's textual location description, or "".
func (v *Video) Location() string { return v.location }

// SetLocation sets the location description. Empty unsets it.
func (v *Video) SetLocation(location string) {
	if v.location == location {
		return
	}
	v.location = location
	v.watch.notify("location")
}

// Coordinates returns the geographic coordinates the video was recorded at.
// ok is false when the coordinates are unset or out of range; latitude and
// longitude are then meaningless.
func (v *Video) Coordinates() (latitude, longitude float64, ok bool) {
	if !v.coordsSet || !coordsInRange(v.latitude, v.longitude) {
		return 0, 0, false
	}
	return v.latitude, v.longitude, true
}

// SetCoordinates sets the geographic coordinates. Out-of-range values fail
// with ErrInvalidArgument and leave the coordinates unchanged.
func (v *Video) SetCoordinates(latitude, longitude float64) error {
	if !coordsInRange(latitude, longitude) {
		return invalidArgErr("coordinates (%v, %v) out of range", latitude, longitude)
	}
	if v.coordsSet && v.latitude == latitude && v.longitude == longitude {
		return nil
	}
	v.latitude = latitude
	v.longitude = longitude
	v.coordsSet = true
	v.watch.notify("coordinates")
	return nil
}

// ClearCoordinates unsets the geographic coordinates.
func (v *Video) ClearCoordinates() {
	if !v.coordsSet {
		return
	}
	v.coordsSet = false
	v.watch.notify("coordinates")
}

func coordsInRange(latitude, longitude float64) bool {
	return latitude >= -90.0 && latitude <= 90.0 &&
		longitude >= -180.0 && longitude <= 180.0
}

// PlayerURI returns a URI where the video is playable in a web browser, or
// "" for a video with no ID.
func (v *Video) PlayerURI() string {
	if v.playerURI == "" && v.id != "" {
		v.playerURI = watchURI + url.QueryEscape(v.id)
	}
	return v.playerURI
}

// State returns the video's upload state, derived from the raw processing
// and upload status fields.
func (v *Video) State() UploadState {
	if v.uploadState == nil {
		s := newUploadState(v.uploadStatus, v.processingStatus,
			v.failureReason, v.rejectionReason)
		s.helpURI = v.stateHelpURI
		s.message = v.stateMessage
		v.uploadState = &s
	}
	return *v.uploadState
}

// AuthorizationDomain returns the credential domain the video's mutating
// operations require.
func (v *Video) AuthorizationDomain() auth.Domain {
	return auth.DomainYouTube
}

// entryURI returns the single-video query URI for id. The list endpoint is
// the only way to fetch one video; the response is unwrapped by ParseVideo.
func entryURI(base, id string) string {
	return base + "/youtube/v3/videos" +
		"?part=contentDetails,id,recordingDetails,snippet,status,statistics" +
		"&id=" + url.QueryEscape(id)
}

// CommentType returns the kind discriminator of the comments attached to
// videos.
func (v *Video) CommentType() string { return KindCommentThread }

// QueryCommentsURI returns the URI listing the video's comment threads, or
// "" for a video with no ID.
func (v *Video) QueryCommentsURI() string {
	if v.id == "" {
		return ""
	}
	return apiBase + "/youtube/v3/commentThreads?part=snippet&videoId=" + url.QueryEscape(v.id)
}

// InsertCommentURI returns the URI for inserting comment on the video, or ""
// for a video with no ID. The comment is back-annotated with the video and
// channel IDs the insert endpoint requires.
func (v *Video) InsertCommentURI(comment *Comment) string {
	if v.id == "" {
		return ""
	}
	comment.setVideoID(v.id)
	comment.setChannelID(v.channelID)
	return apiBase + "/youtube/v3/commentThreads?part=snippet&shareOnGooglePlus=false"
}

// IsCommentDeletable reports whether comment can be deleted from the video.
// The service does not support deleting video comments.
func (v *Video) IsCommentDeletable(*Comment) bool { return false }

// ParseVideo parses a v3 JSON document into a Video. The document may be a
// youtube#video resource, a youtube#searchResult, or a
// youtube#videoListResponse wrapping a single video, in which case the sole
// item is unwrapped; an empty item list fails with ErrNotFound.
func ParseVideo(data []byte) (*Video, error) {
	obj, err := jsonval.Decode(data)
	if err != nil {
		return nil, err
	}

	v := NewVideo("")
	if err := v.parseResource(obj); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *Video) parseResource(obj jsonval.Object) error {
	kind, _, err := obj.String("kind", jsonval.Default)
	if err != nil {
		return err
	}

	if kind == KindVideoListResponse {
		// Single-entry unwrapping: the video list endpoint returns a
		// 0-1 item feed for a single-video query. All members other
		// than items are consumed silently. An invalid ID produces an
		// empty item list rather than a 404.
		items, ok, err := obj.Array("items", jsonval.Default)
		if err != nil {
			return err
		}
		if !ok || len(items) == 0 {
			return fmt.Errorf("items: %w", ErrNotFound)
		}

		entry, err := jsonval.Decode(items[0])
		if err != nil {
			return err
		}
		if err := v.parseObject(entry); err != nil {
			return err
		}
	} else if err := v.parseObject(obj); err != nil {
		return err
	}

	// The self link is what later deletion and refresh address.
	if v.id != "" {
		v.links = v.links.set(NewLink(apiBase+"/youtube/v3/videos?id="+url.QueryEscape(v.id), RelSelf))
	}
	return nil
}

// parseObject dispatches on the top-level member names of a video object.
// The sections are independent and order-insensitive; unknown members are
// ignored.
func (v *Video) parseObject(obj jsonval.Object) error {
	if err := v.parseID(obj); err != nil {
		return err
	}

	etag, _, err := obj.String("etag", jsonval.NonEmpty)
	if err != nil {
		return err
	}
	if etag != "" {
		v.etag = etag
	}

	if snippet, ok, err := obj.Object("snippet", jsonval.Default); err != nil {
		return err
	} else if ok {
		if err := v.parseSnippet(snippet); err != nil {
			return err
		}
	}

	if details, ok, err := obj.Object("contentDetails", jsonval.Default); err != nil {
		return err
	} else if ok {
		if err := v.parseContentDetails(details); err != nil {
			return err
		}
	}

	if status, ok, err := obj.Object("status", jsonval.Default); err != nil {
		return err
	} else if ok {
		if err := v.parseStatus(status); err != nil {
			return err
		}
	}

	if stats, ok, err := obj.Object("statistics", jsonval.Default); err != nil {
		return err
	} else if ok {
		if err := v.parseStatistics(stats); err != nil {
			return err
		}
	}

	if proc, ok, err := obj.Object("processingDetails", jsonval.Default); err != nil {
		return err
	} else if ok {
		status, _, err := proc.String("processingStatus", jsonval.Default)
		if err != nil {
			return err
		}
		v.processingStatus = status
	}

	if rec, ok, err := obj.Object("recordingDetails", jsonval.Default); err != nil {
		return err
	} else if ok {
		if err := v.parseRecordingDetails(rec); err != nil {
			return err
		}
	}

	return nil
}

func (v *Video) parseID(obj jsonval.Object) error {
	// A youtube#video carries a scalar id; a youtube#searchResult nests it
	// as {videoId}.
	id, ok, err := obj.String("id", jsonval.NonEmpty)
	if err != nil {
		idObj, nested, nestedErr := obj.Object("id", jsonval.Default)
		if nestedErr != nil || !nested {
			return err
		}
		id, ok, err = idObj.String("videoId", jsonval.NonEmpty)
		if err != nil {
			return err
		}
	}
	if !ok {
		return jsonval.Missing("id")
	}
	v.id = id
	return nil
}

func (v *Video) parseSnippet(snippet jsonval.Object) error {
	if published, ok, err := snippet.Time("publishedAt", jsonval.Default); err != nil {
		return err
	} else if ok {
		v.published = published
	}

	title, _, err := snippet.String("title", jsonval.Default)
	if err != nil {
		return err
	}
	v.title = title

	description, _, err := snippet.String("description", jsonval.Default)
	if err != nil {
		return err
	}
	v.description = description

	if tags, ok, err := snippet.Strings("tags", jsonval.Default); err != nil {
		return err
	} else if ok {
		v.keywords = tags
	}

	if thumbs, ok, err := snippet.Object("thumbnails", jsonval.Default); err != nil {
		return err
	} else if ok {
		if err := v.parseThumbnails(thumbs); err != nil {
			return err
		}
	}

	channelID, _, err := snippet.String("channelId", jsonval.Default)
	if err != nil {
		return err
	}
	if channelID != "" {
		v.channelID = channelID
	}

	if categoryID, ok, err := snippet.String("categoryId", jsonval.Default); err != nil {
		return err
	} else if ok && categoryID != "" {
		c := NewCategory(categoryID, "", "")
		v.category = &c
	}

	return nil
}

func (v *Video) parseThumbnails(thumbs jsonval.Object) error {
	// Renditions are keyed by size name; sort for a deterministic order.
	names := make([]string, 0, len(thumbs))
	for name := range thumbs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		elem, ok, err := thumbs.Object(name, jsonval.Default)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		t, err := parseThumbnail(elem)
		if err != nil {
			return err
		}
		v.thumbnails = append(v.thumbnails, t)
	}
	return nil
}

func (v *Video) parseContentDetails(details jsonval.Object) error {
	if duration, ok, err := details.Duration("duration", jsonval.Default); err != nil {
		return err
	} else if ok {
		v.duration = duration
	}

	if region, ok, err := details.Object("regionRestriction", jsonval.Default); err != nil {
		return err
	} else if ok {
		if allowed, ok, err := region.Strings("allowed", jsonval.Default); err != nil {
			return err
		} else if ok {
			v.regionAllowed = allowed
		}
		if blocked, ok, err := region.Strings("blocked", jsonval.Default); err != nil {
			return err
		} else if ok {
			v.regionBlocked = blocked
		}
	}

	if ratings, ok, err := details.Object("contentRating", jsonval.Default); err != nil {
		return err
	} else if ok {
		v.contentRatings = make(map[string]string, len(ratings))
		for scheme := range ratings {
			// Non-string members (rating reason lists) are skipped.
			rating, ok, err := ratings.String(scheme, jsonval.Default)
			if err != nil || !ok {
				continue
			}
			v.contentRatings[scheme] = rating
		}
	}

	return nil
}

func (v *Video) parseStatus(status jsonval.Object) error {
	privacy, _, err := status.String("privacyStatus", jsonval.Default)
	if err != nil {
		return err
	}
	applyPrivacyStatus(v, privacy)

	if embeddable, ok, err := status.Bool("embeddable", jsonval.Default); err != nil {
		return err
	} else if ok {
		perm := PermissionDenied
		if embeddable {
			perm = PermissionAllowed
		}
		v.accessControls[ActionEmbed] = perm
	}

	uploadStatus, _, err := status.String("uploadStatus", jsonval.Default)
	if err != nil {
		return err
	}
	v.uploadStatus = uploadStatus

	failureReason, _, err := status.String("failureReason", jsonval.Default)
	if err != nil {
		return err
	}
	v.failureReason = failureReason

	rejectionReason, _, err := status.String("rejectionReason", jsonval.Default)
	if err != nil {
		return err
	}
	v.rejectionReason = rejectionReason

	v.uploadState = nil
	return nil
}

func (v *Video) parseStatistics(stats jsonval.Object) error {
	// The statistics section delivers its numbers as decimal strings, even
	// though they are documented as unsigned longs.
	viewCount, _, err := stats.UintString("viewCount", jsonval.Default)
	if err != nil {
		return err
	}
	v.viewCount = viewCount

	favoriteCount, _, err := stats.UintString("favoriteCount", jsonval.Default)
	if err != nil {
		return err
	}
	v.favoriteCount = favoriteCount

	likes, _, err := stats.UintString("likeCount", jsonval.Default)
	if err != nil {
		return err
	}
	dislikes, _, err := stats.UintString("dislikeCount", jsonval.Default)
	if err != nil {
		return err
	}

	// Likes and dislikes are projected onto a binary rating scale.
	v.rating = Rating{Min: 0, Max: 1, Count: likes + dislikes}
	if v.rating.Count > 0 {
		v.rating.Average = float64(likes) / float64(likes+dislikes)
	}

	return nil
}

func (v *Video) parseRecordingDetails(rec jsonval.Object) error {
	if recorded, ok, err := rec.Date("recordingDate", jsonval.Default); err != nil {
		return err
	} else if ok {
		v.recorded = recorded
	}

	location, _, err := rec.String("locationDescription", jsonval.Default)
	if err != nil {
		return err
	}
	if location != "" {
		v.location = location
	}

	if point, ok, err := rec.Object("location", jsonval.Default); err != nil {
		return err
	} else if ok {
		latitude, latOK, err := point.Float("latitude", jsonval.Default)
		if err != nil {
			return err
		}
		longitude, lonOK, err := point.Float("longitude", jsonval.Default)
		if err != nil {
			return err
		}
		if latOK && lonOK {
			v.latitude = latitude
			v.longitude = longitude
			v.coordsSet = true
		}
	}

	return nil
}

// Wire shapes for serialization. Only the writable sections are emitted; the
// rest are server-managed.

type videoSnippetJSON struct {
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	CategoryID  string   `json:"categoryId,omitempty"`
}

type videoStatusJSON struct {
	PrivacyStatus string `json:"privacyStatus"`
	Embeddable    *bool  `json:"embeddable,omitempty"`
}

type geoPointJSON struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type videoRecordingJSON struct {
	LocationDescription string        `json:"locationDescription,omitempty"`
	Location            *geoPointJSON `json:"location,omitempty"`
	RecordingDate       string        `json:"recordingDate,omitempty"`
}

type videoResourceJSON struct {
	Kind             string             `json:"kind"`
	ETag             string             `json:"etag,omitempty"`
	ID               string             `json:"id,omitempty"`
	Snippet          videoSnippetJSON   `json:"snippet"`
	Status           videoStatusJSON    `json:"status"`
	RecordingDetails videoRecordingJSON `json:"recordingDetails"`
}

// MarshalResource serializes the video's writable sections into the document
// the videos endpoints accept.
func (v *Video) MarshalResource() ([]byte, error) {
	res := videoResourceJSON{
		Kind: KindVideo,
		ETag: v.etag,
		ID:   v.id,
		Snippet: videoSnippetJSON{
			Title:       v.title,
			Description: v.description,
			Tags:        v.keywords,
		},
	}

	if v.category != nil {
		res.Snippet.CategoryID = v.category.ID()
	}

	listPerm, listSet := v.accessControls[ActionList]
	res.Status.PrivacyStatus = privacyStatus(v.isPrivate, listPerm, listSet)

	if embed, ok := v.accessControls[ActionEmbed]; ok {
		embeddable := embed == PermissionAllowed
		res.Status.Embeddable = &embeddable
	}

	res.RecordingDetails.LocationDescription = v.location
	if v.coordsSet && coordsInRange(v.latitude, v.longitude) {
		res.RecordingDetails.Location = &geoPointJSON{
			Latitude:  v.latitude,
			Longitude: v.longitude,
		}
	}
	if !v.recorded.IsZero() {
		res.RecordingDetails.RecordingDate = v.recorded.Format("2006-01-02")
	}

	data, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("serializing video: %w", err)
	}
	return data, nil
}

// ContentType returns the media type of MarshalResource's output.
func (v *Video) ContentType() string { return "application/json" }
