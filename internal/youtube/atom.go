package youtube

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gauthierbraillon/tubedata/internal/jsonval"
)

// Legacy Atom support. Pre-existing payloads from the v2 API are still
// accepted for videos; only the element subset below is recognized. Unknown
// elements and attributes are ignored. An application reading the upload
// state or access controls of a video sees the same logical values
// regardless of which wire generation it was parsed from.

// RelCommentsFeed marks the link to a video's comments feed, carried by
// legacy documents.
const RelCommentsFeed = "http://gdata.youtube.com/schemas/2007#comments"

const legacyIDPrefix = "tag:youtube.com,2008:video:"

type atomThumbnailXML struct {
	URL    string `xml:"url,attr"`
	Width  int64  `xml:"width,attr"`
	Height int64  `xml:"height,attr"`
}

type atomCategoryXML struct {
	Scheme string `xml:"scheme,attr"`
	Label  string `xml:"label,attr"`
	Term   string `xml:",chardata"`
}

type atomDurationXML struct {
	Seconds string `xml:"seconds,attr"`
}

type atomGroupXML struct {
	Title       string             `xml:"http://search.yahoo.com/mrss/ title"`
	Description string             `xml:"http://search.yahoo.com/mrss/ description"`
	Keywords    string             `xml:"http://search.yahoo.com/mrss/ keywords"`
	Category    *atomCategoryXML   `xml:"http://search.yahoo.com/mrss/ category"`
	Thumbnails  []atomThumbnailXML `xml:"http://search.yahoo.com/mrss/ thumbnail"`
	Duration    *atomDurationXML   `xml:"http://gdata.youtube.com/schemas/2007 duration"`
	Private     *struct{}          `xml:"http://gdata.youtube.com/schemas/2007 private"`
	Uploaded    string             `xml:"http://gdata.youtube.com/schemas/2007 uploaded"`
	VideoID     string             `xml:"http://gdata.youtube.com/schemas/2007 videoid"`
}

type atomStatisticsXML struct {
	ViewCount     string `xml:"viewCount,attr"`
	FavoriteCount string `xml:"favoriteCount,attr"`
}

type atomAccessControlXML struct {
	Action     string `xml:"action,attr"`
	Permission string `xml:"permission,attr"`
}

type atomRatingXML struct {
	Min       string `xml:"min,attr"`
	Max       string `xml:"max,attr"`
	NumRaters string `xml:"numRaters,attr"`
	Average   string `xml:"average,attr"`
}

type atomFeedLinkXML struct {
	Href string `xml:"href,attr"`
}

type atomCommentsXML struct {
	FeedLink *atomFeedLinkXML `xml:"http://schemas.google.com/g/2005 feedLink"`
}

type atomWhereXML struct {
	Pos string `xml:"Point>pos"`
}

type atomStateXML struct {
	Name       string `xml:"name,attr"`
	ReasonCode string `xml:"reasonCode,attr"`
	HelpURL    string `xml:"helpUrl,attr"`
	Message    string `xml:",chardata"`
}

type atomControlXML struct {
	Draft string        `xml:"http://www.w3.org/2007/app draft"`
	State *atomStateXML `xml:"http://gdata.youtube.com/schemas/2007 state"`
}

type atomEntryXML struct {
	XMLName        xml.Name               `xml:"http://www.w3.org/2005/Atom entry"`
	ID             string                 `xml:"http://www.w3.org/2005/Atom id"`
	Title          string                 `xml:"http://www.w3.org/2005/Atom title"`
	Published      string                 `xml:"http://www.w3.org/2005/Atom published"`
	Updated        string                 `xml:"http://www.w3.org/2005/Atom updated"`
	Group          *atomGroupXML          `xml:"http://search.yahoo.com/mrss/ group"`
	Statistics     []atomStatisticsXML    `xml:"http://gdata.youtube.com/schemas/2007 statistics"`
	Location       string                 `xml:"http://gdata.youtube.com/schemas/2007 location"`
	AccessControls []atomAccessControlXML `xml:"http://gdata.youtube.com/schemas/2007 accessControl"`
	Recorded       string                 `xml:"http://gdata.youtube.com/schemas/2007 recorded"`
	Rating         []atomRatingXML        `xml:"http://schemas.google.com/g/2005 rating"`
	Comments       *atomCommentsXML       `xml:"http://schemas.google.com/g/2005 comments"`
	Where          *atomWhereXML          `xml:"http://www.georss.org/georss where"`
	Control        *atomControlXML        `xml:"http://www.w3.org/2007/app control"`
}

// ParseVideoAtom parses a legacy Atom video entry into a Video.
func ParseVideoAtom(data []byte) (*Video, error) {
	var entry atomEntryXML
	if err := xml.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("decoding entry: %w", err)
	}

	v := NewVideo("")
	if err := v.parseAtomEntry(&entry); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *Video) parseAtomEntry(entry *atomEntryXML) error {
	v.id = strings.TrimPrefix(entry.ID, legacyIDPrefix)
	v.title = entry.Title

	var err error
	if v.published, err = atomTime("published", entry.Published); err != nil {
		return err
	}
	if v.updated, err = atomTime("updated", entry.Updated); err != nil {
		return err
	}

	if entry.Group != nil {
		if err := v.parseAtomGroup(entry.Group); err != nil {
			return err
		}
	}

	// The decoder accepts repeated elements; each logical slot may be
	// populated once.
	var statsSeen bool
	for _, stats := range entry.Statistics {
		if err := jsonval.Claim("statistics", &statsSeen); err != nil {
			return err
		}
		if stats.ViewCount == "" {
			return jsonval.Missing("viewCount")
		}
		if v.viewCount, err = atomUint("viewCount", stats.ViewCount); err != nil {
			return err
		}
		if stats.FavoriteCount != "" {
			if v.favoriteCount, err = atomUint("favoriteCount", stats.FavoriteCount); err != nil {
				return err
			}
		}
	}

	if entry.Location != "" {
		v.location = entry.Location
	}

	for _, ac := range entry.AccessControls {
		if ac.Action == "" {
			return jsonval.Missing("action")
		}
		if ac.Permission == "" {
			return jsonval.Missing("permission")
		}
		action := Action(ac.Action)
		if !knownActions[action] {
			continue
		}
		perm, err := parsePermission(ac.Permission)
		if err != nil {
			return err
		}
		if err := checkAccessControl(action, perm); err != nil {
			return err
		}
		v.accessControls[action] = perm
	}

	if entry.Recorded != "" {
		recorded, err := time.Parse("2006-01-02", entry.Recorded)
		if err != nil {
			return jsonval.Format("recorded", fmt.Sprintf("%q is not an ISO 8601 date", entry.Recorded))
		}
		v.recorded = recorded
	}

	var ratingSeen bool
	for i := range entry.Rating {
		if err := jsonval.Claim("rating", &ratingSeen); err != nil {
			return err
		}
		if err := v.parseAtomRating(&entry.Rating[i]); err != nil {
			return err
		}
	}

	if entry.Comments != nil && entry.Comments.FeedLink != nil &&
		entry.Comments.FeedLink.Href != "" {
		v.links = v.links.set(NewLink(entry.Comments.FeedLink.Href, RelCommentsFeed))
	}

	if entry.Where != nil {
		if err := v.parseAtomWhere(entry.Where); err != nil {
			return err
		}
	}

	if entry.Control != nil {
		if entry.Control.Draft == "yes" {
			v.isPrivate = true
		}
		if entry.Control.State != nil {
			v.applyAtomState(entry.Control.State)
		}
	}

	return nil
}

func (v *Video) parseAtomGroup(group *atomGroupXML) error {
	if group.Title != "" {
		v.title = group.Title
	}
	if group.Description != "" {
		v.description = group.Description
	}
	if group.Keywords != "" {
		keywords := strings.Split(group.Keywords, ",")
		for i := range keywords {
			keywords[i] = strings.TrimSpace(keywords[i])
		}
		v.keywords = keywords
	}
	if group.Category != nil && group.Category.Term != "" {
		c := NewCategory(group.Category.Term, group.Category.Scheme, group.Category.Label)
		v.category = &c
	}
	for _, t := range group.Thumbnails {
		v.thumbnails = append(v.thumbnails, NewThumbnail(t.URL, t.Width, t.Height))
	}
	if group.Duration != nil && group.Duration.Seconds != "" {
		seconds, err := atomUint("seconds", group.Duration.Seconds)
		if err != nil {
			return err
		}
		v.duration = int64(seconds)
	}
	if group.Private != nil {
		v.isPrivate = true
	}
	if group.Uploaded != "" {
		published, err := atomTime("uploaded", group.Uploaded)
		if err != nil {
			return err
		}
		v.published = published
	}
	if group.VideoID != "" {
		v.id = group.VideoID
	}
	return nil
}

func (v *Video) parseAtomRating(rating *atomRatingXML) error {
	if rating.Min == "" {
		return jsonval.Missing("min")
	}
	if rating.Max == "" {
		return jsonval.Missing("max")
	}

	min, err := strconv.Atoi(rating.Min)
	if err != nil {
		return jsonval.Format("min", "not an integer")
	}
	max, err := strconv.Atoi(rating.Max)
	if err != nil {
		return jsonval.Format("max", "not an integer")
	}

	r := Rating{Min: min, Max: max}
	if rating.NumRaters != "" {
		if r.Count, err = atomUint("numRaters", rating.NumRaters); err != nil {
			return err
		}
	}
	if rating.Average != "" {
		if r.Average, err = strconv.ParseFloat(rating.Average, 64); err != nil {
			return jsonval.Format("average", "not a number")
		}
	}
	v.rating = r
	return nil
}

func (v *Video) parseAtomWhere(where *atomWhereXML) error {
	pos := strings.Fields(where.Pos)
	if len(pos) == 0 {
		return nil
	}
	if len(pos) != 2 {
		return jsonval.Format("pos", "expected \"latitude longitude\"")
	}
	latitude, err := strconv.ParseFloat(pos[0], 64)
	if err != nil {
		return jsonval.Format("pos", "latitude is not a number")
	}
	longitude, err := strconv.ParseFloat(pos[1], 64)
	if err != nil {
		return jsonval.Format("pos", "longitude is not a number")
	}
	v.latitude = latitude
	v.longitude = longitude
	v.coordsSet = true
	return nil
}

// applyAtomState seeds the raw status slots so the upload-state projection
// recomputes the state carried by the legacy document. Legacy reason codes
// are fixed points of the projection's buckets.
func (v *Video) applyAtomState(state *atomStateXML) {
	switch state.Name {
	case "deleted", "failed", "rejected", "restricted":
		v.uploadStatus = state.Name
	case "processing":
		v.processingStatus = state.Name
	}
	switch state.Name {
	case "failed":
		v.failureReason = state.ReasonCode
	case "rejected", "restricted":
		v.rejectionReason = state.ReasonCode
	}
	v.stateHelpURI = state.HelpURL
	v.stateMessage = strings.TrimSpace(state.Message)
	v.uploadState = nil
}

func atomTime(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, jsonval.Format(field, fmt.Sprintf("%q is not an ISO 8601 timestamp", value))
	}
	return t.Truncate(time.Second), nil
}

func atomUint(field, value string) (uint64, error) {
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, jsonval.Format(field, fmt.Sprintf("%q is not a decimal integer", value))
	}
	return n, nil
}
