package youtube

import "github.com/gauthierbraillon/tubedata/internal/jsonval"

// Thumbnail is one image rendition of a video. Immutable after construction.
type Thumbnail struct {
	uri    string
	width  int64
	height int64
}

// NewThumbnail constructs a thumbnail from its field bag.
func NewThumbnail(uri string, width, height int64) Thumbnail {
	return Thumbnail{uri: uri, width: width, height: height}
}

// URI returns the image location.
func (t Thumbnail) URI() string { return t.uri }

// Width returns the image width in pixels, or 0 if unknown.
func (t Thumbnail) Width() int64 { return t.width }

// Height returns the image height in pixels, or 0 if unknown.
func (t Thumbnail) Height() int64 { return t.height }

// parseThumbnail reads one element of the snippet.thumbnails object.
func parseThumbnail(obj jsonval.Object) (Thumbnail, error) {
	uri, _, err := obj.String("url", jsonval.Default)
	if err != nil {
		return Thumbnail{}, err
	}
	width, _, err := obj.Int("width", jsonval.Default)
	if err != nil {
		return Thumbnail{}, err
	}
	height, _, err := obj.Int("height", jsonval.Default)
	if err != nil {
		return Thumbnail{}, err
	}
	return Thumbnail{uri: uri, width: width, height: height}, nil
}

// Category is a video's single content category. Only the ID is carried on
// the current wire format; label and scheme survive from legacy documents.
type Category struct {
	id     string
	scheme string
	label  string
}

// NewCategory constructs a category from its field bag.
func NewCategory(id, scheme, label string) Category {
	return Category{id: id, scheme: scheme, label: label}
}

// ID returns the category identifier.
func (c Category) ID() string { return c.id }

// Scheme returns the categorization scheme URI, or "".
func (c Category) Scheme() string { return c.scheme }

// Label returns the human-readable label, or "".
func (c Category) Label() string { return c.label }

// Link relations used by the entities.
const (
	// RelSelf is the entry's canonical address, used for refresh and
	// deletion.
	RelSelf = "self"
	// RelParentComment marks the link from a reply to the comment it
	// replies to.
	RelParentComment = "http://gdata.youtube.com/schemas/2007#in-reply-to"
)

// Link is a relation-tagged URI attached to an entry.
type Link struct {
	uri      string
	relation string
}

// NewLink constructs a link with the given URI and relation.
func NewLink(uri, relation string) Link {
	return Link{uri: uri, relation: relation}
}

// URI returns the link target.
func (l Link) URI() string { return l.uri }

// Relation returns the link relation token.
func (l Link) Relation() string { return l.relation }

// Author identifies who wrote an entry.
type Author struct {
	name string
	uri  string
}

// NewAuthor constructs an author with a display name and an optional URI.
func NewAuthor(name, uri string) Author {
	return Author{name: name, uri: uri}
}

// Name returns the author's display name.
func (a Author) Name() string { return a.name }

// URI returns the author's channel URI, or "".
func (a Author) URI() string { return a.uri }

// links is the ordered link collection shared by the entities.
type links []Link

// lookUp returns the first link with the given relation.
func (ls links) lookUp(relation string) (Link, bool) {
	for _, l := range ls {
		if l.relation == relation {
			return l, true
		}
	}
	return Link{}, false
}

// set replaces the link with the given relation, or appends it.
func (ls links) set(l Link) links {
	for i := range ls {
		if ls[i].relation == l.relation {
			ls[i] = l
			return ls
		}
	}
	return append(ls, l)
}

// remove deletes every link with the given relation.
func (ls links) remove(relation string) links {
	out := ls[:0]
	for _, l := range ls {
		if l.relation != relation {
			out = append(out, l)
		}
	}
	return out
}
