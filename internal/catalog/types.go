// Package catalog loads the per-grade E-Pustakalaya JSON catalogs and
// flattens them into uniform content records for filtering and display.
package catalog

// Mode selects which deployment the content links should point at.
type Mode string

const (
	// ModeOnline builds links against the public pustakalaya.org host.
	ModeOnline Mode = "online"
	// ModeOffline builds links against the school-server LAN host.
	ModeOffline Mode = "offline"
)

const (
	onlineBaseURL  = "https://pustakalaya.org"
	offlineBaseURL = "http://172.18.96.1"
)

// Canonical content type tags observed in the source catalogs.
const (
	TypeDocument    = "document"
	TypeAudio       = "audio"
	TypeVideo       = "video"
	TypeInteractive = "interactive"
)

// Types lists all canonical content type tags.
var Types = []string{TypeDocument, TypeAudio, TypeVideo, TypeInteractive}

// NotApplicable marks fields that do not exist for a content type,
// e.g. name and file_id on interactive activities.
const NotApplicable = "NA"

// RawCatalog is one grade file as shipped by the content pipeline:
// grade label -> subject label -> chapter slug (or batch index) -> items.
// Some snapshots key the third level by chapter slug, others by an arbitrary
// batch number with grade/subject/chapter embedded in each item; both parse
// into this shape, and the third-level key is only ever a fallback chapter.
type RawCatalog map[string]map[string]map[string][]RawContentItem

// FileRef is one attached file or embed entry inside a content item.
// Link is a pointer so a missing link can be told apart from an empty one.
type FileRef struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Link    *string `json:"link"`
	Grade   string  `json:"grade,omitempty"`
	Subject string  `json:"subject,omitempty"`
	Chapter string  `json:"chapter,omitempty"`
}

// RawContentItem is one content item before flattening, discriminated by Type.
type RawContentItem struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Type          string    `json:"type"`
	Grade         string    `json:"grade,omitempty"`
	Subject       string    `json:"subject,omitempty"`
	Chapter       string    `json:"chapter,omitempty"`
	FileUpload    []FileRef `json:"file_upload,omitempty"`
	EmbedLink     []FileRef `json:"embed_link,omitempty"`
	OnlineDomain  string    `json:"online_domain,omitempty"`
	OfflineDomain string    `json:"offline_domain,omitempty"`
	LinkToContent *string   `json:"link_to_content,omitempty"`
	PublisherLogo string    `json:"publisher_logo,omitempty"`
	ContentSource string    `json:"content_source,omitempty"`
}

// ContentRecord is one flattened, display-ready row. A document with N
// attached files yields N records sharing one ContentID. Records are fully
// independent of the raw catalog once emitted and are never mutated;
// filtering always works on copies.
type ContentRecord struct {
	ContentID     string `json:"content_id"`
	Title         string `json:"title"`
	Type          string `json:"type"`
	Grade         string `json:"grade"`
	Subject       string `json:"subject"`
	Chapter       string `json:"chapter"`
	Name          string `json:"name"`
	FileID        string `json:"file_id"`
	ContentLink   string `json:"content_link"`
	PublisherLogo string `json:"publisher_logo,omitempty"`
	ContentSource string `json:"content_source,omitempty"`
}

// BaseURL returns the link prefix for file-upload content in this mode.
func (m Mode) BaseURL() string {
	if m == ModeOffline {
		return offlineBaseURL
	}
	return onlineBaseURL
}

// Valid reports whether m is a recognized mode.
func (m Mode) Valid() bool {
	return m == ModeOnline || m == ModeOffline
}
