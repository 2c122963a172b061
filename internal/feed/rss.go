package feed

import "encoding/xml"

const (
	nsITunes  = "http://www.itunes.com/dtds/podcast-1.0.dtd"
	nsContent = "http://purl.org/rss/1.0/modules/content/"
	nsAtom    = "http://www.w3.org/2005/Atom"
)

type rssDocument struct {
	XMLName   xml.Name `xml:"rss"`
	Version   string   `xml:"version,attr"`
	ITunesNS  string   `xml:"xmlns:itunes,attr"`
	ContentNS string   `xml:"xmlns:content,attr"`
	AtomNS    string   `xml:"xmlns:atom,attr"`
	Channel   channel  `xml:"channel"`
}

type channel struct {
	Title         string     `xml:"title"`
	Link          string     `xml:"link,omitempty"`
	AtomLink      *atomLink  `xml:"atom:link"`
	Language      string     `xml:"language,omitempty"`
	Copyright     string     `xml:"copyright,omitempty"`
	Description   *cdata     `xml:"description"`
	LastBuildDate string     `xml:"lastBuildDate,omitempty"`
	Author        string     `xml:"itunes:author,omitempty"`
	Subtitle      string     `xml:"itunes:subtitle,omitempty"`
	Summary       string     `xml:"itunes:summary,omitempty"`
	Type          string     `xml:"itunes:type,omitempty"`
	Owner         *owner     `xml:"itunes:owner"`
	Image         *image     `xml:"itunes:image"`
	Categories    []category `xml:"itunes:category"`
	Keywords      string     `xml:"itunes:keywords,omitempty"`
	Explicit      string     `xml:"itunes:explicit,omitempty"`
	Block         string     `xml:"itunes:block,omitempty"`
	Complete      string     `xml:"itunes:complete,omitempty"`
	NewFeedURL    string     `xml:"itunes:new-feed-url,omitempty"`
	Items         []item     `xml:"item"`
}

type item struct {
	Title       string     `xml:"title"`
	GUID        guid       `xml:"guid"`
	PubDate     string     `xml:"pubDate"`
	Enclosure   *enclosure `xml:"enclosure"`
	Description *cdata     `xml:"description"`
	Content     *cdata     `xml:"content:encoded"`
	Duration    string     `xml:"itunes:duration,omitempty"`
	Image       *image     `xml:"itunes:image"`
	Explicit    string     `xml:"itunes:explicit,omitempty"`
	EpisodeType string     `xml:"itunes:episodeType,omitempty"`
	Season      string     `xml:"itunes:season,omitempty"`
	Episode     string     `xml:"itunes:episode,omitempty"`
	Block       string     `xml:"itunes:block,omitempty"`
	Subtitle    string     `xml:"itunes:subtitle,omitempty"`
	Summary     string     `xml:"itunes:summary,omitempty"`
	Keywords    string     `xml:"itunes:keywords,omitempty"`
}

type cdata struct {
	Text string `xml:",cdata"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type owner struct {
	Name  string `xml:"itunes:name,omitempty"`
	Email string `xml:"itunes:email,omitempty"`
}

type image struct {
	Href string `xml:"href,attr"`
}

type category struct {
	Text string     `xml:"text,attr"`
	Sub  []category `xml:"itunes:category"`
}

type guid struct {
	IsPermaLink string `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

type enclosure struct {
	URL    string `xml:"url,attr"`
	Length int64  `xml:"length,attr"`
	Type   string `xml:"type,attr"`
}

func optionalCDATA(s string) *cdata {
	if s == "" {
		return nil
	}
	return &cdata{Text: s}
}
