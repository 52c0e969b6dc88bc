package media

import "strings"

type SourceKind int

const (
	KindDataURI SourceKind = iota
	KindRemoteURL
	KindLocalFile
)

// Source is a media URI classified once at the boundary. Everything
// downstream switches on Kind instead of re-sniffing the string. Temp marks
// a scratch file that should be deleted once the request completes.
type Source struct {
	Kind SourceKind
	URI  string
	Temp bool
}

// Resolve classifies a picked media URI. Anything that is not a data URI or
// an http(s) URL is treated as a local path; file:// prefixes are stripped.
func Resolve(uri string) Source {
	switch {
	case strings.HasPrefix(uri, "data:"):
		return Source{Kind: KindDataURI, URI: uri}
	case strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
		return Source{Kind: KindRemoteURL, URI: uri}
	case strings.HasPrefix(uri, "file://"):
		return Source{Kind: KindLocalFile, URI: strings.TrimPrefix(uri, "file://")}
	default:
		return Source{Kind: KindLocalFile, URI: uri}
	}
}
