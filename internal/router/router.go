// Package router decides what happens to each archive entry: skipped
// metadata, verbatim copy, or image transcode.
package router

import (
	"path"
	"strings"
)

// Action is the routing decision for one entry.
type Action int

const (
	PassThrough Action = iota
	Transcode
	Skip
)

func (a Action) String() string {
	switch a {
	case PassThrough:
		return "pass_through"
	case Transcode:
		return "transcode"
	case Skip:
		return "skip"
	default:
		return "unknown"
	}
}

// MetadataPrefix marks the sidecar directory macOS archivers add to ZIPs.
const MetadataPrefix = "__MACOSX"

// OutputExtension is the extension given to transcoded pages.
const OutputExtension = ".webp"

// Extension matching is case-sensitive: "PAGE.JPG" is copied verbatim.
var transcodable = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
}

// Classify routes an entry by name.
func Classify(name string) Action {
	if strings.HasPrefix(name, MetadataPrefix) {
		return Skip
	}
	if _, ok := transcodable[path.Ext(name)]; ok {
		return Transcode
	}
	return PassThrough
}

// OutputName replaces the extension of name with OutputExtension, leaving the
// directory part untouched.
func OutputName(name string) string {
	return strings.TrimSuffix(name, path.Ext(name)) + OutputExtension
}
