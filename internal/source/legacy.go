package source

// legacyTags maps the tag column of pre-CSV exports to source names.
var legacyTags = map[string]string{
	"WSJ, Opinion":                      "WSJ Opinion",
	"Washington post":                   "Washington Post",
	"NYT, Opinion, Letters":             "New York Times Opinion Letters",
	"NYT":                               "New York Times",
	"NYT, Opinion":                      "New York Times Opinion",
	"WSJ":                               "Wall Street Journal",
	"NYPost":                            "NY Post",
	"Washington post, Opinion":          "Washington Post Opinion",
	"Washington post, Opinion, Letters": "Washington Post Opinion Letters",
	"USAToday":                          "USA Today",
}

var foldedLegacyTags = func() map[string]string {
	out := make(map[string]string, len(legacyTags))
	for tag, name := range legacyTags {
		out[foldKey(tag)] = name
	}
	return out
}()

// LegacyTag returns the source name for an old export tag. Unknown tags pass
// through unchanged.
func LegacyTag(tag string) string {
	if name, ok := legacyTags[tag]; ok {
		return name
	}
	if name, ok := foldedLegacyTags[foldKey(tag)]; ok {
		return name
	}
	return tag
}
