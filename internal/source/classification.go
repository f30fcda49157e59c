package source

import (
	"strings"

	"golang.org/x/text/cases"
)

// Classification is the media bias rating of a publication.
type Classification string

const (
	Left         Classification = "Left"
	LeansLeft    Classification = "Leans Left"
	Center       Classification = "Center"
	LeansRight   Classification = "Leans Right"
	Right        Classification = "Right"
	Unclassified Classification = "Unclassified"
)

var classifications = map[string]Classification{
	"Daily Caller":                    Right,
	"Daily Wire":                      Right,
	"NY Post":                         Right,
	"New York Post":                   Right,
	"Epoch Times":                     LeansRight,
	"Fox News Online":                 LeansRight,
	"WSJ Opinion":                     LeansRight,
	"Wall Street Journal Opinion":     LeansRight,
	"Washington Examiner":             LeansRight,
	"Reuters":                         Center,
	"WSJ":                             Center,
	"Wall Street Journal":             Center,
	"New York Times":                  LeansLeft,
	"USA Today":                       LeansLeft,
	"Washington Post":                 LeansLeft,
	"Washington Post Opinion":         LeansLeft,
	"Washington Post Opinion Letters": LeansLeft,
	"New York Times Opinion":          Left,
	"New York Times Opinion Letters":  Left,
	"New Yorker":                      Left,
	"The Atlantic":                    Left,
	"Vox":                             Left,
}

var foldedClassifications = func() map[string]Classification {
	out := make(map[string]Classification, len(classifications))
	for name, class := range classifications {
		out[foldKey(name)] = class
	}
	return out
}()

// Classify returns the bias rating for a canonical source name. Lookup ignores
// case and repeated whitespace.
func Classify(name string) Classification {
	if class, ok := classifications[name]; ok {
		return class
	}
	if class, ok := foldedClassifications[foldKey(name)]; ok {
		return class
	}
	return Unclassified
}

func foldKey(value string) string {
	return cases.Fold().String(strings.Join(strings.Fields(value), " "))
}
