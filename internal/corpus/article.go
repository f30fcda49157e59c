package corpus

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zeebo/xxh3"
)

// Article is one unit of content. IDs and Coders are parallel slices filled
// in by the assignment engine: IDs[i] was handed to Coders[i].
type Article struct {
	Source string
	Title  string
	Body   string
	IDs    []int
	Coders []int
}

// Key identifies an article by its body text.
func (a *Article) Key() uint64 {
	return xxh3.HashString(a.Body)
}

// Complete reports whether the article has both a title and a body.
func (a *Article) Complete() bool {
	return strings.TrimSpace(a.Title) != "" && strings.TrimSpace(a.Body) != ""
}

// Assign records that coder received the article under id.
func (a *Article) Assign(id, coder int) {
	a.IDs = append(a.IDs, id)
	a.Coders = append(a.Coders, coder)
}

// ResetAssignments clears any previous assignment stamps.
func (a *Article) ResetAssignments() {
	a.IDs = nil
	a.Coders = nil
}

func (a *Article) String() string {
	return fmt.Sprintf("Article(ids=%v, source=%s, title=%q)", a.IDs, a.Source, a.Title)
}

// Sources groups articles by canonical source name.
type Sources map[string][]*Article

// Names returns the source names in sorted order.
func (s Sources) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of articles across all sources.
func (s Sources) Count() int {
	total := 0
	for _, articles := range s {
		total += len(articles)
	}
	return total
}

// Flatten concatenates the articles of every source, sources in name order
// and articles in file order.
func (s Sources) Flatten() []*Article {
	out := make([]*Article, 0, s.Count())
	for _, name := range s.Names() {
		out = append(out, s[name]...)
	}
	return out
}

// Duplicates returns groups of two or more articles sharing a body.
func Duplicates(articles []*Article) [][]*Article {
	groups := make(map[uint64][]*Article)
	var order []uint64
	for _, article := range articles {
		key := article.Key()
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], article)
	}
	var out [][]*Article
	for _, key := range order {
		if len(groups[key]) > 1 {
			out = append(out, groups[key])
		}
	}
	return out
}
