package corpus

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"coderdist/internal/textutil"
)

// suggestionThreshold is the minimum similarity for a suggested title.
const suggestionThreshold = 0.5

// AllowList is a set of titles selected for coding.
type AllowList struct {
	titles map[string]struct{}
	order  []string
}

// Miss is an allow-list title that matched no article.
type Miss struct {
	Title      string
	Suggestion string
	Score      float64
}

// ReadAllowList reads one title per line. Lines are trimmed and folded to
// ASCII; blank lines and repeated titles are skipped.
func ReadAllowList(path string) (*AllowList, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open title allow-list: %w", err)
	}
	defer file.Close()

	list := &AllowList{titles: make(map[string]struct{})}
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		title := strings.TrimSpace(textutil.ASCII(scanner.Text()))
		if title == "" {
			continue
		}
		if _, seen := list.titles[title]; seen {
			continue
		}
		list.titles[title] = struct{}{}
		list.order = append(list.order, title)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read title allow-list: %w", err)
	}
	return list, nil
}

// Len returns the number of distinct titles.
func (l *AllowList) Len() int {
	return len(l.order)
}

// Contains reports whether title is on the list.
func (l *AllowList) Contains(title string) bool {
	_, ok := l.titles[strings.TrimSpace(title)]
	return ok
}

// Filter keeps only the articles whose title is on the list. Sources left
// without articles are dropped. Titles that matched nothing are returned with
// the closest corpus title when one is similar enough.
func (l *AllowList) Filter(sources Sources) (Sources, []Miss) {
	filtered := make(Sources, len(sources))
	matched := make(map[string]struct{}, len(l.order))
	var allTitles []string
	for _, name := range sources.Names() {
		for _, article := range sources[name] {
			allTitles = append(allTitles, article.Title)
			if !l.Contains(article.Title) {
				continue
			}
			filtered[name] = append(filtered[name], article)
			matched[strings.TrimSpace(article.Title)] = struct{}{}
		}
	}

	var misses []Miss
	for _, title := range l.order {
		if _, ok := matched[title]; ok {
			continue
		}
		miss := Miss{Title: title}
		if suggestion, score := textutil.Closest(title, allTitles); score >= suggestionThreshold {
			miss.Suggestion, miss.Score = suggestion, score
		}
		misses = append(misses, miss)
	}
	return filtered, misses
}
