package scoring

import "strings"

type Category string

const (
	CategoryHot     Category = "Hot"
	CategoryWarm    Category = "Warm"
	CategoryCold    Category = "Cold"
	CategoryUnknown Category = "Unknown"
)

var categoryTags = map[Category]string{
	CategoryHot:     "🟢",
	CategoryWarm:    "🟡",
	CategoryCold:    "🔴",
	CategoryUnknown: "❓",
}

// Categorize buckets a score: nil is Unknown, >=4 Hot, 3 Warm, <=2 Cold.
// It is total over every int so out-of-range scores still land in a bucket.
func Categorize(score *int) Category {
	switch {
	case score == nil:
		return CategoryUnknown
	case *score >= 4:
		return CategoryHot
	case *score == 3:
		return CategoryWarm
	default:
		return CategoryCold
	}
}

// Label renders the category with its status tag, e.g. "🟢 Hot".
func (c Category) Label() string {
	tag, ok := categoryTags[c]
	if !ok {
		tag = categoryTags[CategoryUnknown]
	}
	return tag + " " + string(c)
}

// ParseCategory accepts a bare name or a label and is case-insensitive.
// Anything unrecognised is Unknown.
func ParseCategory(s string) Category {
	s = strings.TrimSpace(s)
	for _, tag := range categoryTags {
		if strings.HasPrefix(s, tag) {
			s = strings.TrimSpace(strings.TrimPrefix(s, tag))
			break
		}
	}
	for _, c := range []Category{CategoryHot, CategoryWarm, CategoryCold} {
		if strings.EqualFold(s, string(c)) {
			return c
		}
	}
	return CategoryUnknown
}
