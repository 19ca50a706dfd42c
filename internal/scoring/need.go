package scoring

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type Need string

const (
	NeedECommerce   Need = "E-commerce"
	NeedWebsite     Need = "Website"
	NeedSocialMedia Need = "Social-Media"
	NeedOther       Need = "Other"
)

type needRule struct {
	need     Need
	keywords []string
}

// needRules are tested in order; the first group with any matching keyword wins.
var needRules = []needRule{
	{NeedECommerce, []string{"store", "tienda", "ecommerce"}},
	{NeedWebsite, []string{"web", "page", "página"}},
	{NeedSocialMedia, []string{"instagram", "social", "redes"}},
}

// ClassifyNeed buckets a message by substring keywords. Non-string input is Other.
func ClassifyNeed(message interface{}) Need {
	text, ok := message.(string)
	if !ok {
		return NeedOther
	}
	// Built per call: a Caser holds state and ClassifyNeed runs from concurrent batch rows.
	text = cases.Lower(language.Und).String(text)

	for _, rule := range needRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.need
			}
		}
	}
	return NeedOther
}
