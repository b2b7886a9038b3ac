package contradict

import "strings"

// salientTopics is the ordered keyword list that buckets facts for pairwise
// comparison. Multi-word keywords come first so "market cap" never lands in
// a generic "market" bucket.
var salientTopics = []string{
	"market capitalization", "market cap", "market share", "price target",
	"profit margin", "operating margin", "gross margin", "net income",
	"employee count", "52-week high", "52-week low", "p/e ratio",
	"cash flow", "revenue", "profit", "earnings", "margin", "eps",
	"dividend", "employees", "headcount", "workforce", "valuation",
	"growth", "customers", "founded", "debt", "funding",
}

// topicAliases folds synonymous keywords into one bucket.
var topicAliases = map[string]string{
	"market capitalization": "market cap",
	"employee count":        "employees",
	"headcount":             "employees",
	"workforce":             "employees",
	"net income":            "profit",
}

// topicOf assigns a fact's content to a comparison bucket: the first
// salient keyword it mentions, else the fact category.
func topicOf(content, category string) string {
	lower := strings.ToLower(content)
	for _, keyword := range salientTopics {
		if strings.Contains(lower, keyword) {
			if canonical, ok := topicAliases[keyword]; ok {
				return canonical
			}
			return keyword
		}
	}
	return category
}
