package action

import "net/url"

// Search URL builders. Queries are percent-encoded so punctuation in
// error messages survives the trip to the browser.

func GoogleSearchURL(query string) string {
	return "https://www.google.com/search?q=" + url.QueryEscape(query)
}

func StackOverflowSearchURL(query string) string {
	return "https://stackoverflow.com/search?q=" + url.QueryEscape(query)
}

func WikipediaSearchURL(query string) string {
	return "https://en.wikipedia.org/wiki/Special:Search?search=" + url.QueryEscape(query)
}

func GitHubIssueSearchURL(query string) string {
	return "https://github.com/search?q=" + url.QueryEscape(query) + "&type=issues"
}

func GoogleImagesURL() string {
	return "https://images.google.com/"
}
