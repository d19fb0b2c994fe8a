package domain

// FeedItem is a single article from a news feed.
type FeedItem struct {
	Link  string
	Title string
}
