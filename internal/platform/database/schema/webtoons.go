package schema

// WebtoonsTable represents the 'public.webtoons' table
type WebtoonsTable struct {
	Table          string
	Title          string
	Platform       string
	Genres         string
	Status         string
	ReferenceScore string
	Position       string
	SyncedAt       string
}

// Webtoons is the schema definition for public.webtoons
var Webtoons = WebtoonsTable{
	Table:          "webtoons",
	Title:          "title",
	Platform:       "platform",
	Genres:         "genres",
	Status:         "status",
	ReferenceScore: "reference_score",
	Position:       "position",
	SyncedAt:       "synced_at",
}
