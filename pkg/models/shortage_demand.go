package models

// ShortageDemand is an ephemeral "this much is needed" record fed to the
// procurement aggregator. It is never persisted.
type ShortageDemand struct {
	ArticleID int `json:"article_id" binding:"required"`
	Required  int `json:"required" binding:"required"`
}
