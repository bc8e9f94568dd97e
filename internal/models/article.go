package models

import "time"

// ArticleCreator is the projection of the creating user embedded in article reads.
type ArticleCreator struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Article is a piece of content owned by its creator.
type Article struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Content   string         `json:"content"`
	CreatorID string         `json:"creatorId"`
	Creator   ArticleCreator `json:"creator"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// ArticleFilter narrows an article listing. Title is a case-insensitive
// substring match, AuthorID an exact match on the creator.
type ArticleFilter struct {
	Title    string
	AuthorID string
}

// ArticleUpdate carries the mutable article fields. Nil means unchanged.
type ArticleUpdate struct {
	Title   *string
	Content *string
}
