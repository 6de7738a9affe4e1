package model

import "time"

type Present struct {
	ID          int64
	Title       string
	Description string
	Links       []string
	URL         string
	Reserved    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type PresentSummary struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

type PresentDetail struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Links       []string `json:"links"`
	URL         string   `json:"url"`
	Reserved    bool     `json:"reserved"`
}

func NewPresentSummary(p Present) PresentSummary {
	return PresentSummary{ID: p.ID, Title: p.Title, URL: p.URL}
}

func NewPresentSummaries(presents []Present) []PresentSummary {
	out := make([]PresentSummary, 0, len(presents))
	for _, p := range presents {
		out = append(out, NewPresentSummary(p))
	}
	return out
}

func NewPresentDetail(p Present) PresentDetail {
	links := p.Links
	if links == nil {
		links = []string{}
	}
	return PresentDetail{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Links:       links,
		URL:         p.URL,
		Reserved:    p.Reserved,
	}
}
