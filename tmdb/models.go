package tmdb

import "moviefinder/movie"

type movieResult struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	PosterPath  *string `json:"poster_path"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
}

func (m movieResult) toSummary() movie.Summary {
	return movie.Summary{
		ID:          m.ID,
		Title:       m.Title,
		PosterPath:  deref(m.PosterPath),
		ReleaseDate: m.ReleaseDate,
		VoteAverage: m.VoteAverage,
	}
}

type pageResponse struct {
	Page         int           `json:"page"`
	Results      []movieResult `json:"results"`
	TotalPages   int           `json:"total_pages"`
	TotalResults int           `json:"total_results"`
}

func (p pageResponse) toPage() movie.Page {
	results := make([]movie.Summary, len(p.Results))
	for i, r := range p.Results {
		results[i] = r.toSummary()
	}
	return movie.Page{
		Page:         p.Page,
		Results:      results,
		TotalPages:   p.TotalPages,
		TotalResults: p.TotalResults,
	}
}

type genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type genreListResponse struct {
	Genres []genre `json:"genres"`
}

type castMember struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Character   string  `json:"character"`
	ProfilePath *string `json:"profile_path"`
}

type detailsResponse struct {
	movieResult
	Overview     string  `json:"overview"`
	BackdropPath *string `json:"backdrop_path"`
	Runtime      int     `json:"runtime"`
	VoteCount    int     `json:"vote_count"`
	Genres       []genre `json:"genres"`
	Credits      struct {
		Cast []castMember `json:"cast"`
	} `json:"credits"`
}

func (d detailsResponse) toDetails() movie.Details {
	genres := make([]movie.Genre, len(d.Genres))
	for i, g := range d.Genres {
		genres[i] = movie.Genre{ID: g.ID, Name: g.Name}
	}
	cast := make([]movie.CastMember, len(d.Credits.Cast))
	for i, p := range d.Credits.Cast {
		cast[i] = movie.CastMember{
			ID:          p.ID,
			Name:        p.Name,
			Character:   p.Character,
			ProfilePath: deref(p.ProfilePath),
			ProfileURL:  movie.ThumbnailURL(deref(p.ProfilePath)),
		}
	}
	return movie.Details{
		Summary:      d.movieResult.toSummary(),
		Overview:     d.Overview,
		BackdropPath: deref(d.BackdropPath),
		Runtime:      d.Runtime,
		VoteCount:    d.VoteCount,
		Genres:       genres,
		Cast:         cast,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
