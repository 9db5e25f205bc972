package domain

// TopCastLimit 是详情页展示的演员数量上限。
const TopCastLimit = 10

// MovieDetails 是单片详情（详情接口 + 演职员接口合并后的结果）。
type MovieDetails struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Overview    string       `json:"overview"`
	PosterPath  string       `json:"poster_path,omitempty"`
	ReleaseDate string       `json:"release_date,omitempty"` // ISO date, e.g. "2021-09-15"
	RuntimeM    int          `json:"runtime"`
	Rating      float64      `json:"rating"`
	Genres      []string     `json:"genres"`
	Cast        []CastMember `json:"cast"`
	Trailer     *Trailer     `json:"trailer,omitempty"`
}

type CastMember struct {
	CastID    int64  `json:"cast_id"`
	Name      string `json:"name"`
	Character string `json:"character"`
}
