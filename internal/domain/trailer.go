package domain

import "strings"

// YouTubeEmbedBase 是所有预告片 locator 的前缀（两个来源最终都落到 YouTube）。
const YouTubeEmbedBase = "https://www.youtube.com/embed/"

// Trailer 是一次解析得到的预告片引用。没有持久身份：每次 enrich 都重新计算。
type Trailer struct {
	Provider string `json:"provider"` // 解析成功的来源（小写，例如 "youtube" / "tmdb"）
	Key      string `json:"key"`      // YouTube 视频 ID
	URL      string `json:"url"`      // 可嵌入的播放地址
}

// NewYouTubeTrailer 用视频 ID 构造 embed locator；key 为空时返回 nil。
func NewYouTubeTrailer(provider, key string) *Trailer {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil
	}
	return &Trailer{
		Provider: strings.ToLower(strings.TrimSpace(provider)),
		Key:      key,
		URL:      YouTubeEmbedBase + key,
	}
}

// Video 是 catalog 单片视频列表中的一条记录（只保留选择预告片需要的字段）。
type Video struct {
	Key  string `json:"key"`
	Site string `json:"site"`
	Type string `json:"type"`
	Name string `json:"name"`
}

// FirstYouTubeTrailer 返回第一条 type=="Trailer" 且 site=="YouTube" 的视频（大小写敏感，精确匹配）。
func FirstYouTubeTrailer(videos []Video) (Video, bool) {
	for _, v := range videos {
		if v.Type == "Trailer" && v.Site == "YouTube" && strings.TrimSpace(v.Key) != "" {
			return v, true
		}
	}
	return Video{}, false
}
