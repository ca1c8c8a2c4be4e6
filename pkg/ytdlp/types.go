package ytdlp

import "encoding/json"

// Format yt-dlp 输出的一个可选格式。
// video_ext / audio_ext 用 "none" 表示该轨不存在。
type Format struct {
	FormatID   string `json:"format_id"`
	Format     string `json:"format"`
	Ext        string `json:"ext"`
	VideoExt   string `json:"video_ext"`
	AudioExt   string `json:"audio_ext"`
	ACodec     string `json:"acodec"`
	VCodec     string `json:"vcodec"`
	Resolution string `json:"resolution"`
	Protocol   string `json:"protocol"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
}

// Info yt-dlp 提取出的单个条目（或播放列表）的元数据。
// Raw 保留原始 JSON 的键集合，用于必要字段校验。
type Info struct {
	Type               string   `json:"_type"`
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	URL                string   `json:"url"`
	WebpageURL         string   `json:"webpage_url"`
	WebpageURLBasename string   `json:"webpage_url_basename"`
	DisplayID          string   `json:"display_id"`
	UploadDate         string   `json:"upload_date"`
	Uploader           string   `json:"uploader"`
	Series             string   `json:"series"`
	Extractor          string   `json:"extractor"`
	Duration           float64  `json:"duration"`
	Formats            []Format `json:"formats"`
	Entries            []*Info  `json:"entries"`

	Raw map[string]json.RawMessage `json:"-"`
}

func (i *Info) UnmarshalJSON(data []byte) error {
	type plain Info
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*i = Info(p)
	return json.Unmarshal(data, &i.Raw)
}

// IsPlaylist 判断该条目是否是播放列表。
func (i *Info) IsPlaylist() bool {
	return i.Type == "playlist"
}

// DownloadResult 一次下载的产物：元数据、选中的格式组合和落盘路径。
type DownloadResult struct {
	Info     *Info
	Choice   *FormatChoice
	Filepath string
}
