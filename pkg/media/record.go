package media

import (
	"path/filepath"
	"strings"
)

// Record 一个待上传媒体的规范化描述，贯穿下载、切分、上传全流程。
type Record struct {
	Title     string `json:"title"`
	VideoPath string `json:"video_path"`
	AudioPath string `json:"audio_path"`
	Caption   string `json:"caption"`
	Uploader  string `json:"uploader"`
	Duration  int    `json:"duration"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Thumb     string `json:"thumb"`
}

// Clone 复制一份 Record，切分时每个分段各持有一份。
func (r *Record) Clone() *Record {
	clone := *r
	return &clone
}

// audioExts 识别为纯音频的扩展名。
var audioExts = map[string]struct{}{
	".aac":  {},
	".ape":  {},
	".flac": {},
	".m4a":  {},
	".mp3":  {},
	".ogg":  {},
	".opus": {},
	".wav":  {},
	".wma":  {},
}

// IsAudioExt 判断扩展名（带点）是否是音频格式。
func IsAudioExt(ext string) bool {
	_, ok := audioExts[strings.ToLower(ext)]
	return ok
}

// IsAudioPath 判断文件路径是否是音频文件。
func IsAudioPath(path string) bool {
	return IsAudioExt(filepath.Ext(path))
}
