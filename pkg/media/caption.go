package media

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// captionMaxWidth Telegram 对 caption 的长度上限（按显示宽度估算留余量）。
const captionMaxWidth = 1024

// BuildCaption 生成 Markdown 格式的 caption，有链接时把标题包成链接。
func BuildCaption(title, link string) string {
	caption := title
	if link != "" {
		caption = fmt.Sprintf("[%s](%s)", title, link)
	}
	return runewidth.Truncate(caption, captionMaxWidth, "…")
}

// uploaderReplacer 把 uploader 里不适合出现在 hashtag 中的字符统一换成下划线。
var uploaderReplacer = strings.NewReplacer(" ", "_", ".", "_", "-", "_", "/", "_")

// CompactUploader 把 uploader 压缩成适合做 hashtag 的形式。
func CompactUploader(uploader string) string {
	return uploaderReplacer.Replace(strings.TrimSpace(uploader))
}
