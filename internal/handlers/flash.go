package handlers

import (
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

// フラッシュメッセージの受け渡しに使うクッキー名。
const flashCookie = "quilltask_flash"

// Flash は次のレンダリングで一度だけ表示される通知です。
type Flash struct {
	Message  string
	Category string // "success" または "danger"
}

// setFlash はリダイレクト先で表示するフラッシュメッセージを設定します。
// クッキー値に空白等を入れられないためURLエンコードして格納します。
func setFlash(c *gin.Context, message, category string) {
	value := url.QueryEscape(category + "|" + message)
	c.SetCookie(flashCookie, value, 60, "/", "", false, true)
}

// getFlash はフラッシュメッセージを取得し、クッキーを消費します。
// メッセージが無い場合は nil を返します。
func getFlash(c *gin.Context) *Flash {
	raw, err := c.Cookie(flashCookie)
	if err != nil || raw == "" {
		return nil
	}
	c.SetCookie(flashCookie, "", -1, "/", "", false, true)

	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return nil
	}
	category, message, found := strings.Cut(decoded, "|")
	if !found {
		return &Flash{Message: decoded, Category: "success"}
	}
	return &Flash{Message: message, Category: category}
}
