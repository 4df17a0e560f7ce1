package controller

import (
	"fmt"
	"html"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/insikex/safeguard/verify"
)

const pageShell = `<!DOCTYPE html>
<html>
<head>
<title>%v - Safeguard</title>
<meta name="viewport" content="width=device-width, initial-scale=1">
<style>
* { margin: 0; padding: 0; box-sizing: border-box; }
body {
  font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
  background: linear-gradient(135deg, %v);
  min-height: 100vh;
  display: flex;
  align-items: center;
  justify-content: center;
  padding: 20px;
}
.container {
  background: white;
  border-radius: 20px;
  padding: 40px;
  text-align: center;
  box-shadow: 0 20px 60px rgba(0,0,0,0.3);
  max-width: 400px;
  width: 100%%;
}
.logo { font-size: 64px; margin-bottom: 20px; }
h1 { color: #333; margin-bottom: 10px; }
p { color: #666; line-height: 1.6; margin-bottom: 20px; }
button {
  background: linear-gradient(135deg, #667eea 0%%, #764ba2 100%%);
  color: white;
  border: none;
  padding: 15px 40px;
  font-size: 18px;
  border-radius: 10px;
  cursor: pointer;
}
</style>
</head>
<body>
<div class="container">
<div class="logo">%v</div>
<h1>%v</h1>
%v
</div>
</body>
</html>`

const (
	gradientPurple = "#667eea 0%, #764ba2 100%"
	gradientRed    = "#ff6b6b 0%, #ee5a5a 100%"
	gradientGreen  = "#51cf66 0%, #37b24d 100%"
)

func htmlPage(ctx *gin.Context, status int, title, gradient, logo, heading, body string) {
	ctx.Data(status, "text/html; charset=utf-8",
		[]byte(fmt.Sprintf(pageShell, title, gradient, logo, heading, body)))
}

func errorPage(ctx *gin.Context, status int, message string) {
	htmlPage(ctx, status, "Error", gradientRed, "❌", "Error",
		"<p>"+html.EscapeString(message)+"</p>")
}

func portalParams(token, chatID, userID string) (int64, int64, error) {
	c, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return 0, 0, err
	}
	u, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return 0, 0, err
	}
	if token == "" {
		return 0, 0, fmt.Errorf("empty token")
	}
	return c, u, nil
}

// GetIndex is the landing page.
func GetIndex(ctx *gin.Context) {
	htmlPage(ctx, http.StatusOK, "Safeguard", gradientPurple, "🛡️", "Safeguard",
		"<p>Verification portal protecting Telegram groups from spam and bots.</p>")
}

// GetVerify renders the confirmation form when the link carries a token
// that matches a pending verification.
func GetVerify(ctx *gin.Context) {
	token := ctx.Query("token")
	chatID, userID, err := portalParams(token, ctx.Query("chat_id"), ctx.Query("user_id"))
	if err != nil {
		errorPage(ctx, http.StatusBadRequest, "Invalid verification link")
		return
	}
	switch err := coordinator.PortalPending(chatID, userID, token); err {
	case nil:
	case verify.ErrNoPending:
		errorPage(ctx, http.StatusNotFound, "Verification not found or expired")
		return
	case verify.ErrBadToken:
		errorPage(ctx, http.StatusForbidden, "Invalid token")
		return
	default:
		errorPage(ctx, http.StatusInternalServerError, "Something went wrong, try again")
		return
	}
	form := fmt.Sprintf(`<p>Click the button below to verify that you are not a bot.</p>
<form method="POST" action="/verify">
<input type="hidden" name="token" value="%v">
<input type="hidden" name="chat_id" value="%v">
<input type="hidden" name="user_id" value="%v">
<button type="submit">✅ I'm not a bot</button>
</form>`, html.EscapeString(token), chatID, userID)
	htmlPage(ctx, http.StatusOK, "Verify", gradientPurple, "🔐", "Verification", form)
}

// PostVerify consumes the pending verification. A repeated submit hits the
// not-found branch, so the page stays safe to reload.
func PostVerify(ctx *gin.Context) {
	token := ctx.PostForm("token")
	chatID, userID, err := portalParams(token, ctx.PostForm("chat_id"), ctx.PostForm("user_id"))
	if err != nil {
		errorPage(ctx, http.StatusBadRequest, "Missing parameters")
		return
	}
	switch err := coordinator.OnPortal(chatID, userID, token); err {
	case nil:
		htmlPage(ctx, http.StatusOK, "Verified", gradientGreen, "🎉", "Verified!",
			"<p>You can now return to the group and start chatting.</p>")
	case verify.ErrNoPending:
		errorPage(ctx, http.StatusNotFound, "Verification not found or expired")
	case verify.ErrBadToken:
		errorPage(ctx, http.StatusForbidden, "Invalid token")
	default:
		errorPage(ctx, http.StatusInternalServerError, "Something went wrong, try again")
	}
}
