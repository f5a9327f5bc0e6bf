// Package notice carries one-shot status messages across a redirect.
//
// Messages are stored in a short-lived cookie by Add and consumed by Pop on the next
// page render. The cookie holds base64url-encoded JSON; it is not signed, so never
// put anything in a notice that the client must not be able to forge.
package notice

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

// CookieName is the flash cookie name.
const CookieName = "debug_bar_notice"

// maxMessages bounds how many notices can pile up before older ones are dropped.
const maxMessages = 8

// Add appends msg to the pending notices of the client.
//
// r is consulted for notices already pending; msg is appended to them.
func Add(w http.ResponseWriter, r *http.Request, msg string) {
	if msg == "" {
		return
	}
	msgs := append(Peek(r), msg)
	if len(msgs) > maxMessages {
		msgs = msgs[len(msgs)-maxMessages:]
	}
	b, err := json.Marshal(msgs)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    base64.RawURLEncoding.EncodeToString(b),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   300,
	})
}

// Peek returns pending notices without consuming them.
func Peek(r *http.Request) []string {
	if r == nil {
		return nil
	}
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	var msgs []string
	if err := json.Unmarshal(raw, &msgs); err != nil {
		return nil
	}
	return msgs
}

// Pop returns pending notices and clears them.
func Pop(w http.ResponseWriter, r *http.Request) []string {
	msgs := Peek(r)
	if len(msgs) == 0 {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	return msgs
}
