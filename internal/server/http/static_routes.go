package httpserver

import (
	"net/http"
	"strings"
)

const viewCookieName = "chessbot_view"

// RegisterStaticRoutes mounts:
// - /web/* -> frontend assets from webDir
// - /      -> redirect to /web/, keeping a ?view= choice (board orientation) in a cookie
func RegisterStaticRoutes(mux *http.ServeMux, webDir string) {
	if mux == nil {
		return
	}
	if webDir == "" {
		webDir = "."
	}

	mux.Handle("/web/", http.StripPrefix("/web/", http.FileServer(http.Dir(webDir))))

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/", "/web":
			target := "/web/"
			if v := pickView(w, r); v != "" {
				target += "?view=" + v
			}
			w.Header().Set("Vary", "Cookie")
			http.Redirect(w, r, target, http.StatusFound)
		default:
			http.NotFound(w, r)
		}
	})
}

func pickView(w http.ResponseWriter, r *http.Request) string {
	if v, ok := normalizeView(r.URL.Query().Get("view")); ok {
		rememberView(w, v)
		return v
	}
	if c, err := r.Cookie(viewCookieName); err == nil {
		if v, ok := normalizeView(c.Value); ok {
			return v
		}
	}
	return ""
}

func rememberView(w http.ResponseWriter, view string) {
	http.SetCookie(w, &http.Cookie{
		Name:     viewCookieName,
		Value:    view,
		Path:     "/",
		MaxAge:   30 * 24 * 60 * 60,
		SameSite: http.SameSiteLaxMode,
	})
}

func normalizeView(v string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "white", "w":
		return "white", true
	case "black", "b", "flipped":
		return "black", true
	default:
		return "", false
	}
}
