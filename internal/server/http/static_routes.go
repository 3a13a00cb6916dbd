package httpserver

import "net/http"

// RegisterStaticRoutes mounts:
// - /web/* -> 前端页面
// - /      -> 跳到 /web/
func RegisterStaticRoutes(mux *http.ServeMux, webDir string) {
	if mux == nil {
		return
	}
	if webDir == "" {
		webDir = "web"
	}

	mux.Handle("/web/", http.StripPrefix("/web/", http.FileServer(http.Dir(webDir))))

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/", "/web":
			http.Redirect(w, r, "/web/", http.StatusFound)
		default:
			http.NotFound(w, r)
		}
	})
}
