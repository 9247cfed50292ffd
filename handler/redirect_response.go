package handler

import "net/http"

type redirectResponse struct {
	url string
}

// Render answers 303 for regular requests. DataStar requests follow an SSE
// redirect script instead, since fetch would swallow a 303.
func (r redirectResponse) Render(w http.ResponseWriter, req *http.Request) error {
	if IsDataStar(req) {
		return NewSSE(w, req).Redirect(r.url)
	}
	http.Redirect(w, req, r.url, http.StatusSeeOther)
	return nil
}

//	return handler.Redirect("/dashboard")
func Redirect(url string) Response {
	return redirectResponse{url: url}
}
