package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/spamlookup/spamlookup-backend/internal/models"
	"github.com/spamlookup/spamlookup-backend/internal/services"
)

// RequestLogger records method, path, acting user and payload for every
// request. The body is re-buffered so downstream handlers can read it again.
func RequestLogger(sessions services.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			entry := models.RequestLog{
				RequestType: r.Method,
				RequestPath: r.URL.Path,
				Data:        map[string]interface{}{},
			}

			if token := ExtractBearerToken(r.Header.Get("Authorization")); token != "" {
				if userID, ok, _ := sessions.Validate(r.Context(), token); ok {
					entry.UserID = userID.String()
				}
			}

			if r.Method == http.MethodPost || r.Method == http.MethodPut {
				if r.Body != nil {
					body, err := io.ReadAll(r.Body)
					if err == nil {
						r.Body = io.NopCloser(bytes.NewReader(body))
						var data map[string]interface{}
						if json.Unmarshal(body, &data) == nil {
							delete(data, "password") // never log credentials
							entry.Data = data
						}
					}
				}
			} else {
				for key, values := range r.URL.Query() {
					if len(values) > 0 {
						entry.Data[key] = values[0]
					}
				}
			}

			services.LogRequest(entry)
			next.ServeHTTP(w, r)
		})
	}
}

// ExtractBearerToken returns the token from an "Authorization: Bearer x"
// header value, or "" when the header is missing or malformed.
func ExtractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
