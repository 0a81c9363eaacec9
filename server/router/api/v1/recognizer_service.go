package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RecognizerInfo describes a registered recognizer.
type RecognizerInfo struct {
	Name    string `json:"name"`
	Pattern string `json:"pattern"`
}

// ListRecognizersResponse lists recognizers in registration order.
type ListRecognizersResponse struct {
	Recognizers []RecognizerInfo `json:"recognizers"`
}

// ListRecognizers returns the registered recognizers.
// GET /api/v1/recognizers
func (s *APIV1Service) ListRecognizers(c echo.Context) error {
	resp := ListRecognizersResponse{Recognizers: make([]RecognizerInfo, 0, len(s.recognizers))}
	for _, r := range s.recognizers {
		resp.Recognizers = append(resp.Recognizers, RecognizerInfo{Name: r.Name(), Pattern: r.Pattern().String()})
	}
	return c.JSON(http.StatusOK, resp)
}
