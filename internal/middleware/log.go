package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/constants"
	inHttp "github.com/Alturino/storefront/internal/http"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// Logging logs every outgoing request and its response status. Password fields in JSON
// bodies are masked.
func Logging(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		requestBody := map[string]any{}
		if r.Body != nil && r.GetBody != nil {
			if body, err := r.GetBody(); err == nil {
				json.NewDecoder(body).Decode(&requestBody)
				body.Close()
			}
		} else if r.Body != nil {
			var buffer bytes.Buffer
			tee := io.TeeReader(r.Body, &buffer)
			json.NewDecoder(tee).Decode(&requestBody)
			io.Copy(io.Discard, tee)
			r.Body.Close()
			r.Body = io.NopCloser(&buffer)
		}
		if requestBody["password"] != nil {
			requestBody["password"] = "****"
		}

		header := r.Header.Clone()
		if header.Get(inHttp.KEY_HEADER_AUTHORIZATION) != "" {
			header.Set(inHttp.KEY_HEADER_AUTHORIZATION, inHttp.VALUE_BEARER_PREFIX+"****")
		}

		logger := zerolog.Ctx(r.Context()).
			With().
			Str(constants.KEY_TAG, "middleware Logging").
			Dict(constants.KEY_REQUEST, zerolog.Dict().
				Any(constants.KEY_HEADER, header).
				Str(constants.KEY_REQUEST_METHOD, r.Method).
				Str(constants.KEY_REQUEST_URL, r.URL.String()).
				Any(constants.KEY_BODY, requestBody)).
			Logger()

		logger.Trace().Msg("sending request")
		start := time.Now()
		resp, err := next.RoundTrip(r)
		if err != nil {
			logger.Trace().Err(err).Dur(constants.KEY_ELAPSED, time.Since(start)).Msg("failed sending request")
			return resp, err
		}
		logger.Trace().
			Int(constants.KEY_RESPONSE_STATUS, resp.StatusCode).
			Dur(constants.KEY_ELAPSED, time.Since(start)).
			Msg("received response")
		return resp, nil
	})
}
