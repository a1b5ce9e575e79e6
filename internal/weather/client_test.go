package weather

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const currentBody = `{
	"main": {"temp": 12.5, "feels_like": 11.2, "humidity": 60},
	"wind": {"speed": 4.1},
	"weather": [{"id": 800, "main": "Clear", "description": "clear sky", "icon": "01d"}]
}`

func forecastBody(t *testing.T) string {
	t.Helper()
	base := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.Local)
	list := ""
	for i := 0; i < 8; i++ {
		if i > 0 {
			list += ","
		}
		dt := base.Add(time.Duration(i*3) * time.Hour).Unix()
		list += fmt.Sprintf(`{
			"dt": %d,
			"main": {"temp": %d, "feels_like": %d, "humidity": 70},
			"wind": {"speed": 3},
			"weather": [{"id": 801, "main": "Clouds", "description": "few clouds", "icon": "02d"}]
		}`, dt, 10+i, 9+i)
	}
	return `{"list": [` + list + `]}`
}

func newTestServer(t *testing.T, current, forecast http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/weather", current)
	mux.HandleFunc("/forecast", forecast)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func serveJSON(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}
}

// dropConnection kills the TCP connection without writing a response, so
// the client observes a transport-level failure.
func dropConnection(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hj, ok := w.(http.Hijacker)
		if !ok {
			t.Errorf("response writer must support hijacking")
			return
		}
		conn, _, err := hj.Hijack()
		if err != nil {
			t.Errorf("hijack: %v", err)
			return
		}
		conn.Close()
	}
}

func TestFetchSuccess(t *testing.T) {
	var currentQuery, forecastQuery map[string][]string
	srv := newTestServer(t,
		func(w http.ResponseWriter, r *http.Request) {
			currentQuery = r.URL.Query()
			serveJSON(currentBody)(w, r)
		},
		func(w http.ResponseWriter, r *http.Request) {
			forecastQuery = r.URL.Query()
			serveJSON(forecastBody(t))(w, r)
		},
	)

	client := NewClient(srv.Client(), "test-key", WithBaseURL(srv.URL))
	resp, err := client.Fetch(context.Background(), NewLocation("Paris, FR", 48.8566, 2.3522))
	require.NoError(t, err)

	require.Equal(t, 12.5, resp.Current.Temp)
	require.Equal(t, 11.2, resp.Current.FeelsLike)
	require.Equal(t, 60.0, resp.Current.Humidity)
	require.Equal(t, 4.1, resp.Current.WindSpeed)
	require.Len(t, resp.Current.Weather, 1)
	require.Equal(t, "01d", resp.Current.Weather[0].Icon)

	require.Len(t, resp.Daily, 1)
	require.Equal(t, 10.0, resp.Daily[0].Temp.Min)
	require.Equal(t, 17.0, resp.Daily[0].Temp.Max)

	for _, query := range []map[string][]string{currentQuery, forecastQuery} {
		require.Equal(t, []string{"48.8566"}, query["lat"])
		require.Equal(t, []string{"2.3522"}, query["lon"])
		require.Equal(t, []string{"metric"}, query["units"])
		require.Equal(t, []string{"test-key"}, query["appid"])
	}
}

func TestFetchNetworkErrorOnOneLeg(t *testing.T) {
	srv := newTestServer(t,
		dropConnection(t),
		serveJSON(forecastBody(t)),
	)

	client := NewClient(srv.Client(), "test-key", WithBaseURL(srv.URL))
	_, err := client.Fetch(context.Background(), NewLocation("Paris, FR", 48.8566, 2.3522))
	require.Error(t, err)
	require.Equal(t, CodeNetworkError, CodeOf(err))
}

func TestFetchProviderErrorCode(t *testing.T) {
	unauthorized := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"cod":"401","message":"Invalid API key"}`)
	}
	srv := newTestServer(t, unauthorized, unauthorized)

	client := NewClient(srv.Client(), "bad-key", WithBaseURL(srv.URL))
	_, err := client.Fetch(context.Background(), NewLocation("Paris, FR", 48.8566, 2.3522))
	require.Error(t, err)

	require.Equal(t, "401", CodeOf(err))
	require.Equal(t, "Invalid API key", err.Error())
}

func TestFetchStatusFallbackOnUnparseableBody(t *testing.T) {
	broken := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, "<html>gateway timeout</html>")
	}
	srv := newTestServer(t, broken, serveJSON(forecastBody(t)))

	client := NewClient(srv.Client(), "test-key", WithBaseURL(srv.URL))
	_, err := client.Fetch(context.Background(), NewLocation("Paris, FR", 48.8566, 2.3522))
	require.Error(t, err)
	require.Equal(t, "503", CodeOf(err))
}

func TestFetchCurrentLegCheckedFirst(t *testing.T) {
	status := func(status int, cod string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			fmt.Fprintf(w, `{"cod":"%s","message":"err"}`, cod)
		}
	}
	srv := newTestServer(t, status(401, "401"), status(404, "404"))

	client := NewClient(srv.Client(), "test-key", WithBaseURL(srv.URL))
	_, err := client.Fetch(context.Background(), NewLocation("Paris, FR", 48.8566, 2.3522))
	require.Equal(t, "401", CodeOf(err))
}

func TestFetchEmptyForecastListWrapped(t *testing.T) {
	srv := newTestServer(t, serveJSON(currentBody), serveJSON(`{"list": []}`))

	client := NewClient(srv.Client(), "test-key", WithBaseURL(srv.URL))
	_, err := client.Fetch(context.Background(), NewLocation("Paris, FR", 48.8566, 2.3522))
	require.Error(t, err)

	// Aggregation failures surface through the UNKNOWN wrapper only when
	// not already classified; EMPTY_INPUT is classified and passes through.
	require.Equal(t, CodeEmptyInput, CodeOf(err))
}
