package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	api "github.com/mind-engage/growthchart/internal/api/http"
	"github.com/mind-engage/growthchart/internal/db"
	"github.com/mind-engage/growthchart/internal/growth"
	"github.com/mind-engage/growthchart/internal/percentile"
	syncx "github.com/mind-engage/growthchart/internal/sync"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	refs, err := percentile.LoadStore(context.Background(), percentile.EmbeddedLoader())
	if err != nil {
		t.Fatalf("load charts: %v", err)
	}
	c := percentile.NewClassifier(refs)
	r := chi.NewRouter()
	api.Mount(r, growth.NewInMemoryStore(c), c, nil)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, b
}

func TestClassify(t *testing.T) {
	srv := newServer(t)
	tests := []struct {
		name   string
		body   string
		status int
		label  string
	}{
		{"median boy", `{"sex":"H","age":1,"height":75.0,"weight":9.5}`, 200, "P50"},
		{"unknown sex", `{"sex":"X","age":1,"height":75.0,"weight":9.5}`, 400, ""},
		{"too old", `{"sex":"F","age":6,"height":110,"weight":18}`, 400, ""},
		{"missing weight", `{"sex":"F","age":1,"height":75}`, 400, ""},
		{"bad json", `{`, 400, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, "POST", srv.URL+"/classify", tt.body)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d (%s)", resp.StatusCode, tt.status, body)
			}
			if tt.label == "" {
				return
			}
			var res struct {
				Label     string  `json:"label"`
				Partition string  `json:"partition"`
				Height    float64 `json:"height"`
			}
			if err := json.Unmarshal(body, &res); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if res.Label != tt.label || res.Partition != "male_0_2" || res.Height != 75 {
				t.Fatalf("unexpected result %+v", res)
			}
		})
	}
}

func TestInfantsAndMeasurements(t *testing.T) {
	srv := newServer(t)

	resp, body := do(t, "POST", srv.URL+"/infants", `{"id":10,"name":"Ana","age":1,"sex":"F","weight":8.9,"height":74}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create infant: %d %s", resp.StatusCode, body)
	}
	resp, _ = do(t, "POST", srv.URL+"/infants", `{"id":10,"name":"Ana","age":1,"sex":"F"}`)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate infant: %d", resp.StatusCode)
	}
	resp, _ = do(t, "POST", srv.URL+"/infants", `{"id":11,"name":"Bo","age":1,"sex":"Q"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad sex: %d", resp.StatusCode)
	}

	resp, body = do(t, "POST", srv.URL+"/infants/10/measurements", `{"weight":9.31,"height":75}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("record: %d %s", resp.StatusCode, body)
	}
	var ms growth.Measurement
	if err := json.Unmarshal(body, &ms); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ms.Label != "P50" || ms.Chart != "female_0_2" {
		t.Fatalf("unexpected measurement %+v", ms)
	}

	resp, body = do(t, "GET", srv.URL+"/measurements/"+ms.ID, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get measurement: %d %s", resp.StatusCode, body)
	}
	resp, body = do(t, "GET", srv.URL+"/infants/10/measurements", "")
	var list []growth.Measurement
	if resp.StatusCode != http.StatusOK || json.Unmarshal(body, &list) != nil || len(list) != 1 {
		t.Fatalf("list measurements: %d %s", resp.StatusCode, body)
	}

	for path, want := range map[string]int{
		"/infants/10":               http.StatusOK,
		"/infants/404":              http.StatusNotFound,
		"/infants/abc":              http.StatusBadRequest,
		"/infants/404/measurements": http.StatusNotFound,
		"/measurements/missing":     http.StatusNotFound,
		"/infants?q=an":             http.StatusOK,
	} {
		if resp, body := do(t, "GET", srv.URL+path, ""); resp.StatusCode != want {
			t.Fatalf("GET %s = %d, want %d (%s)", path, resp.StatusCode, want, body)
		}
	}

	resp, _ = do(t, "POST", srv.URL+"/infants/10/measurements", `{"age":9,"weight":20,"height":110}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unsupported age: %d", resp.StatusCode)
	}
}

func TestEvents(t *testing.T) {
	ctx := context.Background()
	dbh, err := db.Open(ctx, db.DriverSQLite, "file:api_events?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer dbh.Close()
	refs, err := percentile.LoadStore(ctx, percentile.EmbeddedLoader())
	if err != nil {
		t.Fatalf("load charts: %v", err)
	}
	c := percentile.NewClassifier(refs)
	r := chi.NewRouter()
	api.Mount(r, growth.NewSQLStore(dbh, c), c, syncx.NewEventRepo(dbh))
	srv := httptest.NewServer(r)
	defer srv.Close()

	if resp, body := do(t, "POST", srv.URL+"/infants", `{"id":1,"name":"Leo","age":3,"sex":"M","weight":14,"height":95}`); resp.StatusCode != http.StatusCreated {
		t.Fatalf("create infant: %d %s", resp.StatusCode, body)
	}
	if resp, body := do(t, "POST", srv.URL+"/infants/1/measurements", `{"weight":14.2,"height":95.5}`); resp.StatusCode != http.StatusCreated {
		t.Fatalf("record: %d %s", resp.StatusCode, body)
	}

	resp, body := do(t, "GET", srv.URL+"/events?after=0", "")
	var events []syncx.Event
	if resp.StatusCode != http.StatusOK || json.Unmarshal(body, &events) != nil {
		t.Fatalf("events: %d %s", resp.StatusCode, body)
	}
	if len(events) != 1 || events[0].Type != syncx.TypeMeasurementRecorded {
		t.Fatalf("unexpected events %+v", events)
	}

	_, body = do(t, "GET", srv.URL+"/events?after="+strconv.FormatInt(events[0].Seq, 10), "")
	if strings.TrimSpace(string(body)) != "[]" {
		t.Fatalf("expected no newer events, got %s", body)
	}
}
