package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"praktijk/internal/auth"
	"praktijk/internal/export"
	"praktijk/internal/files"
	"praktijk/internal/services"
	"praktijk/internal/storage"
)

type testEnv struct {
	ts   *httptest.Server
	repo *storage.Repository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	repo, err := storage.New(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	docs, err := files.NewStore(filepath.Join(dir, "uploads"))
	if err != nil {
		t.Fatalf("files.NewStore: %v", err)
	}

	srv := NewServer(Options{
		Addr:           ":0",
		Repo:           repo,
		Auth:           auth.NewManager("test-secret-jwt-key-0123456789", time.Hour),
		Booking:        services.NewBookingService(repo, nil),
		Signals:        services.NewSignalService(repo),
		Exporter:       export.NewExporter(repo),
		Docs:           docs,
		MetricsEnabled: true,
	})

	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(func() {
		ts.Close()
		srv.Shutdown(context.Background())
	})

	return &testEnv{ts: ts, repo: repo}
}

func (e *testEnv) doJSON(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, e.ts.URL+path, r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.ts.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func (e *testEnv) register(t *testing.T, username string) string {
	t.Helper()

	resp := e.doJSON(t, http.MethodPost, "/api/register", "", map[string]string{
		"username": username,
		"password": "wachtwoord123",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	tok := decodeBody[tokenResponse](t, resp)
	if tok.Token == "" {
		t.Fatal("register returned empty token")
	}
	return tok.Token
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	env.register(t, "Anja")

	t.Run("duplicate username conflicts", func(t *testing.T) {
		resp := env.doJSON(t, http.MethodPost, "/api/register", "", map[string]string{
			"username": "anja", "password": "wachtwoord123",
		})
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusConflict {
			t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusConflict)
		}
	})

	t.Run("short password rejected", func(t *testing.T) {
		resp := env.doJSON(t, http.MethodPost, "/api/register", "", map[string]string{
			"username": "bert", "password": "kort",
		})
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
		}
	})

	t.Run("login is case insensitive on username", func(t *testing.T) {
		resp := env.doJSON(t, http.MethodPost, "/api/login", "", map[string]string{
			"username": "ANJA", "password": "wachtwoord123",
		})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}
		tok := decodeBody[tokenResponse](t, resp)
		if tok.Username != "anja" {
			t.Errorf("username = %q, want %q", tok.Username, "anja")
		}
	})

	t.Run("wrong password unauthorized", func(t *testing.T) {
		resp := env.doJSON(t, http.MethodPost, "/api/login", "", map[string]string{
			"username": "anja", "password": "verkeerd-wachtwoord",
		})
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
		}
	})

	t.Run("verify token", func(t *testing.T) {
		resp := env.doJSON(t, http.MethodPost, "/api/login", "", map[string]string{
			"username": "anja", "password": "wachtwoord123",
		})
		tok := decodeBody[tokenResponse](t, resp)

		verify := env.doJSON(t, http.MethodGet, "/api/verify-token", tok.Token, nil)
		got := decodeBody[map[string]any](t, verify)
		if got["valid"] != true || got["username"] != "anja" {
			t.Errorf("verify = %v", got)
		}
	})
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/api/klanten", "/api/afspraken", "/api/terugbetaling-signalen"} {
		resp := env.doJSON(t, http.MethodGet, path, "", nil)
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("GET %s without token: status = %d, want %d", path, resp.StatusCode, http.StatusUnauthorized)
		}
	}

	resp := env.doJSON(t, http.MethodGet, "/api/klanten", "not-a-token", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("garbage token: status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}
}

func TestSeededReferenceData(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "praktijk")

	resp := env.doJSON(t, http.MethodGet, "/api/consulttypes", token, nil)
	types := decodeBody[[]consultTypeResponse](t, resp)
	if len(types) != 5 {
		t.Fatalf("seeded consult types = %d, want 5", len(types))
	}
	var intake *consultTypeResponse
	for i := range types {
		if types[i].Name == "Intake gesprek" {
			intake = &types[i]
		}
	}
	if intake == nil || intake.Price == nil || *intake.Price != "60,00" {
		t.Errorf("intake type price = %+v, want 60,00", intake)
	}

	funds := decodeBody[[]fundResponse](t, env.doJSON(t, http.MethodGet, "/api/mutualiteiten", token, nil))
	if len(funds) != 8 {
		t.Errorf("seeded funds = %d, want 8", len(funds))
	}

	categories := decodeBody[[]categoryResponse](t, env.doJSON(t, http.MethodGet, "/api/categorieen", token, nil))
	if len(categories) != 7 {
		t.Errorf("seeded categories = %d, want 7", len(categories))
	}
}

func TestConsultTypeCRUD(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "praktijk")

	resp := env.doJSON(t, http.MethodPost, "/api/consulttypes", token, map[string]any{
		"name": "Huisbezoek", "price": "75,50",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	created := decodeBody[consultTypeResponse](t, resp)
	if created.Price == nil || *created.Price != "75,50" {
		t.Errorf("price = %v, want 75,50", created.Price)
	}

	resp = env.doJSON(t, http.MethodPut, fmt.Sprintf("/api/consulttypes/%d", created.ID), token, map[string]any{
		"name": "Huisbezoek lang", "price": "90",
	})
	updated := decodeBody[consultTypeResponse](t, resp)
	if updated.Name != "Huisbezoek lang" || *updated.Price != "90,00" {
		t.Errorf("updated = %+v", updated)
	}

	t.Run("invalid price rejected", func(t *testing.T) {
		resp := env.doJSON(t, http.MethodPost, "/api/consulttypes", token, map[string]any{
			"name": "Gratis", "price": "abc",
		})
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
		}
	})

	t.Run("update of missing id is 404", func(t *testing.T) {
		resp := env.doJSON(t, http.MethodPut, "/api/consulttypes/99999", token, map[string]any{
			"name": "Spook",
		})
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
		}
	})
}

func TestClientCRUD(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "praktijk")

	funds := decodeBody[[]fundResponse](t, env.doJSON(t, http.MethodGet, "/api/mutualiteiten", token, nil))
	var cmID int64
	for _, f := range funds {
		if f.Name == "CM" {
			cmID = f.ID
		}
	}
	if cmID == 0 {
		t.Fatal("seeded CM fund not found")
	}

	resp := env.doJSON(t, http.MethodPost, "/api/klanten", token, map[string]any{
		"first_name": "An",
		"last_name":  "Peeters",
		"email":      "an@example.org",
		"start_date": "2025-02-01",
		"fund_id":    cmID,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	created := decodeBody[clientResponse](t, resp)

	list := decodeBody[[]clientResponse](t, env.doJSON(t, http.MethodGet, "/api/klanten", token, nil))
	if len(list) != 1 {
		t.Fatalf("clients = %d, want 1", len(list))
	}
	if list[0].FundName != "CM" {
		t.Errorf("fund_name = %q, want CM", list[0].FundName)
	}

	resp = env.doJSON(t, http.MethodPut, fmt.Sprintf("/api/klanten/%d", created.ID), token, map[string]any{
		"first_name": "An", "last_name": "Peeters-Claes", "exception": true,
	})
	updated := decodeBody[clientResponse](t, resp)
	if updated.LastName != "Peeters-Claes" || !updated.Exception {
		t.Errorf("updated = %+v", updated)
	}

	t.Run("empty name rejected", func(t *testing.T) {
		resp := env.doJSON(t, http.MethodPost, "/api/klanten", token, map[string]any{
			"first_name": " ", "last_name": "Peeters",
		})
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
		}
	})
}

// appointmentForm posts a multipart afspraak, optionally with a PDF document.
func (e *testEnv) appointmentForm(t *testing.T, token string, fields map[string]string, pdf []byte) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if pdf != nil {
		part, err := mw.CreateFormFile("document", "voorschrift.pdf")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(pdf); err != nil {
			t.Fatalf("write pdf: %v", err)
		}
	}
	mw.Close()

	req, err := http.NewRequest(http.MethodPost, e.ts.URL+"/api/afspraken", &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := e.ts.Client().Do(req)
	if err != nil {
		t.Fatalf("post afspraak: %v", err)
	}
	return resp
}

func testPDF() []byte {
	return []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")
}

func setupClientWithFund(t *testing.T, env *testEnv, token, fundName string) (clientID, typeID int64) {
	t.Helper()

	funds := decodeBody[[]fundResponse](t, env.doJSON(t, http.MethodGet, "/api/mutualiteiten", token, nil))
	var fundID *int64
	for _, f := range funds {
		if f.Name == fundName {
			id := f.ID
			fundID = &id
		}
	}
	if fundName != "" && fundID == nil {
		t.Fatalf("fund %q not seeded", fundName)
	}

	body := map[string]any{"first_name": "An", "last_name": "Peeters"}
	if fundID != nil {
		body["fund_id"] = *fundID
	}
	client := decodeBody[clientResponse](t, env.doJSON(t, http.MethodPost, "/api/klanten", token, body))

	types := decodeBody[[]consultTypeResponse](t, env.doJSON(t, http.MethodGet, "/api/consulttypes", token, nil))
	for _, ct := range types {
		if ct.Name == "Intake gesprek" {
			typeID = ct.ID
		}
	}
	return client.ID, typeID
}

func TestCreateAppointment(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "praktijk")
	clientID, typeID := setupClientWithFund(t, env, token, "CM")

	resp := env.appointmentForm(t, token, map[string]string{
		"datum":           "2025-03-14",
		"klant_id":        fmt.Sprintf("%d", clientID),
		"type_id":         fmt.Sprintf("%d", typeID),
		"aantal":          "2",
		"terugbetaalbaar": "true",
		"opmerking":       "tweede sessie aansluitend",
	}, nil)
	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
	}
	created := decodeBody[appointmentResponse](t, resp)

	// Price comes from the consultation type, total is price times quantity.
	if created.Price != "60,00" {
		t.Errorf("price = %q, want 60,00", created.Price)
	}
	if created.Total != "120,00" {
		t.Errorf("total = %q, want 120,00", created.Total)
	}
	if !created.Reimbursable {
		t.Error("expected reimbursable appointment")
	}

	list := decodeBody[[]appointmentResponse](t, env.doJSON(t, http.MethodGet, "/api/afspraken", token, nil))
	if len(list) != 1 {
		t.Fatalf("appointments = %d, want 1", len(list))
	}
	if list[0].ClientName != "An Peeters" || list[0].TypeName != "Intake gesprek" {
		t.Errorf("joined names = %q / %q", list[0].ClientName, list[0].TypeName)
	}

	t.Run("price override", func(t *testing.T) {
		resp := env.appointmentForm(t, token, map[string]string{
			"datum":    "2025-03-15",
			"klant_id": fmt.Sprintf("%d", clientID),
			"type_id":  fmt.Sprintf("%d", typeID),
			"prijs":    "45,50",
		}, nil)
		created := decodeBody[appointmentResponse](t, resp)
		if created.Price != "45,50" || created.Total != "45,50" {
			t.Errorf("price = %q total = %q, want 45,50 both", created.Price, created.Total)
		}
	})

	t.Run("invalid date rejected", func(t *testing.T) {
		resp := env.appointmentForm(t, token, map[string]string{
			"datum":    "14/03/2025",
			"klant_id": fmt.Sprintf("%d", clientID),
			"type_id":  fmt.Sprintf("%d", typeID),
		}, nil)
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
		}
	})

	t.Run("unknown consult type is 404", func(t *testing.T) {
		resp := env.appointmentForm(t, token, map[string]string{
			"datum":    "2025-03-14",
			"klant_id": fmt.Sprintf("%d", clientID),
			"type_id":  "99999",
		}, nil)
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
		}
	})
}

func TestAppointmentDocument(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "praktijk")
	clientID, typeID := setupClientWithFund(t, env, token, "")

	resp := env.appointmentForm(t, token, map[string]string{
		"datum":    "2025-03-14",
		"klant_id": fmt.Sprintf("%d", clientID),
		"type_id":  fmt.Sprintf("%d", typeID),
	}, testPDF())
	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
	}
	created := decodeBody[appointmentResponse](t, resp)
	if !created.HasDocument {
		t.Fatal("expected has_document to be true")
	}

	docResp := env.doJSON(t, http.MethodGet, fmt.Sprintf("/api/afspraken/%d/document", created.ID), token, nil)
	defer docResp.Body.Close()
	if docResp.StatusCode != http.StatusOK {
		t.Fatalf("document status = %d", docResp.StatusCode)
	}
	if ct := docResp.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("content type = %q, want application/pdf", ct)
	}
	got, _ := io.ReadAll(docResp.Body)
	if !bytes.Equal(got, testPDF()) {
		t.Error("document content mismatch")
	}

	t.Run("non-pdf upload rejected", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		mw.WriteField("datum", "2025-03-14")
		mw.WriteField("klant_id", fmt.Sprintf("%d", clientID))
		mw.WriteField("type_id", fmt.Sprintf("%d", typeID))
		part, _ := mw.CreateFormFile("document", "notes.txt")
		part.Write([]byte("gewoon tekst"))
		mw.Close()

		req, _ := http.NewRequest(http.MethodPost, env.ts.URL+"/api/afspraken", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := env.ts.Client().Do(req)
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
		}
	})

	t.Run("appointment without document is 404", func(t *testing.T) {
		plain := decodeBody[appointmentResponse](t, env.appointmentForm(t, token, map[string]string{
			"datum":    "2025-03-15",
			"klant_id": fmt.Sprintf("%d", clientID),
			"type_id":  fmt.Sprintf("%d", typeID),
		}, nil))

		resp := env.doJSON(t, http.MethodGet, fmt.Sprintf("/api/afspraken/%d/document", plain.ID), token, nil)
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
		}
	})
}

func TestCreateExpense(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "praktijk")

	categories := decodeBody[[]categoryResponse](t, env.doJSON(t, http.MethodGet, "/api/categorieen", token, nil))
	var huurID int64
	for _, c := range categories {
		if c.Name == "Huur" {
			huurID = c.ID
		}
	}

	resp := env.doJSON(t, http.MethodPost, "/api/uitgaven", token, map[string]any{
		"date":           "2025-03-01",
		"description":    "Huur praktijkruimte maart",
		"category_id":    huurID,
		"amount":         "450",
		"payment_method": "overschrijving",
	})
	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
	}
	created := decodeBody[expenseResponse](t, resp)
	if created.Amount != "450,00" {
		t.Errorf("amount = %q, want 450,00", created.Amount)
	}

	list := decodeBody[[]expenseResponse](t, env.doJSON(t, http.MethodGet, "/api/uitgaven", token, nil))
	if len(list) != 1 || list[0].CategoryName != "Huur" {
		t.Errorf("list = %+v", list)
	}

	t.Run("zero amount rejected", func(t *testing.T) {
		resp := env.doJSON(t, http.MethodPost, "/api/uitgaven", token, map[string]any{
			"date": "2025-03-01", "description": "gratis", "amount": "0",
		})
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
		}
	})
}

func TestDashboardAndMonthOverview(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "praktijk")
	clientID, typeID := setupClientWithFund(t, env, token, "")

	today := time.Now().UTC().Format("2006-01-02")
	env.appointmentForm(t, token, map[string]string{
		"datum": today, "klant_id": fmt.Sprintf("%d", clientID), "type_id": fmt.Sprintf("%d", typeID),
	}, nil).Body.Close()
	env.doJSON(t, http.MethodPost, "/api/uitgaven", token, map[string]any{
		"date": today, "description": "Materiaal", "amount": "10",
	}).Body.Close()

	dash := decodeBody[dashboardResponse](t, env.doJSON(t, http.MethodGet, "/api/dashboard", token, nil))
	if dash.Income != "60,00" || dash.Expenses != "10,00" || dash.Net != "50,00" {
		t.Errorf("dashboard = %+v", dash)
	}

	year := time.Now().UTC().Year()
	rows := decodeBody[[]monthRowResponse](t, env.doJSON(t, http.MethodGet, fmt.Sprintf("/api/maandoverzicht?year=%d", year), token, nil))
	if len(rows) != 12 {
		t.Fatalf("overview rows = %d, want 12", len(rows))
	}
	month := int(time.Now().UTC().Month())
	if rows[month-1].Income != "60,00" || rows[month-1].Net != "50,00" {
		t.Errorf("month %d row = %+v", month, rows[month-1])
	}
	if rows[0].Month != 1 || rows[11].Month != 12 {
		t.Errorf("months not 1..12: first = %d last = %d", rows[0].Month, rows[11].Month)
	}
}

func TestSignalsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "praktijk")
	clientID, typeID := setupClientWithFund(t, env, token, "CM")

	signals := func() []map[string]any {
		return decodeBody[[]map[string]any](t, env.doJSON(t, http.MethodGet, "/api/terugbetaling-signalen", token, nil))
	}

	if got := signals(); len(got) != 0 {
		t.Fatalf("signals before any session = %d, want 0", len(got))
	}

	today := time.Now().UTC().Format("2006-01-02")
	for i := 0; i < 4; i++ {
		resp := env.appointmentForm(t, token, map[string]string{
			"datum":           today,
			"klant_id":        fmt.Sprintf("%d", clientID),
			"type_id":         fmt.Sprintf("%d", typeID),
			"terugbetaalbaar": "true",
		}, nil)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("appointment %d: status = %d", i+1, resp.StatusCode)
		}
		resp.Body.Close()
	}

	// The write invalidated the cached evaluation, so the fourth session is
	// visible immediately.
	got := signals()
	if len(got) != 1 {
		t.Fatalf("signals = %d, want 1", len(got))
	}
	if got[0]["fund_name"] != "CM" {
		t.Errorf("fund_name = %v, want CM", got[0]["fund_name"])
	}
	if n, _ := got[0]["session_count"].(float64); n != 4 {
		t.Errorf("session_count = %v, want 4", got[0]["session_count"])
	}
	msg, _ := got[0]["message"].(string)
	if !strings.Contains(msg, "40 EUR") {
		t.Errorf("message = %q, want mention of the 40 EUR allowance", msg)
	}
}

func TestExportEndpoint(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "praktijk")
	clientID, typeID := setupClientWithFund(t, env, token, "")

	env.appointmentForm(t, token, map[string]string{
		"datum": "2025-03-14", "klant_id": fmt.Sprintf("%d", clientID), "type_id": fmt.Sprintf("%d", typeID),
	}, nil).Body.Close()

	resp := env.doJSON(t, http.MethodGet, "/api/export?year=2025", token, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("content type = %q", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "boekhouding-2025.xlsx") {
		t.Errorf("content disposition = %q", cd)
	}
	body, _ := io.ReadAll(resp.Body)
	// XLSX files are zip archives.
	if len(body) < 4 || body[0] != 'P' || body[1] != 'K' {
		t.Error("export body is not a zip archive")
	}
}

func TestTenantIsolation(t *testing.T) {
	env := newTestEnv(t)
	tokenA := env.register(t, "praktijk-a")
	tokenB := env.register(t, "praktijk-b")

	env.doJSON(t, http.MethodPost, "/api/klanten", tokenA, map[string]any{
		"first_name": "An", "last_name": "Peeters",
	}).Body.Close()

	listB := decodeBody[[]clientResponse](t, env.doJSON(t, http.MethodGet, "/api/klanten", tokenB, nil))
	if len(listB) != 0 {
		t.Errorf("tenant B sees %d clients of tenant A", len(listB))
	}
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		resp := env.doJSON(t, http.MethodGet, path, "", nil)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s: status = %d", path, resp.StatusCode)
		}
	}

	resp := env.doJSON(t, http.MethodGet, "/metrics", "", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /metrics: status = %d", resp.StatusCode)
	}
}
